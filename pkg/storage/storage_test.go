package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	name := ObjectName("u1", `C:\uploads\cat.png`)
	assert.True(t, strings.HasPrefix(name, "images/u1_"))
	assert.True(t, strings.HasSuffix(name, "-cat.png"))
	assert.NotEqual(t, name, ObjectName("u1", "cat.png"))

	_, ok := CleanRef(ObjectName("../evil", "cat.png"))
	assert.True(t, ok)
}

func TestOwnedBy(t *testing.T) {
	name := ObjectName("u1", "cat.png")

	assert.True(t, OwnedBy(name, "u1"))
	assert.False(t, OwnedBy(name, "u2"))
	assert.False(t, OwnedBy(name, ""))
	assert.False(t, OwnedBy(ObjectName("u10", "cat.png"), "u1"))
	assert.False(t, OwnedBy("images/cat.png", "u1"))
}

func TestCleanRef(t *testing.T) {
	ref, ok := CleanRef(`images\a.png`)
	assert.True(t, ok)
	assert.Equal(t, "images/a.png", ref)

	ref, ok = CleanRef("/images/a.png")
	assert.True(t, ok)
	assert.Equal(t, "images/a.png", ref)

	_, ok = CleanRef("images/../main.go")
	assert.False(t, ok)
	_, ok = CleanRef("etc/passwd")
	assert.False(t, ok)
}

func TestLocalStore(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	ref, err := store.Save(ctx, ObjectName("u1", "a.png"), "image/png", strings.NewReader("png-bytes"), 9)
	require.NoError(t, err)

	loc, err := store.Resolve(ctx, ref)
	require.NoError(t, err)
	data, err := os.ReadFile(loc.Path)
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(data))

	objects, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, objects, 1)
	assert.Equal(t, ref, objects[0].Ref)

	require.NoError(t, store.Delete(ctx, ref))
	assert.Error(t, store.Delete(ctx, ref))

	objects, err = store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, objects)
}

type mockMinio struct {
	mock.Mock
}

func (m *mockMinio) ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	return m.Called(ctx, bucketName, opts).Get(0).(<-chan minio.ObjectInfo)
}

func (m *mockMinio) PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error) {
	args := m.Called(ctx, bucketName, objectName, expires, reqParams)
	u, _ := args.Get(0).(*url.URL)
	return u, args.Error(1)
}

func (m *mockMinio) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, opts)
	return minio.UploadInfo{Key: objectName}, args.Error(0)
}

func (m *mockMinio) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return m.Called(ctx, bucketName, objectName, opts).Error(0)
}

func TestMinioStore(t *testing.T) {
	client := new(mockMinio)
	store := NewMinioStoreWithClient(client, "feed")
	ctx := context.Background()

	t.Run("Save", func(t *testing.T) {
		client.On("PutObject", ctx, "feed", "images/x-a.png", mock.Anything, int64(3),
			minio.PutObjectOptions{ContentType: "image/png"}).Return(nil).Once()

		ref, err := store.Save(ctx, "images/x-a.png", "image/png", bytes.NewReader([]byte("abc")), 3)
		require.NoError(t, err)
		assert.Equal(t, "images/x-a.png", ref)
	})

	t.Run("Delete", func(t *testing.T) {
		client.On("RemoveObject", ctx, "feed", "images/x-a.png", minio.RemoveObjectOptions{}).
			Return(errors.New("boom")).Once()
		assert.Error(t, store.Delete(ctx, "images/x-a.png"))
	})

	t.Run("List", func(t *testing.T) {
		ch := make(chan minio.ObjectInfo, 2)
		ch <- minio.ObjectInfo{Key: "images/1-a.png"}
		ch <- minio.ObjectInfo{Key: "images/2-b.jpg"}
		close(ch)
		client.On("ListObjects", mock.Anything, "feed", mock.Anything).Return((<-chan minio.ObjectInfo)(ch)).Once()

		objects, err := store.List(ctx)
		require.NoError(t, err)
		assert.Len(t, objects, 2)
	})

	t.Run("Resolve", func(t *testing.T) {
		u, _ := url.Parse("https://s3.example.com/feed/images/1-a.png?sig=1")
		client.On("PresignedGetObject", ctx, "feed", "images/1-a.png", presignExpiry, url.Values{}).Return(u, nil).Once()

		loc, err := store.Resolve(ctx, "images/1-a.png")
		require.NoError(t, err)
		assert.Equal(t, u.String(), loc.URL)
	})

	client.AssertExpectations(t)
}
