package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// ClientMinio is the subset of *minio.Client the store uses
type ClientMinio interface {
	ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expires time.Duration, reqParams url.Values) (*url.URL, error)
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error
}

const (
	defaultContentType = "application/octet-stream"
	presignExpiry      = 15 * time.Minute
)

// MinioStore keeps assets in an S3-compatible bucket
type MinioStore struct {
	bucketName string
	client     ClientMinio
}

// NewMinioStore creates a bucket-backed store, creating the bucket if needed
func NewMinioStore(ctx context.Context, endpoint, accessKeyID, secretAccessKey, bucketName string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKeyID, secretAccessKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucketName, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucketName, err)
		}
		log.Printf("[Storage] Created bucket %s", bucketName)
	}

	return NewMinioStoreWithClient(client, bucketName), nil
}

func NewMinioStoreWithClient(client ClientMinio, bucketName string) *MinioStore {
	return &MinioStore{
		bucketName: bucketName,
		client:     client,
	}
}

func (s *MinioStore) Save(ctx context.Context, name, contentType string, r io.Reader, size int64) (string, error) {
	ref, ok := CleanRef(name)
	if !ok {
		return "", fmt.Errorf("invalid asset name %q", name)
	}
	if contentType == "" {
		contentType = defaultContentType
	}

	_, err := s.client.PutObject(ctx, s.bucketName, ref, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", ref, err)
	}
	return ref, nil
}

func (s *MinioStore) Delete(ctx context.Context, ref string) error {
	cleaned, ok := CleanRef(ref)
	if !ok {
		return fmt.Errorf("invalid asset ref %q", ref)
	}
	if err := s.client.RemoveObject(ctx, s.bucketName, cleaned, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove %s: %w", cleaned, err)
	}
	return nil
}

func (s *MinioStore) List(ctx context.Context) ([]ObjectInfo, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	result := make([]ObjectInfo, 0)
	objectCh := s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    Prefix + "/",
		Recursive: true,
	})
	for object := range objectCh {
		if object.Err != nil {
			return result, fmt.Errorf("list objects: %w", object.Err)
		}
		result = append(result, ObjectInfo{
			Ref:          object.Key,
			LastModified: object.LastModified,
		})
	}
	return result, nil
}

func (s *MinioStore) Resolve(ctx context.Context, ref string) (Location, error) {
	cleaned, ok := CleanRef(ref)
	if !ok {
		return Location{}, fmt.Errorf("invalid asset ref %q", ref)
	}

	presignedURL, err := s.client.PresignedGetObject(ctx, s.bucketName, cleaned, presignExpiry, url.Values{})
	if err != nil {
		return Location{}, fmt.Errorf("presign %s: %w", cleaned, err)
	}
	return Location{URL: presignedURL.String()}, nil
}
