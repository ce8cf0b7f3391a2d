package janitor

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"feedhub-backend/pkg/storage"

	"github.com/stretchr/testify/assert"
)

type recordingDeleter struct {
	mu      sync.Mutex
	deleted []string
	fail    map[string]bool
}

func (d *recordingDeleter) Delete(_ context.Context, ref string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.deleted = append(d.deleted, ref)
	if d.fail[ref] {
		return errors.New("permission denied")
	}
	return nil
}

func (d *recordingDeleter) snapshot() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.deleted...)
}

func TestJanitor_DeletesScheduledRefs(t *testing.T) {
	d := &recordingDeleter{fail: map[string]bool{"images/bad.png": true}}
	j := NewJanitor(d, 2)
	j.Start()

	assert.True(t, j.Schedule("images/a.png"))
	assert.True(t, j.Schedule("images/bad.png"))
	assert.False(t, j.Schedule(""))

	j.Stop()

	assert.ElementsMatch(t, []string{"images/a.png", "images/bad.png"}, d.snapshot())
	assert.False(t, j.Schedule("images/late.png"))
}

func TestJanitor_StopIsIdempotent(t *testing.T) {
	j := NewJanitor(&recordingDeleter{}, 1)
	j.Start()
	j.Stop()
	j.Stop()
}

type fakeLister struct {
	objects []storage.ObjectInfo
}

func (l fakeLister) List(context.Context) ([]storage.ObjectInfo, error) {
	return l.objects, nil
}

type fakeRefs map[string]struct{}

func (r fakeRefs) ImageRefs(context.Context) (map[string]struct{}, error) {
	return r, nil
}

func TestSweeper_Sweep(t *testing.T) {
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	d := &recordingDeleter{}
	j := NewJanitor(d, 1)
	j.Start()

	lister := fakeLister{objects: []storage.ObjectInfo{
		{Ref: "images/used.png", LastModified: now.Add(-48 * time.Hour)},
		{Ref: "images/orphan.png", LastModified: now.Add(-48 * time.Hour)},
		{Ref: "images/fresh.png", LastModified: now.Add(-time.Minute)},
	}}
	refs := fakeRefs{"images/used.png": {}}

	s := NewSweeper(lister, refs, j, time.Hour, 24*time.Hour)
	s.now = func() time.Time { return now }

	assert.Equal(t, 1, s.Sweep(context.Background()))
	j.Stop()

	assert.Equal(t, []string{"images/orphan.png"}, d.snapshot())
}
