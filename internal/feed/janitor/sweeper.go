package janitor

import (
	"context"
	"log"
	"time"

	"feedhub-backend/pkg/storage"
)

// Lister enumerates stored assets
type Lister interface {
	List(ctx context.Context) ([]storage.ObjectInfo, error)
}

// RefSource reports which image references posts still use
type RefSource interface {
	ImageRefs(ctx context.Context) (map[string]struct{}, error)
}

// Sweeper periodically removes assets that no post references.
// It catches files left behind when a best-effort deletion failed
// or an upload was never attached to a post.
type Sweeper struct {
	assets   Lister
	refs     RefSource
	janitor  *Janitor
	interval time.Duration
	grace    time.Duration
	now      func() time.Time
	stopChan chan struct{}
}

// NewSweeper creates a new sweeper. Assets younger than grace are never touched.
func NewSweeper(assets Lister, refs RefSource, janitor *Janitor, interval, grace time.Duration) *Sweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &Sweeper{
		assets:   assets,
		refs:     refs,
		janitor:  janitor,
		interval: interval,
		grace:    grace,
		now:      time.Now,
		stopChan: make(chan struct{}),
	}
}

// Start begins the sweep loop
func (s *Sweeper) Start() {
	log.Printf("[Sweeper] Starting orphan asset sweeper (interval: %s, grace: %s)", s.interval, s.grace)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Sweep(context.Background())
			case <-s.stopChan:
				log.Println("[Sweeper] Sweeper stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the sweeper
func (s *Sweeper) Stop() {
	close(s.stopChan)
}

// Sweep schedules deletion of every unreferenced asset older than the grace period
// and returns how many were scheduled
func (s *Sweeper) Sweep(ctx context.Context) int {
	objects, err := s.assets.List(ctx)
	if err != nil {
		log.Printf("[Sweeper] Error listing assets: %v", err)
		return 0
	}

	inUse, err := s.refs.ImageRefs(ctx)
	if err != nil {
		log.Printf("[Sweeper] Error loading image references: %v", err)
		return 0
	}

	cutoff := s.now().Add(-s.grace)
	scheduled := 0
	for _, obj := range objects {
		if _, ok := inUse[obj.Ref]; ok {
			continue
		}
		if obj.LastModified.After(cutoff) {
			continue
		}
		if s.janitor.Schedule(obj.Ref) {
			scheduled++
		}
	}

	if scheduled > 0 {
		log.Printf("[Sweeper] Scheduled %d orphaned assets for deletion", scheduled)
	}
	return scheduled
}
