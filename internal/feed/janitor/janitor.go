package janitor

import (
	"context"
	"log"
	"sync"
	"time"
)

// Deleter removes a stored asset
type Deleter interface {
	Delete(ctx context.Context, ref string) error
}

// Janitor deletes stale image assets in the background.
// Deletion is best-effort: failures are logged and never retried.
type Janitor struct {
	deleter     Deleter
	jobQueue    chan string
	workerWg    sync.WaitGroup
	workerCount int
	timeout     time.Duration
	started     bool
	stopped     bool
	mu          sync.Mutex
}

// NewJanitor creates a new janitor with workerCount workers
func NewJanitor(deleter Deleter, workerCount int) *Janitor {
	if workerCount <= 0 {
		workerCount = 2
	}

	return &Janitor{
		deleter:     deleter,
		jobQueue:    make(chan string, 500),
		workerCount: workerCount,
		timeout:     30 * time.Second,
	}
}

// Start starts the janitor workers
func (j *Janitor) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.started || j.stopped {
		return
	}

	for i := 0; i < j.workerCount; i++ {
		j.workerWg.Add(1)
		go j.worker(i)
	}
	j.started = true
	log.Printf("[Janitor] Started %d workers", j.workerCount)
}

// Stop drains queued deletions and waits for the workers
func (j *Janitor) Stop() {
	j.mu.Lock()
	if j.stopped {
		j.mu.Unlock()
		return
	}
	j.stopped = true
	close(j.jobQueue)
	j.mu.Unlock()

	j.workerWg.Wait()
	log.Println("[Janitor] All workers stopped")
}

// Schedule queues ref for deletion without blocking.
// It reports false when the queue is full or the janitor has stopped.
func (j *Janitor) Schedule(ref string) bool {
	if ref == "" {
		return false
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	if j.stopped {
		log.Printf("[Janitor] Stopped, not deleting %s", ref)
		return false
	}

	select {
	case j.jobQueue <- ref:
		return true
	default:
		log.Printf("[Janitor] Queue full, dropping deletion of %s", ref)
		return false
	}
}

func (j *Janitor) worker(id int) {
	defer j.workerWg.Done()

	for ref := range j.jobQueue {
		j.process(ref)
	}

	log.Printf("[Janitor] Worker %d stopped", id)
}

func (j *Janitor) process(ref string) {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if err := j.deleter.Delete(ctx, ref); err != nil {
		log.Printf("[Janitor] Failed to delete %s: %v", ref, err)
		return
	}
	log.Printf("[Janitor] Deleted %s", ref)
}
