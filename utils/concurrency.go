package utils

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// WorkerPool runs submitted jobs on at most maxWorkers goroutines at a time.
// Submit never blocks, so a caller can stop waiting at any point and let the
// remaining jobs finish in the background.
type WorkerPool struct {
	maxWorkers int
	sem        *semaphore.Weighted
	wg         sync.WaitGroup
}

// NewWorkerPool creates a WorkerPool with the given concurrency.
func NewWorkerPool(maxWorkers int) *WorkerPool {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &WorkerPool{
		maxWorkers: maxWorkers,
		sem:        semaphore.NewWeighted(int64(maxWorkers)),
	}
}

// Size returns the configured concurrency.
func (wp *WorkerPool) Size() int {
	return wp.maxWorkers
}

// Submit enqueues a job. Jobs still waiting for a slot when ctx is done are
// dropped without running.
func (wp *WorkerPool) Submit(ctx context.Context, job func()) {
	wp.wg.Add(1)

	go func() {
		defer wp.wg.Done()

		if err := wp.sem.Acquire(ctx, 1); err != nil {
			return
		}
		defer wp.sem.Release(1)

		job()
	}()
}

// Wait blocks until all submitted jobs have completed.
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}

// WaitTimeout blocks until all submitted jobs complete or d elapses. It
// reports whether every job finished. Jobs still running keep running.
func (wp *WorkerPool) WaitTimeout(d time.Duration) bool {
	done := make(chan struct{})
	go func() {
		wp.wg.Wait()
		close(done)
	}()

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-done:
		return true
	case <-timer.C:
		return false
	}
}

// URLSet is a thread-safe set for tracking visited URLs.
type URLSet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewURLSet creates an empty URLSet.
func NewURLSet() *URLSet {
	return &URLSet{seen: make(map[string]struct{})}
}

// Add returns true if the URL was newly added, false if already present.
func (s *URLSet) Add(url string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[url]; exists {
		return false
	}
	s.seen[url] = struct{}{}
	return true
}

// Size returns the number of unique URLs tracked.
func (s *URLSet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
