// Package parallel provides the worker pool used to drive independent
// detection runs concurrently. Runs share no state, so the pool needs no
// coordination beyond task distribution.
package parallel

import (
	"fmt"
	"math"
	"sync"
)

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = math.MaxInt / 2

// ErrTooManyWorkers is returned when the worker count exceeds MaxWorkers.
var ErrTooManyWorkers = fmt.Errorf("worker count exceeds maximum")

// WorkerPool manages a pool of worker goroutines
type WorkerPool struct {
	workers   int
	taskQueue chan func()
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // protects closed during Submit
	closed    bool
}

// NewWorkerPool creates a pool with the given number of workers. Counts
// below 1 default to 1.
func NewWorkerPool(workers int) (*WorkerPool, error) {
	if workers <= 0 {
		workers = 1
	}
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan func(), workers*2),
	}
	for i := 0; i < workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}
	return pool, nil
}

// worker processes tasks from the queue
func (wp *WorkerPool) worker() {
	defer wp.wg.Done()
	for task := range wp.taskQueue {
		// Recover so a panicking task cannot kill the worker
		func() {
			defer func() { _ = recover() }()
			task()
		}()
	}
}

// Submit queues a task for execution. Returns false when the pool is closed.
func (wp *WorkerPool) Submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()
	if wp.closed {
		return false
	}
	wp.taskQueue <- task
	return true
}

// Workers returns the pool size.
func (wp *WorkerPool) Workers() int { return wp.workers }

// Close stops accepting tasks and waits for queued tasks to finish.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		wp.mu.Unlock()
		close(wp.taskQueue)
		wp.wg.Wait()
	})
}
