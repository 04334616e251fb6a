package parallel

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/dd0wney/cluso-centrality/pkg/logging"
)

// WorkerPool runs submitted tasks on a fixed set of goroutines and keeps the
// first error any task returned.
type WorkerPool struct {
	workers   int
	taskQueue chan func()
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // Protects taskQueue from concurrent close during send
	closed    bool         // Protected by mu
	logger    logging.Logger

	errOnce  sync.Once
	firstErr error
}

// ErrTooManyWorkers is returned when the worker count exceeds the maximum allowed.
var ErrTooManyWorkers = errors.New("worker count exceeds maximum")

// ErrTaskPanicked wraps a panic recovered from a task.
var ErrTaskPanicked = errors.New("task panicked")

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = math.MaxInt / 2

// NewWorkerPool creates a pool with the given number of workers (at least one).
func NewWorkerPool(workers int, logger logging.Logger) (*WorkerPool, error) {
	if workers <= 0 {
		workers = 1
	}
	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan func(), workers*2),
		logger:    logger.With(logging.Component("worker_pool")),
	}

	for i := 0; i < pool.workers; i++ {
		pool.wg.Add(1)
		go pool.worker()
	}
	return pool, nil
}

func (wp *WorkerPool) worker() {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		task()
	}
}

func (wp *WorkerPool) recordErr(err error) {
	wp.errOnce.Do(func() {
		wp.firstErr = err
	})
}

// Submit queues a task. It returns false if the pool is closed.
func (wp *WorkerPool) Submit(task func() error) bool {
	wrapped := func() {
		defer func() {
			if r := recover(); r != nil {
				wp.logger.Error("task panic recovered", logging.Any("panic", fmt.Sprint(r)))
				wp.recordErr(fmt.Errorf("%w: %v", ErrTaskPanicked, r))
			}
		}()
		if err := task(); err != nil {
			wp.recordErr(err)
		}
	}

	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}
	wp.taskQueue <- wrapped
	return true
}

// Close stops accepting tasks and waits for queued ones to finish.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}

// Wait closes the pool and returns the first task error, if any.
func (wp *WorkerPool) Wait() error {
	wp.Close()
	return wp.firstErr
}

// Workers returns the pool size.
func (wp *WorkerPool) Workers() int {
	return wp.workers
}
