package forensics

import (
	"runtime"
	"sync"
)

// WorkerPool runs the CPU-bound forensic signal computations. Signals
// for a page are independent of each other, as are pages, so the pool
// is shared across concurrent page analyses.
type WorkerPool struct {
	workers  int
	jobQueue chan func()
	once     sync.Once
}

// NewWorkerPool creates a worker pool. Zero or negative sizes fall
// back to the CPU count.
func NewWorkerPool(workers int) *WorkerPool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &WorkerPool{
		workers:  workers,
		jobQueue: make(chan func(), workers*2),
	}
}

// Start initializes and starts all workers in the pool.
func (wp *WorkerPool) Start() {
	wp.once.Do(func() {
		for i := 0; i < wp.workers; i++ {
			go wp.worker()
		}
	})
}

func (wp *WorkerPool) worker() {
	for job := range wp.jobQueue {
		job()
	}
}

// Submit adds a job to the worker pool queue.
func (wp *WorkerPool) Submit(job func()) {
	wp.jobQueue <- job
}

// Run submits a job and ties it to the given wait group.
func (wp *WorkerPool) Run(wg *sync.WaitGroup, job func()) {
	wg.Add(1)
	wp.Submit(func() {
		defer wg.Done()
		job()
	})
}

// Close shuts down the worker pool.
func (wp *WorkerPool) Close() {
	close(wp.jobQueue)
}
