package utils

import (
	"errors"
	"fmt"
	"sync"
)

// Job represents a task to be executed by a worker.
type Job struct {
	Task func() error
}

// WorkerPool manages a pool of workers to execute jobs and collects their errors.
type WorkerPool struct {
	workers   int
	jobQueue  chan Job
	waitGroup sync.WaitGroup

	mu   sync.Mutex
	errs []error
}

// NewWorkerPool creates a new WorkerPool with the specified number of workers.
func NewWorkerPool(workers int) *WorkerPool {
	if workers < 1 {
		workers = 1
	}
	pool := &WorkerPool{
		workers:  workers,
		jobQueue: make(chan Job, workers),
	}

	pool.waitGroup.Add(workers)
	for i := 0; i < workers; i++ {
		go pool.worker()
	}

	return pool
}

// worker processes jobs from the jobQueue.
func (wp *WorkerPool) worker() {
	defer wp.waitGroup.Done()
	for job := range wp.jobQueue {
		if err := wp.execute(job); err != nil {
			wp.mu.Lock()
			wp.errs = append(wp.errs, err)
			wp.mu.Unlock()
		}
	}
}

// execute runs a single job, turning a panic into an error so one bad job cannot kill the pool.
func (wp *WorkerPool) execute(job Job) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return job.Task()
}

// Submit adds a new job to the worker pool.
func (wp *WorkerPool) Submit(task func() error) {
	wp.jobQueue <- Job{Task: task}
}

// Shutdown waits for all workers to finish and returns the joined job errors.
func (wp *WorkerPool) Shutdown() error {
	close(wp.jobQueue)
	wp.waitGroup.Wait()

	wp.mu.Lock()
	defer wp.mu.Unlock()
	return errors.Join(wp.errs...)
}
