// Package worker provides the shared concurrency plumbing: a bounded job
// pool, per-host rate limiting and URL list loading.
package worker

import (
	"context"
	"sync"
)

// Job is one unit of work.
type Job interface {
	Execute(ctx context.Context) Result
}

// Result is the outcome of one job.
type Result interface {
	Err() error
}

// Pool runs jobs across a fixed number of workers.
type Pool struct {
	workers int
}

// NewPool creates a pool with the given number of workers (at least one).
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = 1
	}
	return &Pool{workers: workers}
}

// Run executes all jobs and returns their results in completion order.
// Feeding and collecting are decoupled so the job count can exceed any
// internal buffering. When ctx is cancelled, unstarted jobs are dropped
// and only the results of started jobs are returned.
func (p *Pool) Run(ctx context.Context, jobs []Job) []Result {
	if len(jobs) == 0 {
		return nil
	}

	jobC := make(chan Job)
	resultC := make(chan Result, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobC {
				resultC <- job.Execute(ctx)
			}
		}()
	}

	go func() {
		defer close(jobC)
		for _, job := range jobs {
			select {
			case jobC <- job:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(resultC)
	}()

	var results []Result
	for result := range resultC {
		results = append(results, result)
	}
	return results
}
