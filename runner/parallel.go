package runner

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/log"
)

// ParallelExecutor manages parallel job execution across a bounded pool of
// workers. Results are collected as they complete, independent of
// submission order.
type ParallelExecutor struct {
	runner      *Runner
	concurrency int
	log         log.Logger
}

// NewParallelExecutor creates a new parallel executor with validation.
func NewParallelExecutor(runner *Runner, concurrency int) *ParallelExecutor {
	if runner == nil {
		panic("runner cannot be nil")
	}
	if concurrency <= 0 {
		panic("concurrency must be positive")
	}

	if concurrency > 32 {
		runner.cfg.Log.Warn("Very high concurrency requested", "concurrency", concurrency,
			"recommendation", "Consider lower values: every worker polls the remote service independently")
	}

	return &ParallelExecutor{
		runner:      runner,
		concurrency: concurrency,
		log:         runner.cfg.Log.New("component", "parallel-executor"),
	}
}

// ExecuteJobs runs the jobs through the worker pool and records every
// verdict in the shared result. A failing job never aborts its siblings;
// the per-job panic recovery in execute turns surprises into failed
// results.
func (pe *ParallelExecutor) ExecuteJobs(ctx context.Context, jobs []Job, result *RunnerResult) {
	if len(jobs) == 0 {
		pe.log.Debug("No jobs to execute")
		return
	}

	// Conservative channel buffering regardless of job count.
	bufferSize := min(pe.concurrency*2, 100)
	jobChan := make(chan Job, bufferSize)
	doneChan := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < pe.concurrency; i++ {
		wg.Add(1)
		go pe.worker(ctx, &wg, jobChan, result)
	}

	go func() {
		defer close(jobChan)
		for _, job := range jobs {
			select {
			case jobChan <- job:
			case <-ctx.Done():
				pe.log.Debug("Context cancelled while queueing jobs")
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(doneChan)
	}()
	<-doneChan

	pe.log.Info("Parallel dispatch completed", "jobs", len(jobs),
		"passed", result.Stats.Passed, "failed", result.Stats.Failed)
}

// worker drains the job channel, running each job to completion and
// recording its verdict.
func (pe *ParallelExecutor) worker(ctx context.Context, wg *sync.WaitGroup, jobChan <-chan Job, result *RunnerResult) {
	defer wg.Done()

	for {
		select {
		case job, ok := <-jobChan:
			if !ok {
				return
			}
			pe.log.Debug("Worker picked up job", "suite", job.Suite, "scenario", job.Scenario.Name)
			res := pe.runner.execute(ctx, job)
			result.AddScenario(job.Suite, res)
		case <-ctx.Done():
			pe.log.Debug("Worker received context cancellation")
			return
		}
	}
}
