// Package runner expands suites into jobs, dispatches them sequentially or
// through a bounded worker pool, monitors the remote executions, and
// aggregates verdicts.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/ethereum/go-ethereum/log"
	"github.com/google/uuid"

	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/ai"
	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/metrics"
	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/resolver"
	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/scenario"
	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/sfnclient"
	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/types"
	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/validator"
)

// CorrelationKey is the input field carrying the process-local correlation
// id, so downstream workload logs can be tied back to the test run.
const CorrelationKey = "testRunId"

// Job pairs a resolved target with one scenario. Created per dispatch
// cycle, consumed exactly once.
type Job struct {
	Suite     string
	TargetArn string
	Scenario  *types.Scenario
}

// Config holds configuration for creating a new runner.
type Config struct {
	Store    *scenario.Store
	Resolver *resolver.Resolver
	Client   sfnclient.API
	Log      log.Logger

	FieldPaths []validator.FieldPath // output normalization table, nil for deep equality
	Analyzer   ai.FailureAnalyzer    // optional failure analysis collaborator

	Parallel      bool
	Concurrency   int  // worker pool size, 0 = GOMAXPROCS
	Wait          bool // monitor and validate executions (false = fire-and-forget)
	PollInterval  time.Duration
	ThrottleDelay time.Duration

	ScenarioFilter []string // restrict execution to these scenario names
}

// Runner dispatches test jobs against the remote service.
type Runner struct {
	cfg       Config
	validator *validator.Validator
	monitor   *Monitor
	runID     string
}

// NewRunner creates a new runner instance.
func NewRunner(cfg Config) (*Runner, error) {
	if cfg.Store == nil {
		return nil, fmt.Errorf("scenario store is required")
	}
	if cfg.Resolver == nil {
		return nil, fmt.Errorf("resolver is required")
	}
	if cfg.Client == nil {
		return nil, fmt.Errorf("client is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = runtime.GOMAXPROCS(0)
	}

	cfg.Log.Debug("NewRunner()", "parallel", cfg.Parallel, "concurrency", cfg.Concurrency,
		"wait", cfg.Wait, "pollInterval", cfg.PollInterval, "scenarioFilter", cfg.ScenarioFilter)

	return &Runner{
		cfg:       cfg,
		validator: validator.New(cfg.FieldPaths),
		monitor:   NewMonitor(cfg.Client, cfg.Log, cfg.PollInterval, cfg.ThrottleDelay),
	}, nil
}

// RunSuites runs the named suites, or every discovered suite when the list
// is empty, and returns the aggregated result. Only an unreadable suite
// root is a fatal error; everything else downgrades to failed or skipped
// entries in the result.
func (r *Runner) RunSuites(ctx context.Context, suites []string) (*RunnerResult, error) {
	r.runID = uuid.New().String()
	defer func() { r.runID = "" }()

	start := time.Now()
	result := newRunnerResult(r.runID, start)
	r.cfg.Log.Debug("Starting test run", "run_id", r.runID)

	if len(suites) == 0 {
		var err error
		suites, err = r.cfg.Store.Suites()
		if err != nil {
			return nil, err
		}
		r.cfg.Log.Info("No suites specified, discovered all", "suites", suites)
	}

	jobs := r.collectJobs(ctx, suites, result)
	if len(jobs) == 0 {
		r.cfg.Log.Warn("No scenarios to run", "run_id", r.runID)
	} else if r.cfg.Parallel {
		r.cfg.Log.Info("Dispatching jobs in parallel", "jobs", len(jobs), "concurrency", r.cfg.Concurrency)
		NewParallelExecutor(r, r.cfg.Concurrency).ExecuteJobs(ctx, jobs, result)
	} else {
		r.cfg.Log.Info("Dispatching jobs sequentially", "jobs", len(jobs))
		for _, job := range jobs {
			result.AddScenario(job.Suite, r.execute(ctx, job))
		}
	}

	result.finalize(time.Now())
	return result, nil
}

// collectJobs expands (suite x scenario) pairs into a flat ordered job
// list, resolving targets and downgrading broken suites to skips and
// broken scenario files to failed entries.
func (r *Runner) collectJobs(ctx context.Context, suites []string, result *RunnerResult) []Job {
	filter := newNameFilter(r.cfg.ScenarioFilter)

	var jobs []Job
	for _, suiteName := range suites {
		scenarios, invalid, err := r.cfg.Store.Scenarios(suiteName)
		if err != nil {
			r.cfg.Log.Warn("Skipping suite", "suite", suiteName, "reason", err)
			result.SkipSuite(suiteName, err.Error())
			continue
		}

		arn, err := r.cfg.Resolver.Resolve(ctx, suiteName)
		if err != nil {
			r.cfg.Log.Warn("Skipping suite: target resolution failed", "suite", suiteName, "err", err)
			result.SkipSuite(suiteName, err.Error())
			continue
		}
		result.RegisterSuite(suiteName, arn)

		for _, inv := range invalid {
			if !filter.match(inv.Name) {
				continue
			}
			res := &types.ScenarioResult{
				Scenario: &types.Scenario{Name: inv.Name, Suite: suiteName, Path: inv.Path},
				Status:   types.TestStatusFail,
				Messages: []string{fmt.Sprintf("Failed to load scenario: %v", inv.Err)},
				Err:      inv.Err,
			}
			result.AddScenario(suiteName, res)
			metrics.RecordScenario(suiteName, r.runID, inv.Name, types.TestStatusFail)
		}

		for _, sc := range scenarios {
			if !filter.match(sc.Name) {
				continue
			}
			jobs = append(jobs, Job{Suite: suiteName, TargetArn: arn, Scenario: sc})
		}
	}
	return jobs
}

// execute runs a single job to completion: start, monitor until terminal,
// validate. Unexpected errors (including panics) become a failed result,
// never an aborted run.
func (r *Runner) execute(ctx context.Context, job Job) (res *types.ScenarioResult) {
	sc := job.Scenario
	res = &types.ScenarioResult{Scenario: sc}

	defer func() {
		if rec := recover(); rec != nil {
			err := fmt.Errorf("runtime error: %v", rec)
			r.cfg.Log.Error("Panic while executing scenario", "scenario", sc.Name, "err", err)
			res.Status = types.TestStatusFail
			res.Err = err
			res.Messages = append(res.Messages, err.Error())
		}
	}()

	start := time.Now()
	defer func() {
		res.Duration = time.Since(start)
		metrics.RecordScenario(job.Suite, r.runID, sc.Name, res.Status)
	}()

	r.cfg.Log.Info("Running scenario", "suite", job.Suite, "scenario", sc.Name)

	testRunID := uuid.New().String()
	payload, err := json.Marshal(injectCorrelationID(sc.Input, testRunID))
	if err != nil {
		res.Status = types.TestStatusFail
		res.Err = err
		res.Messages = append(res.Messages, fmt.Sprintf("Failed to encode scenario input: %v", err))
		return res
	}

	out, err := r.cfg.Client.StartExecution(ctx, &sfn.StartExecutionInput{
		StateMachineArn: aws.String(job.TargetArn),
		Input:           aws.String(string(payload)),
		Name:            aws.String(executionName(sc, testRunID, start)),
	})
	if err != nil {
		res.Status = types.TestStatusFail
		res.Err = err
		res.Messages = append(res.Messages, fmt.Sprintf("Failed to start execution: %v", err))
		return res
	}
	res.ExecutionArn = aws.ToString(out.ExecutionArn)

	r.cfg.Log.Info("Execution started",
		"scenario", sc.Name,
		"testRunId", testRunID,
		"execution", res.ExecutionArn,
		"console", "https://console.aws.amazon.com/states/home?#/executions/details/"+res.ExecutionArn)

	if !r.cfg.Wait {
		res.Status = types.TestStatusPass
		res.Messages = append(res.Messages, "Execution started in no-wait mode; result not monitored.")
		return res
	}

	rec, diagnostics := r.monitor.Wait(ctx, res.ExecutionArn)
	res.Record = rec
	res.Messages = append(res.Messages, diagnostics...)
	for range diagnostics {
		metrics.RecordThrottle(job.Suite)
	}

	outcome := r.validator.Validate(rec, sc)
	res.Messages = append(res.Messages, outcome.Messages...)
	if outcome.Passed {
		res.Status = types.TestStatusPass
	} else {
		res.Status = types.TestStatusFail
		r.analyzeFailure(ctx, job, res)
	}

	r.cfg.Log.Info("Scenario finished", "suite", job.Suite, "scenario", sc.Name,
		"status", res.Status, "executionStatus", rec.Status, "duration", res.Duration)
	return res
}

// analyzeFailure asks the failure-analysis collaborator for a diagnosis.
// Invoked only for executions that terminated FAILED, and only when
// analysis is enabled.
func (r *Runner) analyzeFailure(ctx context.Context, job Job, res *types.ScenarioResult) {
	if r.cfg.Analyzer == nil || res.Record == nil || res.Record.Status != types.StatusFailed {
		return
	}
	diagnosis, err := r.cfg.Analyzer.Analyze(ctx, ai.FailureReport{
		ScenarioInput:  job.Scenario.Input,
		ExpectedResult: job.Scenario.Expect.Output,
		ActualError:    res.Record.Error,
		ActualCause:    res.Record.Cause,
	})
	if err != nil {
		r.cfg.Log.Warn("Failure analysis failed", "scenario", job.Scenario.Name, "err", err)
		return
	}
	res.Analysis = diagnosis
	res.Messages = append(res.Messages, "Analysis: "+diagnosis)
}

// injectCorrelationID returns the input payload with the correlation id
// added. The scenario's own input is never mutated; non-object inputs are
// submitted unchanged.
func injectCorrelationID(input any, testRunID string) any {
	obj, ok := input.(map[string]any)
	if !ok {
		return input
	}
	withID := make(map[string]any, len(obj)+1)
	for k, v := range obj {
		withID[k] = v
	}
	withID[CorrelationKey] = testRunID
	return withID
}

// executionName derives a collision-free execution name from the scenario
// name, a short unique id, and a timestamp.
func executionName(sc *types.Scenario, testRunID string, start time.Time) string {
	return fmt.Sprintf("%s-%s-%s", sc.DisplayName(), testRunID[:8], start.Format("20060102150405"))
}

// nameFilter restricts dispatch to a subset of scenario names. An empty
// filter matches everything.
type nameFilter map[string]struct{}

func newNameFilter(names []string) nameFilter {
	if len(names) == 0 {
		return nil
	}
	f := make(nameFilter, len(names))
	for _, n := range names {
		f[n] = struct{}{}
	}
	return f
}

func (f nameFilter) match(name string) bool {
	if f == nil {
		return true
	}
	_, ok := f[name]
	return ok
}
