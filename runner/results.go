package runner

import (
	"fmt"
	"sync"
	"time"

	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/types"
)

// ResultStats tracks scenario counts at each aggregation level.
type ResultStats struct {
	Total     int
	Passed    int
	Failed    int
	Skipped   int
	StartTime time.Time
	EndTime   time.Time
}

// SuiteResult captures aggregated results for a test suite.
type SuiteResult struct {
	Name       string
	TargetArn  string
	Scenarios  map[string]*types.ScenarioResult
	Status     types.TestStatus
	Skipped    bool
	SkipReason string
	Stats      ResultStats
}

// RunnerResult captures the complete test run results. It is the only
// cross-job shared mutable state; all writes go through the mutex so
// parallel dispatch can complete jobs in any order.
type RunnerResult struct {
	mu sync.Mutex

	Suites   map[string]*SuiteResult
	Status   types.TestStatus
	Duration time.Duration
	Stats    ResultStats
	RunID    string
}

func newRunnerResult(runID string, start time.Time) *RunnerResult {
	return &RunnerResult{
		Suites: make(map[string]*SuiteResult),
		Stats:  ResultStats{StartTime: start},
		RunID:  runID,
	}
}

func (r *RunnerResult) suite(name string) *SuiteResult {
	s, ok := r.Suites[name]
	if !ok {
		s = &SuiteResult{
			Name:      name,
			Scenarios: make(map[string]*types.ScenarioResult),
		}
		r.Suites[name] = s
	}
	return s
}

// RegisterSuite records a suite that will dispatch jobs, with its resolved
// target.
func (r *RunnerResult) RegisterSuite(name, targetArn string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suite(name).TargetArn = targetArn
}

// SkipSuite records a suite that could not be dispatched. Skipped suites do
// not count as failures.
func (r *RunnerResult) SkipSuite(name, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s := r.suite(name)
	s.Skipped = true
	s.SkipReason = reason
	s.Status = types.TestStatusSkip
	s.Stats.Skipped++
	r.Stats.Skipped++
}

// AddScenario records one completed scenario verdict.
func (r *RunnerResult) AddScenario(suiteName string, res *types.ScenarioResult) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s := r.suite(suiteName)
	s.Scenarios[res.Scenario.Name] = res

	s.Stats.Total++
	r.Stats.Total++
	switch res.Status {
	case types.TestStatusPass:
		s.Stats.Passed++
		r.Stats.Passed++
	case types.TestStatusFail:
		s.Stats.Failed++
		r.Stats.Failed++
	case types.TestStatusSkip:
		s.Stats.Skipped++
		r.Stats.Skipped++
	}
}

// finalize computes per-suite and run statuses once dispatch is complete.
func (r *RunnerResult) finalize(end time.Time) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, s := range r.Suites {
		if s.Skipped {
			continue
		}
		s.Status = determineStatus(s.Stats)
		s.Stats.EndTime = end
	}
	r.Stats.EndTime = end
	r.Duration = end.Sub(r.Stats.StartTime)
	r.Status = determineStatus(r.Stats)
}

// determineStatus renders stats into a verdict: fail iff at least one
// scenario failed; all-skipped is a skip, not a failure.
func determineStatus(stats ResultStats) types.TestStatus {
	if stats.Failed > 0 {
		return types.TestStatusFail
	}
	if stats.Passed == 0 && stats.Skipped > 0 {
		return types.TestStatusSkip
	}
	return types.TestStatusPass
}

// String returns the one-line run summary.
func (r *RunnerResult) String() string {
	return fmt.Sprintf("Test run %s: %d scenarios (%d passed, %d failed, %d skipped) in %.1fs [%s]",
		r.RunID, r.Stats.Total, r.Stats.Passed, r.Stats.Failed, r.Stats.Skipped,
		r.Duration.Seconds(), r.Status)
}
