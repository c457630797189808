package types

import "time"

// ScenarioResult captures the outcome of a single scenario run.
type ScenarioResult struct {
	Scenario     *Scenario
	Status       TestStatus
	ExecutionArn string
	Record       *ExecutionRecord
	Messages     []string // ordered human-readable diagnostics
	Err          error    // unexpected error (start failure, panic), if any
	Duration     time.Duration
	Analysis     string // free-text failure diagnosis, when analysis is enabled
}

// Failed reports whether the scenario counts against the run.
func (r *ScenarioResult) Failed() bool {
	return r.Status == TestStatusFail
}
