// Package ai defines the interfaces to the language-model collaborators:
// scenario generation and post-failure analysis. The orchestrator core only
// depends on these interfaces; concrete providers are wired in by the
// embedding application.
package ai

import (
	"context"
)

// ContextFile is one project file included in a generation request.
type ContextFile struct {
	Path    string
	Content string
}

// ErrorBlock is the failure expectation of a generated scenario, using the
// remote service's Error/Cause convention.
type ErrorBlock struct {
	Error string `json:"Error"`
	Cause string `json:"Cause,omitempty"`
}

// GeneratedScenario is one scenario record returned by a generator. It is
// persisted verbatim under the suite's cases directory.
type GeneratedScenario struct {
	Description string      `json:"description,omitempty"`
	Input       any         `json:"input"`
	Expected    any         `json:"expected,omitempty"`
	Error       *ErrorBlock `json:"error,omitempty"`
}

// ScenarioGenerator produces scenario records from a bundle of project
// files.
type ScenarioGenerator interface {
	Generate(ctx context.Context, files []ContextFile) ([]GeneratedScenario, error)
}

// FailureReport describes a failed scenario run for root-cause analysis.
type FailureReport struct {
	ScenarioInput  any
	ExpectedResult any
	ActualError    string
	ActualCause    string
}

// FailureAnalyzer returns a free-text diagnosis of a failed run. It is
// invoked only when a job's terminal status is FAILED and analysis is
// enabled.
type FailureAnalyzer interface {
	Analyze(ctx context.Context, report FailureReport) (string, error)
}
