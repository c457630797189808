package types

import (
	"strings"
)

// ExpectKind identifies which expectation family a scenario declares.
// It is resolved once when the scenario is loaded; validation never
// re-inspects the raw document.
type ExpectKind int

const (
	// ExpectAny requires only a SUCCEEDED terminal status.
	ExpectAny ExpectKind = iota
	// ExpectSuccess requires a SUCCEEDED terminal status and an output
	// matching the declared expected block.
	ExpectSuccess
	// ExpectFailure requires a FAILED terminal status, optionally with a
	// specific error type and/or cause substring.
	ExpectFailure
)

func (k ExpectKind) String() string {
	switch k {
	case ExpectSuccess:
		return "success"
	case ExpectFailure:
		return "failure"
	default:
		return "any"
	}
}

// Expectation is the resolved expectation of a scenario.
// Exactly one family is meaningful: for ExpectSuccess the Output block,
// for ExpectFailure the ErrorType/CauseContains pair.
type Expectation struct {
	Kind          ExpectKind
	Output        any    // expected output block (ExpectSuccess)
	ErrorType     string // exact-match error type (ExpectFailure)
	CauseContains string // literal substring of the cause (ExpectFailure)
}

// Scenario is one declarative test case. It is immutable once loaded;
// the dispatcher copies the input before injecting the correlation id.
type Scenario struct {
	Name        string // derived from the source file name
	Suite       string
	Path        string // source file path, for diagnostics
	Description string
	Input       any // arbitrary structured JSON input payload
	Expect      Expectation
}

// DisplayName returns the name used in reports. Scenario file names use
// underscores; execution names and reports prefer dashes.
func (s *Scenario) DisplayName() string {
	return strings.ReplaceAll(s.Name, "_", "-")
}

// TestStatus represents the verdict of a single scenario run.
type TestStatus string

const (
	TestStatusPass TestStatus = "pass"
	TestStatusFail TestStatus = "fail"
	TestStatusSkip TestStatus = "skip"
)
