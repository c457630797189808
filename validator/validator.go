// Package validator compares a terminal execution record against a
// scenario's declared expectation and produces a pass/fail verdict with
// human-readable diagnostics.
package validator

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/types"
)

// Outcome is a boolean verdict plus the ordered diagnostics that led to it.
type Outcome struct {
	Passed   bool
	Messages []string
}

func (o *Outcome) addf(format string, args ...any) {
	o.Messages = append(o.Messages, fmt.Sprintf(format, args...))
}

// Validator validates execution records. The field-path table configures
// output normalization; a nil or empty table selects direct deep-equality.
type Validator struct {
	fieldPaths []FieldPath
}

// New creates a validator with the given field-path normalization table.
func New(fieldPaths []FieldPath) *Validator {
	return &Validator{fieldPaths: fieldPaths}
}

// Validate checks the terminal record against the scenario expectation.
// The error-block expectation is evaluated before any success/output check;
// independent comparisons accumulate their diagnostics instead of stopping
// at the first mismatch.
func (v *Validator) Validate(rec *types.ExecutionRecord, sc *types.Scenario) Outcome {
	var out Outcome

	if sc.Expect.Kind == types.ExpectFailure {
		return v.validateFailure(rec, sc.Expect, out)
	}

	if rec.Status != types.StatusSucceeded {
		out.addf("Validation failed: expected status SUCCEEDED, got %s.", rec.Status)
		if rec.Error != "" || rec.Cause != "" {
			out.addf("Error: %s, Cause: %s", rec.Error, rec.Cause)
		}
		return out
	}

	if sc.Expect.Kind == types.ExpectSuccess {
		return v.validateOutput(rec, sc.Expect, out)
	}

	out.Passed = true
	out.addf("Validation succeeded: execution completed with status SUCCEEDED.")
	return out
}

func (v *Validator) validateFailure(rec *types.ExecutionRecord, expect types.Expectation, out Outcome) Outcome {
	if rec.Status != types.StatusFailed {
		out.addf("Validation failed: expected status FAILED, got %s.", rec.Status)
		return out
	}

	// Error-type and cause checks are independent; report both.
	if expect.ErrorType != "" && expect.ErrorType != rec.Error {
		out.addf("Validation failed: expected error type %q, got %q.", expect.ErrorType, rec.Error)
	}
	if expect.CauseContains != "" && !strings.Contains(rec.Cause, expect.CauseContains) {
		out.addf("Validation failed: expected cause %q not found in %q.", expect.CauseContains, rec.Cause)
	}
	if len(out.Messages) > 0 {
		return out
	}

	out.Passed = true
	out.addf("Validation succeeded: execution failed as expected.")
	return out
}

func (v *Validator) validateOutput(rec *types.ExecutionRecord, expect types.Expectation, out Outcome) Outcome {
	var actual any
	if err := json.Unmarshal([]byte(rec.Output), &actual); err != nil {
		out.addf("Validation failed: execution output is not valid JSON: %v", err)
		return out
	}

	expectedObj, expectedIsObj := expect.Output.(map[string]any)
	actualObj, actualIsObj := actual.(map[string]any)

	// Field-path normalization only applies to object-shaped outputs; a
	// scenario expecting a bare scalar or array falls back to deep equality.
	if len(v.fieldPaths) > 0 && expectedIsObj && actualIsObj {
		return v.validateNormalized(actualObj, expectedObj, out)
	}

	if !reflect.DeepEqual(actual, expect.Output) {
		out.addf("Validation failed: actual output does not match expected output.\nExpected: %s\nReceived: %s",
			renderJSON(expect.Output), renderJSON(actual))
		return out
	}

	out.Passed = true
	out.addf("Validation succeeded: output matches expected.")
	return out
}

func (v *Validator) validateNormalized(actual, expected map[string]any, out Outcome) Outcome {
	projection, unresolved := Project(actual, expected, v.fieldPaths)
	for _, msg := range unresolved {
		out.addf("Validation failed: %s", msg)
	}

	// Per-key comparison so every independent mismatch is reported.
	for _, key := range sortedKeys(expected) {
		got, ok := projection[key]
		if !ok {
			continue // already reported as unresolved
		}
		if !reflect.DeepEqual(got, expected[key]) {
			out.addf("Validation failed: normalized value mismatch for %q.\nExpected: %s\nReceived: %s",
				key, renderJSON(expected[key]), renderJSON(got))
		}
	}

	if len(out.Messages) > 0 {
		return out
	}
	out.Passed = true
	out.addf("Validation succeeded: normalized output matches expected.")
	return out
}

func renderJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}
