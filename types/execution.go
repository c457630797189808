package types

import "time"

// ExecutionStatus mirrors the remote service's execution status values.
// StatusUnknown is a client-side value for executions whose state could not
// be determined (transport failure that exhausted retries).
type ExecutionStatus string

const (
	StatusRunning   ExecutionStatus = "RUNNING"
	StatusSucceeded ExecutionStatus = "SUCCEEDED"
	StatusFailed    ExecutionStatus = "FAILED"
	StatusTimedOut  ExecutionStatus = "TIMED_OUT"
	StatusAborted   ExecutionStatus = "ABORTED"
	StatusUnknown   ExecutionStatus = "UNKNOWN"
)

// Terminal reports whether no further state transition can occur.
// UNKNOWN is terminal-but-failed: the monitor gave up on the transport,
// not on the execution.
func (s ExecutionStatus) Terminal() bool {
	switch s {
	case StatusSucceeded, StatusFailed, StatusTimedOut, StatusAborted, StatusUnknown:
		return true
	default:
		return false
	}
}

// ExecutionRecord is a snapshot of one remote execution. Output is the raw
// JSON output string (present on SUCCEEDED); Error/Cause are present on
// FAILED. Written only by polling, read-only everywhere else.
type ExecutionRecord struct {
	Status    ExecutionStatus
	Output    string
	Error     string
	Cause     string
	StartTime time.Time
	StopTime  time.Time
}
