package sfntest

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRuntimeError(t *testing.T) {
	inner := errors.New("bad configuration")
	err := NewRuntimeError(inner)

	assert.True(t, IsRuntimeError(err))
	assert.False(t, IsTestFailureError(err))
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "runtime error")
	assert.Contains(t, err.Error(), "bad configuration")
}

func TestRuntimeError_DetectedThroughWrapping(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewRuntimeError(errors.New("inner")))
	assert.True(t, IsRuntimeError(err))
}

func TestTestFailureError(t *testing.T) {
	err := NewTestFailureError("2 scenarios failed")

	assert.True(t, IsTestFailureError(err))
	assert.False(t, IsRuntimeError(err))
	assert.Contains(t, err.Error(), "test failure")
	assert.Contains(t, err.Error(), "2 scenarios failed")
}

func TestErrorPredicates_NilAndPlainErrors(t *testing.T) {
	assert.False(t, IsRuntimeError(nil))
	assert.False(t, IsTestFailureError(nil))

	plain := errors.New("plain")
	assert.False(t, IsRuntimeError(plain))
	assert.False(t, IsTestFailureError(plain))
}
