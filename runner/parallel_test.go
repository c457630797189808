package runner

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewParallelExecutor_Validation(t *testing.T) {
	root := t.TempDir()
	r := newTestRunner(t, root, newRunnerClient(), nil)

	assert.Panics(t, func() { NewParallelExecutor(nil, 4) })
	assert.Panics(t, func() { NewParallelExecutor(r, 0) })
	assert.Panics(t, func() { NewParallelExecutor(r, -1) })
	assert.NotNil(t, NewParallelExecutor(r, 4))
}

func TestParallelExecutor_CompletesAllJobs(t *testing.T) {
	root := t.TempDir()
	for i := 0; i < 20; i++ {
		writeCase(t, root, "orders", fmt.Sprintf("case_%02d.json", i), `{"input": {}}`)
	}
	client := newRunnerClient("orders")
	r := newTestRunner(t, root, client, func(cfg *Config) {
		cfg.Parallel = true
		cfg.Concurrency = 3
	})

	result, err := r.RunSuites(context.Background(), []string{"orders"})
	require.NoError(t, err)
	assert.Equal(t, 20, result.Stats.Total)
	assert.Equal(t, 20, result.Stats.Passed)
	assert.Equal(t, 20, client.startedCount())
}

func TestParallelExecutor_NoJobs(t *testing.T) {
	root := t.TempDir()
	r := newTestRunner(t, root, newRunnerClient(), nil)
	pe := NewParallelExecutor(r, 2)

	result := newRunnerResult("run-1", time.Now())
	pe.ExecuteJobs(context.Background(), nil, result)
	assert.Equal(t, 0, result.Stats.Total)
}
