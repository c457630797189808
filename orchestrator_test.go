package sfntest

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	sfntypes "github.com/aws/aws-sdk-go-v2/service/sfn/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/types"
)

// stubClient answers every execution with a fixed terminal record.
type stubClient struct {
	machines []string
	status   sfntypes.ExecutionStatus
	output   string
	started  int
}

func (c *stubClient) ListStateMachines(ctx context.Context, params *sfn.ListStateMachinesInput, optFns ...func(*sfn.Options)) (*sfn.ListStateMachinesOutput, error) {
	out := &sfn.ListStateMachinesOutput{}
	for _, name := range c.machines {
		out.StateMachines = append(out.StateMachines, sfntypes.StateMachineListItem{
			Name:            aws.String(name),
			StateMachineArn: aws.String("arn:aws:states:::stateMachine:" + name),
		})
	}
	return out, nil
}

func (c *stubClient) StartExecution(ctx context.Context, params *sfn.StartExecutionInput, optFns ...func(*sfn.Options)) (*sfn.StartExecutionOutput, error) {
	c.started++
	return &sfn.StartExecutionOutput{ExecutionArn: aws.String("arn:aws:states:::execution:stub")}, nil
}

func (c *stubClient) DescribeExecution(ctx context.Context, params *sfn.DescribeExecutionInput, optFns ...func(*sfn.Options)) (*sfn.DescribeExecutionOutput, error) {
	return &sfn.DescribeExecutionOutput{
		Status: c.status,
		Output: aws.String(c.output),
	}, nil
}

func (c *stubClient) GetExecutionHistory(ctx context.Context, params *sfn.GetExecutionHistoryInput, optFns ...func(*sfn.Options)) (*sfn.GetExecutionHistoryOutput, error) {
	return &sfn.GetExecutionHistoryOutput{}, nil
}

func writeCase(t *testing.T, root, suite, name, content string) {
	t.Helper()
	casesDir := filepath.Join(root, suite, "cases")
	require.NoError(t, os.MkdirAll(casesDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(casesDir, name), []byte(content), 0o644))
}

func testConfig(t *testing.T, root string, client *stubClient) *Config {
	t.Helper()
	return &Config{
		TestsRootDir: root,
		Wait:         true,
		PollInterval: time.Millisecond,
		Log:          log.NewLogger(log.DiscardHandler()),
		Client:       client,
	}
}

func TestOrchestrator_RunAllPassing(t *testing.T) {
	root := t.TempDir()
	writeCase(t, root, "orders", "ok.json", `{"input": {}, "expected": {"status": "ok"}}`)
	client := &stubClient{
		machines: []string{"orders"},
		status:   sfntypes.ExecutionStatusSucceeded,
		output:   `{"status":"ok"}`,
	}

	orch, err := New(context.Background(), testConfig(t, root, client))
	require.NoError(t, err)

	require.NoError(t, orch.Run(context.Background()))

	result := orch.Result()
	require.NotNil(t, result)
	assert.Equal(t, types.TestStatusPass, result.Status)
	assert.Equal(t, 1, client.started)
}

func TestOrchestrator_RunReturnsTestFailure(t *testing.T) {
	root := t.TempDir()
	writeCase(t, root, "orders", "bad.json", `{"input": {}, "expected": {"status": "other"}}`)
	client := &stubClient{
		machines: []string{"orders"},
		status:   sfntypes.ExecutionStatusSucceeded,
		output:   `{"status":"ok"}`,
	}

	orch, err := New(context.Background(), testConfig(t, root, client))
	require.NoError(t, err)

	err = orch.Run(context.Background())
	require.Error(t, err)
	assert.True(t, IsTestFailureError(err))
	assert.False(t, IsRuntimeError(err))
}

func TestOrchestrator_SkippedSuitesDoNotFail(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "nocases"), 0o755))
	client := &stubClient{}

	orch, err := New(context.Background(), testConfig(t, root, client))
	require.NoError(t, err)

	assert.NoError(t, orch.Run(context.Background()))
	assert.Equal(t, types.TestStatusSkip, orch.Result().Status)
}

func TestOrchestrator_InvalidRootIsFatal(t *testing.T) {
	cfg := testConfig(t, filepath.Join(t.TempDir(), "missing"), &stubClient{})
	_, err := New(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "scenario store")
}

func TestOrchestrator_NilConfig(t *testing.T) {
	_, err := New(context.Background(), nil)
	assert.Error(t, err)
}

func TestOrchestrator_NormalizedRun(t *testing.T) {
	root := t.TempDir()
	writeCase(t, root, "orders", "status.json", `{"input": {}, "expected": {"statusCode": 200}}`)
	client := &stubClient{
		machines: []string{"orders"},
		status:   sfntypes.ExecutionStatusSucceeded,
		output:   `{"apiResult": {"StatusCode": 200, "Payload": {"body": "{}"}}}`,
	}

	cfg := testConfig(t, root, client)
	cfg.NormalizeOutput = true
	orch, err := New(context.Background(), cfg)
	require.NoError(t, err)

	assert.NoError(t, orch.Run(context.Background()))
	assert.Equal(t, types.TestStatusPass, orch.Result().Status)
}
