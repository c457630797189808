package resolver

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	sfntypes "github.com/aws/aws-sdk-go-v2/service/sfn/types"
	"github.com/ethereum/go-ethereum/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClient serves ListStateMachines pages and counts calls. The other
// API methods are unused by the resolver.
type fakeClient struct {
	mu      sync.Mutex
	pages   [][]sfntypes.StateMachineListItem
	err     error
	listed  int
	pageIdx int
}

func machine(name string) sfntypes.StateMachineListItem {
	return sfntypes.StateMachineListItem{
		Name:            aws.String(name),
		StateMachineArn: aws.String("arn:aws:states:us-east-1:111122223333:stateMachine:" + name),
	}
}

func (f *fakeClient) ListStateMachines(ctx context.Context, params *sfn.ListStateMachinesInput, optFns ...func(*sfn.Options)) (*sfn.ListStateMachinesOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listed++
	if f.err != nil {
		return nil, f.err
	}
	if params.NextToken == nil {
		f.pageIdx = 0
	}
	page := f.pages[f.pageIdx]
	out := &sfn.ListStateMachinesOutput{StateMachines: page}
	if f.pageIdx < len(f.pages)-1 {
		out.NextToken = aws.String("next")
		f.pageIdx++
	}
	return out, nil
}

func (f *fakeClient) StartExecution(ctx context.Context, params *sfn.StartExecutionInput, optFns ...func(*sfn.Options)) (*sfn.StartExecutionOutput, error) {
	panic("not used")
}

func (f *fakeClient) DescribeExecution(ctx context.Context, params *sfn.DescribeExecutionInput, optFns ...func(*sfn.Options)) (*sfn.DescribeExecutionOutput, error) {
	panic("not used")
}

func (f *fakeClient) GetExecutionHistory(ctx context.Context, params *sfn.GetExecutionHistoryInput, optFns ...func(*sfn.Options)) (*sfn.GetExecutionHistoryOutput, error) {
	panic("not used")
}

func (f *fakeClient) listCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.listed
}

func newTestResolver(t *testing.T, client *fakeClient) *Resolver {
	t.Helper()
	r, err := NewResolver(Config{
		Log:    log.NewLogger(log.DiscardHandler()),
		Client: client,
	})
	require.NoError(t, err)
	return r
}

func TestResolve_ExactNameMatch(t *testing.T) {
	client := &fakeClient{pages: [][]sfntypes.StateMachineListItem{
		{machine("orders-v2"), machine("orders")},
	}}
	r := newTestResolver(t, client)

	arn, err := r.Resolve(context.Background(), "orders")
	require.NoError(t, err)
	assert.Equal(t, "arn:aws:states:us-east-1:111122223333:stateMachine:orders", arn)
}

func TestResolve_PaginatesUntilFound(t *testing.T) {
	client := &fakeClient{pages: [][]sfntypes.StateMachineListItem{
		{machine("alpha")},
		{machine("beta")},
	}}
	r := newTestResolver(t, client)

	arn, err := r.Resolve(context.Background(), "beta")
	require.NoError(t, err)
	assert.Contains(t, arn, "beta")
	assert.Equal(t, 2, client.listCalls())
}

func TestResolve_NotFound(t *testing.T) {
	client := &fakeClient{pages: [][]sfntypes.StateMachineListItem{{machine("other")}}}
	r := newTestResolver(t, client)

	_, err := r.Resolve(context.Background(), "orders")
	assert.ErrorIs(t, err, ErrTargetNotFound)
}

func TestResolve_CachesHits(t *testing.T) {
	client := &fakeClient{pages: [][]sfntypes.StateMachineListItem{{machine("orders")}}}
	r := newTestResolver(t, client)

	for i := 0; i < 3; i++ {
		arn, err := r.Resolve(context.Background(), "orders")
		require.NoError(t, err)
		assert.Contains(t, arn, "orders")
	}
	assert.Equal(t, 1, client.listCalls())
}

func TestResolve_CachesMisses(t *testing.T) {
	client := &fakeClient{pages: [][]sfntypes.StateMachineListItem{{machine("other")}}}
	r := newTestResolver(t, client)

	_, err := r.Resolve(context.Background(), "orders")
	require.ErrorIs(t, err, ErrTargetNotFound)

	_, err = r.Resolve(context.Background(), "orders")
	require.ErrorIs(t, err, ErrTargetNotFound)
	assert.Equal(t, 1, client.listCalls(), "failed resolution must not be retried within a run")
}

func TestResolve_CachesTransportErrors(t *testing.T) {
	client := &fakeClient{err: errors.New("connection reset")}
	r := newTestResolver(t, client)

	_, err := r.Resolve(context.Background(), "orders")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "resolution failed")

	_, err = r.Resolve(context.Background(), "orders")
	require.Error(t, err)
	assert.Equal(t, 1, client.listCalls())
}

func TestResolve_ConcurrentCallersObserveOneOutcome(t *testing.T) {
	client := &fakeClient{pages: [][]sfntypes.StateMachineListItem{{machine("orders")}}}
	r := newTestResolver(t, client)

	var wg sync.WaitGroup
	arns := make([]string, 8)
	for i := 0; i < len(arns); i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			arn, err := r.Resolve(context.Background(), "orders")
			assert.NoError(t, err)
			arns[i] = arn
		}(i)
	}
	wg.Wait()

	for _, arn := range arns {
		assert.Equal(t, arns[0], arn)
	}
}
