// Package sfnclient wraps the AWS Step Functions SDK behind the narrow
// surface the orchestrator needs, so the rest of the codebase can be tested
// against fakes.
package sfnclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	sfntypes "github.com/aws/aws-sdk-go-v2/service/sfn/types"
	"github.com/aws/smithy-go"

	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/types"
)

// API is the subset of the Step Functions client used by the orchestrator.
// *sfn.Client satisfies it.
type API interface {
	ListStateMachines(ctx context.Context, params *sfn.ListStateMachinesInput, optFns ...func(*sfn.Options)) (*sfn.ListStateMachinesOutput, error)
	StartExecution(ctx context.Context, params *sfn.StartExecutionInput, optFns ...func(*sfn.Options)) (*sfn.StartExecutionOutput, error)
	DescribeExecution(ctx context.Context, params *sfn.DescribeExecutionInput, optFns ...func(*sfn.Options)) (*sfn.DescribeExecutionOutput, error)
	GetExecutionHistory(ctx context.Context, params *sfn.GetExecutionHistoryInput, optFns ...func(*sfn.Options)) (*sfn.GetExecutionHistoryOutput, error)
}

// New builds a real Step Functions client from the ambient AWS configuration
// (environment, shared config files, instance roles).
func New(ctx context.Context) (*sfn.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}
	return sfn.NewFromConfig(cfg), nil
}

// IsThrottle reports whether err is a rate-limiting error from the remote
// service.
func IsThrottle(err error) bool {
	var ae smithy.APIError
	if !errors.As(err, &ae) {
		return false
	}
	switch ae.ErrorCode() {
	case "ThrottlingException", "Throttling", "TooManyRequestsException", "RequestLimitExceeded":
		return true
	default:
		return false
	}
}

// StatusFromSDK converts the SDK execution status into the orchestrator's
// status value. Statuses the orchestrator does not model (e.g.
// PENDING_REDRIVE) map to RUNNING so the monitor keeps polling.
func StatusFromSDK(s sfntypes.ExecutionStatus) types.ExecutionStatus {
	switch s {
	case sfntypes.ExecutionStatusSucceeded:
		return types.StatusSucceeded
	case sfntypes.ExecutionStatusFailed:
		return types.StatusFailed
	case sfntypes.ExecutionStatusTimedOut:
		return types.StatusTimedOut
	case sfntypes.ExecutionStatusAborted:
		return types.StatusAborted
	default:
		return types.StatusRunning
	}
}
