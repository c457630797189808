package runner

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/ethereum/go-ethereum/log"

	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/sfnclient"
	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/types"
)

const (
	// DefaultPollInterval is the fixed delay between status queries.
	DefaultPollInterval = 3 * time.Second
	// DefaultThrottleDelay is the fixed delay before the single retry of a
	// rate-limited poll.
	DefaultThrottleDelay = 2 * time.Second
	// throttleRetries bounds the retry loop for a rate-limited poll. One
	// retry, then the poll is reported as failed and the monitor waits for
	// the next tick.
	throttleRetries = 1
)

// Monitor polls a started execution until a terminal status is observed.
// It never polls faster than the configured interval and imposes no
// client-side deadline: the remote service's own TIMED_OUT status is the
// only time bound.
type Monitor struct {
	client        sfnclient.API
	log           log.Logger
	pollInterval  time.Duration
	throttleDelay time.Duration
}

// NewMonitor creates a monitor. Zero durations select the defaults.
func NewMonitor(client sfnclient.API, logger log.Logger, pollInterval, throttleDelay time.Duration) *Monitor {
	if logger == nil {
		logger = log.New()
	}
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	if throttleDelay <= 0 {
		throttleDelay = DefaultThrottleDelay
	}
	return &Monitor{
		client:        client,
		log:           logger,
		pollInterval:  pollInterval,
		throttleDelay: throttleDelay,
	}
}

// Wait blocks until the execution reaches a terminal status and returns its
// final record plus any diagnostics collected along the way (throttled
// polls that exhausted their retry). A non-throttle transport error or a
// cancelled context terminates the loop with StatusUnknown.
func (m *Monitor) Wait(ctx context.Context, executionArn string) (*types.ExecutionRecord, []string) {
	var diagnostics []string

	ticker := time.NewTicker(m.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			m.log.Warn("Monitoring interrupted", "execution", executionArn, "err", ctx.Err())
			return &types.ExecutionRecord{
				Status: types.StatusUnknown,
				Error:  "MonitorInterrupted",
				Cause:  ctx.Err().Error(),
			}, diagnostics
		case <-ticker.C:
		}

		rec, err := m.describe(ctx, executionArn)
		if err != nil {
			if sfnclient.IsThrottle(err) {
				// The poll and its single retry were both throttled. Report
				// it and keep polling on the next tick.
				msg := fmt.Sprintf("Poll rate-limited after retry, will poll again: %v", err)
				m.log.Warn("Describe throttled after retry", "execution", executionArn, "err", err)
				diagnostics = append(diagnostics, msg)
				continue
			}
			m.log.Error("Failed to describe execution", "execution", executionArn, "err", err)
			return &types.ExecutionRecord{
				Status: types.StatusUnknown,
				Error:  "DescribeExecutionFailed",
				Cause:  err.Error(),
			}, diagnostics
		}

		m.log.Debug("Execution status", "execution", executionArn, "status", rec.Status)
		if rec.Status.Terminal() {
			if rec.Status == types.StatusFailed && rec.Error == "" && rec.Cause == "" {
				m.fillFailureDetails(ctx, executionArn, rec)
			}
			return rec, diagnostics
		}
	}
}

// describe issues a status query with a bounded retry on rate limiting.
func (m *Monitor) describe(ctx context.Context, executionArn string) (*types.ExecutionRecord, error) {
	var lastErr error
	for attempt := 0; attempt <= throttleRetries; attempt++ {
		out, err := m.client.DescribeExecution(ctx, &sfn.DescribeExecutionInput{
			ExecutionArn: aws.String(executionArn),
		})
		if err == nil {
			rec := &types.ExecutionRecord{
				Status: sfnclient.StatusFromSDK(out.Status),
				Output: aws.ToString(out.Output),
				Error:  aws.ToString(out.Error),
				Cause:  aws.ToString(out.Cause),
			}
			if out.StartDate != nil {
				rec.StartTime = *out.StartDate
			}
			if out.StopDate != nil {
				rec.StopTime = *out.StopDate
			}
			return rec, nil
		}
		lastErr = err
		if !sfnclient.IsThrottle(err) || attempt == throttleRetries {
			break
		}
		m.log.Debug("Describe throttled, retrying once", "execution", executionArn, "delay", m.throttleDelay)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(m.throttleDelay):
		}
	}
	return nil, lastErr
}

// fillFailureDetails recovers the error/cause pair from the execution
// history when DescribeExecution does not carry it.
func (m *Monitor) fillFailureDetails(ctx context.Context, executionArn string, rec *types.ExecutionRecord) {
	out, err := m.client.GetExecutionHistory(ctx, &sfn.GetExecutionHistoryInput{
		ExecutionArn: aws.String(executionArn),
		ReverseOrder: true,
		MaxResults:   1,
	})
	if err != nil {
		m.log.Warn("Failed to fetch execution history for failure details", "execution", executionArn, "err", err)
		return
	}
	for _, event := range out.Events {
		if details := event.ExecutionFailedEventDetails; details != nil {
			rec.Error = aws.ToString(details.Error)
			rec.Cause = aws.ToString(details.Cause)
			return
		}
	}
}
