// Package resolver maps suite names to state machine ARNs on the remote
// service. Lookups are memoized for the lifetime of a run: both successful
// and failed resolutions are cached, so a suite that fails resolution once
// is not retried within the same invocation.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sfn"
	"github.com/ethereum/go-ethereum/log"

	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/sfnclient"
)

// ErrTargetNotFound marks a suite name with no matching state machine.
var ErrTargetNotFound = errors.New("no state machine found with that name")

// Config contains resolver configuration.
type Config struct {
	Log    log.Logger
	Client sfnclient.API
}

// entry is a cached resolution outcome. Either Arn or Err is set.
type entry struct {
	arn string
	err error
}

// Resolver resolves suite names to state machine ARNs with a run-scoped
// cache. Safe for concurrent use; a redundant remote call on first
// concurrent access is acceptable, the written entry wins for all
// subsequent callers.
type Resolver struct {
	cfg   Config
	mu    sync.RWMutex
	cache map[string]entry
}

// NewResolver creates a resolver backed by the given client.
func NewResolver(cfg Config) (*Resolver, error) {
	if cfg.Client == nil {
		return nil, errors.New("client is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}
	return &Resolver{
		cfg:   cfg,
		cache: make(map[string]entry),
	}, nil
}

// Resolve returns the ARN of the state machine whose name equals suiteName
// exactly. Not-found and transient listing failures are cached like hits.
func (r *Resolver) Resolve(ctx context.Context, suiteName string) (string, error) {
	r.mu.RLock()
	e, ok := r.cache[suiteName]
	r.mu.RUnlock()
	if ok {
		return e.arn, e.err
	}

	arn, err := r.lookup(ctx, suiteName)

	r.mu.Lock()
	// Another goroutine may have raced us here; first write wins so every
	// caller observes one consistent outcome.
	if prev, ok := r.cache[suiteName]; ok {
		r.mu.Unlock()
		return prev.arn, prev.err
	}
	r.cache[suiteName] = entry{arn: arn, err: err}
	r.mu.Unlock()

	return arn, err
}

func (r *Resolver) lookup(ctx context.Context, suiteName string) (string, error) {
	r.cfg.Log.Debug("Resolving state machine", "name", suiteName)

	paginator := sfn.NewListStateMachinesPaginator(r.cfg.Client, &sfn.ListStateMachinesInput{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return "", fmt.Errorf("resolution failed for %q: %w", suiteName, err)
		}
		for _, sm := range page.StateMachines {
			if aws.ToString(sm.Name) == suiteName {
				arn := aws.ToString(sm.StateMachineArn)
				r.cfg.Log.Info("State machine resolved", "name", suiteName, "arn", arn)
				return arn, nil
			}
		}
	}
	return "", fmt.Errorf("%w: %s", ErrTargetNotFound, suiteName)
}
