package sfntest

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/ai"
	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/flags"
	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/sfnclient"
)

// Config holds the application configuration
type Config struct {
	TestsRootDir    string        // Root directory containing the test suites
	Suites          []string      // Suites to run; empty means all discovered suites
	ScenarioFilter  []string      // Restrict execution to these scenario names
	Parallel        bool          // Dispatch through the worker pool instead of sequentially
	Concurrency     int           // Worker pool size (0 = number of CPUs)
	Wait            bool          // Monitor and validate executions (false = fire-and-forget)
	PollInterval    time.Duration // Fixed interval between status polls
	NormalizeOutput bool          // Use the field-path normalization table for output comparison
	Analyze         bool          // Invoke failure analysis on FAILED executions
	AIConfigPath    string        // Path to the AI provider configuration file
	Provider        string        // AI provider override
	Metrics         bool          // Expose healthz/metrics servers during the run
	Log             log.Logger

	// Collaborators injected by the embedding application. Client defaults
	// to the real Step Functions client; the AI collaborators stay nil
	// unless an implementation is wired in.
	Client    sfnclient.API
	Analyzer  ai.FailureAnalyzer
	Generator ai.ScenarioGenerator
}

// NewConfig creates a new Config from cli context
func NewConfig(ctx *cli.Context, log log.Logger, suites []string) (*Config, error) {
	testsDir := ctx.String(flags.TestsDir.Name)
	if testsDir == "" {
		return nil, errors.New("tests directory is required")
	}
	absTestsDir, err := filepath.Abs(testsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for tests directory '%s': %w", testsDir, err)
	}

	pollInterval := ctx.Duration(flags.PollInterval.Name)
	if pollInterval < 0 {
		return nil, fmt.Errorf("poll interval must not be negative, got %s", pollInterval)
	}

	concurrency := ctx.Int(flags.Concurrency.Name)
	if concurrency < 0 {
		return nil, fmt.Errorf("concurrency must not be negative, got %d", concurrency)
	}

	return &Config{
		TestsRootDir:    absTestsDir,
		Suites:          suites,
		ScenarioFilter:  ctx.StringSlice(flags.Scenario.Name),
		Parallel:        ctx.Bool(flags.Parallel.Name),
		Concurrency:     concurrency,
		Wait:            ctx.Bool(flags.Wait.Name),
		PollInterval:    pollInterval,
		NormalizeOutput: ctx.Bool(flags.NormalizeOutput.Name),
		Analyze:         ctx.Bool(flags.Analyze.Name),
		AIConfigPath:    ctx.String(flags.AIConfig.Name),
		Provider:        ctx.String(flags.Provider.Name),
		Metrics:         ctx.Bool(flags.Metrics.Name),
		Log:             log,
	}, nil
}
