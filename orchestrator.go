// Package sfntest drives end-to-end tests against AWS Step Functions state
// machines: one execution per declarative scenario, monitored to a terminal
// status and validated against the scenario's expectation.
package sfntest

import (
	"context"
	"errors"
	"fmt"

	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/resolver"
	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/runner"
	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/scenario"
	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/sfnclient"
	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/types"
	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/validator"
)

// SuiteRunner abstracts the dispatch engine so the orchestrator can be
// tested without a remote service.
type SuiteRunner interface {
	RunSuites(ctx context.Context, suites []string) (*runner.RunnerResult, error)
}

// Orchestrator wires the scenario store, target resolver, and runner
// together and renders the run verdict.
type Orchestrator struct {
	cfg       *Config
	store     *scenario.Store
	runner    SuiteRunner
	formatter ResultFormatter
	reporter  MetricsReporter
	result    *runner.RunnerResult
}

// New creates an orchestrator from the given config. An unusable suite
// root directory is a fatal error, reported before any dispatch.
func New(ctx context.Context, cfg *Config) (*Orchestrator, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	cfg.Log.Debug("Creating orchestrator",
		"testsRootDir", cfg.TestsRootDir,
		"suites", cfg.Suites,
		"parallel", cfg.Parallel,
		"wait", cfg.Wait)

	store, err := scenario.NewStore(scenario.Config{
		Log:     cfg.Log,
		RootDir: cfg.TestsRootDir,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create scenario store: %w", err)
	}

	client := cfg.Client
	if client == nil {
		client, err = sfnclient.New(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to create Step Functions client: %w", err)
		}
	}

	res, err := resolver.NewResolver(resolver.Config{
		Log:    cfg.Log,
		Client: client,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create resolver: %w", err)
	}

	var fieldPaths []validator.FieldPath
	if cfg.NormalizeOutput {
		fieldPaths = validator.DefaultFieldPaths
	}

	analyzer := cfg.Analyzer
	if cfg.Analyze && analyzer == nil {
		cfg.Log.Warn("Failure analysis enabled but no analyzer is wired; continuing without analysis")
	}
	if !cfg.Analyze {
		analyzer = nil
	}

	testRunner, err := runner.NewRunner(runner.Config{
		Store:          store,
		Resolver:       res,
		Client:         client,
		Log:            cfg.Log,
		FieldPaths:     fieldPaths,
		Analyzer:       analyzer,
		Parallel:       cfg.Parallel,
		Concurrency:    cfg.Concurrency,
		Wait:           cfg.Wait,
		PollInterval:   cfg.PollInterval,
		ScenarioFilter: cfg.ScenarioFilter,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	return &Orchestrator{
		cfg:       cfg,
		store:     store,
		runner:    testRunner,
		formatter: NewConsoleResultFormatter(cfg.Log),
		reporter:  NewDefaultMetricsReporter(),
	}, nil
}

// Run executes the configured suites once and renders the results. It
// returns a TestFailureError when at least one scenario failed and a
// RuntimeError for operational failures; skipped suites alone never fail
// the run.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.cfg.Log.Info("Running test suites...", "suites", o.cfg.Suites)

	result, err := o.runner.RunSuites(ctx, o.cfg.Suites)
	if err != nil {
		o.cfg.Log.Error("Runtime error running suites", "err", err)
		return NewRuntimeError(err)
	}
	o.result = result

	if err := o.formatter.FormatResults(result); err != nil {
		o.cfg.Log.Error("Failed to format results", "err", err)
	}
	fmt.Println(result.String())
	o.reporter.ReportResults(result.RunID, result)

	o.cfg.Log.Info("Test run completed", "run_id", result.RunID, "status", result.Status)
	if result.Status == types.TestStatusFail {
		return NewTestFailureError(result.String())
	}
	return nil
}

// Result returns the result of the last completed run.
func (o *Orchestrator) Result() *runner.RunnerResult {
	return o.result
}

// ListScenarios prints the available suites and their scenarios.
func (o *Orchestrator) ListScenarios() error {
	suites, err := o.store.Suites()
	if err != nil {
		return NewRuntimeError(err)
	}
	if len(suites) == 0 {
		fmt.Println("No test suites found.")
		return nil
	}
	for _, suite := range suites {
		scenarios, invalid, err := o.store.Scenarios(suite)
		if err != nil {
			fmt.Printf("Suite: %s (no runnable scenarios: %v)\n", suite, err)
			continue
		}
		fmt.Printf("Suite: %s (target state machine: %s)\n", suite, suite)
		for _, sc := range scenarios {
			fmt.Printf("  - %s\n", sc.Name)
		}
		for _, inv := range invalid {
			fmt.Printf("  - %s (invalid: %v)\n", inv.Name, inv.Err)
		}
	}
	return nil
}
