package flags

import (
	"time"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "SFN_E2E"

// prefixEnvVars names the env-var fallback of a flag.
func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	TestsDir = &cli.StringFlag{
		Name:    "tests-dir",
		Value:   "tests",
		EnvVars: prefixEnvVars("TESTS_DIR"),
		Usage:   "Root directory containing the test suites",
	}
	Scenario = &cli.StringSliceFlag{
		Name:    "scenario",
		EnvVars: prefixEnvVars("SCENARIO"),
		Usage:   "Restrict the run to the named scenarios (repeatable)",
	}
	Parallel = &cli.BoolFlag{
		Name:    "parallel",
		Value:   false,
		EnvVars: prefixEnvVars("PARALLEL"),
		Usage:   "Dispatch scenarios through a bounded worker pool instead of sequentially",
	}
	Concurrency = &cli.IntFlag{
		Name:    "concurrency",
		Value:   0,
		EnvVars: prefixEnvVars("CONCURRENCY"),
		Usage:   "Number of concurrent workers for --parallel (0 = number of CPUs)",
	}
	Wait = &cli.BoolFlag{
		Name:    "wait",
		Value:   true,
		EnvVars: prefixEnvVars("WAIT"),
		Usage:   "Wait for each execution to finish and validate its result (--wait=false fires and forgets)",
	}
	PollInterval = &cli.DurationFlag{
		Name:    "poll-interval",
		Value:   3 * time.Second,
		EnvVars: prefixEnvVars("POLL_INTERVAL"),
		Usage:   "Fixed interval between execution status polls",
	}
	NormalizeOutput = &cli.BoolFlag{
		Name:    "normalize-output",
		Value:   false,
		EnvVars: prefixEnvVars("NORMALIZE_OUTPUT"),
		Usage:   "Compare expected outputs through the field-path normalization table instead of deep equality",
	}
	Analyze = &cli.BoolFlag{
		Name:    "analyze",
		Value:   false,
		EnvVars: prefixEnvVars("ANALYZE"),
		Usage:   "Run failure analysis on scenarios whose execution terminated FAILED",
	}
	AIConfig = &cli.StringFlag{
		Name:    "config",
		Value:   "config.yaml",
		EnvVars: prefixEnvVars("CONFIG"),
		Usage:   "Path to the AI provider configuration file",
	}
	Provider = &cli.StringFlag{
		Name:    "provider",
		EnvVars: prefixEnvVars("PROVIDER"),
		Usage:   "AI provider to use for generation/analysis (defaults to the config file's default_provider)",
	}
	Metrics = &cli.BoolFlag{
		Name:    "metrics",
		Value:   false,
		EnvVars: prefixEnvVars("METRICS"),
		Usage:   "Expose /healthz and Prometheus /metrics servers for the duration of the run",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Usage:   "Log level (debug, info, warn, error)",
	}
)

// RunFlags are the flags of the run command.
var RunFlags = []cli.Flag{
	TestsDir,
	Scenario,
	Parallel,
	Concurrency,
	Wait,
	PollInterval,
	NormalizeOutput,
	Analyze,
	AIConfig,
	Provider,
	Metrics,
	LogLevel,
}

// ListFlags are the flags of the list command.
var ListFlags = []cli.Flag{
	TestsDir,
	LogLevel,
}

// GenerateFlags are the flags of the generate command.
var GenerateFlags = []cli.Flag{
	TestsDir,
	AIConfig,
	Provider,
	LogLevel,
}
