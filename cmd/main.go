package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ethereum/go-ethereum/log"
	"github.com/urfave/cli/v2"

	sfntest "github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI"
	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/ai"
	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/exitcodes"
	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/flags"
	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/service"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "sfn-e2e"
	app.Usage = "AWS Step Functions E2E Test Orchestrator"
	app.Description = "sfn-e2e runs declarative test scenarios against deployed Step Functions state machines"
	app.Commands = []*cli.Command{
		{
			Name:      "run",
			Usage:     "Run test suites (all discovered suites when none are named)",
			ArgsUsage: "[suite...]",
			Flags:     flags.RunFlags,
			Action:    runCmd,
		},
		{
			Name:   "list",
			Usage:  "List available suites and their scenarios",
			Flags:  flags.ListFlags,
			Action: listCmd,
		},
		{
			Name:      "generate",
			Usage:     "Generate test scenarios for a suite from project context files",
			ArgsUsage: "<suite> [file...]",
			Flags:     flags.GenerateFlags,
			Action:    generateCmd,
		},
	}
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			if sfntest.IsRuntimeError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.RuntimeErr))
			} else {
				// Test failures and unspecified errors both exit 1
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.TestFailure))
			}
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		log.Crit("Application failed", "message", err)
	}
}

func runCmd(ctx *cli.Context) error {
	logger := newLogger(ctx)

	cfg, err := sfntest.NewConfig(ctx, logger, ctx.Args().Slice())
	if err != nil {
		return sfntest.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	if cfg.Metrics {
		svc := service.New()
		svc.Start(ctx.Context)
		defer svc.Shutdown()
	}

	orch, err := sfntest.New(ctx.Context, cfg)
	if err != nil {
		return sfntest.NewRuntimeError(fmt.Errorf("failed to create orchestrator: %w", err))
	}
	return orch.Run(ctx.Context)
}

func listCmd(ctx *cli.Context) error {
	logger := newLogger(ctx)

	cfg, err := sfntest.NewConfig(ctx, logger, nil)
	if err != nil {
		return sfntest.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	orch, err := sfntest.New(ctx.Context, cfg)
	if err != nil {
		return sfntest.NewRuntimeError(fmt.Errorf("failed to create orchestrator: %w", err))
	}
	return orch.ListScenarios()
}

func generateCmd(ctx *cli.Context) error {
	logger := newLogger(ctx)

	if ctx.NArg() < 1 {
		return sfntest.NewRuntimeError(errors.New("generate requires a suite name"))
	}
	suite := ctx.Args().First()

	cfg, err := sfntest.NewConfig(ctx, logger, nil)
	if err != nil {
		return sfntest.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	provider, providerCfg, err := ai.LoadConfig(cfg.AIConfigPath, cfg.Provider)
	if err != nil {
		return sfntest.NewRuntimeError(err)
	}
	logger.Info("Using AI provider", "provider", provider, "model", providerCfg.Model)

	if cfg.Generator == nil {
		return sfntest.NewRuntimeError(fmt.Errorf(
			"no scenario generator is wired for provider %q; embed the CLI and supply an ai.ScenarioGenerator", provider))
	}

	var files []ai.ContextFile
	for _, path := range ctx.Args().Tail() {
		data, err := os.ReadFile(path)
		if err != nil {
			return sfntest.NewRuntimeError(fmt.Errorf("failed to read context file %q: %w", path, err))
		}
		files = append(files, ai.ContextFile{Path: path, Content: string(data)})
	}

	scenarios, err := cfg.Generator.Generate(ctx.Context, files)
	if err != nil {
		return sfntest.NewRuntimeError(fmt.Errorf("scenario generation failed: %w", err))
	}

	paths, err := ai.SaveScenarios(cfg.TestsRootDir, suite, scenarios)
	if err != nil {
		return sfntest.NewRuntimeError(err)
	}
	for _, p := range paths {
		fmt.Printf("wrote %s\n", p)
	}
	logger.Info("Generated scenarios", "suite", suite, "count", len(paths))
	return nil
}

// newLogger builds the process logger from --log-level and installs it as
// the geth default so package-level log calls share the handler.
func newLogger(ctx *cli.Context) log.Logger {
	lvl := slog.LevelInfo
	switch ctx.String(flags.LogLevel.Name) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	logger := log.NewLogger(log.NewTerminalHandlerWithLevel(os.Stderr, lvl, true))
	log.SetDefault(logger)
	return logger
}
