package sfntest

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/log"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/runner"
	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/types"
)

// ResultFormatter is responsible for formatting and displaying test results.
type ResultFormatter interface {
	FormatResults(result *runner.RunnerResult) error
}

// ConsoleResultFormatter implements the ResultFormatter interface.
type ConsoleResultFormatter struct {
	logger log.Logger
}

// NewConsoleResultFormatter creates a new ConsoleResultFormatter.
func NewConsoleResultFormatter(logger log.Logger) *ConsoleResultFormatter {
	return &ConsoleResultFormatter{
		logger: logger,
	}
}

// FormatResults formats and displays the test results.
func (f *ConsoleResultFormatter) FormatResults(result *runner.RunnerResult) error {
	f.logger.Info("Printing results...")
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetTitle(fmt.Sprintf("E2E Testing Results (%s)", formatDuration(result.Duration)))

	t.AppendHeader(table.Row{
		"Type", "ID", "Duration", "Tests", "Passed", "Failed", "Skipped", "Status", "Detail",
	})

	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Type", AutoMerge: true},
		{Name: "ID", WidthMax: 50, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Tests", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Skipped", Align: text.AlignRight},
		{Name: "Detail", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
	})

	for _, suiteName := range sortedSuiteNames(result) {
		suite := result.Suites[suiteName]

		if suite.Skipped {
			t.AppendRow(table.Row{
				"Suite",
				suiteName,
				"-",
				"-",
				0,
				0,
				1,
				getResultString(types.TestStatusSkip),
				suite.SkipReason,
			})
			t.AppendSeparator()
			continue
		}

		t.AppendRow(table.Row{
			"Suite",
			suiteName,
			"-",
			"-", // Don't count the suite as a test
			suite.Stats.Passed,
			suite.Stats.Failed,
			suite.Stats.Skipped,
			getResultString(suite.Status),
			"",
		})

		names := sortedScenarioNames(suite)
		for i, name := range names {
			res := suite.Scenarios[name]
			prefix := "├──"
			if i == len(names)-1 {
				prefix = "└──"
			}

			t.AppendRow(table.Row{
				"Scenario",
				fmt.Sprintf("%s %s", prefix, name),
				formatDuration(res.Duration),
				"1",
				boolToInt(res.Status == types.TestStatusPass),
				boolToInt(res.Status == types.TestStatusFail),
				boolToInt(res.Status == types.TestStatusSkip),
				getResultString(res.Status),
				extractKeyMessage(res),
			})
		}
		t.AppendSeparator()
	}

	if result.Status == types.TestStatusPass {
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	} else if result.Status == types.TestStatusSkip {
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	} else {
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	}

	t.AppendFooter(table.Row{
		"TOTAL",
		"",
		formatDuration(result.Duration),
		result.Stats.Total,
		result.Stats.Passed,
		result.Stats.Failed,
		result.Stats.Skipped,
		getResultString(result.Status),
		"",
	})

	t.Render()
	return nil
}

// extractKeyMessage picks the most pertinent diagnostic line for display.
func extractKeyMessage(res *types.ScenarioResult) string {
	if res.Status == types.TestStatusPass {
		return ""
	}
	for _, msg := range res.Messages {
		if strings.HasPrefix(msg, "Validation failed") {
			return firstLine(msg)
		}
	}
	if len(res.Messages) > 0 {
		return firstLine(res.Messages[0])
	}
	if res.Err != nil {
		return firstLine(res.Err.Error())
	}
	return ""
}

func firstLine(s string) string {
	if idx := strings.Index(s, "\n"); idx != -1 {
		s = s[:idx]
	}
	if len(s) > 80 {
		return s[:70] + "..."
	}
	return s
}

func sortedSuiteNames(result *runner.RunnerResult) []string {
	names := make([]string, 0, len(result.Suites))
	for name := range result.Suites {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedScenarioNames(suite *runner.SuiteResult) []string {
	names := make([]string, 0, len(suite.Scenarios))
	for name := range suite.Scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
