package metrics

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/types"
)

const (
	MetricsNamespace = "sfn_e2e"
)

var (
	Debug                bool = true
	nonAlphanumericRegex      = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	scenariosTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "scenarios_total",
		Help:      "Count of executed scenarios",
	}, []string{
		"suite",
		"run_id",
		"name",
		"result",
	})

	runResults = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_results",
		Help:      "Result of test runs",
	}, []string{
		"run_id",
		"result",
	})

	runScenarioTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_scenario_total",
		Help:      "Total number of scenarios in a run",
	}, []string{
		"run_id",
	})

	runScenarioPassed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_scenario_passed",
		Help:      "Number of passed scenarios in a run",
	}, []string{
		"run_id",
	})

	runScenarioFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "run_scenario_failed",
		Help:      "Number of failed scenarios in a run",
	}, []string{
		"run_id",
	})

	runDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of the dispatch phase",
	}, []string{
		"run_id",
	})

	throttlesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "throttles_total",
		Help:      "Count of rate-limiting errors observed while polling",
	}, []string{
		"suite",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	if Debug {
		log.Debug("metric inc",
			"m", "errors_total",
			"error", error,
		)
	}
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	label = fmt.Sprintf("%s.%s", label, errToLabel(err))
	RecordError(label)
}

// RecordScenario records the verdict of one scenario run.
func RecordScenario(suite, runID, name string, result types.TestStatus) {
	if Debug {
		log.Debug("metric inc",
			"m", "scenarios_total",
			"suite", suite,
			"run_id", runID,
			"name", name,
			"result", result,
		)
	}
	scenariosTotal.WithLabelValues(suite, runID, name, string(result)).Inc()
}

// RecordThrottle records a rate-limiting error observed while polling.
func RecordThrottle(suite string) {
	throttlesTotal.WithLabelValues(suite).Inc()
}

// RecordRun records the aggregate outcome of a whole run.
func RecordRun(runID, result string, total, passed, failed int, duration time.Duration) {
	if Debug {
		log.Debug("metric set",
			"m", "run_results",
			"run_id", runID,
			"result", result,
			"total", total,
			"passed", passed,
			"failed", failed,
			"duration", duration,
		)
	}
	runResults.WithLabelValues(runID, result).Set(1)
	runScenarioTotal.WithLabelValues(runID).Add(float64(total))
	runScenarioPassed.WithLabelValues(runID).Add(float64(passed))
	runScenarioFailed.WithLabelValues(runID).Add(float64(failed))
	runDuration.WithLabelValues(runID).Set(duration.Seconds())
}
