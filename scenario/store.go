// Package scenario discovers and parses declarative test scenarios from a
// suite/case directory hierarchy. Each suite is a subdirectory of the root;
// its scenarios are the *.json files under its "cases" subdirectory. The
// suite directory name doubles as the name of the state machine under test.
package scenario

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/log"

	"github.com/dariogsv/IF1009-AWS-Integration-Tests-CLI/types"
)

// CasesDirName is the subdirectory of a suite that holds scenario files.
const CasesDirName = "cases"

var (
	// ErrMalformedScenario marks a scenario file that is not valid JSON.
	ErrMalformedScenario = errors.New("malformed scenario")
	// ErrMissingInput marks a scenario file without an input section.
	ErrMissingInput = errors.New("scenario has no input section")
	// ErrSuiteNotFound marks a suite directory that does not exist.
	ErrSuiteNotFound = errors.New("suite directory not found")
	// ErrNoCaseDir marks a suite without a cases subdirectory.
	ErrNoCaseDir = errors.New("suite has no cases directory")
	// ErrNoScenarios marks a cases directory with zero scenario files.
	ErrNoScenarios = errors.New("suite has no scenario files")
)

// Invalid records a scenario file that could not be loaded. Invalid
// scenarios are reported as failed jobs, not fatal errors.
type Invalid struct {
	Name string
	Path string
	Err  error
}

// Config contains store configuration.
type Config struct {
	Log     log.Logger
	RootDir string // root directory holding suite subdirectories
}

// Store discovers suites and loads their scenarios.
type Store struct {
	cfg Config
}

// NewStore creates a store over the given root directory. An invalid root
// is the only fatal discovery error.
func NewStore(cfg Config) (*Store, error) {
	if cfg.RootDir == "" {
		return nil, errors.New("root directory is required")
	}
	if cfg.Log == nil {
		cfg.Log = log.New()
		cfg.Log.Error("No logger provided, using default")
	}
	info, err := os.Stat(cfg.RootDir)
	if err != nil {
		return nil, fmt.Errorf("invalid suite root directory %q: %w", cfg.RootDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("invalid suite root directory %q: not a directory", cfg.RootDir)
	}
	return &Store{cfg: cfg}, nil
}

// Suites enumerates the suite subdirectories of the root in lexicographic
// order.
func (s *Store) Suites() ([]string, error) {
	entries, err := os.ReadDir(s.cfg.RootDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite root %q: %w", s.cfg.RootDir, err)
	}
	var suites []string
	for _, e := range entries {
		if e.IsDir() {
			suites = append(suites, e.Name())
		}
	}
	sort.Strings(suites)
	return suites, nil
}

// HasSuite reports whether the named suite directory exists.
func (s *Store) HasSuite(suite string) bool {
	info, err := os.Stat(filepath.Join(s.cfg.RootDir, suite))
	return err == nil && info.IsDir()
}

// Scenarios loads the scenarios of one suite in lexicographic file order.
// Files that fail to parse are returned in the invalid list; the returned
// error is one of the sentinel errors above, signalling that the suite
// should be skipped rather than dispatched.
func (s *Store) Scenarios(suite string) ([]*types.Scenario, []Invalid, error) {
	suiteDir := filepath.Join(s.cfg.RootDir, suite)
	if info, err := os.Stat(suiteDir); err != nil || !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrSuiteNotFound, suite)
	}

	casesDir := filepath.Join(suiteDir, CasesDirName)
	if info, err := os.Stat(casesDir); err != nil || !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoCaseDir, suite)
	}

	paths, err := filepath.Glob(filepath.Join(casesDir, "*.json"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list scenario files for suite %s: %w", suite, err)
	}
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("%w: %s", ErrNoScenarios, suite)
	}
	sort.Strings(paths)

	var scenarios []*types.Scenario
	var invalid []Invalid
	for _, path := range paths {
		sc, err := s.load(suite, path)
		if err != nil {
			s.cfg.Log.Warn("Failed to load scenario", "suite", suite, "path", path, "err", err)
			invalid = append(invalid, Invalid{
				Name: scenarioName(path),
				Path: path,
				Err:  err,
			})
			continue
		}
		scenarios = append(scenarios, sc)
	}
	s.cfg.Log.Debug("Loaded suite scenarios", "suite", suite, "scenarios", len(scenarios), "invalid", len(invalid))
	return scenarios, invalid, nil
}

// errorBlock is the declared failure expectation of a scenario file.
// Field names follow the remote service's error/cause convention.
type errorBlock struct {
	Error string `json:"Error"`
	Cause string `json:"Cause"`
}

func (s *Store) load(suite, path string) (*types.Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedScenario, err)
	}

	rawInput, ok := doc["input"]
	if !ok {
		return nil, ErrMissingInput
	}
	var input any
	if err := json.Unmarshal(rawInput, &input); err != nil {
		return nil, fmt.Errorf("%w: invalid input section: %v", ErrMalformedScenario, err)
	}

	var description string
	if raw, ok := doc["description"]; ok {
		if err := json.Unmarshal(raw, &description); err != nil {
			return nil, fmt.Errorf("%w: invalid description: %v", ErrMalformedScenario, err)
		}
	}

	expect, err := s.resolveExpectation(suite, path, doc)
	if err != nil {
		return nil, err
	}

	return &types.Scenario{
		Name:        scenarioName(path),
		Suite:       suite,
		Path:        path,
		Description: description,
		Input:       input,
		Expect:      expect,
	}, nil
}

// resolveExpectation folds the raw expected/error blocks into the tagged
// expectation variant. The error block wins when both are present.
func (s *Store) resolveExpectation(suite, path string, doc map[string]json.RawMessage) (types.Expectation, error) {
	rawErr, hasErr := doc["error"]
	rawExpected, hasExpected := doc["expected"]

	if hasErr {
		var block errorBlock
		if err := json.Unmarshal(rawErr, &block); err != nil {
			return types.Expectation{}, fmt.Errorf("%w: invalid error block: %v", ErrMalformedScenario, err)
		}
		if hasExpected {
			s.cfg.Log.Warn("Scenario declares both expected and error blocks; error block wins",
				"suite", suite, "path", path)
		}
		return types.Expectation{
			Kind:          types.ExpectFailure,
			ErrorType:     block.Error,
			CauseContains: block.Cause,
		}, nil
	}

	if hasExpected {
		var expected any
		if err := json.Unmarshal(rawExpected, &expected); err != nil {
			return types.Expectation{}, fmt.Errorf("%w: invalid expected block: %v", ErrMalformedScenario, err)
		}
		return types.Expectation{
			Kind:   types.ExpectSuccess,
			Output: expected,
		}, nil
	}

	return types.Expectation{Kind: types.ExpectAny}, nil
}

func scenarioName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
