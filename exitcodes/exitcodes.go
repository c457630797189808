// Package exitcodes defines the standard exit codes used by the CLI.
//
// * Success (0): Used when all scenarios pass
// * TestFailure (1): Used when one or more scenarios fail
// * RuntimeErr (2): Used for runtime errors such as panics, bad configuration
//   or AWS transport failures
package exitcodes

const (
	Success     = 0 // All scenarios pass
	TestFailure = 1 // Scenario failures
	RuntimeErr  = 2 // Runtime errors
)
