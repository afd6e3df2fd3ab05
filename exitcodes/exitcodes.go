// Package exitcodes defines the standard exit codes used by the
// s3gateway conformance harness.
//
//   - Success (0): the harness ran to completion; the suite's own exit
//     code is printed but never propagated
//   - Failure (1): preflight conflict, or no run logs exist when a report
//     was requested
//   - RuntimeErr (2): runtime errors such as a failed state reset or a
//     gateway that never became ready
package exitcodes

const (
	Success    = 0
	Failure    = 1
	RuntimeErr = 2
)
