// Package exitcodes defines the exit codes used by gmtest.
package exitcodes

// Exit code constants used by gmtest:
//
//   - Success (0): the suite ran; failed runs are reported, not returned
//   - Failure (1): configuration or usage errors
//   - Interrupted (2): the process received SIGINT or SIGTERM
const (
	Success     = 0
	Failure     = 1
	Interrupted = 2
)
