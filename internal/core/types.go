package core

import (
	"errors"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// Errors reported by the gate and the stream aggregator.
var (
	// ErrUnsafeCommand marks a command the classifier refused. It never ran.
	ErrUnsafeCommand = goerr.New("unsafe command blocked")
	// ErrUserDeclined marks a command the user did not confirm. It never ran.
	ErrUserDeclined = goerr.New("command declined by user")
	// ErrTransport marks a failed response stream. No commands are extracted.
	ErrTransport = goerr.New("response stream failed")
)

// IsBlocked reports whether err means the command was never executed.
func IsBlocked(err error) bool {
	return errors.Is(err, ErrUnsafeCommand) || errors.Is(err, ErrUserDeclined)
}

// Result represents command execution result
type Result struct {
	Command   string
	Succeeded bool
	Stdout    string
	Stderr    string
	ExitCode  int
	TimedOut  bool
	Duration  time.Duration
}

// Outcome pairs a command with what the gate did with it.
// Exactly one of Result and Err is set.
type Outcome struct {
	Command string
	Result  *Result
	Err     error
}

// Report summarizes one prompt's trip through the pipeline.
type Report struct {
	Response string
	Commands []string
	Outcomes []Outcome
}

// Counts tallies the outcomes.
func (r *Report) Counts() (executed, failed, blocked, declined int) {
	for _, o := range r.Outcomes {
		switch {
		case errors.Is(o.Err, ErrUnsafeCommand):
			blocked++
		case errors.Is(o.Err, ErrUserDeclined):
			declined++
		case o.Result != nil && o.Result.Succeeded:
			executed++
		default:
			failed++
		}
	}
	return executed, failed, blocked, declined
}
