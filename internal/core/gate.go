package core

import (
	"context"
	"log/slog"
	"strings"

	"github.com/Lin-Jiong-HDU/ag/internal/core/security"
	"github.com/m-mizutani/goerr/v2"
)

// Confirmer asks the user whether a command may run.
type Confirmer interface {
	Confirm(command string) (bool, error)
}

// Reporter shows gate decisions and command results to the user.
type Reporter interface {
	Blocked(command string, verdict security.Verdict)
	Cancelled(command string)
	Succeeded(result *Result)
	Failed(result *Result)
}

// Gate is the only path from an extracted command to a shell.
// Every command passes the classifier first; confirmation, when required,
// comes second; only then is the runner invoked.
type Gate struct {
	classifier *security.Classifier
	runner     Runner
	confirmer  Confirmer
	reporter   Reporter
	logger     *slog.Logger
}

// GateOptions holds the gate's collaborators. Classifier and Runner are
// required; a nil Confirmer declines every confirmation, a nil Reporter
// shows nothing and a nil Logger discards records.
type GateOptions struct {
	Classifier *security.Classifier
	Runner     Runner
	Confirmer  Confirmer
	Reporter   Reporter
	Logger     *slog.Logger
}

// NewGate creates a new gate
func NewGate(opts GateOptions) *Gate {
	g := &Gate{
		classifier: opts.Classifier,
		runner:     opts.Runner,
		confirmer:  opts.Confirmer,
		reporter:   opts.Reporter,
		logger:     opts.Logger,
	}
	if g.classifier == nil {
		g.classifier = security.NewClassifier(nil)
	}
	if g.reporter == nil {
		g.reporter = nopReporter{}
	}
	if g.logger == nil {
		g.logger = slog.New(slog.DiscardHandler)
	}
	return g
}

// Execute runs one command through the gate.
//
// A command refused by the classifier returns an error matching
// ErrUnsafeCommand; one the user declines returns ErrUserDeclined. Neither
// reaches the runner. Otherwise the command runs and its Result is returned
// with a nil error, whether it succeeded or failed.
func (g *Gate) Execute(ctx context.Context, command string, requireConfirmation bool) (*Result, error) {
	verdict := g.classifier.Classify(command)
	if !verdict.Safe {
		g.logger.Warn("Blocked dangerous command: "+command, "keyword", verdict.Keyword)
		g.reporter.Blocked(command, verdict)
		return nil, goerr.Wrap(ErrUnsafeCommand, "command blocked",
			goerr.V("command", command),
			goerr.V("keyword", verdict.Keyword),
		)
	}

	if requireConfirmation && !g.confirm(command) {
		g.reporter.Cancelled(command)
		return nil, goerr.Wrap(ErrUserDeclined, "command cancelled",
			goerr.V("command", command),
		)
	}

	result := g.runner.Run(ctx, command)

	if result.Succeeded {
		g.logger.Info("Executed: "+command, "duration", result.Duration)
		g.reporter.Succeeded(result)
	} else {
		g.logger.Error("Failed: "+command,
			"stderr", strings.TrimSpace(result.Stderr),
			"exit_code", result.ExitCode,
			"timed_out", result.TimedOut,
			"duration", result.Duration,
		)
		g.reporter.Failed(result)
	}

	return result, nil
}

// confirm fails closed: a missing confirmer or a read error is a decline.
func (g *Gate) confirm(command string) bool {
	if g.confirmer == nil {
		return false
	}
	ok, err := g.confirmer.Confirm(command)
	if err != nil {
		g.logger.Debug("Confirmation failed", "command", command, "error", err.Error())
		return false
	}
	return ok
}

type nopReporter struct{}

func (nopReporter) Blocked(string, security.Verdict) {}
func (nopReporter) Cancelled(string)                 {}
func (nopReporter) Succeeded(*Result)                {}
func (nopReporter) Failed(*Result)                   {}
