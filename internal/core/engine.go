package core

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/Lin-Jiong-HDU/ag/internal/ai"
)

// Renderer turns a markdown response into terminal output.
type Renderer interface {
	Render(markdown string) (string, error)
}

// Presenter is the console side of the pipeline.
type Presenter interface {
	Reporter
	// BeginResponse is called before streamed text starts; the returned
	// writer receives every fragment as it arrives.
	BeginResponse() io.Writer
	EndResponse()
	// ShowResponse displays a response that was collected without streaming.
	ShowResponse(text string)
	CommandsDetected(commands []string)
	NoCommands()
	RequestFailed(err error)
}

// ProcessOptions controls one run of the pipeline.
type ProcessOptions struct {
	RequireConfirmation bool
	// Stream shows the response while it arrives. When false the response
	// is collected silently and shown once, rendered if a Renderer is set.
	Stream      bool
	Model       string
	Temperature float64
}

// Engine orchestrates the AI workflow
type Engine struct {
	provider     ai.StreamProvider
	gate         *Gate
	presenter    Presenter
	renderer     Renderer
	logger       *slog.Logger
	systemPrompt string
}

// EngineOptions holds the engine's collaborators.
type EngineOptions struct {
	Provider     ai.StreamProvider
	Gate         *Gate
	Presenter    Presenter
	Renderer     Renderer
	Logger       *slog.Logger
	SystemPrompt string
}

// NewEngine creates a new engine
func NewEngine(opts EngineOptions) *Engine {
	e := &Engine{
		provider:     opts.Provider,
		gate:         opts.Gate,
		presenter:    opts.Presenter,
		renderer:     opts.Renderer,
		logger:       opts.Logger,
		systemPrompt: opts.SystemPrompt,
	}
	if e.logger == nil {
		e.logger = slog.New(slog.DiscardHandler)
	}
	return e
}

// Process handles a user request from prompt to executed commands.
//
// The response is aggregated in full before anything is extracted; a
// transport failure returns an error matching ErrTransport and runs nothing.
// Extracted commands go through the gate one by one, in the order they
// appear. A blocked, declined or failed command does not stop the next one;
// a cancelled ctx does.
func (e *Engine) Process(ctx context.Context, prompt string, opts ProcessOptions) (*Report, error) {
	var messages []ai.Message
	if e.systemPrompt != "" {
		messages = append(messages, ai.Message{Role: "system", Content: e.systemPrompt})
	}
	messages = append(messages, ai.Message{Role: "user", Content: prompt})

	stream, err := e.provider.ChatStream(ctx, messages, ai.StreamOptions{
		Model:       opts.Model,
		Temperature: opts.Temperature,
	})
	if err != nil {
		return nil, e.requestFailed(fmt.Errorf("%w: %w", ErrTransport, err))
	}

	var response string
	if opts.Stream {
		sink := e.presenter.BeginResponse()
		response, err = Aggregate(ctx, stream, sink)
		e.presenter.EndResponse()
	} else {
		response, err = Aggregate(ctx, stream, io.Discard)
	}
	if err != nil {
		return nil, e.requestFailed(err)
	}

	if !opts.Stream {
		e.presenter.ShowResponse(e.render(response))
	}

	report := &Report{
		Response: response,
		Commands: ExtractCommands(response),
	}

	if len(report.Commands) == 0 {
		e.presenter.NoCommands()
		return report, nil
	}

	e.presenter.CommandsDetected(report.Commands)

	for _, cmd := range report.Commands {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		result, err := e.gate.Execute(ctx, cmd, opts.RequireConfirmation)
		report.Outcomes = append(report.Outcomes, Outcome{
			Command: cmd,
			Result:  result,
			Err:     err,
		})
	}

	return report, nil
}

func (e *Engine) requestFailed(err error) error {
	e.logger.Error("API request failed: " + err.Error())
	e.presenter.RequestFailed(err)
	return err
}

func (e *Engine) render(response string) string {
	if e.renderer == nil {
		return response
	}
	rendered, err := e.renderer.Render(response)
	if err != nil {
		return response
	}
	return rendered
}

// SetSystemPrompt replaces the system prompt used for later requests.
func (e *Engine) SetSystemPrompt(systemPrompt string) {
	e.systemPrompt = systemPrompt
}
