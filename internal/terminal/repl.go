package terminal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Lin-Jiong-HDU/ag/internal/core"
	"github.com/Lin-Jiong-HDU/ag/internal/prompt"
)

// ErrUserExit is returned when the user asks to leave the session.
var ErrUserExit = errors.New("user requested exit")

// Processor runs one request through the pipeline.
type Processor interface {
	Process(ctx context.Context, prompt string, opts core.ProcessOptions) (*core.Report, error)
	SetSystemPrompt(systemPrompt string)
}

// REPL is the interactive mode: every line is a new request.
type REPL struct {
	processor Processor
	prompter  *Prompter
	console   *Console
	loader    *prompt.Loader
	out       io.Writer
	opts      core.ProcessOptions
	style     *Styles

	requests int
}

// NewREPL creates a REPL. The prompter is shared with the confirmation step
// so both read from the same buffered input.
func NewREPL(processor Processor, prompter *Prompter, console *Console, out io.Writer, opts core.ProcessOptions) *REPL {
	if out == nil {
		out = os.Stdout
	}
	return &REPL{
		processor: processor,
		prompter:  prompter,
		console:   console,
		out:       out,
		opts:      opts,
		style:     NewStyles(out),
	}
}

// SetLoader enables the /prompt command.
func (r *REPL) SetLoader(loader *prompt.Loader) {
	r.loader = loader
}

// Run reads lines until EOF, /exit or ctx is cancelled.
func (r *REPL) Run(ctx context.Context) error {
	fmt.Fprintln(r.out, r.style.Muted.Render("Type a request, /help for commands, /exit to quit."))

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		fmt.Fprint(r.out, r.style.Label.Render("ag> "))
		line, err := r.prompter.ReadLine()
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out)
			return nil
		}
		if err != nil {
			return err
		}

		err = r.ProcessInput(ctx, line)
		if errors.Is(err, ErrUserExit) {
			return nil
		}
		if errors.Is(err, context.Canceled) {
			return err
		}
	}
}

// ProcessInput handles one line of input.
func (r *REPL) ProcessInput(ctx context.Context, input string) error {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil
	}

	if strings.HasPrefix(input, "/") {
		shouldExit, err := r.HandleCommand(input)
		if err != nil {
			return err
		}
		if shouldExit {
			return ErrUserExit
		}
		return nil
	}

	r.requests++
	report, err := r.processor.Process(ctx, input, r.opts)
	if err != nil {
		return err
	}
	if r.console != nil {
		r.console.Summary(report)
	}
	return nil
}

// HandleCommand runs a slash command and reports whether to exit.
func (r *REPL) HandleCommand(cmd string) (bool, error) {
	parts := strings.Fields(cmd)
	if len(parts) == 0 {
		return false, nil
	}

	switch parts[0] {
	case "/exit", "/quit":
		fmt.Fprintf(r.out, "Bye. %d request(s) this session.\n", r.requests)
		return true, nil

	case "/help":
		r.DisplayHelp()
		return false, nil

	case "/clear":
		fmt.Fprint(r.out, "\033[H\033[2J")
		return false, nil

	case "/prompt":
		if len(parts) < 2 {
			r.DisplayAvailablePrompts()
			return false, nil
		}
		if r.loader == nil {
			fmt.Fprintln(r.out, "Prompt templates are not available")
			return false, nil
		}

		tmpl, err := r.loader.Resolve(parts[1])
		if err != nil {
			fmt.Fprintf(r.out, "Failed to switch prompt: %v\n", err)
			return false, nil
		}
		r.processor.SetSystemPrompt(tmpl.SystemPrompt)
		fmt.Fprintf(r.out, "%s Switched to prompt: %s\n", r.style.Success.Render("✓"), tmpl.Name)
		return false, nil

	default:
		fmt.Fprintf(r.out, "Unknown command: %s\n", parts[0])
		return false, nil
	}
}

// DisplayHelp lists the slash commands.
func (r *REPL) DisplayHelp() {
	help := `
Commands:
  /help              Show this help
  /clear             Clear the screen
  /prompt [name]     Switch or list prompt templates
  /exit, /quit       Leave the session
`
	fmt.Fprintln(r.out, help)
}

// DisplayAvailablePrompts lists the templates in the prompts directory.
func (r *REPL) DisplayAvailablePrompts() {
	if r.loader == nil {
		fmt.Fprintln(r.out, "Prompt templates are not available")
		return
	}

	templates, err := r.loader.List()
	if err != nil {
		fmt.Fprintf(r.out, "Failed to list prompts: %v\n", err)
		return
	}

	if len(templates) == 0 {
		fmt.Fprintln(r.out, "No prompt templates found")
		return
	}

	fmt.Fprintln(r.out, "\nAvailable prompts:")
	for _, t := range templates {
		if t.Title != "" {
			fmt.Fprintf(r.out, "  • %s - %s\n", t.Name, t.Title)
		} else {
			fmt.Fprintf(r.out, "  • %s\n", t.Name)
		}
		if t.Description != "" {
			fmt.Fprintf(r.out, "    %s\n", t.Description)
		}
	}
	fmt.Fprintln(r.out)
}
