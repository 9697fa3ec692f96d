package terminal

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Lin-Jiong-HDU/ag/internal/core"
	"github.com/Lin-Jiong-HDU/ag/internal/core/security"
)

// Console prints the pipeline's progress for a human reader.
type Console struct {
	out   io.Writer
	name  string
	style *Styles
}

// NewConsole creates a console. name labels the model's streamed answer.
func NewConsole(out io.Writer, name string) *Console {
	if out == nil {
		out = os.Stdout
	}
	if name == "" {
		name = "AI"
	}
	return &Console{
		out:   out,
		name:  name,
		style: NewStyles(out),
	}
}

// BeginResponse prints the label and returns the writer for streamed text.
func (c *Console) BeginResponse() io.Writer {
	fmt.Fprintf(c.out, "%s ", c.style.Label.Render(c.name+":"))
	return c.out
}

// EndResponse terminates the streamed line.
func (c *Console) EndResponse() {
	fmt.Fprintln(c.out)
}

// ShowResponse prints a response collected without streaming.
func (c *Console) ShowResponse(text string) {
	fmt.Fprintln(c.out, c.style.Label.Render(c.name+":"))
	fmt.Fprint(c.out, text)
	if !strings.HasSuffix(text, "\n") {
		fmt.Fprintln(c.out)
	}
}

// CommandsDetected announces the commands about to go through the gate.
func (c *Console) CommandsDetected(commands []string) {
	fmt.Fprintf(c.out, "\n%s\n", c.style.Detected.Render("Detected executable commands:"))
	for i, cmd := range commands {
		fmt.Fprintf(c.out, "  %d. %s\n", i+1, cmd)
	}
}

// NoCommands reports a response with nothing to run.
func (c *Console) NoCommands() {
	fmt.Fprintf(c.out, "\n%s\n", c.style.Warning.Render("No executable commands detected"))
}

// RequestFailed reports a failed API call.
func (c *Console) RequestFailed(err error) {
	fmt.Fprintf(c.out, "\n%s %v\n", c.style.Error.Render("API error:"), err)
}

// Blocked reports a command refused by the classifier.
func (c *Console) Blocked(command string, verdict security.Verdict) {
	fmt.Fprintf(c.out, "\n%s %s\n", c.style.Error.Render("🛑 Dangerous command blocked:"), command)
	if verdict.Keyword != "" {
		fmt.Fprintf(c.out, "   %s\n", c.style.Muted.Render("matched: "+verdict.Keyword))
	}
}

// Cancelled reports a command the user declined.
func (c *Console) Cancelled(command string) {
	fmt.Fprintln(c.out, c.style.Muted.Render("Cancelled"))
}

// Succeeded prints the command's standard output.
func (c *Console) Succeeded(result *core.Result) {
	if result.Stdout == "" {
		fmt.Fprintf(c.out, "%s %s\n", c.style.Success.Render("✓"), result.Command)
		return
	}
	fmt.Fprintf(c.out, "\n%s\n%s", c.style.Success.Render("Output:"), result.Stdout)
	if !strings.HasSuffix(result.Stdout, "\n") {
		fmt.Fprintln(c.out)
	}
}

// Failed prints the command's standard error.
func (c *Console) Failed(result *core.Result) {
	fmt.Fprintf(c.out, "\n%s %s\n", c.style.Error.Render("Error:"), c.style.Muted.Render(fmt.Sprintf("(exit code %d)", result.ExitCode)))
	fmt.Fprint(c.out, result.Stderr)
	if !strings.HasSuffix(result.Stderr, "\n") {
		fmt.Fprintln(c.out)
	}
}

// Summary prints the outcome counts of a report.
func (c *Console) Summary(report *core.Report) {
	if report == nil || len(report.Outcomes) == 0 {
		return
	}
	executed, failed, blocked, declined := report.Counts()
	fmt.Fprintf(c.out, "\n%s\n", c.style.Muted.Render(fmt.Sprintf(
		"%d executed, %d failed, %d blocked, %d cancelled",
		executed, failed, blocked, declined,
	)))
}

var _ core.Presenter = (*Console)(nil)
