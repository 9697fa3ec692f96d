package terminal

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Prompter reads answers from the interactive input. The REPL and the
// confirmation prompt share one Prompter so neither loses buffered input.
type Prompter struct {
	in    *bufio.Reader
	out   io.Writer
	style *Styles
}

// NewPrompter creates a prompter reading from in and writing prompts to out.
// Nil arguments default to stdin and stdout.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Prompter{
		in:    bufio.NewReader(in),
		out:   out,
		style: NewStyles(out),
	}
}

// ReadLine reads one line without its line ending. io.EOF is returned only
// when nothing was read.
func (p *Prompter) ReadLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Confirm shows the command and asks for approval. Only "y" or "Y" approves;
// anything else, an empty line or end of input declines.
func (p *Prompter) Confirm(command string) (bool, error) {
	fmt.Fprintf(p.out, "\n%s %s\n", p.style.Warning.Render("About to execute:"), p.style.Command.Render(command))
	fmt.Fprint(p.out, "Execute? (y/N): ")

	answer, err := p.ReadLine()
	if err != nil {
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
			return false, nil
		}
		return false, err
	}

	return strings.EqualFold(answer, "y"), nil
}
