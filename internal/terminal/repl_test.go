package terminal

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Lin-Jiong-HDU/ag/internal/core"
	"github.com/Lin-Jiong-HDU/ag/internal/prompt"
)

type mockProcessor struct {
	prompts      []string
	systemPrompt string
}

func (m *mockProcessor) Process(ctx context.Context, input string, opts core.ProcessOptions) (*core.Report, error) {
	m.prompts = append(m.prompts, input)
	return &core.Report{}, nil
}

func (m *mockProcessor) SetSystemPrompt(systemPrompt string) {
	m.systemPrompt = systemPrompt
}

func newTestREPL(input string) (*REPL, *mockProcessor, *bytes.Buffer) {
	var out bytes.Buffer
	processor := &mockProcessor{}
	prompter := NewPrompter(strings.NewReader(input), &out)
	repl := NewREPL(processor, prompter, NewConsole(&out, ""), &out, core.ProcessOptions{})
	return repl, processor, &out
}

func TestREPL_Run(t *testing.T) {
	repl, processor, _ := newTestREPL("list files\n\n/help\nshow disk usage\n/exit\nnever read\n")

	if err := repl.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(processor.prompts) != 2 {
		t.Fatalf("Expected 2 requests, got %d: %v", len(processor.prompts), processor.prompts)
	}
	if processor.prompts[0] != "list files" || processor.prompts[1] != "show disk usage" {
		t.Errorf("Unexpected requests: %v", processor.prompts)
	}
}

func TestREPL_RunStopsAtEOF(t *testing.T) {
	repl, processor, _ := newTestREPL("list files")

	if err := repl.Run(context.Background()); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(processor.prompts) != 1 {
		t.Errorf("Expected 1 request, got %d", len(processor.prompts))
	}
}

func TestREPL_RunCancelled(t *testing.T) {
	repl, processor, _ := newTestREPL("list files\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := repl.Run(ctx); err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if len(processor.prompts) != 0 {
		t.Errorf("Expected no requests, got %d", len(processor.prompts))
	}
}

func TestREPL_HandleCommand(t *testing.T) {
	repl, _, out := newTestREPL("")

	shouldExit, err := repl.HandleCommand("/help")
	if err != nil {
		t.Fatalf("HandleCommand failed: %v", err)
	}
	if shouldExit {
		t.Error("Expected shouldExit=false for /help")
	}
	if !strings.Contains(out.String(), "/prompt [name]") {
		t.Errorf("Expected help text, got %q", out.String())
	}

	shouldExit, _ = repl.HandleCommand("/unknown")
	if shouldExit {
		t.Error("Expected shouldExit=false for unknown command")
	}
	if !strings.Contains(out.String(), "Unknown command: /unknown") {
		t.Errorf("Expected unknown command message, got %q", out.String())
	}

	for _, cmd := range []string{"/exit", "/quit"} {
		shouldExit, err = repl.HandleCommand(cmd)
		if err != nil {
			t.Fatalf("HandleCommand failed: %v", err)
		}
		if !shouldExit {
			t.Errorf("Expected shouldExit=true for %s", cmd)
		}
	}
}

func TestREPL_SwitchPrompt(t *testing.T) {
	tmpDir := t.TempDir()
	content := "---\nname: \"git\"\ntitle: \"Git helper\"\n---\n\nOnly use git."
	if err := os.WriteFile(filepath.Join(tmpDir, "git.md"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write prompt: %v", err)
	}

	repl, processor, out := newTestREPL("")
	repl.SetLoader(prompt.NewLoader(tmpDir))

	if _, err := repl.HandleCommand("/prompt git"); err != nil {
		t.Fatalf("HandleCommand failed: %v", err)
	}
	if processor.systemPrompt != "Only use git." {
		t.Errorf("Expected system prompt to switch, got %q", processor.systemPrompt)
	}

	if _, err := repl.HandleCommand("/prompt"); err != nil {
		t.Fatalf("HandleCommand failed: %v", err)
	}
	if !strings.Contains(out.String(), "git - Git helper") {
		t.Errorf("Expected prompt listing, got %q", out.String())
	}

	if _, err := repl.HandleCommand("/prompt missing"); err != nil {
		t.Fatalf("HandleCommand failed: %v", err)
	}
	if !strings.Contains(out.String(), "Failed to switch prompt") {
		t.Errorf("Expected switch failure, got %q", out.String())
	}
	if processor.systemPrompt != "Only use git." {
		t.Errorf("System prompt changed after failed switch: %q", processor.systemPrompt)
	}
}
