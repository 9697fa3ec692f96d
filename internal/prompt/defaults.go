package prompt

import (
	"fmt"
	"os"
	"path/filepath"
)

var builtins = map[string]string{
	"shell": `---
name: "shell"
title: "Shell assistant"
description: "Answers with runnable shell commands"
---

You are a terminal assistant. Turn the user's request into shell commands.

Rules:
- Put every command on its own line, starting with "$ " (dollar sign and a space).
- Do not wrap commands in code fences.
- Keep explanations short and on separate lines without the "$ " prefix.
- Prefer non-destructive commands and never suggest commands that wipe disks or data.`,
	"explain": `---
name: "explain"
title: "Explain first"
description: "Explains the approach before listing commands"
---

You are a patient terminal tutor. First explain in one or two sentences how to
solve the user's request, then list the commands to run.

Each command must be on its own line starting with "$ ". Lines without that
prefix are treated as commentary and are never executed.`,
}

// Builtin returns the built-in template with the given name.
func Builtin(name string) (*Template, bool) {
	content, ok := builtins[name]
	if !ok {
		return nil, false
	}
	return Parse(content), true
}

// EnsureDefaults writes the built-in templates into dir without
// overwriting files the user has edited.
func EnsureDefaults(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	for name, content := range builtins {
		path := filepath.Join(dir, name+".md")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0644); err != nil {
				return fmt.Errorf("failed to create prompt %s: %w", name, err)
			}
		}
	}

	return nil
}
