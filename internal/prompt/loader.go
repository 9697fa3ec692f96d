// Package prompt loads the system prompt templates sent ahead of the user's request.
package prompt

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultName is the template used when none is configured.
const DefaultName = "shell"

// Template is a system prompt with its front matter.
type Template struct {
	Name         string
	Title        string
	Description  string
	SystemPrompt string
}

// Loader reads templates from a directory of markdown files.
type Loader struct {
	dir string
}

// NewLoader creates a loader over dir.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Load reads the named template.
func (l *Loader) Load(name string) (*Template, error) {
	path := filepath.Join(l.dir, name+".md")

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt: %w", err)
	}

	tmpl := Parse(string(content))
	if tmpl.Name == "" {
		tmpl.Name = name
	}
	return tmpl, nil
}

// Resolve loads the named template, falling back to the built-in default
// when the file does not exist.
func (l *Loader) Resolve(name string) (*Template, error) {
	if name == "" {
		name = DefaultName
	}

	tmpl, err := l.Load(name)
	if err == nil {
		return tmpl, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if builtin, ok := Builtin(name); ok {
		return builtin, nil
	}
	if name != DefaultName {
		return nil, fmt.Errorf("prompt %q not found", name)
	}
	return nil, err
}

// List returns every template in the directory, sorted by name.
func (l *Loader) List() ([]*Template, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts directory: %w", err)
	}

	var templates []*Template
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}

		tmpl, err := l.Load(strings.TrimSuffix(entry.Name(), ".md"))
		if err != nil {
			continue
		}
		templates = append(templates, tmpl)
	}

	sort.Slice(templates, func(i, j int) bool { return templates[i].Name < templates[j].Name })
	return templates, nil
}

// Parse splits optional front matter from the prompt body.
func Parse(content string) *Template {
	parts := strings.SplitN(content, "---", 3)
	if len(parts) < 3 || strings.TrimSpace(parts[0]) != "" {
		return &Template{SystemPrompt: strings.TrimSpace(content)}
	}

	tmpl := &Template{SystemPrompt: strings.TrimSpace(parts[2])}

	for _, line := range strings.Split(parts[1], "\n") {
		key, value, ok := strings.Cut(strings.TrimSpace(line), ":")
		if !ok {
			continue
		}
		value = strings.Trim(strings.TrimSpace(value), `"`)

		switch strings.TrimSpace(key) {
		case "name":
			tmpl.Name = value
		case "title":
			tmpl.Title = value
		case "description":
			tmpl.Description = value
		}
	}

	return tmpl
}
