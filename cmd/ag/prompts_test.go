package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/m-mizutani/gt"
)

func TestPromptsCommand(t *testing.T) {
	setupHome(t)

	var out bytes.Buffer
	cmd := newRootCommand()
	cmd.SetArgs([]string{"prompts"})
	cmd.SetOut(&out)
	gt.NoError(t, cmd.Execute())

	gt.True(t, strings.Contains(out.String(), "shell - Shell assistant"))
	gt.True(t, strings.Contains(out.String(), "explain - Explain first"))
}
