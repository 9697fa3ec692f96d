package core

import "strings"

// CommandMarker prefixes every executable line in a model response.
const CommandMarker = "$ "

// ExtractCommands returns the commands marked in a response, in order.
//
// A line is a command when, after trimming surrounding whitespace, it starts
// with CommandMarker. The rest of the line is trimmed and kept; lines that
// leave nothing behind are dropped. Every other line is commentary.
// An empty result means there is nothing to execute.
func ExtractCommands(response string) []string {
	commands := []string{}

	for _, line := range strings.Split(response, "\n") {
		trimmed := strings.TrimSpace(line)
		if !strings.HasPrefix(trimmed, CommandMarker) {
			continue
		}

		cmd := strings.TrimSpace(trimmed[len(CommandMarker):])
		if cmd == "" {
			continue
		}
		commands = append(commands, cmd)
	}

	return commands
}
