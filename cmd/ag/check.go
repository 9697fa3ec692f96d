package main

import (
	"fmt"
	"strings"

	"github.com/Lin-Jiong-HDU/ag/internal/core"
	"github.com/Lin-Jiong-HDU/ag/internal/core/security"
	"github.com/Lin-Jiong-HDU/ag/internal/storage"
	"github.com/m-mizutani/goerr/v2"
	"github.com/spf13/cobra"
)

// getCheckCommand returns the check command
func getCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <command>",
		Short: "Classify a command without running it",
		Long: `Run a command through the deny-list only. Nothing is executed.

Exits with status 1 when the command would be blocked.`,
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := storage.InitConfig()
	if err != nil {
		return err
	}

	command := strings.Join(args, " ")
	verdict := security.NewClassifierFromPolicy(&cfg.Security).Classify(command)

	out := cmd.OutOrStdout()
	if verdict.Safe {
		fmt.Fprintf(out, "safe: %s\n", command)
		return nil
	}

	fmt.Fprintf(out, "blocked: %s (matched: %s)\n", command, verdict.Keyword)
	return goerr.Wrap(core.ErrUnsafeCommand, "command failed the deny-list check",
		goerr.V("keyword", verdict.Keyword))
}
