package main

import (
	"fmt"

	"github.com/Lin-Jiong-HDU/ag/internal/prompt"
	"github.com/Lin-Jiong-HDU/ag/internal/storage"
	"github.com/spf13/cobra"
)

func getPromptsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "prompts",
		Short: "List system prompt templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := storage.GetConfigDir()
			if err != nil {
				return err
			}
			return listPrompts(cmd, storage.GetPromptsDir(configDir))
		},
	}
}

func listPrompts(cmd *cobra.Command, promptsDir string) error {
	if err := prompt.EnsureDefaults(promptsDir); err != nil {
		return fmt.Errorf("failed to write prompts: %w", err)
	}

	templates, err := prompt.NewLoader(promptsDir).List()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, t := range templates {
		if t.Title != "" {
			fmt.Fprintf(out, "%s - %s\n", t.Name, t.Title)
		} else {
			fmt.Fprintln(out, t.Name)
		}
		if t.Description != "" {
			fmt.Fprintf(out, "    %s\n", t.Description)
		}
	}
	return nil
}
