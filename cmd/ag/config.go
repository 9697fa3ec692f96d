package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Lin-Jiong-HDU/ag/internal/prompt"
	"github.com/Lin-Jiong-HDU/ag/internal/storage"
	"github.com/spf13/cobra"
)

func getConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default ~/.ag/config.yaml and prompt templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			configDir, err := storage.GetConfigDir()
			if err != nil {
				return err
			}
			return initConfig(cmd, configDir, force)
		},
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")

	cmd.AddCommand(initCmd)
	return cmd
}

func initConfig(cmd *cobra.Command, configDir string, force bool) error {
	out := cmd.OutOrStdout()
	configPath := filepath.Join(configDir, storage.ConfigFileName+"."+storage.ConfigFileType)

	if _, err := os.Stat(configPath); err == nil && !force {
		fmt.Fprintf(out, "Config already exists: %s (use --force to overwrite)\n", configPath)
	} else {
		if err := storage.WriteConfig(configDir, storage.DefaultConfig()); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		fmt.Fprintf(out, "✓ Wrote %s\n", configPath)
	}

	promptsDir := storage.GetPromptsDir(configDir)
	if err := prompt.EnsureDefaults(promptsDir); err != nil {
		return fmt.Errorf("failed to write prompts: %w", err)
	}
	fmt.Fprintf(out, "✓ Prompt templates in %s\n", promptsDir)
	return nil
}
