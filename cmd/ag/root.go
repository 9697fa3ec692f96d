package main

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/Lin-Jiong-HDU/ag/internal/ai/openai"
	"github.com/Lin-Jiong-HDU/ag/internal/core"
	"github.com/Lin-Jiong-HDU/ag/internal/core/security"
	"github.com/Lin-Jiong-HDU/ag/internal/logging"
	"github.com/Lin-Jiong-HDU/ag/internal/prompt"
	"github.com/Lin-Jiong-HDU/ag/internal/storage"
	"github.com/Lin-Jiong-HDU/ag/internal/terminal"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	model       string
	temperature float64
	noConfirm   bool
	timeout     time.Duration
	promptName  string
	noStream    bool
	logFile     string
	interactive bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "ag [prompt]",
		Short: "Terminal AI assistant",
		Long: `ag turns a natural-language request into shell commands and runs them.

Every command suggested by the model is checked against a deny-list and,
unless --no-confirm is given, confirmed before it runs. When no prompt is
given as an argument it is read from standard input.`,
		Args:         cobra.ArbitraryArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.model, "model", "m", "", "Model name (overrides ai.model)")
	cmd.Flags().Float64VarP(&opts.temperature, "temperature", "t", 0.7, "Sampling temperature")
	cmd.Flags().BoolVar(&opts.noConfirm, "no-confirm", false, "Run commands without asking")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", 0, "Per-command time limit (overrides security.timeout)")
	cmd.Flags().StringVarP(&opts.promptName, "prompt", "p", "", "System prompt template name")
	cmd.Flags().BoolVar(&opts.noStream, "no-stream", false, "Collect the response and render it as markdown")
	cmd.Flags().StringVar(&opts.logFile, "log-file", "", "Command log path (default ~/.ag_command.log)")
	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "Read requests line by line")

	cmd.AddCommand(getCheckCommand())
	cmd.AddCommand(getConfigCommand())
	cmd.AddCommand(getPromptsCommand())

	return cmd
}

// applyFlags overlays explicitly set flags on the loaded configuration.
func applyFlags(cmd *cobra.Command, cfg *storage.Config, opts *rootOptions) {
	flags := cmd.Flags()
	if opts.model != "" {
		cfg.AI.Model = opts.model
	}
	if flags.Changed("temperature") {
		cfg.AI.Temperature = opts.temperature
	}
	if opts.promptName != "" {
		cfg.AI.SystemPrompt = opts.promptName
	}
	if opts.noConfirm {
		cfg.Security.Confirm = false
	}
	if opts.noStream {
		cfg.Chat.Stream = false
	}
	if opts.logFile != "" {
		cfg.Log.File = opts.logFile
	}
}

// commandTimeout prefers --timeout over security.timeout. Zero disables the limit.
func commandTimeout(cmd *cobra.Command, cfg *storage.Config, opts *rootOptions) time.Duration {
	if cmd.Flags().Changed("timeout") {
		return opts.timeout
	}
	return cfg.Security.CommandTimeout()
}

// readPrompt joins the positional arguments, or reads stdin when there are none.
func readPrompt(args []string, stdin io.Reader) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(strings.Join(args, " ")), nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read prompt: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func runRoot(cmd *cobra.Command, args []string, opts *rootOptions) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	cfg, err := storage.InitConfig()
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg, opts)

	if cfg.AI.APIKey == "" {
		return fmt.Errorf("API key not configured: set DEEPSEEK_API_KEY in ~/%s or ai.api_key in ~/%s/%s.%s",
			storage.EnvFileName, storage.AgDirName, storage.ConfigFileName, storage.ConfigFileType)
	}

	var input string
	if !opts.interactive {
		input, err = readPrompt(args, cmd.InOrStdin())
		if err != nil {
			return err
		}
		if input == "" {
			return errors.New("no prompt given")
		}
	}

	logPath := cfg.Log.File
	if logPath == "" {
		if logPath, err = logging.DefaultPath(); err != nil {
			return err
		}
	}
	logger, closer, err := logging.OpenFile(logPath, logging.ParseLevel(cfg.Log.Level))
	if err != nil {
		return err
	}
	defer closer.Close()

	configDir, err := storage.GetConfigDir()
	if err != nil {
		return err
	}
	promptsDir := storage.GetPromptsDir(configDir)
	if err := prompt.EnsureDefaults(promptsDir); err != nil {
		logger.Warn("failed to write default prompts: " + err.Error())
	}
	loader := prompt.NewLoader(promptsDir)
	tmpl, err := loader.Resolve(cfg.AI.SystemPrompt)
	if err != nil {
		return err
	}

	client := openai.NewClient(cfg.AI.APIKey, cfg.AI.Model, cfg.AI.BaseURL,
		openai.WithConnectTimeout(time.Duration(cfg.AI.Timeout)*time.Second),
		openai.WithRetry(cfg.AI.MaxRetries, 0),
		openai.WithLogger(logger),
	)

	prompter := terminal.NewPrompter(cmd.InOrStdin(), out)
	console := terminal.NewConsole(out, providerLabel(cfg.AI.Provider))

	gate := core.NewGate(core.GateOptions{
		Classifier: security.NewClassifierFromPolicy(&cfg.Security),
		Runner:     core.NewExecutor(commandTimeout(cmd, cfg, opts)),
		Confirmer:  prompter,
		Reporter:   console,
		Logger:     logger,
	})

	var renderer core.Renderer
	if cfg.Chat.RenderMarkdown {
		if r, err := terminal.NewRenderer(terminal.DefaultWidth); err == nil {
			renderer = r
		}
	}

	engine := core.NewEngine(core.EngineOptions{
		Provider:     client,
		Gate:         gate,
		Presenter:    console,
		Renderer:     renderer,
		Logger:       logger,
		SystemPrompt: tmpl.SystemPrompt,
	})

	processOpts := core.ProcessOptions{
		RequireConfirmation: cfg.Security.Confirm,
		Stream:              cfg.Chat.Stream,
		Model:               cfg.AI.Model,
		Temperature:         cfg.AI.Temperature,
	}

	if opts.interactive {
		repl := terminal.NewREPL(engine, prompter, console, out, processOpts)
		repl.SetLoader(loader)
		return repl.Run(ctx)
	}

	report, err := engine.Process(ctx, input, processOpts)
	if errors.Is(err, core.ErrTransport) {
		// Already shown by the console; the request failed, the process did not.
		return nil
	}
	if err != nil {
		return err
	}
	console.Summary(report)
	return nil
}

func providerLabel(provider string) string {
	switch strings.ToLower(provider) {
	case "deepseek", "":
		return "DeepSeek"
	case "openai":
		return "OpenAI"
	default:
		return provider
	}
}
