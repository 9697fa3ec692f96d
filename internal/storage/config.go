package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/Lin-Jiong-HDU/ag/internal/ai/openai"
	"github.com/Lin-Jiong-HDU/ag/internal/core/security"
	"github.com/Lin-Jiong-HDU/ag/internal/prompt"
	"github.com/spf13/viper"
)

const (
	ConfigFileName = "config"
	ConfigFileType = "yaml"
	AgDirName      = ".ag"
	PromptsDirName = "prompts"
	EnvFileName    = ".ag_env"
)

// Credential variables looked up in the env file and the process
// environment, in order.
var apiKeyVars = []string{"DEEPSEEK_API_KEY", "OPENAI_API_KEY"}

// Config holds the application configuration
type Config struct {
	AI       AIConfig                `mapstructure:"ai"`
	Security security.SecurityPolicy `mapstructure:"security"`
	Log      LogConfig               `mapstructure:"log"`
	Chat     ChatConfig              `mapstructure:"chat"`
}

// AIConfig holds AI-related configuration
type AIConfig struct {
	Provider     string  `mapstructure:"provider"`
	APIKey       string  `mapstructure:"api_key"`
	Model        string  `mapstructure:"model"`
	BaseURL      string  `mapstructure:"base_url"`
	Temperature  float64 `mapstructure:"temperature"`
	Timeout      int     `mapstructure:"timeout"`
	MaxRetries   int     `mapstructure:"max_retries"`
	SystemPrompt string  `mapstructure:"system_prompt"`
}

// LogConfig holds the command log settings. An empty File means
// ~/.ag_command.log.
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// ChatConfig holds display configuration
type ChatConfig struct {
	Stream         bool `mapstructure:"stream"`
	RenderMarkdown bool `mapstructure:"render_markdown"`
}

// GetConfigDir returns the ag config directory path
func GetConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, AgDirName), nil
}

// GetEnvFile returns the path of the credentials file.
func GetEnvFile() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, EnvFileName), nil
}

// InitConfig loads the configuration from the user's home directory.
func InitConfig() (*Config, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return nil, err
	}
	envFile, err := GetEnvFile()
	if err != nil {
		return nil, err
	}
	return LoadConfig(configDir, envFile)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ai.provider", "deepseek")
	v.SetDefault("ai.model", openai.DefaultModel)
	v.SetDefault("ai.base_url", openai.DefaultBaseURL)
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.timeout", 30)
	v.SetDefault("ai.max_retries", 2)
	v.SetDefault("ai.system_prompt", prompt.DefaultName)

	policy := security.DefaultPolicy()
	v.SetDefault("security.deny_list", policy.DenyList)
	v.SetDefault("security.confirm", policy.Confirm)
	v.SetDefault("security.timeout", policy.Timeout)

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")

	v.SetDefault("chat.stream", true)
	v.SetDefault("chat.render_markdown", true)
}

// LoadConfig reads config.yaml from configDir and fills a missing API key
// from envFile or the process environment. Neither file has to exist.
func LoadConfig(configDir, envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType(ConfigFileType)
	v.AddConfigPath(configDir)

	setDefaults(v)

	// Read config file (ignore if not exists)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.AI.APIKey == "" {
		key, err := loadAPIKey(envFile)
		if err != nil {
			return nil, err
		}
		cfg.AI.APIKey = key
	}

	return &cfg, nil
}

// loadAPIKey reads the credential from a dotenv file. Variables set in
// the process environment take precedence over the file.
func loadAPIKey(envFile string) (string, error) {
	env := viper.New()
	env.AutomaticEnv()

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			env.SetConfigFile(envFile)
			env.SetConfigType("env")
			if err := env.ReadInConfig(); err != nil {
				return "", fmt.Errorf("failed to read %s: %w", envFile, err)
			}
		}
	}

	for _, name := range apiKeyVars {
		if key := env.GetString(name); key != "" {
			return key, nil
		}
	}
	return "", nil
}

// GetPromptsDir returns the directory holding prompt templates.
func GetPromptsDir(configDir string) string {
	return filepath.Join(configDir, PromptsDirName)
}

// SaveConfig saves the config to the user's config directory
func SaveConfig(cfg *Config) error {
	configDir, err := GetConfigDir()
	if err != nil {
		return err
	}
	return WriteConfig(configDir, cfg)
}

// WriteConfig writes cfg as config.yaml under configDir.
func WriteConfig(configDir string, cfg *Config) error {
	// Create config directory if not exists
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	v := viper.New()
	v.SetConfigName(ConfigFileName)
	v.SetConfigType(ConfigFileType)
	v.AddConfigPath(configDir)

	v.Set("ai.provider", cfg.AI.Provider)
	v.Set("ai.api_key", cfg.AI.APIKey)
	v.Set("ai.model", cfg.AI.Model)
	v.Set("ai.base_url", cfg.AI.BaseURL)
	v.Set("ai.temperature", cfg.AI.Temperature)
	v.Set("ai.timeout", cfg.AI.Timeout)
	v.Set("ai.max_retries", cfg.AI.MaxRetries)
	v.Set("ai.system_prompt", cfg.AI.SystemPrompt)

	v.Set("security.deny_list", cfg.Security.DenyList)
	v.Set("security.confirm", cfg.Security.Confirm)
	v.Set("security.timeout", cfg.Security.Timeout)

	v.Set("log.file", cfg.Log.File)
	v.Set("log.level", cfg.Log.Level)

	v.Set("chat.stream", cfg.Chat.Stream)
	v.Set("chat.render_markdown", cfg.Chat.RenderMarkdown)

	configPath := filepath.Join(configDir, ConfigFileName+"."+ConfigFileType)
	return v.WriteConfigAs(configPath)
}

// DefaultConfig returns the configuration written by `ag config init`.
func DefaultConfig() *Config {
	policy := security.DefaultPolicy()
	return &Config{
		AI: AIConfig{
			Provider:     "deepseek",
			Model:        openai.DefaultModel,
			BaseURL:      openai.DefaultBaseURL,
			Temperature:  0.7,
			Timeout:      30,
			MaxRetries:   2,
			SystemPrompt: prompt.DefaultName,
		},
		Security: *policy,
		Log:      LogConfig{Level: "info"},
		Chat:     ChatConfig{Stream: true, RenderMarkdown: true},
	}
}
