package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Lin-Jiong-HDU/ag/internal/core/security"
)

func TestGetConfigDir(t *testing.T) {
	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir failed: %v", err)
	}

	home, err := os.UserHomeDir()
	if err != nil {
		t.Fatalf("Failed to get home dir: %v", err)
	}

	expected := filepath.Join(home, AgDirName)
	if dir != expected {
		t.Errorf("Expected %s, got %s", expected, dir)
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	tmpDir := t.TempDir()

	cfg, err := LoadConfig(tmpDir, filepath.Join(tmpDir, "missing_env"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.AI.Provider != "deepseek" {
		t.Errorf("Expected provider 'deepseek', got '%s'", cfg.AI.Provider)
	}
	if cfg.AI.Model != "deepseek-chat" {
		t.Errorf("Expected model 'deepseek-chat', got '%s'", cfg.AI.Model)
	}
	if cfg.AI.Temperature != 0.7 {
		t.Errorf("Expected temperature 0.7, got %v", cfg.AI.Temperature)
	}
	if cfg.AI.APIKey != "" {
		t.Errorf("Expected empty API key, got '%s'", cfg.AI.APIKey)
	}
	if !cfg.Security.Confirm {
		t.Error("Expected confirmation to be enabled by default")
	}
	if cfg.Security.Timeout != 60 {
		t.Errorf("Expected timeout 60, got %d", cfg.Security.Timeout)
	}
	if len(cfg.Security.DenyList) != len(security.DefaultDenyList()) {
		t.Errorf("Expected default deny list, got %v", cfg.Security.DenyList)
	}
	if !cfg.Chat.Stream {
		t.Error("Expected streaming to be enabled by default")
	}
}

func TestLoadConfig_File(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	tmpDir := t.TempDir()

	content := `ai:
  model: deepseek-reasoner
  api_key: file-key
security:
  confirm: false
  timeout: 5
  deny_list:
    - shutdown
chat:
  stream: false
`
	if err := os.WriteFile(filepath.Join(tmpDir, "config.yaml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	cfg, err := LoadConfig(tmpDir, "")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.AI.Model != "deepseek-reasoner" {
		t.Errorf("Expected model 'deepseek-reasoner', got '%s'", cfg.AI.Model)
	}
	if cfg.AI.APIKey != "file-key" {
		t.Errorf("Expected API key from config, got '%s'", cfg.AI.APIKey)
	}
	if cfg.Security.Confirm {
		t.Error("Expected confirmation to be disabled")
	}
	if cfg.Security.Timeout != 5 {
		t.Errorf("Expected timeout 5, got %d", cfg.Security.Timeout)
	}
	if len(cfg.Security.DenyList) != 1 || cfg.Security.DenyList[0] != "shutdown" {
		t.Errorf("Expected custom deny list, got %v", cfg.Security.DenyList)
	}
	if cfg.Chat.Stream {
		t.Error("Expected streaming to be disabled")
	}
	if cfg.AI.BaseURL != "https://api.deepseek.com/v1" {
		t.Errorf("Expected default base URL, got '%s'", cfg.AI.BaseURL)
	}
}

func TestLoadConfig_EnvFile(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	tmpDir := t.TempDir()

	envFile := filepath.Join(tmpDir, ".ag_env")
	if err := os.WriteFile(envFile, []byte("DEEPSEEK_API_KEY=dotenv-key\n"), 0600); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}

	cfg, err := LoadConfig(tmpDir, envFile)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.AI.APIKey != "dotenv-key" {
		t.Errorf("Expected API key from env file, got '%s'", cfg.AI.APIKey)
	}

	t.Setenv("DEEPSEEK_API_KEY", "process-key")

	cfg, err = LoadConfig(tmpDir, envFile)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.AI.APIKey != "process-key" {
		t.Errorf("Expected process environment to win, got '%s'", cfg.AI.APIKey)
	}
}

func TestLoadConfig_OpenAIKey(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "openai-key")

	cfg, err := LoadConfig(t.TempDir(), "")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.AI.APIKey != "openai-key" {
		t.Errorf("Expected OPENAI_API_KEY fallback, got '%s'", cfg.AI.APIKey)
	}
}

func TestWriteConfig(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")
	tmpDir := filepath.Join(t.TempDir(), AgDirName)

	cfg := DefaultConfig()
	cfg.AI.Model = "test-model"
	cfg.Security.Timeout = 10

	if err := WriteConfig(tmpDir, cfg); err != nil {
		t.Fatalf("WriteConfig failed: %v", err)
	}

	configPath := filepath.Join(tmpDir, ConfigFileName+"."+ConfigFileType)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Fatalf("Config file was not created")
	}

	loaded, err := LoadConfig(tmpDir, "")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if loaded.AI.Model != "test-model" {
		t.Errorf("Expected model 'test-model', got '%s'", loaded.AI.Model)
	}
	if loaded.Security.Timeout != 10 {
		t.Errorf("Expected timeout 10, got %d", loaded.Security.Timeout)
	}
}

func TestSaveConfig(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := SaveConfig(DefaultConfig()); err != nil {
		t.Fatalf("SaveConfig failed: %v", err)
	}

	configDir, _ := GetConfigDir()
	configPath := filepath.Join(configDir, ConfigFileName+"."+ConfigFileType)
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		t.Errorf("Config file was not created")
	}
}
