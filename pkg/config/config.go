// Package config loads agent settings from JSON files, the environment and a
// per-model limits table.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/alantheprice/vibecode/pkg/llm"
	"github.com/alantheprice/vibecode/pkg/utils"
)

const configDirName = ".vibecode"

// Config holds the agent settings. The home config is read first and the
// working directory config overrides it; environment variables win last.
type Config struct {
	Model             string   `json:"model"`
	MaxAttempts       int      `json:"max_attempts"`
	JSONRetries       int      `json:"json_retries"`
	ExecTimeoutSecs   int      `json:"exec_timeout_secs"`
	ProbeTimeoutSecs  int      `json:"probe_timeout_secs"`
	ProjectsRoot      string   `json:"projects_root"`
	WorkerPoolSize    int      `json:"worker_pool_size"`
	RequestsPerMinute int      `json:"requests_per_minute"`
	ProtectedPaths    []string `json:"protected_paths"`
	OllamaServerURL   string   `json:"ollama_server_url"`
	OpenAIBaseURL     string   `json:"openai_base_url"`
	JsonLogs          bool     `json:"json_logs"`

	ModelLimits map[string]llm.Limits `json:"-"`
	// Sources lists the files that contributed, in load order.
	Sources []string `json:"-"`
}

func getHomeConfigPath() (string, string) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	configDir := filepath.Join(home, configDirName)
	return configDir, filepath.Join(configDir, "config.json")
}

func getCurrentConfigPath() (string, string) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", ""
	}
	configDir := filepath.Join(cwd, configDirName)
	return configDir, filepath.Join(configDir, "config.json")
}

// Default returns a config with every default applied.
func Default() *Config {
	cfg := &Config{}
	cfg.setDefaultValues()
	return cfg
}

func (cfg *Config) setDefaultValues() {
	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.JSONRetries == 0 {
		cfg.JSONRetries = 3
	}
	if cfg.ExecTimeoutSecs == 0 {
		cfg.ExecTimeoutSecs = 30
	}
	if cfg.ProbeTimeoutSecs == 0 {
		cfg.ProbeTimeoutSecs = 5
	}
	if cfg.ProjectsRoot == "" {
		cfg.ProjectsRoot = "ai_projects"
	}
	if cfg.WorkerPoolSize == 0 {
		cfg.WorkerPoolSize = 2
	}
	if cfg.ProtectedPaths == nil {
		cfg.ProtectedPaths = []string{".git/"}
	}
	if cfg.OllamaServerURL == "" {
		cfg.OllamaServerURL = "http://localhost:11434"
	}
}

// overlay unmarshals the JSON file at path onto cfg. A missing file is not an error.
func overlay(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return utils.NewFileSystemError("read config", path, err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return utils.NewConfigurationError(path, err)
	}
	cfg.Sources = append(cfg.Sources, path)
	return nil
}

// Load reads .env, the home and working-directory configs, environment
// overrides and the per-model limits table, then validates the result.
func Load() (*Config, error) {
	homeDir, homeConfig := getHomeConfigPath()
	_, currentConfig := getCurrentConfigPath()
	return load(homeDir, []string{homeConfig, currentConfig})
}

func load(configDir string, paths []string) (*Config, error) {
	// a missing .env file is normal
	_ = godotenv.Load()

	cfg := &Config{}
	for _, p := range paths {
		if p == "" {
			continue
		}
		if err := overlay(cfg, p); err != nil {
			return nil, err
		}
	}
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	cfg.setDefaultValues()

	limits, err := LoadModelLimits(configDir)
	if err != nil {
		return nil, err
	}
	cfg.ModelLimits = limits

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("VIBECODE_MODEL")); v != "" {
		cfg.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("VIBECODE_PROJECTS_ROOT")); v != "" {
		cfg.ProjectsRoot = v
	}
	if err := envInt("VIBECODE_MAX_ATTEMPTS", &cfg.MaxAttempts); err != nil {
		return err
	}
	if err := envInt("VIBECODE_EXEC_TIMEOUT", &cfg.ExecTimeoutSecs); err != nil {
		return err
	}
	if os.Getenv("VIBECODE_JSON_LOGS") == "1" {
		cfg.JsonLogs = true
	}
	return nil
}

func envInt(name string, dst *int) error {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return utils.NewConfigurationError(name, fmt.Errorf("not an integer: %q", v))
	}
	*dst = n
	return nil
}

// Validate rejects settings the agent cannot run with.
func (cfg *Config) Validate() error {
	checks := []struct {
		field string
		value int
	}{
		{"max_attempts", cfg.MaxAttempts},
		{"json_retries", cfg.JSONRetries},
		{"exec_timeout_secs", cfg.ExecTimeoutSecs},
		{"probe_timeout_secs", cfg.ProbeTimeoutSecs},
		{"worker_pool_size", cfg.WorkerPoolSize},
	}
	for _, c := range checks {
		if c.value <= 0 {
			return utils.NewValidationError(c.field, fmt.Sprintf("must be positive, got %d", c.value))
		}
	}
	if cfg.RequestsPerMinute < 0 {
		return utils.NewValidationError("requests_per_minute", "must not be negative")
	}
	if strings.TrimSpace(cfg.Model) == "" {
		return utils.NewValidationError("model", "must not be empty")
	}
	return nil
}

// ExecTimeout is the per-process compile and run limit.
func (cfg *Config) ExecTimeout() time.Duration {
	return time.Duration(cfg.ExecTimeoutSecs) * time.Second
}

// ProbeTimeout bounds toolchain version queries.
func (cfg *Config) ProbeTimeout() time.Duration {
	return time.Duration(cfg.ProbeTimeoutSecs) * time.Second
}

// Budget returns the token budget backed by the model limits table.
func (cfg *Config) Budget() llm.Budget {
	return llm.Budget{Limits: cfg.ModelLimits}
}
