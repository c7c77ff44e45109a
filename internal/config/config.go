// Package config loads the application configuration: built-in
// defaults, then an optional YAML file, then environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	DataDir   string          `koanf:"data_dir"`
	Scheduler SchedulerConfig `koanf:"scheduler"`
	Notify    NotifyConfig    `koanf:"notify"`
	Chat      ChatConfig      `koanf:"chat"`
}

type SchedulerConfig struct {
	PollInterval int                `koanf:"poll_interval"` // seconds
	DailySummary DailySummaryConfig `koanf:"daily_summary"`
}

type DailySummaryConfig struct {
	Enabled bool   `koanf:"enabled"`
	Cron    string `koanf:"cron"`
}

type NotifyConfig struct {
	Terminal bool           `koanf:"terminal"`
	Pushover PushoverConfig `koanf:"pushover"`
}

type PushoverConfig struct {
	APIToken string `koanf:"api_token"`
	UserKey  string `koanf:"user_key"`
}

type ChatConfig struct {
	APIKey      string  `koanf:"api_key"`
	Model       string  `koanf:"model"`
	MaxTokens   int     `koanf:"max_tokens"`
	Temperature float64 `koanf:"temperature"`
}

func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(NewDefaultProvider(), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath != "" {
		configPath = expandPath(configPath)

		if _, err := os.Stat(configPath); err == nil {
			if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load config file: %w", err)
			}
		}
	}

	if err := k.Load(env.Provider("HEALING_", ".", healingEnvKey), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// Well-known environment variables for the external services
	if apiKey := os.Getenv("DEEPSEEK_API_KEY"); apiKey != "" {
		k.Set("chat.api_key", apiKey)
	}
	if token := os.Getenv("PUSHOVER_API_TOKEN"); token != "" {
		k.Set("notify.pushover.api_token", token)
	}
	if userKey := os.Getenv("PUSHOVER_USER_KEY"); userKey != "" {
		k.Set("notify.pushover.user_key", userKey)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.DataDir = expandPath(cfg.DataDir)

	return &cfg, nil
}

// healingEnvVars maps each HEALING_-prefixed variable onto its koanf
// path. An explicit table because the config keys themselves contain
// underscores, so no mechanical transform is unambiguous.
var healingEnvVars = map[string]string{
	"HEALING_DATA_DIR":                        "data_dir",
	"HEALING_SCHEDULER_POLL_INTERVAL":         "scheduler.poll_interval",
	"HEALING_SCHEDULER_DAILY_SUMMARY_ENABLED": "scheduler.daily_summary.enabled",
	"HEALING_SCHEDULER_DAILY_SUMMARY_CRON":    "scheduler.daily_summary.cron",
	"HEALING_NOTIFY_TERMINAL":                 "notify.terminal",
	"HEALING_NOTIFY_PUSHOVER_API_TOKEN":       "notify.pushover.api_token",
	"HEALING_NOTIFY_PUSHOVER_USER_KEY":        "notify.pushover.user_key",
	"HEALING_CHAT_API_KEY":                    "chat.api_key",
	"HEALING_CHAT_MODEL":                      "chat.model",
	"HEALING_CHAT_MAX_TOKENS":                 "chat.max_tokens",
	"HEALING_CHAT_TEMPERATURE":                "chat.temperature",
}

// healingEnvKey resolves an environment variable name to its config
// key. Returning "" makes koanf drop unknown variables.
func healingEnvKey(s string) string {
	return healingEnvVars[s]
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}

	if c.Scheduler.PollInterval <= 0 {
		return fmt.Errorf("scheduler poll_interval must be positive")
	}

	if c.Scheduler.DailySummary.Enabled && c.Scheduler.DailySummary.Cron == "" {
		return fmt.Errorf("scheduler daily_summary.cron is required when the summary is enabled")
	}

	if c.Chat.Temperature < 0 || c.Chat.Temperature > 2 {
		return fmt.Errorf("chat temperature must be between 0 and 2")
	}

	return nil
}

// DatabasePath is the SQLite file holding medications, the reminder
// queue, notes, and the meal plan.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.DataDir, "healing.db")
}

// PrefsPath is the JSON preferences file.
func (c *Config) PrefsPath() string {
	return filepath.Join(c.DataDir, "prefs.json")
}

// EnsureDataDir creates the data directory if missing.
func (c *Config) EnsureDataDir() error {
	if err := os.MkdirAll(c.DataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}

	return path
}
