package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DataDir == "" {
		t.Error("default data_dir is empty")
	}
	if cfg.Scheduler.PollInterval != 30 {
		t.Errorf("default poll_interval = %d, want 30", cfg.Scheduler.PollInterval)
	}
	if !cfg.Scheduler.DailySummary.Enabled || cfg.Scheduler.DailySummary.Cron != "0 8 * * *" {
		t.Errorf("default daily summary = %+v", cfg.Scheduler.DailySummary)
	}
	if !cfg.Notify.Terminal {
		t.Error("terminal notifications disabled by default")
	}
	if cfg.Chat.Model != "deepseek-chat" || cfg.Chat.MaxTokens != 1024 {
		t.Errorf("default chat config = %+v", cfg.Chat)
	}

	if err := cfg.Validate(); err != nil {
		t.Errorf("default config fails validation: %v", err)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
data_dir: /tmp/healing-test
scheduler:
  poll_interval: 5
notify:
  terminal: false
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DataDir != "/tmp/healing-test" {
		t.Errorf("data_dir = %q", cfg.DataDir)
	}
	if cfg.Scheduler.PollInterval != 5 {
		t.Errorf("poll_interval = %d, want 5", cfg.Scheduler.PollInterval)
	}
	if cfg.Notify.Terminal {
		t.Error("terminal flag not overridden by file")
	}
	// Untouched keys keep their defaults.
	if cfg.Chat.Model != "deepseek-chat" {
		t.Errorf("chat model = %q, want default", cfg.Chat.Model)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load with missing file failed: %v", err)
	}
	if cfg.Scheduler.PollInterval != 30 {
		t.Errorf("poll_interval = %d, want default 30", cfg.Scheduler.PollInterval)
	}
}

func TestHealingEnvOverrides(t *testing.T) {
	t.Setenv("HEALING_DATA_DIR", "/tmp/healing-env")
	t.Setenv("HEALING_SCHEDULER_POLL_INTERVAL", "5")
	t.Setenv("HEALING_NOTIFY_TERMINAL", "false")
	t.Setenv("HEALING_CHAT_MODEL", "deepseek-reasoner")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.DataDir != "/tmp/healing-env" {
		t.Errorf("data_dir = %q, want env override", cfg.DataDir)
	}
	if cfg.Scheduler.PollInterval != 5 {
		t.Errorf("poll_interval = %d, want 5", cfg.Scheduler.PollInterval)
	}
	if cfg.Notify.Terminal {
		t.Error("notify.terminal not overridden by env")
	}
	if cfg.Chat.Model != "deepseek-reasoner" {
		t.Errorf("chat model = %q, want env override", cfg.Chat.Model)
	}
}

func TestUnknownHealingEnvVarIsDropped(t *testing.T) {
	t.Setenv("HEALING_NO_SUCH_KEY", "zzz")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Scheduler.PollInterval != 30 {
		t.Errorf("poll_interval = %d, want untouched default 30", cfg.Scheduler.PollInterval)
	}
}

func TestEnvOverridesServiceKeys(t *testing.T) {
	t.Setenv("DEEPSEEK_API_KEY", "sk-test")
	t.Setenv("PUSHOVER_API_TOKEN", "po-token")
	t.Setenv("PUSHOVER_USER_KEY", "po-user")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Chat.APIKey != "sk-test" {
		t.Errorf("chat api key = %q", cfg.Chat.APIKey)
	}
	if cfg.Notify.Pushover.APIToken != "po-token" || cfg.Notify.Pushover.UserKey != "po-user" {
		t.Errorf("pushover config = %+v", cfg.Notify.Pushover)
	}
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			DataDir: "/tmp/x",
			Scheduler: SchedulerConfig{
				PollInterval: 30,
				DailySummary: DailySummaryConfig{Enabled: true, Cron: "0 8 * * *"},
			},
			Chat: ChatConfig{Temperature: 1.0},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty data dir", func(c *Config) { c.DataDir = "" }, true},
		{"zero poll interval", func(c *Config) { c.Scheduler.PollInterval = 0 }, true},
		{"summary without cron", func(c *Config) { c.Scheduler.DailySummary.Cron = "" }, true},
		{"summary disabled without cron", func(c *Config) {
			c.Scheduler.DailySummary = DailySummaryConfig{}
		}, false},
		{"temperature too high", func(c *Config) { c.Chat.Temperature = 2.5 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestPaths(t *testing.T) {
	cfg := &Config{DataDir: "/data/healing"}
	if got := cfg.DatabasePath(); got != filepath.Join("/data/healing", "healing.db") {
		t.Errorf("DatabasePath = %q", got)
	}
	if got := cfg.PrefsPath(); got != filepath.Join("/data/healing", "prefs.json") {
		t.Errorf("PrefsPath = %q", got)
	}
}
