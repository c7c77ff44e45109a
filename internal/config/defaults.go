package config

import (
	"github.com/knadh/koanf/providers/confmap"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"data_dir": "~/.healing",
		"scheduler": map[string]interface{}{
			"poll_interval": 30,
			"daily_summary": map[string]interface{}{
				"enabled": true,
				"cron":    "0 8 * * *",
			},
		},
		"notify": map[string]interface{}{
			"terminal": true,
			"pushover": map[string]interface{}{
				"api_token": "",
				"user_key":  "",
			},
		},
		"chat": map[string]interface{}{
			"api_key":     "",
			"model":       "deepseek-chat",
			"max_tokens":  1024,
			"temperature": 1.0,
		},
	}
}

func NewDefaultProvider() *confmap.Confmap {
	return confmap.Provider(DefaultConfig(), ".")
}

func GetDefaultConfigPath() string {
	return "~/.healing/config.yaml"
}
