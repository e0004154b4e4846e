package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type StorageConfig struct {
	RootDir       string `yaml:"root_dir"`
	PublicBaseURL string `yaml:"public_base_url"`
}

type TelegramConfig struct {
	BotToken string `yaml:"bot_token"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type NotifierConfig struct {
	ScanIntervalMinutes int `yaml:"scan_interval_minutes"`
}

// ScanInterval converts the configured minutes, defaulting to hourly.
func (n NotifierConfig) ScanInterval() time.Duration {
	if n.ScanIntervalMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(n.ScanIntervalMinutes) * time.Minute
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Auth struct {
		JWTSecret string `yaml:"jwt_secret"`
	} `yaml:"auth"`
	Email struct {
		SMTPHost     string `yaml:"smtp_host"`
		SMTPPort     int    `yaml:"smtp_port"`
		SMTPUser     string `yaml:"smtp_user"`
		SMTPPassword string `yaml:"smtp_password"`
		FromEmail    string `yaml:"from_email"`
	} `yaml:"email"`
	Storage  StorageConfig  `yaml:"storage"`
	Telegram TelegramConfig `yaml:"telegram"`
	Gemini   GeminiConfig   `yaml:"gemini"`
	Notifier NotifierConfig `yaml:"notifier"`
}

func LoadConfig() *Config {
	f, err := os.Open("config/config.yaml")
	if err != nil {
		panic("Failed to open config.yaml: " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse config.yaml: " + err.Error())
	}

	if cfg.Auth.JWTSecret == "" {
		panic("auth.jwt_secret must be set in config.yaml")
	}
	if cfg.Storage.RootDir == "" {
		cfg.Storage.RootDir = "./files"
	}
	return &cfg
}
