package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env"
	"gopkg.in/yaml.v3"
)

// FileEnv names the variable holding an optional YAML config file path.
const FileEnv = "PET_TRAINING_CONFIG"

type Config struct {
	BaseURL        string        `yaml:"baseUrl" env:"TRAINING_BASE_URL"`
	CSRFCookieName string        `yaml:"csrfCookieName" env:"CSRF_COOKIE_NAME"`
	CSRFHeader     string        `yaml:"csrfHeader" env:"CSRF_HEADER"`
	CSRFFieldName  string        `yaml:"csrfFieldName" env:"CSRF_FIELD_NAME"`
	CSRFToken      string        `yaml:"csrfToken" env:"CSRF_TOKEN"`
	SessionID      string        `yaml:"sessionId" env:"SESSION_ID"`
	HTTPTimeout    time.Duration `yaml:"httpTimeout" env:"HTTP_TIMEOUT"`

	LogLevel  string `yaml:"logLevel" env:"LOG_LEVEL"`
	LogFormat string `yaml:"logFormat" env:"LOG_FORMAT"`
	Locale    string `yaml:"locale" env:"LOCALE"`

	TopicARN       string        `yaml:"topicArn" env:"TOPIC_ARN"`
	ReminderWindow time.Duration `yaml:"reminderWindow" env:"REMINDER_WINDOW"`
	Timezone       string        `yaml:"timezone" env:"TIMEZONE"`
}

// Load reads the YAML file at path when one is given, overlays the
// environment and fills the remaining gaps with defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file %s %w", path, err)
		}
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("error parsing environment variables %w", err)
	}

	cfg.setDefaults()

	return cfg, nil
}

// LoadFromEnv loads the file named by FileEnv, if any.
func LoadFromEnv() (*Config, error) {
	return Load(os.Getenv(FileEnv))
}

func (cfg *Config) setDefaults() {
	if cfg.CSRFCookieName == "" {
		cfg.CSRFCookieName = "csrftoken"
	}
	if cfg.CSRFHeader == "" {
		cfg.CSRFHeader = "X-CSRFToken"
	}
	if cfg.CSRFFieldName == "" {
		cfg.CSRFFieldName = "csrfmiddlewaretoken"
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 10 * time.Second
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
	if cfg.LogFormat == "" {
		cfg.LogFormat = "json"
	}
	if cfg.Locale == "" {
		cfg.Locale = "ru"
	}
	if cfg.ReminderWindow == 0 {
		cfg.ReminderWindow = 3 * time.Minute
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "UTC"
	}
}

// ValidateClient checks what the training client needs.
func (cfg *Config) ValidateClient() error {
	if cfg.BaseURL == "" {
		return errors.New("error TRAINING_BASE_URL is required")
	}

	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return fmt.Errorf("error parsing TRAINING_BASE_URL %w", err)
	}

	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("error TRAINING_BASE_URL %q is not an absolute url", cfg.BaseURL)
	}

	if cfg.HTTPTimeout < 0 {
		return fmt.Errorf("error HTTP_TIMEOUT %s is negative", cfg.HTTPTimeout)
	}

	return nil
}

// ValidateNotifier checks what the reminder notifier needs.
func (cfg *Config) ValidateNotifier() error {
	if cfg.TopicARN == "" {
		return errors.New("error TOPIC_ARN is required")
	}

	if cfg.ReminderWindow < 0 {
		return fmt.Errorf("error REMINDER_WINDOW %s is negative", cfg.ReminderWindow)
	}

	if _, err := cfg.Location(); err != nil {
		return err
	}

	return nil
}

func (cfg *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("error loading TIMEZONE %s %w", cfg.Timezone, err)
	}

	return loc, nil
}
