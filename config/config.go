package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the news agent.
type Config struct {
	General  GeneralConfig  `mapstructure:"general"`
	Timeline TimelineConfig `mapstructure:"timeline"`
	LLM      LLMConfig      `mapstructure:"llm"`
	Classify ClassifyConfig `mapstructure:"classify"`
	SMTP     SMTPConfig     `mapstructure:"smtp"`
	Schedule ScheduleConfig `mapstructure:"schedule"`
	RunLog   RunLogConfig   `mapstructure:"runlog"`
}

// GeneralConfig contains general application settings.
type GeneralConfig struct {
	Listen   string `mapstructure:"listen"`
	LogLevel string `mapstructure:"log_level"`
}

// TimelineConfig contains feed API credentials and fetch settings.
// The key/secret pair and token/secret pair are the request-signing
// credentials for the timeline API.
type TimelineConfig struct {
	APIKey       string        `mapstructure:"api_key"`
	APISecret    string        `mapstructure:"api_secret"`
	AccessToken  string        `mapstructure:"access_token"`
	AccessSecret string        `mapstructure:"access_secret"`
	BaseURL      string        `mapstructure:"base_url"`
	MaxResults   int           `mapstructure:"max_results"`
	Timeout      time.Duration `mapstructure:"timeout"`
}

func (t TimelineConfig) Validate() error {
	if strings.TrimSpace(t.APIKey) == "" || strings.TrimSpace(t.APISecret) == "" {
		return fmt.Errorf("timeline.api_key and timeline.api_secret are required")
	}
	if strings.TrimSpace(t.AccessToken) == "" || strings.TrimSpace(t.AccessSecret) == "" {
		return fmt.Errorf("timeline.access_token and timeline.access_secret are required")
	}
	if t.MaxResults <= 0 || t.MaxResults > 100 {
		return fmt.Errorf("timeline.max_results must be in 1..100")
	}
	return nil
}

// LLMConfig contains scoring-service settings.
type LLMConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

func (l LLMConfig) Validate() error {
	if strings.TrimSpace(l.APIKey) == "" {
		return fmt.Errorf("llm.api_key is required")
	}
	if strings.TrimSpace(l.Model) == "" {
		return fmt.Errorf("llm.model is required")
	}
	return nil
}

// ClassifyConfig controls the classification pass.
type ClassifyConfig struct {
	MinRelevance float64       `mapstructure:"min_relevance"`
	CallInterval time.Duration `mapstructure:"call_interval"`
}

func (c ClassifyConfig) Validate() error {
	if c.MinRelevance < 0 || c.MinRelevance > 1 {
		return fmt.Errorf("classify.min_relevance must be in [0,1]")
	}
	if c.CallInterval < 0 {
		return fmt.Errorf("classify.call_interval cannot be negative")
	}
	return nil
}

// SMTPConfig contains mail submission settings.
type SMTPConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	User      string `mapstructure:"user"`
	Password  string `mapstructure:"password"`
	From      string `mapstructure:"from"`
	Recipient string `mapstructure:"recipient"`
}

func (s SMTPConfig) Validate() error {
	if strings.TrimSpace(s.Host) == "" {
		return fmt.Errorf("smtp.host is required")
	}
	if strings.TrimSpace(s.Recipient) == "" {
		return fmt.Errorf("smtp.recipient is required")
	}
	if s.Port <= 0 {
		return fmt.Errorf("smtp.port must be > 0")
	}
	return nil
}

// ScheduleConfig controls the periodic trigger.
type ScheduleConfig struct {
	Cron string `mapstructure:"cron"`
}

// RunLogConfig controls the bounded in-memory log.
type RunLogConfig struct {
	Capacity int `mapstructure:"capacity"`
}

func (r RunLogConfig) Validate() error {
	if r.Capacity <= 0 {
		return fmt.Errorf("runlog.capacity must be > 0")
	}
	return nil
}

// Validate checks every section that has requirements.
func (c *Config) Validate() error {
	if err := c.Timeline.Validate(); err != nil {
		return err
	}
	if err := c.LLM.Validate(); err != nil {
		return err
	}
	if err := c.Classify.Validate(); err != nil {
		return err
	}
	if err := c.SMTP.Validate(); err != nil {
		return err
	}
	return c.RunLog.Validate()
}

// LoadConfig reads config from path (or the working directory when path
// is empty) and merges NEWSAGENT_* environment variables on top.
// Credentials are not validated here; the serve command validates before
// wiring clients so that status-only tooling can still load a partial
// config.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("json")

	v.SetDefault("general.listen", ":3001")
	v.SetDefault("general.log_level", "info")
	v.SetDefault("timeline.base_url", "https://api.twitter.com/2")
	v.SetDefault("timeline.max_results", 50)
	v.SetDefault("timeline.timeout", 30*time.Second)
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.model", "gpt-4o-mini")
	v.SetDefault("llm.temperature", 0.2)
	v.SetDefault("llm.max_tokens", 512)
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("classify.min_relevance", 0.7)
	v.SetDefault("classify.call_interval", 500*time.Millisecond)
	v.SetDefault("smtp.port", 587)
	v.SetDefault("schedule.cron", "0 */4 * * *")
	v.SetDefault("runlog.capacity", 100)

	if path == "" {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("NEWSAGENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
		// no config file: env + defaults only
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.SMTP.From == "" {
		cfg.SMTP.From = cfg.SMTP.User
	}
	return &cfg, nil
}
