// Package config provides configuration for the reminder pipeline.
//
// Everything except the webhook secret lives in an optional YAML file with
// baked-in defaults; the secret is resolved once from the environment and
// carried in the Config value so the pipeline itself never reads ambient
// process state.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/asincerity/convertible-bond-reminder/internal/models"
)

// Delivery channels.
const (
	ChannelServerChan = "serverchan"
	ChannelWeCom      = "wecom"
)

// Environment variables holding the per-channel webhook secrets.
const (
	EnvServerChanKey = "SERVERCHAN_KEY"
	EnvWeComKey      = "WECOM_WEBHOOK_KEY"
)

// Configuration validation errors.
var (
	ErrMissingBondURL   = errors.New("bonds.url is required")
	ErrInvalidDateField = errors.New("bonds.date_field must be apply_date or maturity_dt")
	ErrMissingCity      = errors.New("weather.city is required when weather is enabled")
	ErrInvalidTimeout   = errors.New("timeout_sec must be at least 1")
	ErrInvalidLogLevel  = errors.New("logging.level must be one of: debug, info, warn, error")
	ErrUnknownChannel   = errors.New("notify.channel must be serverchan or wecom")
	ErrMissingSecret    = errors.New("no webhook secret configured")
	ErrAmbiguousChannel = errors.New("both webhook secrets set; notify.channel must pick one")
)

// Config is the complete pipeline configuration.
type Config struct {
	Bonds   BondsConfig   `yaml:"bonds"`
	Weather WeatherConfig `yaml:"weather"`
	Notify  NotifyConfig  `yaml:"notify"`
	Logging LoggingConfig `yaml:"logging"`
}

// BondsConfig describes the bond listing provider.
type BondsConfig struct {
	URL        string `yaml:"url"`
	Referer    string `yaml:"referer"`
	ListURL    string `yaml:"list_url"`
	DateField  string `yaml:"date_field"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// WeatherConfig describes the weather provider. Disabling it reproduces the
// date-only digest.
type WeatherConfig struct {
	Enabled    bool   `yaml:"enabled"`
	BaseURL    string `yaml:"base_url"`
	City       string `yaml:"city"`
	Lang       string `yaml:"lang"`
	TimeoutSec int    `yaml:"timeout_sec"`
}

// NotifyConfig describes the delivery channel. Secret is resolved from the
// environment, never from the file.
type NotifyConfig struct {
	Channel       string `yaml:"channel"`
	ServerChanURL string `yaml:"serverchan_url"`
	WeComURL      string `yaml:"wecom_url"`
	TimeoutSec    int    `yaml:"timeout_sec"`
	Secret        string `yaml:"-"`
}

// LoggingConfig defines logging behavior.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the baked-in configuration. The endpoints mirror the
// production providers so the binary runs with no config file at all.
func Default() *Config {
	return &Config{
		Bonds: BondsConfig{
			URL:        "https://www.jisilu.cn/data/cbnew/cb_list_new/",
			Referer:    "https://www.jisilu.cn/data/cbnew/",
			ListURL:    "https://www.jisilu.cn/data/cbnew/",
			DateField:  models.DateFieldApply,
			TimeoutSec: 10,
		},
		Weather: WeatherConfig{
			Enabled:    true,
			BaseURL:    "https://wttr.in",
			City:       "Shanghai",
			Lang:       "zh",
			TimeoutSec: 10,
		},
		Notify: NotifyConfig{
			ServerChanURL: "https://sctapi.ftqq.com",
			WeComURL:      "https://qyapi.weixin.qq.com/cgi-bin/webhook/send",
			TimeoutSec:    10,
		},
		Logging: LoggingConfig{Level: "info"},
	}
}

// Load reads YAML from path on top of the defaults and resolves the webhook
// secret from the environment. An empty path skips the file entirely.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	}

	if err := cfg.ResolveSecret(os.Getenv); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// ResolveSecret fills Notify.Channel and Notify.Secret from the given
// environment lookup. An explicit channel wins; otherwise whichever secret
// variable is set picks the channel.
func (c *Config) ResolveSecret(getenv func(string) string) error {
	serverchan := getenv(EnvServerChanKey)
	wecom := getenv(EnvWeComKey)

	switch c.Notify.Channel {
	case ChannelServerChan:
		c.Notify.Secret = serverchan
	case ChannelWeCom:
		c.Notify.Secret = wecom
	case "":
		switch {
		case serverchan != "" && wecom != "":
			return ErrAmbiguousChannel
		case serverchan != "":
			c.Notify.Channel = ChannelServerChan
			c.Notify.Secret = serverchan
		case wecom != "":
			c.Notify.Channel = ChannelWeCom
			c.Notify.Secret = wecom
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChannel, c.Notify.Channel)
	}

	if c.Notify.Secret == "" {
		return fmt.Errorf("%w: set %s or %s", ErrMissingSecret, EnvServerChanKey, EnvWeComKey)
	}

	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Bonds.URL == "" {
		return ErrMissingBondURL
	}

	if c.Bonds.DateField != models.DateFieldApply && c.Bonds.DateField != models.DateFieldMaturity {
		return fmt.Errorf("%w: %q", ErrInvalidDateField, c.Bonds.DateField)
	}

	if c.Weather.Enabled && c.Weather.City == "" {
		return ErrMissingCity
	}

	for _, sec := range []int{c.Bonds.TimeoutSec, c.Weather.TimeoutSec, c.Notify.TimeoutSec} {
		if sec < 1 {
			return ErrInvalidTimeout
		}
	}

	switch c.Notify.Channel {
	case ChannelServerChan, ChannelWeCom:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownChannel, c.Notify.Channel)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return ErrInvalidLogLevel
	}

	return nil
}

// Timeout returns the bond provider timeout.
func (b *BondsConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSec) * time.Second
}

// Timeout returns the weather provider timeout.
func (w *WeatherConfig) Timeout() time.Duration {
	return time.Duration(w.TimeoutSec) * time.Second
}

// Timeout returns the delivery timeout.
func (n *NotifyConfig) Timeout() time.Duration {
	return time.Duration(n.TimeoutSec) * time.Second
}

// String returns a redacted one-line summary.
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Channel: %s, DateField: %s, Weather: %t}",
		c.Notify.Channel,
		c.Bonds.DateField,
		c.Weather.Enabled,
	)
}
