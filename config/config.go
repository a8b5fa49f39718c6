// Package config loads the shared settings the utility packages need. Apps
// keep a small YAML file per environment; anything secret is expected to
// arrive through the environment instead.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	AppName  string `yaml:"app_name"`
	LogLevel string `yaml:"log_level"`
	LogPath  string `yaml:"log_path"`

	NotifyAPIKey  string `yaml:"notify_api_key"`
	NotifyBaseURL string `yaml:"notify_base_url"`

	SharedEmailKey  string `yaml:"shared_email_key"`
	InviteEmailSalt string `yaml:"invite_email_salt"`

	// BaseURLs maps a frontend app name ("buyer", "supplier", "user") to the
	// absolute URL it is served from.
	BaseURLs map[string]string `yaml:"base_urls"`
}

func Default() *Config {
	return &Config{
		AppName:  "none",
		LogLevel: "info",
		BaseURLs: map[string]string{},
	}
}

// Load reads the YAML file at path on top of the defaults, then overlays any
// environment variables. A missing file is not an error so apps can run from
// the environment alone.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err == nil {
			if err := yaml.Unmarshal(b, cfg); err != nil {
				return nil, fmt.Errorf("config: parse %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, nil
}

// FromEnv builds a config from defaults plus the environment only.
func FromEnv() *Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

func (c *Config) applyEnv() {
	for env, dst := range map[string]*string{
		"DM_APP_NAME":        &c.AppName,
		"DM_LOG_LEVEL":       &c.LogLevel,
		"DM_LOG_PATH":        &c.LogPath,
		"DM_NOTIFY_API_KEY":  &c.NotifyAPIKey,
		"DM_NOTIFY_BASE_URL": &c.NotifyBaseURL,
		"SHARED_EMAIL_KEY":   &c.SharedEmailKey,
		"INVITE_EMAIL_SALT":  &c.InviteEmailSalt,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
}
