package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Aggregation strategies accepted by panel.strategy.
const (
	StrategyLink     = "link"
	StrategySubtasks = "subtasks"
)

// Config holds JIRA connection settings and panel behaviour.
type Config struct {
	URL    string       `yaml:"url"    mapstructure:"url"`
	Email  string       `yaml:"email"  mapstructure:"email"`
	Token  string       `yaml:"token"  mapstructure:"token"`
	Env    string       `yaml:"env"    mapstructure:"env"`
	Server ServerConfig `yaml:"server" mapstructure:"server"`
	Panel  PanelConfig  `yaml:"panel"  mapstructure:"panel"`
	Log    LogConfig    `yaml:"log"    mapstructure:"log"`
}

// ServerConfig configures the invocation bridge.
type ServerConfig struct {
	Addr string `yaml:"addr" mapstructure:"addr"`
}

// PanelConfig configures how subtasks are collected and displayed.
type PanelConfig struct {
	Strategy    string        `yaml:"strategy"     mapstructure:"strategy"`
	LinkPattern string        `yaml:"link_pattern" mapstructure:"link_pattern"`
	Concurrency int           `yaml:"concurrency"  mapstructure:"concurrency"`
	Timeout     time.Duration `yaml:"timeout"      mapstructure:"timeout"`
	// Teams maps an assignee display name to the team shown on the board.
	// Keys are matched case-insensitively (viper lowercases map keys).
	Teams map[string]string `yaml:"teams,omitempty" mapstructure:"teams"`
}

// LogConfig configures slog.
type LogConfig struct {
	Level  string `yaml:"level"  mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultPath returns the default config file path (~/.jsm-panel.yaml).
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".jsm-panel.yaml"
	}
	return filepath.Join(home, ".jsm-panel.yaml")
}

// Load reads config from the YAML file and applies env var overrides.
// configPath may be empty to use the default path.
func Load(configPath string) (Config, error) {
	v := viper.New()

	if configPath == "" {
		configPath = DefaultPath()
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	v.SetDefault("env", "development")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("panel.strategy", StrategyLink)
	v.SetDefault("panel.link_pattern", "JSW")
	v.SetDefault("panel.concurrency", 8)
	v.SetDefault("panel.timeout", "30s")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	// Env var overrides
	v.BindEnv("url", "JIRA_URL")
	v.BindEnv("email", "JIRA_EMAIL")
	v.BindEnv("token", "JIRA_TOKEN")
	v.BindEnv("env", "PANEL_ENV")
	v.BindEnv("server.addr", "PANEL_ADDR")
	v.BindEnv("panel.strategy", "PANEL_STRATEGY")
	v.BindEnv("panel.link_pattern", "PANEL_LINK_PATTERN")
	v.BindEnv("panel.concurrency", "PANEL_CONCURRENCY")
	v.BindEnv("panel.timeout", "PANEL_TIMEOUT")
	v.BindEnv("log.level", "PANEL_LOG_LEVEL")
	v.BindEnv("log.format", "PANEL_LOG_FORMAT")

	// Read the config file (ignore "not found" errors so env vars still work)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return Config{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required fields are present and panel settings are usable.
func (c Config) Validate() error {
	if c.URL == "" {
		return fmt.Errorf("JIRA URL is required (set in config file or JIRA_URL env var)")
	}
	if c.Email == "" {
		return fmt.Errorf("JIRA email is required (set in config file or JIRA_EMAIL env var)")
	}
	if c.Token == "" {
		return fmt.Errorf("JIRA token is required (set in config file or JIRA_TOKEN env var)")
	}
	switch c.Panel.Strategy {
	case StrategyLink, StrategySubtasks:
	default:
		return fmt.Errorf("panel.strategy must be %q or %q, got %q", StrategyLink, StrategySubtasks, c.Panel.Strategy)
	}
	if _, err := regexp.Compile(c.Panel.LinkPattern); err != nil {
		return fmt.Errorf("panel.link_pattern is not a valid regexp: %w", err)
	}
	if c.Panel.Concurrency < 1 {
		return fmt.Errorf("panel.concurrency must be at least 1, got %d", c.Panel.Concurrency)
	}
	return nil
}

// IsProduction reports whether the panel runs with env=production.
func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// TeamFor returns the configured team of an assignee, if any.
func (p PanelConfig) TeamFor(assignee string) (string, bool) {
	if assignee == "" {
		return "", false
	}
	for name, team := range p.Teams {
		if strings.EqualFold(name, assignee) {
			return team, true
		}
	}
	return "", false
}

// Save writes the config to the given path (or default path if empty).
func Save(cfg Config, configPath string) error {
	if configPath == "" {
		configPath = DefaultPath()
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
