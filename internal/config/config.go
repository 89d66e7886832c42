// Package config loads the journal configuration from YAML, .env files and
// the environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"scrapjournal/internal/calendar"
	"scrapjournal/internal/report"
	"scrapjournal/internal/scrapbox"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultPath is the config file read when --config is not given.
const DefaultPath = "journal.yaml"

// ErrMissingSID reports that no Scrapbox session cookie was configured.
var ErrMissingSID = errors.New("SCRAPBOX_SID is not set")

// Config holds all journal configuration.
type Config struct {
	Scrapbox  ScrapboxConfig         `yaml:"scrapbox"`
	Browser   scrapbox.BrowserConfig `yaml:"browser"`
	Clock     ClockConfig            `yaml:"clock"`
	Templates report.Templates       `yaml:"templates"`
	History   HistoryConfig          `yaml:"history"`
	Logging   LoggingConfig          `yaml:"logging"`
}

// ScrapboxConfig configures the Scrapbox API.
type ScrapboxConfig struct {
	Project string `yaml:"project"`
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
	// SID is the connect.sid cookie. It is only read from the environment
	// and never written back to disk.
	SID string `yaml:"-"`
}

// ClockConfig pins the time zone and, optionally, the reference date.
type ClockConfig struct {
	Timezone       string `yaml:"timezone"`
	ReferenceDate  string `yaml:"reference_date"` // YYYY-MM-DD
	DayTitleLayout string `yaml:"day_title_layout"`
}

// HistoryConfig configures the post ledger.
type HistoryConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Scrapbox: ScrapboxConfig{
			BaseURL: scrapbox.DefaultBaseURL,
			Timeout: "30s",
		},
		Browser: scrapbox.DefaultBrowserConfig(),
		Clock: ClockConfig{
			Timezone:       calendar.DefaultTimezone,
			DayTitleLayout: calendar.DayTitleLayout,
		},
		Templates: report.DefaultTemplates(),
		History: HistoryConfig{
			Enabled: true,
			Path:    filepath.Join(".journal", "history.db"),
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadDotEnv reads KEY=VALUE pairs from path into the environment. Variables
// that are already set win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides apply in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if sid := os.Getenv("SCRAPBOX_SID"); sid != "" {
		c.Scrapbox.SID = sid
	}
	if project := os.Getenv("SCRAPBOX_PROJECT"); project != "" {
		c.Scrapbox.Project = project
	}
	if url := os.Getenv("SCRAPBOX_BASE_URL"); url != "" {
		c.Scrapbox.BaseURL = url
	}
	if tz := os.Getenv("JOURNAL_TIMEZONE"); tz != "" {
		c.Clock.Timezone = tz
	}
	if date := os.Getenv("JOURNAL_REFERENCE_DATE"); date != "" {
		c.Clock.ReferenceDate = date
	}
	if path := os.Getenv("JOURNAL_HISTORY_DB"); path != "" {
		c.History.Path = path
	}
	if bin := os.Getenv("JOURNAL_BROWSER_BIN"); bin != "" {
		c.Browser.Bin = bin
	}
	if v := os.Getenv("JOURNAL_HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Browser.Headless = b
		}
	}
}

// HTTPTimeout returns the Scrapbox API timeout as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	d, err := time.ParseDuration(c.Scrapbox.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// Location resolves the configured time zone.
func (c *Config) Location() (*time.Location, error) {
	return calendar.LoadLocation(c.Clock.Timezone)
}

// NewClock builds the clock described by the clock section.
func (c *Config) NewClock() (calendar.Clock, error) {
	loc, err := c.Location()
	if err != nil {
		return nil, err
	}
	return calendar.NewClock(loc, c.Clock.ReferenceDate)
}

// RequireSID fails when no session cookie is configured.
func (c *Config) RequireSID() error {
	if c.Scrapbox.SID == "" {
		return ErrMissingSID
	}
	return nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := c.NewClock(); err != nil {
		return fmt.Errorf("invalid clock config: %w", err)
	}
	if c.History.Enabled && c.History.Path == "" {
		return fmt.Errorf("history is enabled but history.path is empty")
	}
	if err := c.Templates.Validate(); err != nil {
		return fmt.Errorf("invalid templates: %w", err)
	}
	if err := c.Logging.validate(); err != nil {
		return err
	}
	return nil
}
