package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/mgy583/account-book/internal/model"
)

// Environment variables that override the file.
const (
	EnvAPIURL = "ABOOK_API_URL"
	EnvToken  = "ABOOK_TOKEN"
)

const defaultBaseURL = "http://localhost:3000/api"

// ErrUnknownKey is returned by Set and Get for keys outside the schema.
var ErrUnknownKey = errors.New("unknown config key")

// Config holds all abook configuration.
type Config struct {
	Server     ServerConfig     `toml:"server"`
	Display    DisplayConfig    `toml:"display"`
	Appearance AppearanceConfig `toml:"appearance"`
}

// ServerConfig points at the order service.
type ServerConfig struct {
	BaseURL    string `toml:"base_url"`
	TimeoutSec int    `toml:"timeout_sec"`
}

// DisplayConfig holds the default table and statistics view.
type DisplayConfig struct {
	PageSize         int    `toml:"page_size"`
	StatGroup        string `toml:"stat_group"`
	StatMonth        string `toml:"stat_month"`
	ChartGranularity string `toml:"chart_granularity"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Server: ServerConfig{
			BaseURL:    defaultBaseURL,
			TimeoutSec: 15,
		},
		Display: DisplayConfig{
			PageSize:         8,
			StatGroup:        string(model.GroupByType),
			StatMonth:        string(model.ThisMonth),
			ChartGranularity: string(model.ByDay),
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
	}
}

// ConfigDir returns the XDG-compliant config directory.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "abook")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "abook")
}

// ConfigPath returns the full path to the config file.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	return LoadFile(ConfigPath())
}

// LoadFile reads the config at path. Keys missing from the file keep their
// defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // user-chosen config path
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	return SaveFile(ConfigPath(), cfg)
}

// SaveFile writes cfg to path with owner-only permissions.
func SaveFile(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // user-chosen config path
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(ConfigPath())
	return err == nil
}

// BaseURL returns the service URL from env var or config, in that order.
func BaseURL(cfg Config) string {
	if u := os.Getenv(EnvAPIURL); u != "" {
		return u
	}
	if cfg.Server.BaseURL != "" {
		return cfg.Server.BaseURL
	}
	return defaultBaseURL
}

// TokenFromEnv returns the bearer token from the environment, if set. It wins
// over a stored login.
func TokenFromEnv() string {
	return os.Getenv(EnvToken)
}

// Validate checks enum fields and numeric ranges.
func (c Config) Validate() error {
	var errs []error
	if c.Server.BaseURL == "" {
		errs = append(errs, errors.New("server.base_url must not be empty"))
	}
	if c.Server.TimeoutSec < 1 {
		errs = append(errs, fmt.Errorf("server.timeout_sec must be positive, got %d", c.Server.TimeoutSec))
	}
	if !slices.Contains([]int{8, 16, 32}, c.Display.PageSize) {
		errs = append(errs, fmt.Errorf("display.page_size must be 8, 16 or 32, got %d", c.Display.PageSize))
	}
	if _, err := model.ParseStatGroup(c.Display.StatGroup); err != nil {
		errs = append(errs, fmt.Errorf("display.stat_group: %w", err))
	}
	if _, err := model.ParseMonthWindow(c.Display.StatMonth); err != nil {
		errs = append(errs, fmt.Errorf("display.stat_month: %w", err))
	}
	if _, err := model.ParseGranularity(c.Display.ChartGranularity); err != nil {
		errs = append(errs, fmt.Errorf("display.chart_granularity: %w", err))
	}
	return errors.Join(errs...)
}

// field binds a dotted key to a string view of one Config field.
type field struct {
	get func(*Config) string
	set func(*Config, string) error
}

func stringField(p func(*Config) *string) field {
	return field{
		get: func(c *Config) string { return *p(c) },
		set: func(c *Config, v string) error { *p(c) = v; return nil },
	}
}

func intField(p func(*Config) *int) field {
	return field{
		get: func(c *Config) string { return strconv.Itoa(*p(c)) },
		set: func(c *Config, v string) error {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("not an integer: %q", v)
			}
			*p(c) = n
			return nil
		},
	}
}

var fields = map[string]field{
	"server.base_url":           stringField(func(c *Config) *string { return &c.Server.BaseURL }),
	"server.timeout_sec":        intField(func(c *Config) *int { return &c.Server.TimeoutSec }),
	"display.page_size":         intField(func(c *Config) *int { return &c.Display.PageSize }),
	"display.stat_group":        stringField(func(c *Config) *string { return &c.Display.StatGroup }),
	"display.stat_month":        stringField(func(c *Config) *string { return &c.Display.StatMonth }),
	"display.chart_granularity": stringField(func(c *Config) *string { return &c.Display.ChartGranularity }),
	"appearance.theme":          stringField(func(c *Config) *string { return &c.Appearance.Theme }),
}

// Keys lists the settable keys in sorted order.
func Keys() []string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Get returns the value of a dotted key such as "display.page_size".
func (c *Config) Get(key string) (string, error) {
	f, ok := fields[strings.ToLower(key)]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return f.get(c), nil
}

// Set assigns a dotted key and validates the result. On error c is left
// unchanged.
func (c *Config) Set(key, value string) error {
	f, ok := fields[strings.ToLower(key)]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	next := *c
	if err := f.set(&next, value); err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	if err := next.Validate(); err != nil {
		return err
	}
	*c = next
	return nil
}
