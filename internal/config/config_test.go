package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
}

func TestLoadFile_MissingReturnsDefaults(t *testing.T) {
	cfg, err := LoadFile(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFile_PartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := "[display]\npage_size = 16\nstat_group = \"currency\"\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 16, cfg.Display.PageSize)
	assert.Equal(t, "currency", cfg.Display.StatGroup)
	assert.Equal(t, defaultBaseURL, cfg.Server.BaseURL, "unset keys keep defaults")
	assert.Equal(t, "this", cfg.Display.StatMonth)
}

func TestLoadFile_BadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[display\n"), 0o600))

	_, err := LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestSaveFile_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := DefaultConfig()
	cfg.Server.BaseURL = "https://books.example.com/api"
	cfg.Appearance.Theme = "tokyo-night"

	require.NoError(t, SaveFile(path, cfg))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestConfigPath_XDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	assert.Equal(t, "/tmp/xdg/abook/config.toml", ConfigPath())
}

func TestBaseURL_EnvWins(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.BaseURL = "http://file"

	t.Setenv(EnvAPIURL, "")
	assert.Equal(t, "http://file", BaseURL(cfg))

	t.Setenv(EnvAPIURL, "http://env")
	assert.Equal(t, "http://env", BaseURL(cfg))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"page size", func(c *Config) { c.Display.PageSize = 10 }, "page_size"},
		{"group", func(c *Config) { c.Display.StatGroup = "week" }, "stat_group"},
		{"month", func(c *Config) { c.Display.StatMonth = "next" }, "stat_month"},
		{"granularity", func(c *Config) { c.Display.ChartGranularity = "year" }, "chart_granularity"},
		{"timeout", func(c *Config) { c.Server.TimeoutSec = 0 }, "timeout_sec"},
		{"base url", func(c *Config) { c.Server.BaseURL = "" }, "base_url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSetGet(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Set("display.page_size", "32"))
	got, err := cfg.Get("display.page_size")
	require.NoError(t, err)
	assert.Equal(t, "32", got)

	assert.Error(t, cfg.Set("display.page_size", "7"), "validation error")
	assert.Equal(t, 32, cfg.Display.PageSize, "failed Set leaves config unchanged")
	assert.Error(t, cfg.Set("display.page_size", "many"), "parse error")

	assert.ErrorIs(t, cfg.Set("general.days", "1"), ErrUnknownKey)
	_, err = cfg.Get("nope")
	assert.ErrorIs(t, err, ErrUnknownKey)

	keys := Keys()
	require.Len(t, keys, 7)
	assert.Equal(t, "appearance.theme", keys[0])
}
