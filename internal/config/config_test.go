package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// newTestRootCmd mirrors the persistent flags of the real root command.
func newTestRootCmd() *cobra.Command {
	cmd := &cobra.Command{}
	pf := cmd.PersistentFlags()
	pf.String("config", "", "")
	pf.String("log-level", "info", "")
	pf.String("log-format", "text", "")
	pf.Bool("quiet", false, "")
	pf.String("data", "", "")
	pf.String("sort", "name", "")

	return cmd
}

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()

	dir := t.TempDir()
	p := filepath.Join(dir, "cfg.yaml")
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))

	return p
}

// ---------------------------------------------------------------------------
// Default & Validate
// ---------------------------------------------------------------------------

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, LogLevelInfo, cfg.LogLevel)
	assert.Equal(t, LogFormatText, cfg.LogFormat)
	assert.Equal(t, "name", cfg.Sort)
	assert.Equal(t, 64, cfg.CacheSize)
	assert.Equal(t, 250*time.Millisecond, cfg.WatchDebounce)
	assert.NoError(t, cfg.Validate())
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"log level", func(c *Config) { c.LogLevel = "verbose" }, "invalid log level"},
		{"log format", func(c *Config) { c.LogFormat = "xml" }, "invalid log format"},
		{"sort", func(c *Config) { c.Sort = "price" }, "unknown sort key"},
		{"locale", func(c *Config) { c.Locale = "not a tag!" }, "invalid locale"},
		{"cache size", func(c *Config) { c.CacheSize = -1 }, "cache-size"},
		{"range step", func(c *Config) { c.RangeStep = 0 }, "range-step"},
		{"top k", func(c *Config) { c.TopK = 0 }, "top-k"},
		{"debounce", func(c *Config) { c.WatchDebounce = -time.Second }, "watch-debounce"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.ErrorContains(t, cfg.Validate(), tt.want)
		})
	}
}

func TestNormalize(t *testing.T) {
	cfg := Default()
	cfg.ViewSplit = 95
	cfg.StatsWindow = 2
	cfg.Normalize()
	assert.Equal(t, 80, cfg.ViewSplit)
	assert.Equal(t, 16, cfg.StatsWindow)
}

func TestEffectiveLogLevel_QuietOverride(t *testing.T) {
	cfg := &Config{LogLevel: "debug", Quiet: true}
	assert.Equal(t, "error", cfg.EffectiveLogLevel())
}

func TestLanguageTag(t *testing.T) {
	cfg := Default()
	cfg.Locale = "sv"
	assert.Equal(t, language.Swedish, cfg.LanguageTag())
}

// ---------------------------------------------------------------------------
// Load
// ---------------------------------------------------------------------------

func TestLoad_DefaultsOnly(t *testing.T) {
	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, LogLevelInfo, cfg.LogLevel)
	assert.Equal(t, 10, cfg.RangeStep)
	assert.True(t, cfg.AltScreen)
}

func TestLoad_EnvOverridesDefault(t *testing.T) {
	t.Setenv("CATALOG_RANGE_STEP", "25")
	t.Setenv("CATALOG_WATCH_DEBOUNCE", "1s")

	cfg, err := Load(nil, "")
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.RangeStep)
	assert.Equal(t, time.Second, cfg.WatchDebounce)
}

func TestLoad_ConfigFile(t *testing.T) {
	p := writeTempConfig(t, "sort: period-d\nlocale: de\ndata: items.yaml\n")

	cfg, err := Load(nil, p)
	require.NoError(t, err)
	assert.Equal(t, "period-d", cfg.Sort)
	assert.Equal(t, "de", cfg.Locale)
	assert.Equal(t, "items.yaml", cfg.Data)
	assert.Equal(t, p, cfg.ConfigFile)
}

func TestLoad_FlagOverridesFileAndEnv(t *testing.T) {
	p := writeTempConfig(t, "sort: period-d\n")
	t.Setenv("CATALOG_SORT", "period-a")

	cmd := newTestRootCmd()
	require.NoError(t, cmd.PersistentFlags().Set("sort", "name"))

	cfg, err := Load(cmd, p)
	require.NoError(t, err)
	assert.Equal(t, "name", cfg.Sort)
}

func TestLoad_InvalidValueFails(t *testing.T) {
	t.Setenv("CATALOG_SORT", "price")

	_, err := Load(nil, "")
	assert.ErrorContains(t, err, "unknown sort key")
}

func TestLoad_MissingConfigFile(t *testing.T) {
	_, err := Load(nil, filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "reading config file")
}

// ---------------------------------------------------------------------------
// Context helpers
// ---------------------------------------------------------------------------

func TestContext_RoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Data = "x.json"
	ctx := NewContext(context.Background(), cfg)
	assert.Same(t, cfg, FromContext(ctx))
}

func TestFromContext_FallbackToDefault(t *testing.T) {
	assert.Equal(t, Default(), FromContext(context.Background()))
}
