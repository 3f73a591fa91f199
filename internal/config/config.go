// Package config provides configuration management for the catalog browser.
//
// Configuration is loaded from three sources with the following precedence
// (highest to lowest):
//  1. CLI flags
//  2. Environment variables (CATALOG_ prefix)
//  3. Config file (.catalog.yaml)
package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/text/language"

	"github.com/keilerkonzept/catalog-browser/internal/catalog"
)

// Supported log levels.
const (
	LogLevelDebug = "debug"
	LogLevelInfo  = "info"
	LogLevelWarn  = "warn"
	LogLevelError = "error"
)

// Supported log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// Config represents the global configuration.
type Config struct {
	LogLevel  string `mapstructure:"log-level" json:"logLevel"`
	LogFormat string `mapstructure:"log-format" json:"logFormat"`
	// LogFile receives log output while the browser owns the terminal.
	LogFile string `mapstructure:"log-file" json:"logFile"`
	NoColor bool   `mapstructure:"no-color" json:"noColor"`
	// Quiet suppresses all log output below error level.
	Quiet bool `mapstructure:"quiet" json:"quiet"`

	// Data is the data file path. Empty selects the bundled dataset.
	Data        string `mapstructure:"data" json:"data"`
	SkipInvalid bool   `mapstructure:"skip-invalid" json:"skipInvalid"`
	Locale      string `mapstructure:"locale" json:"locale"`
	Sort        string `mapstructure:"sort" json:"sort"`
	CacheSize   int    `mapstructure:"cache-size" json:"cacheSize"`

	RangeStep     int           `mapstructure:"range-step" json:"rangeStep"`
	TopK          int           `mapstructure:"top-k" json:"topK"`
	Watch         bool          `mapstructure:"watch" json:"watch"`
	WatchDebounce time.Duration `mapstructure:"watch-debounce" json:"watchDebounce"`
	AltScreen     bool          `mapstructure:"alt-screen" json:"altScreen"`
	ViewSplit     int           `mapstructure:"view-split" json:"viewSplit"`
	Stats         bool          `mapstructure:"stats" json:"stats"`
	StatsWindow   int           `mapstructure:"stats-window" json:"statsWindow"`
	MetricsAddr   string        `mapstructure:"metrics-addr" json:"metricsAddr"`

	// ConfigFile is the resolved path to the config file used.
	// Set after Load(), never read from config itself.
	ConfigFile string `mapstructure:"-" json:"-"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		LogLevel:      LogLevelInfo,
		LogFormat:     LogFormatText,
		Locale:        "en",
		Sort:          string(catalog.SortName),
		CacheSize:     64,
		RangeStep:     10,
		TopK:          3,
		WatchDebounce: 250 * time.Millisecond,
		AltScreen:     true,
		ViewSplit:     60,
		StatsWindow:   256,
	}
}

// Validate checks that all config values are valid.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case LogLevelDebug, LogLevelInfo, LogLevelWarn, LogLevelError:
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", c.LogLevel)
	}

	switch c.LogFormat {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("invalid log format %q: must be one of text, json", c.LogFormat)
	}

	if _, err := catalog.ParseSortKey(c.Sort); err != nil {
		return err
	}
	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("invalid locale %q: %w", c.Locale, err)
	}
	if c.CacheSize < 0 {
		return fmt.Errorf("cache-size must be >= 0")
	}
	if c.RangeStep < 1 {
		return fmt.Errorf("range-step must be >= 1")
	}
	if c.TopK < 1 {
		return fmt.Errorf("top-k must be >= 1")
	}
	if c.WatchDebounce < 0 {
		return fmt.Errorf("watch-debounce must be >= 0")
	}
	return nil
}

// Normalize clamps the presentation settings into their usable ranges.
func (c *Config) Normalize() {
	c.ViewSplit = max(20, min(80, c.ViewSplit))
	c.StatsWindow = max(16, c.StatsWindow)
}

// EffectiveLogLevel returns the log level to use. When Quiet is true the log
// level is overridden to "error" regardless of the configured LogLevel.
func (c *Config) EffectiveLogLevel() string {
	if c.Quiet {
		return LogLevelError
	}

	return c.LogLevel
}

// LanguageTag returns the parsed collation locale, English if unparsable.
func (c *Config) LanguageTag() language.Tag {
	tag, err := language.Parse(c.Locale)
	if err != nil {
		return language.English
	}
	return tag
}

// Load initialises configuration from flags, environment variables, and an
// optional config file. A fresh viper instance is used on every call so that
// Load is safe for concurrent tests.
func Load(cmd *cobra.Command, configFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v)
	configureEnv(v)

	if err := configureFile(v, configFile); err != nil {
		return nil, err
	}

	if err := bindFlags(v, cmd); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	cfg.ConfigFile = v.ConfigFileUsed()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("log-level", d.LogLevel)
	v.SetDefault("log-format", d.LogFormat)
	v.SetDefault("log-file", d.LogFile)
	v.SetDefault("no-color", d.NoColor)
	v.SetDefault("quiet", d.Quiet)
	v.SetDefault("data", d.Data)
	v.SetDefault("skip-invalid", d.SkipInvalid)
	v.SetDefault("locale", d.Locale)
	v.SetDefault("sort", d.Sort)
	v.SetDefault("cache-size", d.CacheSize)
	v.SetDefault("range-step", d.RangeStep)
	v.SetDefault("top-k", d.TopK)
	v.SetDefault("watch", d.Watch)
	v.SetDefault("watch-debounce", d.WatchDebounce)
	v.SetDefault("alt-screen", d.AltScreen)
	v.SetDefault("view-split", d.ViewSplit)
	v.SetDefault("stats", d.Stats)
	v.SetDefault("stats-window", d.StatsWindow)
	v.SetDefault("metrics-addr", d.MetricsAddr)
}

func configureEnv(v *viper.Viper) {
	v.SetEnvPrefix("CATALOG")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
}

func configureFile(v *viper.Viper, configFile string) error {
	if configFile != "" {
		v.SetConfigFile(configFile)

		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config file %q: %w", configFile, err)
		}

		return nil
	}

	v.SetConfigName(".catalog")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "catalog-browser"))
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}

		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// bindFlags binds the command's own flags and the persistent flags of every
// ancestor.
func bindFlags(v *viper.Viper, cmd *cobra.Command) error {
	if cmd == nil {
		return nil
	}

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}

	for c := cmd; c != nil; c = c.Parent() {
		if err := v.BindPFlags(c.PersistentFlags()); err != nil {
			return fmt.Errorf("binding persistent flags: %w", err)
		}
	}

	return nil
}

type ctxKey struct{}

// NewContext returns a child context carrying cfg.
func NewContext(ctx context.Context, cfg *Config) context.Context {
	return context.WithValue(ctx, ctxKey{}, cfg)
}

// FromContext extracts a Config from ctx, falling back to Default().
func FromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(ctxKey{}).(*Config); ok {
		return cfg
	}

	return Default()
}
