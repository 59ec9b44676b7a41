package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/handiism/ugtabs/internal/model"
)

// EnvPrefix prefixes environment overrides, e.g. UGTABS_OUTPUT_DIR.
const EnvPrefix = "UGTABS"

// Settings holds all configuration options.
type Settings struct {
	// Download settings
	OutputDir         string        `mapstructure:"output_dir" yaml:"output_dir"`
	DiagnosticsDir    string        `mapstructure:"diagnostics_dir" yaml:"diagnostics_dir"`
	FallbackExtension string        `mapstructure:"fallback_extension" yaml:"fallback_extension"`
	Extractor         string        `mapstructure:"extractor" yaml:"extractor"` // regex, tokenizer

	// Session settings
	CookiesFile string        `mapstructure:"cookies_file" yaml:"cookies_file"`
	Timeout     time.Duration `mapstructure:"timeout" yaml:"timeout"`
	ProxyURL    string        `mapstructure:"proxy_url" yaml:"proxy_url"`

	Scrape ScrapeSettings `mapstructure:"scrape" yaml:"scrape"`
	Logger LoggerConfig   `mapstructure:"logger" yaml:"logger"`
}

// ScrapeSettings configures the artist listing scraper.
type ScrapeSettings struct {
	Delay      time.Duration `mapstructure:"delay" yaml:"delay"`
	MaxPages   int           `mapstructure:"max_pages" yaml:"max_pages"`
	OutputFile string        `mapstructure:"output_file" yaml:"output_file"`
}

// LoggerConfig configures the diagnostic logger.
type LoggerConfig struct {
	Level      string `mapstructure:"level" yaml:"level"`
	Format     string `mapstructure:"format" yaml:"format"` // console, json
	Console    bool   `mapstructure:"console" yaml:"console"`
	LogFile    string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize    int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge     int    `mapstructure:"max_age" yaml:"max_age"`
	Compress   bool   `mapstructure:"compress" yaml:"compress"`
}

// SetDefaults registers the default value of every setting.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("output_dir", "output")
	v.SetDefault("diagnostics_dir", ".")
	v.SetDefault("fallback_extension", ".gp")
	v.SetDefault("extractor", "regex")

	v.SetDefault("cookies_file", "cookies.json")
	v.SetDefault("timeout", "30s")
	v.SetDefault("proxy_url", "")

	v.SetDefault("scrape.delay", "2s")
	v.SetDefault("scrape.max_pages", 100)
	v.SetDefault("scrape.output_file", "in_scraped.txt")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.console", false)
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 28)
	v.SetDefault("logger.compress", true)
}

// newViper returns a viper instance with defaults and UGTABS_* env overrides.
func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	v := viper.New()
	SetDefaults(v)

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		// Defaults are static; this only fails on a programming error.
		panic(fmt.Sprintf("failed to unmarshal default settings: %v", err))
	}
	return &s
}

// Load reads settings from a JSON or YAML file and applies environment overrides.
//
// A missing file is not an error: defaults (plus environment) are returned.
// An empty path skips the file entirely. Paths in the result have "~" expanded.
func Load(path string) (*Settings, error) {
	v := newViper()

	if path != "" {
		expanded, err := homedir.Expand(path)
		if err != nil {
			return nil, err
		}
		v.SetConfigFile(expanded)
		if err := v.ReadInConfig(); err != nil && !isNotExist(err) {
			return nil, fmt.Errorf("error reading config %s: %w", expanded, err)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := s.expandPaths(); err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &s, nil
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, fs.ErrNotExist)
}

func (s *Settings) expandPaths() error {
	for _, p := range []*string{&s.OutputDir, &s.DiagnosticsDir, &s.CookiesFile, &s.Scrape.OutputFile, &s.Logger.LogFile} {
		expanded, err := homedir.Expand(*p)
		if err != nil {
			return fmt.Errorf("failed to expand %q: %w", *p, err)
		}
		*p = expanded
	}
	return nil
}

// Validate checks the settings for required fields and sane values.
func (s *Settings) Validate() error {
	if s.OutputDir == "" {
		return fmt.Errorf("output_dir is required")
	}
	if s.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if s.Scrape.MaxPages <= 0 {
		return fmt.Errorf("scrape.max_pages must be a positive integer")
	}
	if s.Scrape.Delay < 0 {
		return fmt.Errorf("scrape.delay must not be negative")
	}
	if !strings.HasPrefix(s.FallbackExtension, ".") {
		return fmt.Errorf("fallback_extension must start with a dot, got %q", s.FallbackExtension)
	}
	switch strings.ToLower(s.Extractor) {
	case "regex", "tokenizer":
	default:
		return fmt.Errorf("extractor must be regex or tokenizer, got %q", s.Extractor)
	}
	return nil
}

// Save writes settings to a JSON or YAML file, chosen by extension.
func (s *Settings) Save(path string) error {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(expanded), 0755); err != nil {
		return err
	}

	v := viper.New()
	v.Set("output_dir", s.OutputDir)
	v.Set("diagnostics_dir", s.DiagnosticsDir)
	v.Set("fallback_extension", s.FallbackExtension)
	v.Set("extractor", s.Extractor)
	v.Set("cookies_file", s.CookiesFile)
	v.Set("timeout", s.Timeout.String())
	v.Set("proxy_url", s.ProxyURL)
	v.Set("scrape.delay", s.Scrape.Delay.String())
	v.Set("scrape.max_pages", s.Scrape.MaxPages)
	v.Set("scrape.output_file", s.Scrape.OutputFile)
	v.Set("logger.level", s.Logger.Level)
	v.Set("logger.format", s.Logger.Format)
	v.Set("logger.console", s.Logger.Console)
	v.Set("logger.log_file", s.Logger.LogFile)
	v.Set("logger.max_size", s.Logger.MaxSize)
	v.Set("logger.max_backups", s.Logger.MaxBackups)
	v.Set("logger.max_age", s.Logger.MaxAge)
	v.Set("logger.compress", s.Logger.Compress)

	return v.WriteConfigAs(expanded)
}

// ToPathConfig converts settings to PathConfig.
func (s *Settings) ToPathConfig() *model.PathConfig {
	return &model.PathConfig{
		OutputDir:         s.OutputDir,
		FallbackExtension: s.FallbackExtension,
	}
}
