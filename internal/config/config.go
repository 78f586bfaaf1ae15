// Package config loads wikibackup configuration from the environment and an
// optional YAML file.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// EnvPrefix prefixes every environment variable, e.g. WIKIBACKUP_SOURCE_KIND.
const EnvPrefix = "WIKIBACKUP"

// Source kinds.
const (
	SourceDump    = "dump"
	SourceFirefox = "firefox"
	SourceChrome  = "chrome"
)

// Config represents the complete application configuration
type Config struct {
	Source  SourceConfig  `yaml:"source" envconfig:"SOURCE"`
	Export  ExportConfig  `yaml:"export" envconfig:"EXPORT"`
	Server  ServerConfig  `yaml:"server" envconfig:"SERVER"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// SourceConfig selects where the stored collection is read from
type SourceConfig struct {
	Kind           string        `yaml:"kind" envconfig:"KIND" default:"dump" validate:"oneof=dump firefox chrome"`
	DumpPath       string        `yaml:"dump_path" envconfig:"DUMP_PATH" validate:"required_if=Kind dump"`
	FirefoxDB      string        `yaml:"firefox_db" envconfig:"FIREFOX_DB" validate:"required_if=Kind firefox"`
	ChromeProfile  string        `yaml:"chrome_profile" envconfig:"CHROME_PROFILE"`
	ChromeHeadless bool          `yaml:"chrome_headless" envconfig:"CHROME_HEADLESS" default:"true"`
	ChromeTimeout  time.Duration `yaml:"chrome_timeout" envconfig:"CHROME_TIMEOUT" default:"60s" validate:"gt=0"`
	Origin         string        `yaml:"origin" envconfig:"ORIGIN" default:"https://oldschool.runescape.wiki" validate:"required,url"`
}

// ExportConfig contains export behavior
type ExportConfig struct {
	Key            string        `yaml:"key" envconfig:"KEY" default:"osrsTableBackup" validate:"required"`
	SheetName      string        `yaml:"sheet_name" envconfig:"SHEET_NAME" default:"All Pages" validate:"required,max=31"`
	OutDir         string        `yaml:"out_dir" envconfig:"OUT_DIR" default:"." validate:"required"`
	EncoderTimeout time.Duration `yaml:"encoder_timeout" envconfig:"ENCODER_TIMEOUT" default:"30s" validate:"gt=0"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Addr            string        `yaml:"addr" envconfig:"ADDR" default:":8080" validate:"required"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"WRITE_TIMEOUT" default:"2m"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" envconfig:"LEVEL" default:"info" validate:"oneof=debug info warn error"`
	Format string `yaml:"format" envconfig:"FORMAT" default:"text" validate:"oneof=json text"`
	Plain  bool   `yaml:"plain" envconfig:"PLAIN" default:"false"`
}

// Load reads defaults and environment variables, then overlays the YAML
// file at path when path is non-empty. The result is not validated; call
// Validate once command-line overrides have been applied.
func Load(path string) (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	return &cfg, nil
}

// loadFromFile overlays keys present in the YAML file onto cfg
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, cfg)
}

var validate = validator.New()

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}
