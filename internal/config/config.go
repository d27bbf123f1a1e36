// Package config loads the shelf YAML configuration.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/roach88/shelf/internal/codec"
	"github.com/roach88/shelf/internal/library"
	"github.com/roach88/shelf/internal/logger"
)

// EnvPath names the environment variable that overrides the config path.
const EnvPath = "SHELF_CONFIG"

// DefaultPath is used when neither a flag nor EnvPath names a file.
const DefaultPath = "shelf.yaml"

// LibraryConfig holds the canonical files of the collection.
type LibraryConfig struct {
	JSONPath string `yaml:"json_path"`
	CSVPath  string `yaml:"csv_path"`
	Format   string `yaml:"format"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Config is the root of shelf.yaml.
type Config struct {
	Library LibraryConfig `yaml:"library"`
	Log     LogConfig     `yaml:"log"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Library: LibraryConfig{
			JSONPath: "library_data.json",
			CSVPath:  "library_data.csv",
			Format:   string(codec.FormatJSON),
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// ResolvePath picks the config file: explicit path, then $SHELF_CONFIG,
// then DefaultPath.
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if env := os.Getenv(EnvPath); env != "" {
		return env
	}
	return DefaultPath
}

// Load reads the YAML file at path over the defaults.
// A missing file is not an error; an unreadable or invalid one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	if c.Library.JSONPath == "" {
		return errors.New("library.json_path is required")
	}
	if c.Library.CSVPath == "" {
		return errors.New("library.csv_path is required")
	}
	if _, err := c.Library.format(); err != nil {
		return err
	}
	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format %q: must be text or json", c.Log.Format)
	}
	return nil
}

// Options converts the library section into store options.
func (lc LibraryConfig) Options() (library.Options, error) {
	f, err := lc.format()
	if err != nil {
		return library.Options{}, err
	}
	return library.Options{
		JSONPath: lc.JSONPath,
		CSVPath:  lc.CSVPath,
		Format:   f,
	}, nil
}

// LoggerOptions converts the log section into logger options.
func (c LogConfig) LoggerOptions() logger.Options {
	return logger.Options{Level: c.Level, Format: c.Format}
}

func (lc LibraryConfig) format() (codec.Format, error) {
	if lc.Format == "" {
		return codec.FormatJSON, nil
	}
	f, err := codec.ParseFormat(lc.Format)
	if err != nil {
		return "", fmt.Errorf("library.format: %w", err)
	}
	if f != codec.FormatJSON && f != codec.FormatCSV {
		return "", fmt.Errorf("library.format %q: must be json or csv", lc.Format)
	}
	return f, nil
}
