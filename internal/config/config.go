// Package config loads vectorpack settings from YAML, a .env file and
// environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/setanarut/vectorpack"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "VECTORPACK_"

// Config holds all configuration for a conversion run.
type Config struct {
	Canvas CanvasConfig `yaml:"canvas"`
	Colors int          `yaml:"colors"`
	Batch  BatchConfig  `yaml:"batch"`
	Log    LogConfig    `yaml:"log"`
}

// CanvasConfig holds the compositing canvas.
type CanvasConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Scale  float64 `yaml:"scale"`
}

// BatchConfig holds folder processing settings.
type BatchConfig struct {
	Workers     int    `yaml:"workers"` // 0 means one per CPU
	StopOnError bool   `yaml:"stop_on_error"`
	OutputDir   string `yaml:"output_dir"` // empty means beside each input
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	opt := vectorpack.DefaultOptions()
	return &Config{
		Canvas: CanvasConfig{
			Width:  opt.CanvasWidth,
			Height: opt.CanvasHeight,
			Scale:  opt.Scale,
		},
		Colors: opt.Colors,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads path (optional) over the defaults, applies environment
// overrides and validates the result.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("%w: parse config file: %w", vectorpack.ErrInvalidConfig, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// LoadDotEnv exports the variables in path into the process environment
// without overriding variables that are already set. A missing file is not
// an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file %s: %w", path, err)
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if err := c.VectorOptions().Validate(); err != nil {
		return err
	}
	if c.Batch.Workers < 0 {
		return fmt.Errorf("%w: workers %d must not be negative", vectorpack.ErrInvalidConfig, c.Batch.Workers)
	}
	if c.Log.Format != "json" && c.Log.Format != "console" {
		return fmt.Errorf("%w: invalid log format: %s", vectorpack.ErrInvalidConfig, c.Log.Format)
	}
	return nil
}

// VectorOptions returns the pipeline options described by c.
func (c *Config) VectorOptions() vectorpack.Options {
	return vectorpack.Options{
		CanvasWidth:  c.Canvas.Width,
		CanvasHeight: c.Canvas.Height,
		Scale:        c.Canvas.Scale,
		Colors:       c.Colors,
	}
}

func applyEnvOverrides(cfg *Config) error {
	ints := map[string]*int{
		"CANVAS_WIDTH":  &cfg.Canvas.Width,
		"CANVAS_HEIGHT": &cfg.Canvas.Height,
		"COLORS":        &cfg.Colors,
		"WORKERS":       &cfg.Batch.Workers,
	}
	for key, dst := range ints {
		if v, ok := lookup(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				return envError(key, err)
			}
			*dst = n
		}
	}

	if v, ok := lookup("SCALE"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return envError("SCALE", err)
		}
		cfg.Canvas.Scale = f
	}

	if v, ok := lookup("STOP_ON_ERROR"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return envError("STOP_ON_ERROR", err)
		}
		cfg.Batch.StopOnError = b
	}

	if v, ok := lookup("OUTPUT_DIR"); ok {
		cfg.Batch.OutputDir = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.Log.Level = v
	}
	if v, ok := lookup("LOG_FORMAT"); ok {
		cfg.Log.Format = strings.ToLower(v)
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(EnvPrefix + key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func envError(key string, err error) error {
	return fmt.Errorf("%w: %s%s: %w", vectorpack.ErrInvalidConfig, EnvPrefix, key, err)
}
