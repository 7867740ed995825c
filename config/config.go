package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/Nydauron/regattascore/rotation"
)

// Config holds the settings shared by every command.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Logging  LoggingConfig  `yaml:"logging"`
	Rotation RotationConfig `yaml:"rotation"`
}

type ServerConfig struct {
	Address        string        `yaml:"address"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	Metrics        bool          `yaml:"metrics"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text|json
}

// RotationConfig supplies defaults for rotation plans that leave them out.
type RotationConfig struct {
	SetSize int            `yaml:"set_size"`
	Type    rotation.Type  `yaml:"type"`
	Style   rotation.Style `yaml:"style"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Address:        ":8080",
			ReadTimeout:    10 * time.Second,
			MaxUploadBytes: 10 << 20,
			Metrics:        true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Rotation: RotationConfig{
			SetSize: 2,
			Type:    rotation.TypeStandard,
			Style:   rotation.StyleNavy,
		},
	}
}

// LoadConfig reads filename over the defaults, then applies environment
// overrides. A missing file is not an error; an empty filename skips the file.
func LoadConfig(filename string) (*Config, error) {
	cfg := Default()
	if filename != "" {
		data, err := os.ReadFile(filename)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to unmarshal config: %w", err)
			}
		}
	}

	if v := os.Getenv("REGATTASCORE_ADDR"); v != "" {
		cfg.Server.Address = v
	}
	if v := os.Getenv("REGATTASCORE_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("REGATTASCORE_LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("REGATTASCORE_SET_SIZE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("invalid REGATTASCORE_SET_SIZE value: %v", err)
		}
		cfg.Rotation.SetSize = n
	}
	if v := os.Getenv("REGATTASCORE_METRICS"); v != "" {
		cfg.Server.Metrics = v == "true"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.Rotation.SetSize < 1 {
		errs = append(errs, fmt.Errorf("rotation.set_size must be at least 1, got %d", c.Rotation.SetSize))
	}
	if c.Server.MaxUploadBytes < 1 {
		errs = append(errs, fmt.Errorf("server.max_upload_bytes must be positive"))
	}
	if _, err := c.Logging.level(); err != nil {
		errs = append(errs, err)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format))
	}
	return errors.Join(errs...)
}

func (c LoggingConfig) level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Level))); err != nil {
		return 0, fmt.Errorf("invalid logging.level %q", c.Level)
	}
	return level, nil
}

// NewLogger builds the slog logger described by c, writing to w.
func (c LoggingConfig) NewLogger(w io.Writer) *slog.Logger {
	level, err := c.level()
	if err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
