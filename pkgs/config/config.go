// Package config loads checker settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	checkerrors "github.com/aledsdavies/adacheck/pkgs/errors"
)

// DefaultFile is looked up in the working directory when no path is given
const DefaultFile = ".adacheck.toml"

// Config holds the complete checker configuration
type Config struct {
	Check CheckConfig `toml:"check"`
	Log   LogConfig   `toml:"log"`
}

// CheckConfig holds settings for a check run
type CheckConfig struct {
	Suggestions bool `toml:"suggestions"` // "did you mean" lines for undefined variables
	Tree        bool `toml:"tree"`        // print the parse tree after the run
}

// LogConfig holds logging settings
type LogConfig struct {
	Level string `toml:"level"` // debug, info, warn or error
}

// Default returns the configuration used when no file is present
func Default() *Config {
	return &Config{
		Check: CheckConfig{Suggestions: true},
		Log:   LogConfig{Level: "info"},
	}
}

// Load reads the configuration at path. A missing file is an error.
func Load(path string) (*Config, error) {
	path = os.ExpandEnv(path)

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, checkerrors.NewFileNotFoundError(path)
	}
	if err != nil {
		return nil, checkerrors.NewInputError(path, err)
	}

	return parse(path, string(data))
}

// LoadDefault reads DefaultFile from dir, falling back to Default when it does not exist
func LoadDefault(dir string) (*Config, error) {
	path := filepath.Join(dir, DefaultFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}

// Parse decodes TOML source. Keys it does not recognize are rejected.
func Parse(src string) (*Config, error) {
	return parse("<input>", src)
}

func parse(name, src string) (*Config, error) {
	cfg := Default()
	md, err := toml.Decode(src, cfg)
	if err != nil {
		return nil, checkerrors.NewConfigError(name, err)
	}

	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, checkerrors.New(checkerrors.ErrConfigInvalid, fmt.Sprintf("unknown keys in %s: %s", name, strings.Join(keys, ", "))).
			WithContext("path", name)
	}

	if err := cfg.Validate(); err != nil {
		var checkErr *checkerrors.CheckError
		if errors.As(err, &checkErr) {
			checkErr.WithContext("path", name)
		}
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that decode but are not meaningful
func (c *Config) Validate() error {
	if _, ok := levels[strings.ToLower(c.Log.Level)]; !ok {
		return checkerrors.New(checkerrors.ErrConfigInvalid, fmt.Sprintf("unknown log level %q", c.Log.Level)).
			WithContext("level", c.Log.Level)
	}
	return nil
}

var levels = map[string]slog.Level{
	"debug": slog.LevelDebug,
	"info":  slog.LevelInfo,
	"warn":  slog.LevelWarn,
	"error": slog.LevelError,
}

// LevelNames returns the accepted log level names, most verbose first
func LevelNames() []string {
	return []string{"debug", "info", "warn", "error"}
}

// SlogLevel returns the configured level, or info if it is not recognized
func (c LogConfig) SlogLevel() slog.Level {
	if level, ok := levels[strings.ToLower(c.Level)]; ok {
		return level
	}
	return slog.LevelInfo
}
