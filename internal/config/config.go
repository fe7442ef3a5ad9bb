// Package config loads server defaults from the environment and an optional
// .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/ironsheep/datathief-mcp/internal/datathief"
	"github.com/ironsheep/datathief-mcp/internal/imaging"
)

// Environment variables read by Load.
const (
	EnvLogLevel      = "DATATHIEF_LOG_LEVEL"
	EnvXLimits       = "DATATHIEF_X_LIMITS"
	EnvYLimits       = "DATATHIEF_Y_LIMITS"
	EnvXColor        = "DATATHIEF_X_COLOR"
	EnvYColor        = "DATATHIEF_Y_COLOR"
	EnvDataColor     = "DATATHIEF_DATA_COLOR"
	EnvReferenceSort = "DATATHIEF_REFERENCE_SORT"
)

// Config holds the defaults applied to every calibration request.
type Config struct {
	LogLevel string

	XLimits datathief.AxisLimits
	YLimits datathief.AxisLimits

	XColor    imaging.Color
	YColor    imaging.Color
	DataColor imaging.Color

	ReferenceSort datathief.ReferenceSort
}

// Load reads configuration from the process environment, falling back to the
// given .env files (".env" when none are named). Missing files are ignored;
// variables already set in the environment win over file values.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}

	fileEnv := make(map[string]string)
	for _, f := range files {
		m, err := godotenv.Read(f)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
		for k, v := range m {
			fileEnv[k] = v
		}
	}

	get := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return fileEnv[key]
	}

	cfg := Default()
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(get(EnvLogLevel)))

	var err error
	if v := get(EnvXLimits); v != "" {
		if cfg.XLimits, err = ParseLimits(v); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvXLimits, err)
		}
	}
	if v := get(EnvYLimits); v != "" {
		if cfg.YLimits, err = ParseLimits(v); err != nil {
			return nil, fmt.Errorf("%s: %w", EnvYLimits, err)
		}
	}
	for _, c := range []struct {
		key string
		dst *imaging.Color
	}{
		{EnvXColor, &cfg.XColor},
		{EnvYColor, &cfg.YColor},
		{EnvDataColor, &cfg.DataColor},
	} {
		if v := get(c.key); v != "" {
			if *c.dst, err = imaging.ParseColor(v); err != nil {
				return nil, fmt.Errorf("%s: %w", c.key, err)
			}
		}
	}
	if cfg.ReferenceSort, err = datathief.ParseReferenceSort(get(EnvReferenceSort)); err != nil {
		return nil, fmt.Errorf("%s: %w", EnvReferenceSort, err)
	}

	return cfg, nil
}

// Default returns the built-in defaults: unit limits, blue x references, red
// y references, green data points and y-only reference sorting.
func Default() *Config {
	opts := datathief.DefaultOptions()
	return &Config{
		XLimits:       opts.XLimits,
		YLimits:       opts.YLimits,
		XColor:        opts.XColor,
		YColor:        opts.YColor,
		DataColor:     opts.DataColor,
		ReferenceSort: opts.ReferenceSort,
	}
}

// Debug reports whether debug logging is enabled.
func (c *Config) Debug() bool { return c.LogLevel == "debug" }

// Options returns calibrator options seeded with the configured defaults.
func (c *Config) Options() datathief.Options {
	return datathief.Options{
		XLimits:       c.XLimits,
		YLimits:       c.YLimits,
		XColor:        c.XColor,
		YColor:        c.YColor,
		DataColor:     c.DataColor,
		ReferenceSort: c.ReferenceSort,
	}
}

// ParseLimits parses "lo,hi" into axis limits.
func ParseLimits(s string) (datathief.AxisLimits, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return datathief.AxisLimits{}, fmt.Errorf("invalid limits %q: want lo,hi", s)
	}
	lo, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return datathief.AxisLimits{}, fmt.Errorf("invalid limits %q: %w", s, err)
	}
	hi, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return datathief.AxisLimits{}, fmt.Errorf("invalid limits %q: %w", s, err)
	}
	l := datathief.AxisLimits{Lo: lo, Hi: hi}
	if err := l.Validate(); err != nil {
		return datathief.AxisLimits{}, fmt.Errorf("invalid limits %q: %w", s, err)
	}
	return l, nil
}
