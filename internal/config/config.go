// Package config loads runtime settings from CRITPATH_* environment
// variables.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/alexanderramin/critpath/internal/catalog"
	"github.com/alexanderramin/critpath/internal/intake"
	"github.com/alexanderramin/critpath/internal/scheduler"
)

// LogFormat selects the slog handler.
type LogFormat string

const (
	LogText LogFormat = "text"
	LogJSON LogFormat = "json"
)

// Config holds everything the command line needs to wire services.
type Config struct {
	DBPath        string
	CatalogPath   string
	Risk          scheduler.RiskThresholds
	MinConfidence float64
	Workers       int
	LogLevel      slog.Level
	LogFormat     LogFormat
	LogUseCases   bool
}

// DefaultConfig returns a Config with sensible defaults. The database lives
// in ~/.critpath/critpath.db, or the working directory when no home
// directory is available. Use-case logging is off by default.
func DefaultConfig() Config {
	return Config{
		DBPath:        defaultDBPath(),
		Risk:          scheduler.DefaultRiskThresholds(),
		MinConfidence: intake.DefaultMinConfidence,
		Workers:       4,
		LogLevel:      slog.LevelInfo,
		LogFormat:     LogText,
		LogUseCases:   false,
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "critpath.db"
	}
	return filepath.Join(home, ".critpath", "critpath.db")
}

// LoadConfig reads configuration from environment variables, falling back
// to defaults for any unset or invalid values.
func LoadConfig() Config {
	cfg := DefaultConfig()

	if v := os.Getenv("CRITPATH_DB"); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv("CRITPATH_CATALOG"); v != "" {
		cfg.CatalogPath = v
	}
	if v := os.Getenv("CRITPATH_RISK_HIGH_WEEKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Risk.HighWeeks = n
		}
	}
	if v := os.Getenv("CRITPATH_RISK_MEDIUM_WEEKS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Risk.MediumWeeks = n
		}
	}
	if cfg.Risk.MediumWeeks >= cfg.Risk.HighWeeks {
		def := scheduler.DefaultRiskThresholds()
		cfg.Risk.HighWeeks, cfg.Risk.MediumWeeks = def.HighWeeks, def.MediumWeeks
	}
	if v := os.Getenv("CRITPATH_ALIGNMENT_MEDIUM_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Risk.AlignmentMediumDays = n
		}
	}
	if v := os.Getenv("CRITPATH_SCAN_MIN_CONFIDENCE"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 && f <= 1 {
			cfg.MinConfidence = f
		}
	}
	if v := os.Getenv("CRITPATH_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Workers = n
		}
	}
	if v := os.Getenv("CRITPATH_LOG_LEVEL"); v != "" {
		var lvl slog.Level
		if err := lvl.UnmarshalText([]byte(v)); err == nil {
			cfg.LogLevel = lvl
		}
	}
	if v := os.Getenv("CRITPATH_LOG_FORMAT"); v != "" {
		switch f := LogFormat(strings.ToLower(strings.TrimSpace(v))); f {
		case LogText, LogJSON:
			cfg.LogFormat = f
		}
	}
	if v := os.Getenv("CRITPATH_LOG_USE_CASES"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.LogUseCases = b
		}
	}

	return cfg
}

// Logger builds a slog.Logger writing to w per the configured level and
// format.
func (c Config) Logger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.LogLevel}
	if c.LogFormat == LogJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Catalog returns the milestone catalog at CatalogPath, or the embedded
// default when no path is configured.
func (c Config) Catalog() (*catalog.Catalog, error) {
	if c.CatalogPath == "" {
		return catalog.Default(), nil
	}
	f, err := os.Open(c.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}
	defer f.Close()
	cat, err := catalog.Load(f)
	if err != nil {
		return nil, fmt.Errorf("loading catalog %s: %w", c.CatalogPath, err)
	}
	return cat, nil
}
