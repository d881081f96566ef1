// Package config loads GeoMaster settings from the environment.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Log output formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// MaxRoundPlaces bounds RoundPlaces.
const MaxRoundPlaces = 10

// Config holds process-wide settings. Command-line flags override the
// fields they share.
type Config struct {
	HTTPAddr         string        `env:"GEOMASTER_HTTP_ADDR"         envDefault:":8080"`
	RoundPlaces      int           `env:"GEOMASTER_ROUND_PLACES"      envDefault:"2"`
	EvalTimeout      time.Duration `env:"GEOMASTER_EVAL_TIMEOUT"      envDefault:"5s"`
	MeshCells        int           `env:"GEOMASTER_MESH_CELLS"        envDefault:"200"`
	PreviewThickness float64       `env:"GEOMASTER_PREVIEW_THICKNESS" envDefault:"1"`
	LogLevel         string        `env:"GEOMASTER_LOG_LEVEL"         envDefault:"info"`
	LogFormat        string        `env:"GEOMASTER_LOG_FORMAT"        envDefault:"text"`
	OTelEndpoint     string        `env:"GEOMASTER_OTEL_ENDPOINT"`
	OTelEnabled      bool          `env:"GEOMASTER_OTEL_ENABLED"      envDefault:"true"`
	ShutdownTimeout  time.Duration `env:"GEOMASTER_SHUTDOWN_TIMEOUT"  envDefault:"5s"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports the first out-of-range setting.
func (c Config) Validate() error {
	if c.RoundPlaces < 0 || c.RoundPlaces > MaxRoundPlaces {
		return fmt.Errorf("config: GEOMASTER_ROUND_PLACES must be in [0,%d], got %d", MaxRoundPlaces, c.RoundPlaces)
	}
	if c.MeshCells <= 0 {
		return fmt.Errorf("config: GEOMASTER_MESH_CELLS must be positive, got %d", c.MeshCells)
	}
	if !(c.PreviewThickness > 0) {
		return fmt.Errorf("config: GEOMASTER_PREVIEW_THICKNESS must be positive, got %g", c.PreviewThickness)
	}
	if c.EvalTimeout <= 0 {
		return fmt.Errorf("config: GEOMASTER_EVAL_TIMEOUT must be positive, got %s", c.EvalTimeout)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	switch strings.ToLower(c.LogFormat) {
	case LogFormatText, LogFormatJSON:
	default:
		return fmt.Errorf("config: unknown GEOMASTER_LOG_FORMAT %q", c.LogFormat)
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("config: unknown GEOMASTER_LOG_LEVEL %q", s)
	}
	return lvl, nil
}

// Logger builds a slog.Logger writing to w in the configured format and
// level. An invalid level falls back to info.
func (c Config) Logger(w io.Writer) *slog.Logger {
	lvl, err := parseLevel(c.LogLevel)
	if err != nil {
		lvl = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: lvl}
	if strings.EqualFold(c.LogFormat, LogFormatJSON) {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}
