package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Level represents logging level
type Level = zerolog.Level

// Logger levels
const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
	FatalLevel = zerolog.FatalLevel
)

// Config holds logger configuration
type Config struct {
	Level      Level
	Format     string // console or json
	TimeFormat string
	Output     io.Writer
}

// ParseLevel falls back to info for unknown names.
func ParseLevel(name string) Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil || lvl == zerolog.NoLevel {
		return InfoLevel
	}
	return lvl
}

// NewLogger creates a new zerolog logger
func NewLogger(cfg *Config) zerolog.Logger {
	if cfg == nil {
		cfg = &Config{Level: InfoLevel}
	}
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	if cfg.TimeFormat == "" {
		cfg.TimeFormat = time.RFC3339
	}

	out := cfg.Output
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{
			Out:        cfg.Output,
			TimeFormat: cfg.TimeFormat,
		}
	}

	return zerolog.New(out).
		Level(cfg.Level).
		With().
		Timestamp().
		Caller().
		Logger()
}

// Setup builds a logger and installs it as the global log.Logger.
func Setup(cfg *Config) zerolog.Logger {
	l := NewLogger(cfg)
	log.Logger = l
	zerolog.SetGlobalLevel(cfg.Level)
	return l
}
