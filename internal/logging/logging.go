// Package logging builds the zerolog logger used by the command line tools.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Format selects the log encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// Config describes the logger. Output defaults to stderr so command output on
// stdout stays machine readable.
type Config struct {
	Level      string
	Format     Format
	Output     io.Writer
	TimeFormat string
}

// New builds a logger from cfg. An empty level means "warn".
func New(cfg Config) (zerolog.Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), err
	}

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}

	switch cfg.Format {
	case FormatConsole, "":
		timeFormat := cfg.TimeFormat
		if timeFormat == "" {
			timeFormat = time.Kitchen
		}
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: timeFormat}
	case FormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("logging: unknown format %q", cfg.Format)
	}

	return zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Str("service", "searchform").
		Logger(), nil
}

// ParseLevel maps a level name to a zerolog level.
func ParseLevel(raw string) (zerolog.Level, error) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return zerolog.WarnLevel, nil
	}
	level, err := zerolog.ParseLevel(name)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("logging: %w", err)
	}
	return level, nil
}
