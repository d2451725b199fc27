package config

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// Log formats.
const (
	LogText = "text"
	LogJSON = "json"
)

// Logging configures the process logger.
type Logging struct {
	// Level is one of debug, info, warn, error.
	Level string `yaml:"level"`
	// Format is text or json.
	Format string `yaml:"format"`
}

// DefaultLogging logs warnings and errors as text.
func DefaultLogging() Logging {
	return Logging{Level: "warn", Format: LogText}
}

// ParseLevel maps a level name to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return slog.LevelDebug, nil
	case "INFO", "":
		return slog.LevelInfo, nil
	case "WARN", "WARNING":
		return slog.LevelWarn, nil
	case "ERROR":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", level)
	}
}

// Validate reports an unknown level or format.
func (l Logging) Validate() error {
	if _, err := ParseLevel(l.Level); err != nil {
		return err
	}

	if l.Format != LogText && l.Format != LogJSON {
		return fmt.Errorf("invalid log format %q", l.Format)
	}

	return nil
}

// NewLogger builds a logger writing to dest, or stderr when dest is nil.
func (l Logging) NewLogger(dest io.Writer) (*slog.Logger, error) {
	if err := l.Validate(); err != nil {
		return nil, err
	}

	if dest == nil {
		dest = os.Stderr
	}

	level, _ := ParseLevel(l.Level)
	opts := &slog.HandlerOptions{Level: level}

	if l.Format == LogJSON {
		return slog.New(slog.NewJSONHandler(dest, opts)), nil
	}

	return slog.New(slog.NewTextHandler(dest, opts)), nil
}
