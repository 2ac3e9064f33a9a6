package logging

import (
	"fmt"
	"io"
	"log/slog"
	"maps"
	"slices"
	"strings"

	"github.com/pterm/pterm"
)

const (
	FormatJSON   = "json"
	FormatPretty = "pretty"
)

var (
	validLevels = map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	ValidLevels = strings.Join(slices.Sorted(maps.Keys(validLevels)), "|")

	ptermLevels = map[slog.Level]pterm.LogLevel{
		slog.LevelDebug: pterm.LogLevelDebug,
		slog.LevelInfo:  pterm.LogLevelInfo,
		slog.LevelWarn:  pterm.LogLevelWarn,
		slog.LevelError: pterm.LogLevelError,
	}
)

// New builds a logger writing to w. Format is json or pretty; pretty goes
// through pterm.
func New(w io.Writer, level, format string) (*slog.Logger, error) {
	lvl, exists := validLevels[level]
	if !exists {
		return nil, fmt.Errorf("invalid log level: %s. Valid log levels are: %s", level, ValidLevels)
	}

	switch format {
	case FormatJSON:
		return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})), nil
	case FormatPretty:
		logger := pterm.DefaultLogger.WithLevel(ptermLevels[lvl]).WithWriter(w)

		return slog.New(pterm.NewSlogHandler(logger)), nil
	default:
		return nil, fmt.Errorf("invalid log format: %s. Valid log formats are: %s|%s", format, FormatJSON, FormatPretty)
	}
}

// Setup installs the logger as the slog default.
func Setup(w io.Writer, level, format string) error {
	logger, err := New(w, level, format)
	if err != nil {
		return err
	}

	slog.SetDefault(logger)

	return nil
}
