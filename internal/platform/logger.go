package platform

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

var ErrInvalidLogOption = errors.New("invalid log option")

type LogFormat string

const (
	LogFormatText LogFormat = "text"
	LogFormatJSON LogFormat = "json"
)

var logLevels = map[string]slog.Level{
	"":        slog.LevelInfo,
	"info":    slog.LevelInfo,
	"debug":   slog.LevelDebug,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// LogOptions come from --log-level/--log-format or their environment
// defaults. App and Version are attached to every record when set.
type LogOptions struct {
	Level   string
	Format  string
	App     string
	Version string
}

// NewLogger builds a logger writing to out without touching the default.
func NewLogger(opts LogOptions, out io.Writer) (*slog.Logger, error) {
	level, err := ParseLogLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	format, err := ParseLogFormat(opts.Format)
	if err != nil {
		return nil, err
	}

	handlerOpts := &slog.HandlerOptions{Level: level}
	handler := slog.Handler(slog.NewTextHandler(out, handlerOpts))
	if format == LogFormatJSON {
		handler = slog.NewJSONHandler(out, handlerOpts)
	}

	var attrs []any
	if opts.App != "" {
		attrs = append(attrs, "app", opts.App)
	}
	if opts.Version != "" {
		attrs = append(attrs, "version", opts.Version)
	}
	return slog.New(handler).With(attrs...), nil
}

// ConfigureLogger installs the logger as the slog default. The CLI points
// out at stderr so stdout only carries the report.
func ConfigureLogger(opts LogOptions, out io.Writer) (*slog.Logger, error) {
	logger, err := NewLogger(opts, out)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)
	return logger, nil
}

func ParseLogLevel(value string) (slog.Level, error) {
	level, ok := logLevels[strings.TrimSpace(strings.ToLower(value))]
	if !ok {
		return slog.LevelInfo, fmt.Errorf("%w: level %q", ErrInvalidLogOption, value)
	}
	return level, nil
}

func ParseLogFormat(value string) (LogFormat, error) {
	switch format := LogFormat(strings.TrimSpace(strings.ToLower(value))); format {
	case "":
		return LogFormatText, nil
	case LogFormatText, LogFormatJSON:
		return format, nil
	default:
		return LogFormatText, fmt.Errorf("%w: format %q", ErrInvalidLogOption, value)
	}
}
