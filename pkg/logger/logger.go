// Package logger builds the application's structured slog logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	slogsentry "github.com/samber/slog-sentry/v2"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/Proton-105/p2p-exchange-bot/pkg/config"
)

// Logger wraps slog.Logger with a runtime-adjustable level and the rotating file sink, if any.
type Logger struct {
	*slog.Logger
	level *slog.LevelVar
	file  io.Closer
}

// New creates a Logger writing to stdout (and optionally to a rotated file) in the configured format.
// Error records are mirrored to Sentry when it is enabled.
func New(cfg config.Config) *Logger {
	level := new(slog.LevelVar)
	level.Set(ParseLevel(cfg.Logger.Level))

	var (
		out  io.Writer = os.Stdout
		file io.Closer
	)
	if cfg.Logger.File != "" {
		rotator := &lumberjack.Logger{
			Filename:   cfg.Logger.File,
			MaxSize:    cfg.Logger.MaxSizeMB,
			MaxBackups: cfg.Logger.MaxBackups,
			MaxAge:     cfg.Logger.MaxAgeDays,
			Compress:   cfg.Logger.Compress,
		}
		out = io.MultiWriter(os.Stdout, rotator)
		file = rotator
	}

	opts := &slog.HandlerOptions{
		AddSource: cfg.Logger.Level == "debug",
		Level:     level,
	}

	var handler slog.Handler
	if cfg.Logger.Format == "text" {
		handler = slog.NewTextHandler(out, opts)
	} else {
		handler = slog.NewJSONHandler(out, opts)
	}

	if cfg.Sentry.Enabled {
		sentryHandler := slogsentry.Option{Level: slog.LevelError, AddSource: true}.NewSentryHandler()
		handler = NewFanoutHandler(handler, sentryHandler)
	}

	base := slog.New(NewMaskingHandler(handler))
	if cfg.AppEnv != "" {
		base = base.With(slog.String("env", cfg.AppEnv))
	}

	return &Logger{Logger: base, level: level, file: file}
}

// SetLevel changes the minimum level at runtime.
func (l *Logger) SetLevel(level string) {
	if l == nil || l.level == nil {
		return
	}
	l.level.Set(ParseLevel(level))
}

// Close flushes and closes the rotating file sink.
func (l *Logger) Close() error {
	if l == nil || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// ParseLevel maps a config level name to slog.Level, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
