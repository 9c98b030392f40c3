package logger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/Proton-105/p2p-exchange-bot/pkg/config"
)

// ErrSentryFlushTimeout is returned when buffered events were not delivered in time.
var ErrSentryFlushTimeout = errors.New("sentry flush timed out")

// InitSentry configures the global Sentry hub. It is a no-op when Sentry is disabled.
// It must run before New so the slog-sentry handler has a client to report through.
func InitSentry(cfg config.Config) error {
	if !cfg.Sentry.Enabled {
		return nil
	}

	environment := cfg.Sentry.Environment
	if environment == "" {
		environment = cfg.AppEnv
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Environment:      environment,
		EnableTracing:    cfg.Sentry.TracesSampleRate > 0,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		AttachStacktrace: true,
	})
	if err != nil {
		return fmt.Errorf("init sentry: %w", err)
	}

	return nil
}

// FlushSentry waits for buffered events until ctx expires or two seconds pass.
func FlushSentry(ctx context.Context) error {
	timeout := 2 * time.Second
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
	}

	if !sentry.Flush(timeout) {
		return ErrSentryFlushTimeout
	}
	return nil
}
