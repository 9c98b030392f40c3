package errors

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Proton-105/p2p-exchange-bot/pkg/logger"
	"github.com/Proton-105/p2p-exchange-bot/pkg/metrics"
)

// Handler is the single sink for errors that abort an update.
// Error-level records reach Sentry through the logger.
type Handler struct {
	log *slog.Logger
}

// NewHandler falls back to slog.Default when log is nil.
func NewHandler(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// Handle logs err with its classification and returns it as an AppError.
// Unclassified errors are reported as internal errors.
func (h *Handler) Handle(ctx context.Context, err error) *AppError {
	if err == nil {
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}

	log := h.log
	if log == nil {
		log = slog.Default()
	}

	var appErr *AppError
	if !errors.As(err, &appErr) || appErr == nil {
		appErr = NewInternalError(err)
	}

	attrs := []slog.Attr{
		slog.String("code", appErr.Code),
		slog.String("severity", string(appErr.Severity)),
		slog.Any("error", err),
	}

	if correlationID := logger.CorrelationIDFromContext(ctx); correlationID != "" {
		attrs = append(attrs, slog.String("correlation_id", correlationID))
	}

	level := slog.LevelError
	if appErr.Severity == SeverityLow {
		level = slog.LevelWarn
	}

	log.LogAttrs(ctx, level, "update processing failed", attrs...)
	metrics.RecordError(appErr.Code, string(appErr.Severity))

	return appErr
}
