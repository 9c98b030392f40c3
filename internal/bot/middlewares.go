package bot

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/Proton-105/p2p-exchange-bot/internal/bot/handlers"
	apperrors "github.com/Proton-105/p2p-exchange-bot/internal/errors"
	"github.com/Proton-105/p2p-exchange-bot/pkg/logger"
)

// RecoveryMiddleware converts a handler panic into an internal AppError returned to the caller.
func RecoveryMiddleware(log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(ctx context.Context, req *handlers.Request) (err error) {
			defer func() {
				if r := recover(); r != nil {
					log.Error("panic recovered in handler",
						slog.Any("panic", r),
						slog.String("command", req.Command),
						slog.String("stack", string(debug.Stack())),
					)
					err = apperrors.NewInternalError(fmt.Errorf("panic recovered: %v", r))
				}
			}()

			return next(ctx, req)
		}
	}
}

// LoggingMiddleware logs basic telemetry about routed updates.
func LoggingMiddleware(log *slog.Logger) handlers.Middleware {
	if log == nil {
		log = slog.Default()
	}

	return func(next handlers.Handler) handlers.Handler {
		if next == nil {
			return nil
		}

		return func(ctx context.Context, req *handlers.Request) error {
			start := time.Now()
			attrs := []any{
				slog.Int64("chat_id", req.ChatID),
				slog.Int64("user_id", req.SenderID()),
				slog.String("command", req.Command),
				slog.String("correlation_id", logger.CorrelationIDFromContext(ctx)),
			}

			log.Info("handling update", attrs...)
			err := next(ctx, req)

			attrs = append(attrs, slog.Duration("duration", time.Since(start)))
			if err != nil {
				attrs = append(attrs, slog.Any("error", err))
			}
			log.Info("handled update", attrs...)

			return err
		}
	}
}
