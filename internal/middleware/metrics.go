package middleware

import (
	"context"
	"time"

	"github.com/Proton-105/p2p-exchange-bot/internal/bot/handlers"
	"github.com/Proton-105/p2p-exchange-bot/pkg/metrics"
)

// Metrics measures execution time and status for bot handlers, reporting them to Prometheus.
func Metrics(next handlers.Handler) handlers.Handler {
	if next == nil {
		return nil
	}

	return func(ctx context.Context, req *handlers.Request) error {
		start := time.Now()
		err := next(ctx, req)

		status := "ok"
		if err != nil {
			status = "error"
		}

		metrics.RecordCommand(commandName(req), status, time.Since(start))

		return err
	}
}

func commandName(req *handlers.Request) string {
	if req == nil || req.Command == "" {
		return "unknown"
	}
	return req.Command
}
