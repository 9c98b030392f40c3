package handlers

import (
	"context"
	"fmt"
	"log/slog"
)

// NewStartHandler registers the caller on first contact and sends the welcome text.
func NewStartHandler(deps Deps, users UserResolver, log *slog.Logger) Handler {
	return func(ctx context.Context, req *Request) error {
		if req.Sender == nil {
			log.Warn("start without sender, skipping registration", slog.Int64("chat_id", req.ChatID))
		} else if _, err := users.ResolveOrCreate(ctx, req.Sender); err != nil {
			return fmt.Errorf("resolve user: %w", err)
		}

		return deps.reply(ctx, req.ChatID, deps.Translator.T("start.welcome"))
	}
}
