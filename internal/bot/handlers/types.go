// Package handlers implements the bot's command handlers.
package handlers

import (
	"context"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/p2p-exchange-bot/internal/bot/keyboard"
	"github.com/Proton-105/p2p-exchange-bot/internal/domain"
	"github.com/Proton-105/p2p-exchange-bot/internal/i18n"
	"github.com/Proton-105/p2p-exchange-bot/internal/messenger"
)

// ListLimit caps the number of advertisements and deals in one reply.
const ListLimit = 10

// Request is the routed part of an inbound update.
type Request struct {
	ChatID int64
	Text   string
	// Sender is nil when the update carries no platform identity.
	Sender *telebot.User
	// Command is the canonical command name, set by the router.
	Command string
}

// SenderID returns the sender's platform id, or 0 when unknown.
func (r *Request) SenderID() int64 {
	if r == nil || r.Sender == nil {
		return 0
	}
	return r.Sender.ID
}

// Handler processes a routed update.
type Handler func(ctx context.Context, req *Request) error

// Middleware wraps handlers with additional behavior.
type Middleware func(Handler) Handler

// UserResolver resolves the caller's user row.
type UserResolver interface {
	ResolveOrCreate(ctx context.Context, telegramUser *telebot.User) (*domain.User, error)
	Find(ctx context.Context, telegramID int64) (*domain.User, error)
}

// Deps groups what every handler needs to reply.
type Deps struct {
	Messenger  messenger.Messenger
	Translator i18n.Translator
}

func (d Deps) reply(ctx context.Context, chatID int64, text string) error {
	return d.Messenger.Send(ctx, chatID, text, keyboard.MainMenu(d.Translator))
}

// NewStaticHandler replies with the catalog entry under key.
func NewStaticHandler(deps Deps, key string) Handler {
	return func(ctx context.Context, req *Request) error {
		return deps.reply(ctx, req.ChatID, deps.Translator.T(key))
	}
}
