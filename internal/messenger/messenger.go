// Package messenger delivers bot replies through the Telegram Bot API.
package messenger

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	telebot "gopkg.in/telebot.v3"

	apperrors "github.com/Proton-105/p2p-exchange-bot/internal/errors"
	"github.com/Proton-105/p2p-exchange-bot/pkg/config"
	"github.com/Proton-105/p2p-exchange-bot/pkg/metrics"
)

// Messenger sends a single HTML-formatted message into a chat.
type Messenger interface {
	Send(ctx context.Context, chatID int64, text string, markup *telebot.ReplyMarkup) error
}

// Telegram is a Messenger backed by telebot. Each Send is one sendMessage call without retries.
type Telegram struct {
	bot *telebot.Bot
	log *slog.Logger
}

// NewTelegram builds the Bot API client. With cfg.Offline set the getMe handshake is skipped.
func NewTelegram(cfg config.TelegramConfig, log *slog.Logger) (*Telegram, error) {
	if log == nil {
		log = slog.Default()
	}

	settings := telebot.Settings{
		URL:     cfg.APIURL,
		Token:   cfg.BotToken,
		Offline: cfg.Offline,
		Client:  &http.Client{Timeout: cfg.Timeout},
		OnError: func(err error, _ telebot.Context) {
			log.Error("telebot error", slog.Any("error", err))
		},
	}

	bot, err := telebot.NewBot(settings)
	if err != nil {
		return nil, apperrors.NewExternalAPIError("telegram", fmt.Errorf("initialize telebot: %w", err))
	}

	return &Telegram{bot: bot, log: log}, nil
}

// Send posts text to chatID in HTML parse mode with an optional reply keyboard.
func (t *Telegram) Send(ctx context.Context, chatID int64, text string, markup *telebot.ReplyMarkup) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	opts := []interface{}{telebot.ModeHTML}
	if markup != nil {
		opts = append(opts, markup)
	}

	start := time.Now()
	_, err := t.bot.Send(&telebot.Chat{ID: chatID}, text, opts...)
	metrics.RecordOutbound(err, time.Since(start))
	if err != nil {
		return apperrors.NewExternalAPIError("telegram", fmt.Errorf("sendMessage to chat %d: %w", chatID, err))
	}

	t.log.Debug("message sent", slog.Int64("chat_id", chatID), slog.Duration("duration", time.Since(start)))
	return nil
}

// RegisterWebhook points the bot's updates at publicURL.
func (t *Telegram) RegisterWebhook(publicURL string) error {
	webhook := &telebot.Webhook{
		Endpoint: &telebot.WebhookEndpoint{PublicURL: publicURL},
	}

	if err := t.bot.SetWebhook(webhook); err != nil {
		return apperrors.NewExternalAPIError("telegram", fmt.Errorf("setWebhook: %w", err))
	}

	t.log.Info("webhook registered", slog.String("url", publicURL))
	return nil
}

// HealthCheck calls getMe to verify the token and API reachability.
func (t *Telegram) HealthCheck(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if _, err := t.bot.Raw("getMe", nil); err != nil {
		return apperrors.NewExternalAPIError("telegram", fmt.Errorf("getMe: %w", err))
	}
	return nil
}
