// Package webhook accepts Telegram updates over HTTP and hands them to the bot.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	telebot "gopkg.in/telebot.v3"

	"github.com/Proton-105/p2p-exchange-bot/internal/bot/handlers"
	apperrors "github.com/Proton-105/p2p-exchange-bot/internal/errors"
	"github.com/Proton-105/p2p-exchange-bot/pkg/metrics"
)

const maxBodyBytes = 1 << 20

// Dispatcher routes one inbound message.
type Dispatcher interface {
	Handle(ctx context.Context, req *handlers.Request) error
}

// Handler is the HTTP entry point for webhook updates.
type Handler struct {
	dispatcher Dispatcher
	errHandler *apperrors.Handler
	log        *slog.Logger
}

// NewHandler constructs the webhook endpoint.
func NewHandler(dispatcher Dispatcher, errHandler *apperrors.Handler, log *slog.Logger) *Handler {
	if log == nil {
		log = slog.Default()
	}

	return &Handler{
		dispatcher: dispatcher,
		errHandler: errHandler,
		log:        log,
	}
}

// ServeHTTP answers CORS preflight, rejects non-POST methods and processes POSTed updates synchronously.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodOptions:
		h.preflight(w)
		metrics.RecordWebhook(r.Method, http.StatusOK)
	case http.MethodPost:
		status := h.handleUpdate(w, r)
		metrics.RecordWebhook(r.Method, status)
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "Method not allowed"})
		metrics.RecordWebhook(r.Method, http.StatusMethodNotAllowed)
	}
}

func (h *Handler) preflight(w http.ResponseWriter) {
	header := w.Header()
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Access-Control-Allow-Methods", "POST, OPTIONS")
	header.Set("Access-Control-Allow-Headers", "Content-Type")
	header.Set("Access-Control-Max-Age", "86400")
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) int {
	ctx := r.Context()

	update, err := decodeUpdate(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return h.fail(ctx, w, apperrors.NewInvalidUpdateError(err))
	}

	req := requestFromUpdate(update)
	if req == nil {
		h.log.Debug("update without chat id ignored", slog.Int("update_id", update.ID))
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
		return http.StatusOK
	}

	if err := h.dispatcher.Handle(ctx, req); err != nil {
		return h.fail(ctx, w, err)
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	return http.StatusOK
}

func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, err error) int {
	if h.errHandler != nil {
		h.errHandler.Handle(ctx, err)
	} else {
		h.log.Error("update processing failed", slog.Any("error", err))
	}

	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	return http.StatusInternalServerError
}

// decodeUpdate parses a Telegram update. An empty body decodes as an empty update.
func decodeUpdate(body io.Reader) (telebot.Update, error) {
	var update telebot.Update

	data, err := io.ReadAll(body)
	if err != nil {
		return update, fmt.Errorf("read body: %w", err)
	}

	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return update, nil
	}

	if err := json.Unmarshal(data, &update); err != nil {
		return update, fmt.Errorf("decode update: %w", err)
	}

	return update, nil
}

// requestFromUpdate returns nil when the update has no usable chat id.
func requestFromUpdate(update telebot.Update) *handlers.Request {
	msg := update.Message
	if msg == nil || msg.Chat == nil || msg.Chat.ID == 0 {
		return nil
	}

	return &handlers.Request{
		ChatID: msg.Chat.ID,
		Text:   msg.Text,
		Sender: msg.Sender,
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
