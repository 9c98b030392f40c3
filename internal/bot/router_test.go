package bot

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proton-105/p2p-exchange-bot/internal/bot/handlers"
	apperrors "github.com/Proton-105/p2p-exchange-bot/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func recordingHandler(name string, calls *[]string) handlers.Handler {
	return func(_ context.Context, _ *handlers.Request) error {
		*calls = append(*calls, name)
		return nil
	}
}

func TestRouter_ExactMatchAndAliases(t *testing.T) {
	var calls []string
	r := NewRouter(discardLogger())
	r.RegisterCommand("/ads", recordingHandler("ads", &calls), "📋 Объявления")
	r.SetDefault(recordingHandler("fallback", &calls))

	for _, text := range []string{"/ads", "📋 Объявления", "/ads ", "/ADS", "📋", ""} {
		require.NoError(t, r.Route(context.Background(), &handlers.Request{Text: text}))
	}

	assert.Equal(t, []string{"ads", "ads", "fallback", "fallback", "fallback", "fallback"}, calls)
}

func TestRouter_SetsCanonicalCommand(t *testing.T) {
	r := NewRouter(discardLogger())
	var seen []string
	capture := func(_ context.Context, req *handlers.Request) error {
		seen = append(seen, req.Command)
		return nil
	}
	r.RegisterCommand("/help", capture, "💬 Поддержка")
	r.SetDefault(capture)

	require.NoError(t, r.Route(context.Background(), &handlers.Request{Text: "💬 Поддержка"}))
	require.NoError(t, r.Route(context.Background(), &handlers.Request{Text: "hello"}))

	assert.Equal(t, []string{"/help", CommandFallback}, seen)
}

func TestRouter_MiddlewareOrder(t *testing.T) {
	var order []string
	mw := func(name string) handlers.Middleware {
		return func(next handlers.Handler) handlers.Handler {
			return func(ctx context.Context, req *handlers.Request) error {
				order = append(order, name)
				return next(ctx, req)
			}
		}
	}

	r := NewRouter(discardLogger())
	r.Use(mw("first"))
	r.Use(mw("second"))
	r.RegisterCommand("/start", recordingHandler("handler", &order))

	require.NoError(t, r.Route(context.Background(), &handlers.Request{Text: "/start"}))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}

func TestRouter_NoDefault(t *testing.T) {
	r := NewRouter(discardLogger())
	assert.NoError(t, r.Route(context.Background(), &handlers.Request{Text: "anything"}))
	assert.NoError(t, r.Route(context.Background(), nil))
}

func TestRouter_PropagatesHandlerError(t *testing.T) {
	boom := errors.New("boom")
	r := NewRouter(discardLogger())
	r.RegisterCommand("/deals", func(context.Context, *handlers.Request) error { return boom })

	assert.ErrorIs(t, r.Route(context.Background(), &handlers.Request{Text: "/deals"}), boom)
}

func TestRecoveryMiddleware_ConvertsPanic(t *testing.T) {
	h := RecoveryMiddleware(discardLogger())(func(context.Context, *handlers.Request) error {
		panic("nil map")
	})

	err := h(context.Background(), &handlers.Request{Command: "/ads"})
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.CodeInternal, appErr.Code)
	assert.Contains(t, err.Error(), "nil map")
}
