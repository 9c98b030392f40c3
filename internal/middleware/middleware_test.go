package middleware

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proton-105/p2p-exchange-bot/internal/bot/handlers"
	"github.com/Proton-105/p2p-exchange-bot/pkg/logger"
)

func commandCount(t *testing.T, command, status string) float64 {
	t.Helper()

	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != "bot_commands_total" {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			if labels["command"] == command && labels["status"] == status {
				return m.GetCounter().GetValue()
			}
		}
	}
	return 0
}

func TestLogging_RecordsStatusAndCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	h := logger.Middleware(New(log)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short"))
	})))

	req := httptest.NewRequest(http.MethodPost, "/webhook", nil)
	req.Header.Set(logger.CorrelationIDHeader, "corr-7")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "short", rec.Body.String())

	out := buf.String()
	assert.Contains(t, out, "status=418")
	assert.Contains(t, out, "path=/webhook")
	assert.Contains(t, out, "correlation_id=corr-7")
}

func TestLogging_ImplicitOK(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	h := New(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Contains(t, buf.String(), "status=200")
}

func TestMetrics_CountsByCommandAndStatus(t *testing.T) {
	failing := Metrics(func(context.Context, *handlers.Request) error { return errors.New("boom") })
	ok := Metrics(func(context.Context, *handlers.Request) error { return nil })

	before := commandCount(t, "mw_test", "error")

	require.Error(t, failing(context.Background(), &handlers.Request{Command: "mw_test"}))
	require.NoError(t, ok(context.Background(), &handlers.Request{Command: "mw_test"}))

	assert.Equal(t, before+1, commandCount(t, "mw_test", "error"))
	assert.Equal(t, 1.0, commandCount(t, "mw_test", "ok"))
}

func TestMetrics_NilHandler(t *testing.T) {
	assert.Nil(t, Metrics(nil))
}
