// Package metrics exposes the Prometheus instruments shared across the bot.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	botCommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "bot_commands_total",
			Help: "Total number of bot commands received labeled by command and status",
		},
		[]string{"command", "status"},
	)
	commandDurationSeconds = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "command_duration_seconds",
			Help:    "Duration of bot commands in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
	webhookRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_requests_total",
			Help: "Inbound webhook requests labeled by method and response status",
		},
		[]string{"method", "status"},
	)
	outboundMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "outbound_messages_total",
			Help: "Messages sent to the Telegram Bot API labeled by outcome",
		},
		[]string{"status"},
	)
	outboundDurationSeconds = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "outbound_message_duration_seconds",
			Help:    "Latency of sendMessage calls in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)
	usersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "users_created_total",
			Help: "Users created on first contact",
		},
	)
	errorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "errors_total",
			Help: "Total number of errors split by type and severity",
		},
		[]string{"type", "severity"},
	)
)

// RecordCommand increments command counters and records duration.
func RecordCommand(command, status string, duration time.Duration) {
	if command == "" {
		command = "unknown"
	}
	if status == "" {
		status = "unknown"
	}

	botCommandsTotal.WithLabelValues(command, status).Inc()
	commandDurationSeconds.WithLabelValues(command).Observe(duration.Seconds())
}

// RecordWebhook counts an inbound webhook request. Methods outside the
// standard HTTP set share the "other" label.
func RecordWebhook(method string, status int) {
	webhookRequestsTotal.WithLabelValues(methodLabel(method), http.StatusText(status)).Inc()
}

func methodLabel(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodConnect, http.MethodOptions, http.MethodTrace:
		return method
	default:
		return "other"
	}
}

// RecordOutbound counts a sendMessage attempt.
func RecordOutbound(err error, duration time.Duration) {
	status := "ok"
	if err != nil {
		status = "error"
	}

	outboundMessagesTotal.WithLabelValues(status).Inc()
	outboundDurationSeconds.Observe(duration.Seconds())
}

// RecordUserCreated counts a newly inserted user row.
func RecordUserCreated() {
	usersCreatedTotal.Inc()
}

// RecordError increments error counters with metadata.
func RecordError(errType, severity string) {
	if errType == "" {
		errType = "unknown"
	}
	if severity == "" {
		severity = "unknown"
	}

	errorsTotal.WithLabelValues(errType, severity).Inc()
}

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}
