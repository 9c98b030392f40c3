package lifecycle

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Proton-105/p2p-exchange-bot/internal/health"
)

type checkFunc func(ctx context.Context) error

func (f checkFunc) HealthCheck(ctx context.Context) error { return f(ctx) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestShutdown_RunsAllHooks(t *testing.T) {
	s := NewShutdown(discardLogger())
	var ran atomic.Int32

	s.Register("db", func(context.Context) error { ran.Add(1); return nil })
	s.Register("redis", func(context.Context) error { ran.Add(1); return errors.New("already closed") })
	s.Register("nil", nil)

	err := s.Execute(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis: already closed")
	assert.Equal(t, int32(2), ran.Load())
}

func TestShutdown_HooksRunInParallel(t *testing.T) {
	s := NewShutdown(discardLogger())
	release := make(chan struct{})

	s.Register("waiter", func(ctx context.Context) error {
		select {
		case <-release:
			return nil
		case <-time.After(time.Second):
			return errors.New("not released")
		}
	})
	s.Register("releaser", func(context.Context) error {
		close(release)
		return nil
	})

	assert.NoError(t, s.Execute(context.Background()))
}

func TestProbes_Readiness(t *testing.T) {
	checker := health.NewChecker(discardLogger())
	checker.AddCheck("postgres", checkFunc(func(context.Context) error { return nil }))
	checker.AddCheck("telegram", checkFunc(func(context.Context) error { return errors.New("unauthorized") }))

	p := NewProbes(checker, discardLogger())

	results, err := p.Readiness(context.Background())
	require.Error(t, err)
	assert.Equal(t, "not ready: telegram", err.Error())
	assert.Equal(t, health.StatusOK, results["postgres"])
	assert.NoError(t, p.Liveness(context.Background()))
}

func TestProbes_NoChecker(t *testing.T) {
	results, err := NewProbes(nil, discardLogger()).Readiness(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, results)
}
