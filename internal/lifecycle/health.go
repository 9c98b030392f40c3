package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/Proton-105/p2p-exchange-bot/internal/health"
)

// HealthChecker exposes liveness and readiness probes.
type HealthChecker interface {
	Liveness(ctx context.Context) error
	Readiness(ctx context.Context) (map[string]string, error)
}

// Probes answers liveness from the process itself and readiness from the dependency checks.
type Probes struct {
	checker *health.Checker
	log     *slog.Logger
}

// NewProbes creates a new Probes instance. A nil checker makes the service always ready.
func NewProbes(checker *health.Checker, log *slog.Logger) *Probes {
	if log == nil {
		log = slog.Default()
	}
	return &Probes{checker: checker, log: log}
}

// Liveness reports success while the process can serve requests.
func (p *Probes) Liveness(ctx context.Context) error {
	p.log.Debug("liveness probe called")
	return ctx.Err()
}

// Readiness returns per-component statuses and an error naming every failing component.
func (p *Probes) Readiness(ctx context.Context) (map[string]string, error) {
	p.log.Debug("readiness probe called")

	if p.checker == nil {
		return map[string]string{}, nil
	}

	results := p.checker.Check(ctx)
	if health.Healthy(results) {
		return results, nil
	}

	failing := make([]string, 0, len(results))
	for name, status := range results {
		if status != health.StatusOK {
			failing = append(failing, name)
		}
	}
	sort.Strings(failing)

	return results, fmt.Errorf("not ready: %s", strings.Join(failing, ", "))
}
