// Package bot routes inbound messages to the command handlers.
package bot

import (
	"context"
	"log/slog"
	"sync"

	"github.com/Proton-105/p2p-exchange-bot/internal/bot/handlers"
)

type route struct {
	command string
	handler handlers.Handler
}

// Router dispatches message text to handlers by exact string equality.
type Router struct {
	mu             sync.RWMutex
	routes         map[string]route
	defaultHandler handlers.Handler
	middlewares    []handlers.Middleware
	log            *slog.Logger
}

// NewRouter builds a Router with an empty registry.
func NewRouter(log *slog.Logger) *Router {
	if log == nil {
		log = slog.Default()
	}

	return &Router{
		routes:      make(map[string]route),
		middlewares: make([]handlers.Middleware, 0),
		log:         log,
	}
}

// RegisterCommand registers h for command and every alias. Empty triggers are ignored.
func (r *Router) RegisterCommand(command string, h handlers.Handler, aliases ...string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, trigger := range append([]string{command}, aliases...) {
		if trigger == "" {
			continue
		}
		if existing, ok := r.routes[trigger]; ok && existing.command != command {
			r.log.Warn("trigger re-registered", slog.String("trigger", trigger), slog.String("previous", existing.command), slog.String("command", command))
		}
		r.routes[trigger] = route{command: command, handler: h}
	}
}

// Use appends a middleware to the chain.
func (r *Router) Use(mw handlers.Middleware) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.middlewares = append(r.middlewares, mw)
}

// SetDefault sets the fallback handler for unmatched text.
func (r *Router) SetDefault(h handlers.Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defaultHandler = h
}

// Route runs exactly one handler for req: the registered one, or the default.
func (r *Router) Route(ctx context.Context, req *handlers.Request) error {
	if req == nil {
		return nil
	}

	handler, command := r.lookup(req.Text)
	if handler == nil {
		r.log.Debug("no handler for text", slog.String("text", req.Text))
		return nil
	}

	req.Command = command
	return r.executeHandler(ctx, handler, req)
}

func (r *Router) lookup(text string) (handlers.Handler, string) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if rt, ok := r.routes[text]; ok && rt.handler != nil {
		return rt.handler, rt.command
	}

	return r.defaultHandler, CommandFallback
}

func (r *Router) executeHandler(ctx context.Context, h handlers.Handler, req *handlers.Request) error {
	wrapped := r.applyMiddlewares(h)
	if wrapped == nil {
		return nil
	}
	return wrapped(ctx, req)
}

// applyMiddlewares wraps the handler with all registered middlewares.
func (r *Router) applyMiddlewares(h handlers.Handler) handlers.Handler {
	if h == nil {
		return nil
	}

	middlewares := r.middlewaresSnapshot()
	wrapped := h
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}

	return wrapped
}

func (r *Router) middlewaresSnapshot() []handlers.Middleware {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.middlewares) == 0 {
		return nil
	}

	snapshot := make([]handlers.Middleware, len(r.middlewares))
	copy(snapshot, r.middlewares)
	return snapshot
}
