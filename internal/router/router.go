package router

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Handler receives location changes from Run.
type Handler func(ctx context.Context, loc Location)

// Router is an ordered queue of location changes with a single consumer.
//
// Navigate and Reload may be called from any goroutine, including from a
// Handler while Run is dispatching. Handlers run one at a time, in order.
type Router struct {
	mu       sync.Mutex
	current  Location
	latest   Location
	pending  []Location
	handlers []Handler
	wake     chan struct{}
	logger   zerolog.Logger
}

// New creates a Router.
func New(logger zerolog.Logger) *Router {
	return &Router{
		wake:   make(chan struct{}, 1),
		logger: logger.With().Str("component", "router").Logger(),
	}
}

// Subscribe registers a handler for every dispatched location.
func (r *Router) Subscribe(h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.handlers = append(r.handlers, h)
}

// Navigate enqueues target unless it equals the most recently requested
// location. It reports whether a change was enqueued.
func (r *Router) Navigate(target string) bool {
	loc, err := ParseLocation(target)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Ignoring invalid navigation target")
		return false
	}
	return r.push(loc, false)
}

// Reload always enqueues target, even when it is the current location.
func (r *Router) Reload(target string) {
	loc, err := ParseLocation(target)
	if err != nil {
		r.logger.Warn().Err(err).Msg("Ignoring invalid reload target")
		return
	}
	r.push(loc, true)
}

// Current returns the last dispatched location.
func (r *Router) Current() Location {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.current
}

func (r *Router) push(loc Location, force bool) bool {
	r.mu.Lock()
	if !force && loc.Equal(r.latest) {
		r.mu.Unlock()
		return false
	}
	r.latest = loc
	r.pending = append(r.pending, loc)
	r.mu.Unlock()

	r.logger.Debug().Str("location", loc.String()).Bool("reload", force).Msg("Location change queued")

	select {
	case r.wake <- struct{}{}:
	default:
	}
	return true
}

// Run dispatches queued locations until ctx is cancelled.
func (r *Router) Run(ctx context.Context) error {
	for {
		for {
			loc, handlers, ok := r.next()
			if !ok {
				break
			}
			for _, h := range handlers {
				h(ctx, loc)
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-r.wake:
		}
	}
}

func (r *Router) next() (Location, []Handler, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.pending) == 0 {
		return Location{}, nil, false
	}
	loc := r.pending[0]
	r.pending = r.pending[1:]
	r.current = loc

	handlers := make([]Handler, len(r.handlers))
	copy(handlers, r.handlers)
	return loc, handlers, true
}
