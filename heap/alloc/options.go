package alloc

import "log/slog"

type options struct {
	capacity int
	logger   *slog.Logger
	observer Observer
	mapped   bool
}

func defaultOptions() options {
	return options{
		capacity: DefaultCapacity,
		logger:   slog.New(slog.DiscardHandler),
		observer: NoopObserver{},
	}
}

// Option configures an Allocator.
type Option func(*options)

// WithCapacity sets the arena size in bytes. It must be a multiple of
// format.Alignment between format.MinCapacity and format.MaxCapacity.
func WithCapacity(n int) Option {
	return func(o *options) {
		o.capacity = n
	}
}

// WithLogger routes allocator diagnostics to l. Successful operations log at
// Debug, rejected ones at Warn and detected corruption at Error.
//
// If nil is passed, logging is discarded.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l == nil {
			l = slog.New(slog.DiscardHandler)
		}
		o.logger = l
	}
}

// WithObserver installs hooks that are called after every operation.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs == nil {
			obs = NoopObserver{}
		}
		o.observer = obs
	}
}

// WithMappedArena backs the arena with an anonymous memory mapping instead of
// a Go slice.
func WithMappedArena(enabled bool) Option {
	return func(o *options) {
		o.mapped = enabled
	}
}
