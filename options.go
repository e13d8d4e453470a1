package soaecs

import "github.com/rs/zerolog"

// Option configures an EntityAllocator, ColumnStore or TransformComponent.
type Option func(*options)

type options struct {
	logger zerolog.Logger
	bus    *EventBus
}

func newOptions(opts []Option) options {
	o := options{logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithLogger sets the logger used for growth and lifecycle diagnostics. Nothing is logged by
// default.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventBus makes the receiver publish lifecycle events on bus, and lets a TransformComponent
// listen for entity destruction.
func WithEventBus(bus *EventBus) Option {
	return func(o *options) {
		o.bus = bus
	}
}
