package usecase

import "time"

type options struct {
	metrics      MetricsRecorder
	hierarchyTTL time.Duration
}

// Option customizes a use case.
type Option func(*options)

// WithMetrics reports business events to m.
func WithMetrics(m MetricsRecorder) Option {
	return func(o *options) {
		if m != nil {
			o.metrics = m
		}
	}
}

// WithHierarchyCacheTTL sets how long flattened charts stay cached.
func WithHierarchyCacheTTL(ttl time.Duration) Option {
	return func(o *options) {
		if ttl > 0 {
			o.hierarchyTTL = ttl
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{
		metrics:      noopMetrics{},
		hierarchyTTL: DefaultHierarchyCacheTTL,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
