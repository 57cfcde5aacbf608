package xgxtrace

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Option configures a Boundary.
type Option func(*Boundary)

// WithFramework sets the name shown in "Traceback modulo <name>:".
func WithFramework(name string) Option {
	return func(b *Boundary) {
		if name != "" {
			b.framework = name
		}
	}
}

// WithPathSet sets the PathSet deciding which frames are user frames.
func WithPathSet(ps PathSet) Option {
	return func(b *Boundary) { b.paths = ps }
}

// WithRegistry sets the registry used to rebuild failures. nil keeps the
// default registry.
func WithRegistry(r *Registry) Option {
	return func(b *Boundary) {
		if r != nil {
			b.registry = r
		}
	}
}

// WithLogger sets the logger. Boundaries only log at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(b *Boundary) {
		if l != nil {
			b.logger = l
		}
	}
}

// WithMetrics registers failure counters with reg. Boundaries given the same
// registerer share one counter. It panics if reg rejects the counter for any
// other reason.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(b *Boundary) {
		if reg != nil {
			b.metrics = newBoundaryMetrics(reg)
		}
	}
}
