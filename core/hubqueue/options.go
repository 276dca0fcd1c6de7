// File: core/hubqueue/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package hubqueue

import (
	"log/slog"

	"github.com/momentics/bufferhub-queue/control"
	"github.com/momentics/bufferhub-queue/hub"
)

type options struct {
	logger      *slog.Logger
	metrics     *control.MetricsRegistry
	serviceOpts []hub.Option
}

// Option configures a Core.
type Option func(*options)

// WithLogger sets the logger. slog.Default is used otherwise.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithMetrics publishes allocate/detach counters to mr.
func WithMetrics(mr *control.MetricsRegistry) Option { return func(o *options) { o.metrics = mr } }

// WithServiceOptions configures the allocation service built by Create.
// CreateWithProducer ignores it.
func WithServiceOptions(opts ...hub.Option) Option {
	return func(o *options) { o.serviceOpts = append(o.serviceOpts, opts...) }
}

func buildOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	return o
}
