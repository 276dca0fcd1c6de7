// File: core/hubqueue/core.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Core construction and instance identity.

package hubqueue

import (
	"io"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/momentics/bufferhub-queue/api"
	"github.com/momentics/bufferhub-queue/control"
	"github.com/momentics/bufferhub-queue/hub"
	"github.com/momentics/bufferhub-queue/internal/idgen"
)

// NoTimeout makes dequeue block indefinitely.
const NoTimeout time.Duration = -1

// Core owns the slot table of one queue.
type Core struct {
	generationNumber atomic.Uint32
	dequeueTimeout   atomic.Int64
	uniqueID         uint64

	producer api.ProducerQueue
	owned    io.Closer // service created by Create, closed with the core
	slots    []slot

	logger  *slog.Logger
	metrics *control.MetricsRegistry
	stats   counters
}

type counters struct {
	allocations    atomic.Uint64
	detaches       atomic.Uint64
	allocFailures  atomic.Uint64
	detachFailures atomic.Uint64
}

// Create builds a Core around a new in-process allocation service typed to
// api.BufferMetadata.
func Create(opts ...Option) (*Core, error) {
	o := buildOptions(opts)
	svcOpts := append([]hub.Option{hub.WithLogger(o.logger)}, o.serviceOpts...)
	svc, err := hub.Create[api.BufferMetadata](svcOpts...)
	if err != nil {
		return nil, errors.Wrap(err, "create allocation service")
	}
	c := newCore(svc, o)
	c.owned = svc
	return c, nil
}

// CreateWithProducer builds a Core around an existing service. The service's
// metadata record must match api.BufferMetadata in size, otherwise no Core is
// returned and the error matches api.ErrMetadataMismatch.
func CreateWithProducer(producer api.ProducerQueue, opts ...Option) (*Core, error) {
	o := buildOptions(opts)
	if producer == nil {
		return nil, errors.Wrap(api.StatusInvalidArgument, "nil producer queue")
	}
	if got := producer.MetadataSize(); got != api.BufferMetadataSize {
		o.logger.Error("producer's metadata size is different than the size of BufferMetadata",
			"got", got, "want", api.BufferMetadataSize)
		return nil, errors.WithHint(
			errors.Wrapf(api.ErrMetadataMismatch, "got %d bytes, want %d", got, api.BufferMetadataSize),
			"create the service with hub.Create[api.BufferMetadata]")
	}
	return newCore(producer, o), nil
}

func newCore(producer api.ProducerQueue, o options) *Core {
	c := &Core{
		uniqueID: idgen.Next(),
		producer: producer,
		slots:    make([]slot, producer.Capacity()),
		metrics:  o.metrics,
	}
	c.logger = o.logger.With("core_id", c.uniqueID)
	c.dequeueTimeout.Store(int64(NoTimeout))
	return c
}

// UniqueID distinguishes this Core from every other Core in the process.
func (c *Core) UniqueID() uint64 { return c.uniqueID }

// GenerationNumber returns the buffer generation.
func (c *Core) GenerationNumber() uint32 { return c.generationNumber.Load() }

// SetGenerationNumber replaces the buffer generation.
func (c *Core) SetGenerationNumber(g uint32) { c.generationNumber.Store(g) }

// DequeueTimeout returns the configured timeout, or NoTimeout.
func (c *Core) DequeueTimeout() time.Duration { return time.Duration(c.dequeueTimeout.Load()) }

// SetDequeueTimeout sets the timeout; negative values mean NoTimeout.
func (c *Core) SetDequeueTimeout(d time.Duration) {
	if d < 0 {
		d = NoTimeout
	}
	c.dequeueTimeout.Store(int64(d))
}

// Producer returns the allocation service backing this Core.
func (c *Core) Producer() api.ProducerQueue { return c.producer }

// Capacity is the number of slots.
func (c *Core) Capacity() int { return len(c.slots) }
