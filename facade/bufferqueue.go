// File: facade/bufferqueue.go
// Unified facade for bufferhub-queue.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// BufferQueue wires an allocation service, a queue core and the control plane
// from one immutable Config. Runtime changes go through the Control interface,
// which hot-reloads the core's dequeue timeout and generation number.

package facade

import (
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/momentics/bufferhub-queue/adapters"
	"github.com/momentics/bufferhub-queue/api"
	"github.com/momentics/bufferhub-queue/control"
	"github.com/momentics/bufferhub-queue/core/hubqueue"
	"github.com/momentics/bufferhub-queue/hub"
)

// Config holds parameters immutable per queue.
type Config struct {
	Capacity       int            // Number of slots of a self-provisioned service
	Memory         hub.MemoryKind // Backing for self-provisioned buffers
	DequeueTimeout time.Duration  // Initial dequeue timeout; negative means none
	EnableMetrics  bool           // Publish allocate/detach counters
	EnableDebug    bool           // Register the core's debug probe
	Logger         *slog.Logger   // nil means slog.Default()
}

// DefaultConfig returns default configuration values.
func DefaultConfig() *Config {
	return &Config{
		Capacity:       hub.DefaultCapacity,
		Memory:         hub.MemoryDefault,
		DequeueTimeout: hubqueue.NoTimeout,
		EnableMetrics:  true,
		EnableDebug:    true,
	}
}

// BufferQueue is the main facade type.
type BufferQueue struct {
	core    *hubqueue.Core
	control *adapters.ControlAdapter
	config  *Config
}

var _ api.GracefulShutdown = (*BufferQueue)(nil)

// New builds a queue around a fresh in-process allocation service.
func New(cfg *Config) (*BufferQueue, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	q := newQueue(cfg)
	core, err := hubqueue.Create(append(q.coreOptions(),
		hubqueue.WithServiceOptions(hub.WithCapacity(cfg.Capacity), hub.WithMemory(cfg.Memory)))...)
	if err != nil {
		return nil, errors.Wrap(err, "facade: create queue core")
	}
	q.attach(core)
	return q, nil
}

// Adopt builds a queue around an existing service, which may be shared.
// Capacity and Memory in cfg are ignored.
func Adopt(producer api.ProducerQueue, cfg *Config) (*BufferQueue, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	q := newQueue(cfg)
	core, err := hubqueue.CreateWithProducer(producer, q.coreOptions()...)
	if err != nil {
		return nil, errors.Wrap(err, "facade: adopt producer queue")
	}
	q.attach(core)
	return q, nil
}

func newQueue(cfg *Config) *BufferQueue {
	return &BufferQueue{config: cfg, control: adapters.NewControlAdapter()}
}

func (q *BufferQueue) coreOptions() []hubqueue.Option {
	opts := []hubqueue.Option{}
	if q.config.Logger != nil {
		opts = append(opts, hubqueue.WithLogger(q.config.Logger))
	}
	if q.config.EnableMetrics {
		opts = append(opts, hubqueue.WithMetrics(q.control.Metrics()))
	}
	return opts
}

func (q *BufferQueue) attach(core *hubqueue.Core) {
	q.core = core
	q.control.ConfigStore().SetConfigSync(map[string]any{
		control.KeyDequeueTimeout: q.config.DequeueTimeout,
	})
	core.WatchConfig(q.control.ConfigStore())
	if q.config.EnableDebug {
		core.RegisterProbes(q.control.Debug())
	}
}

// AllocateBuffer allocates a buffer and returns its slot.
func (q *BufferQueue) AllocateBuffer(width, height uint32, format api.PixelFormat,
	usage api.Usage, sliceCount int) (int, error) {
	return q.core.AllocateBuffer(width, height, format, usage, sliceCount)
}

// DetachBuffer detaches the buffer in slot.
func (q *BufferQueue) DetachBuffer(slot int) error {
	return q.core.DetachBuffer(slot)
}

// Core exposes the underlying queue core.
func (q *BufferQueue) Core() *hubqueue.Core { return q.core }

// GetControl returns the control plane.
func (q *BufferQueue) GetControl() api.Control { return q.control }

// GetDebugAPI returns the probe registry.
func (q *BufferQueue) GetDebugAPI() api.Debug { return q.control.Debug() }

// Shutdown detaches all buffers and releases a self-provisioned service.
func (q *BufferQueue) Shutdown() error {
	return q.core.Close()
}
