// File: hub/options.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package hub

import "log/slog"

// DefaultCapacity is the queue depth used when none is configured.
const DefaultCapacity = 64

// MaxCapacity bounds the slot table of a single service.
const MaxCapacity = 512

// MaxBufferBytes bounds the backing memory of one buffer, pixels and metadata
// record included. It keeps every size representable in a native handle's int32s.
const MaxBufferBytes = 1 << 30

type options struct {
	capacity  int
	memory    MemoryKind
	allocator Allocator
	name      string
	logger    *slog.Logger
}

// Option configures a ProducerQueue.
type Option func(*options)

// WithCapacity sets the number of slots.
func WithCapacity(n int) Option { return func(o *options) { o.capacity = n } }

// WithMemory selects the memory backing.
func WithMemory(kind MemoryKind) Option { return func(o *options) { o.memory = kind } }

// WithAllocator installs a custom allocator; it overrides WithMemory.
func WithAllocator(a Allocator) Option { return func(o *options) { o.allocator = a } }

// WithName sets the service name used for memory object names and logs.
func WithName(name string) Option { return func(o *options) { o.name = name } }

// WithLogger sets the logger. slog.Default is used otherwise.
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }
