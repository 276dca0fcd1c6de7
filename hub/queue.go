// File: hub/queue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Slot-assigning producer queue. Free slots are handed out in FIFO order so a
// detached slot is reused only after every other free slot.

package hub

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"math/bits"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/eapache/queue"
	"github.com/google/uuid"

	"github.com/momentics/bufferhub-queue/api"
)

// strideAlign is the row alignment in pixels for image formats.
const strideAlign = 16

// ProducerQueue allocates buffers and assigns them to slots.
type ProducerQueue struct {
	mu sync.Mutex

	name         string
	capacity     int
	metadataSize int
	allocator    Allocator
	logger       *slog.Logger

	free    *queue.Queue // of int
	buffers []*Producer
	closed  bool
}

var _ api.ProducerQueue = (*ProducerQueue)(nil)

// New creates a service whose buffers carry metadata records of metadataSize bytes.
func New(metadataSize int, opts ...Option) (*ProducerQueue, error) {
	o := options{capacity: DefaultCapacity}
	for _, opt := range opts {
		opt(&o)
	}
	if metadataSize < 0 || metadataSize > MaxBufferBytes {
		return nil, errors.Newf("metadata size %d out of range [0, %d]", metadataSize, MaxBufferBytes)
	}
	if o.capacity <= 0 || o.capacity > MaxCapacity {
		return nil, errors.Newf("capacity %d out of range [1, %d]", o.capacity, MaxCapacity)
	}
	if o.name == "" {
		o.name = "bufferhub-" + uuid.New().String()
	}
	if o.logger == nil {
		o.logger = slog.Default()
	}
	if o.allocator == nil {
		o.allocator = NewAllocator(o.memory)
	}

	q := &ProducerQueue{
		name:         o.name,
		capacity:     o.capacity,
		metadataSize: metadataSize,
		allocator:    o.allocator,
		logger:       o.logger.With("service", o.name),
		free:         queue.New(),
		buffers:      make([]*Producer, o.capacity),
	}
	for slot := 0; slot < o.capacity; slot++ {
		q.free.Add(slot)
	}
	return q, nil
}

// Create creates a service typed to the metadata record M. M must have a
// fixed encoded size.
func Create[M any](opts ...Option) (*ProducerQueue, error) {
	var m M
	size := binary.Size(m)
	if size < 0 {
		return nil, errors.Newf("metadata type %T has no fixed size", m)
	}
	return New(size, opts...)
}

// Name returns the service name.
func (q *ProducerQueue) Name() string { return q.name }

// MetadataSize implements api.ProducerQueue.
func (q *ProducerQueue) MetadataSize() int { return q.metadataSize }

// Capacity implements api.ProducerQueue.
func (q *ProducerQueue) Capacity() int { return q.capacity }

// Count returns the number of allocated slots.
func (q *ProducerQueue) Count() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.capacity - q.free.Length()
}

// AllocateBuffer implements api.ProducerQueue.
func (q *ProducerQueue) AllocateBuffer(width, height uint32, format api.PixelFormat,
	usage api.Usage, sliceCount int) (int, error) {
	if width == 0 || height == 0 || !format.Valid() || sliceCount < 1 {
		return -1, errors.Wrapf(api.StatusInvalidArgument,
			"allocate %dx%d format=%s slices=%d", width, height, format, sliceCount)
	}
	stride, pixelBytes, ok := q.layout(width, height, format, sliceCount)
	if !ok {
		return -1, errors.Wrapf(api.StatusNoMemory,
			"%dx%d format=%s slices=%d exceeds %d bytes", width, height, format, sliceCount, MaxBufferBytes)
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return -1, api.ErrServiceClosed
	}
	if q.free.Length() == 0 {
		return -1, errors.Wrapf(api.StatusNoSpace, "all %d slots in use", q.capacity)
	}

	slot := q.free.Remove().(int)

	region, err := q.allocator.Alloc(fmt.Sprintf("%s/%d", q.name, slot), pixelBytes+q.metadataSize)
	if err != nil {
		q.free.Add(slot)
		return -1, errors.WithSecondaryError(
			errors.Wrapf(api.StatusNoMemory, "backing memory for slot %d", slot), err)
	}

	q.buffers[slot] = &Producer{
		slot:       slot,
		width:      width,
		height:     height,
		format:     format,
		usage:      usage,
		stride:     stride,
		sliceCount: sliceCount,
		region:     region,
		pixels:     region.Data[:pixelBytes],
		metadata:   region.Data[pixelBytes:],
	}
	q.logger.Debug("buffer allocated", "slot", slot, "width", width, "height", height,
		"format", format, "bytes", len(region.Data))
	return slot, nil
}

// GetBuffer implements api.ProducerQueue.
func (q *ProducerQueue) GetBuffer(slot int) api.BufferProducer {
	if p := q.Buffer(slot); p != nil {
		return p
	}
	return nil
}

// Buffer returns the concrete producer at slot, or nil.
func (q *ProducerQueue) Buffer(slot int) *Producer {
	q.mu.Lock()
	defer q.mu.Unlock()
	if slot < 0 || slot >= q.capacity {
		return nil
	}
	return q.buffers[slot]
}

// DetachBuffer implements api.ProducerQueue. The slot's memory is released and
// the slot goes to the back of the free list.
func (q *ProducerQueue) DetachBuffer(slot int) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return api.ErrServiceClosed
	}
	if slot < 0 || slot >= q.capacity {
		return errors.Wrapf(api.StatusInvalidArgument, "slot %d out of range", slot)
	}
	p := q.buffers[slot]
	if p == nil {
		return errors.Wrapf(api.StatusNoEntry, "slot %d is not allocated", slot)
	}
	q.buffers[slot] = nil
	q.free.Add(slot)
	if err := p.release(); err != nil {
		q.logger.Error("failed to release buffer memory", "slot", slot, "err", err)
	}
	q.logger.Debug("buffer detached", "slot", slot)
	return nil
}

// Close releases every buffer. Further allocations fail with api.ErrServiceClosed.
func (q *ProducerQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	q.closed = true
	var errs error
	for slot, p := range q.buffers {
		if p == nil {
			continue
		}
		q.buffers[slot] = nil
		errs = errors.CombineErrors(errs, p.release())
	}
	return errs
}

// layout computes the row stride in pixels and the pixel byte count of a buffer.
// ok is false when the buffer and its metadata record would not fit in
// MaxBufferBytes.
func (q *ProducerQueue) layout(width, height uint32, format api.PixelFormat,
	sliceCount int) (stride uint32, pixelBytes int, ok bool) {
	s := uint64(width)
	if format != api.PixelFormatBlob {
		s = (s + strideAlign - 1) &^ (strideAlign - 1)
	}
	if s > math.MaxUint32 {
		return 0, 0, false
	}
	hi1, n := bits.Mul64(s, uint64(height))
	hi2, n := bits.Mul64(n, uint64(format.BytesPerPixel()))
	hi3, n := bits.Mul64(n, uint64(sliceCount))
	if hi1|hi2|hi3 != 0 || n > uint64(MaxBufferBytes-q.metadataSize) {
		return 0, 0, false
	}
	return uint32(s), int(n), true
}
