// File: fake/producer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Scriptable allocation-service doubles for testing queue cores.

package fake

import (
	"github.com/momentics/bufferhub-queue/api"
)

// BufferProducer is a fake implementation of api.BufferProducer.
type BufferProducer struct {
	width, height uint32
	format        api.PixelFormat
	usage         api.Usage
	stride        uint32
	handle        *api.NativeHandle
}

// NewBufferProducer creates a producer with stride equal to width and a
// descriptor-free handle.
func NewBufferProducer(width, height uint32, format api.PixelFormat, usage api.Usage) *BufferProducer {
	return &BufferProducer{
		width:  width,
		height: height,
		format: format,
		usage:  usage,
		stride: width,
		handle: &api.NativeHandle{Ints: []int32{int32(width), int32(height)}},
	}
}

func (p *BufferProducer) Width() uint32             { return p.width }
func (p *BufferProducer) Height() uint32            { return p.height }
func (p *BufferProducer) Format() api.PixelFormat   { return p.format }
func (p *BufferProducer) Usage() api.Usage          { return p.usage }
func (p *BufferProducer) Stride() uint32            { return p.stride }
func (p *BufferProducer) Handle() *api.NativeHandle { return p.handle }

// ProducerQueue is a fake api.ProducerQueue. It hands out the lowest free
// slot unless told otherwise. Not safe for concurrent use.
type ProducerQueue struct {
	capacity     int
	metadataSize int
	buffers      []*BufferProducer

	// AllocateErr, when set, fails AllocateBuffer.
	AllocateErr error
	// DetachErr, when set, fails DetachBuffer.
	DetachErr error
	// ForceSlot, when >= 0, is returned by AllocateBuffer regardless of occupancy.
	ForceSlot int
	// DropBuffers makes GetBuffer return nil.
	DropBuffers bool
	// NoHandles allocates producers without a native handle.
	NoHandles bool

	AllocateCalls int
	DetachCalls   int
}

var _ api.ProducerQueue = (*ProducerQueue)(nil)

// NewProducerQueue creates a fake service.
func NewProducerQueue(capacity, metadataSize int) *ProducerQueue {
	return &ProducerQueue{
		capacity:     capacity,
		metadataSize: metadataSize,
		buffers:      make([]*BufferProducer, capacity),
		ForceSlot:    -1,
	}
}

func (q *ProducerQueue) MetadataSize() int { return q.metadataSize }
func (q *ProducerQueue) Capacity() int     { return q.capacity }

// AllocateBuffer implements api.ProducerQueue.
func (q *ProducerQueue) AllocateBuffer(width, height uint32, format api.PixelFormat,
	usage api.Usage, _ int) (int, error) {
	q.AllocateCalls++
	if q.AllocateErr != nil {
		return -1, q.AllocateErr
	}
	slot := q.ForceSlot
	if slot < 0 {
		slot = q.firstFree()
		if slot < 0 {
			return -1, api.StatusNoSpace
		}
	}
	p := NewBufferProducer(width, height, format, usage)
	if q.NoHandles {
		p.handle = nil
	}
	if slot < q.capacity {
		q.buffers[slot] = p
	}
	return slot, nil
}

// GetBuffer implements api.ProducerQueue.
func (q *ProducerQueue) GetBuffer(slot int) api.BufferProducer {
	if q.DropBuffers || slot < 0 || slot >= q.capacity || q.buffers[slot] == nil {
		return nil
	}
	return q.buffers[slot]
}

// DetachBuffer implements api.ProducerQueue.
func (q *ProducerQueue) DetachBuffer(slot int) error {
	q.DetachCalls++
	if q.DetachErr != nil {
		return q.DetachErr
	}
	if slot < 0 || slot >= q.capacity {
		return api.StatusInvalidArgument
	}
	if q.buffers[slot] == nil {
		return api.StatusNoEntry
	}
	q.buffers[slot] = nil
	return nil
}

func (q *ProducerQueue) firstFree() int {
	for i, b := range q.buffers {
		if b == nil {
			return i
		}
	}
	return -1
}
