// Package api
// Author: momentics
//
// Remote buffer handles and the allocation-service contract consumed by the
// queue core. The service performs the actual allocation, possibly out of
// process; the core only mirrors its slot occupancy.

package api

// NativeHandle describes the memory behind a buffer the way it crosses a
// process boundary: file descriptors plus opaque integers.
type NativeHandle struct {
	FDs  []int
	Ints []int32
}

// Valid reports whether the handle refers to any backing object.
func (h *NativeHandle) Valid() bool {
	return h != nil && len(h.FDs)+len(h.Ints) > 0
}

// Clone returns a copy that shares no slices with h.
func (h *NativeHandle) Clone() *NativeHandle {
	if h == nil {
		return nil
	}
	return &NativeHandle{
		FDs:  append([]int(nil), h.FDs...),
		Ints: append([]int32(nil), h.Ints...),
	}
}

// BufferProducer is the producer-side proxy of one remote buffer.
type BufferProducer interface {
	Width() uint32
	Height() uint32
	Format() PixelFormat
	Usage() Usage

	// Stride is the row pitch in pixels.
	Stride() uint32

	// Handle returns the native handle of the buffer memory. The proxy keeps ownership.
	Handle() *NativeHandle
}

// ProducerQueue is the remote allocation service. It owns slot assignment.
type ProducerQueue interface {
	// AllocateBuffer allocates a buffer and returns the slot the service chose for it.
	// A negative Status is reported through the error on failure.
	AllocateBuffer(width, height uint32, format PixelFormat, usage Usage, sliceCount int) (int, error)

	// GetBuffer returns the producer proxy for slot, or nil.
	GetBuffer(slot int) BufferProducer

	// DetachBuffer releases slot on the service side.
	DetachBuffer(slot int) error

	// MetadataSize is the byte size of the per-buffer metadata record.
	MetadataSize() int

	// Capacity is the queue depth, i.e. the number of slots.
	Capacity() int
}
