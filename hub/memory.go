// File: hub/memory.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package hub

import (
	"capnproto.org/go/capnp/v3/exp/bufferpool"
	"github.com/cockroachdb/errors"

	"github.com/momentics/bufferhub-queue/api"
)

// MemoryKind selects how buffer memory is backed.
type MemoryKind int

const (
	// MemoryDefault picks shared memory where the platform supports it.
	MemoryDefault MemoryKind = iota
	// MemoryShared uses anonymous shared memory that can cross process boundaries.
	MemoryShared
	// MemoryHeap uses pooled Go heap memory. Handles carry no descriptors.
	MemoryHeap
)

func (k MemoryKind) String() string {
	switch k {
	case MemoryShared:
		return "shared"
	case MemoryHeap:
		return "heap"
	default:
		return "default"
	}
}

// Region is one contiguous block of buffer memory.
type Region struct {
	Data   []byte
	Handle *api.NativeHandle

	free func() error
}

// Free returns the memory to its allocator. The region must not be used afterwards.
func (r *Region) Free() error {
	if r.free == nil {
		return nil
	}
	f := r.free
	r.free = nil
	r.Data = nil
	return f()
}

// Allocator provides backing memory for buffers.
type Allocator interface {
	Alloc(name string, size int) (*Region, error)
}

func checkRegionSize(size int) error {
	if size < 0 || size > MaxBufferBytes {
		return errors.Newf("region size %d out of range [0, %d]", size, MaxBufferBytes)
	}
	return nil
}

// NewAllocator returns the allocator for kind on the current platform.
func NewAllocator(kind MemoryKind) Allocator {
	if kind == MemoryDefault {
		kind = defaultMemory
	}
	if kind == MemoryShared {
		return newSharedAllocator()
	}
	return &heapAllocator{}
}

// heapAllocator hands out pooled byte slices.
type heapAllocator struct {
	seq int32
}

func (h *heapAllocator) Alloc(_ string, size int) (*Region, error) {
	if err := checkRegionSize(size); err != nil {
		return nil, err
	}
	buf := bufferpool.Default.Get(size)
	clear(buf)
	h.seq++
	return &Region{
		Data:   buf,
		Handle: &api.NativeHandle{Ints: []int32{int32(size), h.seq}},
		free: func() error {
			bufferpool.Default.Put(buf)
			return nil
		},
	}, nil
}
