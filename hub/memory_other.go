//go:build !linux

package hub

// Without memfd, shared requests fall back to pooled heap memory.
const defaultMemory = MemoryHeap

func newSharedAllocator() Allocator {
	return &heapAllocator{}
}
