//go:build linux

// File: hub/memory_linux.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// memfd-backed buffer memory. The descriptor is what a consumer in another
// process would receive and map.

package hub

import (
	"github.com/cockroachdb/errors"
	"golang.org/x/sys/unix"

	"github.com/momentics/bufferhub-queue/api"
)

const defaultMemory = MemoryShared

type memfdAllocator struct {
	pageSize int
}

func newSharedAllocator() Allocator {
	return &memfdAllocator{pageSize: unix.Getpagesize()}
}

func (m *memfdAllocator) Alloc(name string, size int) (*Region, error) {
	if err := checkRegionSize(size); err != nil {
		return nil, err
	}
	mapped := (size + m.pageSize - 1) &^ (m.pageSize - 1)
	fd, err := unix.MemfdCreate(name, unix.MFD_CLOEXEC)
	if err != nil {
		return nil, errors.Wrapf(err, "memfd_create %q", name)
	}
	if err := unix.Ftruncate(fd, int64(mapped)); err != nil {
		_ = unix.Close(fd)
		return nil, errors.Wrapf(err, "ftruncate %q to %d", name, mapped)
	}
	data, err := unix.Mmap(fd, 0, mapped, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = unix.Close(fd)
		return nil, errors.Wrapf(err, "mmap %q", name)
	}
	return &Region{
		Data:   data[:size],
		Handle: &api.NativeHandle{FDs: []int{fd}, Ints: []int32{int32(size), int32(mapped)}},
		free: func() error {
			return errors.CombineErrors(unix.Munmap(data), unix.Close(fd))
		},
	}, nil
}
