// File: core/hubqueue/buffers.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Allocation and detachment. Every change is confirmed by the allocation
// service before the local table is touched.

package hubqueue

import (
	"github.com/cockroachdb/errors"

	"github.com/momentics/bufferhub-queue/api"
	"github.com/momentics/bufferhub-queue/core/graphic"
)

// AllocateBuffer asks the service for a new buffer and records it in the slot
// the service chose. A service failure yields an error matching
// api.StatusNoMemory and leaves the table unchanged.
func (c *Core) AllocateBuffer(width, height uint32, format api.PixelFormat,
	usage api.Usage, sliceCount int) (int, error) {
	index, err := c.producer.AllocateBuffer(width, height, format, usage, sliceCount)
	if err != nil {
		c.logger.Error("failed to allocate new buffer", "width", width, "height", height,
			"format", format, "err", err)
		c.record(&c.stats.allocFailures, "alloc_failures")
		return -1, errors.WithSecondaryError(
			errors.Wrapf(api.StatusNoMemory, "allocate %dx%d %s", width, height, format), err)
	}

	producer := c.producer.GetBuffer(index)
	if producer == nil {
		c.fatalf("failed to get buffer producer at slot %d", index)
	}
	if index < 0 || index >= len(c.slots) {
		c.fatalf("service assigned slot %d outside table of %d", index, len(c.slots))
	}
	s := &c.slots[index]
	if !s.empty() {
		c.fatalf("allocate: slot %d is not empty", index)
	}

	buffer := graphic.New(producer.Width(), producer.Height(), producer.Format(),
		1, producer.Usage(), producer.Stride(), producer.Handle(), false)
	if err := buffer.InitCheck(); err != nil {
		c.fatalf("failed to init graphic buffer at slot %d: %v", index, err)
	}

	s.alloc = &allocation{producer: producer, buffer: buffer}
	s.state = BufferState{}
	c.record(&c.stats.allocations, "allocations")
	c.logger.Debug("buffer allocated", "slot", index, "width", width, "height", height)
	return index, nil
}

// DetachBuffer detaches the buffer in slot on the service, then clears the
// slot and marks its producer side detached. If the service refuses, its
// error is returned as is and the slot is left untouched. Out-of-range and
// empty slots are rejected without contacting the service.
func (c *Core) DetachBuffer(index int) error {
	if index < 0 || index >= len(c.slots) {
		return errors.Wrapf(api.StatusInvalidArgument, "slot %d out of range [0, %d)", index, len(c.slots))
	}
	s := &c.slots[index]
	if s.empty() {
		return errors.Wrapf(api.StatusNoEntry, "slot %d is empty", index)
	}

	if err := c.producer.DetachBuffer(index); err != nil {
		c.logger.Error("failed to detach buffer through service", "slot", index, "err", err)
		c.record(&c.stats.detachFailures, "detach_failures")
		return err
	}

	if err := s.alloc.buffer.Release(); err != nil {
		c.logger.Error("failed to release local buffer", "slot", index, "err", err)
	}
	s.alloc = nil
	s.state.detachProducer()
	c.record(&c.stats.detaches, "detaches")
	c.logger.Debug("buffer detached", "slot", index)
	return nil
}

// Close detaches every allocated slot in index order and, for a Core made by
// Create, closes its service. Errors are combined; slots whose detach failed
// stay allocated.
func (c *Core) Close() error {
	var errs error
	for _, index := range c.AllocatedSlots() {
		errs = errors.CombineErrors(errs, c.DetachBuffer(index))
	}
	if c.owned != nil && errs == nil {
		errs = c.owned.Close()
		c.owned = nil
	}
	return errs
}

// Slot returns a snapshot of slot index.
func (c *Core) Slot(index int) (SlotInfo, bool) {
	if index < 0 || index >= len(c.slots) {
		return SlotInfo{}, false
	}
	return c.slots[index].info(index), true
}

// Buffer returns the local wrapper stored in slot index.
func (c *Core) Buffer(index int) (*graphic.Buffer, bool) {
	if index < 0 || index >= len(c.slots) || c.slots[index].empty() {
		return nil, false
	}
	return c.slots[index].alloc.buffer, true
}

// AllocatedSlots lists occupied slots in ascending order.
func (c *Core) AllocatedSlots() []int {
	var out []int
	for i := range c.slots {
		if !c.slots[i].empty() {
			out = append(out, i)
		}
	}
	return out
}
