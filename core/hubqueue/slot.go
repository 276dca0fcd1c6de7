// File: core/hubqueue/slot.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package hubqueue

import (
	"github.com/momentics/bufferhub-queue/api"
	"github.com/momentics/bufferhub-queue/core/graphic"
)

// SlotState is the occupancy of one slot.
type SlotState int

const (
	SlotEmpty SlotState = iota
	SlotAllocated
)

func (s SlotState) String() string {
	if s == SlotAllocated {
		return "allocated"
	}
	return "empty"
}

// BufferState is the consumer-side bookkeeping kept for a slot.
type BufferState struct {
	producerDetached bool
}

// ProducerDetached reports whether the producer side was detached since the
// last allocation into the slot.
func (b BufferState) ProducerDetached() bool { return b.producerDetached }

func (b *BufferState) detachProducer() { b.producerDetached = true }

// allocation binds the remote proxy and the local wrapper of one buffer.
// Both are always set.
type allocation struct {
	producer api.BufferProducer
	buffer   *graphic.Buffer
}

// slot is one entry of the table; a nil alloc means Empty.
type slot struct {
	alloc *allocation
	state BufferState
}

func (s *slot) empty() bool { return s.alloc == nil }

func (s *slot) status() SlotState {
	if s.empty() {
		return SlotEmpty
	}
	return SlotAllocated
}

// SlotInfo is a point-in-time view of a slot.
type SlotInfo struct {
	Index            int
	State            SlotState
	Producer         api.BufferProducer
	Buffer           *graphic.Buffer
	ProducerDetached bool
}

func (s *slot) info(index int) SlotInfo {
	si := SlotInfo{
		Index:            index,
		State:            s.status(),
		ProducerDetached: s.state.ProducerDetached(),
	}
	if s.alloc != nil {
		si.Producer = s.alloc.producer
		si.Buffer = s.alloc.buffer
	}
	return si
}
