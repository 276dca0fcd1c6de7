// File: core/hubqueue/observe.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Counters, config binding, debug probes and the JSON slot dump.

package hubqueue

import (
	"fmt"
	"strconv"
	"sync/atomic"

	"github.com/launchdarkly/go-jsonstream/v3/jwriter"

	"github.com/momentics/bufferhub-queue/control"
)

// Stats summarises a Core's slot table and lifetime counters.
type Stats struct {
	Capacity       int
	Allocated      int
	Allocations    uint64
	Detaches       uint64
	AllocFailures  uint64
	DetachFailures uint64
}

// Stats returns current counters. Slot occupancy is read without
// synchronisation and must come from the owning goroutine.
func (c *Core) Stats() Stats {
	return Stats{
		Capacity:       len(c.slots),
		Allocated:      len(c.AllocatedSlots()),
		Allocations:    c.stats.allocations.Load(),
		Detaches:       c.stats.detaches.Load(),
		AllocFailures:  c.stats.allocFailures.Load(),
		DetachFailures: c.stats.detachFailures.Load(),
	}
}

func (c *Core) metricKey(name string) string {
	return fmt.Sprintf("hubqueue.%d.%s", c.uniqueID, name)
}

func (c *Core) record(n *atomic.Uint64, name string) {
	n.Add(1)
	if c.metrics != nil {
		c.metrics.Add(c.metricKey(name), 1)
	}
}

// WatchConfig applies the dequeue timeout and generation number from cs now
// and on every reload.
func (c *Core) WatchConfig(cs *control.ConfigStore) {
	apply := func() {
		if d, ok := cs.Duration(control.KeyDequeueTimeout); ok {
			c.SetDequeueTimeout(d)
		}
		if g, ok := cs.Uint32(control.KeyGenerationNumber); ok {
			c.SetGenerationNumber(g)
		}
	}
	apply()
	cs.OnReload(apply)
}

// RegisterProbes exposes the Core's counters under its unique id.
func (c *Core) RegisterProbes(dp *control.DebugProbes) {
	dp.RegisterProbe(c.metricKey("stats"), func() any {
		return Stats{
			Capacity:       len(c.slots),
			Allocations:    c.stats.allocations.Load(),
			Detaches:       c.stats.detaches.Load(),
			AllocFailures:  c.stats.allocFailures.Load(),
			DetachFailures: c.stats.detachFailures.Load(),
		}
	})
}

// DumpJSON renders identity and every non-pristine slot as JSON.
func (c *Core) DumpJSON() ([]byte, error) {
	w := jwriter.NewWriter()
	obj := w.Object()
	obj.Name("unique_id").String(strconv.FormatUint(c.uniqueID, 10))
	obj.Name("generation").Int(int(c.GenerationNumber()))
	timeout := int(c.DequeueTimeout().Milliseconds())
	if c.DequeueTimeout() == NoTimeout {
		timeout = -1
	}
	obj.Name("dequeue_timeout_ms").Int(timeout)
	obj.Name("capacity").Int(len(c.slots))

	slots := obj.Name("slots").Object()
	for i := range c.slots {
		s := &c.slots[i]
		if s.empty() && !s.state.ProducerDetached() {
			continue
		}
		so := slots.Name(strconv.Itoa(i)).Object()
		so.Name("state").String(s.status().String())
		so.Name("producer_detached").Bool(s.state.ProducerDetached())
		if s.alloc != nil {
			b := s.alloc.buffer
			so.Name("width").Int(int(b.Width()))
			so.Name("height").Int(int(b.Height()))
			so.Name("format").String(b.Format().String())
			so.Name("stride").Int(int(b.Stride()))
			so.Name("usage").String("0x" + strconv.FormatUint(uint64(b.Usage()), 16))
		}
		so.End()
	}
	slots.End()
	obj.End()
	return w.Bytes(), w.Error()
}
