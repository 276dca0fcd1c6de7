// Package idgen hands out process-unique identifiers for queue cores.
//
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
package idgen

import (
	"sync"
	"sync/atomic"

	"golang.org/x/sys/cpu"
)

// Counter is a monotonically increasing id source safe for concurrent use.
// The value sits on its own cache line; every core construction touches it.
type Counter struct {
	_    cpu.CacheLinePad
	next atomic.Uint64
	_    cpu.CacheLinePad
}

// Next returns the next id. Ids start at 1 so the zero value means "unassigned".
func (c *Counter) Next() uint64 {
	return c.next.Add(1)
}

// Last returns the most recently issued id, or 0.
func (c *Counter) Last() uint64 {
	return c.next.Load()
}

var (
	once   sync.Once
	shared *Counter
)

// Default returns the process-wide counter, creating it on first use.
func Default() *Counter {
	once.Do(func() {
		shared = &Counter{}
	})
	return shared
}

// Next draws from the process-wide counter.
func Next() uint64 {
	return Default().Next()
}
