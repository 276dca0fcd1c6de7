// File: core/hubqueue/fatal.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package hubqueue

import "github.com/cockroachdb/errors"

// fatalf reports a broken protocol invariant. It never returns; left
// unrecovered the panic terminates the process.
func (c *Core) fatalf(format string, args ...any) {
	err := errors.AssertionFailedf(format, args...)
	c.logger.Error("fatal protocol violation", "err", err)
	panic(err)
}

// IsFatal reports whether v, a value recovered from a panic, is a protocol
// violation raised by a Core.
func IsFatal(v any) bool {
	err, ok := v.(error)
	return ok && errors.HasAssertionFailure(err)
}
