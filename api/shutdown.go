// File: api/shutdown.go
// Package api defines unified graceful shutdown contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// GracefulShutdown is implemented by components that hold buffers or services.
type GracefulShutdown interface {
	// Shutdown detaches every buffer and releases owned services.
	Shutdown() error
}
