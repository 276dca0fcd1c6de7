// File: api/control.go
// Package api defines Control interface.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Control exposes queue configuration, counters and debug probes to operators.
type Control interface {
	GetConfig() map[string]any
	SetConfig(cfg map[string]any) error
	Stats() map[string]any
	OnReload(fn func())
	RegisterDebugProbe(name string, fn func() any)
}

// Debug exposes runtime introspection of live queues.
type Debug interface {
	// DumpState emits a snapshot of all registered probes.
	DumpState() map[string]any

	// RegisterProbe registers a named probe.
	RegisterProbe(name string, fn func() any)
}
