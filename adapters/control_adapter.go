// Package adapters
// Author: momentics <momentics@gmail.com>
//
// Control adapter implementing api.Control over the control package primitives.

package adapters

import (
	"github.com/momentics/bufferhub-queue/api"
	"github.com/momentics/bufferhub-queue/control"
)

// ControlAdapter bundles configuration, metrics and debug probes.
type ControlAdapter struct {
	config  *control.ConfigStore
	metrics *control.MetricsRegistry
	debug   *control.DebugProbes
}

var _ api.Control = (*ControlAdapter)(nil)
var _ api.Debug = (*control.DebugProbes)(nil)

// NewControlAdapter creates an adapter with platform probes registered.
func NewControlAdapter() *ControlAdapter {
	adapter := &ControlAdapter{
		config:  control.NewConfigStore(),
		metrics: control.NewMetricsRegistry(),
		debug:   control.NewDebugProbes(),
	}
	control.RegisterPlatformProbes(adapter.debug)
	return adapter
}

func (c *ControlAdapter) ConfigStore() *control.ConfigStore { return c.config }
func (c *ControlAdapter) Metrics() *control.MetricsRegistry { return c.metrics }
func (c *ControlAdapter) Debug() *control.DebugProbes       { return c.debug }

func (c *ControlAdapter) GetConfig() map[string]any {
	return c.config.GetSnapshot()
}

// SetConfig merges cfg and runs reload listeners before returning.
func (c *ControlAdapter) SetConfig(cfg map[string]any) error {
	c.config.SetConfigSync(cfg)
	return nil
}

// Stats merges metrics with probe output; probe keys get a "debug." prefix.
func (c *ControlAdapter) Stats() map[string]any {
	stats := c.metrics.GetSnapshot()
	for k, v := range c.debug.DumpState() {
		stats["debug."+k] = v
	}
	return stats
}

func (c *ControlAdapter) OnReload(fn func()) {
	c.config.OnReload(fn)
}

func (c *ControlAdapter) RegisterDebugProbe(name string, fn func() any) {
	c.debug.RegisterProbe(name, fn)
}
