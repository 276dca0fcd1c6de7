// control/config.go
// Author: momentics <momentics@gmail.com>
//
// Thread-safe configuration store with dynamic update and hot-reload propagation.

package control

import (
	"sync"
	"time"
)

// Well-known configuration keys.
const (
	// KeyDequeueTimeout holds a time.Duration, or a negative value for "no timeout".
	KeyDequeueTimeout = "queue.dequeue_timeout"
	// KeyGenerationNumber holds the buffer generation applied to attached cores.
	KeyGenerationNumber = "queue.generation"
)

// ConfigStore is a dynamic key/value map with atomic snapshot and listener support.
type ConfigStore struct {
	mu        sync.RWMutex
	config    map[string]any
	listeners []func()
}

// NewConfigStore initializes a new config store with empty data.
func NewConfigStore() *ConfigStore {
	return &ConfigStore{
		config: make(map[string]any),
	}
}

// GetSnapshot returns a copy of all config values.
func (cs *ConfigStore) GetSnapshot() map[string]any {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	out := make(map[string]any, len(cs.config))
	for k, v := range cs.config {
		out[k] = v
	}
	return out
}

// Get returns the raw value stored under key.
func (cs *ConfigStore) Get(key string) (any, bool) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	v, ok := cs.config[key]
	return v, ok
}

// Duration reads key as a duration. Integers are taken as milliseconds.
func (cs *ConfigStore) Duration(key string) (time.Duration, bool) {
	v, ok := cs.Get(key)
	if !ok {
		return 0, false
	}
	switch d := v.(type) {
	case time.Duration:
		return d, true
	case int:
		return time.Duration(d) * time.Millisecond, true
	case int64:
		return time.Duration(d) * time.Millisecond, true
	case string:
		parsed, err := time.ParseDuration(d)
		return parsed, err == nil
	}
	return 0, false
}

// Uint32 reads key as an unsigned 32-bit value.
func (cs *ConfigStore) Uint32(key string) (uint32, bool) {
	v, ok := cs.Get(key)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case uint32:
		return n, true
	case int:
		if n >= 0 {
			return uint32(n), true
		}
	}
	return 0, false
}

// SetConfig merges new values and notifies listeners on their own goroutines.
func (cs *ConfigStore) SetConfig(newCfg map[string]any) {
	for _, fn := range cs.merge(newCfg) {
		go fn()
	}
}

// SetConfigSync merges new values and runs listeners before returning.
func (cs *ConfigStore) SetConfigSync(newCfg map[string]any) {
	for _, fn := range cs.merge(newCfg) {
		fn()
	}
}

// OnReload registers a listener hook called on config changes.
func (cs *ConfigStore) OnReload(fn func()) {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.listeners = append(cs.listeners, fn)
}

func (cs *ConfigStore) merge(newCfg map[string]any) []func() {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	for k, v := range newCfg {
		cs.config[k] = v
	}
	return append([]func(){}, cs.listeners...)
}
