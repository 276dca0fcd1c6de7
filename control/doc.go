// Package control
// Author: momentics <momentics@gmail.com>
//
// Configuration, metrics and debug introspection for buffer queues.
//
// Provides concurrent-safe state handling primitives including:
//   - Snapshot config reads and merged updates with reload listeners
//   - Counters fed by queue cores on allocate/detach
//   - Probe registration for slot-table dumps
package control
