// Package hubqueue
// Author: momentics <momentics@gmail.com>
//
// Local slot bookkeeping for a cross-process buffer queue.
//
// A Core mirrors, per slot, the buffer a remote allocation service
// (api.ProducerQueue) placed there: the service's producer proxy and a local
// graphic.Buffer over the same memory. The service assigns slot indices; the
// Core only records them and keeps its table consistent with what the service
// has confirmed.
//
// Failures of the service are returned as errors. Broken invariants, such as a
// service handing out a slot that is still occupied locally, are not
// recoverable and panic with an assertion failure.
//
// A Core is not safe for concurrent use; it belongs to one goroutine.
package hubqueue
