// Package hub
// Author: momentics <momentics@gmail.com>
//
// In-process buffer allocation service.
//
// ProducerQueue implements api.ProducerQueue: it owns slot assignment, backs
// each buffer with memory (memfd + mmap on Linux, pooled heap memory elsewhere)
// and reserves one fixed-size metadata record behind the pixel data of every
// buffer. It is safe for concurrent use so one service can be shared by
// several queue cores.
package hub
