// File: api/metadata.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Fixed-layout metadata record stored next to every buffer. Both sides of the
// process boundary read it from shared memory, so its size is part of the
// contract between the queue core and the allocation service.

package api

import (
	"encoding/binary"

	"github.com/cockroachdb/errors"
)

// Rect is a crop rectangle in pixels.
type Rect struct {
	Left, Top, Right, Bottom int32
}

// Metadata flags.
const (
	MetadataFlagAutoTimestamp uint32 = 1 << iota
)

// BufferMetadata is the per-buffer record. Field order defines the wire layout.
type BufferMetadata struct {
	Timestamp   int64
	FrameNumber uint64
	Dataspace   int32
	Crop        Rect
	ScalingMode int32
	Transform   uint32
	Flags       uint32
}

// BufferMetadataSize is the encoded size of BufferMetadata.
const BufferMetadataSize = 48

// AutoTimestamp reports whether the timestamp was filled in by the queue.
func (m *BufferMetadata) AutoTimestamp() bool { return m.Flags&MetadataFlagAutoTimestamp != 0 }

// MarshalBinary encodes m in little-endian order.
func (m *BufferMetadata) MarshalBinary() ([]byte, error) {
	return binary.Append(make([]byte, 0, BufferMetadataSize), binary.LittleEndian, m)
}

// UnmarshalBinary decodes a record produced by MarshalBinary.
func (m *BufferMetadata) UnmarshalBinary(data []byte) error {
	if len(data) < BufferMetadataSize {
		return errors.Newf("metadata record too short: %d < %d", len(data), BufferMetadataSize)
	}
	_, err := binary.Decode(data[:BufferMetadataSize], binary.LittleEndian, m)
	return err
}
