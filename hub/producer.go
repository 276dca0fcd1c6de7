// File: hub/producer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package hub

import (
	"github.com/cockroachdb/errors"

	"github.com/momentics/bufferhub-queue/api"
)

// Producer is the service-side record of one allocated buffer.
// It implements api.BufferProducer.
type Producer struct {
	slot       int
	width      uint32
	height     uint32
	format     api.PixelFormat
	usage      api.Usage
	stride     uint32
	sliceCount int

	region   *Region
	pixels   []byte
	metadata []byte
}

var _ api.BufferProducer = (*Producer)(nil)

func (p *Producer) Slot() int               { return p.slot }
func (p *Producer) Width() uint32           { return p.width }
func (p *Producer) Height() uint32          { return p.height }
func (p *Producer) Format() api.PixelFormat { return p.format }
func (p *Producer) Usage() api.Usage        { return p.usage }
func (p *Producer) Stride() uint32          { return p.stride }
func (p *Producer) SliceCount() int         { return p.sliceCount }

// Handle returns the native handle of the backing memory, nil once detached.
func (p *Producer) Handle() *api.NativeHandle {
	if p.region == nil {
		return nil
	}
	return p.region.Handle
}

// Pixels returns the pixel storage of all slices, nil once detached.
func (p *Producer) Pixels() []byte { return p.pixels }

// Metadata returns the raw metadata record, nil once detached.
func (p *Producer) Metadata() []byte { return p.metadata }

// WriteMetadata encodes m into the buffer's metadata record.
func (p *Producer) WriteMetadata(m *api.BufferMetadata) error {
	if p.metadata == nil {
		return errors.Wrapf(api.StatusNoEntry, "slot %d is detached", p.slot)
	}
	raw, err := m.MarshalBinary()
	if err != nil {
		return err
	}
	if len(raw) > len(p.metadata) {
		return errors.Wrapf(api.StatusInvalidArgument,
			"metadata record of %d bytes does not fit %d", len(raw), len(p.metadata))
	}
	copy(p.metadata, raw)
	return nil
}

// ReadMetadata decodes the buffer's metadata record.
func (p *Producer) ReadMetadata() (api.BufferMetadata, error) {
	var m api.BufferMetadata
	if p.metadata == nil {
		return m, errors.Wrapf(api.StatusNoEntry, "slot %d is detached", p.slot)
	}
	err := m.UnmarshalBinary(p.metadata)
	return m, err
}

func (p *Producer) release() error {
	if p.region == nil {
		return nil
	}
	r := p.region
	p.region, p.pixels, p.metadata = nil, nil, nil
	return r.Free()
}
