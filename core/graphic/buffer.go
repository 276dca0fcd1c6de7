// File: core/graphic/buffer.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Local wrapper over buffer memory produced by an allocation service.
// A Buffer describes geometry, format and the native handle of the memory so
// in-process consumers can render into or sample from it.

package graphic

import (
	"github.com/cockroachdb/errors"

	"github.com/momentics/bufferhub-queue/api"
)

// Buffer is a local descriptor of a native graphics buffer.
type Buffer struct {
	width      uint32
	height     uint32
	format     api.PixelFormat
	layerCount uint32
	usage      api.Usage
	stride     uint32
	handle     *api.NativeHandle
	ownsHandle bool

	initErr  error
	released bool
}

// New wraps an existing native handle. When keepOwnership is true the Buffer
// closes the handle's descriptors on Release; otherwise the caller keeps them.
// Validation problems are recorded and reported by InitCheck.
func New(width, height uint32, format api.PixelFormat, layerCount uint32,
	usage api.Usage, stride uint32, handle *api.NativeHandle, keepOwnership bool) *Buffer {
	b := &Buffer{
		width:      width,
		height:     height,
		format:     format,
		layerCount: layerCount,
		usage:      usage,
		stride:     stride,
		handle:     handle,
		ownsHandle: keepOwnership,
	}
	b.initErr = b.validate()
	return b
}

func (b *Buffer) validate() error {
	switch {
	case b.width == 0 || b.height == 0:
		return errors.Newf("invalid dimensions %dx%d", b.width, b.height)
	case !b.format.Valid():
		return errors.Newf("unsupported pixel format %s", b.format)
	case b.layerCount == 0:
		return errors.New("layer count must be at least 1")
	case b.stride < b.width:
		return errors.Newf("stride %d is smaller than width %d", b.stride, b.width)
	case !b.handle.Valid():
		return errors.New("missing native handle")
	}
	return nil
}

// InitCheck reports whether construction produced a usable buffer.
func (b *Buffer) InitCheck() error { return b.initErr }

func (b *Buffer) Width() uint32           { return b.width }
func (b *Buffer) Height() uint32          { return b.height }
func (b *Buffer) Format() api.PixelFormat { return b.format }
func (b *Buffer) LayerCount() uint32      { return b.layerCount }
func (b *Buffer) Usage() api.Usage        { return b.usage }
func (b *Buffer) Stride() uint32          { return b.stride }
func (b *Buffer) OwnsHandle() bool        { return b.ownsHandle }

// Handle returns the native handle. It is nil after Release.
func (b *Buffer) Handle() *api.NativeHandle { return b.handle }

// Size is the number of bytes covered by all layers.
func (b *Buffer) Size() int {
	return int(b.stride) * int(b.height) * b.format.BytesPerPixel() * int(b.layerCount)
}

// Release drops the handle, closing its descriptors if the buffer owns them.
// Calling Release twice is a no-op.
func (b *Buffer) Release() error {
	if b.released {
		return nil
	}
	b.released = true
	h := b.handle
	b.handle = nil
	if !b.ownsHandle || h == nil {
		return nil
	}
	var errs error
	for _, fd := range h.FDs {
		errs = errors.CombineErrors(errs, closeFD(fd))
	}
	return errs
}
