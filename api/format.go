// File: api/format.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Pixel formats and usage flags understood by the allocation service.

package api

import "fmt"

// PixelFormat identifies the memory layout of one pixel.
type PixelFormat int32

const (
	PixelFormatUnknown  PixelFormat = 0
	PixelFormatRGBA8888 PixelFormat = 1
	PixelFormatRGBX8888 PixelFormat = 2
	PixelFormatRGB888   PixelFormat = 3
	PixelFormatRGB565   PixelFormat = 4
	PixelFormatBGRA8888 PixelFormat = 5
	PixelFormatRGBAFP16 PixelFormat = 0x16
	PixelFormatBlob     PixelFormat = 0x21
)

// BytesPerPixel returns the storage size of one pixel, or 0 for unknown formats.
// Blob buffers are byte addressed.
func (f PixelFormat) BytesPerPixel() int {
	switch f {
	case PixelFormatRGBA8888, PixelFormatRGBX8888, PixelFormatBGRA8888:
		return 4
	case PixelFormatRGB888:
		return 3
	case PixelFormatRGB565:
		return 2
	case PixelFormatRGBAFP16:
		return 8
	case PixelFormatBlob:
		return 1
	default:
		return 0
	}
}

// Valid reports whether f is a known format.
func (f PixelFormat) Valid() bool { return f.BytesPerPixel() > 0 }

func (f PixelFormat) String() string {
	switch f {
	case PixelFormatRGBA8888:
		return "RGBA_8888"
	case PixelFormatRGBX8888:
		return "RGBX_8888"
	case PixelFormatRGB888:
		return "RGB_888"
	case PixelFormatRGB565:
		return "RGB_565"
	case PixelFormatBGRA8888:
		return "BGRA_8888"
	case PixelFormatRGBAFP16:
		return "RGBA_FP16"
	case PixelFormatBlob:
		return "BLOB"
	default:
		return fmt.Sprintf("PixelFormat(%d)", int32(f))
	}
}

// Usage is a bit set describing how a buffer will be accessed.
type Usage uint64

const (
	UsageCPUReadRarely   Usage = 0x2
	UsageCPUReadOften    Usage = 0x3
	UsageCPUWriteRarely  Usage = 0x20
	UsageCPUWriteOften   Usage = 0x30
	UsageGPURead         Usage = 0x100 // sampled as a texture
	UsageGPUWrite        Usage = 0x200 // bound as a render target
	UsageComposerOverlay Usage = 0x800
	UsageVideoEncoder    Usage = 0x10000
	UsageGPUDataBuffer   Usage = 0x1000000

	usageCPUMask Usage = 0xf | 0xf0
)

// CPUAccess reports whether the buffer must be mappable by the CPU.
func (u Usage) CPUAccess() bool { return u&usageCPUMask != 0 }

// Has reports whether every bit of flag is set.
func (u Usage) Has(flag Usage) bool { return u&flag == flag }
