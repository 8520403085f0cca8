package types

import "fmt"

// PixelFormat is the layout of a decoded picture in its hardware buffer.
type PixelFormat int

const (
	// PixelFormatYUV420SP is the semi-planar 4:2:0 layout (NV12): a luma plane
	// followed by one interleaved CbCr plane. It is the only layout the
	// zero-copy import path understands.
	PixelFormatYUV420SP         = PixelFormat(0x0)
	PixelFormatYUV420SP10Bit    = PixelFormat(0x1)
	PixelFormatYUV422SP         = PixelFormat(0x2)
	PixelFormatYUV422SP10Bit    = PixelFormat(0x3)
	PixelFormatYUV420P          = PixelFormat(0x4)
	PixelFormatYUV420SPVU       = PixelFormat(0x5)
	PixelFormatYUV444SP         = PixelFormat(0xa)
	PixelFormatYUV400           = PixelFormat(0xb)
	PixelFormatYUV420SPFBC      = PixelFormat(0x00100000)
	PixelFormatYUV420SP10BitFBC = PixelFormat(0x00100001)
)

func (f PixelFormat) String() string {
	switch f {
	case PixelFormatYUV420SP:
		return "yuv420sp"
	case PixelFormatYUV420SP10Bit:
		return "yuv420sp_10bit"
	case PixelFormatYUV422SP:
		return "yuv422sp"
	case PixelFormatYUV422SP10Bit:
		return "yuv422sp_10bit"
	case PixelFormatYUV420P:
		return "yuv420p"
	case PixelFormatYUV420SPVU:
		return "yuv420sp_vu"
	case PixelFormatYUV444SP:
		return "yuv444sp"
	case PixelFormatYUV400:
		return "yuv400"
	case PixelFormatYUV420SPFBC:
		return "yuv420sp_fbc"
	case PixelFormatYUV420SP10BitFBC:
		return "yuv420sp_10bit_fbc"
	}
	return fmt.Sprintf("unknown_0x%X", int(f))
}
