// backend.go defines the hardware decoder collaborator the Session drives.

package decoder

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/hwplayer/types"
)

type Codec int

const (
	CodecH264 = Codec(iota + 1)
)

func (c Codec) String() string {
	switch c {
	case CodecH264:
		return "H264"
	}
	return fmt.Sprintf("unknown_codec_%d", int(c))
}

// Backend is a stateful hardware decoder context.
//
// Implementations are not required to be safe for concurrent use: the
// Session calls them from a single goroutine.
type Backend interface {
	// Create allocates the decoder context.
	Create(ctx context.Context) error

	// SetSplitMode enables (or disables) parsing of the input into frames by
	// the decoder itself, so the caller may submit NAL units one by one.
	SetSplitMode(ctx context.Context, enabled bool) error

	// Init configures the context to decode the given codec.
	Init(ctx context.Context, codec Codec) error

	// InitPacket (re)binds the input packet object onto buf. The memory of
	// buf is referenced by the backend until the next InitPacket or Close.
	InitPacket(ctx context.Context, buf []byte) error

	// PutPacket submits data (a prefix of the buffer given to InitPacket).
	PutPacket(ctx context.Context, data []byte) error

	// GetFrame polls for a decoded frame; (nil, nil) means there is none yet.
	GetFrame(ctx context.Context) (RawFrame, error)

	// AttachBufferGroup binds a new DRM-backed output buffer pool.
	AttachBufferGroup(ctx context.Context) error

	// AckInfoChange tells the decoder the output pool is ready for the new format.
	AckInfoChange(ctx context.Context) error

	Close(ctx context.Context) error
}

// RawFrame is a frame as returned by the backend; it must be deinitialized
// exactly once.
type RawFrame interface {
	IsInfoChange() bool
	Info() FrameInfo
	Deinit()
}

// FrameInfo is everything the presentation needs to know about a decoded picture.
type FrameInfo struct {
	Width          uint32
	Height         uint32
	HorStride      uint32
	VerStride      uint32
	OffsetX        uint32
	OffsetY        uint32
	PixelFormat    types.PixelFormat
	ColorSpace     types.ColorSpace
	ColorRange     types.ColorRange
	ColorPrimaries types.ColorPrimaries

	// Buffer is zero if the frame carries no output buffer.
	Buffer types.BufferHandle

	// FD is the dma-buf file descriptor backing Buffer.
	FD int
}

func (i FrameInfo) String() string {
	return fmt.Sprintf(
		"%dx%d (stride %dx%d, offset %d,%d) %s %s/%s/%s %s fd:%d",
		i.Width, i.Height,
		i.HorStride, i.VerStride,
		i.OffsetX, i.OffsetY,
		i.PixelFormat,
		i.ColorSpace, i.ColorRange, i.ColorPrimaries,
		i.Buffer, i.FD,
	)
}
