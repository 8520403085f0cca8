//go:build linux

// backend.go implements decoder.Backend on top of the Rockchip Media Process Platform.

// Package rkmpp drives the Rockchip MPP hardware video decoder through
// librockchip_mpp, loaded at runtime (no cgo).
package rkmpp

import (
	"context"
	"fmt"

	"github.com/ebitengine/purego"
	"github.com/xaionaro-go/hwplayer/decoder"
	"github.com/xaionaro-go/hwplayer/logger"
	"github.com/xaionaro-go/hwplayer/types"
)

type Config struct {
	// LibraryPath is tried before the default locations.
	LibraryPath string
}

type Backend struct {
	lib *library

	mppCtx uintptr
	api    *mppAPI

	decodePutPacket func(ctx uintptr, packet uintptr) int32
	decodeGetFrame  func(ctx uintptr, frame *uintptr) int32
	control         func(ctx uintptr, cmd uint32, param uintptr) int32
	controlU32      func(ctx uintptr, cmd uint32, param *uint32) int32

	packet       uintptr
	packetBuffer []byte
	bufferGroup  uintptr
}

var _ decoder.Backend = (*Backend)(nil)

// New loads the MPP library; the decoder context itself is created by Create.
func New(ctx context.Context, cfg Config) (*Backend, error) {
	lib, err := loadLibrary(cfg.LibraryPath)
	if err != nil {
		return nil, err
	}
	logger.Debugf(ctx, "the MPP library is loaded")
	return &Backend{lib: lib}, nil
}

func (b *Backend) String() string {
	return "RockchipMPP"
}

func (b *Backend) Create(ctx context.Context) error {
	if err := check("mpp_create", b.lib.mppCreate(&b.mppCtx, &b.api)); err != nil {
		return err
	}
	if b.api == nil || b.api.DecodePutPacket == 0 || b.api.DecodeGetFrame == 0 || b.api.Control == 0 {
		return fmt.Errorf("mpp_create returned an incomplete API table")
	}
	purego.RegisterFunc(&b.decodePutPacket, b.api.DecodePutPacket)
	purego.RegisterFunc(&b.decodeGetFrame, b.api.DecodeGetFrame)
	purego.RegisterFunc(&b.control, b.api.Control)
	purego.RegisterFunc(&b.controlU32, b.api.Control)
	logger.Debugf(ctx, "created an MPP context (API v%d)", b.api.Version)
	return nil
}

func (b *Backend) SetSplitMode(ctx context.Context, enabled bool) error {
	var needSplit uint32
	if enabled {
		needSplit = 1
	}
	return check("control(MPP_DEC_SET_PARSER_SPLIT_MODE)", b.controlU32(b.mppCtx, mppDecSetParserSplitMode, &needSplit))
}

func (b *Backend) Init(ctx context.Context, codec decoder.Codec) error {
	if codec != decoder.CodecH264 {
		return fmt.Errorf("codec %s is not supported", codec)
	}
	return check("mpp_init", b.lib.mppInit(b.mppCtx, mppCtxDec, mppVideoCodingAVC))
}

func (b *Backend) InitPacket(ctx context.Context, buf []byte) error {
	if len(buf) == 0 {
		return fmt.Errorf("the packet buffer is empty")
	}
	if b.packet != 0 {
		if err := check("mpp_packet_deinit", b.lib.mppPacketDeinit(&b.packet)); err != nil {
			return err
		}
		b.packet = 0
	}
	if err := check("mpp_packet_init", b.lib.mppPacketInit(&b.packet, &buf[0], uintptr(len(buf)))); err != nil {
		return err
	}
	// MPP keeps pointing into buf, so it must stay reachable
	b.packetBuffer = buf
	return nil
}

func (b *Backend) PutPacket(ctx context.Context, data []byte) error {
	if len(data) == 0 || len(data) > len(b.packetBuffer) || &data[0] != &b.packetBuffer[0] {
		return fmt.Errorf("the data is not at the beginning of the packet buffer")
	}
	b.lib.mppPacketSetPos(b.packet, &b.packetBuffer[0])
	b.lib.mppPacketSetLength(b.packet, uintptr(len(data)))
	return check("decode_put_packet", b.decodePutPacket(b.mppCtx, b.packet))
}

func (b *Backend) GetFrame(ctx context.Context) (decoder.RawFrame, error) {
	var frame uintptr
	if err := check("decode_get_frame", b.decodeGetFrame(b.mppCtx, &frame)); err != nil {
		return nil, err
	}
	if frame == 0 {
		return nil, nil
	}
	return &rawFrame{lib: b.lib, frame: frame}, nil
}

func (b *Backend) AttachBufferGroup(ctx context.Context) error {
	var group uintptr
	if err := check("mpp_buffer_group_get", b.lib.mppBufferGroupGet(&group, mppBufferTypeDRM, mppBufferInternal, callerName, callerName)); err != nil {
		return err
	}
	if err := check("control(MPP_DEC_SET_EXT_BUF_GROUP)", b.control(b.mppCtx, mppDecSetExtBufGroup, group)); err != nil {
		b.putBufferGroup(ctx, group)
		return err
	}
	if b.bufferGroup != 0 {
		b.putBufferGroup(ctx, b.bufferGroup)
	}
	b.bufferGroup = group
	return nil
}

func (b *Backend) putBufferGroup(ctx context.Context, group uintptr) {
	if err := check("mpp_buffer_group_put", b.lib.mppBufferGroupPut(group)); err != nil {
		logger.Errorf(ctx, "%v", err)
	}
}

func (b *Backend) AckInfoChange(ctx context.Context) error {
	return check("control(MPP_DEC_SET_INFO_CHANGE_READY)", b.control(b.mppCtx, mppDecSetInfoChangeReady, 0))
}

func (b *Backend) Close(ctx context.Context) error {
	logger.Debugf(ctx, "Close")
	var result error
	if b.mppCtx != 0 {
		if err := check("mpp_destroy", b.lib.mppDestroy(b.mppCtx)); err != nil {
			result = err
		}
		b.mppCtx = 0
	}
	if b.bufferGroup != 0 {
		b.putBufferGroup(ctx, b.bufferGroup)
		b.bufferGroup = 0
	}
	if b.packet != 0 {
		if err := check("mpp_packet_deinit", b.lib.mppPacketDeinit(&b.packet)); err != nil && result == nil {
			result = err
		}
		b.packet = 0
	}
	b.packetBuffer = nil
	return result
}

type rawFrame struct {
	lib   *library
	frame uintptr
}

var _ decoder.RawFrame = (*rawFrame)(nil)

func (f *rawFrame) IsInfoChange() bool {
	return f.lib.mppFrameGetInfoChange(f.frame) != 0
}

func (f *rawFrame) Info() decoder.FrameInfo {
	info := decoder.FrameInfo{
		Width:          f.lib.mppFrameGetWidth(f.frame),
		Height:         f.lib.mppFrameGetHeight(f.frame),
		HorStride:      f.lib.mppFrameGetHorStride(f.frame),
		VerStride:      f.lib.mppFrameGetVerStride(f.frame),
		OffsetX:        f.lib.mppFrameGetOffsetX(f.frame),
		OffsetY:        f.lib.mppFrameGetOffsetY(f.frame),
		PixelFormat:    types.PixelFormat(f.lib.mppFrameGetFmt(f.frame)),
		ColorSpace:     types.ColorSpace(f.lib.mppFrameGetColorSpace(f.frame)),
		ColorRange:     types.ColorRange(f.lib.mppFrameGetColorRange(f.frame)),
		ColorPrimaries: types.ColorPrimaries(f.lib.mppFrameGetColorPrimaries(f.frame)),
		FD:             -1,
	}
	if buf := f.lib.mppFrameGetBuffer(f.frame); buf != 0 {
		info.Buffer = types.BufferHandle(buf)
		info.FD = int(f.lib.mppBufferGetFD(buf, callerName))
	}
	return info
}

func (f *rawFrame) Deinit() {
	if f.frame == 0 {
		return
	}
	f.lib.mppFrameDeinit(&f.frame)
	f.frame = 0
}
