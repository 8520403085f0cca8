//go:build linux

// library.go binds librockchip_mpp with purego.

package rkmpp

import (
	"fmt"
	"os"
	"sync"

	"github.com/ebitengine/purego"
)

const (
	envLibraryPath = "HWPLAYER_MPP_LIB_PATH"
)

// mppAPI mirrors MppApi (rk_mpi.h) up to the callbacks used here.
type mppAPI struct {
	Size            uint32
	Version         uint32
	Decode          uintptr
	DecodePutPacket uintptr
	DecodeGetFrame  uintptr
	Encode          uintptr
	EncodePutFrame  uintptr
	EncodeGetPacket uintptr
	ISP             uintptr
	ISPPutFrame     uintptr
	ISPGetFrame     uintptr
	Poll            uintptr
	Dequeue         uintptr
	Enqueue         uintptr
	Reset           uintptr
	Control         uintptr
}

type library struct {
	handle uintptr

	mppCreate  func(ctx *uintptr, api **mppAPI) int32
	mppInit    func(ctx uintptr, ctxType int32, coding int32) int32
	mppDestroy func(ctx uintptr) int32

	mppPacketInit      func(packet *uintptr, data *byte, size uintptr) int32
	mppPacketDeinit    func(packet *uintptr) int32
	mppPacketSetPos    func(packet uintptr, pos *byte)
	mppPacketSetLength func(packet uintptr, size uintptr)

	mppBufferGroupGet func(group *uintptr, bufType int32, mode int32, tag string, caller string) int32
	mppBufferGroupPut func(group uintptr) int32
	mppBufferGetFD    func(buffer uintptr, caller string) int32

	mppFrameGetInfoChange     func(frame uintptr) uint32
	mppFrameGetBuffer         func(frame uintptr) uintptr
	mppFrameGetFmt            func(frame uintptr) int32
	mppFrameGetColorSpace     func(frame uintptr) int32
	mppFrameGetColorRange     func(frame uintptr) int32
	mppFrameGetColorPrimaries func(frame uintptr) int32
	mppFrameGetWidth          func(frame uintptr) uint32
	mppFrameGetHeight         func(frame uintptr) uint32
	mppFrameGetOffsetX        func(frame uintptr) uint32
	mppFrameGetOffsetY        func(frame uintptr) uint32
	mppFrameGetHorStride      func(frame uintptr) uint32
	mppFrameGetVerStride      func(frame uintptr) uint32
	mppFrameDeinit            func(frame *uintptr) int32
}

var (
	libraryOnce    sync.Once
	libraryLoaded  *library
	libraryLoadErr error
)

func libraryPaths(override string) []string {
	var paths []string
	if override != "" {
		paths = append(paths, override)
	}
	if envPath := os.Getenv(envLibraryPath); envPath != "" {
		paths = append(paths, envPath)
	}
	return append(paths,
		"librockchip_mpp.so.1",
		"librockchip_mpp.so",
		"/usr/lib/aarch64-linux-gnu/librockchip_mpp.so.1",
		"/usr/lib/librockchip_mpp.so.1",
		"/usr/local/lib/librockchip_mpp.so.1",
	)
}

// loadLibrary loads the library once per process; later calls return the
// result of the first one.
func loadLibrary(override string) (*library, error) {
	libraryOnce.Do(func() {
		paths := libraryPaths(override)
		var lastErr error
		for _, path := range paths {
			handle, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
			if err != nil {
				lastErr = err
				continue
			}
			lib, err := registerSymbols(handle)
			if err != nil {
				purego.Dlclose(handle)
				lastErr = err
				continue
			}
			libraryLoaded = lib
			return
		}
		libraryLoadErr = ErrLibrary{Paths: paths, Err: lastErr}
	})
	return libraryLoaded, libraryLoadErr
}

func registerSymbols(handle uintptr) (_ret *library, _err error) {
	// RegisterLibFunc panics on a missing symbol
	defer func() {
		if r := recover(); r != nil {
			_err = fmt.Errorf("unable to register the MPP symbols: %v", r)
		}
	}()

	lib := &library{handle: handle}
	purego.RegisterLibFunc(&lib.mppCreate, handle, "mpp_create")
	purego.RegisterLibFunc(&lib.mppInit, handle, "mpp_init")
	purego.RegisterLibFunc(&lib.mppDestroy, handle, "mpp_destroy")

	purego.RegisterLibFunc(&lib.mppPacketInit, handle, "mpp_packet_init")
	purego.RegisterLibFunc(&lib.mppPacketDeinit, handle, "mpp_packet_deinit")
	purego.RegisterLibFunc(&lib.mppPacketSetPos, handle, "mpp_packet_set_pos")
	purego.RegisterLibFunc(&lib.mppPacketSetLength, handle, "mpp_packet_set_length")

	purego.RegisterLibFunc(&lib.mppBufferGroupGet, handle, "mpp_buffer_group_get")
	purego.RegisterLibFunc(&lib.mppBufferGroupPut, handle, "mpp_buffer_group_put")
	purego.RegisterLibFunc(&lib.mppBufferGetFD, handle, "mpp_buffer_get_fd_with_caller")

	purego.RegisterLibFunc(&lib.mppFrameGetInfoChange, handle, "mpp_frame_get_info_change")
	purego.RegisterLibFunc(&lib.mppFrameGetBuffer, handle, "mpp_frame_get_buffer")
	purego.RegisterLibFunc(&lib.mppFrameGetFmt, handle, "mpp_frame_get_fmt")
	purego.RegisterLibFunc(&lib.mppFrameGetColorSpace, handle, "mpp_frame_get_colorspace")
	purego.RegisterLibFunc(&lib.mppFrameGetColorRange, handle, "mpp_frame_get_color_range")
	purego.RegisterLibFunc(&lib.mppFrameGetColorPrimaries, handle, "mpp_frame_get_color_primaries")
	purego.RegisterLibFunc(&lib.mppFrameGetWidth, handle, "mpp_frame_get_width")
	purego.RegisterLibFunc(&lib.mppFrameGetHeight, handle, "mpp_frame_get_height")
	purego.RegisterLibFunc(&lib.mppFrameGetOffsetX, handle, "mpp_frame_get_offset_x")
	purego.RegisterLibFunc(&lib.mppFrameGetOffsetY, handle, "mpp_frame_get_offset_y")
	purego.RegisterLibFunc(&lib.mppFrameGetHorStride, handle, "mpp_frame_get_hor_stride")
	purego.RegisterLibFunc(&lib.mppFrameGetVerStride, handle, "mpp_frame_get_ver_stride")
	purego.RegisterLibFunc(&lib.mppFrameDeinit, handle, "mpp_frame_deinit")
	return lib, nil
}
