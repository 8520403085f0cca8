package rkmpp

import (
	"fmt"
)

// rk_mpi_cmd.h
const (
	mppDecSetFrameInfo         = uint32(0x310001)
	mppDecSetExtBufGroup       = uint32(0x310002)
	mppDecSetInfoChangeReady   = uint32(0x310003)
	mppDecSetPresentTimeOrder  = uint32(0x310004)
	mppDecSetParserSplitMode   = uint32(0x310005)
	mppDecSetParserFastMode    = uint32(0x310006)
	mppDecSetImmediateOut      = uint32(0x310010)
	mppDecSetDisableErrorStuff = uint32(0x310015)
)

// rk_type.h
const (
	mppCtxDec = int32(0)

	mppVideoCodingAVC = int32(7)
)

// mpp_buffer.h
const (
	mppBufferTypeDRM  = int32(3)
	mppBufferInternal = int32(0)
)

const (
	callerName = "hwplayer"
)

// mpp_err.h
const (
	mppOK               = int32(0)
	mppNOK              = int32(-1)
	mppErrUnknown       = int32(-2)
	mppErrNullPtr       = int32(-3)
	mppErrMalloc        = int32(-4)
	mppErrOpenFile      = int32(-5)
	mppErrValue         = int32(-6)
	mppErrReadBit       = int32(-7)
	mppErrTimeout       = int32(-8)
	mppErrPerm          = int32(-9)
	mppErrListStream    = int32(-1001)
	mppErrInit          = int32(-1002)
	mppErrVPUCodecInit  = int32(-1003)
	mppErrStream        = int32(-1004)
	mppErrFatalThread   = int32(-1005)
	mppErrNoMem         = int32(-1006)
	mppErrProtocol      = int32(-1007)
	mppFailSplitFrame   = int32(-1008)
	mppErrVPUHW         = int32(-1009)
	mppEOSStreamReached = int32(-1011)
	mppErrBufferFull    = int32(-1012)
	mppErrDisplayFull   = int32(-1013)
)

func mppErrorName(code int32) string {
	switch code {
	case mppOK:
		return "MPP_OK"
	case mppNOK:
		return "MPP_NOK"
	case mppErrUnknown:
		return "MPP_ERR_UNKNOW"
	case mppErrNullPtr:
		return "MPP_ERR_NULL_PTR"
	case mppErrMalloc:
		return "MPP_ERR_MALLOC"
	case mppErrOpenFile:
		return "MPP_ERR_OPEN_FILE"
	case mppErrValue:
		return "MPP_ERR_VALUE"
	case mppErrReadBit:
		return "MPP_ERR_READ_BIT"
	case mppErrTimeout:
		return "MPP_ERR_TIMEOUT"
	case mppErrPerm:
		return "MPP_ERR_PERM"
	case mppErrListStream:
		return "MPP_ERR_LIST_STREAM"
	case mppErrInit:
		return "MPP_ERR_INIT"
	case mppErrVPUCodecInit:
		return "MPP_ERR_VPU_CODEC_INIT"
	case mppErrStream:
		return "MPP_ERR_STREAM"
	case mppErrFatalThread:
		return "MPP_ERR_FATAL_THREAD"
	case mppErrNoMem:
		return "MPP_ERR_NOMEM"
	case mppErrProtocol:
		return "MPP_ERR_PROTOL"
	case mppFailSplitFrame:
		return "MPP_FAIL_SPLIT_FRAME"
	case mppErrVPUHW:
		return "MPP_ERR_VPUHW"
	case mppEOSStreamReached:
		return "MPP_EOS_STREAM_REACHED"
	case mppErrBufferFull:
		return "MPP_ERR_BUFFER_FULL"
	case mppErrDisplayFull:
		return "MPP_ERR_DISPLAY_FULL"
	}
	return fmt.Sprintf("MPP_ERR(%d)", code)
}
