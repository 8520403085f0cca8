// attributes.go builds the EGL attribute lists of the dma-buf import.

package egl

import (
	"fmt"

	"github.com/xaionaro-go/hwplayer/gpu"
	"github.com/xaionaro-go/hwplayer/types"
)

var planeAttributes = [...][3]int32{
	{eglDMABufPlane0FD, eglDMABufPlane0Offset, eglDMABufPlane0Pitch},
	{eglDMABufPlane1FD, eglDMABufPlane1Offset, eglDMABufPlane1Pitch},
	{eglDMABufPlane2FD, eglDMABufPlane2Offset, eglDMABufPlane2Pitch},
}

func colorSpaceHintValue(h types.ColorSpaceHint) (int32, error) {
	switch h {
	case types.ColorSpaceHintREC601:
		return eglITURec601, nil
	case types.ColorSpaceHintREC709:
		return eglITURec709, nil
	case types.ColorSpaceHintREC2020:
		return eglITURec2020, nil
	}
	return 0, fmt.Errorf("color space hint %s has no EGL value", h)
}

func colorRangeHintValue(h types.ColorRangeHint) (int32, error) {
	switch h {
	case types.ColorRangeHintFull:
		return eglYUVFullRange, nil
	case types.ColorRangeHintNarrow:
		return eglYUVNarrowRange, nil
	}
	return 0, fmt.Errorf("color range hint %s has no EGL value", h)
}

// importAttributes returns the EGL_NONE terminated attribute list for
// eglCreateImageKHR(EGL_LINUX_DMA_BUF_EXT). The hints must be resolved
// (not auto).
func importAttributes(params gpu.ImportParams) ([]int32, error) {
	if len(params.Planes) == 0 || len(params.Planes) > len(planeAttributes) {
		return nil, fmt.Errorf("unsupported amount of planes: %d", len(params.Planes))
	}
	colorSpace, err := colorSpaceHintValue(params.ColorSpace)
	if err != nil {
		return nil, err
	}
	colorRange, err := colorRangeHintValue(params.ColorRange)
	if err != nil {
		return nil, err
	}

	attrs := []int32{
		eglWidth, int32(params.Width),
		eglHeight, int32(params.Height),
		eglLinuxDRMFourCC, int32(params.FourCC),
	}
	for i, plane := range params.Planes {
		attrs = append(attrs,
			planeAttributes[i][0], int32(params.FD),
			planeAttributes[i][1], int32(plane.Offset),
			planeAttributes[i][2], int32(plane.Pitch),
		)
	}
	attrs = append(attrs,
		eglYUVColorSpaceHint, colorSpace,
		eglSampleRangeHint, colorRange,
		eglNone,
	)
	return attrs, nil
}

func configAttributes() []int32 {
	return []int32{
		eglSurfaceType, eglPbufferBit,
		eglRenderableType, eglOpenGLES3Bit,
		eglRedSize, 8,
		eglGreenSize, 8,
		eglBlueSize, 8,
		eglAlphaSize, 8,
		eglNone,
	}
}

func contextAttributes() []int32 {
	return []int32{
		eglContextMajor, 3,
		eglContextMinor, 0,
		eglNone,
	}
}

func pbufferAttributes(width, height uint32) []int32 {
	return []int32{
		eglWidth, int32(width),
		eglHeight, int32(height),
		eglNone,
	}
}
