// open.go builds a Player on top of the real collaborators: a demuxer, the Rockchip MPP decoder and an EGL display.

// Package rkplayer wires hwplayer.Player to the hardware of a Rockchip
// board: libav or mp4 demuxing, the MPP decoder and an EGL display.
package rkplayer

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/xaionaro-go/hwplayer"
	"github.com/xaionaro-go/hwplayer/decoder/rkmpp"
	"github.com/xaionaro-go/hwplayer/demuxer"
	"github.com/xaionaro-go/hwplayer/demuxer/libav"
	"github.com/xaionaro-go/hwplayer/demuxer/mp4"
	"github.com/xaionaro-go/hwplayer/gpu/egl"
	"github.com/xaionaro-go/hwplayer/logger"
	"github.com/xaionaro-go/hwplayer/overlay"
	"github.com/xaionaro-go/hwplayer/types"
	"github.com/xaionaro-go/hwplayer/urltools"
)

// Open opens the input and the hardware and returns a Player ready to Serve.
//
// The GPU context is bound to the calling OS thread: Serve and Close must
// be called from the same goroutine as Open.
func Open(
	ctx context.Context,
	input string,
	cfg hwplayer.Config,
) (_ret *hwplayer.Player, _err error) {
	logger.Debugf(ctx, "Open(ctx, '%s')", input)
	defer func() { logger.Debugf(ctx, "/Open(ctx, '%s'): %v", input, _err) }()

	dmx, err := openDemuxer(ctx, input, cfg.Demuxer)
	if err != nil {
		return nil, hwplayer.ErrInit{Step: openStepOf(err), Err: err}
	}
	logger.Infof(ctx, "opened '%s': video stream #%d, time base %s", input, dmx.VideoStreamIndex(), dmx.TimeBase())

	display, err := egl.New(ctx, egl.Config{
		Width:           cfg.Width,
		Height:          cfg.Height,
		EGLLibraryPath:  cfg.EGLLibraryPath,
		GLESLibraryPath: cfg.GLESLibraryPath,
	})
	if err != nil {
		closeOrLog(ctx, dmx)
		return nil, hwplayer.ErrInit{Step: displayStepOf(err), Err: err}
	}

	backend, err := rkmpp.New(ctx, rkmpp.Config{LibraryPath: cfg.MPPLibraryPath})
	if err != nil {
		closeOrLog(ctx, display)
		closeOrLog(ctx, dmx)
		return nil, hwplayer.ErrInit{Step: hwplayer.StepDecoderCreate, Err: err}
	}

	var ov overlay.Overlay
	if cfg.Console {
		ov = overlay.NewConsole(ctx, os.Stdin)
	} else {
		ov = overlay.NewStatic()
	}

	return hwplayer.New(ctx, dmx, backend, display, ov, cfg)
}

func openDemuxer(
	ctx context.Context,
	input string,
	kind hwplayer.DemuxerKind,
) (demuxer.Demuxer, error) {
	if kind == hwplayer.DemuxerKindAuto {
		kind = demuxerKindFor(input)
		logger.Debugf(ctx, "using the %s demuxer for '%s'", kind, input)
	}
	switch kind {
	case hwplayer.DemuxerKindLibav:
		return libav.Open(ctx, input)
	case hwplayer.DemuxerKindMP4:
		return mp4.Open(ctx, input)
	}
	return nil, demuxer.ErrOpen{URL: input, Err: fmt.Errorf("unknown demuxer %s", kind)}
}

func demuxerKindFor(input string) hwplayer.DemuxerKind {
	if _, isLocal := urltools.LocalPath(input); isLocal && urltools.ContainerOf(input) == urltools.ContainerMP4 {
		return hwplayer.DemuxerKindMP4
	}
	return hwplayer.DemuxerKindLibav
}

func closeOrLog(
	ctx context.Context,
	c types.Closer,
) {
	if err := c.Close(ctx); err != nil {
		logger.Errorf(ctx, "unable to close %T: %v", c, err)
	}
}

func openStepOf(err error) hwplayer.Step {
	var (
		errStreamInfo    demuxer.ErrStreamInfo
		errNoVideoStream demuxer.ErrNoVideoStream
	)
	switch {
	case errors.As(err, &errStreamInfo):
		return hwplayer.StepStreamInfo
	case errors.As(err, &errNoVideoStream):
		return hwplayer.StepNoVideoStream
	}
	return hwplayer.StepOpenInput
}

func displayStepOf(err error) hwplayer.Step {
	var errInit egl.ErrInit
	if !errors.As(err, &errInit) {
		return hwplayer.StepDisplay
	}
	switch errInit.Step {
	case egl.InitStepContext:
		return hwplayer.StepContext
	case egl.InitStepFunctions:
		return hwplayer.StepFunctions
	case egl.InitStepShaders:
		return hwplayer.StepShaders
	}
	return hwplayer.StepDisplay
}
