// error.go defines the fatal errors of the player and how the lower level errors map onto them.

package hwplayer

import (
	"errors"
	"fmt"

	"github.com/xaionaro-go/hwplayer/compositor"
	"github.com/xaionaro-go/hwplayer/decoder"
	"github.com/xaionaro-go/hwplayer/imagecache"
)

// ErrInit is a failure to set up the pipeline.
type ErrInit struct {
	Step Step
	Err  error
}

func (e ErrInit) Error() string {
	return fmt.Sprintf("initialization failed (step: %s): %v", e.Step, e.Err)
}

func (e ErrInit) Unwrap() error {
	return e.Err
}

func (e ErrInit) ExitCode() int {
	return e.Step.ExitCode()
}

// ErrRuntime is a failure of the running pipeline; there is no degraded
// mode, so it stops the playback.
type ErrRuntime struct {
	Step Step
	Err  error
}

func (e ErrRuntime) Error() string {
	return fmt.Sprintf("playback failed (step: %s): %v", e.Step, e.Err)
}

func (e ErrRuntime) Unwrap() error {
	return e.Err
}

func (e ErrRuntime) ExitCode() int {
	return e.Step.ExitCode()
}

// ExitCode returns the process exit code for err: 0 for nil, the step
// code for ErrInit and ErrRuntime, 1 otherwise.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var coder interface{ ExitCode() int }
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return ExitCodeUsage
}

func decoderStepOf(err error) Step {
	var errInit decoder.ErrInit
	if !errors.As(err, &errInit) {
		return StepDecoderCreate
	}
	switch errInit.Step {
	case decoder.InitStepPacket:
		return StepPacketInit
	case decoder.InitStepSplitMode:
		return StepSplitMode
	case decoder.InitStepInit:
		return StepDecoderInit
	}
	return StepDecoderCreate
}

// frameStepOf classifies an error returned while retrieving or presenting
// a decoded frame.
func frameStepOf(err error) Step {
	var (
		errNoBuffer    decoder.ErrNoBuffer
		errPixelFormat decoder.ErrUnsupportedPixelFormat
		errImport      imagecache.ErrImport
		errTarget      compositor.ErrTarget
		errDraw        compositor.ErrDraw
		errBufferGroup decoder.ErrBufferGroup
	)
	switch {
	case errors.As(err, &errNoBuffer):
		return StepMissingBuffer
	case errors.As(err, &errPixelFormat):
		return StepPixelFormat
	case errors.As(err, &errImport):
		return StepImageImport
	case errors.As(err, &errTarget):
		return StepRenderTarget
	case errors.As(err, &errDraw):
		return StepDraw
	case errors.As(err, &errBufferGroup):
		return StepBufferGroup
	}
	return StepGetFrame
}
