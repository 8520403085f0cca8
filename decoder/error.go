// error.go defines the errors returned by the decoder session.

package decoder

import (
	"fmt"

	"github.com/xaionaro-go/hwplayer/types"
)

type InitStep int

const (
	InitStepUndefined = InitStep(iota)
	InitStepPacket
	InitStepCreate
	InitStepSplitMode
	InitStepInit
)

func (s InitStep) String() string {
	switch s {
	case InitStepUndefined:
		return "undefined"
	case InitStepPacket:
		return "packet_init"
	case InitStepCreate:
		return "create"
	case InitStepSplitMode:
		return "split_mode"
	case InitStepInit:
		return "init"
	}
	return fmt.Sprintf("unknown_step_%d", int(s))
}

type ErrInit struct {
	Step InitStep
	Err  error
}

func (e ErrInit) Error() string {
	return fmt.Sprintf("unable to initialize the decoder (step: %s): %v", e.Step, e.Err)
}

func (e ErrInit) Unwrap() error {
	return e.Err
}

type ErrSubmit struct {
	Size int
	Err  error
}

func (e ErrSubmit) Error() string {
	return fmt.Sprintf("unable to submit an access unit of %d bytes: %v", e.Size, e.Err)
}

func (e ErrSubmit) Unwrap() error {
	return e.Err
}

type ErrGetFrame struct {
	Err error
}

func (e ErrGetFrame) Error() string {
	return fmt.Sprintf("unable to get a frame: %v", e.Err)
}

func (e ErrGetFrame) Unwrap() error {
	return e.Err
}

type ErrBufferGroup struct {
	Err error
}

func (e ErrBufferGroup) Error() string {
	return fmt.Sprintf("unable to attach an output buffer group: %v", e.Err)
}

func (e ErrBufferGroup) Unwrap() error {
	return e.Err
}

type ErrUnsupportedPixelFormat struct {
	PixelFormat types.PixelFormat
}

func (e ErrUnsupportedPixelFormat) Error() string {
	return fmt.Sprintf("unsupported pixel format %s, only %s is supported", e.PixelFormat, types.PixelFormatYUV420SP)
}

type ErrNoBuffer struct{}

func (ErrNoBuffer) Error() string {
	return "the decoded frame has no output buffer"
}

type ErrClosed struct{}

func (ErrClosed) Error() string {
	return "the decoder session is closed"
}

type ErrInvalidState struct {
	Operation string
	State     State
}

func (e ErrInvalidState) Error() string {
	return fmt.Sprintf("%s is not allowed in state %s", e.Operation, e.State)
}
