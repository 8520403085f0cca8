package compositor

import (
	"fmt"

	"github.com/xaionaro-go/hwplayer/gpu"
)

type ErrTarget struct {
	Width  uint32
	Height uint32
	Err    error
}

func (e ErrTarget) Error() string {
	return fmt.Sprintf("unable to create a %dx%d render target: %v", e.Width, e.Height, e.Err)
}

func (e ErrTarget) Unwrap() error {
	return e.Err
}

type ErrDraw struct {
	Image gpu.Image
	Err   error
}

func (e ErrDraw) Error() string {
	return fmt.Sprintf("unable to draw %s: %v", e.Image, e.Err)
}

func (e ErrDraw) Unwrap() error {
	return e.Err
}
