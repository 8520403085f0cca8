//go:build !linux

package egl

import (
	"context"
	"fmt"
	"runtime"

	"github.com/xaionaro-go/hwplayer/gpu"
)

type Config struct {
	Width           uint32
	Height          uint32
	EGLLibraryPath  string
	GLESLibraryPath string
}

// Display is never constructed on this platform.
type Display struct {
	gpu.ImageImporter
	gpu.Renderer
	gpu.Surface
}

func New(ctx context.Context, cfg Config) (*Display, error) {
	return nil, ErrInit{Step: InitStepLibrary, Err: fmt.Errorf("EGL dma-buf import is not supported on %s", runtime.GOOS)}
}

func (d *Display) Close(ctx context.Context) error {
	return nil
}
