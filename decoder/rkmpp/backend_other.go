//go:build !linux

package rkmpp

import (
	"context"
	"fmt"
	"runtime"

	"github.com/xaionaro-go/hwplayer/decoder"
)

type Config struct {
	LibraryPath string
}

// Backend is never constructed on this platform.
type Backend struct {
	decoder.Backend
}

func New(ctx context.Context, cfg Config) (*Backend, error) {
	return nil, fmt.Errorf("the Rockchip MPP decoder is not supported on %s", runtime.GOOS)
}
