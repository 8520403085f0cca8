// compositor.go draws the zero-copy images into the offscreen render target.

// Package compositor renders decoded images into an offscreen target and
// makes sure the GPU is done reading an image before the decoder may reuse
// its buffer.
package compositor

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/hwplayer/gpu"
	"github.com/xaionaro-go/hwplayer/logger"
	"go.uber.org/atomic"
)

type Compositor struct {
	Renderer gpu.Renderer

	target        *gpu.Target
	mismatchW     uint32
	mismatchH     uint32
	fenceFailures atomic.Uint64
}

func New(renderer gpu.Renderer) *Compositor {
	return &Compositor{
		Renderer: renderer,
	}
}

func (c *Compositor) String() string {
	return fmt.Sprintf("Compositor(%s)", c.target)
}

// Target returns the render target, nil until the first Composite.
func (c *Compositor) Target() *gpu.Target {
	return c.target
}

// FenceFailures is the number of fence operations that failed (and were
// tolerated) so far.
func (c *Compositor) FenceFailures() uint64 {
	return c.fenceFailures.Load()
}

// Composite draws img into the render target and waits for the GPU to
// finish.
//
// The target is created on the first call with the given size and is never
// resized: a later size change is only reported as a warning. Fence
// failures are logged and tolerated.
func (c *Compositor) Composite(
	ctx context.Context,
	img gpu.Image,
	width, height uint32,
) (_ret *gpu.Target, _err error) {
	logger.Tracef(ctx, "Composite: %s %dx%d", img, width, height)
	defer func() { logger.Tracef(ctx, "/Composite: %s %dx%d: %v", img, width, height, _err) }()

	if err := c.ensureTarget(ctx, width, height); err != nil {
		return nil, err
	}

	if err := c.Renderer.DrawExternal(ctx, c.target, img); err != nil {
		return nil, ErrDraw{Image: img, Err: err}
	}

	c.waitGPU(ctx)
	return c.target, nil
}

func (c *Compositor) ensureTarget(
	ctx context.Context,
	width, height uint32,
) error {
	if c.target == nil {
		target, err := c.Renderer.CreateTarget(ctx, width, height)
		if err != nil {
			return ErrTarget{Width: width, Height: height, Err: err}
		}
		logger.Debugf(ctx, "created the render target: %s", target)
		c.target = target
		return nil
	}

	if c.target.Width == width && c.target.Height == height {
		return nil
	}
	if c.mismatchW != width || c.mismatchH != height {
		// TODO: recreate the target on geometry changes once the presentation side can follow a resize
		logger.Warnf(ctx, "the frame size changed to %dx%d, but the render target stays %dx%d", width, height, c.target.Width, c.target.Height)
		c.mismatchW, c.mismatchH = width, height
	}
	return nil
}

func (c *Compositor) waitGPU(ctx context.Context) {
	fence, err := c.Renderer.CreateFence(ctx)
	if err != nil {
		c.fenceFailures.Inc()
		logger.Errorf(ctx, "unable to create a fence: %v", err)
		return
	}
	if err := c.Renderer.WaitFence(ctx, fence); err != nil {
		c.fenceFailures.Inc()
		logger.Errorf(ctx, "unable to wait for the fence: %v", err)
	}
	if err := c.Renderer.DestroyFence(ctx, fence); err != nil {
		c.fenceFailures.Inc()
		logger.Errorf(ctx, "unable to destroy the fence: %v", err)
	}
}

func (c *Compositor) Close(ctx context.Context) error {
	if c.target == nil {
		return nil
	}
	target := c.target
	c.target = nil
	if err := c.Renderer.DestroyTarget(ctx, target); err != nil {
		return fmt.Errorf("unable to destroy %s: %w", target, err)
	}
	return nil
}
