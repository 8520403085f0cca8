// gpu.go defines the GPU/display collaborators of the presentation pipeline.

// Package gpu describes the GPU primitives the zero-copy presentation needs:
// dma-buf image import, an offscreen render target, external texture drawing
// and fences.
package gpu

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/hwplayer/types"
)

// FourCCNV12 is the DRM fourcc of the semi-planar 4:2:0 layout ('N','V','1','2').
const FourCCNV12 = uint32(0x3231564E)

// Image is an imported external image (an EGLImage).
type Image uintptr

func (img Image) String() string {
	return fmt.Sprintf("image:0x%X", uintptr(img))
}

// Fence is a GPU synchronization object.
type Fence uintptr

type Plane struct {
	Offset uint32
	Pitch  uint32
}

// ImportParams describes a dma-buf backed multi-plane image; all planes
// live in the same file descriptor.
type ImportParams struct {
	FD         int
	Width      uint32
	Height     uint32
	FourCC     uint32
	Planes     []Plane
	ColorSpace types.ColorSpaceHint
	ColorRange types.ColorRangeHint
}

func (p ImportParams) String() string {
	return fmt.Sprintf("fd:%d %dx%d fourcc:0x%08X planes:%v %s/%s", p.FD, p.Width, p.Height, p.FourCC, p.Planes, p.ColorSpace, p.ColorRange)
}

type ImageImporter interface {
	ImportDMABuf(ctx context.Context, params ImportParams) (Image, error)
	DestroyImage(ctx context.Context, img Image) error
}

// Target is an offscreen color render target.
type Target struct {
	Framebuffer uint32
	Texture     uint32
	Width       uint32
	Height      uint32
}

func (t *Target) String() string {
	if t == nil {
		return "<nil>"
	}
	return fmt.Sprintf("target{fbo:%d tex:%d %dx%d}", t.Framebuffer, t.Texture, t.Width, t.Height)
}

type Renderer interface {
	CreateTarget(ctx context.Context, width, height uint32) (*Target, error)
	DestroyTarget(ctx context.Context, target *Target) error

	// DrawExternal draws img as an external texture over the whole target.
	DrawExternal(ctx context.Context, target *Target, img Image) error

	CreateFence(ctx context.Context) (Fence, error)
	WaitFence(ctx context.Context, fence Fence) error
	DestroyFence(ctx context.Context, fence Fence) error
}

// Surface is where the render target ends up being shown.
type Surface interface {
	PollEvents(ctx context.Context) error
	ShouldClose() bool
	Present(ctx context.Context, target *Target) error
}
