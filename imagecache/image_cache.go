// image_cache.go maps decoder output buffers to imported GPU images.

// Package imagecache keeps one imported GPU image per hardware output buffer.
//
// The decoder recycles its output buffers, so an image is reused as long as
// the buffer keeps the same geometry and color metadata. Any mismatch means
// the buffer pool was reallocated, so the whole cache is dropped rather than
// the one entry.
package imagecache

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/hwplayer/decoder"
	"github.com/xaionaro-go/hwplayer/gpu"
	"github.com/xaionaro-go/hwplayer/logger"
	"github.com/xaionaro-go/hwplayer/types"
)

// Request describes the buffer of a decoded frame to be presented.
type Request struct {
	Buffer     types.BufferHandle
	FD         int
	Width      uint32
	Height     uint32
	HorStride  uint32
	VerStride  uint32
	OffsetX    uint32
	ColorSpace types.ColorSpace
	ColorRange types.ColorRange
}

func RequestFromFrame(info decoder.FrameInfo) Request {
	return Request{
		Buffer:     info.Buffer,
		FD:         info.FD,
		Width:      info.Width,
		Height:     info.Height,
		HorStride:  info.HorStride,
		VerStride:  info.VerStride,
		OffsetX:    info.OffsetX,
		ColorSpace: info.ColorSpace,
		ColorRange: info.ColorRange,
	}
}

// Overrides are the user-selected color hints.
type Overrides struct {
	ColorSpace types.ColorSpaceHint `yaml:"color_space"`
	ColorRange types.ColorRangeHint `yaml:"color_range"`
}

func (o Overrides) String() string {
	return fmt.Sprintf("%s/%s", o.ColorSpace, o.ColorRange)
}

type entry struct {
	image      gpu.Image
	colorSpace types.ColorSpace
	colorRange types.ColorRange
	width      uint32
	height     uint32
}

func (e entry) matches(req Request) bool {
	return e.colorSpace == req.ColorSpace &&
		e.colorRange == req.ColorRange &&
		e.width == req.Width &&
		e.height == req.Height
}

// Cache is not safe for concurrent use.
type Cache struct {
	Importer gpu.ImageImporter

	overrides Overrides
	entries   map[types.BufferHandle]entry
	imports   uint64
}

func New(importer gpu.ImageImporter, overrides Overrides) *Cache {
	return &Cache{
		Importer:  importer,
		overrides: overrides,
		entries:   map[types.BufferHandle]entry{},
	}
}

func (c *Cache) String() string {
	return fmt.Sprintf("ImageCache(entries:%d, overrides:%s)", len(c.entries), c.overrides)
}

func (c *Cache) Len() int {
	return len(c.entries)
}

// Imports returns how many images were imported since creation.
func (c *Cache) Imports() uint64 {
	return c.imports
}

func (c *Cache) Overrides() Overrides {
	return c.overrides
}

// LookupOrCreate returns the image of req.Buffer, importing it if there is
// none yet. An import failure is returned as ErrImport.
func (c *Cache) LookupOrCreate(
	ctx context.Context,
	req Request,
) (_ret gpu.Image, _err error) {
	logger.Tracef(ctx, "LookupOrCreate: %s", req.Buffer)
	defer func() { logger.Tracef(ctx, "/LookupOrCreate: %s: %s: %v", req.Buffer, _ret, _err) }()

	if e, ok := c.entries[req.Buffer]; ok {
		if e.matches(req) {
			return e.image, nil
		}
		logger.Debugf(ctx, "%s changed format (%dx%d %s/%s -> %dx%d %s/%s), dropping all the images",
			req.Buffer,
			e.width, e.height, e.colorSpace, e.colorRange,
			req.Width, req.Height, req.ColorSpace, req.ColorRange,
		)
		c.InvalidateAll(ctx)
	}

	params := c.importParams(req)
	img, err := c.Importer.ImportDMABuf(ctx, params)
	if err != nil {
		return 0, ErrImport{Buffer: req.Buffer, Params: params, Err: err}
	}
	c.imports++
	c.entries[req.Buffer] = entry{
		image:      img,
		colorSpace: req.ColorSpace,
		colorRange: req.ColorRange,
		width:      req.Width,
		height:     req.Height,
	}
	logger.Debugf(ctx, "imported %s as %s (%s)", req.Buffer, img, params)
	return img, nil
}

// importParams lays out NV12: the luma plane starts at the x offset, the
// interleaved chroma plane right after HorStride*VerStride bytes of luma.
func (c *Cache) importParams(req Request) gpu.ImportParams {
	lumaSize := req.HorStride * req.VerStride
	return gpu.ImportParams{
		FD:     req.FD,
		Width:  req.Width,
		Height: req.Height,
		FourCC: gpu.FourCCNV12,
		Planes: []gpu.Plane{
			{Offset: req.OffsetX, Pitch: req.HorStride},
			{Offset: req.OffsetX + lumaSize, Pitch: req.HorStride},
		},
		ColorSpace: c.overrides.ColorSpace.Resolve(req.ColorSpace),
		ColorRange: c.overrides.ColorRange.Resolve(req.ColorRange),
	}
}

// InvalidateAll destroys every image. Failures to destroy an image are
// logged; the entry is dropped anyway.
func (c *Cache) InvalidateAll(ctx context.Context) {
	logger.Debugf(ctx, "InvalidateAll: %d entries", len(c.entries))
	for buf, e := range c.entries {
		if err := c.Importer.DestroyImage(ctx, e.image); err != nil {
			logger.Errorf(ctx, "unable to destroy %s of %s: %v", e.image, buf, err)
		}
	}
	clear(c.entries)
}

// SetOverrides changes the color hints used for new imports. If anything
// changed, all the existing images are dropped (a hint is baked into an
// image at import time) and true is returned.
func (c *Cache) SetOverrides(
	ctx context.Context,
	overrides Overrides,
) bool {
	if overrides == c.overrides {
		return false
	}
	logger.Infof(ctx, "color overrides changed: %s -> %s", c.overrides, overrides)
	c.overrides = overrides
	c.InvalidateAll(ctx)
	return true
}

func (c *Cache) Close(ctx context.Context) error {
	c.InvalidateAll(ctx)
	return nil
}
