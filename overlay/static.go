package overlay

import (
	"context"

	"github.com/xaionaro-go/hwplayer/decoder"
	"github.com/xaionaro-go/hwplayer/imagecache"
	"github.com/xaionaro-go/hwplayer/logger"
)

// Static never changes the overrides; it logs the diagnostics each time the
// frame geometry or color metadata changes.
type Static struct {
	lastFrame decoder.FrameInfo
	hasFrame  bool
}

var _ Overlay = (*Static)(nil)

func NewStatic() *Static {
	return &Static{}
}

func (s *Static) Render(
	ctx context.Context,
	diag Diagnostics,
) (imagecache.Overrides, bool) {
	if diag.HasFrame && (!s.hasFrame || !sameFormat(s.lastFrame, diag.Frame)) {
		logger.Infof(ctx, "presenting %s", diag)
		s.lastFrame = diag.Frame
		s.hasFrame = true
	}
	return diag.Overrides, false
}

func sameFormat(a, b decoder.FrameInfo) bool {
	return a.Width == b.Width &&
		a.Height == b.Height &&
		a.HorStride == b.HorStride &&
		a.VerStride == b.VerStride &&
		a.ColorSpace == b.ColorSpace &&
		a.ColorRange == b.ColorRange
}
