// overlay.go defines the interface of the user-facing diagnostics overlay.

// Package overlay shows the playback diagnostics and collects the color
// overrides selected by the user.
package overlay

import (
	"context"
	"fmt"
	"time"

	"github.com/xaionaro-go/hwplayer/decoder"
	"github.com/xaionaro-go/hwplayer/imagecache"
)

// Diagnostics is what the player knows about the current presentation.
type Diagnostics struct {
	Frame        decoder.FrameInfo
	HasFrame     bool
	Overrides    imagecache.Overrides
	Stats        decoder.StatsSnapshot
	CachedImages int
	Elapsed      time.Duration
}

func (d Diagnostics) String() string {
	if !d.HasFrame {
		return fmt.Sprintf("no frame yet; overrides:%s", d.Overrides)
	}
	return fmt.Sprintf(
		"%dx%d (stride %dx%d) %s/%s; overrides:%s; cached images:%d; elapsed:%v",
		d.Frame.Width, d.Frame.Height, d.Frame.HorStride, d.Frame.VerStride,
		d.Frame.ColorSpace, d.Frame.ColorRange,
		d.Overrides, d.CachedImages, d.Elapsed.Truncate(time.Millisecond),
	)
}

// Overlay is rendered once per player iteration. It returns the overrides
// that must be used from now on, and whether they differ from the ones in
// the Diagnostics.
type Overlay interface {
	Render(ctx context.Context, diag Diagnostics) (imagecache.Overrides, bool)
}
