// player.go implements the playback loop tying the demuxer, the decoder, the image cache and the compositor together.

// Package hwplayer plays an H.264 stream with a hardware decoder and
// presents the decoded buffers through the GPU without copying them.
package hwplayer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/asticode/go-astikit"
	"github.com/davecgh/go-spew/spew"
	"github.com/xaionaro-go/hwplayer/clock"
	"github.com/xaionaro-go/hwplayer/compositor"
	"github.com/xaionaro-go/hwplayer/decoder"
	"github.com/xaionaro-go/hwplayer/demuxer"
	"github.com/xaionaro-go/hwplayer/extradata"
	"github.com/xaionaro-go/hwplayer/framer"
	"github.com/xaionaro-go/hwplayer/gpu"
	"github.com/xaionaro-go/hwplayer/imagecache"
	"github.com/xaionaro-go/hwplayer/internal"
	"github.com/xaionaro-go/hwplayer/logger"
	"github.com/xaionaro-go/hwplayer/overlay"
	"github.com/xaionaro-go/hwplayer/types"
	"github.com/xaionaro-go/xcontext"
	"go.uber.org/atomic"
)

// GPU is everything the player needs from the graphics stack.
type GPU interface {
	gpu.ImageImporter
	gpu.Renderer
	gpu.Surface
}

// Player owns all of its collaborators and is driven by a single
// goroutine (see Serve); only Stats and Loops may be called concurrently.
type Player struct {
	Demuxer    demuxer.Demuxer
	Session    *decoder.Session
	Cache      *imagecache.Cache
	Compositor *compositor.Compositor
	Surface    gpu.Surface
	Overlay    overlay.Overlay
	Clock      *clock.Clock
	Config     Config

	framer    *framer.Framer
	inFlight  *demuxer.Sample
	lastFrame decoder.FrameInfo
	hasFrame  bool
	loops     atomic.Uint64
	closer    *astikit.Closer
}

// New takes the ownership of the given collaborators (they are closed by
// Player.Close, or right away if New fails), starts the decoder session
// and submits the parameter sets found in the stream extradata.
func New(
	ctx context.Context,
	dmx demuxer.Demuxer,
	backend decoder.Backend,
	g GPU,
	ov overlay.Overlay,
	cfg Config,
) (_ret *Player, _err error) {
	logger.Debugf(ctx, "New")
	defer func() { logger.Debugf(ctx, "/New: %v", _err) }()

	closeCtx := xcontext.DetachDone(ctx)
	p := &Player{
		Demuxer: dmx,
		Surface: g,
		Overlay: ov,
		Config:  cfg,
		closer:  astikit.NewCloser(),
	}
	p.closer.AddWithError(func() error {
		return dmx.Close(closeCtx)
	})
	if c, ok := g.(types.Closer); ok {
		p.closer.AddWithError(func() error {
			return c.Close(closeCtx)
		})
	}
	if c, ok := ov.(types.Closer); ok {
		p.closer.AddWithError(func() error {
			return c.Close(closeCtx)
		})
	}
	defer func() {
		if _err != nil {
			if err := p.closer.Close(); err != nil {
				logger.Errorf(ctx, "unable to release the resources: %v", err)
			}
		}
	}()

	decoderCfg := cfg.Decoder
	if decoderCfg.Codec == 0 {
		decoderCfg.Codec = decoder.CodecH264
	}
	session, err := decoder.New(ctx, backend, decoderCfg)
	if err != nil {
		return nil, ErrInit{Step: decoderStepOf(err), Err: err}
	}
	p.Session = session
	p.closer.AddWithError(func() error {
		return session.Close(closeCtx)
	})

	extraData := dmx.ExtraData()
	p.framer = framer.NewFromExtraData(extraData)
	parameterSets := extradata.ExtractParameterSets(extraData)
	logger.Debugf(ctx, "parameter sets: %s; framer: %s", parameterSets, p.framer)
	if payload := parameterSets.Payload(); len(payload) > 0 {
		if err := session.Submit(ctx, payload); err != nil {
			return nil, ErrInit{Step: StepParameterSets, Err: err}
		}
	} else {
		logger.Warnf(ctx, "no parameter sets found in the extradata (%d bytes)", len(extraData))
	}

	p.Cache = imagecache.New(g, cfg.Overrides)
	p.closer.AddWithError(func() error {
		return p.Cache.Close(closeCtx)
	})
	p.Compositor = compositor.New(g)
	p.closer.AddWithError(func() error {
		return p.Compositor.Close(closeCtx)
	})

	if cfg.Now != nil {
		p.Clock = clock.NewWithNow(dmx.TimeBase(), cfg.Now)
	} else {
		p.Clock = clock.New(dmx.TimeBase())
	}
	return p, nil
}

func (p *Player) String() string {
	return fmt.Sprintf("Player(%s, %s)", p.Session, p.Clock)
}

// Stats returns the decoder counters.
func (p *Player) Stats() decoder.StatsSnapshot {
	return p.Session.Stats().Snapshot()
}

// Loops returns how many times the input was rewound.
func (p *Player) Loops() uint64 {
	return p.loops.Load()
}

// Serve runs the playback loop until the context is cancelled (which is
// not an error), the surface asks to be closed, or a fatal error happens.
func (p *Player) Serve(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Serve")
	defer func() { logger.Debugf(ctx, "/Serve: %v", _err) }()

	p.Clock.OnLoop()
	timer := time.NewTimer(0)
	defer timer.Stop()
	<-timer.C

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if p.Surface.ShouldClose() {
			logger.Debugf(ctx, "the surface is closed")
			return nil
		}

		if err := p.Iterate(ctx); err != nil {
			if errors.Is(err, context.Canceled) && ctx.Err() != nil {
				return nil
			}
			return err
		}

		timer.Reset(p.Config.sleepInterval())
		select {
		case <-ctx.Done():
			return nil
		case <-timer.C:
		}
	}
}

// Iterate performs one iteration of the playback loop, without the sleep.
func (p *Player) Iterate(ctx context.Context) error {
	if p.inFlight != nil && p.Clock.ShouldAdvance(p.inFlight.PTS) {
		p.inFlight = nil
	}
	if p.inFlight == nil {
		if err := p.feed(ctx); err != nil {
			return err
		}
	}

	if err := p.pollDecoder(ctx); err != nil {
		return err
	}

	if err := p.Surface.PollEvents(ctx); err != nil {
		return ErrRuntime{Step: StepPresent, Err: fmt.Errorf("unable to poll the surface events: %w", err)}
	}
	p.renderOverlay(ctx)

	if target := p.Compositor.Target(); target != nil {
		if err := p.Surface.Present(ctx, target); err != nil {
			return ErrRuntime{Step: StepPresent, Err: err}
		}
	}
	return nil
}

// feed reads the next video sample and submits its access units; at the
// end of the input it rewinds it and restarts the clock instead.
func (p *Player) feed(ctx context.Context) error {
	videoStreamIndex := p.Demuxer.VideoStreamIndex()
	for {
		sample, err := p.Demuxer.ReadSample(ctx)
		switch {
		case err == nil:
		case errors.Is(err, io.EOF):
			logger.Debugf(ctx, "end of the input, rewinding")
			if err := p.Demuxer.Rewind(ctx); err != nil {
				return ErrRuntime{Step: StepRewind, Err: err}
			}
			p.Clock.OnLoop()
			p.loops.Inc()
			return nil
		default:
			return ErrRuntime{Step: StepRead, Err: err}
		}
		if sample.StreamIndex != videoStreamIndex {
			logger.Tracef(ctx, "skipping %s", sample)
			continue
		}

		p.inFlight = sample
		_, err = p.framer.Frame(ctx, sample.Data, func(ctx context.Context, au framer.AccessUnit) error {
			return p.Session.Submit(ctx, au)
		})
		if err != nil {
			return ErrRuntime{Step: StepSubmit, Err: err}
		}
		return nil
	}
}

func (p *Player) pollDecoder(ctx context.Context) error {
	ev, err := p.Session.Poll(ctx, p.presentFrame)
	if err != nil {
		return ErrRuntime{Step: frameStepOf(err), Err: err}
	}
	if ev != decoder.EventFormatChange {
		return nil
	}

	info, err := p.Session.Reconfigure(ctx)
	if err != nil {
		return ErrRuntime{Step: StepBufferGroup, Err: err}
	}
	logger.Infof(ctx, "the stream format changed: %s", info)
	if logger.FromCtx(ctx).Level() >= logger.LevelDebug {
		logger.Debugf(ctx, "the new format: %s", spew.Sdump(info))
	}
	return nil
}

// presentFrame is called with a frame that is released as soon as it
// returns, so the GPU work is waited for before returning.
func (p *Player) presentFrame(ctx context.Context, f *decoder.Frame) error {
	internal.Assert(ctx, !f.IsReleased(), "a released frame was handed to presentFrame")

	img, err := p.Cache.LookupOrCreate(ctx, imagecache.RequestFromFrame(f.FrameInfo))
	if err != nil {
		return err
	}
	if _, err := p.Compositor.Composite(ctx, img, f.Width, f.Height); err != nil {
		return err
	}
	p.lastFrame = f.FrameInfo
	p.hasFrame = true
	return nil
}

// Diagnostics returns what the overlay shows.
func (p *Player) Diagnostics() overlay.Diagnostics {
	return overlay.Diagnostics{
		Frame:        p.lastFrame,
		HasFrame:     p.hasFrame,
		Overrides:    p.Cache.Overrides(),
		Stats:        p.Stats(),
		CachedImages: p.Cache.Len(),
		Elapsed:      p.Clock.Elapsed(),
	}
}

func (p *Player) renderOverlay(ctx context.Context) {
	if p.Overlay == nil {
		return
	}
	overrides, changed := p.Overlay.Render(ctx, p.Diagnostics())
	if changed {
		p.Cache.SetOverrides(ctx, overrides)
	}
}

// Close releases everything the player owns, in the reverse order of
// acquisition.
func (p *Player) Close(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Close")
	defer func() { logger.Debugf(ctx, "/Close: %v", _err) }()
	return p.closer.Close()
}
