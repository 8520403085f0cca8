// demuxer.go reads the H.264 video stream of any container libav can open.

// Package libav implements demuxer.Demuxer on top of libavformat.
package libav

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/hwplayer/avconv"
	"github.com/xaionaro-go/hwplayer/demuxer"
	"github.com/xaionaro-go/hwplayer/extradata"
	"github.com/xaionaro-go/hwplayer/logger"
	"github.com/xaionaro-go/hwplayer/pool"
	"github.com/xaionaro-go/hwplayer/types"
)

var packetPool = pool.NewPool(
	astiav.AllocPacket,
	func(p *astiav.Packet) { p.Unref() },
	func(p *astiav.Packet) { p.Free() },
)

type Demuxer struct {
	URL string

	formatContext *astiav.FormatContext
	videoStream   *astiav.Stream
	extraData     []byte
	timeBase      types.Rational
}

var _ demuxer.Demuxer = (*Demuxer)(nil)

// Open opens the input and elects its first H.264 video stream.
func Open(
	ctx context.Context,
	url string,
) (_ret *Demuxer, _err error) {
	logger.Debugf(ctx, "Open(ctx, '%s')", url)
	defer func() { logger.Debugf(ctx, "/Open(ctx, '%s'): %v", url, _err) }()

	if url == "" {
		return nil, ErrOpenEmptyURL
	}

	fc := astiav.AllocFormatContext()
	if fc == nil {
		return nil, demuxer.ErrOpen{URL: url, Err: fmt.Errorf("unable to allocate a format context")}
	}
	if err := fc.OpenInput(url, nil, nil); err != nil {
		fc.Free()
		return nil, demuxer.ErrOpen{URL: url, Err: err}
	}
	d := &Demuxer{
		URL:           url,
		formatContext: fc,
	}

	if err := fc.FindStreamInfo(nil); err != nil {
		d.Close(ctx)
		return nil, demuxer.ErrStreamInfo{URL: url, Err: err}
	}

	for _, stream := range fc.Streams() {
		codecParams := stream.CodecParameters()
		logger.Debugf(ctx, "input stream #%d: %s %s", stream.Index(), codecParams.MediaType(), codecParams.CodecID())
	}
	d.videoStream = avconv.FindStream(fc, avconv.IsH264Video)
	if d.videoStream == nil {
		d.Close(ctx)
		return nil, demuxer.ErrNoVideoStream{URL: url}
	}

	d.extraData = bytes.Clone(d.videoStream.CodecParameters().ExtraData())
	d.timeBase = avconv.Rational(d.videoStream.TimeBase())
	if duration, ok := avconv.ContainerDuration(fc); ok {
		logger.Debugf(ctx, "input duration: %v", duration)
	}
	logger.Debugf(ctx, "elected stream #%d: time base %s, extradata %s", d.videoStream.Index(), d.timeBase, extradata.Raw(d.extraData))
	return d, nil
}

func (d *Demuxer) String() string {
	return fmt.Sprintf("LibAV(%s)", d.URL)
}

func (d *Demuxer) ExtraData() []byte {
	return d.extraData
}

func (d *Demuxer) TimeBase() types.Rational {
	return d.timeBase
}

func (d *Demuxer) VideoStreamIndex() int {
	return d.videoStream.Index()
}

func (d *Demuxer) ReadSample(ctx context.Context) (_ret *demuxer.Sample, _err error) {
	pkt := packetPool.Get()
	defer packetPool.Put(pkt)

	if err := readFrameError(d.formatContext.ReadFrame(pkt)); err != nil {
		return nil, err
	}

	sample := &demuxer.Sample{
		Data:        pkt.Data(),
		PTS:         pkt.Pts(),
		DTS:         pkt.Dts(),
		StreamIndex: pkt.StreamIndex(),
		KeyFrame:    pkt.Flags().Has(astiav.PacketFlagKey),
	}
	if sample.PTS == astiav.NoPtsValue {
		sample.PTS = sample.DTS
	}
	if ts, ok := avconv.Duration(sample.PTS, d.videoStream.TimeBase()); ok && sample.StreamIndex == d.videoStream.Index() {
		logger.Tracef(ctx, "read %s at %v", sample, ts)
	} else {
		logger.Tracef(ctx, "read %s", sample)
	}
	return sample, nil
}

// readFrameError maps the result of ReadFrame: only the end of the input is
// io.EOF (and makes the player loop), I/O failures stay fatal.
func readFrameError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, astiav.ErrEof):
		return io.EOF
	default:
		return fmt.Errorf("unable to read a frame: %T:%w", err, err)
	}
}

// Rewind seeks the elected stream back to timestamp 0, to any frame (the
// decoder copes with starting from a non-key frame).
func (d *Demuxer) Rewind(ctx context.Context) error {
	logger.Debugf(ctx, "Rewind")
	if err := d.formatContext.SeekFrame(d.videoStream.Index(), 0, astiav.NewSeekFlags(astiav.SeekFlagAny)); err != nil {
		return fmt.Errorf("unable to seek stream #%d to the beginning: %w", d.videoStream.Index(), err)
	}
	return nil
}

func (d *Demuxer) Close(ctx context.Context) error {
	logger.Debugf(ctx, "Close")
	if d.formatContext == nil {
		return nil
	}
	d.formatContext.CloseInput()
	d.formatContext.Free()
	d.formatContext = nil
	return nil
}
