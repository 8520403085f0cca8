// session.go implements the hardware decoder session: access unit submission,
// frame retrieval and the format change handshake.

// Package decoder drives a stateful hardware video decoder.
package decoder

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/xaionaro-go/hwplayer/logger"
	"github.com/xaionaro-go/hwplayer/types"
)

const (
	defaultPacketBufferSize = 64
)

type Config struct {
	Codec Codec `yaml:"-"`

	// SplitMode makes the decoder find frame boundaries itself.
	SplitMode bool `yaml:"split_mode"`

	// InitialPacketBufferSize is the initial capacity of the input packet
	// buffer; it grows on demand and never shrinks.
	InitialPacketBufferSize int `yaml:"initial_packet_buffer_size"`
}

func DefaultConfig() Config {
	return Config{
		Codec:                   CodecH264,
		SplitMode:               true,
		InitialPacketBufferSize: defaultPacketBufferSize,
	}
}

// Session owns a Backend for its whole lifetime.
//
// State machine: Uninitialized -> Initialized -> {Decoding <-> Reconfiguring} -> Closed.
//
// A Session is not safe for concurrent use, except for Stats.
type Session struct {
	Backend Backend
	Config  Config

	state             State
	packetBuffer      []byte
	pendingInfoChange RawFrame
	stats             Stats
}

// New binds the input packet onto the initial buffer and opens the
// decoder context. On failure the backend is closed and an ErrInit is
// returned.
func New(
	ctx context.Context,
	backend Backend,
	cfg Config,
) (_ret *Session, _err error) {
	logger.Debugf(ctx, "New(ctx, %T, %#+v)", backend, cfg)
	defer func() { logger.Debugf(ctx, "/New(ctx, %T, %#+v): %v", backend, cfg, _err) }()

	if cfg.InitialPacketBufferSize <= 0 {
		cfg.InitialPacketBufferSize = defaultPacketBufferSize
	}
	s := &Session{
		Backend:      backend,
		Config:       cfg,
		state:        StateUninitialized,
		packetBuffer: make([]byte, cfg.InitialPacketBufferSize),
	}
	s.stats.PacketBufferCapacity.Store(uint64(len(s.packetBuffer)))

	if err := s.initialize(ctx); err != nil {
		if closeErr := backend.Close(ctx); closeErr != nil {
			logger.Errorf(ctx, "unable to close the decoder backend: %v", closeErr)
		}
		s.state = StateClosed
		return nil, err
	}
	s.state = StateInitialized
	return s, nil
}

func (s *Session) initialize(ctx context.Context) error {
	if err := s.Backend.InitPacket(ctx, s.packetBuffer); err != nil {
		return ErrInit{Step: InitStepPacket, Err: err}
	}
	if err := s.Backend.Create(ctx); err != nil {
		return ErrInit{Step: InitStepCreate, Err: err}
	}
	if err := s.Backend.SetSplitMode(ctx, s.Config.SplitMode); err != nil {
		return ErrInit{Step: InitStepSplitMode, Err: err}
	}
	if err := s.Backend.Init(ctx, s.Config.Codec); err != nil {
		return ErrInit{Step: InitStepInit, Err: err}
	}
	return nil
}

func (s *Session) String() string {
	return fmt.Sprintf("DecoderSession(%s, %s)", s.Config.Codec, s.state)
}

func (s *Session) State() State {
	return s.state
}

func (s *Session) Stats() *Stats {
	return &s.stats
}

func (s *Session) PacketBufferCapacity() int {
	return len(s.packetBuffer)
}

// Submit copies the access unit, prefixed with a start code, into the input
// packet buffer and hands it to the decoder. Any failure is an ErrSubmit;
// there are no retries.
func (s *Session) Submit(
	ctx context.Context,
	au []byte,
) (_err error) {
	logger.Tracef(ctx, "Submit: %d bytes", len(au))
	defer func() { logger.Tracef(ctx, "/Submit: %d bytes: %v", len(au), _err) }()

	switch s.state {
	case StateClosed:
		return ErrClosed{}
	case StateInitialized, StateDecoding:
	default:
		return ErrInvalidState{Operation: "Submit", State: s.state}
	}

	size := types.H264StartCodeLength + len(au)
	if size > len(s.packetBuffer) {
		if err := s.growPacketBuffer(ctx, size); err != nil {
			return ErrSubmit{Size: len(au), Err: err}
		}
	}
	copy(s.packetBuffer, types.H264StartCode[:])
	copy(s.packetBuffer[types.H264StartCodeLength:], au)

	if err := s.Backend.PutPacket(ctx, s.packetBuffer[:size]); err != nil {
		return ErrSubmit{Size: len(au), Err: err}
	}
	s.state = StateDecoding
	s.stats.AccessUnits.Inc()
	s.stats.BytesSubmitted.Add(uint64(size))
	return nil
}

func (s *Session) growPacketBuffer(
	ctx context.Context,
	size int,
) error {
	logger.Debugf(ctx, "growing the packet buffer: %s -> %s",
		humanize.IBytes(uint64(len(s.packetBuffer))), humanize.IBytes(uint64(size)),
	)
	buf := make([]byte, size)
	if err := s.Backend.InitPacket(ctx, buf); err != nil {
		return fmt.Errorf("unable to re-initialize the input packet with %d bytes: %w", size, err)
	}
	s.packetBuffer = buf
	s.stats.PacketBufferCapacity.Store(uint64(size))
	return nil
}

// Poll checks once for decoder output.
//
// On EventFrame, onFrame (if not nil) receives the frame; the frame is
// released once onFrame returns, whatever way it returns, so it must not
// be retained. A frame without a buffer (ErrNoBuffer) or in a pixel format
// other than YUV420SP (ErrUnsupportedPixelFormat) is released and reported
// as an error without calling onFrame.
//
// On EventFormatChange the session enters the Reconfiguring state and
// Reconfigure must be called before anything else.
func (s *Session) Poll(
	ctx context.Context,
	onFrame func(ctx context.Context, f *Frame) error,
) (_ev Event, _err error) {
	logger.Tracef(ctx, "Poll")
	defer func() { logger.Tracef(ctx, "/Poll: %s: %v", _ev, _err) }()

	switch s.state {
	case StateClosed:
		return EventNone, ErrClosed{}
	case StateInitialized, StateDecoding:
	default:
		return EventNone, ErrInvalidState{Operation: "Poll", State: s.state}
	}

	raw, err := s.Backend.GetFrame(ctx)
	if err != nil {
		return EventNone, ErrGetFrame{Err: err}
	}
	if raw == nil {
		return EventNone, nil
	}
	s.stats.FramesRetrieved.Inc()

	if raw.IsInfoChange() {
		logger.Debugf(ctx, "the decoder reported a format change: %s", raw.Info())
		s.pendingInfoChange = raw
		s.state = StateReconfiguring
		s.stats.FormatChanges.Inc()
		return EventFormatChange, nil
	}

	f := &Frame{FrameInfo: raw.Info()}
	defer s.release(raw, f)

	if f.Buffer == 0 {
		return EventFrame, ErrNoBuffer{}
	}
	if f.PixelFormat != types.PixelFormatYUV420SP {
		return EventFrame, ErrUnsupportedPixelFormat{PixelFormat: f.PixelFormat}
	}
	if onFrame == nil {
		return EventFrame, nil
	}
	return EventFrame, onFrame(ctx, f)
}

// Reconfigure completes the format change handshake: it attaches a new
// DRM-backed output buffer group and acknowledges the change. It returns
// the format the decoder announced.
func (s *Session) Reconfigure(
	ctx context.Context,
) (_ret FrameInfo, _err error) {
	logger.Debugf(ctx, "Reconfigure")
	defer func() { logger.Debugf(ctx, "/Reconfigure: %s: %v", _ret, _err) }()

	switch s.state {
	case StateClosed:
		return FrameInfo{}, ErrClosed{}
	case StateReconfiguring:
	default:
		return FrameInfo{}, ErrInvalidState{Operation: "Reconfigure", State: s.state}
	}

	raw := s.pendingInfoChange
	s.pendingInfoChange = nil
	defer s.release(raw, nil)
	info := raw.Info()

	if err := s.Backend.AttachBufferGroup(ctx); err != nil {
		return info, ErrBufferGroup{Err: err}
	}
	if err := s.Backend.AckInfoChange(ctx); err != nil {
		return info, ErrBufferGroup{Err: fmt.Errorf("unable to acknowledge the format change: %w", err)}
	}
	s.state = StateDecoding
	return info, nil
}

func (s *Session) release(raw RawFrame, f *Frame) {
	raw.Deinit()
	s.stats.FramesReleased.Inc()
	if f != nil {
		f.released = true
	}
}

// Close is idempotent.
func (s *Session) Close(ctx context.Context) (_err error) {
	logger.Debugf(ctx, "Close")
	defer func() { logger.Debugf(ctx, "/Close: %v", _err) }()

	if s.state == StateClosed {
		return nil
	}
	if s.pendingInfoChange != nil {
		s.release(s.pendingInfoChange, nil)
		s.pendingInfoChange = nil
	}
	s.state = StateClosed
	return s.Backend.Close(ctx)
}
