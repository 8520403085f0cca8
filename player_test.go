package hwplayer

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/hwplayer/decoder"
	"github.com/xaionaro-go/hwplayer/demuxer"
	"github.com/xaionaro-go/hwplayer/gpu"
	"github.com/xaionaro-go/hwplayer/imagecache"
	"github.com/xaionaro-go/hwplayer/overlay"
	"github.com/xaionaro-go/hwplayer/types"
)

var (
	testSPS = []byte{0x67, 0x64, 0x00, 0x1F, 0xAC}
	testPPS = []byte{0x68, 0xEE, 0x3C, 0x80}
)

func testExtraData() []byte {
	b := []byte{0x01, 0x64, 0x00, 0x1F, 0xFF, 0xE1, 0x00, byte(len(testSPS))}
	b = append(b, testSPS...)
	b = append(b, 0x01, 0x00, byte(len(testPPS)))
	return append(b, testPPS...)
}

type events []string

func (e *events) add(s string) { *e = append(*e, s) }

type fakeDemuxer struct {
	events      *events
	samples     []*demuxer.Sample
	pos         int
	reads       int
	rewinds     int
	readErr     error
	rewindErr   error
	extraData   []byte
	closed      bool
	videoStream int
}

func (d *fakeDemuxer) ExtraData() []byte        { return d.extraData }
func (d *fakeDemuxer) TimeBase() types.Rational { return types.Rational{Num: 1, Den: 30} }
func (d *fakeDemuxer) VideoStreamIndex() int    { return d.videoStream }

func (d *fakeDemuxer) Rewind(context.Context) error {
	d.rewinds++
	d.pos = 0
	return d.rewindErr
}

func (d *fakeDemuxer) ReadSample(context.Context) (*demuxer.Sample, error) {
	d.reads++
	if d.readErr != nil {
		return nil, d.readErr
	}
	if d.pos >= len(d.samples) {
		return nil, io.EOF
	}
	s := d.samples[d.pos]
	d.pos++
	return s, nil
}

func (d *fakeDemuxer) Close(context.Context) error {
	d.closed = true
	d.events.add("demuxer.Close")
	return nil
}

type fakeRawFrame struct {
	backend    *fakeBackend
	infoChange bool
	info       decoder.FrameInfo
}

func (f *fakeRawFrame) IsInfoChange() bool      { return f.infoChange }
func (f *fakeRawFrame) Info() decoder.FrameInfo { return f.info }
func (f *fakeRawFrame) Deinit()                 { f.backend.deinits++ }

type fakeBackend struct {
	events       *events
	failOn       map[string]error
	packetBuffer []byte
	submitted    [][]byte
	frames       []*fakeRawFrame
	handedOut    int
	deinits      int
	acks         int
}

func (b *fakeBackend) call(name string) error {
	b.events.add("backend." + name)
	return b.failOn[name]
}

func (b *fakeBackend) Create(context.Context) error              { return b.call("Create") }
func (b *fakeBackend) SetSplitMode(context.Context, bool) error  { return b.call("SetSplitMode") }
func (b *fakeBackend) Init(context.Context, decoder.Codec) error { return b.call("Init") }
func (b *fakeBackend) AttachBufferGroup(context.Context) error   { return b.call("AttachBufferGroup") }
func (b *fakeBackend) Close(context.Context) error               { return b.call("Close") }

func (b *fakeBackend) AckInfoChange(context.Context) error {
	b.acks++
	return b.call("AckInfoChange")
}

func (b *fakeBackend) InitPacket(_ context.Context, buf []byte) error {
	b.packetBuffer = buf
	return b.call("InitPacket")
}

func (b *fakeBackend) PutPacket(_ context.Context, data []byte) error {
	if err := b.call("PutPacket"); err != nil {
		return err
	}
	b.submitted = append(b.submitted, append([]byte(nil), data...))
	return nil
}

func (b *fakeBackend) GetFrame(context.Context) (decoder.RawFrame, error) {
	if err := b.failOn["GetFrame"]; err != nil {
		return nil, err
	}
	if len(b.frames) == 0 {
		return nil, nil
	}
	f := b.frames[0]
	b.frames = b.frames[1:]
	f.backend = b
	b.handedOut++
	return f, nil
}

type fakeGPU struct {
	events     *events
	failOn     map[string]error
	nextImage  gpu.Image
	imports    []gpu.ImportParams
	destroyed  []gpu.Image
	draws      int
	presented  []*gpu.Target
	pollEvents int
	closeAfter int
}

func (g *fakeGPU) ImportDMABuf(_ context.Context, params gpu.ImportParams) (gpu.Image, error) {
	if err := g.failOn["ImportDMABuf"]; err != nil {
		return 0, err
	}
	g.nextImage++
	g.imports = append(g.imports, params)
	return g.nextImage, nil
}

func (g *fakeGPU) DestroyImage(_ context.Context, img gpu.Image) error {
	g.events.add("gpu.DestroyImage")
	g.destroyed = append(g.destroyed, img)
	return nil
}

func (g *fakeGPU) CreateTarget(_ context.Context, width, height uint32) (*gpu.Target, error) {
	if err := g.failOn["CreateTarget"]; err != nil {
		return nil, err
	}
	return &gpu.Target{Framebuffer: 1, Texture: 2, Width: width, Height: height}, nil
}

func (g *fakeGPU) DestroyTarget(context.Context, *gpu.Target) error {
	g.events.add("gpu.DestroyTarget")
	return nil
}

func (g *fakeGPU) DrawExternal(context.Context, *gpu.Target, gpu.Image) error {
	g.draws++
	return g.failOn["DrawExternal"]
}

func (g *fakeGPU) CreateFence(context.Context) (gpu.Fence, error) { return 1, nil }
func (g *fakeGPU) WaitFence(context.Context, gpu.Fence) error     { return nil }
func (g *fakeGPU) DestroyFence(context.Context, gpu.Fence) error  { return nil }

func (g *fakeGPU) PollEvents(context.Context) error {
	g.pollEvents++
	return nil
}

func (g *fakeGPU) ShouldClose() bool {
	return g.closeAfter > 0 && g.pollEvents >= g.closeAfter
}

func (g *fakeGPU) Present(_ context.Context, target *gpu.Target) error {
	if err := g.failOn["Present"]; err != nil {
		return err
	}
	g.presented = append(g.presented, target)
	return nil
}

func (g *fakeGPU) Close(context.Context) error {
	g.events.add("gpu.Close")
	return nil
}

type fakeOverlay struct {
	events    *events
	overrides *imagecache.Overrides
	renders   []overlay.Diagnostics
}

func (o *fakeOverlay) Render(_ context.Context, diag overlay.Diagnostics) (imagecache.Overrides, bool) {
	o.renders = append(o.renders, diag)
	if o.overrides == nil {
		return diag.Overrides, false
	}
	overrides := *o.overrides
	o.overrides = nil
	return overrides, overrides != diag.Overrides
}

func (o *fakeOverlay) Close(context.Context) error {
	o.events.add("overlay.Close")
	return nil
}

type testEnv struct {
	events  events
	now     time.Time
	demuxer *fakeDemuxer
	backend *fakeBackend
	gpu     *fakeGPU
	overlay *fakeOverlay
	config  Config
}

func newTestEnv() *testEnv {
	env := &testEnv{now: time.Unix(1000, 0)}
	env.demuxer = &fakeDemuxer{events: &env.events, extraData: testExtraData()}
	env.backend = &fakeBackend{events: &env.events, failOn: map[string]error{}}
	env.gpu = &fakeGPU{events: &env.events, failOn: map[string]error{}}
	env.overlay = &fakeOverlay{events: &env.events}
	env.config = DefaultConfig()
	env.config.SleepInterval = time.Millisecond
	env.config.Now = func() time.Time { return env.now }
	return env
}

func (env *testEnv) newPlayer(t *testing.T) *Player {
	p, err := New(context.Background(), env.demuxer, env.backend, env.gpu, env.overlay, env.config)
	require.NoError(t, err)
	return p
}

func videoSample(pts int64, nalus ...[]byte) *demuxer.Sample {
	var data []byte
	for _, nalu := range nalus {
		data = append(data, 0, 0, 0, byte(len(nalu)))
		data = append(data, nalu...)
	}
	return &demuxer.Sample{Data: data, PTS: pts, DTS: pts}
}

func testFrameInfo(buf types.BufferHandle) decoder.FrameInfo {
	return decoder.FrameInfo{
		Width:       1280,
		Height:      720,
		HorStride:   1280,
		VerStride:   720,
		PixelFormat: types.PixelFormatYUV420SP,
		ColorSpace:  types.ColorSpaceBT709,
		ColorRange:  types.ColorRangeMPEG,
		Buffer:      buf,
		FD:          int(buf) + 10,
	}
}

func annexB(nalus ...[]byte) []byte {
	var b []byte
	for _, nalu := range nalus {
		b = append(b, 0, 0, 0, 1)
		b = append(b, nalu...)
	}
	return b
}

func TestNewSubmitsParameterSets(t *testing.T) {
	env := newTestEnv()
	p := env.newPlayer(t)
	require.Len(t, env.backend.submitted, 1)
	require.Equal(t, annexB(testSPS, testPPS), env.backend.submitted[0])
	require.Equal(t, decoder.StateDecoding, p.Session.State())
	require.NoError(t, p.Close(context.Background()))
}

func TestNewWithoutParameterSets(t *testing.T) {
	env := newTestEnv()
	env.demuxer.extraData = []byte{0x00, 0x01}
	p := env.newPlayer(t)
	require.Empty(t, env.backend.submitted)
	require.Equal(t, decoder.StateInitialized, p.Session.State())
	require.Equal(t, 4, p.framer.LengthSize)
}

func TestNewFailures(t *testing.T) {
	tests := []struct {
		failOn   string
		step     Step
		exitCode int
	}{
		{"InitPacket", StepPacketInit, 21},
		{"Create", StepDecoderCreate, 22},
		{"SetSplitMode", StepSplitMode, 23},
		{"Init", StepDecoderInit, 24},
		{"PutPacket", StepParameterSets, 25},
	}

	for _, tt := range tests {
		t.Run(tt.failOn, func(t *testing.T) {
			env := newTestEnv()
			env.backend.failOn[tt.failOn] = errors.New("boom")
			_, err := New(context.Background(), env.demuxer, env.backend, env.gpu, env.overlay, env.config)
			require.Error(t, err)

			var errInit ErrInit
			require.ErrorAs(t, err, &errInit)
			require.Equal(t, tt.step, errInit.Step)
			require.Equal(t, tt.exitCode, ExitCode(err))

			require.True(t, env.demuxer.closed)
			require.Contains(t, env.events, "gpu.Close")
			require.Contains(t, env.events, "overlay.Close")
		})
	}
}

func TestIterateFramesAndSubmits(t *testing.T) {
	env := newTestEnv()
	env.demuxer.samples = []*demuxer.Sample{
		videoSample(0, []byte{0x65, 1, 2}, []byte{0x41, 9}),
	}
	p := env.newPlayer(t)
	ctx := context.Background()

	require.NoError(t, p.Iterate(ctx))
	require.Equal(t, [][]byte{
		annexB(testSPS, testPPS),
		annexB([]byte{0x65, 1, 2}),
		annexB([]byte{0x41, 9}),
	}, env.backend.submitted)
	require.Equal(t, uint64(3), p.Stats().AccessUnits)
	require.Empty(t, env.gpu.presented)
	require.Equal(t, 1, env.gpu.pollEvents)
	require.Len(t, env.overlay.renders, 1)
	require.False(t, env.overlay.renders[0].HasFrame)
}

func TestIteratePacing(t *testing.T) {
	env := newTestEnv()
	audio := videoSample(0, []byte{0x01})
	audio.StreamIndex = 1
	env.demuxer.samples = []*demuxer.Sample{
		videoSample(0, []byte{0x65}),
		audio,
		videoSample(30, []byte{0x41}),
	}
	p := env.newPlayer(t)
	ctx := context.Background()

	require.NoError(t, p.Iterate(ctx))
	require.Equal(t, 1, env.demuxer.reads)

	// the first sample is due immediately; the audio one is skipped
	require.NoError(t, p.Iterate(ctx))
	require.Equal(t, 3, env.demuxer.reads)
	require.Len(t, env.backend.submitted, 3)

	// the sample at 30/30s is held back for a second
	env.now = env.now.Add(999 * time.Millisecond)
	require.NoError(t, p.Iterate(ctx))
	require.Equal(t, 3, env.demuxer.reads)

	env.now = env.now.Add(time.Millisecond)
	require.NoError(t, p.Iterate(ctx))
	require.Equal(t, 4, env.demuxer.reads)
	require.Equal(t, 1, env.demuxer.rewinds)
	require.Equal(t, uint64(1), p.Loops())
	require.Equal(t, env.now, p.Clock.Start())
	require.Len(t, env.backend.submitted, 3)

	// after the loop the timeline restarts from the rewind instant
	require.NoError(t, p.Iterate(ctx))
	require.Equal(t, 5, env.demuxer.reads)
	require.Len(t, env.backend.submitted, 4)
}

func TestIteratePresentsFrames(t *testing.T) {
	env := newTestEnv()
	env.backend.frames = []*fakeRawFrame{
		{info: testFrameInfo(5)},
		{info: testFrameInfo(5)},
		{info: testFrameInfo(6)},
	}
	p := env.newPlayer(t)
	ctx := context.Background()

	for range 3 {
		require.NoError(t, p.Iterate(ctx))
	}
	require.Equal(t, 3, env.backend.deinits)
	require.Len(t, env.gpu.imports, 2)
	require.Equal(t, 3, env.gpu.draws)
	require.Len(t, env.gpu.presented, 3)
	require.Equal(t, uint32(1280), env.gpu.presented[0].Width)
	require.Equal(t, 2, p.Cache.Len())

	params := env.gpu.imports[0]
	require.Equal(t, 15, params.FD)
	require.Equal(t, gpu.FourCCNV12, params.FourCC)
	require.Equal(t, []gpu.Plane{{Offset: 0, Pitch: 1280}, {Offset: 1280 * 720, Pitch: 1280}}, params.Planes)
	require.Equal(t, types.ColorSpaceHintREC709, params.ColorSpace)
	require.Equal(t, types.ColorRangeHintNarrow, params.ColorRange)

	diag := env.overlay.renders[len(env.overlay.renders)-1]
	require.True(t, diag.HasFrame)
	require.Equal(t, types.BufferHandle(6), diag.Frame.Buffer)
	require.Equal(t, 2, diag.CachedImages)
}

func TestIterateFormatChange(t *testing.T) {
	env := newTestEnv()
	env.backend.frames = []*fakeRawFrame{
		{infoChange: true, info: decoder.FrameInfo{Width: 1920, Height: 1080}},
		{info: testFrameInfo(5)},
	}
	p := env.newPlayer(t)
	ctx := context.Background()

	require.NoError(t, p.Iterate(ctx))
	require.Contains(t, env.events, "backend.AttachBufferGroup")
	require.Equal(t, 1, env.backend.acks)
	require.Equal(t, 1, env.backend.deinits)
	require.Equal(t, decoder.StateDecoding, p.Session.State())
	require.Empty(t, env.gpu.presented)

	require.NoError(t, p.Iterate(ctx))
	require.Equal(t, 2, env.backend.deinits)
	require.Len(t, env.gpu.presented, 1)
}

func TestIterateOverrideChange(t *testing.T) {
	env := newTestEnv()
	env.backend.frames = []*fakeRawFrame{
		{info: testFrameInfo(5)},
		{info: testFrameInfo(5)},
	}
	p := env.newPlayer(t)
	ctx := context.Background()

	require.NoError(t, p.Iterate(ctx))
	require.Len(t, env.gpu.imports, 1)

	env.overlay.overrides = &imagecache.Overrides{ColorSpace: types.ColorSpaceHintREC2020, ColorRange: types.ColorRangeHintFull}
	require.NoError(t, p.Iterate(ctx))
	require.Len(t, env.gpu.destroyed, 1)
	require.Equal(t, imagecache.Overrides{ColorSpace: types.ColorSpaceHintREC2020, ColorRange: types.ColorRangeHintFull}, p.Cache.Overrides())

	require.NoError(t, p.Iterate(ctx))
	require.Len(t, env.gpu.imports, 2)
	require.Equal(t, types.ColorSpaceHintREC2020, env.gpu.imports[1].ColorSpace)
	require.Equal(t, types.ColorRangeHintFull, env.gpu.imports[1].ColorRange)
}

func TestIterateRuntimeFailures(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(env *testEnv)
		step     Step
		exitCode int
	}{
		{
			name:     "rewind",
			setup:    func(env *testEnv) { env.demuxer.rewindErr = errors.New("boom") },
			step:     StepRewind,
			exitCode: 26,
		},
		{
			name:     "read",
			setup:    func(env *testEnv) { env.demuxer.readErr = errors.New("boom") },
			step:     StepRead,
			exitCode: 27,
		},
		{
			name: "submit",
			setup: func(env *testEnv) {
				env.demuxer.samples = []*demuxer.Sample{videoSample(0, []byte{0x65})}
				env.backend.failOn["PutPacket"] = errors.New("boom")
			},
			step:     StepSubmit,
			exitCode: 28,
		},
		{
			name:     "get_frame",
			setup:    func(env *testEnv) { env.backend.failOn["GetFrame"] = errors.New("boom") },
			step:     StepGetFrame,
			exitCode: 29,
		},
		{
			name: "buffer_group",
			setup: func(env *testEnv) {
				env.backend.frames = []*fakeRawFrame{{infoChange: true}}
				env.backend.failOn["AttachBufferGroup"] = errors.New("boom")
			},
			step:     StepBufferGroup,
			exitCode: 30,
		},
		{
			name: "missing_buffer",
			setup: func(env *testEnv) {
				env.backend.frames = []*fakeRawFrame{{info: testFrameInfo(0)}}
			},
			step:     StepMissingBuffer,
			exitCode: 31,
		},
		{
			name: "pixel_format",
			setup: func(env *testEnv) {
				info := testFrameInfo(5)
				info.PixelFormat = types.PixelFormatYUV420SP10Bit
				env.backend.frames = []*fakeRawFrame{{info: info}}
			},
			step:     StepPixelFormat,
			exitCode: 32,
		},
		{
			name: "image_import",
			setup: func(env *testEnv) {
				env.backend.frames = []*fakeRawFrame{{info: testFrameInfo(5)}}
				env.gpu.failOn["ImportDMABuf"] = errors.New("boom")
			},
			step:     StepImageImport,
			exitCode: 33,
		},
		{
			name: "render_target",
			setup: func(env *testEnv) {
				env.backend.frames = []*fakeRawFrame{{info: testFrameInfo(5)}}
				env.gpu.failOn["CreateTarget"] = errors.New("boom")
			},
			step:     StepRenderTarget,
			exitCode: 34,
		},
		{
			name: "draw",
			setup: func(env *testEnv) {
				env.backend.frames = []*fakeRawFrame{{info: testFrameInfo(5)}}
				env.gpu.failOn["DrawExternal"] = errors.New("boom")
			},
			step:     StepDraw,
			exitCode: 35,
		},
		{
			name: "present",
			setup: func(env *testEnv) {
				env.backend.frames = []*fakeRawFrame{{info: testFrameInfo(5)}}
				env.gpu.failOn["Present"] = errors.New("boom")
			},
			step:     StepPresent,
			exitCode: 36,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv()
			p := env.newPlayer(t)
			tt.setup(env)

			err := p.Iterate(context.Background())
			require.Error(t, err)
			var errRuntime ErrRuntime
			require.ErrorAs(t, err, &errRuntime)
			require.Equal(t, tt.step, errRuntime.Step)
			require.Equal(t, tt.exitCode, ExitCode(err))

			// whatever failed, every retrieved frame was released
			require.Equal(t, env.backend.handedOut, env.backend.deinits)
		})
	}
}

func TestServe(t *testing.T) {
	t.Run("cancelled", func(t *testing.T) {
		env := newTestEnv()
		p := env.newPlayer(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.NoError(t, p.Serve(ctx))
		require.Zero(t, env.demuxer.reads)
	})

	t.Run("surface_closed", func(t *testing.T) {
		env := newTestEnv()
		env.gpu.closeAfter = 3
		p := env.newPlayer(t)
		require.NoError(t, p.Serve(context.Background()))
		require.Equal(t, 3, env.gpu.pollEvents)
	})

	t.Run("fatal", func(t *testing.T) {
		env := newTestEnv()
		env.demuxer.readErr = errors.New("boom")
		p := env.newPlayer(t)
		err := p.Serve(context.Background())
		require.Error(t, err)
		require.Equal(t, 27, ExitCode(err))
	})
}

func TestCloseReleasesInReverseOrder(t *testing.T) {
	env := newTestEnv()
	env.backend.frames = []*fakeRawFrame{{info: testFrameInfo(5)}}
	p := env.newPlayer(t)
	ctx := context.Background()
	require.NoError(t, p.Iterate(ctx))

	env.events = nil
	require.NoError(t, p.Close(ctx))
	require.Equal(t, events{
		"gpu.DestroyTarget",
		"gpu.DestroyImage",
		"backend.Close",
		"overlay.Close",
		"gpu.Close",
		"demuxer.Close",
	}, env.events)
	require.Equal(t, decoder.StateClosed, p.Session.State())
}
