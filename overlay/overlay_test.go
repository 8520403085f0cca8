package overlay

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/hwplayer/decoder"
	"github.com/xaionaro-go/hwplayer/imagecache"
	"github.com/xaionaro-go/hwplayer/types"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line      string
		want      imagecache.Overrides
		expectErr bool
	}{
		{line: "space rec601", want: imagecache.Overrides{ColorSpace: types.ColorSpaceHintREC601, ColorRange: types.ColorRangeHintFull}},
		{line: "SPACE   Rec2020", want: imagecache.Overrides{ColorSpace: types.ColorSpaceHintREC2020, ColorRange: types.ColorRangeHintFull}},
		{line: "range narrow", want: imagecache.Overrides{ColorSpace: types.ColorSpaceHintREC709, ColorRange: types.ColorRangeHintNarrow}},
		{line: "range auto", want: imagecache.Overrides{ColorSpace: types.ColorSpaceHintREC709, ColorRange: types.ColorRangeHintAuto}},
		{line: "reset", want: imagecache.Overrides{}},
		{line: "", expectErr: true},
		{line: "space", expectErr: true},
		{line: "space bt709", expectErr: true},
		{line: "range full narrow", expectErr: true},
		{line: "reset now", expectErr: true},
		{line: "brightness 10", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			cmd, err := ParseCommand(tt.line)
			if tt.expectErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			o := imagecache.Overrides{ColorSpace: types.ColorSpaceHintREC709, ColorRange: types.ColorRangeHintFull}
			cmd(&o)
			require.Equal(t, tt.want, o)
		})
	}
}

func TestStatic(t *testing.T) {
	ctx := context.Background()
	s := NewStatic()
	diag := Diagnostics{
		Frame:     decoder.FrameInfo{Width: 1280, Height: 720},
		HasFrame:  true,
		Overrides: imagecache.Overrides{ColorSpace: types.ColorSpaceHintREC601},
	}
	for range 3 {
		overrides, changed := s.Render(ctx, diag)
		require.False(t, changed)
		require.Equal(t, diag.Overrides, overrides)
	}
	require.True(t, s.hasFrame)
	require.Equal(t, uint32(1280), s.lastFrame.Width)

	diag.Frame.Width = 1920
	s.Render(ctx, diag)
	require.Equal(t, uint32(1920), s.lastFrame.Width)
}

func TestConsole(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := NewConsole(ctx, strings.NewReader("space rec2020\n\nbogus\nrange full\n"))
	select {
	case <-c.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("the console reader did not finish")
	}

	diag := Diagnostics{Overrides: imagecache.Overrides{}}
	overrides, changed := c.Render(ctx, diag)
	require.True(t, changed)
	require.Equal(t, imagecache.Overrides{
		ColorSpace: types.ColorSpaceHintREC2020,
		ColorRange: types.ColorRangeHintFull,
	}, overrides)

	diag.Overrides = overrides
	overrides, changed = c.Render(ctx, diag)
	require.False(t, changed)
	require.Equal(t, diag.Overrides, overrides)
	require.NoError(t, c.Close(ctx))
}

func TestConsoleCommandThatChangesNothing(t *testing.T) {
	ctx := context.Background()
	c := NewConsole(ctx, strings.NewReader("space rec709\n"))
	<-c.Done()

	diag := Diagnostics{Overrides: imagecache.Overrides{ColorSpace: types.ColorSpaceHintREC709}}
	_, changed := c.Render(ctx, diag)
	require.False(t, changed)
}

func TestDiagnosticsString(t *testing.T) {
	require.Contains(t, Diagnostics{}.String(), "no frame yet")
	diag := Diagnostics{
		Frame:    decoder.FrameInfo{Width: 1920, Height: 1080, HorStride: 1920, VerStride: 1088},
		HasFrame: true,
	}
	require.Contains(t, diag.String(), "1920x1080 (stride 1920x1088)")
}
