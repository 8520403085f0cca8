package imagecache

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/hwplayer/decoder"
	"github.com/xaionaro-go/hwplayer/gpu"
	"github.com/xaionaro-go/hwplayer/types"
)

type fakeImporter struct {
	nextImage  gpu.Image
	imported   []gpu.ImportParams
	live       map[gpu.Image]struct{}
	destroyed  []gpu.Image
	importErr  error
	destroyErr error
}

func newFakeImporter() *fakeImporter {
	return &fakeImporter{nextImage: 100, live: map[gpu.Image]struct{}{}}
}

func (f *fakeImporter) ImportDMABuf(_ context.Context, params gpu.ImportParams) (gpu.Image, error) {
	if f.importErr != nil {
		return 0, f.importErr
	}
	f.nextImage++
	f.imported = append(f.imported, params)
	f.live[f.nextImage] = struct{}{}
	return f.nextImage, nil
}

func (f *fakeImporter) DestroyImage(_ context.Context, img gpu.Image) error {
	delete(f.live, img)
	f.destroyed = append(f.destroyed, img)
	return f.destroyErr
}

func testRequest(buf types.BufferHandle) Request {
	return Request{
		Buffer:     buf,
		FD:         int(buf),
		Width:      1920,
		Height:     1080,
		HorStride:  1920,
		VerStride:  1088,
		ColorSpace: types.ColorSpaceBT709,
		ColorRange: types.ColorRangeMPEG,
	}
}

func TestLookupOrCreateReuses(t *testing.T) {
	ctx := context.Background()
	imp := newFakeImporter()
	c := New(imp, Overrides{})

	img0, err := c.LookupOrCreate(ctx, testRequest(1))
	require.NoError(t, err)
	img1, err := c.LookupOrCreate(ctx, testRequest(2))
	require.NoError(t, err)
	require.NotEqual(t, img0, img1)

	again, err := c.LookupOrCreate(ctx, testRequest(1))
	require.NoError(t, err)
	require.Equal(t, img0, again)
	require.Len(t, imp.imported, 2)
	require.Equal(t, 2, c.Len())
	require.Equal(t, uint64(2), c.Imports())
}

func TestLookupOrCreateMismatchInvalidatesEverything(t *testing.T) {
	changes := map[string]func(r *Request){
		"width":       func(r *Request) { r.Width = 1280 },
		"height":      func(r *Request) { r.Height = 720 },
		"color space": func(r *Request) { r.ColorSpace = types.ColorSpaceBT2020NCL },
		"color range": func(r *Request) { r.ColorRange = types.ColorRangeJPEG },
	}
	for name, change := range changes {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			imp := newFakeImporter()
			c := New(imp, Overrides{})

			img0, err := c.LookupOrCreate(ctx, testRequest(1))
			require.NoError(t, err)
			_, err = c.LookupOrCreate(ctx, testRequest(2))
			require.NoError(t, err)

			req := testRequest(1)
			change(&req)
			img, err := c.LookupOrCreate(ctx, req)
			require.NoError(t, err)
			require.NotEqual(t, img0, img)
			require.Len(t, imp.destroyed, 2)
			require.Len(t, imp.live, 1)
			require.Equal(t, 1, c.Len())
		})
	}
}

func TestImportParams(t *testing.T) {
	ctx := context.Background()
	imp := newFakeImporter()
	c := New(imp, Overrides{})

	req := testRequest(1)
	req.OffsetX = 16
	_, err := c.LookupOrCreate(ctx, req)
	require.NoError(t, err)

	require.Equal(t, gpu.ImportParams{
		FD:     1,
		Width:  1920,
		Height: 1080,
		FourCC: gpu.FourCCNV12,
		Planes: []gpu.Plane{
			{Offset: 16, Pitch: 1920},
			{Offset: 16 + 1920*1088, Pitch: 1920},
		},
		ColorSpace: types.ColorSpaceHintREC709,
		ColorRange: types.ColorRangeHintNarrow,
	}, imp.imported[0])
}

func TestSetOverridesInvalidates(t *testing.T) {
	ctx := context.Background()
	imp := newFakeImporter()
	c := New(imp, Overrides{})

	for _, buf := range []types.BufferHandle{1, 2, 3} {
		_, err := c.LookupOrCreate(ctx, testRequest(buf))
		require.NoError(t, err)
	}

	require.False(t, c.SetOverrides(ctx, Overrides{}))
	require.Equal(t, 3, c.Len())

	require.True(t, c.SetOverrides(ctx, Overrides{ColorSpace: types.ColorSpaceHintREC601}))
	require.Zero(t, c.Len())
	require.Empty(t, imp.live)

	_, err := c.LookupOrCreate(ctx, testRequest(1))
	require.NoError(t, err)
	require.Equal(t, types.ColorSpaceHintREC601, imp.imported[len(imp.imported)-1].ColorSpace)

	require.True(t, c.SetOverrides(ctx, Overrides{ColorSpace: types.ColorSpaceHintREC601, ColorRange: types.ColorRangeHintFull}))
	require.Zero(t, c.Len())
	_, err = c.LookupOrCreate(ctx, testRequest(1))
	require.NoError(t, err)
	require.Equal(t, types.ColorRangeHintFull, imp.imported[len(imp.imported)-1].ColorRange)
}

func TestImportFailure(t *testing.T) {
	imp := newFakeImporter()
	imp.importErr = errors.New("EGL_BAD_MATCH")
	c := New(imp, Overrides{})

	_, err := c.LookupOrCreate(context.Background(), testRequest(7))
	var importErr ErrImport
	require.ErrorAs(t, err, &importErr)
	require.Equal(t, types.BufferHandle(7), importErr.Buffer)
	require.Zero(t, c.Len())
}

func TestInvalidateAllToleratesDestroyFailures(t *testing.T) {
	ctx := context.Background()
	imp := newFakeImporter()
	c := New(imp, Overrides{})
	for _, buf := range []types.BufferHandle{1, 2} {
		_, err := c.LookupOrCreate(ctx, testRequest(buf))
		require.NoError(t, err)
	}

	imp.destroyErr = errors.New("EGL_BAD_PARAMETER")
	require.NoError(t, c.Close(ctx))
	require.Zero(t, c.Len())
	require.Len(t, imp.destroyed, 2)
}

func TestRequestFromFrame(t *testing.T) {
	req := RequestFromFrame(decoder.FrameInfo{
		Width:      640,
		Height:     480,
		HorStride:  640,
		VerStride:  480,
		OffsetX:    2,
		OffsetY:    4,
		ColorSpace: types.ColorSpaceSMPTE170M,
		ColorRange: types.ColorRangeJPEG,
		Buffer:     5,
		FD:         9,
	})
	require.Equal(t, Request{
		Buffer:     5,
		FD:         9,
		Width:      640,
		Height:     480,
		HorStride:  640,
		VerStride:  480,
		OffsetX:    2,
		ColorSpace: types.ColorSpaceSMPTE170M,
		ColorRange: types.ColorRangeJPEG,
	}, req)
}
