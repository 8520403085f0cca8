// demuxer.go reads the H.264 track of progressive MP4 files without libav.

// Package mp4 implements demuxer.Demuxer for progressive (non-fragmented)
// MP4 files in pure Go.
package mp4

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/Eyevinn/mp4ff/mp4"
	"github.com/xaionaro-go/hwplayer/demuxer"
	"github.com/xaionaro-go/hwplayer/extradata"
	"github.com/xaionaro-go/hwplayer/logger"
	"github.com/xaionaro-go/hwplayer/types"
	"github.com/xaionaro-go/hwplayer/urltools"
)

const (
	videoHandlerType = "vide"
)

type Demuxer struct {
	Path string

	file       *os.File
	trackIndex int
	stbl       *mp4.StblBox
	extraData  []byte
	timeBase   types.Rational
	sampleNr   uint32
	sampleMax  uint32
}

var _ demuxer.Demuxer = (*Demuxer)(nil)

func Open(
	ctx context.Context,
	path string,
) (_ret *Demuxer, _err error) {
	logger.Debugf(ctx, "Open(ctx, '%s')", path)
	defer func() { logger.Debugf(ctx, "/Open(ctx, '%s'): %v", path, _err) }()

	localPath, isLocal := urltools.LocalPath(path)
	if !isLocal {
		return nil, demuxer.ErrOpen{URL: path, Err: fmt.Errorf("only local files are supported")}
	}
	f, err := os.Open(localPath)
	if err != nil {
		return nil, demuxer.ErrOpen{URL: path, Err: err}
	}
	d := &Demuxer{
		Path:     path,
		file:     f,
		sampleNr: 1,
	}
	if err := d.init(ctx); err != nil {
		d.Close(ctx)
		return nil, err
	}
	return d, nil
}

func (d *Demuxer) init(ctx context.Context) error {
	parsed, err := mp4.DecodeFile(d.file, mp4.WithDecodeMode(mp4.DecModeLazyMdat))
	if err != nil {
		return demuxer.ErrStreamInfo{URL: d.Path, Err: err}
	}
	if parsed.IsFragmented() {
		return demuxer.ErrStreamInfo{URL: d.Path, Err: fmt.Errorf("fragmented MP4 is not supported")}
	}
	if parsed.Moov == nil {
		return demuxer.ErrStreamInfo{URL: d.Path, Err: fmt.Errorf("no moov box found")}
	}

	for idx, trak := range parsed.Moov.Traks {
		if trak.Mdia == nil || trak.Mdia.Hdlr == nil || trak.Mdia.Hdlr.HandlerType != videoHandlerType {
			continue
		}
		if trak.Mdia.Minf == nil || trak.Mdia.Minf.Stbl == nil || trak.Mdia.Minf.Stbl.Stsd == nil {
			continue
		}
		avcC := findAvcC(trak.Mdia.Minf.Stbl.Stsd)
		if avcC == nil {
			logger.Debugf(ctx, "video track #%d is not H.264", idx)
			continue
		}
		stbl := trak.Mdia.Minf.Stbl
		if stbl.Stsz == nil || stbl.Stsc == nil || (stbl.Stco == nil && stbl.Co64 == nil) {
			return demuxer.ErrStreamInfo{URL: d.Path, Err: fmt.Errorf("the sample table of track #%d is incomplete", idx)}
		}

		d.trackIndex = idx
		d.stbl = stbl
		d.sampleMax = stbl.Stsz.SampleNumber
		d.extraData = buildAVCC(avcC.SPSnalus, avcC.PPSnalus)
		timescale := uint32(1000)
		if trak.Mdia.Mdhd != nil && trak.Mdia.Mdhd.Timescale != 0 {
			timescale = trak.Mdia.Mdhd.Timescale
		}
		d.timeBase = types.Rational{Num: 1, Den: int(timescale)}
		logger.Debugf(ctx, "elected track #%d: %d samples, time base %s, extradata %s", idx, d.sampleMax, d.timeBase, extradata.Raw(d.extraData))
		return nil
	}
	return demuxer.ErrNoVideoStream{URL: d.Path}
}

func findAvcC(stsd *mp4.StsdBox) *mp4.AvcCBox {
	for _, child := range stsd.Children {
		if entry, ok := child.(*mp4.VisualSampleEntryBox); ok && entry.AvcC != nil {
			return entry.AvcC
		}
	}
	return nil
}

// buildAVCC serializes an AVCDecoderConfigurationRecord with 4-byte NAL
// unit lengths (the only size mp4ff writes).
func buildAVCC(spsList, ppsList [][]byte) []byte {
	if len(spsList) == 0 || len(spsList[0]) < 4 {
		return nil
	}
	sps := spsList[0]
	b := []byte{0x01, sps[1], sps[2], sps[3], 0xFF, 0xE0 | byte(len(spsList)&0x1F)}
	for _, sps := range spsList {
		b = append(b, byte(len(sps)>>8), byte(len(sps)))
		b = append(b, sps...)
	}
	b = append(b, byte(len(ppsList)))
	for _, pps := range ppsList {
		b = append(b, byte(len(pps)>>8), byte(len(pps)))
		b = append(b, pps...)
	}
	return b
}

func (d *Demuxer) String() string {
	return fmt.Sprintf("MP4(%s)", d.Path)
}

func (d *Demuxer) ExtraData() []byte {
	return d.extraData
}

func (d *Demuxer) TimeBase() types.Rational {
	return d.timeBase
}

func (d *Demuxer) VideoStreamIndex() int {
	return d.trackIndex
}

func (d *Demuxer) ReadSample(ctx context.Context) (*demuxer.Sample, error) {
	if d.sampleNr > d.sampleMax {
		return nil, io.EOF
	}
	sampleNr := d.sampleNr
	data, err := d.readSampleData(sampleNr)
	if err != nil {
		return nil, fmt.Errorf("unable to read sample #%d: %w", sampleNr, err)
	}
	d.sampleNr++

	sample := &demuxer.Sample{
		Data:        data,
		StreamIndex: d.trackIndex,
		KeyFrame:    d.stbl.Stss == nil || d.stbl.Stss.IsSyncSample(sampleNr),
	}
	if d.stbl.Stts != nil {
		decodeTime, _ := d.stbl.Stts.GetDecodeTime(sampleNr)
		sample.DTS = int64(decodeTime)
	}
	sample.PTS = sample.DTS
	if d.stbl.Ctts != nil {
		sample.PTS += int64(d.stbl.Ctts.GetCompositionTimeOffset(sampleNr))
	}
	logger.Tracef(ctx, "read %s", sample)
	return sample, nil
}

func (d *Demuxer) readSampleData(sampleNr uint32) ([]byte, error) {
	chunkNr, firstSampleInChunk, err := d.stbl.Stsc.ChunkNrFromSampleNr(int(sampleNr))
	if err != nil {
		return nil, fmt.Errorf("unable to find the chunk: %w", err)
	}

	var offset uint64
	switch {
	case d.stbl.Stco != nil:
		offset, err = d.stbl.Stco.GetOffset(chunkNr)
		if err != nil {
			return nil, fmt.Errorf("unable to get the offset of chunk #%d: %w", chunkNr, err)
		}
	default:
		if chunkNr < 1 || chunkNr > len(d.stbl.Co64.ChunkOffset) {
			return nil, fmt.Errorf("chunk #%d is out of range", chunkNr)
		}
		offset = d.stbl.Co64.ChunkOffset[chunkNr-1]
	}
	for s := uint32(firstSampleInChunk); s < sampleNr; s++ {
		offset += uint64(d.stbl.Stsz.GetSampleSize(int(s)))
	}

	data := make([]byte, d.stbl.Stsz.GetSampleSize(int(sampleNr)))
	if _, err := d.file.ReadAt(data, int64(offset)); err != nil {
		return nil, err
	}
	return data, nil
}

func (d *Demuxer) Rewind(ctx context.Context) error {
	logger.Debugf(ctx, "Rewind")
	d.sampleNr = 1
	return nil
}

func (d *Demuxer) Close(ctx context.Context) error {
	logger.Debugf(ctx, "Close")
	if d.file == nil {
		return nil
	}
	err := d.file.Close()
	d.file = nil
	return err
}
