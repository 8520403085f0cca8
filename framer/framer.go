// framer.go converts length-prefixed (AVCC) samples into the access units fed to the decoder.

// Package framer splits container samples into access units.
package framer

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/hwplayer/extradata"
	"github.com/xaionaro-go/hwplayer/logger"
)

const (
	defaultLengthSize = 4
)

// AccessUnit is one NAL unit payload without any start code or length prefix.
//
// It aliases the sample it was cut from, so it is valid only until the
// emit callback returns.
type AccessUnit []byte

// EmitFunc consumes one access unit. A returned error aborts the framing
// of the sample and is passed back to the caller as is.
type EmitFunc func(ctx context.Context, au AccessUnit) error

type Framer struct {
	LengthSize int
}

// New returns a Framer reading NAL length prefixes of lengthSize bytes (1..4).
func New(lengthSize int) (*Framer, error) {
	if lengthSize < 1 || lengthSize > 4 {
		return nil, fmt.Errorf("invalid NAL unit length prefix size: %d", lengthSize)
	}
	return &Framer{
		LengthSize: lengthSize,
	}, nil
}

// NewFromExtraData returns a Framer using the NAL length prefix size declared
// by the stream's avcC record (4 if it cannot be told).
func NewFromExtraData(extraData []byte) *Framer {
	f, err := New(extradata.NALULengthSizeOf(extraData))
	if err != nil {
		return &Framer{LengthSize: defaultLengthSize}
	}
	return f
}

func (f *Framer) String() string {
	return fmt.Sprintf("Framer(length_size:%d)", f.LengthSize)
}

// Frame emits every NAL unit of the sample, in order, and returns how many
// were emitted.
//
// A length prefix that declares more bytes than remain in the sample ends
// the processing of the sample: the remainder is discarded with a warning and
// no error is returned. Zero-length NAL units are skipped.
func (f *Framer) Frame(
	ctx context.Context,
	sample []byte,
	emit EmitFunc,
) (_count int, _err error) {
	logger.Tracef(ctx, "Frame: %d bytes", len(sample))
	defer func() { logger.Tracef(ctx, "/Frame: %d: %v", _count, _err) }()

	lengthSize := f.LengthSize
	if lengthSize == 0 {
		lengthSize = defaultLengthSize
	}

	pos := 0
	for len(sample)-pos > lengthSize {
		naluSize := readLength(sample[pos:], lengthSize)
		pos += lengthSize
		remaining := len(sample) - pos
		if naluSize > uint64(remaining) {
			logger.Warnf(ctx, "%v", ErrIllegalLength{
				Offset:    pos - lengthSize,
				Declared:  naluSize,
				Remaining: remaining,
			})
			return _count, nil
		}
		if naluSize == 0 {
			continue
		}
		end := pos + int(naluSize)
		if err := emit(ctx, AccessUnit(sample[pos:end])); err != nil {
			return _count, err
		}
		_count++
		pos = end
	}
	if pos < len(sample) {
		logger.Debugf(ctx, "discarding %d trailing bytes of a sample", len(sample)-pos)
	}
	return _count, nil
}

func readLength(b []byte, size int) uint64 {
	var v uint64
	for _, c := range b[:size] {
		v = v<<8 | uint64(c)
	}
	return v
}
