// demuxer.go defines the container demuxer collaborator of the player.

// Package demuxer describes where the compressed samples come from.
package demuxer

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/hwplayer/types"
)

// Sample is one compressed video sample: length-prefixed NAL units.
type Sample struct {
	Data        []byte
	PTS         int64
	DTS         int64
	StreamIndex int
	KeyFrame    bool
}

func (s *Sample) String() string {
	return fmt.Sprintf("sample{stream:%d pts:%d dts:%d key:%t len:%d}", s.StreamIndex, s.PTS, s.DTS, s.KeyFrame, len(s.Data))
}

// Demuxer is not required to be safe for concurrent use.
type Demuxer interface {
	// ExtraData is the codec configuration of the video stream (avcC).
	ExtraData() []byte

	TimeBase() types.Rational
	VideoStreamIndex() int

	// ReadSample returns the next sample, io.EOF at the end. Samples of other
	// streams than VideoStreamIndex may be returned and are to be skipped.
	ReadSample(ctx context.Context) (*Sample, error)

	// Rewind seeks back to the beginning of the input.
	Rewind(ctx context.Context) error

	Close(ctx context.Context) error
}

type ErrNoVideoStream struct {
	URL string
}

func (e ErrNoVideoStream) Error() string {
	return fmt.Sprintf("no H.264 video stream found in '%s'", e.URL)
}

// ErrOpen wraps a failure to open the input; ErrStreamInfo a failure to
// probe its streams.
type ErrOpen struct {
	URL string
	Err error
}

func (e ErrOpen) Error() string {
	return fmt.Sprintf("unable to open '%s': %v", e.URL, e.Err)
}

func (e ErrOpen) Unwrap() error {
	return e.Err
}

type ErrStreamInfo struct {
	URL string
	Err error
}

func (e ErrStreamInfo) Error() string {
	return fmt.Sprintf("unable to get the stream info of '%s': %v", e.URL, e.Err)
}

func (e ErrStreamInfo) Unwrap() error {
	return e.Err
}
