package avconv

import (
	"github.com/asticode/go-astiav"
)

// FindStream returns the first stream of the input accepted by match, or nil.
func FindStream(
	fc *astiav.FormatContext,
	match func(*astiav.Stream) bool,
) *astiav.Stream {
	for _, stream := range fc.Streams() {
		if match(stream) {
			return stream
		}
	}
	return nil
}

func IsH264Video(stream *astiav.Stream) bool {
	codecParams := stream.CodecParameters()
	return codecParams.MediaType() == astiav.MediaTypeVideo && codecParams.CodecID() == astiav.CodecIDH264
}
