package urltools

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalPath(t *testing.T) {
	for _, tc := range []struct {
		input   string
		path    string
		isLocal bool
	}{
		{"/data/video.mp4", "/data/video.mp4", true},
		{"video.mkv", "video.mkv", true},
		{"file:///data/video.mp4", "/data/video.mp4", true},
		{"rtsp://camera.local/stream", "", false},
		{"srt://0.0.0.0:4000", "", false},
		{"https://example.com/live.ts", "", false},
	} {
		t.Run(tc.input, func(t *testing.T) {
			path, isLocal := LocalPath(tc.input)
			require.Equal(t, tc.isLocal, isLocal)
			require.Equal(t, tc.path, path)
		})
	}
}

func TestContainerOf(t *testing.T) {
	for _, tc := range []struct {
		input string
		want  Container
	}{
		{"/data/video.mp4", ContainerMP4},
		{"/data/VIDEO.MOV", ContainerMP4},
		{"file:///data/video.m4v", ContainerMP4},
		{"clip.mkv", ContainerMatroska},
		{"clip.m2ts", ContainerMPEGTS},
		{"clip.webm", ContainerWebM},
		{"clip", ContainerUndefined},
		{"rtmp://server/app/key", ContainerFLV},
		{"srt://0.0.0.0:4000", ContainerMPEGTS},
		{"rtsp://camera.local/stream", ContainerRTSP},
	} {
		t.Run(tc.input, func(t *testing.T) {
			require.Equal(t, tc.want, ContainerOf(tc.input))
		})
	}
}
