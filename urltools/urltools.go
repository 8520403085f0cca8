// urltools.go classifies player inputs: local files versus network streams, and the container a file name implies.

// Package urltools tells what kind of input a command line argument names.
package urltools

import (
	"net/url"
	"path/filepath"
	"slices"
	"strings"
)

// Container is the libavformat short name of a container format.
type Container string

const (
	ContainerUndefined = Container("")
	ContainerMP4       = Container("mp4")
	ContainerMatroska  = Container("matroska")
	ContainerFLV       = Container("flv")
	ContainerMPEGTS    = Container("mpegts")
	ContainerAVI       = Container("avi")
	ContainerWebM      = Container("webm")
	ContainerRTSP      = Container("rtsp")
)

func isNetworkScheme(scheme string) bool {
	switch scheme {
	case "rtmp", "rtmps", "srt", "udp", "tcp", "http", "https", "rtsp", "webrtc":
		return true
	}
	return false
}

// LocalPath returns the file system path of the input, and false if the
// input is a network stream.
//
// Plain paths are returned as is; "file://" URLs are returned without the scheme.
func LocalPath(input string) (string, bool) {
	u, err := url.Parse(input)
	if err != nil {
		return input, true
	}
	switch {
	case u.Scheme == "file":
		return u.Path, true
	case isNetworkScheme(u.Scheme):
		return "", false
	}
	return input, true
}

// ContainerOf guesses the container of the input: from the extension of
// local files and from the scheme of network streams.
func ContainerOf(input string) Container {
	if path, ok := LocalPath(input); ok {
		return ContainerFromFileExtension(path)
	}
	u, err := url.Parse(input)
	if err != nil {
		return ContainerUndefined
	}
	switch u.Scheme {
	case "rtmp", "rtmps":
		return ContainerFLV
	case "srt", "udp", "tcp", "http", "https":
		return ContainerMPEGTS
	case "rtsp":
		return ContainerRTSP
	}
	return ContainerUndefined
}

func ContainerFromFileExtension(path string) Container {
	switch ext := strings.ToLower(filepath.Ext(path)); {
	case oneOf(ext, ".mp4", ".m4v", ".mov"):
		return ContainerMP4
	case oneOf(ext, ".mkv", ".mk3d"):
		return ContainerMatroska
	case oneOf(ext, ".flv"):
		return ContainerFLV
	case oneOf(ext, ".ts", ".mts", ".m2ts", ".mpeg", ".mpg", ".vob"):
		return ContainerMPEGTS
	case oneOf(ext, ".avi"):
		return ContainerAVI
	case oneOf(ext, ".webm"):
		return ContainerWebM
	}
	return ContainerUndefined
}

func oneOf(ext string, exts ...string) bool {
	return slices.Contains(exts, ext)
}
