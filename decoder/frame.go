package decoder

// Frame is a decoded picture lent to the Session.Poll callback.
type Frame struct {
	FrameInfo
	released bool
}

// IsReleased reports whether the picture was handed back to the decoder;
// the buffer must not be used after that.
func (f *Frame) IsReleased() bool {
	return f.released
}
