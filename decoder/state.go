package decoder

import (
	"fmt"
)

type State int

const (
	StateUninitialized = State(iota)
	StateInitialized
	StateDecoding
	StateReconfiguring
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitialized:
		return "initialized"
	case StateDecoding:
		return "decoding"
	case StateReconfiguring:
		return "reconfiguring"
	case StateClosed:
		return "closed"
	}
	return fmt.Sprintf("unknown_state_%d", int(s))
}

// Event is the outcome of a single Session.Poll.
type Event int

const (
	EventNone = Event(iota)
	EventFormatChange
	EventFrame
)

func (e Event) String() string {
	switch e {
	case EventNone:
		return "none"
	case EventFormatChange:
		return "format_change"
	case EventFrame:
		return "frame"
	}
	return fmt.Sprintf("unknown_event_%d", int(e))
}
