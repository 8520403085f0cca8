package decoder

import (
	"go.uber.org/atomic"
)

// Stats are updated by the decoding goroutine and may be read from any other.
type Stats struct {
	AccessUnits          atomic.Uint64
	BytesSubmitted       atomic.Uint64
	FramesRetrieved      atomic.Uint64
	FramesReleased       atomic.Uint64
	FormatChanges        atomic.Uint64
	PacketBufferCapacity atomic.Uint64
}

type StatsSnapshot struct {
	AccessUnits          uint64
	BytesSubmitted       uint64
	FramesRetrieved      uint64
	FramesReleased       uint64
	FormatChanges        uint64
	PacketBufferCapacity uint64
}

func (s *Stats) Snapshot() StatsSnapshot {
	return StatsSnapshot{
		AccessUnits:          s.AccessUnits.Load(),
		BytesSubmitted:       s.BytesSubmitted.Load(),
		FramesRetrieved:      s.FramesRetrieved.Load(),
		FramesReleased:       s.FramesReleased.Load(),
		FormatChanges:        s.FormatChanges.Load(),
		PacketBufferCapacity: s.PacketBufferCapacity.Load(),
	}
}
