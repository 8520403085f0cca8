// duration.go converts libav timestamps into the player's time types.

// Package avconv converts libav values into hwplayer types.
package avconv

import (
	"time"

	"github.com/asticode/go-astiav"
	"github.com/xaionaro-go/hwplayer/types"
)

// Rational converts a libav time base.
func Rational(r astiav.Rational) types.Rational {
	return types.Rational{Num: r.Num(), Den: r.Den()}
}

// Duration converts a timestamp in timeBase units; ok is false if the
// timestamp is unset (AV_NOPTS_VALUE).
func Duration(ts int64, timeBase astiav.Rational) (_ret time.Duration, ok bool) {
	if ts == astiav.NoPtsValue {
		return 0, false
	}
	return Rational(timeBase).Duration(ts), true
}

// ContainerDuration is the duration of the whole input, which libav
// reports in AV_TIME_BASE (microsecond) units.
func ContainerDuration(fc *astiav.FormatContext) (time.Duration, bool) {
	d := fc.Duration()
	if d == astiav.NoPtsValue || d <= 0 {
		return 0, false
	}
	return time.Duration(d) * time.Microsecond, true
}
