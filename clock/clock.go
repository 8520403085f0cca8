// clock.go paces the release of samples against the wall clock.

// Package clock implements the playback clock: a sample is due once the wall
// clock time elapsed since the start reaches its timestamp. Late samples are
// never dropped and drift is not corrected.
package clock

import (
	"fmt"
	"time"

	"github.com/xaionaro-go/hwplayer/types"
)

type Clock struct {
	TimeBase types.Rational

	// Now is the source of the wall clock; time.Now if nil.
	Now func() time.Time

	start time.Time
}

// New returns a Clock started now.
func New(timeBase types.Rational) *Clock {
	c := &Clock{TimeBase: timeBase}
	c.start = c.now()
	return c
}

// NewWithNow is New with a custom wall clock source.
func NewWithNow(timeBase types.Rational, now func() time.Time) *Clock {
	c := &Clock{TimeBase: timeBase, Now: now}
	c.start = c.now()
	return c
}

func (c *Clock) now() time.Time {
	if c.Now == nil {
		return time.Now()
	}
	return c.Now()
}

func (c *Clock) String() string {
	return fmt.Sprintf("Clock(time_base:%s, start:%s)", c.TimeBase, c.start.Format(time.RFC3339Nano))
}

func (c *Clock) Start() time.Time {
	return c.start
}

func (c *Clock) Elapsed() time.Duration {
	return c.now().Sub(c.start)
}

// Offset converts a timestamp into the offset from the start it is due at;
// negative and unset timestamps are due immediately.
func (c *Clock) Offset(ts int64) time.Duration {
	return c.TimeBase.Duration(ts)
}

// Deadline is the wall clock instant ts becomes due at.
func (c *Clock) Deadline(ts int64) time.Time {
	return c.start.Add(c.Offset(ts))
}

// ShouldAdvance reports whether the sample with timestamp ts is due.
func (c *Clock) ShouldAdvance(ts int64) bool {
	return c.Elapsed() >= c.Offset(ts)
}

// OnLoop restarts the timeline; it is called when the source is rewound.
func (c *Clock) OnLoop() {
	c.start = c.now()
}
