package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/hwplayer/types"
)

type fakeTime struct {
	now time.Time
}

func (f *fakeTime) Now() time.Time {
	return f.now
}

func (f *fakeTime) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func newTestClock(timeBase types.Rational) (*Clock, *fakeTime) {
	ft := &fakeTime{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return NewWithNow(timeBase, ft.Now), ft
}

func TestShouldAdvance(t *testing.T) {
	c, ft := newTestClock(types.Rational{Num: 1, Den: 30})

	require.False(t, c.ShouldAdvance(30))
	ft.Advance(999 * time.Millisecond)
	require.False(t, c.ShouldAdvance(30))
	ft.Advance(time.Millisecond - time.Nanosecond)
	require.False(t, c.ShouldAdvance(30))
	ft.Advance(time.Nanosecond)
	require.True(t, c.ShouldAdvance(30))
	ft.Advance(time.Hour)
	require.True(t, c.ShouldAdvance(30))
}

func TestShouldAdvanceTable(t *testing.T) {
	tests := []struct {
		name     string
		timeBase types.Rational
		ts       int64
		elapsed  time.Duration
		want     bool
	}{
		{"zero timestamp", types.Rational{Num: 1, Den: 30}, 0, 0, true},
		{"negative timestamp", types.Rational{Num: 1, Den: 30}, -100, 0, true},
		{"90kHz before", types.Rational{Num: 1, Den: 90000}, 90000, 999 * time.Millisecond, false},
		{"90kHz at", types.Rational{Num: 1, Den: 90000}, 90000, time.Second, true},
		{"NTSC frame 30 early", types.Rational{Num: 1001, Den: 30000}, 30, time.Second, false},
		{"NTSC frame 30 due", types.Rational{Num: 1001, Den: 30000}, 30, 1001 * time.Millisecond, true},
		{"unknown time base", types.Rational{}, 1000, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ft := newTestClock(tt.timeBase)
			ft.Advance(tt.elapsed)
			require.Equal(t, tt.want, c.ShouldAdvance(tt.ts))
		})
	}
}

func TestOnLoop(t *testing.T) {
	c, ft := newTestClock(types.Rational{Num: 1, Den: 30})
	firstStart := c.Start()

	ft.Advance(10 * time.Second)
	require.True(t, c.ShouldAdvance(30))

	c.OnLoop()
	require.Equal(t, firstStart.Add(10*time.Second), c.Start())
	require.Zero(t, c.Elapsed())
	require.False(t, c.ShouldAdvance(30))
	require.True(t, c.ShouldAdvance(0))

	ft.Advance(time.Second)
	require.True(t, c.ShouldAdvance(30))
	require.False(t, c.ShouldAdvance(31))
}

func TestDeadline(t *testing.T) {
	c, _ := newTestClock(types.Rational{Num: 1, Den: 25})
	require.Equal(t, c.Start().Add(2*time.Second), c.Deadline(50))
	require.Equal(t, c.Start(), c.Deadline(-1))
}

func TestNewUsesWallClock(t *testing.T) {
	before := time.Now()
	c := New(types.Rational{Num: 1, Den: 30})
	require.False(t, c.Start().Before(before))
	require.True(t, c.ShouldAdvance(0))
}
