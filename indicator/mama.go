// mama.go implements MovingAverage with the MESA adaptive moving average.

package indicator

import (
	"sync"

	indicators "github.com/lmpizarro/go_ehlers_indicators"
)

const (
	defaultMAMAFastLimit = 0.5
	defaultMAMASlowLimit = 0.05
)

// MAMA recomputes the MESA adaptive moving average over a sliding window
// of the last measurements.
type MAMA[T Number] struct {
	FastLimit float64
	SlowLimit float64

	locker  sync.Mutex
	window  []float64
	scratch []float64
	next    int
	seen    int
}

var _ MovingAverage[float64] = (*MAMA[float64])(nil)

func NewMAMA[T Number](windowSize int) *MAMA[T] {
	return NewMAMAWithLimits[T](windowSize, defaultMAMAFastLimit, defaultMAMASlowLimit)
}

func NewMAMAWithLimits[T Number](
	windowSize int,
	fastLimit float64,
	slowLimit float64,
) *MAMA[T] {
	if windowSize < 1 {
		windowSize = 1
	}
	return &MAMA[T]{
		FastLimit: fastLimit,
		SlowLimit: slowLimit,
		window:    make([]float64, windowSize),
		scratch:   make([]float64, windowSize),
	}
}

func (m *MAMA[T]) Update(v T) T {
	m.locker.Lock()
	defer m.locker.Unlock()

	m.window[m.next] = float64(v)
	m.next = (m.next + 1) % len(m.window)
	if m.seen < len(m.window) {
		m.seen++
	}
	if m.seen < len(m.window) {
		return v
	}

	// oldest first: window[next:] then window[:next]
	n := copy(m.scratch, m.window[m.next:])
	copy(m.scratch[n:], m.window[:m.next])

	averages := indicators.MAMA(m.scratch, m.FastLimit, m.SlowLimit)
	return T(averages[len(averages)-1])
}

func (m *MAMA[T]) Valid() bool {
	m.locker.Lock()
	defer m.locker.Unlock()
	return m.seen >= len(m.window)
}
