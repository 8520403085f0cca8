package indicator

import (
	"time"
)

// Rate turns samples of a monotonic counter (e.g. decoded frames) into a
// smoothed per-second rate. It is not safe for concurrent use.
type Rate struct {
	Average MovingAverage[float64]

	lastCount uint64
	lastAt    time.Time
	started   bool
}

func NewRate(average MovingAverage[float64]) *Rate {
	return &Rate{Average: average}
}

// Observe records the counter value at the given time and returns the
// smoothed rate; ok is false until two observations are available.
func (r *Rate) Observe(count uint64, at time.Time) (_ret float64, ok bool) {
	defer func() {
		r.lastCount, r.lastAt, r.started = count, at, true
	}()
	if !r.started {
		return 0, false
	}
	elapsed := at.Sub(r.lastAt)
	if elapsed <= 0 {
		return 0, false
	}

	delta := count - r.lastCount
	if count < r.lastCount {
		// the counter was reset
		delta = count
	}
	return r.Average.Update(float64(delta) / elapsed.Seconds()), true
}
