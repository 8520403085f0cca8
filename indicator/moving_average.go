// moving_average.go defines the smoothing used for the playback statistics.

// Package indicator smooths noisy per-second measurements (decode rate).
package indicator

import (
	"golang.org/x/exp/constraints"
)

type Number interface {
	constraints.Integer | constraints.Float
}

type MovingAverage[T Number] interface {
	// Update adds a measurement and returns the current average.
	Update(v T) T

	// Valid reports whether enough measurements were seen for Update to
	// return an actual average (before that it echoes the input).
	Valid() bool
}
