package indicator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMAMA(t *testing.T) {
	t.Run("flat", func(t *testing.T) {
		m := NewMAMA[int64](50)
		for range 100 {
			require.Equal(t, int64(100), m.Update(100))
		}
		require.True(t, m.Valid())
	})

	t.Run("ramp", func(t *testing.T) {
		m := NewMAMAWithLimits[int64](50, 0.3, 0.05)
		for i := int64(0); i <= 100; i++ {
			v := m.Update(i)
			require.True(t, i/2 <= v && v <= i, "%d: %d", i, v)
		}
	})

	t.Run("alternating", func(t *testing.T) {
		m := NewMAMAWithLimits[int64](50, 0.3, 0.05)
		for i := range 100 {
			for _, in := range []int64{0, 100} {
				v := m.Update(in)
				if i > 50 {
					require.True(t, 40 <= v && v <= 60, "%d: %d", i, v)
				}
			}
		}
	})

	t.Run("warming_up", func(t *testing.T) {
		m := NewMAMA[float64](50)
		for i := range 49 {
			require.Equal(t, float64(i), m.Update(float64(i)))
			require.False(t, m.Valid())
		}
		m.Update(49)
		require.True(t, m.Valid())
	})
}

type lastValue struct{}

func (lastValue) Update(v float64) float64 { return v }
func (lastValue) Valid() bool              { return true }

func TestRate(t *testing.T) {
	start := time.Unix(1700000000, 0)

	t.Run("steady", func(t *testing.T) {
		r := NewRate(NewMAMA[float64](50))
		_, ok := r.Observe(0, start)
		require.False(t, ok)
		for i := 1; i <= 100; i++ {
			v, ok := r.Observe(uint64(30*i), start.Add(time.Duration(i)*time.Second))
			require.True(t, ok)
			require.InDelta(t, 30.0, v, 1)
		}
	})

	t.Run("half_second_ticks", func(t *testing.T) {
		r := NewRate(lastValue{})
		r.Observe(100, start)
		v, ok := r.Observe(115, start.Add(500*time.Millisecond))
		require.True(t, ok)
		require.InDelta(t, 30.0, v, 0.001)
	})

	t.Run("no_time_passed", func(t *testing.T) {
		r := NewRate(lastValue{})
		r.Observe(100, start)
		_, ok := r.Observe(130, start)
		require.False(t, ok)
	})

	t.Run("counter_reset", func(t *testing.T) {
		r := NewRate(lastValue{})
		r.Observe(1000, start)
		v, ok := r.Observe(25, start.Add(time.Second))
		require.True(t, ok)
		require.InDelta(t, 25.0, v, 0.001)
	})
}
