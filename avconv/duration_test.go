package avconv

import (
	"testing"
	"time"

	"github.com/asticode/go-astiav"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/hwplayer/types"
)

func TestRational(t *testing.T) {
	require.Equal(t, types.Rational{Num: 1, Den: 90000}, Rational(astiav.NewRational(1, 90000)))
}

func TestDuration(t *testing.T) {
	d, ok := Duration(45000, astiav.NewRational(1, 90000))
	require.True(t, ok)
	require.Equal(t, 500*time.Millisecond, d)

	d, ok = Duration(30, astiav.NewRational(1, 30))
	require.True(t, ok)
	require.Equal(t, time.Second, d)

	_, ok = Duration(astiav.NoPtsValue, astiav.NewRational(1, 30))
	require.False(t, ok)
}
