package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRationalFromString(t *testing.T) {
	tests := []struct {
		input          string
		expectedNum    int
		expectedDen    int
		expectingError bool
	}{
		{"1/30", 1, 30, false},
		{"1/90000", 1, 90000, false},
		{"1001/30000", 1001, 30000, false},
		{"0/1", 0, 1, false},
		{"1/0", 0, 0, true},
		{"", 0, 0, true},
		{"invalid", 0, 0, true},
		{"10/invalid", 0, 0, true},
	}

	for _, test := range tests {
		rational, err := RationalFromString(test.input)
		if test.expectingError {
			require.Error(t, err, test.input)
			continue
		}
		require.NoError(t, err, test.input)
		require.Equal(t, test.expectedNum, rational.Num, test.input)
		require.Equal(t, test.expectedDen, rational.Den, test.input)
	}
}

func TestRationalDuration(t *testing.T) {
	tests := []struct {
		name     string
		timeBase Rational
		ts       int64
		want     time.Duration
	}{
		{"one second at 1/30", Rational{1, 30}, 30, time.Second},
		{"one tick at 1/30", Rational{1, 30}, 1, time.Second / 30},
		{"90kHz", Rational{1, 90000}, 45000, 500 * time.Millisecond},
		{"NTSC", Rational{1001, 30000}, 30, 1001 * time.Millisecond},
		{"long stream at 90kHz", Rational{1, 90000}, 90000 * 3600 * 10, 10 * time.Hour},
		{"negative timestamp", Rational{1, 30}, -5, 0},
		{"invalid time base", Rational{1, 0}, 30, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.timeBase.Duration(tt.ts))
		})
	}
}

func TestRationalUnmarshalText(t *testing.T) {
	var r Rational
	require.NoError(t, r.UnmarshalText([]byte("1/25")))
	require.Equal(t, Rational{Num: 1, Den: 25}, r)
	require.Error(t, r.UnmarshalText([]byte("25")))
}
