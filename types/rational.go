package types

import (
	"fmt"
	"time"
)

// Rational is a stream time base: one timestamp tick lasts Num/Den seconds.
type Rational struct {
	Num int
	Den int
}

func RationalFromString(s string) (*Rational, error) {
	var r Rational
	if len(s) == 0 {
		return nil, fmt.Errorf("unable to parse Rational from empty string")
	}
	if _, err := fmt.Sscanf(s, "%d/%d", &r.Num, &r.Den); err != nil {
		return nil, fmt.Errorf("unable to parse Rational from %q: %w", s, err)
	}
	if r.Den == 0 {
		return nil, fmt.Errorf("denominator cannot be zero")
	}
	return &r, nil
}

func (r Rational) IsValid() bool {
	return r.Den > 0 && r.Num >= 0
}

func (r Rational) Float64() float64 {
	return float64(r.Num) / float64(r.Den)
}

// Duration converts a timestamp expressed in r units into a time.Duration.
//
// The conversion is done in integers (seconds and remainder separately), so
// that e.g. 30 ticks of 1/30 is exactly one second.
func (r Rational) Duration(ts int64) time.Duration {
	if !r.IsValid() || ts <= 0 {
		return 0
	}
	scaled := ts * int64(r.Num)
	den := int64(r.Den)
	secs := scaled / den
	rem := scaled % den
	return time.Duration(secs)*time.Second + time.Duration(rem*int64(time.Second)/den)
}

func (r Rational) String() string {
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

func (r *Rational) UnmarshalText(b []byte) error {
	v, err := RationalFromString(string(b))
	if err != nil {
		return err
	}
	*r = *v
	return nil
}

func (r Rational) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}
