// color_hint.go defines the color hints passed to the GPU when importing a decoded buffer.

package types

import (
	"fmt"
	"strings"
)

// ColorSpaceHint selects the YUV->RGB matrix the GPU uses for an imported image.
type ColorSpaceHint int

const (
	// ColorSpaceHintAuto derives the hint from the stream-reported ColorSpace.
	ColorSpaceHintAuto = ColorSpaceHint(iota)
	ColorSpaceHintREC601
	ColorSpaceHintREC709
	ColorSpaceHintREC2020
	endOfColorSpaceHint
)

func (h ColorSpaceHint) String() string {
	switch h {
	case ColorSpaceHintAuto:
		return "auto"
	case ColorSpaceHintREC601:
		return "rec601"
	case ColorSpaceHintREC709:
		return "rec709"
	case ColorSpaceHintREC2020:
		return "rec2020"
	}
	return fmt.Sprintf("unknown_%d", int(h))
}

// Resolve returns the concrete hint to use for a frame reporting the given ColorSpace.
func (h ColorSpaceHint) Resolve(reported ColorSpace) ColorSpaceHint {
	if h != ColorSpaceHintAuto {
		return h
	}
	switch reported {
	case ColorSpaceBT470BG, ColorSpaceSMPTE170M, ColorSpaceFCC:
		return ColorSpaceHintREC601
	case ColorSpaceBT2020NCL, ColorSpaceBT2020CL:
		return ColorSpaceHintREC2020
	default:
		return ColorSpaceHintREC709
	}
}

func ColorSpaceHintFromString(s string) (ColorSpaceHint, error) {
	s = strings.Trim(strings.ToLower(s), " \"\n\r\t")
	for h := range endOfColorSpaceHint {
		if h.String() == s {
			return h, nil
		}
	}
	return ColorSpaceHintAuto, fmt.Errorf("unknown color space hint: '%s'", s)
}

func (h *ColorSpaceHint) Set(s string) error {
	v, err := ColorSpaceHintFromString(s)
	if err != nil {
		return err
	}
	*h = v
	return nil
}

func (h *ColorSpaceHint) Type() string {
	return "color-space-hint"
}

func (h *ColorSpaceHint) UnmarshalText(b []byte) error {
	return h.Set(string(b))
}

func (h ColorSpaceHint) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

// ColorRangeHint selects whether the imported image samples are full or narrow range.
type ColorRangeHint int

const (
	// ColorRangeHintAuto derives the hint from the stream-reported ColorRange.
	ColorRangeHintAuto = ColorRangeHint(iota)
	ColorRangeHintFull
	ColorRangeHintNarrow
	endOfColorRangeHint
)

func (h ColorRangeHint) String() string {
	switch h {
	case ColorRangeHintAuto:
		return "auto"
	case ColorRangeHintFull:
		return "full"
	case ColorRangeHintNarrow:
		return "narrow"
	}
	return fmt.Sprintf("unknown_%d", int(h))
}

// Resolve returns the concrete hint to use for a frame reporting the given ColorRange.
func (h ColorRangeHint) Resolve(reported ColorRange) ColorRangeHint {
	if h != ColorRangeHintAuto {
		return h
	}
	if reported == ColorRangeJPEG {
		return ColorRangeHintFull
	}
	return ColorRangeHintNarrow
}

func ColorRangeHintFromString(s string) (ColorRangeHint, error) {
	s = strings.Trim(strings.ToLower(s), " \"\n\r\t")
	for h := range endOfColorRangeHint {
		if h.String() == s {
			return h, nil
		}
	}
	return ColorRangeHintAuto, fmt.Errorf("unknown color range hint: '%s'", s)
}

func (h *ColorRangeHint) Set(s string) error {
	v, err := ColorRangeHintFromString(s)
	if err != nil {
		return err
	}
	*h = v
	return nil
}

func (h *ColorRangeHint) Type() string {
	return "color-range-hint"
}

func (h *ColorRangeHint) UnmarshalText(b []byte) error {
	return h.Set(string(b))
}

func (h ColorRangeHint) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}
