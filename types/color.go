// color.go defines the per-frame color metadata reported by the hardware decoder.

package types

// ColorSpace is the matrix coefficients enumeration (the values follow
// ISO/IEC 23001-8, the same numbering MPP and libav use).
type ColorSpace int

const (
	ColorSpaceRGB              = ColorSpace(0)
	ColorSpaceBT709            = ColorSpace(1)
	ColorSpaceUnspecified      = ColorSpace(2)
	ColorSpaceFCC              = ColorSpace(4)
	ColorSpaceBT470BG          = ColorSpace(5)
	ColorSpaceSMPTE170M        = ColorSpace(6)
	ColorSpaceSMPTE240M        = ColorSpace(7)
	ColorSpaceYCoCg            = ColorSpace(8)
	ColorSpaceBT2020NCL        = ColorSpace(9)
	ColorSpaceBT2020CL         = ColorSpace(10)
	ColorSpaceSMPTE2085        = ColorSpace(11)
	ColorSpaceChromaDerivedNCL = ColorSpace(12)
	ColorSpaceChromaDerivedCL  = ColorSpace(13)
	ColorSpaceICtCp            = ColorSpace(14)
)

func (c ColorSpace) String() string {
	switch c {
	case ColorSpaceRGB:
		return "RGB"
	case ColorSpaceBT709:
		return "BT709"
	case ColorSpaceUnspecified:
		return "UNSPECIFIED"
	case ColorSpaceFCC:
		return "FCC"
	case ColorSpaceBT470BG:
		return "BT470BG"
	case ColorSpaceSMPTE170M:
		return "SMPTE170M"
	case ColorSpaceSMPTE240M:
		return "SMPTE240M"
	case ColorSpaceYCoCg:
		return "YCOCG"
	case ColorSpaceBT2020NCL:
		return "BT2020_NCL"
	case ColorSpaceBT2020CL:
		return "BT2020_CL"
	case ColorSpaceSMPTE2085:
		return "SMPTE2085"
	case ColorSpaceChromaDerivedNCL:
		return "CHROMA_DERIVED_NCL"
	case ColorSpaceChromaDerivedCL:
		return "CHROMA_DERIVED_CL"
	case ColorSpaceICtCp:
		return "ICTCP"
	}
	return "Unknown"
}

type ColorRange int

const (
	ColorRangeUnspecified = ColorRange(0)
	ColorRangeMPEG        = ColorRange(1) // narrow
	ColorRangeJPEG        = ColorRange(2) // full
)

func (c ColorRange) String() string {
	switch c {
	case ColorRangeUnspecified:
		return "UNSPECIFIED"
	case ColorRangeMPEG:
		return "MPEG"
	case ColorRangeJPEG:
		return "JPEG"
	}
	return "Unknown"
}

type ColorPrimaries int

const (
	ColorPrimariesBT709       = ColorPrimaries(1)
	ColorPrimariesUnspecified = ColorPrimaries(2)
	ColorPrimariesBT470M      = ColorPrimaries(4)
	ColorPrimariesBT470BG     = ColorPrimaries(5)
	ColorPrimariesSMPTE170M   = ColorPrimaries(6)
	ColorPrimariesSMPTE240M   = ColorPrimaries(7)
	ColorPrimariesFilm        = ColorPrimaries(8)
	ColorPrimariesBT2020      = ColorPrimaries(9)
	ColorPrimariesSMPTE428    = ColorPrimaries(10)
	ColorPrimariesSMPTE431    = ColorPrimaries(11)
	ColorPrimariesSMPTE432    = ColorPrimaries(12)
	ColorPrimariesJEDECP22    = ColorPrimaries(22)
)

func (c ColorPrimaries) String() string {
	switch c {
	case ColorPrimariesBT709:
		return "BT709"
	case ColorPrimariesUnspecified:
		return "UNSPECIFIED"
	case ColorPrimariesBT470M:
		return "BT470M"
	case ColorPrimariesBT470BG:
		return "BT470BG"
	case ColorPrimariesSMPTE170M:
		return "SMPTE170M"
	case ColorPrimariesSMPTE240M:
		return "SMPTE240M"
	case ColorPrimariesFilm:
		return "FILM"
	case ColorPrimariesBT2020:
		return "BT2020"
	case ColorPrimariesSMPTE428:
		return "SMPTEST428_1"
	case ColorPrimariesSMPTE431:
		return "SMPTE431"
	case ColorPrimariesSMPTE432:
		return "SMPTE432"
	case ColorPrimariesJEDECP22:
		return "JEDEC_P22"
	}
	return "Unknown"
}
