// annexb.go splits and describes start-code delimited H.264 byte streams.

package extradata

import (
	"fmt"
	"strings"
)

type NALUType uint8

const (
	NALUTypeNonIDR      NALUType = 1
	NALUTypeIDR         NALUType = 5
	NALUTypeSEI         NALUType = 6
	NALUTypeSPS         NALUType = 7
	NALUTypePPS         NALUType = 8
	NALUTypeAUD         NALUType = 9
	NALUTypeEndOfSeq    NALUType = 10
	NALUTypeEndOfStream NALUType = 11
	NALUTypeFiller      NALUType = 12
)

// NALUTypeOf returns the type of the NAL unit starting with the given header byte.
func NALUTypeOf(header byte) NALUType {
	return NALUType(header & 0x1F)
}

func (t NALUType) String() string {
	switch t {
	case NALUTypeNonIDR:
		return "non-IDR slice"
	case NALUTypeIDR:
		return "IDR slice"
	case NALUTypeSEI:
		return "SEI"
	case NALUTypeSPS:
		return "SPS"
	case NALUTypePPS:
		return "PPS"
	case NALUTypeAUD:
		return "AUD"
	case NALUTypeEndOfSeq:
		return "end of sequence"
	case NALUTypeEndOfStream:
		return "end of stream"
	case NALUTypeFiller:
		return "filler"
	}
	return fmt.Sprintf("type_%d", uint8(t))
}

// SplitAnnexB returns the NAL units of an Annex-B stream (3- and 4-byte
// start codes are both accepted). The returned slices alias b.
func SplitAnnexB(b []byte) [][]byte {
	var nalus [][]byte
	start := FindStartCode(b, 0)
	for start >= 0 {
		payload := start + startCodeLengthAt(b, start)
		next := FindStartCode(b, payload)
		end := next
		if end < 0 {
			end = len(b)
		}
		if end > payload {
			nalus = append(nalus, b[payload:end])
		}
		start = next
	}
	return nalus
}

// FindStartCode returns the index of the first start code at or after
// from, or -1.
func FindStartCode(b []byte, from int) int {
	for i := from; i+3 <= len(b); i++ {
		if b[i] != 0 || b[i+1] != 0 {
			continue
		}
		if b[i+2] == 1 {
			return i
		}
		if i+4 <= len(b) && b[i+2] == 0 && b[i+3] == 1 {
			return i
		}
	}
	return -1
}

func startCodeLengthAt(b []byte, i int) int {
	if b[i+2] == 1 {
		return 3
	}
	return 4
}

type AnnexB struct {
	NALUs [][]byte
}

func ParseAnnexB(b []byte) (*AnnexB, error) {
	nalus := SplitAnnexB(b)
	if len(nalus) == 0 {
		return nil, fmt.Errorf("no NAL units found")
	}
	return &AnnexB{NALUs: nalus}, nil
}

func (s *AnnexB) String() string {
	var sb strings.Builder
	sb.WriteString("annexb{")
	for i, n := range s.NALUs {
		if i > 0 {
			sb.WriteString(" ")
		}
		fmt.Fprintf(&sb, "%s:%dB", NALUTypeOf(n[0]), len(n))
	}
	sb.WriteString("}")
	return sb.String()
}
