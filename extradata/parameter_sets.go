// parameter_sets.go extracts the first SPS/PPS pair from container extradata.

package extradata

import (
	"encoding/binary"

	"github.com/xaionaro-go/hwplayer/types"
)

const (
	avccSPSLengthOffset = 6
	avccSPSOffset       = 8
	avccPPSCountSize    = 1
	avccPPSLengthSize   = 2
)

// ParameterSets is the start-code delimited concatenation of the first SPS
// and the first PPS found in the extradata: 00 00 00 01 SPS [00 00 00 01 PPS].
type ParameterSets []byte

// ExtractParameterSets never fails: malformed or truncated extradata yields
// less data (possibly none), never an out-of-bounds read. A field whose
// declared length runs past the end of the blob is dropped along with
// everything after it; what was extracted before it is kept.
func ExtractParameterSets(extradata []byte) ParameterSets {
	if len(extradata) < avccSPSOffset || extradata[0] < 1 {
		return nil
	}

	spsSize := int(binary.BigEndian.Uint16(extradata[avccSPSLengthOffset:]))
	spsEnd := avccSPSOffset + spsSize
	if spsSize == 0 || spsEnd > len(extradata) {
		return nil
	}
	result := make(ParameterSets, 0, 2*types.H264StartCodeLength+len(extradata))
	result = append(result, types.H264StartCode[:]...)
	result = append(result, extradata[avccSPSOffset:spsEnd]...)

	// only the first SPS is used, but the rest has to be skipped to reach the PPS list
	ppsCountOffset := spsEnd
	for i := 1; i < int(extradata[5]&0x1F); i++ {
		if ppsCountOffset+avccPPSLengthSize > len(extradata) {
			return result
		}
		ppsCountOffset += avccPPSLengthSize + int(binary.BigEndian.Uint16(extradata[ppsCountOffset:]))
	}
	if ppsCountOffset+avccPPSCountSize > len(extradata) {
		return result
	}
	if extradata[ppsCountOffset]&0x1F < 1 {
		return result
	}

	ppsLengthOffset := ppsCountOffset + avccPPSCountSize
	if ppsLengthOffset+avccPPSLengthSize > len(extradata) {
		return result
	}
	ppsSize := int(binary.BigEndian.Uint16(extradata[ppsLengthOffset:]))
	ppsOffset := ppsLengthOffset + avccPPSLengthSize
	ppsEnd := ppsOffset + ppsSize
	if ppsSize == 0 || ppsEnd > len(extradata) {
		return result
	}
	result = append(result, types.H264StartCode[:]...)
	result = append(result, extradata[ppsOffset:ppsEnd]...)
	return result
}

// Payload returns the parameter sets without the leading start code: the
// decoder session prefixes every access unit it submits with one.
func (p ParameterSets) Payload() []byte {
	if len(p) < types.H264StartCodeLength {
		return nil
	}
	return p[types.H264StartCodeLength:]
}

func (p ParameterSets) SPS() []byte {
	return p.naluOfType(NALUTypeSPS)
}

func (p ParameterSets) PPS() []byte {
	return p.naluOfType(NALUTypePPS)
}

func (p ParameterSets) naluOfType(t NALUType) []byte {
	for _, nalu := range SplitAnnexB(p) {
		if NALUTypeOf(nalu[0]) == t {
			return nalu
		}
	}
	return nil
}

func (p ParameterSets) String() string {
	if len(p) == 0 {
		return "<empty>"
	}
	return Raw(p).String()
}
