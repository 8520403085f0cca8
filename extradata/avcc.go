// avcc.go parses the AVCDecoderConfigurationRecord ("avcC") carried by MP4/MKV containers.

package extradata

import (
	"encoding/binary"
	"fmt"
	"strings"
)

const (
	avccHeaderSize  = 6
	defaultNALUSize = 4
)

// AVCC is a parsed AVCDecoderConfigurationRecord.
type AVCC struct {
	Profile        uint8
	Compatibility  uint8
	Level          uint8
	NALULengthSize int
	SPS            [][]byte
	PPS            [][]byte
}

// ParseAVCC parses the record strictly: any truncated field is an error.
// Use ParameterSets for the lenient extraction the decoder is fed with.
func ParseAVCC(b []byte) (*AVCC, error) {
	if len(b) < avccHeaderSize+1 {
		return nil, fmt.Errorf("data too short (%d bytes)", len(b))
	}
	if b[0] != 1 {
		return nil, fmt.Errorf("unsupported configurationVersion (%d)", b[0])
	}
	if b[4]&0xFC != 0xFC {
		return nil, fmt.Errorf("invalid reserved bits in byte 4 (0x%02X)", b[4])
	}

	cfg := &AVCC{
		Profile:        b[1],
		Compatibility:  b[2],
		Level:          b[3],
		NALULengthSize: int(b[4]&0x03) + 1,
	}

	rest := b[avccHeaderSize:]
	var err error
	cfg.SPS, rest, err = readParameterSetList(rest, int(b[5]&0x1F))
	if err != nil {
		return nil, fmt.Errorf("unable to read SPS list: %w", err)
	}
	if len(rest) < 1 {
		return nil, fmt.Errorf("missing PPS count")
	}
	cfg.PPS, _, err = readParameterSetList(rest[1:], int(rest[0]))
	if err != nil {
		return nil, fmt.Errorf("unable to read PPS list: %w", err)
	}
	return cfg, nil
}

func readParameterSetList(b []byte, count int) ([][]byte, []byte, error) {
	var result [][]byte
	for i := 0; i < count; i++ {
		if len(b) < 2 {
			return nil, nil, fmt.Errorf("truncated length of entry #%d", i)
		}
		size := int(binary.BigEndian.Uint16(b))
		b = b[2:]
		if size > len(b) {
			return nil, nil, fmt.Errorf("entry #%d declares %d bytes, but only %d are left", i, size, len(b))
		}
		result = append(result, append([]byte(nil), b[:size]...))
		b = b[size:]
	}
	return result, b, nil
}

// NALULengthSizeOf returns the size of the NAL unit length prefix used by
// samples of a stream with the given extradata; 4 if it cannot be told.
func NALULengthSizeOf(extradata []byte) int {
	cfg, err := ParseAVCC(extradata)
	if err != nil {
		return defaultNALUSize
	}
	return cfg.NALULengthSize
}

func (c *AVCC) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "avcC{profile:0x%02X compat:0x%02X level:0x%02X nalu_length_size:%d", c.Profile, c.Compatibility, c.Level, c.NALULengthSize)
	for i, sps := range c.SPS {
		fmt.Fprintf(&sb, " sps[%d]:%dB", i, len(sps))
	}
	for i, pps := range c.PPS {
		fmt.Fprintf(&sb, " pps[%d]:%dB", i, len(pps))
	}
	sb.WriteString("}")
	return sb.String()
}
