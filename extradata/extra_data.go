// extra_data.go provides a describable view over container extradata.

// Package extradata parses H.264 codec extradata and extracts the parameter
// sets the hardware decoder needs before the first slice.
package extradata

import (
	"bytes"
	"fmt"
)

type Raw []byte

func (b Raw) Equal(cmp Raw) bool {
	return bytes.Equal(b, cmp)
}

func (b Raw) String() string {
	if len(b) == 0 {
		return "<empty>"
	}

	return b.Parse().String()
}

// Parsed is the top-level "discriminated union".
type Parsed interface {
	fmt.Stringer
}

// Parse tries the H.264 layouts seen in containers (avcC first, then
// Annex-B as used by raw and MPEG-TS streams) and falls back to Unknown.
func (b Raw) Parse() Parsed {
	if len(b) == 0 {
		return Unknown(nil)
	}

	if avcc, err := ParseAVCC(b); err == nil {
		return avcc
	}

	if seq, err := ParseAnnexB(b); err == nil {
		return seq
	}

	return Unknown(b)
}

type Unknown []byte

func (b Unknown) String() string {
	return fmt.Sprintf("<unknown_type, len:%d>", len(b))
}
