package extradata

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	testSPS  = []byte{0x67, 0x64, 0x00, 0x1F, 0xAC, 0xD9}
	testPPS  = []byte{0x68, 0xEB, 0xE3, 0xCB}
	testSPS2 = []byte{0x67, 0x42, 0xC0, 0x1E}
	testPPS2 = []byte{0x68, 0xCE, 0x3C}
)

func buildAVCC(spsList, ppsList [][]byte) []byte {
	b := []byte{0x01, 0x64, 0x00, 0x1F, 0xFF, 0xE0 | byte(len(spsList))}
	for _, sps := range spsList {
		b = append(b, byte(len(sps)>>8), byte(len(sps)))
		b = append(b, sps...)
	}
	b = append(b, byte(len(ppsList)))
	for _, pps := range ppsList {
		b = append(b, byte(len(pps)>>8), byte(len(pps)))
		b = append(b, pps...)
	}
	return b
}

func annexB(nalus ...[]byte) []byte {
	var b []byte
	for _, nalu := range nalus {
		b = append(b, 0, 0, 0, 1)
		b = append(b, nalu...)
	}
	return b
}

func TestExtractParameterSets(t *testing.T) {
	full := buildAVCC([][]byte{testSPS}, [][]byte{testPPS})

	tests := []struct {
		name      string
		extradata []byte
		want      []byte
	}{
		{"single pair", full, annexB(testSPS, testPPS)},
		{"two pairs", buildAVCC([][]byte{testSPS, testSPS2}, [][]byte{testPPS, testPPS2}), annexB(testSPS, testPPS)},
		{"no PPS", buildAVCC([][]byte{testSPS}, nil), annexB(testSPS)},
		{"empty", nil, nil},
		{"shorter than header", full[:7], nil},
		{"version zero", append([]byte{0x00}, full[1:]...), nil},
		{"truncated SPS", full[:8+len(testSPS)-1], nil},
		{"missing PPS count", full[:8+len(testSPS)], annexB(testSPS)},
		{"truncated PPS length", full[:8+len(testSPS)+2], annexB(testSPS)},
		{"truncated PPS", full[:len(full)-1], annexB(testSPS)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractParameterSets(tt.extradata)
			require.Equal(t, tt.want, []byte(got))
		})
	}
}

func TestExtractParameterSetsNeverPanics(t *testing.T) {
	full := buildAVCC([][]byte{testSPS, testSPS2}, [][]byte{testPPS, testPPS2})
	for i := 0; i <= len(full); i++ {
		require.NotPanics(t, func() {
			ExtractParameterSets(full[:i])
		}, "prefix of %d bytes", i)
	}

	// declared lengths way past the end
	require.NotPanics(t, func() {
		ExtractParameterSets([]byte{0x01, 0, 0, 0, 0xFF, 0xE3, 0xFF, 0xFF, 0x67})
	})
}

func TestParameterSetsAccessors(t *testing.T) {
	ps := ExtractParameterSets(buildAVCC([][]byte{testSPS}, [][]byte{testPPS}))
	require.Equal(t, testSPS, ps.SPS())
	require.Equal(t, testPPS, ps.PPS())
	require.Equal(t, []byte(ps[4:]), ps.Payload())
	require.Equal(t, "annexb{SPS:6B PPS:4B}", ps.String())

	var empty ParameterSets
	require.Nil(t, empty.Payload())
	require.Nil(t, empty.SPS())
	require.Equal(t, "<empty>", empty.String())
}
