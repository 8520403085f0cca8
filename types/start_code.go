package types

// H264StartCode is the Annex-B delimiter prefixed to every NAL unit handed
// to the hardware decoder.
var H264StartCode = [4]byte{0, 0, 0, 1}

const H264StartCodeLength = len(H264StartCode)
