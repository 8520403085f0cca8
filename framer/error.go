package framer

import (
	"fmt"
)

// ErrIllegalLength describes a NAL length prefix running past the end of its sample.
type ErrIllegalLength struct {
	Offset    int
	Declared  uint64
	Remaining int
}

func (e ErrIllegalLength) Error() string {
	return fmt.Sprintf("illegal NAL unit length at offset %d: declared %d bytes, but only %d are left; discarding the rest of the sample", e.Offset, e.Declared, e.Remaining)
}
