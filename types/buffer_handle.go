package types

import "fmt"

// BufferHandle identifies one buffer of the decoder's output pool. Handles
// are recycled by the pool, so equal handles do not imply equal contents.
type BufferHandle uintptr

func (h BufferHandle) String() string {
	return fmt.Sprintf("buffer:0x%X", uintptr(h))
}
