package imagecache

import (
	"fmt"

	"github.com/xaionaro-go/hwplayer/gpu"
	"github.com/xaionaro-go/hwplayer/types"
)

type ErrImport struct {
	Buffer types.BufferHandle
	Params gpu.ImportParams
	Err    error
}

func (e ErrImport) Error() string {
	return fmt.Sprintf("unable to import %s (%s): %v", e.Buffer, e.Params, e.Err)
}

func (e ErrImport) Unwrap() error {
	return e.Err
}
