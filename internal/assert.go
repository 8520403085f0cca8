// Package internal contains helpers shared by the hwplayer packages.
package internal

import (
	"context"
	"fmt"

	"github.com/xaionaro-go/hwplayer/logger"
)

// Assert panics (through the logger, so the message reaches the log sink first)
// if mustBeTrue is false.
func Assert(
	ctx context.Context,
	mustBeTrue bool,
	extraArgs ...any,
) {
	if mustBeTrue {
		return
	}

	logger.Panicf(ctx, "assertion failed: %s", fmt.Sprint(extraArgs...))
}
