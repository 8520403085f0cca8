// closer.go defines how the player releases the collaborators it owns.

package types

import (
	"context"
)

// Closer is implemented by every collaborator owning native resources
// (demuxers, GPU displays, decoder backends, interactive overlays).
// Close must be idempotent.
type Closer interface {
	Close(context.Context) error
}
