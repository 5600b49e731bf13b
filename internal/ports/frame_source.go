package ports

import (
	"context"
	"io"

	"github.com/wsu-pmp/object-detection-node/internal/domain"
)

// FrameSource delivers detection frames in arrival order.
// Implementations must skip malformed input themselves; Next returns only
// well-formed frames or a transport-level error.
type FrameSource interface {
	// Next blocks until a frame is available and returns it.
	// Returns io.EOF when the source is drained (the caller should poll
	// and retry, or stop in once mode). Returns ctx.Err() when the
	// context is canceled.
	Next(ctx context.Context) (domain.ObjectFrame, error)

	// Close releases the underlying transport.
	Close() error
}

// ErrNoMoreFrames indicates a drained source.
// The caller should poll and retry after a delay.
var ErrNoMoreFrames = io.EOF
