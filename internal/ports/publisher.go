package ports

import (
	"context"

	"github.com/wsu-pmp/object-detection-node/internal/domain"
)

// ObjectPublisher emits filtered detection frames to downstream consumers.
type ObjectPublisher interface {
	// PublishObjects sends one filtered frame. Delivery is best-effort;
	// the node logs failures and keeps running.
	PublishObjects(ctx context.Context, frame domain.ObjectFrame) error
}

// MarkerPublisher emits visualization overlays for a human operator.
type MarkerPublisher interface {
	// PublishMarkers sends the marker set rendered from one filtered
	// frame.
	PublishMarkers(ctx context.Context, set domain.MarkerSet) error
}
