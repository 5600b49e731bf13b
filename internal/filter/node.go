package filter

import (
	"context"
	"errors"
	"time"

	"github.com/wsu-pmp/object-detection-node/internal/domain"
	"github.com/wsu-pmp/object-detection-node/internal/ports"
	"github.com/wsu-pmp/object-detection-node/pkg/log"
)

// NodeConfig contains configuration for the node loop.
type NodeConfig struct {
	// PollInterval is the delay before retrying a drained or failing
	// source.
	PollInterval time.Duration

	// Once processes the frames the source already holds and exits
	// instead of polling.
	Once bool
}

// Node runs the receive, filter, publish loop. One frame is processed to
// completion before the next is read; outputs leave in arrival order.
type Node struct {
	cfg     NodeConfig
	filter  *Filter
	source  ports.FrameSource
	objects ports.ObjectPublisher
	markers ports.MarkerPublisher
	logger  log.Logger
}

// NewNode creates a node with the given dependencies.
func NewNode(
	cfg NodeConfig,
	f *Filter,
	source ports.FrameSource,
	objects ports.ObjectPublisher,
	markers ports.MarkerPublisher,
	logger log.Logger,
) *Node {
	return &Node{
		cfg:     cfg,
		filter:  f,
		source:  source,
		objects: objects,
		markers: markers,
		logger:  logger,
	}
}

// Run executes the node loop until the context is canceled or, in once
// mode, the source is drained.
func (n *Node) Run(ctx context.Context) error {
	defer n.source.Close()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		frame, err := n.source.Next(ctx)
		if err != nil {
			if errors.Is(err, ports.ErrNoMoreFrames) {
				if n.cfg.Once {
					return nil
				}
				if err := n.sleep(ctx); err != nil {
					return err
				}
				continue
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}

			// Transport-level error. Log and retry after a delay so a
			// persistently broken source cannot spin the loop.
			n.logger.Error("read frame", log.Err(err))
			if err := n.sleep(ctx); err != nil {
				return err
			}
			continue
		}

		n.handleFrame(ctx, frame)
	}
}

// handleFrame runs one filtering pass and publishes the results. Frames
// where nothing survives produce no output at all; downstream consumers see
// silence rather than an empty message.
func (n *Node) handleFrame(ctx context.Context, frame domain.ObjectFrame) {
	filtered, markers := n.filter.Process(frame)
	if filtered == nil {
		return
	}

	if err := n.objects.PublishObjects(ctx, *filtered); err != nil {
		n.logger.Error("publish objects", log.Err(err))
	}
	if err := n.markers.PublishMarkers(ctx, *markers); err != nil {
		n.logger.Error("publish markers", log.Err(err))
	}

	n.logger.Info("published small objects",
		log.Int("objects", len(filtered.Objects)),
		log.String("frame_id", frame.Header.FrameID),
	)
}

func (n *Node) sleep(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(n.cfg.PollInterval):
		return nil
	}
}
