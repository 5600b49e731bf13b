// Package objfilter filters a stream of 3D object detections down to the
// small objects and republishes them together with a visualization overlay.
//
// Example usage:
//
//	cfg := objfilter.DefaultConfig()
//	cfg.ListenAddr = ":9301"
//	node, err := objfilter.New(cfg, objfilter.WithLogger(logger))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := node.Run(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
package objfilter

import (
	"context"
	"fmt"
	"time"

	fsadapter "github.com/wsu-pmp/object-detection-node/internal/adapters/fs"
	"github.com/wsu-pmp/object-detection-node/internal/adapters/udp"
	"github.com/wsu-pmp/object-detection-node/internal/domain"
	"github.com/wsu-pmp/object-detection-node/internal/filter"
	"github.com/wsu-pmp/object-detection-node/internal/ports"
	"github.com/wsu-pmp/object-detection-node/pkg/log"
)

// Config holds the configuration for the filter node.
// Use DefaultConfig() to get a Config with sensible defaults.
// The configuration is immutable once the node is constructed.
type Config struct {
	// ListenAddr is the UDP address detection frames arrive on. Ignored
	// when ReplayDir is set or a custom source is injected.
	ListenAddr string

	// ObjectsAddr is the UDP destination for filtered frames.
	ObjectsAddr string

	// MarkersAddr is the UDP destination for visualization markers.
	MarkersAddr string

	// ReplayDir replays recorded frame files instead of listening.
	ReplayDir string

	// SizeThreshold keeps an object only if its largest bounding-box
	// extent is strictly below this value, in meters.
	SizeThreshold float64

	// MaxObjects caps the kept objects per frame.
	MaxObjects int

	// PollInterval is the retry delay for drained or failing sources.
	PollInterval time.Duration

	// Once processes the frames already available and exits.
	Once bool
}

// DefaultConfig returns a Config with default values: the filtering
// parameters the node ships with and loopback transport endpoints.
func DefaultConfig() Config {
	return Config{
		ListenAddr:    ":9301",
		ObjectsAddr:   "127.0.0.1:9302",
		MarkersAddr:   "127.0.0.1:9303",
		SizeThreshold: filter.DefaultSizeThreshold,
		MaxObjects:    filter.DefaultMaxObjects,
		PollInterval:  500 * time.Millisecond,
	}
}

// SetDefaults fills zero-valued filtering parameters with the defaults.
func (c *Config) SetDefaults() {
	if c.SizeThreshold == 0 {
		c.SizeThreshold = filter.DefaultSizeThreshold
	}
	if c.MaxObjects == 0 {
		c.MaxObjects = filter.DefaultMaxObjects
	}
	if c.PollInterval == 0 {
		c.PollInterval = 500 * time.Millisecond
	}
}

// Validate checks the configuration for errors.
// Returned errors match domain.ErrInvalidConfig under errors.Is.
func (c Config) Validate() error {
	return filter.Config{
		SizeThreshold: c.SizeThreshold,
		MaxObjects:    c.MaxObjects,
	}.Validate()
}

// Option configures optional behavior of the node.
type Option func(*options)

type options struct {
	logger  log.Logger
	source  ports.FrameSource
	objects ports.ObjectPublisher
	markers ports.MarkerPublisher
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithSource injects a frame source, replacing the configured transport.
// Useful for embedding and tests.
func WithSource(source ports.FrameSource) Option {
	return func(o *options) {
		o.source = source
	}
}

// WithObjectPublisher injects the filtered-frame output port.
func WithObjectPublisher(pub ports.ObjectPublisher) Option {
	return func(o *options) {
		o.objects = pub
	}
}

// WithMarkerPublisher injects the marker output port.
func WithMarkerPublisher(pub ports.MarkerPublisher) Option {
	return func(o *options) {
		o.markers = pub
	}
}

// Node is the assembled filter node. Use New() to create an instance, then
// Run() to process frames until the context is canceled.
type Node struct {
	node *filter.Node
}

// New creates a node from the configuration, wiring the UDP or replay
// adapters for any port not injected through options.
func New(cfg Config, opts ...Option) (*Node, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{logger: log.NewNoopLogger()}
	for _, opt := range opts {
		opt(&o)
	}

	source := o.source
	if source == nil {
		var err error
		switch {
		case cfg.ReplayDir != "":
			source, err = fsadapter.NewReplaySource(cfg.ReplayDir, cfg.Once, o.logger)
		case cfg.ListenAddr != "":
			source, err = udp.NewSource(cfg.ListenAddr, o.logger)
		default:
			return nil, domain.ErrNoSource
		}
		if err != nil {
			return nil, fmt.Errorf("create source: %w", err)
		}
	}

	objects := o.objects
	if objects == nil {
		pub, err := udp.NewPublisher(cfg.ObjectsAddr)
		if err != nil {
			source.Close()
			return nil, fmt.Errorf("create objects publisher: %w", err)
		}
		objects = pub
	}

	markers := o.markers
	if markers == nil {
		pub, err := udp.NewPublisher(cfg.MarkersAddr)
		if err != nil {
			source.Close()
			return nil, fmt.Errorf("create markers publisher: %w", err)
		}
		markers = pub
	}

	f := filter.New(filter.Config{
		SizeThreshold: cfg.SizeThreshold,
		MaxObjects:    cfg.MaxObjects,
	})
	node := filter.NewNode(
		filter.NodeConfig{PollInterval: cfg.PollInterval, Once: cfg.Once},
		f, source, objects, markers, o.logger,
	)

	return &Node{node: node}, nil
}

// Run executes the node loop. It blocks until the context is cancelled or,
// in once mode, until the source is drained.
func (n *Node) Run(ctx context.Context) error {
	return n.node.Run(ctx)
}
