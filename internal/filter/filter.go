package filter

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/wsu-pmp/object-detection-node/internal/domain"
)

// Default filtering parameters.
const (
	// DefaultSizeThreshold is the keep limit in meters.
	DefaultSizeThreshold = 0.9

	// DefaultMaxObjects caps how many objects one output frame carries.
	DefaultMaxObjects = 10
)

// Marker rendering constants, shared with the RViz-side consumers.
const (
	cubeNamespace = "small_objects"
	textNamespace = "small_objects_text"

	// textHeight is the glyph height of label markers, in meters.
	textHeight = 0.2

	// textZOffset lifts the label clear of the cube's top face.
	textZOffset = 0.1
)

var (
	cubeColor = domain.Color{G: 1, A: 0.5}
	textColor = domain.Color{R: 1, G: 1, B: 1, A: 1}
)

// Config holds the two filtering constants. Immutable after construction;
// there is no runtime reconfiguration.
type Config struct {
	// SizeThreshold keeps an object only if its largest axis-aligned
	// bounding-box extent is strictly below this value, in meters.
	SizeThreshold float64

	// MaxObjects caps the kept objects per frame. Scanning stops as soon
	// as the cap is reached.
	MaxObjects int
}

// DefaultConfig returns the filtering parameters the node ships with.
func DefaultConfig() Config {
	return Config{
		SizeThreshold: DefaultSizeThreshold,
		MaxObjects:    DefaultMaxObjects,
	}
}

// Validate checks the configuration for errors.
func (c Config) Validate() error {
	if c.SizeThreshold <= 0 {
		return fmt.Errorf("%w: size threshold must be positive", domain.ErrInvalidConfig)
	}
	if c.MaxObjects <= 0 {
		return fmt.Errorf("%w: max objects must be positive", domain.ErrInvalidConfig)
	}
	return nil
}

// Filter is the small-object selection transform. It is a pure, total
// function of the input frame and its configuration: malformed objects are
// skipped, never failed, and no input can make Process error.
type Filter struct {
	cfg Config
}

// New creates a filter with the given configuration.
func New(cfg Config) *Filter {
	return &Filter{cfg: cfg}
}

// Process selects the small objects of one frame and renders their
// visualization overlay.
//
// An object is kept when its position has no NaN component, its bounding box
// has exactly domain.BoxCorners vertices, and the largest of its axis-aligned
// extents is strictly below the size threshold. Kept objects preserve input
// order; scanning stops once MaxObjects have been kept, so the result is the
// first qualifying objects by scan position, not the smallest.
//
// Both results are nil when no object qualifies: empty frames are dropped,
// not published.
func (f *Filter) Process(frame domain.ObjectFrame) (*domain.ObjectFrame, *domain.MarkerSet) {
	kept := make([]domain.DetectedObject, 0, f.cfg.MaxObjects)

	for _, obj := range frame.Objects {
		if obj.Position.HasNaN() {
			continue
		}
		if len(obj.Corners) != domain.BoxCorners {
			continue
		}

		length, width, height := boxExtents(obj.Corners)
		if math.Max(length, math.Max(width, height)) < f.cfg.SizeThreshold {
			kept = append(kept, obj)
		}

		if len(kept) >= f.cfg.MaxObjects {
			break
		}
	}

	if len(kept) == 0 {
		return nil, nil
	}

	out := &domain.ObjectFrame{
		Header:  frame.Header,
		Objects: kept,
	}
	return out, renderMarkers(frame.Header, kept)
}

// boxExtents computes the axis-aligned span of the corner cloud along each
// axis. Corners are raw coordinates; no orientation mapping is applied.
func boxExtents(corners []domain.Point3) (length, width, height float64) {
	xs := make([]float64, len(corners))
	ys := make([]float64, len(corners))
	zs := make([]float64, len(corners))
	for i, c := range corners {
		xs[i] = c.X
		ys[i] = c.Y
		zs[i] = c.Z
	}
	length = floats.Max(xs) - floats.Min(xs)
	width = floats.Max(ys) - floats.Min(ys)
	height = floats.Max(zs) - floats.Min(zs)
	return length, width, height
}

// renderMarkers builds the overlay for the kept objects: per object a
// translucent green cube sized to the detector dimensions (id 2i) and a white
// view-facing label above it (id 2i+1).
func renderMarkers(header domain.Header, objects []domain.DetectedObject) *domain.MarkerSet {
	set := &domain.MarkerSet{
		Markers: make([]domain.Marker, 0, 2*len(objects)),
	}

	for i, obj := range objects {
		cube := domain.Marker{
			Header:    header,
			Namespace: cubeNamespace,
			ID:        int32(2 * i),
			Type:      domain.MarkerCube,
			Pose: domain.Pose{
				Position:    obj.Position,
				Orientation: domain.IdentityQuaternion(),
			},
			Scale: domain.Point3{
				X: obj.Dimensions.Length,
				Y: obj.Dimensions.Width,
				Z: obj.Dimensions.Height,
			},
			Color: cubeColor,
		}
		set.Markers = append(set.Markers, cube)

		text := domain.Marker{
			Header:    header,
			Namespace: textNamespace,
			ID:        int32(2*i + 1),
			Type:      domain.MarkerText,
			Pose: domain.Pose{
				Position: domain.Point3{
					X: obj.Position.X,
					Y: obj.Position.Y,
					Z: obj.Position.Z + obj.Dimensions.Height/2 + textZOffset,
				},
				Orientation: domain.IdentityQuaternion(),
			},
			Scale: domain.Point3{Z: textHeight},
			Color: textColor,
			Text:  fmt.Sprintf("%s (id=%d)", obj.Label, obj.LabelID),
		}
		set.Markers = append(set.Markers, text)
	}

	return set
}
