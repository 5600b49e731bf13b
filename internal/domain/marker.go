package domain

// MarkerType selects the visualization primitive a Marker renders as.
type MarkerType uint8

const (
	// MarkerCube renders a solid box scaled to the object dimensions.
	MarkerCube MarkerType = iota

	// MarkerText renders a view-facing label string.
	MarkerText
)

// String returns the wire name of the marker type.
func (t MarkerType) String() string {
	switch t {
	case MarkerCube:
		return "cube"
	case MarkerText:
		return "text"
	default:
		return "unknown"
	}
}

// Quaternion is an orientation in xyzw order.
type Quaternion struct {
	X float64
	Y float64
	Z float64
	W float64
}

// IdentityQuaternion returns the no-rotation orientation.
func IdentityQuaternion() Quaternion {
	return Quaternion{W: 1}
}

// Pose is a position plus orientation.
type Pose struct {
	Position    Point3
	Orientation Quaternion
}

// Color is an RGBA color with components in [0,1].
type Color struct {
	R float64
	G float64
	B float64
	A float64
}

// Marker is a single visualization primitive describing how to render one
// detection for a human operator.
type Marker struct {
	Header    Header
	Namespace string
	ID        int32
	Type      MarkerType
	Pose      Pose

	// Scale is per-axis for cubes; for text markers only Z (glyph height)
	// is meaningful
	Scale Point3

	Color Color

	// Text is set for MarkerText only
	Text string
}

// MarkerSet is the visualization overlay published alongside a filtered
// frame. Constructed fresh per frame, never persisted.
type MarkerSet struct {
	Markers []Marker
}

// Size returns the number of markers in the set.
func (s MarkerSet) Size() int {
	return len(s.Markers)
}
