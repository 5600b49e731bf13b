package domain

import (
	"math"
	"time"
)

// BoxCorners is the number of vertices an oriented 3D bounding box carries.
// Detections with any other corner count are malformed and are skipped.
const BoxCorners = 8

// Point3 is a 3D coordinate in the detection coordinate frame.
type Point3 struct {
	X float64
	Y float64
	Z float64
}

// HasNaN reports whether any component is NaN. Upstream detectors use NaN
// components as the sentinel for an invalid position fix.
func (p Point3) HasNaN() bool {
	return math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsNaN(p.Z)
}

// Dim3 holds the detector-reported object dimensions along each axis.
type Dim3 struct {
	Length float64
	Width  float64
	Height float64
}

// DetectedObject is a single detection from the upstream perception stack.
// Objects are read-only to this node: they are selected or discarded, never
// mutated.
type DetectedObject struct {
	// Label is the class name (e.g. "Person", "Sport ball")
	Label string

	// LabelID is the numeric class identifier assigned by the detector
	LabelID int32

	// Position is the object centroid; components may be NaN when the
	// detector could not localize the object
	Position Point3

	// Dimensions is the detector's length/width/height estimate
	Dimensions Dim3

	// Corners holds the vertices of the oriented 3D bounding box as raw
	// coordinates. A well-formed box has exactly BoxCorners entries.
	Corners []Point3
}

// Header carries the acquisition timestamp and the coordinate frame the
// detections are expressed in.
type Header struct {
	// Stamp is the acquisition time of the detection frame
	Stamp time.Time

	// FrameID names the coordinate frame (e.g. "map", "zed_left_camera")
	FrameID string
}

// ObjectFrame is one timestamped batch of detections. One frame arrives per
// node-loop iteration and is fully consumed before the next is read.
type ObjectFrame struct {
	Header  Header
	Objects []DetectedObject
}

// Empty returns true if the frame carries no detections.
func (f ObjectFrame) Empty() bool {
	return len(f.Objects) == 0
}
