package domain

import (
	"math"
	"time"
)

// FrameRecord is the JSON wire layout of one detection frame, shared by the
// datagram transport and the file replay format.
//
// Position components are pointers because JSON has no NaN literal: encoders
// publish null for an invalid component and decoding maps null back to the
// NaN sentinel the filter checks for. Filtered output never carries NaN, so
// encoding always has all three components.
type FrameRecord struct {
	StampNS int64          `json:"stamp_ns"`
	FrameID string         `json:"frame_id"`
	Objects []ObjectRecord `json:"objects"`
}

// ObjectRecord is the wire layout of a single detection.
type ObjectRecord struct {
	Label      string       `json:"label"`
	LabelID    int32        `json:"label_id"`
	Position   [3]*float64  `json:"position"`
	Dimensions [3]float64   `json:"dimensions"`
	Corners    [][3]float64 `json:"corners"`
}

// ToFrame converts a FrameRecord to an ObjectFrame entity.
func (r FrameRecord) ToFrame() ObjectFrame {
	frame := ObjectFrame{
		Header: Header{
			Stamp:   time.Unix(0, r.StampNS),
			FrameID: r.FrameID,
		},
		Objects: make([]DetectedObject, 0, len(r.Objects)),
	}
	for _, o := range r.Objects {
		frame.Objects = append(frame.Objects, o.ToObject())
	}
	return frame
}

// ToObject converts an ObjectRecord to a DetectedObject entity.
func (o ObjectRecord) ToObject() DetectedObject {
	obj := DetectedObject{
		Label:   o.Label,
		LabelID: o.LabelID,
		Position: Point3{
			X: position(o.Position[0]),
			Y: position(o.Position[1]),
			Z: position(o.Position[2]),
		},
		Dimensions: Dim3{
			Length: o.Dimensions[0],
			Width:  o.Dimensions[1],
			Height: o.Dimensions[2],
		},
		Corners: make([]Point3, 0, len(o.Corners)),
	}
	for _, c := range o.Corners {
		obj.Corners = append(obj.Corners, Point3{X: c[0], Y: c[1], Z: c[2]})
	}
	return obj
}

// position maps a missing wire component to the NaN sentinel.
func position(v *float64) float64 {
	if v == nil {
		return math.NaN()
	}
	return *v
}

// ToRecord converts an ObjectFrame to its wire layout.
func (f ObjectFrame) ToRecord() FrameRecord {
	r := FrameRecord{
		StampNS: f.Header.Stamp.UnixNano(),
		FrameID: f.Header.FrameID,
		Objects: make([]ObjectRecord, 0, len(f.Objects)),
	}
	for _, obj := range f.Objects {
		r.Objects = append(r.Objects, obj.ToRecord())
	}
	return r
}

// ToRecord converts a DetectedObject to its wire layout.
func (obj DetectedObject) ToRecord() ObjectRecord {
	x, y, z := obj.Position.X, obj.Position.Y, obj.Position.Z
	r := ObjectRecord{
		Label:      obj.Label,
		LabelID:    obj.LabelID,
		Position:   [3]*float64{&x, &y, &z},
		Dimensions: [3]float64{obj.Dimensions.Length, obj.Dimensions.Width, obj.Dimensions.Height},
		Corners:    make([][3]float64, 0, len(obj.Corners)),
	}
	for _, c := range obj.Corners {
		r.Corners = append(r.Corners, [3]float64{c.X, c.Y, c.Z})
	}
	return r
}

// MarkerRecord is the JSON wire layout of a visualization marker.
type MarkerRecord struct {
	StampNS     int64      `json:"stamp_ns"`
	FrameID     string     `json:"frame_id"`
	Namespace   string     `json:"ns"`
	ID          int32      `json:"id"`
	Type        string     `json:"type"`
	Position    [3]float64 `json:"position"`
	Orientation [4]float64 `json:"orientation"`
	Scale       [3]float64 `json:"scale"`
	Color       [4]float64 `json:"color"`
	Text        string     `json:"text,omitempty"`
}

// MarkerSetRecord is the wire layout of a marker set.
type MarkerSetRecord struct {
	Markers []MarkerRecord `json:"markers"`
}

// ToRecord converts a MarkerSet to its wire layout.
func (s MarkerSet) ToRecord() MarkerSetRecord {
	r := MarkerSetRecord{
		Markers: make([]MarkerRecord, 0, len(s.Markers)),
	}
	for _, m := range s.Markers {
		r.Markers = append(r.Markers, MarkerRecord{
			StampNS:     m.Header.Stamp.UnixNano(),
			FrameID:     m.Header.FrameID,
			Namespace:   m.Namespace,
			ID:          m.ID,
			Type:        m.Type.String(),
			Position:    [3]float64{m.Pose.Position.X, m.Pose.Position.Y, m.Pose.Position.Z},
			Orientation: [4]float64{m.Pose.Orientation.X, m.Pose.Orientation.Y, m.Pose.Orientation.Z, m.Pose.Orientation.W},
			Scale:       [3]float64{m.Scale.X, m.Scale.Y, m.Scale.Z},
			Color:       [4]float64{m.Color.R, m.Color.G, m.Color.B, m.Color.A},
			Text:        m.Text,
		})
	}
	return r
}
