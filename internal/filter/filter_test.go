package filter

import (
	"fmt"
	"math"
	"testing"

	"github.com/wsu-pmp/object-detection-node/internal/domain"
)

const eps = 1e-9

// cubeCorners builds the 8 vertices of an axis-aligned box centered at
// (cx, cy, cz) with the given spans.
func cubeCorners(cx, cy, cz, sx, sy, sz float64) []domain.Point3 {
	corners := make([]domain.Point3, 0, 8)
	for _, dx := range []float64{-sx / 2, sx / 2} {
		for _, dy := range []float64{-sy / 2, sy / 2} {
			for _, dz := range []float64{-sz / 2, sz / 2} {
				corners = append(corners, domain.Point3{X: cx + dx, Y: cy + dy, Z: cz + dz})
			}
		}
	}
	return corners
}

func smallObject(label string, id int32) domain.DetectedObject {
	return domain.DetectedObject{
		Label:      label,
		LabelID:    id,
		Position:   domain.Point3{X: 1, Y: 1, Z: 1},
		Dimensions: domain.Dim3{Length: 0.5, Width: 0.5, Height: 0.5},
		Corners:    cubeCorners(1, 1, 1, 0.5, 0.5, 0.5),
	}
}

func frameOf(objects ...domain.DetectedObject) domain.ObjectFrame {
	return domain.ObjectFrame{
		Header:  domain.Header{FrameID: "map"},
		Objects: objects,
	}
}

func TestProcessKeepsSmallObject(t *testing.T) {
	f := New(DefaultConfig())

	obj := smallObject("Sport ball", 3)
	filtered, markers := f.Process(frameOf(obj))

	if filtered == nil || markers == nil {
		t.Fatal("expected outputs for a qualifying object")
	}
	if len(filtered.Objects) != 1 {
		t.Fatalf("kept %d objects, want 1", len(filtered.Objects))
	}
	if filtered.Header.FrameID != "map" {
		t.Errorf("FrameID = %q, want map", filtered.Header.FrameID)
	}
	if len(markers.Markers) != 2 {
		t.Fatalf("got %d markers, want 2", len(markers.Markers))
	}

	cube := markers.Markers[0]
	if cube.ID != 0 || cube.Type != domain.MarkerCube {
		t.Errorf("cube marker = id %d type %v, want id 0 type cube", cube.ID, cube.Type)
	}
	if cube.Namespace != "small_objects" {
		t.Errorf("cube namespace = %q", cube.Namespace)
	}
	if cube.Pose.Position != obj.Position {
		t.Errorf("cube position = %+v, want %+v", cube.Pose.Position, obj.Position)
	}
	if cube.Pose.Orientation != domain.IdentityQuaternion() {
		t.Errorf("cube orientation = %+v, want identity", cube.Pose.Orientation)
	}
	if cube.Scale != (domain.Point3{X: 0.5, Y: 0.5, Z: 0.5}) {
		t.Errorf("cube scale = %+v, want object dimensions", cube.Scale)
	}
	if cube.Color != (domain.Color{G: 1, A: 0.5}) {
		t.Errorf("cube color = %+v, want translucent green", cube.Color)
	}

	text := markers.Markers[1]
	if text.ID != 1 || text.Type != domain.MarkerText {
		t.Errorf("text marker = id %d type %v, want id 1 type text", text.ID, text.Type)
	}
	if text.Namespace != "small_objects_text" {
		t.Errorf("text namespace = %q", text.Namespace)
	}
	if text.Text != "Sport ball (id=3)" {
		t.Errorf("text = %q, want %q", text.Text, "Sport ball (id=3)")
	}
	wantZ := obj.Position.Z + obj.Dimensions.Height/2 + 0.1
	if math.Abs(text.Pose.Position.Z-wantZ) > eps {
		t.Errorf("text z = %v, want %v", text.Pose.Position.Z, wantZ)
	}
	if text.Pose.Position.X != obj.Position.X || text.Pose.Position.Y != obj.Position.Y {
		t.Errorf("text x/y = (%v, %v), want object x/y", text.Pose.Position.X, text.Pose.Position.Y)
	}
	if math.Abs(text.Scale.Z-0.2) > eps {
		t.Errorf("text scale z = %v, want 0.2", text.Scale.Z)
	}
	if text.Color != (domain.Color{R: 1, G: 1, B: 1, A: 1}) {
		t.Errorf("text color = %+v, want opaque white", text.Color)
	}
}

func TestProcessRejections(t *testing.T) {
	tests := []struct {
		name string
		obj  domain.DetectedObject
	}{
		{
			name: "oversized box",
			obj: domain.DetectedObject{
				Position: domain.Point3{X: 1, Y: 1, Z: 1},
				Corners:  cubeCorners(1, 1, 1, 1.0, 0.2, 0.2),
			},
		},
		{
			name: "extent at threshold",
			obj: domain.DetectedObject{
				Position: domain.Point3{X: 1, Y: 1, Z: 1},
				Corners:  cubeCorners(1, 1, 1, 0.9, 0.2, 0.2),
			},
		},
		{
			name: "nan position",
			obj: domain.DetectedObject{
				Position: domain.Point3{X: math.NaN(), Y: 0, Z: 0},
				Corners:  cubeCorners(0, 0, 0, 0.1, 0.1, 0.1),
			},
		},
		{
			name: "six corners",
			obj: domain.DetectedObject{
				Position: domain.Point3{X: 0, Y: 0, Z: 0},
				Corners:  cubeCorners(0, 0, 0, 0.1, 0.1, 0.1)[:6],
			},
		},
		{
			name: "no corners",
			obj: domain.DetectedObject{
				Position: domain.Point3{X: 0, Y: 0, Z: 0},
			},
		},
	}

	f := New(DefaultConfig())
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filtered, markers := f.Process(frameOf(tt.obj))
			if filtered != nil || markers != nil {
				t.Errorf("object was kept, want rejected")
			}
		})
	}
}

func TestProcessCapOrder(t *testing.T) {
	f := New(DefaultConfig())

	frame := domain.ObjectFrame{Header: domain.Header{FrameID: "map"}}
	for i := 0; i < 15; i++ {
		frame.Objects = append(frame.Objects, smallObject(fmt.Sprintf("obj-%d", i), int32(i)))
	}

	filtered, markers := f.Process(frame)
	if filtered == nil {
		t.Fatal("expected output")
	}
	if len(filtered.Objects) != DefaultMaxObjects {
		t.Fatalf("kept %d objects, want %d", len(filtered.Objects), DefaultMaxObjects)
	}
	// The cap works by scan position: the first ten qualifying objects
	// survive, not the ten smallest.
	for i, obj := range filtered.Objects {
		if obj.LabelID != int32(i) {
			t.Errorf("kept[%d].LabelID = %d, want %d", i, obj.LabelID, i)
		}
	}
	if markers.Size() != 2*DefaultMaxObjects {
		t.Errorf("got %d markers, want %d", markers.Size(), 2*DefaultMaxObjects)
	}
}

func TestProcessSkipsInvalidAndPreservesOrder(t *testing.T) {
	big := domain.DetectedObject{
		Label:    "Person",
		LabelID:  100,
		Position: domain.Point3{X: 2, Y: 2, Z: 2},
		Corners:  cubeCorners(2, 2, 2, 0.4, 0.4, 1.7),
	}
	invalid := domain.DetectedObject{
		Label:    "ghost",
		LabelID:  101,
		Position: domain.Point3{X: 0, Y: math.NaN(), Z: 0},
		Corners:  cubeCorners(0, 0, 0, 0.1, 0.1, 0.1),
	}

	f := New(DefaultConfig())
	filtered, _ := f.Process(frameOf(
		smallObject("a", 1), big, invalid, smallObject("b", 2),
	))

	if filtered == nil {
		t.Fatal("expected output")
	}
	if len(filtered.Objects) != 2 {
		t.Fatalf("kept %d objects, want 2", len(filtered.Objects))
	}
	if filtered.Objects[0].LabelID != 1 || filtered.Objects[1].LabelID != 2 {
		t.Errorf("kept ids = %d, %d, want 1, 2",
			filtered.Objects[0].LabelID, filtered.Objects[1].LabelID)
	}
}

func TestProcessNothingSurvives(t *testing.T) {
	f := New(DefaultConfig())

	filtered, markers := f.Process(frameOf(
		domain.DetectedObject{
			Position: domain.Point3{X: math.NaN(), Y: 0, Z: 0},
			Corners:  cubeCorners(0, 0, 0, 0.1, 0.1, 0.1),
		},
		domain.DetectedObject{
			Position: domain.Point3{X: 1, Y: 1, Z: 1},
			Corners:  cubeCorners(1, 1, 1, 2, 2, 2),
		},
	))
	if filtered != nil || markers != nil {
		t.Error("expected no output when nothing survives")
	}

	filtered, markers = f.Process(domain.ObjectFrame{})
	if filtered != nil || markers != nil {
		t.Error("expected no output for an empty frame")
	}
}

func TestBoxExtents(t *testing.T) {
	length, width, height := boxExtents(cubeCorners(3, -2, 0.5, 0.3, 0.6, 1.2))
	if math.Abs(length-0.3) > eps {
		t.Errorf("length = %v, want 0.3", length)
	}
	if math.Abs(width-0.6) > eps {
		t.Errorf("width = %v, want 0.6", width)
	}
	if math.Abs(height-1.2) > eps {
		t.Errorf("height = %v, want 1.2", height)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
	if err := (Config{SizeThreshold: 0, MaxObjects: 10}).Validate(); err == nil {
		t.Error("zero threshold accepted")
	}
	if err := (Config{SizeThreshold: 0.9, MaxObjects: -1}).Validate(); err == nil {
		t.Error("negative max objects accepted")
	}
}
