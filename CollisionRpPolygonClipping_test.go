package realphysics4d

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func square(center mgl64.Vec3, half float64) []mgl64.Vec3 {
	return []mgl64.Vec3{
		center.Add(mgl64.Vec3{-half, -half, 0}),
		center.Add(mgl64.Vec3{half, -half, 0}),
		center.Add(mgl64.Vec3{half, half, 0}),
		center.Add(mgl64.Vec3{-half, half, 0}),
	}
}

func TestClipPolygonAgainstPlane(t *testing.T) {
	up := mgl64.Vec3{0, 0, 1}
	subject := square(mgl64.Vec3{}, 1)

	tests := []struct {
		name   string
		point  mgl64.Vec3
		normal mgl64.Vec3
		count  int
		area   float64
	}{
		{name: "keep all", point: mgl64.Vec3{-2, 0, 0}, normal: mgl64.Vec3{1, 0, 0}, count: 4, area: 4},
		{name: "half", point: mgl64.Vec3{}, normal: mgl64.Vec3{1, 0, 0}, count: 4, area: 2},
		{name: "corner", point: mgl64.Vec3{0.5, 0.5, 0}, normal: mgl64.Vec3{1, 1, 0}.Normalize(), count: 3, area: 0.5},
		{name: "nothing", point: mgl64.Vec3{2, 0, 0}, normal: mgl64.Vec3{1, 0, 0}, count: 0, area: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clipped := RpClipPolygonAgainstPlane(subject, tt.point, tt.normal)
			if len(clipped) != tt.count {
				t.Fatalf("got %d vertices %v, want %d", len(clipped), clipped, tt.count)
			}

			if area := RpPolygonArea(clipped, up); math.Abs(area-tt.area) > 1e-12 {
				t.Errorf("area = %v, want %v", area, tt.area)
			}

			for _, p := range clipped {
				if p.Sub(tt.point).Dot(tt.normal) < -1e-9 {
					t.Errorf("vertex %v lies outside the half-space", p)
				}
			}
		})
	}
}

func TestClipSegmentAgainstPlane(t *testing.T) {
	segment := []mgl64.Vec3{{-1, 0, 0}, {1, 0, 0}}

	clipped := RpClipPolygonAgainstPlane(segment, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0})
	if len(clipped) != 2 || !vec3Near(clipped[0], mgl64.Vec3{}, 1e-12) || !vec3Near(clipped[1], mgl64.Vec3{1, 0, 0}, 1e-12) {
		t.Errorf("clipped segment = %v", clipped)
	}

	if clipped := RpClipPolygonAgainstPlane(segment, mgl64.Vec3{2, 0, 0}, mgl64.Vec3{1, 0, 0}); len(clipped) != 0 {
		t.Errorf("segment outside the plane kept %v", clipped)
	}

	if clipped := RpClipPolygonAgainstPlane(segment[:1], mgl64.Vec3{}, mgl64.Vec3{-1, 0, 0}); len(clipped) != 1 {
		t.Errorf("point inside the plane dropped")
	}
}

func TestClipPolygons(t *testing.T) {
	up := mgl64.Vec3{0, 0, 1}

	// A square against itself is unchanged.
	self := RpClipPolygons(square(mgl64.Vec3{}, 1), square(mgl64.Vec3{}, 1), up)
	if area := RpPolygonArea(self, up); math.Abs(area-4) > 1e-12 {
		t.Errorf("self clip area = %v, want 4", area)
	}

	// Overlapping squares keep the shared quarter.
	shifted := RpClipPolygons(square(mgl64.Vec3{1, 1, 0}, 1), square(mgl64.Vec3{}, 1), up)
	if area := RpPolygonArea(shifted, up); math.Abs(area-1) > 1e-12 {
		t.Errorf("shifted clip area = %v, want 1", area)
	}

	// A large subject is cut down to the clip polygon.
	large := RpClipPolygons(square(mgl64.Vec3{}, 5), square(mgl64.Vec3{}, 1), up)
	if area := RpPolygonArea(large, up); math.Abs(area-4) > 1e-12 {
		t.Errorf("large clip area = %v, want 4", area)
	}

	if disjoint := RpClipPolygons(square(mgl64.Vec3{5, 0, 0}, 1), square(mgl64.Vec3{}, 1), up); disjoint != nil {
		t.Errorf("disjoint squares produced %v", disjoint)
	}

	// A segment crossing the square keeps its inner part.
	segment := RpClipPolygons([]mgl64.Vec3{{-3, 0, 0}, {3, 0, 0}}, square(mgl64.Vec3{}, 1), up)
	if len(segment) != 2 || math.Abs(segment[1].Sub(segment[0]).Len()-2) > 1e-12 {
		t.Errorf("clipped segment = %v", segment)
	}
}
