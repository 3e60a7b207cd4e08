package realphysics4d

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func testContactGeneration(axis mgl64.Vec3) RpContactGeneration {
	return RpContactGeneration{
		M_separatingAxis: axis.Normalize(),
		M_settings:       MakeRpSettings(),
	}
}

func TestClosestPointOnLine(t *testing.T) {
	a := mgl64.Vec3{0, 0, 0}
	b := mgl64.Vec3{2, 0, 0}

	tests := []struct {
		p    mgl64.Vec3
		want mgl64.Vec3
	}{
		{p: mgl64.Vec3{1, 1, 0}, want: mgl64.Vec3{1, 0, 0}},
		{p: mgl64.Vec3{-1, 1, 0}, want: a},
		{p: mgl64.Vec3{5, 0, 3}, want: b},
	}

	for _, tt := range tests {
		if got := RpClosestPointOnLine(a, b, tt.p); !vec3Near(got, tt.want, 1e-12) {
			t.Errorf("closest to %v = %v, want %v", tt.p, got, tt.want)
		}
	}

	if got := RpClosestPointOnLine(a, a, mgl64.Vec3{1, 1, 1}); got != a {
		t.Errorf("degenerate segment gave %v", got)
	}
}

func TestLineLineIntersect(t *testing.T) {
	pa, pb, ok := RpLineLineIntersect(
		mgl64.Vec3{-1, 0, 1}, mgl64.Vec3{1, 0, 1},
		mgl64.Vec3{0, -1, 0}, mgl64.Vec3{0, 1, 0},
		RP_epsilon,
	)
	if !ok {
		t.Fatalf("perpendicular lines reported parallel")
	}
	if !vec3Near(pa, mgl64.Vec3{0, 0, 1}, 1e-12) || !vec3Near(pb, mgl64.Vec3{}, 1e-12) {
		t.Errorf("closest points %v %v", pa, pb)
	}

	if _, _, ok := RpLineLineIntersect(
		mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0},
		mgl64.Vec3{0, 1, 0}, mgl64.Vec3{2, 1, 0},
		RP_epsilon,
	); ok {
		t.Errorf("parallel lines intersected")
	}

	if _, _, ok := RpLineLineIntersect(
		mgl64.Vec3{0, 0, 0}, mgl64.Vec3{0, 0, 0},
		mgl64.Vec3{0, 1, 0}, mgl64.Vec3{2, 1, 0},
		RP_epsilon,
	); ok {
		t.Errorf("zero-length segment intersected")
	}
}

func TestConvertSupportPointsPointFace(t *testing.T) {
	// Face of shape 2 in the z = 0 plane with normal +z.
	face := []mgl64.Vec3{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}}
	gen := testContactGeneration(mgl64.Vec3{0, 0, -1})

	if _, ok := gen.ConvertSupportPointsToContacts([]mgl64.Vec3{{0, 0, 1}}, face); ok {
		t.Errorf("point in front of the face produced a contact")
	}

	candidates, ok := gen.ConvertSupportPointsToContacts([]mgl64.Vec3{{0, 0, -1}}, face)
	if !ok || candidates.GetCount() != 1 {
		t.Fatalf("point behind the face: ok=%t count=%d", ok, candidates.GetCount())
	}

	c := candidates.At(0)
	if math.Abs(c.Penetration-1.0) > 1e-12 {
		t.Errorf("penetration = %v, want 1", c.Penetration)
	}
	if !vec3Near(c.LocalPoint1, mgl64.Vec3{0, 0, -1}, 1e-12) || !vec3Near(c.LocalPoint2, mgl64.Vec3{}, 1e-12) {
		t.Errorf("points %v %v", c.LocalPoint1, c.LocalPoint2)
	}
	if c.Normal != gen.GetSeparatingAxis() {
		t.Errorf("normal %v is not the separating axis", c.Normal)
	}
}

func TestConvertSupportPointsFacePoint(t *testing.T) {
	// Shape 1 presents a face with normal -z, shape 2 a single vertex.
	face := []mgl64.Vec3{{-1, -1, 0}, {-1, 1, 0}, {1, 1, 0}, {1, -1, 0}}
	gen := testContactGeneration(mgl64.Vec3{0, 0, -1})

	candidates, ok := gen.ConvertSupportPointsToContacts(face, []mgl64.Vec3{{0.5, 0, 0.25}})
	if !ok || candidates.GetCount() != 1 {
		t.Fatalf("ok=%t count=%d", ok, candidates.GetCount())
	}

	// The first point lies on shape 1.
	c := candidates.At(0)
	if !vec3Near(c.LocalPoint1, mgl64.Vec3{0.5, 0, 0}, 1e-12) || !vec3Near(c.LocalPoint2, mgl64.Vec3{0.5, 0, 0.25}, 1e-12) {
		t.Errorf("points %v %v", c.LocalPoint1, c.LocalPoint2)
	}
	if math.Abs(c.Penetration-0.25) > 1e-12 {
		t.Errorf("penetration = %v", c.Penetration)
	}
}

func TestConvertSupportPointsEdges(t *testing.T) {
	gen := testContactGeneration(mgl64.Vec3{0, 0, 1})

	edgeA := []mgl64.Vec3{{-1, 0, 0.1}, {1, 0, 0.1}}
	edgeB := []mgl64.Vec3{{0, -1, 0}, {0, 1, 0}}

	candidates, ok := gen.ConvertSupportPointsToContacts(edgeA, edgeB)
	if !ok || candidates.GetCount() != 1 {
		t.Fatalf("perpendicular edges: ok=%t count=%d", ok, candidates.GetCount())
	}
	c := candidates.At(0)
	if !vec3Near(c.LocalPoint1, mgl64.Vec3{0, 0, 0.1}, 1e-12) || !vec3Near(c.LocalPoint2, mgl64.Vec3{}, 1e-12) {
		t.Errorf("points %v %v", c.LocalPoint1, c.LocalPoint2)
	}
	if math.Abs(c.Penetration-0.1) > 1e-12 {
		t.Errorf("penetration = %v", c.Penetration)
	}

	parallel := []mgl64.Vec3{{-1, 0, 0}, {1, 0, 0}}
	if _, ok := gen.ConvertSupportPointsToContacts(edgeA, parallel); ok {
		t.Errorf("parallel edges produced a contact")
	}
}

func TestConvertSupportPointsPointEdge(t *testing.T) {
	gen := testContactGeneration(mgl64.Vec3{0, 0, 1})
	edge := []mgl64.Vec3{{-1, 0, 0}, {1, 0, 0}}
	point := []mgl64.Vec3{{0.5, 0, 0.2}}

	candidates, ok := gen.ConvertSupportPointsToContacts(point, edge)
	if !ok {
		t.Fatalf("point-edge produced no contact")
	}
	c := candidates.At(0)
	if !vec3Near(c.LocalPoint1, point[0], 1e-12) || !vec3Near(c.LocalPoint2, mgl64.Vec3{0.5, 0, 0}, 1e-12) {
		t.Errorf("point-edge points %v %v", c.LocalPoint1, c.LocalPoint2)
	}

	// Swapped roles keep the first point on shape 1.
	candidates, ok = gen.ConvertSupportPointsToContacts(edge, point)
	if !ok {
		t.Fatalf("edge-point produced no contact")
	}
	c = candidates.At(0)
	if !vec3Near(c.LocalPoint1, mgl64.Vec3{0.5, 0, 0}, 1e-12) || !vec3Near(c.LocalPoint2, point[0], 1e-12) {
		t.Errorf("edge-point points %v %v", c.LocalPoint1, c.LocalPoint2)
	}
}

func TestConvertSupportPointsPointPoint(t *testing.T) {
	gen := testContactGeneration(mgl64.Vec3{1, 0, 0})
	p := mgl64.Vec3{1, 2, 3}

	candidates, ok := gen.ConvertSupportPointsToContacts([]mgl64.Vec3{p}, []mgl64.Vec3{p})
	if !ok || candidates.GetCount() != 1 {
		t.Fatalf("ok=%t count=%d", ok, candidates.GetCount())
	}
	if candidates.At(0).Penetration != 0.0 {
		t.Errorf("coincident points penetration = %v", candidates.At(0).Penetration)
	}

	if _, ok := gen.ConvertSupportPointsToContacts(nil, []mgl64.Vec3{p}); ok {
		t.Errorf("empty support set produced a contact")
	}
}

func TestConvertSupportPointsFaceFace(t *testing.T) {
	// Shape 1 top face at z = 0 (normal +z), shape 2 bottom face at z = -0.1
	// (normal -z), offset so that a quarter overlaps.
	faceA := []mgl64.Vec3{{-1, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}}
	faceB := []mgl64.Vec3{{0, 0, -0.1}, {0, 2, -0.1}, {2, 2, -0.1}, {2, 0, -0.1}}

	gen := testContactGeneration(mgl64.Vec3{0, 0, 1})
	candidates, ok := gen.ConvertSupportPointsToContacts(faceA, faceB)
	if !ok {
		t.Fatalf("face-face produced no contact")
	}

	if candidates.GetCount() != 4 {
		t.Fatalf("got %d contacts, want 4", candidates.GetCount())
	}

	var polygon []mgl64.Vec3
	for _, c := range candidates.Slice() {
		if math.Abs(c.Penetration-0.1) > 1e-12 {
			t.Errorf("penetration = %v", c.Penetration)
		}
		if math.Abs(c.LocalPoint1[2]) > 1e-12 || math.Abs(c.LocalPoint2[2]+0.1) > 1e-12 {
			t.Errorf("points %v %v are not on their faces", c.LocalPoint1, c.LocalPoint2)
		}
		polygon = append(polygon, c.LocalPoint1)
	}

	if area := RpPolygonArea(polygon, mgl64.Vec3{0, 0, 1}); math.Abs(area-1.0) > 1e-12 {
		t.Errorf("contact area = %v, want 1", area)
	}
}

func TestContactCandidatesCapacity(t *testing.T) {
	builder := MakeRpContactCandidatesBuilder(2)
	for i := 0; i < 5; i++ {
		builder.Add(MakeRpContactPointInfo(mgl64.Vec3{0, 1, 0}, float64(i), mgl64.Vec3{}, mgl64.Vec3{}))
	}

	candidates := builder.Build()
	if candidates.GetCount() != 2 {
		t.Errorf("count = %d, want 2", candidates.GetCount())
	}
	if candidates.At(1).Penetration != 1 {
		t.Errorf("later candidates replaced earlier ones")
	}
}

func TestConvertSupportPointsCollinearFaceVertices(t *testing.T) {
	// The face of shape 1 has a vertex in the middle of its first edge.
	faceA := []mgl64.Vec3{{-1, -1, 0}, {0, -1, 0}, {1, -1, 0}, {1, 1, 0}, {-1, 1, 0}}
	faceB := []mgl64.Vec3{{0, 0, -0.1}, {0, 2, -0.1}, {2, 2, -0.1}, {2, 0, -0.1}}

	gen := testContactGeneration(mgl64.Vec3{0, 0, 1})

	candidates, ok := gen.ConvertSupportPointsToContacts(faceA, faceB)
	if !ok || candidates.GetCount() != 4 {
		t.Fatalf("face-face gave %d contacts, want 4", candidates.GetCount())
	}
	for _, c := range candidates.Slice() {
		if math.Abs(c.Penetration-0.1) > 1e-12 {
			t.Errorf("penetration = %v", c.Penetration)
		}
	}

	// The same face wound the other way, seen as the face of shape 2.
	faceBelow := []mgl64.Vec3{{1, -1, 0}, {0, -1, 0}, {-1, -1, 0}, {-1, 1, 0}, {1, 1, 0}}
	candidates, ok = gen.ConvertSupportPointsToContacts([]mgl64.Vec3{{0.5, 0.5, 0.2}}, faceBelow)
	if !ok || candidates.GetCount() != 1 || math.Abs(candidates.At(0).Penetration-0.2) > 1e-12 {
		t.Errorf("point above the face of shape 2 gave %+v", candidates.Slice())
	}

	candidates, ok = gen.ConvertSupportPointsToContacts(faceA, []mgl64.Vec3{{0.5, 0.5, -0.2}})
	if !ok || candidates.GetCount() != 1 || math.Abs(candidates.At(0).Penetration-0.2) > 1e-12 {
		t.Errorf("point below the face of shape 1 gave %+v", candidates.Slice())
	}
}

func TestConvertSupportPointsDegenerateFace(t *testing.T) {
	line := []mgl64.Vec3{{-1, 0, 0}, {0, 0, 0}, {1, 0, 0}}
	gen := testContactGeneration(mgl64.Vec3{0, 0, 1})

	if _, ok := gen.ConvertSupportPointsToContacts([]mgl64.Vec3{{0, 0, 1}}, line); ok {
		t.Errorf("face without area produced a point-face contact")
	}
	if _, ok := gen.ConvertSupportPointsToContacts(line, []mgl64.Vec3{{0, 1, 0}, {0, -1, 0}}); ok {
		t.Errorf("face without area produced an edge-face contact")
	}
	if _, ok := gen.ConvertSupportPointsToContacts(line, line); ok {
		t.Errorf("two faces without area produced a contact")
	}
}

type recordingCreator struct {
	infos []RpContactPointInfo
}

func (c *recordingCreator) CreateContact(pair *RpOverlappingPair, info RpContactPointInfo) {
	c.infos = append(c.infos, info)
}

func TestComputeContactsOverlappingPairPostProcessing(t *testing.T) {
	for _, approximate := range []bool{false, true} {
		settings := MakeRpSettings()
		settings.ApproximationCorrection = approximate
		world := NewRpWorld(settings)

		// Shape 2 sinks 0.1 into the top face of shape 1. Both bodies are
		// away from the origin and turned about y so body and world frames differ.
		turn := mgl64.QuatRotate(0.3, mgl64.Vec3{0, 1, 0})
		lower := newTestBox(world, RpBodyType.Rp_staticBody, mgl64.Vec3{2, 0, 1}, turn, mgl64.Vec3{0.5, 0.5, 0.5}, 0)
		upper := newTestBox(world, RpBodyType.Rp_dynamicBody, mgl64.Vec3{2, 0.7, 1}, turn, mgl64.Vec3{0.3, 0.3, 0.3}, 1)

		shape1 := lower.GetProxyShapeList()
		shape2 := upper.GetProxyShapeList()
		pair := NewRpOverlappingPair(shape1, shape2, RP_persistentContactDistance)

		creator := &recordingCreator{}
		gen := MakeRpContactGeneration(shape1, shape2, mgl64.Vec3{0, 1, 0}, settings)
		if !gen.ComputeContactsOverlappingPair(pair, creator) {
			t.Fatalf("approximate=%t: no contact", approximate)
		}
		if len(creator.infos) != 4 {
			t.Fatalf("approximate=%t: got %d contacts, want 4", approximate, len(creator.infos))
		}

		for _, info := range creator.infos {
			// Generated along +y from shape 1 to shape 2, reported from 2 into 1.
			if !vec3Near(info.Normal, mgl64.Vec3{0, -1, 0}, 1e-12) {
				t.Errorf("approximate=%t: normal = %v", approximate, info.Normal)
			}
			if math.Abs(info.Penetration-0.1) > 1e-9 {
				t.Errorf("approximate=%t: penetration = %v", approximate, info.Penetration)
			}

			// Body frame points stay within the box extents.
			if math.Abs(info.LocalPoint1[0]) > 0.5+1e-9 || math.Abs(info.LocalPoint1[2]) > 0.5+1e-9 {
				t.Errorf("approximate=%t: point 1 %v is not in the frame of body 1", approximate, info.LocalPoint1)
			}
			if math.Abs(info.LocalPoint2[0]) > 0.3+1e-9 || math.Abs(info.LocalPoint2[2]) > 0.3+1e-9 {
				t.Errorf("approximate=%t: point 2 %v is not in the frame of body 2", approximate, info.LocalPoint2)
			}

			world1 := lower.GetWorldPoint(info.LocalPoint1)
			world2 := upper.GetWorldPoint(info.LocalPoint2)

			want1, want2 := 0.5, 0.4
			if approximate {
				want1, want2 = 0.45, 0.45
			}
			if math.Abs(world1[1]-want1) > 1e-9 || math.Abs(world2[1]-want2) > 1e-9 {
				t.Errorf("approximate=%t: world points %v %v, want heights %v and %v", approximate, world1, world2, want1, want2)
			}
			if approximate && !vec3Near(world1, world2, 1e-9) {
				t.Errorf("midpoints differ: %v %v", world1, world2)
			}
		}
	}
}
