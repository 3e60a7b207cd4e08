package realphysics4d

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func makeTetrahedron(t *testing.T) RpConvexHullShape {
	t.Helper()

	hull := MakeRpConvexHullShape()
	err := hull.Set(
		[]mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		[][]int{{0, 2, 1}, {0, 1, 3}, {0, 3, 2}, {1, 2, 3}},
	)
	if err != nil {
		t.Fatalf("Set: %v", err)
	}

	return hull
}

func TestConvexHullBox(t *testing.T) {
	hull := MakeRpConvexHullShape()
	hull.SetAsBox(1, 2, 3)

	if hull.GetVertexCount() != 8 || hull.GetFaceCount() != 6 || hull.GetEdgeCount() != 12 {
		t.Fatalf("box has %d vertices, %d faces, %d edges", hull.GetVertexCount(), hull.GetFaceCount(), hull.GetEdgeCount())
	}

	for i := 0; i < hull.GetFaceCount(); i++ {
		n := hull.GetNormal(i)
		face := hull.GetFace(i)
		if got := RpPlaneNormal(face[0], face[1], face[2]); !vec3Near(got, n, 1e-12) {
			t.Errorf("face %d winding gives %v, normal %v", i, got, n)
		}
		if n.Dot(face[0]) <= 0 {
			t.Errorf("face %d normal %v points inward", i, n)
		}
	}

	var massData RpMassData
	hull.ComputeMass(&massData, 2.0)

	if math.Abs(massData.Mass-96.0) > 1e-9 {
		t.Errorf("mass = %v, want 96", massData.Mass)
	}
	if !vec3Near(massData.Center, mgl64.Vec3{}, 1e-12) {
		t.Errorf("center = %v", massData.Center)
	}

	want := mgl64.Diag3(mgl64.Vec3{416, 320, 160})
	if !massData.I.ApproxEqualThreshold(want, 1e-9) {
		t.Errorf("inertia = %v, want %v", massData.I, want)
	}
}

func TestConvexHullTetrahedronMass(t *testing.T) {
	hull := makeTetrahedron(t)

	var massData RpMassData
	hull.ComputeMass(&massData, 6.0)

	if math.Abs(massData.Mass-1.0) > 1e-12 {
		t.Errorf("mass = %v, want 1", massData.Mass)
	}
	if !vec3Near(massData.Center, mgl64.Vec3{0.25, 0.25, 0.25}, 1e-12) {
		t.Errorf("center = %v", massData.Center)
	}
	if !vec3Near(hull.GetCentroid(), mgl64.Vec3{0.25, 0.25, 0.25}, 1e-12) {
		t.Errorf("centroid = %v", hull.GetCentroid())
	}

	// Symmetric and positive definite.
	I := massData.I
	if I.At(0, 1) != I.At(1, 0) || I.At(0, 0) <= 0 || I.Det() <= 0 {
		t.Errorf("inertia %v is not a valid tensor", I)
	}
}

func TestConvexHullSetErrors(t *testing.T) {
	cube := []mgl64.Vec3{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	}
	cubeFaces := [][]int{
		{0, 3, 2, 1}, {4, 5, 6, 7}, {0, 1, 5, 4},
		{3, 7, 6, 2}, {0, 4, 7, 3}, {1, 2, 6, 5},
	}

	tests := []struct {
		name     string
		vertices []mgl64.Vec3
		faces    [][]int
	}{
		{
			name:     "too few vertices",
			vertices: cube[:3],
			faces:    cubeFaces,
		},
		{
			name:     "open hull",
			vertices: cube,
			faces:    cubeFaces[:5],
		},
		{
			name:     "inward face",
			vertices: []mgl64.Vec3{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
			faces:    [][]int{{0, 2, 1}, {0, 1, 3}, {0, 3, 2}, {1, 3, 2}},
		},
		{
			name:     "bad index",
			vertices: cube,
			faces:    append([][]int{{0, 3, 2, 9}}, cubeFaces[1:]...),
		},
		{
			name:     "degenerate face",
			vertices: cube,
			faces:    append([][]int{{0, 0, 0}}, cubeFaces[1:]...),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hull := MakeRpConvexHullShape()
			if err := hull.Set(tt.vertices, tt.faces); !errors.Is(err, ErrRpInvalidHull) {
				t.Errorf("Set error = %v, want ErrRpInvalidHull", err)
			}
		})
	}
}

func TestConvexHullSupportPoints(t *testing.T) {
	hull := MakeRpConvexHullShape()
	hull.SetAsBox(1, 1, 1)

	tests := []struct {
		name      string
		direction mgl64.Vec3
		count     int
	}{
		{name: "face", direction: mgl64.Vec3{1, 0, 0}, count: 4},
		{name: "face within tolerance", direction: mgl64.Vec3{1, 0.01, 0}, count: 4},
		{name: "edge", direction: mgl64.Vec3{1, 1, 0}, count: 2},
		{name: "vertex", direction: mgl64.Vec3{1, 1, 1}, count: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := hull.GetSupportPoints(tt.direction, 0.02)
			if len(points) != tt.count {
				t.Fatalf("got %d support points %v, want %d", len(points), points, tt.count)
			}

			d := tt.direction.Normalize()
			extent := points[0].Dot(d)
			for _, p := range points {
				if math.Abs(p.Dot(d)-extent) > 0.02 {
					t.Errorf("support point %v is not extreme along %v", p, d)
				}
			}

			if tt.count >= 3 {
				n := RpPlaneNormal(points[0], points[1], points[2])
				if n.Dot(d) <= 0 {
					t.Errorf("support face is not counter-clockwise around %v", d)
				}
			}
		})
	}
}

func TestConvexHullQueries(t *testing.T) {
	hull := MakeRpConvexHullShape()
	hull.SetAsBox(1, 1, 1)

	xf := MakeRpTransformByPositionAndRotation(mgl64.Vec3{0, 2, 0}, mgl64.QuatRotate(0.25*math.Pi, mgl64.Vec3{0, 0, 1}))

	if !hull.TestPoint(xf, mgl64.Vec3{0, 3.3, 0}) {
		t.Errorf("point inside the rotated corner reported outside")
	}
	if hull.TestPoint(xf, mgl64.Vec3{1.2, 3.2, 0}) {
		t.Errorf("point outside reported inside")
	}

	var aabb RpAABB
	hull.ComputeAABB(&aabb, xf)
	s := math.Sqrt2
	if !vec3Near(aabb.LowerBound, mgl64.Vec3{-s, 2 - s, -1}, 1e-12) || !vec3Near(aabb.UpperBound, mgl64.Vec3{s, 2 + s, 1}, 1e-12) {
		t.Errorf("aabb = %v", aabb)
	}

	var output RpRayCastOutput
	input := RpRayCastInput{P1: mgl64.Vec3{-5, 0, 0}, P2: mgl64.Vec3{5, 0, 0}, MaxFraction: 1.0}
	if !hull.RayCast(&output, input, MakeRpTransform()) {
		t.Fatalf("ray missed the box")
	}
	if math.Abs(output.Fraction-0.4) > 1e-12 || !vec3Near(output.Normal, mgl64.Vec3{-1, 0, 0}, 1e-12) {
		t.Errorf("hit at %v with normal %v", output.Fraction, output.Normal)
	}

	input.P1 = mgl64.Vec3{-5, 3, 0}
	input.P2 = mgl64.Vec3{5, 3, 0}
	if hull.RayCast(&output, input, MakeRpTransform()) {
		t.Errorf("ray above the box hit it")
	}

	input = RpRayCastInput{P1: mgl64.Vec3{-5, 0, 0}, P2: mgl64.Vec3{5, 0, 0}, MaxFraction: 0.3}
	if hull.RayCast(&output, input, MakeRpTransform()) {
		t.Errorf("ray stopped short of the box hit it")
	}
}

func TestConvexHullClone(t *testing.T) {
	hull := makeTetrahedron(t)
	clone := hull.Clone().(*RpConvexHullShape)

	clone.M_vertices[0] = mgl64.Vec3{9, 9, 9}
	clone.M_faces[0][0] = 3

	if hull.GetVertex(0) != (mgl64.Vec3{}) || hull.M_faces[0][0] != 0 {
		t.Errorf("clone shares storage with the original")
	}
}
