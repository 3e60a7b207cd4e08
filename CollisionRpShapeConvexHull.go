package realphysics4d

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrRpInvalidHull = errors.New("realphysics4d: invalid convex hull")

/// A convex polyhedron. Faces list vertex indices counter-clockwise when seen
/// from outside, so the right-hand rule gives the outward normal.
type RpConvexHullShape struct {
	RpShape

	M_centroid mgl64.Vec3
	M_vertices []mgl64.Vec3
	M_faces    [][]int
	M_normals  []mgl64.Vec3

	// Unique edges and, per vertex, the indices of its neighbours.
	M_edges     [][2]int
	M_adjacency [][]int
}

func MakeRpConvexHullShape() RpConvexHullShape {
	return RpConvexHullShape{
		RpShape: RpShape{
			M_type: RpShape_Type.E_convexHull,
		},
	}
}

func NewRpConvexHullShape() *RpConvexHullShape {
	res := MakeRpConvexHullShape()
	return &res
}

func (hull RpConvexHullShape) Clone() RpShapeInterface {
	clone := NewRpConvexHullShape()
	clone.M_centroid = hull.M_centroid
	clone.M_vertices = append([]mgl64.Vec3(nil), hull.M_vertices...)
	clone.M_normals = append([]mgl64.Vec3(nil), hull.M_normals...)
	clone.M_edges = append([][2]int(nil), hull.M_edges...)

	clone.M_faces = make([][]int, len(hull.M_faces))
	for i, face := range hull.M_faces {
		clone.M_faces[i] = append([]int(nil), face...)
	}

	clone.M_adjacency = make([][]int, len(hull.M_adjacency))
	for i, neighbours := range hull.M_adjacency {
		clone.M_adjacency[i] = append([]int(nil), neighbours...)
	}

	return clone
}

func (hull RpConvexHullShape) GetVertexCount() int {
	return len(hull.M_vertices)
}

func (hull RpConvexHullShape) GetVertex(index int) mgl64.Vec3 {
	RpAssert(0 <= index && index < len(hull.M_vertices))
	return hull.M_vertices[index]
}

func (hull RpConvexHullShape) GetFaceCount() int {
	return len(hull.M_faces)
}

/// Face vertices in counter-clockwise order.
func (hull RpConvexHullShape) GetFace(index int) []mgl64.Vec3 {
	RpAssert(0 <= index && index < len(hull.M_faces))
	face := hull.M_faces[index]
	res := make([]mgl64.Vec3, len(face))
	for i, vi := range face {
		res[i] = hull.M_vertices[vi]
	}
	return res
}

func (hull RpConvexHullShape) GetNormal(index int) mgl64.Vec3 {
	return hull.M_normals[index]
}

func (hull RpConvexHullShape) GetEdgeCount() int {
	return len(hull.M_edges)
}

func (hull RpConvexHullShape) GetCentroid() mgl64.Vec3 {
	return hull.M_centroid
}

/// Build vertices that represent an axis-aligned box centered on the local origin.
/// @param hx the half-width.
/// @param hy the half-height.
/// @param hz the half-depth.
func (hull *RpConvexHullShape) SetAsBox(hx, hy, hz float64) {
	hull.SetAsOrientedBox(hx, hy, hz, mgl64.Vec3{}, mgl64.QuatIdent())
}

/// Build vertices that represent an oriented box.
/// @param center the center of the box in local coordinates.
/// @param rotation the rotation of the box in local coordinates.
func (hull *RpConvexHullShape) SetAsOrientedBox(hx, hy, hz float64, center mgl64.Vec3, rotation mgl64.Quat) {
	RpAssert(hx > 0.0 && hy > 0.0 && hz > 0.0)

	xf := MakeRpTransformByPositionAndRotation(center, rotation)

	corners := []mgl64.Vec3{
		{-hx, -hy, -hz},
		{hx, -hy, -hz},
		{hx, hy, -hz},
		{-hx, hy, -hz},
		{-hx, -hy, hz},
		{hx, -hy, hz},
		{hx, hy, hz},
		{-hx, hy, hz},
	}
	for i := range corners {
		corners[i] = RpTransformVec3Mul(xf, corners[i])
	}

	faces := [][]int{
		{0, 3, 2, 1}, // -z
		{4, 5, 6, 7}, // +z
		{0, 1, 5, 4}, // -y
		{3, 7, 6, 2}, // +y
		{0, 4, 7, 3}, // -x
		{1, 2, 6, 5}, // +x
	}

	err := hull.Set(corners, faces)
	RpAssert(err == nil)
}

/// Create a convex hull from vertices and counter-clockwise faces. The hull
/// must be closed, every face planar, and every vertex behind every face plane.
func (hull *RpConvexHullShape) Set(vertices []mgl64.Vec3, faces [][]int) error {
	if len(vertices) < 4 {
		return fmt.Errorf("%w: need at least 4 vertices, got %d", ErrRpInvalidHull, len(vertices))
	}

	if len(faces) < 4 {
		return fmt.Errorf("%w: need at least 4 faces, got %d", ErrRpInvalidHull, len(faces))
	}

	// Scale the tolerance with the hull size.
	lower, upper := vertices[0], vertices[0]
	for _, v := range vertices {
		lower = RpVec3Min(lower, v)
		upper = RpVec3Max(upper, v)
	}
	tolerance := RP_epsilon * math.Max(1.0, upper.Sub(lower).Len())

	normals := make([]mgl64.Vec3, len(faces))

	for fi, face := range faces {
		if len(face) < 3 || len(face) > RP_maxFaceVertices {
			return fmt.Errorf("%w: face %d has %d vertices", ErrRpInvalidHull, fi, len(face))
		}

		for _, vi := range face {
			if vi < 0 || vi >= len(vertices) {
				return fmt.Errorf("%w: face %d references vertex %d", ErrRpInvalidHull, fi, vi)
			}
		}

		// Newell's method is robust to a collinear leading triple.
		n := mgl64.Vec3{}
		for i := range face {
			a := vertices[face[i]]
			b := vertices[face[(i+1)%len(face)]]
			n = n.Add(a.Cross(b))
		}

		if n.Len() <= tolerance*tolerance {
			return fmt.Errorf("%w: face %d has no area", ErrRpInvalidHull, fi)
		}
		n = n.Normalize()
		normals[fi] = n

		offset := n.Dot(vertices[face[0]])
		for _, vi := range face {
			if math.Abs(n.Dot(vertices[vi])-offset) > tolerance {
				return fmt.Errorf("%w: face %d is not planar", ErrRpInvalidHull, fi)
			}
		}

		for vi, v := range vertices {
			if n.Dot(v)-offset > tolerance {
				return fmt.Errorf("%w: vertex %d is in front of face %d", ErrRpInvalidHull, vi, fi)
			}
		}
	}

	// Derive the edges. Every edge of a closed hull is shared by two faces.
	type edgeKey struct{ a, b int }
	edgeUses := make(map[edgeKey]int)
	edges := make([][2]int, 0, len(vertices)+len(faces))
	adjacency := make([][]int, len(vertices))

	for _, face := range faces {
		for i := range face {
			a, b := face[i], face[(i+1)%len(face)]
			key := edgeKey{min(a, b), max(a, b)}
			if edgeUses[key] == 0 {
				edges = append(edges, [2]int{key.a, key.b})
				adjacency[a] = append(adjacency[a], b)
				adjacency[b] = append(adjacency[b], a)
			}
			edgeUses[key]++
		}
	}

	for _, edge := range edges {
		if edgeUses[edgeKey{edge[0], edge[1]}] != 2 {
			return fmt.Errorf("%w: edge %d-%d is not shared by two faces", ErrRpInvalidHull, edge[0], edge[1])
		}
	}

	hull.M_vertices = append([]mgl64.Vec3(nil), vertices...)
	hull.M_faces = make([][]int, len(faces))
	for i, face := range faces {
		hull.M_faces[i] = append([]int(nil), face...)
	}
	hull.M_normals = normals
	hull.M_edges = edges
	hull.M_adjacency = adjacency

	var massData RpMassData
	hull.ComputeMass(&massData, 1.0)
	hull.M_centroid = massData.Center

	return nil
}

func (hull RpConvexHullShape) TestPoint(xf RpTransform, p mgl64.Vec3) bool {
	pLocal := RpTransformVec3MulT(xf, p)

	for i, face := range hull.M_faces {
		dot := hull.M_normals[i].Dot(pLocal.Sub(hull.M_vertices[face[0]]))
		if dot > 0.0 {
			return false
		}
	}

	return true
}

func (hull RpConvexHullShape) RayCast(output *RpRayCastOutput, input RpRayCastInput, xf RpTransform) bool {

	// Put the ray into the hull's frame of reference.
	p1 := RpTransformVec3MulT(xf, input.P1)
	p2 := RpTransformVec3MulT(xf, input.P2)
	d := p2.Sub(p1)

	lower := 0.0
	upper := input.MaxFraction

	index := -1

	for i, face := range hull.M_faces {
		// p = p1 + a * d
		// dot(normal, p - v) = 0
		// dot(normal, p1 - v) + a * dot(normal, d) = 0
		numerator := hull.M_normals[i].Dot(hull.M_vertices[face[0]].Sub(p1))
		denominator := hull.M_normals[i].Dot(d)

		if denominator == 0.0 {
			if numerator < 0.0 {
				return false
			}
		} else {
			// lower < numerator / denominator, where denominator < 0
			// flips to denominator * lower > numerator.
			if denominator < 0.0 && numerator < lower*denominator {
				// The segment enters this half-space.
				lower = numerator / denominator
				index = i
			} else if denominator > 0.0 && numerator < upper*denominator {
				// The segment exits this half-space.
				upper = numerator / denominator
			}
		}

		if upper < lower {
			return false
		}
	}

	RpAssert(0.0 <= lower && lower <= input.MaxFraction)

	if index >= 0 {
		output.Fraction = lower
		output.Normal = xf.Q.Rotate(hull.M_normals[index])
		return true
	}

	return false
}

func (hull RpConvexHullShape) ComputeAABB(aabb *RpAABB, xf RpTransform) {
	lower := RpTransformVec3Mul(xf, hull.M_vertices[0])
	upper := lower

	for i := 1; i < len(hull.M_vertices); i++ {
		v := RpTransformVec3Mul(xf, hull.M_vertices[i])
		lower = RpVec3Min(lower, v)
		upper = RpVec3Max(upper, v)
	}

	aabb.LowerBound = lower
	aabb.UpperBound = upper
}

func (hull RpConvexHullShape) ComputeMass(massData *RpMassData, density float64) {
	// The hull is split into tetrahedra (s, v0, vi, vi+1) fanned from a reference
	// point s inside the hull. For a tetrahedron with one vertex at the origin and
	// edges e1, e2, e3, D = dot(e1, cross(e2, e3)):
	// volume = D / 6
	// centroid = (e1 + e2 + e3) / 4
	// covariance = D / 120 * (sum(ei ei^T) + (e1 + e2 + e3)(e1 + e2 + e3)^T)
	// The inertia tensor is trace(C) * I - C.

	RpAssert(len(hull.M_faces) >= 4)

	s := mgl64.Vec3{}
	for _, v := range hull.M_vertices {
		s = s.Add(v)
	}
	s = s.Mul(1.0 / float64(len(hull.M_vertices)))

	volume := 0.0
	center := mgl64.Vec3{}
	covariance := mgl64.Mat3{}

	for _, face := range hull.M_faces {
		e1 := hull.M_vertices[face[0]].Sub(s)

		for i := 1; i+1 < len(face); i++ {
			e2 := hull.M_vertices[face[i]].Sub(s)
			e3 := hull.M_vertices[face[i+1]].Sub(s)

			D := e1.Dot(e2.Cross(e3))
			sum := e1.Add(e2).Add(e3)

			volume += D / 6.0
			center = center.Add(sum.Mul(D / 24.0))

			c := e1.OuterProd3(e1).
				Add(e2.OuterProd3(e2)).
				Add(e3.OuterProd3(e3)).
				Add(sum.OuterProd3(sum))
			covariance = covariance.Add(c.Mul(D / 120.0))
		}
	}

	RpAssert(volume > RP_epsilon*RP_epsilon)

	// Total mass
	massData.Mass = density * volume

	// Center of mass, relative to s.
	center = center.Mul(1.0 / volume)
	massData.Center = center.Add(s)

	// Shift the covariance from s to the center of mass.
	covariance = covariance.Mul(density).Sub(center.OuterProd3(center).Mul(massData.Mass))
	trace := covariance[0] + covariance[4] + covariance[8]
	massData.I = mgl64.Ident3().Mul(trace).Sub(covariance)
}

/// The support set of the hull along a local direction. Faces come back
/// counter-clockwise around their outward normal.
func (hull RpConvexHullShape) GetSupportPoints(direction mgl64.Vec3, tolerance float64) []mgl64.Vec3 {
	RpAssert(direction.Len() > 0.0)
	d := direction.Normalize()

	// A face within the tolerance of the direction.
	bestFace := -1
	bestFaceDot := math.Cos(tolerance)
	for i, n := range hull.M_normals {
		if dot := n.Dot(d); dot >= bestFaceDot {
			bestFace = i
			bestFaceDot = dot
		}
	}

	if bestFace >= 0 {
		return hull.GetFace(bestFace)
	}

	// The extreme vertex.
	best := 0
	bestDot := hull.M_vertices[0].Dot(d)
	for i := 1; i < len(hull.M_vertices); i++ {
		if dot := hull.M_vertices[i].Dot(d); dot > bestDot {
			best = i
			bestDot = dot
		}
	}

	// An incident edge perpendicular to the direction.
	v := hull.M_vertices[best]
	edgeEnd := -1
	edgeDot := math.Sin(tolerance)
	for _, j := range hull.M_adjacency[best] {
		e := hull.M_vertices[j].Sub(v)
		length := e.Len()
		if length == 0.0 {
			continue
		}

		if dot := math.Abs(e.Dot(d)) / length; dot <= edgeDot {
			edgeEnd = j
			edgeDot = dot
		}
	}

	if edgeEnd >= 0 {
		return []mgl64.Vec3{v, hull.M_vertices[edgeEnd]}
	}

	return []mgl64.Vec3{v}
}
