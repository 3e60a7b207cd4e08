package realphysics4d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// The axis of minimum overlap between two convex hulls. Axis points from the
/// first hull toward the second; Penetration is the overlap along it.
type RpSeparatingAxis struct {
	Axis        mgl64.Vec3
	Penetration float64
	IsEdgeAxis  bool
}

/// Edge axes replace face axes only when their overlap is smaller by more than
/// this fraction.
const RP_faceAxisRelativeTolerance = 0.05

type rpWorldHull struct {
	vertices []mgl64.Vec3
	normals  []mgl64.Vec3
	edges    []mgl64.Vec3
}

func makeRpWorldHull(hull *RpConvexHullShape, xf RpTransform) rpWorldHull {
	res := rpWorldHull{
		vertices: make([]mgl64.Vec3, len(hull.M_vertices)),
		normals:  make([]mgl64.Vec3, len(hull.M_normals)),
		edges:    make([]mgl64.Vec3, len(hull.M_edges)),
	}

	for i, v := range hull.M_vertices {
		res.vertices[i] = RpTransformVec3Mul(xf, v)
	}

	for i, n := range hull.M_normals {
		res.normals[i] = xf.Q.Rotate(n)
	}

	for i, e := range hull.M_edges {
		res.edges[i] = xf.Q.Rotate(hull.M_vertices[e[1]].Sub(hull.M_vertices[e[0]]))
	}

	return res
}

func rpProjectVertices(vertices []mgl64.Vec3, axis mgl64.Vec3) (float64, float64) {
	lower := math.Inf(1)
	upper := math.Inf(-1)
	for _, v := range vertices {
		d := v.Dot(axis)
		lower = math.Min(lower, d)
		upper = math.Max(upper, d)
	}
	return lower, upper
}

// Overlap of the two projections along axis, with the axis flipped so the
// first hull lies on its negative side. A negative overlap means separation.
func rpAxisOverlap(hullA, hullB rpWorldHull, axis mgl64.Vec3) (mgl64.Vec3, float64) {
	minA, maxA := rpProjectVertices(hullA.vertices, axis)
	minB, maxB := rpProjectVertices(hullB.vertices, axis)

	forward := maxA - minB
	backward := maxB - minA

	if forward <= backward {
		return axis, forward
	}

	return axis.Mul(-1.0), backward
}

/// Separating axis test between two convex hulls in world space. Candidate
/// axes are the face normals of both hulls and the cross products of their
/// edges. Returns false when the hulls are separated. Face axes win over edge
/// axes unless the edge overlap is smaller by more than the relative tolerance.
func RpComputeSeparatingAxisHulls(hull1 *RpConvexHullShape, xf1 RpTransform, hull2 *RpConvexHullShape, xf2 RpTransform, tolerance float64) (RpSeparatingAxis, bool) {
	RpAssert(hull1 != nil && hull2 != nil)

	hullA := makeRpWorldHull(hull1, xf1)
	hullB := makeRpWorldHull(hull2, xf2)

	bestFace := RpSeparatingAxis{Penetration: RP_maxFloat}

	for _, n := range hullA.normals {
		axis, penetration := rpAxisOverlap(hullA, hullB, n)
		if penetration < 0.0 {
			return RpSeparatingAxis{}, false
		}

		if penetration < bestFace.Penetration {
			bestFace = RpSeparatingAxis{Axis: axis, Penetration: penetration}
		}
	}

	bestFaceA := bestFace

	for _, n := range hullB.normals {
		axis, penetration := rpAxisOverlap(hullA, hullB, n)
		if penetration < 0.0 {
			return RpSeparatingAxis{}, false
		}

		// Hull B faces take over only when clearly better.
		if penetration < bestFaceA.Penetration*(1.0-tolerance) && penetration < bestFace.Penetration {
			bestFace = RpSeparatingAxis{Axis: axis, Penetration: penetration}
		}
	}

	bestEdge := RpSeparatingAxis{Penetration: RP_maxFloat, IsEdgeAxis: true}

	for _, eA := range hullA.edges {
		for _, eB := range hullB.edges {
			axis := eA.Cross(eB)
			length := axis.Len()

			// Skip parallel edges.
			if length <= RP_epsilon*eA.Len()*eB.Len() {
				continue
			}

			axis = axis.Mul(1.0 / length)
			axis, penetration := rpAxisOverlap(hullA, hullB, axis)
			if penetration < 0.0 {
				return RpSeparatingAxis{}, false
			}

			if penetration < bestEdge.Penetration {
				bestEdge = RpSeparatingAxis{Axis: axis, Penetration: penetration, IsEdgeAxis: true}
			}
		}
	}

	if bestEdge.Penetration < bestFace.Penetration*(1.0-tolerance) {
		return bestEdge, true
	}

	return bestFace, true
}

/// Separating axis test between two proxies. Both must wrap convex hulls.
func RpComputeSeparatingAxis(shape1, shape2 *RpProxyShape, tolerance float64) (RpSeparatingAxis, bool) {
	RpAssert(shape1 != nil && shape2 != nil)

	hull1, ok1 := shape1.GetShape().(*RpConvexHullShape)
	hull2, ok2 := shape2.GetShape().(*RpConvexHullShape)
	RpAssert(ok1 && ok2)

	return RpComputeSeparatingAxisHulls(hull1, shape1.GetWorldTransform(), hull2, shape2.GetWorldTransform(), tolerance)
}
