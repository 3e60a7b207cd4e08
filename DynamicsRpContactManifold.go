package realphysics4d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// A manifold point is a contact point belonging to a contact manifold.
/// LocalPoint1 is in the body frame of shape 1, LocalPoint2 in that of shape 2.
/// The impulses are carried from step to step for warm starting.
type RpManifoldPoint struct {
	LocalPoint1 mgl64.Vec3
	LocalPoint2 mgl64.Vec3

	/// Depth at creation.
	Penetration float64

	/// depth = PenetrationOffset + dot(p2 - p1, normal) with p1, p2 the world
	/// positions of the local points.
	PenetrationOffset float64

	NormalImpulse   float64 ///< the non-penetration impulse
	TangentImpulse1 float64 ///< the friction impulse along the first tangent
	TangentImpulse2 float64 ///< the friction impulse along the second tangent

	/// Set when the point was matched with a point of the previous step.
	IsPersistent bool
}

/// Contact points of one overlapping pair. Normal is in world space and points
/// from shape 2 into shape 1.
type RpContactManifold struct {
	Points     [RP_maxManifoldPoints]RpManifoldPoint
	Normal     mgl64.Vec3
	PointCount int
}

func MakeRpContactManifold() RpContactManifold {
	return RpContactManifold{}
}

func NewRpContactManifold() *RpContactManifold {
	res := MakeRpContactManifold()
	return &res
}

/// The world-space contact points and their current depths.
type RpWorldManifold struct {
	Normal      mgl64.Vec3
	Points      [RP_maxManifoldPoints]mgl64.Vec3
	Separations [RP_maxManifoldPoints]float64
}

func MakeRpWorldManifold() RpWorldManifold {
	return RpWorldManifold{}
}

/// Evaluate the manifold with the supplied transforms. Each world point is the
/// midpoint of the two local points moved to world space.
func (wm *RpWorldManifold) Initialize(manifold *RpContactManifold, xf1 RpTransform, xf2 RpTransform) {
	if manifold.PointCount == 0 {
		return
	}

	wm.Normal = manifold.Normal

	for i := 0; i < manifold.PointCount; i++ {
		mp := &manifold.Points[i]
		p1 := RpTransformVec3Mul(xf1, mp.LocalPoint1)
		p2 := RpTransformVec3Mul(xf2, mp.LocalPoint2)
		wm.Points[i] = p1.Add(p2).Mul(0.5)
		wm.Separations[i] = -(mp.PenetrationOffset + p2.Sub(p1).Dot(wm.Normal))
	}
}

func rpTriangleArea(a, b, c mgl64.Vec3) float64 {
	return 0.5 * b.Sub(a).Cross(c.Sub(a)).Len()
}

func rpQuadArea(a, b, c, d mgl64.Vec3) float64 {
	quad := func(p0, p1, p2, p3 mgl64.Vec3) float64 {
		sum := p0.Cross(p1).Add(p1.Cross(p2)).Add(p2.Cross(p3)).Add(p3.Cross(p0))
		return 0.5 * sum.Len()
	}

	// The convex hull of four points is the largest of the three orderings.
	area := rpTriangleArea(a, b, c)
	area = math.Max(area, quad(a, b, c, d))
	area = math.Max(area, quad(a, b, d, c))
	area = math.Max(area, quad(a, d, b, c))
	return area
}

/// Reduce a set of manifold points to at most RP_maxManifoldPoints. The
/// deepest point is kept, then the point farthest from it, then the point
/// spanning the largest triangle, then the point spanning the largest quad.
/// Ties keep the earliest point.
func RpReduceContactPoints(points []RpManifoldPoint) []RpManifoldPoint {
	if len(points) <= RP_maxManifoldPoints {
		return append([]RpManifoldPoint(nil), points...)
	}

	taken := make([]bool, len(points))
	pos := func(i int) mgl64.Vec3 {
		return points[i].LocalPoint1
	}

	pick := func(score func(i int) float64) int {
		best := -1
		bestScore := math.Inf(-1)
		for i := range points {
			if taken[i] {
				continue
			}

			if s := score(i); s > bestScore {
				best = i
				bestScore = s
			}
		}
		taken[best] = true
		return best
	}

	i0 := pick(func(i int) float64 {
		return points[i].Penetration
	})

	i1 := pick(func(i int) float64 {
		return pos(i).Sub(pos(i0)).LenSqr()
	})

	i2 := pick(func(i int) float64 {
		return rpTriangleArea(pos(i0), pos(i1), pos(i))
	})

	i3 := pick(func(i int) float64 {
		return rpQuadArea(pos(i0), pos(i1), pos(i2), pos(i))
	})

	return []RpManifoldPoint{points[i0], points[i1], points[i2], points[i3]}
}
