package realphysics4d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// Ray-cast input data. The ray extends from p1 to p1 + maxFraction * (p2 - p1).
type RpRayCastInput struct {
	P1, P2      mgl64.Vec3
	MaxFraction float64
}

func MakeRpRayCastInput() RpRayCastInput {
	return RpRayCastInput{
		MaxFraction: 1.0,
	}
}

/// Ray-cast output data. The ray hits at p1 + fraction * (p2 - p1), where p1 and p2
/// come from RpRayCastInput.
type RpRayCastOutput struct {
	Normal   mgl64.Vec3
	Fraction float64
}

func MakeRpRayCastOutput() RpRayCastOutput {
	return RpRayCastOutput{}
}

/// An axis aligned bounding box.
type RpAABB struct {
	LowerBound mgl64.Vec3 ///< the lower vertex
	UpperBound mgl64.Vec3 ///< the upper vertex
}

func MakeRpAABB() RpAABB {
	return RpAABB{}
}

func NewRpAABB() *RpAABB {
	res := MakeRpAABB()
	return &res
}

/// Get the center of the AABB.
func (bb RpAABB) GetCenter() mgl64.Vec3 {
	return bb.LowerBound.Add(bb.UpperBound).Mul(0.5)
}

/// Get the extents of the AABB (half-widths).
func (bb RpAABB) GetExtents() mgl64.Vec3 {
	return bb.UpperBound.Sub(bb.LowerBound).Mul(0.5)
}

/// Get the surface area. This is the insertion cost of the dynamic tree.
func (bb RpAABB) GetSurfaceArea() float64 {
	d := bb.UpperBound.Sub(bb.LowerBound)
	return 2.0 * (d[0]*d[1] + d[1]*d[2] + d[2]*d[0])
}

/// Combine an AABB into this one.
func (bb *RpAABB) CombineInPlace(aabb RpAABB) {
	bb.LowerBound = RpVec3Min(bb.LowerBound, aabb.LowerBound)
	bb.UpperBound = RpVec3Max(bb.UpperBound, aabb.UpperBound)
}

/// Combine two AABBs into this one.
func (bb *RpAABB) CombineTwoInPlace(aabb1, aabb2 RpAABB) {
	bb.LowerBound = RpVec3Min(aabb1.LowerBound, aabb2.LowerBound)
	bb.UpperBound = RpVec3Max(aabb1.UpperBound, aabb2.UpperBound)
}

/// Does this aabb contain the provided AABB.
func (bb RpAABB) Contains(aabb RpAABB) bool {
	for i := 0; i < 3; i++ {
		if aabb.LowerBound[i] < bb.LowerBound[i] || bb.UpperBound[i] < aabb.UpperBound[i] {
			return false
		}
	}

	return true
}

func (bb RpAABB) IsValid() bool {
	d := bb.UpperBound.Sub(bb.LowerBound)
	valid := d[0] >= 0.0 && d[1] >= 0.0 && d[2] >= 0.0
	valid = valid && RpVec3IsValid(bb.LowerBound) && RpVec3IsValid(bb.UpperBound)
	return valid
}

/// Grow the box by r on every side.
func (bb RpAABB) Extend(r float64) RpAABB {
	e := mgl64.Vec3{r, r, r}
	return RpAABB{
		LowerBound: bb.LowerBound.Sub(e),
		UpperBound: bb.UpperBound.Add(e),
	}
}

func RpTestOverlapBoundingBoxes(a, b RpAABB) bool {
	d1 := b.LowerBound.Sub(a.UpperBound)
	d2 := a.LowerBound.Sub(b.UpperBound)

	if d1[0] > 0.0 || d1[1] > 0.0 || d1[2] > 0.0 {
		return false
	}

	if d2[0] > 0.0 || d2[1] > 0.0 || d2[2] > 0.0 {
		return false
	}

	return true
}

// From Real-time Collision Detection, p179.
func (bb RpAABB) RayCast(output *RpRayCastOutput, input RpRayCastInput) bool {
	tmin := -RP_maxFloat
	tmax := RP_maxFloat

	p := input.P1
	d := input.P2.Sub(input.P1)
	absD := RpVec3Abs(d)

	normal := mgl64.Vec3{}

	for i := 0; i < 3; i++ {
		if absD[i] < RP_epsilon*RP_epsilon {
			// Parallel.
			if p[i] < bb.LowerBound[i] || bb.UpperBound[i] < p[i] {
				return false
			}
		} else {
			inv_d := 1.0 / d[i]
			t1 := (bb.LowerBound[i] - p[i]) * inv_d
			t2 := (bb.UpperBound[i] - p[i]) * inv_d

			// Sign of the normal vector.
			s := -1.0

			if t1 > t2 {
				t1, t2 = t2, t1
				s = 1.0
			}

			// Push the min up
			if t1 > tmin {
				normal = mgl64.Vec3{}
				normal[i] = s
				tmin = t1
			}

			// Pull the max down
			tmax = math.Min(tmax, t2)

			if tmin > tmax {
				return false
			}
		}
	}

	// Does the ray start inside the box?
	// Does the ray intersect beyond the max fraction?
	if tmin < 0.0 || input.MaxFraction < tmin {
		return false
	}

	// Intersection.
	output.Fraction = tmin
	output.Normal = normal
	return true
}
