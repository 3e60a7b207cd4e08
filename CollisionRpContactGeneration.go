package realphysics4d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// A contact between two shapes. Normal is the shared contact axis and
/// Penetration the depth, non-negative for an accepted contact. The local
/// points are in world space while contacts are being generated and in the
/// body frames of shape 1 and shape 2 once handed to the collision manager.
type RpContactPointInfo struct {
	Normal      mgl64.Vec3
	Penetration float64
	LocalPoint1 mgl64.Vec3
	LocalPoint2 mgl64.Vec3
}

func MakeRpContactPointInfo(normal mgl64.Vec3, penetration float64, point1, point2 mgl64.Vec3) RpContactPointInfo {
	return RpContactPointInfo{
		Normal:      normal,
		Penetration: penetration,
		LocalPoint1: point1,
		LocalPoint2: point2,
	}
}

/// Receives every accepted contact of an overlapping pair.
type RpContactCreator interface {
	CreateContact(pair *RpOverlappingPair, info RpContactPointInfo)
}

/// The contacts produced by one generator run. Read only.
type RpContactCandidates struct {
	infos []RpContactPointInfo
}

func (candidates RpContactCandidates) GetCount() int {
	return len(candidates.infos)
}

func (candidates RpContactCandidates) At(index int) RpContactPointInfo {
	return candidates.infos[index]
}

func (candidates RpContactCandidates) Slice() []RpContactPointInfo {
	return append([]RpContactPointInfo(nil), candidates.infos...)
}

/// Bounded accumulator behind RpContactCandidates.
type RpContactCandidatesBuilder struct {
	M_infos RpFixedArray[RpContactPointInfo]
}

func MakeRpContactCandidatesBuilder(capacity int) RpContactCandidatesBuilder {
	return RpContactCandidatesBuilder{
		M_infos: MakeRpFixedArray[RpContactPointInfo](capacity),
	}
}

func (builder *RpContactCandidatesBuilder) Add(info RpContactPointInfo) {
	builder.M_infos.Push(info)
}

func (builder RpContactCandidatesBuilder) GetCount() int {
	return builder.M_infos.GetCount()
}

/// Exchange the two points of every contact from index on.
func (builder *RpContactCandidatesBuilder) SwapLocalPoints(from int) {
	for i := from; i < builder.M_infos.GetCount(); i++ {
		info := builder.M_infos.At(i)
		info.LocalPoint1, info.LocalPoint2 = info.LocalPoint2, info.LocalPoint1
		builder.M_infos.Set(i, info)
	}
}

func (builder RpContactCandidatesBuilder) Build() RpContactCandidates {
	return RpContactCandidates{
		infos: builder.M_infos.Slice(),
	}
}

///////////////////////////////////////////////////////////////////////////////

/// Closest point to p on the segment [a, b].
func RpClosestPointOnLine(a, b, p mgl64.Vec3) mgl64.Vec3 {
	ab := b.Sub(a)
	d := ab.Len()
	if d == 0.0 {
		return a
	}

	dir := ab.Mul(1.0 / d)
	t := dir.Dot(p.Sub(a))

	if t < 0.0 {
		return a
	}

	if t > d {
		return b
	}

	return a.Add(dir.Mul(t))
}

/// Closest points between the lines p1p2 and p3p4 (Paul Bourke). pa lies on
/// p1p2 and pb on p3p4. Returns false when a segment is too short or the lines
/// are parallel.
func RpLineLineIntersect(p1, p2, p3, p4 mgl64.Vec3, eps float64) (pa mgl64.Vec3, pb mgl64.Vec3, ok bool) {
	p13 := p1.Sub(p3)
	p43 := p4.Sub(p3)
	p21 := p2.Sub(p1)

	if math.Abs(p43[0]) < eps && math.Abs(p43[1]) < eps && math.Abs(p43[2]) < eps {
		return pa, pb, false
	}

	if math.Abs(p21[0]) < eps && math.Abs(p21[1]) < eps && math.Abs(p21[2]) < eps {
		return pa, pb, false
	}

	d1343 := p13.Dot(p43)
	d4321 := p43.Dot(p21)
	d1321 := p13.Dot(p21)
	d4343 := p43.Dot(p43)
	d2121 := p21.Dot(p21)

	denom := d2121*d4343 - d4321*d4321
	if math.Abs(denom) < eps {
		return pa, pb, false
	}

	numer := d1343*d4321 - d1321*d4343
	mua := numer / denom
	mub := (d1343 + d4321*mua) / d4343

	pa = p1.Add(p21.Mul(mua))
	pb = p3.Add(p43.Mul(mub))

	return pa, pb, true
}

///////////////////////////////////////////////////////////////////////////////

/// Narrow-phase contact generation for one pair of convex shapes along a
/// separating axis pointing from shape 1 to shape 2.
type RpContactGeneration struct {
	M_shape1 *RpProxyShape
	M_shape2 *RpProxyShape

	M_separatingAxis mgl64.Vec3

	M_settings RpSettings
}

func MakeRpContactGeneration(shape1, shape2 *RpProxyShape, axis mgl64.Vec3, settings RpSettings) RpContactGeneration {
	RpAssert(shape1 != nil)
	RpAssert(shape2 != nil)
	RpAssert(axis.Len() > 0.0)

	return RpContactGeneration{
		M_shape1:         shape1,
		M_shape2:         shape2,
		M_separatingAxis: axis.Normalize(),
		M_settings:       settings,
	}
}

func (gen RpContactGeneration) GetSeparatingAxis() mgl64.Vec3 {
	return gen.M_separatingAxis
}

func (gen RpContactGeneration) collidePointPoint(builder *RpContactCandidatesBuilder, A, B mgl64.Vec3) {
	penetration := A.Sub(B).Len()
	builder.Add(MakeRpContactPointInfo(gen.M_separatingAxis, penetration, A, B))
}

// A is tested against the plane dot(x, normal) = offset. Only points on or
// behind the plane are kept.
func (gen RpContactGeneration) collidePointFace(builder *RpContactCandidatesBuilder, A, normal mgl64.Vec3, offset float64) {
	dist := A.Dot(normal) - offset
	if dist > 0.0 {
		return
	}

	B := A.Sub(normal.Mul(dist))
	builder.Add(MakeRpContactPointInfo(gen.M_separatingAxis, -dist, A, B))
}

func (gen RpContactGeneration) collidePointEdge(builder *RpContactCandidatesBuilder, A, B0, B1 mgl64.Vec3) {
	B := RpClosestPointOnLine(B0, B1, A)
	penetration := A.Sub(B).Len()
	builder.Add(MakeRpContactPointInfo(gen.M_separatingAxis, penetration, A, B))
}

func (gen RpContactGeneration) collideEdgeEdge(builder *RpContactCandidatesBuilder, A0, A1, B0, B1 mgl64.Vec3) {
	AA, BB, ok := RpLineLineIntersect(A0, A1, B0, B1, gen.M_settings.Epsilon)
	if !ok {
		return
	}

	penetration := AA.Sub(BB).Len()
	builder.Add(MakeRpContactPointInfo(gen.M_separatingAxis, penetration, AA, BB))
}

// The incident polygon is clipped against the side planes of the reference
// face. Clipped points behind the reference plane become contacts whose first
// point is the projection onto the reference face.
func (gen RpContactGeneration) collidePolygon(builder *RpContactCandidatesBuilder, reference []mgl64.Vec3, normal mgl64.Vec3, incident []mgl64.Vec3) {
	offset := reference[0].Dot(normal)

	clipped := RpClipPolygons(incident, reference, normal)

	for _, p := range clipped {
		dist := p.Dot(normal) - offset
		if dist <= 0.0 {
			onReference := p.Sub(normal.Mul(dist))
			builder.Add(MakeRpContactPointInfo(gen.M_separatingAxis, -dist, onReference, p))
		}
	}
}

/// Turn the support sets of both shapes into contacts. supportA is the
/// support set of shape 1 along the axis, supportB that of shape 2 against it.
/// The first point of every contact lies on shape 1. Returns false when no
/// contact was produced.
func (gen RpContactGeneration) ConvertSupportPointsToContacts(supportA, supportB []mgl64.Vec3) (RpContactCandidates, bool) {
	if len(supportA) == 0 || len(supportB) == 0 {
		return RpContactCandidates{}, false
	}

	builder := MakeRpContactCandidatesBuilder(gen.M_settings.MaxContactCandidates)

	countA := len(supportA)
	countB := len(supportB)

	switch {
	case countA == 1 && countB == 1:
		gen.collidePointPoint(&builder, supportA[0], supportB[0])

	case countA == 1 && countB == 2:
		gen.collidePointEdge(&builder, supportA[0], supportB[0], supportB[1])

	case countA == 1:
		if normalB, ok := RpPolygonNormal(supportB); ok {
			gen.collidePointFace(&builder, supportA[0], normalB, normalB.Dot(supportB[0]))
		}

	case countA == 2 && countB == 1:
		gen.collidePointEdge(&builder, supportB[0], supportA[0], supportA[1])
		builder.SwapLocalPoints(0)

	case countA == 2 && countB == 2:
		gen.collideEdgeEdge(&builder, supportA[0], supportA[1], supportB[0], supportB[1])

	case countA == 2:
		if normalB, ok := RpPolygonNormal(supportB); ok {
			gen.collidePolygon(&builder, supportB, normalB, supportA)
			builder.SwapLocalPoints(0)
		}

	case countB == 1:
		if normalA, ok := RpPolygonNormal(supportA); ok {
			gen.collidePointFace(&builder, supportB[0], normalA, normalA.Dot(supportA[0]))
			builder.SwapLocalPoints(0)
		}

	case countB == 2:
		if normalA, ok := RpPolygonNormal(supportA); ok {
			gen.collidePolygon(&builder, supportA, normalA, supportB)
		}

	default:
		normalA, okA := RpPolygonNormal(supportA)
		normalB, okB := RpPolygonNormal(supportB)

		// A face without area cannot be the reference.
		referenceA := okA
		if okA && okB {
			angleA := RpAngleBetweenVectors(normalA, gen.M_separatingAxis)
			angleB := RpAngleBetweenVectors(normalB, gen.M_separatingAxis.Mul(-1.0))

			// Ties keep shape 1 as the reference.
			referenceA = angleA <= angleB
		}

		if referenceA {
			gen.collidePolygon(&builder, supportA, normalA, supportB)
		} else if okB {
			gen.collidePolygon(&builder, supportB, normalB, supportA)
			builder.SwapLocalPoints(0)
		}
	}

	candidates := builder.Build()
	return candidates, candidates.GetCount() > 0
}

/// Generate the contacts of an overlapping pair and hand each one to the
/// creator. The pair's previous contact points are cleared first. Normals are
/// flipped to point from shape 2 into shape 1 and the points are moved into
/// the body frames.
func (gen RpContactGeneration) ComputeContactsOverlappingPair(pair *RpOverlappingPair, creator RpContactCreator) bool {
	RpAssert(pair != nil)

	axis := gen.M_separatingAxis

	supportA := gen.M_shape1.GetAxisPerturbationPoints(axis, gen.M_settings.FeatureAngularTolerance)
	supportB := gen.M_shape2.GetAxisPerturbationPoints(axis.Mul(-1.0), gen.M_settings.FeatureAngularTolerance)

	candidates, ok := gen.ConvertSupportPointsToContacts(supportA, supportB)

	transform1 := gen.M_shape1.GetBody().GetTransform()
	transform2 := gen.M_shape2.GetBody().GetTransform()

	pair.ClearContactPoints()

	if !ok {
		return false
	}

	for _, info := range candidates.infos {
		info.Normal = info.Normal.Mul(-1.0)

		if gen.M_settings.ApproximationCorrection {
			midpoint := info.LocalPoint1.Add(info.LocalPoint2).Mul(0.5)
			info.LocalPoint1 = midpoint
			info.LocalPoint2 = midpoint
		}

		info.LocalPoint1 = RpTransformVec3MulT(transform1, info.LocalPoint1)
		info.LocalPoint2 = RpTransformVec3MulT(transform2, info.LocalPoint2)

		creator.CreateContact(pair, info)
	}

	return true
}
