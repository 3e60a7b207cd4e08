package realphysics4d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// Friction mixing law. The idea is to allow either shape to drive the friction to zero.
/// For example, anything slides on ice.
func RpMixFriction(friction1, friction2 float64) float64 {
	return math.Sqrt(friction1 * friction2)
}

/// Restitution mixing law. The idea is allow for anything to bounce off an inelastic surface.
/// For example, a superball bounces on anything.
func RpMixRestitution(restitution1, restitution2 float64) float64 {
	if restitution1 > restitution2 {
		return restitution1
	}

	return restitution2
}

/// Identifies an overlapping pair independently of the order of its shapes.
type RpPairKey struct {
	ProxyId1 int
	ProxyId2 int
}

func MakeRpPairKey(proxyId1, proxyId2 int) RpPairKey {
	return RpPairKey{
		ProxyId1: min(proxyId1, proxyId2),
		ProxyId2: max(proxyId1, proxyId2),
	}
}

/// A pair edge is used to connect bodies and pairs together in a contact
/// graph where each body is a node and each pair is an edge. A pair edge
/// belongs to a doubly linked list maintained in each attached body.
type RpPairEdge struct {
	Other *RpBody            ///< provides quick access to the other body attached.
	Pair  *RpOverlappingPair ///< the pair
	Prev  *RpPairEdge        ///< the previous pair edge in the body's pair list
	Next  *RpPairEdge        ///< the next pair edge in the body's pair list
}

var RpOverlappingPair_Flag = struct {
	// Used when crawling contact graph when forming islands.
	E_islandFlag uint32
	// Set when the shapes are touching.
	E_touchingFlag uint32
	// This pair can be disabled (by user)
	E_enabledFlag uint32
	// This pair needs filtering because a shape filter was changed.
	E_filterFlag uint32
}{
	E_islandFlag:   0x0001,
	E_touchingFlag: 0x0002,
	E_enabledFlag:  0x0004,
	E_filterFlag:   0x0008,
}

/// A pair of shapes whose fat AABBs overlap in the broad phase. It exists from
/// the first overlap to the last and owns the contact manifold of the two shapes.
type RpOverlappingPair struct {
	M_flags uint32

	// World list pointers.
	M_prev *RpOverlappingPair
	M_next *RpOverlappingPair

	// Nodes for connecting bodies.
	M_node1 RpPairEdge
	M_node2 RpPairEdge

	M_shape1 *RpProxyShape
	M_shape2 *RpProxyShape

	M_manifold    RpContactManifold
	M_oldManifold RpContactManifold

	// Candidates above the manifold capacity, waiting for reduction.
	M_overflow []RpManifoldPoint

	M_separatingAxis mgl64.Vec3

	M_friction    float64
	M_restitution float64

	M_persistentContactDistance float64
}

func NewRpOverlappingPair(shape1, shape2 *RpProxyShape, persistentContactDistance float64) *RpOverlappingPair {
	RpAssert(shape1 != nil && shape2 != nil)

	pair := &RpOverlappingPair{
		M_flags:                     RpOverlappingPair_Flag.E_enabledFlag,
		M_shape1:                    shape1,
		M_shape2:                    shape2,
		M_manifold:                  MakeRpContactManifold(),
		M_friction:                  RpMixFriction(shape1.M_friction, shape2.M_friction),
		M_restitution:               RpMixRestitution(shape1.M_restitution, shape2.M_restitution),
		M_persistentContactDistance: persistentContactDistance,
	}

	pair.M_node1.Pair = pair
	pair.M_node2.Pair = pair

	return pair
}

func (pair RpOverlappingPair) GetKey() RpPairKey {
	return MakeRpPairKey(pair.M_shape1.M_proxyId, pair.M_shape2.M_proxyId)
}

func (pair RpOverlappingPair) GetShape1() *RpProxyShape {
	return pair.M_shape1
}

func (pair RpOverlappingPair) GetShape2() *RpProxyShape {
	return pair.M_shape2
}

func (pair *RpOverlappingPair) GetManifold() *RpContactManifold {
	return &pair.M_manifold
}

func (pair RpOverlappingPair) GetNext() *RpOverlappingPair {
	return pair.M_next
}

func (pair RpOverlappingPair) GetSeparatingAxis() mgl64.Vec3 {
	return pair.M_separatingAxis
}

/// Get the world manifold.
func (pair RpOverlappingPair) GetWorldManifold(worldManifold *RpWorldManifold) {
	worldManifold.Initialize(&pair.M_manifold, pair.M_shape1.M_body.GetTransform(), pair.M_shape2.M_body.GetTransform())
}

func (pair RpOverlappingPair) IsTouching() bool {
	return (pair.M_flags & RpOverlappingPair_Flag.E_touchingFlag) == RpOverlappingPair_Flag.E_touchingFlag
}

/// Enable/disable this pair. This can be used inside the pre-solve
/// contact listener. The pair is only disabled for the current
/// time step (or sub-step in continuous collisions).
func (pair *RpOverlappingPair) SetEnabled(flag bool) {
	if flag {
		pair.M_flags |= RpOverlappingPair_Flag.E_enabledFlag
	} else {
		pair.M_flags &= ^RpOverlappingPair_Flag.E_enabledFlag
	}
}

func (pair RpOverlappingPair) IsEnabled() bool {
	return (pair.M_flags & RpOverlappingPair_Flag.E_enabledFlag) == RpOverlappingPair_Flag.E_enabledFlag
}

/// Flag this pair for filtering. Filtering will occur the next time step.
func (pair *RpOverlappingPair) FlagForFiltering() {
	pair.M_flags |= RpOverlappingPair_Flag.E_filterFlag
}

func (pair RpOverlappingPair) GetFriction() float64 {
	return pair.M_friction
}

/// Override the default friction mixture. This value persists until set or reset.
func (pair *RpOverlappingPair) SetFriction(friction float64) {
	pair.M_friction = friction
}

func (pair *RpOverlappingPair) ResetFriction() {
	pair.M_friction = RpMixFriction(pair.M_shape1.M_friction, pair.M_shape2.M_friction)
}

func (pair RpOverlappingPair) GetRestitution() float64 {
	return pair.M_restitution
}

/// Override the default restitution mixture. This value persists until set or reset.
func (pair *RpOverlappingPair) SetRestitution(restitution float64) {
	pair.M_restitution = restitution
}

func (pair *RpOverlappingPair) ResetRestitution() {
	pair.M_restitution = RpMixRestitution(pair.M_shape1.M_restitution, pair.M_shape2.M_restitution)
}

/// Drop the current contact points. They are kept aside so that the next
/// AddContact calls can inherit their impulses.
func (pair *RpOverlappingPair) ClearContactPoints() {
	pair.M_oldManifold = pair.M_manifold
	pair.M_manifold.PointCount = 0
	pair.M_overflow = pair.M_overflow[:0]
}

/// Add a contact produced by the contact generator. Local points are in the
/// body frames. A point close to one of the previous step inherits its
/// accumulated impulses. Past the manifold capacity the points are reduced.
func (pair *RpOverlappingPair) AddContact(info RpContactPointInfo) {
	xf1 := pair.M_shape1.M_body.GetTransform()
	xf2 := pair.M_shape2.M_body.GetTransform()

	p1 := RpTransformVec3Mul(xf1, info.LocalPoint1)
	p2 := RpTransformVec3Mul(xf2, info.LocalPoint2)

	mp := RpManifoldPoint{
		LocalPoint1:       info.LocalPoint1,
		LocalPoint2:       info.LocalPoint2,
		Penetration:       info.Penetration,
		PenetrationOffset: info.Penetration - p2.Sub(p1).Dot(info.Normal),
	}

	// Match against the previous step.
	distanceSquared := pair.M_persistentContactDistance * pair.M_persistentContactDistance
	bestDistance := math.Inf(1)
	for j := 0; j < pair.M_oldManifold.PointCount; j++ {
		old := &pair.M_oldManifold.Points[j]
		d1 := old.LocalPoint1.Sub(mp.LocalPoint1).LenSqr()
		d2 := old.LocalPoint2.Sub(mp.LocalPoint2).LenSqr()

		if d1 <= distanceSquared && d2 <= distanceSquared && d1+d2 < bestDistance {
			bestDistance = d1 + d2
			mp.NormalImpulse = old.NormalImpulse
			mp.TangentImpulse1 = old.TangentImpulse1
			mp.TangentImpulse2 = old.TangentImpulse2
			mp.IsPersistent = true
		}
	}

	manifold := &pair.M_manifold
	manifold.Normal = info.Normal

	if manifold.PointCount < RP_maxManifoldPoints {
		manifold.Points[manifold.PointCount] = mp
		manifold.PointCount++
		return
	}

	pair.M_overflow = append(pair.M_overflow, manifold.Points[:manifold.PointCount]...)
	pair.M_overflow = append(pair.M_overflow, mp)

	reduced := RpReduceContactPoints(pair.M_overflow)
	pair.M_overflow = pair.M_overflow[:0]

	manifold.PointCount = copy(manifold.Points[:], reduced)
}

/// Run the narrow phase: search the separating axis and hand the generated
/// contacts to the creator. Returns false when the shapes are separated or no
/// contact could be generated.
func (pair *RpOverlappingPair) ComputeContacts(creator RpContactCreator, settings RpSettings) bool {
	axis, overlapping := RpComputeSeparatingAxis(pair.M_shape1, pair.M_shape2, RP_faceAxisRelativeTolerance)
	if !overlapping {
		pair.ClearContactPoints()
		return false
	}

	pair.M_separatingAxis = axis.Axis
	generator := MakeRpContactGeneration(pair.M_shape1, pair.M_shape2, axis.Axis, settings)
	return generator.ComputeContactsOverlappingPair(pair, creator)
}

// Update the contact manifold and touching status.
// Note: do not assume the shape AABBs are overlapping or are valid.
func (pair *RpOverlappingPair) Update(creator RpContactCreator, listener RpContactListenerInterface, settings RpSettings) {
	// Re-enable this pair.
	pair.M_flags |= RpOverlappingPair_Flag.E_enabledFlag

	touching := false
	wasTouching := pair.IsTouching()

	sensor := pair.M_shape1.IsSensor() || pair.M_shape2.IsSensor()

	body1 := pair.M_shape1.GetBody()
	body2 := pair.M_shape2.GetBody()

	if sensor {
		_, touching = RpComputeSeparatingAxis(pair.M_shape1, pair.M_shape2, RP_faceAxisRelativeTolerance)

		// Sensors don't generate manifolds.
		pair.ClearContactPoints()
	} else {
		pair.ComputeContacts(creator, settings)

		touching = pair.M_manifold.PointCount > 0

		if touching != wasTouching {
			body1.SetAwake(true)
			body2.SetAwake(true)
		}
	}

	if touching {
		pair.M_flags |= RpOverlappingPair_Flag.E_touchingFlag
	} else {
		pair.M_flags &= ^RpOverlappingPair_Flag.E_touchingFlag
	}

	if !wasTouching && touching && listener != nil {
		listener.BeginContact(pair)
	}

	if wasTouching && !touching && listener != nil {
		listener.EndContact(pair)
	}

	if !sensor && touching && listener != nil {
		listener.PreSolve(pair, pair.M_oldManifold)
	}
}
