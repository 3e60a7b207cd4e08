package realphysics4d

import "github.com/go-gl/mathgl/mgl64"

type RpDestructionListenerInterface interface {
	/// Called when any proxy shape is about to be destroyed due
	/// to the destruction of its parent body.
	SayGoodbyeToProxyShape(shape *RpProxyShape)

	SayGoodbyeToJoint(joint RpJointInterface) // backed by pointer
}

type RpContactFilterInterface interface {
	ShouldCollide(shape1 *RpProxyShape, shape2 *RpProxyShape) bool
}

/// Contact impulses for reporting. Impulses are used instead of forces because
/// sub-step forces may approach infinity for rigid body collisions. These
/// match up one-to-one with the contact points in RpContactManifold.
type RpContactImpulse struct {
	NormalImpulses   [RP_maxManifoldPoints]float64
	TangentImpulses1 [RP_maxManifoldPoints]float64
	TangentImpulses2 [RP_maxManifoldPoints]float64
	Count            int
}

func MakeRpContactImpulse() RpContactImpulse {
	return RpContactImpulse{}
}

type RpContactListenerInterface interface {
	/// Called when two shapes begin to touch.
	BeginContact(pair *RpOverlappingPair)

	/// Called when two shapes cease to touch.
	EndContact(pair *RpOverlappingPair)

	/// This is called after a pair is updated. This allows you to inspect a
	/// pair before it goes to the solver. If you are careful, you can modify the
	/// manifold (e.g. disable the pair).
	/// A copy of the old manifold is provided so that you can detect changes.
	/// Note: this is called only for awake bodies.
	/// Note: this is not called for sensors.
	PreSolve(pair *RpOverlappingPair, oldManifold RpContactManifold)

	/// This lets you inspect a pair after the solver is finished. This is useful
	/// for inspecting impulses.
	/// Note: this is only called for pairs that are touching, solid, and awake.
	PostSolve(pair *RpOverlappingPair, impulse *RpContactImpulse)
}

type RpBroadPhaseQueryCallback func(shape *RpProxyShape) bool

type RpContactFilter struct {
}

// Return true if contact calculations should be performed between these two shapes.
// If you implement your own collision filter you may want to build from this implementation.
func (cf *RpContactFilter) ShouldCollide(shape1 *RpProxyShape, shape2 *RpProxyShape) bool {
	filter1 := shape1.GetFilterData()
	filter2 := shape2.GetFilterData()

	if filter1.GroupIndex == filter2.GroupIndex && filter1.GroupIndex != 0 {
		return filter1.GroupIndex > 0
	}

	collide := (filter1.MaskBits&filter2.CategoryBits) != 0 && (filter1.CategoryBits&filter2.MaskBits) != 0
	return collide
}

/// Called for each shape found in the query. You control how the ray cast
/// proceeds by returning a float:
/// return -1: ignore this shape and continue
/// return 0: terminate the ray cast
/// return fraction: clip the ray to this point
/// return 1: don't clip the ray and continue
/// @param shape the shape hit by the ray
/// @param point the point of initial intersection
/// @param normal the normal vector at the point of intersection
/// @return -1 to filter, 0 to terminate, fraction to clip the ray for
/// closest hit, 1 to continue
type RpRaycastCallback func(shape *RpProxyShape, point mgl64.Vec3, normal mgl64.Vec3, fraction float64) float64
