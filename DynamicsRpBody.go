package realphysics4d

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

/// The body type.
/// static: zero mass, zero velocity, may be manually moved
/// kinematic: zero mass, non-zero velocity set by user, moved by solver
/// dynamic: positive mass, non-zero velocity determined by forces, moved by solver

var RpBodyType = struct {
	Rp_staticBody    uint8
	Rp_kinematicBody uint8
	Rp_dynamicBody   uint8
}{
	Rp_staticBody:    0,
	Rp_kinematicBody: 1,
	Rp_dynamicBody:   2,
}

/// A body definition holds all the data needed to construct a rigid body.
/// You can safely re-use body definitions. Proxy shapes are added to a body after construction.
type RpBodyDef struct {

	/// The body type: static, kinematic, or dynamic.
	/// Note: if a dynamic body would have zero mass, the mass is set to one.
	Type uint8

	/// The world position of the body origin.
	Position mgl64.Vec3

	/// The world orientation of the body.
	Orientation mgl64.Quat

	/// The linear velocity of the body's origin in world co-ordinates.
	LinearVelocity mgl64.Vec3

	/// The angular velocity of the body in world co-ordinates.
	AngularVelocity mgl64.Vec3

	/// Linear damping is use to reduce the linear velocity.
	/// Units are 1/time
	LinearDamping float64

	/// Angular damping is use to reduce the angular velocity.
	/// Units are 1/time
	AngularDamping float64

	/// Set this flag to false if this body should never fall asleep.
	AllowSleep bool

	/// Is this body initially awake or sleeping?
	Awake bool

	/// Should this body be prevented from rotating?
	FixedRotation bool

	/// Does this body start out active?
	Active bool

	/// Use this to store application specific body data.
	UserData interface{}

	/// Scale the gravity applied to this body.
	GravityScale float64
}

/// This constructor sets the body definition default values.
func MakeRpBodyDef() RpBodyDef {
	return RpBodyDef{
		UserData:        nil,
		Position:        mgl64.Vec3{},
		Orientation:     mgl64.QuatIdent(),
		LinearVelocity:  mgl64.Vec3{},
		AngularVelocity: mgl64.Vec3{},
		LinearDamping:   0.0,
		AngularDamping:  0.0,
		AllowSleep:      true,
		Awake:           true,
		FixedRotation:   false,
		Type:            RpBodyType.Rp_staticBody,
		Active:          true,
		GravityScale:    1.0,
	}
}

func NewRpBodyDef() *RpBodyDef {
	res := MakeRpBodyDef()
	return &res
}

var RpBody_Flags = struct {
	E_islandFlag        uint32
	E_awakeFlag         uint32
	E_autoSleepFlag     uint32
	E_fixedRotationFlag uint32
	E_activeFlag        uint32
}{
	E_islandFlag:        0x0001,
	E_awakeFlag:         0x0002,
	E_autoSleepFlag:     0x0004,
	E_fixedRotationFlag: 0x0010,
	E_activeFlag:        0x0020,
}

type RpBody struct {
	M_type uint8

	M_flags uint32

	M_islandIndex int

	M_xf    RpTransform // the body origin transform
	M_sweep RpSweep     // center of mass motion over the step

	M_linearVelocity  mgl64.Vec3
	M_angularVelocity mgl64.Vec3

	M_force  mgl64.Vec3
	M_torque mgl64.Vec3

	M_world *RpWorld
	M_prev  *RpBody
	M_next  *RpBody

	M_shapeList  *RpProxyShape // linked list
	M_shapeCount int

	M_jointList *RpJointEdge // linked list
	M_pairList  *RpPairEdge  // linked list

	M_mass, M_invMass float64

	// Inertia tensor about the center of mass, in body axes.
	M_I         mgl64.Mat3
	M_invILocal mgl64.Mat3

	M_linearDamping  float64
	M_angularDamping float64
	M_gravityScale   float64

	M_sleepTime float64

	M_userData interface{}
}

func (body RpBody) GetType() uint8 {
	return body.M_type
}

func (body RpBody) GetTransform() RpTransform {
	return body.M_xf
}

func (body RpBody) GetPosition() mgl64.Vec3 {
	return body.M_xf.P
}

func (body RpBody) GetOrientation() mgl64.Quat {
	return body.M_sweep.Q
}

func (body RpBody) GetWorldCenter() mgl64.Vec3 {
	return body.M_sweep.C
}

func (body RpBody) GetLocalCenter() mgl64.Vec3 {
	return body.M_sweep.LocalCenter
}

func (body *RpBody) SetLinearVelocity(v mgl64.Vec3) {
	if body.M_type == RpBodyType.Rp_staticBody {
		return
	}

	if v.Dot(v) > 0.0 {
		body.SetAwake(true)
	}

	body.M_linearVelocity = v
}

func (body RpBody) GetLinearVelocity() mgl64.Vec3 {
	return body.M_linearVelocity
}

func (body *RpBody) SetAngularVelocity(w mgl64.Vec3) {
	if body.M_type == RpBodyType.Rp_staticBody {
		return
	}

	if w.Dot(w) > 0.0 {
		body.SetAwake(true)
	}

	body.M_angularVelocity = w
}

func (body RpBody) GetAngularVelocity() mgl64.Vec3 {
	return body.M_angularVelocity
}

func (body RpBody) GetMass() float64 {
	return body.M_mass
}

func (body RpBody) GetInverseMass() float64 {
	return body.M_invMass
}

/// Inertia tensor about the center of mass, in body axes.
func (body RpBody) GetInertiaTensorLocal() mgl64.Mat3 {
	return body.M_I
}

func (body RpBody) GetInverseInertiaTensorLocal() mgl64.Mat3 {
	return body.M_invILocal
}

/// Inverse inertia tensor in world axes: R * I^-1 * R^T.
func (body RpBody) GetInverseInertiaTensorWorld() mgl64.Mat3 {
	return RpRotateTensor(body.M_sweep.Q, body.M_invILocal)
}

/// Mass data with the inertia tensor about the body origin.
func (body RpBody) GetMassData(data *RpMassData) {
	data.Mass = body.M_mass
	data.I = body.M_I.Add(RpPointInertia(body.M_mass, body.M_sweep.LocalCenter))
	data.Center = body.M_sweep.LocalCenter
}

func (body RpBody) GetWorldPoint(localPoint mgl64.Vec3) mgl64.Vec3 {
	return RpTransformVec3Mul(body.M_xf, localPoint)
}

func (body RpBody) GetWorldVector(localVector mgl64.Vec3) mgl64.Vec3 {
	return body.M_xf.Q.Rotate(localVector)
}

func (body RpBody) GetLocalPoint(worldPoint mgl64.Vec3) mgl64.Vec3 {
	return RpTransformVec3MulT(body.M_xf, worldPoint)
}

func (body RpBody) GetLocalVector(worldVector mgl64.Vec3) mgl64.Vec3 {
	return body.M_xf.Q.Conjugate().Rotate(worldVector)
}

func (body RpBody) GetLinearVelocityFromWorldPoint(worldPoint mgl64.Vec3) mgl64.Vec3 {
	return body.M_linearVelocity.Add(body.M_angularVelocity.Cross(worldPoint.Sub(body.M_sweep.C)))
}

func (body RpBody) GetLinearVelocityFromLocalPoint(localPoint mgl64.Vec3) mgl64.Vec3 {
	return body.GetLinearVelocityFromWorldPoint(body.GetWorldPoint(localPoint))
}

func (body RpBody) GetLinearDamping() float64 {
	return body.M_linearDamping
}

func (body *RpBody) SetLinearDamping(linearDamping float64) {
	body.M_linearDamping = linearDamping
}

func (body RpBody) GetAngularDamping() float64 {
	return body.M_angularDamping
}

func (body *RpBody) SetAngularDamping(angularDamping float64) {
	body.M_angularDamping = angularDamping
}

func (body RpBody) GetGravityScale() float64 {
	return body.M_gravityScale
}

func (body *RpBody) SetGravityScale(scale float64) {
	body.M_gravityScale = scale
}

func (body *RpBody) SetAwake(flag bool) {
	if flag {
		body.M_flags |= RpBody_Flags.E_awakeFlag
		body.M_sleepTime = 0.0
	} else {
		body.M_flags &= ^RpBody_Flags.E_awakeFlag
		body.M_sleepTime = 0.0
		body.M_linearVelocity = mgl64.Vec3{}
		body.M_angularVelocity = mgl64.Vec3{}
		body.M_force = mgl64.Vec3{}
		body.M_torque = mgl64.Vec3{}
	}
}

func (body RpBody) IsAwake() bool {
	return (body.M_flags & RpBody_Flags.E_awakeFlag) == RpBody_Flags.E_awakeFlag
}

func (body RpBody) IsActive() bool {
	return (body.M_flags & RpBody_Flags.E_activeFlag) == RpBody_Flags.E_activeFlag
}

func (body RpBody) IsFixedRotation() bool {
	return (body.M_flags & RpBody_Flags.E_fixedRotationFlag) == RpBody_Flags.E_fixedRotationFlag
}

func (body *RpBody) SetSleepingAllowed(flag bool) {
	if flag {
		body.M_flags |= RpBody_Flags.E_autoSleepFlag
	} else {
		body.M_flags &= ^RpBody_Flags.E_autoSleepFlag
		body.SetAwake(true)
	}
}

func (body RpBody) IsSleepingAllowed() bool {
	return (body.M_flags & RpBody_Flags.E_autoSleepFlag) == RpBody_Flags.E_autoSleepFlag
}

func (body RpBody) GetProxyShapeList() *RpProxyShape {
	return body.M_shapeList
}

func (body RpBody) GetJointList() *RpJointEdge {
	return body.M_jointList
}

func (body RpBody) GetPairList() *RpPairEdge {
	return body.M_pairList
}

func (body RpBody) GetNext() *RpBody {
	return body.M_next
}

func (body *RpBody) SetUserData(data interface{}) {
	body.M_userData = data
}

func (body RpBody) GetUserData() interface{} {
	return body.M_userData
}

func (body RpBody) GetWorld() *RpWorld {
	return body.M_world
}

/// Apply a force at a world point. If the force is not applied at the center
/// of mass, it will generate a torque and affect the angular velocity.
func (body *RpBody) ApplyForce(force mgl64.Vec3, point mgl64.Vec3, wake bool) {
	if body.M_type != RpBodyType.Rp_dynamicBody {
		return
	}

	if wake && (body.M_flags&RpBody_Flags.E_awakeFlag) == 0 {
		body.SetAwake(true)
	}

	// Don't accumulate a force if the body is sleeping.
	if (body.M_flags & RpBody_Flags.E_awakeFlag) != 0x0000 {
		body.M_force = body.M_force.Add(force)
		body.M_torque = body.M_torque.Add(point.Sub(body.M_sweep.C).Cross(force))
	}
}

func (body *RpBody) ApplyForceToCenter(force mgl64.Vec3, wake bool) {
	if body.M_type != RpBodyType.Rp_dynamicBody {
		return
	}

	if wake && (body.M_flags&RpBody_Flags.E_awakeFlag) == 0 {
		body.SetAwake(true)
	}

	if (body.M_flags & RpBody_Flags.E_awakeFlag) != 0x0000 {
		body.M_force = body.M_force.Add(force)
	}
}

func (body *RpBody) ApplyTorque(torque mgl64.Vec3, wake bool) {
	if body.M_type != RpBodyType.Rp_dynamicBody {
		return
	}

	if wake && (body.M_flags&RpBody_Flags.E_awakeFlag) == 0 {
		body.SetAwake(true)
	}

	if (body.M_flags & RpBody_Flags.E_awakeFlag) != 0x0000 {
		body.M_torque = body.M_torque.Add(torque)
	}
}

/// Apply an impulse at a world point. This immediately modifies the velocity.
func (body *RpBody) ApplyLinearImpulse(impulse mgl64.Vec3, point mgl64.Vec3, wake bool) {
	if body.M_type != RpBodyType.Rp_dynamicBody {
		return
	}

	if wake && (body.M_flags&RpBody_Flags.E_awakeFlag) == 0 {
		body.SetAwake(true)
	}

	// Don't accumulate velocity if the body is sleeping
	if (body.M_flags & RpBody_Flags.E_awakeFlag) != 0x0000 {
		body.M_linearVelocity = body.M_linearVelocity.Add(impulse.Mul(body.M_invMass))
		angular := point.Sub(body.M_sweep.C).Cross(impulse)
		body.M_angularVelocity = body.M_angularVelocity.Add(body.GetInverseInertiaTensorWorld().Mul3x1(angular))
	}
}

func (body *RpBody) ApplyLinearImpulseToCenter(impulse mgl64.Vec3, wake bool) {
	if body.M_type != RpBodyType.Rp_dynamicBody {
		return
	}

	if wake && (body.M_flags&RpBody_Flags.E_awakeFlag) == 0 {
		body.SetAwake(true)
	}

	if (body.M_flags & RpBody_Flags.E_awakeFlag) != 0x0000 {
		body.M_linearVelocity = body.M_linearVelocity.Add(impulse.Mul(body.M_invMass))
	}
}

func (body *RpBody) ApplyAngularImpulse(impulse mgl64.Vec3, wake bool) {
	if body.M_type != RpBodyType.Rp_dynamicBody {
		return
	}

	if wake && (body.M_flags&RpBody_Flags.E_awakeFlag) == 0 {
		body.SetAwake(true)
	}

	if (body.M_flags & RpBody_Flags.E_awakeFlag) != 0x0000 {
		body.M_angularVelocity = body.M_angularVelocity.Add(body.GetInverseInertiaTensorWorld().Mul3x1(impulse))
	}
}

func (body *RpBody) SynchronizeTransform() {
	body.M_xf.Q = body.M_sweep.Q
	body.M_xf.P = body.M_sweep.C.Sub(body.M_xf.Q.Rotate(body.M_sweep.LocalCenter))
}

///////////////////////////////////////////////////////////////////////////////

func NewRpBody(bd *RpBodyDef, world *RpWorld) *RpBody {
	RpAssert(RpVec3IsValid(bd.Position))
	RpAssert(RpVec3IsValid(bd.LinearVelocity))
	RpAssert(RpQuatIsValid(bd.Orientation))
	RpAssert(RpVec3IsValid(bd.AngularVelocity))
	RpAssert(RpIsValid(bd.AngularDamping) && bd.AngularDamping >= 0.0)
	RpAssert(RpIsValid(bd.LinearDamping) && bd.LinearDamping >= 0.0)

	body := &RpBody{}

	if bd.FixedRotation {
		body.M_flags |= RpBody_Flags.E_fixedRotationFlag
	}

	if bd.AllowSleep {
		body.M_flags |= RpBody_Flags.E_autoSleepFlag
	}

	if bd.Awake {
		body.M_flags |= RpBody_Flags.E_awakeFlag
	}

	if bd.Active {
		body.M_flags |= RpBody_Flags.E_activeFlag
	}

	body.M_world = world

	orientation := bd.Orientation.Normalize()
	body.M_xf = MakeRpTransformByPositionAndRotation(bd.Position, orientation)

	body.M_sweep = MakeRpSweep()
	body.M_sweep.C0 = body.M_xf.P
	body.M_sweep.C = body.M_xf.P
	body.M_sweep.Q0 = orientation
	body.M_sweep.Q = orientation

	body.M_linearVelocity = bd.LinearVelocity
	body.M_angularVelocity = bd.AngularVelocity

	body.M_linearDamping = bd.LinearDamping
	body.M_angularDamping = bd.AngularDamping
	body.M_gravityScale = bd.GravityScale

	body.M_type = bd.Type

	if body.M_type == RpBodyType.Rp_dynamicBody {
		body.M_mass = 1.0
		body.M_invMass = 1.0
	}

	body.M_userData = bd.UserData

	return body
}

func (body *RpBody) SetType(bodytype uint8) {
	RpAssert(body.M_world.IsLocked() == false)
	if body.M_world.IsLocked() == true {
		return
	}

	if body.M_type == bodytype {
		return
	}

	body.M_type = bodytype

	body.ResetMassData()

	if body.M_type == RpBodyType.Rp_staticBody {
		body.M_linearVelocity = mgl64.Vec3{}
		body.M_angularVelocity = mgl64.Vec3{}
		body.M_sweep.Q0 = body.M_sweep.Q
		body.M_sweep.C0 = body.M_sweep.C
		body.SynchronizeProxyShapes()
	}

	body.SetAwake(true)

	body.M_force = mgl64.Vec3{}
	body.M_torque = mgl64.Vec3{}

	// Delete the attached pairs.
	pe := body.M_pairList
	for pe != nil {
		pe0 := pe
		pe = pe.Next
		body.M_world.M_collisionManager.Destroy(pe0.Pair)
	}

	body.M_pairList = nil

	// Touch the proxies so that new pairs will be created (when appropriate)
	broadPhase := &body.M_world.M_collisionManager.M_broadPhase
	for s := body.M_shapeList; s != nil; s = s.M_next {
		if s.M_proxyId != RP_nullProxy {
			broadPhase.TouchProxy(s.M_proxyId)
		}
	}
}

/// Attach a convex shape to this body. The shape in the definition is cloned.
/// This updates the mass of the body when the density is positive.
/// Returns nil while the world is stepping.
func (body *RpBody) CreateProxyShape(def *RpProxyShapeDef) *RpProxyShape {
	RpAssert(body.M_world.IsLocked() == false)
	if body.M_world.IsLocked() == true {
		return nil
	}

	shape := NewRpProxyShape(body, def)

	if (body.M_flags & RpBody_Flags.E_activeFlag) != 0x0000 {
		broadPhase := &body.M_world.M_collisionManager.M_broadPhase
		shape.CreateProxy(broadPhase, body.M_xf)
	}

	shape.M_next = body.M_shapeList
	body.M_shapeList = shape
	body.M_shapeCount++

	// Adjust mass properties if needed.
	if shape.M_density > 0.0 {
		body.ResetMassData()
	}

	// Let the world know we have a new shape. This will cause new pairs
	// to be created at the beginning of the next time step.
	body.M_world.M_flags |= RpWorld_Flags.E_newProxyShape

	return shape
}

/// Shorthand that attaches a shape with a density and default material.
func (body *RpBody) CreateProxyShapeWithDensity(shape RpShapeInterface, density float64) *RpProxyShape {
	def := MakeRpProxyShapeDef()
	def.Shape = shape
	def.Density = density

	return body.CreateProxyShape(&def)
}

func (body *RpBody) DestroyProxyShape(shape *RpProxyShape) {
	if shape == nil {
		return
	}

	RpAssert(body.M_world.IsLocked() == false)
	if body.M_world.IsLocked() == true {
		return
	}

	RpAssert(shape.M_body == body)

	// Remove the shape from this body's singly linked list.
	RpAssert(body.M_shapeCount > 0)
	node := &body.M_shapeList
	found := false
	for *node != nil {
		if *node == shape {
			*node = shape.M_next
			found = true
			break
		}

		node = &(*node).M_next
	}

	// You tried to remove a shape that is not attached to this body.
	RpAssert(found)

	// Destroy any pairs associated with the shape.
	edge := body.M_pairList
	for edge != nil {
		pair := edge.Pair
		edge = edge.Next

		if shape == pair.GetShape1() || shape == pair.GetShape2() {
			// This destroys the pair and removes it from
			// this body's pair list.
			body.M_world.M_collisionManager.Destroy(pair)
		}
	}

	if (body.M_flags & RpBody_Flags.E_activeFlag) != 0x0000 {
		broadPhase := &body.M_world.M_collisionManager.M_broadPhase
		shape.DestroyProxy(broadPhase)
	}

	shape.M_body = nil
	shape.M_next = nil

	body.M_shapeCount--

	body.ResetMassData()
}

/// Recompute the mass, center of mass and inertia tensor from the shapes.
/// Each shape tensor is moved to the body center of mass with the parallel
/// axis theorem.
func (body *RpBody) ResetMassData() {
	body.M_mass = 0.0
	body.M_invMass = 0.0
	body.M_I = mgl64.Mat3{}
	body.M_invILocal = mgl64.Mat3{}
	body.M_sweep.LocalCenter = mgl64.Vec3{}

	// Static and kinematic bodies have zero mass.
	if body.M_type == RpBodyType.Rp_staticBody || body.M_type == RpBodyType.Rp_kinematicBody {
		body.M_sweep.C0 = body.M_xf.P
		body.M_sweep.C = body.M_xf.P
		body.M_sweep.Q0 = body.M_sweep.Q
		return
	}

	RpAssert(body.M_type == RpBodyType.Rp_dynamicBody)

	// Accumulate mass over all shapes.
	localCenter := mgl64.Vec3{}
	masses := make([]RpMassData, 0, body.M_shapeCount)
	for s := body.M_shapeList; s != nil; s = s.M_next {
		if s.M_density == 0.0 {
			continue
		}

		massData := MakeRpMassData()
		s.GetMassData(&massData)
		body.M_mass += massData.Mass
		localCenter = localCenter.Add(massData.Center.Mul(massData.Mass))
		masses = append(masses, massData)
	}

	// Compute center of mass.
	if body.M_mass > 0.0 {
		body.M_invMass = 1.0 / body.M_mass
		localCenter = localCenter.Mul(body.M_invMass)
	} else {
		// Force all dynamic bodies to have a positive mass.
		body.M_mass = 1.0
		body.M_invMass = 1.0
	}

	inertia := mgl64.Mat3{}
	for _, massData := range masses {
		inertia = inertia.Add(massData.I).Add(RpPointInertia(massData.Mass, massData.Center.Sub(localCenter)))
	}

	if inertia.Det() > 0.0 && (body.M_flags&RpBody_Flags.E_fixedRotationFlag) == 0 {
		body.M_I = inertia
		body.M_invILocal = RpMat3Inverse(inertia)
	}

	body.moveCenter(localCenter)
}

/// Set the mass properties to override the mass properties of the shapes.
/// The inertia tensor of the mass data is about the body origin.
func (body *RpBody) SetMassData(massData *RpMassData) {
	RpAssert(body.M_world.IsLocked() == false)
	if body.M_world.IsLocked() == true {
		return
	}

	if body.M_type != RpBodyType.Rp_dynamicBody {
		return
	}

	body.M_invMass = 0.0
	body.M_I = mgl64.Mat3{}
	body.M_invILocal = mgl64.Mat3{}

	body.M_mass = massData.Mass
	if body.M_mass <= 0.0 {
		body.M_mass = 1.0
	}

	body.M_invMass = 1.0 / body.M_mass

	if massData.I.Det() > 0.0 && (body.M_flags&RpBody_Flags.E_fixedRotationFlag) == 0 {
		body.M_I = massData.I.Sub(RpPointInertia(body.M_mass, massData.Center))
		RpAssert(body.M_I.Det() > 0.0)
		body.M_invILocal = RpMat3Inverse(body.M_I)
	}

	body.moveCenter(massData.Center)
}

func (body *RpBody) moveCenter(localCenter mgl64.Vec3) {
	oldCenter := body.M_sweep.C
	body.M_sweep.LocalCenter = localCenter
	body.M_sweep.C0 = RpTransformVec3Mul(body.M_xf, localCenter)
	body.M_sweep.C = body.M_sweep.C0

	// Update center of mass velocity.
	body.M_linearVelocity = body.M_linearVelocity.Add(body.M_angularVelocity.Cross(body.M_sweep.C.Sub(oldCenter)))
}

/// This is used to prevent connected bodies from colliding.
/// It may lie, depending on the collideConnected flag.
func (body RpBody) ShouldCollide(other *RpBody) bool {
	// At least one body should be dynamic.
	if body.M_type != RpBodyType.Rp_dynamicBody && other.M_type != RpBodyType.Rp_dynamicBody {
		return false
	}

	// Does a joint prevent collision?
	for jn := body.M_jointList; jn != nil; jn = jn.Next {
		if jn.Other == other {
			if jn.Joint.IsCollideConnected() == false {
				return false
			}
		}
	}

	return true
}

/// Set the position of the body's origin and its orientation.
/// Manipulating a body's transform may cause non-physical behavior.
func (body *RpBody) SetTransform(position mgl64.Vec3, orientation mgl64.Quat) {
	RpAssert(body.M_world.IsLocked() == false)
	if body.M_world.IsLocked() == true {
		return
	}

	orientation = orientation.Normalize()
	body.M_xf = MakeRpTransformByPositionAndRotation(position, orientation)

	body.M_sweep.C = RpTransformVec3Mul(body.M_xf, body.M_sweep.LocalCenter)
	body.M_sweep.Q = orientation

	body.M_sweep.C0 = body.M_sweep.C
	body.M_sweep.Q0 = orientation

	broadPhase := &body.M_world.M_collisionManager.M_broadPhase
	for s := body.M_shapeList; s != nil; s = s.M_next {
		s.Synchronize(broadPhase, body.M_xf, body.M_xf)
	}
}

func (body *RpBody) SynchronizeProxyShapes() {
	xf1 := MakeRpTransform()
	body.M_sweep.GetTransform(&xf1, 0.0)

	broadPhase := &body.M_world.M_collisionManager.M_broadPhase
	for s := body.M_shapeList; s != nil; s = s.M_next {
		s.Synchronize(broadPhase, xf1, body.M_xf)
	}
}

/// An inactive body is not simulated and cannot be collided with.
func (body *RpBody) SetActive(flag bool) {
	RpAssert(body.M_world.IsLocked() == false)

	if flag == body.IsActive() {
		return
	}

	broadPhase := &body.M_world.M_collisionManager.M_broadPhase

	if flag {
		body.M_flags |= RpBody_Flags.E_activeFlag

		// Create all proxies.
		for s := body.M_shapeList; s != nil; s = s.M_next {
			s.CreateProxy(broadPhase, body.M_xf)
		}

		// Pairs are created the next time step.
	} else {
		body.M_flags &= ^RpBody_Flags.E_activeFlag

		// Destroy all proxies.
		for s := body.M_shapeList; s != nil; s = s.M_next {
			s.DestroyProxy(broadPhase)
		}

		// Destroy the attached pairs.
		pe := body.M_pairList
		for pe != nil {
			pe0 := pe
			pe = pe.Next
			body.M_world.M_collisionManager.Destroy(pe0.Pair)
		}

		body.M_pairList = nil
	}
}

func (body *RpBody) SetFixedRotation(flag bool) {
	if body.IsFixedRotation() == flag {
		return
	}

	if flag {
		body.M_flags |= RpBody_Flags.E_fixedRotationFlag
	} else {
		body.M_flags &= ^RpBody_Flags.E_fixedRotationFlag
	}

	body.M_angularVelocity = mgl64.Vec3{}

	body.ResetMassData()
}

func (body *RpBody) Dump() {
	bodyIndex := body.M_islandIndex

	p := body.M_xf.P
	q := body.M_sweep.Q
	v := body.M_linearVelocity
	w := body.M_angularVelocity

	fmt.Print("{\n")
	fmt.Print("  bd := MakeRpBodyDef()\n")
	fmt.Printf("  bd.Type = uint8(%d)\n", body.M_type)
	fmt.Printf("  bd.Position = mgl64.Vec3{%.15e, %.15e, %.15e}\n", p[0], p[1], p[2])
	fmt.Printf("  bd.Orientation = mgl64.Quat{W: %.15e, V: mgl64.Vec3{%.15e, %.15e, %.15e}}\n", q.W, q.V[0], q.V[1], q.V[2])
	fmt.Printf("  bd.LinearVelocity = mgl64.Vec3{%.15e, %.15e, %.15e}\n", v[0], v[1], v[2])
	fmt.Printf("  bd.AngularVelocity = mgl64.Vec3{%.15e, %.15e, %.15e}\n", w[0], w[1], w[2])
	fmt.Printf("  bd.LinearDamping = %.15e\n", body.M_linearDamping)
	fmt.Printf("  bd.AngularDamping = %.15e\n", body.M_angularDamping)
	fmt.Printf("  bd.AllowSleep = %t\n", body.IsSleepingAllowed())
	fmt.Printf("  bd.Awake = %t\n", body.IsAwake())
	fmt.Printf("  bd.FixedRotation = %t\n", body.IsFixedRotation())
	fmt.Printf("  bd.Active = %t\n", body.IsActive())
	fmt.Printf("  bd.GravityScale = %.15e\n", body.M_gravityScale)
	fmt.Printf("  bodies[%d] = world.CreateBody(&bd)\n", bodyIndex)
	fmt.Print("\n")
	for s := body.M_shapeList; s != nil; s = s.M_next {
		fmt.Print("  {\n")
		s.Dump(bodyIndex)
		fmt.Print("  }\n")
	}
	fmt.Print("}\n")
}
