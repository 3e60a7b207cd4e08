package realphysics4d

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
)

var RpJointType = struct {
	E_unknownJoint    uint8
	E_ballSocketJoint uint8
	E_sliderJoint     uint8
	E_hingeJoint      uint8
	E_fixedJoint      uint8
	E_distanceJoint   uint8
}{
	E_unknownJoint:    1,
	E_ballSocketJoint: 2,
	E_sliderJoint:     3,
	E_hingeJoint:      4,
	E_fixedJoint:      5,
	E_distanceJoint:   6,
}

/// How a joint corrects its position error.
/// Baumgarte feeds a fraction of the error back into the velocity constraints.
/// Non linear Gauss-Seidel solves the error in a separate pass on positions.
var RpJointsPositionCorrectionTechnique = struct {
	E_baumgarteJoints      uint8
	E_nonLinearGaussSeidel uint8
}{
	E_baumgarteJoints:      1,
	E_nonLinearGaussSeidel: 2,
}

var (
	ErrRpInvalidLimits = errors.New("realphysics4d: invalid joint limits")
	ErrRpSameBody      = errors.New("realphysics4d: joint connects a body to itself")
)

/// A joint edge is used to connect bodies and joints together
/// in a joint graph where each body is a node and each joint
/// is an edge. A joint edge belongs to a doubly linked list
/// maintained in each attached body. Each joint has two joint
/// nodes, one for each attached body.
type RpJointEdge struct {
	Other *RpBody          ///< provides quick access to the other body attached.
	Joint RpJointInterface ///< the joint; backed by pointer
	Prev  *RpJointEdge     ///< the previous joint edge in the body's joint list
	Next  *RpJointEdge     ///< the next joint edge in the body's joint list
}

/// Joint definitions are used to construct joints.
type RpJointDef struct {

	/// The joint type is set automatically for concrete joint types.
	Type uint8

	/// Use this to attach application specific data to your joints.
	UserData interface{}

	/// The first attached body.
	Body1 *RpBody

	/// The second attached body.
	Body2 *RpBody

	/// Set this flag to true if the attached bodies should collide.
	CollideConnected bool

	/// Position correction technique of the joint.
	PositionCorrectionTechnique uint8
}

type RpJointDefInterface interface {
	GetType() uint8
	SetType(t uint8)
	GetUserData() interface{}
	SetUserData(userdata interface{})
	GetBody1() *RpBody
	SetBody1(body *RpBody)
	GetBody2() *RpBody
	SetBody2(body *RpBody)
	IsCollideConnected() bool
	SetCollideConnected(flag bool)
	GetPositionCorrectionTechnique() uint8

	/// Check the definition before the joint is created.
	Validate() error
}

func (def RpJointDef) GetType() uint8 {
	return def.Type
}

func (def *RpJointDef) SetType(t uint8) {
	def.Type = t
}

func (def RpJointDef) GetUserData() interface{} {
	return def.UserData
}

func (def *RpJointDef) SetUserData(userdata interface{}) {
	def.UserData = userdata
}

func (def RpJointDef) GetBody1() *RpBody {
	return def.Body1
}

func (def *RpJointDef) SetBody1(body *RpBody) {
	def.Body1 = body
}

func (def RpJointDef) GetBody2() *RpBody {
	return def.Body2
}

func (def *RpJointDef) SetBody2(body *RpBody) {
	def.Body2 = body
}

func (def RpJointDef) IsCollideConnected() bool {
	return def.CollideConnected
}

func (def *RpJointDef) SetCollideConnected(flag bool) {
	def.CollideConnected = flag
}

func (def RpJointDef) GetPositionCorrectionTechnique() uint8 {
	return def.PositionCorrectionTechnique
}

func (def RpJointDef) Validate() error {
	if def.Body1 == nil || def.Body2 == nil {
		return errors.New("realphysics4d: joint needs two bodies")
	}

	if def.Body1 == def.Body2 {
		return ErrRpSameBody
	}

	return nil
}

func MakeRpJointDef() RpJointDef {
	return RpJointDef{
		Type:                        RpJointType.E_unknownJoint,
		UserData:                    nil,
		Body1:                       nil,
		Body2:                       nil,
		CollideConnected:            false,
		PositionCorrectionTechnique: RpJointsPositionCorrectionTechnique.E_nonLinearGaussSeidel,
	}
}

/// The base joint class. Joints are used to constraint two bodies together in
/// various fashions. Some joints also feature limits and motors.
type RpJoint struct {
	M_type             uint8
	M_prev             RpJointInterface // has to be backed by pointer
	M_next             RpJointInterface // has to be backed by pointer
	M_edge1            *RpJointEdge
	M_edge2            *RpJointEdge
	M_body1            *RpBody
	M_body2            *RpBody
	M_index            int
	M_islandFlag       bool
	M_collideConnected bool
	M_userData         interface{}

	M_positionCorrectionTechnique uint8

	// Solver temp
	M_index1       int
	M_index2       int
	M_localCenter1 mgl64.Vec3
	M_localCenter2 mgl64.Vec3
	M_invMass1     float64
	M_invMass2     float64
	M_invILocal1   mgl64.Mat3
	M_invILocal2   mgl64.Mat3
}

func MakeRpJoint(def RpJointDefInterface) *RpJoint { // def has to be backed by pointer
	RpAssert(def.GetBody1() != def.GetBody2())

	res := RpJoint{}

	res.M_type = def.GetType()
	res.M_body1 = def.GetBody1()
	res.M_body2 = def.GetBody2()
	res.M_collideConnected = def.IsCollideConnected()
	res.M_userData = def.GetUserData()
	res.M_positionCorrectionTechnique = def.GetPositionCorrectionTechnique()
	if res.M_positionCorrectionTechnique == 0 {
		res.M_positionCorrectionTechnique = RpJointsPositionCorrectionTechnique.E_nonLinearGaussSeidel
	}

	res.M_edge1 = &RpJointEdge{}
	res.M_edge2 = &RpJointEdge{}

	return &res
}

/// Cache the body data used by the solver for this step.
func (j *RpJoint) initSolverBodies() {
	j.M_index1 = j.M_body1.M_islandIndex
	j.M_index2 = j.M_body2.M_islandIndex
	j.M_localCenter1 = j.M_body1.M_sweep.LocalCenter
	j.M_localCenter2 = j.M_body2.M_sweep.LocalCenter
	j.M_invMass1 = j.M_body1.M_invMass
	j.M_invMass2 = j.M_body2.M_invMass
	j.M_invILocal1 = j.M_body1.M_invILocal
	j.M_invILocal2 = j.M_body2.M_invILocal
}

func (j RpJoint) usesBaumgarte() bool {
	return j.M_positionCorrectionTechnique == RpJointsPositionCorrectionTechnique.E_baumgarteJoints
}

/// Rotation error of body 2 relative to body 1 away from the reference
/// orientation, as twice the vector part of the shortest error quaternion.
func rpRotationError(q1, q2, initOrientationDifferenceInv mgl64.Quat) mgl64.Vec3 {
	qError := q2.Mul(q1.Inverse()).Mul(initOrientationDifferenceInv)
	if qError.W < 0.0 {
		qError = qError.Scale(-1.0)
	}

	return qError.V.Mul(2.0)
}

/// Move a body state by a pseudo impulse in the position pass.
func rpApplyPositionImpulse(position *RpPosition, invMass float64, invI mgl64.Mat3, linearImpulse, angularImpulse mgl64.Vec3) {
	position.C = position.C.Add(linearImpulse.Mul(invMass))
	position.Q = RpQuatIntegrate(position.Q, invI.Mul3x1(angularImpulse), 1.0)
}

/// Dump this joint to the standard output.
func (j RpJoint) Dump() {}

func (j RpJoint) GetType() uint8 {
	return j.M_type
}

func (j RpJoint) GetBody1() *RpBody {
	return j.M_body1
}

func (j RpJoint) GetBody2() *RpBody {
	return j.M_body2
}

func (j RpJoint) GetNext() RpJointInterface { // returns pointer
	return j.M_next
}

func (j *RpJoint) SetNext(next RpJointInterface) { // has to be backed by pointer
	j.M_next = next
}

func (j RpJoint) GetPrev() RpJointInterface { // returns pointer
	return j.M_prev
}

func (j *RpJoint) SetPrev(prev RpJointInterface) { // prev has to be backed by pointer
	j.M_prev = prev
}

func (j RpJoint) GetUserData() interface{} {
	return j.M_userData
}

func (j *RpJoint) SetUserData(data interface{}) {
	j.M_userData = data
}

func (j RpJoint) IsCollideConnected() bool {
	return j.M_collideConnected
}

func (j RpJoint) GetEdge1() *RpJointEdge {
	return j.M_edge1
}

func (j RpJoint) GetEdge2() *RpJointEdge {
	return j.M_edge2
}

func (j RpJoint) IsActive() bool {
	return j.M_body1.IsActive() && j.M_body2.IsActive()
}

func (j RpJoint) GetIndex() int {
	return j.M_index
}

func (j *RpJoint) SetIndex(index int) {
	j.M_index = index
}

func (j RpJoint) GetIslandFlag() bool {
	return j.M_islandFlag
}

func (j *RpJoint) SetIslandFlag(flag bool) {
	j.M_islandFlag = flag
}

func (j RpJoint) GetPositionCorrectionTechnique() uint8 {
	return j.M_positionCorrectionTechnique
}

type RpJointInterface interface {
	/// Dump this joint to the standard output.
	Dump()

	GetType() uint8

	GetBody1() *RpBody
	GetBody2() *RpBody

	GetIndex() int
	SetIndex(index int)

	GetNext() RpJointInterface     // backed by pointer
	SetNext(next RpJointInterface) // backed by pointer

	GetPrev() RpJointInterface     // backed by pointer
	SetPrev(prev RpJointInterface) // backed by pointer

	GetEdge1() *RpJointEdge
	GetEdge2() *RpJointEdge

	GetUserData() interface{}
	SetUserData(data interface{})

	IsCollideConnected() bool

	IsActive() bool

	/// Compute the solver quantities of the step: Jacobians, inverse mass
	/// matrices and bias terms.
	InitBeforeSolve(data RpSolverData)

	/// Apply the impulses accumulated in the previous step.
	Warmstart(data RpSolverData)

	SolveVelocityConstraint(data RpSolverData)

	/// Returns true when the position error is within the slop.
	SolvePositionConstraint(data RpSolverData) bool

	GetIslandFlag() bool
	SetIslandFlag(flag bool)
}

/// Create the joint described by def. The definition must be a pointer to a
/// concrete joint definition whose type tag matches.
func RpJointCreate(def RpJointDefInterface) RpJointInterface { // def should be back by pointer; a pointer is returned
	switch def.GetType() {
	case RpJointType.E_sliderJoint:
		if typeddef, ok := def.(*RpSliderJointDef); ok {
			return MakeRpSliderJoint(typeddef)
		}

	case RpJointType.E_ballSocketJoint:
		if typeddef, ok := def.(*RpBallAndSocketJointDef); ok {
			return MakeRpBallAndSocketJoint(typeddef)
		}

	case RpJointType.E_hingeJoint:
		if typeddef, ok := def.(*RpHingeJointDef); ok {
			return MakeRpHingeJoint(typeddef)
		}

	case RpJointType.E_fixedJoint:
		if typeddef, ok := def.(*RpFixedJointDef); ok {
			return MakeRpFixedJoint(typeddef)
		}

	case RpJointType.E_distanceJoint:
		if typeddef, ok := def.(*RpDistanceJointDef); ok {
			return MakeRpDistanceJoint(typeddef)
		}
	}

	RpAssert(false)
	return nil
}
