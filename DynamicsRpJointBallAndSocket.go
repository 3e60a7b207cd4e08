package realphysics4d

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

/// Ball and socket joint definition. The bodies share one anchor point.
type RpBallAndSocketJointDef struct {
	RpJointDef

	/// The local anchor point relative to body1's origin.
	LocalAnchor1 mgl64.Vec3

	/// The local anchor point relative to body2's origin.
	LocalAnchor2 mgl64.Vec3
}

func MakeRpBallAndSocketJointDef() RpBallAndSocketJointDef {
	res := RpBallAndSocketJointDef{
		RpJointDef: MakeRpJointDef(),
	}

	res.Type = RpJointType.E_ballSocketJoint

	return res
}

/// Initialize the bodies and the anchors using a world anchor point.
func (def *RpBallAndSocketJointDef) Initialize(body1 *RpBody, body2 *RpBody, anchor mgl64.Vec3) {
	def.Body1 = body1
	def.Body2 = body2
	def.LocalAnchor1 = body1.GetLocalPoint(anchor)
	def.LocalAnchor2 = body2.GetLocalPoint(anchor)
}

// Point constraint
// C = x2 + r2 - x1 - r1
// Cdot = v2 + cross(w2, r2) - v1 - cross(w1, r1)
// J = [-I skew(r1) I -skew(r2)]
// K = J * invM * JT

/// A ball and socket joint removes the three relative translations at the
/// anchor. The bodies rotate freely about it.
type RpBallAndSocketJoint struct {
	*RpJoint

	M_localAnchor1 mgl64.Vec3
	M_localAnchor2 mgl64.Vec3

	// Solver shared
	M_impulse mgl64.Vec3

	// Solver temp
	M_r1                mgl64.Vec3
	M_r2                mgl64.Vec3
	M_i1                mgl64.Mat3
	M_i2                mgl64.Mat3
	M_biasVector        mgl64.Vec3
	M_inverseMassMatrix mgl64.Mat3
}

func MakeRpBallAndSocketJoint(def *RpBallAndSocketJointDef) *RpBallAndSocketJoint {
	return &RpBallAndSocketJoint{
		RpJoint:        MakeRpJoint(def),
		M_localAnchor1: def.LocalAnchor1,
		M_localAnchor2: def.LocalAnchor2,
	}
}

func (joint RpBallAndSocketJoint) GetLocalAnchor1() mgl64.Vec3 {
	return joint.M_localAnchor1
}

func (joint RpBallAndSocketJoint) GetLocalAnchor2() mgl64.Vec3 {
	return joint.M_localAnchor2
}

/// Inverse effective mass of the point constraint at anchors r1, r2.
func rpPointMassMatrix(m1, m2 float64, i1, i2 mgl64.Mat3, r1, r2 mgl64.Vec3) mgl64.Mat3 {
	skew1 := RpSkewSymmetric(r1)
	skew2 := RpSkewSymmetric(r2)

	K := mgl64.Ident3().Mul(m1 + m2).
		Add(skew1.Mul3(i1).Mul3(skew1.Transpose())).
		Add(skew2.Mul3(i2).Mul3(skew2.Transpose()))

	return RpMat3Inverse(K)
}

/// Apply a point impulse: -P on body1 at r1 and +P on body2 at r2.
func rpApplyPointImpulse(v1, w1, v2, w2 *mgl64.Vec3, m1, m2 float64, i1, i2 mgl64.Mat3, r1, r2, P mgl64.Vec3) {
	*v1 = v1.Sub(P.Mul(m1))
	*w1 = w1.Add(i1.Mul3x1(P.Cross(r1)))

	*v2 = v2.Add(P.Mul(m2))
	*w2 = w2.Sub(i2.Mul3x1(P.Cross(r2)))
}

func (joint *RpBallAndSocketJoint) InitBeforeSolve(data RpSolverData) {
	joint.initSolverBodies()

	pos1 := data.Positions[joint.M_index1]
	pos2 := data.Positions[joint.M_index2]

	joint.M_i1 = RpRotateTensor(pos1.Q, joint.M_invILocal1)
	joint.M_i2 = RpRotateTensor(pos2.Q, joint.M_invILocal2)

	joint.M_r1 = pos1.Q.Rotate(joint.M_localAnchor1.Sub(joint.M_localCenter1))
	joint.M_r2 = pos2.Q.Rotate(joint.M_localAnchor2.Sub(joint.M_localCenter2))

	joint.M_inverseMassMatrix = rpPointMassMatrix(joint.M_invMass1, joint.M_invMass2, joint.M_i1, joint.M_i2, joint.M_r1, joint.M_r2)

	joint.M_biasVector = mgl64.Vec3{}
	if joint.usesBaumgarte() {
		C := pos2.C.Add(joint.M_r2).Sub(pos1.C).Sub(joint.M_r1)
		joint.M_biasVector = C.Mul(data.Step.Beta * data.Step.Inv_dt)
	}

	if !data.Step.WarmStarting {
		joint.M_impulse = mgl64.Vec3{}
	}
}

func (joint *RpBallAndSocketJoint) Warmstart(data RpSolverData) {
	v1 := data.Velocities[joint.M_index1].V
	w1 := data.Velocities[joint.M_index1].W
	v2 := data.Velocities[joint.M_index2].V
	w2 := data.Velocities[joint.M_index2].W

	rpApplyPointImpulse(&v1, &w1, &v2, &w2, joint.M_invMass1, joint.M_invMass2, joint.M_i1, joint.M_i2, joint.M_r1, joint.M_r2, joint.M_impulse)

	data.Velocities[joint.M_index1].V = v1
	data.Velocities[joint.M_index1].W = w1
	data.Velocities[joint.M_index2].V = v2
	data.Velocities[joint.M_index2].W = w2
}

func (joint *RpBallAndSocketJoint) SolveVelocityConstraint(data RpSolverData) {
	v1 := data.Velocities[joint.M_index1].V
	w1 := data.Velocities[joint.M_index1].W
	v2 := data.Velocities[joint.M_index2].V
	w2 := data.Velocities[joint.M_index2].W

	Jv := v2.Add(w2.Cross(joint.M_r2)).Sub(v1).Sub(w1.Cross(joint.M_r1))

	deltaLambda := joint.M_inverseMassMatrix.Mul3x1(Jv.Mul(-1.0).Sub(joint.M_biasVector))
	joint.M_impulse = joint.M_impulse.Add(deltaLambda)

	rpApplyPointImpulse(&v1, &w1, &v2, &w2, joint.M_invMass1, joint.M_invMass2, joint.M_i1, joint.M_i2, joint.M_r1, joint.M_r2, deltaLambda)

	data.Velocities[joint.M_index1].V = v1
	data.Velocities[joint.M_index1].W = w1
	data.Velocities[joint.M_index2].V = v2
	data.Velocities[joint.M_index2].W = w2
}

/// Position pass of a point constraint. Returns the remaining error length.
func rpSolvePointPosition(joint *RpJoint, pos1, pos2 *RpPosition, localAnchor1, localAnchor2 mgl64.Vec3) float64 {
	i1 := RpRotateTensor(pos1.Q, joint.M_invILocal1)
	i2 := RpRotateTensor(pos2.Q, joint.M_invILocal2)

	r1 := pos1.Q.Rotate(localAnchor1.Sub(joint.M_localCenter1))
	r2 := pos2.Q.Rotate(localAnchor2.Sub(joint.M_localCenter2))

	constraintError := pos2.C.Add(r2).Sub(pos1.C).Sub(r1)

	inverseMassMatrix := rpPointMassMatrix(joint.M_invMass1, joint.M_invMass2, i1, i2, r1, r2)
	lambda := inverseMassMatrix.Mul3x1(constraintError.Mul(-1.0))

	rpApplyPositionImpulse(pos1, joint.M_invMass1, i1, lambda.Mul(-1.0), lambda.Cross(r1))
	rpApplyPositionImpulse(pos2, joint.M_invMass2, i2, lambda, lambda.Cross(r2).Mul(-1.0))

	return constraintError.Len()
}

func (joint *RpBallAndSocketJoint) SolvePositionConstraint(data RpSolverData) bool {
	if joint.usesBaumgarte() {
		return true
	}

	pos1 := data.Positions[joint.M_index1]
	pos2 := data.Positions[joint.M_index2]

	linearError := rpSolvePointPosition(joint.RpJoint, &pos1, &pos2, joint.M_localAnchor1, joint.M_localAnchor2)

	data.Positions[joint.M_index1] = pos1
	data.Positions[joint.M_index2] = pos2

	return linearError <= RP_linearSlop
}

func (joint RpBallAndSocketJoint) Dump() {
	a1 := joint.M_localAnchor1
	a2 := joint.M_localAnchor2

	fmt.Print("  jd := MakeRpBallAndSocketJointDef()\n")
	fmt.Printf("  jd.Body1 = bodies[%d]\n", joint.M_body1.M_islandIndex)
	fmt.Printf("  jd.Body2 = bodies[%d]\n", joint.M_body2.M_islandIndex)
	fmt.Printf("  jd.CollideConnected = %t\n", joint.M_collideConnected)
	fmt.Printf("  jd.LocalAnchor1 = mgl64.Vec3{%.15e, %.15e, %.15e}\n", a1[0], a1[1], a1[2])
	fmt.Printf("  jd.LocalAnchor2 = mgl64.Vec3{%.15e, %.15e, %.15e}\n", a2[0], a2[1], a2[2])
	fmt.Printf("  joints[%d], _ = world.CreateJoint(&jd)\n", joint.M_index)
}
