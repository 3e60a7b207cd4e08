package realphysics4d

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

/// Fixed joint definition. The bodies are welded at a world anchor point in
/// their initial relative orientation.
type RpFixedJointDef struct {
	RpJointDef

	LocalAnchor1 mgl64.Vec3
	LocalAnchor2 mgl64.Vec3

	/// Relative orientation of the bodies at creation (q2 * q1^-1).
	ReferenceOrientation mgl64.Quat
}

func MakeRpFixedJointDef() RpFixedJointDef {
	res := RpFixedJointDef{
		RpJointDef: MakeRpJointDef(),
	}

	res.Type = RpJointType.E_fixedJoint
	res.ReferenceOrientation = mgl64.QuatIdent()

	return res
}

func (def *RpFixedJointDef) Initialize(body1 *RpBody, body2 *RpBody, anchor mgl64.Vec3) {
	def.Body1 = body1
	def.Body2 = body2
	def.LocalAnchor1 = body1.GetLocalPoint(anchor)
	def.LocalAnchor2 = body2.GetLocalPoint(anchor)
	def.ReferenceOrientation = body2.GetOrientation().Mul(body1.GetOrientation().Inverse()).Normalize()
}

/// A fixed joint removes all six relative degrees of freedom.
type RpFixedJoint struct {
	*RpJoint

	M_localAnchor1 mgl64.Vec3
	M_localAnchor2 mgl64.Vec3

	M_initOrientationDifferenceInv mgl64.Quat

	// Solver shared
	M_impulseTranslation mgl64.Vec3
	M_impulseRotation    mgl64.Vec3

	// Solver temp
	M_r1                           mgl64.Vec3
	M_r2                           mgl64.Vec3
	M_i1                           mgl64.Mat3
	M_i2                           mgl64.Mat3
	M_inverseMassMatrixTranslation mgl64.Mat3
	M_inverseMassMatrixRotation    mgl64.Mat3
	M_biasTranslation              mgl64.Vec3
	M_biasRotation                 mgl64.Vec3
}

func MakeRpFixedJoint(def *RpFixedJointDef) *RpFixedJoint {
	return &RpFixedJoint{
		RpJoint:                        MakeRpJoint(def),
		M_localAnchor1:                 def.LocalAnchor1,
		M_localAnchor2:                 def.LocalAnchor2,
		M_initOrientationDifferenceInv: def.ReferenceOrientation.Normalize().Inverse(),
	}
}

func (joint RpFixedJoint) GetLocalAnchor1() mgl64.Vec3 {
	return joint.M_localAnchor1
}

func (joint RpFixedJoint) GetLocalAnchor2() mgl64.Vec3 {
	return joint.M_localAnchor2
}

func (joint *RpFixedJoint) rotationError(q1, q2 mgl64.Quat) mgl64.Vec3 {
	return rpRotationError(q1, q2, joint.M_initOrientationDifferenceInv)
}

func (joint *RpFixedJoint) InitBeforeSolve(data RpSolverData) {
	joint.initSolverBodies()

	pos1 := data.Positions[joint.M_index1]
	pos2 := data.Positions[joint.M_index2]

	joint.M_i1 = RpRotateTensor(pos1.Q, joint.M_invILocal1)
	joint.M_i2 = RpRotateTensor(pos2.Q, joint.M_invILocal2)

	joint.M_r1 = pos1.Q.Rotate(joint.M_localAnchor1.Sub(joint.M_localCenter1))
	joint.M_r2 = pos2.Q.Rotate(joint.M_localAnchor2.Sub(joint.M_localCenter2))

	joint.M_inverseMassMatrixTranslation = rpPointMassMatrix(joint.M_invMass1, joint.M_invMass2, joint.M_i1, joint.M_i2, joint.M_r1, joint.M_r2)
	joint.M_inverseMassMatrixRotation = RpMat3Inverse(joint.M_i1.Add(joint.M_i2))

	joint.M_biasTranslation = mgl64.Vec3{}
	joint.M_biasRotation = mgl64.Vec3{}
	if joint.usesBaumgarte() {
		biasFactor := data.Step.Beta * data.Step.Inv_dt
		C := pos2.C.Add(joint.M_r2).Sub(pos1.C).Sub(joint.M_r1)
		joint.M_biasTranslation = C.Mul(biasFactor)
		joint.M_biasRotation = joint.rotationError(pos1.Q, pos2.Q).Mul(biasFactor)
	}

	if !data.Step.WarmStarting {
		joint.M_impulseTranslation = mgl64.Vec3{}
		joint.M_impulseRotation = mgl64.Vec3{}
	}
}

func (joint *RpFixedJoint) Warmstart(data RpSolverData) {
	v1 := data.Velocities[joint.M_index1].V
	w1 := data.Velocities[joint.M_index1].W
	v2 := data.Velocities[joint.M_index2].V
	w2 := data.Velocities[joint.M_index2].W

	rpApplyPointImpulse(&v1, &w1, &v2, &w2, joint.M_invMass1, joint.M_invMass2, joint.M_i1, joint.M_i2, joint.M_r1, joint.M_r2, joint.M_impulseTranslation)

	w1 = w1.Sub(joint.M_i1.Mul3x1(joint.M_impulseRotation))
	w2 = w2.Add(joint.M_i2.Mul3x1(joint.M_impulseRotation))

	data.Velocities[joint.M_index1].V = v1
	data.Velocities[joint.M_index1].W = w1
	data.Velocities[joint.M_index2].V = v2
	data.Velocities[joint.M_index2].W = w2
}

func (joint *RpFixedJoint) SolveVelocityConstraint(data RpSolverData) {
	v1 := data.Velocities[joint.M_index1].V
	w1 := data.Velocities[joint.M_index1].W
	v2 := data.Velocities[joint.M_index2].V
	w2 := data.Velocities[joint.M_index2].W

	// Translation constraints
	JvTranslation := v2.Add(w2.Cross(joint.M_r2)).Sub(v1).Sub(w1.Cross(joint.M_r1))

	deltaLambda := joint.M_inverseMassMatrixTranslation.Mul3x1(JvTranslation.Mul(-1.0).Sub(joint.M_biasTranslation))
	joint.M_impulseTranslation = joint.M_impulseTranslation.Add(deltaLambda)

	rpApplyPointImpulse(&v1, &w1, &v2, &w2, joint.M_invMass1, joint.M_invMass2, joint.M_i1, joint.M_i2, joint.M_r1, joint.M_r2, deltaLambda)

	// Rotation constraints
	JvRotation := w2.Sub(w1)

	deltaLambda2 := joint.M_inverseMassMatrixRotation.Mul3x1(JvRotation.Mul(-1.0).Sub(joint.M_biasRotation))
	joint.M_impulseRotation = joint.M_impulseRotation.Add(deltaLambda2)

	w1 = w1.Sub(joint.M_i1.Mul3x1(deltaLambda2))
	w2 = w2.Add(joint.M_i2.Mul3x1(deltaLambda2))

	data.Velocities[joint.M_index1].V = v1
	data.Velocities[joint.M_index1].W = w1
	data.Velocities[joint.M_index2].V = v2
	data.Velocities[joint.M_index2].W = w2
}

func (joint *RpFixedJoint) SolvePositionConstraint(data RpSolverData) bool {
	if joint.usesBaumgarte() {
		return true
	}

	pos1 := data.Positions[joint.M_index1]
	pos2 := data.Positions[joint.M_index2]

	linearError := rpSolvePointPosition(joint.RpJoint, &pos1, &pos2, joint.M_localAnchor1, joint.M_localAnchor2)

	i1 := RpRotateTensor(pos1.Q, joint.M_invILocal1)
	i2 := RpRotateTensor(pos2.Q, joint.M_invILocal2)

	errorRotation := joint.rotationError(pos1.Q, pos2.Q)
	angularError := errorRotation.Len()

	lambdaRotation := RpMat3Inverse(i1.Add(i2)).Mul3x1(errorRotation.Mul(-1.0))

	rpApplyPositionImpulse(&pos1, joint.M_invMass1, i1, mgl64.Vec3{}, lambdaRotation.Mul(-1.0))
	rpApplyPositionImpulse(&pos2, joint.M_invMass2, i2, mgl64.Vec3{}, lambdaRotation)

	data.Positions[joint.M_index1] = pos1
	data.Positions[joint.M_index2] = pos2

	return linearError <= RP_linearSlop && angularError <= RP_angularSlop
}

func (joint RpFixedJoint) Dump() {
	a1 := joint.M_localAnchor1
	a2 := joint.M_localAnchor2
	q := joint.M_initOrientationDifferenceInv.Inverse()

	fmt.Print("  jd := MakeRpFixedJointDef()\n")
	fmt.Printf("  jd.Body1 = bodies[%d]\n", joint.M_body1.M_islandIndex)
	fmt.Printf("  jd.Body2 = bodies[%d]\n", joint.M_body2.M_islandIndex)
	fmt.Printf("  jd.CollideConnected = %t\n", joint.M_collideConnected)
	fmt.Printf("  jd.LocalAnchor1 = mgl64.Vec3{%.15e, %.15e, %.15e}\n", a1[0], a1[1], a1[2])
	fmt.Printf("  jd.LocalAnchor2 = mgl64.Vec3{%.15e, %.15e, %.15e}\n", a2[0], a2[1], a2[2])
	fmt.Printf("  jd.ReferenceOrientation = mgl64.Quat{W: %.15e, V: mgl64.Vec3{%.15e, %.15e, %.15e}}\n", q.W, q.V[0], q.V[1], q.V[2])
	fmt.Printf("  joints[%d], _ = world.CreateJoint(&jd)\n", joint.M_index)
}
