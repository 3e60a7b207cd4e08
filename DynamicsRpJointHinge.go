package realphysics4d

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// Hinge joint definition. The bodies share an anchor point and rotate
/// relative to each other about one world axis.
type RpHingeJointDef struct {
	RpJointDef

	LocalAnchor1 mgl64.Vec3
	LocalAnchor2 mgl64.Vec3

	/// The hinge axis in the body1 frame.
	LocalAxis1 mgl64.Vec3

	/// The hinge axis in the body2 frame.
	LocalAxis2 mgl64.Vec3

	/// Relative orientation of the bodies at creation (q2 * q1^-1).
	ReferenceOrientation mgl64.Quat

	EnableLimit bool
	EnableMotor bool

	/// The lower angle limit, in radians.
	MinAngleLimit float64

	/// The upper angle limit, in radians.
	MaxAngleLimit float64

	/// The desired motor speed, in radians per second.
	MotorSpeed float64

	/// The maximum motor torque, usually in N-m.
	MaxMotorTorque float64
}

func MakeRpHingeJointDef() RpHingeJointDef {
	res := RpHingeJointDef{
		RpJointDef: MakeRpJointDef(),
	}

	res.Type = RpJointType.E_hingeJoint
	res.LocalAxis1 = mgl64.Vec3{0, 0, 1}
	res.LocalAxis2 = mgl64.Vec3{0, 0, 1}
	res.ReferenceOrientation = mgl64.QuatIdent()
	res.MinAngleLimit = -RP_pi
	res.MaxAngleLimit = RP_pi

	return res
}

/// Initialize the bodies, anchors, axes, and reference orientation using a
/// world anchor point and a world hinge axis.
func (def *RpHingeJointDef) Initialize(body1 *RpBody, body2 *RpBody, anchor mgl64.Vec3, axis mgl64.Vec3) {
	RpAssert(axis.Len() > 0.0)

	def.Body1 = body1
	def.Body2 = body2
	def.LocalAnchor1 = body1.GetLocalPoint(anchor)
	def.LocalAnchor2 = body2.GetLocalPoint(anchor)
	def.LocalAxis1 = body1.GetLocalVector(axis.Normalize())
	def.LocalAxis2 = body2.GetLocalVector(axis.Normalize())
	def.ReferenceOrientation = body2.GetOrientation().Mul(body1.GetOrientation().Inverse()).Normalize()
}

func (def RpHingeJointDef) Validate() error {
	if err := def.RpJointDef.Validate(); err != nil {
		return err
	}

	if def.LocalAxis1.Len() == 0.0 || def.LocalAxis2.Len() == 0.0 {
		return fmt.Errorf("hinge axis has zero length: %w", ErrRpInvalidLimits)
	}

	if def.MinAngleLimit > def.MaxAngleLimit {
		return fmt.Errorf("hinge min angle %g above max %g: %w",
			def.MinAngleLimit, def.MaxAngleLimit, ErrRpInvalidLimits)
	}

	if def.MinAngleLimit < -2.0*RP_pi || def.MaxAngleLimit > 2.0*RP_pi {
		return fmt.Errorf("hinge angle limits [%g, %g] outside one turn: %w",
			def.MinAngleLimit, def.MaxAngleLimit, ErrRpInvalidLimits)
	}

	if def.MaxMotorTorque < 0.0 {
		return fmt.Errorf("hinge max motor torque %g is negative: %w", def.MaxMotorTorque, ErrRpInvalidLimits)
	}

	return nil
}

// Point constraint: see the ball and socket joint.
//
// Rotation constraint: keep a1 aligned with a2.
// C = [dot(a1, b2), dot(a1, c2)]
// Cdot = [dot(w2 - w1, cross(b2, a1)), dot(w2 - w1, cross(c2, a1))]
//
// Limits and motor act on the relative angle about a1.
// Cdot = dot(w2 - w1, a1)

/// A hinge joint allows only a relative rotation about one axis. The angle can
/// be bounded by limits and driven by a motor.
type RpHingeJoint struct {
	*RpJoint

	M_localAnchor1 mgl64.Vec3
	M_localAnchor2 mgl64.Vec3

	M_hingeLocalAxis1 mgl64.Vec3
	M_hingeLocalAxis2 mgl64.Vec3

	M_initOrientationDifferenceInv mgl64.Quat

	M_isLimitEnabled bool
	M_isMotorEnabled bool

	M_lowerLimit float64
	M_upperLimit float64

	M_motorSpeed     float64
	M_maxMotorTorque float64

	// Solver shared
	M_impulseTranslation mgl64.Vec3
	M_impulseRotation    mgl64.Vec2
	M_impulseLowerLimit  float64
	M_impulseUpperLimit  float64
	M_impulseMotor       float64

	// Solver temp
	M_r1        mgl64.Vec3
	M_r2        mgl64.Vec3
	M_i1        mgl64.Mat3
	M_i2        mgl64.Mat3
	M_a1        mgl64.Vec3
	M_b2CrossA1 mgl64.Vec3
	M_c2CrossA1 mgl64.Vec3

	M_bTranslation mgl64.Vec3
	M_bRotation    mgl64.Vec2
	M_bLowerLimit  float64
	M_bUpperLimit  float64

	M_inverseMassMatrixTranslation mgl64.Mat3
	M_inverseMassMatrixRotation    mgl64.Mat2
	M_inverseMassMatrixLimitMotor  float64

	M_isLowerLimitViolated bool
	M_isUpperLimitViolated bool
}

func MakeRpHingeJoint(def *RpHingeJointDef) *RpHingeJoint {
	RpAssert(def.MinAngleLimit <= def.MaxAngleLimit)
	RpAssert(def.MaxMotorTorque >= 0.0)

	res := RpHingeJoint{
		RpJoint: MakeRpJoint(def),
	}

	res.M_localAnchor1 = def.LocalAnchor1
	res.M_localAnchor2 = def.LocalAnchor2
	res.M_hingeLocalAxis1 = def.LocalAxis1.Normalize()
	res.M_hingeLocalAxis2 = def.LocalAxis2.Normalize()
	res.M_initOrientationDifferenceInv = def.ReferenceOrientation.Normalize().Inverse()

	res.M_isLimitEnabled = def.EnableLimit
	res.M_isMotorEnabled = def.EnableMotor
	res.M_lowerLimit = def.MinAngleLimit
	res.M_upperLimit = def.MaxAngleLimit
	res.M_motorSpeed = def.MotorSpeed
	res.M_maxMotorTorque = def.MaxMotorTorque

	return &res
}

func (joint RpHingeJoint) GetLocalAnchor1() mgl64.Vec3 {
	return joint.M_localAnchor1
}

func (joint RpHingeJoint) GetLocalAnchor2() mgl64.Vec3 {
	return joint.M_localAnchor2
}

func (joint RpHingeJoint) IsLimitEnabled() bool {
	return joint.M_isLimitEnabled
}

func (joint RpHingeJoint) IsMotorEnabled() bool {
	return joint.M_isMotorEnabled
}

func (joint *RpHingeJoint) EnableLimit(flag bool) {
	if flag != joint.M_isLimitEnabled {
		joint.M_isLimitEnabled = flag
		joint.resetLimits()
	}
}

func (joint *RpHingeJoint) EnableMotor(flag bool) {
	if flag != joint.M_isMotorEnabled {
		joint.M_isMotorEnabled = flag
		joint.M_impulseMotor = 0.0
		joint.M_body1.SetAwake(true)
		joint.M_body2.SetAwake(true)
	}
}

func (joint RpHingeJoint) GetMinAngleLimit() float64 {
	return joint.M_lowerLimit
}

func (joint *RpHingeJoint) SetMinAngleLimit(lowerLimit float64) {
	RpAssert(lowerLimit <= joint.M_upperLimit)

	if lowerLimit != joint.M_lowerLimit {
		joint.M_lowerLimit = lowerLimit
		joint.resetLimits()
	}
}

func (joint RpHingeJoint) GetMaxAngleLimit() float64 {
	return joint.M_upperLimit
}

func (joint *RpHingeJoint) SetMaxAngleLimit(upperLimit float64) {
	RpAssert(joint.M_lowerLimit <= upperLimit)

	if upperLimit != joint.M_upperLimit {
		joint.M_upperLimit = upperLimit
		joint.resetLimits()
	}
}

func (joint RpHingeJoint) GetMotorSpeed() float64 {
	return joint.M_motorSpeed
}

func (joint *RpHingeJoint) SetMotorSpeed(motorSpeed float64) {
	if motorSpeed != joint.M_motorSpeed {
		joint.M_motorSpeed = motorSpeed
		joint.M_body1.SetAwake(true)
		joint.M_body2.SetAwake(true)
	}
}

func (joint RpHingeJoint) GetMaxMotorTorque() float64 {
	return joint.M_maxMotorTorque
}

func (joint *RpHingeJoint) SetMaxMotorTorque(maxMotorTorque float64) {
	RpAssert(maxMotorTorque >= 0.0)

	if maxMotorTorque != joint.M_maxMotorTorque {
		joint.M_maxMotorTorque = maxMotorTorque
		joint.M_body1.SetAwake(true)
		joint.M_body2.SetAwake(true)
	}
}

func (joint RpHingeJoint) GetMotorTorque(timeStep float64) float64 {
	RpAssert(timeStep > 0.0)
	return joint.M_impulseMotor / timeStep
}

/// Current relative angle of the bodies about the hinge axis.
func (joint RpHingeJoint) GetAngle() float64 {
	q1 := joint.M_body1.GetOrientation()
	q2 := joint.M_body2.GetOrientation()
	return joint.computeAngle(q1, q2, q1.Rotate(joint.M_hingeLocalAxis1))
}

func (joint *RpHingeJoint) resetLimits() {
	joint.M_impulseLowerLimit = 0.0
	joint.M_impulseUpperLimit = 0.0
	joint.M_body1.SetAwake(true)
	joint.M_body2.SetAwake(true)
}

/// Angle in (-pi, pi] of the rotation that took the bodies away from their
/// reference orientation, measured about the world axis a1.
func (joint RpHingeJoint) computeAngle(q1, q2 mgl64.Quat, a1 mgl64.Vec3) float64 {
	q := q2.Mul(q1.Inverse()).Mul(joint.M_initOrientationDifferenceInv)
	if q.W < 0.0 {
		q = q.Scale(-1.0)
	}

	return 2.0 * math.Atan2(q.V.Dot(a1), q.W)
}

/// Compute the world axes at the given orientations. It fills a1 and the
/// cross products of the two rotation rows.
func (joint *RpHingeJoint) computeAxes(q1, q2 mgl64.Quat) (mgl64.Vec3, mgl64.Vec3) {
	joint.M_a1 = q1.Rotate(joint.M_hingeLocalAxis1).Normalize()
	a2 := q2.Rotate(joint.M_hingeLocalAxis2).Normalize()

	b2 := RpOneUnitOrthogonalVector(a2)
	c2 := a2.Cross(b2)

	joint.M_b2CrossA1 = b2.Cross(joint.M_a1)
	joint.M_c2CrossA1 = c2.Cross(joint.M_a1)

	return b2, c2
}

func (joint *RpHingeJoint) computeRotationMassMatrix() {
	I := joint.M_i1.Add(joint.M_i2)

	el11 := joint.M_b2CrossA1.Dot(I.Mul3x1(joint.M_b2CrossA1))
	el12 := joint.M_b2CrossA1.Dot(I.Mul3x1(joint.M_c2CrossA1))
	el21 := joint.M_c2CrossA1.Dot(I.Mul3x1(joint.M_b2CrossA1))
	el22 := joint.M_c2CrossA1.Dot(I.Mul3x1(joint.M_c2CrossA1))

	// Column major.
	joint.M_inverseMassMatrixRotation = RpMat2Inverse(mgl64.Mat2{el11, el21, el12, el22})
}

func (joint *RpHingeJoint) computeLimitMotorMassMatrix() {
	joint.M_inverseMassMatrixLimitMotor = 0.0
	if k := joint.M_a1.Dot(joint.M_i1.Add(joint.M_i2).Mul3x1(joint.M_a1)); k > 0.0 {
		joint.M_inverseMassMatrixLimitMotor = 1.0 / k
	}
}

func (joint *RpHingeJoint) InitBeforeSolve(data RpSolverData) {
	joint.initSolverBodies()

	pos1 := data.Positions[joint.M_index1]
	pos2 := data.Positions[joint.M_index2]

	joint.M_i1 = RpRotateTensor(pos1.Q, joint.M_invILocal1)
	joint.M_i2 = RpRotateTensor(pos2.Q, joint.M_invILocal2)

	joint.M_r1 = pos1.Q.Rotate(joint.M_localAnchor1.Sub(joint.M_localCenter1))
	joint.M_r2 = pos2.Q.Rotate(joint.M_localAnchor2.Sub(joint.M_localCenter2))

	b2, c2 := joint.computeAxes(pos1.Q, pos2.Q)

	// Limit violations.
	angle := joint.computeAngle(pos1.Q, pos2.Q, joint.M_a1)
	lowerLimitError := angle - joint.M_lowerLimit
	upperLimitError := joint.M_upperLimit - angle

	oldIsLowerLimitViolated := joint.M_isLowerLimitViolated
	joint.M_isLowerLimitViolated = lowerLimitError <= 0.0
	if joint.M_isLowerLimitViolated != oldIsLowerLimitViolated {
		joint.M_impulseLowerLimit = 0.0
	}

	oldIsUpperLimitViolated := joint.M_isUpperLimitViolated
	joint.M_isUpperLimitViolated = upperLimitError <= 0.0
	if joint.M_isUpperLimitViolated != oldIsUpperLimitViolated {
		joint.M_impulseUpperLimit = 0.0
	}

	// Point constraint (3x3).
	joint.M_inverseMassMatrixTranslation = rpPointMassMatrix(joint.M_invMass1, joint.M_invMass2, joint.M_i1, joint.M_i2, joint.M_r1, joint.M_r2)

	// Rotation constraints (2x2).
	joint.computeRotationMassMatrix()

	biasFactor := data.Step.Beta * data.Step.Inv_dt

	joint.M_bTranslation = mgl64.Vec3{}
	joint.M_bRotation = mgl64.Vec2{}
	joint.M_bLowerLimit = 0.0
	joint.M_bUpperLimit = 0.0
	if joint.usesBaumgarte() {
		C := pos2.C.Add(joint.M_r2).Sub(pos1.C).Sub(joint.M_r1)
		joint.M_bTranslation = C.Mul(biasFactor)
		joint.M_bRotation = mgl64.Vec2{joint.M_a1.Dot(b2), joint.M_a1.Dot(c2)}.Mul(biasFactor)
		joint.M_bLowerLimit = biasFactor * lowerLimitError
		joint.M_bUpperLimit = biasFactor * upperLimitError
	}

	// Limit and motor constraints (1x1).
	if joint.M_isMotorEnabled || (joint.M_isLimitEnabled && (joint.M_isLowerLimitViolated || joint.M_isUpperLimitViolated)) {
		joint.computeLimitMotorMassMatrix()
	}

	if !joint.M_isLimitEnabled {
		joint.M_impulseLowerLimit = 0.0
		joint.M_impulseUpperLimit = 0.0
	}

	if !joint.M_isMotorEnabled {
		joint.M_impulseMotor = 0.0
	}

	if !data.Step.WarmStarting {
		joint.M_impulseTranslation = mgl64.Vec3{}
		joint.M_impulseRotation = mgl64.Vec2{}
		joint.M_impulseLowerLimit = 0.0
		joint.M_impulseUpperLimit = 0.0
		joint.M_impulseMotor = 0.0
	}
}

/// Angular impulse on body1 of the two rotation rows. Body2 gets the opposite.
func (joint *RpHingeJoint) rotationImpulseBody1(lambda mgl64.Vec2) mgl64.Vec3 {
	return joint.M_b2CrossA1.Mul(-lambda[0]).Sub(joint.M_c2CrossA1.Mul(lambda[1]))
}

func (joint *RpHingeJoint) Warmstart(data RpSolverData) {
	v1 := data.Velocities[joint.M_index1].V
	w1 := data.Velocities[joint.M_index1].W
	v2 := data.Velocities[joint.M_index2].V
	w2 := data.Velocities[joint.M_index2].W

	rpApplyPointImpulse(&v1, &w1, &v2, &w2, joint.M_invMass1, joint.M_invMass2, joint.M_i1, joint.M_i2, joint.M_r1, joint.M_r2, joint.M_impulseTranslation)

	angularImpulseBody1 := joint.rotationImpulseBody1(joint.M_impulseRotation)

	// Limits and motor along a1.
	angularImpulseBody1 = angularImpulseBody1.Add(joint.M_a1.Mul(joint.M_impulseMotor - joint.M_impulseLowerLimit + joint.M_impulseUpperLimit))

	w1 = w1.Add(joint.M_i1.Mul3x1(angularImpulseBody1))
	w2 = w2.Sub(joint.M_i2.Mul3x1(angularImpulseBody1))

	data.Velocities[joint.M_index1].V = v1
	data.Velocities[joint.M_index1].W = w1
	data.Velocities[joint.M_index2].V = v2
	data.Velocities[joint.M_index2].W = w2
}

func (joint *RpHingeJoint) SolveVelocityConstraint(data RpSolverData) {
	v1 := data.Velocities[joint.M_index1].V
	w1 := data.Velocities[joint.M_index1].W
	v2 := data.Velocities[joint.M_index2].V
	w2 := data.Velocities[joint.M_index2].W

	I1 := joint.M_i1
	I2 := joint.M_i2
	a1 := joint.M_a1

	// Point constraint
	JvTranslation := v2.Add(w2.Cross(joint.M_r2)).Sub(v1).Sub(w1.Cross(joint.M_r1))

	deltaLambdaTranslation := joint.M_inverseMassMatrixTranslation.Mul3x1(JvTranslation.Mul(-1.0).Sub(joint.M_bTranslation))
	joint.M_impulseTranslation = joint.M_impulseTranslation.Add(deltaLambdaTranslation)

	rpApplyPointImpulse(&v1, &w1, &v2, &w2, joint.M_invMass1, joint.M_invMass2, I1, I2, joint.M_r1, joint.M_r2, deltaLambdaTranslation)

	// Rotation constraints
	dw := w2.Sub(w1)
	JvRotation := mgl64.Vec2{joint.M_b2CrossA1.Dot(dw), joint.M_c2CrossA1.Dot(dw)}

	deltaLambdaRotation := joint.M_inverseMassMatrixRotation.Mul2x1(JvRotation.Mul(-1.0).Sub(joint.M_bRotation))
	joint.M_impulseRotation = joint.M_impulseRotation.Add(deltaLambdaRotation)

	angularImpulseBody1 := joint.rotationImpulseBody1(deltaLambdaRotation)
	w1 = w1.Add(I1.Mul3x1(angularImpulseBody1))
	w2 = w2.Sub(I2.Mul3x1(angularImpulseBody1))

	// Limit constraints
	if joint.M_isLimitEnabled {
		if joint.M_isLowerLimitViolated {
			JvLowerLimit := w2.Sub(w1).Dot(a1)

			deltaLambdaLower := joint.M_inverseMassMatrixLimitMotor * (-JvLowerLimit - joint.M_bLowerLimit)
			lambdaTemp := joint.M_impulseLowerLimit
			joint.M_impulseLowerLimit = math.Max(joint.M_impulseLowerLimit+deltaLambdaLower, 0.0)
			deltaLambdaLower = joint.M_impulseLowerLimit - lambdaTemp

			w1 = w1.Sub(I1.Mul3x1(a1.Mul(deltaLambdaLower)))
			w2 = w2.Add(I2.Mul3x1(a1.Mul(deltaLambdaLower)))
		}

		if joint.M_isUpperLimitViolated {
			JvUpperLimit := w1.Sub(w2).Dot(a1)

			deltaLambdaUpper := joint.M_inverseMassMatrixLimitMotor * (-JvUpperLimit - joint.M_bUpperLimit)
			lambdaTemp := joint.M_impulseUpperLimit
			joint.M_impulseUpperLimit = math.Max(joint.M_impulseUpperLimit+deltaLambdaUpper, 0.0)
			deltaLambdaUpper = joint.M_impulseUpperLimit - lambdaTemp

			w1 = w1.Add(I1.Mul3x1(a1.Mul(deltaLambdaUpper)))
			w2 = w2.Sub(I2.Mul3x1(a1.Mul(deltaLambdaUpper)))
		}
	}

	// Motor
	if joint.M_isMotorEnabled {
		JvMotor := a1.Dot(w1.Sub(w2))

		deltaLambdaMotor := joint.M_inverseMassMatrixLimitMotor * (-JvMotor - joint.M_motorSpeed)
		lambdaTemp := joint.M_impulseMotor
		maxMotorImpulse := joint.M_maxMotorTorque * data.Step.Dt
		joint.M_impulseMotor = RpFloatClamp(joint.M_impulseMotor+deltaLambdaMotor, -maxMotorImpulse, maxMotorImpulse)
		deltaLambdaMotor = joint.M_impulseMotor - lambdaTemp

		w1 = w1.Add(I1.Mul3x1(a1.Mul(deltaLambdaMotor)))
		w2 = w2.Sub(I2.Mul3x1(a1.Mul(deltaLambdaMotor)))
	}

	data.Velocities[joint.M_index1].V = v1
	data.Velocities[joint.M_index1].W = w1
	data.Velocities[joint.M_index2].V = v2
	data.Velocities[joint.M_index2].W = w2
}

func (joint *RpHingeJoint) SolvePositionConstraint(data RpSolverData) bool {
	if joint.usesBaumgarte() {
		return true
	}

	pos1 := data.Positions[joint.M_index1]
	pos2 := data.Positions[joint.M_index2]

	// Point constraint
	linearError := rpSolvePointPosition(joint.RpJoint, &pos1, &pos2, joint.M_localAnchor1, joint.M_localAnchor2)

	// Rotation constraints
	joint.M_i1 = RpRotateTensor(pos1.Q, joint.M_invILocal1)
	joint.M_i2 = RpRotateTensor(pos2.Q, joint.M_invILocal2)
	b2, c2 := joint.computeAxes(pos1.Q, pos2.Q)
	joint.computeRotationMassMatrix()

	errorRotation := mgl64.Vec2{joint.M_a1.Dot(b2), joint.M_a1.Dot(c2)}
	angularError := errorRotation.Len()

	lambdaRotation := joint.M_inverseMassMatrixRotation.Mul2x1(errorRotation.Mul(-1.0))
	angularImpulseBody1 := joint.rotationImpulseBody1(lambdaRotation)

	rpApplyPositionImpulse(&pos1, joint.M_invMass1, joint.M_i1, mgl64.Vec3{}, angularImpulseBody1)
	rpApplyPositionImpulse(&pos2, joint.M_invMass2, joint.M_i2, mgl64.Vec3{}, angularImpulseBody1.Mul(-1.0))

	// Limit constraints
	if joint.M_isLimitEnabled {
		joint.M_i1 = RpRotateTensor(pos1.Q, joint.M_invILocal1)
		joint.M_i2 = RpRotateTensor(pos2.Q, joint.M_invILocal2)
		joint.computeAxes(pos1.Q, pos2.Q)

		angle := joint.computeAngle(pos1.Q, pos2.Q, joint.M_a1)
		lowerLimitError := angle - joint.M_lowerLimit
		upperLimitError := joint.M_upperLimit - angle

		joint.M_isLowerLimitViolated = lowerLimitError <= 0.0
		joint.M_isUpperLimitViolated = upperLimitError <= 0.0

		if joint.M_isLowerLimitViolated || joint.M_isUpperLimitViolated {
			joint.computeLimitMotorMassMatrix()
		}

		a1 := joint.M_a1

		if joint.M_isLowerLimitViolated {
			angularError = math.Max(angularError, -lowerLimitError)
			lambdaLowerLimit := joint.M_inverseMassMatrixLimitMotor * (-lowerLimitError)

			rpApplyPositionImpulse(&pos1, joint.M_invMass1, joint.M_i1, mgl64.Vec3{}, a1.Mul(-lambdaLowerLimit))
			rpApplyPositionImpulse(&pos2, joint.M_invMass2, joint.M_i2, mgl64.Vec3{}, a1.Mul(lambdaLowerLimit))
		}

		if joint.M_isUpperLimitViolated {
			angularError = math.Max(angularError, -upperLimitError)
			lambdaUpperLimit := joint.M_inverseMassMatrixLimitMotor * (-upperLimitError)

			rpApplyPositionImpulse(&pos1, joint.M_invMass1, joint.M_i1, mgl64.Vec3{}, a1.Mul(lambdaUpperLimit))
			rpApplyPositionImpulse(&pos2, joint.M_invMass2, joint.M_i2, mgl64.Vec3{}, a1.Mul(-lambdaUpperLimit))
		}
	}

	data.Positions[joint.M_index1] = pos1
	data.Positions[joint.M_index2] = pos2

	return linearError <= RP_linearSlop && angularError <= RP_angularSlop
}

func (joint RpHingeJoint) Dump() {
	a1 := joint.M_localAnchor1
	a2 := joint.M_localAnchor2
	x1 := joint.M_hingeLocalAxis1
	x2 := joint.M_hingeLocalAxis2
	q := joint.M_initOrientationDifferenceInv.Inverse()

	fmt.Print("  jd := MakeRpHingeJointDef()\n")
	fmt.Printf("  jd.Body1 = bodies[%d]\n", joint.M_body1.M_islandIndex)
	fmt.Printf("  jd.Body2 = bodies[%d]\n", joint.M_body2.M_islandIndex)
	fmt.Printf("  jd.CollideConnected = %t\n", joint.M_collideConnected)
	fmt.Printf("  jd.LocalAnchor1 = mgl64.Vec3{%.15e, %.15e, %.15e}\n", a1[0], a1[1], a1[2])
	fmt.Printf("  jd.LocalAnchor2 = mgl64.Vec3{%.15e, %.15e, %.15e}\n", a2[0], a2[1], a2[2])
	fmt.Printf("  jd.LocalAxis1 = mgl64.Vec3{%.15e, %.15e, %.15e}\n", x1[0], x1[1], x1[2])
	fmt.Printf("  jd.LocalAxis2 = mgl64.Vec3{%.15e, %.15e, %.15e}\n", x2[0], x2[1], x2[2])
	fmt.Printf("  jd.ReferenceOrientation = mgl64.Quat{W: %.15e, V: mgl64.Vec3{%.15e, %.15e, %.15e}}\n", q.W, q.V[0], q.V[1], q.V[2])
	fmt.Printf("  jd.EnableLimit = %t\n", joint.M_isLimitEnabled)
	fmt.Printf("  jd.MinAngleLimit = %.15e\n", joint.M_lowerLimit)
	fmt.Printf("  jd.MaxAngleLimit = %.15e\n", joint.M_upperLimit)
	fmt.Printf("  jd.EnableMotor = %t\n", joint.M_isMotorEnabled)
	fmt.Printf("  jd.MotorSpeed = %.15e\n", joint.M_motorSpeed)
	fmt.Printf("  jd.MaxMotorTorque = %.15e\n", joint.M_maxMotorTorque)
	fmt.Printf("  joints[%d], _ = world.CreateJoint(&jd)\n", joint.M_index)
}
