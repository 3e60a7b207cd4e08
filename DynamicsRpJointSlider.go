package realphysics4d

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// Slider joint definition. The joint is built from a world anchor point and
/// a world sliding axis, both taken in the initial configuration.
type RpSliderJointDef struct {
	RpJointDef

	/// The local anchor point relative to body1's origin.
	LocalAnchor1 mgl64.Vec3

	/// The local anchor point relative to body2's origin.
	LocalAnchor2 mgl64.Vec3

	/// The sliding axis in the body1 frame.
	LocalAxis1 mgl64.Vec3

	/// Relative orientation of the bodies at creation (q2 * q1^-1).
	ReferenceOrientation mgl64.Quat

	/// Enable/disable the translation limits.
	EnableLimit bool

	/// Enable/disable the motor.
	EnableMotor bool

	/// The lower translation limit, usually in meters.
	MinTranslationLimit float64

	/// The upper translation limit, usually in meters.
	MaxTranslationLimit float64

	/// The desired motor speed along the axis, in meters per second.
	MotorSpeed float64

	/// The maximum motor force, usually in N.
	MaxMotorForce float64
}

func MakeRpSliderJointDef() RpSliderJointDef {
	res := RpSliderJointDef{
		RpJointDef: MakeRpJointDef(),
	}

	res.Type = RpJointType.E_sliderJoint
	res.LocalAxis1 = mgl64.Vec3{1, 0, 0}
	res.ReferenceOrientation = mgl64.QuatIdent()
	res.EnableLimit = false
	res.EnableMotor = false
	res.MinTranslationLimit = -1.0
	res.MaxTranslationLimit = 1.0
	res.MotorSpeed = 0.0
	res.MaxMotorForce = 0.0

	return res
}

/// Initialize the bodies, anchors, axis, and reference orientation using a
/// world anchor point and a world sliding axis.
func (def *RpSliderJointDef) Initialize(body1 *RpBody, body2 *RpBody, anchor mgl64.Vec3, axis mgl64.Vec3) {
	RpAssert(axis.Len() > 0.0)

	def.Body1 = body1
	def.Body2 = body2
	def.LocalAnchor1 = body1.GetLocalPoint(anchor)
	def.LocalAnchor2 = body2.GetLocalPoint(anchor)
	def.LocalAxis1 = body1.GetLocalVector(axis.Normalize())
	def.ReferenceOrientation = body2.GetOrientation().Mul(body1.GetOrientation().Inverse()).Normalize()
}

func (def RpSliderJointDef) Validate() error {
	if err := def.RpJointDef.Validate(); err != nil {
		return err
	}

	if def.LocalAxis1.Len() == 0.0 {
		return fmt.Errorf("slider axis has zero length: %w", ErrRpInvalidLimits)
	}

	if def.MinTranslationLimit > def.MaxTranslationLimit {
		return fmt.Errorf("slider min translation %g above max %g: %w",
			def.MinTranslationLimit, def.MaxTranslationLimit, ErrRpInvalidLimits)
	}

	if def.MaxMotorForce < 0.0 {
		return fmt.Errorf("slider max motor force %g is negative: %w", def.MaxMotorForce, ErrRpInvalidLimits)
	}

	return nil
}

/// A slider joint allows only a relative translation of the two bodies along
/// one axis. The relative orientation is locked. The translation can be
/// bounded by limits and driven by a motor.
type RpSliderJoint struct {
	*RpJoint

	M_localAnchor1 mgl64.Vec3
	M_localAnchor2 mgl64.Vec3

	// Slider axis in the body1 frame.
	M_sliderAxisBody1 mgl64.Vec3

	// Inverse of the relative orientation at creation.
	M_initOrientationDifferenceInv mgl64.Quat

	M_isLimitEnabled bool
	M_isMotorEnabled bool

	M_lowerLimit float64
	M_upperLimit float64

	M_motorSpeed    float64
	M_maxMotorForce float64

	// Solver shared
	M_impulseTranslation mgl64.Vec2
	M_impulseRotation    mgl64.Vec3
	M_impulseLowerLimit  float64
	M_impulseUpperLimit  float64
	M_impulseMotor       float64

	// Solver temp
	M_r1                mgl64.Vec3
	M_r2                mgl64.Vec3
	M_i1                mgl64.Mat3
	M_i2                mgl64.Mat3
	M_n1                mgl64.Vec3
	M_n2                mgl64.Vec3
	M_sliderAxisWorld   mgl64.Vec3
	M_r2CrossN1         mgl64.Vec3
	M_r2CrossN2         mgl64.Vec3
	M_r2CrossSliderAxis mgl64.Vec3
	M_r1PlusUCrossN1    mgl64.Vec3
	M_r1PlusUCrossN2    mgl64.Vec3
	M_r1PlusUCrossAxis  mgl64.Vec3

	M_bTranslation mgl64.Vec2
	M_bRotation    mgl64.Vec3
	M_bLowerLimit  float64
	M_bUpperLimit  float64

	M_inverseMassMatrixTranslation mgl64.Mat2
	M_inverseMassMatrixRotation    mgl64.Mat3
	M_inverseMassMatrixLimit       float64
	M_inverseMassMatrixMotor       float64

	M_isLowerLimitViolated bool
	M_isUpperLimitViolated bool
}

func MakeRpSliderJoint(def *RpSliderJointDef) *RpSliderJoint {
	RpAssert(def.MinTranslationLimit <= def.MaxTranslationLimit)
	RpAssert(def.MaxMotorForce >= 0.0)

	res := RpSliderJoint{
		RpJoint: MakeRpJoint(def),
	}

	res.M_localAnchor1 = def.LocalAnchor1
	res.M_localAnchor2 = def.LocalAnchor2
	res.M_sliderAxisBody1 = def.LocalAxis1.Normalize()
	res.M_initOrientationDifferenceInv = def.ReferenceOrientation.Normalize().Inverse()

	res.M_isLimitEnabled = def.EnableLimit
	res.M_isMotorEnabled = def.EnableMotor
	res.M_lowerLimit = def.MinTranslationLimit
	res.M_upperLimit = def.MaxTranslationLimit
	res.M_motorSpeed = def.MotorSpeed
	res.M_maxMotorForce = def.MaxMotorForce

	return &res
}

func (joint RpSliderJoint) GetLocalAnchor1() mgl64.Vec3 {
	return joint.M_localAnchor1
}

func (joint RpSliderJoint) GetLocalAnchor2() mgl64.Vec3 {
	return joint.M_localAnchor2
}

func (joint RpSliderJoint) GetLocalAxis1() mgl64.Vec3 {
	return joint.M_sliderAxisBody1
}

func (joint RpSliderJoint) IsLimitEnabled() bool {
	return joint.M_isLimitEnabled
}

func (joint RpSliderJoint) IsMotorEnabled() bool {
	return joint.M_isMotorEnabled
}

func (joint *RpSliderJoint) EnableLimit(flag bool) {
	if flag != joint.M_isLimitEnabled {
		joint.M_isLimitEnabled = flag
		joint.resetLimits()
	}
}

func (joint *RpSliderJoint) EnableMotor(flag bool) {
	if flag != joint.M_isMotorEnabled {
		joint.M_isMotorEnabled = flag
		joint.M_impulseMotor = 0.0
		joint.wakeBodies()
	}
}

func (joint RpSliderJoint) GetMinTranslationLimit() float64 {
	return joint.M_lowerLimit
}

func (joint *RpSliderJoint) SetMinTranslationLimit(lowerLimit float64) {
	RpAssert(lowerLimit <= joint.M_upperLimit)

	if lowerLimit != joint.M_lowerLimit {
		joint.M_lowerLimit = lowerLimit
		joint.resetLimits()
	}
}

func (joint RpSliderJoint) GetMaxTranslationLimit() float64 {
	return joint.M_upperLimit
}

func (joint *RpSliderJoint) SetMaxTranslationLimit(upperLimit float64) {
	RpAssert(joint.M_lowerLimit <= upperLimit)

	if upperLimit != joint.M_upperLimit {
		joint.M_upperLimit = upperLimit
		joint.resetLimits()
	}
}

func (joint RpSliderJoint) GetMotorSpeed() float64 {
	return joint.M_motorSpeed
}

func (joint *RpSliderJoint) SetMotorSpeed(motorSpeed float64) {
	if motorSpeed != joint.M_motorSpeed {
		joint.M_motorSpeed = motorSpeed
		joint.wakeBodies()
	}
}

func (joint RpSliderJoint) GetMaxMotorForce() float64 {
	return joint.M_maxMotorForce
}

func (joint *RpSliderJoint) SetMaxMotorForce(maxMotorForce float64) {
	RpAssert(maxMotorForce >= 0.0)

	if maxMotorForce != joint.M_maxMotorForce {
		joint.M_maxMotorForce = maxMotorForce
		joint.wakeBodies()
	}
}

/// The motor force applied in the last step.
func (joint RpSliderJoint) GetMotorForce(timeStep float64) float64 {
	RpAssert(timeStep > 0.0)
	return joint.M_impulseMotor / timeStep
}

/// Current translation of anchor 2 relative to anchor 1 along the axis.
func (joint RpSliderJoint) GetTranslation() float64 {
	x1 := joint.M_body1.GetWorldPoint(joint.M_localAnchor1)
	x2 := joint.M_body2.GetWorldPoint(joint.M_localAnchor2)
	axis := joint.M_body1.GetWorldVector(joint.M_sliderAxisBody1)

	return x2.Sub(x1).Dot(axis)
}

func (joint *RpSliderJoint) resetLimits() {
	joint.M_impulseLowerLimit = 0.0
	joint.M_impulseUpperLimit = 0.0
	joint.wakeBodies()
}

func (joint *RpSliderJoint) wakeBodies() {
	joint.M_body1.SetAwake(true)
	joint.M_body2.SetAwake(true)
}

/// Compute the geometry of the constraint at the given body states. It fills
/// r1, r2, the world axis, the orthogonal basis and the cross products, and
/// returns u, the vector from anchor 1 to anchor 2.
func (joint *RpSliderJoint) computeGeometry(pos1, pos2 RpPosition) mgl64.Vec3 {
	joint.M_r1 = pos1.Q.Rotate(joint.M_localAnchor1.Sub(joint.M_localCenter1))
	joint.M_r2 = pos2.Q.Rotate(joint.M_localAnchor2.Sub(joint.M_localCenter2))

	u := pos2.C.Add(joint.M_r2).Sub(pos1.C).Sub(joint.M_r1)

	joint.M_sliderAxisWorld = pos1.Q.Rotate(joint.M_sliderAxisBody1).Normalize()

	joint.M_n1 = RpOneUnitOrthogonalVector(joint.M_sliderAxisWorld)
	joint.M_n2 = joint.M_sliderAxisWorld.Cross(joint.M_n1)

	joint.M_r2CrossN1 = joint.M_r2.Cross(joint.M_n1)
	joint.M_r2CrossN2 = joint.M_r2.Cross(joint.M_n2)
	joint.M_r2CrossSliderAxis = joint.M_r2.Cross(joint.M_sliderAxisWorld)

	r1PlusU := joint.M_r1.Add(u)
	joint.M_r1PlusUCrossN1 = r1PlusU.Cross(joint.M_n1)
	joint.M_r1PlusUCrossN2 = r1PlusU.Cross(joint.M_n2)
	joint.M_r1PlusUCrossAxis = r1PlusU.Cross(joint.M_sliderAxisWorld)

	return u
}

func (joint *RpSliderJoint) computeTranslationMassMatrix() {
	sumInverseMass := joint.M_invMass1 + joint.M_invMass2
	I1 := joint.M_i1
	I2 := joint.M_i2

	I1R1PlusUCrossN1 := I1.Mul3x1(joint.M_r1PlusUCrossN1)
	I1R1PlusUCrossN2 := I1.Mul3x1(joint.M_r1PlusUCrossN2)
	I2R2CrossN1 := I2.Mul3x1(joint.M_r2CrossN1)
	I2R2CrossN2 := I2.Mul3x1(joint.M_r2CrossN2)

	el11 := sumInverseMass + joint.M_r1PlusUCrossN1.Dot(I1R1PlusUCrossN1) + joint.M_r2CrossN1.Dot(I2R2CrossN1)
	el12 := joint.M_r1PlusUCrossN1.Dot(I1R1PlusUCrossN2) + joint.M_r2CrossN1.Dot(I2R2CrossN2)
	el21 := joint.M_r1PlusUCrossN2.Dot(I1R1PlusUCrossN1) + joint.M_r2CrossN2.Dot(I2R2CrossN1)
	el22 := sumInverseMass + joint.M_r1PlusUCrossN2.Dot(I1R1PlusUCrossN2) + joint.M_r2CrossN2.Dot(I2R2CrossN2)

	// Column major.
	K := mgl64.Mat2{el11, el21, el12, el22}
	joint.M_inverseMassMatrixTranslation = RpMat2Inverse(K)
}

func (joint *RpSliderJoint) computeLimitMassMatrix() {
	limitMass := joint.M_invMass1 + joint.M_invMass2 +
		joint.M_r1PlusUCrossAxis.Dot(joint.M_i1.Mul3x1(joint.M_r1PlusUCrossAxis)) +
		joint.M_r2CrossSliderAxis.Dot(joint.M_i2.Mul3x1(joint.M_r2CrossSliderAxis))

	joint.M_inverseMassMatrixLimit = 0.0
	if limitMass > 0.0 {
		joint.M_inverseMassMatrixLimit = 1.0 / limitMass
	}
}

func (joint *RpSliderJoint) rotationError(q1, q2 mgl64.Quat) mgl64.Vec3 {
	return rpRotationError(q1, q2, joint.M_initOrientationDifferenceInv)
}

func (joint *RpSliderJoint) InitBeforeSolve(data RpSolverData) {
	joint.initSolverBodies()

	pos1 := data.Positions[joint.M_index1]
	pos2 := data.Positions[joint.M_index2]

	joint.M_i1 = RpRotateTensor(pos1.Q, joint.M_invILocal1)
	joint.M_i2 = RpRotateTensor(pos2.Q, joint.M_invILocal2)

	u := joint.computeGeometry(pos1, pos2)

	// Limit violations.
	uDotSliderAxis := u.Dot(joint.M_sliderAxisWorld)
	lowerLimitError := uDotSliderAxis - joint.M_lowerLimit
	upperLimitError := joint.M_upperLimit - uDotSliderAxis

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

	// Translation constraints (2x2).
	joint.computeTranslationMassMatrix()

	biasFactor := data.Step.Beta * data.Step.Inv_dt

	joint.M_bTranslation = mgl64.Vec2{}
	if joint.usesBaumgarte() {
		joint.M_bTranslation = mgl64.Vec2{u.Dot(joint.M_n1), u.Dot(joint.M_n2)}.Mul(biasFactor)
	}

	// Rotation constraints (3x3).
	joint.M_inverseMassMatrixRotation = RpMat3Inverse(joint.M_i1.Add(joint.M_i2))

	joint.M_bRotation = mgl64.Vec3{}
	if joint.usesBaumgarte() {
		joint.M_bRotation = joint.rotationError(pos1.Q, pos2.Q).Mul(biasFactor)
	}

	// Limit constraints (1x1).
	if joint.M_isLimitEnabled && (joint.M_isLowerLimitViolated || joint.M_isUpperLimitViolated) {
		joint.computeLimitMassMatrix()

		joint.M_bLowerLimit = 0.0
		joint.M_bUpperLimit = 0.0
		if joint.usesBaumgarte() {
			joint.M_bLowerLimit = biasFactor * lowerLimitError
			joint.M_bUpperLimit = biasFactor * upperLimitError
		}
	}

	// Motor constraint (1x1).
	if joint.M_isMotorEnabled {
		joint.M_inverseMassMatrixMotor = 0.0
		if sumInverseMass := joint.M_invMass1 + joint.M_invMass2; sumInverseMass > 0.0 {
			joint.M_inverseMassMatrixMotor = 1.0 / sumInverseMass
		}
	}

	if !joint.M_isLimitEnabled {
		joint.M_impulseLowerLimit = 0.0
		joint.M_impulseUpperLimit = 0.0
	}

	if !joint.M_isMotorEnabled {
		joint.M_impulseMotor = 0.0
	}

	// Without warm starting the accumulated impulses start from zero.
	if !data.Step.WarmStarting {
		joint.M_impulseTranslation = mgl64.Vec2{}
		joint.M_impulseRotation = mgl64.Vec3{}
		joint.M_impulseLowerLimit = 0.0
		joint.M_impulseUpperLimit = 0.0
		joint.M_impulseMotor = 0.0
	}
}

func (joint *RpSliderJoint) Warmstart(data RpSolverData) {
	v1 := data.Velocities[joint.M_index1].V
	w1 := data.Velocities[joint.M_index1].W
	v2 := data.Velocities[joint.M_index2].V
	w2 := data.Velocities[joint.M_index2].W

	axis := joint.M_sliderAxisWorld
	tx := joint.M_impulseTranslation[0]
	ty := joint.M_impulseTranslation[1]

	impulseLimits := joint.M_impulseLowerLimit - joint.M_impulseUpperLimit
	linearImpulseLimits := axis.Mul(impulseLimits)
	impulseMotor := axis.Mul(joint.M_impulseMotor)

	// Body 1
	linearImpulseBody1 := joint.M_n1.Mul(-tx).Sub(joint.M_n2.Mul(ty))
	angularImpulseBody1 := joint.M_r1PlusUCrossN1.Mul(-tx).Sub(joint.M_r1PlusUCrossN2.Mul(ty))
	angularImpulseBody1 = angularImpulseBody1.Sub(joint.M_impulseRotation)
	linearImpulseBody1 = linearImpulseBody1.Add(linearImpulseLimits)
	angularImpulseBody1 = angularImpulseBody1.Add(joint.M_r1PlusUCrossAxis.Mul(impulseLimits))
	linearImpulseBody1 = linearImpulseBody1.Add(impulseMotor)

	v1 = v1.Add(linearImpulseBody1.Mul(joint.M_invMass1))
	w1 = w1.Add(joint.M_i1.Mul3x1(angularImpulseBody1))

	// Body 2
	linearImpulseBody2 := joint.M_n1.Mul(tx).Add(joint.M_n2.Mul(ty))
	angularImpulseBody2 := joint.M_r2CrossN1.Mul(tx).Add(joint.M_r2CrossN2.Mul(ty))
	angularImpulseBody2 = angularImpulseBody2.Add(joint.M_impulseRotation)
	linearImpulseBody2 = linearImpulseBody2.Sub(linearImpulseLimits)
	angularImpulseBody2 = angularImpulseBody2.Sub(joint.M_r2CrossSliderAxis.Mul(impulseLimits))
	linearImpulseBody2 = linearImpulseBody2.Sub(impulseMotor)

	v2 = v2.Add(linearImpulseBody2.Mul(joint.M_invMass2))
	w2 = w2.Add(joint.M_i2.Mul3x1(angularImpulseBody2))

	data.Velocities[joint.M_index1].V = v1
	data.Velocities[joint.M_index1].W = w1
	data.Velocities[joint.M_index2].V = v2
	data.Velocities[joint.M_index2].W = w2
}

func (joint *RpSliderJoint) SolveVelocityConstraint(data RpSolverData) {
	v1 := data.Velocities[joint.M_index1].V
	w1 := data.Velocities[joint.M_index1].W
	v2 := data.Velocities[joint.M_index2].V
	w2 := data.Velocities[joint.M_index2].W

	m1 := joint.M_invMass1
	m2 := joint.M_invMass2
	I1 := joint.M_i1
	I2 := joint.M_i2
	axis := joint.M_sliderAxisWorld

	// Translation constraints
	el1 := -joint.M_n1.Dot(v1) - w1.Dot(joint.M_r1PlusUCrossN1) + joint.M_n1.Dot(v2) + w2.Dot(joint.M_r2CrossN1)
	el2 := -joint.M_n2.Dot(v1) - w1.Dot(joint.M_r1PlusUCrossN2) + joint.M_n2.Dot(v2) + w2.Dot(joint.M_r2CrossN2)
	JvTranslation := mgl64.Vec2{el1, el2}

	deltaLambda := joint.M_inverseMassMatrixTranslation.Mul2x1(JvTranslation.Mul(-1.0).Sub(joint.M_bTranslation))
	joint.M_impulseTranslation = joint.M_impulseTranslation.Add(deltaLambda)

	v1 = v1.Add(joint.M_n1.Mul(-deltaLambda[0]).Sub(joint.M_n2.Mul(deltaLambda[1])).Mul(m1))
	w1 = w1.Add(I1.Mul3x1(joint.M_r1PlusUCrossN1.Mul(-deltaLambda[0]).Sub(joint.M_r1PlusUCrossN2.Mul(deltaLambda[1]))))

	v2 = v2.Add(joint.M_n1.Mul(deltaLambda[0]).Add(joint.M_n2.Mul(deltaLambda[1])).Mul(m2))
	w2 = w2.Add(I2.Mul3x1(joint.M_r2CrossN1.Mul(deltaLambda[0]).Add(joint.M_r2CrossN2.Mul(deltaLambda[1]))))

	// Rotation constraints
	JvRotation := w2.Sub(w1)

	deltaLambda2 := joint.M_inverseMassMatrixRotation.Mul3x1(JvRotation.Mul(-1.0).Sub(joint.M_bRotation))
	joint.M_impulseRotation = joint.M_impulseRotation.Add(deltaLambda2)

	w1 = w1.Sub(I1.Mul3x1(deltaLambda2))
	w2 = w2.Add(I2.Mul3x1(deltaLambda2))

	// Limit constraints
	if joint.M_isLimitEnabled {
		if joint.M_isLowerLimitViolated {
			JvLowerLimit := axis.Dot(v2) + joint.M_r2CrossSliderAxis.Dot(w2) - axis.Dot(v1) - joint.M_r1PlusUCrossAxis.Dot(w1)

			deltaLambdaLower := joint.M_inverseMassMatrixLimit * (-JvLowerLimit - joint.M_bLowerLimit)
			lambdaTemp := joint.M_impulseLowerLimit
			joint.M_impulseLowerLimit = math.Max(joint.M_impulseLowerLimit+deltaLambdaLower, 0.0)
			deltaLambdaLower = joint.M_impulseLowerLimit - lambdaTemp

			v1 = v1.Sub(axis.Mul(deltaLambdaLower * m1))
			w1 = w1.Sub(I1.Mul3x1(joint.M_r1PlusUCrossAxis.Mul(deltaLambdaLower)))

			v2 = v2.Add(axis.Mul(deltaLambdaLower * m2))
			w2 = w2.Add(I2.Mul3x1(joint.M_r2CrossSliderAxis.Mul(deltaLambdaLower)))
		}

		if joint.M_isUpperLimitViolated {
			JvUpperLimit := axis.Dot(v1) + joint.M_r1PlusUCrossAxis.Dot(w1) - axis.Dot(v2) - joint.M_r2CrossSliderAxis.Dot(w2)

			deltaLambdaUpper := joint.M_inverseMassMatrixLimit * (-JvUpperLimit - joint.M_bUpperLimit)
			lambdaTemp := joint.M_impulseUpperLimit
			joint.M_impulseUpperLimit = math.Max(joint.M_impulseUpperLimit+deltaLambdaUpper, 0.0)
			deltaLambdaUpper = joint.M_impulseUpperLimit - lambdaTemp

			v1 = v1.Add(axis.Mul(deltaLambdaUpper * m1))
			w1 = w1.Add(I1.Mul3x1(joint.M_r1PlusUCrossAxis.Mul(deltaLambdaUpper)))

			v2 = v2.Sub(axis.Mul(deltaLambdaUpper * m2))
			w2 = w2.Sub(I2.Mul3x1(joint.M_r2CrossSliderAxis.Mul(deltaLambdaUpper)))
		}
	}

	// Motor
	if joint.M_isMotorEnabled {
		JvMotor := axis.Dot(v1) - axis.Dot(v2)

		deltaLambdaMotor := joint.M_inverseMassMatrixMotor * (-JvMotor - joint.M_motorSpeed)
		lambdaTemp := joint.M_impulseMotor
		maxMotorImpulse := joint.M_maxMotorForce * data.Step.Dt
		joint.M_impulseMotor = RpFloatClamp(joint.M_impulseMotor+deltaLambdaMotor, -maxMotorImpulse, maxMotorImpulse)
		deltaLambdaMotor = joint.M_impulseMotor - lambdaTemp

		v1 = v1.Add(axis.Mul(deltaLambdaMotor * m1))
		v2 = v2.Sub(axis.Mul(deltaLambdaMotor * m2))
	}

	data.Velocities[joint.M_index1].V = v1
	data.Velocities[joint.M_index1].W = w1
	data.Velocities[joint.M_index2].V = v2
	data.Velocities[joint.M_index2].W = w2
}

func (joint *RpSliderJoint) SolvePositionConstraint(data RpSolverData) bool {
	if joint.usesBaumgarte() {
		return true
	}

	pos1 := data.Positions[joint.M_index1]
	pos2 := data.Positions[joint.M_index2]

	m1 := joint.M_invMass1
	m2 := joint.M_invMass2

	// Translation constraints
	joint.M_i1 = RpRotateTensor(pos1.Q, joint.M_invILocal1)
	joint.M_i2 = RpRotateTensor(pos2.Q, joint.M_invILocal2)
	u := joint.computeGeometry(pos1, pos2)
	joint.computeTranslationMassMatrix()

	translationError := mgl64.Vec2{u.Dot(joint.M_n1), u.Dot(joint.M_n2)}
	linearError := translationError.Len()

	lambdaTranslation := joint.M_inverseMassMatrixTranslation.Mul2x1(translationError.Mul(-1.0))

	rpApplyPositionImpulse(&pos1, m1, joint.M_i1,
		joint.M_n1.Mul(-lambdaTranslation[0]).Sub(joint.M_n2.Mul(lambdaTranslation[1])),
		joint.M_r1PlusUCrossN1.Mul(-lambdaTranslation[0]).Sub(joint.M_r1PlusUCrossN2.Mul(lambdaTranslation[1])))

	rpApplyPositionImpulse(&pos2, m2, joint.M_i2,
		joint.M_n1.Mul(lambdaTranslation[0]).Add(joint.M_n2.Mul(lambdaTranslation[1])),
		joint.M_r2CrossN1.Mul(lambdaTranslation[0]).Add(joint.M_r2CrossN2.Mul(lambdaTranslation[1])))

	// Rotation constraints
	joint.M_i1 = RpRotateTensor(pos1.Q, joint.M_invILocal1)
	joint.M_i2 = RpRotateTensor(pos2.Q, joint.M_invILocal2)
	joint.M_inverseMassMatrixRotation = RpMat3Inverse(joint.M_i1.Add(joint.M_i2))

	errorRotation := joint.rotationError(pos1.Q, pos2.Q)
	angularError := errorRotation.Len()

	lambdaRotation := joint.M_inverseMassMatrixRotation.Mul3x1(errorRotation.Mul(-1.0))

	rpApplyPositionImpulse(&pos1, m1, joint.M_i1, mgl64.Vec3{}, lambdaRotation.Mul(-1.0))
	rpApplyPositionImpulse(&pos2, m2, joint.M_i2, mgl64.Vec3{}, lambdaRotation)

	// Limit constraints
	if joint.M_isLimitEnabled {
		joint.M_i1 = RpRotateTensor(pos1.Q, joint.M_invILocal1)
		joint.M_i2 = RpRotateTensor(pos2.Q, joint.M_invILocal2)
		u = joint.computeGeometry(pos1, pos2)

		uDotSliderAxis := u.Dot(joint.M_sliderAxisWorld)
		lowerLimitError := uDotSliderAxis - joint.M_lowerLimit
		upperLimitError := joint.M_upperLimit - uDotSliderAxis

		joint.M_isLowerLimitViolated = lowerLimitError <= 0.0
		joint.M_isUpperLimitViolated = upperLimitError <= 0.0

		if joint.M_isLowerLimitViolated || joint.M_isUpperLimitViolated {
			joint.computeLimitMassMatrix()
		}

		axis := joint.M_sliderAxisWorld

		if joint.M_isLowerLimitViolated {
			linearError = math.Max(linearError, -lowerLimitError)
			lambdaLowerLimit := joint.M_inverseMassMatrixLimit * (-lowerLimitError)

			rpApplyPositionImpulse(&pos1, m1, joint.M_i1,
				axis.Mul(-lambdaLowerLimit), joint.M_r1PlusUCrossAxis.Mul(-lambdaLowerLimit))
			rpApplyPositionImpulse(&pos2, m2, joint.M_i2,
				axis.Mul(lambdaLowerLimit), joint.M_r2CrossSliderAxis.Mul(lambdaLowerLimit))
		}

		if joint.M_isUpperLimitViolated {
			linearError = math.Max(linearError, -upperLimitError)
			lambdaUpperLimit := joint.M_inverseMassMatrixLimit * (-upperLimitError)

			rpApplyPositionImpulse(&pos1, m1, joint.M_i1,
				axis.Mul(lambdaUpperLimit), joint.M_r1PlusUCrossAxis.Mul(lambdaUpperLimit))
			rpApplyPositionImpulse(&pos2, m2, joint.M_i2,
				axis.Mul(-lambdaUpperLimit), joint.M_r2CrossSliderAxis.Mul(-lambdaUpperLimit))
		}
	}

	data.Positions[joint.M_index1] = pos1
	data.Positions[joint.M_index2] = pos2

	return linearError <= RP_linearSlop && angularError <= RP_angularSlop
}

func (joint RpSliderJoint) Dump() {
	indexA := joint.M_body1.M_islandIndex
	indexB := joint.M_body2.M_islandIndex

	a1 := joint.M_localAnchor1
	a2 := joint.M_localAnchor2
	axis := joint.M_sliderAxisBody1
	q := joint.M_initOrientationDifferenceInv.Inverse()

	fmt.Print("  jd := MakeRpSliderJointDef()\n")
	fmt.Printf("  jd.Body1 = bodies[%d]\n", indexA)
	fmt.Printf("  jd.Body2 = bodies[%d]\n", indexB)
	fmt.Printf("  jd.CollideConnected = %t\n", joint.M_collideConnected)
	fmt.Printf("  jd.LocalAnchor1 = mgl64.Vec3{%.15e, %.15e, %.15e}\n", a1[0], a1[1], a1[2])
	fmt.Printf("  jd.LocalAnchor2 = mgl64.Vec3{%.15e, %.15e, %.15e}\n", a2[0], a2[1], a2[2])
	fmt.Printf("  jd.LocalAxis1 = mgl64.Vec3{%.15e, %.15e, %.15e}\n", axis[0], axis[1], axis[2])
	fmt.Printf("  jd.ReferenceOrientation = mgl64.Quat{W: %.15e, V: mgl64.Vec3{%.15e, %.15e, %.15e}}\n", q.W, q.V[0], q.V[1], q.V[2])
	fmt.Printf("  jd.EnableLimit = %t\n", joint.M_isLimitEnabled)
	fmt.Printf("  jd.MinTranslationLimit = %.15e\n", joint.M_lowerLimit)
	fmt.Printf("  jd.MaxTranslationLimit = %.15e\n", joint.M_upperLimit)
	fmt.Printf("  jd.EnableMotor = %t\n", joint.M_isMotorEnabled)
	fmt.Printf("  jd.MotorSpeed = %.15e\n", joint.M_motorSpeed)
	fmt.Printf("  jd.MaxMotorForce = %.15e\n", joint.M_maxMotorForce)
	fmt.Printf("  joints[%d], _ = world.CreateJoint(&jd)\n", joint.M_index)
}
