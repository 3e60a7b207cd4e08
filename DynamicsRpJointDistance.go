package realphysics4d

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// Distance joint definition. This requires defining an
/// anchor point on both bodies and the non-zero length of the
/// distance joint. The definition uses local anchor points
/// so that the initial configuration can violate the constraint
/// slightly. This helps when saving and loading a game.
/// @warning Do not use a zero or short length.
type RpDistanceJointDef struct {
	RpJointDef

	/// The local anchor point relative to body1's origin.
	LocalAnchor1 mgl64.Vec3

	/// The local anchor point relative to body2's origin.
	LocalAnchor2 mgl64.Vec3

	/// The natural length between the anchor points.
	Length float64

	/// The mass-spring-damper frequency in Hertz. A value of 0
	/// disables softness.
	FrequencyHz float64

	/// The damping ratio. 0 = no damping, 1 = critical damping.
	DampingRatio float64
}

func MakeRpDistanceJointDef() RpDistanceJointDef {
	res := RpDistanceJointDef{
		RpJointDef: MakeRpJointDef(),
	}

	res.Type = RpJointType.E_distanceJoint
	res.Length = 1.0

	return res
}

/// Initialize the bodies, anchors, and length using the world
/// anchors.
func (def *RpDistanceJointDef) Initialize(body1 *RpBody, body2 *RpBody, anchor1 mgl64.Vec3, anchor2 mgl64.Vec3) {
	def.Body1 = body1
	def.Body2 = body2
	def.LocalAnchor1 = body1.GetLocalPoint(anchor1)
	def.LocalAnchor2 = body2.GetLocalPoint(anchor2)
	def.Length = anchor2.Sub(anchor1).Len()
}

func (def RpDistanceJointDef) Validate() error {
	if err := def.RpJointDef.Validate(); err != nil {
		return err
	}

	if def.Length <= RP_linearSlop {
		return fmt.Errorf("distance joint length %g is too short: %w", def.Length, ErrRpInvalidLimits)
	}

	if def.FrequencyHz < 0.0 || def.DampingRatio < 0.0 {
		return fmt.Errorf("distance joint softness (%g Hz, ratio %g) is negative: %w",
			def.FrequencyHz, def.DampingRatio, ErrRpInvalidLimits)
	}

	return nil
}

// Soft constraint
// v2 + (beta/h) * x1 + gamma * lambda = 0, gamma has units of inverse mass.

// C = norm(p2 - p1) - L
// u = (p2 - p1) / norm(p2 - p1)
// Cdot = dot(u, v2 + cross(w2, r2) - v1 - cross(w1, r1))
// J = [-u -cross(r1, u) u cross(r2, u)]
// K = J * invM * JT
//   = invMass1 + dot(cross(r1, u), invI1 * cross(r1, u)) + invMass2 + dot(cross(r2, u), invI2 * cross(r2, u))

/// A distance joint constrains two points on two bodies
/// to remain at a fixed distance from each other. You can view
/// this as a massless, rigid rod.
type RpDistanceJoint struct {
	*RpJoint

	M_frequencyHz  float64
	M_dampingRatio float64
	M_bias         float64

	// Solver shared
	M_localAnchor1 mgl64.Vec3
	M_localAnchor2 mgl64.Vec3
	M_gamma        float64
	M_impulse      float64
	M_length       float64

	// Solver temp
	M_u    mgl64.Vec3
	M_r1   mgl64.Vec3
	M_r2   mgl64.Vec3
	M_i1   mgl64.Mat3
	M_i2   mgl64.Mat3
	M_mass float64
}

func MakeRpDistanceJoint(def *RpDistanceJointDef) *RpDistanceJoint {
	res := RpDistanceJoint{
		RpJoint: MakeRpJoint(def),
	}

	res.M_localAnchor1 = def.LocalAnchor1
	res.M_localAnchor2 = def.LocalAnchor2
	res.M_length = def.Length
	res.M_frequencyHz = def.FrequencyHz
	res.M_dampingRatio = def.DampingRatio

	return &res
}

func (joint RpDistanceJoint) GetLocalAnchor1() mgl64.Vec3 {
	return joint.M_localAnchor1
}

func (joint RpDistanceJoint) GetLocalAnchor2() mgl64.Vec3 {
	return joint.M_localAnchor2
}

func (joint *RpDistanceJoint) SetLength(length float64) {
	joint.M_length = length
}

func (joint RpDistanceJoint) GetLength() float64 {
	return joint.M_length
}

func (joint *RpDistanceJoint) SetFrequency(hz float64) {
	joint.M_frequencyHz = hz
}

func (joint RpDistanceJoint) GetFrequency() float64 {
	return joint.M_frequencyHz
}

func (joint *RpDistanceJoint) SetDampingRatio(ratio float64) {
	joint.M_dampingRatio = ratio
}

func (joint RpDistanceJoint) GetDampingRatio() float64 {
	return joint.M_dampingRatio
}

/// Get the reaction force on body2 at the anchor, given the inverse time step.
func (joint RpDistanceJoint) GetReactionForce(inv_dt float64) mgl64.Vec3 {
	return joint.M_u.Mul(inv_dt * joint.M_impulse)
}

func (joint *RpDistanceJoint) InitBeforeSolve(data RpSolverData) {
	joint.initSolverBodies()

	pos1 := data.Positions[joint.M_index1]
	pos2 := data.Positions[joint.M_index2]

	joint.M_i1 = RpRotateTensor(pos1.Q, joint.M_invILocal1)
	joint.M_i2 = RpRotateTensor(pos2.Q, joint.M_invILocal2)

	joint.M_r1 = pos1.Q.Rotate(joint.M_localAnchor1.Sub(joint.M_localCenter1))
	joint.M_r2 = pos2.Q.Rotate(joint.M_localAnchor2.Sub(joint.M_localCenter2))
	joint.M_u = pos2.C.Add(joint.M_r2).Sub(pos1.C).Sub(joint.M_r1)

	// Handle singularity.
	length := joint.M_u.Len()
	if length > RP_linearSlop {
		joint.M_u = joint.M_u.Mul(1.0 / length)
	} else {
		joint.M_u = mgl64.Vec3{}
	}

	cr1u := joint.M_r1.Cross(joint.M_u)
	cr2u := joint.M_r2.Cross(joint.M_u)
	invMass := joint.M_invMass1 + cr1u.Dot(joint.M_i1.Mul3x1(cr1u)) + joint.M_invMass2 + cr2u.Dot(joint.M_i2.Mul3x1(cr2u))

	joint.M_mass = 0.0
	if invMass != 0.0 {
		joint.M_mass = 1.0 / invMass
	}

	joint.M_gamma = 0.0
	joint.M_bias = 0.0

	if joint.M_frequencyHz > 0.0 {
		C := length - joint.M_length

		// Frequency
		omega := 2.0 * RP_pi * joint.M_frequencyHz

		// Damping coefficient
		d := 2.0 * joint.M_mass * joint.M_dampingRatio * omega

		// Spring stiffness
		k := joint.M_mass * omega * omega

		// magic formulas
		h := data.Step.Dt
		joint.M_gamma = h * (d + h*k)
		if joint.M_gamma != 0.0 {
			joint.M_gamma = 1.0 / joint.M_gamma
		}
		joint.M_bias = C * h * k * joint.M_gamma

		invMass += joint.M_gamma
		joint.M_mass = 0.0
		if invMass != 0.0 {
			joint.M_mass = 1.0 / invMass
		}
	} else if joint.usesBaumgarte() {
		joint.M_bias = data.Step.Beta * data.Step.Inv_dt * (length - joint.M_length)
	}

	if !data.Step.WarmStarting {
		joint.M_impulse = 0.0
	}
}

func (joint *RpDistanceJoint) Warmstart(data RpSolverData) {
	v1 := data.Velocities[joint.M_index1].V
	w1 := data.Velocities[joint.M_index1].W
	v2 := data.Velocities[joint.M_index2].V
	w2 := data.Velocities[joint.M_index2].W

	P := joint.M_u.Mul(joint.M_impulse)
	rpApplyPointImpulse(&v1, &w1, &v2, &w2, joint.M_invMass1, joint.M_invMass2, joint.M_i1, joint.M_i2, joint.M_r1, joint.M_r2, P)

	data.Velocities[joint.M_index1].V = v1
	data.Velocities[joint.M_index1].W = w1
	data.Velocities[joint.M_index2].V = v2
	data.Velocities[joint.M_index2].W = w2
}

func (joint *RpDistanceJoint) SolveVelocityConstraint(data RpSolverData) {
	v1 := data.Velocities[joint.M_index1].V
	w1 := data.Velocities[joint.M_index1].W
	v2 := data.Velocities[joint.M_index2].V
	w2 := data.Velocities[joint.M_index2].W

	// Cdot = dot(u, v + cross(w, r))
	vp1 := v1.Add(w1.Cross(joint.M_r1))
	vp2 := v2.Add(w2.Cross(joint.M_r2))
	Cdot := joint.M_u.Dot(vp2.Sub(vp1))

	impulse := -joint.M_mass * (Cdot + joint.M_bias + joint.M_gamma*joint.M_impulse)
	joint.M_impulse += impulse

	P := joint.M_u.Mul(impulse)
	rpApplyPointImpulse(&v1, &w1, &v2, &w2, joint.M_invMass1, joint.M_invMass2, joint.M_i1, joint.M_i2, joint.M_r1, joint.M_r2, P)

	data.Velocities[joint.M_index1].V = v1
	data.Velocities[joint.M_index1].W = w1
	data.Velocities[joint.M_index2].V = v2
	data.Velocities[joint.M_index2].W = w2
}

func (joint *RpDistanceJoint) SolvePositionConstraint(data RpSolverData) bool {
	if joint.M_frequencyHz > 0.0 || joint.usesBaumgarte() {
		// There is no position correction for soft distance constraints.
		return true
	}

	pos1 := data.Positions[joint.M_index1]
	pos2 := data.Positions[joint.M_index2]

	i1 := RpRotateTensor(pos1.Q, joint.M_invILocal1)
	i2 := RpRotateTensor(pos2.Q, joint.M_invILocal2)

	r1 := pos1.Q.Rotate(joint.M_localAnchor1.Sub(joint.M_localCenter1))
	r2 := pos2.Q.Rotate(joint.M_localAnchor2.Sub(joint.M_localCenter2))
	u := pos2.C.Add(r2).Sub(pos1.C).Sub(r1)

	length := u.Len()
	if length > RP_epsilon {
		u = u.Mul(1.0 / length)
	}

	C := RpFloatClamp(length-joint.M_length, -RP_maxLinearCorrection, RP_maxLinearCorrection)

	impulse := -joint.M_mass * C
	P := u.Mul(impulse)

	rpApplyPositionImpulse(&pos1, joint.M_invMass1, i1, P.Mul(-1.0), P.Cross(r1))
	rpApplyPositionImpulse(&pos2, joint.M_invMass2, i2, P, P.Cross(r2).Mul(-1.0))

	data.Positions[joint.M_index1] = pos1
	data.Positions[joint.M_index2] = pos2

	return math.Abs(C) < RP_linearSlop
}

func (joint RpDistanceJoint) Dump() {
	a1 := joint.M_localAnchor1
	a2 := joint.M_localAnchor2

	fmt.Print("  jd := MakeRpDistanceJointDef()\n")
	fmt.Printf("  jd.Body1 = bodies[%d]\n", joint.M_body1.M_islandIndex)
	fmt.Printf("  jd.Body2 = bodies[%d]\n", joint.M_body2.M_islandIndex)
	fmt.Printf("  jd.CollideConnected = %t\n", joint.M_collideConnected)
	fmt.Printf("  jd.LocalAnchor1 = mgl64.Vec3{%.15e, %.15e, %.15e}\n", a1[0], a1[1], a1[2])
	fmt.Printf("  jd.LocalAnchor2 = mgl64.Vec3{%.15e, %.15e, %.15e}\n", a2[0], a2[1], a2[2])
	fmt.Printf("  jd.Length = %.15e\n", joint.M_length)
	fmt.Printf("  jd.FrequencyHz = %.15e\n", joint.M_frequencyHz)
	fmt.Printf("  jd.DampingRatio = %.15e\n", joint.M_dampingRatio)
	fmt.Printf("  joints[%d], _ = world.CreateJoint(&jd)\n", joint.M_index)
}
