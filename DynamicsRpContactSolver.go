package realphysics4d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type RpVelocityConstraintPoint struct {
	RA              mgl64.Vec3
	RB              mgl64.Vec3
	NormalImpulse   float64
	TangentImpulse1 float64
	TangentImpulse2 float64
	NormalMass      float64
	TangentMass1    float64
	TangentMass2    float64
	VelocityBias    float64
}

/// Normal and tangents point from body A (shape 1) to body B (shape 2).
type RpContactVelocityConstraint struct {
	Points             [RP_maxManifoldPoints]RpVelocityConstraintPoint
	Normal             mgl64.Vec3
	Tangent1           mgl64.Vec3
	Tangent2           mgl64.Vec3
	IndexA             int
	IndexB             int
	InvMassA, InvMassB float64
	InvIA, InvIB       mgl64.Mat3 // world space
	Friction           float64
	Restitution        float64
	PointCount         int
	ContactIndex       int
}

type RpContactSolverDef struct {
	Step       RpTimeStep
	Pairs      []*RpOverlappingPair
	Count      int
	Positions  []RpPosition
	Velocities []RpVelocity
}

func MakeRpContactSolverDef() RpContactSolverDef {
	return RpContactSolverDef{
		Pairs:      make([]*RpOverlappingPair, 0),
		Positions:  make([]RpPosition, 0),
		Velocities: make([]RpVelocity, 0),
	}
}

type RpContactPositionConstraint struct {
	LocalPoints1               [RP_maxManifoldPoints]mgl64.Vec3
	LocalPoints2               [RP_maxManifoldPoints]mgl64.Vec3
	Offsets                    [RP_maxManifoldPoints]float64
	LocalNormal                mgl64.Vec3 // in the body B frame, pointing from B to A
	IndexA                     int
	IndexB                     int
	InvMassA, InvMassB         float64
	LocalCenterA, LocalCenterB mgl64.Vec3
	InvILocalA, InvILocalB     mgl64.Mat3
	PointCount                 int
}

type RpContactSolver struct {
	M_step                RpTimeStep
	M_positions           []RpPosition
	M_velocities          []RpVelocity
	M_positionConstraints []RpContactPositionConstraint
	M_velocityConstraints []RpContactVelocityConstraint
	M_pairs               []*RpOverlappingPair
	M_count               int
}

func MakeRpContactSolver(def *RpContactSolverDef) RpContactSolver {
	solver := RpContactSolver{}

	solver.M_step = def.Step
	solver.M_count = def.Count
	solver.M_positionConstraints = make([]RpContactPositionConstraint, solver.M_count)
	solver.M_velocityConstraints = make([]RpContactVelocityConstraint, solver.M_count)
	solver.M_positions = def.Positions
	solver.M_velocities = def.Velocities
	solver.M_pairs = def.Pairs

	// Initialize position independent portions of the constraints.
	for i := 0; i < solver.M_count; i++ {
		pair := solver.M_pairs[i]

		bodyA := pair.GetShape1().GetBody()
		bodyB := pair.GetShape2().GetBody()
		manifold := pair.GetManifold()

		pointCount := manifold.PointCount
		RpAssert(pointCount > 0)

		vc := &solver.M_velocityConstraints[i]
		vc.Friction = pair.GetFriction()
		vc.Restitution = pair.GetRestitution()
		vc.IndexA = bodyA.M_islandIndex
		vc.IndexB = bodyB.M_islandIndex
		vc.InvMassA = bodyA.M_invMass
		vc.InvMassB = bodyB.M_invMass
		vc.ContactIndex = i
		vc.PointCount = pointCount

		pc := &solver.M_positionConstraints[i]
		pc.IndexA = bodyA.M_islandIndex
		pc.IndexB = bodyB.M_islandIndex
		pc.InvMassA = bodyA.M_invMass
		pc.InvMassB = bodyB.M_invMass
		pc.LocalCenterA = bodyA.M_sweep.LocalCenter
		pc.LocalCenterB = bodyB.M_sweep.LocalCenter
		pc.InvILocalA = bodyA.M_invILocal
		pc.InvILocalB = bodyB.M_invILocal
		pc.LocalNormal = bodyB.GetLocalVector(manifold.Normal)
		pc.PointCount = pointCount

		for j := 0; j < pointCount; j++ {
			cp := &manifold.Points[j]
			vcp := &vc.Points[j]

			if solver.M_step.WarmStarting {
				vcp.NormalImpulse = solver.M_step.DtRatio * cp.NormalImpulse
				vcp.TangentImpulse1 = solver.M_step.DtRatio * cp.TangentImpulse1
				vcp.TangentImpulse2 = solver.M_step.DtRatio * cp.TangentImpulse2
			} else {
				vcp.NormalImpulse = 0.0
				vcp.TangentImpulse1 = 0.0
				vcp.TangentImpulse2 = 0.0
			}

			pc.LocalPoints1[j] = cp.LocalPoint1
			pc.LocalPoints2[j] = cp.LocalPoint2
			pc.Offsets[j] = cp.PenetrationOffset
		}
	}

	return solver
}

func rpPositionTransform(position RpPosition, localCenter mgl64.Vec3) RpTransform {
	return MakeRpTransformByPositionAndRotation(position.C.Sub(position.Q.Rotate(localCenter)), position.Q)
}

/// Effective mass of a unit impulse along direction d applied at rA and rB.
func rpEffectiveMass(mA, mB float64, iA, iB mgl64.Mat3, rA, rB, d mgl64.Vec3) float64 {
	rdA := rA.Cross(d)
	rdB := rB.Cross(d)
	k := mA + mB + rdA.Dot(iA.Mul3x1(rdA)) + rdB.Dot(iB.Mul3x1(rdB))
	if k > 0.0 {
		return 1.0 / k
	}

	return 0.0
}

// Initialize position dependent portions of the velocity constraints.
func (solver *RpContactSolver) InitializeVelocityConstraints() {
	for i := 0; i < solver.M_count; i++ {
		vc := &solver.M_velocityConstraints[i]
		pc := &solver.M_positionConstraints[i]

		manifold := solver.M_pairs[vc.ContactIndex].GetManifold()

		indexA := vc.IndexA
		indexB := vc.IndexB

		mA := vc.InvMassA
		mB := vc.InvMassB

		cA := solver.M_positions[indexA].C
		qA := solver.M_positions[indexA].Q
		vA := solver.M_velocities[indexA].V
		wA := solver.M_velocities[indexA].W

		cB := solver.M_positions[indexB].C
		qB := solver.M_positions[indexB].Q
		vB := solver.M_velocities[indexB].V
		wB := solver.M_velocities[indexB].W

		RpAssert(manifold.PointCount > 0)

		vc.InvIA = RpRotateTensor(qA, pc.InvILocalA)
		vc.InvIB = RpRotateTensor(qB, pc.InvILocalB)
		iA := vc.InvIA
		iB := vc.InvIB

		xfA := rpPositionTransform(solver.M_positions[indexA], pc.LocalCenterA)
		xfB := rpPositionTransform(solver.M_positions[indexB], pc.LocalCenterB)

		worldManifold := MakeRpWorldManifold()
		worldManifold.Initialize(manifold, xfA, xfB)

		// The manifold normal points from B to A.
		vc.Normal = worldManifold.Normal.Mul(-1.0)
		vc.Tangent1, vc.Tangent2 = RpTangentBasis(vc.Normal)

		pointCount := vc.PointCount
		for j := 0; j < pointCount; j++ {
			vcp := &vc.Points[j]

			vcp.RA = worldManifold.Points[j].Sub(cA)
			vcp.RB = worldManifold.Points[j].Sub(cB)

			vcp.NormalMass = rpEffectiveMass(mA, mB, iA, iB, vcp.RA, vcp.RB, vc.Normal)
			vcp.TangentMass1 = rpEffectiveMass(mA, mB, iA, iB, vcp.RA, vcp.RB, vc.Tangent1)
			vcp.TangentMass2 = rpEffectiveMass(mA, mB, iA, iB, vcp.RA, vcp.RB, vc.Tangent2)

			// Setup a velocity bias for restitution.
			vcp.VelocityBias = 0.0
			dv := vB.Add(wB.Cross(vcp.RB)).Sub(vA).Sub(wA.Cross(vcp.RA))
			vRel := dv.Dot(vc.Normal)
			if vRel < -RP_velocityThreshold {
				vcp.VelocityBias = -vc.Restitution * vRel
			}
		}
	}
}

func (solver *RpContactSolver) applyImpulse(vc *RpContactVelocityConstraint, vcp *RpVelocityConstraintPoint, P mgl64.Vec3, vA, wA, vB, wB *mgl64.Vec3) {
	*vA = vA.Sub(P.Mul(vc.InvMassA))
	*wA = wA.Sub(vc.InvIA.Mul3x1(vcp.RA.Cross(P)))

	*vB = vB.Add(P.Mul(vc.InvMassB))
	*wB = wB.Add(vc.InvIB.Mul3x1(vcp.RB.Cross(P)))
}

func (solver *RpContactSolver) WarmStart() {
	for i := 0; i < solver.M_count; i++ {
		vc := &solver.M_velocityConstraints[i]

		indexA := vc.IndexA
		indexB := vc.IndexB

		vA := solver.M_velocities[indexA].V
		wA := solver.M_velocities[indexA].W
		vB := solver.M_velocities[indexB].V
		wB := solver.M_velocities[indexB].W

		for j := 0; j < vc.PointCount; j++ {
			vcp := &vc.Points[j]
			P := vc.Normal.Mul(vcp.NormalImpulse).
				Add(vc.Tangent1.Mul(vcp.TangentImpulse1)).
				Add(vc.Tangent2.Mul(vcp.TangentImpulse2))
			solver.applyImpulse(vc, vcp, P, &vA, &wA, &vB, &wB)
		}

		solver.M_velocities[indexA].V = vA
		solver.M_velocities[indexA].W = wA
		solver.M_velocities[indexB].V = vB
		solver.M_velocities[indexB].W = wB
	}
}

func (solver *RpContactSolver) SolveVelocityConstraints() {
	for i := 0; i < solver.M_count; i++ {
		vc := &solver.M_velocityConstraints[i]

		indexA := vc.IndexA
		indexB := vc.IndexB

		vA := solver.M_velocities[indexA].V
		wA := solver.M_velocities[indexA].W
		vB := solver.M_velocities[indexB].V
		wB := solver.M_velocities[indexB].W

		friction := vc.Friction

		// Solve tangent constraints first because non-penetration is more important
		// than friction.
		for j := 0; j < vc.PointCount; j++ {
			vcp := &vc.Points[j]
			maxFriction := friction * vcp.NormalImpulse

			// First tangent
			dv := vB.Add(wB.Cross(vcp.RB)).Sub(vA).Sub(wA.Cross(vcp.RA))
			lambda := -vcp.TangentMass1 * dv.Dot(vc.Tangent1)
			newImpulse := RpFloatClamp(vcp.TangentImpulse1+lambda, -maxFriction, maxFriction)
			lambda = newImpulse - vcp.TangentImpulse1
			vcp.TangentImpulse1 = newImpulse
			solver.applyImpulse(vc, vcp, vc.Tangent1.Mul(lambda), &vA, &wA, &vB, &wB)

			// Second tangent
			dv = vB.Add(wB.Cross(vcp.RB)).Sub(vA).Sub(wA.Cross(vcp.RA))
			lambda = -vcp.TangentMass2 * dv.Dot(vc.Tangent2)
			newImpulse = RpFloatClamp(vcp.TangentImpulse2+lambda, -maxFriction, maxFriction)
			lambda = newImpulse - vcp.TangentImpulse2
			vcp.TangentImpulse2 = newImpulse
			solver.applyImpulse(vc, vcp, vc.Tangent2.Mul(lambda), &vA, &wA, &vB, &wB)
		}

		// Solve normal constraints
		for j := 0; j < vc.PointCount; j++ {
			vcp := &vc.Points[j]

			// Relative velocity at contact
			dv := vB.Add(wB.Cross(vcp.RB)).Sub(vA).Sub(wA.Cross(vcp.RA))

			// Compute normal impulse
			vn := dv.Dot(vc.Normal)
			lambda := -vcp.NormalMass * (vn - vcp.VelocityBias)

			// Clamp the accumulated impulse
			newImpulse := math.Max(vcp.NormalImpulse+lambda, 0.0)
			lambda = newImpulse - vcp.NormalImpulse
			vcp.NormalImpulse = newImpulse

			solver.applyImpulse(vc, vcp, vc.Normal.Mul(lambda), &vA, &wA, &vB, &wB)
		}

		solver.M_velocities[indexA].V = vA
		solver.M_velocities[indexA].W = wA
		solver.M_velocities[indexB].V = vB
		solver.M_velocities[indexB].W = wB
	}
}

func (solver *RpContactSolver) StoreImpulses() {
	for i := 0; i < solver.M_count; i++ {
		vc := &solver.M_velocityConstraints[i]
		manifold := solver.M_pairs[vc.ContactIndex].GetManifold()

		for j := 0; j < vc.PointCount; j++ {
			manifold.Points[j].NormalImpulse = vc.Points[j].NormalImpulse
			manifold.Points[j].TangentImpulse1 = vc.Points[j].TangentImpulse1
			manifold.Points[j].TangentImpulse2 = vc.Points[j].TangentImpulse2
		}
	}
}

/// Impulses of the last velocity iteration, for the post-solve callback.
func (solver RpContactSolver) GetImpulse(index int) RpContactImpulse {
	vc := &solver.M_velocityConstraints[index]

	impulse := MakeRpContactImpulse()
	impulse.Count = vc.PointCount
	for j := 0; j < vc.PointCount; j++ {
		impulse.NormalImpulses[j] = vc.Points[j].NormalImpulse
		impulse.TangentImpulses1[j] = vc.Points[j].TangentImpulse1
		impulse.TangentImpulses2[j] = vc.Points[j].TangentImpulse2
	}

	return impulse
}

// Sequential solver.
func (solver *RpContactSolver) SolvePositionConstraints() bool {
	minSeparation := 0.0

	baumgarte := solver.M_step.Baumgarte
	linearSlop := solver.M_step.LinearSlop
	maxCorrection := solver.M_step.MaxLinearCorrection

	for i := 0; i < solver.M_count; i++ {
		pc := &solver.M_positionConstraints[i]

		indexA := pc.IndexA
		indexB := pc.IndexB
		mA := pc.InvMassA
		mB := pc.InvMassB

		posA := solver.M_positions[indexA]
		posB := solver.M_positions[indexB]

		// Solve normal constraints
		for j := 0; j < pc.PointCount; j++ {
			xfA := rpPositionTransform(posA, pc.LocalCenterA)
			xfB := rpPositionTransform(posB, pc.LocalCenterB)

			iA := RpRotateTensor(posA.Q, pc.InvILocalA)
			iB := RpRotateTensor(posB.Q, pc.InvILocalB)

			normalBA := xfB.Q.Rotate(pc.LocalNormal)
			p1 := RpTransformVec3Mul(xfA, pc.LocalPoints1[j])
			p2 := RpTransformVec3Mul(xfB, pc.LocalPoints2[j])

			separation := -(pc.Offsets[j] + p2.Sub(p1).Dot(normalBA))
			point := p1.Add(p2).Mul(0.5)

			// Ensure normal points from A to B
			normal := normalBA.Mul(-1.0)

			rA := point.Sub(posA.C)
			rB := point.Sub(posB.C)

			// Track max constraint error.
			minSeparation = math.Min(minSeparation, separation)

			// Prevent large corrections and allow slop.
			C := RpFloatClamp(baumgarte*(separation+linearSlop), -maxCorrection, 0.0)

			// Compute normal impulse
			impulse := 0.0
			if K := rpEffectiveMass(mA, mB, iA, iB, rA, rB, normal); K > 0.0 {
				impulse = -C * K
			}

			P := normal.Mul(impulse)

			posA.C = posA.C.Sub(P.Mul(mA))
			posA.Q = RpQuatIntegrate(posA.Q, iA.Mul3x1(rA.Cross(P)).Mul(-1.0), 1.0)

			posB.C = posB.C.Add(P.Mul(mB))
			posB.Q = RpQuatIntegrate(posB.Q, iB.Mul3x1(rB.Cross(P)), 1.0)
		}

		solver.M_positions[indexA] = posA
		solver.M_positions[indexB] = posB
	}

	// We can't expect minSpeparation >= -linearSlop because we don't
	// push the separation above -linearSlop.
	return minSeparation >= -3.0*linearSlop
}
