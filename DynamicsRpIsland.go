package realphysics4d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// A set of bodies connected by touching pairs and joints, solved together.
/// Bodies are copied into compact position and velocity arrays; the
/// constraints only address bodies by island index.
type RpIsland struct {
	M_listener RpContactListenerInterface

	M_bodies []*RpBody
	M_pairs  []*RpOverlappingPair
	M_joints []RpJointInterface // has to be backed by pointers

	M_positions  []RpPosition
	M_velocities []RpVelocity

	M_bodyCount  int
	M_jointCount int
	M_pairCount  int

	M_bodyCapacity  int
	M_pairCapacity  int
	M_jointCapacity int
}

func MakeRpIsland(bodyCapacity int, pairCapacity int, jointCapacity int, listener RpContactListenerInterface) RpIsland {
	return RpIsland{
		M_listener:      listener,
		M_bodyCapacity:  bodyCapacity,
		M_pairCapacity:  pairCapacity,
		M_jointCapacity: jointCapacity,
		M_bodies:        make([]*RpBody, bodyCapacity),
		M_pairs:         make([]*RpOverlappingPair, pairCapacity),
		M_joints:        make([]RpJointInterface, jointCapacity),
		M_velocities:    make([]RpVelocity, bodyCapacity),
		M_positions:     make([]RpPosition, bodyCapacity),
	}
}

func (island *RpIsland) Clear() {
	island.M_bodyCount = 0
	island.M_pairCount = 0
	island.M_jointCount = 0
}

func (island *RpIsland) AddBody(body *RpBody) {
	RpAssert(island.M_bodyCount < island.M_bodyCapacity)
	body.M_islandIndex = island.M_bodyCount
	island.M_bodies[island.M_bodyCount] = body
	island.M_bodyCount++
}

func (island *RpIsland) AddPair(pair *RpOverlappingPair) {
	RpAssert(island.M_pairCount < island.M_pairCapacity)
	island.M_pairs[island.M_pairCount] = pair
	island.M_pairCount++
}

func (island *RpIsland) AddJoint(joint RpJointInterface) { // joint has to be a pointer
	RpAssert(island.M_jointCount < island.M_jointCapacity)
	island.M_joints[island.M_jointCount] = joint
	island.M_jointCount++
}

/// Integrate velocities, solve the contact and joint constraints, integrate
/// positions and run the position correction. Bodies that stayed still long
/// enough are put to sleep.
func (island *RpIsland) Solve(profile *RpProfile, step RpTimeStep, gravity mgl64.Vec3, allowSleep bool) {
	timer := MakeRpTimer()

	h := step.Dt

	// Integrate velocities and apply damping. Initialize the body state.
	for i := 0; i < island.M_bodyCount; i++ {
		b := island.M_bodies[i]

		c := b.M_sweep.C
		q := b.M_sweep.Q
		v := b.M_linearVelocity
		w := b.M_angularVelocity

		// Store positions for continuous collision.
		b.M_sweep.C0 = b.M_sweep.C
		b.M_sweep.Q0 = b.M_sweep.Q

		if b.M_type == RpBodyType.Rp_dynamicBody {
			// Integrate velocities.
			v = v.Add(gravity.Mul(b.M_gravityScale).Add(b.M_force.Mul(b.M_invMass)).Mul(h))
			w = w.Add(b.GetInverseInertiaTensorWorld().Mul3x1(b.M_torque).Mul(h))

			// Apply damping.
			// ODE: dv/dt + c * v = 0
			// Pade approximation:
			// v2 = v1 * 1 / (1 + c * dt)
			v = v.Mul(1.0 / (1.0 + h*b.M_linearDamping))
			w = w.Mul(1.0 / (1.0 + h*b.M_angularDamping))
		}

		island.M_positions[i].C = c
		island.M_positions[i].Q = q
		island.M_velocities[i].V = v
		island.M_velocities[i].W = w
	}

	timer.Reset()

	// Solver data
	solverData := MakeRpSolverData()
	solverData.Step = step
	solverData.Positions = island.M_positions
	solverData.Velocities = island.M_velocities

	// Initialize velocity constraints.
	contactSolverDef := MakeRpContactSolverDef()
	contactSolverDef.Step = step
	contactSolverDef.Pairs = island.M_pairs
	contactSolverDef.Count = island.M_pairCount
	contactSolverDef.Positions = island.M_positions
	contactSolverDef.Velocities = island.M_velocities

	contactSolver := MakeRpContactSolver(&contactSolverDef)
	contactSolver.InitializeVelocityConstraints()

	if step.WarmStarting {
		contactSolver.WarmStart()
	}

	for i := 0; i < island.M_jointCount; i++ {
		island.M_joints[i].InitBeforeSolve(solverData)
		if step.WarmStarting {
			island.M_joints[i].Warmstart(solverData)
		}
	}

	profile.SolveInit = timer.GetMilliseconds()

	// Solve velocity constraints
	timer.Reset()
	for i := 0; i < step.VelocityIterations; i++ {
		for j := 0; j < island.M_jointCount; j++ {
			island.M_joints[j].SolveVelocityConstraint(solverData)
		}

		contactSolver.SolveVelocityConstraints()
	}

	// Store impulses for warm starting
	contactSolver.StoreImpulses()
	profile.SolveVelocity = timer.GetMilliseconds()

	// Integrate positions
	for i := 0; i < island.M_bodyCount; i++ {
		c := island.M_positions[i].C
		q := island.M_positions[i].Q
		v := island.M_velocities[i].V
		w := island.M_velocities[i].W

		// Check for large velocities
		translation := v.Mul(h)
		if translation.Dot(translation) > RP_maxTranslationSquared {
			ratio := RP_maxTranslation / translation.Len()
			v = v.Mul(ratio)
		}

		rotation := w.Mul(h)
		if rotation.Dot(rotation) > RP_maxRotationSquared {
			ratio := RP_maxRotation / rotation.Len()
			w = w.Mul(ratio)
		}

		// Integrate
		c = c.Add(v.Mul(h))
		q = RpQuatIntegrate(q, w, h)

		island.M_positions[i].C = c
		island.M_positions[i].Q = q
		island.M_velocities[i].V = v
		island.M_velocities[i].W = w
	}

	// Solve position constraints
	timer.Reset()
	positionSolved := false
	for i := 0; i < step.PositionIterations; i++ {
		contactsOkay := contactSolver.SolvePositionConstraints()

		jointsOkay := true
		for j := 0; j < island.M_jointCount; j++ {
			jointOkay := island.M_joints[j].SolvePositionConstraint(solverData)
			jointsOkay = jointsOkay && jointOkay
		}

		if contactsOkay && jointsOkay {
			// Exit early if the position errors are small.
			positionSolved = true
			break
		}
	}

	// Copy state buffers back to the bodies
	for i := 0; i < island.M_bodyCount; i++ {
		body := island.M_bodies[i]
		body.M_sweep.C = island.M_positions[i].C
		body.M_sweep.Q = island.M_positions[i].Q
		body.M_linearVelocity = island.M_velocities[i].V
		body.M_angularVelocity = island.M_velocities[i].W
		body.SynchronizeTransform()
	}

	profile.SolvePosition = timer.GetMilliseconds()

	island.Report(&contactSolver)

	if allowSleep {
		minSleepTime := RP_maxFloat

		linTolSqr := RP_linearSleepTolerance * RP_linearSleepTolerance
		angTolSqr := RP_angularSleepTolerance * RP_angularSleepTolerance

		for i := 0; i < island.M_bodyCount; i++ {
			b := island.M_bodies[i]
			if b.GetType() == RpBodyType.Rp_staticBody {
				continue
			}

			if (b.M_flags&RpBody_Flags.E_autoSleepFlag) == 0 ||
				b.M_angularVelocity.Dot(b.M_angularVelocity) > angTolSqr ||
				b.M_linearVelocity.Dot(b.M_linearVelocity) > linTolSqr {
				b.M_sleepTime = 0.0
				minSleepTime = 0.0
			} else {
				b.M_sleepTime += h
				minSleepTime = math.Min(minSleepTime, b.M_sleepTime)
			}
		}

		if minSleepTime >= RP_timeToSleep && positionSolved {
			for i := 0; i < island.M_bodyCount; i++ {
				island.M_bodies[i].SetAwake(false)
			}
		}
	}
}

func (island *RpIsland) Report(solver *RpContactSolver) {
	if island.M_listener == nil {
		return
	}

	for i := 0; i < island.M_pairCount; i++ {
		impulse := solver.GetImpulse(i)
		island.M_listener.PostSolve(island.M_pairs[i], &impulse)
	}
}
