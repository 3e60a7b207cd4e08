package realphysics4d

import "github.com/go-gl/mathgl/mgl64"

/// Profiling data. Times are in milliseconds.
type RpProfile struct {
	Step          float64
	Collide       float64
	Solve         float64
	SolveInit     float64
	SolveVelocity float64
	SolvePosition float64
	Broadphase    float64
}

func MakeRpProfile() RpProfile {
	return RpProfile{}
}

/// This is an internal structure.
type RpTimeStep struct {
	Dt                 float64 // time step
	Inv_dt             float64 // inverse time step (0 if dt == 0).
	DtRatio            float64 // dt * inv_dt0
	VelocityIterations int
	PositionIterations int
	WarmStarting       bool

	// Stabilization, copied from RpSettings.
	Beta                float64
	Baumgarte           float64
	LinearSlop          float64
	MaxLinearCorrection float64
}

func MakeRpTimeStep() RpTimeStep {
	return RpTimeStep{}
}

/// Center of mass position and orientation of a body inside an island.
type RpPosition struct {
	C mgl64.Vec3
	Q mgl64.Quat
}

/// Linear and angular velocity of a body inside an island.
type RpVelocity struct {
	V mgl64.Vec3
	W mgl64.Vec3
}

/// Solver Data
type RpSolverData struct {
	Step       RpTimeStep
	Positions  []RpPosition
	Velocities []RpVelocity
}

func MakeRpSolverData() RpSolverData {
	return RpSolverData{}
}
