package realphysics4d

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"
)

const RP_DEBUG = false

func RpAssert(a bool) {
	if !a {
		panic("RpAssert")
	}
}

const RP_maxFloat = math.MaxFloat64
const RP_pi = math.Pi

/// @file
/// Global tuning constants based on meters-kilograms-seconds (MKS) units.
///

// Collision

/// Tolerance used by the contact generator to reject degenerate edges and
/// near-parallel edge pairs.
const RP_epsilon = 1e-5

/// The maximum number of raw contact candidates produced for one pair
/// in one step.
const RP_maxContactCandidates = 32

/// The maximum number of contact points kept in a manifold.
const RP_maxManifoldPoints = 4

/// The maximum number of vertices on a convex hull face.
const RP_maxFaceVertices = 16

/// This is used to fatten AABBs in the dynamic tree. This allows proxies
/// to move by a small amount without triggering a tree adjustment.
/// This is in meters.
const RP_aabbExtension = 0.1

/// This is used to fatten AABBs in the dynamic tree. This is used to predict
/// the future position based on the current displacement.
/// This is a dimensionless multiplier.
const RP_aabbMultiplier = 2.0

/// A small length used as a collision and constraint tolerance. Usually it is
/// chosen to be numerically significant, but visually insignificant.
const RP_linearSlop = 0.005

/// A small angle used as a collision and constraint tolerance.
const RP_angularSlop = (2.0 / 180.0 * RP_pi)

/// Two contact points closer than this in both local frames are treated as
/// the same point across steps (impulses are carried over).
const RP_persistentContactDistance = 0.02

// Dynamics

/// A velocity threshold for elastic collisions. Any collision with a relative linear
/// velocity below this threshold will be treated as inelastic.
const RP_velocityThreshold = 1.0

/// The maximum linear position correction used when solving constraints. This helps to
/// prevent overshoot.
const RP_maxLinearCorrection = 0.2

/// The maximum angular position correction used when solving constraints.
const RP_maxAngularCorrection = (8.0 / 180.0 * RP_pi)

/// The maximum linear velocity of a body. This limit is very large and is used
/// to prevent numerical problems. You shouldn't need to adjust this.
const RP_maxTranslation = 2.0
const RP_maxTranslationSquared = (RP_maxTranslation * RP_maxTranslation)

/// The maximum angular velocity of a body.
const RP_maxRotation = (0.5 * RP_pi)
const RP_maxRotationSquared = (RP_maxRotation * RP_maxRotation)

/// This scale factor controls how fast overlap is resolved. Ideally this would be 1 so
/// that overlap is removed in one time step. However using values close to 1 often lead
/// to overshoot.
const RP_baumgarte = 0.2

/// Position correction factor of the joint constraints.
const RP_beta = 0.2

// Sleep

/// The time that a body must be still before it will go to sleep.
const RP_timeToSleep = 0.5

/// A body cannot sleep if its linear velocity is above this tolerance.
const RP_linearSleepTolerance = 0.01

/// A body cannot sleep if its angular velocity is above this tolerance.
const RP_angularSleepTolerance = (2.0 / 180.0 * RP_pi)

var ErrRpInvalidSettings = errors.New("realphysics4d: invalid settings")

/// Explicit engine configuration, handed to the world and from there to the
/// contact generator and the solvers.
type RpSettings struct {
	Epsilon                   float64    `yaml:"epsilon"`
	MaxContactCandidates      int        `yaml:"max_contact_candidates"`
	VelocityIterations        int        `yaml:"velocity_iterations"`
	PositionIterations        int        `yaml:"position_iterations"`
	Beta                      float64    `yaml:"beta"`
	Baumgarte                 float64    `yaml:"baumgarte"`
	LinearSlop                float64    `yaml:"linear_slop"`
	MaxLinearCorrection       float64    `yaml:"max_linear_correction"`
	WarmStarting              bool       `yaml:"warm_starting"`
	ApproximationCorrection   bool       `yaml:"approximation_correction"`
	FeatureAngularTolerance   float64    `yaml:"feature_angular_tolerance"`
	PersistentContactDistance float64    `yaml:"persistent_contact_distance"`
	AllowSleep                bool       `yaml:"allow_sleep"`
	Gravity                   mgl64.Vec3 `yaml:"gravity,flow"`
}

func MakeRpSettings() RpSettings {
	return RpSettings{
		Epsilon:                   RP_epsilon,
		MaxContactCandidates:      RP_maxContactCandidates,
		VelocityIterations:        8,
		PositionIterations:        3,
		Beta:                      RP_beta,
		Baumgarte:                 RP_baumgarte,
		LinearSlop:                RP_linearSlop,
		MaxLinearCorrection:       RP_maxLinearCorrection,
		WarmStarting:              true,
		ApproximationCorrection:   true,
		FeatureAngularTolerance:   0.02,
		PersistentContactDistance: RP_persistentContactDistance,
		AllowSleep:                true,
		Gravity:                   mgl64.Vec3{0, -9.81, 0},
	}
}

func NewRpSettings() *RpSettings {
	res := MakeRpSettings()
	return &res
}

func (s RpSettings) Validate() error {
	switch {
	case !(s.Epsilon > 0):
		return fmt.Errorf("%w: epsilon must be positive, got %v", ErrRpInvalidSettings, s.Epsilon)
	case s.MaxContactCandidates <= 0 || s.MaxContactCandidates > RP_maxContactCandidates:
		return fmt.Errorf("%w: max_contact_candidates must be in [1, %d], got %d", ErrRpInvalidSettings, RP_maxContactCandidates, s.MaxContactCandidates)
	case s.VelocityIterations <= 0:
		return fmt.Errorf("%w: velocity_iterations must be positive, got %d", ErrRpInvalidSettings, s.VelocityIterations)
	case s.PositionIterations < 0:
		return fmt.Errorf("%w: position_iterations must not be negative, got %d", ErrRpInvalidSettings, s.PositionIterations)
	case s.Beta < 0 || s.Beta > 1:
		return fmt.Errorf("%w: beta must be in [0, 1], got %v", ErrRpInvalidSettings, s.Beta)
	case s.Baumgarte < 0 || s.Baumgarte > 1:
		return fmt.Errorf("%w: baumgarte must be in [0, 1], got %v", ErrRpInvalidSettings, s.Baumgarte)
	case s.LinearSlop < 0:
		return fmt.Errorf("%w: linear_slop must not be negative, got %v", ErrRpInvalidSettings, s.LinearSlop)
	case !(s.MaxLinearCorrection > 0):
		return fmt.Errorf("%w: max_linear_correction must be positive, got %v", ErrRpInvalidSettings, s.MaxLinearCorrection)
	case s.FeatureAngularTolerance < 0 || s.FeatureAngularTolerance >= 0.5*RP_pi:
		return fmt.Errorf("%w: feature_angular_tolerance must be in [0, pi/2), got %v", ErrRpInvalidSettings, s.FeatureAngularTolerance)
	case s.PersistentContactDistance < 0:
		return fmt.Errorf("%w: persistent_contact_distance must not be negative, got %v", ErrRpInvalidSettings, s.PersistentContactDistance)
	}

	return nil
}

/// Decode YAML on top of the defaults. Keys missing from the document keep
/// their default value.
func ParseRpSettings(data []byte) (RpSettings, error) {
	settings := MakeRpSettings()
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return MakeRpSettings(), fmt.Errorf("realphysics4d: decode settings: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return MakeRpSettings(), err
	}

	return settings, nil
}

func LoadRpSettings(path string) (RpSettings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return MakeRpSettings(), fmt.Errorf("realphysics4d: read settings %s: %w", path, err)
	}

	return ParseRpSettings(data)
}
