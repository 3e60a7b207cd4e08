package realphysics4d_test

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/hardentoo/realphysics4d"
)

var (
	staticBody  = realphysics4d.RpBodyType.Rp_staticBody
	dynamicBody = realphysics4d.RpBodyType.Rp_dynamicBody
	unitHalf    = mgl64.Vec3{0.25, 0.25, 0.25}
)

func worldWithGravity(gravity mgl64.Vec3) *realphysics4d.RpWorld {
	settings := realphysics4d.MakeRpSettings()
	settings.Gravity = gravity
	settings.AllowSleep = false
	return realphysics4d.NewRpWorld(settings)
}

func mustCreateJoint(t *testing.T, world *realphysics4d.RpWorld, def realphysics4d.RpJointDefInterface) realphysics4d.RpJointInterface {
	t.Helper()

	joint, err := world.CreateJoint(def)
	if err != nil {
		t.Fatalf("CreateJoint: %v", err)
	}

	return joint
}

func TestSliderFreeAxis(t *testing.T) {
	world := worldWithGravity(mgl64.Vec3{0, -9.81, 0})
	base := addBox(world, staticBody, mgl64.Vec3{}, unitHalf, 0)
	slider := addBox(world, dynamicBody, mgl64.Vec3{0, -1, 0}, unitHalf, 1)

	jd := realphysics4d.MakeRpSliderJointDef()
	jd.Initialize(base, slider, slider.GetPosition(), mgl64.Vec3{0, 1, 0})
	joint := mustCreateJoint(t, world, &jd).(*realphysics4d.RpSliderJoint)

	n := 30
	for i := 0; i < n; i++ {
		world.Step(1.0 / 60.0)
	}

	// Nothing opposes motion along the axis.
	wantV := -9.81 * float64(n) / 60.0
	v := slider.GetLinearVelocity()
	if math.Abs(v[1]-wantV) > 1e-6 || math.Abs(v[0]) > 1e-9 || math.Abs(v[2]) > 1e-9 {
		t.Errorf("velocity = %v, want (0, %v, 0)", v, wantV)
	}
	if w := slider.GetAngularVelocity(); w.Len() > 1e-9 {
		t.Errorf("angular velocity = %v", w)
	}

	if tr := joint.GetTranslation(); math.Abs(tr-(slider.GetPosition()[1]+1.0)) > 1e-9 {
		t.Errorf("translation %v does not follow the body at %v", tr, slider.GetPosition())
	}
}

func TestSliderLimit(t *testing.T) {
	world := worldWithGravity(mgl64.Vec3{0, -9.81, 0})
	base := addBox(world, staticBody, mgl64.Vec3{}, unitHalf, 0)
	slider := addBox(world, dynamicBody, mgl64.Vec3{0, -1, 0}, unitHalf, 1)

	jd := realphysics4d.MakeRpSliderJointDef()
	jd.Initialize(base, slider, slider.GetPosition(), mgl64.Vec3{0, 1, 0})
	jd.EnableLimit = true
	jd.MinTranslationLimit = -1.0
	jd.MaxTranslationLimit = 0.5
	joint := mustCreateJoint(t, world, &jd).(*realphysics4d.RpSliderJoint)

	lowest := 0.0
	for i := 0; i < 120; i++ {
		world.Step(1.0 / 60.0)
		lowest = math.Min(lowest, joint.GetTranslation())
	}

	if tr := joint.GetTranslation(); math.Abs(tr+1.0) > 0.02 {
		t.Errorf("translation = %v, want about -1", tr)
	}
	if lowest < -1.1 {
		t.Errorf("translation overshot the limit to %v", lowest)
	}
	if v := slider.GetLinearVelocity(); v.Len() > 0.05 {
		t.Errorf("slider still moving at %v", v)
	}
}

func TestSliderMotor(t *testing.T) {
	world := worldWithGravity(mgl64.Vec3{})
	base := addBox(world, staticBody, mgl64.Vec3{}, unitHalf, 0)
	slider := addBox(world, dynamicBody, mgl64.Vec3{2, 0, 0}, unitHalf, 1)

	jd := realphysics4d.MakeRpSliderJointDef()
	jd.Initialize(base, slider, slider.GetPosition(), mgl64.Vec3{1, 0, 0})
	jd.EnableMotor = true
	jd.MotorSpeed = 2.0
	jd.MaxMotorForce = 1000.0
	joint := mustCreateJoint(t, world, &jd).(*realphysics4d.RpSliderJoint)

	stepFor(world, 0.5)

	if v := slider.GetLinearVelocity(); math.Abs(v[0]-2.0) > 1e-3 {
		t.Errorf("velocity = %v, want 2 along x", v)
	}

	// The motor only needs force to accelerate, and there is nothing left to push.
	if f := joint.GetMotorForce(1.0 / 60.0); math.Abs(f) > 1e-3 {
		t.Errorf("motor force at steady speed = %v", f)
	}

	joint.EnableMotor(false)
	if joint.IsMotorEnabled() {
		t.Errorf("motor still enabled")
	}
}

func TestHingeHoldsAnchorAndAxis(t *testing.T) {
	world := worldWithGravity(mgl64.Vec3{0, -9.81, 0})
	base := addBox(world, staticBody, mgl64.Vec3{}, unitHalf, 0)
	arm := addBox(world, dynamicBody, mgl64.Vec3{1, 0, 0}, unitHalf, 1)

	anchor := mgl64.Vec3{}
	jd := realphysics4d.MakeRpHingeJointDef()
	jd.Initialize(base, arm, anchor, mgl64.Vec3{0, 0, 1})
	joint := mustCreateJoint(t, world, &jd).(*realphysics4d.RpHingeJoint)

	for i := 0; i < 120; i++ {
		world.Step(1.0 / 60.0)

		if d := arm.GetWorldPoint(joint.GetLocalAnchor2()).Sub(anchor).Len(); d > 0.02 {
			t.Fatalf("step %d: anchor drifted by %v", i, d)
		}
		if w := arm.GetAngularVelocity(); math.Hypot(w[0], w[1]) > 1e-3 {
			t.Fatalf("step %d: rotation off the hinge axis %v", i, w)
		}
	}

	// The arm swings through the bottom; its distance to the pivot is unchanged.
	if d := arm.GetPosition().Len(); math.Abs(d-1.0) > 0.02 {
		t.Errorf("arm at distance %v from the pivot", d)
	}
}

func TestHingeLimit(t *testing.T) {
	world := worldWithGravity(mgl64.Vec3{0, -9.81, 0})
	base := addBox(world, staticBody, mgl64.Vec3{}, unitHalf, 0)
	arm := addBox(world, dynamicBody, mgl64.Vec3{1, 0, 0}, unitHalf, 1)

	jd := realphysics4d.MakeRpHingeJointDef()
	jd.Initialize(base, arm, mgl64.Vec3{}, mgl64.Vec3{0, 0, 1})
	jd.EnableLimit = true
	jd.MinAngleLimit = -0.5
	jd.MaxAngleLimit = 0.5
	joint := mustCreateJoint(t, world, &jd).(*realphysics4d.RpHingeJoint)

	lowest := 0.0
	for i := 0; i < 120; i++ {
		world.Step(1.0 / 60.0)
		lowest = math.Min(lowest, joint.GetAngle())
	}

	if a := joint.GetAngle(); math.Abs(a+0.5) > 0.05 {
		t.Errorf("angle = %v, want about -0.5", a)
	}
	if lowest < -0.6 {
		t.Errorf("angle overshot the limit to %v", lowest)
	}
}

func TestHingeMotor(t *testing.T) {
	world := worldWithGravity(mgl64.Vec3{})
	base := addBox(world, staticBody, mgl64.Vec3{}, unitHalf, 0)
	wheel := addBox(world, dynamicBody, mgl64.Vec3{}, unitHalf, 1)

	jd := realphysics4d.MakeRpHingeJointDef()
	jd.Initialize(base, wheel, mgl64.Vec3{}, mgl64.Vec3{0, 1, 0})
	jd.EnableMotor = true
	jd.MotorSpeed = 1.5
	jd.MaxMotorTorque = 100.0
	mustCreateJoint(t, world, &jd)

	stepFor(world, 0.5)

	if w := wheel.GetAngularVelocity(); w.Sub(mgl64.Vec3{0, 1.5, 0}).Len() > 1e-3 {
		t.Errorf("angular velocity = %v, want 1.5 about y", w)
	}
}

func TestBallAndSocketPendulum(t *testing.T) {
	for _, technique := range []uint8{
		realphysics4d.RpJointsPositionCorrectionTechnique.E_nonLinearGaussSeidel,
		realphysics4d.RpJointsPositionCorrectionTechnique.E_baumgarteJoints,
	} {
		world := worldWithGravity(mgl64.Vec3{0, -9.81, 0})
		base := addBox(world, staticBody, mgl64.Vec3{}, unitHalf, 0)
		bob := addBox(world, dynamicBody, mgl64.Vec3{1, 0, 0.5}, unitHalf, 1)

		anchor := mgl64.Vec3{}
		jd := realphysics4d.MakeRpBallAndSocketJointDef()
		jd.Initialize(base, bob, anchor)
		jd.PositionCorrectionTechnique = technique
		joint := mustCreateJoint(t, world, &jd).(*realphysics4d.RpBallAndSocketJoint)

		worst := 0.0
		for i := 0; i < 120; i++ {
			world.Step(1.0 / 60.0)
			worst = math.Max(worst, bob.GetWorldPoint(joint.GetLocalAnchor2()).Sub(anchor).Len())
		}

		if worst > 0.05 {
			t.Errorf("technique %d: anchor drifted by up to %v", technique, worst)
		}
	}
}

func TestFixedJointHolds(t *testing.T) {
	world := worldWithGravity(mgl64.Vec3{0, -9.81, 0})
	base := addBox(world, staticBody, mgl64.Vec3{}, unitHalf, 0)

	bd := realphysics4d.MakeRpBodyDef()
	bd.Type = dynamicBody
	bd.Position = mgl64.Vec3{1, 0, 0}
	bd.Orientation = mgl64.QuatRotate(0.3, mgl64.Vec3{0, 1, 0})
	beam := world.CreateBody(&bd)
	hull := realphysics4d.MakeRpConvexHullShape()
	hull.SetAsBox(0.5, 0.1, 0.1)
	beam.CreateProxyShapeWithDensity(&hull, 1)

	jd := realphysics4d.MakeRpFixedJointDef()
	jd.Initialize(base, beam, mgl64.Vec3{0.5, 0, 0})
	mustCreateJoint(t, world, &jd)

	start := beam.GetPosition()
	startQ := beam.GetOrientation()

	stepFor(world, 2)

	if d := beam.GetPosition().Sub(start).Len(); d > 0.02 {
		t.Errorf("beam moved by %v", d)
	}

	q := beam.GetOrientation().Mul(startQ.Inverse())
	if angle := 2.0 * math.Asin(math.Min(1.0, q.V.Len())); angle > 0.02 {
		t.Errorf("beam rotated by %v", angle)
	}
}

func TestDistanceJoint(t *testing.T) {
	world := worldWithGravity(mgl64.Vec3{0, -9.81, 0})
	base := addBox(world, staticBody, mgl64.Vec3{0, 3, 0}, unitHalf, 0)
	bob := addBox(world, dynamicBody, mgl64.Vec3{1.5, 3, 0}, unitHalf, 1)

	jd := realphysics4d.MakeRpDistanceJointDef()
	jd.Initialize(base, bob, base.GetPosition(), bob.GetPosition())
	joint := mustCreateJoint(t, world, &jd).(*realphysics4d.RpDistanceJoint)

	if math.Abs(joint.GetLength()-1.5) > 1e-12 {
		t.Fatalf("length = %v, want 1.5", joint.GetLength())
	}

	for i := 0; i < 120; i++ {
		world.Step(1.0 / 60.0)
		if d := bob.GetPosition().Sub(base.GetPosition()).Len(); math.Abs(d-1.5) > 0.03 {
			t.Fatalf("step %d: distance %v, want 1.5", i, d)
		}
	}

	if f := joint.GetReactionForce(60.0); f.Len() == 0 {
		t.Errorf("rod carries no force")
	}
}

func TestCreateJointErrors(t *testing.T) {
	world := worldWithGravity(mgl64.Vec3{})
	a := addBox(world, staticBody, mgl64.Vec3{}, unitHalf, 0)
	b := addBox(world, dynamicBody, mgl64.Vec3{2, 0, 0}, unitHalf, 1)

	sameBody := realphysics4d.MakeRpBallAndSocketJointDef()
	sameBody.Initialize(b, b, mgl64.Vec3{})

	hinge := realphysics4d.MakeRpHingeJointDef()
	hinge.Initialize(a, b, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 1})
	hinge.MinAngleLimit = 1
	hinge.MaxAngleLimit = -1

	hingeTurns := realphysics4d.MakeRpHingeJointDef()
	hingeTurns.Initialize(a, b, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 1})
	hingeTurns.MaxAngleLimit = 10

	slider := realphysics4d.MakeRpSliderJointDef()
	slider.Initialize(a, b, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 0, 0})
	slider.MaxMotorForce = -1

	sliderLimits := realphysics4d.MakeRpSliderJointDef()
	sliderLimits.Initialize(a, b, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 0, 0})
	sliderLimits.MinTranslationLimit = 2
	sliderLimits.MaxTranslationLimit = 1

	distance := realphysics4d.MakeRpDistanceJointDef()
	distance.Initialize(a, b, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 0, 0})

	tests := []struct {
		name   string
		def    realphysics4d.RpJointDefInterface
		target error
	}{
		{name: "same body", def: &sameBody, target: realphysics4d.ErrRpSameBody},
		{name: "inverted hinge limits", def: &hinge, target: realphysics4d.ErrRpInvalidLimits},
		{name: "hinge limits beyond a turn", def: &hingeTurns, target: realphysics4d.ErrRpInvalidLimits},
		{name: "negative slider force", def: &slider, target: realphysics4d.ErrRpInvalidLimits},
		{name: "inverted slider limits", def: &sliderLimits, target: realphysics4d.ErrRpInvalidLimits},
		{name: "zero distance", def: &distance, target: realphysics4d.ErrRpInvalidLimits},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			joint, err := world.CreateJoint(tt.def)
			if !errors.Is(err, tt.target) {
				t.Errorf("error = %v, want %v", err, tt.target)
			}
			if joint != nil {
				t.Errorf("joint created from an invalid definition")
			}
		})
	}

	if world.GetJointCount() != 0 {
		t.Errorf("joint count = %d after failed creations", world.GetJointCount())
	}
}

func TestJointDisablesCollision(t *testing.T) {
	world := worldWithGravity(mgl64.Vec3{})
	a := addBox(world, dynamicBody, mgl64.Vec3{}, mgl64.Vec3{0.5, 0.5, 0.5}, 1)
	b := addBox(world, dynamicBody, mgl64.Vec3{0.9, 0, 0}, mgl64.Vec3{0.5, 0.5, 0.5}, 1)

	world.Step(1.0 / 60.0)
	if world.GetPairCount() != 1 {
		t.Fatalf("overlapping boxes have %d pairs", world.GetPairCount())
	}

	jd := realphysics4d.MakeRpBallAndSocketJointDef()
	jd.Initialize(a, b, mgl64.Vec3{0.45, 0, 0})
	joint := mustCreateJoint(t, world, &jd)

	world.Step(1.0 / 60.0)
	if world.GetPairCount() != 0 {
		t.Errorf("jointed bodies still have %d pairs", world.GetPairCount())
	}

	world.DestroyJoint(joint)
	if world.GetJointCount() != 0 || a.GetJointList() != nil || b.GetJointList() != nil {
		t.Errorf("joint not fully removed")
	}
}
