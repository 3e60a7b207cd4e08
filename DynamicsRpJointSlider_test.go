package realphysics4d

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func newTestBox(world *RpWorld, bodyType uint8, position mgl64.Vec3, orientation mgl64.Quat, half mgl64.Vec3, density float64) *RpBody {
	bd := MakeRpBodyDef()
	bd.Type = bodyType
	bd.Position = position
	bd.Orientation = orientation
	body := world.CreateBody(&bd)

	hull := MakeRpConvexHullShape()
	hull.SetAsBox(half[0], half[1], half[2])
	body.CreateProxyShapeWithDensity(&hull, density)

	return body
}

func newTestSlider(t *testing.T, configure func(def *RpSliderJointDef)) (*RpWorld, *RpBody, *RpSliderJoint) {
	t.Helper()

	settings := MakeRpSettings()
	settings.Gravity = mgl64.Vec3{}
	settings.AllowSleep = false
	world := NewRpWorld(settings)

	half := mgl64.Vec3{0.25, 0.25, 0.25}
	base := newTestBox(world, RpBodyType.Rp_staticBody, mgl64.Vec3{}, mgl64.QuatIdent(), half, 0)
	slider := newTestBox(world, RpBodyType.Rp_dynamicBody, mgl64.Vec3{2, 0, 0}, mgl64.QuatIdent(), half, 1)

	jd := MakeRpSliderJointDef()
	jd.Initialize(base, slider, slider.GetPosition(), mgl64.Vec3{1, 0, 0})
	if configure != nil {
		configure(&jd)
	}

	joint, err := world.CreateJoint(&jd)
	if err != nil {
		t.Fatalf("CreateJoint: %v", err)
	}

	return world, slider, joint.(*RpSliderJoint)
}

func TestSliderUndrivenImpulsesStayZero(t *testing.T) {
	world, slider, joint := newTestSlider(t, nil)

	for i := 0; i < 60; i++ {
		world.Step(1.0 / 60.0)

		if joint.M_impulseTranslation.Len() > 1e-9 || joint.M_impulseRotation.Len() > 1e-9 {
			t.Fatalf("step %d: translation impulse %v, rotation impulse %v", i, joint.M_impulseTranslation, joint.M_impulseRotation)
		}
		if joint.M_impulseLowerLimit != 0 || joint.M_impulseUpperLimit != 0 || joint.M_impulseMotor != 0 {
			t.Fatalf("step %d: disabled rows carry impulses %v %v %v",
				i, joint.M_impulseLowerLimit, joint.M_impulseUpperLimit, joint.M_impulseMotor)
		}
	}

	if v := slider.GetLinearVelocity(); v.Len() > 1e-9 {
		t.Errorf("slider started moving at %v", v)
	}
	if tr := joint.GetTranslation(); math.Abs(tr) > 1e-9 {
		t.Errorf("translation = %v", tr)
	}
}

func TestSliderRaisedLowerLimitPushesBack(t *testing.T) {
	world, _, joint := newTestSlider(t, func(def *RpSliderJointDef) {
		def.EnableLimit = true
		def.MinTranslationLimit = -1.0
		def.MaxTranslationLimit = 5.0
	})

	world.Step(1.0 / 60.0)
	if tr := joint.GetTranslation(); math.Abs(tr) > 1e-9 {
		t.Fatalf("translation inside the limits moved to %v", tr)
	}

	joint.SetMinTranslationLimit(3.0)

	previous := joint.GetTranslation()
	for i := 0; i < 120; i++ {
		world.Step(1.0 / 60.0)

		tr := joint.GetTranslation()
		if tr < previous-1e-9 {
			t.Fatalf("step %d: translation went back from %v to %v", i, previous, tr)
		}
		if tr > 3.0+RP_linearSlop {
			t.Fatalf("step %d: translation overshot to %v", i, tr)
		}
		previous = tr
	}

	if math.Abs(previous-3.0) > 0.01 {
		t.Errorf("translation = %v, want 3", previous)
	}
}

func TestRotationErrorTakesShortestWay(t *testing.T) {
	axis := mgl64.Vec3{0, 0, 1}
	rotation := mgl64.QuatRotate(0.2, axis)
	want := axis.Mul(2.0 * math.Sin(0.1))

	// q and -q are the same rotation.
	for _, q2 := range []mgl64.Quat{rotation, rotation.Scale(-1.0)} {
		got := rpRotationError(mgl64.QuatIdent(), q2, mgl64.QuatIdent())
		if !vec3Near(got, want, 1e-12) {
			t.Errorf("error for %v = %v, want %v", q2, got, want)
		}
	}

	slider := RpSliderJoint{M_initOrientationDifferenceInv: mgl64.QuatIdent()}
	fixed := RpFixedJoint{M_initOrientationDifferenceInv: mgl64.QuatIdent()}
	negated := rotation.Scale(-1.0)
	if got := slider.rotationError(mgl64.QuatIdent(), negated); !vec3Near(got, want, 1e-12) {
		t.Errorf("slider error = %v, want %v", got, want)
	}
	if got := fixed.rotationError(mgl64.QuatIdent(), negated); !vec3Near(got, want, 1e-12) {
		t.Errorf("fixed error = %v, want %v", got, want)
	}
}
