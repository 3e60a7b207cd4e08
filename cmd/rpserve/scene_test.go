package main

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	rp "github.com/hardentoo/realphysics4d"
)

func TestLoadScene(t *testing.T) {
	scene, err := LoadScene("testdata/scene.yaml")
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}

	if len(scene.Bodies) != 4 || len(scene.Joints) != 2 {
		t.Fatalf("got %d bodies and %d joints, want 4 and 2", len(scene.Bodies), len(scene.Joints))
	}

	if scene.Bodies[0].Kind != "static" {
		t.Errorf("ground type = %q", scene.Bodies[0].Kind)
	}
	if scene.Bodies[1].HalfExtent != (mgl64.Vec3{0.5, 0.5, 0.5}) {
		t.Errorf("crate box = %v", scene.Bodies[1].HalfExtent)
	}
	if !scene.Joints[0].EnableLimit || scene.Joints[0].MinAngleLimit != -1.5 {
		t.Errorf("hinge record = %+v", scene.Joints[0])
	}
}

func TestSceneBuild(t *testing.T) {
	scene, err := LoadScene("testdata/scene.yaml")
	if err != nil {
		t.Fatalf("LoadScene: %v", err)
	}

	settings, err := rp.LoadRpSettings("testdata/settings.yaml")
	if err != nil {
		t.Fatalf("LoadRpSettings: %v", err)
	}
	if settings.VelocityIterations != 10 || settings.PositionIterations != 4 {
		t.Fatalf("settings = %+v", settings)
	}

	world := rp.NewRpWorld(settings)
	bodies, err := scene.Build(world)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if world.GetBodyCount() != 4 || world.GetJointCount() != 2 {
		t.Fatalf("world has %d bodies and %d joints", world.GetBodyCount(), world.GetJointCount())
	}

	if bodies[0].GetType() != rp.RpBodyType.Rp_staticBody {
		t.Errorf("ground is not static")
	}
	if bodies[1].GetType() != rp.RpBodyType.Rp_dynamicBody {
		t.Errorf("crate is not dynamic")
	}
	if bodies[3].IsSleepingAllowed() {
		t.Errorf("pendulum may sleep")
	}

	// Density 1 on a unit cube.
	if math.Abs(bodies[1].GetMass()-1.0) > 1e-9 {
		t.Errorf("crate mass = %v, want 1", bodies[1].GetMass())
	}

	hinge, ok := world.GetJointList().(*rp.RpHingeJoint)
	if !ok {
		t.Fatalf("first joint is %T, want *RpHingeJoint", world.GetJointList())
	}
	if !hinge.IsLimitEnabled() || hinge.GetMinAngleLimit() != -1.5 || hinge.GetMaxAngleLimit() != 0.5 {
		t.Errorf("hinge limits not copied: enabled=%t [%v, %v]", hinge.IsLimitEnabled(), hinge.GetMinAngleLimit(), hinge.GetMaxAngleLimit())
	}

	distance, ok := hinge.GetNext().(*rp.RpDistanceJoint)
	if !ok {
		t.Fatalf("second joint is %T, want *RpDistanceJoint", hinge.GetNext())
	}
	if math.Abs(distance.GetLength()-2.0) > 1e-9 {
		t.Errorf("distance length = %v, want 2", distance.GetLength())
	}

	for i := 0; i < 60; i++ {
		world.Step(1.0 / 60.0)
	}

	// The crate rests on the ground, the pendulum hangs from its anchor.
	if y := bodies[1].GetPosition()[1]; math.Abs(y-0.5) > 0.05 {
		t.Errorf("crate y = %v, want about 0.5", y)
	}
	anchor := mgl64.Vec3{3, 6, 0}
	if d := bodies[3].GetPosition().Sub(anchor).Len(); math.Abs(d-2.0) > 0.05 {
		t.Errorf("pendulum distance = %v, want about 2", d)
	}
}

func TestSceneErrors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		target error
	}{
		{
			name: "unknown body type",
			doc:  "bodies:\n  - name: a\n    type: ghost\n",
		},
		{
			name: "unknown joint body",
			doc:  "bodies:\n  - name: a\n    box: [1, 1, 1]\n    density: 1\njoints:\n  - type: fixed\n    body1: a\n    body2: b\n",
		},
		{
			name: "unknown joint type",
			doc:  "bodies:\n  - name: a\n  - name: b\njoints:\n  - type: rope\n    body1: a\n    body2: b\n",
		},
		{
			name:   "inverted hinge limits",
			doc:    "bodies:\n  - name: a\n    type: static\n  - name: b\n    box: [1, 1, 1]\n    density: 1\njoints:\n  - type: hinge\n    body1: a\n    body2: b\n    axis: [0, 0, 1]\n    min_angle: 1\n    max_angle: -1\n",
			target: rp.ErrRpInvalidLimits,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var scene Scene
			if err := yaml.Unmarshal([]byte(tt.doc), &scene); err != nil {
				t.Fatalf("Unmarshal: %v", err)
			}

			_, err := scene.Build(rp.NewRpWorld(rp.MakeRpSettings()))
			if err == nil {
				t.Fatalf("Build succeeded")
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("error %v does not wrap %v", err, tt.target)
			}
		})
	}
}

func TestSnapshotJSON(t *testing.T) {
	world := rp.NewRpWorld(rp.MakeRpSettings())
	bd := rp.MakeRpBodyDef()
	bd.Type = rp.RpBodyType.Rp_dynamicBody
	bd.Position = mgl64.Vec3{1, 2, 3}
	bd.UserData = "box"
	body := world.CreateBody(&bd)

	data, err := json.Marshal(TakeSnapshot(7, []*rp.RpBody{body}))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	want := `{"step":7,"bodies":[{"id":"box","position":[1,2,3],"orientation":[1,0,0,0],"awake":true}]}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}
