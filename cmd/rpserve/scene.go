package main

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jinzhu/copier"
	"gopkg.in/yaml.v3"

	rp "github.com/hardentoo/realphysics4d"
)

// Scene is the YAML description of the bodies and joints of a demo world.
type Scene struct {
	Bodies []SceneBody  `yaml:"bodies"`
	Joints []SceneJoint `yaml:"joints"`
}

// SceneBody fields named like RpBodyDef fields are copied onto the body
// definition. Empty values keep the definition defaults.
type SceneBody struct {
	Name string `yaml:"name" copier:"-"`
	Kind string `yaml:"type" copier:"-"`

	Position        mgl64.Vec3 `yaml:"position,flow"`
	LinearVelocity  mgl64.Vec3 `yaml:"linear_velocity,flow"`
	AngularVelocity mgl64.Vec3 `yaml:"angular_velocity,flow"`
	LinearDamping   float64    `yaml:"linear_damping"`
	AngularDamping  float64    `yaml:"angular_damping"`
	FixedRotation   bool       `yaml:"fixed_rotation"`
	GravityScale    float64    `yaml:"gravity_scale"`

	// w, x, y, z
	Rotation   [4]float64 `yaml:"orientation,flow" copier:"-"`
	NoSleep    bool       `yaml:"no_sleep" copier:"-"`
	HalfExtent mgl64.Vec3 `yaml:"box,flow" copier:"-"`

	Density     float64 `yaml:"density" copier:"-"`
	Friction    float64 `yaml:"friction" copier:"-"`
	Restitution float64 `yaml:"restitution" copier:"-"`
}

// SceneJoint fields named like joint definition fields are copied onto the
// definition built for the joint type.
type SceneJoint struct {
	Kind    string     `yaml:"type" copier:"-"`
	From    string     `yaml:"body1" copier:"-"`
	To      string     `yaml:"body2" copier:"-"`
	Anchor  mgl64.Vec3 `yaml:"anchor,flow" copier:"-"`
	Anchor2 mgl64.Vec3 `yaml:"anchor2,flow" copier:"-"`
	Axis    mgl64.Vec3 `yaml:"axis,flow" copier:"-"`

	CollideConnected bool `yaml:"collide_connected"`

	EnableLimit         bool    `yaml:"enable_limit"`
	EnableMotor         bool    `yaml:"enable_motor"`
	MotorSpeed          float64 `yaml:"motor_speed"`
	MinTranslationLimit float64 `yaml:"min_translation"`
	MaxTranslationLimit float64 `yaml:"max_translation"`
	MaxMotorForce       float64 `yaml:"max_motor_force"`
	MinAngleLimit       float64 `yaml:"min_angle"`
	MaxAngleLimit       float64 `yaml:"max_angle"`
	MaxMotorTorque      float64 `yaml:"max_motor_torque"`
	FrequencyHz         float64 `yaml:"frequency_hz"`
	DampingRatio        float64 `yaml:"damping_ratio"`
}

func LoadScene(path string) (Scene, error) {
	var scene Scene

	data, err := os.ReadFile(path)
	if err != nil {
		return scene, fmt.Errorf("read scene %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &scene); err != nil {
		return scene, fmt.Errorf("decode scene %s: %w", path, err)
	}

	return scene, nil
}

func bodyType(kind string) (uint8, error) {
	switch kind {
	case "", "dynamic":
		return rp.RpBodyType.Rp_dynamicBody, nil
	case "static":
		return rp.RpBodyType.Rp_staticBody, nil
	case "kinematic":
		return rp.RpBodyType.Rp_kinematicBody, nil
	}

	return 0, fmt.Errorf("unknown body type %q", kind)
}

// Build creates the scene bodies and joints in the world. It returns the
// bodies in scene order.
func (scene Scene) Build(world *rp.RpWorld) ([]*rp.RpBody, error) {
	bodies := make([]*rp.RpBody, 0, len(scene.Bodies))
	byName := make(map[string]*rp.RpBody, len(scene.Bodies))

	for i, record := range scene.Bodies {
		bd := rp.MakeRpBodyDef()
		if err := copier.CopyWithOption(&bd, &record, copier.Option{IgnoreEmpty: true}); err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}

		kind, err := bodyType(record.Kind)
		if err != nil {
			return nil, fmt.Errorf("body %d: %w", i, err)
		}
		bd.Type = kind
		bd.AllowSleep = !record.NoSleep

		if record.Rotation != [4]float64{} {
			bd.Orientation = mgl64.Quat{W: record.Rotation[0], V: mgl64.Vec3{record.Rotation[1], record.Rotation[2], record.Rotation[3]}}.Normalize()
		}

		name := record.Name
		if name == "" {
			name = fmt.Sprintf("body%d", i)
		}
		bd.UserData = name

		body := world.CreateBody(&bd)
		if body == nil {
			return nil, fmt.Errorf("body %s: %w", name, rp.ErrRpWorldLocked)
		}

		if record.HalfExtent != (mgl64.Vec3{}) {
			hull := rp.MakeRpConvexHullShape()
			hull.SetAsBox(record.HalfExtent[0], record.HalfExtent[1], record.HalfExtent[2])

			sd := rp.MakeRpProxyShapeDef()
			sd.Shape = &hull
			sd.Density = record.Density
			if record.Friction > 0 {
				sd.Friction = record.Friction
			}
			sd.Restitution = record.Restitution
			body.CreateProxyShape(&sd)
		}

		bodies = append(bodies, body)
		byName[name] = body
	}

	for i, record := range scene.Joints {
		body1, ok1 := byName[record.From]
		body2, ok2 := byName[record.To]
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("joint %d: unknown body %q or %q", i, record.From, record.To)
		}

		def, err := record.jointDef(body1, body2)
		if err != nil {
			return nil, fmt.Errorf("joint %d: %w", i, err)
		}

		if _, err := world.CreateJoint(def); err != nil {
			return nil, fmt.Errorf("joint %d: %w", i, err)
		}
	}

	return bodies, nil
}

func (record SceneJoint) jointDef(body1, body2 *rp.RpBody) (rp.RpJointDefInterface, error) {
	var def rp.RpJointDefInterface

	switch record.Kind {
	case "ball_and_socket":
		jd := rp.MakeRpBallAndSocketJointDef()
		jd.Initialize(body1, body2, record.Anchor)
		def = &jd

	case "fixed":
		jd := rp.MakeRpFixedJointDef()
		jd.Initialize(body1, body2, record.Anchor)
		def = &jd

	case "hinge":
		jd := rp.MakeRpHingeJointDef()
		jd.Initialize(body1, body2, record.Anchor, record.Axis)
		def = &jd

	case "slider":
		jd := rp.MakeRpSliderJointDef()
		jd.Initialize(body1, body2, record.Anchor, record.Axis)
		def = &jd

	case "distance":
		jd := rp.MakeRpDistanceJointDef()
		jd.Initialize(body1, body2, record.Anchor, record.Anchor2)
		def = &jd

	default:
		return nil, fmt.Errorf("unknown joint type %q", record.Kind)
	}

	if err := copier.CopyWithOption(def, &record, copier.Option{IgnoreEmpty: true}); err != nil {
		return nil, err
	}

	return def, nil
}
