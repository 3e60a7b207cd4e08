package realphysics4d_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/hardentoo/realphysics4d"
)

// buildPile creates a small scene mixing contacts and joints.
func buildPile(world *realphysics4d.RpWorld) []*realphysics4d.RpBody {
	dynamic := realphysics4d.RpBodyType.Rp_dynamicBody

	bodies := []*realphysics4d.RpBody{addGround(world)}
	for i := 0; i < 4; i++ {
		x := 0.1 * float64(i%2)
		bodies = append(bodies, addBox(world, dynamic, mgl64.Vec3{x, 0.5 + 1.05*float64(i), 0}, mgl64.Vec3{0.5, 0.5, 0.5}, 1))
	}

	arm := addBox(world, dynamic, mgl64.Vec3{4, 3, 0}, mgl64.Vec3{0.8, 0.1, 0.1}, 2)
	bodies = append(bodies, arm)

	jd := realphysics4d.MakeRpHingeJointDef()
	jd.Initialize(bodies[0], arm, mgl64.Vec3{3.2, 3, 0}, mgl64.Vec3{0, 0, 1})
	jd.EnableLimit = true
	jd.MinAngleLimit = -1.0
	jd.MaxAngleLimit = 1.0
	if _, err := world.CreateJoint(&jd); err != nil {
		panic(err)
	}

	// Tilted box landing on an edge.
	bd := realphysics4d.MakeRpBodyDef()
	bd.Type = dynamic
	bd.Position = mgl64.Vec3{-3, 2, 0}
	bd.Orientation = mgl64.QuatRotate(0.4, mgl64.Vec3{1, 0, 1}.Normalize())
	tilted := world.CreateBody(&bd)
	hull := realphysics4d.MakeRpConvexHullShape()
	hull.SetAsBox(0.4, 0.3, 0.2)
	tilted.CreateProxyShapeWithDensity(&hull, 1)
	bodies = append(bodies, tilted)

	return bodies
}

func recordTrajectory(world *realphysics4d.RpWorld, bodies []*realphysics4d.RpBody, steps int) string {
	var out strings.Builder
	for step := 1; step <= steps; step++ {
		world.Step(1.0 / 60.0)
		if step%10 != 0 {
			continue
		}

		for i, body := range bodies {
			p := body.GetPosition()
			q := body.GetOrientation()
			fmt.Fprintf(&out, "%4d %d p=(%.6f %.6f %.6f) q=(%.6f %.6f %.6f %.6f) awake=%t\n",
				step, i, p[0], p[1], p[2], q.W, q.V[0], q.V[1], q.V[2], body.IsAwake())
		}
	}

	return out.String()
}

func assertSameTrajectory(t *testing.T, expected, current string) {
	t.Helper()

	if expected == current {
		return
	}

	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(expected),
		B:        difflib.SplitLines(current),
		FromFile: "Expected",
		ToFile:   "Current",
		Context:  0,
	}
	text, _ := difflib.GetUnifiedDiffString(diff)
	t.Fatalf("trajectories differ:\n%s", text)
}

func TestTrajectoryIsDeterministic(t *testing.T) {
	run := func() string {
		world := realphysics4d.NewRpWorld(realphysics4d.MakeRpSettings())
		return recordTrajectory(world, buildPile(world), 240)
	}

	assertSameTrajectory(t, run(), run())
}

func TestFreeFallTrajectory(t *testing.T) {
	world := realphysics4d.NewRpWorld(realphysics4d.MakeRpSettings())
	body := addBox(world, realphysics4d.RpBodyType.Rp_dynamicBody, mgl64.Vec3{1, 50, -2}, mgl64.Vec3{0.5, 0.5, 0.5}, 1)

	current := recordTrajectory(world, []*realphysics4d.RpBody{body}, 120)

	// Semi-implicit Euler: after n steps y = y0 - g h^2 n(n+1)/2.
	var expected strings.Builder
	h := 1.0 / 60.0
	for n := 10; n <= 120; n += 10 {
		y := 50.0 - 9.81*h*h*float64(n*(n+1))/2.0
		fmt.Fprintf(&expected, "%4d %d p=(%.6f %.6f %.6f) q=(%.6f %.6f %.6f %.6f) awake=%t\n",
			n, 0, 1.0, y, -2.0, 1.0, 0.0, 0.0, 0.0, true)
	}

	assertSameTrajectory(t, expected.String(), current)
}
