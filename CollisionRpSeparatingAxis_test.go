package realphysics4d

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func TestSeparatingAxisHulls(t *testing.T) {
	box := MakeRpConvexHullShape()
	box.SetAsBox(1, 1, 1)

	identity := MakeRpTransform()

	diamondZ := MakeRpTransformByPositionAndRotation(mgl64.Vec3{}, mgl64.QuatRotate(0.25*math.Pi, mgl64.Vec3{0, 0, 1}))
	c := 2.0*math.Sqrt2 - 0.1
	diamondX := MakeRpTransformByPositionAndRotation(mgl64.Vec3{0, c, 0}, mgl64.QuatRotate(0.25*math.Pi, mgl64.Vec3{1, 0, 0}))

	tests := []struct {
		name        string
		xf1, xf2    RpTransform
		overlapping bool
		axis        mgl64.Vec3
		penetration float64
		edge        bool
	}{
		{
			name:        "resting face",
			xf1:         identity,
			xf2:         MakeRpTransformByPositionAndRotation(mgl64.Vec3{0.3, 1.9, 0}, mgl64.QuatIdent()),
			overlapping: true,
			axis:        mgl64.Vec3{0, 1, 0},
			penetration: 0.1,
		},
		{
			name:        "face from below",
			xf1:         MakeRpTransformByPositionAndRotation(mgl64.Vec3{0, 0, 1.95}, mgl64.QuatIdent()),
			xf2:         identity,
			overlapping: true,
			axis:        mgl64.Vec3{0, 0, -1},
			penetration: 0.05,
		},
		{
			name: "separated",
			xf1:  identity,
			xf2:  MakeRpTransformByPositionAndRotation(mgl64.Vec3{0, 2.5, 0}, mgl64.QuatIdent()),
		},
		{
			name:        "crossed edges",
			xf1:         diamondZ,
			xf2:         diamondX,
			overlapping: true,
			axis:        mgl64.Vec3{0, 1, 0},
			penetration: 0.1,
			edge:        true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			axis, ok := RpComputeSeparatingAxisHulls(&box, tt.xf1, &box, tt.xf2, RP_faceAxisRelativeTolerance)
			if ok != tt.overlapping {
				t.Fatalf("overlapping = %t, want %t", ok, tt.overlapping)
			}
			if !ok {
				return
			}

			if !vec3Near(axis.Axis, tt.axis, 1e-9) {
				t.Errorf("axis = %v, want %v", axis.Axis, tt.axis)
			}
			if math.Abs(axis.Penetration-tt.penetration) > 1e-9 {
				t.Errorf("penetration = %v, want %v", axis.Penetration, tt.penetration)
			}
			if axis.IsEdgeAxis != tt.edge {
				t.Errorf("IsEdgeAxis = %t, want %t", axis.IsEdgeAxis, tt.edge)
			}

			// The axis points from the first hull toward the second.
			if d := tt.xf2.P.Sub(tt.xf1.P); axis.Axis.Dot(d) <= 0 {
				t.Errorf("axis %v points away from the second hull", axis.Axis)
			}
		})
	}
}
