package realphysics4d

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func vec3Near(a, b mgl64.Vec3, tolerance float64) bool {
	return a.Sub(b).Len() <= tolerance
}

func TestTransformRoundTrip(t *testing.T) {
	xf := MakeRpTransformByPositionAndRotation(
		mgl64.Vec3{1, -2, 3},
		mgl64.QuatRotate(0.7, mgl64.Vec3{1, 1, 0}.Normalize()),
	)

	points := []mgl64.Vec3{
		{},
		{1, 0, 0},
		{-3.5, 2, 0.25},
	}

	for _, p := range points {
		world := RpTransformVec3Mul(xf, p)
		if back := RpTransformVec3MulT(xf, world); !vec3Near(back, p, 1e-12) {
			t.Errorf("MulT(Mul(%v)) = %v", p, back)
		}

		inv := xf.GetInverse()
		if back := RpTransformVec3Mul(inv, world); !vec3Near(back, p, 1e-12) {
			t.Errorf("inverse(Mul(%v)) = %v", p, back)
		}
	}

	other := MakeRpTransformByPositionAndRotation(mgl64.Vec3{0, 5, 0}, mgl64.QuatRotate(-1.1, mgl64.Vec3{0, 0, 1}))
	combined := RpTransformMul(xf, other)
	relative := RpTransformMulT(xf, combined)

	p := mgl64.Vec3{0.5, 0.5, -1}
	if got, want := RpTransformVec3Mul(relative, p), RpTransformVec3Mul(other, p); !vec3Near(got, want, 1e-12) {
		t.Errorf("MulT(A, Mul(A, B)) maps %v to %v, want %v", p, got, want)
	}
}

func TestOneUnitOrthogonalVector(t *testing.T) {
	for _, v := range []mgl64.Vec3{
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, -3},
		{1, 2, 3},
		{-0.2, 0.001, 5},
	} {
		o := RpOneUnitOrthogonalVector(v)
		if math.Abs(o.Len()-1.0) > 1e-12 {
			t.Errorf("%v: |o| = %v", v, o.Len())
		}
		if math.Abs(o.Dot(v)) > 1e-12 {
			t.Errorf("%v: o.v = %v", v, o.Dot(v))
		}

		t1, t2 := RpTangentBasis(v.Normalize())
		if math.Abs(t1.Dot(t2)) > 1e-12 || math.Abs(t2.Dot(v)) > 1e-9 {
			t.Errorf("%v: tangent basis not orthogonal", v)
		}
	}
}

func TestSkewSymmetric(t *testing.T) {
	v := mgl64.Vec3{1, -2, 0.5}
	w := mgl64.Vec3{3, 4, -1}

	if got, want := RpSkewSymmetric(v).Mul3x1(w), v.Cross(w); !vec3Near(got, want, 1e-12) {
		t.Errorf("skew(v) w = %v, want %v", got, want)
	}
}

func TestMat3Inverse(t *testing.T) {
	m := mgl64.Mat3{2, 0, 0, 0, 4, 1, 0, 1, 3}
	if got := m.Mul3(RpMat3Inverse(m)); !got.ApproxEqualThreshold(mgl64.Ident3(), 1e-12) {
		t.Errorf("m * inverse(m) = %v", got)
	}

	if got := RpMat3Inverse(mgl64.Mat3{}); got != (mgl64.Mat3{}) {
		t.Errorf("inverse of singular matrix = %v", got)
	}

	if got := RpMat2Inverse(mgl64.Mat2{1, 2, 2, 4}); got != (mgl64.Mat2{}) {
		t.Errorf("inverse of singular 2x2 = %v", got)
	}
}

func TestQuatIntegrate(t *testing.T) {
	q := mgl64.QuatIdent()
	w := mgl64.Vec3{0, 0, 1}

	// A quarter turn in small steps.
	steps := 1000
	for i := 0; i < steps; i++ {
		q = RpQuatIntegrate(q, w, 0.5*math.Pi/float64(steps))
	}

	if got := q.Rotate(mgl64.Vec3{1, 0, 0}); !vec3Near(got, mgl64.Vec3{0, 1, 0}, 1e-3) {
		t.Errorf("x rotated by a quarter turn about z = %v", got)
	}
	if math.Abs(q.Len()-1.0) > 1e-12 {
		t.Errorf("|q| = %v", q.Len())
	}
}

func TestFixedArray(t *testing.T) {
	a := MakeRpFixedArray[int](2)

	if !a.Push(1) || !a.Push(2) {
		t.Fatalf("push within capacity failed")
	}
	if a.Push(3) {
		t.Errorf("push past capacity succeeded")
	}

	if a.GetCount() != 2 || a.GetDropped() != 1 {
		t.Errorf("count %d dropped %d", a.GetCount(), a.GetDropped())
	}

	s := a.Slice()
	s[0] = 42
	if a.At(0) != 1 {
		t.Errorf("Slice aliases the array")
	}

	a.Clear()
	if a.GetCount() != 0 || a.GetDropped() != 0 {
		t.Errorf("Clear left %d items", a.GetCount())
	}
}

func TestGrowableStack(t *testing.T) {
	s := NewRpGrowableStack[string](1)
	s.Push("a")
	s.Push("b")

	if v, ok := s.Pop(); !ok || v != "b" {
		t.Errorf("Pop = %q, %t", v, ok)
	}
	if v, ok := s.Pop(); !ok || v != "a" {
		t.Errorf("Pop = %q, %t", v, ok)
	}
	if _, ok := s.Pop(); ok {
		t.Errorf("Pop on empty stack succeeded")
	}
}
