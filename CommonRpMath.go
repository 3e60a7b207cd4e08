package realphysics4d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

/// This function is used to ensure that a floating point number is not a NaN or infinity.
func RpIsValid(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func RpVec3IsValid(v mgl64.Vec3) bool {
	return RpIsValid(v[0]) && RpIsValid(v[1]) && RpIsValid(v[2])
}

func RpQuatIsValid(q mgl64.Quat) bool {
	return RpIsValid(q.W) && RpVec3IsValid(q.V)
}

var RpVec3_zero = mgl64.Vec3{0, 0, 0}

///////////////////////////////////////////////////////////////////////////////

/// A transform contains translation and rotation. It is used to represent
/// the position and orientation of rigid frames.
type RpTransform struct {
	P mgl64.Vec3
	Q mgl64.Quat
}

/// The default constructor does nothing.
func MakeRpTransform() RpTransform {
	return RpTransform{
		Q: mgl64.QuatIdent(),
	}
}

func NewRpTransform() *RpTransform {
	res := MakeRpTransform()
	return &res
}

/// Initialize using a position vector and a rotation.
func MakeRpTransformByPositionAndRotation(position mgl64.Vec3, rotation mgl64.Quat) RpTransform {
	return RpTransform{
		P: position,
		Q: rotation.Normalize(),
	}
}

/// Set this to the identity transform.
func (t *RpTransform) SetIdentity() {
	t.P = RpVec3_zero
	t.Q = mgl64.QuatIdent()
}

/// Set this based on the position and rotation.
func (t *RpTransform) Set(position mgl64.Vec3, rotation mgl64.Quat) {
	t.P = position
	t.Q = rotation.Normalize()
}

func (t RpTransform) GetInverse() RpTransform {
	qInv := t.Q.Conjugate()
	return RpTransform{
		P: qInv.Rotate(t.P.Mul(-1)),
		Q: qInv,
	}
}

func (t RpTransform) IsValid() bool {
	return RpVec3IsValid(t.P) && RpQuatIsValid(t.Q)
}

func RpTransformVec3Mul(T RpTransform, v mgl64.Vec3) mgl64.Vec3 {
	return T.Q.Rotate(v).Add(T.P)
}

func RpTransformVec3MulT(T RpTransform, v mgl64.Vec3) mgl64.Vec3 {
	return T.Q.Conjugate().Rotate(v.Sub(T.P))
}

// v2 = A.q.Rot(B.q.Rot(v1) + B.p) + A.p
//    = (A.q * B.q).Rot(v1) + A.q.Rot(B.p) + A.p
func RpTransformMul(A, B RpTransform) RpTransform {
	return RpTransform{
		P: A.Q.Rotate(B.P).Add(A.P),
		Q: A.Q.Mul(B.Q).Normalize(),
	}
}

// v2 = A.q' * (B.q * v1 + B.p - A.p)
//    = A.q' * B.q * v1 + A.q' * (B.p - A.p)
func RpTransformMulT(A, B RpTransform) RpTransform {
	qInv := A.Q.Conjugate()
	return RpTransform{
		P: qInv.Rotate(B.P.Sub(A.P)),
		Q: qInv.Mul(B.Q).Normalize(),
	}
}

///////////////////////////////////////////////////////////////////////////////

/// This describes the motion of a body for broad-phase updates. Shapes are
/// positioned relative to the body origin, which may not coincide with the
/// center of mass.
type RpSweep struct {
	LocalCenter mgl64.Vec3 ///< local center of mass position
	C0, C       mgl64.Vec3 ///< center world positions
	Q0, Q       mgl64.Quat ///< world orientations
}

func MakeRpSweep() RpSweep {
	return RpSweep{
		Q0: mgl64.QuatIdent(),
		Q:  mgl64.QuatIdent(),
	}
}

/// Get the interpolated transform at a specific time.
/// @param beta is a factor in [0,1], where 0 indicates the start of the step.
func (sweep RpSweep) GetTransform(xf *RpTransform, beta float64) {
	xf.P = sweep.C0.Mul(1.0 - beta).Add(sweep.C.Mul(beta))
	xf.Q = mgl64.QuatNlerp(sweep.Q0, sweep.Q, beta)

	// Shift to origin
	xf.P = xf.P.Sub(xf.Q.Rotate(sweep.LocalCenter))
}

///////////////////////////////////////////////////////////////////////////////

/// Unit normal of the plane through three points, oriented by the
/// right-hand rule (counter-clockwise a, b, c).
func RpPlaneNormal(a, b, c mgl64.Vec3) mgl64.Vec3 {
	n := b.Sub(a).Cross(c.Sub(a))
	length := n.Len()
	RpAssert(length > 0)
	return n.Mul(1.0 / length)
}

/// Unit normal of a planar polygon by Newell's method, oriented by the
/// right-hand rule. Collinear runs of vertices are allowed. Returns false when
/// the polygon has no area.
func RpPolygonNormal(points []mgl64.Vec3) (mgl64.Vec3, bool) {
	if len(points) < 3 {
		return mgl64.Vec3{}, false
	}

	n := mgl64.Vec3{}
	origin := points[0]
	for i := range points {
		a := points[i].Sub(origin)
		b := points[(i+1)%len(points)].Sub(origin)
		n = n.Add(a.Cross(b))
	}

	length := n.Len()
	if length <= RP_epsilon*RP_epsilon {
		return mgl64.Vec3{}, false
	}

	return n.Mul(1.0 / length), true
}

func RpAngleBetweenVectors(a, b mgl64.Vec3) float64 {
	lengths := a.Len() * b.Len()
	RpAssert(lengths > 0)
	return math.Acos(RpFloatClamp(a.Dot(b)/lengths, -1.0, 1.0))
}

/// Returns a unit vector orthogonal to v. The world axis least aligned with v
/// is orthogonalized against it (Gram-Schmidt).
func RpOneUnitOrthogonalVector(v mgl64.Vec3) mgl64.Vec3 {
	n := v.Normalize()

	axis := mgl64.Vec3{1, 0, 0}
	ax, ay, az := math.Abs(n[0]), math.Abs(n[1]), math.Abs(n[2])
	if ay < ax && ay <= az {
		axis = mgl64.Vec3{0, 1, 0}
	} else if az < ax && az < ay {
		axis = mgl64.Vec3{0, 0, 1}
	}

	return axis.Sub(n.Mul(axis.Dot(n))).Normalize()
}

/// Orthonormal basis (t1, t2) of the plane perpendicular to n.
func RpTangentBasis(n mgl64.Vec3) (mgl64.Vec3, mgl64.Vec3) {
	t1 := RpOneUnitOrthogonalVector(n)
	t2 := n.Cross(t1).Normalize()
	return t1, t2
}

/// Integrate an orientation with angular velocity w over h seconds.
func RpQuatIntegrate(q mgl64.Quat, w mgl64.Vec3, h float64) mgl64.Quat {
	spin := mgl64.Quat{W: 0, V: w}.Mul(q).Scale(0.5 * h)
	return q.Add(spin).Normalize()
}

func RpQuatToMat3(q mgl64.Quat) mgl64.Mat3 {
	return q.Normalize().Mat4().Mat3()
}

/// Rotate a local-space tensor into world space: R * I * R^T.
func RpRotateTensor(q mgl64.Quat, local mgl64.Mat3) mgl64.Mat3 {
	R := RpQuatToMat3(q)
	return R.Mul3(local).Mul3(R.Transpose())
}

/// Inverse of a 3x3 matrix. Returns the zero matrix when the matrix is singular.
func RpMat3Inverse(m mgl64.Mat3) mgl64.Mat3 {
	if m.Det() == 0.0 {
		return mgl64.Mat3{}
	}
	return m.Inv()
}

/// Inverse of a 2x2 matrix. Returns the zero matrix when the matrix is singular.
func RpMat2Inverse(m mgl64.Mat2) mgl64.Mat2 {
	if m.Det() == 0.0 {
		return mgl64.Mat2{}
	}
	return m.Inv()
}

/// Inertia tensor of a point mass at offset r: m * (r.r * I - r r^T).
func RpPointInertia(mass float64, r mgl64.Vec3) mgl64.Mat3 {
	rr := r.Dot(r)
	outer := mgl64.Mat3{
		r[0] * r[0], r[1] * r[0], r[2] * r[0],
		r[0] * r[1], r[1] * r[1], r[2] * r[1],
		r[0] * r[2], r[1] * r[2], r[2] * r[2],
	}
	return mgl64.Ident3().Mul(rr).Sub(outer).Mul(mass)
}

/// Skew-symmetric matrix of v, such that RpSkewSymmetric(v) * w = v x w.
func RpSkewSymmetric(v mgl64.Vec3) mgl64.Mat3 {
	return mgl64.Mat3{
		0, v[2], -v[1],
		-v[2], 0, v[0],
		v[1], -v[0], 0,
	}
}

func RpVec3Abs(a mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Abs(a[0]), math.Abs(a[1]), math.Abs(a[2])}
}

func RpVec3Min(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Min(a[0], b[0]), math.Min(a[1], b[1]), math.Min(a[2], b[2])}
}

func RpVec3Max(a, b mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{math.Max(a[0], b[0]), math.Max(a[1], b[1]), math.Max(a[2], b[2])}
}

func RpFloatClamp(a, low, high float64) float64 {
	if a < low {
		return low
	}

	if a > high {
		return high
	}

	return a
}
