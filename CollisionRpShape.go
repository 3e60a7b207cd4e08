package realphysics4d

import "github.com/go-gl/mathgl/mgl64"

/// This holds the mass data computed for a shape.
type RpMassData struct {
	/// The mass of the shape, usually in kilograms.
	Mass float64

	/// The position of the shape's centroid relative to the shape's origin.
	Center mgl64.Vec3

	/// The rotational inertia tensor of the shape about its centroid.
	I mgl64.Mat3
}

func MakeRpMassData() RpMassData {
	return RpMassData{
		Mass:   0.0,
		Center: mgl64.Vec3{},
		I:      mgl64.Mat3{},
	}
}

func NewRpMassData() *RpMassData {
	res := MakeRpMassData()
	return &res
}

/// A shape is used for collision detection. Shapes used for simulation in
/// RpWorld are attached to bodies through an RpProxyShape.
var RpShape_Type = struct {
	E_convexHull uint8
	E_typeCount  uint8
}{
	E_convexHull: 0,
	E_typeCount:  1,
}

type RpShapeInterface interface {
	/// Clone the concrete shape.
	Clone() RpShapeInterface

	/// Get the type of this shape. You can use this to down cast to the concrete shape.
	GetType() uint8

	/// Test a point for containment in this shape. This only works for convex shapes.
	/// @param xf the shape world transform.
	/// @param p a point in world coordinates.
	TestPoint(xf RpTransform, p mgl64.Vec3) bool

	/// Cast a ray against the shape.
	RayCast(output *RpRayCastOutput, input RpRayCastInput, xf RpTransform) bool

	/// Given a transform, compute the associated axis aligned bounding box.
	ComputeAABB(aabb *RpAABB, xf RpTransform)

	/// Compute the mass properties of this shape using its dimensions and density.
	/// The inertia tensor is computed about the shape centroid.
	/// @param density the density in kilograms per meter cubed.
	ComputeMass(massData *RpMassData, density float64)

	/// Vertices most extreme along a local-space direction: a face, an edge or a
	/// single vertex depending on the angular tolerance.
	GetSupportPoints(direction mgl64.Vec3, tolerance float64) []mgl64.Vec3
}

type RpShape struct {
	M_type uint8
}

func (shape RpShape) GetType() uint8 {
	return shape.M_type
}
