package realphysics4d

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

/// This holds contact filtering data.
type RpFilter struct {
	/// The collision category bits. Normally you would just set one bit.
	CategoryBits uint16

	/// The collision mask bits. This states the categories that this
	/// shape would accept for collision.
	MaskBits uint16

	/// Collision groups allow a certain group of objects to never collide (negative)
	/// or always collide (positive). Zero means no collision group. Non-zero group
	/// filtering always wins against the mask bits.
	GroupIndex int16
}

func MakeRpFilter() RpFilter {
	return RpFilter{
		CategoryBits: 0x0001,
		MaskBits:     0xFFFF,
		GroupIndex:   0,
	}
}

/// A proxy shape definition is used to attach a shape to a body.
/// You can reuse proxy shape definitions safely.
type RpProxyShapeDef struct {
	/// The shape, this must be set. The shape will be cloned.
	Shape RpShapeInterface

	/// Placement of the shape in the body frame.
	LocalTransform RpTransform

	/// Use this to store application specific data.
	UserData interface{}

	/// The friction coefficient, usually in the range [0,1].
	Friction float64

	/// The restitution (elasticity) usually in the range [0,1].
	Restitution float64

	/// The density, usually in kg/m^3.
	Density float64

	/// A sensor shape collects contact information but never generates a collision
	/// response.
	IsSensor bool

	/// Contact filtering data.
	Filter RpFilter
}

/// The constructor sets the default proxy shape definition values.
func MakeRpProxyShapeDef() RpProxyShapeDef {
	return RpProxyShapeDef{
		Shape:          nil,
		LocalTransform: MakeRpTransform(),
		UserData:       nil,
		Friction:       0.2,
		Restitution:    0.0,
		Density:        0.0,
		IsSensor:       false,
		Filter:         MakeRpFilter(),
	}
}

/// A proxy shape attaches a convex shape to a body for collision detection. It
/// inherits its transform from its parent body and holds the non-geometric
/// data: friction, restitution, density, filter. Created via RpBody.CreateProxyShape.
type RpProxyShape struct {
	M_body *RpBody
	M_next *RpProxyShape

	M_shape          RpShapeInterface
	M_localTransform RpTransform

	M_density     float64
	M_friction    float64
	M_restitution float64

	M_aabb    RpAABB
	M_proxyId int

	M_filter   RpFilter
	M_isSensor bool

	M_userData interface{}
}

func (proxy RpProxyShape) GetType() uint8 {
	return proxy.M_shape.GetType()
}

func (proxy RpProxyShape) GetShape() RpShapeInterface {
	return proxy.M_shape
}

func (proxy RpProxyShape) GetBody() *RpBody {
	return proxy.M_body
}

func (proxy RpProxyShape) GetNext() *RpProxyShape {
	return proxy.M_next
}

func (proxy RpProxyShape) GetLocalTransform() RpTransform {
	return proxy.M_localTransform
}

/// The world transform of the shape: body transform then local placement.
func (proxy RpProxyShape) GetWorldTransform() RpTransform {
	return RpTransformMul(proxy.M_body.GetTransform(), proxy.M_localTransform)
}

/// Support points of the shape along a world direction, in world space.
func (proxy RpProxyShape) GetAxisPerturbationPoints(worldDirection mgl64.Vec3, tolerance float64) []mgl64.Vec3 {
	xf := proxy.GetWorldTransform()
	localDirection := xf.Q.Conjugate().Rotate(worldDirection)

	points := proxy.M_shape.GetSupportPoints(localDirection, tolerance)
	for i := range points {
		points[i] = RpTransformVec3Mul(xf, points[i])
	}

	return points
}

func (proxy RpProxyShape) IsSensor() bool {
	return proxy.M_isSensor
}

func (proxy *RpProxyShape) SetSensor(sensor bool) {
	if sensor != proxy.M_isSensor {
		proxy.M_body.SetAwake(true)
		proxy.M_isSensor = sensor
	}
}

func (proxy RpProxyShape) GetFilterData() RpFilter {
	return proxy.M_filter
}

func (proxy *RpProxyShape) SetFilterData(filter RpFilter) {
	proxy.M_filter = filter
	proxy.Refilter()
}

func (proxy RpProxyShape) GetUserData() interface{} {
	return proxy.M_userData
}

func (proxy *RpProxyShape) SetUserData(data interface{}) {
	proxy.M_userData = data
}

func (proxy *RpProxyShape) SetDensity(density float64) {
	RpAssert(RpIsValid(density) && density >= 0.0)
	proxy.M_density = density
}

func (proxy RpProxyShape) GetDensity() float64 {
	return proxy.M_density
}

func (proxy RpProxyShape) GetFriction() float64 {
	return proxy.M_friction
}

func (proxy *RpProxyShape) SetFriction(friction float64) {
	proxy.M_friction = friction
}

func (proxy RpProxyShape) GetRestitution() float64 {
	return proxy.M_restitution
}

func (proxy *RpProxyShape) SetRestitution(restitution float64) {
	proxy.M_restitution = restitution
}

func (proxy RpProxyShape) GetProxyId() int {
	return proxy.M_proxyId
}

func (proxy RpProxyShape) TestPoint(p mgl64.Vec3) bool {
	return proxy.M_shape.TestPoint(proxy.GetWorldTransform(), p)
}

func (proxy RpProxyShape) RayCast(output *RpRayCastOutput, input RpRayCastInput) bool {
	return proxy.M_shape.RayCast(output, input, proxy.GetWorldTransform())
}

/// Mass data of the shape in the body frame. The inertia tensor is about the
/// shape centroid, expressed in body axes.
func (proxy RpProxyShape) GetMassData(massData *RpMassData) {
	proxy.M_shape.ComputeMass(massData, proxy.M_density)
	massData.Center = RpTransformVec3Mul(proxy.M_localTransform, massData.Center)
	massData.I = RpRotateTensor(proxy.M_localTransform.Q, massData.I)
}

func (proxy RpProxyShape) GetAABB() RpAABB {
	return proxy.M_aabb
}

func NewRpProxyShape(body *RpBody, def *RpProxyShapeDef) *RpProxyShape {
	RpAssert(def.Shape != nil)
	RpAssert(def.LocalTransform.IsValid())

	return &RpProxyShape{
		M_body:           body,
		M_next:           nil,
		M_shape:          def.Shape.Clone(),
		M_localTransform: def.LocalTransform,
		M_density:        def.Density,
		M_friction:       def.Friction,
		M_restitution:    def.Restitution,
		M_proxyId:        RP_nullProxy,
		M_filter:         def.Filter,
		M_isSensor:       def.IsSensor,
		M_userData:       def.UserData,
	}
}

func (proxy *RpProxyShape) CreateProxy(broadPhase *RpBroadPhase, xf RpTransform) {
	RpAssert(proxy.M_proxyId == RP_nullProxy)

	proxy.M_shape.ComputeAABB(&proxy.M_aabb, RpTransformMul(xf, proxy.M_localTransform))
	proxy.M_proxyId = broadPhase.CreateProxy(proxy.M_aabb, proxy)
}

func (proxy *RpProxyShape) DestroyProxy(broadPhase *RpBroadPhase) {
	if proxy.M_proxyId == RP_nullProxy {
		return
	}

	broadPhase.DestroyProxy(proxy.M_proxyId)
	proxy.M_proxyId = RP_nullProxy
}

func (proxy *RpProxyShape) Synchronize(broadPhase *RpBroadPhase, transform1 RpTransform, transform2 RpTransform) {
	if proxy.M_proxyId == RP_nullProxy {
		return
	}

	// Compute an AABB that covers the swept shape (may miss some rotation effect).
	aabb1 := MakeRpAABB()
	aabb2 := MakeRpAABB()
	xf1 := RpTransformMul(transform1, proxy.M_localTransform)
	xf2 := RpTransformMul(transform2, proxy.M_localTransform)
	proxy.M_shape.ComputeAABB(&aabb1, xf1)
	proxy.M_shape.ComputeAABB(&aabb2, xf2)

	proxy.M_aabb.CombineTwoInPlace(aabb1, aabb2)

	displacement := xf2.P.Sub(xf1.P)

	broadPhase.MoveProxy(proxy.M_proxyId, proxy.M_aabb, displacement)
}

func (proxy *RpProxyShape) Refilter() {
	if proxy.M_body == nil {
		return
	}

	// Flag associated pairs for filtering.
	for edge := proxy.M_body.GetPairList(); edge != nil; edge = edge.Next {
		pair := edge.Pair
		if pair.GetShape1() == proxy || pair.GetShape2() == proxy {
			pair.FlagForFiltering()
		}
	}

	world := proxy.M_body.GetWorld()
	if world == nil {
		return
	}

	// Touch the proxy so that new pairs may be created
	if proxy.M_proxyId != RP_nullProxy {
		world.M_collisionManager.M_broadPhase.TouchProxy(proxy.M_proxyId)
	}
}

func (proxy RpProxyShape) Dump(bodyIndex int) {
	fmt.Print("    sd := MakeRpProxyShapeDef()\n")
	fmt.Printf("    sd.Friction = %.15e\n", proxy.M_friction)
	fmt.Printf("    sd.Restitution = %.15e\n", proxy.M_restitution)
	fmt.Printf("    sd.Density = %.15e\n", proxy.M_density)
	fmt.Printf("    sd.IsSensor = %t\n", proxy.M_isSensor)
	fmt.Printf("    sd.Filter.CategoryBits = uint16(%d)\n", proxy.M_filter.CategoryBits)
	fmt.Printf("    sd.Filter.MaskBits = uint16(%d)\n", proxy.M_filter.MaskBits)
	fmt.Printf("    sd.Filter.GroupIndex = int16(%d)\n", proxy.M_filter.GroupIndex)

	p := proxy.M_localTransform.P
	q := proxy.M_localTransform.Q
	fmt.Printf("    sd.LocalTransform = MakeRpTransformByPositionAndRotation(mgl64.Vec3{%.15e, %.15e, %.15e}, mgl64.Quat{W: %.15e, V: mgl64.Vec3{%.15e, %.15e, %.15e}})\n",
		p[0], p[1], p[2], q.W, q.V[0], q.V[1], q.V[2])

	switch shape := proxy.M_shape.(type) {
	case *RpConvexHullShape:
		fmt.Print("    shape := NewRpConvexHullShape()\n")
		fmt.Print("    vs := []mgl64.Vec3{\n")
		for _, v := range shape.M_vertices {
			fmt.Printf("      {%.15e, %.15e, %.15e},\n", v[0], v[1], v[2])
		}
		fmt.Print("    }\n")
		fmt.Print("    fs := [][]int{\n")
		for _, face := range shape.M_faces {
			fmt.Printf("      %#v,\n", face)
		}
		fmt.Print("    }\n")
		fmt.Print("    shape.Set(vs, fs)\n")
	default:
		return
	}

	fmt.Print("\n")
	fmt.Print("    sd.Shape = shape\n")
	fmt.Print("\n")
	fmt.Printf("    bodies[%d].CreateProxyShape(&sd)\n", bodyIndex)
}
