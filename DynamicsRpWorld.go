package realphysics4d

import (
	"errors"
	"fmt"
	"log"

	"github.com/go-gl/mathgl/mgl64"
)

var ErrRpWorldLocked = errors.New("realphysics4d: world is locked during a step")

var RpWorld_Flags = struct {
	E_newProxyShape int
	E_locked        int
	E_clearForces   int
}{
	E_newProxyShape: 0x0001,
	E_locked:        0x0002,
	E_clearForces:   0x0004,
}

/// The world class manages all physics entities, dynamic simulation,
/// and asynchronous queries. Bodies, joints and pairs are kept in creation
/// order so that a step is deterministic.
type RpWorld struct {
	M_flags int

	M_collisionManager RpCollisionManager

	M_bodyList *RpBody // linked list
	M_bodyTail *RpBody

	M_jointList RpJointInterface // has to be backed by pointer
	M_jointTail RpJointInterface // has to be backed by pointer

	M_bodyCount  int
	M_jointCount int

	M_settings RpSettings

	M_gravity    mgl64.Vec3
	M_allowSleep bool

	M_destructionListener RpDestructionListenerInterface

	// Receives configuration rejections. nil discards them.
	M_logger *log.Logger

	// This is used to compute the time step ratio to
	// support a variable time step.
	M_inv_dt0 float64

	M_profile RpProfile
}

func (world RpWorld) GetBodyList() *RpBody {
	return world.M_bodyList
}

func (world RpWorld) GetJointList() RpJointInterface { // returns a pointer
	return world.M_jointList
}

func (world RpWorld) GetPairList() *RpOverlappingPair {
	return world.M_collisionManager.M_pairList
}

func (world RpWorld) GetBodyCount() int {
	return world.M_bodyCount
}

func (world RpWorld) GetJointCount() int {
	return world.M_jointCount
}

func (world RpWorld) GetPairCount() int {
	return world.M_collisionManager.M_pairCount
}

func (world *RpWorld) SetGravity(gravity mgl64.Vec3) {
	world.M_gravity = gravity
}

func (world RpWorld) GetGravity() mgl64.Vec3 {
	return world.M_gravity
}

func (world RpWorld) GetSettings() RpSettings {
	return world.M_settings
}

func (world RpWorld) IsLocked() bool {
	return (world.M_flags & RpWorld_Flags.E_locked) == RpWorld_Flags.E_locked
}

func (world *RpWorld) SetAutoClearForces(flag bool) {
	if flag {
		world.M_flags |= RpWorld_Flags.E_clearForces
	} else {
		world.M_flags &= ^RpWorld_Flags.E_clearForces
	}
}

/// Get the flag that controls automatic clearing of forces after each time step.
func (world RpWorld) GetAutoClearForces() bool {
	return (world.M_flags & RpWorld_Flags.E_clearForces) == RpWorld_Flags.E_clearForces
}

func (world *RpWorld) GetCollisionManager() *RpCollisionManager {
	return &world.M_collisionManager
}

func (world RpWorld) GetProfile() RpProfile {
	return world.M_profile
}

func (world RpWorld) GetProxyCount() int {
	return world.M_collisionManager.M_broadPhase.GetProxyCount()
}

func (world RpWorld) GetTreeHeight() int {
	return world.M_collisionManager.M_broadPhase.GetTreeHeight()
}

func (world RpWorld) GetTreeBalance() int {
	return world.M_collisionManager.M_broadPhase.GetTreeBalance()
}

func (world RpWorld) GetTreeQuality() float64 {
	return world.M_collisionManager.M_broadPhase.GetTreeQuality()
}

///////////////////////////////////////////////////////////////////////////////

/// Construct a world. The settings are copied; gravity, sleeping and warm
/// starting are taken from them.
func MakeRpWorld(settings RpSettings) RpWorld {
	world := RpWorld{}

	world.M_settings = settings
	world.M_gravity = settings.Gravity
	world.M_allowSleep = settings.AllowSleep

	world.M_flags = RpWorld_Flags.E_clearForces

	world.M_collisionManager = MakeRpCollisionManager(settings)

	return world
}

func NewRpWorld(settings RpSettings) *RpWorld {
	res := MakeRpWorld(settings)
	return &res
}

func (world *RpWorld) SetLogger(logger *log.Logger) {
	world.M_logger = logger
}

func (world *RpWorld) logf(format string, args ...interface{}) {
	if world.M_logger != nil {
		world.M_logger.Printf(format, args...)
	}
}

func (world *RpWorld) SetDestructionListener(listener RpDestructionListenerInterface) {
	world.M_destructionListener = listener
}

func (world *RpWorld) SetContactFilter(filter RpContactFilterInterface) {
	world.M_collisionManager.M_contactFilter = filter
}

func (world *RpWorld) SetContactListener(listener RpContactListenerInterface) {
	world.M_collisionManager.M_contactListener = listener
}

/// Create a rigid body. Returns nil while the world is stepping.
func (world *RpWorld) CreateBody(def *RpBodyDef) *RpBody {
	if world.IsLocked() {
		world.logf("[world] create body rejected: %v", ErrRpWorldLocked)
		return nil
	}

	b := NewRpBody(def, world)

	// Add to the tail of the world doubly linked list.
	b.M_prev = world.M_bodyTail
	b.M_next = nil
	if world.M_bodyTail != nil {
		world.M_bodyTail.M_next = b
	} else {
		world.M_bodyList = b
	}
	world.M_bodyTail = b
	world.M_bodyCount++

	return b
}

/// Destroy a rigid body with its joints, pairs and shapes.
func (world *RpWorld) DestroyBody(b *RpBody) {
	RpAssert(world.M_bodyCount > 0)

	if world.IsLocked() {
		world.logf("[world] destroy body rejected: %v", ErrRpWorldLocked)
		return
	}

	// Delete the attached joints.
	je := b.M_jointList
	for je != nil {
		je0 := je
		je = je.Next

		if world.M_destructionListener != nil {
			world.M_destructionListener.SayGoodbyeToJoint(je0.Joint)
		}

		world.DestroyJoint(je0.Joint)

		b.M_jointList = je
	}
	b.M_jointList = nil

	// Delete the attached pairs.
	pe := b.M_pairList
	for pe != nil {
		pe0 := pe
		pe = pe.Next
		world.M_collisionManager.Destroy(pe0.Pair)
	}
	b.M_pairList = nil

	// Delete the attached shapes. This destroys broad-phase proxies.
	s := b.M_shapeList
	for s != nil {
		s0 := s
		s = s.M_next

		if world.M_destructionListener != nil {
			world.M_destructionListener.SayGoodbyeToProxyShape(s0)
		}

		if b.IsActive() {
			s0.DestroyProxy(&world.M_collisionManager.M_broadPhase)
		}

		s0.M_body = nil
		s0.M_next = nil

		b.M_shapeList = s
		b.M_shapeCount--
	}

	b.M_shapeList = nil
	b.M_shapeCount = 0

	// Remove world body list.
	if b.M_prev != nil {
		b.M_prev.M_next = b.M_next
	}

	if b.M_next != nil {
		b.M_next.M_prev = b.M_prev
	}

	if b == world.M_bodyList {
		world.M_bodyList = b.M_next
	}

	if b == world.M_bodyTail {
		world.M_bodyTail = b.M_prev
	}

	b.M_prev = nil
	b.M_next = nil

	world.M_bodyCount--
}

/// Create a joint from a pointer to a concrete joint definition. The
/// definition is validated first; invalid limits and a locked world are
/// reported as errors.
func (world *RpWorld) CreateJoint(def RpJointDefInterface) (RpJointInterface, error) { // def has to be backed by pointer
	if world.IsLocked() {
		world.logf("[world] create joint rejected: %v", ErrRpWorldLocked)
		return nil, ErrRpWorldLocked
	}

	if err := def.Validate(); err != nil {
		world.logf("[world] create joint rejected: %v", err)
		return nil, fmt.Errorf("realphysics4d: create joint: %w", err)
	}

	j := RpJointCreate(def)

	// Connect to the tail of the world list.
	j.SetPrev(world.M_jointTail)
	j.SetNext(nil)
	if world.M_jointTail != nil {
		world.M_jointTail.SetNext(j)
	} else {
		world.M_jointList = j
	}
	world.M_jointTail = j
	world.M_jointCount++

	// Connect to the bodies' doubly linked lists.
	j.GetEdge1().Joint = j
	j.GetEdge1().Other = j.GetBody2()
	j.GetEdge1().Prev = nil
	j.GetEdge1().Next = j.GetBody1().M_jointList
	if j.GetBody1().M_jointList != nil {
		j.GetBody1().M_jointList.Prev = j.GetEdge1()
	}
	j.GetBody1().M_jointList = j.GetEdge1()

	j.GetEdge2().Joint = j
	j.GetEdge2().Other = j.GetBody1()
	j.GetEdge2().Prev = nil
	j.GetEdge2().Next = j.GetBody2().M_jointList
	if j.GetBody2().M_jointList != nil {
		j.GetBody2().M_jointList.Prev = j.GetEdge2()
	}
	j.GetBody2().M_jointList = j.GetEdge2()

	// If the joint prevents collisions, then flag any pairs for filtering.
	if def.IsCollideConnected() == false {
		world.flagPairsForFiltering(def.GetBody1(), def.GetBody2())
	}

	// Note: creating a joint doesn't wake the bodies.

	return j, nil
}

/// Flag the pairs between two bodies for filtering at the next time step
/// (where either body is awake).
func (world *RpWorld) flagPairsForFiltering(body1, body2 *RpBody) {
	for edge := body2.GetPairList(); edge != nil; edge = edge.Next {
		if edge.Other == body1 {
			edge.Pair.FlagForFiltering()
		}
	}
}

func (world *RpWorld) DestroyJoint(j RpJointInterface) { // j backed by pointer
	if world.IsLocked() {
		world.logf("[world] destroy joint rejected: %v", ErrRpWorldLocked)
		return
	}

	collideConnected := j.IsCollideConnected()

	// Remove from the doubly linked list.
	if j.GetPrev() != nil {
		j.GetPrev().SetNext(j.GetNext())
	}

	if j.GetNext() != nil {
		j.GetNext().SetPrev(j.GetPrev())
	}

	if j == world.M_jointList {
		world.M_jointList = j.GetNext()
	}

	if j == world.M_jointTail {
		world.M_jointTail = j.GetPrev()
	}

	j.SetPrev(nil)
	j.SetNext(nil)

	// Disconnect from island graph.
	body1 := j.GetBody1()
	body2 := j.GetBody2()

	// Wake up connected bodies.
	body1.SetAwake(true)
	body2.SetAwake(true)

	// Remove from body 1.
	edge1 := j.GetEdge1()
	if edge1.Prev != nil {
		edge1.Prev.Next = edge1.Next
	}

	if edge1.Next != nil {
		edge1.Next.Prev = edge1.Prev
	}

	if edge1 == body1.M_jointList {
		body1.M_jointList = edge1.Next
	}

	edge1.Prev = nil
	edge1.Next = nil

	// Remove from body 2
	edge2 := j.GetEdge2()
	if edge2.Prev != nil {
		edge2.Prev.Next = edge2.Next
	}

	if edge2.Next != nil {
		edge2.Next.Prev = edge2.Prev
	}

	if edge2 == body2.M_jointList {
		body2.M_jointList = edge2.Next
	}

	edge2.Prev = nil
	edge2.Next = nil

	RpAssert(world.M_jointCount > 0)
	world.M_jointCount--

	// If the joint prevents collisions, then flag any pairs for filtering.
	if collideConnected == false {
		world.flagPairsForFiltering(body1, body2)
	}
}

func (world *RpWorld) SetAllowSleeping(flag bool) {
	if flag == world.M_allowSleep {
		return
	}

	world.M_allowSleep = flag
	if world.M_allowSleep == false {
		for b := world.M_bodyList; b != nil; b = b.M_next {
			b.SetAwake(true)
		}
	}
}

func (world RpWorld) GetAllowSleeping() bool {
	return world.M_allowSleep
}

/// Find islands, integrate and solve constraints, solve position constraints.
func (world *RpWorld) Solve(step RpTimeStep) {
	world.M_profile.SolveInit = 0.0
	world.M_profile.SolveVelocity = 0.0
	world.M_profile.SolvePosition = 0.0

	// Size the island for the worst case.
	island := MakeRpIsland(
		world.M_bodyCount,
		world.M_collisionManager.M_pairCount,
		world.M_jointCount,
		world.M_collisionManager.M_contactListener,
	)

	// Clear all the island flags.
	for b := world.M_bodyList; b != nil; b = b.M_next {
		b.M_flags &= ^RpBody_Flags.E_islandFlag
	}

	for p := world.M_collisionManager.M_pairList; p != nil; p = p.M_next {
		p.M_flags &= ^RpOverlappingPair_Flag.E_islandFlag
	}

	for j := world.M_jointList; j != nil; j = j.GetNext() {
		j.SetIslandFlag(false)
	}

	// Build and simulate all awake islands.
	stack := NewRpGrowableStack[*RpBody](world.M_bodyCount)

	for seed := world.M_bodyList; seed != nil; seed = seed.M_next {
		if (seed.M_flags & RpBody_Flags.E_islandFlag) != 0x0000 {
			continue
		}

		if seed.IsAwake() == false || seed.IsActive() == false {
			continue
		}

		// The seed can be dynamic or kinematic.
		if seed.GetType() == RpBodyType.Rp_staticBody {
			continue
		}

		// Reset island and stack.
		island.Clear()
		stack.Clear()
		stack.Push(seed)
		seed.M_flags |= RpBody_Flags.E_islandFlag

		// Perform a depth first search (DFS) on the constraint graph.
		for {
			b, ok := stack.Pop()
			if !ok {
				break
			}

			RpAssert(b.IsActive())
			island.AddBody(b)

			// Make sure the body is awake (without resetting sleep timer).
			b.M_flags |= RpBody_Flags.E_awakeFlag

			// To keep islands as small as possible, we don't
			// propagate islands across static bodies.
			if b.GetType() == RpBodyType.Rp_staticBody {
				continue
			}

			// Search all pairs connected to this body.
			for pe := b.M_pairList; pe != nil; pe = pe.Next {
				pair := pe.Pair

				// Has this pair already been added to an island?
				if (pair.M_flags & RpOverlappingPair_Flag.E_islandFlag) != 0x0000 {
					continue
				}

				// Is this pair solid and touching?
				if pair.IsEnabled() == false || pair.IsTouching() == false {
					continue
				}

				// Skip sensors.
				if pair.GetShape1().IsSensor() || pair.GetShape2().IsSensor() {
					continue
				}

				island.AddPair(pair)
				pair.M_flags |= RpOverlappingPair_Flag.E_islandFlag

				other := pe.Other

				// Was the other body already added to this island?
				if (other.M_flags & RpBody_Flags.E_islandFlag) != 0x0000 {
					continue
				}

				stack.Push(other)
				other.M_flags |= RpBody_Flags.E_islandFlag
			}

			// Search all joints connect to this body.
			for je := b.M_jointList; je != nil; je = je.Next {
				if je.Joint.GetIslandFlag() == true {
					continue
				}

				other := je.Other

				// Don't simulate joints connected to inactive bodies.
				if other.IsActive() == false {
					continue
				}

				island.AddJoint(je.Joint)
				je.Joint.SetIslandFlag(true)

				if (other.M_flags & RpBody_Flags.E_islandFlag) != 0x0000 {
					continue
				}

				stack.Push(other)
				other.M_flags |= RpBody_Flags.E_islandFlag
			}
		}

		profile := MakeRpProfile()
		island.Solve(&profile, step, world.M_gravity, world.M_allowSleep)
		world.M_profile.SolveInit += profile.SolveInit
		world.M_profile.SolveVelocity += profile.SolveVelocity
		world.M_profile.SolvePosition += profile.SolvePosition

		// Post solve cleanup.
		for i := 0; i < island.M_bodyCount; i++ {
			// Allow static bodies to participate in other islands.
			b := island.M_bodies[i]
			if b.GetType() == RpBodyType.Rp_staticBody {
				b.M_flags &= ^RpBody_Flags.E_islandFlag
			}
		}
	}

	{
		timer := MakeRpTimer()

		// Synchronize shapes, check for out of range bodies.
		for b := world.M_bodyList; b != nil; b = b.GetNext() {
			// If a body was not in an island then it did not move.
			if (b.M_flags & RpBody_Flags.E_islandFlag) == 0 {
				continue
			}

			if b.GetType() == RpBodyType.Rp_staticBody {
				continue
			}

			// Update shapes (for broad-phase).
			b.SynchronizeProxyShapes()
		}

		// Look for new pairs.
		world.M_collisionManager.FindNewContacts()
		world.M_profile.Broadphase = timer.GetMilliseconds()
	}
}

/// Take a time step. This performs collision detection, integration,
/// and constraint solution. Iteration counts and stabilization terms come
/// from the world settings.
func (world *RpWorld) Step(dt float64) {
	stepTimer := MakeRpTimer()

	// If new shapes were added, we need to find the new pairs.
	if (world.M_flags & RpWorld_Flags.E_newProxyShape) != 0x0000 {
		world.M_collisionManager.FindNewContacts()
		world.M_flags &= ^RpWorld_Flags.E_newProxyShape
	}

	world.M_flags |= RpWorld_Flags.E_locked

	step := MakeRpTimeStep()
	step.Dt = dt
	step.VelocityIterations = world.M_settings.VelocityIterations
	step.PositionIterations = world.M_settings.PositionIterations
	if dt > 0.0 {
		step.Inv_dt = 1.0 / dt
	} else {
		step.Inv_dt = 0.0
	}

	step.DtRatio = world.M_inv_dt0 * dt

	step.WarmStarting = world.M_settings.WarmStarting
	step.Beta = world.M_settings.Beta
	step.Baumgarte = world.M_settings.Baumgarte
	step.LinearSlop = world.M_settings.LinearSlop
	step.MaxLinearCorrection = world.M_settings.MaxLinearCorrection

	// Update pairs. This is where some pairs are destroyed.
	{
		timer := MakeRpTimer()
		world.M_collisionManager.Collide()
		world.M_profile.Collide = timer.GetMilliseconds()
	}

	// Integrate velocities, solve velocity constraints, and integrate positions.
	if step.Dt > 0.0 {
		timer := MakeRpTimer()
		world.Solve(step)
		world.M_profile.Solve = timer.GetMilliseconds()
	}

	if step.Dt > 0.0 {
		world.M_inv_dt0 = step.Inv_dt
	}

	if (world.M_flags & RpWorld_Flags.E_clearForces) != 0x0000 {
		world.ClearForces()
	}

	world.M_flags &= ^RpWorld_Flags.E_locked

	world.M_profile.Step = stepTimer.GetMilliseconds()
}

func (world *RpWorld) ClearForces() {
	for body := world.M_bodyList; body != nil; body = body.GetNext() {
		body.M_force = mgl64.Vec3{}
		body.M_torque = mgl64.Vec3{}
	}
}

/// Query the world for all shapes whose fat AABB overlaps the box. The
/// callback returns false to stop the query.
func (world *RpWorld) QueryAABB(callback RpBroadPhaseQueryCallback, aabb RpAABB) {
	broadPhase := &world.M_collisionManager.M_broadPhase

	broadPhase.Query(func(proxyId int) bool {
		return callback(broadPhase.GetUserData(proxyId).(*RpProxyShape))
	}, aabb)
}

/// Ray-cast the world for all shapes in the path of the ray. The callback
/// controls the continuation: -1 ignores the shape, 0 terminates, a fraction
/// clips the ray, 1 continues without clipping.
func (world *RpWorld) RayCast(callback RpRaycastCallback, point1 mgl64.Vec3, point2 mgl64.Vec3) {
	broadPhase := &world.M_collisionManager.M_broadPhase

	wrapper := func(input RpRayCastInput, nodeId int) float64 {
		shape := broadPhase.GetUserData(nodeId).(*RpProxyShape)

		output := MakeRpRayCastOutput()
		if shape.RayCast(&output, input) {
			fraction := output.Fraction
			point := input.P1.Mul(1.0 - fraction).Add(input.P2.Mul(fraction))
			return callback(shape, point, output.Normal, fraction)
		}

		return input.MaxFraction
	}

	input := MakeRpRayCastInput()
	input.MaxFraction = 1.0
	input.P1 = point1
	input.P2 = point2
	broadPhase.RayCast(wrapper, input)
}

/// Shift the world origin. Useful for large worlds.
/// The body shift formula is: position -= newOrigin
func (world *RpWorld) ShiftOrigin(newOrigin mgl64.Vec3) {
	if world.IsLocked() {
		world.logf("[world] shift origin rejected: %v", ErrRpWorldLocked)
		return
	}

	for b := world.M_bodyList; b != nil; b = b.M_next {
		b.M_xf.P = b.M_xf.P.Sub(newOrigin)
		b.M_sweep.C0 = b.M_sweep.C0.Sub(newOrigin)
		b.M_sweep.C = b.M_sweep.C.Sub(newOrigin)
	}

	world.M_collisionManager.M_broadPhase.ShiftOrigin(newOrigin)
}

/// Dump the world to the standard output as Go source that rebuilds it.
func (world *RpWorld) Dump() {
	if world.IsLocked() {
		return
	}

	g := world.M_gravity
	fmt.Print("settings := MakeRpSettings()\n")
	fmt.Printf("settings.Gravity = mgl64.Vec3{%.15e, %.15e, %.15e}\n", g[0], g[1], g[2])
	fmt.Print("world := MakeRpWorld(settings)\n")

	fmt.Printf("bodies := make([]*RpBody, %d)\n", world.M_bodyCount)
	fmt.Printf("joints := make([]RpJointInterface, %d)\n", world.M_jointCount)

	i := 0
	for b := world.M_bodyList; b != nil; b = b.M_next {
		b.M_islandIndex = i
		b.Dump()
		i++
	}

	i = 0
	for j := world.M_jointList; j != nil; j = j.GetNext() {
		j.SetIndex(i)
		i++
	}

	for j := world.M_jointList; j != nil; j = j.GetNext() {
		fmt.Print("{\n")
		j.Dump()
		fmt.Print("}\n")
	}
}
