package realphysics4d

/// Owns the broad phase and the overlapping pairs. The narrow phase runs
/// the separating axis search and the contact generator for every pair, and
/// collects the generated contacts through CreateContact.
type RpCollisionManager struct {
	M_broadPhase      RpBroadPhase
	M_pairList        *RpOverlappingPair
	M_pairTail        *RpOverlappingPair
	M_pairs           map[RpPairKey]*RpOverlappingPair
	M_pairCount       int
	M_contactFilter   RpContactFilterInterface
	M_contactListener RpContactListenerInterface
	M_settings        RpSettings
}

var rp_defaultFilter RpContactFilterInterface = &RpContactFilter{}

func MakeRpCollisionManager(settings RpSettings) RpCollisionManager {
	return RpCollisionManager{
		M_broadPhase:      MakeRpBroadPhase(),
		M_pairs:           make(map[RpPairKey]*RpOverlappingPair),
		M_contactFilter:   rp_defaultFilter,
		M_contactListener: nil,
		M_settings:        settings,
	}
}

func NewRpCollisionManager(settings RpSettings) *RpCollisionManager {
	res := MakeRpCollisionManager(settings)
	return &res
}

func (mgr RpCollisionManager) GetPairList() *RpOverlappingPair {
	return mgr.M_pairList
}

func (mgr RpCollisionManager) GetPairCount() int {
	return mgr.M_pairCount
}

/// Look up the pair of two shapes, in either order.
func (mgr RpCollisionManager) FindPair(shape1, shape2 *RpProxyShape) *RpOverlappingPair {
	return mgr.M_pairs[MakeRpPairKey(shape1.M_proxyId, shape2.M_proxyId)]
}

func (mgr *RpCollisionManager) Destroy(pair *RpOverlappingPair) {
	body1 := pair.GetShape1().GetBody()
	body2 := pair.GetShape2().GetBody()

	if mgr.M_contactListener != nil && pair.IsTouching() {
		mgr.M_contactListener.EndContact(pair)
	}

	// Remove from the world.
	if pair.M_prev != nil {
		pair.M_prev.M_next = pair.M_next
	}

	if pair.M_next != nil {
		pair.M_next.M_prev = pair.M_prev
	}

	if pair == mgr.M_pairList {
		mgr.M_pairList = pair.M_next
	}

	if pair == mgr.M_pairTail {
		mgr.M_pairTail = pair.M_prev
	}

	// Remove from body 1
	if pair.M_node1.Prev != nil {
		pair.M_node1.Prev.Next = pair.M_node1.Next
	}

	if pair.M_node1.Next != nil {
		pair.M_node1.Next.Prev = pair.M_node1.Prev
	}

	if &pair.M_node1 == body1.M_pairList {
		body1.M_pairList = pair.M_node1.Next
	}

	// Remove from body 2
	if pair.M_node2.Prev != nil {
		pair.M_node2.Prev.Next = pair.M_node2.Next
	}

	if pair.M_node2.Next != nil {
		pair.M_node2.Next.Prev = pair.M_node2.Prev
	}

	if &pair.M_node2 == body2.M_pairList {
		body2.M_pairList = pair.M_node2.Next
	}

	delete(mgr.M_pairs, pair.GetKey())
	pair.M_prev = nil
	pair.M_next = nil
	mgr.M_pairCount--
}

// This is the top level collision call for the time step. Here
// all the narrow phase collision is processed for the world
// pair list.
func (mgr *RpCollisionManager) Collide() {
	pair := mgr.M_pairList

	for pair != nil {
		shape1 := pair.GetShape1()
		shape2 := pair.GetShape2()
		body1 := shape1.GetBody()
		body2 := shape2.GetBody()

		// Is this pair flagged for filtering?
		if (pair.M_flags & RpOverlappingPair_Flag.E_filterFlag) != 0x0000 {
			// Should these bodies collide?
			if body2.ShouldCollide(body1) == false {
				nuke := pair
				pair = nuke.M_next
				mgr.Destroy(nuke)
				continue
			}

			// Check user filtering.
			if mgr.M_contactFilter != nil && mgr.M_contactFilter.ShouldCollide(shape1, shape2) == false {
				nuke := pair
				pair = nuke.M_next
				mgr.Destroy(nuke)
				continue
			}

			pair.M_flags &= ^RpOverlappingPair_Flag.E_filterFlag
		}

		active1 := body1.IsAwake() && body1.M_type != RpBodyType.Rp_staticBody
		active2 := body2.IsAwake() && body2.M_type != RpBodyType.Rp_staticBody

		// At least one body must be awake and it must be dynamic or kinematic.
		if active1 == false && active2 == false {
			pair = pair.M_next
			continue
		}

		overlap := mgr.M_broadPhase.TestOverlap(shape1.M_proxyId, shape2.M_proxyId)

		// Here we destroy pairs that cease to overlap in the broad-phase.
		if overlap == false {
			nuke := pair
			pair = nuke.M_next
			mgr.Destroy(nuke)
			continue
		}

		// The pair persists.
		pair.Update(mgr, mgr.M_contactListener, mgr.M_settings)
		pair = pair.M_next
	}
}

/// Run the narrow phase for one pair outside of Collide. Returns false when
/// the shapes are separated or no contact could be generated.
func (mgr *RpCollisionManager) ComputeContacts(pair *RpOverlappingPair) bool {
	return pair.ComputeContacts(mgr, mgr.M_settings)
}

/// Receives the contacts of the generator and stores them in the pair manifold.
func (mgr *RpCollisionManager) CreateContact(pair *RpOverlappingPair, info RpContactPointInfo) {
	pair.AddContact(info)
}

func (mgr *RpCollisionManager) FindNewContacts() {
	mgr.M_broadPhase.UpdatePairs(mgr.AddPair)
}

func (mgr *RpCollisionManager) AddPair(proxyUserData1 interface{}, proxyUserData2 interface{}) {
	shape1 := proxyUserData1.(*RpProxyShape)
	shape2 := proxyUserData2.(*RpProxyShape)

	body1 := shape1.GetBody()
	body2 := shape2.GetBody()

	// Are the shapes on the same body?
	if body1 == body2 {
		return
	}

	// Does a pair already exist?
	key := MakeRpPairKey(shape1.M_proxyId, shape2.M_proxyId)
	if _, ok := mgr.M_pairs[key]; ok {
		return
	}

	// Does a joint override collision? Is at least one body dynamic?
	if body2.ShouldCollide(body1) == false {
		return
	}

	// Check user filtering.
	if mgr.M_contactFilter != nil && mgr.M_contactFilter.ShouldCollide(shape1, shape2) == false {
		return
	}

	// Lower proxy id first, so that the pair orientation does not depend on
	// the broad-phase callback order.
	if shape2.M_proxyId < shape1.M_proxyId {
		shape1, shape2 = shape2, shape1
		body1, body2 = body2, body1
	}

	pair := NewRpOverlappingPair(shape1, shape2, mgr.M_settings.PersistentContactDistance)

	// Insert into the world, at the tail to keep creation order.
	pair.M_prev = mgr.M_pairTail
	pair.M_next = nil
	if mgr.M_pairTail != nil {
		mgr.M_pairTail.M_next = pair
	} else {
		mgr.M_pairList = pair
	}
	mgr.M_pairTail = pair
	mgr.M_pairs[key] = pair

	// Connect to island graph.

	// Connect to body 1
	pair.M_node1.Pair = pair
	pair.M_node1.Other = body2

	pair.M_node1.Prev = nil
	pair.M_node1.Next = body1.M_pairList
	if body1.M_pairList != nil {
		body1.M_pairList.Prev = &pair.M_node1
	}
	body1.M_pairList = &pair.M_node1

	// Connect to body 2
	pair.M_node2.Pair = pair
	pair.M_node2.Other = body1

	pair.M_node2.Prev = nil
	pair.M_node2.Next = body2.M_pairList
	if body2.M_pairList != nil {
		body2.M_pairList.Prev = &pair.M_node2
	}
	body2.M_pairList = &pair.M_node2

	// Wake up the bodies
	if shape1.IsSensor() == false && shape2.IsSensor() == false {
		body1.SetAwake(true)
		body2.SetAwake(true)
	}

	mgr.M_pairCount++
}
