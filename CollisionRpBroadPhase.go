package realphysics4d

import (
	"sort"

	"github.com/go-gl/mathgl/mgl64"
)

type RpBroadPhaseAddPairCallback func(userDataA interface{}, userDataB interface{})

type RpPair struct {
	ProxyIdA int
	ProxyIdB int
}

const RP_nullProxy = -1

/// The broad-phase is used for computing pairs and performing volume queries and ray casts.
/// This broad-phase does not persist pairs. Instead, this reports potentially new pairs.
/// It is up to the client to consume the new pairs and to track subsequent overlap.
type RpBroadPhase struct {
	M_tree RpDynamicTree

	M_proxyCount int

	M_moveBuffer []int
	M_pairBuffer []RpPair

	M_queryProxyId int
}

/// Pairs are ordered by (ProxyIdA, ProxyIdB), which makes the report order
/// independent of tree layout.
func RpPairLessThan(pair1 RpPair, pair2 RpPair) bool {
	if pair1.ProxyIdA != pair2.ProxyIdA {
		return pair1.ProxyIdA < pair2.ProxyIdA
	}

	return pair1.ProxyIdB < pair2.ProxyIdB
}

func MakeRpBroadPhase() RpBroadPhase {
	return RpBroadPhase{
		M_tree:         MakeRpDynamicTree(),
		M_proxyCount:   0,
		M_moveBuffer:   make([]int, 0, 16),
		M_pairBuffer:   make([]RpPair, 0, 16),
		M_queryProxyId: RP_nullProxy,
	}
}

func (bp RpBroadPhase) GetUserData(proxyId int) interface{} {
	return bp.M_tree.GetUserData(proxyId)
}

func (bp RpBroadPhase) TestOverlap(proxyIdA int, proxyIdB int) bool {
	return RpTestOverlapBoundingBoxes(
		bp.M_tree.GetFatAABB(proxyIdA),
		bp.M_tree.GetFatAABB(proxyIdB),
	)
}

func (bp RpBroadPhase) GetFatAABB(proxyId int) RpAABB {
	return bp.M_tree.GetFatAABB(proxyId)
}

func (bp RpBroadPhase) GetProxyCount() int {
	return bp.M_proxyCount
}

func (bp RpBroadPhase) GetTreeHeight() int {
	return bp.M_tree.GetHeight()
}

func (bp RpBroadPhase) GetTreeBalance() int {
	return bp.M_tree.GetMaxBalance()
}

func (bp RpBroadPhase) GetTreeQuality() float64 {
	return bp.M_tree.GetAreaRatio()
}

/// Create a proxy with an initial AABB. Pairs are not reported until
/// UpdatePairs is called.
func (bp *RpBroadPhase) CreateProxy(aabb RpAABB, userData interface{}) int {
	proxyId := bp.M_tree.CreateProxy(aabb, userData)
	bp.M_proxyCount++
	bp.BufferMove(proxyId)
	return proxyId
}

func (bp *RpBroadPhase) DestroyProxy(proxyId int) {
	bp.UnBufferMove(proxyId)
	bp.M_proxyCount--
	bp.M_tree.DestroyProxy(proxyId)
}

/// Call MoveProxy as many times as you like, then when you are done
/// call UpdatePairs to finalized the proxy pairs (for your time step).
func (bp *RpBroadPhase) MoveProxy(proxyId int, aabb RpAABB, displacement mgl64.Vec3) {
	if bp.M_tree.MoveProxy(proxyId, aabb, displacement) {
		bp.BufferMove(proxyId)
	}
}

/// Call to trigger a re-processing of its pairs on the next call to UpdatePairs.
func (bp *RpBroadPhase) TouchProxy(proxyId int) {
	bp.BufferMove(proxyId)
}

func (bp *RpBroadPhase) BufferMove(proxyId int) {
	bp.M_moveBuffer = append(bp.M_moveBuffer, proxyId)
}

func (bp *RpBroadPhase) UnBufferMove(proxyId int) {
	for i := range bp.M_moveBuffer {
		if bp.M_moveBuffer[i] == proxyId {
			bp.M_moveBuffer[i] = RP_nullProxy
		}
	}
}

/// Update the pairs. This results in pair callbacks. This can only add pairs.
func (bp *RpBroadPhase) UpdatePairs(addPairCallback RpBroadPhaseAddPairCallback) {
	bp.M_pairBuffer = bp.M_pairBuffer[:0]

	// Perform tree queries for all moving proxies.
	for _, proxyId := range bp.M_moveBuffer {
		if proxyId == RP_nullProxy {
			continue
		}

		bp.M_queryProxyId = proxyId

		// We have to query the tree with the fat AABB so that
		// we don't fail to create a pair that may touch later.
		fatAABB := bp.M_tree.GetFatAABB(proxyId)

		bp.M_tree.Query(bp.QueryCallback, fatAABB)
	}

	bp.M_moveBuffer = bp.M_moveBuffer[:0]
	bp.M_queryProxyId = RP_nullProxy

	// Sort the pair buffer to expose duplicates.
	sort.Slice(bp.M_pairBuffer, func(i, j int) bool {
		return RpPairLessThan(bp.M_pairBuffer[i], bp.M_pairBuffer[j])
	})

	// Send the pairs back to the client, skipping duplicates.
	for i, pair := range bp.M_pairBuffer {
		if i > 0 && bp.M_pairBuffer[i-1] == pair {
			continue
		}

		addPairCallback(
			bp.M_tree.GetUserData(pair.ProxyIdA),
			bp.M_tree.GetUserData(pair.ProxyIdB),
		)
	}
}

// This is called from RpDynamicTree.Query when we are gathering pairs.
func (bp *RpBroadPhase) QueryCallback(proxyId int) bool {
	// A proxy cannot form a pair with itself.
	if proxyId == bp.M_queryProxyId {
		return true
	}

	bp.M_pairBuffer = append(bp.M_pairBuffer, RpPair{
		ProxyIdA: min(proxyId, bp.M_queryProxyId),
		ProxyIdB: max(proxyId, bp.M_queryProxyId),
	})

	return true
}

func (bp *RpBroadPhase) Query(callback RpTreeQueryCallback, aabb RpAABB) {
	bp.M_tree.Query(callback, aabb)
}

func (bp *RpBroadPhase) RayCast(callback RpTreeRayCastCallback, input RpRayCastInput) {
	bp.M_tree.RayCast(callback, input)
}

func (bp *RpBroadPhase) ShiftOrigin(newOrigin mgl64.Vec3) {
	bp.M_tree.ShiftOrigin(newOrigin)
}
