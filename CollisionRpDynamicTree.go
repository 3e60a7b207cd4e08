package realphysics4d

import (
	"github.com/go-gl/mathgl/mgl64"
)

type RpTreeQueryCallback func(nodeId int) bool

type RpTreeRayCastCallback func(input RpRayCastInput, nodeId int) float64

const RP_nullNode = -1

type RpTreeNode struct {

	/// Enlarged AABB
	Aabb RpAABB

	UserData interface{}

	// Parent while allocated, next free node while pooled.
	Parent int
	Next   int

	Child1 int
	Child2 int

	// leaf = 0, free node = -1
	Height int
}

func (node RpTreeNode) IsLeaf() bool {
	return node.Child1 == RP_nullNode
}

/// A dynamic AABB tree broad-phase in three dimensions.
/// Leafs are proxies with a fat AABB (extended by RP_aabbExtension) so that
/// the client object can move by small amounts without triggering a tree update.
/// Insertion picks siblings by surface area cost.
///
/// Nodes are pooled and relocatable, so we use node indices rather than pointers.
type RpDynamicTree struct {
	M_root int

	M_nodes        []RpTreeNode
	M_nodeCount    int
	M_nodeCapacity int

	M_freeList int

	M_insertionCount int
}

func MakeRpDynamicTree() RpDynamicTree {
	tree := RpDynamicTree{}
	tree.M_root = RP_nullNode
	tree.M_nodeCapacity = 16
	tree.M_nodeCount = 0
	tree.M_nodes = make([]RpTreeNode, tree.M_nodeCapacity)
	tree.linkFreeNodes(0)
	tree.M_freeList = 0
	tree.M_insertionCount = 0
	return tree
}

// Chain nodes [from, capacity) into the free list.
func (tree *RpDynamicTree) linkFreeNodes(from int) {
	for i := from; i < tree.M_nodeCapacity-1; i++ {
		tree.M_nodes[i].Next = i + 1
		tree.M_nodes[i].Height = -1
	}
	tree.M_nodes[tree.M_nodeCapacity-1].Next = RP_nullNode
	tree.M_nodes[tree.M_nodeCapacity-1].Height = -1
}

func (tree RpDynamicTree) GetUserData(proxyId int) interface{} {
	RpAssert(0 <= proxyId && proxyId < tree.M_nodeCapacity)
	return tree.M_nodes[proxyId].UserData
}

func (tree RpDynamicTree) GetFatAABB(proxyId int) RpAABB {
	RpAssert(0 <= proxyId && proxyId < tree.M_nodeCapacity)
	return tree.M_nodes[proxyId].Aabb
}

/// Query an AABB for overlapping proxies. The callback is called for each
/// proxy that overlaps the supplied AABB, and stops the query by returning false.
func (tree *RpDynamicTree) Query(queryCallback RpTreeQueryCallback, aabb RpAABB) {
	stack := NewRpGrowableStack[int](64)
	stack.Push(tree.M_root)

	for stack.GetCount() > 0 {
		nodeId, _ := stack.Pop()
		if nodeId == RP_nullNode {
			continue
		}

		node := &tree.M_nodes[nodeId]

		if !RpTestOverlapBoundingBoxes(node.Aabb, aabb) {
			continue
		}

		if node.IsLeaf() {
			if !queryCallback(nodeId) {
				return
			}
		} else {
			stack.Push(node.Child1)
			stack.Push(node.Child2)
		}
	}
}

/// Ray-cast against the proxies in the tree. The callback returns the new max
/// fraction: 0 terminates, a positive value clips the ray, a negative value
/// ignores the proxy.
func (tree RpDynamicTree) RayCast(rayCastCallback RpTreeRayCastCallback, input RpRayCastInput) {
	p1 := input.P1
	p2 := input.P2
	RpAssert(p2.Sub(p1).LenSqr() > 0.0)

	maxFraction := input.MaxFraction

	stack := NewRpGrowableStack[int](64)
	stack.Push(tree.M_root)

	for stack.GetCount() > 0 {
		nodeId, _ := stack.Pop()
		if nodeId == RP_nullNode {
			continue
		}

		node := &tree.M_nodes[nodeId]

		// Slab test against the fat box, also accepting rays that start inside it.
		if !node.Aabb.Contains(RpAABB{LowerBound: p1, UpperBound: p1}) {
			hit := MakeRpRayCastOutput()
			if !node.Aabb.RayCast(&hit, RpRayCastInput{P1: p1, P2: p2, MaxFraction: maxFraction}) {
				continue
			}
		}

		if node.IsLeaf() {
			subInput := RpRayCastInput{
				P1:          input.P1,
				P2:          input.P2,
				MaxFraction: maxFraction,
			}

			value := rayCastCallback(subInput, nodeId)

			if value == 0.0 {
				// The client has terminated the ray cast.
				return
			}

			if value > 0.0 {
				maxFraction = value
			}
		} else {
			stack.Push(node.Child1)
			stack.Push(node.Child2)
		}
	}
}

// Allocate a node from the pool. Grow the pool if necessary.
func (tree *RpDynamicTree) AllocateNode() int {
	if tree.M_freeList == RP_nullNode {
		RpAssert(tree.M_nodeCount == tree.M_nodeCapacity)

		// The free list is empty. Double the pool.
		tree.M_nodes = append(tree.M_nodes, make([]RpTreeNode, tree.M_nodeCapacity)...)
		tree.M_nodeCapacity *= 2
		tree.linkFreeNodes(tree.M_nodeCount)
		tree.M_freeList = tree.M_nodeCount
	}

	// Peel a node off the free list.
	nodeId := tree.M_freeList
	node := &tree.M_nodes[nodeId]
	tree.M_freeList = node.Next
	node.Parent = RP_nullNode
	node.Child1 = RP_nullNode
	node.Child2 = RP_nullNode
	node.Height = 0
	node.UserData = nil
	tree.M_nodeCount++
	return nodeId
}

// Return a node to the pool.
func (tree *RpDynamicTree) FreeNode(nodeId int) {
	RpAssert(0 <= nodeId && nodeId < tree.M_nodeCapacity)
	RpAssert(0 < tree.M_nodeCount)
	tree.M_nodes[nodeId].Next = tree.M_freeList
	tree.M_nodes[nodeId].Height = -1
	tree.M_nodes[nodeId].UserData = nil
	tree.M_freeList = nodeId
	tree.M_nodeCount--
}

/// Create a proxy in the tree as a leaf node. The node index is returned
/// instead of a pointer so that the node pool can grow.
func (tree *RpDynamicTree) CreateProxy(aabb RpAABB, userData interface{}) int {
	proxyId := tree.AllocateNode()

	tree.M_nodes[proxyId].Aabb = aabb.Extend(RP_aabbExtension)
	tree.M_nodes[proxyId].UserData = userData
	tree.M_nodes[proxyId].Height = 0

	tree.InsertLeaf(proxyId)

	return proxyId
}

func (tree *RpDynamicTree) DestroyProxy(proxyId int) {
	RpAssert(0 <= proxyId && proxyId < tree.M_nodeCapacity)
	RpAssert(tree.M_nodes[proxyId].IsLeaf())

	tree.RemoveLeaf(proxyId)
	tree.FreeNode(proxyId)
}

/// Move a proxy with a swept AABB. If the proxy has moved outside of its fat
/// AABB it is removed and re-inserted; the return value tells whether that happened.
func (tree *RpDynamicTree) MoveProxy(proxyId int, aabb RpAABB, displacement mgl64.Vec3) bool {
	RpAssert(0 <= proxyId && proxyId < tree.M_nodeCapacity)
	RpAssert(tree.M_nodes[proxyId].IsLeaf())

	if tree.M_nodes[proxyId].Aabb.Contains(aabb) {
		return false
	}

	tree.RemoveLeaf(proxyId)

	b := aabb.Extend(RP_aabbExtension)

	// Predict AABB displacement.
	d := displacement.Mul(RP_aabbMultiplier)
	for i := 0; i < 3; i++ {
		if d[i] < 0.0 {
			b.LowerBound[i] += d[i]
		} else {
			b.UpperBound[i] += d[i]
		}
	}

	tree.M_nodes[proxyId].Aabb = b

	tree.InsertLeaf(proxyId)
	return true
}

// Cost of pushing leafAABB into the subtree rooted at child.
func (tree RpDynamicTree) descendCost(child int, leafAABB RpAABB, inheritanceCost float64) float64 {
	aabb := MakeRpAABB()
	aabb.CombineTwoInPlace(leafAABB, tree.M_nodes[child].Aabb)

	if tree.M_nodes[child].IsLeaf() {
		return aabb.GetSurfaceArea() + inheritanceCost
	}

	oldArea := tree.M_nodes[child].Aabb.GetSurfaceArea()
	newArea := aabb.GetSurfaceArea()
	return (newArea - oldArea) + inheritanceCost
}

func (tree *RpDynamicTree) InsertLeaf(leaf int) {
	tree.M_insertionCount++

	if tree.M_root == RP_nullNode {
		tree.M_root = leaf
		tree.M_nodes[tree.M_root].Parent = RP_nullNode
		return
	}

	// Find the best sibling for this node
	leafAABB := tree.M_nodes[leaf].Aabb
	index := tree.M_root
	for !tree.M_nodes[index].IsLeaf() {
		child1 := tree.M_nodes[index].Child1
		child2 := tree.M_nodes[index].Child2

		area := tree.M_nodes[index].Aabb.GetSurfaceArea()

		combinedAABB := MakeRpAABB()
		combinedAABB.CombineTwoInPlace(tree.M_nodes[index].Aabb, leafAABB)
		combinedArea := combinedAABB.GetSurfaceArea()

		// Cost of creating a new parent for this node and the new leaf
		cost := 2.0 * combinedArea

		// Minimum cost of pushing the leaf further down the tree
		inheritanceCost := 2.0 * (combinedArea - area)

		cost1 := tree.descendCost(child1, leafAABB, inheritanceCost)
		cost2 := tree.descendCost(child2, leafAABB, inheritanceCost)

		if cost < cost1 && cost < cost2 {
			break
		}

		if cost1 < cost2 {
			index = child1
		} else {
			index = child2
		}
	}

	sibling := index

	// Create a new parent.
	oldParent := tree.M_nodes[sibling].Parent
	newParent := tree.AllocateNode()
	tree.M_nodes[newParent].Parent = oldParent
	tree.M_nodes[newParent].Aabb.CombineTwoInPlace(leafAABB, tree.M_nodes[sibling].Aabb)
	tree.M_nodes[newParent].Height = tree.M_nodes[sibling].Height + 1
	tree.M_nodes[newParent].Child1 = sibling
	tree.M_nodes[newParent].Child2 = leaf
	tree.M_nodes[sibling].Parent = newParent
	tree.M_nodes[leaf].Parent = newParent

	if oldParent != RP_nullNode {
		if tree.M_nodes[oldParent].Child1 == sibling {
			tree.M_nodes[oldParent].Child1 = newParent
		} else {
			tree.M_nodes[oldParent].Child2 = newParent
		}
	} else {
		tree.M_root = newParent
	}

	tree.refit(tree.M_nodes[leaf].Parent)
}

// Walk from index to the root, balancing and fixing heights and AABBs.
func (tree *RpDynamicTree) refit(index int) {
	for index != RP_nullNode {
		index = tree.Balance(index)

		child1 := tree.M_nodes[index].Child1
		child2 := tree.M_nodes[index].Child2

		RpAssert(child1 != RP_nullNode)
		RpAssert(child2 != RP_nullNode)

		tree.M_nodes[index].Height = 1 + max(tree.M_nodes[child1].Height, tree.M_nodes[child2].Height)
		tree.M_nodes[index].Aabb.CombineTwoInPlace(tree.M_nodes[child1].Aabb, tree.M_nodes[child2].Aabb)

		index = tree.M_nodes[index].Parent
	}
}

func (tree *RpDynamicTree) RemoveLeaf(leaf int) {
	if leaf == tree.M_root {
		tree.M_root = RP_nullNode
		return
	}

	parent := tree.M_nodes[leaf].Parent
	grandParent := tree.M_nodes[parent].Parent

	sibling := tree.M_nodes[parent].Child1
	if sibling == leaf {
		sibling = tree.M_nodes[parent].Child2
	}

	if grandParent == RP_nullNode {
		tree.M_root = sibling
		tree.M_nodes[sibling].Parent = RP_nullNode
		tree.FreeNode(parent)
		return
	}

	// Destroy parent and connect sibling to grandParent.
	if tree.M_nodes[grandParent].Child1 == parent {
		tree.M_nodes[grandParent].Child1 = sibling
	} else {
		tree.M_nodes[grandParent].Child2 = sibling
	}
	tree.M_nodes[sibling].Parent = grandParent
	tree.FreeNode(parent)

	tree.refit(grandParent)
}

/// Perform a left or right rotation if node A is imbalanced.
/// Returns the new root index of the subtree.
func (tree *RpDynamicTree) Balance(iA int) int {
	RpAssert(iA != RP_nullNode)

	A := &tree.M_nodes[iA]
	if A.IsLeaf() || A.Height < 2 {
		return iA
	}

	iB := A.Child1
	iC := A.Child2
	RpAssert(0 <= iB && iB < tree.M_nodeCapacity)
	RpAssert(0 <= iC && iC < tree.M_nodeCapacity)

	balance := tree.M_nodes[iC].Height - tree.M_nodes[iB].Height

	if balance > 1 {
		return tree.rotateUp(iA, iC, iB)
	}

	if balance < -1 {
		return tree.rotateUp(iA, iB, iC)
	}

	return iA
}

// Promote child iX of iA above it. iOther is the child of iA that stays.
// The taller grandchild of X stays under X, the shorter one moves under A.
func (tree *RpDynamicTree) rotateUp(iA, iX, iOther int) int {
	A := &tree.M_nodes[iA]
	X := &tree.M_nodes[iX]
	other := &tree.M_nodes[iOther]

	iF := X.Child1
	iG := X.Child2
	RpAssert(0 <= iF && iF < tree.M_nodeCapacity)
	RpAssert(0 <= iG && iG < tree.M_nodeCapacity)

	// Swap A and X
	X.Child1 = iA
	X.Parent = A.Parent
	A.Parent = iX

	// A's old parent should point to X
	if X.Parent != RP_nullNode {
		if tree.M_nodes[X.Parent].Child1 == iA {
			tree.M_nodes[X.Parent].Child1 = iX
		} else {
			RpAssert(tree.M_nodes[X.Parent].Child2 == iA)
			tree.M_nodes[X.Parent].Child2 = iX
		}
	} else {
		tree.M_root = iX
	}

	iKeep, iMove := iF, iG
	if tree.M_nodes[iF].Height <= tree.M_nodes[iG].Height {
		iKeep, iMove = iG, iF
	}

	keep := &tree.M_nodes[iKeep]
	move := &tree.M_nodes[iMove]

	X.Child2 = iKeep
	if A.Child1 == iX {
		A.Child1 = iMove
	} else {
		A.Child2 = iMove
	}
	move.Parent = iA

	A.Aabb.CombineTwoInPlace(other.Aabb, move.Aabb)
	X.Aabb.CombineTwoInPlace(A.Aabb, keep.Aabb)

	A.Height = 1 + max(other.Height, move.Height)
	X.Height = 1 + max(A.Height, keep.Height)

	return iX
}

/// Compute the height of the binary tree in O(N) time.
func (tree RpDynamicTree) GetHeight() int {
	if tree.M_root == RP_nullNode {
		return 0
	}

	return tree.M_nodes[tree.M_root].Height
}

/// Ratio of the sum of the node areas to the root area.
func (tree RpDynamicTree) GetAreaRatio() float64 {
	if tree.M_root == RP_nullNode {
		return 0.0
	}

	rootArea := tree.M_nodes[tree.M_root].Aabb.GetSurfaceArea()
	if rootArea == 0.0 {
		return 0.0
	}

	totalArea := 0.0
	for i := 0; i < tree.M_nodeCapacity; i++ {
		node := &tree.M_nodes[i]
		if node.Height < 0 {
			// Free node in pool
			continue
		}

		totalArea += node.Aabb.GetSurfaceArea()
	}

	return totalArea / rootArea
}

// Compute the height of a sub-tree.
func (tree RpDynamicTree) ComputeHeight(nodeId int) int {
	RpAssert(0 <= nodeId && nodeId < tree.M_nodeCapacity)
	node := &tree.M_nodes[nodeId]

	if node.IsLeaf() {
		return 0
	}

	return 1 + max(tree.ComputeHeight(node.Child1), tree.ComputeHeight(node.Child2))
}

func (tree RpDynamicTree) ValidateStructure(index int) {
	if index == RP_nullNode {
		return
	}

	if index == tree.M_root {
		RpAssert(tree.M_nodes[index].Parent == RP_nullNode)
	}

	node := &tree.M_nodes[index]

	child1 := node.Child1
	child2 := node.Child2

	if node.IsLeaf() {
		RpAssert(child1 == RP_nullNode)
		RpAssert(child2 == RP_nullNode)
		RpAssert(node.Height == 0)
		return
	}

	RpAssert(0 <= child1 && child1 < tree.M_nodeCapacity)
	RpAssert(0 <= child2 && child2 < tree.M_nodeCapacity)

	RpAssert(tree.M_nodes[child1].Parent == index)
	RpAssert(tree.M_nodes[child2].Parent == index)

	tree.ValidateStructure(child1)
	tree.ValidateStructure(child2)
}

func (tree RpDynamicTree) ValidateMetrics(index int) {
	if index == RP_nullNode {
		return
	}

	node := &tree.M_nodes[index]

	if node.IsLeaf() {
		RpAssert(node.Height == 0)
		return
	}

	child1 := node.Child1
	child2 := node.Child2

	height := 1 + max(tree.M_nodes[child1].Height, tree.M_nodes[child2].Height)
	RpAssert(node.Height == height)

	aabb := MakeRpAABB()
	aabb.CombineTwoInPlace(tree.M_nodes[child1].Aabb, tree.M_nodes[child2].Aabb)

	RpAssert(aabb.LowerBound == node.Aabb.LowerBound)
	RpAssert(aabb.UpperBound == node.Aabb.UpperBound)

	tree.ValidateMetrics(child1)
	tree.ValidateMetrics(child2)
}

/// Validate this tree. For testing.
func (tree RpDynamicTree) Validate() {
	tree.ValidateStructure(tree.M_root)
	tree.ValidateMetrics(tree.M_root)

	freeCount := 0
	freeIndex := tree.M_freeList
	for freeIndex != RP_nullNode {
		RpAssert(0 <= freeIndex && freeIndex < tree.M_nodeCapacity)
		freeIndex = tree.M_nodes[freeIndex].Next
		freeCount++
	}

	RpAssert(tree.GetHeight() == tree.ComputeTotalHeight())
	RpAssert(tree.M_nodeCount+freeCount == tree.M_nodeCapacity)
}

func (tree RpDynamicTree) ComputeTotalHeight() int {
	if tree.M_root == RP_nullNode {
		return 0
	}
	return tree.ComputeHeight(tree.M_root)
}

/// Get the maximum balance of a node in the tree. The balance is the difference
/// in height of the two children of a node.
func (tree RpDynamicTree) GetMaxBalance() int {
	maxBalance := 0
	for i := 0; i < tree.M_nodeCapacity; i++ {
		node := &tree.M_nodes[i]
		if node.Height <= 1 {
			continue
		}

		RpAssert(!node.IsLeaf())

		balance := tree.M_nodes[node.Child2].Height - tree.M_nodes[node.Child1].Height
		if balance < 0 {
			balance = -balance
		}
		maxBalance = max(maxBalance, balance)
	}

	return maxBalance
}

/// Build an optimal tree. Very expensive. For testing.
func (tree *RpDynamicTree) RebuildBottomUp() {
	nodes := make([]int, 0, tree.M_nodeCount)

	// Build array of leaves. Free the rest.
	for i := 0; i < tree.M_nodeCapacity; i++ {
		if tree.M_nodes[i].Height < 0 {
			continue
		}

		if tree.M_nodes[i].IsLeaf() {
			tree.M_nodes[i].Parent = RP_nullNode
			nodes = append(nodes, i)
		} else {
			tree.FreeNode(i)
		}
	}

	if len(nodes) == 0 {
		tree.M_root = RP_nullNode
		return
	}

	for len(nodes) > 1 {
		minCost := RP_maxFloat
		iMin, jMin := -1, -1

		for i := 0; i < len(nodes); i++ {
			for j := i + 1; j < len(nodes); j++ {
				b := MakeRpAABB()
				b.CombineTwoInPlace(tree.M_nodes[nodes[i]].Aabb, tree.M_nodes[nodes[j]].Aabb)
				if cost := b.GetSurfaceArea(); cost < minCost {
					iMin, jMin = i, j
					minCost = cost
				}
			}
		}

		index1 := nodes[iMin]
		index2 := nodes[jMin]

		parentIndex := tree.AllocateNode()
		parent := &tree.M_nodes[parentIndex]
		child1 := &tree.M_nodes[index1]
		child2 := &tree.M_nodes[index2]
		parent.Child1 = index1
		parent.Child2 = index2
		parent.Height = 1 + max(child1.Height, child2.Height)
		parent.Aabb.CombineTwoInPlace(child1.Aabb, child2.Aabb)
		parent.Parent = RP_nullNode

		child1.Parent = parentIndex
		child2.Parent = parentIndex

		nodes[jMin] = nodes[len(nodes)-1]
		nodes[iMin] = parentIndex
		nodes = nodes[:len(nodes)-1]
	}

	tree.M_root = nodes[0]

	tree.Validate()
}

/// Shift the world origin. Useful for large worlds.
func (tree *RpDynamicTree) ShiftOrigin(newOrigin mgl64.Vec3) {
	for i := 0; i < tree.M_nodeCapacity; i++ {
		tree.M_nodes[i].Aabb.LowerBound = tree.M_nodes[i].Aabb.LowerBound.Sub(newOrigin)
		tree.M_nodes[i].Aabb.UpperBound = tree.M_nodes[i].Aabb.UpperBound.Sub(newOrigin)
	}
}
