package realphysics4d

import (
	"math/rand"
	"sort"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
)

func unitBoxAt(center mgl64.Vec3) RpAABB {
	return RpAABB{
		LowerBound: center.Sub(mgl64.Vec3{0.5, 0.5, 0.5}),
		UpperBound: center.Add(mgl64.Vec3{0.5, 0.5, 0.5}),
	}
}

func TestDynamicTreeQuery(t *testing.T) {
	tree := MakeRpDynamicTree()
	rng := rand.New(rand.NewSource(7))

	centers := make(map[int]mgl64.Vec3)
	for i := 0; i < 200; i++ {
		c := mgl64.Vec3{rng.Float64()*100 - 50, rng.Float64()*100 - 50, rng.Float64()*100 - 50}
		id := tree.CreateProxy(unitBoxAt(c), i)
		centers[id] = c
	}
	tree.Validate()

	query := RpAABB{LowerBound: mgl64.Vec3{-10, -10, -10}, UpperBound: mgl64.Vec3{10, 10, 10}}

	var got []int
	tree.Query(func(nodeId int) bool {
		got = append(got, nodeId)
		return true
	}, query)

	var want []int
	for id := range centers {
		if RpTestOverlapBoundingBoxes(tree.GetFatAABB(id), query) {
			want = append(want, id)
		}
	}

	sort.Ints(got)
	sort.Ints(want)
	if len(got) != len(want) {
		t.Fatalf("query found %d proxies, want %d", len(got), len(want))
	}
	for i := range got {
		if got[i] != want[i] {
			t.Fatalf("query found %v, want %v", got, want)
		}
	}

	// Early exit.
	calls := 0
	tree.Query(func(nodeId int) bool {
		calls++
		return false
	}, RpAABB{LowerBound: mgl64.Vec3{-100, -100, -100}, UpperBound: mgl64.Vec3{100, 100, 100}})
	if calls != 1 {
		t.Errorf("query continued after false: %d calls", calls)
	}

	if h := tree.GetHeight(); h > 20 {
		t.Errorf("tree height %d for 200 proxies", h)
	}
}

func TestDynamicTreeMoveAndDestroy(t *testing.T) {
	tree := MakeRpDynamicTree()

	a := tree.CreateProxy(unitBoxAt(mgl64.Vec3{}), "a")
	b := tree.CreateProxy(unitBoxAt(mgl64.Vec3{5, 0, 0}), "b")

	if tree.GetUserData(a) != "a" || tree.GetUserData(b) != "b" {
		t.Fatalf("user data lost")
	}

	// A small move stays inside the fat box.
	if tree.MoveProxy(a, unitBoxAt(mgl64.Vec3{0.01, 0, 0}), mgl64.Vec3{0.01, 0, 0}) {
		t.Errorf("small move reinserted the proxy")
	}

	if !tree.MoveProxy(a, unitBoxAt(mgl64.Vec3{20, 0, 0}), mgl64.Vec3{20, 0, 0}) {
		t.Errorf("large move kept the old fat box")
	}
	if fat := tree.GetFatAABB(a); !fat.Contains(unitBoxAt(mgl64.Vec3{20, 0, 0})) {
		t.Errorf("fat box %v does not contain the moved box", fat)
	}
	tree.Validate()

	tree.DestroyProxy(b)
	tree.Validate()

	found := 0
	tree.Query(func(int) bool {
		found++
		return true
	}, RpAABB{LowerBound: mgl64.Vec3{-100, -100, -100}, UpperBound: mgl64.Vec3{100, 100, 100}})
	if found != 1 {
		t.Errorf("found %d proxies after destroy, want 1", found)
	}
}

func TestDynamicTreeRayCast(t *testing.T) {
	tree := MakeRpDynamicTree()
	near := tree.CreateProxy(unitBoxAt(mgl64.Vec3{3, 0, 0}), nil)
	far := tree.CreateProxy(unitBoxAt(mgl64.Vec3{8, 0, 0}), nil)
	tree.CreateProxy(unitBoxAt(mgl64.Vec3{3, 10, 0}), nil)

	input := RpRayCastInput{P1: mgl64.Vec3{0, 0, 0}, P2: mgl64.Vec3{10, 0, 0}, MaxFraction: 1.0}

	hits := map[int]bool{}
	tree.RayCast(func(input RpRayCastInput, nodeId int) float64 {
		hits[nodeId] = true
		return -1.0
	}, input)

	if len(hits) != 2 || !hits[near] || !hits[far] {
		t.Errorf("ray hit %v, want %d and %d", hits, near, far)
	}

	// Clipping the ray at the near box hides the far one.
	var order []int
	tree.RayCast(func(input RpRayCastInput, nodeId int) float64 {
		order = append(order, nodeId)
		if nodeId == near {
			return 0.3
		}
		return -1.0
	}, input)

	for _, id := range order[1:] {
		if order[0] == near && id == far {
			t.Errorf("far box reported after the ray was clipped")
		}
	}
}

func TestBroadPhaseUpdatePairs(t *testing.T) {
	bp := MakeRpBroadPhase()

	a := bp.CreateProxy(unitBoxAt(mgl64.Vec3{}), "a")
	b := bp.CreateProxy(unitBoxAt(mgl64.Vec3{0.8, 0, 0}), "b")
	bp.CreateProxy(unitBoxAt(mgl64.Vec3{30, 0, 0}), "c")

	if bp.GetProxyCount() != 3 {
		t.Fatalf("proxy count = %d", bp.GetProxyCount())
	}
	if !bp.TestOverlap(a, b) {
		t.Errorf("a and b do not overlap")
	}

	var pairs [][2]interface{}
	bp.UpdatePairs(func(userDataA, userDataB interface{}) {
		pairs = append(pairs, [2]interface{}{userDataA, userDataB})
	})

	if len(pairs) != 1 || pairs[0] != [2]interface{}{"a", "b"} {
		t.Errorf("pairs = %v, want [[a b]]", pairs)
	}

	// Nothing moved, nothing reported.
	pairs = pairs[:0]
	bp.UpdatePairs(func(userDataA, userDataB interface{}) {
		pairs = append(pairs, [2]interface{}{userDataA, userDataB})
	})
	if len(pairs) != 0 {
		t.Errorf("pairs reported without movement: %v", pairs)
	}

	bp.DestroyProxy(b)
	if bp.GetProxyCount() != 2 {
		t.Errorf("proxy count after destroy = %d", bp.GetProxyCount())
	}
}
