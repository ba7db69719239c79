package link

import (
	"cmp"
	"math/rand"
	"sort"
	"testing"
)

type item struct {
	key float64
	tag int
}

func byKey(a, b item) int {
	return cmp.Compare(a.key, b.key)
}

func collect(l *Link[item]) []item {
	out := make([]item, 0, l.Len())
	l.ForEach(func(c *item, _ int) {
		out = append(out, *c)
	})
	return out
}

func assertSorted(t *testing.T, l *Link[item]) {
	t.Helper()
	items := collect(l)
	for i := 1; i < len(items); i++ {
		if items[i-1].key > items[i].key {
			t.Fatalf("list not sorted at %d: %v > %v", i, items[i-1].key, items[i].key)
		}
	}
	if len(items) != l.Len() {
		t.Fatalf("traversal yielded %d items, Len() = %d", len(items), l.Len())
	}
	if l.Len() > 0 {
		if l.Content(l.First()).key != items[0].key {
			t.Errorf("First() key = %v, want %v", l.Content(l.First()).key, items[0].key)
		}
		if l.Content(l.Last()).key != items[len(items)-1].key {
			t.Errorf("Last() key = %v, want %v", l.Content(l.Last()).key, items[len(items)-1].key)
		}
	}
}

// TestPushNode_KeepsOrder tests tail-scan insertion for ascending, descending and mixed input
func TestPushNode_KeepsOrder(t *testing.T) {
	tests := []struct {
		name string
		keys []float64
	}{
		{"Ascending", []float64{1, 2, 3, 4, 5}},
		{"Descending", []float64{5, 4, 3, 2, 1}},
		{"Mixed", []float64{3, 1, 4, 1, 5, 9, 2, 6}},
		{"Single", []float64{42}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := New(byKey)
			for i, k := range tt.keys {
				l.PushNode(item{key: k, tag: i})
			}
			assertSorted(t, l)
		})
	}
}

// TestShiftNode_KeepsOrder tests head-scan insertion
func TestShiftNode_KeepsOrder(t *testing.T) {
	l := New(byKey)
	for i, k := range []float64{3, 1, 4, 1, 5, 9, 2, 6} {
		l.ShiftNode(item{key: k, tag: i})
	}
	assertSorted(t, l)
}

// TestInsert_EqualKeysKeepInsertionOrder tests that both insert variants place
// a new element after existing elements with the same key
func TestInsert_EqualKeysKeepInsertionOrder(t *testing.T) {
	for name, insert := range map[string]func(l *Link[item], it item) NodeID{
		"PushNode":  (*Link[item]).PushNode,
		"ShiftNode": (*Link[item]).ShiftNode,
	} {
		t.Run(name, func(t *testing.T) {
			l := New(byKey)
			insert(l, item{key: 1, tag: 0})
			insert(l, item{key: 2, tag: 1})
			insert(l, item{key: 1, tag: 2})
			insert(l, item{key: 1, tag: 3})

			got := collect(l)
			wantTags := []int{0, 2, 3, 1}
			for i, want := range wantTags {
				if got[i].tag != want {
					t.Fatalf("position %d tag = %d, want %d (items %v)", i, got[i].tag, want, got)
				}
			}
		})
	}
}

// TestRemoveNode tests detaching head, tail and middle nodes
func TestRemoveNode(t *testing.T) {
	l := New(byKey)
	a := l.PushNode(item{key: 1})
	b := l.PushNode(item{key: 2})
	c := l.PushNode(item{key: 3})
	d := l.PushNode(item{key: 4})

	if !l.RemoveNode(b) {
		t.Fatal("removing middle node failed")
	}
	if l.Next(a) != c || l.Prev(c) != a {
		t.Error("middle removal did not relink neighbours")
	}

	if !l.RemoveNode(a) {
		t.Fatal("removing head failed")
	}
	if l.First() != c {
		t.Errorf("First() = %d, want %d", l.First(), c)
	}
	if l.Prev(c) != Nil {
		t.Error("new head should have no predecessor")
	}

	if !l.RemoveNode(d) {
		t.Fatal("removing tail failed")
	}
	if l.Last() != c {
		t.Errorf("Last() = %d, want %d", l.Last(), c)
	}

	if !l.RemoveNode(c) {
		t.Fatal("removing last node failed")
	}
	if l.Len() != 0 || l.First() != Nil || l.Last() != Nil {
		t.Errorf("list should be empty, len=%d first=%d last=%d", l.Len(), l.First(), l.Last())
	}

	if l.RemoveNode(c) {
		t.Error("removing a stale handle should report false")
	}
	if l.RemoveNode(Nil) {
		t.Error("removing Nil should report false")
	}
}

// TestRemoveNode_RecyclesStorage tests that removed nodes are reused by later inserts
func TestRemoveNode_RecyclesStorage(t *testing.T) {
	l := NewWithCapacity(byKey, 4)
	ids := []NodeID{
		l.PushNode(item{key: 1}),
		l.PushNode(item{key: 2}),
		l.PushNode(item{key: 3}),
	}
	l.RemoveNode(ids[0])
	reused := l.PushNode(item{key: 10})
	if reused != ids[0] {
		t.Errorf("expected recycled id %d, got %d", ids[0], reused)
	}
	if len(l.nodes) != 3 {
		t.Errorf("arena grew to %d nodes, want 3", len(l.nodes))
	}
	assertSorted(t, l)
}

// TestFindNodeByContent tests predicate search from the head
func TestFindNodeByContent(t *testing.T) {
	l := New(byKey)
	l.PushNode(item{key: 5, tag: 50})
	want := l.PushNode(item{key: 1, tag: 10})
	l.PushNode(item{key: 3, tag: 30})

	id, ok := l.FindNodeByContent(func(c *item) bool { return c.tag == 10 })
	if !ok || id != want {
		t.Errorf("FindNodeByContent = (%d, %v), want (%d, true)", id, ok, want)
	}

	if _, ok := l.FindNodeByContent(func(c *item) bool { return c.tag == 99 }); ok {
		t.Error("FindNodeByContent should not find a missing tag")
	}
}

// TestForEachReverse tests descending traversal and indices
func TestForEachReverse(t *testing.T) {
	l := New(byKey)
	for _, k := range []float64{2, 4, 1, 3} {
		l.PushNode(item{key: k})
	}

	var keys []float64
	var indices []int
	l.ForEachReverse(func(c *item, i int) {
		keys = append(keys, c.key)
		indices = append(indices, i)
	})

	want := []float64{4, 3, 2, 1}
	for i := range want {
		if keys[i] != want[i] || indices[i] != i {
			t.Fatalf("reverse traversal = %v (indices %v), want %v", keys, indices, want)
		}
	}
}

// TestContent_MonotoneRewrite tests that shifting every key by the same amount keeps order
func TestContent_MonotoneRewrite(t *testing.T) {
	l := New(byKey)
	for _, k := range []float64{1.2, 0.5, 3.0} {
		l.PushNode(item{key: k})
	}
	l.ForEach(func(c *item, _ int) {
		c.key -= 2
	})
	assertSorted(t, l)
	if got := l.Content(l.First()).key; got != -1.5 {
		t.Errorf("first key after rewrite = %v, want -1.5", got)
	}
}

// TestClear tests that Clear empties the list and it can be reused
func TestClear(t *testing.T) {
	l := New(byKey)
	l.PushNode(item{key: 1})
	l.PushNode(item{key: 2})
	l.Clear()
	if l.Len() != 0 || l.First() != Nil {
		t.Fatal("Clear did not empty the list")
	}
	l.PushNode(item{key: 7})
	assertSorted(t, l)
}

// TestRandomized_MatchesSort tests random inserts and removals against sort.Float64s
func TestRandomized_MatchesSort(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	l := New(byKey)
	var live []NodeID

	for step := 0; step < 2000; step++ {
		if len(live) > 0 && rng.Intn(3) == 0 {
			i := rng.Intn(len(live))
			if !l.RemoveNode(live[i]) {
				t.Fatalf("step %d: remove of live node failed", step)
			}
			live = append(live[:i], live[i+1:]...)
			continue
		}
		it := item{key: float64(rng.Intn(50))}
		if rng.Intn(2) == 0 {
			live = append(live, l.PushNode(it))
		} else {
			live = append(live, l.ShiftNode(it))
		}
	}

	keys := make([]float64, 0, len(live))
	for _, id := range live {
		keys = append(keys, l.Content(id).key)
	}
	sort.Float64s(keys)

	got := collect(l)
	if len(got) != len(keys) {
		t.Fatalf("len = %d, want %d", len(got), len(keys))
	}
	for i := range keys {
		if got[i].key != keys[i] {
			t.Fatalf("index %d key = %v, want %v", i, got[i].key, keys[i])
		}
	}
}
