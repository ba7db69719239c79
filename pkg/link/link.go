// Package link provides a sorted, arena-backed doubly-linked list.
//
// Link keeps its elements ordered by a caller supplied comparator. Nodes are
// stored in a slice and chained through integer indices, so a removed node's
// storage is recycled through a free list instead of being released to the
// garbage collector. The particle system uses it as its expiry structure:
// the head is always the element that expires first and the tail the one
// that expires last.
package link

// NodeID is a handle to a node inside a Link. Handles stay valid until the
// node is removed; after that the storage may be reused by a later insert.
type NodeID int32

// Nil is the handle returned when no node exists.
const Nil NodeID = -1

type node[T any] struct {
	content T
	prev    NodeID
	next    NodeID
	used    bool
}

// Link is a sorted doubly-linked list over an arena of nodes.
//
// The comparator must be a strict weak ordering. Elements with equal keys
// keep their insertion order for both PushNode and ShiftNode.
type Link[T any] struct {
	cmp   func(a, b T) int
	nodes []node[T]
	free  []NodeID
	first NodeID
	last  NodeID
	len   int
}

// New creates an empty Link ordered by cmp.
// cmp returns a negative number when a sorts before b, zero when equal and
// a positive number otherwise.
func New[T any](cmp func(a, b T) int) *Link[T] {
	return NewWithCapacity(cmp, 0)
}

// NewWithCapacity creates an empty Link with room for capacity nodes before
// the arena has to grow.
func NewWithCapacity[T any](cmp func(a, b T) int, capacity int) *Link[T] {
	if capacity < 0 {
		capacity = 0
	}
	return &Link[T]{
		cmp:   cmp,
		nodes: make([]node[T], 0, capacity),
		first: Nil,
		last:  Nil,
	}
}

// Len returns the number of elements in the list.
func (l *Link[T]) Len() int {
	return l.len
}

// First returns the handle of the minimum element, or Nil.
func (l *Link[T]) First() NodeID {
	return l.first
}

// Last returns the handle of the maximum element, or Nil.
func (l *Link[T]) Last() NodeID {
	return l.last
}

// Next returns the successor of id, or Nil.
func (l *Link[T]) Next(id NodeID) NodeID {
	if !l.valid(id) {
		return Nil
	}
	return l.nodes[id].next
}

// Prev returns the predecessor of id, or Nil.
func (l *Link[T]) Prev(id NodeID) NodeID {
	if !l.valid(id) {
		return Nil
	}
	return l.nodes[id].prev
}

// Content returns a pointer to the element stored at id, or nil for an
// invalid handle. Mutating the sort key through the pointer is only safe when
// the mutation preserves the relative order of all elements.
func (l *Link[T]) Content(id NodeID) *T {
	if !l.valid(id) {
		return nil
	}
	return &l.nodes[id].content
}

func (l *Link[T]) valid(id NodeID) bool {
	return id >= 0 && int(id) < len(l.nodes) && l.nodes[id].used
}

// alloc takes a node from the free list or grows the arena.
func (l *Link[T]) alloc(content T) NodeID {
	var id NodeID
	if n := len(l.free); n > 0 {
		id = l.free[n-1]
		l.free = l.free[:n-1]
	} else {
		l.nodes = append(l.nodes, node[T]{})
		id = NodeID(len(l.nodes) - 1)
	}
	l.nodes[id] = node[T]{content: content, prev: Nil, next: Nil, used: true}
	l.len++
	return id
}

// insertAfter links id directly after at. at == Nil inserts at the head.
func (l *Link[T]) insertAfter(at, id NodeID) {
	n := &l.nodes[id]
	if at == Nil {
		n.prev = Nil
		n.next = l.first
		if l.first != Nil {
			l.nodes[l.first].prev = id
		}
		l.first = id
		if l.last == Nil {
			l.last = id
		}
		return
	}
	next := l.nodes[at].next
	n.prev = at
	n.next = next
	l.nodes[at].next = id
	if next != Nil {
		l.nodes[next].prev = id
	} else {
		l.last = id
	}
}

// PushNode inserts content in sorted position, scanning from the tail.
// It is cheap when elements arrive in roughly ascending order.
func (l *Link[T]) PushNode(content T) NodeID {
	id := l.alloc(content)
	cur := l.last
	for cur != Nil && l.cmp(content, l.nodes[cur].content) < 0 {
		cur = l.nodes[cur].prev
	}
	l.insertAfter(cur, id)
	return id
}

// ShiftNode inserts content in sorted position, scanning from the head.
// It is cheap when elements arrive in roughly descending order.
func (l *Link[T]) ShiftNode(content T) NodeID {
	id := l.alloc(content)
	prev := Nil
	cur := l.first
	for cur != Nil && l.cmp(l.nodes[cur].content, content) <= 0 {
		prev = cur
		cur = l.nodes[cur].next
	}
	l.insertAfter(prev, id)
	return id
}

// RemoveNode detaches id in O(1) and recycles its storage.
// It reports false when id does not refer to a live node.
func (l *Link[T]) RemoveNode(id NodeID) bool {
	if !l.valid(id) {
		return false
	}
	n := &l.nodes[id]
	if n.prev != Nil {
		l.nodes[n.prev].next = n.next
	} else {
		l.first = n.next
	}
	if n.next != Nil {
		l.nodes[n.next].prev = n.prev
	} else {
		l.last = n.prev
	}
	var zero T
	*n = node[T]{content: zero, prev: Nil, next: Nil}
	l.free = append(l.free, id)
	l.len--
	return true
}

// FindNodeByContent returns the first node, head to tail, whose content
// satisfies pred.
func (l *Link[T]) FindNodeByContent(pred func(*T) bool) (NodeID, bool) {
	for cur := l.first; cur != Nil; cur = l.nodes[cur].next {
		if pred(&l.nodes[cur].content) {
			return cur, true
		}
	}
	return Nil, false
}

// ForEach visits elements in ascending order. fn must not insert or remove.
func (l *Link[T]) ForEach(fn func(content *T, i int)) {
	i := 0
	for cur := l.first; cur != Nil; cur = l.nodes[cur].next {
		fn(&l.nodes[cur].content, i)
		i++
	}
}

// ForEachReverse visits elements in descending order. fn must not insert or remove.
func (l *Link[T]) ForEachReverse(fn func(content *T, i int)) {
	i := 0
	for cur := l.last; cur != Nil; cur = l.nodes[cur].prev {
		fn(&l.nodes[cur].content, i)
		i++
	}
}

// Clear removes every element but keeps the arena's capacity.
func (l *Link[T]) Clear() {
	l.nodes = l.nodes[:0]
	l.free = l.free[:0]
	l.first = Nil
	l.last = Nil
	l.len = 0
}
