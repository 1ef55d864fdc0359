// Package quadtree implements the broad-phase spatial index used to find
// candidate collision pairs. The tree is rebuilt from scratch every tick:
// Clear followed by one Add per live body.
package quadtree

import (
	"errors"
	"fmt"
	"slices"

	"github.com/opd-ai/go-asteroids/pkg/physics"
)

var (
	// ErrInvalidAccuracy is returned when the minimum cell width is below one
	// pixel, which would let subdivision recurse forever.
	ErrInvalidAccuracy = errors.New("quadtree: search accuracy must be at least 1")
	// ErrEmptyArea is returned for a world area without extent.
	ErrEmptyArea = errors.New("quadtree: world area is empty")
)

// Bounded is anything the tree can index. Identity is value equality, so
// pointer types give reference identity.
type Bounded interface {
	comparable
	Bounds() physics.Area
}

const noChildren = -1

type node[T Bounded] struct {
	region   physics.Area
	parent   int
	children int // index of the first of four siblings, or noChildren
	data     []T
	flagged  bool // registered in the collision list
	alive    bool
	depth    int
}

func (n *node[T]) leaf() bool {
	return n.children == noChildren
}

// Quadtree is an adaptive region quadtree over a fixed world area. Nodes
// live in a single arena slice and refer to each other by index; the four
// children of a node are allocated contiguously.
type Quadtree[T Bounded] struct {
	area       physics.Area
	accuracy   int
	nodes      []node[T]
	live       int
	generation uint64
	collisions []int
}

// New creates an empty tree covering area. Leaves whose width is at or below
// searchAccuracy never subdivide.
func New[T Bounded](area physics.Area, searchAccuracy int) (*Quadtree[T], error) {
	if searchAccuracy < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidAccuracy, searchAccuracy)
	}
	if area.Empty() {
		return nil, ErrEmptyArea
	}

	q := &Quadtree[T]{
		area:     area,
		accuracy: searchAccuracy,
		nodes:    make([]node[T], 0, 64),
	}
	q.Clear()
	return q, nil
}

// Area returns the world area covered by the root.
func (q *Quadtree[T]) Area() physics.Area {
	return q.area
}

// SearchAccuracy returns the minimum cell width.
func (q *Quadtree[T]) SearchAccuracy() int {
	return q.accuracy
}

// Clear drops every node and body and starts over with an empty root. Leaf
// handles obtained before the call become invalid.
func (q *Quadtree[T]) Clear() {
	q.nodes = q.nodes[:0]
	q.collisions = q.collisions[:0]
	q.live = 0
	q.generation++
	q.alloc(q.area, noChildren, 0)
}

// alloc appends a fresh leaf to the arena and returns its index. Data slices
// of recycled slots keep their capacity.
func (q *Quadtree[T]) alloc(region physics.Area, parent, depth int) int {
	idx := len(q.nodes)
	if idx < cap(q.nodes) {
		q.nodes = q.nodes[:idx+1]
		n := &q.nodes[idx]
		clear(n.data)
		*n = node[T]{data: n.data[:0]}
	} else {
		q.nodes = append(q.nodes, node[T]{})
	}

	n := &q.nodes[idx]
	n.region = region
	n.parent = parent
	n.children = noChildren
	n.alive = true
	n.depth = depth
	q.live++
	return idx
}

// Len returns the number of live nodes, root included.
func (q *Quadtree[T]) Len() int {
	return q.live
}

// Add inserts body into every leaf its bounds overlap, subdividing occupied
// leaves that are still wider than the search accuracy. Bodies entirely
// outside the world are ignored.
func (q *Quadtree[T]) Add(body T) {
	bounds := body.Bounds()
	if !q.nodes[0].region.Overlaps(bounds) {
		return
	}
	q.insert(0, body, bounds)
}

func (q *Quadtree[T]) insert(idx int, body T, bounds physics.Area) {
	n := &q.nodes[idx]
	if !n.leaf() {
		if len(n.data) > 0 {
			panic(fmt.Sprintf("quadtree: internal node %d holds %d bodies", idx, len(n.data)))
		}
		first := n.children
		for i := first; i < first+4; i++ {
			if q.nodes[i].region.Overlaps(bounds) {
				q.insert(i, body, bounds)
			}
		}
		return
	}

	if len(n.data) == 0 {
		n.data = append(n.data, body)
		return
	}

	if n.region.Width() > q.accuracy {
		q.subdivide(idx)
		q.insert(idx, body, bounds)
		return
	}

	n.data = append(n.data, body)
	if !n.flagged {
		n.flagged = true
		q.collisions = append(q.collisions, idx)
	}
}

// subdivide turns the leaf at idx into an internal node and moves its bodies
// into the children they overlap.
func (q *Quadtree[T]) subdivide(idx int) {
	if q.nodes[idx].flagged {
		panic(fmt.Sprintf("quadtree: subdividing collision leaf %d", idx))
	}

	quadrants := q.nodes[idx].region.Quadrants()
	depth := q.nodes[idx].depth + 1
	first := len(q.nodes)
	for _, region := range quadrants {
		q.alloc(region, idx, depth)
	}

	// alloc may have moved the arena.
	n := &q.nodes[idx]
	moved := n.data
	n.data = nil
	n.children = first

	for _, body := range moved {
		bounds := body.Bounds()
		for i := first; i < first+4; i++ {
			if q.nodes[i].region.Overlaps(bounds) {
				q.insert(i, body, bounds)
			}
		}
	}
}

// Remove detaches body from every leaf holding it. Leaves left with fewer
// than two bodies leave the collision list, and parents whose children are
// all empty leaves collapse back into leaves. The search does not rely on the
// body's current bounds, so bodies that moved since insertion are still
// found. Removing an absent body is a no-op.
//
// Remove scans every node, so it costs O(nodes). RemoveFrom is the bounded
// path when a leaf handle from FindSections is at hand.
func (q *Quadtree[T]) Remove(body T) {
	var holding []int
	for idx := range q.nodes {
		n := &q.nodes[idx]
		if n.alive && n.leaf() && slices.Contains(n.data, body) {
			holding = append(holding, idx)
		}
	}
	q.detach(body, holding)
}

// RemoveFrom detaches body from the leaves found below leaf, descending only
// into children its current bounds overlap. A stale handle falls back to
// Remove.
func (q *Quadtree[T]) RemoveFrom(body T, leaf Leaf[T]) {
	if !leaf.Valid() {
		q.Remove(body)
		return
	}
	q.detach(body, q.findFrom(body, body.Bounds(), leaf.index, nil))
}

func (q *Quadtree[T]) detach(body T, leaves []int) {
	for _, idx := range leaves {
		n := &q.nodes[idx]
		n.data = slices.DeleteFunc(n.data, func(other T) bool { return other == body })
		if n.flagged && len(n.data) < 2 {
			n.flagged = false
			if at := slices.Index(q.collisions, idx); at >= 0 {
				q.collisions = slices.Delete(q.collisions, at, at+1)
			}
		}
	}
	for _, idx := range leaves {
		q.collapse(q.nodes[idx].parent)
	}
}

// collapse demotes idx to a leaf while all four of its children are empty
// leaves, then continues with its parent.
func (q *Quadtree[T]) collapse(idx int) {
	for idx != noChildren {
		n := &q.nodes[idx]
		if !n.alive || n.leaf() {
			return
		}
		first := n.children
		for i := first; i < first+4; i++ {
			c := &q.nodes[i]
			if !c.leaf() || len(c.data) > 0 {
				return
			}
		}
		for i := first; i < first+4; i++ {
			q.nodes[i].alive = false
			q.live--
		}
		n.children = noChildren
		idx = n.parent
	}
}

// FindSections returns every leaf holding body, searching only the branches
// its bounds overlap.
func (q *Quadtree[T]) FindSections(body T) []Leaf[T] {
	return q.FindSectionsFrom(body, q.Root())
}

// FindSectionsFrom is FindSections limited to the subtree under start.
func (q *Quadtree[T]) FindSectionsFrom(body T, start Leaf[T]) []Leaf[T] {
	if !start.Valid() {
		return nil
	}
	found := q.findFrom(body, body.Bounds(), start.index, nil)
	leaves := make([]Leaf[T], 0, len(found))
	for _, idx := range found {
		leaves = append(leaves, q.handle(idx))
	}
	return leaves
}

func (q *Quadtree[T]) findFrom(body T, bounds physics.Area, idx int, acc []int) []int {
	n := &q.nodes[idx]
	if !n.region.Overlaps(bounds) {
		return acc
	}
	if n.leaf() {
		if slices.Contains(n.data, body) {
			acc = append(acc, idx)
		}
		return acc
	}
	if len(n.data) > 0 {
		panic(fmt.Sprintf("quadtree: internal node %d holds %d bodies", idx, len(n.data)))
	}
	for i := n.children; i < n.children+4; i++ {
		acc = q.findFrom(body, bounds, i, acc)
	}
	return acc
}

// CollisionNodes returns the leaves at minimum width holding two or more
// bodies, in registration order.
func (q *Quadtree[T]) CollisionNodes() []Leaf[T] {
	leaves := make([]Leaf[T], 0, len(q.collisions))
	for _, idx := range q.collisions {
		leaves = append(leaves, q.handle(idx))
	}
	return leaves
}

// Root returns a handle to the root node.
func (q *Quadtree[T]) Root() Leaf[T] {
	return q.handle(0)
}

func (q *Quadtree[T]) handle(idx int) Leaf[T] {
	return Leaf[T]{tree: q, index: idx, generation: q.generation}
}

// Walk visits every live node depth first, parents before children.
func (q *Quadtree[T]) Walk(fn func(region physics.Area, depth int, data []T)) {
	q.walk(0, fn)
}

func (q *Quadtree[T]) walk(idx int, fn func(region physics.Area, depth int, data []T)) {
	n := &q.nodes[idx]
	fn(n.region, n.depth, n.data)
	if n.leaf() {
		return
	}
	for i := n.children; i < n.children+4; i++ {
		q.walk(i, fn)
	}
}

// Validate checks the structural invariants of the tree.
func (q *Quadtree[T]) Validate() error {
	live := 0
	for idx := range q.nodes {
		n := &q.nodes[idx]
		if !n.alive {
			continue
		}
		live++

		if !n.leaf() {
			if len(n.data) > 0 {
				return fmt.Errorf("quadtree: internal node %d holds %d bodies", idx, len(n.data))
			}
			for i := n.children; i < n.children+4; i++ {
				c := &q.nodes[i]
				if !c.alive || c.parent != idx {
					return fmt.Errorf("quadtree: node %d has a detached child %d", idx, i)
				}
			}
		}

		inList := slices.Contains(q.collisions, idx)
		if n.flagged != inList {
			return fmt.Errorf("quadtree: node %d flagged=%v but listed=%v", idx, n.flagged, inList)
		}
		if n.flagged && (!n.leaf() || len(n.data) < 2 || n.region.Width() > q.accuracy) {
			return fmt.Errorf("quadtree: node %d is not a valid collision leaf", idx)
		}
		if n.leaf() && len(n.data) > 1 && n.region.Width() > q.accuracy {
			return fmt.Errorf("quadtree: leaf %d of width %d holds %d bodies", idx, n.region.Width(), len(n.data))
		}
	}
	if live != q.live {
		return fmt.Errorf("quadtree: counted %d live nodes, tracked %d", live, q.live)
	}
	return nil
}

// Leaf is a non-owning handle to a node. It stays valid until the next Clear.
type Leaf[T Bounded] struct {
	tree       *Quadtree[T]
	index      int
	generation uint64
}

// Valid reports whether the handle still refers to a live node.
func (l Leaf[T]) Valid() bool {
	return l.tree != nil &&
		l.generation == l.tree.generation &&
		l.index < len(l.tree.nodes) &&
		l.tree.nodes[l.index].alive
}

// Data returns the bodies stored in the node. The slice is owned by the tree
// and must not be modified.
func (l Leaf[T]) Data() []T {
	if !l.Valid() {
		return nil
	}
	return l.tree.nodes[l.index].data
}

// Region returns the area covered by the node.
func (l Leaf[T]) Region() physics.Area {
	if !l.Valid() {
		return physics.Area{}
	}
	return l.tree.nodes[l.index].region
}
