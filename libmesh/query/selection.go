package query

import (
	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/fine-structures/halfedge/hemesh"
)

// Kind says what a Selection holds.
type Kind byte

const (
	Empty Kind = iota
	Points
	Vertices
	Edges
	Faces
	EdgeLoop // half-edges in loop order
)

func (k Kind) String() string {
	switch k {
	case Points:
		return "points"
	case Vertices:
		return "vertices"
	case Edges:
		return "edges"
	case Faces:
		return "faces"
	case EdgeLoop:
		return "edge loop"
	}
	return "empty"
}

// Selection is a set of handles of one element kind that remembers insertion order.
type Selection[E hemesh.Element] struct {
	Kind Kind
	set  *linkedhashset.Set
}

// NewSelection returns an empty selection.  Kind should agree with E (EdgeLoop and Edges both hold half-edges).
func NewSelection[E hemesh.Element](kind Kind) *Selection[E] {
	return &Selection[E]{
		Kind: kind,
		set:  linkedhashset.New(),
	}
}

// Add appends handles not already present.  Handles are compared as given, generation included.
func (sel *Selection[E]) Add(handles ...hemesh.Handle[E]) {
	for _, h := range handles {
		sel.set.Add(h)
	}
}

func (sel *Selection[E]) Remove(handles ...hemesh.Handle[E]) {
	for _, h := range handles {
		sel.set.Remove(h)
	}
}

func (sel *Selection[E]) Contains(h hemesh.Handle[E]) bool {
	return sel.set.Contains(h)
}

func (sel *Selection[E]) Len() int {
	return sel.set.Size()
}

func (sel *Selection[E]) IsEmpty() bool {
	return sel.set.Empty()
}

func (sel *Selection[E]) Clear() {
	sel.set.Clear()
}

// Handles returns the selected handles in insertion order.
func (sel *Selection[E]) Handles() []hemesh.Handle[E] {
	handles := make([]hemesh.Handle[E], 0, sel.set.Size())
	it := sel.set.Iterator()
	for it.Next() {
		handles = append(handles, it.Value().(hemesh.Handle[E]))
	}
	return handles
}
