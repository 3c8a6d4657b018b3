package arena

import (
	"github.com/emirpasic/gods/stacks/arraystack"
	"github.com/fine-structures/halfedge/hemesh"
)

type (
	Offset     = hemesh.Offset
	Generation = hemesh.Generation
	Tag        = hemesh.Tag
)

type slot[E any] struct {
	elem       E
	tag        Tag
	generation Generation
	status     hemesh.Status
}

// ElementBuffer stores elements of one kind in a growable slice of slots.
//
// Removed slots go onto a free stack and are reused by later adds.  Every removal bumps the slot's generation,
// so handles issued before the removal stop resolving even once the slot holds a new element.
// Slot 0 is reserved and never active.
//
// Pointers returned by Get (and passed to Each) point into the slot slice: they are valid until the next Add,
// compaction or Reset on the same buffer.
type ElementBuffer[E any] struct {
	slots    []slot[E]
	free     *arraystack.Stack // of Offset
	genFloor Generation        // lowest generation a newly appended slot may start at
}

// MoveFunc is called by the compaction routines each time the element formerly at from now lives at to.
type MoveFunc[E any] func(from, to hemesh.Handle[E], elem *E)

func NewElementBuffer[E any](capacity int) *ElementBuffer[E] {
	if capacity < 1 {
		capacity = 1
	}
	buf := &ElementBuffer[E]{
		slots: make([]slot[E], 1, capacity+1),
		free:  arraystack.New(),
	}
	return buf
}

// Reset drops every element but keeps the allocated capacity.
func (buf *ElementBuffer[E]) Reset() {
	var zero slot[E]
	for i := range buf.slots {
		buf.slots[i] = zero
	}
	buf.slots = buf.slots[:1]
	buf.free.Clear()
	buf.genFloor = 0
}

// Len is the number of slots minus the number of free slots.  The reserved slot 0 is counted.
func (buf *ElementBuffer[E]) Len() int {
	return len(buf.slots) - buf.free.Size()
}

// SlotCount is the number of physical slots, active or not, including slot 0.
func (buf *ElementBuffer[E]) SlotCount() int {
	return len(buf.slots)
}

// FreeCount is the number of removed slots waiting for reuse.
func (buf *ElementBuffer[E]) FreeCount() int {
	return buf.free.Size()
}

func (buf *ElementBuffer[E]) resolve(h hemesh.Handle[E]) *slot[E] {
	offset := h.Offset()
	if offset == hemesh.InvalidOffset || int(offset) >= len(buf.slots) {
		return nil
	}
	s := &buf.slots[offset]
	if s.status != hemesh.Active {
		return nil
	}
	if gen := h.Generation(); gen != hemesh.GenerationAny && gen != s.generation {
		return nil
	}
	return s
}

// Get returns the element h refers to or nil if h is the sentinel, out of range, inactive or stale.
func (buf *ElementBuffer[E]) Get(h hemesh.Handle[E]) *E {
	if s := buf.resolve(h); s != nil {
		return &s.elem
	}
	return nil
}

// Add stores elem in a free slot (or a new one) and returns a handle carrying the slot's current generation.
func (buf *ElementBuffer[E]) Add(elem E) hemesh.Handle[E] {
	var offset Offset

	if top, ok := buf.free.Pop(); ok {
		offset = top.(Offset)
		s := &buf.slots[offset]
		s.elem = elem
		s.tag = 0
		s.status = hemesh.Active
	} else {
		offset = Offset(len(buf.slots))
		buf.slots = append(buf.slots, slot[E]{
			elem:       elem,
			generation: max(hemesh.FirstGen, buf.genFloor),
			status:     hemesh.Active,
		})
	}

	return hemesh.HandleWithGen[E](offset, buf.slots[offset].generation)
}

// Remove deactivates the element h refers to.  It is a no-op if h doesn't resolve, so a slot is never freed twice.
func (buf *ElementBuffer[E]) Remove(h hemesh.Handle[E]) bool {
	s := buf.resolve(h)
	if s == nil {
		return false
	}

	var zero E
	s.elem = zero
	s.tag = 0
	s.status = hemesh.Inactive
	s.generation = nextGeneration(s.generation)
	buf.free.Push(h.Offset())
	return true
}

func nextGeneration(gen Generation) Generation {
	gen++
	if gen == hemesh.GenerationAny {
		gen = hemesh.FirstGen
	}
	return gen
}

// Tag returns the traversal tag of the element h refers to (0 if h doesn't resolve).
func (buf *ElementBuffer[E]) Tag(h hemesh.Handle[E]) Tag {
	if s := buf.resolve(h); s != nil {
		return s.tag
	}
	return 0
}

// SetTag stamps the element h refers to, returning false if h doesn't resolve.
func (buf *ElementBuffer[E]) SetTag(h hemesh.Handle[E], tag Tag) bool {
	if s := buf.resolve(h); s != nil {
		s.tag = tag
		return true
	}
	return false
}

// HandleAt returns a fully qualified handle to the active element at offset, or the sentinel handle.
func (buf *ElementBuffer[E]) HandleAt(offset Offset) hemesh.Handle[E] {
	if offset == hemesh.InvalidOffset || int(offset) >= len(buf.slots) {
		return hemesh.Handle[E]{}
	}
	s := &buf.slots[offset]
	if s.status != hemesh.Active {
		return hemesh.Handle[E]{}
	}
	return hemesh.HandleWithGen[E](offset, s.generation)
}

// Each calls fn for every active element in offset order, skipping slot 0, until fn returns false.
func (buf *ElementBuffer[E]) Each(fn func(h hemesh.Handle[E], elem *E) bool) {
	for i := 1; i < len(buf.slots); i++ {
		s := &buf.slots[i]
		if s.status != hemesh.Active {
			continue
		}
		if !fn(hemesh.HandleWithGen[E](Offset(i), s.generation), &s.elem) {
			break
		}
	}
}

// Handles appends a handle for every active element to dst.
func (buf *ElementBuffer[E]) Handles(dst []hemesh.Handle[E]) []hemesh.Handle[E] {
	buf.Each(func(h hemesh.Handle[E], _ *E) bool {
		dst = append(dst, h)
		return true
	})
	return dst
}
