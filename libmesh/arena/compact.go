package arena

import (
	"github.com/fine-structures/halfedge/hemesh"
)

// CompactStable moves every active element forward, keeping their relative order, and truncates the inactive tail.
//
// For each element whose offset changed, onMove is called once the element is in its new slot.
// A slot an element moves out of is retired with a bumped generation, and an element moving in takes the larger
// of its own generation and the slot's, so no handle issued before the pass resolves to a different element after it.
// Returns the number of slots reclaimed (0 if there was nothing to do).
func (buf *ElementBuffer[E]) CompactStable(onMove MoveFunc[E]) int {
	if buf.free.Empty() {
		return 0
	}

	w := 1
	for r := 1; r < len(buf.slots); r++ {
		src := buf.slots[r]
		if src.status != hemesh.Active {
			continue
		}
		if w != r {
			from := hemesh.HandleWithGen[E](Offset(r), src.generation)
			buf.vacate(r)
			src.generation = max(src.generation, buf.slots[w].generation)
			buf.slots[w] = src
			if onMove != nil {
				onMove(from, hemesh.HandleWithGen[E](Offset(w), src.generation), &buf.slots[w].elem)
			}
		}
		w++
	}

	return buf.truncate(w)
}

// CompactSwap fills holes by repeatedly moving the last active slot from the back into the first inactive slot
// from the front, then truncates the inactive tail.
//
// Unlike CompactStable, only the elements actually moved change offset, which suits elements that
// reference others in the same buffer: onMove is called right after each move so links can be fixed before the next.
// Returns the number of slots reclaimed.
func (buf *ElementBuffer[E]) CompactSwap(onMove MoveFunc[E]) int {
	if buf.free.Empty() {
		return 0
	}

	numActive := 0
	for i := 1; i < len(buf.slots); i++ {
		if buf.slots[i].status == hemesh.Active {
			numActive++
		}
	}

	front := 1
	back := len(buf.slots) - 1
	for {
		for front < back && buf.slots[front].status == hemesh.Active {
			front++
		}
		for back > front && buf.slots[back].status != hemesh.Active {
			back--
		}
		if front >= back {
			break
		}

		moved := buf.slots[back]
		from := hemesh.HandleWithGen[E](Offset(back), moved.generation)
		buf.vacate(back)
		moved.generation = max(moved.generation, buf.slots[front].generation)
		buf.slots[front] = moved
		if onMove != nil {
			onMove(from, hemesh.HandleWithGen[E](Offset(front), moved.generation), &buf.slots[front].elem)
		}
		front++
		back--
	}

	return buf.truncate(numActive + 1)
}

// vacate empties the slot at offset as if its element had been removed.
func (buf *ElementBuffer[E]) vacate(offset int) {
	buf.slots[offset] = slot[E]{
		generation: nextGeneration(buf.slots[offset].generation),
		status:     hemesh.Inactive,
	}
}

// truncate drops every slot from n on.  Slots appended later start above every generation dropped here.
func (buf *ElementBuffer[E]) truncate(n int) int {
	reclaimed := len(buf.slots) - n

	var zero slot[E]
	for i := n; i < len(buf.slots); i++ {
		s := &buf.slots[i]
		gen := s.generation
		if s.status == hemesh.Active {
			gen = nextGeneration(gen)
		}
		buf.genFloor = max(buf.genFloor, gen)
		*s = zero
	}
	buf.slots = buf.slots[:n]
	buf.free.Clear()

	return reclaimed
}
