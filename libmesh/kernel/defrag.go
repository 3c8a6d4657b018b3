package kernel

import (
	"github.com/fine-structures/halfedge/hemesh"
	"github.com/plan-systems/klog"
)

// Defrag removes every inactive slot from the four buffers, moving active elements into a dense prefix
// and rewriting every cross-reference to a moved element.
//
// Faces and vertices go first (stable partition) since only half-edges point at them.  Half-edges and points
// are then compacted by swapping the last active slot into the first hole: half-edges reference each other,
// so moving as few of them as possible keeps the fix-ups local.
//
// Offsets held by callers are not stable across a Defrag.  Inconsistent references found along the way
// are logged, counted in DefragStats.Skipped and left alone.
func (k *Kernel) Defrag() DefragStats {
	var st DefragStats

	st.Faces = k.Faces.CompactStable(func(from, to hemesh.FaceHandle, face *hemesh.Face) {
		st.Skipped += k.relinkFace(from, to, face)
	})

	vtxMoves := make(map[hemesh.Offset]move[hemesh.Vertex])
	st.Vertices = k.Vertices.CompactStable(func(from, to hemesh.VertexHandle, vtx *hemesh.Vertex) {
		vtxMoves[from.Offset()] = move[hemesh.Vertex]{from, to}
		if edge := k.Edges.Get(vtx.Edge); edge == nil {
			klog.Warningf("defrag: %v (was %v) has no valid edge (%v)", to, from, vtx.Edge)
			st.Skipped++
		} else if edge.Vertex.Offset() != from.Offset() {
			klog.Warningf("defrag: %v (was %v) names %v as its edge but that edge starts at %v", to, from, vtx.Edge, edge.Vertex)
			st.Skipped++
		}
	})
	if len(vtxMoves) > 0 {
		k.relinkVertices(vtxMoves)
	}

	st.Edges = k.Edges.CompactSwap(func(from, to hemesh.HalfEdgeHandle, edge *hemesh.HalfEdge) {
		st.Skipped += k.relinkEdge(from.Offset(), to, edge)
	})

	ptMoves := make(map[hemesh.Offset]move[hemesh.Point])
	st.Points = k.Points.CompactSwap(func(from, to hemesh.PointHandle, _ *hemesh.Point) {
		ptMoves[from.Offset()] = move[hemesh.Point]{from, to}
	})
	if len(ptMoves) > 0 {
		k.relinkPoints(ptMoves)
	}

	if st.Total() > 0 {
		klog.V(2).Infof("defrag: %v", st)
	}
	return st
}

// move records where an element went during compaction.
type move[E any] struct {
	from, to hemesh.Handle[E]
}

// apply rewrites *ref if it names the element that moved.  A ref holding another generation names an element
// that was already gone and is left alone.
func (mv move[E]) apply(ref *hemesh.Handle[E]) {
	if gen := ref.Generation(); gen == hemesh.GenerationAny || gen == mv.from.Generation() {
		*ref = mv.to
	}
}

// relinkFace walks the loop of a moved face and points its edges at the face's new slot.
//
// The walk ends on an invalid edge, when it comes back to the root, when it meets an edge that already
// names the new handle, or after as many steps as there are edge slots, so a loop that doesn't close can't hang it.
func (k *Kernel) relinkFace(from, to hemesh.FaceHandle, face *hemesh.Face) (skipped int) {
	root := face.RootEdge
	edgeH := root

	for steps := k.Edges.SlotCount(); steps > 0; steps-- {
		edge := k.Edges.Get(edgeH)
		if edge == nil {
			klog.Warningf("defrag: loop of %v (was %v) is broken at %v", to, from, edgeH)
			return skipped + 1
		}
		if edge.Face == to {
			return skipped
		}
		if edge.Face.Offset() == from.Offset() {
			edge.Face = to
		} else {
			klog.Warningf("defrag: %v in the loop of %v (was %v) belongs to %v", edgeH, to, from, edge.Face)
			skipped++
		}
		edgeH = edge.Next
		if edgeH.Equal(root) {
			return skipped
		}
	}

	klog.Warningf("defrag: loop of %v (was %v) never returns to %v", to, from, root)
	return skipped + 1
}

// relinkVertices rewrites the origin of every half-edge whose vertex moved.
//
// A vertex is shared by all of its outgoing half-edges, so its one associated edge is not enough.
func (k *Kernel) relinkVertices(moves map[hemesh.Offset]move[hemesh.Vertex]) {
	k.Edges.Each(func(_ hemesh.HalfEdgeHandle, edge *hemesh.HalfEdge) bool {
		if mv, moved := moves[edge.Vertex.Offset()]; moved {
			mv.apply(&edge.Vertex)
		}
		return true
	})
}

// relinkEdge fixes the references to a half-edge just swapped from offset from to slot to.
//
// Its loop neighbours and twin always point at it, so they are rewritten (or reported if they don't).
// The face's root edge and the vertex's edge are only rewritten if they named this edge.
func (k *Kernel) relinkEdge(from hemesh.Offset, to hemesh.HalfEdgeHandle, edge *hemesh.HalfEdge) (skipped int) {
	if edge.Next.Offset() == from {
		edge.Next = to
	}
	if edge.Prev.Offset() == from {
		edge.Prev = to
	}
	if edge.Adjacent.Offset() == from {
		edge.Adjacent = to
	}

	fix := func(link string, neighbor hemesh.HalfEdgeHandle, backRef *hemesh.HalfEdgeHandle) {
		if backRef.Offset() == from {
			*backRef = to
		} else if *backRef != to {
			klog.Warningf("defrag: %s %v of %v (was edge#%d) points at %v", link, neighbor, to, from, *backRef)
			skipped++
		}
	}

	if next := k.Edges.Get(edge.Next); next != nil {
		fix("next", edge.Next, &next.Prev)
	} else if edge.Next.IsValid() {
		klog.Warningf("defrag: %v (was edge#%d) has a stale next %v", to, from, edge.Next)
		skipped++
	}
	if prev := k.Edges.Get(edge.Prev); prev != nil {
		fix("prev", edge.Prev, &prev.Next)
	} else if edge.Prev.IsValid() {
		klog.Warningf("defrag: %v (was edge#%d) has a stale prev %v", to, from, edge.Prev)
		skipped++
	}
	if adj := k.Edges.Get(edge.Adjacent); adj != nil {
		fix("twin", edge.Adjacent, &adj.Adjacent)
	} else if edge.Adjacent.IsValid() {
		klog.Warningf("defrag: %v (was edge#%d) has a stale twin %v", to, from, edge.Adjacent)
		skipped++
	}

	if face := k.Faces.Get(edge.Face); face != nil {
		if face.RootEdge.Offset() == from {
			face.RootEdge = to
		}
	} else if edge.Face.IsValid() {
		klog.Warningf("defrag: %v (was edge#%d) belongs to missing %v", to, from, edge.Face)
		skipped++
	}

	if vtx := k.Vertices.Get(edge.Vertex); vtx != nil {
		if vtx.Edge.Offset() == from {
			vtx.Edge = to
		}
	} else {
		klog.Warningf("defrag: %v (was edge#%d) has no valid vertex (%v)", to, from, edge.Vertex)
		skipped++
	}

	return skipped
}

// relinkPoints rewrites vertex positions that referenced a moved point.
func (k *Kernel) relinkPoints(moves map[hemesh.Offset]move[hemesh.Point]) {
	k.Vertices.Each(func(_ hemesh.VertexHandle, vtx *hemesh.Vertex) bool {
		if mv, moved := moves[vtx.Point.Offset()]; moved {
			mv.apply(&vtx.Point)
		}
		return true
	})
}
