package libmesh

import (
	"github.com/fine-structures/halfedge/hemesh"
)

// Every traversal takes a fresh tag from its Mesh and stamps each element it hands out.  Meeting an element
// that already carries the pass's tag ends the traversal, so a malformed loop yields fewer elements instead of spinning.
//
// Iterators follow the usual pattern:
//
//	for it := face.Edges(); ; {
//		edge, ok := it.Next()
//		if !ok {
//			break
//		}
//		...
//	}
//
// After Next() returns false it keeps returning false.

type iterState byte

const (
	iterStart iterState = iota
	iterForward
	iterBackward
	iterDone
)

// FaceEdges walks a loop of half-edges: the root first, then Next() until it comes back to the root
// or reaches an edge already visited in this pass.
type FaceEdges struct {
	mesh  *Mesh
	root  hemesh.HalfEdgeHandle
	cur   hemesh.HalfEdgeHandle
	tag   hemesh.Tag
	state iterState
}

func newFaceEdges(m *Mesh, root hemesh.HalfEdgeHandle) *FaceEdges {
	it := &FaceEdges{
		mesh: m,
		root: root,
	}
	if m == nil {
		it.state = iterDone
	} else {
		it.tag = m.NextTag()
	}
	return it
}

// EdgeLoop walks the loop that passes through the given half-edge, whether or not it bounds a face.
func (m *Mesh) EdgeLoop(start hemesh.HalfEdgeHandle) *FaceEdges {
	return newFaceEdges(m, start)
}

func (it *FaceEdges) Next() (HalfEdgeProxy, bool) {
	if it.state == iterDone {
		return HalfEdgeProxy{mesh: it.mesh}, false
	}
	edges := it.mesh.kernel.Edges

	switch it.state {
	case iterStart:
		it.state = iterForward
		if edges.SetTag(it.root, it.tag) {
			it.cur = it.root
			return HalfEdgeProxy{it.root, it.mesh}, true
		}
	case iterForward:
		if cur := edges.Get(it.cur); cur != nil {
			next := cur.Next
			if !next.Equal(it.root) && edges.Get(next) != nil && edges.Tag(next) != it.tag {
				edges.SetTag(next, it.tag)
				it.cur = next
				return HalfEdgeProxy{next, it.mesh}, true
			}
		}
	}

	it.state = iterDone
	return HalfEdgeProxy{mesh: it.mesh}, false
}

// All drains the iterator.
func (it *FaceEdges) All() []HalfEdgeProxy {
	var edges []HalfEdgeProxy
	for {
		edge, ok := it.Next()
		if !ok {
			return edges
		}
		edges = append(edges, edge)
	}
}

// FaceVertices yields the origin vertex of each half-edge of a FaceEdges walk.
type FaceVertices struct {
	edges *FaceEdges
}

func (it *FaceVertices) Next() (VertexProxy, bool) {
	edge, ok := it.edges.Next()
	if !ok {
		return VertexProxy{mesh: edge.mesh}, false
	}
	return edge.Vertex(), true
}

func (it *FaceVertices) All() []VertexProxy {
	var verts []VertexProxy
	for {
		vtx, ok := it.Next()
		if !ok {
			return verts
		}
		verts = append(verts, vtx)
	}
}

// VertexCirculator yields the half-edges leaving a vertex.
//
// It starts at the vertex's own edge and turns one way with Prev().Adjacent() until it runs out of edges,
// meets an edge already visited in this pass, or has just handed out a boundary edge.  It then goes back to the
// starting edge and turns the other way with Adjacent().Next() under the same rules.  Around an interior vertex
// the first direction closes the ring by itself; around a boundary vertex the two directions together cover the fan.
type VertexCirculator struct {
	mesh   *Mesh
	center hemesh.VertexHandle
	point  hemesh.PointHandle
	seed   hemesh.HalfEdgeHandle
	cur    hemesh.HalfEdgeHandle
	tag    hemesh.Tag
	state  iterState
}

func newVertexCirculator(m *Mesh, center hemesh.VertexHandle) *VertexCirculator {
	it := &VertexCirculator{
		mesh:   m,
		center: center,
		state:  iterDone,
	}
	if m == nil {
		return it
	}
	if vtx := m.kernel.Vertices.Get(center); vtx != nil {
		it.seed = vtx.Edge
		it.point = vtx.Point
		it.tag = m.NextTag()
		it.state = iterStart
	}
	return it
}

func (it *VertexCirculator) Next() (HalfEdgeProxy, bool) {
	if it.state == iterDone {
		return HalfEdgeProxy{mesh: it.mesh}, false
	}
	edges := it.mesh.kernel.Edges

	for {
		switch it.state {
		case iterStart:
			it.state = iterForward
			if !it.leavesCenter(it.seed) {
				it.state = iterDone
				continue
			}
			edges.SetTag(it.seed, it.tag)
			it.cur = it.seed
			return HalfEdgeProxy{it.seed, it.mesh}, true

		case iterForward:
			next := HalfEdgeProxy{it.cur, it.mesh}.Prev().Adjacent()
			if it.take(next.Handle) {
				if next.IsBoundary() {
					it.state = iterBackward
					it.cur = it.seed
				} else {
					it.cur = next.Handle
				}
				return next, true
			}
			it.state = iterBackward
			it.cur = it.seed

		case iterBackward:
			next := HalfEdgeProxy{it.cur, it.mesh}.Adjacent().Next()
			if it.take(next.Handle) {
				if next.IsBoundary() {
					it.state = iterDone
				} else {
					it.cur = next.Handle
				}
				return next, true
			}
			it.state = iterDone

		default:
			return HalfEdgeProxy{mesh: it.mesh}, false
		}
	}
}

// take stamps edge and returns true if it resolves, wasn't visited yet in this pass and leaves the center vertex.
func (it *VertexCirculator) take(edge hemesh.HalfEdgeHandle) bool {
	edges := it.mesh.kernel.Edges
	if !it.leavesCenter(edge) || edges.Tag(edge) == it.tag {
		return false
	}
	return edges.SetTag(edge, it.tag)
}

// leavesCenter reports if edge starts at the center vertex, or at a vertex sharing its point.
func (it *VertexCirculator) leavesCenter(edge hemesh.HalfEdgeHandle) bool {
	e := it.mesh.kernel.Edges.Get(edge)
	if e == nil {
		return false
	}
	if e.Vertex.Offset() == it.center.Offset() {
		return true
	}
	vtx := it.mesh.kernel.Vertices.Get(e.Vertex)
	return vtx != nil && it.point.IsValid() && vtx.Point.Offset() == it.point.Offset()
}

func (it *VertexCirculator) All() []HalfEdgeProxy {
	var edges []HalfEdgeProxy
	for {
		edge, ok := it.Next()
		if !ok {
			return edges
		}
		edges = append(edges, edge)
	}
}
