package libmesh

import (
	"github.com/fine-structures/halfedge/hemesh"
	"github.com/plan-systems/klog"
)

// makeEdgePair adds a half-edge e0 leaving v0 and its twin e1 leaving v1.
//
// v0 takes e0 as its representative edge; v1 only takes e1 if it has no edge yet.
func (m *Mesh) makeEdgePair(v0, v1 hemesh.VertexHandle) (e0, e1 hemesh.HalfEdgeHandle) {
	edges := m.kernel.Edges
	verts := m.kernel.Vertices

	e0 = edges.Add(hemesh.HalfEdge{
		Vertex: v0,
	})
	e1 = edges.Add(hemesh.HalfEdge{
		Vertex:   v1,
		Adjacent: e0,
	})
	edges.Get(e0).Adjacent = e1

	if vtx := verts.Get(v0); vtx != nil {
		vtx.Edge = e0
	}
	if vtx := verts.Get(v1); vtx != nil && edges.Get(vtx.Edge) == nil {
		vtx.Edge = e1
	}
	return
}

// MakeEdge adds two new vertices at p0 and p1 and a twin pair between them.
//
// e0 runs from p0 to p1 and e1 back.  Neither is linked into a loop yet.
func (m *Mesh) MakeEdge(p0, p1 hemesh.PointHandle) (e0, e1 hemesh.HalfEdgeHandle) {
	v0 := m.kernel.Vertices.Add(hemesh.Vertex{Point: p0})
	v1 := m.kernel.Vertices.Add(hemesh.Vertex{Point: p1})
	return m.makeEdgePair(v0, v1)
}

// MakeEdgeFrom extends a chain: e0 leaves the vertex where prev ends and runs to a new vertex at p1.
//
// prev is linked to e0 and the twin e1 is linked to prev's twin, so both sides of the chain stay connected.
// Returns sentinel handles if prev has no twin to tell where it ends.
func (m *Mesh) MakeEdgeFrom(prev hemesh.HalfEdgeHandle, p1 hemesh.PointHandle) (e0, e1 hemesh.HalfEdgeHandle) {
	prevTwin := m.Edge(prev).Adjacent()
	start := prevTwin.Vertex()
	if !start.IsValid() {
		klog.Warningf("MakeEdgeFrom: %v has no twin vertex to start from", prev)
		return
	}

	v1 := m.kernel.Vertices.Add(hemesh.Vertex{Point: p1})
	e0, e1 = m.makeEdgePair(start.Handle, v1)

	m.Edge(prev).ConnectTo(m.Edge(e0))
	m.Edge(e1).ConnectTo(prevTwin)
	return
}

// MakeEdgeBetween adds a twin pair that bridges the end of prev to the start of next, reusing both vertices.
//
// The new e0 goes between prev and next in their loop; e1 goes between their twins.
func (m *Mesh) MakeEdgeBetween(prev, next hemesh.HalfEdgeHandle) (e0, e1 hemesh.HalfEdgeHandle) {
	prevTwin := m.Edge(prev).Adjacent()
	start := prevTwin.Vertex()
	end := m.Edge(next).Vertex()
	if !start.IsValid() || !end.IsValid() {
		klog.Warningf("MakeEdgeBetween: can't bridge %v to %v", prev, next)
		return
	}

	e0, e1 = m.makeEdgePair(start.Handle, end.Handle)

	m.Edge(prev).ConnectTo(m.Edge(e0))
	m.Edge(e0).ConnectTo(m.Edge(next))
	m.Edge(next).Adjacent().ConnectTo(m.Edge(e1))
	m.Edge(e1).ConnectTo(prevTwin)
	return
}

// ConnectEdges links prev to next within a loop.
func (m *Mesh) ConnectEdges(prev, next hemesh.HalfEdgeHandle) {
	m.Edge(prev).ConnectTo(m.Edge(next))
}

// AssignFaceToLoop sets the face of every edge in the loop through root.
//
// The walk stops back at root, at an edge that doesn't resolve, or at an edge that already has this face.
// It returns the number of edges assigned.
func (m *Mesh) AssignFaceToLoop(face hemesh.FaceHandle, root hemesh.HalfEdgeHandle) int {
	edges := m.kernel.Edges
	count := 0

	edgeH := root
	for steps := edges.SlotCount(); steps > 0; steps-- {
		edge := edges.Get(edgeH)
		if edge == nil || edge.Face == face {
			break
		}
		edge.Face = face
		count++
		edgeH = edge.Next
		if edgeH.Equal(root) {
			break
		}
	}
	return count
}

// DetachFace removes a face and clears it from the edges of its loop, turning them into boundary edges.
// Edges, vertices and points stay.
func (m *Mesh) DetachFace(face hemesh.FaceHandle) bool {
	f := m.Face(face)
	if !f.IsValid() {
		return false
	}

	for _, edge := range m.EdgeLoop(f.RootEdge().Handle).All() {
		if e := edge.Element(); e != nil && e.Face.Offset() == face.Offset() {
			e.Face = hemesh.FaceHandle{}
		}
	}
	return m.kernel.Faces.Remove(face)
}

// RemoveEdge deletes a twin pair that bounds no face on either side, splicing both loops it ran through.
//
// A vertex left with no edge is removed as well; its point stays.
// Returns false (and changes nothing) if the pair doesn't resolve or either side still has a face.
func (m *Mesh) RemoveEdge(edge hemesh.HalfEdgeHandle) bool {
	e := m.Edge(edge)
	t := e.Adjacent()
	if !e.IsValid() || !t.IsValid() || e.Face().IsValid() || t.Face().IsValid() {
		return false
	}

	// around e's origin ePrev -> e becomes ePrev -> tNext; around t's origin tPrev -> t becomes tPrev -> eNext
	ePrev, eNext := e.Prev(), e.Next()
	tPrev, tNext := t.Prev(), t.Next()

	v0End := ePrev.Handle.Equal(t.Handle) || tNext.Handle.Equal(e.Handle) || (!ePrev.IsValid() && !tNext.IsValid())
	v1End := tPrev.Handle.Equal(e.Handle) || eNext.Handle.Equal(t.Handle) || (!tPrev.IsValid() && !eNext.IsValid())
	if !v0End {
		ePrev.ConnectTo(tNext)
	}
	if !v1End {
		tPrev.ConnectTo(eNext)
	}

	m.releaseVertex(e.Vertex(), e.Handle, tNext.Handle, v0End)
	m.releaseVertex(t.Vertex(), t.Handle, eNext.Handle, v1End)

	m.kernel.Edges.Remove(e.Handle)
	m.kernel.Edges.Remove(t.Handle)
	return true
}

// releaseVertex hands vtx the edge next if it was using removed, or removes vtx if removed was its last edge.
func (m *Mesh) releaseVertex(vtx VertexProxy, removed, next hemesh.HalfEdgeHandle, isEnd bool) {
	v := vtx.Element()
	switch {
	case v == nil:
	case isEnd:
		m.kernel.Vertices.Remove(vtx.Handle)
	case v.Edge.Offset() == removed.Offset():
		v.Edge = next
	}
}
