package libmesh

import (
	"github.com/fine-structures/halfedge/hemesh"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// AddFace builds a new face on fresh vertices: one vertex per point, one twin pair per side.
//
// The face's loop runs p0, p1, .. in the given order starting from its root edge (p0 to p1).
// The twins form the opposite loop around the outside and have no face.
// Panics if fewer than 3 points are given.
func (m *Mesh) AddFace(points []hemesh.PointHandle) hemesh.FaceHandle {
	if len(points) < 3 {
		panic(errors.Wrapf(hemesh.ErrTooFewPoints, "AddFace given %d", len(points)))
	}

	face := m.kernel.Faces.Add(hemesh.Face{})

	root, _ := m.MakeEdge(points[0], points[1])
	prev := root
	for _, pt := range points[2:] {
		prev, _ = m.MakeEdgeFrom(prev, pt)
	}
	m.MakeEdgeBetween(prev, root)

	m.kernel.Faces.Get(face).RootEdge = root
	m.AssignFaceToLoop(face, root)
	return face
}

// AddFaceFromEdge builds a face on the free side of an existing half-edge.
//
// The loop runs along edge (A to B), then from B through the given points and back to A.
// B and A keep their vertices; each point gets a new one.  The outer loop that edge used to be part of
// is rerouted through the new twins.
// Panics if no points are given.  Returns the sentinel handle (and logs) if edge doesn't resolve or already has a face.
func (m *Mesh) AddFaceFromEdge(edge hemesh.HalfEdgeHandle, points []hemesh.PointHandle) hemesh.FaceHandle {
	if len(points) < 1 {
		panic(errors.Wrap(hemesh.ErrTooFewPoints, "AddFaceFromEdge needs at least one point"))
	}
	return m.AddFaceBridge(edge, hemesh.HalfEdgeHandle{}, points)
}

// AddFaceBridge builds a face whose loop runs along root (A to B), from B through points to C,
// then along closing (C to A) back to root.  With no closing edge the loop returns from the last point
// straight to A, as in AddFaceFromEdge.  With a closing edge the points may be empty and B is bridged to C directly.
//
// Both root and closing must be free (no face).  Outer loops touching them are rerouted through the new twins.
func (m *Mesh) AddFaceBridge(root, closing hemesh.HalfEdgeHandle, points []hemesh.PointHandle) hemesh.FaceHandle {
	rootEdge := m.Edge(root)
	closeEdge := m.Edge(closing)
	hasClosing := closing.IsValid()

	if !hasClosing && len(points) == 0 {
		panic(errors.Wrap(hemesh.ErrTooFewPoints, "AddFaceBridge needs points or a closing edge"))
	}
	if !rootEdge.IsValid() || (hasClosing && !closeEdge.IsValid()) {
		klog.Warningf("AddFaceBridge: %v or %v doesn't resolve", root, closing)
		return hemesh.FaceHandle{}
	}
	if rootEdge.Face().IsValid() || (hasClosing && closeEdge.Face().IsValid()) {
		klog.Warningf("AddFaceBridge: %v or %v already has a face", root, closing)
		return hemesh.FaceHandle{}
	}

	start := rootEdge.Adjacent().Vertex().Handle // B
	var end hemesh.VertexHandle                  // C, or A with no closing edge
	if hasClosing {
		end = closeEdge.Vertex().Handle
	} else {
		end = rootEdge.Vertex().Handle
	}
	if !m.Vertex(start).IsValid() || !m.Vertex(end).IsValid() {
		klog.Warningf("AddFaceBridge: %v or its closing edge has no vertex", root)
		return hemesh.FaceHandle{}
	}

	// Outer loop neighbours, before anything is relinked
	outerIn := rootEdge.Prev().Handle  // ends at A
	outerOut := rootEdge.Next().Handle // leaves B
	var wedgeIn, wedgeOut hemesh.HalfEdgeHandle
	if hasClosing {
		wedgeIn = closeEdge.Prev().Handle  // ends at C
		wedgeOut = closeEdge.Next().Handle // leaves A
	}

	// New chain B -> points... -> end, twins pointing back
	chain := make([]hemesh.HalfEdgeHandle, 0, len(points)+1)
	twins := make([]hemesh.HalfEdgeHandle, 0, len(points)+1)
	from := start
	for _, pt := range points {
		to := m.kernel.Vertices.Add(hemesh.Vertex{Point: pt})
		e0, e1 := m.makeEdgePair(from, to)
		chain = append(chain, e0)
		twins = append(twins, e1)
		from = to
	}
	e0, e1 := m.makeEdgePair(from, end)
	chain = append(chain, e0)
	twins = append(twins, e1)

	// Face loop
	m.ConnectEdges(root, chain[0])
	for i := 1; i < len(chain); i++ {
		m.ConnectEdges(chain[i-1], chain[i])
	}
	last := chain[len(chain)-1]
	if hasClosing {
		m.ConnectEdges(last, closing)
		m.ConnectEdges(closing, root)
	} else {
		m.ConnectEdges(last, root)
	}

	// Outer loop: in -> twins (reversed) -> out
	for i := len(twins) - 1; i > 0; i-- {
		m.ConnectEdges(twins[i], twins[i-1])
	}
	outerHead := twins[len(twins)-1]
	outerTail := twins[0]
	if hasClosing {
		m.linkIfValid(wedgeIn, outerHead)
		m.linkIfValid(outerTail, outerOut)
		if !wedgeOut.Equal(root) {
			m.linkIfValid(outerIn, wedgeOut)
		}
	} else {
		m.linkIfValid(outerIn, outerHead)
		m.linkIfValid(outerTail, outerOut)
	}

	face := m.kernel.Faces.Add(hemesh.Face{RootEdge: root})
	m.AssignFaceToLoop(face, root)
	return face
}

func (m *Mesh) linkIfValid(prev, next hemesh.HalfEdgeHandle) {
	if m.Edge(prev).IsValid() && m.Edge(next).IsValid() {
		m.ConnectEdges(prev, next)
	}
}
