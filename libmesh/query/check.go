package query

import (
	"github.com/fine-structures/halfedge/hemesh"
	"github.com/fine-structures/halfedge/libmesh"
	"github.com/pkg/errors"
)

// Check verifies the structural invariants of every active element and returns the first violation found
// (wrapping hemesh.ErrBrokenTopology), or nil.
func Check(m *libmesh.Mesh) error {
	problems := Problems(m, 1)
	if len(problems) > 0 {
		return problems[0]
	}
	return nil
}

// Problems returns up to limit invariant violations (all of them if limit <= 0):
//   - a vertex's edge resolves and starts at that vertex
//   - a half-edge's twin and vertex resolve, its twin points back, and its next and prev resolve and point back
//   - a face's root edge resolves, its loop closes, and every edge on it names the face
func Problems(m *libmesh.Mesh, limit int) []error {
	var problems []error
	report := func(format string, args ...interface{}) bool {
		problems = append(problems, errors.Wrapf(hemesh.ErrBrokenTopology, format, args...))
		return limit <= 0 || len(problems) < limit
	}

	for _, vtx := range m.Vertices() {
		edge := vtx.Edge()
		if !edge.IsValid() {
			if !report("%v has no valid edge", vtx) {
				return problems
			}
		} else if !edge.Vertex().Handle.Equal(vtx.Handle) {
			if !report("%v names %v which starts at %v", vtx, edge, edge.Vertex()) {
				return problems
			}
		}
	}

	for _, edge := range m.Edges() {
		ok := true
		adj := edge.Adjacent()
		switch {
		case !adj.IsValid():
			ok = report("%v has no twin", edge)
		case !adj.Adjacent().Handle.Equal(edge.Handle):
			ok = report("twin of %v is %v which pairs with %v", edge, adj, adj.Adjacent())
		case !edge.Vertex().IsValid():
			ok = report("%v has no vertex", edge)
		case !edge.Next().IsValid() || !edge.Prev().IsValid():
			ok = report("%v is not linked into a loop", edge)
		case !edge.Next().Prev().Handle.Equal(edge.Handle):
			ok = report("next of %v is %v whose prev is %v", edge, edge.Next(), edge.Next().Prev())
		case !edge.Prev().Next().Handle.Equal(edge.Handle):
			ok = report("prev of %v is %v whose next is %v", edge, edge.Prev(), edge.Prev().Next())
		}
		if !ok {
			return problems
		}
	}

	edgeSlots := m.Kernel().Edges.SlotCount()
	for _, face := range m.Faces() {
		root := face.RootEdge()
		if !root.IsValid() {
			if !report("%v has no valid root edge", face) {
				return problems
			}
			continue
		}

		edge := root
		closed := false
		for steps := 0; steps < edgeSlots && edge.IsValid(); steps++ {
			if !edge.Face().Handle.Equal(face.Handle) {
				if !report("%v on the loop of %v belongs to %v", edge, face, edge.Face()) {
					return problems
				}
			}
			edge = edge.Next()
			if edge.Handle.Equal(root.Handle) {
				closed = true
				break
			}
		}
		if !closed {
			if !report("loop of %v doesn't return to %v", face, root) {
				return problems
			}
		}
	}

	return problems
}
