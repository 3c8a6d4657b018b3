package query

import (
	"github.com/fine-structures/halfedge/hemesh"
	"github.com/fine-structures/halfedge/libmesh"
)

// BoundaryEdges selects every half-edge that has no face or whose twin has no face.
func BoundaryEdges(m *libmesh.Mesh) *Selection[hemesh.HalfEdge] {
	sel := NewSelection[hemesh.HalfEdge](Edges)
	for _, edge := range m.Edges() {
		if edge.IsBoundary() {
			sel.Add(edge.Handle)
		}
	}
	return sel
}

// FreeEdges selects the half-edges with no face: the sides a new face can be built on.
func FreeEdges(m *libmesh.Mesh) *Selection[hemesh.HalfEdge] {
	sel := NewSelection[hemesh.HalfEdge](Edges)
	for _, edge := range m.Edges() {
		if !edge.Face().IsValid() {
			sel.Add(edge.Handle)
		}
	}
	return sel
}

// Loop selects the half-edges of the loop through start, in loop order.
func Loop(m *libmesh.Mesh, start hemesh.HalfEdgeHandle) *Selection[hemesh.HalfEdge] {
	sel := NewSelection[hemesh.HalfEdge](EdgeLoop)
	for _, edge := range m.EdgeLoop(start).All() {
		sel.Add(edge.Handle)
	}
	return sel
}

// FaceLoop selects the half-edges bounding a face, starting at its root edge.
func FaceLoop(m *libmesh.Mesh, face hemesh.FaceHandle) *Selection[hemesh.HalfEdge] {
	return Loop(m, m.Face(face).RootEdge().Handle)
}

// FaceVertices selects the vertices of a face in loop order.
func FaceVertices(m *libmesh.Mesh, face hemesh.FaceHandle) *Selection[hemesh.Vertex] {
	sel := NewSelection[hemesh.Vertex](Vertices)
	for _, vtx := range m.Face(face).Vertices().All() {
		sel.Add(vtx.Handle)
	}
	return sel
}

// VertexRing selects the half-edges leaving a vertex.
func VertexRing(m *libmesh.Mesh, vtx hemesh.VertexHandle) *Selection[hemesh.HalfEdge] {
	sel := NewSelection[hemesh.HalfEdge](Edges)
	for _, edge := range m.Vertex(vtx).Edges().All() {
		sel.Add(edge.Handle)
	}
	return sel
}

// FacesAround selects the faces that touch a vertex.
func FacesAround(m *libmesh.Mesh, vtx hemesh.VertexHandle) *Selection[hemesh.Face] {
	sel := NewSelection[hemesh.Face](Faces)
	for _, edge := range m.Vertex(vtx).Edges().All() {
		if face := edge.Face(); face.IsValid() {
			sel.Add(face.Handle)
		}
	}
	return sel
}

// Neighbors selects the faces sharing an edge with the given face.
func Neighbors(m *libmesh.Mesh, face hemesh.FaceHandle) *Selection[hemesh.Face] {
	sel := NewSelection[hemesh.Face](Faces)
	for _, edge := range m.Face(face).Edges().All() {
		if other := edge.Adjacent().Face(); other.IsValid() && !other.Handle.Equal(face) {
			sel.Add(other.Handle)
		}
	}
	return sel
}

// PointsOf selects the points a set of vertices sit on.
func PointsOf(m *libmesh.Mesh, verts *Selection[hemesh.Vertex]) *Selection[hemesh.Point] {
	sel := NewSelection[hemesh.Point](Points)
	for _, vtx := range verts.Handles() {
		if pt := m.Vertex(vtx).Point(); pt.IsValid() {
			sel.Add(pt.Handle)
		}
	}
	return sel
}
