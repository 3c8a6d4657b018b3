package libmesh_test

import (
	"math"

	"github.com/fine-structures/halfedge/hemesh"
	"github.com/fine-structures/halfedge/libmesh"
)

// triangle adds three points and a face on them, returning the face and its points.
func triangle(m *libmesh.Mesh, x0, y0 float32) (hemesh.FaceHandle, []hemesh.PointHandle) {
	pts := []hemesh.PointHandle{
		m.AddPoint(x0-1, y0, 0),
		m.AddPoint(x0+1, y0, 0),
		m.AddPoint(x0, y0+1, 0),
	}
	return m.AddFace(pts), pts
}

// fan builds n triangles around a center point, each sharing its spokes with its neighbours.
// If closed, the last triangle is bridged onto the first so the center vertex is interior.
func fan(m *libmesh.Mesh, n int, closed bool) (center libmesh.VertexProxy, faces []hemesh.FaceHandle) {
	c := m.AddPoint(0, 0, 0)
	rim := make([]hemesh.PointHandle, n+1)
	for i := range rim {
		theta := 2 * math.Pi * float64(i) / float64(n)
		rim[i] = m.AddPoint(float32(math.Cos(theta)), float32(math.Sin(theta)), 0)
	}
	if closed {
		rim[n] = rim[0]
	}

	f0 := m.AddFace([]hemesh.PointHandle{rim[0], rim[1], c})
	faces = append(faces, f0)

	root0 := m.Face(f0).RootEdge()
	center = root0.Next().Next().Vertex()
	closing := root0.Prev().Adjacent() // rim0 -> c, free
	spokeIn := root0.Next()            // rim1 -> c

	for i := 1; i < n; i++ {
		root := spokeIn.Adjacent() // c -> rim_i, free
		var fi hemesh.FaceHandle
		if closed && i == n-1 {
			fi = m.AddFaceBridge(root.Handle, closing.Handle, nil)
		} else {
			fi = m.AddFaceFromEdge(root.Handle, []hemesh.PointHandle{rim[i+1]})
		}
		faces = append(faces, fi)
		spokeIn = m.Face(fi).RootEdge().Prev()
	}
	return
}

// removeIsland removes a face that shares nothing with the rest of the mesh, along with its edges, vertices and points.
func removeIsland(m *libmesh.Mesh, face hemesh.FaceHandle) {
	loop := m.Face(face).Edges().All()
	for _, edge := range loop {
		pt := edge.Point().Handle
		libmesh.Remove(m, edge.Vertex().Handle)
		libmesh.Remove(m, pt)
		libmesh.Remove(m, edge.Adjacent().Handle)
		libmesh.Remove(m, edge.Handle)
	}
	libmesh.Remove(m, face)
}

func positionsOf(m *libmesh.Mesh, face hemesh.FaceHandle) [][3]float32 {
	var pos [][3]float32
	for _, vtx := range m.Face(face).Vertices().All() {
		pos = append(pos, vtx.Point().Position())
	}
	return pos
}
