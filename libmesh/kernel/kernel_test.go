package kernel

import (
	"testing"

	"github.com/fine-structures/halfedge/hemesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBufferOf(t *testing.T) {
	k := New(4)

	assert.Same(t, k.Points, BufferOf[hemesh.Point](k))
	assert.Same(t, k.Vertices, BufferOf[hemesh.Vertex](k))
	assert.Same(t, k.Edges, BufferOf[hemesh.HalfEdge](k))
	assert.Same(t, k.Faces, BufferOf[hemesh.Face](k))

	pt := Add(k, hemesh.NewPoint(1, 2, 3))
	face := Add(k, hemesh.Face{})
	require.Equal(t, hemesh.Offset(1), pt.Offset())
	require.Equal(t, hemesh.Offset(1), face.Offset())
	require.Equal(t, 2, k.Points.Len())
	require.Equal(t, 1, k.Edges.Len())

	require.True(t, Remove(k, pt))
	require.False(t, Remove(k, pt))
	require.Nil(t, Get(k, pt))
	require.NotNil(t, Get(k, face))

	k.Reset()
	require.Nil(t, Get(k, face))
	require.Equal(t, 1, k.Faces.Len())
}

// twinPair adds a vertex at a new point and a detached twin pair whose ends both leave that vertex.
func twinPair(k *Kernel) (hemesh.VertexHandle, hemesh.HalfEdgeHandle, hemesh.HalfEdgeHandle) {
	pt := Add(k, hemesh.NewPoint(0, 0, 0))
	vtx := Add(k, hemesh.Vertex{Point: pt})
	e0 := Add(k, hemesh.HalfEdge{Vertex: vtx})
	e1 := Add(k, hemesh.HalfEdge{Vertex: vtx, Adjacent: e0})
	Get(k, e0).Adjacent = e1
	Get(k, e0).Next, Get(k, e0).Prev = e1, e1
	Get(k, e1).Next, Get(k, e1).Prev = e0, e0
	Get(k, vtx).Edge = e0
	return vtx, e0, e1
}

func TestDefragTwinPairs(t *testing.T) {
	k := New(4)

	_, a0, a1 := twinPair(k)
	vB, b0, b1 := twinPair(k)
	_, c0, c1 := twinPair(k)
	face := Add(k, hemesh.Face{RootEdge: c0})
	Get(k, c0).Face = face
	Get(k, c1).Face = face

	Remove(k, a0)
	Remove(k, a1)
	Remove(k, vB)
	Remove(k, b0)
	Remove(k, b1)

	st := k.Defrag()
	assert.Equal(t, 4, st.Edges)
	assert.Equal(t, 1, st.Vertices)
	assert.Zero(t, st.Points)
	assert.Zero(t, st.Faces)
	assert.Zero(t, st.Skipped)
	assert.Equal(t, "reclaimed 0 points, 1 vertices, 4 edges, 0 faces (0 fix-ups skipped)", st.String())

	require.Equal(t, 3, k.Edges.SlotCount())
	e1 := k.Edges.HandleAt(1)
	e2 := k.Edges.HandleAt(2)
	E1, E2 := Get(k, e1), Get(k, e2)
	require.NotNil(t, E1)
	require.NotNil(t, E2)

	// c's pair moved down and still refers to itself
	assert.True(t, E1.Adjacent.Equal(e2))
	assert.True(t, E2.Adjacent.Equal(e1))
	assert.True(t, E1.Next.Equal(e2) && E1.Prev.Equal(e2))
	assert.True(t, E2.Next.Equal(e1) && E2.Prev.Equal(e1))

	root := Get(k, face).RootEdge
	assert.True(t, root.Equal(e1) || root.Equal(e2))
	assert.Equal(t, face, E1.Face)

	// vertices: a's stays at 1, c's moved from 3 to 2
	vC := k.Vertices.HandleAt(2)
	assert.True(t, E1.Vertex.Equal(vC))
	assert.True(t, E2.Vertex.Equal(vC))
	vtxEdge := Get(k, vC).Edge
	assert.True(t, vtxEdge.Equal(e1) || vtxEdge.Equal(e2))
	assert.Equal(t, hemesh.Offset(3), Get(k, vC).Point.Offset())
}

func TestDefragPoints(t *testing.T) {
	k := New(4)

	var pts []hemesh.PointHandle
	var verts []hemesh.VertexHandle
	for i := 0; i < 4; i++ {
		vtx, _, _ := twinPair(k)
		verts = append(verts, vtx)
		pts = append(pts, Get(k, vtx).Point)
		Get(k, pts[i]).Position[0] = float32(i)
	}

	// an extra point no vertex uses
	Remove(k, Add(k, hemesh.NewPoint(9, 9, 9)))
	Remove(k, pts[1])
	Get(k, verts[1]).Point = hemesh.PointHandle{}

	st := k.Defrag()
	assert.Equal(t, 2, st.Points)
	assert.Zero(t, st.Skipped)

	for i, vtx := range verts {
		pt := Get(k, Get(k, vtx).Point)
		if i == 1 {
			assert.Nil(t, pt)
			continue
		}
		require.NotNil(t, pt, "vertex %d", i)
		assert.Equal(t, float32(i), pt.Position[0])
	}
}

func TestDefragLeavesStaleReferences(t *testing.T) {
	k := New(4)

	p1 := Add(k, hemesh.NewPoint(1, 0, 0))
	Add(k, hemesh.NewPoint(2, 0, 0))
	p3 := Add(k, hemesh.NewPoint(3, 0, 0))
	stale := Add(k, hemesh.Vertex{Point: p3})

	Remove(k, p3)
	p4 := Add(k, hemesh.NewPoint(4, 0, 0))
	require.Equal(t, p3.Offset(), p4.Offset())
	live := Add(k, hemesh.Vertex{Point: p4})
	Remove(k, p1)

	st := k.Defrag()
	require.Equal(t, 1, st.Points)
	require.Equal(t, [3]float32{4, 0, 0}, Get(k, Get(k, live).Point).Position)
	require.Nil(t, Get(k, Get(k, stale).Point), "stale reference was rebound to the point now in its slot")
}
