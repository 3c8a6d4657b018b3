package libmesh_test

import (
	"testing"

	"github.com/fine-structures/halfedge/hemesh"
	"github.com/fine-structures/halfedge/libmesh"
	"github.com/stretchr/testify/require"
)

func TestNavigationPropagatesInvalid(t *testing.T) {
	m := libmesh.NewMesh(nil)
	defer m.Reclaim()

	nowhere := m.Edge(hemesh.HalfEdgeHandle{})
	require.False(t, nowhere.IsValid())
	require.False(t, nowhere.Next().Prev().Adjacent().IsValid())
	require.False(t, nowhere.Face().RootEdge().Vertex().Point().IsValid())
	require.Equal(t, [3]float32{}, nowhere.Point().Position())
	require.True(t, nowhere.IsBoundary())
	require.False(t, nowhere.IsConnected())

	var zero libmesh.HalfEdgeProxy
	require.False(t, zero.IsValid())
	require.False(t, zero.Next().IsValid())
	require.Zero(t, zero.Tag())
}

func TestStaleHandleProxy(t *testing.T) {
	m := libmesh.NewMesh(nil)
	defer m.Reclaim()

	f, _ := triangle(m, 0, 0)
	root := m.Face(f).RootEdge()
	require.True(t, root.IsValid())
	require.True(t, root.IsConnected())

	libmesh.Remove(m, f)
	require.False(t, m.Face(f).IsValid())
	require.False(t, root.Face().IsValid(), "edge still names the removed face but it must not resolve")

	fresh := libmesh.Add(m, hemesh.Face{RootEdge: root.Handle})
	require.Equal(t, f.Offset(), fresh.Offset())
	require.False(t, root.Face().IsValid(), "stale generation resolved to a new face")
}

func TestConnectTo(t *testing.T) {
	m := libmesh.NewMesh(nil)
	defer m.Reclaim()

	p0 := m.AddPoint(0, 0, 0)
	p1 := m.AddPoint(1, 0, 0)
	p2 := m.AddPoint(1, 1, 0)

	a, aTwin := m.MakeEdge(p0, p1)
	require.False(t, m.Edge(a).IsConnected())
	require.True(t, m.Edge(aTwin).Adjacent().Handle.Equal(a))

	b, bTwin := m.MakeEdgeFrom(a, p2)
	require.True(t, m.Edge(a).Next().Handle.Equal(b))
	require.True(t, m.Edge(b).Prev().Handle.Equal(a))
	require.True(t, m.Edge(bTwin).Next().Handle.Equal(aTwin))
	require.True(t, m.Edge(b).Vertex().Handle.Equal(m.Edge(aTwin).Vertex().Handle), "chain must share the joint vertex")

	// connecting to nothing is a logged no-op
	m.Edge(b).ConnectTo(m.Edge(hemesh.HalfEdgeHandle{}))
	m.Edge(hemesh.HalfEdgeHandle{}).ConnectTo(m.Edge(a))
	require.False(t, m.Edge(b).Next().IsValid())
	require.True(t, m.Edge(a).Next().Handle.Equal(b))
	require.False(t, m.Edge(a).Prev().IsValid())

	// close the chain into a triangle
	c, _ := m.MakeEdgeBetween(b, a)
	require.True(t, m.Edge(b).Next().Handle.Equal(c))
	require.True(t, m.Edge(c).Next().Handle.Equal(a))
	require.Len(t, m.EdgeLoop(a).All(), 3)
	require.Len(t, m.EdgeLoop(aTwin).All(), 3)
	require.Equal(t, 3, m.VertexCount())

	f := libmesh.Add(m, hemesh.Face{RootEdge: a})
	require.Equal(t, 3, m.AssignFaceToLoop(f, a))
	require.Equal(t, 0, m.AssignFaceToLoop(f, a), "already assigned")
	require.True(t, m.Edge(c).Face().Handle.Equal(f))

	require.Equal(t, p1, m.Edge(b).Point().Handle)
}

func TestMakeEdgeFromNeedsTwin(t *testing.T) {
	m := libmesh.NewMesh(nil)
	defer m.Reclaim()

	lone := libmesh.Add(m, hemesh.HalfEdge{})
	e0, e1 := m.MakeEdgeFrom(lone, m.AddPoint(0, 0, 0))
	require.False(t, e0.IsValid())
	require.False(t, e1.IsValid())
	require.Equal(t, 1, m.EdgeCount())
}

func TestIsBoundary(t *testing.T) {
	m := libmesh.NewMesh(nil)
	defer m.Reclaim()

	center, faces := fan(m, 4, true)
	for _, edge := range m.Face(faces[0]).Edges().All() {
		// only the rim side of each triangle is on the boundary
		onRim := !edge.Vertex().Handle.Equal(center.Handle) && !edge.Next().Vertex().Handle.Equal(center.Handle)
		require.Equal(t, onRim, edge.IsBoundary(), "%v", edge)
	}
}

func TestAddFaceBridgeRejectsUsedEdges(t *testing.T) {
	m := libmesh.NewMesh(nil)
	defer m.Reclaim()

	f, _ := triangle(m, 0, 0)
	root := m.Face(f).RootEdge().Handle
	pt := m.AddPoint(5, 5, 5)

	require.False(t, m.AddFaceFromEdge(root, []hemesh.PointHandle{pt}).IsValid())
	require.False(t, m.AddFaceFromEdge(hemesh.NewHandle[hemesh.HalfEdge](99), []hemesh.PointHandle{pt}).IsValid())
	require.Equal(t, 1, m.FaceCount())

	twin := m.Edge(root).Adjacent().Handle
	f2 := m.AddFaceFromEdge(twin, []hemesh.PointHandle{pt})
	require.True(t, m.Face(f2).IsValid())
	require.False(t, m.Edge(root).IsBoundary())
}
