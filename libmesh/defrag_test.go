package libmesh_test

import (
	"math/rand"
	"testing"

	"github.com/fine-structures/halfedge/hemesh"
	"github.com/fine-structures/halfedge/libmesh"
	"github.com/fine-structures/halfedge/libmesh/kernel"
	"github.com/fine-structures/halfedge/libmesh/query"
	"github.com/stretchr/testify/require"
)

func TestDefragNoop(t *testing.T) {
	m := libmesh.NewMesh(nil)
	defer m.Reclaim()

	require.Equal(t, kernel.DefragStats{}, m.Defrag())

	f, _ := triangle(m, 0, 0)
	require.Equal(t, kernel.DefragStats{}, m.Defrag())
	require.True(t, m.Face(f).IsValid(), "nothing moved so handles still resolve")
}

func TestDefragIslands(t *testing.T) {
	m := libmesh.NewMesh(nil)
	defer m.Reclaim()

	fA, _ := triangle(m, 0, 0)
	fB, _ := triangle(m, 5, 0)
	fC, _ := triangle(m, 10, 0)

	posA := positionsOf(m, fA)
	posC := positionsOf(m, fC)
	oldEdge := m.Face(fC).RootEdge().Handle

	removeIsland(m, fB)
	require.Equal(t, "Mesh { 6 points, 6 vertices, 12 edges, 2 faces }", m.String())

	st := m.Defrag()
	require.Equal(t, kernel.DefragStats{Points: 3, Vertices: 3, Edges: 6, Faces: 1}, st)
	require.Equal(t, "Mesh { 6 points, 6 vertices, 12 edges, 2 faces }", m.String())
	require.NoError(t, query.Check(m))

	k := m.Kernel()
	require.Equal(t, 7, k.Points.SlotCount())
	require.Equal(t, 7, k.Vertices.SlotCount())
	require.Equal(t, 13, k.Edges.SlotCount())
	require.Equal(t, 3, k.Faces.SlotCount())
	require.Zero(t, k.Edges.FreeCount())

	faces := m.Faces()
	require.Len(t, faces, 2)
	require.True(t, faces[0].Handle.Equal(fA))
	require.Equal(t, posA, positionsOf(m, faces[0].Handle))
	require.Equal(t, posC, positionsOf(m, faces[1].Handle))

	// handles from before the compaction no longer resolve
	require.False(t, m.Face(fB).IsValid(), "B's slot now holds C under a newer generation")
	require.False(t, m.Face(fC).IsValid())
	require.False(t, m.Edge(oldEdge).IsValid())

	for _, vtx := range m.Vertices() {
		require.Len(t, vtx.Edges().All(), 2, "%v", vtx)
	}

	// freed slots were dropped, so new elements append
	fD, _ := triangle(m, 20, 0)
	require.Equal(t, hemesh.Offset(3), fD.Offset())
	require.NoError(t, query.Check(m))
}

func TestDefragRetiresMovedHandles(t *testing.T) {
	m := libmesh.NewMesh(nil)
	defer m.Reclaim()

	fA, _ := triangle(m, 0, 0)
	fB, ptsB := triangle(m, 5, 0)
	fC, ptsC := triangle(m, 10, 0)
	posB := positionsOf(m, fB)
	posC := positionsOf(m, fC)
	edgeC := m.Face(fC).RootEdge().Handle

	removeIsland(m, fA)
	m.Defrag()
	require.NoError(t, query.Check(m))

	// faces keep their order, so B moved into A's slot and C into B's; C's edges and points were swapped into A's
	faces := m.Faces()
	require.Len(t, faces, 2)
	require.Equal(t, posB, positionsOf(m, faces[0].Handle))
	require.Equal(t, posC, positionsOf(m, faces[1].Handle))

	for _, f := range []hemesh.FaceHandle{fA, fB, fC} {
		require.False(t, m.Face(f).IsValid(), "%v resolves to %v", f, positionsOf(m, f))
	}
	require.False(t, m.Edge(edgeC).IsValid())
	for i := range ptsC {
		require.False(t, m.Point(ptsC[i]).IsValid(), "%v", ptsC[i])
		require.True(t, m.Point(ptsB[i]).IsValid(), "%v didn't move", ptsB[i])
	}
}

func TestDefragRetiresTruncatedHandles(t *testing.T) {
	m := libmesh.NewMesh(nil)
	defer m.Reclaim()

	m.AddPoint(1, 0, 0)
	b := m.AddPoint(2, 0, 0)
	libmesh.Remove(m, b)
	m.Defrag()

	c := m.AddPoint(3, 0, 0)
	require.Equal(t, b.Offset(), c.Offset())
	require.False(t, m.Point(b).IsValid())
	require.Equal(t, [3]float32{3, 0, 0}, m.Point(c).Position())

	// the same once a live point moved out of the slot a new one lands in
	x := m.AddPoint(4, 0, 0)
	y := m.AddPoint(9, 9, 9)
	libmesh.Remove(m, x)
	m.Defrag()
	z := m.AddPoint(5, 5, 5)
	require.Equal(t, y.Offset(), z.Offset())
	require.False(t, m.Point(y).IsValid())
	require.Equal(t, [3]float32{5, 5, 5}, m.Point(z).Position())

	// a face appended after compaction doesn't answer to a truncated face handle
	fA, _ := triangle(m, 0, 0)
	fB, _ := triangle(m, 5, 0)
	removeIsland(m, fB)
	m.Defrag()
	fC, _ := triangle(m, 10, 0)
	require.Equal(t, fB.Offset(), fC.Offset())
	require.False(t, m.Face(fB).IsValid())
	require.True(t, m.Face(fA).IsValid())
	require.NoError(t, query.Check(m))
}

func TestDefragDetachedFan(t *testing.T) {
	for _, closed := range []bool{false, true} {
		m := libmesh.NewMesh(nil)
		_, faces := fan(m, 5, closed)

		var before [][][3]float32
		for i, f := range faces {
			if i != 1 {
				before = append(before, positionsOf(m, f))
			}
		}

		require.True(t, m.DetachFace(faces[1]))
		st := m.Defrag()
		require.Equal(t, 1, st.Faces)
		require.Zero(t, st.Edges)
		require.Zero(t, st.Skipped)
		require.NoError(t, query.Check(m))

		var after [][][3]float32
		for _, face := range m.Faces() {
			after = append(after, positionsOf(m, face.Handle))
		}
		require.Equal(t, before, after)

		// the hole leaves a single gap around a closed fan, so the ring is still complete
		if closed {
			center := m.Faces()[0].RootEdge().Next().Next().Vertex()
			require.Len(t, center.Edges().All(), 5)
		}
		m.Reclaim()
	}
}

func TestDefragReportsBrokenLinks(t *testing.T) {
	m := libmesh.NewMesh(nil)
	defer m.Reclaim()

	fA, _ := triangle(m, 0, 0)
	fC, _ := triangle(m, 5, 0)
	removeIsland(m, fA)

	// a vertex naming an edge that doesn't start at it
	root := m.Face(fC).RootEdge()
	libmesh.Get(m, root.Vertex().Handle).Edge = root.Next().Handle
	require.Error(t, query.Check(m))

	st := m.Defrag()
	require.NotZero(t, st.Skipped)
	require.Equal(t, 1, m.FaceCount())
	require.Equal(t, 6, m.EdgeCount())
}

// TestDefragRandom adds and removes islands and fan faces at random and checks that each
// compaction keeps every surviving face intact.
func TestDefragRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	m := libmesh.NewMesh(nil)
	defer m.Reclaim()

	var islands []hemesh.FaceHandle
	var fans [][]hemesh.FaceHandle

	for round := 0; round < 20; round++ {
		for i := rng.Intn(6); i > 0; i-- {
			f, _ := triangle(m, rng.Float32()*100, rng.Float32()*100)
			islands = append(islands, f)
		}
		if rng.Intn(3) == 0 {
			_, faces := fan(m, 3+rng.Intn(4), rng.Intn(2) == 0)
			fans = append(fans, faces)
		}

		for i := rng.Intn(4); i > 0 && len(islands) > 0; i-- {
			j := rng.Intn(len(islands))
			removeIsland(m, islands[j])
			islands = append(islands[:j], islands[j+1:]...)
		}
		if len(fans) > 0 && rng.Intn(2) == 0 {
			faces := fans[rng.Intn(len(fans))]
			m.DetachFace(faces[rng.Intn(len(faces))])
		}

		// faces compact in order, so remember what each surviving face was by its rank
		isIsland := make(map[hemesh.Offset]bool, len(islands))
		for _, f := range islands {
			isIsland[f.Offset()] = true
		}
		fanOf := make(map[hemesh.Offset]int)
		for i, faces := range fans {
			for _, f := range faces {
				fanOf[f.Offset()] = i
			}
		}

		var before [][][3]float32
		var roles []int
		for _, face := range m.Faces() {
			before = append(before, positionsOf(m, face.Handle))
			if isIsland[face.Handle.Offset()] {
				roles = append(roles, -1)
			} else {
				roles = append(roles, fanOf[face.Handle.Offset()])
			}
		}
		counts := m.String()

		st := m.Defrag()
		require.Zero(t, st.Skipped, "round %d", round)
		require.Equal(t, counts, m.String())
		require.NoError(t, query.Check(m), "round %d", round)

		k := m.Kernel()
		require.Equal(t, m.FaceCount()+1, k.Faces.SlotCount())
		require.Equal(t, m.EdgeCount()+1, k.Edges.SlotCount())
		require.Equal(t, m.VertexCount()+1, k.Vertices.SlotCount())
		require.Equal(t, m.PointCount()+1, k.Points.SlotCount())

		var after [][][3]float32
		for _, face := range m.Faces() {
			after = append(after, positionsOf(m, face.Handle))
		}
		require.Equal(t, before, after, "round %d", round)

		// every handle is stale now
		numFans := len(fans)
		islands, fans = islands[:0], make([][]hemesh.FaceHandle, numFans)
		for i, face := range m.Faces() {
			if roles[i] < 0 {
				islands = append(islands, face.Handle)
			} else {
				fans[roles[i]] = append(fans[roles[i]], face.Handle)
			}
		}
		for i := len(fans) - 1; i >= 0; i-- {
			if len(fans[i]) == 0 {
				fans = append(fans[:i], fans[i+1:]...)
			}
		}
	}
}
