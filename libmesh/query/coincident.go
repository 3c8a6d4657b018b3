package query

import (
	"math"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/fine-structures/halfedge/hemesh"
	"github.com/fine-structures/halfedge/libmesh"
)

// gridKey is a point position snapped to a grid of the requested tolerance.
type gridKey [3]int64

func gridKeyComparator(a, b interface{}) int {
	A := a.(gridKey)
	B := b.(gridKey)
	for i := range A {
		if A[i] < B[i] {
			return -1
		}
		if A[i] > B[i] {
			return 1
		}
	}
	return 0
}

func snap(pos [3]float32, tolerance float32) gridKey {
	var key gridKey
	for i, xi := range pos {
		if tolerance > 0 {
			key[i] = int64(math.Round(float64(xi / tolerance)))
		} else {
			key[i] = int64(math.Float32bits(xi))
		}
	}
	return key
}

// CoincidentPoints groups the active points of m that sit at the same position, ordered by grid cell.
//
// Positions are snapped to a grid of cell size tolerance first (tolerance <= 0 compares exact bit patterns),
// so two points closer than tolerance can still land in neighbouring cells.  Only groups of two or more are returned.
func CoincidentPoints(m *libmesh.Mesh, tolerance float32) [][]hemesh.PointHandle {
	tree := redblacktree.NewWith(gridKeyComparator)

	m.Kernel().Points.Each(func(h hemesh.PointHandle, pt *hemesh.Point) bool {
		key := snap(pt.Position, tolerance)
		var group []hemesh.PointHandle
		if val, found := tree.Get(key); found {
			group = val.([]hemesh.PointHandle)
		}
		tree.Put(key, append(group, h))
		return true
	})

	var groups [][]hemesh.PointHandle
	it := tree.Iterator()
	for it.Next() {
		if group := it.Value().([]hemesh.PointHandle); len(group) > 1 {
			groups = append(groups, group)
		}
	}
	return groups
}
