package kernel

import (
	"fmt"

	"github.com/fine-structures/halfedge/hemesh"
	"github.com/fine-structures/halfedge/libmesh/arena"
)

// Kernel owns the four element buffers of a mesh.
type Kernel struct {
	Points   *arena.ElementBuffer[hemesh.Point]
	Vertices *arena.ElementBuffer[hemesh.Vertex]
	Edges    *arena.ElementBuffer[hemesh.HalfEdge]
	Faces    *arena.ElementBuffer[hemesh.Face]
}

// DefragStats reports how many slots each buffer gave back during Defrag.
type DefragStats struct {
	Points   int
	Vertices int
	Edges    int
	Faces    int

	// Number of cross-references that could not be fixed up because they were already inconsistent.
	Skipped int
}

func (st DefragStats) Total() int {
	return st.Points + st.Vertices + st.Edges + st.Faces
}

func (st DefragStats) String() string {
	return fmt.Sprintf("reclaimed %d points, %d vertices, %d edges, %d faces (%d fix-ups skipped)",
		st.Points, st.Vertices, st.Edges, st.Faces, st.Skipped)
}

// New returns a Kernel whose buffers are sized for about capacity faces.
func New(capacity int) *Kernel {
	return &Kernel{
		Points:   arena.NewElementBuffer[hemesh.Point](capacity),
		Vertices: arena.NewElementBuffer[hemesh.Vertex](capacity),
		Edges:    arena.NewElementBuffer[hemesh.HalfEdge](6 * capacity),
		Faces:    arena.NewElementBuffer[hemesh.Face](capacity),
	}
}

// Reset empties every buffer.
func (k *Kernel) Reset() {
	k.Points.Reset()
	k.Vertices.Reset()
	k.Edges.Reset()
	k.Faces.Reset()
}

// BufferOf returns the buffer holding elements of kind E.
func BufferOf[E hemesh.Element](k *Kernel) *arena.ElementBuffer[E] {
	var buf any
	switch any((*E)(nil)).(type) {
	case *hemesh.Point:
		buf = k.Points
	case *hemesh.Vertex:
		buf = k.Vertices
	case *hemesh.HalfEdge:
		buf = k.Edges
	case *hemesh.Face:
		buf = k.Faces
	}
	return buf.(*arena.ElementBuffer[E])
}

func Add[E hemesh.Element](k *Kernel, elem E) hemesh.Handle[E] {
	return BufferOf[E](k).Add(elem)
}

func Get[E hemesh.Element](k *Kernel, h hemesh.Handle[E]) *E {
	return BufferOf[E](k).Get(h)
}

func Remove[E hemesh.Element](k *Kernel, h hemesh.Handle[E]) bool {
	return BufferOf[E](k).Remove(h)
}
