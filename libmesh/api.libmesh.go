package libmesh

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/fine-structures/halfedge/hemesh"
	"github.com/fine-structures/halfedge/libmesh/kernel"
)

// MeshOpts specifies params for a new Mesh.
type MeshOpts struct {
	Capacity int // expected number of faces; buffers grow past this as needed
}

var DefaultMeshOpts = MeshOpts{
	Capacity: 64,
}

// Mesh is a half-edge mesh: a Kernel holding the elements plus the tag counter used by traversals.
//
// A Mesh is not safe for concurrent use and at most one traversal pass should be in flight at a time.
type Mesh struct {
	kernel *kernel.Kernel
	tag    atomic.Uint32
}

// NewMesh returns an empty Mesh.  Pass nil for DefaultMeshOpts.
//
// When done with it, Reclaim() hands its buffers back for reuse.
func NewMesh(opts *MeshOpts) *Mesh {
	if opts == nil {
		opts = &DefaultMeshOpts
	}

	var m *Mesh
	if opts.Capacity > DefaultMeshOpts.Capacity {
		m = &Mesh{
			kernel: kernel.New(opts.Capacity),
		}
	} else {
		m = meshPool.Get().(*Mesh)
	}
	if m.tag.Load() == 0 {
		m.tag.Store(1)
	}
	return m
}

var meshPool = sync.Pool{
	New: func() interface{} {
		return &Mesh{
			kernel: kernel.New(DefaultMeshOpts.Capacity),
		}
	},
}

// Reclaim empties this Mesh and returns it to the pool.  Neither m nor any handle into it may be used afterwards.
func (m *Mesh) Reclaim() {
	if m != nil {
		m.kernel.Reset()
		meshPool.Put(m)
	}
}

// Kernel exposes the element storage, for collaborators that implement their own traversals.
func (m *Mesh) Kernel() *kernel.Kernel {
	return m.kernel
}

// NextTag returns a tag no earlier traversal of this mesh has used.
//
// Tags start at 1 so an element that was never visited (tag 0) never matches.
func (m *Mesh) NextTag() hemesh.Tag {
	return m.tag.Add(1) - 1
}

// Add stores elem in the buffer for its kind.
func Add[E hemesh.Element](m *Mesh, elem E) hemesh.Handle[E] {
	return kernel.Add(m.kernel, elem)
}

// Get returns the element h refers to, or nil if h doesn't resolve.
//
// The pointer is only good until the next Add or Defrag on the same mesh.
func Get[E hemesh.Element](m *Mesh, h hemesh.Handle[E]) *E {
	return kernel.Get(m.kernel, h)
}

// Remove deactivates the element h refers to.  Links that other elements hold to it are left as they are.
func Remove[E hemesh.Element](m *Mesh, h hemesh.Handle[E]) bool {
	return kernel.Remove(m.kernel, h)
}

func (m *Mesh) AddPoint(x, y, z float32) hemesh.PointHandle {
	return m.kernel.Points.Add(hemesh.NewPoint(x, y, z))
}

func (m *Mesh) PointCount() int {
	return m.kernel.Points.Len() - 1
}

func (m *Mesh) VertexCount() int {
	return m.kernel.Vertices.Len() - 1
}

func (m *Mesh) EdgeCount() int {
	return m.kernel.Edges.Len() - 1
}

func (m *Mesh) FaceCount() int {
	return m.kernel.Faces.Len() - 1
}

// Defrag compacts the element buffers.  Every handle obtained before the call must be considered stale.
func (m *Mesh) Defrag() kernel.DefragStats {
	return m.kernel.Defrag()
}

func (m *Mesh) String() string {
	return fmt.Sprintf("Mesh { %d points, %d vertices, %d edges, %d faces }",
		m.PointCount(), m.VertexCount(), m.EdgeCount(), m.FaceCount())
}

func (m *Mesh) Face(h hemesh.FaceHandle) FaceProxy {
	return FaceProxy{h, m}
}

func (m *Mesh) Edge(h hemesh.HalfEdgeHandle) HalfEdgeProxy {
	return HalfEdgeProxy{h, m}
}

func (m *Mesh) Vertex(h hemesh.VertexHandle) VertexProxy {
	return VertexProxy{h, m}
}

func (m *Mesh) Point(h hemesh.PointHandle) PointProxy {
	return PointProxy{h, m}
}

// Faces returns a proxy for every active face in offset order.
func (m *Mesh) Faces() []FaceProxy {
	faces := make([]FaceProxy, 0, m.FaceCount())
	m.kernel.Faces.Each(func(h hemesh.FaceHandle, _ *hemesh.Face) bool {
		faces = append(faces, FaceProxy{h, m})
		return true
	})
	return faces
}

// Edges returns a proxy for every active half-edge in offset order.
func (m *Mesh) Edges() []HalfEdgeProxy {
	edges := make([]HalfEdgeProxy, 0, m.EdgeCount())
	m.kernel.Edges.Each(func(h hemesh.HalfEdgeHandle, _ *hemesh.HalfEdge) bool {
		edges = append(edges, HalfEdgeProxy{h, m})
		return true
	})
	return edges
}

// Vertices returns a proxy for every active vertex in offset order.
func (m *Mesh) Vertices() []VertexProxy {
	verts := make([]VertexProxy, 0, m.VertexCount())
	m.kernel.Vertices.Each(func(h hemesh.VertexHandle, _ *hemesh.Vertex) bool {
		verts = append(verts, VertexProxy{h, m})
		return true
	})
	return verts
}

// Points returns the handle of every active point in offset order.
func (m *Mesh) Points() []hemesh.PointHandle {
	return m.kernel.Points.Handles(make([]hemesh.PointHandle, 0, m.PointCount()))
}
