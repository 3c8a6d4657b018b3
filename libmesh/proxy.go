package libmesh

import (
	"github.com/fine-structures/halfedge/hemesh"
	"github.com/plan-systems/klog"
)

// Proxies pair a handle with its Mesh.  They are plain values, cheap to copy, and own nothing.
//
// Navigation never fails: stepping from or onto something that doesn't resolve yields a proxy
// wrapping the sentinel handle, so a chain like e.Prev().Adjacent().Face() only needs one IsValid() check at the end.

type FaceProxy struct {
	Handle hemesh.FaceHandle
	mesh   *Mesh
}

type HalfEdgeProxy struct {
	Handle hemesh.HalfEdgeHandle
	mesh   *Mesh
}

type VertexProxy struct {
	Handle hemesh.VertexHandle
	mesh   *Mesh
}

type PointProxy struct {
	Handle hemesh.PointHandle
	mesh   *Mesh
}

/////////////////////////////////
// FaceProxy

func (p FaceProxy) Mesh() *Mesh {
	return p.mesh
}

func (p FaceProxy) Element() *hemesh.Face {
	if p.mesh == nil {
		return nil
	}
	return p.mesh.kernel.Faces.Get(p.Handle)
}

func (p FaceProxy) IsValid() bool {
	return p.Element() != nil
}

func (p FaceProxy) RootEdge() HalfEdgeProxy {
	var root hemesh.HalfEdgeHandle
	if face := p.Element(); face != nil {
		root = face.RootEdge
	}
	return HalfEdgeProxy{root, p.mesh}
}

// Edges walks this face's loop starting at its root edge.
func (p FaceProxy) Edges() *FaceEdges {
	return newFaceEdges(p.mesh, p.RootEdge().Handle)
}

// Vertices walks the origin of each edge of this face's loop.
func (p FaceProxy) Vertices() *FaceVertices {
	return &FaceVertices{
		edges: p.Edges(),
	}
}

func (p FaceProxy) String() string {
	return p.Handle.String()
}

/////////////////////////////////
// HalfEdgeProxy

func (p HalfEdgeProxy) Mesh() *Mesh {
	return p.mesh
}

func (p HalfEdgeProxy) Element() *hemesh.HalfEdge {
	if p.mesh == nil {
		return nil
	}
	return p.mesh.kernel.Edges.Get(p.Handle)
}

func (p HalfEdgeProxy) IsValid() bool {
	return p.Element() != nil
}

func (p HalfEdgeProxy) Next() HalfEdgeProxy {
	var next hemesh.HalfEdgeHandle
	if edge := p.Element(); edge != nil {
		next = edge.Next
	}
	return HalfEdgeProxy{next, p.mesh}
}

func (p HalfEdgeProxy) Prev() HalfEdgeProxy {
	var prev hemesh.HalfEdgeHandle
	if edge := p.Element(); edge != nil {
		prev = edge.Prev
	}
	return HalfEdgeProxy{prev, p.mesh}
}

// Adjacent returns this half-edge's twin, running the opposite way.
func (p HalfEdgeProxy) Adjacent() HalfEdgeProxy {
	var adj hemesh.HalfEdgeHandle
	if edge := p.Element(); edge != nil {
		adj = edge.Adjacent
	}
	return HalfEdgeProxy{adj, p.mesh}
}

func (p HalfEdgeProxy) Face() FaceProxy {
	var face hemesh.FaceHandle
	if edge := p.Element(); edge != nil {
		face = edge.Face
	}
	return FaceProxy{face, p.mesh}
}

// Vertex returns the vertex this half-edge starts at.
func (p HalfEdgeProxy) Vertex() VertexProxy {
	var vtx hemesh.VertexHandle
	if edge := p.Element(); edge != nil {
		vtx = edge.Vertex
	}
	return VertexProxy{vtx, p.mesh}
}

func (p HalfEdgeProxy) Point() PointProxy {
	return p.Vertex().Point()
}

// IsBoundary reports if this half-edge or its twin has no face.
func (p HalfEdgeProxy) IsBoundary() bool {
	return !p.Face().IsValid() || !p.Adjacent().Face().IsValid()
}

// IsConnected reports if this half-edge is linked into a loop on both sides.
func (p HalfEdgeProxy) IsConnected() bool {
	return p.Next().IsValid() && p.Prev().IsValid()
}

// ConnectTo makes next follow this half-edge in its loop.
//
// Construction code calls this speculatively, so it logs and does nothing if either side doesn't resolve.
func (p HalfEdgeProxy) ConnectTo(next HalfEdgeProxy) {
	edge := p.Element()
	nextEdge := next.Element()
	if edge == nil || nextEdge == nil {
		klog.Warningf("ConnectTo: can't link %v -> %v", p.Handle, next.Handle)
		return
	}
	edge.Next = next.Handle
	nextEdge.Prev = p.Handle
}

func (p HalfEdgeProxy) Tag() hemesh.Tag {
	if p.mesh == nil {
		return 0
	}
	return p.mesh.kernel.Edges.Tag(p.Handle)
}

func (p HalfEdgeProxy) SetTag(tag hemesh.Tag) bool {
	if p.mesh == nil {
		return false
	}
	return p.mesh.kernel.Edges.SetTag(p.Handle, tag)
}

func (p HalfEdgeProxy) String() string {
	return p.Handle.String()
}

/////////////////////////////////
// VertexProxy

func (p VertexProxy) Mesh() *Mesh {
	return p.mesh
}

func (p VertexProxy) Element() *hemesh.Vertex {
	if p.mesh == nil {
		return nil
	}
	return p.mesh.kernel.Vertices.Get(p.Handle)
}

func (p VertexProxy) IsValid() bool {
	return p.Element() != nil
}

// Edge returns this vertex's representative outgoing half-edge.
func (p VertexProxy) Edge() HalfEdgeProxy {
	var edge hemesh.HalfEdgeHandle
	if vtx := p.Element(); vtx != nil {
		edge = vtx.Edge
	}
	return HalfEdgeProxy{edge, p.mesh}
}

func (p VertexProxy) Point() PointProxy {
	var pt hemesh.PointHandle
	if vtx := p.Element(); vtx != nil {
		pt = vtx.Point
	}
	return PointProxy{pt, p.mesh}
}

// Edges circulates the outgoing half-edges around this vertex.
func (p VertexProxy) Edges() *VertexCirculator {
	return newVertexCirculator(p.mesh, p.Handle)
}

func (p VertexProxy) String() string {
	return p.Handle.String()
}

/////////////////////////////////
// PointProxy

func (p PointProxy) Mesh() *Mesh {
	return p.mesh
}

func (p PointProxy) Element() *hemesh.Point {
	if p.mesh == nil {
		return nil
	}
	return p.mesh.kernel.Points.Get(p.Handle)
}

func (p PointProxy) IsValid() bool {
	return p.Element() != nil
}

// Position returns the point's coordinates, or the origin if p doesn't resolve.
func (p PointProxy) Position() [3]float32 {
	if pt := p.Element(); pt != nil {
		return pt.Position
	}
	return [3]float32{}
}

func (p PointProxy) String() string {
	if pt := p.Element(); pt != nil {
		return p.Handle.String() + pt.String()
	}
	return p.Handle.String()
}
