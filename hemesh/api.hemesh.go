package hemesh

// Offset is a slot index into one of a mesh's element buffers.
//
// Offset 0 is reserved in every buffer: it never holds an active element, so the zero Handle is always invalid.
type Offset = uint32

// Generation stamps a slot each time its element is removed so stale handles stop resolving.
//
// GenerationAny (0) on a Handle means "match whatever is in the slot".  Slots start at generation 1.
type Generation = uint32

// Tag is a scratch value stamped on elements during one traversal pass (see Mesh.NextTag).
type Tag = uint32

const (
	InvalidOffset Offset     = 0
	GenerationAny Generation = 0
	FirstGen      Generation = 1
)

// Status is a slot's liveness.
type Status uint8

const (
	Inactive Status = iota
	Active
)

func (s Status) String() string {
	if s == Active {
		return "ACTIVE"
	}
	return "INACTIVE"
}

// Handle references a slot in the buffer holding elements of kind E.
//
// A Handle owns nothing and must be re-resolved through the mesh on every use.
type Handle[E any] struct {
	offset     Offset
	generation Generation
}

// NewHandle returns a handle to the given offset that matches any generation.
func NewHandle[E any](offset Offset) Handle[E] {
	return Handle[E]{offset: offset}
}

// HandleWithGen returns a handle to the given offset that only resolves while the slot has the given generation.
func HandleWithGen[E any](offset Offset, gen Generation) Handle[E] {
	return Handle[E]{
		offset:     offset,
		generation: gen,
	}
}

func (h Handle[E]) Offset() Offset {
	return h.offset
}

func (h Handle[E]) Generation() Generation {
	return h.generation
}

// IsValid reports if h is not the sentinel handle.  It says nothing about whether h still resolves.
func (h Handle[E]) IsValid() bool {
	return h.offset != InvalidOffset
}

// Equal compares offsets only when either side carries GenerationAny, otherwise offset and generation.
func (h Handle[E]) Equal(other Handle[E]) bool {
	if h.offset != other.offset {
		return false
	}
	if h.generation == GenerationAny || other.generation == GenerationAny {
		return true
	}
	return h.generation == other.generation
}

// Compare orders by offset and then, when both generations are set, by generation.
func (h Handle[E]) Compare(other Handle[E]) int {
	switch {
	case h.offset < other.offset:
		return -1
	case h.offset > other.offset:
		return 1
	}
	if h.generation == GenerationAny || other.generation == GenerationAny {
		return 0
	}
	switch {
	case h.generation < other.generation:
		return -1
	case h.generation > other.generation:
		return 1
	}
	return 0
}

// Point is the positional attribute leaf.  Many vertices may share one point.
type Point struct {
	Position [3]float32
}

// Vertex is the origin of one or more outgoing half-edges.
//
// Edge is a representative outgoing half-edge whose Vertex is this vertex.
type Vertex struct {
	Edge  Handle[HalfEdge]
	Point Handle[Point]
}

// HalfEdge is one directed side of an edge.  It starts at Vertex and runs along the loop of Face.
type HalfEdge struct {
	Adjacent Handle[HalfEdge]
	Next     Handle[HalfEdge]
	Prev     Handle[HalfEdge]
	Face     Handle[Face]
	Vertex   Handle[Vertex]
}

// Face is bounded by the loop of half-edges reached by following Next from RootEdge.
type Face struct {
	RootEdge Handle[HalfEdge]
}

type (
	PointHandle    = Handle[Point]
	VertexHandle   = Handle[Vertex]
	HalfEdgeHandle = Handle[HalfEdge]
	FaceHandle     = Handle[Face]
)

// Element is the closed set of kinds a mesh stores.
type Element interface {
	Point | Vertex | HalfEdge | Face
}

func NewPoint(x, y, z float32) Point {
	return Point{
		Position: [3]float32{x, y, z},
	}
}

// PointFromSlice reads the first three values of coords; missing values are 0.
func PointFromSlice(coords []float32) Point {
	var pt Point
	copy(pt.Position[:], coords)
	return pt
}
