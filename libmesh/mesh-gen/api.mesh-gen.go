package gen

import (
	"github.com/fine-structures/halfedge/hemesh"
	"github.com/fine-structures/halfedge/libmesh"
	"github.com/pkg/errors"
)

// Generator adds a parametric shape to a mesh.
type Generator interface {

	// Build adds this generator's faces to m and returns them in construction order.
	//
	// Bad parameters are reported as an error wrapping hemesh.ErrInvalidArguments before m is touched.
	Build(m *libmesh.Mesh) ([]hemesh.FaceHandle, error)
}

// Generate builds g into a new mesh.  On error no mesh is returned.
func Generate(g Generator, opts *libmesh.MeshOpts) (*libmesh.Mesh, error) {
	m := libmesh.NewMesh(opts)
	if _, err := g.Build(m); err != nil {
		m.Reclaim()
		return nil, err
	}
	return m, nil
}

// MaxCount caps the sides of a Polygon and the triangles of a Fan or Strip.
const MaxCount = 1 << 16

// Polygon is a single n-sided face with its points on a circle in the z = 0 plane, counter-clockwise from +x.
type Polygon struct {
	Sides  int
	Radius float32
	Center [3]float32
}

// Fan is a ring of triangles around a center point, each sharing a spoke with the next.
//
// When Closed, the last triangle shares its far spoke with the first so the center is surrounded;
// this needs at least 3 triangles.
type Fan struct {
	Triangles int
	Radius    float32
	Center    [3]float32
	Closed    bool
}

// Strip is a row of triangles between a bottom and a top line, each sharing an edge with the one before.
// Triangles alternate between pointing up and pointing down.
type Strip struct {
	Triangles int
	Width     float32 // distance between successive points on each line
	Height    float32 // distance between the two lines
}

func invalidArgs(format string, args ...interface{}) error {
	return errors.Wrapf(hemesh.ErrInvalidArguments, format, args...)
}
