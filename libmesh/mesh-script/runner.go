package mesh_script

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fine-structures/halfedge/hemesh"
	"github.com/fine-structures/halfedge/libmesh"
	"github.com/fine-structures/halfedge/libmesh/kernel"
	gen "github.com/fine-structures/halfedge/libmesh/mesh-gen"
	"github.com/fine-structures/halfedge/libmesh/query"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

// namedFace remembers a face along with its root edge, so its loop can still be reached once the face is removed.
type namedFace struct {
	face hemesh.FaceHandle
	root hemesh.HalfEdgeHandle
}

// Runner runs scripts against one mesh.  Names bound by one script stay bound for the next.
type Runner struct {
	mesh   *libmesh.Mesh
	opts   RunOpts
	points map[string]hemesh.PointHandle
	faces  map[string][]namedFace
}

func NewRunner(m *libmesh.Mesh, opts *RunOpts) *Runner {
	if opts == nil {
		opts = &DefaultRunOpts
	}
	r := &Runner{
		mesh:   m,
		opts:   *opts,
		points: make(map[string]hemesh.PointHandle),
		faces:  make(map[string][]namedFace),
	}
	if r.opts.Print == nil {
		r.opts.Print = os.Stdout
	}
	return r
}

// Run parses src and runs it against m.
func Run(m *libmesh.Mesh, src string, opts *RunOpts) error {
	return NewRunner(m, opts).Run(src)
}

func (r *Runner) Mesh() *libmesh.Mesh {
	return r.mesh
}

// Point returns the point bound to name.
func (r *Runner) Point(name string) (hemesh.PointHandle, bool) {
	pt, ok := r.points[name]
	return pt, ok
}

// Face returns the face bound to name, or the first face of the group it names.
func (r *Runner) Face(name string) (hemesh.FaceHandle, bool) {
	group := r.faces[name]
	if len(group) == 0 {
		return hemesh.FaceHandle{}, false
	}
	return group[0].face, true
}

// Run parses src and runs its statements in order, stopping at the first error.
func (r *Runner) Run(src string) error {
	if r.mesh == nil {
		return hemesh.ErrNilMesh
	}

	script, err := ParseScript(src)
	if err != nil {
		return err
	}

	for _, stmt := range script.Stmts {
		if err = r.exec(stmt); err != nil {
			return err
		}
	}
	if r.opts.DefragAfter {
		r.Defrag()
	}
	return nil
}

func (r *Runner) exec(stmt *Stmt) error {
	m := r.mesh

	switch {
	case stmt.Point != nil:
		pt := stmt.Point
		if _, exists := r.points[pt.Name]; exists {
			return errors.Wrapf(hemesh.ErrDuplicateName, "line %d: point %q", stmt.Pos.Line, pt.Name)
		}
		r.points[pt.Name] = m.AddPoint(pt.X, pt.Y, pt.Z)

	case stmt.Face != nil:
		return r.execFace(stmt)

	case stmt.Generate != nil:
		return r.execGenerate(stmt)

	case stmt.Remove != nil:
		return r.execRemove(stmt)

	case stmt.Defrag:
		r.Defrag()

	case stmt.Check:
		if err := query.Check(m); err != nil {
			return errors.Wrapf(err, "line %d", stmt.Pos.Line)
		}

	case stmt.Print:
		r.print(r.opts.Print)
	}
	return nil
}

func (r *Runner) execFace(stmt *Stmt) error {
	m := r.mesh
	face := stmt.Face
	if _, exists := r.faces[face.Name]; exists {
		return errors.Wrapf(hemesh.ErrDuplicateName, "line %d: face %q", stmt.Pos.Line, face.Name)
	}

	pts := make([]hemesh.PointHandle, len(face.Points))
	for i, name := range face.Points {
		pt, ok := r.points[name]
		if !ok || !m.Point(pt).IsValid() {
			return errors.Wrapf(hemesh.ErrUnknownName, "line %d: point %q", stmt.Pos.Line, name)
		}
		pts[i] = pt
	}

	var h hemesh.FaceHandle
	if face.On == nil {
		h = m.AddFace(pts)
	} else {
		edge, err := r.resolveEdge(stmt, face.On)
		if err != nil {
			return err
		}
		h = m.AddFaceFromEdge(edge.Adjacent().Handle, pts)
		if !h.IsValid() {
			return stmt.errorf("the twin of %s:%d already has a face", face.On.Face.Name, face.On.Index)
		}
	}

	r.faces[face.Name] = []namedFace{r.nameFace(h)}
	return nil
}

func (r *Runner) execGenerate(stmt *Stmt) error {
	m := r.mesh
	g := stmt.Generate
	if _, exists := r.faces[g.Name]; exists {
		return errors.Wrapf(hemesh.ErrDuplicateName, "line %d: %s %q", stmt.Pos.Line, g.Kind, g.Name)
	}

	var generator gen.Generator
	switch g.Kind {
	case "polygon":
		generator = gen.Polygon{Sides: int(g.Args[0]), Radius: float32(g.Args[1])}
	case "fan":
		generator = gen.Fan{Triangles: int(g.Args[0]), Radius: float32(g.Args[1]), Closed: g.Closed}
	case "strip":
		generator = gen.Strip{Triangles: int(g.Args[0]), Width: float32(g.Args[1]), Height: float32(g.Args[2])}
	}

	faces, err := generator.Build(m)
	if err != nil {
		return errors.Wrapf(err, "line %d", stmt.Pos.Line)
	}

	group := make([]namedFace, len(faces))
	for i, face := range faces {
		group[i] = r.nameFace(face)
	}
	r.faces[g.Name] = group
	klog.V(2).Infof("line %d: %s %q added %d faces", stmt.Pos.Line, g.Kind, g.Name, len(faces))
	return nil
}

func (r *Runner) execRemove(stmt *Stmt) error {
	m := r.mesh
	rm := stmt.Remove

	switch {
	case rm.Face != nil:
		named, err := r.resolveFace(stmt, rm.Face)
		if err != nil {
			return err
		}
		if !m.DetachFace(named.face) {
			return stmt.errorf("face %s was already removed", rm.Face.Name)
		}

	case rm.Edge != nil:
		edge, err := r.resolveEdge(stmt, rm.Edge)
		if err != nil {
			return err
		}
		if !m.RemoveEdge(edge.Handle) {
			return stmt.errorf("edge %s:%d still bounds a face", rm.Edge.Face.Name, rm.Edge.Index)
		}

	default:
		pt, ok := r.points[rm.Point]
		if !ok || !libmesh.Remove(m, pt) {
			return errors.Wrapf(hemesh.ErrUnknownName, "line %d: point %q", stmt.Pos.Line, rm.Point)
		}
		delete(r.points, rm.Point)
	}
	return nil
}

func (r *Runner) nameFace(face hemesh.FaceHandle) namedFace {
	return namedFace{
		face: face,
		root: r.mesh.Face(face).RootEdge().Handle,
	}
}

func (r *Runner) resolveFace(stmt *Stmt, ref *FaceRef) (namedFace, error) {
	group, ok := r.faces[ref.Name]
	if !ok {
		return namedFace{}, errors.Wrapf(hemesh.ErrUnknownName, "line %d: face %q", stmt.Pos.Line, ref.Name)
	}
	if ref.Index < 0 || ref.Index >= len(group) {
		return namedFace{}, stmt.errorf("%s[%d] is out of range (%d faces)", ref.Name, ref.Index, len(group))
	}
	return group[ref.Index], nil
}

func (r *Runner) resolveEdge(stmt *Stmt, ref *EdgeRef) (libmesh.HalfEdgeProxy, error) {
	named, err := r.resolveFace(stmt, &ref.Face)
	if err != nil {
		return libmesh.HalfEdgeProxy{}, err
	}
	loop := r.mesh.EdgeLoop(named.root).All()
	if ref.Index < 0 || ref.Index >= len(loop) {
		return libmesh.HalfEdgeProxy{}, stmt.errorf("%s has no edge %d (%d edges)", ref.Face.Name, ref.Index, len(loop))
	}
	return loop[ref.Index], nil
}

// Defrag compacts the mesh and rebinds every name to where its element moved.
//
// Compaction carries each slot's tag along with it, so named elements are stamped with fresh tags first
// and found again by tag afterwards.  Names whose element is gone are dropped.
func (r *Runner) Defrag() kernel.DefragStats {
	m := r.mesh
	k := m.Kernel()

	type slotRef struct {
		name  string
		index int
	}
	ptTags := make(map[hemesh.Tag]string, len(r.points))
	faceTags := make(map[hemesh.Tag]slotRef)
	rootTags := make(map[hemesh.Tag]slotRef)

	for name, pt := range r.points {
		tag := m.NextTag()
		if k.Points.SetTag(pt, tag) {
			ptTags[tag] = name
		}
	}
	for name, group := range r.faces {
		for i, named := range group {
			tag := m.NextTag()
			if k.Faces.SetTag(named.face, tag) {
				faceTags[tag] = slotRef{name, i}
			}
			tag = m.NextTag()
			if k.Edges.SetTag(named.root, tag) {
				rootTags[tag] = slotRef{name, i}
			}
		}
	}

	st := m.Defrag()
	klog.V(2).Infof("script defrag: %v", st)

	points := make(map[string]hemesh.PointHandle, len(ptTags))
	k.Points.Each(func(h hemesh.PointHandle, _ *hemesh.Point) bool {
		if name, ok := ptTags[k.Points.Tag(h)]; ok {
			points[name] = h
			k.Points.SetTag(h, 0)
		}
		return true
	})

	faces := make(map[string][]namedFace, len(r.faces))
	for name, group := range r.faces {
		faces[name] = make([]namedFace, len(group))
	}
	k.Faces.Each(func(h hemesh.FaceHandle, _ *hemesh.Face) bool {
		if ref, ok := faceTags[k.Faces.Tag(h)]; ok {
			faces[ref.name][ref.index].face = h
			k.Faces.SetTag(h, 0)
		}
		return true
	})
	k.Edges.Each(func(h hemesh.HalfEdgeHandle, _ *hemesh.HalfEdge) bool {
		if ref, ok := rootTags[k.Edges.Tag(h)]; ok {
			faces[ref.name][ref.index].root = h
		}
		return true
	})

	// a group with nothing left to reach is forgotten
	for name, group := range faces {
		live := false
		for _, named := range group {
			live = live || named.face.IsValid() || named.root.IsValid()
		}
		if !live {
			delete(faces, name)
		}
	}

	r.points = points
	r.faces = faces
	return st
}

func (r *Runner) print(out io.Writer) {
	m := r.mesh
	fmt.Fprintln(out, m)

	names := make([]string, 0, len(r.faces))
	for name := range r.faces {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for i, named := range r.faces[name] {
			face := m.Face(named.face)
			if !face.IsValid() {
				continue
			}
			label := name
			if len(r.faces[name]) > 1 {
				label = fmt.Sprintf("%s[%d]", name, i)
			}
			fmt.Fprintf(out, "  %-8s %v:", label, face)
			for _, vtx := range face.Vertices().All() {
				fmt.Fprintf(out, " %v", hemesh.Point{Position: vtx.Point().Position()})
			}
			fmt.Fprintln(out)
		}
	}
}
