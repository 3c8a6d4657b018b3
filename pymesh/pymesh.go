package pymesh

import (
	"github.com/fine-structures/halfedge/hemesh"
	"github.com/fine-structures/halfedge/libmesh"
	mesh_script "github.com/fine-structures/halfedge/libmesh/mesh-script"
	"github.com/fine-structures/halfedge/libmesh/query"
	"github.com/go-python/gpython/py"
	"github.com/plan-systems/klog"
)

var (
	LIB_VERSION = "v1.2026.1"
)

var (
	pyMeshType      = py.NewType("Mesh", "a half-edge mesh of points, vertices, half-edges, and faces")
	pyPointType     = py.NewType("Point", "a handle to a mesh point")
	pyFaceType      = py.NewType("Face", "a handle to a mesh face")
	pyWorkspaceType = py.NewType("Workspace", "tracks the meshes made in a session so they are reclaimed when it closes")
)

const kWorkspaceAttr = "_Workspace"

// pyMesh pairs a mesh with the script runner that keeps its names bound across RunScript calls.
type pyMesh struct {
	*libmesh.Mesh
	runner *mesh_script.Runner
}

func (X *pyMesh) Type() *py.Type {
	return pyMeshType
}

func (X *pyMesh) M__str__() (py.Object, error) {
	if X.Mesh == nil {
		return py.String("Mesh { reclaimed }"), nil
	}
	return py.String(X.String()), nil
}

func (X *pyMesh) M__repr__() (py.Object, error) {
	return X.M__str__()
}

type pyPoint struct {
	hemesh.PointHandle
}

func (X pyPoint) Type() *py.Type {
	return pyPointType
}

func (X pyPoint) M__str__() (py.Object, error) {
	return py.String(X.String()), nil
}

func (X pyPoint) M__repr__() (py.Object, error) {
	return X.M__str__()
}

type pyFace struct {
	hemesh.FaceHandle
}

func (X pyFace) Type() *py.Type {
	return pyFaceType
}

func (X pyFace) M__str__() (py.Object, error) {
	return py.String(X.String()), nil
}

func (X pyFace) M__repr__() (py.Object, error) {
	return X.M__str__()
}

type Workspace struct {
	meshes []*pyMesh
}

func (ws *Workspace) Type() *py.Type {
	return pyWorkspaceType
}

func (ws *Workspace) Close() {
	for _, X := range ws.meshes {
		X.reclaim()
	}
	klog.V(2).Infof("_pymesh: reclaimed %d meshes", len(ws.meshes))
	ws.meshes = nil
}

func getWorkspace(module py.Object) *Workspace {
	wsObj, _ := py.GetAttrString(module, kWorkspaceAttr)
	if wsObj == nil {
		wsObj = &Workspace{}
		py.SetAttrString(module, kWorkspaceAttr, wsObj)
	}
	return wsObj.(*Workspace)
}

func (X *pyMesh) reclaim() {
	if X.Mesh != nil {
		X.Mesh.Reclaim()
		X.Mesh = nil
		X.runner = nil
	}
}

func getMesh(self py.Object) (*pyMesh, error) {
	X := self.(*pyMesh)
	if X.Mesh == nil {
		return nil, py.ExceptionNewf(py.RuntimeError, "mesh was reclaimed")
	}
	return X, nil
}

func getPoint(obj py.Object) (hemesh.PointHandle, error) {
	pt, ok := obj.(pyPoint)
	if !ok {
		return hemesh.PointHandle{}, py.ExceptionNewf(py.TypeError, "expected Point object (got %v)", obj.Type().Name)
	}
	return pt.PointHandle, nil
}

func getFace(obj py.Object) (hemesh.FaceHandle, error) {
	face, ok := obj.(pyFace)
	if !ok {
		return hemesh.FaceHandle{}, py.ExceptionNewf(py.TypeError, "expected Face object (got %v)", obj.Type().Name)
	}
	return face.FaceHandle, nil
}

func py_NewMesh(module py.Object, args py.Tuple) (py.Object, error) {
	m := libmesh.NewMesh(nil)
	X := &pyMesh{
		Mesh:   m,
		runner: mesh_script.NewRunner(m, nil),
	}
	ws := getWorkspace(module)
	ws.meshes = append(ws.meshes, X)
	return X, nil
}

// Args: x, y, z (int or float)
func py_Mesh_AddPoint(self py.Object, args py.Tuple) (py.Object, error) {
	X, err := getMesh(self)
	if err != nil {
		return nil, err
	}
	if len(args) != 3 {
		return nil, py.ExceptionNewf(py.TypeError, "AddPoint takes x, y, z (got %d args)", len(args))
	}
	var xyz [3]float32
	for i, arg := range args {
		f, err := py.FloatAsFloat64(arg)
		if err != nil {
			return nil, err
		}
		xyz[i] = float32(f)
	}
	return pyPoint{X.AddPoint(xyz[0], xyz[1], xyz[2])}, nil
}

// Args: three or more Points, in winding order
func py_Mesh_AddFace(self py.Object, args py.Tuple) (py.Object, error) {
	X, err := getMesh(self)
	if err != nil {
		return nil, err
	}
	if len(args) < 3 {
		return nil, py.ExceptionNewf(py.ValueError, "a face needs 3 or more points (got %d)", len(args))
	}
	pts := make([]hemesh.PointHandle, len(args))
	for i, arg := range args {
		if pts[i], err = getPoint(arg); err != nil {
			return nil, err
		}
		if !X.Point(pts[i]).IsValid() {
			return nil, py.ExceptionNewf(py.ValueError, "%v is not a point of this mesh", pts[i])
		}
	}
	return pyFace{X.AddFace(pts)}, nil
}

func py_Mesh_RemoveFace(self py.Object, args py.Tuple) (py.Object, error) {
	X, err := getMesh(self)
	if err != nil {
		return nil, err
	}
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "RemoveFace takes one Face")
	}
	face, err := getFace(args[0])
	if err != nil {
		return nil, err
	}
	return py.NewBool(X.DetachFace(face)), nil
}

func py_Mesh_Defrag(self py.Object, args py.Tuple) (py.Object, error) {
	X, err := getMesh(self)
	if err != nil {
		return nil, err
	}
	st := X.runner.Defrag()
	return py.Int(st.Total()), nil
}

func py_Mesh_Counts(self py.Object, args py.Tuple) (py.Object, error) {
	X, err := getMesh(self)
	if err != nil {
		return nil, err
	}
	return py.Tuple{
		py.Int(X.PointCount()),
		py.Int(X.VertexCount()),
		py.Int(X.EdgeCount()),
		py.Int(X.FaceCount()),
	}, nil
}

func py_Mesh_FaceVertices(self py.Object, args py.Tuple) (py.Object, error) {
	X, err := getMesh(self)
	if err != nil {
		return nil, err
	}
	if len(args) != 1 {
		return nil, py.ExceptionNewf(py.TypeError, "FaceVertices takes one Face")
	}
	h, err := getFace(args[0])
	if err != nil {
		return nil, err
	}
	face := X.Face(h)
	if !face.IsValid() {
		return nil, py.ExceptionNewf(py.ValueError, "%v is not a face of this mesh", h)
	}

	verts := face.Vertices().All()
	out := make(py.Tuple, len(verts))
	for i, vtx := range verts {
		pos := vtx.Point().Position()
		out[i] = py.Tuple{py.Float(pos[0]), py.Float(pos[1]), py.Float(pos[2])}
	}
	return out, nil
}

// Arg 1 (str): script source, see mesh_script.Script
func py_Mesh_RunScript(self py.Object, args py.Tuple) (py.Object, error) {
	X, err := getMesh(self)
	if err != nil {
		return nil, err
	}
	var src string
	if err = py.LoadTuple(args, []interface{}{&src}); err != nil {
		return nil, err
	}
	if err = X.runner.Run(src); err != nil {
		return nil, py.ExceptionNewf(py.ValueError, "%v", err)
	}
	return py.None, nil
}

// Returns a tuple of problem descriptions, empty when the mesh is sound.
func py_Mesh_Check(self py.Object, args py.Tuple) (py.Object, error) {
	X, err := getMesh(self)
	if err != nil {
		return nil, err
	}
	problems := query.Problems(X.Mesh, 0)
	out := make(py.Tuple, len(problems))
	for i, err := range problems {
		out[i] = py.String(err.Error())
	}
	return out, nil
}

func py_Mesh_Reclaim(self py.Object, args py.Tuple) (py.Object, error) {
	self.(*pyMesh).reclaim()
	return py.None, nil
}

// RunSrc compiles src as a whole module, every statement of it, and runs it in inModule (nil for a new module).
func RunSrc(ctx py.Context, src, srcDesc string, inModule interface{}) (*py.Module, error) {
	code, err := py.Compile(src, srcDesc, py.ExecMode, 0, true)
	if err != nil {
		return nil, err
	}
	return py.RunCode(ctx, code, srcDesc, inModule)
}

// ReplStartup is run in a new REPL's module so a mesh is at hand straight away.
const ReplStartup = `
import _pymesh
m = _pymesh.NewMesh()
print("_pymesh", _pymesh.LIB_VERSION, "(m is an empty Mesh)")
`

func init() {

	/////////////////////////////////
	// Mesh
	{
		pyMeshType.Dict["AddPoint"] = py.MustNewMethod("AddPoint", py_Mesh_AddPoint, 0, "adds a point at x, y, z and returns it")
		pyMeshType.Dict["AddFace"] = py.MustNewMethod("AddFace", py_Mesh_AddFace, 0, "adds a face over the given points on fresh vertices")
		pyMeshType.Dict["RemoveFace"] = py.MustNewMethod("RemoveFace", py_Mesh_RemoveFace, 0, "detaches a face, leaving its edges")
		pyMeshType.Dict["Defrag"] = py.MustNewMethod("Defrag", py_Mesh_Defrag, 0, "compacts the mesh and returns the number of slots reclaimed (Point and Face objects from before go stale)")
		pyMeshType.Dict["Counts"] = py.MustNewMethod("Counts", py_Mesh_Counts, 0, "returns (points, vertices, edges, faces)")
		pyMeshType.Dict["FaceVertices"] = py.MustNewMethod("FaceVertices", py_Mesh_FaceVertices, 0, "returns the (x, y, z) of each corner of a face")
		pyMeshType.Dict["RunScript"] = py.MustNewMethod("RunScript", py_Mesh_RunScript, 0, "runs mesh script statements against this mesh")
		pyMeshType.Dict["Check"] = py.MustNewMethod("Check", py_Mesh_Check, 0, "")
		pyMeshType.Dict["Reclaim"] = py.MustNewMethod("Reclaim", py_Mesh_Reclaim, 0, "")
	}

	{
		methods := []*py.Method{
			py.MustNewMethod("NewMesh", py_NewMesh, 0, ""),
		}

		globals := py.StringDict{
			"LIB_VERSION": py.String(LIB_VERSION),
		}

		py.RegisterModule(&py.ModuleImpl{
			Info: py.ModuleInfo{
				Name: "_pymesh",
				Doc:  "half-edge mesh gpython module",
			},
			Methods: methods,
			Globals: globals,
			OnContextClosed: func(m *py.Module) {
				wsObj, _ := py.GetAttrString(m, kWorkspaceAttr)
				if wsObj != nil {
					wsObj.(*Workspace).Close()
				}
			},
		})
	}
}
