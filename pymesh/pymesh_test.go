package pymesh

import (
	"testing"

	"github.com/go-python/gpython/py"
	_ "github.com/go-python/gpython/stdlib"
	"github.com/stretchr/testify/require"
)

const kSessionSrc = `
import _pymesh

m = _pymesh.NewMesh()
a = m.AddPoint(-1, 0, 0)
b = m.AddPoint(1, 0, 0)
c = m.AddPoint(0, 1.5, 0)
f = m.AddFace(a, b, c)
counts = m.Counts()
verts = m.FaceVertices(f)
problems = m.Check()

try:
    m.AddFace(a, b)
    tooFew = False
except ValueError:
    tooFew = True

try:
    m.RunScript("face q a b")
    badScript = False
except ValueError:
    badScript = True

m.RunScript("point d 2 1 0\nfan w 4 1")
counts2 = m.Counts()
removed = m.RemoveFace(f)
removedAgain = m.RemoveFace(f)
reclaimed = m.Defrag()
text = str(m)
version = _pymesh.LIB_VERSION
`

func runSession(t *testing.T, src string) (*py.Module, py.Context) {
	ctx := py.NewContext(py.DefaultContextOpts())
	module, err := RunSrc(ctx, src, "<session>", nil)
	if err != nil {
		py.TracebackDump(err)
	}
	require.NoError(t, err)
	return module, ctx
}

func TestSession(t *testing.T) {
	module, ctx := runSession(t, kSessionSrc)
	defer ctx.Close()

	g := module.Globals
	require.Equal(t, py.Tuple{py.Int(3), py.Int(3), py.Int(6), py.Int(1)}, g["counts"])
	require.Equal(t, py.Tuple{
		py.Tuple{py.Float(-1), py.Float(0), py.Float(0)},
		py.Tuple{py.Float(1), py.Float(0), py.Float(0)},
		py.Tuple{py.Float(0), py.Float(1.5), py.Float(0)},
	}, g["verts"])
	require.Equal(t, py.Tuple{}, g["problems"])
	require.Equal(t, py.True, g["tooFew"])
	require.Equal(t, py.True, g["badScript"])

	// a 4 triangle open fan adds 6 points and 18 edges
	require.Equal(t, py.Tuple{py.Int(10), py.Int(9), py.Int(24), py.Int(5)}, g["counts2"])
	require.Equal(t, py.True, g["removed"])
	require.Equal(t, py.False, g["removedAgain"])
	require.Equal(t, py.Int(1), g["reclaimed"])
	require.Equal(t, py.String("Mesh { 10 points, 9 vertices, 24 edges, 4 faces }"), g["text"])
	require.Equal(t, py.String(LIB_VERSION), g["version"])
}

func TestContextCloseReclaims(t *testing.T) {
	module, ctx := runSession(t, "import _pymesh\nm = _pymesh.NewMesh()\nm.AddPoint(1, 2, 3)\n")
	X := module.Globals["m"].(*pyMesh)
	require.NotNil(t, X.Mesh)

	ctx.Close()
	<-ctx.Done()
	require.Nil(t, X.Mesh)

	str, err := X.M__str__()
	require.NoError(t, err)
	require.Equal(t, py.String("Mesh { reclaimed }"), str)

	_, err = py_Mesh_Counts(X, nil)
	require.Error(t, err)
}

func TestBadArguments(t *testing.T) {
	module, ctx := runSession(t, `
import _pymesh
m = _pymesh.NewMesh()
a = m.AddPoint(0, 0, 0)

errs = []
for call in (lambda: m.AddPoint(1, 2), lambda: m.AddFace(a, a, 7), lambda: m.RemoveFace(a)):
    try:
        call()
    except TypeError:
        errs.append("TypeError")
`)
	defer ctx.Close()

	errs := module.Globals["errs"].(*py.List)
	require.Len(t, errs.Items, 3)
}

func TestRunSrcRunsEveryStatement(t *testing.T) {
	module, ctx := runSession(t, "x = 1\ny = 2\nz = x + y\n")
	defer ctx.Close()

	require.Equal(t, py.Int(2), module.Globals["y"])
	require.Equal(t, py.Int(3), module.Globals["z"])
}

func TestReplStartup(t *testing.T) {
	module, ctx := runSession(t, ReplStartup)
	defer ctx.Close()

	X, ok := module.Globals["m"].(*pyMesh)
	require.True(t, ok)
	require.Equal(t, "Mesh { 0 points, 0 vertices, 0 edges, 0 faces }", X.String())
}
