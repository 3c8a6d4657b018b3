package mesh_script

import (
	"math"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/fine-structures/halfedge/hemesh"
	mesh_gen "github.com/fine-structures/halfedge/libmesh/mesh-gen"
	"github.com/pkg/errors"
)

var sScriptLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "comment", Pattern: `#[^\n]*`},
	{Name: "EOL", Pattern: `[\n;]+`},
	{Name: "Number", Pattern: `[-+]?(\d+\.?\d*|\.\d+)([eE][-+]?\d+)?`},
	{Name: "Ident", Pattern: `[A-Za-z_][A-Za-z0-9_]*`},
	{Name: "Punct", Pattern: `[\[\]:]`},
	{Name: "whitespace", Pattern: `[ \t\r]+`},
})

var sParseScript = participle.MustBuild[Script](
	participle.Lexer(sScriptLexer),
)

// ParseScript parses and validates a mesh script.  Errors wrap hemesh.ErrBadScript.
func ParseScript(src string) (*Script, error) {
	ast, err := sParseScript.ParseString("", src)
	if err != nil {
		return nil, errors.Wrap(hemesh.ErrBadScript, err.Error())
	}
	if err = ast.Validate(); err != nil {
		return nil, err
	}
	return ast, nil
}

func (script *Script) Validate() error {
	for _, stmt := range script.Stmts {
		if err := stmt.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (stmt *Stmt) Validate() error {
	switch {
	case stmt.Face != nil:
		face := stmt.Face
		if face.On == nil && len(face.Points) < 3 {
			return stmt.errorf("face %q needs 3 or more points, got %d", face.Name, len(face.Points))
		}
		if face.On != nil && len(face.Points) < 1 {
			return stmt.errorf("face %q on an edge needs 1 or more points", face.Name)
		}

	case stmt.Generate != nil:
		gen := stmt.Generate
		want := 2
		if gen.Kind == "strip" {
			want = 3
		}
		if len(gen.Args) != want {
			return stmt.errorf("%s %q takes %d numbers, got %d", gen.Kind, gen.Name, want, len(gen.Args))
		}
		if gen.Closed && gen.Kind != "fan" {
			return stmt.errorf("only a fan can be closed")
		}
		if count := gen.Args[0]; count != math.Trunc(count) || count < 1 || count > mesh_gen.MaxCount {
			return stmt.errorf("%s %q: count must be a whole number from 1 to %d, got %v", gen.Kind, gen.Name, mesh_gen.MaxCount, count)
		}
	}
	return nil
}

func (stmt *Stmt) errorf(format string, args ...interface{}) error {
	return errors.Wrapf(hemesh.ErrBadScript, "line %d: "+format, append([]interface{}{stmt.Pos.Line}, args...)...)
}
