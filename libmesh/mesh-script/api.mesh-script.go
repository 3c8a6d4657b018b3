package mesh_script

import (
	"io"

	"github.com/alecthomas/participle/v2/lexer"
)

// A mesh script is a sequence of statements, one per line (or separated by ';'), '#' starts a comment:
//
//	point a -1 0 0          # a named point
//	face f a b c            # a face on fresh vertices
//	face g on f:1 d         # a face on the free twin of f's edge #1 (0 is the root edge)
//	fan w 6 1.5 closed      # generators: polygon <name> <sides> <radius>, fan <name> <n> <radius> [closed],
//	strip s 4 1 1           #             strip <name> <n> <width> <height>
//	face h on s[2]:0 a      # s[i] is the i-th face of a generated group
//	remove face f           # detach a face, its edges stay
//	remove edge f:1         # delete a faceless twin pair
//	remove point a
//	defrag
//	check
//	print
type Script struct {
	Stmts []*Stmt `parser:"( EOL | @@ )*"`
}

type Stmt struct {
	Pos lexer.Position

	Point    *PointStmt    `parser:"(   \"point\" @@"`
	Face     *FaceStmt     `parser:"  | \"face\" @@"`
	Generate *GenerateStmt `parser:"  | @@"`
	Remove   *RemoveStmt   `parser:"  | \"remove\" @@"`
	Defrag   bool          `parser:"  | @\"defrag\""`
	Check    bool          `parser:"  | @\"check\""`
	Print    bool          `parser:"  | @\"print\" )"`
}

type PointStmt struct {
	Name string  `parser:"@Ident"`
	X    float32 `parser:"@Number"`
	Y    float32 `parser:"@Number"`
	Z    float32 `parser:"@Number"`
}

type FaceStmt struct {
	Name   string   `parser:"@Ident"`
	On     *EdgeRef `parser:"( \"on\" @@ )?"`
	Points []string `parser:"@Ident*"`
}

type GenerateStmt struct {
	Kind   string    `parser:"@( \"polygon\" | \"fan\" | \"strip\" )"`
	Name   string    `parser:"@Ident"`
	Args   []float64 `parser:"@Number*"`
	Closed bool      `parser:"@\"closed\"?"`
}

type RemoveStmt struct {
	Face  *FaceRef `parser:"(   \"face\" @@"`
	Edge  *EdgeRef `parser:"  | \"edge\" @@"`
	Point string   `parser:"  | \"point\" @Ident )"`
}

// FaceRef names a face: the face itself or, with an index, one face of a generated group.
type FaceRef struct {
	Name  string `parser:"@Ident"`
	Index int    `parser:"( \"[\" @Number \"]\" )?"`
}

// EdgeRef names the half-edge found Index steps along a face's loop from its root edge.
type EdgeRef struct {
	Face  FaceRef `parser:"@@ \":\""`
	Index int     `parser:"@Number"`
}

// RunOpts specifies how a script is run.
type RunOpts struct {
	DefragAfter bool      // compact the mesh once the last statement has run
	Print       io.Writer // where "print" writes; nil means os.Stdout
}

var DefaultRunOpts = RunOpts{}
