package gen

import (
	"math"

	"github.com/fine-structures/halfedge/hemesh"
	"github.com/fine-structures/halfedge/libmesh"
)

func ringPoint(m *libmesh.Mesh, center [3]float32, radius float32, i, n int) hemesh.PointHandle {
	theta := 2 * math.Pi * float64(i) / float64(n)
	return m.AddPoint(
		center[0]+radius*float32(math.Cos(theta)),
		center[1]+radius*float32(math.Sin(theta)),
		center[2],
	)
}

func (p Polygon) Build(m *libmesh.Mesh) ([]hemesh.FaceHandle, error) {
	if p.Sides < 3 || p.Sides > MaxCount {
		return nil, invalidArgs("polygon needs 3 to %d sides, got %d", MaxCount, p.Sides)
	}
	if !(p.Radius > 0) {
		return nil, invalidArgs("polygon radius must be positive, got %v", p.Radius)
	}

	pts := make([]hemesh.PointHandle, p.Sides)
	for i := range pts {
		pts[i] = ringPoint(m, p.Center, p.Radius, i, p.Sides)
	}
	return []hemesh.FaceHandle{m.AddFace(pts)}, nil
}

func (f Fan) Build(m *libmesh.Mesh) ([]hemesh.FaceHandle, error) {
	N := f.Triangles
	switch {
	case N < 1 || N > MaxCount:
		return nil, invalidArgs("fan needs 1 to %d triangles, got %d", MaxCount, N)
	case f.Closed && N < 3:
		return nil, invalidArgs("closed fan needs at least 3 triangles, got %d", N)
	case !(f.Radius > 0):
		return nil, invalidArgs("fan radius must be positive, got %v", f.Radius)
	}

	// an open fan spans a half turn so its two ends don't meet
	steps := N
	if !f.Closed {
		steps = 2 * N
	}

	c := m.AddPoint(f.Center[0], f.Center[1], f.Center[2])
	rim := make([]hemesh.PointHandle, N+1)
	for i := range rim {
		if i == N && f.Closed {
			rim[i] = rim[0]
		} else {
			rim[i] = ringPoint(m, f.Center, f.Radius, i, steps)
		}
	}

	faces := make([]hemesh.FaceHandle, 0, N)
	faces = append(faces, m.AddFace([]hemesh.PointHandle{rim[0], rim[1], c}))

	first := m.Face(faces[0]).RootEdge()
	closing := first.Prev().Adjacent() // c -> rim[0], still free
	spokeIn := first.Next()            // rim[1] -> c

	for i := 1; i < N; i++ {
		root := spokeIn.Adjacent().Handle // c -> rim[i]
		var face hemesh.FaceHandle
		if f.Closed && i == N-1 {
			face = m.AddFaceBridge(root, closing.Handle, nil)
		} else {
			face = m.AddFaceFromEdge(root, []hemesh.PointHandle{rim[i+1]})
		}
		faces = append(faces, face)
		spokeIn = m.Face(face).RootEdge().Prev()
	}
	return faces, nil
}

func (s Strip) Build(m *libmesh.Mesh) ([]hemesh.FaceHandle, error) {
	N := s.Triangles
	switch {
	case N < 1 || N > MaxCount:
		return nil, invalidArgs("strip needs 1 to %d triangles, got %d", MaxCount, N)
	case !(s.Width > 0) || !(s.Height > 0):
		return nil, invalidArgs("strip width and height must be positive, got %v x %v", s.Width, s.Height)
	}

	bottom := func(i int) hemesh.PointHandle { return m.AddPoint(float32(i)*s.Width, 0, 0) }
	top := func(i int) hemesh.PointHandle { return m.AddPoint(float32(i)*s.Width, s.Height, 0) }

	faces := make([]hemesh.FaceHandle, 0, N)
	faces = append(faces, m.AddFace([]hemesh.PointHandle{bottom(0), bottom(1), top(0)}))

	// the diagonal the next triangle is built on: b1 -> t0 to begin with
	shared := m.Face(faces[0]).RootEdge().Next()

	for i := 1; i < N; i++ {
		var pt hemesh.PointHandle
		if i%2 == 1 {
			pt = top((i + 1) / 2)
		} else {
			pt = bottom(i/2 + 1)
		}

		face := m.AddFaceFromEdge(shared.Adjacent().Handle, []hemesh.PointHandle{pt})
		faces = append(faces, face)

		// odd triangles point down and hand on their second edge, even ones their last
		root := m.Face(face).RootEdge()
		if i%2 == 1 {
			shared = root.Next()
		} else {
			shared = root.Prev()
		}
	}
	return faces, nil
}
