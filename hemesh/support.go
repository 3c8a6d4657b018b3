package hemesh

import (
	"strconv"
)

// KindName returns a short label for element kind E ("pt", "vtx", "edge", "face").
func KindName[E any]() string {
	switch any((*E)(nil)).(type) {
	case *Point:
		return "pt"
	case *Vertex:
		return "vtx"
	case *HalfEdge:
		return "edge"
	case *Face:
		return "face"
	}
	return "elem"
}

// AppendTo appends a human readable form of h, e.g. "edge#12.3" (offset 12, generation 3) or "edge#12" when the generation is ignored.
func (h Handle[E]) AppendTo(buf []byte) []byte {
	buf = append(buf, KindName[E]()...)
	if !h.IsValid() {
		return append(buf, "#nil"...)
	}
	buf = append(buf, '#')
	buf = strconv.AppendUint(buf, uint64(h.offset), 10)
	if h.generation != GenerationAny {
		buf = append(buf, '.')
		buf = strconv.AppendUint(buf, uint64(h.generation), 10)
	}
	return buf
}

func (h Handle[E]) String() string {
	var scrap [24]byte
	return string(h.AppendTo(scrap[:0]))
}

func (pt Point) String() string {
	buf := make([]byte, 0, 48)
	buf = append(buf, '(')
	for i, xi := range pt.Position {
		if i > 0 {
			buf = append(buf, ", "...)
		}
		buf = strconv.AppendFloat(buf, float64(xi), 'g', -1, 32)
	}
	buf = append(buf, ')')
	return string(buf)
}
