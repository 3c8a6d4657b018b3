package query

import (
	"encoding/binary"

	"github.com/dgraph-io/badger/v3"
	"github.com/fine-structures/halfedge/hemesh"
	"github.com/fine-structures/halfedge/libmesh"
)

// FaceSet remembers faces by the cycle of points around them and reports if an equivalent face was already added.
//
// Two faces are equivalent if they visit the same points in the same cyclic order, in either direction.
type FaceSet interface {

	// TryAdd adds the given face of m if no equivalent face is present.
	//
	// If an equivalent face already is in this FaceSet, this call has no effect and TryAdd() returns false.
	// Faces whose loop doesn't resolve are never added.
	//
	// After one or more calls to TryAdd(), call Close() for cleanup.
	TryAdd(m *libmesh.Mesh, face hemesh.FaceHandle) bool

	// Close removes all previously added items from this set.
	Close()
}

func NewFaceSet() FaceSet {
	return &faceSet{}
}

type faceSet struct {
	lsmSet
	cycle []hemesh.Offset
	key   []byte
}

func (fs *faceSet) TryAdd(m *libmesh.Mesh, face hemesh.FaceHandle) bool {
	fs.cycle = fs.cycle[:0]
	for _, vtx := range m.Face(face).Vertices().All() {
		fs.cycle = append(fs.cycle, vtx.Point().Handle.Offset())
	}
	if len(fs.cycle) == 0 {
		return false
	}
	fs.key = AppendCycleKey(fs.key[:0], fs.cycle)
	return fs.tryAdd(fs.key)
}

// AppendCycleKey appends a canonical encoding of a cyclic sequence of offsets: the rotation and direction
// that reads smallest, varint encoded.
func AppendCycleKey(dst []byte, cycle []hemesh.Offset) []byte {
	N := len(cycle)
	if N == 0 {
		return dst
	}

	bestStart, bestDir := 0, 1
	for start := 0; start < N; start++ {
		for _, dir := range [2]int{1, -1} {
			if compareRotations(cycle, start, dir, bestStart, bestDir) < 0 {
				bestStart, bestDir = start, dir
			}
		}
	}

	for i := 0; i < N; i++ {
		dst = binary.AppendUvarint(dst, uint64(cycle[(bestStart+N+i*bestDir%N)%N]))
	}
	return dst
}

func compareRotations(cycle []hemesh.Offset, startA, dirA, startB, dirB int) int {
	N := len(cycle)
	for i := 0; i < N; i++ {
		a := cycle[(startA+N+i*dirA%N)%N]
		b := cycle[(startB+N+i*dirB%N)%N]
		if a != b {
			if a < b {
				return -1
			}
			return 1
		}
	}
	return 0
}

// DuplicateFaces selects every face that is equivalent to an earlier face of m (see FaceSet).
func DuplicateFaces(m *libmesh.Mesh) *Selection[hemesh.Face] {
	set := NewFaceSet()
	defer set.Close()

	sel := NewSelection[hemesh.Face](Faces)
	for _, face := range m.Faces() {
		if !set.TryAdd(m, face.Handle) && face.RootEdge().IsValid() {
			sel.Add(face.Handle)
		}
	}
	return sel
}

type lsmSet struct {
	db *badger.DB
}

func (set *lsmSet) autoOpen() {
	if set.db == nil {
		dbOpts := badger.DefaultOptions("").WithInMemory(true)
		dbOpts.Logger = nil
		dbOpts.MetricsEnabled = false

		var err error
		set.db, err = badger.Open(dbOpts)
		if err != nil {
			panic(err)
		}
	}
}

func (set *lsmSet) tryAdd(key []byte) bool {
	set.autoOpen()

	txn := set.db.NewTransaction(true)
	defer txn.Commit()

	added := false
	_, err := txn.Get(key)
	if err == badger.ErrKeyNotFound {
		err = txn.Set(key, nil)
		added = true
	}
	if err != nil {
		panic(err)
	}

	return added
}

func (set *lsmSet) Close() {
	if set.db != nil {
		set.db.Close()
		set.db = nil
	}
}
