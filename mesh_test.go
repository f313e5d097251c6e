package lastfit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func tetrahedron() (v []Coord3D, f [][3]int32) {
	v = []Coord3D{
		{0, 0, 0},
		{1, 0, 0},
		{0, 1, 0},
		{0, 0, 1},
	}
	f = [][3]int32{
		{0, 2, 1},
		{0, 1, 3},
		{0, 3, 2},
		{1, 2, 3},
	}
	return
}

func TestCleanupRejectsOutOfRangeIndex(t *testing.T) {
	v, f := tetrahedron()
	f = append(f, [3]int32{0, 1, 99})
	_, err := Cleanup(v, f)
	assert.Error(t, err)
}

func TestCleanDropsDegenerateTriangles(t *testing.T) {
	v, f := tetrahedron()
	f = append(f, [3]int32{0, 0, 1})
	m := NewMesh(v, f).Clean()
	assert.Len(t, m.F, 4)
}

func TestCleanMergesCoincidentVertices(t *testing.T) {
	v, f := tetrahedron()
	v = append(v, v[0])
	f = append(f, [3]int32{4, 1, 2})
	m := NewMesh(v, f).Clean()
	assert.Len(t, m.V, 4)
}

func TestCleanDropsUnreferencedVertices(t *testing.T) {
	v, f := tetrahedron()
	v = append(v, Coord3D{9, 9, 9})
	m := NewMesh(v, f).Clean()
	assert.Len(t, m.V, 4)
	for _, c := range m.V {
		assert.NotEqual(t, Coord3D{9, 9, 9}, c)
	}
	for _, tri := range m.F {
		for _, idx := range tri {
			assert.Less(t, int(idx), len(m.V))
		}
	}
}

func TestCleanDropsWindingReversedDuplicateTriangle(t *testing.T) {
	v, f := tetrahedron()
	reversed := [3]int32{f[0][0], f[0][2], f[0][1]}
	f = append(f, reversed)
	m := NewMesh(v, f).Clean()
	assert.Len(t, m.F, 4)
}

// TestCleanIsIdempotent exercises property 1: cleaning an already-clean
// mesh is a no-op.
func TestCleanIsIdempotent(t *testing.T) {
	v, f := tetrahedron()
	once := NewMesh(v, f).Clean()
	twice := once.Clean()
	assert.Equal(t, once.V, twice.V)
	assert.Equal(t, once.F, twice.F)
}

func TestMeshAreaOfUnitTriangle(t *testing.T) {
	m := NewMesh([]Coord3D{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, [][3]int32{{0, 1, 2}})
	assert.InDelta(t, 0.5, m.Area(0), 1e-12)
}

func TestMeshBounds(t *testing.T) {
	v, f := tetrahedron()
	m := NewMesh(v, f)
	min, max := m.Bounds()
	assert.Equal(t, Coord3D{0, 0, 0}, min)
	assert.Equal(t, Coord3D{1, 1, 1}, max)
}
