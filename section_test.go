package lastfit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMeshSectionThroughCubeMidplane(t *testing.T) {
	m := unitCube()
	segments := MeshSection(m, Coord3D{0, 0, 0.5}, Coord3D{0, 0, 1})
	assert.NotEmpty(t, segments)
	for _, s := range segments {
		assert.InDelta(t, 0.5, s[0].Z, 1e-9)
		assert.InDelta(t, 0.5, s[1].Z, 1e-9)
	}
}

func TestMeshSectionMissingPlaneIsEmpty(t *testing.T) {
	m := unitCube()
	segments := MeshSection(m, Coord3D{0, 0, 10}, Coord3D{0, 0, 1})
	assert.Empty(t, segments)
}

func TestSimplifySectionReducesPointCount(t *testing.T) {
	path := []Segment{
		{{0, 0, 0}, {1, 0, 0}},
		{{1, 0, 0}, {2, 0.001, 0}},
		{{2, 0.001, 0}, {3, 0, 0}},
	}
	simplified := SimplifySection(path, 0.1)
	assert.LessOrEqual(t, len(simplified), len(path))
}

func TestSimplifySectionEmptyInput(t *testing.T) {
	assert.Empty(t, SimplifySection(nil, 0.1))
}
