package lastfit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChamferDistanceOfIdenticalSetsIsZero(t *testing.T) {
	pts := flatPointGrid()
	assert.InDelta(t, 0.0, ChamferDistance(pts, pts), 1e-9)
}

func TestChamferDistanceIsSymmetric(t *testing.T) {
	a := flatPointGrid()
	b := make([]Coord3D, len(a))
	for i, p := range a {
		b[i] = p.Add(Coord3D{0, 0, 0.05})
	}
	assert.InDelta(t, ChamferDistance(a, b), ChamferDistance(b, a), 1e-12)
}

func TestChamferDistanceEmptyInput(t *testing.T) {
	assert.Equal(t, 0.0, ChamferDistance(nil, flatPointGrid()))
}
