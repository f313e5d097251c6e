package lastfit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func flatPointGrid() []Coord3D {
	pts := make([]Coord3D, 0, 49)
	for x := -3; x <= 3; x++ {
		for y := -3; y <= 3; y++ {
			pts = append(pts, Coord3D{float64(x) * 0.1, float64(y) * 0.1, 0})
		}
	}
	return pts
}

func TestEstimateNormalsOnFlatPlaneIsAxisAligned(t *testing.T) {
	pts := flatPointGrid()
	normals := EstimateNormals(pts, 0.25)
	center := normals[len(normals)/2]
	assert.InDelta(t, 0.0, center.X, 1e-6)
	assert.InDelta(t, 0.0, center.Y, 1e-6)
	assert.InDelta(t, 1.0, center.Z*center.Z, 1e-6)
}

func TestEstimateNormalsSparseNeighborhoodIsZero(t *testing.T) {
	pts := []Coord3D{{0, 0, 0}, {100, 100, 100}}
	normals := EstimateNormals(pts, 0.1)
	assert.Equal(t, Coord3D{}, normals[0])
}

func TestComputeFPFHShapeAndSelfConsistency(t *testing.T) {
	pts := flatPointGrid()
	normals := EstimateNormals(pts, 0.25)
	feats := ComputeFPFH(pts, normals, 0.25)
	assert.Len(t, feats, len(pts))
	for _, f := range feats {
		assert.Len(t, f, 33)
	}
}
