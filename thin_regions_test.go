package lastfit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestThinnestPointFindsMinimumClearance(t *testing.T) {
	target := unitCube()
	candidate := scaledCube(1.5)
	result := ThinnestPoint(target, candidate)
	assert.True(t, result.Found)
	assert.GreaterOrEqual(t, result.Clearance, 0.0)
}

// TestThinnestPointFoundFalseWhenNoVertexInterior exercises the spec's
// {found=false} requirement: every target vertex lies outside a candidate
// much smaller than it, so none is eligible and Found must be false.
func TestThinnestPointFoundFalseWhenNoVertexInterior(t *testing.T) {
	target := unitCube()
	candidate := scaledCube(0.1)
	result := ThinnestPoint(target, candidate)
	assert.False(t, result.Found)
}

// TestThinRegionsExcludesExteriorVertices guards against substituting 0 for
// exterior vertices' clearance: a candidate that does not enclose target at
// all has every target vertex exterior, so no vertex can register as thin
// regardless of thrMM.
func TestThinRegionsExcludesExteriorVertices(t *testing.T) {
	target := unitCube()
	candidate := scaledCube(0.1)
	regions := ThinRegions(target, candidate, 100.0, 0.5)
	assert.Empty(t, regions)
}

func TestClearanceHeatmapIsNormalized(t *testing.T) {
	target := unitCube()
	candidate := scaledCube(2.0)
	heat := ClearanceHeatmap(target, candidate)
	assert.Len(t, heat, len(target.V))
	for _, h := range heat {
		assert.GreaterOrEqual(t, h, 0.0)
		assert.LessOrEqual(t, h, 1.0)
	}
}

func TestThinRegionsEmptyWhenNoneThin(t *testing.T) {
	target := unitCube()
	candidate := scaledCube(10.0)
	regions := ThinRegions(target, candidate, 0.001, 0.5)
	assert.Empty(t, regions)
}

func TestThinRegionsClustersAndLabels(t *testing.T) {
	target := unitCube()
	candidate := scaledCube(1.01)
	regions := ThinRegions(target, candidate, 1.0, 2.0)
	if assert.NotEmpty(t, regions) {
		for _, r := range regions {
			assert.NotEmpty(t, r.Label)
		}
	}
}

func TestPCAEndpointsSinglePoint(t *testing.T) {
	p := Coord3D{1, 2, 3}
	a, b := pcaEndpoints([]Coord3D{p})
	assert.Equal(t, p, a)
	assert.Equal(t, p, b)
}
