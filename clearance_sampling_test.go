package lastfit

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func scaledCube(scale float64) *Mesh {
	m := unitCube()
	v := make([]Coord3D, len(m.V))
	for i, p := range m.V {
		v[i] = p.Sub(Coord3D{0.5, 0.5, 0.5}).Scale(scale).Add(Coord3D{0.5, 0.5, 0.5})
	}
	return NewMesh(v, m.F)
}

func TestClearanceSamplingCandidateLargerThanTargetPasses(t *testing.T) {
	target := unitCube()
	candidate := scaledCube(2.0)
	report := ClearanceSampling(target, candidate, 0.1, 0, 100)
	assert.True(t, report.Pass)
	assert.Greater(t, report.MinClearance, 0.0)
}

func TestClearanceSamplingCandidateSmallerThanTargetFails(t *testing.T) {
	target := unitCube()
	candidate := scaledCube(0.5)
	report := ClearanceSampling(target, candidate, 0.05, 0, 100)
	assert.False(t, report.Pass)
}

func TestClearanceSamplingSafetyDeltaTightensThreshold(t *testing.T) {
	target := unitCube()
	candidate := scaledCube(1.2)
	loose := ClearanceSampling(target, candidate, 0.05, 0, 100)
	strict := ClearanceSampling(target, candidate, 0.05, 0.5, 100)
	assert.True(t, loose.Pass)
	assert.False(t, strict.Pass)
}

// TestClearanceSamplingIdenticalMeshFailsOnInsideRatio exercises property 4:
// a candidate identical to target has inside_ratio near 1.0 (surface
// samples sit right on the boundary, so occupancy is unreliable) but
// min_clearance near zero, so pass must be false regardless of inside_ratio.
func TestClearanceSamplingIdenticalMeshFailsOnMinClearance(t *testing.T) {
	target := unitCube()
	candidate := unitCube()
	report := ClearanceSampling(target, candidate, 0.1, 0, 200)
	assert.False(t, report.Pass)
}

// TestClearanceSamplingOutsideSamplesExcludedFromMean exercises the spec
// rule that only in=true samples contribute to min/mean/p01: a candidate
// that does not fully enclose target must report inside_ratio < 1 and must
// not have its mean dragged toward zero by substituted-zero outside samples.
func TestClearanceSamplingOutsideSamplesExcludedFromMean(t *testing.T) {
	target := unitCube()
	candidate := scaledCube(0.9)
	report := ClearanceSampling(target, candidate, 0.0, 0, 200)
	assert.Less(t, report.InsideRatio, 1.0)
	assert.False(t, report.Pass)
	if report.InsideRatio > 0 {
		assert.Greater(t, report.MeanClearance, 0.0)
	}
}
