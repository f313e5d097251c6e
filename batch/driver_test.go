package batch

import (
	"testing"

	lastfit "github.com/kwv/lastfit"
	"github.com/stretchr/testify/assert"
)

func unitCubeMesh() *lastfit.Mesh {
	v := []lastfit.Coord3D{
		{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0},
		{0, 0, 1}, {1, 0, 1}, {1, 1, 1}, {0, 1, 1},
	}
	f := [][3]int32{
		{0, 1, 2}, {0, 2, 3},
		{4, 6, 5}, {4, 7, 6},
		{0, 4, 5}, {0, 5, 1},
		{1, 5, 6}, {1, 6, 2},
		{2, 6, 7}, {2, 7, 3},
		{3, 7, 4}, {3, 4, 0},
	}
	return lastfit.NewMesh(v, f)
}

func scaledCubeMesh(scale float64) *lastfit.Mesh {
	base := unitCubeMesh()
	v := make([]lastfit.Coord3D, len(base.V))
	center := lastfit.Coord3D{X: 0.5, Y: 0.5, Z: 0.5}
	for i, p := range base.V {
		v[i] = p.Sub(center).Scale(scale).Add(center)
	}
	return lastfit.NewMesh(v, base.F)
}

// TestBatchAlignAndCheckPreservesOutputOrder exercises property 12: output
// order matches the input candidates slice regardless of completion order.
func TestBatchAlignAndCheckPreservesOutputOrder(t *testing.T) {
	target := unitCubeMesh()
	candidates := []*lastfit.Mesh{
		scaledCubeMesh(2.0),
		scaledCubeMesh(3.0),
		scaledCubeMesh(1.5),
	}
	params := Params{
		RANSAC:  lastfit.RANSACConfig{Iterations: 20},
		ICP:     lastfit.ICPConfig{MaxIterations: 3},
		Samples: 50,
	}
	records := BatchAlignAndCheck(target, candidates, params)
	assert.Len(t, records, 3)
	for i, r := range records {
		assert.Equal(t, i, r.Index)
	}
}

// TestBatchAlignAndCheckIsolatesFailures exercises property 13: a bad
// candidate's failure never propagates to sibling records.
func TestBatchAlignAndCheckIsolatesFailures(t *testing.T) {
	target := unitCubeMesh()
	candidates := []*lastfit.Mesh{
		scaledCubeMesh(2.0),
		lastfit.NewMesh(nil, nil),
		scaledCubeMesh(2.0),
	}
	params := Params{
		RANSAC:  lastfit.RANSACConfig{Iterations: 10},
		ICP:     lastfit.ICPConfig{MaxIterations: 2},
		Samples: 20,
	}
	records := BatchAlignAndCheck(target, candidates, params)
	assert.NotEmpty(t, records[1].Err)
	assert.False(t, records[1].Pass)
	assert.Empty(t, records[0].Err)
	assert.Empty(t, records[2].Err)
}

func TestBatchFormalCheckUsesVoxelEvaluator(t *testing.T) {
	target := unitCubeMesh()
	candidates := []*lastfit.Mesh{scaledCubeMesh(3.0)}
	params := Params{
		RANSAC: lastfit.RANSACConfig{Iterations: 10},
		ICP:    lastfit.ICPConfig{MaxIterations: 2},
		Voxel:  0.3,
		Band:   0.8,
	}
	records := BatchFormalCheck(target, candidates, params)
	assert.Len(t, records, 1)
	assert.Greater(t, records[0].Voxel.VoxelsTested, 0)
}
