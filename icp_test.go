package lastfit

import (
	"testing"

	"github.com/kwv/lastfit/numerical"
	"github.com/stretchr/testify/assert"
)

func planarCloudWithNormals() PointCloud {
	pts := flatPointGrid()
	normals := make([]Coord3D, len(pts))
	for i := range normals {
		normals[i] = Coord3D{0, 0, 1}
	}
	return PointCloud{P: pts, N: normals}
}

func TestPointToPlaneICPRefinesSmallOffset(t *testing.T) {
	target := planarCloudWithNormals()

	offset := numerical.Translation4(0, 0, 0.05)
	sourcePts := make([]Coord3D, len(target.P))
	for i, p := range target.P {
		x, y, z := offset.Apply(p.X, p.Y, p.Z)
		sourcePts[i] = Coord3D{x, y, z}
	}
	source := PointCloud{P: sourcePts}

	refined, iterations, _ := PointToPlaneICP(source, target, numerical.Identity4(), ICPConfig{})
	assert.Greater(t, iterations, 0)

	var maxResidual float64
	for _, p := range source.P {
		x, y, z := refined.Apply(p.X, p.Y, p.Z)
		if d := z * z; d > maxResidual {
			maxResidual = d
		}
	}
	assert.Less(t, maxResidual, 0.01)
}

func TestPointToPlaneICPMismatchedNormalsFails(t *testing.T) {
	target := PointCloud{P: flatPointGrid()}
	source := PointCloud{P: flatPointGrid()}
	_, _, ok := PointToPlaneICP(source, target, numerical.Identity4(), ICPConfig{})
	assert.False(t, ok)
}

func TestDefaultICPConfigFillsZeroFields(t *testing.T) {
	cfg := ICPConfig{}.withDefaults()
	assert.Equal(t, DefaultICPConfig(), cfg)
}
