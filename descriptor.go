package lastfit

import (
	"math"

	"github.com/kwv/lastfit/numerical"
)

const (
	thetaBins = 8
	phiBins   = 16
)

// CoarseDescriptor is a cheap, orientation-sensitive fingerprint of a mesh's
// overall shape, used to pre-filter or sanity-check candidates before the
// expensive registration pipeline runs.
type CoarseDescriptor struct {
	Volume          float64
	SurfaceArea     float64
	Extents         Coord3D
	NormalHistogram [thetaBins][phiBins]float64
}

// CoarseFeatures computes m's CoarseDescriptor: signed tetrahedron-sum
// volume (each triangle paired with the origin), triangle-area sum, AABB
// extents, and an 8x16 histogram of face-normal orientation binned by polar
// angle theta and azimuth phi, each bin counting triangles and the whole
// histogram normalized to sum to 1. All accumulations go through
// numerical.Accumulator (Kahan/Neumaier compensated summation), in the
// mesh's triangle order, so repeated calls on the same mesh give
// bitwise-identical results.
func CoarseFeatures(m *Mesh) CoarseDescriptor {
	var volumeAcc, areaAcc numerical.Accumulator
	var histAcc [thetaBins][phiBins]numerical.Accumulator

	for i := range m.F {
		a, b, c := m.Triangle(i)
		volumeAcc.Add(signedTetraVolume(a, b, c))
		areaAcc.Add(m.Area(i))

		n := m.Normal(i).Normalize()
		ti, pi := normalBin(n)
		histAcc[ti][pi].Add(1)
	}

	var hist [thetaBins][phiBins]float64
	var total numerical.Accumulator
	for i := 0; i < thetaBins; i++ {
		for j := 0; j < phiBins; j++ {
			hist[i][j] = histAcc[i][j].Sum()
			total.Add(hist[i][j])
		}
	}
	if sum := total.Sum(); sum > 0 {
		for i := 0; i < thetaBins; i++ {
			for j := 0; j < phiBins; j++ {
				hist[i][j] /= sum
			}
		}
	}

	min, max := m.Bounds()
	return CoarseDescriptor{
		Volume:          math.Abs(volumeAcc.Sum()),
		SurfaceArea:     areaAcc.Sum(),
		Extents:         max.Sub(min),
		NormalHistogram: hist,
	}
}

// signedTetraVolume returns the signed volume of the tetrahedron formed by
// triangle (a, b, c) and the origin; summing this over every triangle of a
// closed, consistently wound mesh gives its enclosed volume.
func signedTetraVolume(a, b, c Coord3D) float64 {
	return a.Dot(b.Cross(c)) / 6
}

// normalBin maps a unit normal to its (theta, phi) histogram cell: theta is
// the polar angle from +Z in [0, pi], phi is the azimuth in [-pi, pi].
func normalBin(n Coord3D) (thetaIdx, phiIdx int) {
	theta := math.Acos(clampFloat(n.Z, -1, 1))
	phi := math.Atan2(n.Y, n.X)

	thetaIdx = clampInt(int(theta/math.Pi*thetaBins), 0, thetaBins-1)
	phiIdx = clampInt(int((phi+math.Pi)/(2*math.Pi)*phiBins), 0, phiBins-1)
	return
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
