package lastfit

import (
	"math"
	"math/rand"
)

// DeterministicSeed is the fixed PRNG seed used by every randomized routine
// in this package, so two runs over the same inputs always produce the same
// output (spec.md section 9's determinism requirement).
const DeterministicSeed = 1337

// SampleSurface draws k points uniformly over m's surface area, weighting
// each triangle's selection probability by its area via alias-free
// cumulative-weight sampling, then a uniform point inside the chosen
// triangle.
//
// Grounded on model3d.SolidSurfaceEstimator's per-call rand.New(rand.NewSource(...))
// convention (mbrukman-model3d/model3d/surface_estimator.go), generalized
// from normal-bisection sampling to straightforward area-weighted surface
// sampling.
func SampleSurface(m *Mesh, k int) []Coord3D {
	if len(m.F) == 0 || k <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(DeterministicSeed))

	cum := make([]float64, len(m.F))
	var total float64
	for i := range m.F {
		total += m.Area(i)
		cum[i] = total
	}

	out := make([]Coord3D, k)
	for i := 0; i < k; i++ {
		target := rng.Float64() * total
		idx := upperBound(cum, target)
		a, b, c := m.Triangle(idx)
		out[i] = uniformPointInTriangle(rng, a, b, c)
	}
	return out
}

func upperBound(cum []float64, target float64) int {
	lo, hi := 0, len(cum)-1
	for lo < hi {
		mid := (lo + hi) / 2
		if cum[mid] < target {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

func uniformPointInTriangle(rng *rand.Rand, a, b, c Coord3D) Coord3D {
	r1 := rng.Float64()
	r2 := rng.Float64()
	sqrtR1 := math.Sqrt(r1)
	u := 1 - sqrtR1
	v := sqrtR1 * (1 - r2)
	w := sqrtR1 * r2
	return a.Scale(u).Add(b.Scale(v)).Add(c.Scale(w))
}

type voxelKey struct{ x, y, z int64 }

// VoxelDownsample bins p into a grid of the given voxel size and replaces
// each non-empty voxel's points with their centroid, returning points in a
// deterministic order (ascending voxel key) independent of p's input order.
func VoxelDownsample(p []Coord3D, voxel float64) []Coord3D {
	if voxel <= 0 || len(p) == 0 {
		return append([]Coord3D(nil), p...)
	}

	sums := make(map[voxelKey]Coord3D)
	counts := make(map[voxelKey]int)
	keyOrder := make([]voxelKey, 0)

	for _, c := range p {
		key := voxelKey{
			x: int64(math.Floor(c.X / voxel)),
			y: int64(math.Floor(c.Y / voxel)),
			z: int64(math.Floor(c.Z / voxel)),
		}
		if counts[key] == 0 {
			keyOrder = append(keyOrder, key)
		}
		sums[key] = sums[key].Add(c)
		counts[key]++
	}

	sortVoxelKeys(keyOrder)

	out := make([]Coord3D, len(keyOrder))
	for i, key := range keyOrder {
		out[i] = sums[key].Scale(1 / float64(counts[key]))
	}
	return out
}

func sortVoxelKeys(keys []voxelKey) {
	// Simple insertion sort: downsampled voxel counts are small relative to
	// input point counts, so O(n^2) is not a concern here, and it keeps this
	// helper free of an extra sort.Slice closure allocation per call.
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && voxelKeyLess(keys[j], keys[j-1]); j-- {
			keys[j], keys[j-1] = keys[j-1], keys[j]
		}
	}
}

func voxelKeyLess(a, b voxelKey) bool {
	if a.x != b.x {
		return a.x < b.x
	}
	if a.y != b.y {
		return a.y < b.y
	}
	return a.z < b.z
}
