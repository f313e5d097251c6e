package lastfit

import (
	"math"
	"math/rand"

	"github.com/dhconnelly/rtreego"
	"github.com/kwv/lastfit/numerical"
)

// RANSACConfig controls CoarseRegister. Zero-value fields fall back to
// DefaultRANSACConfig's values, the same zero-value-means-default shape
// model3d.SolidSurfaceEstimator uses for its own config struct.
type RANSACConfig struct {
	Iterations         int
	InlierThreshold    float64
	EdgeRatioTolerance float64
	FeatureCandidates  int
}

// DefaultRANSACConfig returns the recommended defaults.
func DefaultRANSACConfig() RANSACConfig {
	return RANSACConfig{
		Iterations:         2000,
		InlierThreshold:    1.0,
		EdgeRatioTolerance: 0.1,
		FeatureCandidates:  8,
	}
}

func (cfg RANSACConfig) withDefaults() RANSACConfig {
	d := DefaultRANSACConfig()
	if cfg.Iterations <= 0 {
		cfg.Iterations = d.Iterations
	}
	if cfg.InlierThreshold <= 0 {
		cfg.InlierThreshold = d.InlierThreshold
	}
	if cfg.EdgeRatioTolerance <= 0 {
		cfg.EdgeRatioTolerance = d.EdgeRatioTolerance
	}
	if cfg.FeatureCandidates <= 0 {
		cfg.FeatureCandidates = d.FeatureCandidates
	}
	return cfg
}

// CoarseRegister finds a rigid transform aligning source onto target via
// FPFH-feature-guided RANSAC: each iteration picks 4 random source points,
// finds their nearest-feature matches in target, checks pairwise edge-length
// consistency between the two 4-point sets before ever estimating a
// transform, fits a rigid transform to the 4 correspondences by the
// Kabsch/SVD method, and scores it by counting source points whose
// transformed position lands within InlierThreshold of some target point.
// The highest-scoring transform across all iterations is returned.
func CoarseRegister(source, target PointCloud, cfg RANSACConfig) Transform {
	cfg = cfg.withDefaults()
	if len(source.P) < 4 || len(target.P) < 4 {
		return numerical.Identity4()
	}

	rng := rand.New(rand.NewSource(DeterministicSeed))
	targetTree, _ := buildPointTree(target.P)

	best := numerical.Identity4()
	bestScore := -1

	for iter := 0; iter < cfg.Iterations; iter++ {
		srcIdx := sampleDistinct4(rng, len(source.P))
		tgtIdx, ok := matchByFeature(source.F, srcIdx, target.F, cfg.FeatureCandidates, rng)
		if !ok {
			continue
		}
		if !edgeLengthsConsistent(source.P, srcIdx, target.P, tgtIdx, cfg.EdgeRatioTolerance) {
			continue
		}

		t, ok := rigidFromCorrespondences(source.P, srcIdx, target.P, tgtIdx)
		if !ok {
			continue
		}

		score := countInliers(source.P, t, targetTree, cfg.InlierThreshold)
		if score > bestScore {
			bestScore = score
			best = t
		}
	}
	return best
}

func sampleDistinct4(rng *rand.Rand, n int) [4]int {
	var out [4]int
	seen := map[int]bool{}
	i := 0
	for i < 4 {
		v := rng.Intn(n)
		if seen[v] {
			continue
		}
		seen[v] = true
		out[i] = v
		i++
	}
	return out
}

// matchByFeature finds, for each of the 4 sampled source indices, the target
// index with the closest FPFH descriptor among a random subset of
// candidates (keeps each RANSAC iteration cheap on large clouds). It does not
// match by position: when target has no feature descriptors it reports no
// match, so CoarseRegister returns the identity; when source has none, every
// candidate scores 0 and the first one drawn is taken.
func matchByFeature(srcFeat [][33]float64, srcIdx [4]int, tgtFeat [][33]float64, candidates int, rng *rand.Rand) ([4]int, bool) {
	if len(tgtFeat) == 0 {
		return [4]int{}, false
	}
	var out [4]int
	for i, si := range srcIdx {
		best := -1
		bestDist := math.Inf(1)
		for c := 0; c < candidates; c++ {
			tj := rng.Intn(len(tgtFeat))
			var d float64
			if si < len(srcFeat) {
				d = featureDistance(srcFeat[si], tgtFeat[tj])
			}
			if d < bestDist {
				bestDist = d
				best = tj
			}
		}
		if best == -1 {
			return [4]int{}, false
		}
		out[i] = best
	}
	return out, true
}

func featureDistance(a, b [33]float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}

func edgeLengthsConsistent(srcP []Coord3D, srcIdx [4]int, tgtP []Coord3D, tgtIdx [4]int, tolerance float64) bool {
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			srcLen := srcP[srcIdx[i]].Dist(srcP[srcIdx[j]])
			tgtLen := tgtP[tgtIdx[i]].Dist(tgtP[tgtIdx[j]])
			if srcLen < 1e-9 || tgtLen < 1e-9 {
				return false
			}
			ratio := srcLen / tgtLen
			if math.Abs(ratio-1) > tolerance {
				return false
			}
		}
	}
	return true
}

func rigidFromCorrespondences(srcP []Coord3D, srcIdx [4]int, tgtP []Coord3D, tgtIdx [4]int) (Transform, bool) {
	var srcMean, tgtMean Coord3D
	for i := 0; i < 4; i++ {
		srcMean = srcMean.Add(srcP[srcIdx[i]])
		tgtMean = tgtMean.Add(tgtP[tgtIdx[i]])
	}
	srcMean = srcMean.Scale(0.25)
	tgtMean = tgtMean.Scale(0.25)

	var cov [9]float64
	for i := 0; i < 4; i++ {
		s := srcP[srcIdx[i]].Sub(srcMean)
		d := tgtP[tgtIdx[i]].Sub(tgtMean)
		cov[0] += s.X * d.X
		cov[1] += s.X * d.Y
		cov[2] += s.X * d.Z
		cov[3] += s.Y * d.X
		cov[4] += s.Y * d.Y
		cov[5] += s.Y * d.Z
		cov[6] += s.Z * d.X
		cov[7] += s.Z * d.Y
		cov[8] += s.Z * d.Z
	}

	r := numerical.KabschRotation(cov)
	rotatedMean := applyRotation3(r, srcMean)
	t := tgtMean.Sub(rotatedMean)
	return numerical.FromRotationTranslation(r, t.Array()), true
}

func applyRotation3(r [9]float64, v Coord3D) Coord3D {
	return Coord3D{
		r[0]*v.X + r[1]*v.Y + r[2]*v.Z,
		r[3]*v.X + r[4]*v.Y + r[5]*v.Z,
		r[6]*v.X + r[7]*v.Y + r[8]*v.Z,
	}
}

func countInliers(srcP []Coord3D, t Transform, targetTree *rtreego.Rtree, threshold float64) int {
	count := 0
	for _, p := range srcP {
		x, y, z := t.Apply(p.X, p.Y, p.Z)
		results := targetTree.NearestNeighbors(1, rtreego.Point{x, y, z})
		if len(results) == 0 {
			continue
		}
		ps := results[0].(*pointSpatial)
		if (Coord3D{x, y, z}).Dist(ps.p) <= threshold {
			count++
		}
	}
	return count
}
