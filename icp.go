package lastfit

import (
	"math"

	"github.com/kwv/lastfit/numerical"
)

// ICPConfig controls PointToPlaneICP. Zero-value fields fall back to
// DefaultICPConfig's values.
type ICPConfig struct {
	MaxIterations     int
	CorrespondenceMax float64
	ConvergenceEps    float64
	Damping           float64
}

// DefaultICPConfig returns the recommended defaults.
func DefaultICPConfig() ICPConfig {
	return ICPConfig{
		MaxIterations:     50,
		CorrespondenceMax: 2.0,
		ConvergenceEps:    1e-7,
		Damping:           1e-8,
	}
}

func (cfg ICPConfig) withDefaults() ICPConfig {
	d := DefaultICPConfig()
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = d.MaxIterations
	}
	if cfg.CorrespondenceMax <= 0 {
		cfg.CorrespondenceMax = d.CorrespondenceMax
	}
	if cfg.ConvergenceEps <= 0 {
		cfg.ConvergenceEps = d.ConvergenceEps
	}
	if cfg.Damping <= 0 {
		cfg.Damping = d.Damping
	}
	return cfg
}

// PointToPlaneICP refines init by iterative closest-point registration with
// a point-to-plane error metric: each iteration finds nearest-neighbour
// correspondences in target (rejecting pairs farther apart than
// CorrespondenceMax), linearizes the point-to-plane residual about the
// current transform, and solves the resulting 6x6 normal equations via
// numerical.SolveNormal6 for an incremental twist, composing it onto the
// running transform. Returns the refined transform, the number of
// iterations actually run, and whether the change in mean squared residual
// between two iterations fell below ConvergenceEps before MaxIterations was
// exhausted.
//
// Grounded on model3d/dc.go's numerical.LeastSquares3 call pattern,
// generalized from a 3-unknown linear fit to the 6-unknown rigid-twist fit
// ICP needs.
func PointToPlaneICP(source, target PointCloud, init Transform, cfg ICPConfig) (Transform, int, bool) {
	cfg = cfg.withDefaults()
	if len(source.P) == 0 || len(target.P) == 0 || len(target.N) != len(target.P) {
		return init, 0, false
	}

	targetTree, _ := buildPointTree(target.P)
	current := init
	prevResidual := math.Inf(1)

	for iter := 0; iter < cfg.MaxIterations; iter++ {
		jac := make([][6]float64, 0, len(source.P))
		residual := make([]float64, 0, len(source.P))
		var sumSq numerical.Accumulator

		for _, p := range source.P {
			x, y, z := current.Apply(p.X, p.Y, p.Z)
			results := targetTree.NearestNeighbors(1, toRtreePoint(Coord3D{x, y, z}))
			if len(results) == 0 {
				continue
			}
			ps := results[0].(*pointSpatial)
			dist := Coord3D{x, y, z}.Dist(ps.p)
			if dist > cfg.CorrespondenceMax {
				continue
			}

			n := target.N[ps.idx]
			transformed := Coord3D{x, y, z}
			r := transformed.Sub(ps.p).Dot(n)

			cross := transformed.Cross(n)
			jac = append(jac, [6]float64{cross.X, cross.Y, cross.Z, n.X, n.Y, n.Z})
			residual = append(residual, -r)
			sumSq.Add(r * r)
		}

		if len(jac) < 6 {
			return current, iter, false
		}

		twist, ok := numerical.SolveNormal6(jac, residual, cfg.Damping)
		if !ok {
			return current, iter, false
		}

		delta := twistToTransform(twist)
		current = delta.Mul(current)

		meanSq := sumSq.Sum() / float64(len(jac))
		if math.Abs(prevResidual-meanSq) < cfg.ConvergenceEps {
			return current, iter + 1, true
		}
		prevResidual = meanSq
	}

	return current, cfg.MaxIterations, false
}

// twistToTransform builds a small-angle rigid transform from an incremental
// twist [rx, ry, rz, tx, ty, tz], the standard linearized-ICP update where
// the rotation part is approximated by its first-order (skew-symmetric)
// expansion and then re-orthonormalized.
func twistToTransform(twist [6]float64) Transform {
	rx, ry, rz := twist[0], twist[1], twist[2]
	tx, ty, tz := twist[3], twist[4], twist[5]

	r := [9]float64{
		1, -rz, ry,
		rz, 1, -rx,
		-ry, rx, 1,
	}
	r = orthonormalize3(r)
	return numerical.FromRotationTranslation(r, [3]float64{tx, ty, tz})
}

// orthonormalize3 projects a near-rotation matrix back onto SO(3) via a
// polar decomposition using the same SVD machinery the rigid-fit step uses.
func orthonormalize3(r [9]float64) [9]float64 {
	u, _, v := numerical.SVD3(r)
	uMat := u
	vMat := v
	var out [9]float64
	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			var sum float64
			for k := 0; k < 3; k++ {
				sum += uMat[row*3+k] * vMat[col*3+k]
			}
			out[row*3+col] = sum
		}
	}
	return out
}
