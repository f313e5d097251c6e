package lastfit

import (
	"math"
	"runtime"

	"github.com/kwv/lastfit/numerical"
	"github.com/unixpickle/essentials"
)

// VoxelClearanceReport is the outcome of ClearanceSDFVolume.
type VoxelClearanceReport struct {
	MinClearance  float64
	MeanClearance float64
	InsideRatio   float64
	ErrorBound    float64
	Pass          bool
	VoxelsTested  int
	Reason        string
}

// ClearanceSDFVolume verifies clearance over a narrow band of voxels
// straddling the target surface, rather than at a finite set of surface
// samples: every voxel center within band of the target surface has its
// signed distance to candidate evaluated. Only cells inside the candidate
// (signed distance <= 0) contribute to min/mean clearance; cells outside
// only count toward inside_ratio's denominator, so a single stray
// outside-candidate cell in the band can't drag min_clearance negative. The
// minimum over the inside cells (adjusted by the provable worst-case
// voxelization error) is compared against clearance. If the band is empty,
// or no band cell is inside candidate, Pass is false and Reason explains why.
//
// The error bound eps = (sqrt(3)/2) * voxel is the maximum distance from a
// voxel's center to any point within that voxel (half its space diagonal),
// so the true minimum clearance on the continuous surface can never be
// smaller than minClearance - eps.
//
// Bounded concurrency here uses essentials.ConcurrentMap, the same
// primitive the geometry teacher uses for its own parallel marching-cubes
// passes (model3d/dc.go).
func ClearanceSDFVolume(target, candidate *Mesh, clearance, voxel, band float64, threads int) VoxelClearanceReport {
	if threads <= 0 {
		threads = runtime.GOMAXPROCS(0)
	}
	targetCollider := NewCollider(target)
	candidateCollider := NewCollider(candidate)

	min, max := target.Bounds()
	pad := Coord3D{band, band, band}
	min = min.Sub(pad)
	max = max.Add(pad)

	nx := int(math.Ceil((max.X-min.X)/voxel)) + 1
	ny := int(math.Ceil((max.Y-min.Y)/voxel)) + 1
	nz := int(math.Ceil((max.Z-min.Z)/voxel)) + 1
	total := nx * ny * nz

	clearances := make([]float64, total)
	inBand := make([]bool, total)

	essentials.ConcurrentMap(threads, total, func(i int) {
		ix := i % nx
		iy := (i / nx) % ny
		iz := i / (nx * ny)
		center := Coord3D{
			X: min.X + float64(ix)*voxel,
			Y: min.Y + float64(iy)*voxel,
			Z: min.Z + float64(iz)*voxel,
		}
		distToTarget := math.Abs(targetCollider.SignedDistance(center))
		if distToTarget > band {
			return
		}
		inBand[i] = true
		clearances[i] = candidateCollider.SignedDistance(center)
	})

	errorBound := math.Sqrt(3) / 2 * voxel
	tested := 0
	insideCount := 0
	var insideSum numerical.Accumulator
	minClearance := math.Inf(1)
	for i, ok := range inBand {
		if !ok {
			continue
		}
		tested++
		if clearances[i] > 0 {
			// Outside the candidate: excluded from the clearance statistic,
			// only counted toward inside_ratio's denominator.
			continue
		}
		insideCount++
		// Clearance at this voxel is how far inside the candidate the point
		// sits; a non-positive candidate signed distance means inside.
		c := -clearances[i]
		insideSum.Add(c)
		if c < minClearance {
			minClearance = c
		}
	}

	if tested == 0 {
		return VoxelClearanceReport{
			Pass:   false,
			Reason: "no samples in band",
		}
	}

	insideRatio := float64(insideCount) / float64(tested)
	if insideCount == 0 {
		return VoxelClearanceReport{
			InsideRatio:  insideRatio,
			ErrorBound:   errorBound,
			Pass:         false,
			VoxelsTested: tested,
			Reason:       "no band cells inside candidate",
		}
	}

	mean := insideSum.Sum() / float64(insideCount)
	adjusted := minClearance - errorBound
	return VoxelClearanceReport{
		MinClearance:  adjusted,
		MeanClearance: mean,
		InsideRatio:   insideRatio,
		ErrorBound:    errorBound,
		Pass:          adjusted >= clearance,
		VoxelsTested:  tested,
	}
}
