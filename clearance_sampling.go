package lastfit

import (
	"sort"

	"github.com/kwv/lastfit/numerical"
)

// SamplingClearanceReport is the outcome of ClearanceSampling.
type SamplingClearanceReport struct {
	InsideRatio   float64
	MinClearance  float64
	MeanClearance float64
	P01Clearance  float64
	Pass          bool
	Samples       []ClearanceSample
}

// ClearanceSample is one surface-sample's clearance measurement.
type ClearanceSample struct {
	Point     Coord3D
	Clearance float64
	Inside    bool
}

// ClearanceSampling evaluates wall-thickness clearance between target and
// candidate by sampling the target surface and, at each sample point,
// querying a Collider built over candidate for the unsigned distance to its
// surface combined with an inside/outside test. Only samples strictly
// interior to candidate contribute a clearance value (the target surface
// must be fully enclosed by the candidate interior); samples outside always
// fail the pass rule via inside_ratio regardless of how close they are.
// pass = (inside_ratio >= 0.999) && (min_clearance >= clearance+safetyDelta).
func ClearanceSampling(target, candidate *Mesh, clearance, safetyDelta float64, samples int) SamplingClearanceReport {
	points := SampleSurface(target, samples)
	collider := NewCollider(candidate)

	out := make([]ClearanceSample, len(points))
	var sum numerical.Accumulator
	var interior []float64
	insideCount := 0

	for i, p := range points {
		inside := collider.Occupancy(p)
		c := collider.UnsignedDistance(p)
		if !inside {
			c = 0
		}
		out[i] = ClearanceSample{Point: p, Clearance: c, Inside: inside}
		if inside {
			insideCount++
			sum.Add(c)
			interior = append(interior, c)
		}
	}

	insideRatio := 0.0
	if len(points) > 0 {
		insideRatio = float64(insideCount) / float64(len(points))
	}

	var minClearance, mean, p01 float64
	if len(interior) > 0 {
		sort.Float64s(interior)
		minClearance = interior[0]
		mean = sum.Sum() / float64(len(interior))
		k := int(0.01 * float64(len(interior)))
		if k >= len(interior) {
			k = len(interior) - 1
		}
		p01 = interior[k]
	}

	return SamplingClearanceReport{
		InsideRatio:   insideRatio,
		MinClearance:  minClearance,
		MeanClearance: mean,
		P01Clearance:  p01,
		Pass:          insideRatio >= 0.999 && minClearance >= clearance+safetyDelta,
		Samples:       out,
	}
}
