// Package batch composes rigid registration and clearance verification over
// many candidate blanks in parallel.
package batch

import (
	"fmt"
	"runtime"

	lastfit "github.com/kwv/lastfit"
	"github.com/unixpickle/essentials"
)

// Params bundles every tunable the batch driver threads through to
// registration and clearance evaluation. Zero-value fields fall back to
// DefaultParams, the same zero-value-means-default shape used throughout
// this module's single-candidate APIs, except SafetyDelta, where zero is
// kept as is, and Threads, where zero means runtime.GOMAXPROCS(0).
type Params struct {
	Threads      int
	RANSAC       lastfit.RANSACConfig
	ICP          lastfit.ICPConfig
	Clearance    float64
	SafetyDelta  float64
	Samples      int
	Voxel        float64
	Band         float64
	NormalRadius float64
}

// DefaultParams returns the recommended defaults.
func DefaultParams() Params {
	return Params{
		Threads:      0,
		Clearance:    1.5,
		SafetyDelta:  0.2,
		Samples:      2000,
		Voxel:        0.5,
		Band:         3.0,
		NormalRadius: 2.0,
	}
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.Threads <= 0 {
		p.Threads = runtime.GOMAXPROCS(0)
	}
	if p.Clearance <= 0 {
		p.Clearance = d.Clearance
	}
	if p.Samples <= 0 {
		p.Samples = d.Samples
	}
	if p.Voxel <= 0 {
		p.Voxel = d.Voxel
	}
	if p.Band <= 0 {
		p.Band = d.Band
	}
	if p.NormalRadius <= 0 {
		p.NormalRadius = d.NormalRadius
	}
	return p
}

// Record is one candidate's batch result. Err is non-empty exactly when the
// candidate's goroutine panicked or the candidate failed a precondition;
// Pass is always false in that case. Err is a plain string, not a wrapped
// error, so Record stays a value type safe to compare in tests.
type Record struct {
	Index        int
	Registration lastfit.RegistrationResult
	Sampling     lastfit.SamplingClearanceReport
	Voxel        lastfit.VoxelClearanceReport
	Pass         bool
	Err          string
}

// BatchAlignAndCheck aligns every candidate to target and checks clearance
// with the fast surface-sampling evaluator (ClearanceSampling). Output order
// always matches the input candidates slice regardless of which goroutine
// finishes first, because each result is written into a pre-sized []Record
// at the candidate's own index. A panic inside one candidate's processing
// is recovered at that candidate's boundary and surfaced as Record.Err,
// never propagated to sibling candidates or the caller.
func BatchAlignAndCheck(target *lastfit.Mesh, candidates []*lastfit.Mesh, params Params) []Record {
	params = params.withDefaults()
	records := make([]Record, len(candidates))
	targetCloud := buildCloud(target, params.NormalRadius)

	essentials.ConcurrentMap(params.Threads, len(candidates), func(i int) {
		records[i] = runOne(i, targetCloud, target, candidates[i], params, false)
	})
	return records
}

// BatchFormalCheck aligns every candidate to target and checks clearance
// with the narrow-band voxel verifier (ClearanceSDFVolume), the slower but
// provable-error-bound evaluator, for a final formal pass/fail decision.
func BatchFormalCheck(target *lastfit.Mesh, candidates []*lastfit.Mesh, params Params) []Record {
	params = params.withDefaults()
	records := make([]Record, len(candidates))
	targetCloud := buildCloud(target, params.NormalRadius)

	essentials.ConcurrentMap(params.Threads, len(candidates), func(i int) {
		records[i] = runOne(i, targetCloud, target, candidates[i], params, true)
	})
	return records
}

func runOne(idx int, targetCloud lastfit.PointCloud, target, candidate *lastfit.Mesh, params Params, formal bool) (rec Record) {
	rec.Index = idx
	defer func() {
		if r := recover(); r != nil {
			rec.Err = fmt.Sprintf("panic: %v", r)
			rec.Pass = false
		}
	}()

	if len(candidate.V) == 0 || len(candidate.F) == 0 {
		rec.Err = "candidate mesh has no geometry"
		return
	}

	candidateCloud := buildCloud(candidate, params.NormalRadius)
	result := lastfit.AlignWithMirror(candidateCloud, targetCloud, lastfit.RegistrationConfig{
		RANSAC: params.RANSAC,
		ICP:    params.ICP,
	})
	rec.Registration = result

	aligned := transformMesh(candidate, result.T)

	if formal {
		rec.Voxel = lastfit.ClearanceSDFVolume(target, aligned, params.Clearance+params.SafetyDelta, params.Voxel, params.Band, 1)
		rec.Pass = rec.Voxel.Pass
	} else {
		rec.Sampling = lastfit.ClearanceSampling(target, aligned, params.Clearance, params.SafetyDelta, params.Samples)
		rec.Pass = rec.Sampling.Pass
	}
	return
}

func buildCloud(m *lastfit.Mesh, normalRadius float64) lastfit.PointCloud {
	normals := lastfit.EstimateNormals(m.V, normalRadius)
	fpfh := lastfit.ComputeFPFH(m.V, normals, normalRadius)
	return lastfit.PointCloud{P: m.V, N: normals, F: fpfh}
}

func transformMesh(m *lastfit.Mesh, t lastfit.Transform) *lastfit.Mesh {
	v := make([]lastfit.Coord3D, len(m.V))
	for i, p := range m.V {
		x, y, z := t.Apply(p.X, p.Y, p.Z)
		v[i] = lastfit.Coord3D{X: x, Y: y, Z: z}
	}
	return lastfit.NewMesh(v, m.F)
}
