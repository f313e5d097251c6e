package lastfit

import (
	"math"

	"github.com/kwv/lastfit/numerical"
)

// ThinnestPointResult is the outcome of ThinnestPoint.
type ThinnestPointResult struct {
	Point     Coord3D
	Clearance float64
	Found     bool
}

// ThinRegion is a connected cluster of target vertices whose clearance to
// candidate falls below a threshold, summarized by its member points, its
// two PCA-derived endpoints, and (once labelled) an anatomical tag.
type ThinRegion struct {
	Points       []Coord3D
	EndpointA    Coord3D
	EndpointB    Coord3D
	MinClearance float64
	Label        string
}

// ThinnestPoint returns the target vertex with the smallest clearance to
// candidate, considering only vertices strictly interior to candidate.
// Found is false if no target vertex is interior.
func ThinnestPoint(target, candidate *Mesh) ThinnestPointResult {
	collider := NewCollider(candidate)
	var best ThinnestPointResult
	for _, v := range target.V {
		c, inside := vertexClearance(collider, v)
		if !inside {
			continue
		}
		if !best.Found || c < best.Clearance {
			best.Point = v
			best.Clearance = c
			best.Found = true
		}
	}
	return best
}

// vertexClearance returns p's unsigned distance to collider's surface and
// whether p is strictly interior. Clearance is only meaningful when inside
// is true; callers must not substitute a value for exterior points.
func vertexClearance(collider *Collider, p Coord3D) (clearance float64, inside bool) {
	inside = collider.Occupancy(p)
	if !inside {
		return 0, false
	}
	return collider.UnsignedDistance(p), true
}

// ClearanceHeatmap computes a per-target-vertex clearance value normalized
// to [0, 1] (0 = thinnest observed, 1 = thickest observed), supplying the
// numeric half of a vertex-coloured clearance visualization; actual
// color-ramp mapping and export is left to the caller. Vertices exterior to
// candidate (no clearance is defined there) are excluded from the min/max
// range and reported as 1.0, the same value an arbitrarily thick interior
// point would get, since they carry no thin-wall signal.
func ClearanceHeatmap(target, candidate *Mesh) []float64 {
	collider := NewCollider(candidate)
	raw := make([]float64, len(target.V))
	inside := make([]bool, len(target.V))
	minC, maxC := math.Inf(1), math.Inf(-1)
	for i, v := range target.V {
		c, ok := vertexClearance(collider, v)
		inside[i] = ok
		if !ok {
			continue
		}
		raw[i] = c
		if c < minC {
			minC = c
		}
		if c > maxC {
			maxC = c
		}
	}
	span := maxC - minC
	out := make([]float64, len(raw))
	for i := range raw {
		if !inside[i] {
			out[i] = 1
			continue
		}
		if span <= 0 {
			out[i] = 0
			continue
		}
		out[i] = (raw[i] - minC) / span
	}
	return out
}

// ThinRegions clusters target vertices whose clearance to candidate falls
// below thrMM into connected components (two thin vertices are in the same
// component if within radiusMM of each other, computed by greedy fixpoint
// flood fill), computes each cluster's two extreme points along its
// dominant PCA axis as its endpoints, and labels each region using
// anatomical axes computed once over the full target vertex set.
func ThinRegions(target, candidate *Mesh, thrMM, radiusMM float64) []ThinRegion {
	collider := NewCollider(candidate)

	type thinVertex struct {
		idx       int
		p         Coord3D
		clearance float64
	}
	var thin []thinVertex
	for i, v := range target.V {
		c, inside := vertexClearance(collider, v)
		if inside && c < thrMM {
			thin = append(thin, thinVertex{idx: i, p: v, clearance: c})
		}
	}
	if len(thin) == 0 {
		return nil
	}

	visited := make([]bool, len(thin))
	var regions []ThinRegion

	for i := range thin {
		if visited[i] {
			continue
		}
		cluster := []int{i}
		visited[i] = true
		for changed := true; changed; {
			changed = false
			for j := range thin {
				if visited[j] {
					continue
				}
				for _, ci := range cluster {
					if thin[ci].p.Dist(thin[j].p) <= radiusMM {
						cluster = append(cluster, j)
						visited[j] = true
						changed = true
						break
					}
				}
			}
		}

		points := make([]Coord3D, len(cluster))
		minClearance := thin[cluster[0]].clearance
		for k, ci := range cluster {
			points[k] = thin[ci].p
			if thin[ci].clearance < minClearance {
				minClearance = thin[ci].clearance
			}
		}
		a, b := pcaEndpoints(points)
		regions = append(regions, ThinRegion{
			Points:       points,
			EndpointA:    a,
			EndpointB:    b,
			MinClearance: minClearance,
		})
	}

	return LabelRegions(target.V, regions)
}

// pcaEndpoints returns the two points of points farthest apart along the
// dominant PCA axis (the eigenvector of largest eigenvalue of the point
// covariance), via argmin/argmax of each point's projection onto that axis.
func pcaEndpoints(points []Coord3D) (a, b Coord3D) {
	if len(points) == 1 {
		return points[0], points[0]
	}
	axis := dominantAxis(points)
	mean := centroid(points)

	minProj, maxProj := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		proj := p.Sub(mean).Dot(axis)
		if proj < minProj {
			minProj = proj
			a = p
		}
		if proj > maxProj {
			maxProj = proj
			b = p
		}
	}
	return
}

func centroid(points []Coord3D) Coord3D {
	var sum Coord3D
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float64(len(points)))
}

func dominantAxis(points []Coord3D) Coord3D {
	mean := centroid(points)
	var cov [9]float64
	for _, p := range points {
		d := p.Sub(mean)
		cov[0] += d.X * d.X
		cov[1] += d.X * d.Y
		cov[2] += d.X * d.Z
		cov[4] += d.Y * d.Y
		cov[5] += d.Y * d.Z
		cov[8] += d.Z * d.Z
	}
	cov[3], cov[6], cov[7] = cov[1], cov[2], cov[5]

	_, vectors := numerical.SymmetricEigen3(cov)
	// SymmetricEigen3 returns ascending eigenvalues; the dominant axis is
	// the last column.
	axis := Coord3D{vectors[2], vectors[5], vectors[8]}
	return axis.Normalize()
}

// LabelRegions assigns an anatomical label to each region, computing the
// length axis (dominant PCA direction) and width axis (second PCA
// direction) once over the full targetVerts set and reusing them for every
// region, so repeated calls against the same target are consistent with
// each other regardless of how many regions are passed in.
func LabelRegions(targetVerts []Coord3D, regions []ThinRegion) []ThinRegion {
	if len(regions) == 0 {
		return regions
	}
	mean := centroid(targetVerts)
	lengthAxis, widthAxis := lengthAndWidthAxes(targetVerts, mean)

	out := make([]ThinRegion, len(regions))
	copy(out, regions)
	for i := range out {
		center := centroid(out[i].Points)
		d := center.Sub(mean)
		lengthCoord := d.Dot(lengthAxis)
		widthCoord := d.Dot(widthAxis)

		var lengthLabel string
		if lengthCoord >= 0 {
			lengthLabel = "toe"
		} else {
			lengthLabel = "heel"
		}
		var widthLabel string
		if widthCoord >= 0 {
			widthLabel = "lateral"
		} else {
			widthLabel = "medial"
		}
		out[i].Label = lengthLabel + "-" + widthLabel
	}
	return out
}

func lengthAndWidthAxes(points []Coord3D, mean Coord3D) (length, width Coord3D) {
	var cov [9]float64
	for _, p := range points {
		d := p.Sub(mean)
		cov[0] += d.X * d.X
		cov[1] += d.X * d.Y
		cov[2] += d.X * d.Z
		cov[4] += d.Y * d.Y
		cov[5] += d.Y * d.Z
		cov[8] += d.Z * d.Z
	}
	cov[3], cov[6], cov[7] = cov[1], cov[2], cov[5]

	_, vectors := numerical.SymmetricEigen3(cov)
	length = Coord3D{vectors[2], vectors[5], vectors[8]}.Normalize()
	width = Coord3D{vectors[1], vectors[4], vectors[7]}.Normalize()
	return
}
