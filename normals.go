package lastfit

import (
	"math"
	"runtime"

	"github.com/dhconnelly/rtreego"
	"github.com/kwv/lastfit/numerical"
	"golang.org/x/sync/errgroup"
)

// fpfhBins is the number of histogram bins per angular feature; three
// features (alpha, phi, theta) at 11 bins each give the 33-dimensional
// descriptor spec.md's data model names.
const fpfhBins = 11

type pointSpatial struct {
	idx int
	p   Coord3D
}

func (s *pointSpatial) Bounds() *rtreego.Rect {
	const eps = 1e-9
	rect, _ := rtreego.NewRect(rtreego.Point{s.p.X, s.p.Y, s.p.Z}, []float64{eps, eps, eps})
	return rect
}

func toRtreePoint(c Coord3D) rtreego.Point {
	return rtreego.Point{c.X, c.Y, c.Z}
}

func buildPointTree(p []Coord3D) (*rtreego.Rtree, []pointSpatial) {
	tree := rtreego.NewTree(3, 4, 16)
	nodes := make([]pointSpatial, len(p))
	for i, c := range p {
		nodes[i] = pointSpatial{idx: i, p: c}
	}
	for i := range nodes {
		tree.Insert(&nodes[i])
	}
	return tree, nodes
}

func neighborsWithinRadius(tree *rtreego.Rtree, nodes []pointSpatial, center Coord3D, radius float64) []int {
	rect, _ := rtreego.NewRect(
		rtreego.Point{center.X - radius, center.Y - radius, center.Z - radius},
		[]float64{2 * radius, 2 * radius, 2 * radius},
	)
	hits := tree.SearchIntersect(rect)
	out := make([]int, 0, len(hits))
	for _, h := range hits {
		ps := h.(*pointSpatial)
		if ps.p.Dist(center) <= radius {
			out = append(out, ps.idx)
		}
	}
	return out
}

// EstimateNormals estimates a unit normal at every point of p from its
// neighbours within radius, via the covariance-matrix (PCA) method: the
// eigenvector of smallest eigenvalue of the local covariance is the normal
// direction. Points with fewer than 3 neighbours get the zero vector.
//
// Bounded concurrency here uses golang.org/x/sync/errgroup, independent of
// the essentials.ConcurrentMap used by the batch driver, so both corpus
// concurrency idioms get exercised.
func EstimateNormals(p []Coord3D, radius float64) []Coord3D {
	tree, nodes := buildPointTree(p)
	out := make([]Coord3D, len(p))

	var g errgroup.Group
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range p {
		i := i
		g.Go(func() error {
			out[i] = estimateNormalAt(tree, nodes, p[i], radius)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func estimateNormalAt(tree *rtreego.Rtree, nodes []pointSpatial, center Coord3D, radius float64) Coord3D {
	idxs := neighborsWithinRadius(tree, nodes, center, radius)
	if len(idxs) < 3 {
		return Coord3D{}
	}

	var mean Coord3D
	for _, idx := range idxs {
		mean = mean.Add(nodes[idx].p)
	}
	mean = mean.Scale(1 / float64(len(idxs)))

	var cov [9]float64
	for _, idx := range idxs {
		d := nodes[idx].p.Sub(mean)
		cov[0] += d.X * d.X
		cov[1] += d.X * d.Y
		cov[2] += d.X * d.Z
		cov[4] += d.Y * d.Y
		cov[5] += d.Y * d.Z
		cov[8] += d.Z * d.Z
	}
	cov[3], cov[6], cov[7] = cov[1], cov[2], cov[5]

	values, vectors := numerical.SymmetricEigen3(cov)
	// values is ascending; the eigenvector for the smallest eigenvalue
	// occupies the first column.
	_ = values
	n := Coord3D{vectors[0], vectors[3], vectors[6]}
	return n.Normalize()
}

// ComputeFPFH computes a 33-dimensional Fast Point Feature Histogram for
// every point in p, following the textbook two-pass formulation: a per-point
// Simplified-PFH (SPFH) over its own neighbourhood, then a distance-weighted
// combination of a point's SPFH with its neighbours' SPFHs.
func ComputeFPFH(p, n []Coord3D, radius float64) [][33]float64 {
	tree, nodes := buildPointTree(p)
	spfh := make([][33]float64, len(p))
	neighborSets := make([][]int, len(p))

	for i := range p {
		idxs := neighborsWithinRadius(tree, nodes, p[i], radius)
		neighborSets[i] = idxs
		spfh[i] = computeSPFH(p, n, i, idxs)
	}

	out := make([][33]float64, len(p))
	for i := range p {
		idxs := neighborSets[i]
		if len(idxs) == 0 {
			out[i] = spfh[i]
			continue
		}
		var combined [33]float64
		var weightSum float64
		for _, j := range idxs {
			d := p[i].Dist(p[j])
			if d == 0 {
				continue
			}
			weight := 1 / d
			weightSum += weight
			for k := 0; k < 33; k++ {
				combined[k] += weight * spfh[j][k]
			}
		}
		if weightSum > 0 {
			for k := 0; k < 33; k++ {
				combined[k] /= weightSum
			}
		}
		for k := 0; k < 33; k++ {
			out[i][k] = spfh[i][k] + combined[k]
		}
	}
	return out
}

func computeSPFH(p, n []Coord3D, i int, idxs []int) [33]float64 {
	var hist [33]float64
	ni := n[i]
	for _, j := range idxs {
		if j == i {
			continue
		}
		source, target := p[i], p[j]
		nSource, nTarget := ni, n[j]
		// Orient the pair so source has the smaller angle to the connecting
		// line, per the standard PFH convention.
		d := target.Sub(source)
		if nSource.Dot(d) < nTarget.Dot(d.Scale(-1)) {
			source, target = target, source
			nSource, nTarget = nTarget, nSource
			d = target.Sub(source)
		}
		dist := d.Norm()
		if dist == 0 {
			continue
		}
		u := nSource
		dn := d.Normalize()
		v := dn.Cross(u)
		w := u.Cross(v)

		alpha := v.Dot(nTarget)
		phi := u.Dot(dn)
		theta := math.Atan2(w.Dot(nTarget), u.Dot(nTarget))

		addToHistogram(hist[0:fpfhBins], alpha, -1, 1)
		addToHistogram(hist[fpfhBins:2*fpfhBins], phi, -1, 1)
		addToHistogram(hist[2*fpfhBins:3*fpfhBins], theta, -math.Pi, math.Pi)
	}
	return hist
}

func addToHistogram(bins []float64, value, lo, hi float64) {
	span := hi - lo
	if span <= 0 {
		return
	}
	frac := (value - lo) / span
	idx := int(frac * float64(len(bins)))
	idx = clampInt(idx, 0, len(bins)-1)
	bins[idx]++
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
