package lastfit

import "github.com/kwv/lastfit/numerical"

// ChamferDistance returns the symmetric Chamfer distance between point sets
// a and b: the mean nearest-neighbour distance from a to b plus the mean
// nearest-neighbour distance from b to a. Both directions use a
// nearest-neighbour query against a point R-tree built fresh for the call,
// consistent with this package's no-cached-acceleration-structure rule.
func ChamferDistance(a, b []Coord3D) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	return meanNearestDistance(a, b) + meanNearestDistance(b, a)
}

func meanNearestDistance(from, to []Coord3D) float64 {
	tree, _ := buildPointTree(to)
	var acc numerical.Accumulator
	for _, p := range from {
		results := tree.NearestNeighbors(1, toRtreePoint(p))
		if len(results) == 0 {
			continue
		}
		ps := results[0].(*pointSpatial)
		acc.Add(p.Dist(ps.p))
	}
	return acc.Sum() / float64(len(from))
}
