package lastfit

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// Segment is a 2-point line segment, used for both raw mesh-plane
// intersections and their simplified polylines.
type Segment [2]Coord3D

// MeshSection intersects m with the plane through p0 with the given normal,
// returning one segment per triangle whose three vertices have strictly
// mixed signs relative to the plane (triangles entirely on one side, or
// with a vertex exactly on the plane, contribute nothing).
func MeshSection(m *Mesh, p0, normal Coord3D) []Segment {
	n := normal.Normalize()
	var segments []Segment

	for i := range m.F {
		a, b, c := m.Triangle(i)
		da := a.Sub(p0).Dot(n)
		db := b.Sub(p0).Dot(n)
		dc := c.Sub(p0).Dot(n)

		pos := []Coord3D{}
		neg := []Coord3D{}
		posD := []float64{}
		negD := []float64{}
		for idx, d := range []float64{da, db, dc} {
			v := [3]Coord3D{a, b, c}[idx]
			if d > 0 {
				pos = append(pos, v)
				posD = append(posD, d)
			} else if d < 0 {
				neg = append(neg, v)
				negD = append(negD, d)
			}
		}
		if len(pos) == 0 || len(neg) == 0 {
			continue
		}

		var pts []Coord3D
		for _, pv := range pos {
			pd := pv.Sub(p0).Dot(n)
			for _, nv := range neg {
				nd := nv.Sub(p0).Dot(n)
				t := pd / (pd - nd)
				pts = append(pts, pv.Add(nv.Sub(pv).Scale(t)))
			}
		}
		if len(pts) >= 2 {
			segments = append(segments, Segment{pts[0], pts[1]})
		}
	}
	return segments
}

// SimplifySection chains segments end-to-end into polylines (matching
// shared endpoints within a small epsilon) and Douglas-Peucker simplifies
// each polyline at the given tolerance, via orb/simplify. Points are
// projected onto the plane's own 2D basis for the 2D simplifier, then
// mapped back to 3D.
func SimplifySection(segments []Segment, tolerance float64) []Segment {
	paths := chainSegments(segments)
	var out []Segment

	for _, path := range paths {
		if len(path) < 2 {
			continue
		}
		u, v, origin := planeBasis(path)
		ls := make(orb.LineString, len(path))
		for i, p := range path {
			d := p.Sub(origin)
			ls[i] = orb.Point{d.Dot(u), d.Dot(v)}
		}

		reducer := simplify.DouglasPeucker(tolerance)
		reduced := reducer.LineString(ls)

		pts := make([]Coord3D, len(reduced))
		for i, p := range reduced {
			pts[i] = origin.Add(u.Scale(p[0])).Add(v.Scale(p[1]))
		}
		for i := 0; i+1 < len(pts); i++ {
			out = append(out, Segment{pts[i], pts[i+1]})
		}
	}
	return out
}

const chainEpsilon = 1e-6

// chainSegments greedily links segments sharing an endpoint into ordered
// polylines, so simplification can operate on paths rather than an
// unordered segment soup.
func chainSegments(segments []Segment) [][]Coord3D {
	used := make([]bool, len(segments))
	var paths [][]Coord3D

	for i := range segments {
		if used[i] {
			continue
		}
		used[i] = true
		path := []Coord3D{segments[i][0], segments[i][1]}

		extended := true
		for extended {
			extended = false
			for j := range segments {
				if used[j] {
					continue
				}
				tail := path[len(path)-1]
				if segments[j][0].Dist(tail) < chainEpsilon {
					path = append(path, segments[j][1])
					used[j] = true
					extended = true
				} else if segments[j][1].Dist(tail) < chainEpsilon {
					path = append(path, segments[j][0])
					used[j] = true
					extended = true
				}
			}
		}
		paths = append(paths, path)
	}
	return paths
}

// planeBasis derives an orthonormal 2D basis (u, v) spanning the plane that
// path's points approximately lie in, and an origin point to project
// relative to.
func planeBasis(path []Coord3D) (u, v, origin Coord3D) {
	origin = path[0]
	var normal Coord3D
	for i := 1; i+1 < len(path); i++ {
		e1 := path[i].Sub(origin)
		e2 := path[i+1].Sub(origin)
		normal = normal.Add(e1.Cross(e2))
	}
	if normal.Norm() < 1e-12 {
		// Degenerate (collinear) path: pick an arbitrary normal.
		normal = Coord3D{0, 0, 1}
		if path[len(path)-1].Sub(origin).Normalize() == normal {
			normal = Coord3D{0, 1, 0}
		}
	}
	normal = normal.Normalize()

	ref := Coord3D{1, 0, 0}
	if ref.Cross(normal).Norm() < 1e-6 {
		ref = Coord3D{0, 1, 0}
	}
	u = normal.Cross(ref).Normalize()
	v = normal.Cross(u).Normalize()
	return
}
