package lastfit

import (
	"math"

	"github.com/dhconnelly/rtreego"
	"github.com/kwv/lastfit/numerical"
)

// Collider is a read-only spatial index over a mesh's triangles, built once
// per call site and never cached across calls or shared between goroutines,
// per this package's acceleration-structure rule: a fresh Collider is cheap
// relative to correctness bugs from stale trees after a mesh is replaced.
//
// Grounded on render3d.MeshToCollider/Collider (mbrukman-model3d), adapted
// from a custom BVH to rtreego's R-tree, the bounding-volume index wired in
// from the pack's sdfx-family dependency manifests.
type Collider struct {
	mesh *Mesh
	tree *rtreego.Rtree
	tris []triangleSpatial
}

type triangleSpatial struct {
	idx  int
	a, b, c Coord3D
	rect *rtreego.Rect
}

func (t *triangleSpatial) Bounds() *rtreego.Rect {
	return t.rect
}

func triangleRect(a, b, c Coord3D) *rtreego.Rect {
	min := a.Min(b).Min(c)
	max := a.Max(b).Max(c)
	const eps = 1e-9
	lengths := []float64{
		math.Max(max.X-min.X, eps),
		math.Max(max.Y-min.Y, eps),
		math.Max(max.Z-min.Z, eps),
	}
	rect, _ := rtreego.NewRect(rtreego.Point{min.X, min.Y, min.Z}, lengths)
	return rect
}

// NewCollider builds a Collider over m's triangles.
func NewCollider(m *Mesh) *Collider {
	const minChildren, maxChildren = 4, 16
	tree := rtreego.NewTree(3, minChildren, maxChildren)
	tris := make([]triangleSpatial, len(m.F))
	for i := range m.F {
		a, b, c := m.Triangle(i)
		tris[i] = triangleSpatial{idx: i, a: a, b: b, c: c, rect: triangleRect(a, b, c)}
	}
	for i := range tris {
		tree.Insert(&tris[i])
	}
	return &Collider{mesh: m, tree: tree, tris: tris}
}

// ClosestPoint returns the closest point on the mesh surface to p, the
// index of the triangle it lies on, and the distance to it.
func (c *Collider) ClosestPoint(p Coord3D) (closest Coord3D, triIdx int, dist float64) {
	const searchCandidates = 24
	results := c.tree.NearestNeighbors(searchCandidates, rtreego.Point{p.X, p.Y, p.Z})

	dist = math.Inf(1)
	triIdx = -1
	for _, r := range results {
		ts, ok := r.(*triangleSpatial)
		if !ok {
			continue
		}
		cp := closestPointOnTriangle(p, ts.a, ts.b, ts.c)
		d := cp.Dist(p)
		if d < dist {
			dist = d
			closest = cp
			triIdx = ts.idx
		}
	}
	if triIdx == -1 {
		// Fallback for meshes smaller than the candidate window.
		for i := range c.tris {
			ts := &c.tris[i]
			cp := closestPointOnTriangle(p, ts.a, ts.b, ts.c)
			d := cp.Dist(p)
			if d < dist {
				dist = d
				closest = cp
				triIdx = ts.idx
			}
		}
	}
	return
}

// UnsignedDistance returns the unsigned distance from p to the mesh surface.
func (c *Collider) UnsignedDistance(p Coord3D) float64 {
	_, _, d := c.ClosestPoint(p)
	return d
}

// WindingNumber returns the generalized winding number of p with respect to
// the mesh, via direct summation of per-triangle solid angles (the
// Van Oosterom-Strackee formula). A value near 1 means inside, near 0 means
// outside; fractional values near an open boundary degrade gracefully
// instead of silently flipping sign the way ray-parity testing would.
func (c *Collider) WindingNumber(p Coord3D) float64 {
	var acc numerical.Accumulator
	for i := range c.tris {
		t := &c.tris[i]
		acc.Add(solidAngle(p, t.a, t.b, t.c))
	}
	return acc.Sum() / (4 * math.Pi)
}

// SignedDistance returns the unsigned distance to the surface, negated when
// p's winding number indicates it is inside the mesh (winding > 0.5).
func (c *Collider) SignedDistance(p Coord3D) float64 {
	d := c.UnsignedDistance(p)
	if c.WindingNumber(p) > 0.5 {
		return -d
	}
	return d
}

// Occupancy reports whether p lies inside the mesh per the winding-number
// sign convention.
func (c *Collider) Occupancy(p Coord3D) bool {
	return c.WindingNumber(p) > 0.5
}

// solidAngle returns the signed solid angle subtended by triangle (a, b, c)
// as seen from p, using the Van Oosterom-Strackee formula.
func solidAngle(p, a, b, c Coord3D) float64 {
	ra := a.Sub(p)
	rb := b.Sub(p)
	rc := c.Sub(p)
	la := ra.Norm()
	lb := rb.Norm()
	lc := rc.Norm()
	if la == 0 || lb == 0 || lc == 0 {
		return 0
	}
	numerator := ra.Dot(rb.Cross(rc))
	denominator := la*lb*lc + ra.Dot(rb)*lc + rb.Dot(rc)*la + rc.Dot(ra)*lb
	return 2 * math.Atan2(numerator, denominator)
}

// closestPointOnTriangle returns the point on triangle (a, b, c) closest to
// p, using barycentric region classification.
func closestPointOnTriangle(p, a, b, c Coord3D) Coord3D {
	ab := b.Sub(a)
	ac := c.Sub(a)
	ap := p.Sub(a)

	d1 := ab.Dot(ap)
	d2 := ac.Dot(ap)
	if d1 <= 0 && d2 <= 0 {
		return a
	}

	bp := p.Sub(b)
	d3 := ab.Dot(bp)
	d4 := ac.Dot(bp)
	if d3 >= 0 && d4 <= d3 {
		return b
	}

	vc := d1*d4 - d3*d2
	if vc <= 0 && d1 >= 0 && d3 <= 0 {
		v := d1 / (d1 - d3)
		return a.Add(ab.Scale(v))
	}

	cp := p.Sub(c)
	d5 := ab.Dot(cp)
	d6 := ac.Dot(cp)
	if d6 >= 0 && d5 <= d6 {
		return c
	}

	vb := d5*d2 - d1*d6
	if vb <= 0 && d2 >= 0 && d6 <= 0 {
		w := d2 / (d2 - d6)
		return a.Add(ac.Scale(w))
	}

	va := d3*d6 - d5*d4
	if va <= 0 && (d4-d3) >= 0 && (d5-d6) >= 0 {
		w := (d4 - d3) / ((d4 - d3) + (d5 - d6))
		return b.Add(c.Sub(b).Scale(w))
	}

	denom := 1 / (va + vb + vc)
	v := vb * denom
	w := vc * denom
	return a.Add(ab.Scale(v)).Add(ac.Scale(w))
}
