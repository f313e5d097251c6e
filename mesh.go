package lastfit

import (
	"fmt"
)

// Mesh is a triangle mesh: a flat vertex array and a triangle-index array,
// each index triple referencing three entries of V.
//
// Grounded on model3d.Mesh's triangle-soup storage, simplified from its
// internal coordinate-to-triangle map (not needed here since this package
// never edits a mesh in place after Clean) down to the two plain slices
// spec.md's data model names.
type Mesh struct {
	V []Coord3D
	F [][3]int32
}

// NewMesh builds a Mesh from a vertex array and a triangle-index array
// without validating or cleaning it. Use Cleanup for validated construction.
func NewMesh(v []Coord3D, f [][3]int32) *Mesh {
	return &Mesh{V: v, F: f}
}

// Cleanup validates v and f and returns a cleaned Mesh: triangle index
// triples are range-checked, degenerate triangles (a repeated vertex index)
// are dropped, and exactly coincident vertices are merged.
func Cleanup(v []Coord3D, f [][3]int32) (*Mesh, error) {
	for i, tri := range f {
		for _, idx := range tri {
			if idx < 0 || int(idx) >= len(v) {
				return nil, NewShapeError("Cleanup", fmt.Sprintf("triangle %d references out-of-range vertex %d", i, idx))
			}
		}
	}
	m := &Mesh{V: v, F: f}
	return m.Clean(), nil
}

// Clean returns a new Mesh with degenerate triangles removed, exactly
// coincident vertices merged into a single index, and any vertex left
// unreferenced by the surviving triangles dropped, in deterministic input
// order. Canonicalising each triangle's index triple before deduplication
// (sorting it, since spec duplicate triangles are index-multisets regardless
// of winding) makes the result independent of how duplicate triangles
// happened to be wound in the input.
func (m *Mesh) Clean() *Mesh {
	coordToIdx := make(map[Coord3D]int32, len(m.V))
	dedupedVerts := make([]Coord3D, 0, len(m.V))
	remap := make([]int32, len(m.V))
	for i, c := range m.V {
		if idx, ok := coordToIdx[c]; ok {
			remap[i] = idx
			continue
		}
		idx := int32(len(dedupedVerts))
		coordToIdx[c] = idx
		dedupedVerts = append(dedupedVerts, c)
		remap[i] = idx
	}

	seen := make(map[[3]int32]bool, len(m.F))
	newFaces := make([][3]int32, 0, len(m.F))
	for _, tri := range m.F {
		remapped := [3]int32{remap[tri[0]], remap[tri[1]], remap[tri[2]]}
		if remapped[0] == remapped[1] || remapped[1] == remapped[2] || remapped[0] == remapped[2] {
			continue
		}
		key := canonicalTriangle(remapped)
		if seen[key] {
			continue
		}
		seen[key] = true
		newFaces = append(newFaces, remapped)
	}

	referenced := make([]bool, len(dedupedVerts))
	for _, tri := range newFaces {
		referenced[tri[0]] = true
		referenced[tri[1]] = true
		referenced[tri[2]] = true
	}
	compactIdx := make([]int32, len(dedupedVerts))
	newVerts := make([]Coord3D, 0, len(dedupedVerts))
	for i, c := range dedupedVerts {
		if !referenced[i] {
			continue
		}
		compactIdx[i] = int32(len(newVerts))
		newVerts = append(newVerts, c)
	}
	for i, tri := range newFaces {
		newFaces[i] = [3]int32{compactIdx[tri[0]], compactIdx[tri[1]], compactIdx[tri[2]]}
	}

	return &Mesh{V: newVerts, F: newFaces}
}

// canonicalTriangle sorts a triangle's index triple into ascending order, so
// duplicate-triangle detection treats a triangle as the index-multiset it
// references, independent of winding or which vertex was listed first.
func canonicalTriangle(t [3]int32) [3]int32 {
	if t[0] > t[1] {
		t[0], t[1] = t[1], t[0]
	}
	if t[1] > t[2] {
		t[1], t[2] = t[2], t[1]
	}
	if t[0] > t[1] {
		t[0], t[1] = t[1], t[0]
	}
	return t
}

// Triangle returns the three vertex coordinates of face i.
func (m *Mesh) Triangle(i int) (a, b, c Coord3D) {
	f := m.F[i]
	return m.V[f[0]], m.V[f[1]], m.V[f[2]]
}

// Normal returns the unnormalized face normal of triangle i (cross product
// of two edges, right-handed w.r.t. the stored winding).
func (m *Mesh) Normal(i int) Coord3D {
	a, b, c := m.Triangle(i)
	return b.Sub(a).Cross(c.Sub(a))
}

// Area returns the surface area of triangle i.
func (m *Mesh) Area(i int) float64 {
	return m.Normal(i).Norm() / 2
}

// Bounds returns the axis-aligned bounding box (min, max) of all vertices.
func (m *Mesh) Bounds() (min, max Coord3D) {
	if len(m.V) == 0 {
		return Coord3D{}, Coord3D{}
	}
	min, max = m.V[0], m.V[0]
	for _, v := range m.V[1:] {
		min = min.Min(v)
		max = max.Max(v)
	}
	return
}
