package numerical

import "gonum.org/v1/gonum/mat"

// SVD3 factors a 3x3 matrix (row-major, flattened) as m = U * diag(s) * V^T,
// returning U, the singular values, and V, all row-major.
//
// Grounded on model3d/deformation.go's ARAP rotation-of-best-fit step
// (covariance.SVD(&u, &s, &v)); here the factorization itself is delegated
// to gonum rather than a hand-rolled Jacobi iteration.
func SVD3(m [9]float64) (u [9]float64, s [3]float64, v [9]float64) {
	dense := mat.NewDense(3, 3, m[:])
	var svd mat.SVD
	if !svd.Factorize(dense, mat.SVDFull) {
		// Degenerate input (e.g. all-zero covariance); fall back to identity
		// so callers get a well-defined, if arbitrary, rotation.
		return identity3(), [3]float64{}, identity3()
	}

	var uDense, vDense mat.Dense
	svd.UTo(&uDense)
	svd.VTo(&vDense)
	values := svd.Values(nil)

	u = denseToArray3(&uDense)
	v = denseToArray3(&vDense)
	copy(s[:], values)
	return
}

// KabschRotation returns the optimal rotation R (row-major 3x3, det(R) = +1)
// that best aligns a covariance matrix cov = sum_i src_i * dst_i^T built from
// centred correspondences, following the Kabsch/Umeyama construction used by
// model3d's ARAP rotation step.
func KabschRotation(cov [9]float64) [9]float64 {
	u, _, v := SVD3(cov)
	uMat := mat.NewDense(3, 3, u[:])
	vMat := mat.NewDense(3, 3, v[:])

	var uT mat.Dense
	uT.CloneFrom(uMat.T())

	var r mat.Dense
	r.Mul(vMat, &uT)

	if det3(&r) < 0 {
		// Flip the column of V (equivalently U) associated with the
		// smallest singular value, exactly as model3d's ARAP does.
		for row := 0; row < 3; row++ {
			vMat.Set(row, 2, -vMat.At(row, 2))
		}
		r.Mul(vMat, &uT)
	}
	return denseToArray3(&r)
}

// SymmetricEigen3 returns eigenvalues (ascending) and the corresponding
// eigenvectors (as columns, row-major-packed) of a symmetric 3x3 matrix.
func SymmetricEigen3(m [9]float64) (values [3]float64, vectors [9]float64) {
	sym := mat.NewSymDense(3, []float64{
		m[0], m[1], m[2],
		m[1], m[4], m[5],
		m[2], m[5], m[8],
	})
	var eig mat.EigenSym
	if !eig.Factorize(sym, true) {
		return [3]float64{}, identity3()
	}
	eig.Values(values[:0])
	var vecs mat.Dense
	eig.VectorsTo(&vecs)
	vectors = denseToArray3(&vecs)
	return
}

func identity3() [9]float64 {
	return [9]float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
}

func denseToArray3(d *mat.Dense) [9]float64 {
	var out [9]float64
	for r := 0; r < 3; r++ {
		for c := 0; c < 3; c++ {
			out[r*3+c] = d.At(r, c)
		}
	}
	return out
}

func det3(d *mat.Dense) float64 {
	a, b, c := d.At(0, 0), d.At(0, 1), d.At(0, 2)
	e, f, g := d.At(1, 0), d.At(1, 1), d.At(1, 2)
	h, i, j := d.At(2, 0), d.At(2, 1), d.At(2, 2)
	return a*(f*j-g*i) - b*(e*j-g*h) + c*(e*i-f*h)
}
