package numerical

import "gonum.org/v1/gonum/mat"

// SolveNormal6 solves the 6x6 regularized normal-equation system that arises
// from linearized point-to-plane ICP: each correspondence contributes a row
// jac (the Jacobian of the point-to-plane residual w.r.t. the incremental
// twist [rx, ry, rz, tx, ty, tz]) and a scalar residual. damping adds
// damping*I to the Gram matrix before solving, guarding against a
// rank-deficient system on sparse or planar correspondence sets.
//
// Grounded on model3d/dc.go's numerical.LeastSquares3 helper, generalized
// from a 3-unknown fit to ICP's 6-unknown rigid-twist fit and delegated to
// gonum's Cholesky solver rather than a hand-rolled elimination.
func SolveNormal6(jac [][6]float64, residual []float64, damping float64) ([6]float64, bool) {
	ataData := mat.NewSymDense(6, nil)
	atb := make([]float64, 6)

	for row := range jac {
		j := jac[row]
		r := residual[row]
		for a := 0; a < 6; a++ {
			atb[a] += j[a] * r
			for b := a; b < 6; b++ {
				ataData.SetSym(a, b, ataData.At(a, b)+j[a]*j[b])
			}
		}
	}
	for i := 0; i < 6; i++ {
		ataData.SetSym(i, i, ataData.At(i, i)+damping)
	}

	var chol mat.Cholesky
	if !chol.Factorize(ataData) {
		return [6]float64{}, false
	}

	b := mat.NewVecDense(6, atb)
	var x mat.VecDense
	if err := chol.SolveVecTo(&x, b); err != nil {
		return [6]float64{}, false
	}

	var out [6]float64
	for i := 0; i < 6; i++ {
		out[i] = x.AtVec(i)
	}
	return out, true
}
