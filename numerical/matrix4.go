package numerical

import "math"

// Matrix4 is a row-major, flattened 4x4 homogeneous transform:
//
//	| m[0]  m[1]  m[2]  m[3]  |
//	| m[4]  m[5]  m[6]  m[7]  |
//	| m[8]  m[9]  m[10] m[11] |
//	| m[12] m[13] m[14] m[15] |
type Matrix4 [16]float64

// Identity4 returns the identity transform.
func Identity4() Matrix4 {
	return Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// MirrorYZ4 returns diag(-1, 1, 1, 1), reflection about the YZ plane.
func MirrorYZ4() Matrix4 {
	m := Identity4()
	m[0] = -1
	return m
}

// Translation4 returns a pure-translation transform.
func Translation4(tx, ty, tz float64) Matrix4 {
	m := Identity4()
	m[3], m[7], m[11] = tx, ty, tz
	return m
}

// FromRotationTranslation packs a row-major 3x3 rotation and a translation
// into a homogeneous Matrix4.
func FromRotationTranslation(r [9]float64, t [3]float64) Matrix4 {
	return Matrix4{
		r[0], r[1], r[2], t[0],
		r[3], r[4], r[5], t[1],
		r[6], r[7], r[8], t[2],
		0, 0, 0, 1,
	}
}

// Rotation3 extracts the upper-left 3x3 rotation/scale block, row-major.
func (m Matrix4) Rotation3() [9]float64 {
	return [9]float64{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// Translation extracts the translation column.
func (m Matrix4) Translation() [3]float64 {
	return [3]float64{m[3], m[7], m[11]}
}

// Mul computes m * o (apply o first, then m).
func (m Matrix4) Mul(o Matrix4) Matrix4 {
	var out Matrix4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += m[row*4+k] * o[k*4+col]
			}
			out[row*4+col] = sum
		}
	}
	return out
}

// Transpose returns the matrix transpose.
func (m Matrix4) Transpose() Matrix4 {
	var out Matrix4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			out[col*4+row] = m[row*4+col]
		}
	}
	return out
}

// Apply transforms a homogeneous point (x, y, z, 1).
func (m Matrix4) Apply(x, y, z float64) (nx, ny, nz float64) {
	nx = m[0]*x + m[1]*y + m[2]*z + m[3]
	ny = m[4]*x + m[5]*y + m[6]*z + m[7]
	nz = m[8]*x + m[9]*y + m[10]*z + m[11]
	return
}

// ApplyVector transforms a direction (x, y, z, 0), ignoring translation.
func (m Matrix4) ApplyVector(x, y, z float64) (nx, ny, nz float64) {
	nx = m[0]*x + m[1]*y + m[2]*z
	ny = m[4]*x + m[5]*y + m[6]*z
	nz = m[8]*x + m[9]*y + m[10]*z
	return
}

// Det3 returns the determinant of the upper-left 3x3 block, used to detect
// reflections introduced by numerical drift in a rotation fit.
func (m Matrix4) Det3() float64 {
	a, b, c := m[0], m[1], m[2]
	d, e, f := m[4], m[5], m[6]
	g, h, i := m[8], m[9], m[10]
	return a*(e*i-f*h) - b*(d*i-f*g) + c*(d*h-e*g)
}

// ApproxEqual reports whether m and o agree within eps entrywise.
func (m Matrix4) ApproxEqual(o Matrix4, eps float64) bool {
	for i := range m {
		if math.Abs(m[i]-o[i]) > eps {
			return false
		}
	}
	return true
}
