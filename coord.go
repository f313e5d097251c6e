package lastfit

import "math"

// Coord3D is a point or vector in R^3. It is a value type throughout this
// package, mirroring the teacher's Coord3D convention of passing geometry by
// value rather than by pointer.
type Coord3D struct {
	X, Y, Z float64
}

// Add returns c + o.
func (c Coord3D) Add(o Coord3D) Coord3D {
	return Coord3D{c.X + o.X, c.Y + o.Y, c.Z + o.Z}
}

// Sub returns c - o.
func (c Coord3D) Sub(o Coord3D) Coord3D {
	return Coord3D{c.X - o.X, c.Y - o.Y, c.Z - o.Z}
}

// Scale returns c scaled by s.
func (c Coord3D) Scale(s float64) Coord3D {
	return Coord3D{c.X * s, c.Y * s, c.Z * s}
}

// Dot returns the scalar dot product of c and o.
func (c Coord3D) Dot(o Coord3D) float64 {
	return c.X*o.X + c.Y*o.Y + c.Z*o.Z
}

// Cross returns the cross product c x o.
func (c Coord3D) Cross(o Coord3D) Coord3D {
	return Coord3D{
		c.Y*o.Z - c.Z*o.Y,
		c.Z*o.X - c.X*o.Z,
		c.X*o.Y - c.Y*o.X,
	}
}

// Norm returns the Euclidean length of c.
func (c Coord3D) Norm() float64 {
	return math.Sqrt(c.Dot(c))
}

// Dist returns the Euclidean distance between c and o.
func (c Coord3D) Dist(o Coord3D) float64 {
	return c.Sub(o).Norm()
}

// Normalize returns c scaled to unit length. The zero vector is returned
// unchanged rather than producing NaNs.
func (c Coord3D) Normalize() Coord3D {
	n := c.Norm()
	if n == 0 {
		return c
	}
	return c.Scale(1 / n)
}

// Mid returns the midpoint of c and o.
func (c Coord3D) Mid(o Coord3D) Coord3D {
	return c.Add(o).Scale(0.5)
}

// Min returns the component-wise minimum of c and o.
func (c Coord3D) Min(o Coord3D) Coord3D {
	return Coord3D{math.Min(c.X, o.X), math.Min(c.Y, o.Y), math.Min(c.Z, o.Z)}
}

// Max returns the component-wise maximum of c and o.
func (c Coord3D) Max(o Coord3D) Coord3D {
	return Coord3D{math.Max(c.X, o.X), math.Max(c.Y, o.Y), math.Max(c.Z, o.Z)}
}

// Array returns c as a [3]float64, the shape gonum and rtreego helpers want.
func (c Coord3D) Array() [3]float64 {
	return [3]float64{c.X, c.Y, c.Z}
}

// NewCoord3DArray builds a Coord3D from a [3]float64.
func NewCoord3DArray(a [3]float64) Coord3D {
	return Coord3D{a[0], a[1], a[2]}
}
