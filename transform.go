package lastfit

import "github.com/kwv/lastfit/numerical"

// Transform is a rigid (optionally mirrored) transform in SE(3), represented
// as a flat row-major 4x4 homogeneous matrix.
type Transform = numerical.Matrix4
