package lastfit

// PointCloud is a set of points with optional per-point normals and FPFH
// feature descriptors, the shape C3/C4/C5 pass between each other. N and F
// are nil when not yet computed.
type PointCloud struct {
	P []Coord3D
	N []Coord3D
	F [][33]float64
}
