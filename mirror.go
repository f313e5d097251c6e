package lastfit

import "github.com/kwv/lastfit/numerical"

// RegistrationConfig bundles the RANSAC and ICP parameters AlignWithMirror
// threads through to CoarseRegister and PointToPlaneICP.
type RegistrationConfig struct {
	RANSAC RANSACConfig
	ICP    ICPConfig
}

// RegistrationResult is the outcome of AlignWithMirror: the chosen rigid
// transform, its Chamfer distance score, and whether it includes the YZ
// mirror.
type RegistrationResult struct {
	T        Transform
	Chamfer  float64
	Mirrored bool
}

// AlignWithMirror registers source onto target twice: once directly, once
// with source reflected about the YZ plane first (for left/right shoe-last
// symmetry), and returns whichever variant achieves the lower Chamfer
// distance after ICP refinement.
func AlignWithMirror(source, target PointCloud, cfg RegistrationConfig) RegistrationResult {
	direct := registerOnce(source, target, cfg, false)
	mirrored := registerOnce(mirrorCloud(source), target, cfg, true)

	if mirrored.Chamfer < direct.Chamfer {
		return mirrored
	}
	return direct
}

func registerOnce(source, target PointCloud, cfg RegistrationConfig, mirrored bool) RegistrationResult {
	coarse := CoarseRegister(source, target, cfg.RANSAC)
	refined, _, _ := PointToPlaneICP(source, target, coarse, cfg.ICP)

	transformed := make([]Coord3D, len(source.P))
	for i, p := range source.P {
		x, y, z := refined.Apply(p.X, p.Y, p.Z)
		transformed[i] = Coord3D{x, y, z}
	}

	final := refined
	if mirrored {
		final = refined.Mul(numerical.MirrorYZ4())
	}

	return RegistrationResult{
		T:        final,
		Chamfer:  ChamferDistance(transformed, target.P),
		Mirrored: mirrored,
	}
}

func mirrorCloud(pc PointCloud) PointCloud {
	mirrorTransform := numerical.MirrorYZ4()
	out := PointCloud{P: make([]Coord3D, len(pc.P))}
	for i, p := range pc.P {
		x, y, z := mirrorTransform.Apply(p.X, p.Y, p.Z)
		out.P[i] = Coord3D{x, y, z}
	}
	if pc.N != nil {
		out.N = make([]Coord3D, len(pc.N))
		for i, n := range pc.N {
			x, y, z := mirrorTransform.ApplyVector(n.X, n.Y, n.Z)
			out.N[i] = Coord3D{x, y, z}
		}
	}
	out.F = pc.F
	return out
}
