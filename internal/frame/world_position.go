package frame

// CameraObservation is one camera's contribution to a triangulated world
// point: its redistorted pixel coordinates and orientation, or a
// "missing" marker when that camera took no part (degraded match).
type CameraObservation struct {
	X           float64
	Y           float64
	Orientation float64
	// Missing marks a sentinel slot for a camera that did not
	// contribute to this tuple (a degraded, (N-1)-wise match). The
	// on-disk record format overloads Orientation == camera index to
	// signal this case; Missing is an explicit flag carried alongside
	// it so in-memory consumers don't have to decode the sentinel.
	Missing bool
}

// WorldPosition is one triangulated 3D point: world coordinates, the
// least-squares residual, and the per-camera 2D observations (redistorted
// back to pixels) that produced it. Fixed width per camera count.
type WorldPosition struct {
	X        float64
	Y        float64
	Z        float64
	Residual float64
	Cameras  []CameraObservation
	// Fake marks a position appended to a track by kinematic
	// extrapolation rather than triangulation.
	Fake bool
}

// WorldFrame is the 3D consensus sequence for one timestep: one
// WorldPosition per matched particle.
type WorldFrame struct {
	Positions []WorldPosition
}

// NumParticles returns the number of matched 3D points in the frame.
func (f WorldFrame) NumParticles() int {
	return len(f.Positions)
}
