package stereo

import (
	"github.com/LdDl/ptv-go/internal/camera"
	"github.com/LdDl/ptv-go/internal/frame"
	"github.com/LdDl/ptv-go/internal/geom"
)

// noMissing marks a full, N-wise tuple (no camera was skipped).
const noMissing = -1

// tuple is one candidate (or accepted) multi-camera match: the
// where-index used on every camera (sentinel -1 at the skipped slot for
// a degraded match), the corrected 2D points that fed triangulation, and
// the triangulated world point with its residual.
type tuple struct {
	indices  []int
	points   []camera.Point
	missing  int
	world    geom.Vec3
	residual float64
}

func (t tuple) conflictsWith(other tuple) bool {
	for k := range t.indices {
		if t.indices[k] == -1 || other.indices[k] == -1 {
			continue
		}
		if t.indices[k] == other.indices[k] {
			return true
		}
	}
	return false
}

// tuplesToWorldFrame converts accepted tuples into world positions,
// redistorting every participating camera's corrected point back to
// pixel coordinates for the emitted record. A missing slot is encoded as
// a CameraObservation with Missing set and Orientation carrying the
// skipped camera's own index, preserving the original's sentinel
// encoding for compatibility alongside the explicit flag.
func tuplesToWorldFrame(cams []camera.Camera, tuples []tuple) frame.WorldFrame {
	positions := make([]frame.WorldPosition, 0, len(tuples))
	for _, t := range tuples {
		obs := make([]frame.CameraObservation, len(cams))
		for i, cam := range cams {
			if t.indices[i] == -1 {
				obs[i] = frame.CameraObservation{Missing: true, Orientation: float64(t.missing)}
				continue
			}
			d := cam.Distort(t.points[i])
			obs[i] = frame.CameraObservation{X: d.X, Y: d.Y, Orientation: d.Ori}
		}
		positions = append(positions, frame.WorldPosition{
			X:        t.world.X,
			Y:        t.world.Y,
			Z:        t.world.Z,
			Residual: t.residual,
			Cameras:  obs,
		})
	}
	return frame.WorldFrame{Positions: positions}
}
