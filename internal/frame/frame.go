// Package frame implements the per-camera detection sequence and the 3D
// consensus sequence produced by stereo-matching.
package frame

import "github.com/LdDl/ptv-go/internal/camera"

// Detection is a single 2D particle detection on one camera's sensor.
// Immutable after creation.
type Detection struct {
	X           float64
	Y           float64
	Orientation float64
	// HasOrientation distinguishes "orientation is 0" from "no
	// orientation was measured" — the GDF record always carries a
	// float, but upstream particle finders that don't estimate
	// orientation write a sentinel the caller chooses to ignore.
	HasOrientation bool
	// Camera, if non-negative, tags the source camera. Optional; set by
	// multi-camera readers that interleave detections from several
	// streams into one sequence.
	Camera int
}

// Point converts a Detection to the pixel-space Point camera transforms
// operate on.
func (d Detection) Point() camera.Point {
	return camera.Point{X: d.X, Y: d.Y, Ori: d.Orientation}
}

// NoCamera marks a Detection with no associated source-camera tag.
const NoCamera = -1

// NewDetection builds a Detection with no orientation or camera tag.
func NewDetection(x, y float64) Detection {
	return Detection{X: x, Y: y, Camera: NoCamera}
}

// Frame is an ordered sequence of detections from one camera. A
// detection's position in the slice is its where-index: its identity for
// the duration of one stereo-match call.
type Frame struct {
	Detections []Detection
}

// NewFrame wraps a slice of detections as a Frame.
func NewFrame(detections []Detection) Frame {
	return Frame{Detections: detections}
}

// Empty returns an empty Frame, used when a camera misses a timestep.
func Empty() Frame {
	return Frame{}
}

// NumParticles returns the number of detections in the frame.
func (f Frame) NumParticles() int {
	return len(f.Detections)
}

// At returns the detection at the given where-index.
func (f Frame) At(i int) Detection {
	return f.Detections[i]
}
