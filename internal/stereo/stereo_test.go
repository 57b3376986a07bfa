package stereo

import (
	"math"
	"testing"

	"github.com/LdDl/ptv-go/internal/camera"
	"github.com/LdDl/ptv-go/internal/frame"
	"github.com/LdDl/ptv-go/internal/geom"
)

const eps = 1e-6

// axisRig builds four cameras on the world axes (+Z, +X, +Y, -Y), each
// 1000 mm from the origin and aimed at it. The rows of each rotation R
// are the sensor x axis, the sensor y axis and the viewing direction;
// Rinv is the transpose of R, T = -R*center and Tinv is the center. No
// camera's center lies in another camera's focal plane, so every
// center projects to a finite point on every other sensor.
func axisRig() []camera.Camera {
	const distance = 1000.0
	specs := []struct {
		center geom.Vec3
		r      [9]float64
	}{
		{geom.Vec3{X: 0, Y: 0, Z: distance}, [9]float64{1, 0, 0, 0, -1, 0, 0, 0, -1}},
		{geom.Vec3{X: distance, Y: 0, Z: 0}, [9]float64{0, 1, 0, 0, 0, -1, -1, 0, 0}},
		{geom.Vec3{X: 0, Y: distance, Z: 0}, [9]float64{1, 0, 0, 0, 0, 1, 0, -1, 0}},
		{geom.Vec3{X: 0, Y: -distance, Z: 0}, [9]float64{1, 0, 0, 0, 0, -1, 0, 1, 0}},
	}
	cams := make([]camera.Camera, len(specs))
	for i, s := range specs {
		var rinv [9]float64
		for row := 0; row < 3; row++ {
			for col := 0; col < 3; col++ {
				rinv[col*3+row] = s.r[row*3+col]
			}
		}
		r := geom.Matrix3FromRowMajor(s.r)
		t := r.MulVec(s.center).Scale(-1)
		cams[i] = camera.New(1024, 1024, 0.01, 0.01, 50.0, 0.0, 0.0,
			r, t, geom.Matrix3FromRowMajor(rinv), s.center)
	}
	return cams
}

// detectionFor runs a world point through the forward camera model
// (WorldToImage then Distort) to synthesize the pixel detection a real
// particle finder would have produced for that camera.
func detectionFor(cam camera.Camera, world geom.Vec3) frame.Detection {
	p := cam.Distort(cam.WorldToImage(camera.Point{X: world.X, Y: world.Y, Z: world.Z}))
	return frame.Detection{X: p.X, Y: p.Y, Orientation: p.Ori, Camera: frame.NoCamera}
}

func framesFor(cams []camera.Camera, world geom.Vec3, skip map[int]bool) []frame.Frame {
	frames := make([]frame.Frame, len(cams))
	for i, cam := range cams {
		if skip[i] {
			frames[i] = frame.Empty()
			continue
		}
		frames[i] = frame.NewFrame([]frame.Detection{detectionFor(cam, world)})
	}
	return frames
}

func TestMatchTrivialTriangulation(t *testing.T) {
	cams := axisRig()
	frames := framesFor(cams, geom.Vec3{X: 0, Y: 0, Z: 0}, nil)

	wf, err := Match(cams, frames, 1.0, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wf.Positions) != 1 {
		t.Fatalf("expected 1 matched position, got %d", len(wf.Positions))
	}
	pos := wf.Positions[0]
	if math.Abs(pos.X) > 1e-3 || math.Abs(pos.Y) > 1e-3 || math.Abs(pos.Z) > 1e-3 {
		t.Errorf("expected world point near origin, got (%v, %v, %v)", pos.X, pos.Y, pos.Z)
	}
	if pos.Residual > 1e-6 {
		t.Errorf("expected near-zero residual, got %v", pos.Residual)
	}
	for i, c := range pos.Cameras {
		if c.Missing {
			t.Errorf("camera %d unexpectedly marked missing", i)
		}
	}
}

func TestMatchEpipolarRejection(t *testing.T) {
	cams := axisRig()[:2]
	frames := []frame.Frame{
		frame.NewFrame([]frame.Detection{detectionFor(cams[0], geom.Vec3{X: 0, Y: 0, Z: 0})}),
		frame.NewFrame([]frame.Detection{detectionFor(cams[1], geom.Vec3{X: 500, Y: 500, Z: 0})}),
	}

	wf, err := Match(cams, frames, 1.0, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wf.Positions) != 0 {
		t.Errorf("expected no matched position, got %d", len(wf.Positions))
	}
}

func TestMatchThreeOfFourFallback(t *testing.T) {
	cams := axisRig()
	frames := framesFor(cams, geom.Vec3{X: 0, Y: 0, Z: 0}, map[int]bool{2: true})

	wf, err := Match(cams, frames, 1.0, 1.0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(wf.Positions) != 1 {
		t.Fatalf("expected exactly 1 degraded match, got %d", len(wf.Positions))
	}
	pos := wf.Positions[0]
	if !pos.Cameras[2].Missing {
		t.Fatalf("expected camera 2 marked missing")
	}
	if pos.Cameras[2].Orientation != 2 {
		t.Errorf("expected missing-camera marker 2, got %v", pos.Cameras[2].Orientation)
	}
	for _, i := range []int{0, 1, 3} {
		if pos.Cameras[i].Missing {
			t.Errorf("camera %d unexpectedly marked missing", i)
		}
	}
}

func TestDedupeTuplesKeepsSmallestResidual(t *testing.T) {
	tuples := []tuple{
		{indices: []int{0, 1, 2, 3}, missing: noMissing, residual: 0.5},
		{indices: []int{0, 4, 5, 6}, missing: noMissing, residual: 0.2},
		{indices: []int{7, 8, 9, 10}, missing: noMissing, residual: 0.9},
	}
	out := dedupeTuples(tuples)
	if len(out) != 2 {
		t.Fatalf("expected 2 surviving tuples, got %d", len(out))
	}
	residuals := map[float64]bool{}
	for _, tp := range out {
		residuals[tp.residual] = true
	}
	if !residuals[0.2] || residuals[0.5] {
		t.Errorf("expected the 0.2-residual tuple to win over 0.5, got residuals %v", residuals)
	}
	if !residuals[0.9] {
		t.Errorf("expected the non-conflicting 0.9-residual tuple to survive, got %v", residuals)
	}
}

func TestDedupeTuplesIgnoresMissingSlots(t *testing.T) {
	tuples := []tuple{
		{indices: []int{-1, 1, 2, 3}, missing: 0, residual: 0.3},
		{indices: []int{-1, 9, 9, 9}, missing: 0, residual: 0.1},
	}
	out := dedupeTuples(tuples)
	if len(out) != 2 {
		t.Errorf("expected both tuples to survive since both have the missing slot at -1, got %d", len(out))
	}
}
