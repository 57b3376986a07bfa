package stereo

import (
	"github.com/pkg/errors"

	"github.com/LdDl/ptv-go/internal/camera"
	"github.com/LdDl/ptv-go/internal/frame"
)

// Match performs one synchronized multi-camera stereo match: it builds
// the epipolar candidate graph, finds every N-wise consistent tuple,
// then retries with one camera skipped at a time for detections the full
// match left over, and triangulates everything that survives into a
// WorldFrame. A missing per-camera frame (an empty Frame) is valid input
// and simply yields no candidates from that camera.
func Match(cams []camera.Camera, frames []frame.Frame, minDist2D, minDist3D float64) (frame.WorldFrame, error) {
	if len(cams) != len(frames) {
		return frame.WorldFrame{}, errors.Errorf("stereo match: %d cameras but %d input frames", len(cams), len(frames))
	}
	if len(cams) < 2 {
		return frame.WorldFrame{}, errors.New("stereo match: at least two cameras are required")
	}

	corrected := undistortAll(cams, frames)
	pl := buildPairList(cams, corrected, minDist2D)

	full := dedupeTuples(matchFull(cams, corrected, pl, minDist3D))

	used := make([][]bool, len(cams))
	for i := range used {
		used[i] = make([]bool, len(corrected[i]))
	}
	for _, t := range full {
		for i, idx := range t.indices {
			if idx >= 0 {
				used[i][idx] = true
			}
		}
	}

	degraded := matchDegraded(cams, corrected, pl, minDist3D, used)

	all := make([]tuple, 0, len(full)+len(degraded))
	all = append(all, full...)
	all = append(all, degraded...)

	return tuplesToWorldFrame(cams, all), nil
}
