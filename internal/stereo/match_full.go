package stereo

import "github.com/LdDl/ptv-go/internal/camera"

// matchFull finds every N-wise consistent tuple anchored on camera 0 and
// triangulates it, keeping those whose residual clears mindist_3D.
func matchFull(cams []camera.Camera, corrected [][]camera.Point, pl PairList, minDist3D float64) []tuple {
	ncams := len(cams)
	active := make([]int, ncams)
	for i := range active {
		active[i] = i
	}

	tol2 := minDist3D * minDist3D
	raw := growTuples(active, corrected, pl, nil)

	tuples := make([]tuple, 0, len(raw))
	for _, where := range raw {
		points := make([]camera.Point, ncams)
		for i, w := range where {
			points[i] = corrected[i][w]
		}
		world, residual := triangulate(cams, points)
		if residual >= tol2 {
			continue
		}
		tuples = append(tuples, tuple{
			indices:  append([]int(nil), where...),
			points:   points,
			missing:  noMissing,
			world:    world,
			residual: residual,
		})
	}
	return tuples
}
