package stereo

import "github.com/LdDl/ptv-go/internal/camera"

// matchDegraded runs the (N-1)-wise matcher once per candidate missing
// camera. For each mcam it is seeded in turn from every other remaining
// camera (an anchor placed first in the search order), restricted to
// detections the full match hasn't already claimed; within one mcam pass
// the resulting tuples are deduplicated before being folded into the
// overall result, which is deduplicated again across mcam values.
func matchDegraded(cams []camera.Camera, corrected [][]camera.Point, pl PairList, minDist3D float64, usedByFull [][]bool) []tuple {
	ncams := len(cams)
	tol2 := minDist3D * minDist3D

	var all []tuple
	for mcam := 0; mcam < ncams; mcam++ {
		remaining := make([]int, 0, ncams-1)
		for c := 0; c < ncams; c++ {
			if c != mcam {
				remaining = append(remaining, c)
			}
		}

		var mcamTuples []tuple
		for _, icam := range remaining {
			ordered := make([]int, 0, len(remaining))
			ordered = append(ordered, icam)
			for _, c := range remaining {
				if c != icam {
					ordered = append(ordered, c)
				}
			}

			skip := func(cam, where int) bool {
				return usedByFull[cam][where]
			}
			raw := growTuples(ordered, corrected, pl, skip)

			camsSubset := make([]camera.Camera, len(ordered))
			for idx, c := range ordered {
				camsSubset[idx] = cams[c]
			}

			for _, where := range raw {
				points := make([]camera.Point, len(ordered))
				for idx, w := range where {
					points[idx] = corrected[ordered[idx]][w]
				}
				world, residual := triangulate(camsSubset, points)
				if residual >= tol2 {
					continue
				}

				indices := make([]int, ncams)
				fullPoints := make([]camera.Point, ncams)
				for i := range indices {
					indices[i] = -1
				}
				for idx, c := range ordered {
					indices[c] = where[idx]
					fullPoints[c] = points[idx]
				}

				mcamTuples = append(mcamTuples, tuple{
					indices:  indices,
					points:   fullPoints,
					missing:  mcam,
					world:    world,
					residual: residual,
				})
			}
		}

		mcamTuples = dedupeTuples(mcamTuples)
		all = append(all, mcamTuples...)
	}

	return dedupeTuples(all)
}
