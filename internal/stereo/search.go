package stereo

import "github.com/LdDl/ptv-go/internal/camera"

// growTuples runs the branching consistency search described by the
// full/degraded matcher components over an explicit, ordered list of
// active cameras. cams[0] is the anchor. skip, if non-nil, excludes a
// (camera, where-index) pair from ever being chosen — used by the
// degraded pass to avoid re-using detections a full match already
// claimed.
//
// It returns every tuple that reaches length len(cams): a []int the
// same length as cams, where result[k] is the where-index chosen on
// camera cams[k].
func growTuples(cams []int, corrected [][]camera.Point, pl PairList, skip func(cam, where int) bool) [][]int {
	anchor := cams[0]
	var current [][]int
	for a := range corrected[anchor] {
		if skip != nil && skip(anchor, a) {
			continue
		}
		if !hasCandidateOnEveryLaterCamera(pl, anchor, a, cams[1:]) {
			continue
		}
		current = append(current, []int{a})
	}

	for idx := 1; idx < len(cams); idx++ {
		camI := cams[idx]
		var next [][]int
		for _, t := range current {
			for b := range corrected[camI] {
				if skip != nil && skip(camI, b) {
					continue
				}
				if !hasCandidateOnEveryLaterCamera(pl, camI, b, cams[idx+1:]) {
					continue
				}
				if !mutuallyConsistent(pl, cams[:idx], t, camI, b) {
					continue
				}
				extended := make([]int, len(t), len(t)+1)
				copy(extended, t)
				extended = append(extended, b)
				next = append(next, extended)
			}
		}
		current = next
		if len(current) == 0 {
			return nil
		}
	}
	return current
}

func hasCandidateOnEveryLaterCamera(pl PairList, cam, where int, later []int) bool {
	for _, k := range later {
		if len(pl.Candidates(cam, where, k)) == 0 {
			return false
		}
	}
	return true
}

// mutuallyConsistent tests whether candidate (camI, b) is consistent with
// every earlier entry of the partial tuple t (indexed against earlierCams):
// b must appear on earlierCam's pair-list toward camI, and the earlier
// detection must appear on camI's pair-list toward earlierCam.
func mutuallyConsistent(pl PairList, earlierCams, t []int, camI, b int) bool {
	for j, camJ := range earlierCams {
		whereJ := t[j]
		if !pl.Has(camI, b, camJ, whereJ) {
			return false
		}
		if !pl.Has(camJ, whereJ, camI, b) {
			return false
		}
	}
	return true
}
