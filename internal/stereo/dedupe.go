package stereo

// dedupeTuples removes tuples that reuse any 2D detection, keeping the
// one with the smallest residual among any conflicting group. Processes
// in scan order and stops comparing a tuple once it has been marked bad,
// matching the original pruning loop so the result is deterministic for
// a given input order.
func dedupeTuples(tuples []tuple) []tuple {
	bad := make([]bool, len(tuples))
	for i := range tuples {
		if bad[i] {
			continue
		}
		min := tuples[i].residual
		for j := i + 1; j < len(tuples); j++ {
			if bad[j] {
				continue
			}
			if !tuples[i].conflictsWith(tuples[j]) {
				continue
			}
			if min < tuples[j].residual {
				bad[j] = true
			} else {
				min = tuples[j].residual
				bad[i] = true
				break
			}
		}
	}
	out := make([]tuple, 0, len(tuples))
	for i, t := range tuples {
		if !bad[i] {
			out = append(out, t)
		}
	}
	return out
}
