package track

import (
	"math"

	"github.com/LdDl/ptv-go/internal/frame"
)

// candidate pairs a detection's index in the next frame with the cost
// of linking it to a track.
type candidate struct {
	index int
	cost  float64
}

// candidates returns every detection in next within maxDisp of the
// track's kinematic estimate, scored according to mode. FRAME4 instead
// scores each such candidate by its look-ahead residual: the squared
// distance from a second extrapolation step to the nearest detection in
// nextNext. Pass nil when the next-next frame does not exist (the final
// transition in a run), in which case FRAME4 falls back to FRAME3's
// direct-distance cost.
func (t *Track) candidates(mode Mode, next frame.WorldFrame, nextNext *frame.WorldFrame, maxDisp float64) []candidate {
	est, velocity, _ := t.estimate(mode)
	last := t.vecAt(len(t.Positions) - 1)

	var out []candidate
	for i, p := range next.Positions {
		c := posVec(p)
		disp := c.Sub(est)
		if disp.Magnitude() > maxDisp {
			continue
		}
		cost := disp.Magnitude2()
		if mode == FRAME4 && nextNext != nil && len(nextNext.Positions) > 0 {
			newVelocity := c.Sub(last)
			newAcceleration := newVelocity.Sub(velocity)
			lookAhead := c.Add(newVelocity).Add(newAcceleration.Scale(0.5))
			best := math.Inf(1)
			for _, q := range nextNext.Positions {
				d2 := lookAhead.Sub(posVec(q)).Magnitude2()
				if d2 < best {
					best = d2
				}
			}
			cost = best
		}
		out = append(out, candidate{index: i, cost: cost})
	}
	return out
}
