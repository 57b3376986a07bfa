package track

import (
	kalman_filter "github.com/LdDl/kalman-filter"
	"github.com/pkg/errors"

	"github.com/LdDl/ptv-go/internal/frame"
)

// KalmanSmoother applies a post-hoc smoothing pass to a finished
// track's positions, the same way SimpleBlob wires
// kalman_filter.NewKalman2D around a blob's 2D center: one filter
// smooths (X, Y); since the library exposes no 3D state, a second
// filter smooths Z paired with a constant dummy channel whose output
// is discarded. This runs after tracking and never alters the
// velocity/acceleration model used during assignment.
type KalmanSmoother struct {
	dt      float64
	stdDevA float64
	stdDevM float64
}

// NewKalmanSmoother builds a smoother with the same default process
// and measurement noise SimpleBlob uses.
func NewKalmanSmoother(dt float64) KalmanSmoother {
	return KalmanSmoother{dt: dt, stdDevA: 2.0, stdDevM: 0.1}
}

// Smooth returns a copy of t with every non-fake position's (X, Y, Z)
// replaced by its Kalman-filtered estimate. Fake positions pass
// through unsmoothed: they already came from the same kinematic model
// the filter would re-derive.
func (s KalmanSmoother) Smooth(t *Track) (*Track, error) {
	out := &Track{
		ID:        t.ID,
		Frames:    append([]int(nil), t.Frames...),
		Positions: append([]frame.WorldPosition(nil), t.Positions...),
	}
	if len(t.Positions) == 0 {
		return out, nil
	}

	first := t.Positions[0]
	xy := kalman_filter.NewKalman2D(s.dt, 1.0, 1.0, s.stdDevA, s.stdDevM, s.stdDevM, kalman_filter.WithState2D(first.X, first.Y))
	z := kalman_filter.NewKalman2D(s.dt, 1.0, 1.0, s.stdDevA, s.stdDevM, s.stdDevM, kalman_filter.WithState2D(first.Z, 0))

	for i, p := range t.Positions {
		if p.Fake {
			continue
		}
		xy.Predict()
		if err := xy.Update(p.X, p.Y); err != nil {
			return nil, errors.Wrapf(err, "smooth track %d: update xy at frame %d", t.ID, t.Frames[i])
		}
		sx, sy := xy.GetState()

		z.Predict()
		if err := z.Update(p.Z, 0); err != nil {
			return nil, errors.Wrapf(err, "smooth track %d: update z at frame %d", t.ID, t.Frames[i])
		}
		sz, _ := z.GetState()

		out.Positions[i].X = sx
		out.Positions[i].Y = sy
		out.Positions[i].Z = sz
	}
	return out, nil
}
