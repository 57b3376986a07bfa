// Package track links successive per-frame 3D position sets into
// trajectories using kinematic prediction, occlusion-tolerant gap
// filling, and a look-ahead cost function.
package track

import (
	"github.com/LdDl/ptv-go/internal/frame"
	"github.com/LdDl/ptv-go/internal/geom"
)

// Mode selects how far ahead the cost function looks when scoring a
// continuation detection.
type Mode int

const (
	// FRAME2 links to the nearest detection to the track's last
	// position; no velocity model.
	FRAME2 Mode = iota
	// FRAME3 links to the detection nearest the kinematic estimate
	// (velocity plus acceleration extrapolation).
	FRAME3
	// FRAME4 additionally scores each FRAME3-range candidate by how
	// well a second extrapolation step lands near a detection in the
	// frame after next.
	FRAME4
)

// Unlinked marks a detection or link slot with no assigned track.
const Unlinked = -1

// Track is an ordered sequence of world positions believed to be one
// physical particle, plus the bookkeeping needed to extend, pad, or
// retire it.
type Track struct {
	ID        int64
	Frames    []int
	Positions []frame.WorldPosition
	occlusion int
}

func posVec(p frame.WorldPosition) geom.Vec3 {
	return geom.Vec3{X: p.X, Y: p.Y, Z: p.Z}
}

func (t *Track) vecAt(i int) geom.Vec3 {
	return posVec(t.Positions[i])
}

// Last returns the track's most recent position.
func (t *Track) Last() frame.WorldPosition {
	return t.Positions[len(t.Positions)-1]
}

// estimate returns the track's predicted position in the next frame,
// plus the velocity and acceleration terms that produced it (FRAME4's
// look-ahead step reuses velocity to compute a second acceleration).
// FRAME2 never builds a velocity model; fewer than two positions (real
// or fake) means there is nothing yet to differentiate.
func (t *Track) estimate(mode Mode) (pos, velocity, acceleration geom.Vec3) {
	n := len(t.Positions)
	last := t.vecAt(n - 1)
	if mode == FRAME2 || n < 2 {
		return last, geom.Vec3{}, geom.Vec3{}
	}
	penultimate := t.vecAt(n - 2)
	velocity = last.Sub(penultimate)
	if n >= 3 {
		antepenultimate := t.vecAt(n - 3)
		acceleration = last.Sub(penultimate.Scale(2)).Add(antepenultimate)
	}
	pos = last.Add(velocity).Add(acceleration.Scale(0.5))
	return pos, velocity, acceleration
}

// Length reports the number of positions excluding any trailing run of
// estimated (fake) positions; a track's reported length never counts
// the extrapolated tail it is currently coasting on.
func (t *Track) Length() int {
	n := len(t.Positions)
	for n > 0 && t.Positions[n-1].Fake {
		n--
	}
	return n
}

// appendReal adds a triangulated position and resets the occlusion
// counter.
func (t *Track) appendReal(frameNumber int, pos frame.WorldPosition) {
	pos.Fake = false
	t.Frames = append(t.Frames, frameNumber)
	t.Positions = append(t.Positions, pos)
	t.occlusion = 0
}

// appendFake pads the track with an extrapolated position and increments
// the occlusion counter. If the kinematic step would displace the point
// by more than maxDisp, the extrapolation is distrusted entirely and the
// fake position holds still at the last real position instead, matching
// PadTracks's estimate-reset-to-last behavior.
func (t *Track) appendFake(frameNumber int, maxDisp float64) {
	last := t.vecAt(len(t.Positions) - 1)
	_, velocity, acceleration := t.estimate(FRAME3)
	step := velocity.Add(acceleration.Scale(0.5))
	next := last
	if step.Magnitude() <= maxDisp {
		next = last.Add(step)
	}
	t.Frames = append(t.Frames, frameNumber)
	t.Positions = append(t.Positions, frame.WorldPosition{X: next.X, Y: next.Y, Z: next.Z, Fake: true})
	t.occlusion++
}
