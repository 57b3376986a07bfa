package track

import (
	"sort"

	"github.com/LdDl/ptv-go/internal/frame"
)

// LinkingAlgorithm selects how contested track-to-detection bids are
// resolved.
type LinkingAlgorithm int

const (
	// AssignGreedy has each active track nominate its single
	// lowest-cost candidate, then resolves contested detections in
	// ascending cost order: the cheapest bidder wins a detection,
	// losers stay unlinked for this frame. This is the default.
	AssignGreedy LinkingAlgorithm = iota
	// AssignHungarian solves the full track-by-detection cost table
	// for a globally optimal assignment instead of a local
	// nominate-then-resolve pass.
	AssignHungarian
)

// Config holds the tracker's tunable parameters.
type Config struct {
	// MinTrack is the minimum number of real positions a track must
	// reach before it is emitted.
	MinTrack int
	// Memory is the maximum number of consecutive occluded frames a
	// track tolerates before retirement.
	Memory int
	// MaxDisp bounds both candidate acceptance and extrapolation step
	// size, in world units.
	MaxDisp float64
	// FPS scales frame numbers into emitted track time; unused by the
	// tracker itself, carried for callers building output records.
	FPS float64
	// Mode selects the cost function.
	Mode Mode
	// Linking selects the conflict-resolution algorithm.
	Linking LinkingAlgorithm
}

// Tracker maintains active tracks across a sequence of 3D frames,
// predicting continuations, linking detections, padding through
// occlusions, and retiring or emitting finished tracks.
type Tracker struct {
	cfg      Config
	tracks   map[int64]*Track
	active   []int64
	nextID   int64
	finished []*Track
}

// New creates an empty Tracker with the given configuration.
func New(cfg Config) *Tracker {
	return &Tracker{
		cfg:    cfg,
		tracks: make(map[int64]*Track),
	}
}

// Run drives the tracker across a full sequence of 3D frames, frame
// numbers and positions in lockstep, and returns every emitted track in
// ascending id order (frame-then-scan order, since ids are assigned
// monotonically in that order).
func (tr *Tracker) Run(frameNumbers []int, frames []frame.WorldFrame) []*Track {
	if len(frames) == 0 {
		return nil
	}
	tr.seedFrame(frameNumbers[0], frames[0])
	for k := 0; k < len(frames)-1; k++ {
		var nextNext *frame.WorldFrame
		if k+2 < len(frames) {
			nextNext = &frames[k+2]
		}
		tr.step(frameNumbers[k+1], frames[k+1], nextNext)
	}
	tr.flush()
	sort.Slice(tr.finished, func(i, j int) bool { return tr.finished[i].ID < tr.finished[j].ID })
	return tr.finished
}

// seedFrame starts one new track per detection, in scan order. Used
// for the very first frame, which has no predecessor to link from.
func (tr *Tracker) seedFrame(frameNumber int, wf frame.WorldFrame) {
	for _, pos := range wf.Positions {
		tk := &Track{ID: tr.nextID}
		tr.nextID++
		tk.appendReal(frameNumber, pos)
		tr.tracks[tk.ID] = tk
		tr.active = append(tr.active, tk.ID)
	}
}

// step advances every active track by one frame: link what can be
// linked, pad or retire what can't, then seed new tracks from whatever
// detections remain unclaimed.
func (tr *Tracker) step(frameNumber int, next frame.WorldFrame, nextNext *frame.WorldFrame) {
	links := tr.assign(next, nextNext)

	matched := make(map[int64]bool, len(tr.active))
	for _, trackID := range links {
		if trackID != Unlinked {
			matched[trackID] = true
		}
	}

	newActive := make([]int64, 0, len(tr.active)+len(next.Positions))
	for _, id := range tr.active {
		if matched[id] {
			newActive = append(newActive, id)
			continue
		}
		tk := tr.tracks[id]
		if tk.occlusion >= tr.cfg.Memory {
			tr.retire(tk)
			continue
		}
		if len(tk.Positions) <= 2 {
			continue
		}
		tk.appendFake(frameNumber, tr.cfg.MaxDisp)
		newActive = append(newActive, id)
	}

	for i, trackID := range links {
		if trackID != Unlinked {
			tr.tracks[trackID].appendReal(frameNumber, next.Positions[i])
		}
	}

	for i, trackID := range links {
		if trackID != Unlinked {
			continue
		}
		tk := &Track{ID: tr.nextID}
		tr.nextID++
		tk.appendReal(frameNumber, next.Positions[i])
		tr.tracks[tk.ID] = tk
		newActive = append(newActive, tk.ID)
	}

	tr.active = newActive
}

// retire emits a track if it reached MinTrack real (non-fake)
// positions, else drops it silently.
func (tr *Tracker) retire(tk *Track) {
	realCount := 0
	for _, p := range tk.Positions {
		if !p.Fake {
			realCount++
		}
	}
	if realCount >= tr.cfg.MinTrack {
		tr.finished = append(tr.finished, tk)
	}
}

// flush retires every still-active track at the end of a run, under
// the same MinTrack filter.
func (tr *Tracker) flush() {
	for _, id := range tr.active {
		tr.retire(tr.tracks[id])
	}
}
