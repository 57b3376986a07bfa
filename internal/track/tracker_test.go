package track

import (
	"testing"

	"github.com/LdDl/ptv-go/internal/frame"
)

func singleParticleFrames(n int, skip map[int]bool) ([]int, []frame.WorldFrame) {
	frameNumbers := make([]int, n)
	frames := make([]frame.WorldFrame, n)
	for i := 0; i < n; i++ {
		frameNumbers[i] = i
		if skip[i] {
			frames[i] = frame.WorldFrame{}
			continue
		}
		frames[i] = frame.WorldFrame{Positions: []frame.WorldPosition{{X: float64(i)}}}
	}
	return frameNumbers, frames
}

func TestStraightLineTracking(t *testing.T) {
	frameNumbers, frames := singleParticleFrames(20, nil)
	tr := New(Config{MinTrack: 10, Memory: 2, MaxDisp: 2, Mode: FRAME3, Linking: AssignGreedy})
	tracks := tr.Run(frameNumbers, frames)

	if len(tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(tracks))
	}
	tk := tracks[0]
	if got := tk.Length(); got != 20 {
		t.Fatalf("Length() = %d, want 20", got)
	}
	for i, p := range tk.Positions {
		if p.Fake {
			t.Fatalf("position %d unexpectedly fake", i)
		}
	}
}

func TestOcclusionPadsInteriorGap(t *testing.T) {
	frameNumbers, frames := singleParticleFrames(20, map[int]bool{10: true})
	tr := New(Config{MinTrack: 10, Memory: 2, MaxDisp: 2, Mode: FRAME3, Linking: AssignGreedy})
	tracks := tr.Run(frameNumbers, frames)

	if len(tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(tracks))
	}
	tk := tracks[0]
	if got := len(tk.Positions); got != 20 {
		t.Fatalf("total positions = %d, want 20", got)
	}
	if got := tk.Length(); got != 20 {
		t.Fatalf("Length() = %d, want 20 (the fake sits in the interior, not trailing)", got)
	}

	realCount := 0
	fakeAtTen := false
	for i, p := range tk.Positions {
		if p.Fake {
			if tk.Frames[i] == 10 {
				fakeAtTen = true
			}
			continue
		}
		realCount++
	}
	if !fakeAtTen {
		t.Fatalf("expected the fake position to land at frame 10")
	}
	wantReal := 19
	if realCount != wantReal {
		t.Fatalf("real position count = %d, want %d", realCount, wantReal)
	}
}

func TestTooShortTrackIsDropped(t *testing.T) {
	frameNumbers, frames := singleParticleFrames(5, nil)
	tr := New(Config{MinTrack: 10, Memory: 2, MaxDisp: 2, Mode: FRAME3, Linking: AssignGreedy})
	tracks := tr.Run(frameNumbers, frames)
	if len(tracks) != 0 {
		t.Fatalf("got %d tracks, want 0 (below MinTrack)", len(tracks))
	}
}

func TestConflictResolvedByLowestCost(t *testing.T) {
	tr := New(Config{MinTrack: 1, Memory: 2, MaxDisp: 5, Mode: FRAME3, Linking: AssignGreedy})
	tr.seedFrame(0, frame.WorldFrame{Positions: []frame.WorldPosition{{X: 0}, {X: 10}}})
	tr.tracks[0].appendReal(1, frame.WorldPosition{X: 1})
	tr.tracks[1].appendReal(1, frame.WorldPosition{X: 9})

	// Track 0 estimates x=2 (velocity +1), track 1 estimates x=8
	// (velocity -1); a single shared candidate at x=4 is closer to
	// track 0, which should win it. Track 1, left unlinked with only two
	// positions, is too short to extrapolate and is dropped.
	next := frame.WorldFrame{Positions: []frame.WorldPosition{{X: 4}}}
	tr.step(2, next, nil)

	winner := tr.tracks[0]
	loser := tr.tracks[1]
	if len(winner.Positions) != 3 {
		t.Fatalf("track 0 should have linked the shared detection, has %d positions", len(winner.Positions))
	}
	if len(loser.Positions) != 2 {
		t.Fatalf("track 1 should have lost the conflict and gained no position, has %d positions", len(loser.Positions))
	}
	for _, id := range tr.active {
		if id == loser.ID {
			t.Fatalf("track 1 should have lost the conflict and been dropped from the active set")
		}
	}
}

func TestHungarianModeProducesOneToOneLinks(t *testing.T) {
	frameNumbers, frames := singleParticleFrames(15, nil)
	tr := New(Config{MinTrack: 10, Memory: 2, MaxDisp: 2, Mode: FRAME3, Linking: AssignHungarian})
	tracks := tr.Run(frameNumbers, frames)
	if len(tracks) != 1 {
		t.Fatalf("got %d tracks, want 1", len(tracks))
	}
	if got := tracks[0].Length(); got != 15 {
		t.Fatalf("Length() = %d, want 15", got)
	}
}
