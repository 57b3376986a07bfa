package track

import (
	"math"
	"testing"
)

func TestKalmanSmootherPreservesTrackShape(t *testing.T) {
	tk := straightLineTrack(10)
	tk.appendFake(10, 2)

	smoother := NewKalmanSmoother(1.0)
	smoothed, err := smoother.Smooth(tk)
	if err != nil {
		t.Fatalf("Smooth returned error: %v", err)
	}
	if len(smoothed.Positions) != len(tk.Positions) {
		t.Fatalf("smoothed track has %d positions, want %d", len(smoothed.Positions), len(tk.Positions))
	}
	if smoothed.ID != tk.ID {
		t.Fatalf("smoothed track ID = %d, want %d", smoothed.ID, tk.ID)
	}

	fakeIdx := len(smoothed.Positions) - 1
	if !smoothed.Positions[fakeIdx].Fake {
		t.Fatalf("fake position should remain marked fake after smoothing")
	}
	if smoothed.Positions[fakeIdx].X != tk.Positions[fakeIdx].X {
		t.Fatalf("fake position should pass through unchanged")
	}

	for i := 1; i < fakeIdx; i++ {
		if math.IsNaN(smoothed.Positions[i].X) {
			t.Fatalf("smoothed X at %d is NaN", i)
		}
	}
}

func TestKalmanSmootherEmptyTrack(t *testing.T) {
	tk := &Track{ID: 7}
	smoother := NewKalmanSmoother(1.0)
	smoothed, err := smoother.Smooth(tk)
	if err != nil {
		t.Fatalf("Smooth returned error: %v", err)
	}
	if len(smoothed.Positions) != 0 {
		t.Fatalf("expected empty smoothed track")
	}
}
