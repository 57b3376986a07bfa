package gdf

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/LdDl/ptv-go/internal/frame"
)

func writeDetectionFixture(t *testing.T, records [][6]float64) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cam0.gdf")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	defer f.Close()

	h := header{Magic: magic, NDims: 2, Cols: 6, Rows: int32(len(records)), Type: typeDouble, Total: int32(6 * len(records))}
	if err := writeHeader(f, h); err != nil {
		t.Fatalf("write header: %v", err)
	}
	for _, rec := range records {
		for _, v := range rec {
			if err := binary.Write(f, binary.LittleEndian, v); err != nil {
				t.Fatalf("write record: %v", err)
			}
		}
	}
	return path
}

func TestReadDetectionsGroupsByFrame(t *testing.T) {
	// x, y, brightness, orientation, particlecount, framenum
	records := [][6]float64{
		{1.0, 2.0, 100, 0.5, 2, 0},
		{3.0, 4.0, 100, 0.6, 2, 0},
		{5.0, 6.0, 100, 0.1, 1, 1},
	}
	path := writeDetectionFixture(t, records)

	seq, err := ReadDetections(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(seq.Frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(seq.Frames))
	}
	if seq.FrameNumbers[0] != 0 || seq.FrameNumbers[1] != 1 {
		t.Errorf("wrong frame numbers: %v", seq.FrameNumbers)
	}
	if seq.Frames[0].NumParticles() != 2 {
		t.Errorf("expected 2 particles in frame 0, got %d", seq.Frames[0].NumParticles())
	}
	if seq.Frames[1].NumParticles() != 1 {
		t.Errorf("expected 1 particle in frame 1, got %d", seq.Frames[1].NumParticles())
	}
	if seq.Frames[0].At(1).X != 3.0 || seq.Frames[0].At(1).Y != 4.0 {
		t.Errorf("wrong detection values: %+v", seq.Frames[0].At(1))
	}
}

func TestReadDetectionsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.gdf")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create fixture: %v", err)
	}
	writeHeader(f, header{Magic: 1, NDims: 2, Cols: 6, Rows: 0, Type: typeDouble, Total: 0})
	f.Close()

	if _, err := ReadDetections(path); err == nil {
		t.Errorf("expected error for bad magic")
	}
}

func readAllFloats(t *testing.T, path string) []float64 {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	var h header
	for _, p := range []*int32{&h.Magic, &h.NDims, &h.Cols, &h.Rows, &h.Type, &h.Total} {
		if err := binary.Read(f, binary.LittleEndian, p); err != nil {
			t.Fatalf("read header: %v", err)
		}
	}
	if h.Magic != magic {
		t.Fatalf("bad magic in output: %d", h.Magic)
	}

	var out []float64
	for {
		var v float64
		err := binary.Read(f, binary.LittleEndian, &v)
		if err != nil {
			break
		}
		out = append(out, v)
	}
	return out
}

func TestStereoMatchWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matched.gdf")
	w, err := NewStereoMatchWriter(path, 2)
	if err != nil {
		t.Fatalf("create writer: %v", err)
	}

	wf := frame.WorldFrame{Positions: []frame.WorldPosition{
		{
			X: 1, Y: 2, Z: 3, Residual: 0.01,
			Cameras: []frame.CameraObservation{
				{X: 10, Y: 11, Orientation: 0.1},
				{X: 20, Y: 21, Orientation: 0.2},
			},
		},
		{
			X: 4, Y: 5, Z: 6, Residual: 0.02,
			Cameras: []frame.CameraObservation{
				{X: 30, Y: 31, Orientation: 0.3},
				{Missing: true, Orientation: 1},
			},
		},
	}}
	if err := w.WriteFrame(7, wf); err != nil {
		t.Fatalf("write frame: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	values := readAllFloats(t, path)
	const cols = 11 // 5 + 3*2
	if len(values) != cols*2 {
		t.Fatalf("expected %d values, got %d", cols*2, len(values))
	}
	if values[0] != 7 || values[1] != 1 || values[2] != 2 || values[3] != 3 {
		t.Errorf("wrong first record header fields: %v", values[:5])
	}
	second := values[cols:]
	if second[8] != 1 || second[9] != 1 || second[10] != 1 {
		t.Errorf("expected camera-index sentinel (1,1,1) for missing camera, got %v", second[8:11])
	}
}

func TestTrackWriterRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracks.gdf")
	w, err := NewTrackWriter(path, 2, 10.0)
	if err != nil {
		t.Fatalf("create writer: %v", err)
	}

	positions := []frame.WorldPosition{
		{X: 1, Y: 1, Z: 1, Residual: 3.14, Cameras: []frame.CameraObservation{
			{X: 5, Y: 6, Orientation: 0.1},
			{X: 7, Y: 8, Orientation: 0.2},
		}},
		{X: 2, Y: 2, Z: 2, Fake: true, Cameras: []frame.CameraObservation{
			{X: 9, Y: 10, Orientation: 0.3},
			{Missing: true, Orientation: 1},
		}},
	}
	if err := w.WriteTrack(42, []int{0, 1}, positions); err != nil {
		t.Fatalf("write track: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	values := readAllFloats(t, path)
	const cols = 13 // 5 + 3*2 + 2
	if len(values) != cols*2 {
		t.Fatalf("expected %d values, got %d", cols*2, len(values))
	}
	if values[0] != 42 {
		t.Errorf("wrong track index: %v", values[0])
	}
	if values[4] != 0.0 {
		t.Errorf("wrong frame time for frame 0: %v", values[4])
	}
	second := values[cols:]
	if second[4] != 0.1 {
		t.Errorf("wrong frame time for frame 1 at fps=10: %v", second[4])
	}
	if second[8] != 1 || second[9] != 1 || second[10] != 1 {
		t.Errorf("expected camera-index sentinel (1,1,1) for missing camera, got %v", second[8:11])
	}
	if second[cols-1] != 1 {
		t.Errorf("expected fake flag set on second point, got %v", second[cols-1])
	}
}
