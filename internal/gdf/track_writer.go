package gdf

import (
	"os"

	"github.com/pkg/errors"

	"github.com/LdDl/ptv-go/internal/frame"
)

// TrackWriter streams finished trajectories to a GDF file, one record per
// trajectory point: track index, X, Y, Z, frame time (frame number / fps),
// then each camera's (x, y, orientation) triple, that point's
// triangulation residual, and a fake-point flag. Generalized over camera
// count the same way StereoMatchWriter is.
type TrackWriter struct {
	f     *os.File
	ncams int
	cols  int32
	rows  int32
	fps   float64
}

// NewTrackWriter creates the output file and writes a placeholder header.
func NewTrackWriter(path string, ncams int, fps float64) (*TrackWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "create track output %q", path)
	}
	cols := int32(5 + 3*ncams + 2)
	if err := writeHeader(f, header{Magic: magic, NDims: 2, Cols: cols, Rows: 0, Type: typeDouble, Total: 0}); err != nil {
		f.Close()
		return nil, err
	}
	return &TrackWriter{f: f, ncams: ncams, cols: cols, fps: fps}, nil
}

// WriteTrack appends one trajectory's points. frameNumbers[i] is the
// frame number of positions[i]. Each point's "info" slot carries its
// own triangulation residual, mirroring Position::Info() in the
// original rather than a single value repeated across the track.
func (w *TrackWriter) WriteTrack(index int64, frameNumbers []int, positions []frame.WorldPosition) error {
	if len(frameNumbers) != len(positions) {
		return errors.Errorf("track %d: %d frame numbers but %d positions", index, len(frameNumbers), len(positions))
	}
	for i, pos := range positions {
		if err := w.writeRecord(index, frameNumbers[i], pos); err != nil {
			return err
		}
		w.rows++
	}
	return nil
}

func (w *TrackWriter) writeRecord(index int64, frameNumber int, pos frame.WorldPosition) error {
	values := make([]float64, 0, w.cols)
	values = append(values, float64(index), pos.X, pos.Y, pos.Z, float64(frameNumber)/w.fps)
	for i := 0; i < w.ncams; i++ {
		if i < len(pos.Cameras) && !pos.Cameras[i].Missing {
			c := pos.Cameras[i]
			values = append(values, c.X, c.Y, c.Orientation)
		} else if i < len(pos.Cameras) {
			mcam := pos.Cameras[i].Orientation
			values = append(values, mcam, mcam, mcam)
		} else {
			values = append(values, 0, 0, 0)
		}
	}
	values = append(values, pos.Residual)
	if pos.Fake {
		values = append(values, 1)
	} else {
		values = append(values, 0)
	}
	for _, v := range values {
		if err := writeFloat64(w.f, v); err != nil {
			return errors.Wrap(err, "write track record")
		}
	}
	return nil
}

// Close patches the header with the final row and total-element counts
// and closes the file.
func (w *TrackWriter) Close() error {
	if err := patchRowsAndTotal(w.f, w.cols, w.rows); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}
