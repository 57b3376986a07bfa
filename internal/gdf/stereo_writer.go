package gdf

import (
	"os"

	"github.com/pkg/errors"

	"github.com/LdDl/ptv-go/internal/frame"
)

// StereoMatchWriter streams triangulated WorldFrames to a GDF file, one
// record per matched point: frame number, X, Y, Z, residual, then each
// camera's redistorted (x, y, orientation) triple. The original hardcoded
// exactly four cameras' worth of columns; this writer sizes the record to
// however many cameras the calibration actually declares.
type StereoMatchWriter struct {
	f      *os.File
	ncams  int
	cols   int32
	rows   int32
}

// NewStereoMatchWriter creates the output file and writes a placeholder
// header; Close patches in the final row and total counts.
func NewStereoMatchWriter(path string, ncams int) (*StereoMatchWriter, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "create stereo-match output %q", path)
	}
	cols := int32(5 + 3*ncams)
	if err := writeHeader(f, header{Magic: magic, NDims: 2, Cols: cols, Rows: 0, Type: typeDouble, Total: 0}); err != nil {
		f.Close()
		return nil, err
	}
	return &StereoMatchWriter{f: f, ncams: ncams, cols: cols}, nil
}

// WriteFrame appends every matched position in wf, tagged with
// frameNumber. A camera slot marked Missing (a degraded, (N-1)-wise
// match) is written as the camera-index sentinel in all three columns,
// matching the original's Position(mcam,mcam,mcam,mcam) and letting
// consumers detect a missing camera by orientation == its own index. A
// slot past the end of a position's observation list is written as
// zeros.
func (w *StereoMatchWriter) WriteFrame(frameNumber int, wf frame.WorldFrame) error {
	for _, pos := range wf.Positions {
		if err := w.writeRecord(frameNumber, pos); err != nil {
			return err
		}
		w.rows++
	}
	return nil
}

func (w *StereoMatchWriter) writeRecord(frameNumber int, pos frame.WorldPosition) error {
	values := make([]float64, 0, w.cols)
	values = append(values, float64(frameNumber), pos.X, pos.Y, pos.Z, pos.Residual)
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
	for _, v := range values {
		if err := writeFloat64(w.f, v); err != nil {
			return errors.Wrap(err, "write stereo-match record")
		}
	}
	return nil
}

// Close patches the header with the final row and total-element counts
// and closes the file.
func (w *StereoMatchWriter) Close() error {
	if err := patchRowsAndTotal(w.f, w.cols, w.rows); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}
