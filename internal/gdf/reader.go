package gdf

import (
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/LdDl/ptv-go/internal/frame"
)

// detectionFields is the column count of one detection record: x, y,
// brightness, orientation, particle count for the frame it belongs to,
// and the frame number itself.
const detectionFields = 6

// Sequence is one camera's full detection stream, grouped by frame.
// FrameNumbers[i] is the frame number Frames[i] was recorded at; frames
// missing from the stream (e.g. a skipped detection-free timestep) simply
// don't appear, mirroring the original reader's behavior of reporting a
// missed frame rather than emitting an empty one.
type Sequence struct {
	FrameNumbers []int
	Frames       []frame.Frame
}

// ReadDetections reads an entire camera's detection file into memory.
// Records are expected in non-decreasing frame-number order, consecutive
// records sharing a frame number folded into one Frame; this is how the
// original's frame-at-a-time disk scan behaves, just done eagerly.
func ReadDetections(path string) (Sequence, error) {
	f, err := os.Open(path)
	if err != nil {
		return Sequence{}, errors.Wrapf(err, "open detection file %q", path)
	}
	defer f.Close()

	if _, err := readHeader(f); err != nil {
		return Sequence{}, err
	}

	seq := Sequence{}
	var current []frame.Detection
	currentFrameNum := -1
	haveCurrent := false

	flush := func() {
		if haveCurrent {
			seq.FrameNumbers = append(seq.FrameNumbers, currentFrameNum)
			seq.Frames = append(seq.Frames, frame.NewFrame(current))
		}
	}

	for {
		x, err := readFloat64(f)
		if err == io.EOF {
			break
		}
		if err != nil {
			return Sequence{}, errors.Wrap(err, "read detection record")
		}
		y, err := readFloat64(f)
		if err != nil {
			return Sequence{}, errors.Wrap(err, "read detection record")
		}
		// Brightness is carried in the stream but this tracker never
		// consumes it.
		if _, err := readFloat64(f); err != nil {
			return Sequence{}, errors.Wrap(err, "read detection record")
		}
		orientation, err := readFloat64(f)
		if err != nil {
			return Sequence{}, errors.Wrap(err, "read detection record")
		}
		// Particle count is redundant with the run of records sharing a
		// frame number; kept for validation below.
		particleCount, err := readFloat64(f)
		if err != nil {
			return Sequence{}, errors.Wrap(err, "read detection record")
		}
		frameNum, err := readFloat64(f)
		if err != nil {
			return Sequence{}, errors.Wrap(err, "read detection record")
		}
		fn := int(frameNum)

		if !haveCurrent || fn != currentFrameNum {
			flush()
			current = nil
			currentFrameNum = fn
			haveCurrent = true
		}
		current = append(current, frame.Detection{
			X:              x,
			Y:              y,
			Orientation:    orientation,
			HasOrientation: true,
			Camera:         frame.NoCamera,
		})
		if int(particleCount) > 0 && len(current) > int(particleCount) {
			return Sequence{}, errors.Errorf("detection file %q: frame %d: more records than declared particle count %d", path, fn, int(particleCount))
		}
	}
	flush()

	return seq, nil
}
