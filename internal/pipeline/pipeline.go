// Package pipeline wires calibration, per-camera detection streams,
// stereo matching and tracking into the end-to-end run the CLI drives.
package pipeline

import (
	"log/slog"

	"github.com/pkg/errors"

	"github.com/LdDl/ptv-go/internal/calib"
	"github.com/LdDl/ptv-go/internal/frame"
	"github.com/LdDl/ptv-go/internal/gdf"
	"github.com/LdDl/ptv-go/internal/runconfig"
	"github.com/LdDl/ptv-go/internal/stereo"
	"github.com/LdDl/ptv-go/internal/track"
)

// minTrack is the minimum number of real positions a track must reach
// before it is emitted; fixed, not a run-file parameter.
const minTrack = 10

// modeFromNPredict maps the run-file's npredict {0,1,2} onto the
// tracker's cost-function mode.
func modeFromNPredict(npredict int) (track.Mode, error) {
	switch npredict {
	case 0:
		return track.FRAME2, nil
	case 1:
		return track.FRAME3, nil
	case 2:
		return track.FRAME4, nil
	default:
		return 0, errors.Errorf("npredict out of range: %d", npredict)
	}
}

// Run executes one end-to-end pass: load calibration, read every
// camera's detections, stereo-match frame by frame over
// [cfg.First, cfg.Last], track the resulting 3D sequence, and write
// both the stereo-match and track output files. Every progress line is
// logged through logger, so a per-run correlation ID attached by the
// caller (e.g. cmd/ptvtrack's run_id) rides along on every line instead
// of only the lines logged before Run is called.
func Run(cfg runconfig.Config, logger *slog.Logger) error {
	calibration, err := calib.Parse(cfg.CalibrationPath)
	if err != nil {
		return errors.Wrap(err, "load calibration")
	}
	if len(calibration.Cameras) != len(cfg.Cameras) {
		return errors.Errorf("camera count mismatch: calibration has %d, configuration has %d", len(calibration.Cameras), len(cfg.Cameras))
	}
	logger.Info("calibration loaded", "cameras", len(calibration.Cameras))

	sequences := make([]gdf.Sequence, len(cfg.Cameras))
	for i, camInput := range cfg.Cameras {
		switch camInput.Kind {
		case runconfig.ProducerGDF:
			seq, err := gdf.ReadDetections(camInput.Path)
			if err != nil {
				return errors.Wrapf(err, "read detections for camera %d", i)
			}
			sequences[i] = seq
		case runconfig.ProducerCPV:
			return errors.Errorf("camera %d: .cpv movie decoding is an external collaborator, not handled by this pipeline", i)
		default:
			return errors.Errorf("camera %d: unrecognized producer", i)
		}
		logger.Info("camera detections loaded", "camera", i, "frames", len(sequences[i].Frames))
	}

	byFrame := make([]map[int]frame.Frame, len(sequences))
	for i, seq := range sequences {
		m := make(map[int]frame.Frame, len(seq.Frames))
		for j, fn := range seq.FrameNumbers {
			m[fn] = seq.Frames[j]
		}
		byFrame[i] = m
	}

	stereoWriter, err := gdf.NewStereoMatchWriter(cfg.StereoMatchOut, len(calibration.Cameras))
	if err != nil {
		return errors.Wrap(err, "open stereo-match output")
	}

	var frameNumbers []int
	var worldFrames []frame.WorldFrame
	for fn := cfg.First; fn <= cfg.Last; fn++ {
		frames := make([]frame.Frame, len(calibration.Cameras))
		for i := range frames {
			if f, ok := byFrame[i][fn]; ok {
				frames[i] = f
			} else {
				frames[i] = frame.Empty()
			}
		}
		wf, err := stereo.Match(calibration.Cameras, frames, calibration.MinDist2D, calibration.MinDist3D)
		if err != nil {
			stereoWriter.Close()
			return errors.Wrapf(err, "stereo match frame %d", fn)
		}
		if err := stereoWriter.WriteFrame(fn, wf); err != nil {
			stereoWriter.Close()
			return errors.Wrapf(err, "write stereo match frame %d", fn)
		}
		frameNumbers = append(frameNumbers, fn)
		worldFrames = append(worldFrames, wf)
	}
	if err := stereoWriter.Close(); err != nil {
		return errors.Wrap(err, "close stereo-match output")
	}
	logger.Info("stereo matching complete", "frames", len(worldFrames))

	mode, err := modeFromNPredict(cfg.NPredict)
	if err != nil {
		return err
	}
	tracker := track.New(track.Config{
		MinTrack: minTrack,
		Memory:   cfg.Memory,
		MaxDisp:  cfg.MaxDisp,
		FPS:      cfg.FPS,
		Mode:     mode,
		Linking:  track.AssignGreedy,
	})
	tracks := tracker.Run(frameNumbers, worldFrames)
	logger.Info("tracking complete", "tracks", len(tracks))

	trackWriter, err := gdf.NewTrackWriter(cfg.TrackOut, len(calibration.Cameras), cfg.FPS)
	if err != nil {
		return errors.Wrap(err, "open track output")
	}
	for _, tk := range tracks {
		n := tk.Length()
		if err := trackWriter.WriteTrack(tk.ID, tk.Frames[:n], tk.Positions[:n]); err != nil {
			trackWriter.Close()
			return errors.Wrapf(err, "write track %d", tk.ID)
		}
	}
	if err := trackWriter.Close(); err != nil {
		return errors.Wrap(err, "close track output")
	}

	return nil
}
