// Package runconfig parses the line-oriented CLI run-file: one value per
// line, read in a fixed order, each line trimmed at its first space (not
// all whitespace) to preserve the original's quirky parsing behavior.
package runconfig

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ProducerKind identifies which reader a camera's input file needs,
// selected by its extension.
type ProducerKind int

const (
	// ProducerUnknown marks an unrecognized extension; a fatal
	// configuration error.
	ProducerUnknown ProducerKind = iota
	// ProducerCPV is the proprietary raw-movie container. Decoding it is
	// out of scope (blob detection / movie decoding are external
	// collaborators); recognized here only so the CLI can fail with a
	// clear "unsupported producer" error instead of a bad-extension one.
	ProducerCPV
	// ProducerGDF is the binary detection-record stream.
	ProducerGDF
)

// CameraInput is one camera's source file and its producer kind.
type CameraInput struct {
	Path string
	Kind ProducerKind
}

// Config is the fully parsed run-file.
type Config struct {
	Cameras          []CameraInput
	CalibrationPath  string
	FPS              float64
	Threshold        float64
	ClusterRadius    float64
	NPredict         int
	MaxDisp          float64
	Memory           int
	First            int
	Last             int
	StereoMatchOut   string
	TrackOut         string
}

// firstToken trims a line at its first space, keeping the whole line if
// no space is present. This mirrors the original's
// `line.erase(line.find_first_of(' '))`.
func firstToken(line string) string {
	if idx := strings.IndexByte(line, ' '); idx >= 0 {
		return line[:idx]
	}
	return line
}

type lineReader struct {
	scanner *bufio.Scanner
	lineNum int
}

func (r *lineReader) next() (string, error) {
	if !r.scanner.Scan() {
		if err := r.scanner.Err(); err != nil {
			return "", errors.Wrap(err, "read configuration file")
		}
		return "", errors.Errorf("configuration file: unexpected end of input at line %d", r.lineNum+1)
	}
	r.lineNum++
	return firstToken(r.scanner.Text()), nil
}

func (r *lineReader) nextInt() (int, error) {
	tok, err := r.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, errors.Wrapf(err, "line %d: expected integer, got %q", r.lineNum, tok)
	}
	return v, nil
}

func (r *lineReader) nextFloat() (float64, error) {
	tok, err := r.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "line %d: expected number, got %q", r.lineNum, tok)
	}
	return v, nil
}

func classify(path string) ProducerKind {
	idx := strings.LastIndexByte(path, '.')
	if idx < 0 {
		return ProducerUnknown
	}
	switch strings.ToLower(path[idx+1:]) {
	case "cpv":
		return ProducerCPV
	case "gdf":
		return ProducerGDF
	default:
		return ProducerUnknown
	}
}

// Parse reads a run-file from disk. Any malformed or missing field is a
// fatal configuration error, as are npredict outside {0,1,2} and unknown
// file extensions.
func Parse(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "open configuration file %q", path)
	}
	defer f.Close()

	r := &lineReader{scanner: bufio.NewScanner(f)}

	ncams, err := r.nextInt()
	if err != nil {
		return Config{}, errors.Wrap(err, "parse ncams")
	}
	if ncams <= 0 {
		return Config{}, errors.Errorf("configuration file: ncams must be positive, got %d", ncams)
	}

	cams := make([]CameraInput, 0, ncams)
	for i := 0; i < ncams; i++ {
		name, err := r.next()
		if err != nil {
			return Config{}, errors.Wrapf(err, "parse camera %d filename", i)
		}
		kind := classify(name)
		if kind == ProducerUnknown {
			return Config{}, errors.Errorf("camera %d: unknown file extension in %q", i, name)
		}
		cams = append(cams, CameraInput{Path: name, Kind: kind})
	}

	calibPath, err := r.next()
	if err != nil {
		return Config{}, errors.Wrap(err, "parse calibration path")
	}
	fps, err := r.nextFloat()
	if err != nil {
		return Config{}, errors.Wrap(err, "parse fps")
	}
	threshold, err := r.nextFloat()
	if err != nil {
		return Config{}, errors.Wrap(err, "parse threshold")
	}
	clusterRad, err := r.nextFloat()
	if err != nil {
		return Config{}, errors.Wrap(err, "parse cluster_rad")
	}
	npredict, err := r.nextInt()
	if err != nil {
		return Config{}, errors.Wrap(err, "parse npredict")
	}
	if npredict < 0 || npredict > 2 {
		return Config{}, errors.Errorf("npredict out of range: %d (must be 0, 1, or 2)", npredict)
	}
	maxDisp, err := r.nextFloat()
	if err != nil {
		return Config{}, errors.Wrap(err, "parse max_disp")
	}
	memory, err := r.nextInt()
	if err != nil {
		return Config{}, errors.Wrap(err, "parse memory")
	}
	first, err := r.nextInt()
	if err != nil {
		return Config{}, errors.Wrap(err, "parse first frame")
	}
	last, err := r.nextInt()
	if err != nil {
		return Config{}, errors.Wrap(err, "parse last frame")
	}
	stereoOut, err := r.next()
	if err != nil {
		return Config{}, errors.Wrap(err, "parse stereo-match output path")
	}
	trackOut, err := r.next()
	if err != nil {
		return Config{}, errors.Wrap(err, "parse track output path")
	}

	return Config{
		Cameras:         cams,
		CalibrationPath: calibPath,
		FPS:             fps,
		Threshold:       threshold,
		ClusterRadius:   clusterRad,
		NPredict:        npredict,
		MaxDisp:         maxDisp,
		Memory:          memory,
		First:           first,
		Last:            last,
		StereoMatchOut:  stereoOut,
		TrackOut:        trackOut,
	}, nil
}
