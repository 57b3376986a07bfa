// Package calib parses the camera-calibration file and builds the
// Camera set and epipolar/triangulation tolerances the stereo matcher
// needs.
package calib

import (
	"bufio"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/LdDl/ptv-go/internal/camera"
	"github.com/LdDl/ptv-go/internal/geom"
)

// Calibration is the parsed calibration file: one Camera per entry plus
// the epipolar (mm on sensor) and triangulation (mm in world) tolerances.
type Calibration struct {
	Cameras    []camera.Camera
	MinDist2D  float64
	MinDist3D  float64
}

// tokenizer pulls whitespace-delimited tokens off a pre-scrubbed token
// stream, mirroring the original's stringstream-of-stripped-lines
// approach: comments and line breaks are irrelevant, only token order
// matters.
type tokenizer struct {
	tokens []string
	pos    int
}

func (t *tokenizer) next() (string, error) {
	if t.pos >= len(t.tokens) {
		return "", errors.New("calibration file: unexpected end of input")
	}
	tok := t.tokens[t.pos]
	t.pos++
	return tok, nil
}

func (t *tokenizer) nextInt() (int, error) {
	tok, err := t.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, errors.Wrapf(err, "calibration file: expected integer, got %q", tok)
	}
	return v, nil
}

func (t *tokenizer) nextFloat() (float64, error) {
	tok, err := t.next()
	if err != nil {
		return 0, err
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "calibration file: expected number, got %q", tok)
	}
	return v, nil
}

func (t *tokenizer) next9() ([9]float64, error) {
	var out [9]float64
	for i := range out {
		v, err := t.nextFloat()
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}

func (t *tokenizer) next3() (geom.Vec3, error) {
	x, err := t.nextFloat()
	if err != nil {
		return geom.Vec3{}, err
	}
	y, err := t.nextFloat()
	if err != nil {
		return geom.Vec3{}, err
	}
	z, err := t.nextFloat()
	if err != nil {
		return geom.Vec3{}, err
	}
	return geom.Vec3{X: x, Y: y, Z: z}, nil
}

// stripComments removes everything from the first '#' to end of line,
// exactly as the original Calibration constructor does.
func stripComments(line string) string {
	if idx := strings.IndexByte(line, '#'); idx >= 0 {
		return line[:idx]
	}
	return line
}

// Parse reads and parses a calibration file from disk.
func Parse(path string) (Calibration, error) {
	f, err := os.Open(path)
	if err != nil {
		return Calibration{}, errors.Wrapf(err, "open calibration file %q", path)
	}
	defer f.Close()

	var all []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		scrubbed := stripComments(scanner.Text())
		all = append(all, strings.Fields(scrubbed)...)
	}
	if err := scanner.Err(); err != nil {
		return Calibration{}, errors.Wrap(err, "read calibration file")
	}

	tz := &tokenizer{tokens: all}

	ncams, err := tz.nextInt()
	if err != nil {
		return Calibration{}, errors.Wrap(err, "parse ncams")
	}
	if ncams <= 0 {
		return Calibration{}, errors.Errorf("calibration file: ncams must be positive, got %d", ncams)
	}

	cams := make([]camera.Camera, 0, ncams)
	for i := 0; i < ncams; i++ {
		cam, err := parseCamera(tz)
		if err != nil {
			return Calibration{}, errors.Wrapf(err, "parse camera %d", i)
		}
		cams = append(cams, cam)
	}

	mindist2D, err := tz.nextFloat()
	if err != nil {
		return Calibration{}, errors.Wrap(err, "parse mindist_2D")
	}
	mindist3D, err := tz.nextFloat()
	if err != nil {
		return Calibration{}, errors.Wrap(err, "parse mindist_3D")
	}

	return Calibration{Cameras: cams, MinDist2D: mindist2D, MinDist3D: mindist3D}, nil
}

func parseCamera(tz *tokenizer) (camera.Camera, error) {
	npixw, err := tz.nextInt()
	if err != nil {
		return camera.Camera{}, err
	}
	npixh, err := tz.nextInt()
	if err != nil {
		return camera.Camera{}, err
	}
	wpix, err := tz.nextFloat()
	if err != nil {
		return camera.Camera{}, err
	}
	hpix, err := tz.nextFloat()
	if err != nil {
		return camera.Camera{}, err
	}
	fEff, err := tz.nextFloat()
	if err != nil {
		return camera.Camera{}, err
	}
	kr, err := tz.nextFloat()
	if err != nil {
		return camera.Camera{}, err
	}
	kx, err := tz.nextFloat()
	if err != nil {
		return camera.Camera{}, err
	}
	rRaw, err := tz.next9()
	if err != nil {
		return camera.Camera{}, errors.Wrap(err, "parse R")
	}
	t, err := tz.next3()
	if err != nil {
		return camera.Camera{}, errors.Wrap(err, "parse T")
	}
	rinvRaw, err := tz.next9()
	if err != nil {
		return camera.Camera{}, errors.Wrap(err, "parse Rinv")
	}
	tinv, err := tz.next3()
	if err != nil {
		return camera.Camera{}, errors.Wrap(err, "parse Tinv")
	}

	return camera.New(npixw, npixh, wpix, hpix, fEff, kr, kx,
		geom.Matrix3FromRowMajor(rRaw), t,
		geom.Matrix3FromRowMajor(rinvRaw), tinv), nil
}
