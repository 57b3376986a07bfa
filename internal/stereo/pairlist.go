// Package stereo matches per-frame 2D detections across cameras into
// consistent tuples and triangulates their 3D positions.
package stereo

import (
	"github.com/LdDl/ptv-go/internal/camera"
	"github.com/LdDl/ptv-go/internal/frame"
	"github.com/LdDl/ptv-go/internal/geom"
)

// undistortAll corrects every detection once, up front: the whole
// matching pass works in centered-millimetre sensor coordinates, never
// raw pixels.
func undistortAll(cams []camera.Camera, frames []frame.Frame) [][]camera.Point {
	out := make([][]camera.Point, len(cams))
	for i, cam := range cams {
		pts := make([]camera.Point, frames[i].NumParticles())
		for a := 0; a < frames[i].NumParticles(); a++ {
			pts[a] = cam.UnDistort(frames[i].At(a).Point())
		}
		out[i] = pts
	}
	return out
}

// PairList is the epipolar candidate graph: P[i][a][k] holds the
// where-indices on camera k whose undistorted position lies within
// mindist_2D of camera i's detection a's projected line of sight. Stored
// as a flat arena of integer handles (where-indices into each camera's
// detection slice) rather than a graph of pointers or iterators.
type PairList struct {
	// entries[i][a][k] = where-indices on camera k
	entries [][][][]int
}

func newPairList(ncams int, particleCounts []int) PairList {
	entries := make([][][][]int, ncams)
	for i := 0; i < ncams; i++ {
		entries[i] = make([][][]int, particleCounts[i])
		for a := range entries[i] {
			entries[i][a] = make([][]int, ncams)
		}
	}
	return PairList{entries: entries}
}

// Candidates returns the where-indices on camera k that are candidate
// partners for detection a on camera i.
func (pl PairList) Candidates(i, a, k int) []int {
	return pl.entries[i][a][k]
}

// Has reports whether b on camera k is a candidate partner for a on
// camera i.
func (pl PairList) Has(i, a, k, b int) bool {
	for _, cand := range pl.entries[i][a][k] {
		if cand == b {
			return true
		}
	}
	return false
}

// buildPairList constructs the candidate graph described in the
// candidate-graph-builder component: for each detection, project its
// line of sight onto every other camera and accept partners within the
// perpendicular epipolar tolerance.
func buildPairList(cams []camera.Camera, corrected [][]camera.Point, minDist2D float64) PairList {
	ncams := len(cams)
	counts := make([]int, ncams)
	for i := range corrected {
		counts[i] = len(corrected[i])
	}
	pl := newPairList(ncams, counts)

	for i, cam := range cams {
		for a, pA := range corrected[i] {
			pAWorld := cam.ImageToWorld(pA)
			for k := 0; k < ncams; k++ {
				if k == i {
					continue
				}
				center := cams[k].WorldToImage(camera.Point{X: cam.Center().X, Y: cam.Center().Y, Z: cam.Center().Z})
				particle := cams[k].WorldToImage(pAWorld)
				lineOfSight := particle.Vec3().Sub(center.Vec3()).Normalize()
				perpdir := geom.Vec3{X: lineOfSight.Y, Y: -lineOfSight.X, Z: 0}

				var candidates []int
				for b, pB := range corrected[k] {
					toB := pB.Vec3().Sub(center.Vec3())
					if abs(geom.Dot(toB, perpdir)) < minDist2D {
						candidates = append(candidates, b)
					}
				}
				pl.entries[i][a][k] = candidates
			}
		}
	}
	return pl
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
