// Package camera implements the pinhole-with-distortion camera model: pure
// transforms between pixel space, centered sensor-plane millimetres, and
// world space.
package camera

import (
	"github.com/LdDl/ptv-go/internal/geom"
)

// Point is a 2D/3D point carrying the orientation tag that rides along
// through every camera transform untouched.
type Point struct {
	X   float64
	Y   float64
	Z   float64
	Ori float64
}

// Vec3 drops the orientation tag, e.g. before feeding a point into matrix
// algebra.
func (p Point) Vec3() geom.Vec3 {
	return geom.Vec3{X: p.X, Y: p.Y, Z: p.Z}
}

// WithVec3 returns p with its X/Y/Z replaced, keeping Ori.
func (p Point) WithVec3(v geom.Vec3) Point {
	return Point{X: v.X, Y: v.Y, Z: v.Z, Ori: p.Ori}
}

// Camera holds the intrinsic and extrinsic parameters of one fixed,
// calibrated camera. Immutable after construction.
type Camera struct {
	Npixw int
	Npixh int
	Wpix  float64
	Hpix  float64
	FEff  float64
	// Kr and Kx are the radial and tangential distortion coefficients.
	// Applied as identity here; the fields are preserved for
	// calibration-file compatibility.
	Kr float64
	Kx float64
	R  geom.Matrix3
	T  geom.Vec3
	// Rinv and Tinv are precomputed inverses, supplied by the calibration
	// file rather than derived, matching the original format.
	Rinv geom.Matrix3
	Tinv geom.Vec3
}

// New builds a Camera from its calibration-file parameters.
func New(npixw, npixh int, wpix, hpix, fEff, kr, kx float64, r geom.Matrix3, t geom.Vec3, rinv geom.Matrix3, tinv geom.Vec3) Camera {
	return Camera{
		Npixw: npixw, Npixh: npixh,
		Wpix: wpix, Hpix: hpix,
		FEff: fEff, Kr: kr, Kx: kx,
		R: r, T: t, Rinv: rinv, Tinv: tinv,
	}
}

// Center returns the camera's projective center in world coordinates.
func (c Camera) Center() geom.Vec3 {
	return c.Tinv
}

// UnDistort removes distortion and returns centered coordinates in
// physical units (mm). Radial/tangential correction is parameterized but
// applied as identity; Kr/Kx are retained for compatibility with
// calibration files that carry nonzero values.
func (c Camera) UnDistort(p Point) Point {
	centered := geom.Vec3{
		X: p.X - float64(c.Npixw)/2,
		Y: -p.Y + float64(c.Npixh)/2,
		Z: p.Z,
	}
	centered = centered.Multiply(geom.Vec3{X: c.Wpix, Y: c.Hpix, Z: 1})
	return Point{X: centered.X, Y: centered.Y, Z: centered.Z, Ori: p.Ori}
}

// Distort is the exact inverse of UnDistort: it takes centered mm
// coordinates and returns normal image coordinates in pixel units.
func (c Camera) Distort(p Point) Point {
	pixel := geom.Vec3{X: p.X, Y: p.Y, Z: p.Z}
	pixel = pixel.Multiply(geom.Vec3{X: 1.0 / c.Wpix, Y: 1.0 / c.Hpix, Z: 1})
	return Point{
		X:   pixel.X + float64(c.Npixw)/2,
		Y:   -1.0 * (pixel.Y - float64(c.Npixh)/2),
		Z:   p.Z,
		Ori: p.Ori,
	}
}

// ImageToWorld takes an undistorted sensor-plane position (centered mm,
// as returned by UnDistort) and returns, in world coordinates, the point
// on the line of sight through that detection that lies at depth T.Z in
// the camera frame.
func (c Camera) ImageToWorld(p Point) Point {
	pp := geom.Vec3{X: p.X, Y: p.Y, Z: p.Z}
	tmp := pp.Scale(c.T.Z / c.FEff)
	proj := geom.Vec3{X: tmp.X, Y: tmp.Y, Z: c.T.Z}
	world := c.Rinv.MulVec(proj.Sub(c.T))
	return Point{X: world.X, Y: world.Y, Z: world.Z, Ori: p.Ori}
}

// WorldToImage projects a world-space position onto the camera's sensor
// plane at focal distance, undistorted.
func (c Camera) WorldToImage(p Point) Point {
	pp := geom.Vec3{X: p.X, Y: p.Y, Z: p.Z}
	proj := c.R.MulVec(pp).Add(c.T)
	sensor := proj.Scale(c.FEff / proj.Z)
	return Point{X: sensor.X, Y: sensor.Y, Z: sensor.Z, Ori: p.Ori}
}
