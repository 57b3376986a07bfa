package geom

import (
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
)

// Matrix3 is a row-major 3x3 matrix, backed by gonum/mat so that inversion
// (needed once per triangulated point) goes through a well-tested LU solver
// instead of a hand-rolled cofactor expansion.
type Matrix3 struct {
	d *mat.Dense
}

// NewMatrix3 builds a zero 3x3 matrix.
func NewMatrix3() Matrix3 {
	return Matrix3{d: mat.NewDense(3, 3, nil)}
}

// Matrix3FromRowMajor builds a Matrix3 from 9 row-major values, the layout
// the calibration file stores R/Rinv in.
func Matrix3FromRowMajor(v [9]float64) Matrix3 {
	return Matrix3{d: mat.NewDense(3, 3, v[:])}
}

// At returns the element at (row, col).
func (m Matrix3) At(row, col int) float64 {
	return m.d.At(row, col)
}

// Set assigns the element at (row, col).
func (m Matrix3) Set(row, col int, v float64) {
	m.d.Set(row, col, v)
}

// Add returns m + other as a new matrix.
func (m Matrix3) Add(other Matrix3) Matrix3 {
	var out mat.Dense
	out.Add(m.d, other.d)
	return Matrix3{d: &out}
}

// MulVec returns m * v.
func (m Matrix3) MulVec(v Vec3) Vec3 {
	vec := mat.NewVecDense(3, []float64{v.X, v.Y, v.Z})
	var out mat.VecDense
	out.MulVec(m.d, vec)
	return Vec3{X: out.AtVec(0), Y: out.AtVec(1), Z: out.AtVec(2)}
}

// Invert returns the inverse of m. A singular matrix (degenerate ray
// configuration) is reported as an error so the caller can treat the
// triangulation residual as +Inf per the numeric error-handling policy.
func (m Matrix3) Invert() (Matrix3, error) {
	var inv mat.Dense
	if err := inv.Inverse(m.d); err != nil {
		return Matrix3{}, errors.Wrap(err, "invert singular ray-intersection matrix")
	}
	return Matrix3{d: &inv}, nil
}

// Identity3 returns the 3x3 identity matrix.
func Identity3() Matrix3 {
	m := NewMatrix3()
	m.Set(0, 0, 1)
	m.Set(1, 1, 1)
	m.Set(2, 2, 1)
	return m
}

// OuterProjector returns I - s*s^T for a unit direction s: the projector
// onto the plane perpendicular to the ray, used to accumulate the
// least-squares ray-intersection normal equations in the triangulator.
func OuterProjector(s Vec3) Matrix3 {
	m := NewMatrix3()
	m.Set(0, 0, 1-s.X*s.X)
	m.Set(0, 1, -s.X*s.Y)
	m.Set(0, 2, -s.X*s.Z)
	m.Set(1, 0, -s.Y*s.X)
	m.Set(1, 1, 1-s.Y*s.Y)
	m.Set(1, 2, -s.Y*s.Z)
	m.Set(2, 0, -s.Z*s.X)
	m.Set(2, 1, -s.Z*s.Y)
	m.Set(2, 2, 1-s.Z*s.Z)
	return m
}
