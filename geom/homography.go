// Copyright 2024 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package geom

import (
	"errors"
	"math"
)

// ErrSingular is returned when four point correspondences do not
// define a unique projective transform
var ErrSingular = errors.New("singular perspective transform")

// Matrix is a 3x3 projective transform in row-major order
type Matrix [9]float64

// PerspectiveTransform finds the transform mapping each src[i] exactly
// onto dst[i]. The bottom right element is fixed at 1, leaving eight
// unknowns which are solved from the two equations each
// correspondence gives.
func PerspectiveTransform(src, dst Quad) (Matrix, error) {
	var a [8][8]float64
	var b [8]float64
	for i := range 4 {
		x, y := src[i].X, src[i].Y
		u, v := dst[i].X, dst[i].Y
		r := 2 * i

		// u = (m0 x + m1 y + m2) / (m6 x + m7 y + 1)
		a[r] = [8]float64{x, y, 1, 0, 0, 0, -x * u, -y * u}
		b[r] = u

		// v = (m3 x + m4 y + m5) / (m6 x + m7 y + 1)
		a[r+1] = [8]float64{0, 0, 0, x, y, 1, -x * v, -y * v}
		b[r+1] = v
	}

	h, err := solve8(a, b)
	if err != nil {
		return Matrix{}, err
	}
	return Matrix{h[0], h[1], h[2], h[3], h[4], h[5], h[6], h[7], 1}, nil
}

// solve8 solves a*x = b by Gauss-Jordan elimination with partial
// pivoting
func solve8(a [8][8]float64, b [8]float64) ([8]float64, error) {
	const eps = 1e-12
	for col := range 8 {
		pivot := col
		for r := col + 1; r < 8; r++ {
			if math.Abs(a[r][col]) > math.Abs(a[pivot][col]) {
				pivot = r
			}
		}
		if math.Abs(a[pivot][col]) < eps {
			return [8]float64{}, ErrSingular
		}
		a[col], a[pivot] = a[pivot], a[col]
		b[col], b[pivot] = b[pivot], b[col]

		div := a[col][col]
		for c := col; c < 8; c++ {
			a[col][c] /= div
		}
		b[col] /= div

		for r := range 8 {
			if r == col || a[r][col] == 0 {
				continue
			}
			f := a[r][col]
			for c := col; c < 8; c++ {
				a[r][c] -= f * a[col][c]
			}
			b[r] -= f * b[col]
		}
	}
	return b, nil
}

// Apply maps p through m. A point sent to infinity comes back as NaN.
func (m Matrix) Apply(p Point) Point {
	w := m[6]*p.X + m[7]*p.Y + m[8]
	if w == 0 {
		return Point{math.NaN(), math.NaN()}
	}
	return Point{
		X: (m[0]*p.X + m[1]*p.Y + m[2]) / w,
		Y: (m[3]*p.X + m[4]*p.Y + m[5]) / w,
	}
}

// Inverse returns the transform undoing m
func (m Matrix) Inverse() (Matrix, error) {
	// cofactors
	c0 := m[4]*m[8] - m[5]*m[7]
	c1 := m[5]*m[6] - m[3]*m[8]
	c2 := m[3]*m[7] - m[4]*m[6]

	det := m[0]*c0 + m[1]*c1 + m[2]*c2
	if math.Abs(det) < 1e-12 {
		return Matrix{}, ErrSingular
	}

	inv := Matrix{
		c0, m[2]*m[7] - m[1]*m[8], m[1]*m[5] - m[2]*m[4],
		c1, m[0]*m[8] - m[2]*m[6], m[2]*m[3] - m[0]*m[5],
		c2, m[1]*m[6] - m[0]*m[7], m[0]*m[4] - m[1]*m[3],
	}
	for i := range inv {
		inv[i] /= det
	}
	return inv, nil
}
