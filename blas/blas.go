// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package blas

import "math"

// offset returns the starting index into a vector of length n accessed
// with stride inc, matching the BLAS convention of walking backwards from
// the end when inc is negative.
func offset(n int, inc int) int {
	if inc >= 0 {
		return 0
	}
	return (1 - n) * inc
}

// Daxpy computes y := alpha*x + y in place. A zero alpha or an empty
// vector leaves y untouched.
func Daxpy(n int, alpha float64, x []float64, incX int, y []float64, incY int) {
	if n <= 0 || alpha == 0.0 {
		return
	}
	ix := offset(n, incX)
	iy := offset(n, incY)
	for i := 0; i < n; i++ {
		y[iy] += alpha * x[ix]
		ix += incX
		iy += incY
	}
}

// Dcopy copies x into y: y := x.
func Dcopy(n int, x []float64, incX int, y []float64, incY int) {
	if n <= 0 {
		return
	}
	ix := offset(n, incX)
	iy := offset(n, incY)
	for i := 0; i < n; i++ {
		y[iy] = x[ix]
		ix += incX
		iy += incY
	}
}

// Ddot returns the inner product of x and y.
func Ddot(n int, x []float64, incX int, y []float64, incY int) float64 {
	if n <= 0 {
		return 0
	}
	var r float64
	ix := offset(n, incX)
	iy := offset(n, incY)
	for i := 0; i < n; i++ {
		r += x[ix] * y[iy]
		ix += incX
		iy += incY
	}
	return r
}

// Dnrm2 returns the Euclidean norm of x, scaling intermediate terms to
// avoid overflow or underflow on extreme magnitudes.
func Dnrm2(n int, x []float64, incX int) float64 {
	if n <= 0 || incX == 0 {
		return 0
	}
	if n == 1 {
		return math.Abs(x[0])
	}
	var scale, ssq float64
	ssq = 1.0
	ix := offset(n, incX)
	for i := 0; i < n; i++ {
		v := x[ix]
		if v != 0.0 {
			av := math.Abs(v)
			if scale < av {
				ssq = 1.0 + ssq*(scale/av)*(scale/av)
				scale = av
			} else {
				ssq += (av / scale) * (av / scale)
			}
		}
		ix += incX
	}
	return scale * math.Sqrt(ssq)
}

// Dscal scales x in place: x := alpha*x.
func Dscal(n int, alpha float64, x []float64, incX int) {
	if n <= 0 || incX == 0 {
		return
	}
	ix := offset(n, incX)
	for i := 0; i < n; i++ {
		x[ix] *= alpha
		ix += incX
	}
}
