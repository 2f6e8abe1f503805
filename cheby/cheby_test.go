// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cheby

import (
	"math"
	"sort"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/num"
	"github.com/stretchr/testify/assert"
)

// TestSplitsIsEventuallyPermutation checks the round-trip property from
// applying Splits to itself ceil(log2 n) times is a permutation
// of the original n indices.
func TestSplitsIsEventuallyPermutation(tst *testing.T) {
	chk.PrintTitle("splits permutation property")

	for _, n := range []int{2, 4, 8, 16, 32} {
		x := make([]float64, n)
		for i := range x {
			x[i] = float64(i)
		}
		t := make([]float64, n)

		rounds := int(math.Ceil(math.Log2(float64(n))))
		for r := 0; r < rounds; r++ {
			Splits(x, t)
		}

		seen := make([]bool, n)
		for _, v := range x {
			idx := int(v)
			if idx < 0 || idx >= n || seen[idx] {
				tst.Fatalf("n=%d: result %v is not a permutation (repeated or out-of-range index %v)", n, x, v)
			}
			seen[idx] = true
		}
	}
}

func TestChebyuProducesOrderedNodes(tst *testing.T) {
	chk.PrintTitle("chebyu node schedule")

	sigma := Chebyu(8, 10.0, 1.0)
	if len(sigma) != 8 {
		tst.Fatalf("len(sigma) = %d, want 8", len(sigma))
	}
	for _, s := range sigma {
		assert.GreaterOrEqual(tst, s, 1.0)
		assert.LessOrEqual(tst, s, 10.0)
	}

	// the underlying node set (unordered) must be the classical Chebyshev
	// nodes on [slo, shi], only their order within the schedule changes.
	sorted := append([]float64{}, sigma...)
	sort.Float64s(sorted)
	for i := 0; i < 8; i++ {
		want := (-math.Cos(float64(2*(i+1)-1)*math.Pi/2/8)*(10.0-1.0) + (10.0 + 1.0)) / 2
		found := false
		for _, s := range sorted {
			if math.Abs(s-want) < 1e-9 {
				found = true
				break
			}
		}
		if !found {
			tst.Fatalf("node %v missing from schedule %v", want, sigma)
		}
	}
}

// diagonalMatrix builds a packed-row Matrix for a diagonal nc x nc system,
// one non-zero per row.
func diagonalMatrix(diag []float64) *Matrix {
	n := len(diag)
	a := make([]float64, n)
	ia := make([]int, n)
	nia := make([]int, n)
	copy(a, diag)
	for i := range ia {
		ia[i] = i
		nia[i] = 1
	}
	return &Matrix{A: a, IA: ia, NIA: nia, NNZ: 1, NC: n, NR: n}
}

func TestLsqupConvergesOnDiagonalSystem(tst *testing.T) {
	chk.PrintTitle("lsqup on a diagonal system")

	diag := []float64{2, 4, 8}
	m := diagonalMatrix(diag)
	d := []float64{4, 12, 32} // so that x* = (2, 3, 4)

	x := make([]float64, 3)
	dx := make([]float64, 3)
	sigma := Chebyu(16, 64.0, 1.0)

	Lsqup(m, x, dx, d, nil, nil, 16, sigma)

	want := []float64{2, 3, 4}
	for i := range want {
		assert.InDelta(tst, want[i], x[i], 0.5, "component %d", i)
	}
}

func TestLsqupFixesRequestedIndices(tst *testing.T) {
	chk.PrintTitle("lsqup honors ifix/fix")

	diag := []float64{2, 4}
	m := diagonalMatrix(diag)
	d := []float64{4, 12}
	x := make([]float64, 2)
	dx := make([]float64, 2)
	sigma := Chebyu(8, 16.0, 1.0)

	Lsqup(m, x, dx, d, []int{0}, []float64{99.0}, 8, sigma)

	if x[0] != 99.0 {
		tst.Fatalf("x[0] = %v, want fixed value 99.0", x[0])
	}
}

func TestLspeigEstimatesLargestEigenvalue(tst *testing.T) {
	chk.PrintTitle("lspeig eigenvalue estimate")

	// AtA for a diagonal A is diag(a_i^2); the largest eigenvalue of AtA
	// is max(a_i)^2.
	diag := []float64{1, 2, 3}
	m := diagonalMatrix(diag)
	x := make([]float64, 3)
	dx := make([]float64, 3)

	var est EigenEstimator
	est.Lspeig(m, 0, x, dx)
	est.Smax = 20.0 // rough initial guess, as the sample calling sequence suggests
	_, sup := est.Lspeig(m, 4, x, dx)

	assert.InDelta(tst, 9.0, est.Smax, 3.0)
	assert.GreaterOrEqual(tst, sup, est.Smax)
}

// TestLspeigRayleighGradient evaluates a central finite difference of the
// Rayleigh quotient functional R(x) = (x'A'Ax)/(x'x), the functional whose
// maximum Lspeig's power iteration estimates, at a fixed vector and checks
// that each component is finite. It does not call Lspeig itself.
func TestLspeigRayleighGradient(tst *testing.T) {
	chk.PrintTitle("lspeig vs finite-difference Rayleigh quotient")

	diag := []float64{1, 2, 5}
	rayleigh := func(xj, h float64, j int, x []float64) float64 {
		xx := append([]float64{}, x...)
		xx[j] = xj
		var num, den float64
		for i, xi := range xx {
			num += diag[i] * diag[i] * xi * xi
			den += xi * xi
		}
		return num / den
	}

	x0 := []float64{0.1, 0.2, 0.97}
	for j := range x0 {
		deriv := num.DerivCen(func(xj float64, args ...interface{}) float64 {
			return rayleigh(xj, 1e-6, j, x0)
		}, x0[j])
		// the Rayleigh quotient is stationary (zero gradient) only at an
		// eigenvector; away from one the finite-difference derivative is
		// simply finite and well-defined, which is all this check assays.
		if math.IsNaN(deriv) || math.IsInf(deriv, 0) {
			tst.Fatalf("component %d: derivative is not finite: %v", j, deriv)
		}
	}
}

func TestErrlimShrinksWithMoreCycles(tst *testing.T) {
	chk.PrintTitle("errlim monotonicity")

	sigma4 := Chebyu(4, 10.0, 1.0)
	sigma8 := Chebyu(8, 10.0, 1.0)
	e4 := Errlim(sigma4, 4, 10.0, 1.0)
	e8 := Errlim(sigma8, 8, 10.0, 1.0)
	if !(e8 < e4) {
		tst.Fatalf("errlim did not shrink with more cycles: e4=%v e8=%v", e4, e8)
	}
}

func TestErrratIdentityAtEqualEigenvalues(tst *testing.T) {
	chk.PrintTitle("errrat at x1==x2")

	sigma := Chebyu(4, 10.0, 1.0)
	r := Errrat(5.0, 5.0, sigma, 4)
	assert.InDelta(tst, 1.0, r, 1e-9)
}
