// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lsqr

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/stretchr/testify/assert"

	"github.com/dwcaress/mbcore/blas"
)

// identityAProd implements AProd for the 2x2 identity matrix.
func identityAProd(mode int, x, y []float64) {
	n := len(x)
	if len(y) < n {
		n = len(y)
	}
	switch mode {
	case ModeAx:
		blas.Daxpy(n, 1, x, 1, y, 1)
	case ModeATy:
		blas.Daxpy(n, 1, y, 1, x, 1)
	}
}

func TestLsqrTrivial(tst *testing.T) {
	chk.PrintTitle("lsqr solves a trivial diagonal system")

	var s Solver
	res, err := s.Solve(context.Background(), 2, 2, identityAProd, []float64{3, 4}, 0, false, 1e-9, 1e-9, 1e8, 50)
	if err != nil {
		tst.Fatal(err)
	}
	if res.Istop != StopCompatible {
		tst.Fatalf("istop = %d, want %d", res.Istop, StopCompatible)
	}
	if res.Itn != 2 {
		tst.Fatalf("itn = %d, want 2", res.Itn)
	}
	chk.Vector(tst, "x", 1e-8, res.X, []float64{3, 4})
	if res.Rnorm > 1e-8 {
		tst.Fatalf("rnorm = %v, want ~0", res.Rnorm)
	}
}

func TestLsqrDamped(tst *testing.T) {
	chk.PrintTitle("lsqr applies damping to a square system")

	var s Solver
	res, err := s.Solve(context.Background(), 2, 2, identityAProd, []float64{3, 4}, 1, false, 1e-9, 1e-9, 1e8, 50)
	if err != nil {
		tst.Fatal(err)
	}
	if res.Istop != StopDampedLS {
		tst.Fatalf("istop = %d, want %d", res.Istop, StopDampedLS)
	}
	chk.Vector(tst, "x", 1e-6, res.X, []float64{1.5, 2.0})
}

// denseAProd returns an AProd backed by a dense row-major m x n matrix.
func denseAProd(m, n int, a []float64) AProd {
	return func(mode int, x, y []float64) {
		switch mode {
		case ModeAx:
			for i := 0; i < m; i++ {
				var sum float64
				for j := 0; j < n; j++ {
					sum += a[i*n+j] * x[j]
				}
				y[i] += sum
			}
		case ModeATy:
			for j := 0; j < n; j++ {
				var sum float64
				for i := 0; i < m; i++ {
					sum += a[i*n+j] * y[i]
				}
				x[j] += sum
			}
		}
	}
}

// TestLsqrTermination checks that on a
// random overdetermined system with a known solution, once istop settles
// on a converged code the relative error is bounded by 100*atol.
func TestLsqrTermination(tst *testing.T) {
	chk.PrintTitle("lsqr terminates within the iteration limit")

	rng := rand.New(rand.NewSource(7))
	const atol = 1e-10

	for trial := 0; trial < 10; trial++ {
		m, n := 12, 5
		a := make([]float64, m*n)
		for i := range a {
			a[i] = rng.NormFloat64()
		}
		xstar := make([]float64, n)
		for j := range xstar {
			xstar[j] = rng.NormFloat64() * 3
		}
		b := make([]float64, m)
		prod := denseAProd(m, n, a)
		prod(ModeAx, xstar, b)

		var s Solver
		res, err := s.Solve(context.Background(), m, n, prod, b, 0, false, atol, atol, 1e10, 500)
		if err != nil {
			tst.Fatal(err)
		}
		if res.Istop != StopCompatible && res.Istop != StopLeastSquares && res.Istop != StopDampedLS {
			tst.Fatalf("trial %d: istop = %d, expected a converged code", trial, res.Istop)
		}

		diff := make([]float64, n)
		for j := range diff {
			diff[j] = res.X[j] - xstar[j]
		}
		relErr := norm(diff) / norm(xstar)
		assert.LessOrEqual(tst, relErr, 100*atol+1e-9, "trial %d relative error too large", trial)
	}
}

func norm(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return math.Sqrt(s)
}
