// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cheby

import (
	"math"

	"github.com/cpmech/gosl/chk"
)

// Matrix is a packed-row sparse matrix: row i has NIA[i] non-zero entries
// stored at A[i*NNZ : i*NNZ+NIA[i]], with column index IA[i*NNZ+j] for
// entry j. NNZ is an upper bound on non-zeros per row, uniform across all
// rows (rows with fewer non-zeros simply use a shorter prefix).
type Matrix struct {
	A   []float64
	IA  []int
	NIA []int
	NNZ int
	NC  int // columns (length of x)
	NR  int // rows (length of d)
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// Lsqup performs ncycle Richardson sweeps x += Aᵀ(d-Ax)/sigma[k], the k-th
// sweep using origin shift sigma[k]. After every sweep, x[ifix[j]] is
// reset to fix[j]. dx is caller-provided scratch space of length m.NC;
// its contents on return are unspecified. ncycle must be a power of two.
func Lsqup(m *Matrix, x, dx []float64, d []float64, ifix []int, fix []float64, ncycle int, sigma []float64) {
	if !isPowerOfTwo(ncycle) {
		chk.Panic("cheby: Lsqup requires ncycle to be a power of two, got %d", ncycle)
	}
	for icyc := 0; icyc < ncycle; icyc++ {
		for j := range dx {
			dx[j] = 0
		}
		for i := 0; i < m.NR; i++ {
			base := m.NNZ * i
			var res float64
			for j := 0; j < m.NIA[i]; j++ {
				k := base + j
				res += m.A[k] * x[m.IA[k]]
			}
			res = d[i] - res
			for j := 0; j < m.NIA[i]; j++ {
				k := base + j
				dx[m.IA[k]] += res * m.A[k]
			}
		}
		for j := range x {
			x[j] += dx[j] / sigma[icyc]
		}
		for j, idx := range ifix {
			x[idx] = fix[j]
		}
	}
}

// Chebyu returns the ncycle Chebyshev nodes on [slo, shi], reordered by
// repeated Splits so the sequence has the pairing property: after any
// even-length prefix has been applied, the already-applied shifts are
// uniformly distributed across the interval. ncycle must be a power of
// two.
func Chebyu(ncycle int, shi, slo float64) []float64 {
	if !isPowerOfTwo(ncycle) {
		chk.Panic("cheby: Chebyu requires ncycle to be a power of two, got %d", ncycle)
	}
	sigma := make([]float64, ncycle)
	for i := 0; i < ncycle; i++ {
		c := -math.Cos(float64(2*(i+1)-1) * math.Pi / 2 / float64(ncycle))
		sigma[i] = (c*(shi-slo) + (shi + slo)) / 2
	}

	work := make([]float64, ncycle)
	for length := ncycle; length > 2; length /= 2 {
		nsort := ncycle / length
		for is := 0; is < nsort; is++ {
			i0 := is * length
			Splits(sigma[i0:i0+length], work[:length])
		}
	}
	return sigma
}

// Splits partitions x into even-indexed and odd-indexed halves, reverses
// the even half, and writes the concatenation back into x. t is
// caller-provided scratch space of length n = len(x). Splits only
// permutes x, so repeated application, whether to the whole slice or (as
// in Chebyu) to blocks of halving length from n down to 4, always leaves a
// permutation of the original n values.
func Splits(x, t []float64) {
	n := len(x)
	l := 0
	for i := 0; i < n; i += 2 {
		t[l] = x[i]
		l++
	}
	for i := 1; i < n; i += 2 {
		t[l] = x[i]
		l++
	}

	nb2 := n / 2
	nb2m1 := nb2 - 1
	if nb2 >= 2 {
		for i := 0; i < nb2; i++ {
			x[i] = t[nb2m1-i]
		}
		for i := nb2; i < n; i++ {
			x[i] = t[i]
		}
	} else {
		copy(x, t[:n])
	}
}

// Errlim returns the theoretical maximum error bound achievable by
// ncycle Chebyshev-scheduled sweeps over the eigenvalue band [slo, shi].
func Errlim(sigma []float64, ncycle int, shi, slo float64) float64 {
	errlim := 1.0
	delta := 0.25 * (shi - slo)
	for i := 0; i < ncycle; i++ {
		errlim *= delta / sigma[i]
	}
	return 2 * errlim
}

// Errrat returns the ratio of the error at eigenvalue x1 to the error at
// eigenvalue x2, under the same schedule sigma.
func Errrat(x1, x2 float64, sigma []float64, ncycle int) float64 {
	errrat := 1.0
	rat := x1 / x2
	for k := 0; k < ncycle; k++ {
		errrat *= rat * (1 - sigma[k]/x1) / (1 - sigma[k]/x2)
	}
	return math.Abs(errrat)
}

// EigenEstimator holds the accumulated state of repeated Lspeig calls:
// the running shift schedule and iteration count that the originating
// algorithm kept as call-by-pointer accumulators (nsig, sigma). Each
// problem gets its own estimator; there is no shared global state.
type EigenEstimator struct {
	Sigma []float64 // grows by ncyc+1 on every call
	NSig  int
	Smax  float64
}

// Lspeig advances the eigenvalue estimate of AᵀA by one round: ncyc
// Chebyshev-scheduled power-iteration sweeps plus a final zero-shift
// sweep. Call it first with ncyc=0 to seed x and Smax from the
// row-summing heuristic, then with increasing ncyc to refine both.
//
// x and dx are caller-provided vectors of length m.NC; x carries the
// eigenvector estimate in and out. It returns the error bound err (at
// least one eigenvalue of AᵀA lies within Smax±err) and a pessimistic
// upper bound sup on the true largest eigenvalue, refined by bisecting
// Errrat.
func (e *EigenEstimator) Lspeig(m *Matrix, ncyc int, x, dx []float64) (err, sup float64) {
	const eps = 1.0e-6

	if ncyc == 0 {
		// Seed the eigenvector by accumulating each row of A into x with
		// a sign chosen so the running inner product does not decrease.
		// Row 0 is copied in unconditionally before the sign-convention
		// loop starts at row 1 — this asymmetry is inherited from the
		// originating algorithm (it is flagged there as a suspect bug)
		// and is preserved rather than silently fixed.
		i := 0
		base := m.NNZ * i
		for j := 0; j < m.NIA[i]; j++ {
			k := base + j
			x[m.IA[k]] = m.A[k]
		}
		for i := 1; i < m.NR; i++ {
			base := m.NNZ * i
			var res float64
			for j := 0; j < m.NIA[i]; j++ {
				k := base + j
				res += x[m.IA[k]] * m.A[k]
			}
			if math.Abs(res) <= 1e-30 {
				res = 1.0
			} else {
				res = res / math.Abs(res)
			}
			for j := 0; j < m.NIA[i]; j++ {
				k := base + j
				x[m.IA[k]] += res * m.A[k]
			}
		}
		var norm float64
		for j := 0; j < m.NC; j++ {
			norm += x[j] * x[j]
		}
		norm = 1 / math.Sqrt(norm)
		for j := 0; j < m.NC; j++ {
			x[j] *= norm
		}
	} else {
		e.Sigma = append(e.Sigma, Chebyu(ncyc, e.Smax, 0)...)
	}

	nsig1 := e.NSig + 1
	e.NSig = nsig1 + ncyc
	for len(e.Sigma) < e.NSig {
		e.Sigma = append(e.Sigma, 0)
	}
	e.Sigma[e.NSig-1] = 0.0

	for icyc := nsig1 - 1; icyc < e.NSig; icyc++ {
		for j := range dx {
			dx[j] = 0
		}
		for i := 0; i < m.NR; i++ {
			base := m.NNZ * i
			var res float64
			for j := 0; j < m.NIA[i]; j++ {
				k := base + j
				res += m.A[k] * x[m.IA[k]]
			}
			for j := 0; j < m.NIA[i]; j++ {
				k := base + j
				dx[m.IA[k]] += res * m.A[k]
			}
		}
		for j := 0; j < m.NC; j++ {
			dx[j] -= e.Sigma[icyc] * x[j]
		}
		e.Smax = 0
		for j := 0; j < m.NC; j++ {
			e.Smax += dx[j] * dx[j]
		}
		e.Smax = math.Sqrt(e.Smax)

		if icyc == e.NSig-1 {
			err = 0
			for j := 0; j < m.NC; j++ {
				res := dx[j] - e.Smax*x[j]
				err += res * res
			}
			err = math.Sqrt(err)
		}

		for j := 0; j < m.NC; j++ {
			x[j] = dx[j] / e.Smax
		}
	}

	slo := e.Smax
	sup = (1 + eps) * e.Smax * math.Pow(eps, -1/float64(e.NSig))
	res := 1.0
	for icyc := 0; icyc < 25 && res > eps; icyc++ {
		smp := 0.5 * (sup + slo)
		errsmp := Errrat(e.Smax, smp, e.Sigma, e.NSig)
		if errsmp > eps {
			slo = smp
		} else {
			sup = smp
		}
		res = (sup - slo) / slo
	}
	return err, sup
}
