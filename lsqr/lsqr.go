// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lsqr

import (
	"context"
	"log"
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"

	"github.com/dwcaress/mbcore/blas"
)

// Mode tags passed to an AProd callback.
const (
	ModeAx  = 1 // y += A*x, x left unchanged
	ModeATy = 2 // x += A^T*y, y left unchanged
)

// AProd accumulates A*x into y (mode ModeAx) or A^T*y into x (mode ModeATy).
// It must add into the target vector rather than overwrite it, and must
// never touch the vector that is not its target.
type AProd func(mode int, x, y []float64)

// Stop reasons, matching the istop codes of the originating algorithm.
const (
	StopExactZero      = 0 // b = 0, so x = 0 is the exact solution
	StopCompatible     = 1 // Ax = b solved within atol, btol
	StopLeastSquares   = 2 // least-squares solution found within atol
	StopDampedLS       = 3 // damped least-squares solution found within atol
	StopIllConditioned = 4 // cond(Abar) reached conlim
	StopIterationLimit = 5 // itnlim reached before any of the above
)

// Result carries every output the algorithm produces. X and SE are
// la.Vector (a plain []float64 alias) to match the rest of mbcore's
// dense-vector boundaries.
type Result struct {
	X      la.Vector // solution
	SE     la.Vector // standard error estimates, nil unless requested
	Istop  int
	Itn    int
	Anorm  float64 // estimate of ||A||_F (or ||Abar||_F if damped)
	Acond  float64 // estimate of cond(Abar)
	Rnorm  float64 // ||r|| = ||b - Ax||
	Arnorm float64 // ||A^T r|| / (||A||*||r||); despite the name this is the
	// relative least-squares residual ratio, not the raw ||A^T r||, matching
	// what the originating routine actually reports through this slot
	Xnorm float64 // ||x||
}

// Solver runs LSQR against a caller-supplied AProd. The zero value is
// ready to use; set Log to receive the same per-iteration progress report
// the originating algorithm printed to its optional output stream.
type Solver struct {
	Log *log.Logger
}

// Solve finds x minimizing ||Ax-b|| (or solving Ax=b exactly when
// consistent), optionally damped by damp*||x||. b has length m; the
// returned solution has length n. atol and btol bound the relative error
// tolerated in A and b respectively; conlim bounds the estimated
// condition number of Abar; itnlim caps the iteration count. wantSE
// requests standard-error estimates alongside x.
//
// ctx is checked once before iteration begins; once the bidiagonalization
// loop starts it runs to completion on the caller's goroutine, per the
// core's no-mid-call-suspension rule — a caller that wants to abandon a
// long solve must do so between calls, not during one.
func (s *Solver) Solve(ctx context.Context, m, n int, aprod AProd, b []float64, damp float64, wantSE bool, atol, btol, conlim float64, itnlim int) (*Result, error) {
	if m <= 0 || n <= 0 {
		return nil, chk.Err("lsqr: invalid shape m=%d n=%d, both must be positive", m, n)
	}
	if len(b) != m {
		return nil, chk.Err("lsqr: len(b)=%d does not match m=%d", len(b), m)
	}
	if damp < 0 {
		return nil, chk.Err("lsqr: damp=%v must be non-negative", damp)
	}
	if err := ctx.Err(); err != nil {
		return nil, chk.Err("lsqr: %v", err)
	}
	if itnlim <= 0 {
		itnlim = 4 * (m + n)
	}

	damped := damp > 0
	u := append([]float64{}, b...)
	v := make([]float64, n)
	w := make([]float64, n)
	x := make([]float64, n)
	var se []float64
	if wantSE {
		se = make([]float64, n)
	}

	ctol := 0.0
	if conlim > 0 {
		ctol = 1 / conlim
	}

	alpha := 0.0
	beta := blas.Dnrm2(m, u, 1)
	if beta > 0 {
		blas.Dscal(m, 1/beta, u, 1)
		aprod(ModeATy, v, u)
		alpha = blas.Dnrm2(n, v, 1)
	}
	if alpha > 0 {
		blas.Dscal(n, 1/alpha, v, 1)
		blas.Dcopy(n, v, 1, w, 1)
	}

	bnorm := beta
	rnorm := beta
	anorm, acond, xnorm := 0.0, 0.0, 0.0
	dnorm, dxmax := 0.0, 0.0
	res2, psi := 0.0, 0.0
	xnorm1 := 0.0
	cs2, sn2 := -1.0, 0.0
	z := 0.0
	rhobar := alpha
	phibar := beta
	arnorm := alpha * beta

	istop := 0
	itn := 0
	arnormRel := 0.0 // relative ||A^T r|| / (||A||*||r||), reported as Arnorm

	if s.Log != nil {
		s.Log.Printf("lsqr: m=%d n=%d damp=%v wantse=%v atol=%v btol=%v conlim=%v itnlim=%d", m, n, damp, wantSE, atol, btol, conlim, itnlim)
	}

	if arnorm != 0 {
		nstop := 0
		for {
			itn++

			// Next step of the bidiagonalization: beta*u = A*v - alpha*u,
			// alpha*v = A^T*u - beta*v.
			blas.Dscal(m, -alpha, u, 1)
			aprod(ModeAx, v, u)
			beta = blas.Dnrm2(m, u, 1)

			anorm = d2norm(anorm, d2norm(d2norm(alpha, beta), damp))

			if beta > 0 {
				blas.Dscal(m, 1/beta, u, 1)
				blas.Dscal(n, -beta, v, 1)
				aprod(ModeATy, v, u)
				alpha = blas.Dnrm2(n, v, 1)
				if alpha > 0 {
					blas.Dscal(n, 1/alpha, v, 1)
				}
			}

			// Eliminate the damping parameter with a plane rotation; this
			// alters the diagonal (rhobar) of the lower-bidiagonal matrix.
			rhbar1 := rhobar
			if damped {
				rhbar1 = d2norm(rhobar, damp)
				cs1 := rhobar / rhbar1
				sn1 := damp / rhbar1
				psi = sn1 * phibar
				phibar = cs1 * phibar
			}

			// Eliminate the subdiagonal element beta, giving an
			// upper-bidiagonal matrix.
			rho := d2norm(rhbar1, beta)
			cs := rhbar1 / rho
			sn := beta / rho
			theta := sn * alpha
			rhobar = -cs * alpha
			phi := cs * phibar
			phibar = sn * phibar
			tau := sn * phi

			// Update x, w, and (perhaps) the standard error estimates.
			t1 := phi / rho
			t2 := -theta / rho
			t3 := 1 / rho
			dknorm := 0.0
			if wantSE {
				for i := 0; i < n; i++ {
					t := w[i]
					x[i] = t1*t + x[i]
					w[i] = t2*t + v[i]
					tt := (t3 * t) * (t3 * t)
					se[i] = tt + se[i]
					dknorm = tt + dknorm
				}
			} else {
				for i := 0; i < n; i++ {
					t := w[i]
					x[i] = t1*t + x[i]
					w[i] = t2*t + v[i]
					dknorm = (t3*t)*(t3*t) + dknorm
				}
			}

			dknorm = math.Sqrt(dknorm)
			dnorm = d2norm(dnorm, dknorm)
			dxk := math.Abs(phi * dknorm)
			if dxmax < dxk {
				dxmax = dxk
			}

			// Eliminate the superdiagonal element theta with a rotation on
			// the right, then estimate norm(x).
			delta := sn2 * rho
			gambar := -cs2 * rho
			rhs := phi - delta*z
			zbar := rhs / gambar
			xnorm = d2norm(xnorm1, zbar)
			gamma := d2norm(gambar, theta)
			cs2 = gambar / gamma
			sn2 = theta / gamma
			z = rhs / gamma
			xnorm1 = d2norm(xnorm1, z)

			// Estimate norm and condition of Abar and the norms of rbar
			// and Abar^T*rbar.
			acond = anorm * dnorm
			res2 = d2norm(res2, psi)
			rnorm = d2norm(res2, phibar)
			arnorm = alpha * math.Abs(tau)

			test1 := rnorm / bnorm
			test2 := 0.0
			if rnorm > 0 {
				test2 = arnorm / (anorm * rnorm)
			}
			arnormRel = test2
			test3 := 1 / acond
			rtol := btol + atol*anorm*xnorm/bnorm
			t1x := test1 / (1 + anorm*xnorm/bnorm)

			istop = 0
			if itn >= itnlim {
				istop = StopIterationLimit
			}
			if 1+test3 <= 1 {
				istop = StopIllConditioned
			}
			if 1+test2 <= 1 {
				istop = StopLeastSquares
			}
			if 1+t1x <= 1 {
				istop = StopCompatible
			}
			if test3 <= ctol {
				istop = StopIllConditioned
			}
			if test2 <= atol {
				istop = StopLeastSquares
			}
			if test1 <= rtol {
				istop = StopCompatible
			}

			if s.Log != nil {
				s.Log.Printf("lsqr itn=%d x1=%.9e rnorm=%.9e test1=%.2e test2=%.2e", itn, x[0], rnorm, test1, test2)
			}

			// Convergence must persist for one iteration before halting.
			if istop == 0 {
				nstop = 0
			} else {
				nstop++
				if nstop < 2 && itn < itnlim {
					istop = 0
				}
			}
			if istop != 0 {
				break
			}
		}
	}

	if wantSE {
		denom := 1.0
		if m > n {
			denom = float64(m - n)
		}
		if damped {
			denom = float64(m)
		}
		scale := rnorm / math.Sqrt(denom)
		for i := range se {
			se[i] = scale * math.Sqrt(se[i])
		}
	}

	if damped && istop == StopLeastSquares {
		istop = StopDampedLS
	}

	if s.Log != nil {
		s.Log.Printf("lsqr done istop=%d itn=%d anorm=%.5e acond=%.5e rnorm=%.5e xnorm=%.5e", istop, itn, anorm, acond, rnorm, xnorm)
	}

	res := &Result{
		X:      x,
		Istop:  istop,
		Itn:    itn,
		Anorm:  anorm,
		Acond:  acond,
		Rnorm:  rnorm,
		Arnorm: arnormRel,
		Xnorm:  xnorm,
	}
	if wantSE {
		res.SE = se
	}
	return res, nil
}

// d2norm returns sqrt(a^2+b^2), rescaled to avoid overflow or underflow.
func d2norm(a, b float64) float64 {
	scale := math.Abs(a) + math.Abs(b)
	if scale == 0 {
		return 0
	}
	sa, sb := a/scale, b/scale
	return scale * math.Sqrt(sa*sa+sb*sb)
}
