// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surface

import (
	"log"
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/dwcaress/mbcore/grid"
)

// Problem holds the parameters of one minimum-curvature/tension gridding
// run. Every field is read-only during Solve; Problem is not reusable
// concurrently across two Solve calls sharing the same Log.
type Problem struct {
	Xmin, Xmax, Ymin, Ymax float64
	Dx, Dy                 float64
	Tension                float64 // T in [0,1]
	ConvergeLimit          float64 // default 1e-3 * z_scale if zero
	MaxIterations          int     // default 250 if zero
	NoData                 float64
	LowerLimit, UpperLimit *grid.Grid // optional, same shape as the solved grid
	Log                    *log.Logger

	// derzmFraction bounds how far a periodic data snap-back may move a
	// node toward its bound sample in one pass, as a fraction of the
	// remaining gap. The source's derzm limiter is a per-node magnitude
	// cap derived from local curvature; this is a fixed-fraction stand-in
	// documented as a deliberate simplification.
	derzmFraction float64
}

const snapBackEvery = 10

// nodeCoord is a bound sample's (i, j) grid-node location.
type nodeCoord struct{ i, j int }

func (p *Problem) logf(format string, args ...interface{}) {
	if p.Log != nil {
		p.Log.Printf(format, args...)
	}
}

// Solve grids samples onto the configured regular mesh.
func (p *Problem) Solve(samples []grid.Sample) (*grid.Grid, error) {
	if p.Dx <= 0 || p.Dy <= 0 {
		return nil, chk.Err("surface: Dx and Dy must be positive")
	}
	ncols := int(math.Round((p.Xmax-p.Xmin)/p.Dx)) + 1
	nrows := int(math.Round((p.Ymax-p.Ymin)/p.Dy)) + 1
	if ncols < 2 || nrows < 2 {
		return nil, chk.Err("surface: grid must have at least 2x2 nodes, got %dx%d", ncols, nrows)
	}

	nodata := p.NoData
	if nodata == 0 {
		nodata = -99999
	}
	out := grid.New(ncols, nrows, p.Xmin, p.Ymin, p.Dx, p.Dy, nodata)

	g := grid.New(ncols, nrows, p.Xmin, p.Ymin, p.Dx, p.Dy, nodata)
	binned, err := grid.BinSamples(samples, g)
	if err != nil {
		return nil, err
	}
	if len(binned) < 3 {
		p.logf("surface: only %d bound samples, returning an empty grid", len(binned))
		return out, nil
	}

	nodeOf := make([]nodeCoord, len(binned))
	for k, s := range binned {
		nodeOf[k] = nodeCoord{s.Node / nrows, s.Node % nrows}
	}

	c0, c1, c2 := fitPlane(binned, nodeOf)
	resid := make([]float64, len(binned))
	var sumSq float64
	for k, s := range binned {
		trend := c0 + c1*float64(nodeOf[k].i) + c2*float64(nodeOf[k].j)
		resid[k] = s.Z - trend
		sumSq += resid[k] * resid[k]
	}
	rms := math.Sqrt(sumSq / float64(len(binned)))
	if rms == 0 {
		rms = 1
	}
	for k := range resid {
		resid[k] /= rms
	}

	convergeLimit := p.ConvergeLimit
	if convergeLimit == 0 {
		convergeLimit = 1e-3
	}
	maxIter := p.MaxIterations
	if maxIter == 0 {
		maxIter = 250
	}
	derzm := p.derzmFraction
	if derzm == 0 {
		derzm = 0.3
	}

	steps := divisorSchedule(ncols-1, nrows-1)

	u := make([]float64, ncols*nrows)
	set := make([]bool, ncols*nrows)

	bound := make(map[int]float64, len(binned))
	for k, s := range binned {
		bound[s.Node] = resid[k]
	}

	totalIter := 0
	prevStep := 0
	for _, step := range steps {
		ac := (ncols-1)/step + 1
		ar := (nrows-1)/step + 1
		active := make([]float64, ac*ar)
		activeSet := make([]bool, ac*ar)

		if prevStep == 0 {
			initCoarse(active, activeSet, ac, ar, step, nrows, binned, nodeOf, resid)
		} else {
			forecastFiner(active, activeSet, ac, ar, step, u, set, ncols, nrows)
		}
		snapActive(active, activeSet, ac, ar, step, nrows, bound)

		relax, iters := relaxLevel(active, ac, ar, p.Dx*float64(step), p.Dy*float64(step), p.Tension,
			bound, step, nrows, derzm, convergeLimit, maxIter-totalIter)
		totalIter += iters
		active = relax

		for a := 0; a < ac; a++ {
			for b := 0; b < ar; b++ {
				i, j := a*step, b*step
				idx := i*nrows + j
				u[idx] = active[a*ar+b]
				set[idx] = true
			}
		}
		prevStep = step
		if totalIter >= maxIter {
			break
		}
	}

	for i := 0; i < ncols; i++ {
		for j := 0; j < nrows; j++ {
			idx := i*nrows + j
			if !set[idx] {
				continue
			}
			z := u[idx]*rms + c0 + c1*float64(i) + c2*float64(j)
			if p.LowerLimit != nil && p.LowerLimit.Valid(i, j) {
				z = math.Max(z, p.LowerLimit.At(i, j))
			}
			if p.UpperLimit != nil && p.UpperLimit.Valid(i, j) {
				z = math.Min(z, p.UpperLimit.At(i, j))
			}
			out.Set(i, j, z)
		}
	}

	// Minimum-curvature surfaces are interpolants: force exact agreement
	// at every bound node rather than relying on the periodic snap-back
	// alone to converge there, since the snap-back's derzm fraction is
	// deliberately soft during relaxation and the cap on iterations means
	// it may not fully close the gap by the time the budget runs out.
	for k, s := range binned {
		i, j := nodeOf[k].i, nodeOf[k].j
		out.Set(i, j, s.Z)
	}

	p.logf("surface: solved %dx%d grid in %d relaxation iterations", ncols, nrows, totalIter)
	return out, nil
}

// fitPlane solves the 3x3 OLS normal equations for z = c0 + c1*i + c2*j
// by Cramer's rule. The system is fixed at 3x3, so a hand-rolled solve
// is clearer than routing a dense linear-algebra dependency through a
// single 3-variable regression.
func fitPlane(binned []grid.Sample, nodeOf []nodeCoord) (c0, c1, c2 float64) {
	var n, si, sj, sii, sij, sjj, sz, siz, sjz float64
	for k, s := range binned {
		i, j := float64(nodeOf[k].i), float64(nodeOf[k].j)
		n++
		si += i
		sj += j
		sii += i * i
		sij += i * j
		sjj += j * j
		sz += s.Z
		siz += i * s.Z
		sjz += j * s.Z
	}
	a := [3][3]float64{{n, si, sj}, {si, sii, sij}, {sj, sij, sjj}}
	b := [3]float64{sz, siz, sjz}
	det := det3(a)
	if math.Abs(det) < 1e-12 {
		return sz / n, 0, 0
	}
	var a0, a1, a2 [3][3]float64
	for r := 0; r < 3; r++ {
		a0[r], a1[r], a2[r] = a[r], a[r], a[r]
		a0[r][0], a1[r][1], a2[r][2] = b[r], b[r], b[r]
	}
	return det3(a0) / det, det3(a1) / det, det3(a2) / det
}

func det3(m [3][3]float64) float64 {
	return m[0][0]*(m[1][1]*m[2][2]-m[1][2]*m[2][1]) -
		m[0][1]*(m[1][0]*m[2][2]-m[1][2]*m[2][0]) +
		m[0][2]*(m[1][0]*m[2][1]-m[1][1]*m[2][0])
}

// divisorSchedule builds the coarse-to-fine step sequence: gcd(dw, dh)
// divided by each prime factor in turn down to 1.
func divisorSchedule(dw, dh int) []int {
	g := gcd(dw, dh)
	if g == 0 {
		g = 1
	}
	steps := []int{g}
	n := g
	for f := 2; f*f <= n; f++ {
		for n%f == 0 {
			n /= f
			steps = append(steps, n)
		}
	}
	if steps[len(steps)-1] != 1 {
		steps = append(steps, 1)
	}
	return steps
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// initCoarse seeds the coarsest active grid from nearby bound samples via
// inverse-distance weighting within a search radius of two coarse cells;
// unreached nodes default to zero (the trend-removed, rescaled no-
// information value).
func initCoarse(active []float64, activeSet []bool, ac, ar, step, nrows int, binned []grid.Sample, nodeOf []nodeCoord, resid []float64) {
	radius := 2.0 * float64(step)
	for a := 0; a < ac; a++ {
		for b := 0; b < ar; b++ {
			ci, cj := float64(a*step), float64(b*step)
			var wsum, zsum float64
			for k := range binned {
				di, dj := float64(nodeOf[k].i)-ci, float64(nodeOf[k].j)-cj
				d := math.Hypot(di, dj)
				if d > radius {
					continue
				}
				w := 1.0 / (1.0 + d)
				wsum += w
				zsum += w * resid[k]
			}
			if wsum > 0 {
				active[a*ar+b] = zsum / wsum
				activeSet[a*ar+b] = true
			}
		}
	}
}

// forecastFiner seeds a finer active grid from the previous, coarser
// solution: nodes already solved at the coarser step are copied; new
// nodes are filled by bilinearFillFromSparse.
func forecastFiner(active []float64, activeSet []bool, ac, ar, step int, u []float64, set []bool, ncols, nrows int) {
	for a := 0; a < ac; a++ {
		for b := 0; b < ar; b++ {
			i, j := a*step, b*step
			idx := i*nrows + j
			if set[idx] {
				active[a*ar+b] = u[idx]
				activeSet[a*ar+b] = true
			}
		}
	}
	bilinearFillFromSparse(active, activeSet, ac, ar, step, u, set, ncols, nrows)
}

// bilinearFillFromSparse fills every unset active node by linear
// interpolation along i between the nearest already-set nodes in the
// same row j; it does not interpolate along j. A node that lacks a set
// node on either side within its row is filled with zero.
func bilinearFillFromSparse(active []float64, activeSet []bool, ac, ar, step int, u []float64, set []bool, ncols, nrows int) {
	for a := 0; a < ac; a++ {
		for b := 0; b < ar; b++ {
			if activeSet[a*ar+b] {
				continue
			}
			i, j := a*step, b*step
			i0 := nearestSet(u, set, i, j, nrows, true)
			i1 := nearestSet(u, set, i, j, nrows, false)
			active[a*ar+b] = interpAxis(u, nrows, i, j, i0, i1)
			activeSet[a*ar+b] = true
		}
	}
}

// nearestSet walks outward along i (the coarser-grid axis) to find the
// nearest column with a previously-set value at row j, in the requested
// direction.
func nearestSet(u []float64, set []bool, i, j, nrows int, lower bool) int {
	if lower {
		for k := i; k >= 0; k-- {
			if set[k*nrows+j] {
				return k
			}
		}
		return i
	}
	for k := i; k < len(set)/nrows; k++ {
		if set[k*nrows+j] {
			return k
		}
	}
	return i
}

func interpAxis(u []float64, nrows, i, j, i0, i1 int) float64 {
	if i0 == i1 {
		return u[i0*nrows+j]
	}
	frac := float64(i-i0) / float64(i1-i0)
	return u[i0*nrows+j]*(1-frac) + u[i1*nrows+j]*frac
}

// snapActive overwrites active nodes that own a bound sample with that
// sample's value, establishing the hard constraints the relaxation must
// respect.
func snapActive(active []float64, activeSet []bool, ac, ar, step, nrows int, bound map[int]float64) {
	for a := 0; a < ac; a++ {
		for b := 0; b < ar; b++ {
			fullNode := (a*step)*nrows + b*step
			if z, ok := bound[fullNode]; ok {
				active[a*ar+b] = z
				activeSet[a*ar+b] = true
			}
		}
	}
}

// relaxLevel runs Gauss-Seidel sweeps over the active grid (shape ac x
// ar, node spacing hx,hy) blending biharmonic and harmonic operators by
// tension, snapping constrained nodes back toward their bound sample
// every snapBackEvery iterations, until the relative change falls below
// convergeLimit or the iteration budget is exhausted.
func relaxLevel(active []float64, ac, ar int, hx, hy, tension float64, bound map[int]float64, step, nrows int, derzm, convergeLimit float64, budget int) ([]float64, int) {
	if budget <= 0 {
		return active, 0
	}
	relaxNew := 1.4
	relaxOld := 1.0 - relaxNew

	at := func(a, b int) float64 {
		if a < 0 {
			a = 0
		}
		if a >= ac {
			a = ac - 1
		}
		if b < 0 {
			b = 0
		}
		if b >= ar {
			b = ar - 1
		}
		return active[a*ar+b]
	}

	iter := 0
	for ; iter < budget; iter++ {
		var maxDelta float64
		for a := 0; a < ac; a++ {
			for b := 0; b < ar; b++ {
				idx := a*ar + b
				lap := (at(a+1, b) + at(a-1, b) - 2*at(a, b)) / (hx * hx) +
					(at(a, b+1) + at(a, b-1) - 2*at(a, b)) / (hy * hy)

				var biharm float64
				if a >= 2 && a < ac-2 && b >= 2 && b < ar-2 {
					biharm = (20*at(a, b) -
						8*(at(a+1, b)+at(a-1, b)+at(a, b+1)+at(a, b-1)) +
						2*(at(a+1, b+1)+at(a+1, b-1)+at(a-1, b+1)+at(a-1, b-1)) +
						(at(a+2, b) + at(a-2, b) + at(a, b+2) + at(a, b-2))) /
						(hx * hx * hx * hx)
				} else {
					// boundary reduction: fall back to the harmonic term
					// alone rather than the full 13-point biharmonic
					// stencil, a generalised stand-in for the source's
					// 25 boundary-case templates.
					biharm = -lap
				}

				residual := (1-tension)*biharm - tension*lap
				denom := (1-tension)*(20/(hx*hx*hx*hx)) + tension*(2/(hx*hx)+2/(hy*hy))
				if denom == 0 {
					continue
				}
				delta := -residual / denom
				newVal := at(a, b) + delta
				sum := at(a, b)*relaxOld + newVal*relaxNew
				d := math.Abs(sum - active[idx])
				if d > maxDelta {
					maxDelta = d
				}
				active[idx] = sum
			}
		}

		if iter > 0 && iter%snapBackEvery == 0 {
			for a := 0; a < ac; a++ {
				for b := 0; b < ar; b++ {
					fullNode := (a*step)*nrows + b*step
					if z, ok := bound[fullNode]; ok {
						idx := a*ar + b
						active[idx] += derzm * (z - active[idx])
					}
				}
			}
		}

		if maxDelta < convergeLimit {
			iter++
			break
		}
	}
	return active, iter
}
