// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package zgrid

import (
	"log"
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/dwcaress/mbcore/grid"
)

const (
	iterMax        = 1000
	iterMin        = 50
	iterTransition = 100
	dzCriteria     = 0.001
)

// ZgridDimensionMax is the per-axis node count beyond which SolveAuto
// downscales before relaxing and bilinearly upsamples the result.
const ZgridDimensionMax = 500

// Problem holds the parameters of one spline/Laplace gridding run.
type Problem struct {
	Xmin, Ymin   float64
	Dx, Dy       float64
	NCols, NRows int
	Cay          float64 // tension k: 0 = Laplace, +Inf = pure spline
	Nrng         int     // max grid spacings a node may lie from data
	NoData       float64
	Log          *log.Logger
}

func (p *Problem) logf(format string, args ...interface{}) {
	if p.Log != nil {
		p.Log.Printf(format, args...)
	}
}

// Solve grids samples onto the configured regular mesh.
func (p *Problem) Solve(samples []grid.Sample) (*grid.Grid, error) {
	if p.Dx <= 0 || p.Dy <= 0 {
		return nil, chk.Err("zgrid: Dx and Dy must be positive")
	}
	if p.NCols < 2 || p.NRows < 2 {
		return nil, chk.Err("zgrid: grid must have at least 2x2 nodes, got %dx%d", p.NCols, p.NRows)
	}
	if math.IsInf(p.Cay, 1) {
		// an infinite Cay would turn the stencil weights into NaN; at 1e10
		// the Laplace terms are negligible beside the spline terms.
		q := *p
		q.Cay = 1e10
		p = &q
	}
	nodata := p.NoData
	if nodata == 0 {
		nodata = -99999
	}
	out := grid.New(p.NCols, p.NRows, p.Xmin, p.Ymin, p.Dx, p.Dy, nodata)
	if len(samples) == 0 {
		return out, nil
	}

	ncols, nrows := p.NCols, p.NRows
	z := make([]float64, ncols*nrows)
	has := make([]bool, ncols*nrows)
	sum := make([]float64, ncols*nrows)
	count := make([]int, ncols*nrows)
	nodeOffset := make(map[int][2]float64, len(samples)) // first sample's (x,y) fraction within its node

	zmin, zmax := math.Inf(1), math.Inf(-1)
	for _, s := range samples {
		fi := (s.X - p.Xmin) / p.Dx
		fj := (s.Y - p.Ymin) / p.Dy
		i := int(math.Round(fi))
		j := int(math.Round(fj))
		if i < 0 || i >= ncols || j < 0 || j >= nrows {
			continue
		}
		idx := i*nrows + j
		sum[idx] += s.Z
		count[idx]++
		if _, ok := nodeOffset[idx]; !ok {
			nodeOffset[idx] = [2]float64{fi - float64(i), fj - float64(j)}
		}
		zmin = math.Min(zmin, s.Z)
		zmax = math.Max(zmax, s.Z)
	}
	ndata := 0
	for idx := range sum {
		if count[idx] > 0 {
			z[idx] = sum[idx] / float64(count[idx])
			has[idx] = true
			ndata++
		}
	}
	if ndata == 0 {
		p.logf("zgrid: no samples fell within the grid extent, returning an empty grid")
		return out, nil
	}
	zrange := zmax - zmin
	if zrange <= 0 {
		zrange = 1
	}
	hrange := math.Min(p.Dx*float64(ncols-1), p.Dy*float64(nrows-1))
	derzm := zrange * 2.0 / hrange

	dist := distanceToNearestData(has, ncols, nrows)
	active := make([]bool, ncols*nrows)
	for idx := range active {
		if has[idx] {
			active[idx] = true
			continue
		}
		if p.Nrng <= 0 || dist[idx] <= p.Nrng {
			active[idx] = true
		}
	}
	fillInitialGuess(z, has, active, ncols, nrows)

	const big = 1e30
	at := func(i, j int) (float64, bool) {
		if i < 0 || i >= ncols || j < 0 || j >= nrows {
			return big, false
		}
		idx := i*nrows + j
		if !active[idx] {
			return big, false
		}
		return z[idx], true
	}

	dataNodes := make([]int, 0, ndata)
	for idx := range has {
		if has[idx] {
			dataNodes = append(dataNodes, idx)
		}
	}

	relax := 1.0
	var dzrmsPrev, dzrms8, convtestLast float64
	nconvtestincrease := 0
	converged := false

	var iter int
	for iter = 1; iter <= iterMax; iter++ {
		var dzrms, dzmax float64
		npg := 0
		for i := 0; i < ncols; i++ {
			for j := 0; j < nrows; j++ {
				idx := i*nrows + j
				if !active[idx] || has[idx] {
					continue
				}
				z00 := z[idx]
				var wgt, zsum float64
				var zim, zjm float64
				imOK, jmOK := false, false
				if v, ok := at(i-1, j); ok {
					wgt += 1
					zsum += v
					zim, imOK = v, true
					if zimm, ok2 := at(i-2, j); ok2 {
						wgt += p.Cay
						zsum -= p.Cay * (zimm - 2*v)
					}
				}
				if zip, ok := at(i+1, j); ok {
					wgt += 1
					zsum += zip
					if imOK {
						wgt += 4 * p.Cay
						zsum += 2 * p.Cay * (zim + zip)
					}
					if zipp, ok2 := at(i+2, j); ok2 {
						wgt += p.Cay
						zsum -= p.Cay * (zipp - 2*zip)
					}
				}
				if v, ok := at(i, j-1); ok {
					wgt += 1
					zsum += v
					zjm, jmOK = v, true
					if zjmm, ok2 := at(i, j-2); ok2 {
						wgt += p.Cay
						zsum -= p.Cay * (zjmm - 2*v)
					}
				}
				if zjp, ok := at(i, j+1); ok {
					wgt += 1
					zsum += zjp
					if jmOK {
						wgt += 4 * p.Cay
						zsum += 2 * p.Cay * (zjm + zjp)
					}
					if zjpp, ok2 := at(i, j+2); ok2 {
						wgt += p.Cay
						zsum -= p.Cay * (zjpp - 2*zjp)
					}
				}
				if wgt == 0 {
					continue
				}
				dz := zsum/wgt - z00
				npg++
				dzrms += dz * dz
				dzmax = math.Max(math.Abs(dz), dzmax)
				z[idx] = z00 + dz*relax
			}
		}

		if iter%10 == 0 {
			snapToSamples(z, has, active, ncols, nrows, dataNodes, sum, count, nodeOffset, p, derzm)
		}

		if npg <= 1 {
			converged = true
			break
		}
		dzrms = math.Sqrt(dzrms / float64(npg))
		var root float64
		if dzrms > 0 && dzrmsPrev > 0 {
			root = dzrms / dzrmsPrev
		}
		dzmaxf := dzmax / zrange
		dzrmsPrev = dzrms

		if iter%10 == 2 {
			dzrms8 = dzrms
		}
		if iter%10 == 0 {
			if dzrms > 0 && dzrms8 > 0 {
				root = math.Sqrt(math.Sqrt(math.Sqrt(dzrms / dzrms8)))
			} else {
				root = 0
			}
			if root >= 0.9999 {
				p.logf("zgrid: iteration %d convergence test skipped, root=%.6f", iter, root)
				if iter >= iterTransition {
					nconvtestincrease++
				}
				if iter >= iterMin || (iter >= iterTransition && nconvtestincrease >= 4) {
					converged = true
					break
				}
				continue
			}
			convtest := dzmaxf - dzCriteria
			if iter >= iterTransition && convtest > convtestLast {
				nconvtestincrease++
			}
			if (convtest <= 0 && iter >= iterMin) || (iter >= iterTransition && nconvtestincrease >= 4) {
				converged = true
				break
			}
			convtestLast = convtest
		}
	}
	if !converged {
		p.logf("zgrid: hit the %d-iteration cap without converging", iterMax)
	} else {
		p.logf("zgrid: converged after %d iterations", iter)
	}

	for idx := range z {
		if active[idx] {
			i, j := idx/nrows, idx%nrows
			out.Set(i, j, z[idx])
		}
	}
	return out, nil
}

// distanceToNearestData returns, for every node, its Chebyshev distance
// in grid spacings to the nearest node carrying a sample, via multi-
// source BFS.
func distanceToNearestData(has []bool, ncols, nrows int) []int {
	dist := make([]int, ncols*nrows)
	for i := range dist {
		dist[i] = -1
	}
	queue := make([]int, 0, ncols*nrows)
	for idx, h := range has {
		if h {
			dist[idx] = 0
			queue = append(queue, idx)
		}
	}
	dirs := [8][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	for head := 0; head < len(queue); head++ {
		idx := queue[head]
		i, j := idx/nrows, idx%nrows
		for _, d := range dirs {
			ni, nj := i+d[0], j+d[1]
			if ni < 0 || ni >= ncols || nj < 0 || nj >= nrows {
				continue
			}
			nidx := ni*nrows + nj
			if dist[nidx] != -1 {
				continue
			}
			dist[nidx] = dist[idx] + 1
			queue = append(queue, nidx)
		}
	}
	return dist
}

// fillInitialGuess seeds every active, sample-free node with the value
// of its nearest data node (found again via BFS, this time stopping at
// the first data node reached rather than recording distance only).
func fillInitialGuess(z []float64, has, active []bool, ncols, nrows int) {
	nearest := make([]int, ncols*nrows)
	for i := range nearest {
		nearest[i] = -1
	}
	queue := make([]int, 0, ncols*nrows)
	for idx, h := range has {
		if h {
			nearest[idx] = idx
			queue = append(queue, idx)
		}
	}
	dirs := [8][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	for head := 0; head < len(queue); head++ {
		idx := queue[head]
		i, j := idx/nrows, idx%nrows
		for _, d := range dirs {
			ni, nj := i+d[0], j+d[1]
			if ni < 0 || ni >= ncols || nj < 0 || nj >= nrows {
				continue
			}
			nidx := ni*nrows + nj
			if nearest[nidx] != -1 {
				continue
			}
			nearest[nidx] = nearest[idx]
			queue = append(queue, nidx)
		}
	}
	for idx := range z {
		if active[idx] && !has[idx] && nearest[idx] != -1 {
			z[idx] = z[nearest[idx]]
		}
	}
}

// snapToSamples nudges each data node's value back toward its true
// sample height via a local quadratic Taylor fit (no cross term) of the
// surrounding cross-neighbours, bounded by a derzm-scaled step so the pull never
// overshoots by more than a fraction of the local grid spacing.
func snapToSamples(z []float64, has, active []bool, ncols, nrows int, dataNodes []int, sum []float64, count []int, nodeOffset map[int][2]float64, p *Problem, derzm float64) {
	for _, idx := range dataNodes {
		i, j := idx/nrows, idx%nrows
		z00 := z[idx]

		ze, haveE := neighborOrReflect(z, active, ncols, nrows, i+1, j, i-1, j, z00)
		zw, haveW := neighborOrReflect(z, active, ncols, nrows, i-1, j, i+1, j, z00)
		if !haveE && !haveW {
			ze, zw = z00, z00
		}
		zn, haveN := neighborOrReflect(z, active, ncols, nrows, i, j+1, i, j-1, z00)
		zs, haveS := neighborOrReflect(z, active, ncols, nrows, i, j-1, i, j+1, z00)
		if !haveN && !haveS {
			zn, zs = z00, z00
		}

		a := (ze - zw) * 0.5
		b := (zn - zs) * 0.5
		c := (ze+zw)*0.5 - z00
		d := (zn+zs)*0.5 - z00

		off := nodeOffset[idx]
		x, y := off[0], off[1]
		zxy := z00 + a*x + b*y + c*x*x + d*y*y

		delzm := derzm * (math.Abs(x)*p.Dx + math.Abs(y)*p.Dy) * 0.8
		delz := z00 - zxy
		if delz > delzm {
			delz = delzm
		}
		if delz < -delzm {
			delz = -delzm
		}
		z[idx] = sum[idx]/float64(count[idx]) + delz
	}
}

func neighborOrReflect(z []float64, active []bool, ncols, nrows, i, j, ri, rj int, z00 float64) (float64, bool) {
	if i >= 0 && i < ncols && j >= 0 && j < nrows {
		idx := i*nrows + j
		if active[idx] {
			return z[idx], true
		}
	}
	if ri >= 0 && ri < ncols && rj >= 0 && rj < nrows {
		idx := ri*nrows + rj
		if active[idx] {
			return 2*z00 - z[idx], false
		}
	}
	return z00, false
}

// SolveAuto is the zgrid2 wrapper: grids at or under the dimension cap on
// both axes solve directly; larger grids solve at a downscaled resolution and
// bilinearly upsample, following the originating implementation's exact
// downscale-factor and cell-size arithmetic.
func (p *Problem) SolveAuto(samples []grid.Sample) (*grid.Grid, error) {
	if p.NCols <= ZgridDimensionMax && p.NRows <= ZgridDimensionMax {
		return p.Solve(samples)
	}

	sfactor := float64(ZgridDimensionMax) / math.Max(float64(p.NCols), float64(p.NRows))
	snx := int(sfactor*float64(p.NCols)) + 1
	sny := int(sfactor*float64(p.NRows)) + 1
	sdx := (p.Dx * float64(p.NCols-1)) / float64(snx)
	sdy := (p.Dy * float64(p.NRows-1)) / float64(sny)
	snrng := int(sfactor*float64(p.Nrng)) + 1

	p.logf("zgrid: downscaling %dx%d to %dx%d before relaxing", p.NCols, p.NRows, snx, sny)
	small := &Problem{
		Xmin: p.Xmin, Ymin: p.Ymin,
		Dx: sdx, Dy: sdy,
		NCols: snx, NRows: sny,
		Cay: p.Cay, Nrng: snrng,
		NoData: p.NoData, Log: p.Log,
	}
	sg, err := small.Solve(samples)
	if err != nil {
		return nil, err
	}

	nodata := p.NoData
	if nodata == 0 {
		nodata = -99999
	}
	out := grid.New(p.NCols, p.NRows, p.Xmin, p.Ymin, p.Dx, p.Dy, nodata)
	for i := 0; i < p.NCols; i++ {
		for j := 0; j < p.NRows; j++ {
			xi := float64(i) * p.Dx
			yj := float64(j) * p.Dy
			si := int(xi / sdx)
			sj := int(yj / sdy)
			if si >= snx-1 {
				si = snx - 2
			}
			if si < 0 {
				si = 0
			}
			if sj >= sny-1 {
				sj = sny - 2
			}
			if sj < 0 {
				sj = 0
			}
			if !sg.Valid(si, sj) || !sg.Valid(si+1, sj) || !sg.Valid(si, sj+1) || !sg.Valid(si+1, sj+1) {
				continue
			}
			sx0, sx1 := float64(si)*sdx, float64(si+1)*sdx
			sy0, sy1 := float64(sj)*sdy, float64(sj+1)*sdy
			z := (sg.At(si, sj)*(sx1-xi)*(sy1-yj) +
				sg.At(si+1, sj)*(xi-sx0)*(sy1-yj) +
				sg.At(si, sj+1)*(sx1-xi)*(yj-sy0) +
				sg.At(si+1, sj+1)*(xi-sx0)*(yj-sy0)) / (sdx * sdy)
			out.Set(i, j, z)
		}
	}
	return out, nil
}
