// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package grid

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"
)

// Grid is a two-dimensional mapping from (i,j) in
// [0,NCols)x[0,NRows) to depth, stored column-major as
// Values[i*NRows+j] to match the layout a topogrid view reads directly.
type Grid struct {
	NCols, NRows int
	Xmin, Ymin   float64
	Dx, Dy       float64
	NoData       float64
	Values       []float64
	Projection   string // "" | "geographic WGS84" | "projected EPSG:NNNNN"
}

// New allocates a Grid of the given shape, filled with nodata.
func New(ncols, nrows int, xmin, ymin, dx, dy, nodata float64) *Grid {
	g := &Grid{
		NCols: ncols, NRows: nrows,
		Xmin: xmin, Ymin: ymin,
		Dx: dx, Dy: dy,
		NoData: nodata,
		Values: make([]float64, ncols*nrows),
	}
	for i := range g.Values {
		g.Values[i] = nodata
	}
	return g
}

func (g *Grid) index(i, j int) int { return i*g.NRows + j }

// At returns the value at node (i,j).
func (g *Grid) At(i, j int) float64 { return g.Values[g.index(i, j)] }

// Set stores the value at node (i,j).
func (g *Grid) Set(i, j int, v float64) { g.Values[g.index(i, j)] = v }

// Valid reports whether node (i,j) holds data rather than the no-data
// sentinel.
func (g *Grid) Valid(i, j int) bool { return g.At(i, j) != g.NoData }

// Extrema returns the minimum and maximum values among valid nodes, or
// (NoData, NoData) if no node is valid.
func (g *Grid) Extrema() (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	found := false
	for _, v := range g.Values {
		if v == g.NoData {
			continue
		}
		found = true
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	if !found {
		return g.NoData, g.NoData
	}
	return min, max
}

// NodeCenter returns the (x,y) coordinate of node (i,j)'s centre.
func (g *Grid) NodeCenter(i, j int) (x, y float64) {
	return g.Xmin + float64(i)*g.Dx, g.Ymin + float64(j)*g.Dy
}

// DzDx returns a grid of identical shape holding the centred-difference
// x-derivative at every valid interior node; boundary columns use a
// one-sided difference. Nodes adjacent to a no-data neighbour are
// themselves marked no-data.
func (g *Grid) DzDx() *Grid {
	out := New(g.NCols, g.NRows, g.Xmin, g.Ymin, g.Dx, g.Dy, g.NoData)
	for j := 0; j < g.NRows; j++ {
		for i := 0; i < g.NCols; i++ {
			if !g.Valid(i, j) {
				continue
			}
			switch {
			case i == 0:
				if g.Valid(i+1, j) {
					out.Set(i, j, (g.At(i+1, j)-g.At(i, j))/g.Dx)
				}
			case i == g.NCols-1:
				if g.Valid(i-1, j) {
					out.Set(i, j, (g.At(i, j)-g.At(i-1, j))/g.Dx)
				}
			default:
				if g.Valid(i-1, j) && g.Valid(i+1, j) {
					out.Set(i, j, (g.At(i+1, j)-g.At(i-1, j))/(2*g.Dx))
				}
			}
		}
	}
	return out
}

// DzDy is DzDx's counterpart along the j (row) axis.
func (g *Grid) DzDy() *Grid {
	out := New(g.NCols, g.NRows, g.Xmin, g.Ymin, g.Dx, g.Dy, g.NoData)
	for j := 0; j < g.NRows; j++ {
		for i := 0; i < g.NCols; i++ {
			if !g.Valid(i, j) {
				continue
			}
			switch {
			case j == 0:
				if g.Valid(i, j+1) {
					out.Set(i, j, (g.At(i, j+1)-g.At(i, j))/g.Dy)
				}
			case j == g.NRows-1:
				if g.Valid(i, j-1) {
					out.Set(i, j, (g.At(i, j)-g.At(i, j-1))/g.Dy)
				}
			default:
				if g.Valid(i, j-1) && g.Valid(i, j+1) {
					out.Set(i, j, (g.At(i, j+1)-g.At(i, j-1))/(2*g.Dy))
				}
			}
		}
	}
	return out
}

// Sample is a scattered (x, y, z) observation bound to a grid node after
// BinSamples runs.
type Sample struct {
	X, Y, Z float64
	Node    int // i*NRows+j of the owning grid, set by BinSamples
}

// BinSamples assigns every sample its enclosing grid node and drops all
// but the one closest to that node's centre when more than one sample
// shares a node. The returned slice is sorted by node index with, within
// a node, the survivor already in place (ties broken by input order).
func BinSamples(samples []Sample, g *Grid) ([]Sample, error) {
	if g.Dx <= 0 || g.Dy <= 0 {
		return nil, chk.Err("grid: Dx and Dy must be positive, got %g, %g", g.Dx, g.Dy)
	}
	type binned struct {
		s    Sample
		dist float64
	}
	best := make(map[int]binned)
	order := make([]int, 0, len(samples))
	for _, s := range samples {
		i := int(math.Round((s.X - g.Xmin) / g.Dx))
		j := int(math.Round((s.Y - g.Ymin) / g.Dy))
		if i < 0 || i >= g.NCols || j < 0 || j >= g.NRows {
			continue
		}
		node := i*g.NRows + j
		cx, cy := g.NodeCenter(i, j)
		d := math.Hypot(s.X-cx, s.Y-cy)
		s.Node = node
		if cur, ok := best[node]; !ok {
			best[node] = binned{s, d}
			order = append(order, node)
		} else if d < cur.dist {
			best[node] = binned{s, d}
		}
	}
	sort.Ints(order)
	out := make([]Sample, len(order))
	for k, node := range order {
		out[k] = best[node].s
	}
	return out, nil
}
