// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package surface

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/dwcaress/mbcore/grid"
)

func TestDivisorScheduleEndsAtOne(tst *testing.T) {
	chk.PrintTitle("coarse-to-fine step schedule reaches 1")

	for _, dims := range [][2]int{{39, 39}, {12, 18}, {7, 7}, {1, 5}} {
		steps := divisorSchedule(dims[0], dims[1])
		if steps[len(steps)-1] != 1 {
			tst.Fatalf("divisorSchedule(%v) = %v, does not end at 1", dims, steps)
		}
		for i := 1; i < len(steps); i++ {
			if steps[i] >= steps[i-1] {
				tst.Fatalf("divisorSchedule(%v) = %v is not strictly decreasing", dims, steps)
			}
		}
	}
}

func TestFitPlaneRecoversExactPlane(tst *testing.T) {
	chk.PrintTitle("planar trend OLS recovers an exact plane")

	var binned []grid.Sample
	var nodeOf []nodeCoord
	for i := 0; i < 5; i++ {
		for j := 0; j < 5; j++ {
			z := 2 + 3*float64(i) - 1.5*float64(j)
			binned = append(binned, grid.Sample{Z: z})
			nodeOf = append(nodeOf, nodeCoord{i, j})
		}
	}
	c0, c1, c2 := fitPlane(binned, nodeOf)
	if math.Abs(c0-2) > 1e-9 || math.Abs(c1-3) > 1e-9 || math.Abs(c2-(-1.5)) > 1e-9 {
		tst.Fatalf("fitPlane = (%v, %v, %v), want (2, 3, -1.5)", c0, c1, c2)
	}
}

// TestSurfaceInterpolatesBoundNodes is the round-trip gridding property
// a surface solved from scattered samples must reproduce the
// sampled value at each sample's own node.
func TestSurfaceInterpolatesBoundNodes(tst *testing.T) {
	chk.PrintTitle("surface reproduces data at bound nodes (round-trip)")

	const n = 40
	p := &Problem{
		Xmin: 0, Xmax: float64(n - 1), Ymin: 0, Ymax: float64(n - 1),
		Dx: 1, Dy: 1, Tension: 0.35,
	}
	var samples []grid.Sample
	ref := make(map[[2]int]float64)
	for i := 0; i < n; i += 4 {
		for j := 0; j < n; j += 4 {
			x := float64(i) / float64(n-1)
			y := float64(j) / float64(n-1)
			z := math.Cos(math.Pi*x) * math.Sin(math.Pi*y)
			samples = append(samples, grid.Sample{X: float64(i), Y: float64(j), Z: z})
			ref[[2]int{i, j}] = z
		}
	}

	g, err := p.Solve(samples)
	if err != nil {
		tst.Fatal(err)
	}
	for k, z := range ref {
		got := g.At(k[0], k[1])
		if math.Abs(got-z) > 1e-6 {
			tst.Fatalf("node %v = %.6f, want %.6f", k, got, z)
		}
	}
}

func TestSurfaceRejectsNonPositiveSpacing(tst *testing.T) {
	chk.PrintTitle("surface rejects non-positive grid spacing")

	p := &Problem{Xmin: 0, Xmax: 1, Ymin: 0, Ymax: 1, Dx: 0, Dy: 1}
	_, err := p.Solve(nil)
	if err == nil {
		tst.Fatal("expected an error for Dx = 0")
	}
}

func TestSurfaceTooFewSamplesReturnsEmptyGrid(tst *testing.T) {
	chk.PrintTitle("surface with too few samples returns an empty grid rather than failing")

	p := &Problem{Xmin: 0, Xmax: 3, Ymin: 0, Ymax: 3, Dx: 1, Dy: 1}
	g, err := p.Solve([]grid.Sample{{X: 0, Y: 0, Z: 1}, {X: 1, Y: 1, Z: 2}})
	if err != nil {
		tst.Fatal(err)
	}
	min, max := g.Extrema()
	if min != g.NoData || max != g.NoData {
		tst.Fatalf("expected an all-nodata grid, got extrema (%v, %v)", min, max)
	}
}
