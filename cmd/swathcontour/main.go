// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command swathcontour traces depth contours across a synthetic swath
// and plots them, exercising mesh, contour, and plot end to end.
package main

import (
	"math"

	"github.com/cpmech/gosl/io"

	"github.com/dwcaress/mbcore/contour"
	"github.com/dwcaress/mbcore/mesh"
	"github.com/dwcaress/mbcore/plot"
	"github.com/dwcaress/mbcore/swath"
)

func main() {
	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	nalong := io.ArgToInt(0, 60)
	nacross := io.ArgToInt(1, 20)
	swathWidth := io.ArgToFloat64(2, 200.0)
	fname := io.ArgToString(3, "")

	io.Pf("swathcontour: %d x %d synthetic soundings, swath width %g m\n", nalong, nacross, swathWidth)

	samples := syntheticSwath(nalong, nacross, swathWidth)
	m, err := mesh.Build(samples)
	if err != nil {
		io.PfRed("mesh.Build failed: %v\n", err)
		return
	}
	if err := m.CheckSymmetry(); err != nil {
		io.PfRed("triangulation symmetry check failed: %v\n", err)
		return
	}

	zmin, zmax := zRange(samples)
	levels := make([]float64, 0, 10)
	step := (zmax - zmin) / 11
	for k := 1; k <= 10; k++ {
		levels = append(levels, zmin+step*float64(k))
	}

	polylines, err := contour.Trace(m, levels, contour.Options{Ticks: true, TickLen: 2, Labels: true, LabelSpacing: 40})
	if err != nil {
		io.PfRed("contour.Trace failed: %v\n", err)
		return
	}
	io.Pf("traced %d polylines across %d levels\n", len(polylines), len(levels))

	pen := plot.NewMatplotlib()
	pen.Fname = fname
	plot.EmitContours(pen, polylines, 1, 1)
	pen.Save()
}

// syntheticSwath generates a bathymetry bump crossed by a synthetic
// vehicle track, classifying the outermost soundings on each ping as
// swath edges the way a real multibeam pass would.
func syntheticSwath(nalong, nacross int, width float64) []swath.Sample {
	samples := make([]swath.Sample, 0, nalong*nacross)
	for i := 0; i < nalong; i++ {
		x := float64(i)
		for j := 0; j < nacross; j++ {
			y := -width/2 + width*float64(j)/float64(nacross-1)
			z := -100 - 20*math.Exp(-(x-float64(nalong)/2)*(x-float64(nalong)/2)/200-y*y/2000)
			edge := swath.Interior
			if j == 0 {
				edge = swath.Left
			} else if j == nacross-1 {
				edge = swath.Right
			}
			samples = append(samples, swath.Sample{X: x, Y: y, Z: z, Edge: edge})
		}
	}
	return samples
}

func zRange(samples []swath.Sample) (min, max float64) {
	min, max = math.Inf(1), math.Inf(-1)
	for _, s := range samples {
		if s.Z < min {
			min = s.Z
		}
		if s.Z > max {
			max = s.Z
		}
	}
	return min, max
}
