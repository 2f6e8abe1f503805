// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/dwcaress/mbcore/swath"
)

func TestBuildMinimalSquare(tst *testing.T) {
	chk.PrintTitle("triangulation over a minimal square")

	pts := []swath.Sample{
		{X: 0, Y: 0, Z: 1},
		{X: 1, Y: 0, Z: 2},
		{X: 0, Y: 1, Z: 3},
		{X: 1, Y: 1, Z: 4},
	}
	m, err := Build(pts)
	if err != nil {
		tst.Fatal(err)
	}
	if len(m.Triangles) != 2 {
		tst.Fatalf("len(Triangles) = %d, want 2", len(m.Triangles))
	}
	if err := m.CheckSymmetry(); err != nil {
		tst.Fatal(err)
	}
	if got := m.BoundarySides(); got != 4 {
		tst.Fatalf("BoundarySides() = %d, want 4", got)
	}
}

func TestSymmetryOnRandomCloud(tst *testing.T) {
	chk.PrintTitle("triangulation symmetry holds over random clouds")

	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 5; trial++ {
		n := 30 + rng.Intn(40)
		pts := make([]swath.Sample, n)
		for i := range pts {
			pts[i] = swath.Sample{X: rng.Float64() * 100, Y: rng.Float64() * 100, Z: rng.NormFloat64()}
		}
		pts = PrepareSamples(pts, 1e-3)
		m, err := Build(pts)
		if err != nil {
			tst.Fatalf("trial %d: %v", trial, err)
		}
		if err := m.CheckSymmetry(); err != nil {
			tst.Fatalf("trial %d: %v", trial, err)
		}
	}
}

func TestBuildRejectsTooFewPoints(tst *testing.T) {
	chk.PrintTitle("triangulation rejects degenerate input")

	_, err := Build([]swath.Sample{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err == nil {
		tst.Fatal("expected an error for fewer than 3 points")
	}
}

func TestEdgeClassificationOnBoundarySides(tst *testing.T) {
	chk.PrintTitle("edge classification on boundary sides")

	pts := []swath.Sample{
		{X: 0, Y: 0, Z: 1, Edge: swath.Left},
		{X: 0, Y: 1, Z: 2, Edge: swath.Left},
		{X: 1, Y: 0, Z: 3, Edge: swath.Right},
		{X: 1, Y: 1, Z: 4, Edge: swath.Right},
	}
	m, err := Build(pts)
	if err != nil {
		tst.Fatal(err)
	}
	foundLeft, foundRight := false, false
	for _, t := range m.Triangles {
		for j := 0; j < 3; j++ {
			switch t.ED[j] {
			case int(swath.Left):
				foundLeft = true
			case int(swath.Right):
				foundRight = true
			}
		}
	}
	if !foundLeft || !foundRight {
		tst.Fatalf("expected both a Left and a Right classified side, found left=%v right=%v", foundLeft, foundRight)
	}
}

func TestPrepareSamplesKeepsLargestMagnitudePerBin(tst *testing.T) {
	chk.PrintTitle("sample preparation coarse binning")

	samples := []swath.Sample{
		{X: 0.001, Y: 0.001, Z: -5},
		{X: 0.002, Y: 0.002, Z: -50}, // same coarse bin, deeper (larger |z|)
		{X: 10, Y: 10, Z: -3},
	}
	out := PrepareSamples(samples, 0.1)
	if len(out) != 2 {
		tst.Fatalf("len(out) = %d, want 2", len(out))
	}
	var sawDeep bool
	for _, s := range out {
		if math.Abs(s.Z-(-50)) < 1e-9 {
			sawDeep = true
		}
		if math.Abs(s.Z-(-5)) < 1e-9 {
			tst.Fatalf("shallower duplicate %v survived binning", s)
		}
	}
	if !sawDeep {
		tst.Fatal("deepest sample in the shared bin did not survive")
	}
}
