// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/dwcaress/mbcore/contour"
)

// recordingPen is a Pen that records every call instead of drawing
// anything, used to assert EmitContours' drive sequence.
type recordingPen struct {
	moves, draws, strokes int
	strings               []string
	color, linewidth      int
}

func (p *recordingPen) Plot(x, y float64, mode Mode) {
	switch mode {
	case Move:
		p.moves++
	case Draw:
		p.draws++
	case Stroke:
		p.strokes++
	}
}
func (p *recordingPen) NewPen(colorIndex int)   { p.color = colorIndex }
func (p *recordingPen) SetLine(linewidth int)   { p.linewidth = linewidth }
func (p *recordingPen) MeasureString(h float64, s string) (float64, float64) {
	return float64(len(s)), float64(len(s))
}
func (p *recordingPen) PlotString(x, y, height, angleDeg float64, s string) {
	p.strings = append(p.strings, s)
}

func TestEmitContoursDrivesMoveDrawStroke(tst *testing.T) {
	chk.PrintTitle("EmitContours drives a Pen through move/draw/stroke")

	polylines := []contour.Polyline{
		{
			Level:  2.5,
			Points: []contour.Point{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 0}},
			Labels: []contour.Label{{X: 1, Y: 1, Angle: 45}},
		},
	}
	pen := &recordingPen{}
	EmitContours(pen, polylines, 3, 2)

	if pen.color != 3 || pen.linewidth != 2 {
		tst.Fatalf("pen styling = (%d, %d), want (3, 2)", pen.color, pen.linewidth)
	}
	if pen.moves != 1 {
		tst.Fatalf("moves = %d, want 1", pen.moves)
	}
	if pen.draws != 1 {
		tst.Fatalf("draws = %d, want 1 (interior point only)", pen.draws)
	}
	if pen.strokes != 1 {
		tst.Fatalf("strokes = %d, want 1", pen.strokes)
	}
	if len(pen.strings) != 1 || pen.strings[0] != "2.5" {
		tst.Fatalf("labels emitted = %v, want [\"2.5\"]", pen.strings)
	}
}

func TestEmitContoursSkipsEmptyPolylines(tst *testing.T) {
	chk.PrintTitle("EmitContours skips polylines with no points")

	pen := &recordingPen{}
	EmitContours(pen, []contour.Polyline{{Level: 1}}, 0, 1)
	if pen.moves != 0 || pen.draws != 0 || pen.strokes != 0 {
		tst.Fatal("expected no drawing calls for an empty polyline")
	}
}
