// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

// Mode selects the behaviour of a Pen.Plot call, mirroring a pen-plotter's
// move/draw/stroke primitive.
type Mode int

const (
	// Move repositions the pen without drawing.
	Move Mode = iota
	// Draw extends the current line to (x, y).
	Draw
	// Stroke extends the current line to (x, y) and flushes it to the
	// output device.
	Stroke
)

// Pen is the plot-sink collaborator contract consumed by contour and
// swath-track drawing. Implementations need not be safe for concurrent
// use by multiple goroutines; each drawing pass owns one Pen.
type Pen interface {
	// Plot moves, draws to, or strokes at (x, y) depending on mode.
	Plot(x, y float64, mode Mode)

	// NewPen selects the colour used by subsequent Draw calls.
	NewPen(colorIndex int)

	// SetLine selects the line width used by subsequent Draw calls.
	SetLine(linewidthIndex int)

	// MeasureString returns the rendered width and horizontal advance
	// of s at the given text height, without drawing it.
	MeasureString(height float64, s string) (width, advance float64)

	// PlotString draws s at (x, y), rotated by angleDeg from horizontal,
	// at the given text height.
	PlotString(x, y, height, angleDeg float64, s string)
}
