// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"github.com/cpmech/gosl/io"

	"github.com/dwcaress/mbcore/contour"
)

// EmitContours drives pen through every polyline and label contour
// traced, the way mesh+contour+plot are wired together end to end by
// cmd/swathcontour. colorIndex and linewidthIndex are applied once up
// front; callers wanting per-level styling should call EmitContours
// once per level with a different pen selection.
func EmitContours(pen Pen, polylines []contour.Polyline, colorIndex, linewidthIndex int) {
	pen.NewPen(colorIndex)
	pen.SetLine(linewidthIndex)
	for _, pl := range polylines {
		if len(pl.Points) == 0 {
			continue
		}
		last := len(pl.Points) - 1
		pen.Plot(pl.Points[0].X, pl.Points[0].Y, Move)
		for i := 1; i < last; i++ {
			pen.Plot(pl.Points[i].X, pl.Points[i].Y, Draw)
		}
		pen.Plot(pl.Points[last].X, pl.Points[last].Y, Stroke)
		for _, lbl := range pl.Labels {
			pen.PlotString(lbl.X, lbl.Y, 0, lbl.Angle, formatLevel(pl.Level))
		}
	}
}

func formatLevel(level float64) string {
	return io.Sf("%g", level)
}
