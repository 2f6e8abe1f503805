// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package plot

import (
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/plt"
)

// palette maps a pen colour index onto a matplotlib colour code, adapting
// the index-based Pen contract onto matplotlib's style strings.
var palette = []string{"k", "b", "r", "g", "m", "c", "y"}

func colorOf(index int) string {
	if index < 0 || index >= len(palette) {
		return "k"
	}
	return palette[index]
}

// Matplotlib implements Pen by accumulating a single polyline's worth
// of moves/draws and flushing it to gosl/plt (and, transitively,
// matplotlib) on Stroke. It is a real, swappable implementation of the
// collaborator interface, not a mock.
type Matplotlib struct {
	color      string
	linewidth  float64
	penX, penY []float64

	// Dirout and Fname select where Save writes the figure; Fname == ""
	// shows the figure interactively instead of saving it.
	Dirout string
	Fname  string
}

// NewMatplotlib returns a Matplotlib pen with default styling; callers
// typically follow it with a call to plt.Init or rely on gosl/plt's own
// lazy figure creation.
func NewMatplotlib() *Matplotlib {
	return &Matplotlib{color: colorOf(0), linewidth: 1}
}

func (m *Matplotlib) Plot(x, y float64, mode Mode) {
	switch mode {
	case Move:
		m.flush()
		m.penX = append(m.penX, x)
		m.penY = append(m.penY, y)
	case Draw:
		m.penX = append(m.penX, x)
		m.penY = append(m.penY, y)
	case Stroke:
		m.penX = append(m.penX, x)
		m.penY = append(m.penY, y)
		m.flush()
	}
}

func (m *Matplotlib) flush() {
	if len(m.penX) < 2 {
		m.penX, m.penY = nil, nil
		return
	}
	plt.Plot(m.penX, m.penY, io.Sf("color='%s', lw=%g, clip_on=0", m.color, m.linewidth))
	m.penX, m.penY = nil, nil
}

func (m *Matplotlib) NewPen(colorIndex int) {
	m.flush()
	m.color = colorOf(colorIndex)
}

func (m *Matplotlib) SetLine(linewidthIndex int) {
	m.flush()
	m.linewidth = float64(linewidthIndex)
	if m.linewidth <= 0 {
		m.linewidth = 1
	}
}

// MeasureString approximates matplotlib's rendered text metrics without
// a live renderer: a fixed-width assumption (0.6 of the text height per
// character) gives an approximate footprint, not a pixel-exact one.
func (m *Matplotlib) MeasureString(height float64, s string) (width, advance float64) {
	width = float64(len(s)) * height * 0.6
	advance = width
	return width, advance
}

func (m *Matplotlib) PlotString(x, y, height, angleDeg float64, s string) {
	m.flush()
	plt.Text(x, y, s, io.Sf("ha='left', va='center', size=%g, rotation=%g, clip_on=0", height, angleDeg))
}

// Save flushes any pending line segments and writes the figure to
// m.Dirout/m.Fname, or shows it interactively when Fname is empty.
func (m *Matplotlib) Save() {
	m.flush()
	plt.Gll("x", "y", "")
	if m.Fname == "" {
		plt.Show()
		return
	}
	if m.Dirout == "" {
		plt.Save(m.Fname)
	} else {
		plt.SaveD(m.Dirout, m.Fname)
	}
}
