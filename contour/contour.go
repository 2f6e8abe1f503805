// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package contour

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"

	"github.com/dwcaress/mbcore/mesh"
	"github.com/dwcaress/mbcore/swath"
)

// Point is a single vertex of a traced polyline, in the same coordinate
// system as the mesh's sample points.
type Point struct{ X, Y float64 }

// Justify selects how a label's text anchors relative to its point.
type Justify int

const (
	Other       Justify = iota
	LeftOfStart         // used when the labelled edge is the port (Left) boundary
)

// Label annotates a contour endpoint that lies on a true swath-edge side.
type Label struct {
	X, Y, Angle float64
	Justify     Justify
}

// edgeRef identifies the physical triangle side a crossing point was
// interpolated from, so its ED classification can be looked up later
// without re-deriving it from the (by-then-consumed) flag state.
type edgeRef struct {
	Tri, Side int
}

// Polyline is one traced contour at one level: an ordered vertex list
// (with tick decoration points interleaved when requested) plus whatever
// labels were accepted along the way.
type Polyline struct {
	Level  float64
	Points []Point
	Labels []Label
	Closed bool

	startEdge edgeRef
	endEdge   edgeRef
}

// Options controls tick and label decoration. The zero value traces bare
// polylines with no decoration.
type Options struct {
	Ticks        bool
	TickLen      float64
	Labels       bool
	LabelSpacing float64
	// Epsilon, scaled by the z-range, is the perturbation applied to
	// samples that land exactly on a level. Unscaled, it is both the
	// z-range below which nothing is traced and the z-difference below
	// which a crossing point falls back to the side's midpoint. Defaults
	// to 1e-4 if zero.
	Epsilon float64
}

const labelHistoryCapacity = 30

// labelHistory is the bounded-capacity window a candidate label is
// checked against: a new label is accepted only if it is at least the
// configured spacing from every label in this window.
type labelHistory struct {
	points []Point
}

func (h *labelHistory) accepts(p Point, spacing float64) bool {
	for _, q := range h.points {
		if math.Hypot(p.X-q.X, p.Y-q.Y) < spacing {
			return false
		}
	}
	return true
}

func (h *labelHistory) record(p Point) {
	h.points = append(h.points, p)
	if len(h.points) > labelHistoryCapacity {
		h.points = h.points[len(h.points)-labelHistoryCapacity:]
	}
}

const flagConsumed = -1
const flagCrossing = 1
const flagNone = 0

// Trace produces one Polyline per contour found at each of the given
// ascending levels. The per-side crossing flags live in a slice local to
// each level's trace; m itself, including its Flag fields, is only read.
func Trace(m *mesh.Mesh, levels []float64, opts Options) ([]Polyline, error) {
	if opts.TickLen < 0 {
		return nil, chk.Err("contour: TickLen must be >= 0, got %g", opts.TickLen)
	}
	if len(m.Triangles) == 0 {
		return nil, nil
	}
	eps := opts.Epsilon
	if eps == 0 {
		eps = 1e-4
	}

	zmin, zmax := math.Inf(1), math.Inf(-1)
	for _, p := range m.Points {
		zmin = math.Min(zmin, p.Z)
		zmax = math.Max(zmax, p.Z)
	}
	zrange := zmax - zmin
	if zrange < eps {
		// Failure model: bath_max - bath_min < eps emits no contours.
		return nil, nil
	}

	// Perturb sample z-values that land exactly on a requested level so
	// no triangle side has a zero-length crossing test.
	z := make([]float64, len(m.Points))
	for i, p := range m.Points {
		z[i] = p.Z
	}
	bump := eps * zrange
	for _, lvl := range levels {
		for i := range z {
			if z[i] == lvl {
				z[i] += bump
			}
		}
	}

	sorted := append([]float64{}, levels...)
	sort.Float64s(sorted)

	var out []Polyline
	hist := &labelHistory{}

	for _, level := range sorted {
		polys, err := traceLevel(m, z, level, eps, opts, hist)
		if err != nil {
			return out, err
		}
		out = append(out, polys...)
	}
	return out, nil
}

func traceLevel(m *mesh.Mesh, z []float64, level, eps float64, opts Options, hist *labelHistory) ([]Polyline, error) {
	n := len(m.Triangles)
	flags := make([][3]int, n)
	for i := range m.Triangles {
		tri := &m.Triangles[i]
		for j := 0; j < 3; j++ {
			a, b := tri.IV[j], tri.IV[(j+1)%3]
			za, zb := z[a], z[b]
			if (za < level) != (zb < level) {
				flags[i][j] = flagCrossing
			}
		}
	}

	var out []Polyline
	for {
		startTri, startSide, otherSide, found := findStart(m, flags)
		if !found {
			break
		}
		poly := walkContour(m, z, flags, level, eps, startTri, startSide, otherSide)
		if opts.Ticks {
			addTicks(&poly, m, flags, z, opts.TickLen)
		}
		if opts.Labels {
			collectLabels(&poly, m, hist, opts.LabelSpacing)
		}
		out = append(out, poly)
	}
	return out, nil
}

// findStart scans for the next triangle to begin a walk from, preferring
// an open contour's dead end (exactly one of its two flagged sides has no
// neighbour) over a closed contour (both flagged sides have neighbours).
// It returns the chosen start side (where tracing begins) and the other
// flagged side of that same triangle (needed if a mid-walk dead end
// forces a reversal).
func findStart(m *mesh.Mesh, flags [][3]int) (tri, startSide, otherSide int, found bool) {
	openTri, openStart, openOther := -1, -1, -1
	closedTri, closedStart, closedOther := -1, -1, -1

	for i := range m.Triangles {
		var sides []int
		for j := 0; j < 3; j++ {
			if flags[i][j] == flagCrossing {
				sides = append(sides, j)
			}
		}
		if len(sides) != 2 {
			continue
		}
		a, b := sides[0], sides[1]
		noNeighborA := m.Triangles[i].CT[a] == -1
		noNeighborB := m.Triangles[i].CT[b] == -1
		switch {
		case noNeighborA && !noNeighborB:
			openTri, openStart, openOther = i, a, b
		case noNeighborB && !noNeighborA:
			openTri, openStart, openOther = i, b, a
		default:
			if closedTri == -1 {
				closedTri, closedStart, closedOther = i, a, b
			}
		}
		if openTri != -1 {
			return openTri, openStart, openOther, true
		}
	}
	if closedTri != -1 {
		return closedTri, closedStart, closedOther, true
	}
	return 0, 0, 0, false
}

// crossingPoint linearly interpolates the point on triangle tri's side j
// where z crosses level, guarding against a near-zero denominator by
// falling back to the midpoint.
func crossingPoint(m *mesh.Mesh, z []float64, tri, side int, level, eps float64) Point {
	t := m.Triangles[tri]
	a, b := t.IV[side], t.IV[(side+1)%3]
	pa, pb := m.Points[a], m.Points[b]
	za, zb := z[a], z[b]
	if math.Abs(za-zb) < eps {
		return Point{(pa.X + pb.X) / 2, (pa.Y + pb.Y) / 2}
	}
	frac := (level - za) / (zb - za)
	return Point{
		X: pa.X + frac*(pb.X-pa.X),
		Y: pa.Y + frac*(pb.Y-pa.Y),
	}
}

// consume marks the physical edge at (tri, side) as used, on both sides
// of the shared edge if it has a neighbour.
func consume(m *mesh.Mesh, flags [][3]int, tri, side int) {
	flags[tri][side] = flagConsumed
	if nt := m.Triangles[tri].CT[side]; nt != -1 {
		ns := m.Triangles[tri].CS[side]
		flags[nt][ns] = flagConsumed
	}
}

// otherFlaggedSide returns the flagged side of triangle tri other than
// exclude, or -1 if none remains.
func otherFlaggedSide(flags [][3]int, tri, exclude int) int {
	for j := 0; j < 3; j++ {
		if j != exclude && flags[tri][j] == flagCrossing {
			return j
		}
	}
	return -1
}

// walkContour traces one polyline starting at triangle startTri, side
// startSide, exiting the triangle through otherSide. If the walk reaches
// a dead end (a boundary side) before closing, and the walk began at a
// side that itself had a neighbour (i.e. the starting pick assumed a
// closed contour that turned out to be open elsewhere), the accumulated
// points are reversed and tracing resumes across startSide, the starting
// triangle's other flagged side.
func walkContour(m *mesh.Mesh, z []float64, flags [][3]int, level, eps float64, startTri, startSide, otherSide int) Polyline {
	pts := []Point{crossingPoint(m, z, startTri, startSide, level, eps)}
	edges := []edgeRef{{startTri, startSide}}
	// only startTri's copy of the starting side is consumed here, so a
	// closed loop can still exit back into startTri through it.
	flags[startTri][startSide] = flagConsumed

	tri, entrySide := startTri, startSide
	exitSide := otherSide
	closed := false
	reversedOnce := false

	for {
		pts = append(pts, crossingPoint(m, z, tri, exitSide, level, eps))
		edges = append(edges, edgeRef{tri, exitSide})
		nextTri := m.Triangles[tri].CT[exitSide]
		consume(m, flags, tri, exitSide)

		if nextTri == -1 {
			// dead end
			if !reversedOnce && startTri == tri && exitSide == otherSide {
				// the very first step was already a dead end: nothing to
				// reverse into, this is simply a one-segment open contour.
				break
			}
			if !reversedOnce {
				nt := m.Triangles[startTri].CT[startSide]
				if nt == -1 {
					// the walk began at a dead end, so it is complete.
					break
				}
				reverse(pts)
				reverseEdges(edges)
				reversedOnce = true
				// resume in the neighbour across the starting side,
				// consuming that side from both triangles.
				consume(m, flags, startTri, startSide)
				tri = nt
				entrySide = m.Triangles[startTri].CS[startSide]
				next := otherFlaggedSide(flags, tri, entrySide)
				if next == -1 {
					break
				}
				exitSide = next
				continue
			}
			break
		}

		nextEntry := m.Triangles[tri].CS[exitSide]
		if nextTri == startTri {
			closed = true
			break
		}
		tri = nextTri
		entrySide = nextEntry
		next := otherFlaggedSide(flags, tri, entrySide)
		if next == -1 {
			break
		}
		exitSide = next
	}

	poly := Polyline{Level: level, Points: pts, Closed: closed}
	if len(edges) > 0 {
		poly.startEdge = edges[0]
		poly.endEdge = edges[len(edges)-1]
	}
	return poly
}

func reverse(pts []Point) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}

func reverseEdges(edges []edgeRef) {
	for i, j := 0, len(edges)-1; i < j; i, j = i+1, j-1 {
		edges[i], edges[j] = edges[j], edges[i]
	}
}

// addTicks injects four decoration points (mid, mid+n, mid, new) after
// the final segment of poly: n is a handedness-dependent perpendicular
// of length tickLen pointing toward the deeper side.
func addTicks(poly *Polyline, m *mesh.Mesh, flags [][3]int, z []float64, tickLen float64) {
	if len(poly.Points) < 2 || tickLen == 0 {
		return
	}
	a := poly.Points[len(poly.Points)-2]
	b := poly.Points[len(poly.Points)-1]
	mid := Point{(a.X + b.X) / 2, (a.Y + b.Y) / 2}

	dx, dy := b.X-a.X, b.Y-a.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return
	}
	// perpendicular, handedness chosen so it points toward lower z: the
	// lower-z vertex of the side b was interpolated on lies on the lower
	// side of segment a-b.
	nx, ny := -dy/length*tickLen, dx/length*tickLen
	side := m.Triangles[poly.endEdge.Tri]
	low := side.IV[poly.endEdge.Side]
	if vb := side.IV[(poly.endEdge.Side+1)%3]; z[vb] < z[low] {
		low = vb
	}
	if nx*(m.Points[low].X-mid.X)+ny*(m.Points[low].Y-mid.Y) < 0 {
		nx, ny = -nx, -ny
	}
	tip := Point{mid.X + nx, mid.Y + ny}

	poly.Points = append(poly.Points, mid, tip, mid, b)
}

// collectLabels records (x, y, angle, justify) for every polyline
// endpoint lying on a true swath-edge side, subject to the bounded
// label-spacing history.
func collectLabels(poly *Polyline, m *mesh.Mesh, hist *labelHistory, spacing float64) {
	if len(poly.Points) == 0 {
		return
	}
	endpoints := []int{0, len(poly.Points) - 1}
	for _, idx := range endpoints {
		p := poly.Points[idx]
		edgeClass, azimuth, ok := endpointEdge(m, poly, idx)
		if !ok {
			continue
		}
		if !hist.accepts(p, spacing) {
			continue
		}
		justify := Other
		if edgeClass == swath.Left {
			justify = LeftOfStart
		}
		poly.Labels = append(poly.Labels, Label{X: p.X, Y: p.Y, Angle: azimuth, Justify: justify})
		hist.record(p)
	}
}

// endpointEdge reports the swath edge classification of the physical
// triangle side a polyline endpoint was interpolated from, and whether
// that endpoint lies on a true edge at all. Closed contours have no
// endpoints and never match.
func endpointEdge(m *mesh.Mesh, poly *Polyline, idx int) (swath.EdgeClass, float64, bool) {
	if len(poly.Points) < 2 || poly.Closed {
		return swath.Interior, 0, false
	}
	var a, b Point
	var ref edgeRef
	switch idx {
	case 0:
		a, b = poly.Points[0], poly.Points[1]
		ref = poly.startEdge
	case len(poly.Points) - 1:
		a, b = poly.Points[len(poly.Points)-2], poly.Points[len(poly.Points)-1]
		ref = poly.endEdge
	default:
		return swath.Interior, 0, false
	}
	angle := math.Atan2(b.Y-a.Y, b.X-a.X) * 180 / math.Pi
	ed := m.Triangles[ref.Tri].ED[ref.Side]
	if ed == 0 {
		return swath.Interior, angle, false
	}
	return swath.EdgeClass(ed), angle, true
}
