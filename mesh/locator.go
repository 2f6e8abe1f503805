// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"math"

	"github.com/dhconnelly/rtreego"
)

// circumcircleIndex accelerates the "which triangles' circumcircles
// contain this new point" query at the core of incremental Delaunay
// insertion. Each live triangle is indexed by its circumcircle's
// axis-aligned bounding box; a point outside every candidate's bbox
// cannot be inside its circle, so the index prunes the vast majority of
// triangles on swaths large enough for a linear scan to matter.
type circumcircleIndex struct {
	tree  *rtreego.Rtree
	boxOf map[int]*circumcircleBox
}

type circumcircleBox struct {
	id             int
	cx, cy, radius float64
}

func (b *circumcircleBox) Bounds() rtreego.Rect {
	r := b.radius
	if r <= 0 {
		r = 1e-9
	}
	rect, err := rtreego.NewRect(rtreego.Point{b.cx - r, b.cy - r}, []float64{2 * r, 2 * r})
	if err != nil {
		// degenerate (zero-size) rectangles are rejected by rtreego;
		// widen slightly rather than propagate a construction error
		// through a pure geometry helper.
		rect, _ = rtreego.NewRect(rtreego.Point{b.cx - 1e-6, b.cy - 1e-6}, []float64{2e-6, 2e-6})
	}
	return rect
}

func newCircumcircleIndex() *circumcircleIndex {
	return &circumcircleIndex{
		tree:  rtreego.NewTree(2, 4, 16),
		boxOf: make(map[int]*circumcircleBox),
	}
}

func circumcircle(a, b, c point2) (cx, cy, radius float64) {
	d := 2 * (a.x*(b.y-c.y) + b.x*(c.y-a.y) + c.x*(a.y-b.y))
	if math.Abs(d) < 1e-18 {
		// degenerate (collinear) triangle: fall back to a box around the
		// three points wide enough to never wrongly exclude a candidate.
		cx = (a.x + b.x + c.x) / 3
		cy = (a.y + b.y + c.y) / 3
		radius = math.Max(dist(a, b), math.Max(dist(b, c), dist(c, a)))
		return
	}
	asq := a.x*a.x + a.y*a.y
	bsq := b.x*b.x + b.y*b.y
	csq := c.x*c.x + c.y*c.y
	cx = (asq*(b.y-c.y) + bsq*(c.y-a.y) + csq*(a.y-b.y)) / d
	cy = (asq*(c.x-b.x) + bsq*(a.x-c.x) + csq*(b.x-a.x)) / d
	radius = math.Hypot(cx-a.x, cy-a.y)
	return
}

func dist(a, b point2) float64 {
	return math.Hypot(a.x-b.x, a.y-b.y)
}

func (idx *circumcircleIndex) insert(id int, a, b, c point2) {
	cx, cy, r := circumcircle(a, b, c)
	box := &circumcircleBox{id: id, cx: cx, cy: cy, radius: r}
	idx.boxOf[id] = box
	idx.tree.Insert(box)
}

func (idx *circumcircleIndex) remove(id int) {
	box, ok := idx.boxOf[id]
	if !ok {
		return
	}
	idx.tree.Delete(box)
	delete(idx.boxOf, id)
}

// candidates returns the ids of every indexed triangle whose circumcircle
// bounding box contains p — a superset of the triangles whose circumcircle
// actually contains p, which the caller must still confirm exactly.
func (idx *circumcircleIndex) candidates(p point2) []int {
	q, err := rtreego.NewRect(rtreego.Point{p.x, p.y}, []float64{1e-9, 1e-9})
	if err != nil {
		q, _ = rtreego.NewRect(rtreego.Point{p.x - 1e-9, p.y - 1e-9}, []float64{2e-9, 2e-9})
	}
	hits := idx.tree.SearchIntersect(q)
	ids := make([]int, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.(*circumcircleBox).id)
	}
	return ids
}
