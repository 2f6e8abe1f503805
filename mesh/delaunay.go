// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/dwcaress/mbcore/swath"
)

// Build triangulates points by the Bowyer-Watson incremental algorithm: a
// bounding super-triangle is inserted first, every point is added by
// deleting the triangles whose circumcircle it violates and
// retriangulating the resulting polygonal hole, and finally every
// triangle still touching a super-triangle vertex is discarded. Callers
// should run PrepareSamples first to remove coincident-point pathology;
// Build itself performs no binning.
func Build(points []swath.Sample) (*Mesh, error) {
	if len(points) < 3 {
		return nil, chk.Err("mesh: need at least 3 points to triangulate, got %d", len(points))
	}

	pts := make([]point2, len(points))
	minX, minY, maxX, maxY := math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)
	for i, p := range points {
		pts[i] = point2{p.X, p.Y}
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
		minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
	}

	dx, dy := maxX-minX, maxY-minY
	deltaMax := math.Max(dx, dy)
	if deltaMax <= 0 {
		deltaMax = 1.0
	}
	midx, midy := (minX+maxX)/2, (minY+maxY)/2

	all := make([]point2, len(pts)+3)
	copy(all, pts)
	superBase := len(pts)
	all[superBase+0] = point2{midx - 20*deltaMax, midy - deltaMax}
	all[superBase+1] = point2{midx, midy + 20*deltaMax}
	all[superBase+2] = point2{midx + 20*deltaMax, midy - deltaMax}
	superIdx := [3]int{superBase, superBase + 1, superBase + 2}

	live := make(map[int][3]int)
	nextID := 0
	circ := newCircumcircleIndex()

	addTri := func(v [3]int) int {
		if orient2(all[v[0]], all[v[1]], all[v[2]]) < 0 {
			v[1], v[2] = v[2], v[1]
		}
		id := nextID
		nextID++
		live[id] = v
		circ.insert(id, all[v[0]], all[v[1]], all[v[2]])
		return id
	}
	removeTri := func(id int) {
		delete(live, id)
		circ.remove(id)
	}

	addTri(superIdx)

	for pi := 0; pi < len(pts); pi++ {
		p := all[pi]
		bad := []int{}
		for _, id := range circ.candidates(p) {
			v := live[id]
			if inCircumcircle(all[v[0]], all[v[1]], all[v[2]], p) {
				bad = append(bad, id)
			}
		}
		if len(bad) == 0 {
			// point coincides with an existing vertex or lies exactly on
			// a circumcircle boundary; PrepareSamples should have removed
			// coincident points, so this is a rare degenerate case we
			// simply skip rather than fail the whole triangulation.
			continue
		}

		edgeSet := make(map[[2]int]bool)
		for _, id := range bad {
			v := live[id]
			for j := 0; j < 3; j++ {
				edgeSet[[2]int{v[j], v[(j+1)%3]}] = true
			}
		}
		var boundary [][2]int
		for e := range edgeSet {
			if !edgeSet[[2]int{e[1], e[0]}] {
				boundary = append(boundary, e)
			}
		}

		for _, id := range bad {
			removeTri(id)
		}
		for _, e := range boundary {
			addTri([3]int{e[0], e[1], pi})
		}
	}

	touchesSuper := func(v [3]int) bool {
		for _, s := range superIdx {
			if v[0] == s || v[1] == s || v[2] == s {
				return true
			}
		}
		return false
	}

	final := make([][3]int, 0, len(live))
	for _, v := range live {
		if !touchesSuper(v) {
			final = append(final, v)
		}
	}
	if len(final) == 0 {
		return nil, chk.Err("mesh: triangulation produced no interior triangles (degenerate or collinear input)")
	}

	return assemble(points, final), nil
}

// assemble builds the final Mesh arena from a set of CCW vertex triples:
// it derives CT/CS adjacency from shared undirected edges and ED edge
// classification from the swath.Sample edge tags of each triangle's
// vertices.
func assemble(points []swath.Sample, tris [][3]int) *Mesh {
	type sideRef struct{ tri, side int }
	edgeOwners := make(map[[2]int][]sideRef, len(tris)*3)

	triangles := make([]Triangle, len(tris))
	for i, v := range tris {
		triangles[i].IV = v
		for j := 0; j < 3; j++ {
			triangles[i].CT[j] = -1
			triangles[i].CS[j] = -1
			a, b := v[j], v[(j+1)%3]
			key := a
			other := b
			if b < a {
				key, other = b, a
			}
			edgeOwners[[2]int{key, other}] = append(edgeOwners[[2]int{key, other}], sideRef{i, j})
		}
	}

	for _, owners := range edgeOwners {
		if len(owners) == 2 {
			o0, o1 := owners[0], owners[1]
			triangles[o0.tri].CT[o0.side] = o1.tri
			triangles[o0.tri].CS[o0.side] = o1.side
			triangles[o1.tri].CT[o1.side] = o0.tri
			triangles[o1.tri].CS[o1.side] = o0.side
		}
	}

	for i := range triangles {
		v := triangles[i].IV
		for j := 0; j < 3; j++ {
			ea := points[v[j]].Edge
			eb := points[v[(j+1)%3]].Edge
			if ea != swath.Interior && ea == eb {
				triangles[i].ED[j] = int(ea)
			}
		}
	}

	return &Mesh{Points: points, Triangles: triangles}
}
