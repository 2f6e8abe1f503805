// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"github.com/cpmech/gosl/chk"

	"github.com/dwcaress/mbcore/swath"
)

// Triangle is one element of the mesh arena. Side j connects vertices
// IV[j] and IV[(j+1)%3]; CT[j] is the index of the triangle across that
// side, or -1 if the side is on the outer boundary; CS[j] is the side
// index that neighbour uses to refer back to this triangle. ED[j] is
// +1/-1 when both endpoints of side j share the same non-zero swath-edge
// class, 0 otherwise. Flag is per-side scratch state; neither the
// triangulator nor contour.Trace (which keeps its own flags) writes it.
type Triangle struct {
	IV   [3]int
	CT   [3]int
	CS   [3]int
	ED   [3]int
	Flag [3]int
}

// Mesh is the triangle arena plus the point arena it indexes into.
// Mesh is exclusively owned by its builder for the lifetime of a
// computation — it carries no synchronization of its own.
type Mesh struct {
	Points    []swath.Sample
	Triangles []Triangle
}

// CheckSymmetry verifies the triangulation's adjacency symmetry
// invariant: for every (i,j) with CT[j][i]=t != -1 and CS[j][i]=k,
// CT[k][t]=i and CS[k][t]=j.
func (m *Mesh) CheckSymmetry() error {
	for i := range m.Triangles {
		for j := 0; j < 3; j++ {
			t := m.Triangles[i].CT[j]
			if t == -1 {
				continue
			}
			k := m.Triangles[i].CS[j]
			if k < 0 || k > 2 {
				return chk.Err("mesh: triangle %d side %d has out-of-range neighbour side %d", i, j, k)
			}
			if m.Triangles[t].CT[k] != i {
				return chk.Err("mesh: asymmetric adjacency: triangle %d side %d points to %d/%d, but %d/%d points to %d not %d", i, j, t, k, t, k, m.Triangles[t].CT[k], i)
			}
			if m.Triangles[t].CS[k] != j {
				return chk.Err("mesh: asymmetric adjacency: triangle %d side %d points to %d/%d, but back-side is %d not %d", i, j, t, k, m.Triangles[t].CS[k], j)
			}
		}
	}
	return nil
}

// BoundarySides returns the total count of sides with no neighbour
// (CT[j]==-1), counted once per side (not double-counted across the
// mesh since a boundary side has exactly one owning triangle).
func (m *Mesh) BoundarySides() int {
	n := 0
	for i := range m.Triangles {
		for j := 0; j < 3; j++ {
			if m.Triangles[i].CT[j] == -1 {
				n++
			}
		}
	}
	return n
}
