// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mesh builds an incremental Delaunay triangulation over a set
// of swath.Sample soundings. The triangulation is an append-only arena:
// triangle neighbours, sides, and edge classifications are plain indices
// into the arena rather than pointers, so a Mesh can be copied, shared
// read-only across goroutines, or discarded as a single unit.
package mesh
