// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package contour traces iso-depth polylines across a mesh.Mesh built
// over bathymetric soundings. For each requested level it flags the
// triangle sides the level crosses, walks flagged triangles from a
// preferred starting point until the polyline closes or dead-ends, and
// optionally decorates the result with downslope-pointing tick marks and
// depth labels gated by a bounded label-spacing history.
package contour
