// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package topogrid wraps a grid.Grid as a lon/lat bathymetry surface
// and answers two questions against it: the interpolated depth at a
// point (Topo), and where a ray from a vehicle's navigation position
// along a look vector crosses the surface (Intersect). GetAngleTable
// builds a per-beam intersection fan for a swath sonar ping.
package topogrid
