// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package grid is the regular-grid and scattered-sample data model shared
// by the surface and zgrid gridders. A Grid is a column-major mapping
// from (i,j) node coordinates to depth, carrying its own geometry
// (xmin, ymin, dx, dy) and a no-data sentinel; Extrema computes its value
// extrema on demand. A Grid's producer exclusively owns it until it is
// returned, and can
// derive dz/dx and dz/dy arrays of identical shape on demand.
//
// BinSamples assigns each scattered sample its grid node and removes
// redundant samples sharing a node, keeping the one closest to the
// node's centre, per the node-binning rule the gridders apply before
// relaxation begins.
package grid
