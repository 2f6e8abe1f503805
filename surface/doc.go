// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package surface implements the minimum-curvature/tension gridder:
// (1-T)*biharmonic(z) - T*laplacian(z) = 0 relaxed on a regular grid
// subject to scattered data constraints, T in [0,1] blending pure
// minimum curvature (T=0) with pure harmonic interpolation (T=1).
//
// Solve fits and removes a planar trend, rescales by the residual RMS,
// then relaxes coarse-to-fine with Gauss-Seidel over-relaxation,
// periodically pulling grid nodes back toward their bound samples, until
// the relative change per iteration falls under the convergence limit
// or the iteration cap is reached. It returns an error only for a
// non-positive spacing or a grid smaller than 2x2 nodes; with fewer than
// three usable samples it logs a diagnostic and returns an all-nodata
// grid.
package surface
