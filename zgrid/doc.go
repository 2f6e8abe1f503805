// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package zgrid implements the spline/Laplace gridder: relaxation of
// grad^2(z) - cay*grad^4(z) = 0 by a separable (no cross-term) finite
// difference stencil in x and y, with cay=0 giving a pure Laplace
// (minimum curvature) solution and cay=+Inf a pure thin-plate spline.
// Nodes farther than nrng grid spacings from the nearest sample are left
// undefined rather than relaxed.
//
// SolveAuto is the zgrid2 wrapper: grids past 500 nodes on either axis
// are solved at a downscaled resolution and bilinearly upsampled, per
// the dimension cap the originating implementation applies to bound its
// worst-case iteration cost.
package zgrid
