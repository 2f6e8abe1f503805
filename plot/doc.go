// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package plot defines the plot-sink collaborator contract consumed by
// contour and swath-track drawing, plus Matplotlib, a concrete adapter
// that implements it by shelling out to github.com/cpmech/gosl/plt.
// Callers who do not want the matplotlib dependency may implement Pen
// directly against their own rendering target.
package plot
