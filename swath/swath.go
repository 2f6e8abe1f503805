// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package swath

// EdgeClass classifies a sounding's position across the swath: whether it
// lies on the outermost port (Left) or starboard (Right) boundary of the
// pass, or somewhere in the Interior. Contour labels may only anchor on a
// true edge point.
type EdgeClass int

const (
	Interior EdgeClass = 0
	Left     EdgeClass = -1
	Right    EdgeClass = +1
)

// String renders the edge class for diagnostics.
func (e EdgeClass) String() string {
	switch e {
	case Left:
		return "Left"
	case Right:
		return "Right"
	default:
		return "Interior"
	}
}

// Sample is one sounding: a map-coordinate position, a depth, and the
// swath-edge classification of the point it was collected from.
// Interpretation of X/Y/Z is up to the caller; for swath contouring X/Y
// are map coordinates and Z is depth.
type Sample struct {
	X, Y, Z float64
	Edge    EdgeClass
}
