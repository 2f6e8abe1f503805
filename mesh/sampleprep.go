// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"math"

	"github.com/dwcaress/mbcore/swath"
)

// PrepareSamples bins valid soundings into a coarse grid of the given
// scale (pass 0 to use the default min(0.01*dx, 0.01*dy) derived from the
// sample extent) and keeps only the sample with the largest |z| in each
// occupied bin. This guards the triangulator
// against coincident-point pathology before Build ever sees the data.
func PrepareSamples(samples []swath.Sample, scale float64) []swath.Sample {
	if len(samples) == 0 {
		return nil
	}
	if scale <= 0 {
		minX, minY, maxX, maxY := math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)
		for _, s := range samples {
			minX = math.Min(minX, s.X)
			maxX = math.Max(maxX, s.X)
			minY = math.Min(minY, s.Y)
			maxY = math.Max(maxY, s.Y)
		}
		dx, dy := maxX-minX, maxY-minY
		scale = math.Min(0.01*dx, 0.01*dy)
		if scale <= 0 {
			// degenerate extent on one axis: fall back to the larger one.
			scale = 0.01 * math.Max(dx, dy)
		}
		if scale <= 0 {
			scale = 1.0
		}
	}

	type binKey struct{ i, j int }
	best := make(map[binKey]swath.Sample)
	for _, s := range samples {
		key := binKey{int(math.Floor(s.X / scale)), int(math.Floor(s.Y / scale))}
		if cur, ok := best[key]; !ok || math.Abs(s.Z) > math.Abs(cur.Z) {
			best[key] = s
		}
	}

	out := make([]swath.Sample, 0, len(best))
	for _, s := range best {
		out = append(out, s)
	}
	return out
}
