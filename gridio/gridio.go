// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gridio

import (
	"github.com/cpmech/gosl/chk"

	"github.com/dwcaress/mbcore/grid"
)

// Metadata is the descriptive information a Writer persists alongside
// a grid's numeric values.
type Metadata struct {
	Title      string
	Xlabel     string
	Ylabel     string
	Projection string // "" | "geographic WGS84" | "projected EPSG:NNNNN"
}

// Reader reads a named grid into memory.
type Reader interface {
	ReadGrid(path string) (*grid.Grid, error)
}

// Writer persists a grid and its descriptive metadata under path.
type Writer interface {
	WriteGrid(path string, g *grid.Grid, meta Metadata) error
}

// ReadWriter combines Reader and Writer, the shape a single backing
// store (a directory of GMT-style grids, a tile cache, …) typically
// implements.
type ReadWriter interface {
	Reader
	Writer
}

// ValidateMetadata reports an error if meta names a projection tag
// read_grid/write_grid would not recognise. It exists so a Writer
// implementation can reuse one validation rule instead of each
// inventing its own.
func ValidateMetadata(meta Metadata) error {
	switch meta.Projection {
	case "", "geographic WGS84":
		return nil
	}
	if len(meta.Projection) > 5 && meta.Projection[:5] == "EPSG:" {
		return nil
	}
	if len(meta.Projection) > 15 && meta.Projection[:15] == "projected EPSG:" {
		return nil
	}
	return chk.Err("gridio: unrecognised projection tag %q", meta.Projection)
}
