// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gridio defines the grid-provider collaborator contract
// consumed by topogrid (§6 item 2): reading a named grid into memory
// and writing one back out with descriptive metadata. File I/O itself
// is out of scope for the core — this package is the seam a caller's
// own storage layer plugs into, not a storage layer.
package gridio
