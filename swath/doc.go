// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package swath defines the sounding data model shared by the
// triangulation and contour-tracing packages: a Sample (x, y, z plus the
// swath-edge classification of the point it came from) and the
// EdgeClass enumeration that classification draws from.
package swath
