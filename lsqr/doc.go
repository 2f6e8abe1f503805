// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package lsqr solves sparse, optionally damped least-squares problems
//
//	Ax = b,  min ||Ax - b||,  or  min ||(A; damp*I)x - (b; 0)||
//
// by the Golub-Kahan bidiagonalization method of Paige and Saunders. The
// matrix A is never materialized: callers supply an AProd callback that
// accumulates A*x or A^T*y into a caller-owned vector, so the solver works
// unchanged whether A is dense, sparse, or implicit.
package lsqr
