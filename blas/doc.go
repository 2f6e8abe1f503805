// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package blas implements the small set of Level-1 dense vector kernels
// used by the sparse least-squares solvers in lsqr and cheby: a scaled
// vector sum (Daxpy), a copy (Dcopy), a dot product (Ddot), an
// overflow-safe Euclidean norm (Dnrm2), and an in-place scale (Dscal).
//
// Every kernel accepts a positive or negative stride and treats a zero
// length as a no-op rather than a special case the caller must avoid.
// Daxpy also treats a zero scale factor as a no-op; Dscal with a zero
// factor sets x to zero.
package blas
