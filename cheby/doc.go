// Copyright 2026 The Mbcore Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cheby implements Chebyshev-accelerated Richardson iteration for
// sparse least-squares problems: Lsqup performs the accelerated sweeps,
// Chebyu computes the origin-shift schedule (via the Splits reordering),
// and Lspeig estimates the largest eigenvalue of AᵀA that the schedule
// needs, together with a rigorous error bound (Errlim) and a bisection
// refinement of its pessimistic upper bound (Errrat).
//
// The matrix is represented in the packed-row form of Matrix: row i's
// non-zero entries live at A[i*NNZ : i*NNZ+NIA[i]], with column indices
// at the same offsets in IA. This mirrors the layout LSQR's aprod
// callback would use if it were backed by a literal sparse matrix rather
// than an arbitrary operator.
package cheby
