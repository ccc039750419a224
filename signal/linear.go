// Copyright ©2025 ksparse authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package signal provides reference operator adapters for the condat solver:
// sparsifying transforms, proximity operators, a masked-Fourier sampling
// gradient and noise estimation.
package signal

// Identity is the unit sparsifying transform: the coefficient domain is the
// image domain itself, with a single sub-band and operator norm 1. With this
// transform and zero weights the reconstruction degenerates to a direct
// least-squares inverse.
type Identity struct{}

// Op copies x into dst.
func (Identity) Op(dst, x []complex128) { copy(dst, x) }

// AdjOp copies y into dst.
func (Identity) AdjOp(dst, y []complex128) { copy(dst, y) }

// CoefLen returns the image size.
func (Identity) CoefLen(rows, cols int) int { return rows * cols }

// Norm returns 1.
func (Identity) Norm(rows, cols int) float64 { return 1 }

// Bands returns the whole coefficient slice as a single sub-band.
func (Identity) Bands(y []complex128) [][]complex128 {
	return [][]complex128{y}
}
