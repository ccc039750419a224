// Copyright ©2025 ksparse authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package condat implements the Condat-Vu primal-dual splitting algorithm
// for convex, sparsity-regularized inverse problems of the form
//
//	minimize  ½‖𝐀x - b‖² + ‖𝚲 ∘ 𝐋x‖₁
//
// where 𝐀 is a sampling (data-fidelity) operator, 𝐋 a sparsifying linear
// transform and 𝚲 a per-coefficient weight array. The solver alternates a
// primal gradient step on the image estimate with a dual ascent step on the
// transform coefficients, followed by an over/under-relaxation of both.
package condat

const (
	zero = 0.0
	one  = 1.0
	two  = 2.0
	half = 0.5
)

// Gradient is the data-fidelity operator supplied by the caller.
// It evaluates the sub-gradient of ½‖𝐀x - b‖² against fixed measured data b.
type Gradient interface {
	// Shape returns the fixed image-domain target shape.
	Shape() (rows, cols int)
	// SpecRad returns the Lipschitz constant β of the gradient,
	// i.e. the spectral radius of 𝐀ᴴ𝐀.
	SpecRad() float64
	// Obs returns the measured data b.
	Obs() []complex128
	// Grad stores 𝐀ᴴ(𝐀x - b) into dst.
	Grad(dst, x []complex128)
	// MtX stores the adjoint 𝐀ᴴy applied to arbitrary data y into dst.
	MtX(dst, y []complex128)
}

// Linear is the sparsifying transform 𝐋 supplied by the caller.
// Sub-bands must tile the flat coefficient array contiguously and in order,
// so that Bands of a length-CoefLen slice partitions it without gaps.
type Linear interface {
	// Op stores the forward transform 𝐋x into dst.
	Op(dst, x []complex128)
	// AdjOp stores the adjoint transform 𝐋ᴴy into dst.
	AdjOp(dst, y []complex128)
	// CoefLen returns the coefficient-domain length for an image shape.
	CoefLen(rows, cols int) int
	// Norm returns the operator norm ‖𝐋‖ (largest singular value)
	// over the given image shape.
	Norm(rows, cols int) float64
	// Bands splits a flat coefficient slice into its native per-sub-band
	// representation. The returned slices alias y.
	Bands(y []complex128) [][]complex128
}

// Prox is a proximity operator applied once per iteration.
// The extra factor scales any internal threshold (Moreau factor);
// operators without thresholds ignore it.
type Prox interface {
	Apply(dst, src []complex128, extra float64)
}
