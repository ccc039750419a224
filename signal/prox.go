// Copyright ©2025 ksparse authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package signal

import "math/cmplx"

// IdentityProx is the proximity operator of the zero function: it leaves
// its input unchanged.
type IdentityProx struct{}

// Apply copies src into dst.
func (IdentityProx) Apply(dst, src []complex128, _ float64) { copy(dst, src) }

// Positive projects onto the non-negative reals: values with a positive real
// part keep that real part, everything else becomes zero.
type Positive struct{}

// Apply stores the projection of src into dst.
func (Positive) Apply(dst, src []complex128, _ float64) {
	for i, v := range src {
		if real(v) > 0 {
			dst[i] = complex(real(v), 0)
		} else {
			dst[i] = 0
		}
	}
}

// Threshold soft-thresholds each coefficient against a shared weight buffer.
// The weight slice is held by reference: the reweighting controller mutates
// it in place between passes and the operator observes the updated values.
// The extra factor scales the thresholds (Moreau factor).
type Threshold struct {
	Weights []float64
}

// NewThreshold creates a soft-threshold operator over the shared weights.
func NewThreshold(weights []float64) *Threshold {
	return &Threshold{Weights: weights}
}

// Apply stores the per-coefficient soft-threshold of src into dst:
// each value shrinks toward zero by weight×extra, preserving its phase.
func (t *Threshold) Apply(dst, src []complex128, extra float64) {
	if len(src) != len(t.Weights) {
		panic("signal: threshold weight dimension mismatch")
	}
	for i, v := range src {
		thr := t.Weights[i] * extra
		a := cmplx.Abs(v)
		if a <= thr {
			dst[i] = 0
		} else {
			dst[i] = v * complex((a-thr)/a, 0)
		}
	}
}
