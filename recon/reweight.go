// Copyright ©2025 ksparse authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package recon

import (
	"math/cmplx"

	"github.com/philouc/ksparse/condat"
	"github.com/philouc/ksparse/signal"
)

// weightFloor keeps the shrink ratio finite when an original weight is zero.
const weightFloor = 1e-30

// reweighter regenerates the shared weight buffer from the current solution
// and returns the updated noise-scale estimate. Implementations write the
// same buffer the dual proximity operator reads: one writer per pass.
type reweighter interface {
	reweight(x []complex128) float64
}

// cwbReweight shrinks weights from the image-domain transform of the current
// solution following the iterative scheme of Candes, Wakin and Boyd:
// coefficients that are large relative to their original threshold see their
// weight reduced, approximating a non-convex sparsity penalty through
// repeated convex solves.
type cwbReweight struct {
	linear   condat.Linear
	weights  []float64
	original []float64
	thresh   float64
	buf      []complex128
}

func newCWBReweight(linear condat.Linear, weights []float64, thresh float64) *cwbReweight {
	return &cwbReweight{
		linear:   linear,
		weights:  weights,
		original: append([]float64(nil), weights...),
		thresh:   thresh,
		buf:      make([]complex128, len(weights)),
	}
}

func (r *cwbReweight) reweight(x []complex128) float64 {
	r.linear.Op(r.buf, x)
	for i, w0 := range r.original {
		a := cmplx.Abs(r.buf[i])
		r.weights[i] *= 1 / (1 + a/(r.thresh*w0+weightFloor))
	}
	return signal.SigmaMAD(r.buf)
}

// madReweight regenerates weights directly from the dual (coefficient
// domain) magnitude of the current solution: every sub-band gets the
// threshold thresh×σ̂ with σ̂ the band's MAD noise estimate.
type madReweight struct {
	linear  condat.Linear
	weights []float64
	thresh  float64
	buf     []complex128
}

func newMADReweight(linear condat.Linear, weights []float64, thresh float64) *madReweight {
	return &madReweight{
		linear:  linear,
		weights: weights,
		thresh:  thresh,
		buf:     make([]complex128, len(weights)),
	}
}

func (r *madReweight) reweight(x []complex128) float64 {
	r.linear.Op(r.buf, x)
	bands := r.linear.Bands(r.buf)
	var sum float64
	off := 0
	for _, band := range bands {
		sigma := signal.SigmaMAD(band)
		sum += sigma
		thr := r.thresh * sigma
		for i := range band {
			r.weights[off+i] = thr
		}
		off += len(band)
	}
	return sum / float64(len(bands))
}
