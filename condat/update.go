// Copyright ©2025 ksparse authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package condat

import (
	"gonum.org/v1/gonum/cmplxs"
)

// Update performs exactly one fixed-point iteration of the scheme
//
//	x̃ = prox( x - τ∇f(x) - τ𝐋ᴴy )
//	ỹ = (I - σ prox*)( y + σ𝐋(2x̃ - x) )
//	x ← ρx̃ + (1-ρ)x ,  y ← ỹρ + (1-ρ)y
//
// where prox* is evaluated through the Moreau identity
//
//	(I - σ prox*)(v) = v - σ prox(v/σ, 1/σ)
//
// The update is strictly deterministic given its inputs and mutates the
// workspace in place. The cost monitor, if any, observes the relaxed pair.
func (o *Optimizer) Update(w *Workspace) {

	if len(w.x) != o.rows*o.cols || len(w.y) != o.clen {
		panic("workspace dimension not match spec")
	}

	tau, sigma, rho := o.Steps.Tau, o.Steps.Sigma, o.Steps.Rho

	// Primal gradient step: x̃ = prox(x - τ(∇f(x) + 𝐋ᴴy)).
	o.Grad.Grad(w.gBuf, w.x)
	o.Linear.AdjOp(w.aBuf, w.y)
	cmplxs.Add(w.gBuf, w.aBuf)
	copy(w.xTmp, w.x)
	cmplxs.AddScaled(w.xTmp, complex(-tau, 0), w.gBuf)
	o.Prox.Apply(w.xProx, w.xTmp, one)

	// Dual ascent step on the relaxed primal point 2x̃ - x.
	for i, x := range w.x {
		w.xTmp[i] = two*w.xProx[i] - x
	}
	o.Linear.Op(w.lBuf, w.xTmp)
	copy(w.yTmp, w.y)
	cmplxs.AddScaled(w.yTmp, complex(sigma, 0), w.lBuf)

	// Moreau identity: ỹ = yTmp - σ·prox(yTmp/σ, 1/σ).
	inv := complex(one/sigma, 0)
	for i, v := range w.yTmp {
		w.lBuf[i] = v * inv
	}
	o.ProxDual.Apply(w.yProx, w.lBuf, one/sigma)
	cmplxs.Scale(complex(-sigma, 0), w.yProx)
	cmplxs.Add(w.yProx, w.yTmp)

	// Relaxation: convex combination of the fresh and the previous pair.
	cmplxs.Scale(complex(one-rho, 0), w.x)
	cmplxs.AddScaled(w.x, complex(rho, 0), w.xProx)
	cmplxs.Scale(complex(one-rho, 0), w.y)
	cmplxs.AddScaled(w.y, complex(rho, 0), w.yProx)

	w.iter++
	if o.Cost != nil {
		o.Cost.Track(w.x, w.y)
		if o.logger.Enable(LogTrace) && o.Cost.LastEval() == o.Cost.Iterations() {
			o.logger.Logf(" - iteration %5d    cost = %12.5e\n", o.Cost.Iterations(), o.Cost.Cost())
		}
	}
}
