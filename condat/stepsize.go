// Copyright ©2025 ksparse authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package condat

import "math"

// stepEps keeps the derived primal step finite when both the Lipschitz
// bound and the operator norm are zero or vanishingly small.
const stepEps = 1e-8

// Steps holds the scalar parameters of the splitting scheme.
type Steps struct {
	// Tau is the primal step size τ.
	Tau float64
	// Sigma is the dual step size σ.
	Sigma float64
	// Rho is the relaxation factor ρ ∈ (0,1]; ρ = 1 disables relaxation.
	Rho float64
	// Certified reports the discrete sufficient condition for convergence
	//   1/τ - σ‖𝐋‖² ≥ β/2
	// It is informational only and never enforced at runtime.
	Certified bool
}

// DeriveSteps derives the step sizes from the gradient Lipschitz bound beta
// and the transform operator norm. NaN for tau, sigma or rho selects the
// default: σ = 0.5, τ = 1/(β/2 + σ‖𝐋‖² + ε), ρ = 1. Explicitly supplied
// values bypass derivation and are echoed unchanged.
func DeriveSteps(beta, norm, tau, sigma, rho float64) Steps {
	if math.IsNaN(sigma) {
		sigma = half
	}
	if math.IsNaN(tau) {
		tau = one / (beta/two + sigma*norm*norm + stepEps)
	}
	if math.IsNaN(rho) {
		rho = one
	}
	return Steps{
		Tau:       tau,
		Sigma:     sigma,
		Rho:       rho,
		Certified: one/tau-sigma*norm*norm >= beta/two,
	}
}
