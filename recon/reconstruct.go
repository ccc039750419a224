// Copyright ©2025 ksparse authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package recon drives sparse reconstructions from undersampled k-space
// measurements: it derives regularization weights and step sizes for the
// condat solver, runs the splitting iteration, and refines the result by
// iterative reweighting of the sparsity penalty.
package recon

import (
	"errors"
	"math"

	"github.com/philouc/ksparse/condat"
	"github.com/philouc/ksparse/signal"
)

// Estimation selects how the noise standard deviation is estimated.
// The three variants are mutually exclusive; anything else makes
// Reconstruct fail with ErrInvalidEstimation before any numerical work.
type Estimation int

const (
	// EstNone is the manual regularization mode: weights are filled with
	// the fixed strength Mu and the reweighting loop never executes.
	EstNone Estimation = iota
	// EstPrimal estimates the noise from the data-fidelity residual in the
	// image domain and reweights from the image-domain transform of the
	// current solution.
	EstPrimal
	// EstDual starts unregularized when no estimate is given and reweights
	// directly from the coefficient-domain magnitude of the current solution.
	EstDual
)

// ErrInvalidEstimation reports an unrecognized std estimation mode.
var ErrInvalidEstimation = errors.New("recon: unrecognized std estimation mode")

// Params configures one reconstruction call. The configuration is immutable
// for the duration of the call. NaN selects the documented default for
// StdEst, Tau and Sigma; a zero Relaxation is normalized to 1 (no relaxation).
type Params struct {
	// StdEst is the noise std estimate. NaN means estimate it per Est:
	// from the image-domain residual (EstPrimal) or zero (EstDual).
	StdEst float64
	// Est selects the estimation variant.
	Est Estimation
	// StdThr is the threshold expressed as a number of sigmas; default 2.
	StdThr float64
	// Mu is the fixed regularization strength used in manual mode.
	// Zero is meaningful: it leaves the first pass unregularized.
	Mu float64
	// Tau and Sigma are the splitting step sizes; 0 or NaN derives them
	// from the operator spectral bounds, see condat.DeriveSteps.
	Tau, Sigma float64
	// Relaxation is the over/under-relaxation factor in (0,1]; 0 or NaN
	// selects 1, which disables relaxation.
	Relaxation float64
	// NbReweights is the number of reweighting passes. Forced to 0 in
	// manual mode regardless of the requested value.
	NbReweights int
	// MaxIter bounds each pass; 0 returns the zero estimates unchanged.
	MaxIter int
	// Positivity selects the non-negativity projection as the primal
	// proximity operator instead of the identity.
	Positivity bool
	// Atol is the convergence tolerance observed by the cost monitor;
	// default 1e-4. The monitor is diagnostic and never stops the loop.
	Atol float64
	// CostInterval and TestRange configure the cost monitor;
	// defaults 1 and 4.
	CostInterval, TestRange int
	// Logger receives optional human-readable progress. Nil disables
	// reporting without affecting numerical results.
	Logger *condat.Logger
}

// Result contains the final result of the reconstruction process.
type Result struct {
	// X is the final primal estimate in the image domain.
	X []complex128
	// Coeffs is the final dual estimate in the linear operator's native
	// per-sub-band coefficient representation.
	Coeffs [][]complex128
	Summary
}

// Summary contains a summary of the reconstruction process.
type Summary struct {
	Steps        condat.Steps // Step sizes used, with the convergence certificate.
	NumIter      int          // Cumulative number of splitting iterations.
	NumReweights int          // Reweighting passes actually executed.
	Cost         float64      // Last recorded cost value.
	CostTrace    []float64    // Full recorded cost trace.
	Converged    bool         // Cost monitor verdict (diagnostic only).
	StdScales    []float64    // Noise-scale sequence: initial, then one per pass.
}

// Reconstruct solves the sparsity-regularized inverse problem for the given
// data-fidelity and sparsifying operators. The first pass performs exactly
// MaxIter single-step updates; every reweighting pass resumes the iterator
// from its carried-over state for up to MaxIter further iterations.
// Operator failures propagate unchanged; there is no retry.
func Reconstruct(grad condat.Gradient, linear condat.Linear, p Params) (*Result, error) {

	// Fail fast, before any array allocation.
	switch p.Est {
	case EstNone, EstPrimal, EstDual:
	default:
		return nil, ErrInvalidEstimation
	}

	log := p.Logger

	stdThr := p.StdThr
	if stdThr == 0 {
		stdThr = 2
	}
	atol := p.Atol
	if atol == 0 {
		atol = 1e-4
	}
	interval := p.CostInterval
	if interval == 0 {
		interval = 1
	}
	testRange := p.TestRange
	if testRange == 0 {
		testRange = 4
	}
	rho := p.Relaxation
	if rho == 0 || math.IsNaN(rho) {
		rho = 1
	}
	tau, sigma := p.Tau, p.Sigma
	if tau == 0 {
		tau = math.NaN()
	}
	if sigma == 0 {
		sigma = math.NaN()
	}
	maxIter := max(p.MaxIter, 0)
	nbReweights := max(p.NbReweights, 0)

	rows, cols := grad.Shape()
	clen := linear.CoefLen(rows, cols)

	// Derive the initial weights and the reweighting strategy.
	weights := make([]float64, clen)
	std := p.StdEst
	var rw reweighter
	switch p.Est {
	case EstPrimal:
		if math.IsNaN(std) {
			buf := make([]complex128, rows*cols)
			grad.MtX(buf, grad.Obs())
			std = signal.SigmaMAD(buf)
		}
		fill(weights, stdThr*std)
		// The shrink ratio compares coefficients against the original
		// weights directly; StdThr only scales the initial thresholds.
		rw = newCWBReweight(linear, weights, 1)
	case EstDual:
		if math.IsNaN(std) {
			std = 0
		}
		fill(weights, stdThr*std)
		rw = newMADReweight(linear, weights, stdThr)
	case EstNone:
		std = math.NaN()
		fill(weights, p.Mu)
		nbReweights = 0
	}

	steps := condat.DeriveSteps(
		grad.SpecRad(), linear.Norm(rows, cols), tau, sigma, rho)

	var prox condat.Prox = signal.IdentityProx{}
	if p.Positivity {
		prox = signal.Positive{}
	}
	proxDual := signal.NewThreshold(weights)
	cost := condat.NewDualGapCost(linear, interval, testRange, atol)

	prob := condat.Problem{
		Grad:     grad,
		Linear:   linear,
		Prox:     prox,
		ProxDual: proxDual,
		Cost:     cost,
		Steps:    steps,
	}
	opt, err := prob.New(log)
	if err != nil {
		return nil, err
	}
	w := opt.Init()

	if log.Enable(condat.LogSummary) {
		log.Logf("Condat-Vu sparse reconstruction\n")
		log.Logf(" - mu: %v\n", p.Mu)
		log.Logf(" - lipschitz constant: %v\n", grad.SpecRad())
		log.Logf(" - tau: %v\n", steps.Tau)
		log.Logf(" - sigma: %v\n", steps.Sigma)
		log.Logf(" - rho: %v\n", steps.Rho)
		log.Logf(" - std: %v\n", std)
		log.Logf(" - 1/tau - sigma||L||^2 >= beta/2: %v\n", steps.Certified)
		log.Logf(" - max iterations: %d\n", maxIter)
		log.Logf(" - number of reweights: %d\n", nbReweights)
		log.Logf(" - primal variable shape: (%d, %d)\n", rows, cols)
		log.Logf(" - dual variable shape: (%d,)\n", clen)
	}

	// First pass: single-step granularity.
	for i := 0; i < maxIter; i++ {
		opt.Update(w)
	}

	// Reweighting continuations: cumulative, carried-over state.
	scales := make([]float64, 0, 1+nbReweights)
	if rw != nil {
		scales = append(scales, std)
	}
	for k := 0; k < nbReweights; k++ {
		std = rw.reweight(w.X())
		scales = append(scales, std)
		if log.Enable(condat.LogProgress) {
			log.Logf(" - reweight: %d\n", k+1)
			log.Logf(" - std: %v\n", std)
		}
		opt.Iterate(w, maxIter)
	}

	if log.Enable(condat.LogSummary) {
		log.Logf(" - final iteration number: %d\n", cost.Iterations())
		log.Logf(" - final cost value: %v\n", cost.Cost())
		log.Logf(" - converged: %v\n", cost.Converged())
	}

	return &Result{
		X:      w.X(),
		Coeffs: linear.Bands(w.Y()),
		Summary: Summary{
			Steps:        steps,
			NumIter:      w.Iter(),
			NumReweights: nbReweights,
			Cost:         cost.Cost(),
			CostTrace:    cost.Trace(),
			Converged:    cost.Converged(),
			StdScales:    scales,
		},
	}, nil
}

func fill(w []float64, v float64) {
	for i := range w {
		w[i] = v
	}
}
