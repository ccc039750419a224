// Copyright ©2025 ksparse authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package condat

import (
	"errors"
	"math"
)

// Problem specifies one sparse reconstruction problem for the splitting solver.
type Problem struct {
	Grad     Gradient     // Data-fidelity operator 𝐀ᴴ(𝐀x - b)
	Linear   Linear       // Sparsifying transform 𝐋
	Prox     Prox         // Primal proximity operator (identity or positivity)
	ProxDual Prox         // Dual proximity operator (weighted soft-threshold)
	Cost     *DualGapCost // Optional convergence monitor
	Steps    Steps        // Step-size parameters, see DeriveSteps
}

// New creates a new Condat-Vu optimizer for the given problem.
func (p *Problem) New(logger *Logger) (optimizer *Optimizer, err error) {

	if logger == nil {
		logger = new(Logger)
		logger.Level = LogNoop
	}

	switch {
	case p.Grad == nil:
		err = errors.New("gradient operator is required")
	case p.Linear == nil:
		err = errors.New("linear operator is required")
	case p.Prox == nil:
		err = errors.New("primal proximity operator is required")
	case p.ProxDual == nil:
		err = errors.New("dual proximity operator is required")
	case math.IsNaN(p.Steps.Tau) || p.Steps.Tau <= zero:
		err = errors.New("primal step size must greater than 0")
	case math.IsNaN(p.Steps.Sigma) || p.Steps.Sigma <= zero:
		err = errors.New("dual step size must greater than 0")
	case math.IsNaN(p.Steps.Rho) || p.Steps.Rho <= zero || p.Steps.Rho > one:
		err = errors.New("relaxation factor must lie in (0,1]")
	}
	if err != nil {
		return
	}

	rows, cols := p.Grad.Shape()
	optimizer = &Optimizer{
		cvSpec{
			rows: rows, cols: cols,
			clen:    p.Linear.CoefLen(rows, cols),
			logger:  *logger,
			Problem: *p,
		},
	}
	return
}

// Optimizer implemented using the Condat-Vu primal-dual splitting algorithm.
type Optimizer struct {
	cvSpec
}

type cvSpec struct {
	rows, cols int
	clen       int
	logger     Logger
	Problem
}

// Workspace contains the state and scratch space of one reconstruction run.
// The primal estimate, the dual estimate and every scratch buffer are
// allocated once by Init and mutated in place: no allocation happens
// mid-run, and state carries over between Update and Iterate calls.
// A workspace is not safe for concurrent use. Nor is sharing one optimizer
// across goroutines: the operator adapters may carry internal scratch space.
type Workspace struct {
	rows, cols, clen int
	cvCtx
}

type cvCtx struct {
	x, y []complex128 // primal and dual estimates

	gBuf  []complex128 // image domain: gradient ∇f(x)
	aBuf  []complex128 // image domain: adjoint 𝐋ᴴy
	xTmp  []complex128 // image domain: pre-prox primal point
	xProx []complex128 // image domain: proxed primal point
	lBuf  []complex128 // coefficient domain: forward transform
	yTmp  []complex128 // coefficient domain: pre-prox dual point
	yProx []complex128 // coefficient domain: proxed dual point

	iter int
}

// Init allocates the workspace with zero primal and dual estimates.
func (o *Optimizer) Init() *Workspace {
	w := new(Workspace)
	w.rows, w.cols, w.clen = o.rows, o.cols, o.clen

	n := w.rows * w.cols
	img := make([]complex128, 4*n)
	coef := make([]complex128, 3*w.clen)
	w.cvCtx = cvCtx{
		x:     make([]complex128, n),
		y:     make([]complex128, w.clen),
		gBuf:  img[:n],
		aBuf:  img[n : 2*n],
		xTmp:  img[2*n : 3*n],
		xProx: img[3*n:],
		lBuf:  coef[:w.clen],
		yTmp:  coef[w.clen : 2*w.clen],
		yProx: coef[2*w.clen:],
	}
	return w
}

// X returns the primal estimate owned by the workspace.
func (w *Workspace) X() []complex128 { return w.x }

// Y returns the dual estimate owned by the workspace.
func (w *Workspace) Y() []complex128 { return w.y }

// Iter returns the cumulative number of updates performed.
func (w *Workspace) Iter() int { return w.iter }

// Iterate repeats the splitting update up to maxIter further iterations,
// resuming from the carried-over primal/dual state. It applies exactly the
// same update rule as Update; only the caller-visible granularity differs.
func (o *Optimizer) Iterate(w *Workspace, maxIter int) {
	for i := 0; i < maxIter; i++ {
		o.Update(w)
	}
}

// Converged reports the cost monitor's verdict, or false without a monitor.
func (o *Optimizer) Converged() bool {
	return o.Cost != nil && o.Cost.Converged()
}
