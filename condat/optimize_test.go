// Copyright ©2025 ksparse authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package condat

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/philouc/ksparse/signal"
)

// idGrad is the data-fidelity operator of a fully sampled identity
// acquisition: Grad(x) = x - b with Lipschitz constant 1.
type idGrad struct {
	rows, cols int
	b          []complex128
}

func (g *idGrad) Shape() (rows, cols int) { return g.rows, g.cols }
func (g *idGrad) SpecRad() float64        { return 1 }
func (g *idGrad) Obs() []complex128       { return g.b }

func (g *idGrad) Grad(dst, x []complex128) {
	for i := range dst {
		dst[i] = x[i] - g.b[i]
	}
}

func (g *idGrad) MtX(dst, y []complex128) { copy(dst, y) }

func idProblem(rows, cols int, b []complex128, weights []float64) Problem {
	return Problem{
		Grad:     &idGrad{rows: rows, cols: cols, b: b},
		Linear:   signal.Identity{},
		Prox:     signal.IdentityProx{},
		ProxDual: signal.NewThreshold(weights),
		Steps:    DeriveSteps(1, 1, math.NaN(), math.NaN(), math.NaN()),
	}
}

func TestValidation(t *testing.T) {

	b := make([]complex128, 4)
	w := make([]float64, 4)

	tests := []func(p *Problem){
		func(p *Problem) { p.Grad = nil },
		func(p *Problem) { p.Linear = nil },
		func(p *Problem) { p.Prox = nil },
		func(p *Problem) { p.ProxDual = nil },
		func(p *Problem) { p.Steps.Tau = 0 },
		func(p *Problem) { p.Steps.Tau = math.NaN() },
		func(p *Problem) { p.Steps.Sigma = -1 },
		func(p *Problem) { p.Steps.Sigma = math.NaN() },
		func(p *Problem) { p.Steps.Rho = 0 },
		func(p *Problem) { p.Steps.Rho = 1.5 },
		func(p *Problem) { p.Steps.Rho = math.NaN() },
	}
	for k, mutate := range tests {
		p := idProblem(2, 2, b, w)
		mutate(&p)
		if _, err := p.New(nil); err == nil {
			t.Fatalf("TestValidation: case %d accepted", k)
		}
	}

	p := idProblem(2, 2, b, w)
	if _, err := p.New(nil); err != nil {
		t.Fatal("TestValidation: valid problem rejected")
	}
}

func TestZeroIterations(t *testing.T) {

	b := []complex128{1, 2i, 3, 4i}
	p := idProblem(2, 2, b, make([]float64, 4))
	o, err := p.New(nil)
	if err != nil {
		t.Fatal(err)
	}

	w := o.Init()
	o.Iterate(w, 0)
	for i := range b {
		if w.X()[i] != 0 || w.Y()[i] != 0 {
			t.Fatal("TestZeroIterations: State Not Zero")
		}
	}
}

func TestIdentityRecovery(t *testing.T) {

	// With an orthonormal identity-like transform and zero weights the
	// problem degenerates to a direct inverse: the iterate must recover
	// the observation exactly within floating tolerance.
	const rows, cols = 4, 4
	b := make([]complex128, rows*cols)
	for i := range b {
		b[i] = complex(math.Sin(float64(i+1)), math.Cos(float64(2*i)))
	}

	p := idProblem(rows, cols, b, make([]float64, rows*cols))
	p.Cost = NewDualGapCost(p.Linear, 1, 4, 1e-4)
	o, err := p.New(nil)
	if err != nil {
		t.Fatal(err)
	}

	w := o.Init()
	o.Iterate(w, 9)
	for i := range b {
		if cmplx.Abs(w.X()[i]-b[i]) > 1e-6 {
			t.Fatalf("TestIdentityRecovery: residual %e at %d", cmplx.Abs(w.X()[i]-b[i]), i)
		}
	}
	if w.Iter() != 9 {
		t.Fatal("TestIdentityRecovery: Iteration Count")
	}
}

func TestCostMonotone(t *testing.T) {

	// On a converged synthetic least-squares problem the recorded trace
	// must be non-increasing within numerical tolerance.
	const rows, cols = 4, 4
	b := make([]complex128, rows*cols)
	for i := range b {
		b[i] = complex(float64(i%5)-2, float64(i%3)-1)
	}

	p := idProblem(rows, cols, b, make([]float64, rows*cols))
	// With tau = 1 the least-squares fixed point is reached in one step and
	// the recorded trace settles immediately.
	p.Steps = DeriveSteps(1, 1, 1, 0.5, 1)
	p.Cost = NewDualGapCost(p.Linear, 1, 4, 1e-4)
	o, err := p.New(nil)
	if err != nil {
		t.Fatal(err)
	}

	w := o.Init()
	o.Iterate(w, 50)

	trace := p.Cost.Trace()
	if len(trace) != 50 {
		t.Fatal("TestCostMonotone: Trace Length")
	}
	for i := 1; i < len(trace); i++ {
		if trace[i] > trace[i-1]+1e-12 {
			t.Fatalf("TestCostMonotone: increase at %d: %e -> %e", i, trace[i-1], trace[i])
		}
	}
	if !o.Converged() {
		t.Fatal("TestCostMonotone: Not Converged")
	}
}

func TestContinuationCarriesState(t *testing.T) {

	// A continuation must observe the previous pass's final state:
	// running 5+5 iterations equals running 10 in one call.
	const rows, cols = 4, 2
	b := []complex128{1, 2, 3, 4, 5i, 6i, 7i, 8i}
	weights := []float64{.1, .1, .1, .1, .1, .1, .1, .1}

	run := func(chunks ...int) []complex128 {
		p := idProblem(rows, cols, b, weights)
		o, err := p.New(nil)
		if err != nil {
			t.Fatal(err)
		}
		w := o.Init()
		for _, n := range chunks {
			o.Iterate(w, n)
		}
		return w.X()
	}

	once := run(10)
	split := run(5, 5)
	for i := range once {
		if once[i] != split[i] {
			t.Fatal("TestContinuationCarriesState: State Diverged")
		}
	}
}

func TestPositivityProjection(t *testing.T) {

	const rows, cols = 2, 2
	b := []complex128{-1, 2, -3, 4}
	p := idProblem(rows, cols, b, make([]float64, 4))
	p.Prox = signal.Positive{}
	o, err := p.New(nil)
	if err != nil {
		t.Fatal(err)
	}

	w := o.Init()
	o.Iterate(w, 20)
	for i, v := range w.X() {
		if real(v) < 0 || imag(v) != 0 {
			t.Fatalf("TestPositivityProjection: negative component at %d", i)
		}
	}
}
