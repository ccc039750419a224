// Copyright ©2025 ksparse authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package condat

import (
	"math"

	"gonum.org/v1/gonum/cmplxs"
	"gonum.org/v1/gonum/floats"
)

// costFloor guards the relative-change denominator near a zero cost.
const costFloor = 1e-30

// DualGapCost records a duality-gap surrogate once every CostInterval
// iterations and reports convergence once the relative change across the
// last TestRange recorded values stays below Tolerance for TestRange
// consecutive evaluations. The monitor is purely observational: it never
// alters the iteration control flow.
type DualGapCost struct {
	linear   Linear
	interval int
	window   int
	tol      float64

	iter     int
	lastEval int
	streak   int
	conv     bool
	trace    []float64
	buf      []complex128
}

// NewDualGapCost creates a monitor evaluating ‖x - 𝐋ᴴy‖₂ every interval
// iterations over a sliding window of the last testRange values.
// An interval ≤ 0 disables evaluation entirely.
func NewDualGapCost(linear Linear, interval, testRange int, tolerance float64) *DualGapCost {
	if testRange < 1 {
		testRange = 1
	}
	return &DualGapCost{
		linear:   linear,
		interval: interval,
		window:   testRange,
		tol:      tolerance,
	}
}

// Track advances the cumulative iteration counter and, when due,
// evaluates the duality-gap surrogate from the current primal/dual pair.
func (c *DualGapCost) Track(x, y []complex128) {
	c.iter++
	if c.interval <= 0 || c.iter%c.interval != 0 {
		return
	}

	if len(c.buf) != len(x) {
		c.buf = make([]complex128, len(x))
	}
	c.linear.AdjOp(c.buf, y)
	cmplxs.Sub(c.buf, x)
	cost := cmplxs.Norm(c.buf, 2)

	c.trace = append(c.trace, cost)
	c.lastEval = c.iter

	if len(c.trace) < c.window {
		return
	}
	w := c.trace[len(c.trace)-c.window:]
	span := floats.Max(w) - floats.Min(w)
	rel := span / math.Max(math.Abs(floats.Max(w)), costFloor)
	if rel < c.tol {
		c.streak++
	} else {
		c.streak = 0
	}
	if c.streak >= c.window {
		c.conv = true
	}
}

// Cost returns the most recently recorded cost value.
func (c *DualGapCost) Cost() float64 {
	if len(c.trace) == 0 {
		return math.NaN()
	}
	return c.trace[len(c.trace)-1]
}

// Trace returns the ordered sequence of recorded cost values.
func (c *DualGapCost) Trace() []float64 { return c.trace }

// Converged reports whether the recorded trace has flattened out.
func (c *DualGapCost) Converged() bool { return c.conv }

// Iterations returns the cumulative iteration count.
func (c *DualGapCost) Iterations() int { return c.iter }

// LastEval returns the iteration at which evaluation last triggered.
func (c *DualGapCost) LastEval() int { return c.lastEval }
