// Copyright ©2025 ksparse authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package signal

import (
	"errors"
	"math"
)

// Haar is a 2-D orthonormal Haar wavelet transform over a fixed image shape.
// Coefficients are laid out flat in band order: the coarsest approximation
// band first, then the three detail bands of every scale from coarse to
// fine, each block row-major. The transform is orthonormal, so the adjoint
// equals the inverse and the operator norm is exactly 1.
type Haar struct {
	rows, cols, levels int
	grid               []complex128
	line               []complex128
}

// NewHaar creates a Haar transform for rows×cols images decomposed over the
// given number of scales. Both dimensions must be divisible by 2^levels.
func NewHaar(rows, cols, levels int) (*Haar, error) {
	switch {
	case rows <= 0 || cols <= 0:
		return nil, errors.New("signal: haar shape must be positive")
	case levels < 1:
		return nil, errors.New("signal: haar needs at least one scale")
	case rows%(1<<levels) != 0 || cols%(1<<levels) != 0:
		return nil, errors.New("signal: haar shape not divisible by 2^levels")
	}
	return &Haar{
		rows: rows, cols: cols, levels: levels,
		grid: make([]complex128, rows*cols),
		line: make([]complex128, max(rows, cols)),
	}, nil
}

// CoefLen returns the coefficient length, equal to the image size.
func (h *Haar) CoefLen(rows, cols int) int { return rows * cols }

// Norm returns 1: the transform is orthonormal over its configured shape.
func (h *Haar) Norm(rows, cols int) float64 { return 1 }

// Op stores the forward transform of x into dst in band order.
func (h *Haar) Op(dst, x []complex128) {
	if len(x) != h.rows*h.cols || len(dst) != h.rows*h.cols {
		panic("signal: haar dimension mismatch")
	}
	copy(h.grid, x)
	for l := 0; l < h.levels; l++ {
		ar, ac := h.rows>>l, h.cols>>l
		for r := 0; r < ar; r++ {
			h.fwdStep(h.grid[r*h.cols:], 1, ac)
		}
		for c := 0; c < ac; c++ {
			h.fwdStep(h.grid[c:], h.cols, ar)
		}
	}
	h.pack(dst)
}

// AdjOp stores the adjoint (= inverse) transform of y into dst.
func (h *Haar) AdjOp(dst, y []complex128) {
	if len(y) != h.rows*h.cols || len(dst) != h.rows*h.cols {
		panic("signal: haar dimension mismatch")
	}
	h.unpack(y)
	for l := h.levels - 1; l >= 0; l-- {
		ar, ac := h.rows>>l, h.cols>>l
		for c := 0; c < ac; c++ {
			h.invStep(h.grid[c:], h.cols, ar)
		}
		for r := 0; r < ar; r++ {
			h.invStep(h.grid[r*h.cols:], 1, ac)
		}
	}
	copy(dst, h.grid)
}

// Bands splits a flat band-ordered coefficient slice into per-band views,
// contiguous and in layout order.
func (h *Haar) Bands(y []complex128) [][]complex128 {
	blocks := h.layout()
	bands := make([][]complex128, len(blocks))
	off := 0
	for i, b := range blocks {
		n := b[2] * b[3]
		bands[i] = y[off : off+n]
		off += n
	}
	return bands
}

// fwdStep applies one orthonormal Haar butterfly pass over n strided
// elements, writing averages into the first half and details into the second.
func (h *Haar) fwdStep(v []complex128, stride, n int) {
	half := n / 2
	s := complex(math.Sqrt2/2, 0)
	for j := 0; j < half; j++ {
		a := v[2*j*stride]
		b := v[(2*j+1)*stride]
		h.line[j] = (a + b) * s
		h.line[half+j] = (a - b) * s
	}
	for j := 0; j < n; j++ {
		v[j*stride] = h.line[j]
	}
}

func (h *Haar) invStep(v []complex128, stride, n int) {
	half := n / 2
	s := complex(math.Sqrt2/2, 0)
	for j := 0; j < half; j++ {
		a := v[j*stride]
		d := v[(half+j)*stride]
		h.line[2*j] = (a + d) * s
		h.line[2*j+1] = (a - d) * s
	}
	for j := 0; j < n; j++ {
		v[j*stride] = h.line[j]
	}
}

// layout lists the sub-band blocks of the 2-D grid in band order as
// {row0, col0, height, width} tuples.
func (h *Haar) layout() [][4]int {
	L := h.levels
	blocks := make([][4]int, 0, 1+3*L)
	blocks = append(blocks, [4]int{0, 0, h.rows >> L, h.cols >> L})
	for l := L; l >= 1; l-- {
		hr, hc := h.rows>>l, h.cols>>l
		blocks = append(blocks,
			[4]int{0, hc, hr, hc},  // horizontal details
			[4]int{hr, 0, hr, hc},  // vertical details
			[4]int{hr, hc, hr, hc}) // diagonal details
	}
	return blocks
}

func (h *Haar) pack(dst []complex128) {
	off := 0
	for _, b := range h.layout() {
		r0, c0, hr, hc := b[0], b[1], b[2], b[3]
		for r := 0; r < hr; r++ {
			copy(dst[off:off+hc], h.grid[(r0+r)*h.cols+c0:])
			off += hc
		}
	}
}

func (h *Haar) unpack(y []complex128) {
	off := 0
	for _, b := range h.layout() {
		r0, c0, hr, hc := b[0], b[1], b[2], b[3]
		for r := 0; r < hr; r++ {
			copy(h.grid[(r0+r)*h.cols+c0:(r0+r)*h.cols+c0+hc], y[off:])
			off += hc
		}
	}
}
