// Copyright ©2025 ksparse authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package signal

import (
	"math"
	"math/cmplx"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// madScale relates the median absolute deviation of a Gaussian sample to
// its standard deviation: 1/Φ⁻¹(3/4).
const madScale = 1.4826

// SigmaMAD estimates the noise standard deviation of complex data as the
// scaled median absolute deviation of the coefficient magnitudes. The MAD
// is a consistent, outlier-robust estimator of σ for Gaussian noise.
func SigmaMAD(x []complex128) float64 {
	if len(x) == 0 {
		return 0
	}
	mag := make([]float64, len(x))
	for i, v := range x {
		mag[i] = cmplx.Abs(v)
	}
	sort.Float64s(mag)
	med := stat.Quantile(0.5, stat.Empirical, mag, nil)
	for i := range mag {
		mag[i] = math.Abs(mag[i] - med)
	}
	sort.Float64s(mag)
	return madScale * stat.Quantile(0.5, stat.Empirical, mag, nil)
}
