// Package grid describes the one-dimensional, half-open search lattices used
// by the coefficient fitter.
//
// A Range {Low, High, Step} is evaluated at
//
//	Low, Low+Step, Low+2*Step, ...   (strictly below High)
//
// Values are computed from the integer index (Low + i*Step) rather than by
// repeated addition, so the number of points is stable across runs and
// platforms.
package grid

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidRange is returned by Validate when Low >= High, Step <= 0, a
// bound is not finite, or the grid would have more than MaxLen points.
var ErrInvalidRange = errors.New("grid: invalid range")

// MaxLen caps the number of points of one Range. The flat index of a 2-D
// search (MaxLen²) still fits in an int64.
const MaxLen = 100_000_000

// boundaryTol is the relative slack used when (High-Low)/Step lands on an
// integer up to rounding noise. Within it the upper bound is excluded.
const boundaryTol = 1e-9

// Range is a half-open interval [Low, High) sampled every Step.
type Range struct {
	Low  float64
	High float64
	Step float64
}

// IsZero reports whether r is the zero Range (treated as "unset" by configs).
func (r Range) IsZero() bool { return r == Range{} }

// Validate checks the Range invariants.
func (r Range) Validate() error {
	for _, v := range []float64{r.Low, r.High, r.Step} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%w: non-finite bound in %s", ErrInvalidRange, r)
		}
	}
	if r.Low >= r.High {
		return fmt.Errorf("%w: low %g must be below high %g", ErrInvalidRange, r.Low, r.High)
	}
	if r.Step <= 0 {
		return fmt.Errorf("%w: step %g must be > 0", ErrInvalidRange, r.Step)
	}
	if q := (r.High - r.Low) / r.Step; math.IsInf(q, 0) || q > MaxLen {
		return fmt.Errorf("%w: %s has more than %d points", ErrInvalidRange, r, MaxLen)
	}
	return nil
}

// Len returns the number of grid points, ceil((High-Low)/Step).
//
// When the quotient is an integer up to floating noise the rounded value is
// used. Noise above the integer ([0.1, 0.4) step 0.1 gives
// 3.0000000000000004) would otherwise add a point at High; noise below it
// (the default cr grids give 199.99999999999997 and 1999.9999999999995)
// rounds to the same count either way. Len returns 0 for an invalid Range.
func (r Range) Len() int {
	if r.Validate() != nil {
		return 0
	}
	q := (r.High - r.Low) / r.Step
	if n := math.Round(q); math.Abs(q-n) <= boundaryTol*math.Max(1, n) {
		return int(n)
	}
	return int(math.Ceil(q))
}

// At returns the i-th grid value. It does not check bounds.
func (r Range) At(i int) float64 { return r.Low + float64(i)*r.Step }

func (r Range) String() string {
	return fmt.Sprintf("[%g, %g) step %g", r.Low, r.High, r.Step)
}

// Split partitions [0, n) into at most parts contiguous, non-empty chunks in
// ascending order. Each chunk is returned as [from, to).
func Split(n, parts int) [][2]int {
	if n <= 0 {
		return nil
	}
	if parts < 1 {
		parts = 1
	}
	if parts > n {
		parts = n
	}
	out := make([][2]int, 0, parts)
	size, rem := n/parts, n%parts
	from := 0
	for p := range parts {
		to := from + size
		if p < rem {
			to++
		}
		out = append(out, [2]int{from, to})
		from = to
	}
	return out
}
