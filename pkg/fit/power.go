package fit

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/ja7ad/coeffit/pkg/types"
)

// aeroTerm is the per-unit-cd aerodynamic power, v³ (v in m/s).
func aeroTerm(v float64) float64 { return v * v * v }

// rollTerm is the per-unit-cr rolling-resistance power, v·g·m.
func rollTerm(v float64, mass types.Mass) float64 { return v * Gravity * mass.Kg() }

// Power returns the modelled power in watts needed to hold speed with the
// given total mass and coefficients:
//
//	P = cd·v³ + cr·v·g·m,   v = speed/3.6
//
// Inputs are not validated; negative values give a well-defined but
// physically meaningless result.
func Power(speed types.Speed, mass types.Mass, cd, cr float64) float64 {
	v := speed.Ms()
	return cd*aeroTerm(v) + cr*rollTerm(v, mass)
}

// Score returns the normalized RMS error of (cd, cr) against ds:
//
//	sqrt( Σ(P_i - meas_i)² / Σ meas_i² )
//
// It returns ErrDegenerateDataset if ds is empty or all measured powers are
// zero.
func Score(cd, cr float64, mass types.Mass, ds Dataset) (float64, error) {
	p, err := prepare(mass, ds)
	if err != nil {
		return 0, err
	}
	return p.score(cd, cr), nil
}

// problem is a dataset reduced to the two model terms at a fixed mass, so
// scoring a candidate is a single allocation-free pass.
type problem struct {
	aero  []float64
	roll  []float64
	meas  []float64
	sumSq float64 // Σ meas²
}

func prepare(mass types.Mass, ds Dataset) (*problem, error) {
	n := ds.Len()
	if n == 0 {
		return nil, ErrDegenerateDataset
	}
	p := &problem{
		aero: make([]float64, n),
		roll: make([]float64, n),
		meas: make([]float64, n),
	}
	for i, o := range ds.obs {
		v := o.Speed.Ms()
		p.aero[i] = aeroTerm(v)
		p.roll[i] = rollTerm(v, mass)
		p.meas[i] = o.Power
	}
	p.sumSq = floats.Dot(p.meas, p.meas)
	if p.sumSq == 0 || math.IsNaN(p.sumSq) {
		return nil, ErrDegenerateDataset
	}
	return p, nil
}

func (p *problem) score(cd, cr float64) float64 {
	var sse float64
	for i, m := range p.meas {
		d := cd*p.aero[i] + cr*p.roll[i] - m
		sse += d * d
	}
	return math.Sqrt(sse / p.sumSq)
}
