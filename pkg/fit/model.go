package fit

import (
	"fmt"
	"slices"

	"github.com/ja7ad/coeffit/pkg/grid"
	"github.com/ja7ad/coeffit/pkg/types"
)

// Gravity is the standard gravitational acceleration in m/s².
const Gravity = 9.81

// Default search bounds and steps.
const (
	DefaultCdLow      = 0.12
	DefaultCdHigh     = 0.32
	DefaultCdStep     = 0.001
	DefaultCdFineStep = 0.0001

	DefaultCrLow      = 0.005
	DefaultCrHigh     = 0.015
	DefaultCrStep     = 0.00005
	DefaultCrFineStep = 0.000005
)

// Config holds the search grids and the worker count.
//   - Cd, Cr: the 2-D search (Fit2D)
//   - CdFine: the cd grid of the fixed-cr search (FitGivenCr, FitJoint)
//   - CrFine: the shared cr grid of the joint search (FitJoint)
//   - Workers: goroutines used to partition the outer loop (1 = sequential)
type Config struct {
	Cd      grid.Range
	CdFine  grid.Range
	Cr      grid.Range
	CrFine  grid.Range
	Workers int
}

// _defaultConfig returns a Config pre-filled with the reference grids.
func _defaultConfig() *Config {
	return &Config{
		Cd:      grid.Range{Low: DefaultCdLow, High: DefaultCdHigh, Step: DefaultCdStep},
		CdFine:  grid.Range{Low: DefaultCdLow, High: DefaultCdHigh, Step: DefaultCdFineStep},
		Cr:      grid.Range{Low: DefaultCrLow, High: DefaultCrHigh, Step: DefaultCrStep},
		CrFine:  grid.Range{Low: DefaultCrLow, High: DefaultCrHigh, Step: DefaultCrFineStep},
		Workers: 1,
	}
}

// DefaultConfig returns a copy of the default configuration.
func DefaultConfig() Config { return *_defaultConfig() }

// Validate checks every grid.
func (c *Config) Validate() error {
	for _, r := range []struct {
		name string
		rng  grid.Range
	}{
		{"cd", c.Cd},
		{"cd-fine", c.CdFine},
		{"cr", c.Cr},
		{"cr-fine", c.CrFine},
	} {
		if err := r.rng.Validate(); err != nil {
			return fmt.Errorf("config %s: %w", r.name, err)
		}
	}
	return nil
}

// Observation is one measured point: ground speed and power in watts.
type Observation struct {
	Speed types.Speed
	Power float64
}

// Dataset is an ordered set of observations with distinct speeds.
type Dataset struct {
	obs []Observation
}

// NewDataset builds a Dataset from a speed (km/h) -> power (W) table.
// Observations are ordered by ascending speed.
func NewDataset(table map[float64]float64) Dataset {
	obs := make([]Observation, 0, len(table))
	for s, p := range table {
		obs = append(obs, Observation{Speed: types.Speed(s), Power: p})
	}
	slices.SortFunc(obs, bySpeed)
	return Dataset{obs: obs}
}

// NewDatasetFromObservations builds a Dataset from a list, rejecting duplicate
// speeds.
func NewDatasetFromObservations(obs ...Observation) (Dataset, error) {
	out := slices.Clone(obs)
	slices.SortFunc(out, bySpeed)
	for i := 1; i < len(out); i++ {
		if out[i].Speed == out[i-1].Speed {
			return Dataset{}, fmt.Errorf("%w: %s", ErrDuplicateSpeed, out[i].Speed)
		}
	}
	return Dataset{obs: out}, nil
}

func bySpeed(a, b Observation) int {
	switch {
	case a.Speed < b.Speed:
		return -1
	case a.Speed > b.Speed:
		return 1
	default:
		return 0
	}
}

// Len returns the number of observations.
func (d Dataset) Len() int { return len(d.obs) }

// Observations returns a copy of the observations in ascending speed order.
func (d Dataset) Observations() []Observation { return slices.Clone(d.obs) }

// Profile is one rider + equipment combination.
type Profile struct {
	Name  string // short id, e.g. "jerome-tt"
	Label string // display label, e.g. "Jerome TT"
	Mass  types.Mass
	Data  Dataset
}

// Result is the winner of a search.
type Result struct {
	Error     float64 // normalized RMS error, as a fraction
	Cd        float64
	Cr        float64
	Evaluated int // number of (cd, cr) pairs scored for this result
}
