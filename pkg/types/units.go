package types

import "fmt"

// KmhPerMs is the number of km/h in one m/s.
const KmhPerMs = 3.6

// Speed is a ground speed in kilometres per hour.
type Speed float64

// Ms returns the speed in metres per second.
func (s Speed) Ms() float64 { return float64(s) / KmhPerMs }

// String formats the speed with one decimal, e.g. "38.9 km/h".
func (s Speed) String() string { return fmt.Sprintf("%.1f km/h", float64(s)) }

// Mass is a total moving mass (rider + equipment) in kilograms.
type Mass float64

// Kg returns the mass as a plain float64 in kilograms.
func (m Mass) Kg() float64 { return float64(m) }

// String formats the mass with one decimal, e.g. "88.0 kg".
func (m Mass) String() string { return fmt.Sprintf("%.1f kg", float64(m)) }
