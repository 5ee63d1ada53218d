// Package summary computes descriptive statistics over a reduced series.
package summary

import (
	"github.com/GriffinCanCode/TableScan/internal/scan"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes the measured values of a series. Pairs without a value
// are counted in Missing and otherwise ignored.
type Summary struct {
	Count   int     `json:"count" yaml:"count" toml:"count"`
	Missing int     `json:"missing" yaml:"missing" toml:"missing"`
	Min     float64 `json:"min" yaml:"min" toml:"min"`
	Max     float64 `json:"max" yaml:"max" toml:"max"`
	Mean    float64 `json:"mean" yaml:"mean" toml:"mean"`
	StdDev  float64 `json:"stddev" yaml:"stddev" toml:"stddev"`
}

// Of summarises pairs. StdDev is the sample standard deviation and is zero
// for fewer than two values.
func Of(pairs []scan.MeasurementPair) Summary {
	values := make([]float64, 0, len(pairs))
	for _, p := range pairs {
		if p.Value != nil {
			values = append(values, *p.Value)
		}
	}

	s := Summary{Count: len(values), Missing: len(pairs) - len(values)}
	if len(values) == 0 {
		return s
	}

	s.Min = floats.Min(values)
	s.Max = floats.Max(values)
	s.Mean = stat.Mean(values, nil)
	if len(values) > 1 {
		s.StdDev = stat.StdDev(values, nil)
	}
	return s
}
