package analysis

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

type Summary struct {
	Mean, StdDev float64
	Min, Max     float64
	N            int
}

// Summarize describes data. An empty series gives a zero Summary.
func Summarize(data []float64) Summary {
	if len(data) == 0 {
		return Summary{}
	}
	s := Summary{N: len(data), Min: floats.Min(data), Max: floats.Max(data)}
	if len(data) == 1 {
		s.Mean = data[0]
		return s
	}
	s.Mean, s.StdDev = stat.MeanStdDev(data, nil)
	return s
}
