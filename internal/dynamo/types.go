package dynamo

import (
	"math"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// Add returns s+other. Missing entries in other count as zero.
func (s State) Add(other State) State {
	result := s.Clone()
	for i := range result {
		if i < len(other) {
			result[i] += other[i]
		}
	}
	return result
}

func (s State) Sub(other State) State {
	return s.Add(other.Scale(-1))
}

func (s State) Scale(factor float64) State {
	result := make(State, len(s))
	for i := range s {
		result[i] = s[i] * factor
	}
	return result
}

// Halves splits a position/velocity state.
func (s State) Halves() (pos, vel State) {
	half := len(s) / 2
	return s[:half], s[half:]
}

// System is a first-order ODE dX/dt = f(X, t).
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Integrator interface {
	Step(sys System, x State, t, dt float64) State
}

// Validate checks x against sys before stepping.
func Validate(sys System, x State) error {
	if len(x) != sys.StateDim() {
		return ErrDimensionMismatch
	}
	if !x.IsValid() {
		return ErrInvalidState
	}
	return nil
}
