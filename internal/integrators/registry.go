package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/blobsim/internal/dynamo"
)

var registry = map[string]func() dynamo.Integrator{
	"euler":         func() dynamo.Integrator { return NewEuler() },
	"semi-implicit": func() dynamo.Integrator { return NewSemiImplicitEuler() },
	"verlet":        func() dynamo.Integrator { return NewVerlet() },
	"rk4":           func() dynamo.Integrator { return NewRK4() },
}

// ByName returns a fresh stepper for name.
func ByName(name string) (dynamo.Integrator, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s (available: %v)", name, Names())
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
