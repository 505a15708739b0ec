package integrators

import (
	"fmt"
	"sort"

	"github.com/san-kum/kppsim/internal/dynamo"
)

var factories = map[string]func() dynamo.Integrator{
	"euler": func() dynamo.Integrator { return NewEuler() },
	"rk4":   func() dynamo.Integrator { return NewRK4() },
}

// ByName returns a fresh integrator. Integrators hold scratch space, so
// callers running in parallel each need their own.
func ByName(name string) (dynamo.Integrator, error) {
	fn, ok := factories[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
