package aggregate

import (
	"github.com/eccstats/ecc-rankings/internal/domain/model"
	"github.com/eccstats/ecc-rankings/internal/domain/types"
)

// Option applies a configuration option to the Aggregator.
type Option func(*Aggregator)

// WithDivisions sets the canonical division order and difficulty weights.
// Divisions missing from weights weigh 1.0; non-positive weights are ignored.
func WithDivisions(order []types.Division, weights map[types.Division]float64) Option {
	return func(a *Aggregator) {
		a.order = make(map[types.Division]int, len(order))
		for i, d := range order {
			if _, dup := a.order[d]; !dup {
				a.order[d] = i
			}
		}
		a.weights = make(map[types.Division]float64, len(weights))
		for d, w := range weights {
			if w > 0 {
				a.weights[d] = w
			}
		}
	}
}

// WithIdentity sets how player names resolve to grouping keys.
func WithIdentity(fn model.IdentityFunc) Option {
	return func(a *Aggregator) {
		if fn != nil {
			a.identity = fn
		}
	}
}
