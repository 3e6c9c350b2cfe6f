package scenario

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hugomtns/pv-projectmgmt-sub005/pkg/core/valuation"
)

// DefaultConcurrency bounds EvaluateAll when the caller passes limit <= 0.
const DefaultConcurrency = 4

// EvaluateAll computes every scenario concurrently and returns one outcome
// per scenario, ordered by name then ID. A failing scenario records its
// error in its own outcome and does not stop the others. The returned error
// is non-nil only when ctx is cancelled; scenarios not started by then carry
// ctx's error.
func EvaluateAll(ctx context.Context, scenarios []Scenario, opts valuation.Options, limit int) ([]Outcome, error) {
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	ordered := make([]Scenario, len(scenarios))
	copy(ordered, scenarios)
	sortScenarios(ordered)

	outcomes := make([]Outcome, len(ordered))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, s := range ordered {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				outcomes[i] = Outcome{ID: s.ID, Name: s.Name, Err: err, Error: err.Error()}
				return nil
			}
			outcomes[i] = s.Evaluate(opts)
			return nil
		})
	}

	_ = g.Wait()
	return outcomes, ctx.Err()
}

// Failed returns the outcomes that carry an error.
func Failed(outcomes []Outcome) []Outcome {
	var out []Outcome
	for _, o := range outcomes {
		if o.Err != nil {
			out = append(out, o)
		}
	}
	return out
}

// ByID indexes outcomes for lookup.
func ByID(outcomes []Outcome) map[string]Outcome {
	m := make(map[string]Outcome, len(outcomes))
	for _, o := range outcomes {
		m[o.ID] = o
	}
	return m
}
