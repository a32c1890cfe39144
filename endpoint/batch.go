package endpoint

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds CallAll when no limit is given
const DefaultConcurrency = 10

// Call pairs an endpoint with the arguments of one invocation
type Call struct {
	Endpoint *Endpoint
	Args     Args
}

// Result is the outcome of one Call
type Result struct {
	Value any
	Err   error
}

// CallAll runs independent calls concurrently, at most limit at a time.
// Results are returned in input order and a failing call does not cancel
// the others.
func CallAll(ctx context.Context, limit int, calls []Call) []Result {
	results := make([]Result, len(calls))
	if len(calls) == 0 {
		return results
	}
	if limit <= 0 {
		limit = DefaultConcurrency
	}

	var g errgroup.Group
	g.SetLimit(limit)

	for i, c := range calls {
		g.Go(func() error {
			v, err := c.Endpoint.Call(ctx, c.Args)
			results[i] = Result{Value: v, Err: err}
			return nil
		})
	}

	_ = g.Wait()
	return results
}
