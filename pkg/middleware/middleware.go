// Package middleware wraps console menu actions with cross-cutting behaviour.
package middleware

import "context"

// Action is one unit of user-triggered work, such as analyzing a review.
type Action func(ctx context.Context) error

// Middleware decorates an Action.
type Middleware func(next Action) Action

// Chain applies mws to a so that the first middleware is the outermost.
func Chain(a Action, mws ...Middleware) Action {
	for i := len(mws) - 1; i >= 0; i-- {
		a = mws[i](a)
	}
	return a
}
