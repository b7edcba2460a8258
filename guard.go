package echo

// Guard is a side-effect-free predicate that gates whether a matched route is allowed to
// run. Guards must not mutate the request, the context store, or the response; Check may
// be called speculatively against routes that do not end up handling the request.
type Guard interface {
	Check(c *Context) bool
}

// GuardFunc adapts a plain function to the Guard interface.
type GuardFunc func(c *Context) bool

// Check implements Guard.
func (f GuardFunc) Check(c *Context) bool { return f(c) }

// And combines guards with short-circuiting logical AND, evaluated left to right.
func And(guards ...Guard) Guard {
	return GuardFunc(func(c *Context) bool {
		for _, g := range guards {
			if !g.Check(c) {
				return false
			}
		}
		return true
	})
}

// Or combines guards with short-circuiting logical OR, evaluated left to right.
func Or(guards ...Guard) Guard {
	return GuardFunc(func(c *Context) bool {
		for _, g := range guards {
			if g.Check(c) {
				return true
			}
		}
		return false
	})
}

// Not negates a guard.
func Not(g Guard) Guard {
	return GuardFunc(func(c *Context) bool { return !g.Check(c) })
}

// guardMiddleware turns a Guard into a MiddlewareFunc: when the guard rejects, the request
// falls through to the App's not-found handling instead of running next.
//
// This is a route-local rejection, not a backtrack to a sibling route sharing the same method
// and pattern: middleware runs only after the router has already committed to a handler. For
// guards that should let the router try a different candidate registered at the same
// method+path on failure, attach them via Route.Guards instead (see DefaultRouter.RouteMatched);
// the router evaluates those during the match walk itself and keeps backtracking on a miss.
func guardMiddleware(g Guard) MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(c *Context) error {
			if !g.Check(c) {
				return ErrNotFound
			}
			return next(c)
		}
	}
}

// WithGuard returns route middleware enforcing g before the route's handler (and any
// middleware registered after it in the chain) runs.
func WithGuard(g Guard) MiddlewareFunc {
	return guardMiddleware(g)
}
