// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package echo

// Group is a set of routes sharing a common path prefix and middleware stack,
// registered against the same App.
type Group struct {
	app        *App
	prefix     string
	middleware []MiddlewareFunc
}

// Use appends middleware that runs for every route registered through this Group
// (and its sub-groups), ahead of the route's own middleware.
func (g *Group) Use(middleware ...MiddlewareFunc) {
	g.middleware = append(g.middleware, middleware...)
}

// Group creates a sub-group nested under this one, concatenating path prefixes and
// middleware stacks.
func (g *Group) Group(prefix string, m ...MiddlewareFunc) *Group {
	mw := make([]MiddlewareFunc, 0, len(g.middleware)+len(m))
	mw = append(mw, g.middleware...)
	mw = append(mw, m...)
	return &Group{app: g.app, prefix: g.prefix + prefix, middleware: mw}
}

func (g *Group) add(method, path string, h HandlerFunc, m ...MiddlewareFunc) (RouteInfo, error) {
	route := Route{Method: method, Path: path, Handler: h, Middlewares: m}.WithPrefix(g.prefix, g.middleware)
	return g.app.Add(route)
}

// CONNECT registers a new CONNECT route relative to the group's prefix.
func (g *Group) CONNECT(path string, h HandlerFunc, m ...MiddlewareFunc) (RouteInfo, error) {
	return g.add(CONNECT, path, h, m...)
}

// DELETE registers a new DELETE route relative to the group's prefix.
func (g *Group) DELETE(path string, h HandlerFunc, m ...MiddlewareFunc) (RouteInfo, error) {
	return g.add(DELETE, path, h, m...)
}

// GET registers a new GET route relative to the group's prefix.
func (g *Group) GET(path string, h HandlerFunc, m ...MiddlewareFunc) (RouteInfo, error) {
	return g.add(GET, path, h, m...)
}

// HEAD registers a new HEAD route relative to the group's prefix.
func (g *Group) HEAD(path string, h HandlerFunc, m ...MiddlewareFunc) (RouteInfo, error) {
	return g.add(HEAD, path, h, m...)
}

// OPTIONS registers a new OPTIONS route relative to the group's prefix.
func (g *Group) OPTIONS(path string, h HandlerFunc, m ...MiddlewareFunc) (RouteInfo, error) {
	return g.add(OPTIONS, path, h, m...)
}

// PATCH registers a new PATCH route relative to the group's prefix.
func (g *Group) PATCH(path string, h HandlerFunc, m ...MiddlewareFunc) (RouteInfo, error) {
	return g.add(PATCH, path, h, m...)
}

// POST registers a new POST route relative to the group's prefix.
func (g *Group) POST(path string, h HandlerFunc, m ...MiddlewareFunc) (RouteInfo, error) {
	return g.add(POST, path, h, m...)
}

// PUT registers a new PUT route relative to the group's prefix.
func (g *Group) PUT(path string, h HandlerFunc, m ...MiddlewareFunc) (RouteInfo, error) {
	return g.add(PUT, path, h, m...)
}

// TRACE registers a new TRACE route relative to the group's prefix.
func (g *Group) TRACE(path string, h HandlerFunc, m ...MiddlewareFunc) (RouteInfo, error) {
	return g.add(TRACE, path, h, m...)
}

// Static registers a route that serves static files from root under the group's prefix.
func (g *Group) Static(prefix, root string) (RouteInfo, error) {
	return g.GET(prefix+"/*", Static(root))
}

// Any registers a route matching all HTTP methods relative to the group's prefix.
func (g *Group) Any(path string, h HandlerFunc, m ...MiddlewareFunc) (RouteInfo, error) {
	return g.add(RouteAny, path, h, m...)
}

// RouteNotFound registers a catch-all handler relative to the group's prefix, invoked when
// no other route under that prefix matched.
func (g *Group) RouteNotFound(path string, h HandlerFunc, m ...MiddlewareFunc) (RouteInfo, error) {
	return g.add(RouteNotFound, path, h, m...)
}

// Mount registers sub as an opaque sub-router delegate under the group's prefix: every request
// whose path falls under prefix, regardless of method, is offered to sub (with the matched
// prefix stripped) before this group's own routes are tried. Unlike Group, which concatenates
// prefixes and middleware into the same shared trie, Mount keeps sub as an independently
// compiled Router invoked by reference; see DefaultRouter.Mount.
func (g *Group) Mount(prefix string, sub Router, guards ...Guard) error {
	return g.app.router.Mount(g.prefix+normalizePathSlash(prefix), guards, sub)
}
