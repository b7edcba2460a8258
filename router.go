// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package echo

import (
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Router is interface for routing request contexts to registered routes.
//
// Contract between Echo/Context instance and the router:
//   - all routes must be added through methods on echo.Echo instance.
//     Reason: Echo instance uses RouteInfo.Params() length to allocate slice for paths parameters (see `Echo.contextPathParamAllocSize`).
//   - Router must populate Context during Router.Route call with:
//   - Context.InitializeRoute (IMPORTANT! to reduce allocations use same slice that c.PathValues() returns)
//   - Optionally can set additional information to Context with Context.Set
type Router interface {
	// Add registers Routable with the Router and returns registered RouteInfo.
	//
	// Router may change Route.Path value in returned RouteInfo.Path.
	// Router generates RouteInfo.Parameters values from Route.Path.
	// Router generates RouteInfo.Name value if it is not provided.
	Add(routable Route) (RouteInfo, error)

	// Remove removes route from the Router.
	//
	// Router may choose not to implement this method.
	Remove(method string, path string) error

	// Routes returns information about all registered routes
	Routes() Routes

	// Route searches Router for matching route and applies it to the given context. When no
	// route matches (including when a route exists at that path for a different method), the
	// router returns its not-found handler: it is the outer layer's call whether a
	// method-mismatch deserves a distinct 405 response.
	//
	// Router must populate Context during Router.Route call with:
	// - Context.InitializeRoute() (IMPORTANT! to reduce allocations use same slice that c.PathValues() returns)
	// - optionally can set additional information to Context with Context.Set()
	Route(c *Context) HandlerFunc

	// Mount registers sub as an opaque delegate router, tried against the request path
	// (independent of method) ahead of this router's own trie, before falling back to it. See
	// DefaultRouter.Mount.
	Mount(prefix string, guards []Guard, sub Router) error
}

const (
	// NotFoundRouteName is name of RouteInfo returned when router did not find matching route (404: not found).
	NotFoundRouteName = "echo_route_not_found_name"
	// MethodNotAllowedRouteName is a reserved RouteInfo name for a method-not-allowed miss. DefaultRouter
	// does not attach it: a path matched only under other methods gets the NotFoundRouteName RouteInfo.
	MethodNotAllowedRouteName = "echo_route_method_not_allowed_name"
)

// Routes is collection of RouteInfo instances with various helper methods.
type Routes []RouteInfo

// DefaultRouter matches requests against patterns compiled into a merged radix trie: one
// tree, shared by every HTTP method, whose leaves carry a per-method candidate list. Pattern
// text decomposes into alternating literal runs and captures (:name, *name); literal runs are
// inserted with a longest-common-prefix split so that siblings share edges, and matching walks
// the same tree recursively, backtracking to the next sibling (and, within a leaf, to the next
// guarded candidate) whenever a branch turns out not to lead anywhere.
//
// Note: DefaultRouter is not coroutine-safe. Do not Add/Remove routes after HTTP server has been started with Echo.
type DefaultRouter struct {
	tree   *trieNode
	mounts []mountPoint

	notFoundHandler HandlerFunc
	routes          Routes

	allowOverwritingRoute    bool
	unescapePathParamValues  bool
	useEscapedPathForRouting bool
}

// RouterConfig is configuration options for (default) router
type RouterConfig struct {
	NotFoundHandler           HandlerFunc
	AllowOverwritingRoute     bool
	UnescapePathParamValues   bool
	UseEscapedPathForMatching bool
}

// NewRouter returns a new Router instance.
func NewRouter(config RouterConfig) *DefaultRouter {
	r := &DefaultRouter{
		tree: &trieNode{},

		allowOverwritingRoute:    config.AllowOverwritingRoute,
		unescapePathParamValues:  config.UnescapePathParamValues,
		useEscapedPathForRouting: config.UseEscapedPathForMatching,

		notFoundHandler: notFoundHandler,
	}
	if config.NotFoundHandler != nil {
		r.notFoundHandler = config.NotFoundHandler
	}
	return r
}

// paramLabel and anyLabel introduce a capture within a pattern: `:name` binds the segment up
// to the next `/`, `*name` (or a bare `*`) binds everything remaining. A colon can be matched
// literally by escaping it as `\:`.
const (
	paramLabel = byte(':')
	anyLabel   = byte('*')
)

type segmentKind uint8

const (
	literalSegment segmentKind = iota
	paramSegment
	catchAllSegment
)

// patternSegment is one token of a pattern decomposed by splitPattern: a literal byte run, or a
// capture (param/catch-all) named by text.
type patternSegment struct {
	kind segmentKind
	text string
}

// splitPattern decomposes a compiled route path into alternating literal and capture segments,
// per the pattern grammar: `:name` captures up to the next `/`, a trailing `*name` (or bare
// `*`, which is given the conventional name "*") captures the remainder of the path. Returns
// the capture names in encounter order, for RouteInfo.Parameters.
func splitPattern(path string) (segs []patternSegment, paramNames []string, err error) {
	i, n := 0, len(path)
	for i < n {
		switch path[i] {
		case paramLabel:
			j := i + 1
			for j < n && path[j] != '/' {
				j++
			}
			name := path[i+1 : j]
			if name == "" {
				return nil, nil, fmt.Errorf("empty parameter name in pattern %q", path)
			}
			segs = append(segs, patternSegment{kind: paramSegment, text: name})
			paramNames = append(paramNames, name)
			i = j
		case anyLabel:
			if i != n-1 {
				return nil, nil, fmt.Errorf("catch-all must be the final segment in pattern %q", path)
			}
			name := path[i+1:]
			if name == "" {
				name = "*"
			}
			segs = append(segs, patternSegment{kind: catchAllSegment, text: name})
			paramNames = append(paramNames, name)
			i = n
		default:
			j := i
			var buf []byte
			for j < n {
				if path[j] == '\\' && j+1 < n && path[j+1] == paramLabel {
					if buf == nil {
						buf = []byte(path[i:j])
					}
					buf = append(buf, paramLabel)
					j += 2
					continue
				}
				if path[j] == paramLabel || path[j] == anyLabel {
					break
				}
				if buf != nil {
					buf = append(buf, path[j])
				}
				j++
			}
			text := path[i:j]
			if buf != nil {
				text = string(buf)
			}
			segs = append(segs, patternSegment{kind: literalSegment, text: text})
			i = j
		}
	}
	return segs, paramNames, nil
}

// leaf is one registered route living at a trie node: a method (or the RouteAny/RouteNotFound
// pseudo-methods), the compiled handler chain, and the guards gating it.
type leaf struct {
	guards  []Guard
	handler HandlerFunc
	info    *RouteInfo
}

// trieNode is one edge of the merged radix trie. prefix holds the literal bytes consumed to
// reach this node; literal/param/catchAll are its possible children, tried in that order
// during a match (tie-break: a literal beats a param, a param beats a catch-all). leaves holds,
// per method, the ordered list of candidates registered at this exact node.
type trieNode struct {
	prefix    string
	paramName string // set only on a param or catch-all node

	literal  []*trieNode
	param    *trieNode
	catchAll *trieNode

	leaves map[string][]*leaf
}

// insert threads segs into the trie rooted at n, attaching lf under method at the node the
// full segment chain resolves to.
func (n *trieNode) insert(segs []patternSegment, method string, lf *leaf) error {
	if len(segs) == 0 {
		n.addLeaf(method, lf)
		return nil
	}
	seg := segs[0]
	switch seg.kind {
	case literalSegment:
		return n.insertLiteral(seg.text, segs[1:], method, lf)
	case paramSegment:
		if n.param == nil {
			n.param = &trieNode{paramName: seg.text}
		} else if n.param.paramName != seg.text {
			return fmt.Errorf("conflicting parameter names %q and %q at the same position", n.param.paramName, seg.text)
		}
		return n.param.insert(segs[1:], method, lf)
	case catchAllSegment:
		if len(segs) != 1 {
			return errors.New("catch-all segment must be the last segment of a pattern")
		}
		if n.catchAll == nil {
			n.catchAll = &trieNode{paramName: seg.text}
		} else if n.catchAll.paramName != seg.text {
			return fmt.Errorf("conflicting catch-all names %q and %q at the same position", n.catchAll.paramName, seg.text)
		}
		n.catchAll.addLeaf(method, lf)
		return nil
	}
	return nil
}

// insertLiteral merges text into n's literal children, splitting an existing child on its
// longest common prefix with text where the two diverge, then continues with rest once text is
// fully absorbed. This is the longest-common-prefix procedure the radix trie depends on:
//  1. find the existing child (if any) sharing text's first byte;
//  2. if the shared prefix is shorter than that child's own prefix, split the child in two so
//     the shared part becomes a new intermediate node;
//  3. recurse with whatever of text (and of rest) remains past the part just consumed.
func (n *trieNode) insertLiteral(text string, rest []patternSegment, method string, lf *leaf) error {
	if text == "" {
		return n.insert(rest, method, lf)
	}
	for _, child := range n.literal {
		if child.prefix[0] != text[0] {
			continue
		}
		k := commonPrefixLen(child.prefix, text)
		if k == len(child.prefix) {
			return child.insertLiteral(text[k:], rest, method, lf)
		}

		tail := &trieNode{
			prefix:   child.prefix[k:],
			literal:  child.literal,
			param:    child.param,
			catchAll: child.catchAll,
			leaves:   child.leaves,
		}
		child.prefix = child.prefix[:k]
		child.literal = []*trieNode{tail}
		child.param = nil
		child.catchAll = nil
		child.leaves = nil

		if k == len(text) {
			return child.insert(rest, method, lf)
		}
		return child.insertLiteral(text[k:], rest, method, lf)
	}

	fresh := &trieNode{prefix: text}
	n.literal = append(n.literal, fresh)
	return fresh.insert(rest, method, lf)
}

func commonPrefixLen(a, b string) int {
	max := len(a)
	if len(b) < max {
		max = len(b)
	}
	i := 0
	for i < max && a[i] == b[i] {
		i++
	}
	return i
}

func (n *trieNode) addLeaf(method string, lf *leaf) {
	if n.leaves == nil {
		n.leaves = make(map[string][]*leaf)
	}
	n.leaves[method] = append(n.leaves[method], lf)
}

// candidateLeaf picks the first leaf registered at n, for method, whose guards all pass,
// falling back to RouteAny candidates and finally to a scope-local RouteNotFound candidate (the
// compiled form of a trailing `_ => handler`). A leaf whose guards reject is skipped in favor of
// the next candidate, never returned: guard failure is a local miss, not a final answer.
func (n *trieNode) candidateLeaf(method string, c *Context) (*leaf, bool) {
	for _, key := range [3]string{method, RouteAny, RouteNotFound} {
		for _, lf := range n.leaves[key] {
			if guardsPass(lf.guards, c) {
				return lf, true
			}
		}
	}
	return nil, false
}

func guardsPass(guards []Guard, c *Context) bool {
	for _, g := range guards {
		if !g.Check(c) {
			return false
		}
	}
	return true
}

// setAllowHeader records the methods registered at n (besides the ANY/not-found pseudo-methods)
// on c, so CORS preflight handling (or any other outer-layer code) can still render an Allow
// header even though the router itself only ever returns NoMatch on a method mismatch.
func (n *trieNode) setAllowHeader(c *Context) {
	if len(n.leaves) == 0 {
		return
	}
	methods := make([]string, 0, len(n.leaves))
	for m := range n.leaves {
		if m == RouteAny || m == RouteNotFound {
			continue
		}
		methods = append(methods, m)
	}
	if len(methods) == 0 {
		return
	}
	sort.Strings(methods)
	c.Set(ContextKeyHeaderAllow, strings.Join(methods, ", "))
}

// findLeaf walks cur against the subtree rooted at n, recursively: each level first consumes
// n.prefix, then (if the reader is now exhausted or sits at a single trailing slash) tries to
// accept a leaf at n, then falls through to literal children, then the param child, then the
// catch-all child, restoring cur (and truncating params back to its entry length) on any local
// miss so the caller can keep trying its own remaining candidates.
func (n *trieNode) findLeaf(cur *pathCursor, params *PathValues, method string, c *Context) (*leaf, bool) {
	mark := cur.save()
	if n.prefix != "" && !cur.readMatching(n.prefix) {
		cur.restore(mark)
		return nil, false
	}

	if cur.isDanglingSlash() {
		if rem := cur.remainder(); rem == "" || rem == "/" {
			if lf, ok := n.candidateLeaf(method, c); ok {
				return lf, true
			}
			n.setAllowHeader(c)
		}
	}

	for _, child := range n.literal {
		if lf, ok := child.findLeaf(cur, params, method, c); ok {
			return lf, true
		}
	}

	if n.param != nil {
		paramMark := cur.save()
		if value, ok := cur.readParam(); ok {
			plen := len(*params)
			*params = append(*params, PathValue{Name: n.param.paramName, Value: value})
			if lf, ok := n.param.findLeaf(cur, params, method, c); ok {
				return lf, true
			}
			*params = (*params)[:plen]
		}
		cur.restore(paramMark)
	}

	if n.catchAll != nil {
		plen := len(*params)
		*params = append(*params, PathValue{Name: n.catchAll.paramName, Value: cur.remainder()})
		cur.consumeRemainder()
		if lf, ok := n.catchAll.candidateLeaf(method, c); ok {
			return lf, true
		}
		*params = (*params)[:plen]
	}

	cur.restore(mark)
	return nil, false
}

// locate walks the trie along segs without creating anything, for Remove: a pattern that was
// actually inserted always resolves to exactly one node this way, even if shared literal runs
// were subsequently split by sibling insertions.
func (n *trieNode) locate(segs []patternSegment) *trieNode {
	if len(segs) == 0 {
		return n
	}
	seg := segs[0]
	switch seg.kind {
	case literalSegment:
		return n.locateLiteral(seg.text, segs[1:])
	case paramSegment:
		if n.param == nil || n.param.paramName != seg.text {
			return nil
		}
		return n.param.locate(segs[1:])
	case catchAllSegment:
		if n.catchAll == nil || n.catchAll.paramName != seg.text {
			return nil
		}
		return n.catchAll
	}
	return nil
}

func (n *trieNode) locateLiteral(text string, rest []patternSegment) *trieNode {
	if text == "" {
		return n.locate(rest)
	}
	for _, child := range n.literal {
		if child.prefix[0] != text[0] {
			continue
		}
		k := commonPrefixLen(child.prefix, text)
		if k != len(child.prefix) {
			return nil
		}
		return child.locateLiteral(text[k:], rest)
	}
	return nil
}

// pathCursor reads a request path left to right without percent-decoding, tracking a single
// cursor position that match-walk recursion saves and restores around each candidate it tries.
type pathCursor struct {
	path   string
	cursor int
}

func newPathCursor(path string) *pathCursor {
	return &pathCursor{path: path}
}

// readMatching consumes lit if it occurs at the cursor, reporting whether it matched.
func (p *pathCursor) readMatching(lit string) bool {
	if len(lit) == 0 {
		return true
	}
	end := p.cursor + len(lit)
	if end > len(p.path) || p.path[p.cursor:end] != lit {
		return false
	}
	p.cursor = end
	return true
}

// readParam consumes up to (but not including) the next '/' or the end of the path, reporting
// false if that would capture zero bytes.
func (p *pathCursor) readParam() (string, bool) {
	start := p.cursor
	for p.cursor < len(p.path) && p.path[p.cursor] != '/' {
		p.cursor++
	}
	if p.cursor == start {
		return "", false
	}
	return p.path[start:p.cursor], true
}

// isDanglingSlash reports whether the cursor sits at the end of the path or immediately before
// a '/'. Combined with requiring the remainder be empty or exactly "/", this is what lets a
// pattern registered without a trailing slash also match a request with one spurious trailing
// slash and nothing past it.
func (p *pathCursor) isDanglingSlash() bool {
	return p.cursor >= len(p.path) || p.path[p.cursor] == '/'
}

func (p *pathCursor) remainder() string {
	return p.path[p.cursor:]
}

func (p *pathCursor) consumeRemainder() {
	p.cursor = len(p.path)
}

func (p *pathCursor) save() int { return p.cursor }

func (p *pathCursor) restore(mark int) { p.cursor = mark }

// mountPoint is a sub-router registered via Mount: an opaque delegate tried against the
// request path ahead of the owning router's own trie, regardless of HTTP method.
type mountPoint struct {
	prefix string
	guards []Guard
	router Router
}

// matchAwareRouter lets Mount tell a delegate's genuine miss apart from a real match. Without
// it, a mounted router is assumed to always match once its prefix and guards pass, so a miss
// inside it cannot backtrack into this router's remaining mounts or its own trie.
type matchAwareRouter interface {
	RouteMatched(c *Context) (HandlerFunc, bool)
}

// Mount registers sub as a sub-router: a separately compiled Router, invoked by reference, for
// every request whose path starts with prefix, independent of method. Mounts are tried, in
// registration order, before this router's own per-method trie; a mount whose guards fail, or
// whose delegate reports no match, is skipped and the next candidate (another mount, then the
// main trie) is tried instead. A matched delegate's path params are appended after this
// router's own (so an outer :id and a mounted route's own :id don't collide by name collapsing
// to one slot; callers look the outer one up first via PathValues.Get's first-match semantics).
func (r *DefaultRouter) Mount(prefix string, guards []Guard, sub Router) error {
	prefix = normalizePathSlash(prefix)
	if prefix == "/" {
		return errors.New("echo: sub-router cannot be mounted at the root path")
	}
	r.mounts = append(r.mounts, mountPoint{prefix: prefix, guards: guards, router: sub})
	return nil
}

func (r *DefaultRouter) routeMounts(c *Context) (HandlerFunc, bool) {
	if len(r.mounts) == 0 {
		return nil, false
	}
	origReq := c.Request()
	path := origReq.URL.Path

	for _, mp := range r.mounts {
		tail, ok := stripMountPrefix(path, mp.prefix)
		if !ok || !guardsPass(mp.guards, c) {
			continue
		}

		outer := append(PathValues(nil), c.PathValues()...)

		tailURL := *origReq.URL
		tailURL.Path = tail
		if origReq.URL.RawPath != "" {
			if rawTail, ok := stripMountPrefix(origReq.URL.RawPath, mp.prefix); ok {
				tailURL.RawPath = rawTail
			}
		}
		tailReq := origReq.Clone(origReq.Context())
		tailReq.URL = &tailURL
		c.SetRequest(tailReq)

		var h HandlerFunc
		var matched bool
		if ma, ok := mp.router.(matchAwareRouter); ok {
			h, matched = ma.RouteMatched(c)
		} else {
			h, matched = mp.router.Route(c), true
		}

		c.SetRequest(origReq)

		if matched {
			merged := append(outer, c.PathValues()...)
			c.SetPathValues(merged)
			return h, true
		}
	}
	return nil, false
}

func stripMountPrefix(path, prefix string) (string, bool) {
	if path == prefix {
		return "/", true
	}
	if strings.HasPrefix(path, prefix) && len(path) > len(prefix) && path[len(prefix)] == '/' {
		return path[len(prefix):], true
	}
	return "", false
}

// Routes returns information about all registered routes
func (r *DefaultRouter) Routes() Routes {
	return r.routes
}

// Remove removes the route registered under method and path, if any.
//
// Note: this does not compact the trie afterward; a now-empty node left behind by a removal is
// harmless (it simply never matches a leaf) but is not pruned.
func (r *DefaultRouter) Remove(method string, path string) error {
	path = normalizePathSlash(path)
	segs, _, err := splitPattern(path)
	if err != nil {
		return err
	}
	node := r.tree.locate(segs)
	if node == nil {
		return errors.New("could not find route to remove by given path")
	}
	candidates, ok := node.leaves[method]
	if !ok {
		return errors.New("could not find route to remove by given path and method")
	}
	for i, lf := range candidates {
		if lf.info.Path != path {
			continue
		}
		node.leaves[method] = append(candidates[:i:i], candidates[i+1:]...)
		if len(node.leaves[method]) == 0 {
			delete(node.leaves, method)
		}
		for j, rr := range r.routes {
			if rr.Method == method && rr.Path == path {
				r.routes = append(r.routes[:j], r.routes[j+1:]...)
				break
			}
		}
		return nil
	}
	return errors.New("could not find route to remove by given path and method")
}

// AddRouteError wraps an error encountered while compiling a Route, identifying which one.
type AddRouteError struct {
	Err    error
	Method string
	Path   string
}

func (e *AddRouteError) Error() string { return e.Method + " " + e.Path + ": " + e.Err.Error() }

func (e *AddRouteError) Unwrap() error { return e.Err }

func newAddRouteError(route Route, err error) *AddRouteError {
	return &AddRouteError{
		Method: route.Method,
		Path:   route.Path,
		Err:    err,
	}
}

// Add registers a new route for method and path with matching handler.
func (r *DefaultRouter) Add(route Route) (RouteInfo, error) {
	if route.Handler == nil {
		return RouteInfo{}, newAddRouteError(route, errors.New("adding route without handler function"))
	}
	path := normalizePathSlash(route.Path)

	if !r.allowOverwritingRoute {
		for _, rr := range r.routes {
			if route.Method == rr.Method && path == rr.Path {
				return RouteInfo{}, newAddRouteError(route, errors.New("adding duplicate route (same method+path) is not allowed"))
			}
		}
	}

	segs, paramNames, err := splitPattern(path)
	if err != nil {
		return RouteInfo{}, newAddRouteError(route, err)
	}

	ri := route.ToRouteInfo(paramNames)
	ri.Path = path

	lf := &leaf{
		guards:  route.Guards,
		handler: applyMiddleware(route.Handler, route.Middlewares...),
		info:    &ri,
	}

	if err := r.tree.insert(segs, route.Method, lf); err != nil {
		return RouteInfo{}, newAddRouteError(route, err)
	}

	r.storeRouteInfo(ri)
	return ri, nil
}

// applyMiddleware wraps h with the given middlewares, running them in the order given
// (mw[0] outermost), so that route-local middleware registered via Route.Middlewares runs
// closest to the handler, inside (after) anything App.Use added at the top level.
func applyMiddleware(h HandlerFunc, mw ...MiddlewareFunc) HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

func normalizePathSlash(path string) string {
	if path == "" {
		path = "/"
	} else if path[0] != '/' {
		path = "/" + path
	}
	return path
}

func (r *DefaultRouter) storeRouteInfo(ri RouteInfo) {
	for i, rr := range r.routes {
		if ri.Method == rr.Method && ri.Path == rr.Path {
			r.routes[i] = ri
			return
		}
	}
	r.routes = append(r.routes, ri)
}

// Route implements the Router interface: it tries mounted sub-routers first (see Mount), then
// this router's own trie, falling back to the not-found handler when nothing matches.
func (r *DefaultRouter) Route(c *Context) HandlerFunc {
	if h, ok := r.routeMounts(c); ok {
		return h
	}
	if h, ok := r.RouteMatched(c); ok {
		return h
	}
	params := PathValues(nil)
	c.InitializeRoute(notFoundRouteInfo, &params)
	return r.notFoundHandler
}

// RouteMatched is Route's own trie walk, reported with an explicit matched flag rather than
// collapsed into the not-found handler, so Mount can tell a delegate's genuine miss apart from
// a real (if unglamorous) match.
func (r *DefaultRouter) RouteMatched(c *Context) (HandlerFunc, bool) {
	req := c.Request()
	path := req.URL.Path
	if !r.useEscapedPathForRouting && req.URL.RawPath != "" {
		path = req.URL.RawPath
	}

	cur := newPathCursor(path)
	params := PathValues(nil)

	lf, ok := r.tree.findLeaf(cur, &params, req.Method, c)
	if !ok {
		return nil, false
	}

	if r.unescapePathParamValues {
		for i, p := range params {
			if v, err := url.PathUnescape(p.Value); err == nil {
				params[i].Value = v
			}
		}
	}

	c.InitializeRoute(lf.info, &params)
	return lf.handler, true
}

// notFoundRouteInfo is the RouteInfo attached to the Context when no route matched at all.
var notFoundRouteInfo = &RouteInfo{
	Name:   NotFoundRouteName,
	Method: "",
	Path:   "",
}

func notFoundHandler(c *Context) error {
	return ErrNotFound
}

// PathValues stores path parameter values for the current request, in the order the route's
// captures appear in its pattern.
type PathValues []PathValue

// PathValue is a request path parameter name and its captured value.
type PathValue struct {
	Name  string
	Value string
}

// Get returns the value of the first PathValue in p named name.
func (p PathValues) Get(name string) (string, bool) {
	for _, v := range p {
		if v.Name == name {
			return v.Value, true
		}
	}
	return "", false
}

// GetOr is Get with a fallback for the not-found case.
func (p PathValues) GetOr(name string, defaultValue string) string {
	if v, ok := p.Get(name); ok {
		return v
	}
	return defaultValue
}
