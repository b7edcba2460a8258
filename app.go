// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package echo

import (
	stdContext "context"
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
)

// Version is the framework version string reported in the startup banner.
const Version = "1.0"

// HandlerFunc defines a function to handle HTTP requests.
type HandlerFunc func(c *Context) error

// MiddlewareFunc defines a function to process middleware. Wraps the next HandlerFunc
// to run before/after it, or to short-circuit by not calling next at all.
type MiddlewareFunc func(next HandlerFunc) HandlerFunc

// Validator is the interface that wraps the Validate method.
type Validator interface {
	Validate(i any) error
}

// HTTP methods
const (
	CONNECT = http.MethodConnect
	DELETE  = http.MethodDelete
	GET     = http.MethodGet
	HEAD    = http.MethodHead
	OPTIONS = http.MethodOptions
	PATCH   = http.MethodPatch
	POST    = http.MethodPost
	PUT     = http.MethodPut
	TRACE   = http.MethodTrace

	// PROPFIND and REPORT are WebDAV methods the router recognizes alongside the
	// standard HTTP verbs above.
	PROPFIND = "PROPFIND"
	REPORT   = "REPORT"

	// RouteAny is a pseudo-method that registers a handler for every HTTP method at
	// a given path, used by App.Any and Group.Any.
	RouteAny = "ANY"
	// RouteNotFound is a pseudo-method used to register a scope-local catch-all: a
	// handler invoked when no route under that scope otherwise matched.
	RouteNotFound = "echo_route_not_found"
)

// MIME types
const (
	MIMEApplicationJSON            = "application/json"
	MIMEApplicationJSONCharsetUTF8 = MIMEApplicationJSON + "; " + charsetUTF8
	MIMEApplicationXML             = "application/xml"
	MIMEApplicationXMLCharsetUTF8  = MIMEApplicationXML + "; " + charsetUTF8
	MIMETextXML                    = "text/xml"
	MIMETextXMLCharsetUTF8         = MIMETextXML + "; " + charsetUTF8
	MIMEApplicationForm            = "application/x-www-form-urlencoded"
	MIMEApplicationProtobuf        = "application/protobuf"
	MIMEMultipartForm              = "multipart/form-data"
	MIMEOctetStream                = "application/octet-stream"
	MIMETextPlain                  = "text/plain"
	MIMETextPlainCharsetUTF8       = MIMETextPlain + "; " + charsetUTF8
	MIMETextHTML                   = "text/html"
	MIMETextHTMLCharsetUTF8        = MIMETextHTML + "; " + charsetUTF8

	MIMEApplicationJavaScript            = "application/javascript"
	MIMEApplicationJavaScriptCharsetUTF8 = MIMEApplicationJavaScript + "; " + charsetUTF8

	charsetUTF8 = "charset=UTF-8"
)

// Header names
const (
	HeaderAccept              = "Accept"
	HeaderAcceptEncoding      = "Accept-Encoding"
	HeaderAllow               = "Allow"
	HeaderAuthorization       = "Authorization"
	HeaderConnection          = "Connection"
	HeaderContentDisposition  = "Content-Disposition"
	HeaderContentEncoding     = "Content-Encoding"
	HeaderContentLength       = "Content-Length"
	HeaderContentType         = "Content-Type"
	HeaderCookie              = "Cookie"
	HeaderLocation            = "Location"
	HeaderOrigin              = "Origin"
	HeaderServer              = "Server"
	HeaderSetCookie           = "Set-Cookie"
	HeaderTimeout             = "Timeout"
	HeaderUpgrade             = "Upgrade"
	HeaderUserAgent           = "User-Agent"
	HeaderVary                = "Vary"
	HeaderWWWAuthenticate     = "WWW-Authenticate"
	HeaderXCSRFToken          = "X-CSRF-Token"
	HeaderXForwardedFor       = "X-Forwarded-For"
	HeaderXForwardedProto     = "X-Forwarded-Proto"
	HeaderXForwardedProtocol  = "X-Forwarded-Protocol"
	HeaderXForwardedSsl       = "X-Forwarded-Ssl"
	HeaderXFrameOptions       = "X-Frame-Options"
	HeaderXRealIP             = "X-Real-IP"
	HeaderXRequestID          = "X-Request-ID"
	HeaderXUrlScheme          = "X-Url-Scheme"

	HeaderAccessControlRequestMethod    = "Access-Control-Request-Method"
	HeaderAccessControlRequestHeaders   = "Access-Control-Request-Headers"
	HeaderAccessControlAllowOrigin      = "Access-Control-Allow-Origin"
	HeaderAccessControlAllowMethods     = "Access-Control-Allow-Methods"
	HeaderAccessControlAllowHeaders     = "Access-Control-Allow-Headers"
	HeaderAccessControlAllowCredentials = "Access-Control-Allow-Credentials"
	HeaderAccessControlExposeHeaders    = "Access-Control-Expose-Headers"
	HeaderAccessControlMaxAge           = "Access-Control-Max-Age"

	HeaderStrictTransportSecurity = "Strict-Transport-Security"
	HeaderXContentTypeOptions     = "X-Content-Type-Options"
	HeaderXXSSProtection          = "X-XSS-Protection"
	HeaderContentSecurityPolicy   = "Content-Security-Policy"
	HeaderReferrerPolicy          = "Referrer-Policy"
)

// App is the top-level entry point of the framework: it owns the per-method route
// tries, the global middleware chain and the collaborators (Binder, Validator,
// Renderer, JSONSerializer, IPExtractor) that Context delegates to.
type App struct {
	// Logger is used for App and Context logging. Defaults to slog.Default().
	Logger *slog.Logger

	// Binder binds path/query/form/body values onto a destination struct for Context.Bind.
	Binder Binder
	// Validator validates a struct bound via Context.Bind. Nil by default: Context.Validate
	// then returns ErrValidatorNotRegistered.
	Validator Validator
	// Renderer renders named templates for Context.Render. Nil by default.
	Renderer Renderer
	// JSONSerializer (de)serializes JSON request/response bodies.
	JSONSerializer interface {
		Serialize(c *Context, i any, indent string) error
		Deserialize(c *Context, i any) error
	}
	// IPExtractor extracts the client IP from a request for Context.RealIP.
	IPExtractor IPExtractor
	// Filesystem is used by Context.File for relative file lookups.
	Filesystem fs.FS
	// XMLEncoder produces the body for Context.XML/XMLPretty. Swap it out to plug in a
	// different XML codec without touching Context.
	XMLEncoder Encoder

	contextPathParamAllocSize atomic.Int32
	formParseMaxMemory        int64

	router      Router
	middleware  []MiddlewareFunc
	contextPool sync.Pool
}

// New creates an instance of App with sane defaults wired in.
func New() *App {
	e := &App{
		Logger:         slog.Default(),
		Binder:         &DefaultBinder{},
		JSONSerializer: DefaultJSONSerializer{},
		Filesystem:     os.DirFS("."),
		XMLEncoder:     &xmlEncoder{},
	}
	e.formParseMaxMemory = defaultMemory
	e.router = NewRouter(RouterConfig{})
	e.contextPool.New = func() any {
		return NewContext(nil, nil, e)
	}
	return e
}

// Router returns the App's underlying Router.
func (e *App) Router() Router {
	return e.router
}

// SetRouter replaces the App's Router. Typically only used to wrap it, e.g. with
// NewConcurrentRouter to allow safe route mutation after Start has been called.
func (e *App) SetRouter(r Router) {
	e.router = r
}

// Use appends one or more middlewares that run, in order, before every matched route's
// own handler (and its route-scoped middlewares).
func (e *App) Use(middleware ...MiddlewareFunc) {
	e.middleware = append(e.middleware, middleware...)
}

// Add registers a new route. Method and Path uniquely identify it.
func (e *App) Add(route Route) (RouteInfo, error) {
	ri, err := e.router.Add(route)
	if err == nil {
		if n := int32(len(ri.Parameters)); n > e.contextPathParamAllocSize.Load() {
			e.contextPathParamAllocSize.Store(n)
		}
	}
	return ri, err
}

// CONNECT registers a new CONNECT route.
func (e *App) CONNECT(path string, h HandlerFunc, m ...MiddlewareFunc) (RouteInfo, error) {
	return e.Add(Route{Method: CONNECT, Path: path, Handler: h, Middlewares: m})
}

// DELETE registers a new DELETE route.
func (e *App) DELETE(path string, h HandlerFunc, m ...MiddlewareFunc) (RouteInfo, error) {
	return e.Add(Route{Method: DELETE, Path: path, Handler: h, Middlewares: m})
}

// GET registers a new GET route.
func (e *App) GET(path string, h HandlerFunc, m ...MiddlewareFunc) (RouteInfo, error) {
	return e.Add(Route{Method: GET, Path: path, Handler: h, Middlewares: m})
}

// HEAD registers a new HEAD route.
func (e *App) HEAD(path string, h HandlerFunc, m ...MiddlewareFunc) (RouteInfo, error) {
	return e.Add(Route{Method: HEAD, Path: path, Handler: h, Middlewares: m})
}

// OPTIONS registers a new OPTIONS route.
func (e *App) OPTIONS(path string, h HandlerFunc, m ...MiddlewareFunc) (RouteInfo, error) {
	return e.Add(Route{Method: OPTIONS, Path: path, Handler: h, Middlewares: m})
}

// PATCH registers a new PATCH route.
func (e *App) PATCH(path string, h HandlerFunc, m ...MiddlewareFunc) (RouteInfo, error) {
	return e.Add(Route{Method: PATCH, Path: path, Handler: h, Middlewares: m})
}

// POST registers a new POST route.
func (e *App) POST(path string, h HandlerFunc, m ...MiddlewareFunc) (RouteInfo, error) {
	return e.Add(Route{Method: POST, Path: path, Handler: h, Middlewares: m})
}

// PUT registers a new PUT route.
func (e *App) PUT(path string, h HandlerFunc, m ...MiddlewareFunc) (RouteInfo, error) {
	return e.Add(Route{Method: PUT, Path: path, Handler: h, Middlewares: m})
}

// TRACE registers a new TRACE route.
func (e *App) TRACE(path string, h HandlerFunc, m ...MiddlewareFunc) (RouteInfo, error) {
	return e.Add(Route{Method: TRACE, Path: path, Handler: h, Middlewares: m})
}

// Static registers a route that serves static files from root under the given url prefix.
func (e *App) Static(prefix, root string) (RouteInfo, error) {
	return e.GET(prefix+"/*", Static(root))
}

// Any registers a route matching all HTTP methods.
func (e *App) Any(path string, h HandlerFunc, m ...MiddlewareFunc) (RouteInfo, error) {
	return e.Add(Route{Method: RouteAny, Path: path, Handler: h, Middlewares: m})
}

// RouteNotFound registers a scope-local catch-all handler, invoked when no other route
// under this path matched. This is the entry point's equivalent of a pattern's trailing
// `_ => handler` fallback.
func (e *App) RouteNotFound(path string, h HandlerFunc, m ...MiddlewareFunc) (RouteInfo, error) {
	return e.Add(Route{Method: RouteNotFound, Path: path, Handler: h, Middlewares: m})
}

// Group creates a new sub-router rooted at prefix, sharing this App for registration.
func (e *App) Group(prefix string, m ...MiddlewareFunc) *Group {
	return &Group{app: e, prefix: prefix, middleware: m}
}

// Mount registers sub as an opaque sub-router delegate: every request whose path falls under
// prefix, independent of method, is offered to sub (with the matched prefix stripped, and its
// own path params appended after any already captured) before this App's own routes are tried.
// Use Router() on a separately built App to obtain a Router value to mount.
func (e *App) Mount(prefix string, sub Router, guards ...Guard) error {
	return e.router.Mount(prefix, guards, sub)
}

// Routes returns a list of all currently registered routes.
func (e *App) Routes() Routes {
	return e.router.Routes()
}

// NewContext returns a new Context instance associated with this App. Useful in tests.
func (e *App) NewContext(r *http.Request, w http.ResponseWriter) *Context {
	return NewContext(r, w, e)
}

func (e *App) acquireContext() *Context {
	return e.contextPool.Get().(*Context)
}

func (e *App) releaseContext(c *Context) {
	e.contextPool.Put(c)
}

// ServeHTTP implements http.Handler, routing the request through the matched route's
// middleware chain (preceded by App-level middleware) and handling into the response.
func (e *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c := e.acquireContext()
	c.Reset(r, w)
	defer e.releaseContext(c)

	h := e.router.Route(c)
	for i := len(e.middleware) - 1; i >= 0; i-- {
		h = e.middleware[i](h)
	}

	if err := h(c); err != nil {
		e.handleError(c, err)
	}
}

// handleError writes a best-effort error response for an error returned by a handler or
// middleware that otherwise escaped the chain. Handlers that care about exact error
// rendering should write their own response before returning the error.
func (e *App) handleError(c *Context, err error) {
	if resp, unwrapErr := UnwrapResponse(c.Response()); unwrapErr == nil && resp.Committed {
		return
	}
	code := http.StatusInternalServerError
	message := http.StatusText(code)
	var he *HTTPError
	if errors.As(err, &he) {
		code = he.Code
		message = he.Message
	} else if sc := StatusCode(err); sc != 0 {
		code = sc
		message = http.StatusText(code)
	} else {
		e.Logger.Error("unhandled error", "error", err, "path", c.Path())
	}
	if jsonErr := c.JSON(code, map[string]string{"message": message}); jsonErr != nil {
		e.Logger.Error("failed to write error response", "error", jsonErr)
	}
}

// Start starts an HTTP server on address with this App as the handler.
func (e *App) Start(address string) error {
	return StartConfig{Address: address}.Start(stdContext.Background(), e)
}

// StartTLS starts an HTTPS server on address with this App as the handler.
func (e *App) StartTLS(address string, certFile, keyFile any) error {
	return StartConfig{Address: address}.StartTLS(stdContext.Background(), e, certFile, keyFile)
}
