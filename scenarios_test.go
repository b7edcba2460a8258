package echo

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// These tests exercise the concrete match scenarios worked through end to end: route
// registration via the App/Group DSL, dispatch through ServeHTTP, and the resulting
// status code, body and captured params.

func TestScenario_RootOnly(t *testing.T) {
	e := New()
	e.GET("/", func(c *Context) error { return c.String(http.StatusOK, "H") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "H", rec.Body.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScenario_EchoBody(t *testing.T) {
	e := New()
	e.POST("/echo", func(c *Context) error {
		body, err := io.ReadAll(c.Request().Body)
		if err != nil {
			return err
		}
		return c.String(http.StatusOK, string(body))
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader("Hello, world!")))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Hello, world!", rec.Body.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/echo", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScenario_NestedScopeMiss(t *testing.T) {
	e := New()
	a := e.Group("/a")
	b := a.Group("/b")
	b.GET("/c", func(c *Context) error { return c.String(http.StatusOK, "H") })

	cases := []struct {
		method, path string
		wantCode     int
	}{
		{http.MethodGet, "/a/b/c", http.StatusOK},
		{http.MethodGet, "/a/b", http.StatusNotFound},
		{http.MethodGet, "/a/b/c/d", http.StatusNotFound},
		{http.MethodPost, "/a/b/c", http.StatusNotFound},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equalf(t, tc.wantCode, rec.Code, "%s %s", tc.method, tc.path)
	}
}

func TestScenario_StaticParamPriority(t *testing.T) {
	e := New()
	e.GET("/a", func(c *Context) error { return c.String(http.StatusOK, "H1") })
	e.GET("/b", func(c *Context) error { return c.String(http.StatusOK, "H2") })
	e.GET("/c", func(c *Context) error { return c.String(http.StatusOK, "H3") })
	e.GET("/:x", func(c *Context) error { return c.String(http.StatusOK, "H4:"+c.Param("x")) })
	e.POST("/:x", func(c *Context) error { return c.String(http.StatusOK, "H5:"+c.Param("x")) })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/a", nil))
	assert.Equal(t, "H1", rec.Body.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/hello", nil))
	assert.Equal(t, "H4:hello", rec.Body.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/hello", nil))
	assert.Equal(t, "H5:hello", rec.Body.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/a/b", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScenario_ContentLengthGuard(t *testing.T) {
	e := New()
	e.POST("/foo", func(c *Context) error { return c.String(http.StatusOK, "H") },
		WithGuard(Or(Len(5), Len(10))))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/foo", strings.NewReader("12345")))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "H", rec.Body.String())

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/foo", strings.NewReader("1234567")))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestScenario_MountSubRouter(t *testing.T) {
	sub := NewRouter(RouterConfig{})
	_, err := sub.Add(Route{
		Method: GET,
		Path:   "/widgets/:id",
		Handler: func(c *Context) error {
			return c.String(http.StatusOK, "Widget:"+c.Param("id"))
		},
	})
	assert.NoError(t, err)

	e := New()
	e.GET("/other", func(c *Context) error { return c.String(http.StatusOK, "Other") })
	assert.NoError(t, e.Mount("/api", sub))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/widgets/42", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Widget:42", rec.Body.String())

	// the mount only offers the methods the delegate itself registered; a mismatch
	// here is a miss the outer router falls through from, not a 405.
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/widgets/42", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// paths outside the mounted prefix are untouched by it.
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/other", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Other", rec.Body.String())
}

func TestScenario_ScopedCatchAlls(t *testing.T) {
	e := New()
	e.GET("/", func(c *Context) error { return c.String(http.StatusOK, "Idx") })

	foo := e.Group("/foo")
	foo.GET("/bar", func(c *Context) error { return c.String(http.StatusOK, "Bar") })
	foo.RouteNotFound("/*", func(c *Context) error { return c.String(http.StatusOK, "FooNF") })

	e.RouteNotFound("/*", func(c *Context) error { return c.String(http.StatusOK, "AllNF") })

	cases := []struct {
		method, path, want string
	}{
		{http.MethodGet, "/", "Idx"},
		{http.MethodGet, "/foo/bar", "Bar"},
		{http.MethodGet, "/foo/xyz", "FooNF"},
		{http.MethodGet, "/zzz", "AllNF"},
	}
	for _, tc := range cases {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equalf(t, tc.want, rec.Body.String(), "%s %s", tc.method, tc.path)
	}
}
