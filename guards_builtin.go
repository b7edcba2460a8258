package echo

// Len guards on the request's Content-Length header matching n exactly.
func Len(n int64) Guard {
	return GuardFunc(func(c *Context) bool {
		return c.Request().ContentLength == n
	})
}

// HeaderEquals guards on a request header having the given value.
func HeaderEquals(name, value string) Guard {
	return GuardFunc(func(c *Context) bool {
		return c.Request().Header.Get(name) == value
	})
}

// HeaderExists guards on a request header being present, with any value.
func HeaderExists(name string) Guard {
	return GuardFunc(func(c *Context) bool {
		_, ok := c.Request().Header[name]
		return ok
	})
}

// QueryEquals guards on a query parameter having the given value.
func QueryEquals(name, value string) Guard {
	return GuardFunc(func(c *Context) bool {
		return c.QueryParam(name) == value
	})
}

// IsTLS guards on the request having arrived over TLS.
func IsTLS() Guard {
	return GuardFunc(func(c *Context) bool { return c.IsTLS() })
}
