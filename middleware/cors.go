// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	echo "github.com/lunatic-solutions/compass"
)

// CORSConfig defines the config for CORS middleware.
//
// Security: use extreme caution when handling the origin, and carefully validate any logic.
// Remember that attackers may register hostile (sub)domain names.
// See https://blog.portswigger.net/2016/10/exploiting-cors-misconfigurations-for.html
type CORSConfig struct {
	// Skipper defines a function to skip middleware.
	Skipper Skipper

	// AllowOrigins determines the value of the Access-Control-Allow-Origin response header.
	// Wildcard can be used, but has to be set explicitly as []string{"*"}. Mandatory unless
	// UnsafeAllowOriginFunc is set.
	AllowOrigins []string

	// UnsafeAllowOriginFunc is an optional custom function to validate the origin. If set,
	// AllowOrigins is ignored.
	UnsafeAllowOriginFunc func(c *echo.Context, origin string) (allowedOrigin string, allowed bool, err error)

	// AllowMethods determines the value of the Access-Control-Allow-Methods response header.
	// Defaults to GET, HEAD, PUT, PATCH, POST, DELETE.
	AllowMethods []string

	// AllowHeaders determines the value of the Access-Control-Allow-Headers response header.
	AllowHeaders []string

	// AllowCredentials determines the value of the Access-Control-Allow-Credentials response
	// header. Setting this alongside AllowOrigins=["*"] is rejected as insecure.
	AllowCredentials bool

	// ExposeHeaders determines the value of the Access-Control-Expose-Headers response header.
	ExposeHeaders []string

	// MaxAge determines the value of the Access-Control-Max-Age response header, in seconds.
	MaxAge int
}

// CORS returns a CORS middleware allowing the given origins, with default methods/headers.
func CORS(allowOrigins ...string) echo.MiddlewareFunc {
	return CORSWithConfig(CORSConfig{AllowOrigins: allowOrigins})
}

// CORSWithConfig returns a CORS middleware with config, or panics on invalid configuration.
func CORSWithConfig(config CORSConfig) echo.MiddlewareFunc {
	mw, err := config.toMiddleware()
	if err != nil {
		panic(err)
	}
	return mw
}

func (config CORSConfig) toMiddleware() (echo.MiddlewareFunc, error) {
	if config.Skipper == nil {
		config.Skipper = DefaultSkipper
	}
	hasCustomAllowMethods := len(config.AllowMethods) > 0
	if !hasCustomAllowMethods {
		config.AllowMethods = []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete}
	}

	allowMethods := strings.Join(config.AllowMethods, ",")
	allowHeaders := strings.Join(config.AllowHeaders, ",")
	exposeHeaders := strings.Join(config.ExposeHeaders, ",")

	maxAge := "0"
	if config.MaxAge > 0 {
		maxAge = strconv.Itoa(config.MaxAge)
	}

	allowOriginFunc := config.UnsafeAllowOriginFunc
	if allowOriginFunc == nil {
		if len(config.AllowOrigins) == 0 {
			return nil, errors.New("at least one AllowOrigins is required or UnsafeAllowOriginFunc must be provided")
		}
		allowOriginFunc = config.defaultAllowOriginFunc
		for _, origin := range config.AllowOrigins {
			if origin == "*" {
				if config.AllowCredentials {
					return nil, fmt.Errorf("* as allowed origin and AllowCredentials=true is insecure and not allowed, use UnsafeAllowOriginFunc")
				}
				allowOriginFunc = config.starAllowOriginFunc
				break
			}
			if err := validateOrigin(origin, "allow origin"); err != nil {
				return nil, err
			}
		}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			req := c.Request()
			res := c.Response()
			origin := req.Header.Get(echo.HeaderOrigin)

			res.Header().Add(echo.HeaderVary, echo.HeaderOrigin)

			preflight := req.Method == http.MethodOptions

			routerAllowMethods := ""
			if preflight {
				if tmp, ok := c.Get(echo.ContextKeyHeaderAllow).(string); ok && tmp != "" {
					routerAllowMethods = tmp
					res.Header().Set(echo.HeaderAllow, routerAllowMethods)
				}
			}

			if origin == "" {
				if preflight {
					return c.NoContent(http.StatusNoContent)
				}
				return next(c)
			}

			allowedOrigin, allowed, err := allowOriginFunc(c, origin)
			if err != nil {
				return err
			}
			if !allowed {
				if preflight {
					return c.NoContent(http.StatusNoContent)
				}
				return next(c)
			}

			res.Header().Set(echo.HeaderAccessControlAllowOrigin, allowedOrigin)
			if config.AllowCredentials {
				res.Header().Set(echo.HeaderAccessControlAllowCredentials, "true")
			}

			if !preflight {
				if exposeHeaders != "" {
					res.Header().Set(echo.HeaderAccessControlExposeHeaders, exposeHeaders)
				}
				return next(c)
			}

			res.Header().Add(echo.HeaderVary, echo.HeaderAccessControlRequestMethod)
			res.Header().Add(echo.HeaderVary, echo.HeaderAccessControlRequestHeaders)

			if !hasCustomAllowMethods && routerAllowMethods != "" {
				res.Header().Set(echo.HeaderAccessControlAllowMethods, routerAllowMethods)
			} else {
				res.Header().Set(echo.HeaderAccessControlAllowMethods, allowMethods)
			}

			if allowHeaders != "" {
				res.Header().Set(echo.HeaderAccessControlAllowHeaders, allowHeaders)
			} else if h := req.Header.Get(echo.HeaderAccessControlRequestHeaders); h != "" {
				res.Header().Set(echo.HeaderAccessControlAllowHeaders, h)
			}
			if config.MaxAge != 0 {
				res.Header().Set(echo.HeaderAccessControlMaxAge, maxAge)
			}
			return c.NoContent(http.StatusNoContent)
		}
	}, nil
}

func (config CORSConfig) starAllowOriginFunc(c *echo.Context, origin string) (string, bool, error) {
	return "*", true, nil
}

func (config CORSConfig) defaultAllowOriginFunc(c *echo.Context, origin string) (string, bool, error) {
	for _, allowed := range config.AllowOrigins {
		if strings.EqualFold(allowed, origin) {
			return allowed, true, nil
		}
	}
	return "", false, nil
}
