// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package middleware

import (
	"fmt"
	"net/http"
	"runtime"

	echo "github.com/lunatic-solutions/compass"
)

// RecoverConfig defines the config for Recover middleware.
type RecoverConfig struct {
	// Skipper defines a function to skip middleware.
	Skipper Skipper

	// StackSize is the size of the stack to be printed. Defaults to 4KB.
	StackSize int

	// DisableStackAll disables formatting stack traces of all other goroutines into the
	// buffer after the trace for the current goroutine.
	DisableStackAll bool

	// DisablePrintStack disables logging the recovered stack trace.
	DisablePrintStack bool
}

// DefaultRecoverConfig is the default Recover middleware config.
var DefaultRecoverConfig = RecoverConfig{
	Skipper:           DefaultSkipper,
	StackSize:         4 << 10, // 4 KB
	DisableStackAll:   false,
	DisablePrintStack: false,
}

// Recover returns a middleware which recovers from panics anywhere in the chain, logs the
// panic and its stack trace, and turns it into an error returned up the chain.
func Recover() echo.MiddlewareFunc {
	return RecoverWithConfig(DefaultRecoverConfig)
}

// RecoverWithConfig returns a Recover middleware with config. See: Recover.
func RecoverWithConfig(config RecoverConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = DefaultRecoverConfig.Skipper
	}
	if config.StackSize == 0 {
		config.StackSize = DefaultRecoverConfig.StackSize
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c *echo.Context) (returnErr error) {
			if config.Skipper(c) {
				return next(c)
			}

			defer func() {
				r := recover()
				if r == nil {
					return
				}
				if r == http.ErrAbortHandler {
					panic(r)
				}
				err, ok := r.(error)
				if !ok {
					err = fmt.Errorf("%v", r)
				}
				if !config.DisablePrintStack {
					stack := make([]byte, config.StackSize)
					length := runtime.Stack(stack, !config.DisableStackAll)
					c.Logger().Error("panic recovered", "error", err, "stack", string(stack[:length]))
				}
				returnErr = err
			}()
			return next(c)
		}
	}
}
