// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package middleware

import echo "github.com/lunatic-solutions/compass"

// Skipper defines a function to skip middleware. Returning true skips processing
// the middleware.
type Skipper func(c *echo.Context) bool

// DefaultSkipper returns false which processes the middleware.
func DefaultSkipper(c *echo.Context) bool {
	return false
}
