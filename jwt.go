// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package echo

import (
	"errors"

	"github.com/dgrijalva/jwt-go"
)

// JWTConfig configures the JWT authentication middleware.
type JWTConfig struct {
	// SigningKey is the key used to validate the token's signature. Required.
	SigningKey interface{}
	// SigningMethod restricts which signing algorithm is accepted. Defaults to HS256.
	SigningMethod string
	// ContextKey is the Context store key the parsed token is set under. Defaults to "user".
	ContextKey string
	// AuthScheme is the Authorization header scheme. Defaults to "Bearer".
	AuthScheme string
	// Claims is the destination type tokens are parsed into. Defaults to jwt.MapClaims.
	Claims jwt.Claims
}

func (config JWTConfig) withDefaults() JWTConfig {
	if config.ContextKey == "" {
		config.ContextKey = "user"
	}
	if config.AuthScheme == "" {
		config.AuthScheme = "Bearer"
	}
	if config.SigningMethod == "" {
		config.SigningMethod = "HS256"
	}
	return config
}

// verify extracts and validates the bearer token from c's Authorization header per config,
// returning the parsed token on success.
func (config JWTConfig) verify(c *Context) (*jwt.Token, error) {
	auth := c.Request().Header.Get(HeaderAuthorization)
	prefix := config.AuthScheme + " "
	if len(auth) <= len(prefix) || auth[:len(prefix)] != prefix {
		return nil, ErrJWTMissing
	}
	raw := auth[len(prefix):]

	keyFunc := func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != config.SigningMethod {
			return nil, errors.New("unexpected jwt signing method")
		}
		return config.SigningKey, nil
	}

	var token *jwt.Token
	var err error
	if config.Claims != nil {
		token, err = jwt.ParseWithClaims(raw, config.Claims, keyFunc)
	} else {
		token, err = jwt.Parse(raw, keyFunc)
	}
	if err != nil || !token.Valid {
		return nil, ErrJWTInvalid
	}
	return token, nil
}

// ErrJWTMissing is returned when the Authorization header is absent or malformed.
var ErrJWTMissing = NewHTTPError(400, "missing or malformed jwt")

// ErrJWTInvalid is returned when the bearer token fails signature or claim validation.
var ErrJWTInvalid = NewHTTPError(401, "invalid or expired jwt")

// JWT returns a middleware requiring a valid Bearer JWT signed with key, storing the parsed
// token in the Context under "user".
func JWT(key interface{}) MiddlewareFunc {
	return JWTWithConfig(JWTConfig{SigningKey: key})
}

// JWTWithConfig returns a JWT middleware configured per config.
func JWTWithConfig(config JWTConfig) MiddlewareFunc {
	config = config.withDefaults()
	return func(next HandlerFunc) HandlerFunc {
		return func(c *Context) error {
			token, err := config.verify(c)
			if err != nil {
				return err
			}
			c.Set(config.ContextKey, token)
			return next(c)
		}
	}
}

// HasValidJWT is a Guard wrapping JWT verification so it can be composed with And/Or/Not
// alongside other guards instead of being bolted on as standalone middleware. On success it
// also stashes the parsed token in the Context under "user", same as JWTWithConfig.
func HasValidJWT(signingKey interface{}) Guard {
	config := JWTConfig{SigningKey: signingKey}.withDefaults()
	return GuardFunc(func(c *Context) bool {
		token, err := config.verify(c)
		if err != nil {
			return false
		}
		c.Set(config.ContextKey, token)
		return true
	})
}
