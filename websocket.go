// SPDX-License-Identifier: MIT
// SPDX-FileCopyrightText: © 2015 LabStack LLC and Echo contributors

package echo

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// WebSocketHandlerFunc handles an upgraded connection. The underlying HTTP request/response
// have already been hijacked by the time this is invoked; returning does not write any further
// HTTP response.
type WebSocketHandlerFunc func(c *Context, conn *websocket.Conn) error

// WebSocketUpgrader exposes the subset of gorilla/websocket.Upgrader configuration routes
// commonly need, without requiring every call site to import gorilla/websocket directly.
type WebSocketUpgrader struct {
	ReadBufferSize  int
	WriteBufferSize int
	// CheckOrigin is consulted before upgrading; a nil value allows cross-origin upgrades,
	// matching websocket.Upgrader's zero-value behavior.
	CheckOrigin func(c *Context) bool
}

// WebSocket upgrades the connection with the default upgrader and invokes h with the resulting
// connection, closing it once h returns.
func WebSocket(h WebSocketHandlerFunc) HandlerFunc {
	return WebSocketWithUpgrader(WebSocketUpgrader{}, h)
}

// WebSocketWithUpgrader is WebSocket with custom upgrader settings.
func WebSocketWithUpgrader(cfg WebSocketUpgrader, h WebSocketHandlerFunc) HandlerFunc {
	up := &websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
	}
	return func(c *Context) error {
		if cfg.CheckOrigin != nil {
			up.CheckOrigin = func(r *http.Request) bool { return cfg.CheckOrigin(c) }
		}
		conn, err := up.Upgrade(c.Response(), c.Request(), nil)
		if err != nil {
			return ErrBadRequest.Wrap(err)
		}
		defer conn.Close()
		return h(c, conn)
	}
}
