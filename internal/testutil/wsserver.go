// Package testutil provides shared test servers for the WebSocket-based
// clients.
package testutil

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"
)

// WSServer is an httptest server that upgrades every request to a WebSocket
// and hands the connection to a script function.
type WSServer struct {
	*httptest.Server
}

// Script drives one WebSocket connection from the server side.
type Script func(t *testing.T, conn *websocket.Conn)

// NewWSServer starts a WebSocket server that runs script for each incoming
// connection. The server closes with the test.
func NewWSServer(t *testing.T, script Script) *WSServer {
	t.Helper()
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("websocket upgrade: %v", err)
			return
		}
		defer conn.Close()
		script(t, conn)
	}))
	t.Cleanup(srv.Close)

	return &WSServer{Server: srv}
}

// WSURL returns the server's URL with a ws:// scheme.
func (s *WSServer) WSURL() string {
	return "ws" + strings.TrimPrefix(s.URL, "http")
}
