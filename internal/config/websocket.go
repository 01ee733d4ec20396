package config

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// Upgrader accepts websocket handshakes from AllowedOrigins. Requests
// without an Origin header are accepted, and so is every origin when the
// list is empty.
func (c Config) Upgrader() websocket.Upgrader {
	allowed := make(map[string]bool, len(c.AllowedOrigins))
	for _, origin := range c.AllowedOrigins {
		allowed[origin] = true
	}
	return websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			return len(allowed) == 0 || origin == "" || allowed[origin]
		},
	}
}
