// Copyright 2026 The Tern Authors
// SPDX-License-Identifier: Apache-2.0

package devtools

import (
	"context"
	"errors"
	"net/http"

	"github.com/coder/websocket"
)

// WebSocketHandler upgrades HTTP requests and serves the packet
// protocol over the resulting WebSocket. Each text message carries
// bytes of the same length-prefixed framing used on TCP, so browser
// frontends can connect without a raw socket.
func (s *Server) WebSocketHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			// The frontend connects from arbitrary debugging UIs.
			OriginPatterns: []string{"*"},
		})
		if err != nil {
			s.logger.Warn("websocket accept failed", "remote", r.RemoteAddr, "error", err)
			return
		}
		conn := websocket.NetConn(r.Context(), c, websocket.MessageText)
		s.ServeConn(conn)
	})
}

// ListenAndServeWebSocket serves the WebSocket endpoint until ctx is
// done.
func (s *Server) ListenAndServeWebSocket(ctx context.Context, addr string) error {
	server := &http.Server{Addr: addr, Handler: s.WebSocketHandler()}
	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()
	s.logger.Info("devtools websocket listening", "addr", addr)
	err := server.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
