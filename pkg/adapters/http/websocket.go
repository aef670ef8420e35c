package http

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/aretw0/fernspiel/pkg/protocol"
)

const writeWait = 10 * time.Second

var upgrader = websocket.Upgrader{
	Subprotocols: []string{protocol.ControlProtocol, protocol.EventProtocol},
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// serveWebsocket streams events to the client and submits every text
// frame it sends as a request.
func (s *Server) serveWebsocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Websocket upgrade failed", "err", err)
		return
	}
	defer conn.Close()

	id, events, cancel := s.hub.Subscribe()
	defer cancel()
	logger := s.logger.With("subscriber", id, "subprotocol", conn.Subprotocol())
	logger.Info("Websocket client connected")

	// 1. Writer: forward events until the reader gives up
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range events {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("Websocket write failed", "err", err)
				return
			}
		}
	}()

	// 2. Reader: requests from the client
	for {
		kind, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warn("Websocket error", "err", err)
			}
			break
		}
		if kind != websocket.TextMessage {
			continue
		}
		req, err := protocol.Decode(data)
		if err != nil {
			logger.Warn("Ignoring malformed request", "err", err)
			continue
		}
		if err := s.controller.Submit(req); err != nil {
			logger.Warn("Request rejected", "kind", req.Kind, "err", err)
		}
	}

	cancel()
	<-done
	logger.Info("Websocket client disconnected")
}
