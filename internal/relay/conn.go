package relay

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/mcoot/vstetris/internal/model"
)

// ServeWS upgrades the request to a websocket and attaches it to the hub
// until either side closes.
func ServeWS(w http.ResponseWriter, r *http.Request, hub *Hub) {
	cfg := hub.Config()
	upgrader := websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		// The relay carries no credentials, so any origin may connect
		CheckOrigin: func(r *http.Request) bool { return true },
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written an HTTP error
		hub.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := NewClient(model.Connection{
		ID:          model.ConnID(uuid.NewString()),
		RemoteAddr:  r.RemoteAddr,
		ConnectedAt: hub.clock.Now(),
	}, cfg.SendBufferSize)
	hub.Register(client)

	go writePump(ws, client, cfg)
	readPump(ws, client, hub, cfg)
}

// readPump feeds inbound frames to the hub until the socket fails
func readPump(ws *websocket.Conn, client *Client, hub *Hub, cfg Config) {
	defer func() {
		hub.Unregister(client)
		_ = ws.Close()
	}()

	ws.SetReadLimit(cfg.MaxMessageSize)
	_ = ws.SetReadDeadline(time.Now().Add(cfg.PongWait))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(cfg.PongWait))
	})

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				hub.logger.Debug("websocket read error",
					slog.String("conn_id", string(client.ID())),
					slog.String("error", err.Error()))
			}
			return
		}
		hub.Receive(client, data)
	}
}

// writePump drains the client's queue to the socket and keeps it alive with pings
func writePump(ws *websocket.Conn, client *Client, cfg Config) {
	ticker := time.NewTicker(cfg.PingPeriod)
	defer func() {
		ticker.Stop()
		_ = ws.Close()
	}()

	for {
		select {
		case data, ok := <-client.send:
			_ = ws.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if !ok {
				// Hub dropped the client
				_ = ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = ws.SetWriteDeadline(time.Now().Add(cfg.WriteWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
