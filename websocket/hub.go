package websocket

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"coin-market/models"
)

// SnapshotFunc returns the messages a client receives right after connecting.
type SnapshotFunc func(ctx context.Context) []models.WSMessage

const sendBuffer = 256

// NewUpgrader accepts any origin when origins is empty, else only the listed ones.
func NewUpgrader(origins []string) *websocket.Upgrader {
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowed) == 0 || allowed["*"] {
				return true
			}
			return allowed[r.Header.Get("Origin")]
		},
	}
}

// ServeWs upgrades the request and attaches the connection to the hub. The
// welcome and snapshot messages are queued before the client is registered
// so they always arrive ahead of live broadcasts.
func ServeWs(h *models.Hub, up *websocket.Upgrader, snapshot SnapshotFunc, logger *slog.Logger, w http.ResponseWriter, r *http.Request) {
	conn, err := up.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("ws upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := &models.Client{Conn: conn, Send: make(chan models.WSMessage, sendBuffer)}
	client.Send <- models.WSMessage{Event: models.EventWelcome, Data: "connected to server"}

	if snapshot != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		for _, msg := range snapshot(ctx) {
			select {
			case client.Send <- msg:
			default:
			}
		}
		cancel()
	}

	h.Register(client)
	go client.WritePump()
	go client.ReadPump(h)
}
