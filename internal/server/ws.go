package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ayusman/sinais/internal/app"
)

const (
	writeWait  = 5 * time.Second
	pongWait   = 30 * time.Second
	pingPeriod = pongWait * 9 / 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// ProgressHandler pushes every published progress update to WebSocket
// clients as JSON text messages. The current progress is sent on connect.
type ProgressHandler struct {
	driver Driver
	logger *slog.Logger
}

// NewProgressHandler creates a ProgressHandler over driver.
func NewProgressHandler(driver Driver, logger *slog.Logger) *ProgressHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ProgressHandler{driver: driver, logger: logger}
}

// ServeHTTP handles WebSocket upgrade requests.
func (h *ProgressHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	updates, unsubscribe := h.driver.Subscribe()
	defer unsubscribe()

	closed := make(chan struct{})
	go h.readLoop(conn, closed)

	if err := h.write(conn, h.driver.Progress()); err != nil {
		return
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-closed:
			return
		case <-r.Context().Done():
			return
		case p, ok := <-updates:
			if !ok {
				return
			}
			if err := h.write(conn, p); err != nil {
				h.logger.Debug("websocket write failed", "error", err)
				return
			}
		case <-ping.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *ProgressHandler) write(conn *websocket.Conn, p app.Progress) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(p)
}

// readLoop drains client messages so control frames are processed and
// closes done when the peer goes away.
func (h *ProgressHandler) readLoop(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
