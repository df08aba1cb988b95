package scrollsync

import (
	"net/http"
	"net/url"
	"time"

	"github.com/akolanti/DocForm/internal/config"
	"github.com/akolanti/DocForm/pkg/logger_i"
	"github.com/gorilla/websocket"
)

var logger = logger_i.NewLogger("scrollsync")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     sameOrigin,
}

func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

// ServeWS upgrades the request and relays scroll events of sessionID until
// either side goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, sessionID string) {
	log := logger.FromContext(r.Context())
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn("WebSocket upgrade failed", "error", err)
		return
	}

	sub := h.Subscribe(sessionID)
	log.Debug("scroll subscriber connected", "subscribers", h.Subscribers(sessionID))

	go h.writeLoop(conn, sub)
	h.readLoop(conn, sessionID, log)

	h.Unsubscribe(sub)
	log.Debug("scroll subscriber left")
}

func (h *Hub) readLoop(conn *websocket.Conn, sessionID string, log *logger_i.Logger) {
	defer conn.Close()
	conn.SetReadLimit(config.ScrollMaxReadSize)
	_ = conn.SetReadDeadline(time.Now().Add(config.ScrollPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(config.ScrollPongWait))
	})

	for {
		var ev Event
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("Error reading scroll event", "error", err)
			}
			return
		}
		if ev.Pane == "" || ev.Top < 0 || ev.Left < 0 {
			continue
		}
		h.Publish(sessionID, ev)
	}
}

func (h *Hub) writeLoop(conn *websocket.Conn, sub *Subscriber) {
	ticker := time.NewTicker(config.ScrollPingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case ev, ok := <-sub.Events():
			_ = conn.SetWriteDeadline(time.Now().Add(config.ScrollWriteWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteJSON(ev); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(config.ScrollWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
