package realtime

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Tracking subscriptions are public, like the tracking lookup itself.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// ServeOrder upgrades the connection and streams status events for one
// order until the client disconnects.
func ServeOrder(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID := c.Param("id")
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			slog.Warn("websocket upgrade failed", "order", orderID, "error", err)
			return
		}
		sub := hub.Subscribe(orderID, 16)

		// Reader: we expect nothing from the client, but reading drives
		// pong handling and surfaces the close frame.
		go func() {
			defer sub.Close()
			conn.SetReadLimit(512)
			_ = conn.SetReadDeadline(time.Now().Add(pongWait))
			conn.SetPongHandler(func(string) error {
				return conn.SetReadDeadline(time.Now().Add(pongWait))
			})
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		ticker := time.NewTicker(pingPeriod)
		defer func() {
			ticker.Stop()
			sub.Close()
			_ = conn.Close()
		}()
		for {
			select {
			case msg, ok := <-sub.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if !ok {
					_ = conn.WriteMessage(websocket.CloseMessage, []byte{})
					return
				}
				if err := conn.WriteJSON(msg); err != nil {
					return
				}
			case <-ticker.C:
				_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}
}
