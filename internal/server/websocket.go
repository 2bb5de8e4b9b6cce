package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/kode4food/caravan/topic"

	"github.com/kestrelops/liaison/internal/events"
	"github.com/kestrelops/liaison/pkg/api"
	"github.com/kestrelops/liaison/pkg/log"
)

// client represents a WebSocket connection streaming run events
type client struct {
	server   *Server
	conn     *websocket.Conn
	consumer topic.Consumer[events.RunEvent]
	workflow string
}

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	wsBufferSize   = 1024
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  wsBufferSize,
	WriteBufferSize: wsBufferSize,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// handleWebSocket upgrades the connection and streams run events until
// the peer disconnects. An optional workflow query parameter narrows the
// stream to one workflow
func (s *Server) handleWebSocket(c *gin.Context) {
	if s.hub == nil {
		c.JSON(http.StatusServiceUnavailable, api.ErrorResponse{
			Error:  "event streaming is not enabled",
			Status: http.StatusServiceUnavailable,
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed",
			log.Error(err))
		return
	}

	cl := &client{
		server:   s,
		conn:     conn,
		consumer: s.hub.NewConsumer(),
		workflow: c.Query("workflow"),
	}
	s.registerWebSocket(cl)

	go cl.run()
}

func (c *client) run() {
	defer func() {
		c.server.unregisterWebSocket(c)
		c.consumer.Close()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	closed := make(chan struct{})
	go c.discardReads(closed)

	for {
		select {
		case <-closed:
			return

		case event, ok := <-c.consumer.Receive():
			if !ok {
				_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if !c.sendEventIfMatched(event) {
				return
			}

		case <-ticker.C:
			if !c.sendPing() {
				return
			}
		}
	}
}

// discardReads drains the connection so pong frames are processed,
// signaling when the peer goes away
func (c *client) discardReads(closed chan struct{}) {
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			close(closed)
			return
		}
	}
}

func (c *client) sendEventIfMatched(event events.RunEvent) bool {
	if c.workflow != "" && event.Workflow != c.workflow {
		return true
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := c.conn.WriteJSON(event); err != nil {
		slog.Debug("WebSocket write failed",
			log.Error(err))
		return false
	}
	return true
}

func (c *client) sendPing() bool {
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.PingMessage, nil) == nil
}

func (c *client) close() {
	_ = c.conn.Close()
}
