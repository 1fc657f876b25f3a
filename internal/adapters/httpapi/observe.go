package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"todoboard/internal/dto"
	"todoboard/internal/log"
)

const writeWait = 10 * time.Second

// ObserveTodos handles GET /api/todos/observe: a WebSocket live query. Every
// frame is a full snapshot; the subscription lives as long as the socket.
func (h *Handler) ObserveTodos(c *gin.Context) {
	log.MarkHijacked(c)
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	sub, err := h.todoUseCase.ObserveTodos(ctx)
	if err != nil {
		log.Error().Err(err).Msg("observe failed")
		closeSocket(conn, websocket.CloseInternalServerErr, "observe failed")
		return
	}
	defer sub.Close()

	// Client frames are ignored; a read error means the peer went away.
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	log.Debug().Str("remote", c.Request.RemoteAddr).Msg("live query observer connected")

	ping := time.NewTicker(h.heartbeat)
	defer ping.Stop()
	for {
		select {
		case items, ok := <-sub.Snapshots():
			if !ok {
				closeSocket(conn, websocket.CloseGoingAway, "")
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(dto.NewSnapshotMessage(items)); err != nil {
				log.Debug().Err(err).Msg("live query write failed")
				return
			}
		case <-ping.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		case <-ctx.Done():
			log.Debug().Str("remote", c.Request.RemoteAddr).Msg("live query observer disconnected")
			return
		}
	}
}

func closeSocket(conn *websocket.Conn, code int, text string) {
	msg := websocket.FormatCloseMessage(code, text)
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
}

// StreamTodos handles GET /api/todos/stream: the same live query as SSE, for
// browsers. Each snapshot is sent as event "snapshot".
func (h *Handler) StreamTodos(c *gin.Context) {
	sub, err := h.todoUseCase.ObserveTodos(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	defer sub.Close()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()
	for {
		select {
		case items, ok := <-sub.Snapshots():
			if !ok {
				return
			}
			c.SSEvent(dto.MessageTypeSnapshot, dto.NewSnapshotMessage(items))
			c.Writer.Flush()
		case <-ticker.C:
			fmt.Fprint(c.Writer, ": heartbeat\n\n")
			c.Writer.Flush()
		case <-c.Request.Context().Done():
			return
		}
	}
}
