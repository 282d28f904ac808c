package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"farmertwin/dto"
	"farmertwin/logging"
	"farmertwin/usecase"
	"farmertwin/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Clients only send control frames; anything larger is a misuse.
	maxClientMessageSize = 4 << 10
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ReportIntrusionHandler accepts a report even with missing fields; the
// broadcaster fills in defaults. Push failures never change the response.
func ReportIntrusionHandler(c *gin.Context, broadcaster *usecase.Broadcaster) {
	var req dto.ReportIntrusionRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	alert := broadcaster.Report(c.Request.Context(), req.Animal, req.Location, req.Severity)

	utils.Success(c, dto.ReportIntrusionResponse{
		Status:  "success",
		Message: "Alert broadcasted",
		Alert:   &alert,
	})
}

// IntrusionStreamHandler serves alerts as server-sent events until the
// client goes away. A comment line is sent whenever keepAlive passes
// without an alert.
func IntrusionStreamHandler(c *gin.Context, broadcaster *usecase.Broadcaster, keepAlive time.Duration) {
	sub, err := broadcaster.Subscribe()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, &utils.Response{Error: "alert stream unavailable"})
		return
	}
	defer broadcaster.Unsubscribe(sub)

	h := c.Writer.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	if err := writeSSE(c.Writer, gin.H{"status": "connected"}); err != nil {
		return
	}

	ctx := c.Request.Context()
	for {
		alert, ok, err := sub.Next(ctx, keepAlive)
		if err != nil {
			return
		}
		if !ok {
			if _, err := io.WriteString(c.Writer, ": keep-alive\n\n"); err != nil {
				return
			}
			c.Writer.Flush()
			continue
		}
		if err := writeSSE(c.Writer, alert); err != nil {
			return
		}
	}
}

func writeSSE(w gin.ResponseWriter, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
		return err
	}
	w.Flush()
	return nil
}

// IntrusionWebSocketHandler delivers the same alerts as the event stream as
// JSON text frames. The read side only handles control frames; a failed read
// or write ends the subscription.
func IntrusionWebSocketHandler(c *gin.Context, broadcaster *usecase.Broadcaster, log logging.Logger) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Warn(c.Request.Context(), "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	sub, err := broadcaster.Subscribe()
	if err != nil {
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "alert stream unavailable"),
			time.Now().Add(writeWait))
		return
	}
	defer broadcaster.Unsubscribe(sub)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	go func() {
		defer cancel()
		conn.SetReadLimit(maxClientMessageSize)
		conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error { conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteJSON(gin.H{"status": "connected"}); err != nil {
		return
	}

	for {
		alert, ok, err := sub.Next(ctx, pingPeriod)
		if err != nil {
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, ""),
				time.Now().Add(writeWait))
			return
		}

		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if !ok {
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
			continue
		}
		if err := conn.WriteJSON(alert); err != nil {
			log.Debug(ctx, "websocket write failed", "error", err)
			return
		}
	}
}
