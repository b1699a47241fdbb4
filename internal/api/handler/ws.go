package handler

import (
	"net/http"
	"time"

	"penpost/backend/internal/chathub"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// closeAuthFailure is the close code sent when the connection credential
// does not resolve to a live session.
const closeAuthFailure = 4001

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ServeWS handles GET /chat/ws?token=. Browsers cannot set headers on a
// websocket handshake, so the session token rides in the query string.
func (h *Handler) ServeWS(c *gin.Context) {
	up := upgrader
	if h.WSAllowAllOrigins {
		up.CheckOrigin = func(r *http.Request) bool { return true }
	}
	conn, err := up.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return
	}

	principal, rerr := h.Sessions.Resolve(c.Request.Context(), c.Query("token"))
	if rerr != nil || principal == nil || !principal.Active {
		if rerr != nil {
			h.Log.Error("session lookup failed during ws handshake", zap.Error(rerr))
		}
		msg := websocket.FormatCloseMessage(closeAuthFailure, "invalid session credential")
		conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		conn.Close()
		return
	}

	client := chathub.NewWSClient(principal.UserID, conn, h.Log)
	sess := chathub.NewConnSession(principal.UserID, client, h.Registry, h.Store, h.Log)

	h.Log.Info("websocket connected", zap.String("user_id", principal.UserID))
	// Blocks until the connection drops; teardown unsubscribes every room
	// the session still tracks.
	client.Run(sess)
	h.Log.Info("websocket disconnected", zap.String("user_id", principal.UserID))
}
