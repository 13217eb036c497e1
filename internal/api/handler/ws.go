package handler

import (
	"net/http"

	"claimflow/backend/internal/models"
	"claimflow/backend/internal/notify"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow connections from any origin. Tighten in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// FeedSocket upgrades the connection and subscribes the caller to the
// live claim event feed. The actor comes from the Authenticate
// middleware (header or token query parameter).
// GET /ws
func (h *Handler) FeedSocket(c *gin.Context) {
	actor := mustActor(c)

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "failed to upgrade connection"})
		return
	}

	client := &notify.WebSocketClient{
		UserID: actor.ID,
		Role:   actor.Role,
		Conn:   conn,
		Hub:    h.Hub,
		Send:   make(chan models.ClaimEvent, 256),
		Logger: h.Logger,
	}

	h.Hub.RegisterCh <- client
	client.Run()
}
