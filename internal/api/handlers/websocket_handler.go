// server/internal/api/handlers/websocket_handler.go
package handlers

import (
	"net/http"
	"strings"
	"time"

	"safaipak-api-server/internal/socket"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Longest silence tolerated from a client before the connection is dropped.
const pongWait = 60 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WebSocketHandler struct {
	Hub *socket.Hub
	Log *zap.Logger
}

// ServeWs handles GET /api/ws?providerId=... and streams booking events for
// that provider until the client goes away.
func (h *WebSocketHandler) ServeWs(c *gin.Context) {
	providerID := strings.TrimSpace(c.Query("providerId"))
	if providerID == "" {
		c.JSON(http.StatusBadRequest, errorResponse{Message: "providerId is required"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.Log.Warn("Failed to upgrade connection", zap.Error(err))
		return
	}

	h.Hub.Register(providerID, conn)
	defer func() {
		h.Hub.Unregister(providerID, conn)
		conn.Close()
	}()

	// Any client frame, including a ping, pushes the deadline out.
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPingHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(time.Second))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.Log.Debug("Unexpected websocket close", zap.String("providerID", providerID), zap.Error(err))
			}
			return
		}
		conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}
