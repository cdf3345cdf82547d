package services

import (
	"net/http"

	"github.com/bellapacxx/sandbox-backend/utils/logger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades the request and starts the client pumps. The
// connection joins rooms later through joinRoom events.
func (e *Engine) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Errorf("[WS] upgrade error: %v", err)
		return
	}

	client := newClient(uuid.NewString(), conn, e)
	logger.Debugf("[WS] New client: id=%s remote=%s", client.id, c.ClientIP())

	go client.writePump()
	go client.readPump()
}
