package progress

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// The diary UI is served from a different port in development.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Handler upgrades GET /ws/progress to a WebSocket and streams pipeline
// events until the client disconnects.
func Handler(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			log.Printf("progress ws upgrade failed: %v", err)
			return
		}

		hub.ServeWS(conn)
	}
}
