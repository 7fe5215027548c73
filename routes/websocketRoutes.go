package routes

import (
	"github.com/gin-gonic/gin"

	"coin-market/websocket"
)

func WebSocketRoutes(r *gin.Engine, d Deps) {
	up := websocket.NewUpgrader(d.CORSOrigins)
	r.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(d.Hub, up, d.Market.FeedSnapshot, d.Log, c.Writer, c.Request)
	})
}
