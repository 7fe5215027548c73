package routes

import "github.com/gin-gonic/gin"

func MarketRoutes(r *gin.RouterGroup, d Deps) {
	r.GET("/market", d.Market.GetMarketHandler)
	r.GET("/news", d.Market.GetNewsHandler)
}
