package routes

import "github.com/gin-gonic/gin"

func TradeRoutes(r *gin.RouterGroup, d Deps) {
	trades := r.Group("/trades", RequireAuth(d.Tokens))
	trades.GET("", d.Trades.GetTradesHandler)
	trades.POST("", d.Trades.ExecuteTradeHandler)
}
