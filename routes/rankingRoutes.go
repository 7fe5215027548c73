package routes

import "github.com/gin-gonic/gin"

func RankingRoutes(r *gin.RouterGroup, d Deps) {
	r.GET("/rankings", OptionalAuth(d.Tokens), d.Rankings.GetRankingsHandler)
}
