package routes

import "github.com/gin-gonic/gin"

func AdminRoutes(r *gin.RouterGroup, d Deps) {
	admin := r.Group("/admin", RequireAuth(d.Tokens), RequireAdmin(d.Users))
	{
		admin.POST("/news", d.Admin.SetNewsHandler)
		admin.POST("/forced-change", d.Admin.ForcedChangeHandler)
		admin.POST("/grant", d.Admin.GrantHandler)
		admin.POST("/market/reset", d.Admin.ResetMarketHandler)
		admin.POST("/market/force", d.Admin.ForceUpdateHandler)
		admin.POST("/rankings/recompute", d.Admin.RecomputeHandler)
	}
}
