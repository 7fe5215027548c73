package routes

import "github.com/gin-gonic/gin"

func AccountRoutes(r *gin.RouterGroup, d Deps) {
	r.POST("/auth/register", d.Accounts.RegisterHandler)
	r.POST("/auth/login", d.Accounts.LoginHandler)
	r.POST("/auth/logout", RequireAuth(d.Tokens), d.Accounts.LogoutHandler)

	me := r.Group("/me", RequireAuth(d.Tokens))
	{
		me.GET("", d.Accounts.MeHandler)
		me.DELETE("", d.Accounts.WithdrawHandler)
		me.POST("/resume", d.Accounts.ResumeHandler)
		me.POST("/attendance", d.Accounts.AttendanceHandler)
		me.POST("/support", d.Accounts.SupportHandler)
	}
}
