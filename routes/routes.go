package routes

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"coin-market/controllers"
	"coin-market/db"
	"coin-market/models"
)

// Deps is everything the HTTP surface is built from.
type Deps struct {
	Hub         *models.Hub
	Tokens      TokenParser
	Users       db.UserStore
	Market      *controllers.MarketController
	Trades      *controllers.TradeController
	Accounts    *controllers.AccountController
	Rankings    *controllers.RankingController
	Admin       *controllers.AdminController
	CORSOrigins []string
	Log         *slog.Logger
}

// Setup registers every route on r.
func Setup(r *gin.Engine, d Deps) {
	if d.Log == nil {
		d.Log = slog.Default()
	}
	r.Use(corsMiddleware(d.CORSOrigins))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "clients": d.Hub.ClientCount()})
	})

	WebSocketRoutes(r, d)

	api := r.Group("/api")
	MarketRoutes(api, d)
	AccountRoutes(api, d)
	TradeRoutes(api, d)
	RankingRoutes(api, d)
	AdminRoutes(api, d)
}

// corsMiddleware allows every origin when origins is empty or holds "*".
func corsMiddleware(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cors.New(cfg)
}
