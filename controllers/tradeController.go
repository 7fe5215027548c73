package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"coin-market/db"
	"coin-market/game"
	"coin-market/models"
)

// TradeController settles orders against the stored market price.
type TradeController struct {
	market *MarketController
	users  db.UserStore
	loc    *time.Location
	now    func() time.Time
	log    *slog.Logger
}

func NewTradeController(market *MarketController, users db.UserStore, loc *time.Location, logger *slog.Logger) *TradeController {
	if logger == nil {
		logger = slog.Default()
	}
	return &TradeController{market: market, users: users, loc: loc, now: time.Now, log: logger}
}

// TradeRequest is the body of POST /api/trades.
type TradeRequest struct {
	CoinID string `json:"coinId" binding:"required"`
	Side   string `json:"side" binding:"required"`
	Qty    int64  `json:"qty"`
}

type TradeResponse struct {
	Trade models.TradeRecord `json:"trade"`
	User  *models.User       `json:"user"`
}

// Execute buys or sells qty units of coinID for uid at the current market
// price. Rejected orders leave the user document untouched.
func (tc *TradeController) Execute(ctx context.Context, uid, coinID, side string, qty int64) (*models.User, models.TradeRecord, error) {
	var rec models.TradeRecord
	side = strings.ToLower(side)

	u, err := mutateUser(ctx, tc.users, uid, func(u *models.User) error {
		coins, err := tc.market.Coins(ctx)
		if err != nil {
			return err
		}
		coin, ok := models.FindCoin(coins, coinID)
		if !ok {
			return game.ErrUnknownCoin
		}
		next, r, err := game.Execute(u, coin, side, qty, tc.now(), tc.loc)
		if err != nil {
			return err
		}
		*u = *next
		rec = r
		return nil
	})
	if err != nil {
		return nil, models.TradeRecord{}, err
	}

	tc.log.Info("trade settled",
		slog.String("uid", uid),
		slog.String("coin", coinID),
		slog.String("side", side),
		slog.Int64("qty", qty),
		slog.Int64("price", rec.Price),
	)
	return u, rec, nil
}

// ExecuteTradeHandler handles POST /api/trades.
func (tc *TradeController) ExecuteTradeHandler(c *gin.Context) {
	var req TradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, ErrInvalidInput)
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	u, rec, err := tc.Execute(ctx, c.GetString(ContextUID), req.CoinID, req.Side, req.Qty)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, TradeResponse{Trade: rec, User: u})
}

// GetTradesHandler returns the caller's trade log, newest first.
func (tc *TradeController) GetTradesHandler(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	u, err := tc.users.GetUser(ctx, c.GetString(ContextUID))
	if err != nil {
		RespondError(c, err)
		return
	}
	history := u.History
	if history == nil {
		history = []models.TradeRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"trades": history})
}
