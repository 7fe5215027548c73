package controllers

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"coin-market/db"
)

// AdminController exposes the operator actions. Routes using it sit behind
// the admin middleware.
type AdminController struct {
	market   *MarketController
	rankings *RankingController
	users    db.UserStore
	log      *slog.Logger
}

func NewAdminController(market *MarketController, rankings *RankingController, users db.UserStore, logger *slog.Logger) *AdminController {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminController{market: market, rankings: rankings, users: users, log: logger}
}

// GrantCash credits amount to the user with the given nickname.
func (ad *AdminController) GrantCash(ctx context.Context, nickname string, amount int64) error {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" || amount == 0 {
		return ErrInvalidInput
	}
	u, err := ad.users.FindUserByNickname(ctx, nickname)
	if err != nil {
		return err
	}
	if err := ad.users.AddCash(ctx, u.UID, amount); err != nil {
		return err
	}
	ad.log.Info("cash granted", slog.String("nickname", nickname), slog.Int64("amount", amount))
	return nil
}

type newsRequest struct {
	Text string `json:"text"`
}

type forcedChangeRequest struct {
	CoinID  string  `json:"coinId" binding:"required"`
	Percent float64 `json:"percent"`
}

type grantRequest struct {
	Nickname string `json:"nickname" binding:"required"`
	Amount   int64  `json:"amount" binding:"required"`
}

func (ad *AdminController) SetNewsHandler(c *gin.Context) {
	var req newsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, ErrInvalidInput)
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := ad.market.SetNews(ctx, req.Text); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"text": req.Text})
}

func (ad *AdminController) ForcedChangeHandler(c *gin.Context) {
	var req forcedChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, ErrInvalidInput)
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := ad.market.SetForcedChange(ctx, req.CoinID, req.Percent); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"coinId": req.CoinID, "percent": req.Percent})
}

func (ad *AdminController) GrantHandler(c *gin.Context) {
	var req grantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, ErrInvalidInput)
		return
	}
	ctx, cancel := requestContext(c)
	defer cancel()

	if err := ad.GrantCash(ctx, req.Nickname, req.Amount); err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"nickname": req.Nickname, "amount": req.Amount})
}

func (ad *AdminController) ResetMarketHandler(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	m, err := ad.market.Reset(ctx)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (ad *AdminController) ForceUpdateHandler(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	m, err := ad.market.ForceUpdate(ctx)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (ad *AdminController) RecomputeHandler(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	n, err := ad.rankings.RecomputeAll(ctx)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": n})
}
