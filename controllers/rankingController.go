// controllers/rankingController.go
package controllers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"coin-market/db"
	"coin-market/game"
	"coin-market/models"
)

// assetWriters bounds concurrent per-user writes during a snapshot pass.
const assetWriters = 8

// RankingController rewrites daily asset snapshots and serves the boards.
type RankingController struct {
	market *MarketController
	users  db.UserStore
	system db.MarketStore
	loc    *time.Location
	limit  int
	log    *slog.Logger

	mu       sync.Mutex
	lastDate string
}

func NewRankingController(market *MarketController, users db.UserStore, system db.MarketStore, loc *time.Location, limit int, logger *slog.Logger) *RankingController {
	if logger == nil {
		logger = slog.Default()
	}
	return &RankingController{market: market, users: users, system: system, loc: loc, limit: limit, log: logger}
}

// TryDailySnapshot rewrites every user's assets at current prices the first
// time it runs on a new calendar day. It reports whether the pass ran. A
// failed pass leaves the date unrecorded so the next call redoes it.
func (rc *RankingController) TryDailySnapshot(ctx context.Context, now time.Time) (bool, error) {
	today := game.DateID(now, rc.loc)

	rc.mu.Lock()
	defer rc.mu.Unlock()
	if rc.lastDate == today {
		return false, nil
	}

	r, err := rc.system.LoadRanking(ctx)
	switch {
	case err == nil && r.LastUpdatedDate == today:
		rc.lastDate = today
		return false, nil
	case err != nil && !errors.Is(err, db.ErrNotFound):
		return false, err
	}

	n, err := rc.rewriteAssets(ctx)
	if err != nil {
		return false, err
	}
	if err := rc.system.SaveRanking(ctx, models.Ranking{LastUpdatedDate: today}); err != nil {
		return false, err
	}
	rc.lastDate = today
	rc.log.Info("daily ranking snapshot", slog.String("date", today), slog.Int("users", n))
	return true, nil
}

// RecomputeAll rewrites every user's assets now, outside the daily gate.
func (rc *RankingController) RecomputeAll(ctx context.Context) (int, error) {
	n, err := rc.rewriteAssets(ctx)
	if err != nil {
		return 0, err
	}
	rc.log.Info("assets recomputed", slog.Int("users", n))
	return n, nil
}

func (rc *RankingController) rewriteAssets(ctx context.Context) (int, error) {
	coins, err := rc.market.Coins(ctx)
	if err != nil {
		return 0, err
	}
	users, err := rc.users.ListUsers(ctx)
	if err != nil {
		return 0, err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(assetWriters)
	for _, u := range users {
		g.Go(func() error {
			total := game.MarkToMarket(u, coins)
			if err := rc.users.SetAssets(gctx, u.UID, total); err != nil && !errors.Is(err, db.ErrNotFound) {
				return fmt.Errorf("set assets for %s: %w", u.UID, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}
	return len(users), nil
}

// Query builds the board for criterion by. selfID may be empty.
func (rc *RankingController) Query(ctx context.Context, by game.Criterion, selfID string) (game.Board, error) {
	if by != game.ByTotalAsset && by != game.ByProfit {
		return game.Board{}, ErrInvalidInput
	}
	users, err := rc.users.ListUsers(ctx)
	if err != nil {
		return game.Board{}, err
	}
	return game.BuildRanking(users, by, selfID, rc.limit), nil
}

// GetRankingsHandler handles GET /api/rankings?type=total|profit.
func (rc *RankingController) GetRankingsHandler(c *gin.Context) {
	by := game.Criterion(c.DefaultQuery("type", string(game.ByTotalAsset)))

	ctx, cancel := requestContext(c)
	defer cancel()

	board, err := rc.Query(ctx, by, c.GetString(ContextUID))
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, board)
}
