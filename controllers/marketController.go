package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"coin-market/db"
	"coin-market/game"
	"coin-market/models"
)

// MarketController owns the market clock and the system documents.
type MarketController struct {
	store db.MarketStore
	feed  Broadcaster
	loc   *time.Location
	rnd   game.RandFunc
	log   *slog.Logger
}

func NewMarketController(store db.MarketStore, feed Broadcaster, loc *time.Location, rnd game.RandFunc, logger *slog.Logger) *MarketController {
	if rnd == nil {
		rnd = game.DefaultRand
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &MarketController{store: store, feed: feed, loc: loc, rnd: rnd, log: logger}
}

// Snapshot returns the market document, listing the initial coins when no
// market exists yet.
func (mc *MarketController) Snapshot(ctx context.Context) (*models.Market, error) {
	m, err := mc.store.LoadMarket(ctx)
	if err == nil {
		return m, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return nil, err
	}

	fresh := &models.Market{Items: game.InitialCoins()}
	err = mc.store.CreateMarket(ctx, fresh)
	if errors.Is(err, db.ErrDuplicate) {
		// Another instance seeded it first.
		return mc.store.LoadMarket(ctx)
	}
	if err != nil {
		return nil, err
	}
	mc.log.Info("market seeded", slog.Int("coins", len(fresh.Items)))
	mc.publishMarket(fresh)
	return fresh, nil
}

// Coins returns the current coin list.
func (mc *MarketController) Coins(ctx context.Context) ([]models.Coin, error) {
	m, err := mc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return m.Items, nil
}

// TryAdvance prices the slot containing now unless it is already priced.
// It reports whether this call performed the transition. On a write
// failure the slot stays unpriced and the next call retries.
func (mc *MarketController) TryAdvance(ctx context.Context, now time.Time) (bool, error) {
	m, err := mc.Snapshot(ctx)
	if err != nil {
		return false, err
	}
	slot := game.SlotID(now, mc.loc)
	if m.LastSlotID == slot || len(m.Items) == 0 {
		return false, nil
	}

	items := game.StepCoins(m.Items, mc.rnd)
	advanced, err := mc.store.AdvanceMarket(ctx, items, slot)
	if err != nil {
		return false, err
	}
	if !advanced {
		mc.log.Debug("slot already priced elsewhere", slog.String("slot", slot))
		return false, nil
	}

	mc.log.Info("market advanced", slog.String("slot", slot))
	mc.publishMarket(&models.Market{Items: items, LastSlotID: slot})
	return true, nil
}

// ForceUpdate applies one price step immediately, outside the schedule.
// The slot id is left as it was.
func (mc *MarketController) ForceUpdate(ctx context.Context) (*models.Market, error) {
	m, err := mc.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	items := game.StepCoins(m.Items, mc.rnd)
	if err := mc.store.SaveCoins(ctx, items); err != nil {
		return nil, err
	}
	next := &models.Market{Items: items, LastSlotID: m.LastSlotID}
	mc.log.Info("market force-updated")
	mc.publishMarket(next)
	return next, nil
}

// Reset relists every coin at its initial price with a flat history.
func (mc *MarketController) Reset(ctx context.Context) (*models.Market, error) {
	fresh := &models.Market{Items: game.InitialCoins()}
	if err := mc.store.ReplaceMarket(ctx, fresh); err != nil {
		return nil, err
	}
	mc.log.Warn("market reset to listing prices")
	mc.publishMarket(fresh)
	return fresh, nil
}

// SetForcedChange schedules a one-shot percentage move for a coin.
func (mc *MarketController) SetForcedChange(ctx context.Context, coinID string, percent float64) error {
	if coinID == "" || percent <= -100 {
		return ErrInvalidInput
	}
	if _, err := mc.Snapshot(ctx); err != nil {
		return err
	}
	if err := mc.store.SetForcedChange(ctx, coinID, percent); err != nil {
		return err
	}
	mc.log.Info("forced change set", slog.String("coin", coinID), slog.Float64("percent", percent))
	return nil
}

// News returns the ticker text; an unset ticker is empty.
func (mc *MarketController) News(ctx context.Context) (models.News, error) {
	n, err := mc.store.LoadNews(ctx)
	if errors.Is(err, db.ErrNotFound) {
		return models.News{}, nil
	}
	if err != nil {
		return models.News{}, err
	}
	return *n, nil
}

func (mc *MarketController) SetNews(ctx context.Context, text string) error {
	n := models.News{Text: text}
	if err := mc.store.SaveNews(ctx, n); err != nil {
		return err
	}
	mc.feed.Broadcast(models.WSMessage{Event: models.EventNews, Data: n})
	return nil
}

// FeedSnapshot is what a newly connected feed client receives first.
func (mc *MarketController) FeedSnapshot(ctx context.Context) []models.WSMessage {
	var out []models.WSMessage
	if m, err := mc.Snapshot(ctx); err == nil {
		out = append(out, models.WSMessage{Event: models.EventMarket, Data: m})
	} else {
		mc.log.Warn("feed snapshot: market", slog.String("error", err.Error()))
	}
	if n, err := mc.News(ctx); err == nil {
		out = append(out, models.WSMessage{Event: models.EventNews, Data: n})
	}
	return out
}

func (mc *MarketController) publishMarket(m *models.Market) {
	mc.feed.Broadcast(models.WSMessage{Event: models.EventMarket, Data: m})
}

func (mc *MarketController) GetMarketHandler(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	m, err := mc.Snapshot(ctx)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

func (mc *MarketController) GetNewsHandler(c *gin.Context) {
	ctx, cancel := requestContext(c)
	defer cancel()

	n, err := mc.News(ctx)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, n)
}
