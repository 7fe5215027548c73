package controllers

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"coin-market/auth"
	"coin-market/cache"
	"coin-market/config"
	"coin-market/game"
	"coin-market/models"
)

// 2025-12-12 15:05 in UTC+9.
var testNow = time.Date(2025, 12, 12, 6, 5, 0, 0, time.UTC)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// steady keeps random-walk prices where they are.
func steady() float64 { return 0.5 }

type fixture struct {
	store    *memStore
	feed     *recorder
	loc      *time.Location
	auth     *auth.Service
	market   *MarketController
	trades   *TradeController
	accounts *AccountController
	rankings *RankingController
	admin    *AdminController
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := newMemStore()
	feed := &recorder{}
	loc := game.Zone(9)
	log := quietLogger()

	svc := auth.NewService(config.AuthConfig{
		JWTSecret:         "test-secret",
		TokenTTL:          time.Hour,
		EmailDomain:       "urlcoin.game",
		MinPasswordLength: 6,
	}, cache.NewMemoryDenylist())

	market := NewMarketController(store, feed, loc, steady, log)
	trades := NewTradeController(market, store, loc, log)
	trades.now = func() time.Time { return testNow }
	accounts := NewAccountController(svc, store, store, market, config.Defaults().Game, loc, log)
	accounts.now = func() time.Time { return testNow }
	rankings := NewRankingController(market, store, store, loc, game.DefaultRankingLimit, log)

	return &fixture{
		store:    store,
		feed:     feed,
		loc:      loc,
		auth:     svc,
		market:   market,
		trades:   trades,
		accounts: accounts,
		rankings: rankings,
		admin:    NewAdminController(market, rankings, store, log),
	}
}

func player(uid, nickname string, cash int64) *models.User {
	return &models.User{
		UID:      uid,
		Nickname: nickname,
		Cash:     cash,
		Holdings: map[string]models.Holding{},
	}
}
