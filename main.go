package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"coin-market/auth"
	"coin-market/cache"
	"coin-market/config"
	"coin-market/controllers"
	"coin-market/db"
	"coin-market/game"
	"coin-market/models"
	"coin-market/routes"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to the TOML config file")
	flag.Parse()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", slog.String("path", *configPath), slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("server exited", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	client, err := db.Connect(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(dctx)
	}()

	store := db.NewStore(client.Database(cfg.Mongo.Database))
	if err := store.EnsureIndexes(ctx); err != nil {
		return err
	}

	hub := models.NewHub(logger)
	go hub.Run(ctx)

	var (
		feed     controllers.Broadcaster = hub
		locker   controllers.Locker      = cache.NewLocalLocker()
		denylist auth.Denylist           = cache.NewMemoryDenylist()
	)
	if cfg.Redis.Enabled {
		rc, err := cache.New(ctx, cfg.Redis)
		if err != nil {
			return err
		}
		defer rc.Close()

		relay := cache.NewRelay(rc, hub, logger)
		go func() {
			if err := relay.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("feed relay stopped, delivering to local clients only", slog.String("error", err.Error()))
			}
		}()
		feed = relay
		locker = cache.NewRedisLocker(rc)
		denylist = cache.NewRedisDenylist(rc)
		logger.Info("redis enabled", slog.String("addr", cfg.Redis.Addr))
	}

	loc := game.Zone(cfg.Game.UTCOffsetHours)
	tokens := auth.NewService(cfg.Auth, denylist)

	market := controllers.NewMarketController(store, feed, loc, game.DefaultRand, logger)
	trades := controllers.NewTradeController(market, store, loc, logger)
	accounts := controllers.NewAccountController(tokens, store, store, market, cfg.Game, loc, logger)
	rankings := controllers.NewRankingController(market, store, store, loc, cfg.Game.RankingLimit, logger)
	admin := controllers.NewAdminController(market, rankings, store, logger)

	scheduler := controllers.NewScheduler(market, rankings, locker, cfg.Game.TickInterval, logger)
	go scheduler.Start(ctx)
	defer scheduler.Stop()

	r := gin.Default()
	routes.Setup(r, routes.Deps{
		Hub:         hub,
		Tokens:      tokens,
		Users:       store,
		Market:      market,
		Trades:      trades,
		Accounts:    accounts,
		Rankings:    rankings,
		Admin:       admin,
		CORSOrigins: cfg.Server.CORSOrigins,
		Log:         logger,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server running", slog.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(sctx)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
