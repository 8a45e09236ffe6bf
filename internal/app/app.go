package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/dev-tective/DraftLabs/internal/config"
	"github.com/dev-tective/DraftLabs/internal/database"
	"github.com/dev-tective/DraftLabs/internal/httpapi"
	"github.com/dev-tective/DraftLabs/internal/hub"
	"github.com/dev-tective/DraftLabs/internal/logger"
	"github.com/dev-tective/DraftLabs/internal/metrics"
	"github.com/dev-tective/DraftLabs/internal/middleware"
	"github.com/dev-tective/DraftLabs/internal/repository"
)

// Run wires the service together and blocks until ctx is cancelled or
// the server fails.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, err := logger.New(cfg.App.Env)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	if err := database.RunMigrations(cfg.Database.URL); err != nil {
		return err
	}

	pool, err := database.NewPool(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer pool.Close()

	gormDB, err := database.NewGorm(cfg.Database.URL)
	if err != nil {
		return err
	}

	mc := metrics.NewCollector()
	slots := repository.NewSlotRepository(pool, log)
	matches := repository.NewMatchRepository(gormDB)
	heroes := repository.NewHeroRepository(gormDB)

	drafts := hub.NewHub(ctx, slots, log, mc)
	handlers := httpapi.NewHandlers(matches, heroes, log)
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           httpapi.SetupRoutes(handlers, drafts, mc, limiter, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("listening", zap.String("addr", srv.Addr), zap.String("env", cfg.App.Env))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		drafts.Inbox() <- hub.ShutdownHub{}

		shutCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})

	return g.Wait()
}
