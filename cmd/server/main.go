// cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/estoquelab/estoque-advisor/internal/api"
	"github.com/estoquelab/estoque-advisor/internal/cache"
	"github.com/estoquelab/estoque-advisor/internal/config"
	"github.com/estoquelab/estoque-advisor/internal/engine"
	"github.com/estoquelab/estoque-advisor/internal/repository"
	"github.com/estoquelab/estoque-advisor/internal/repository/postgres"
	"github.com/estoquelab/estoque-advisor/internal/service"
	"github.com/estoquelab/estoque-advisor/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	dashboardCache, err := cache.NewDashboardCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("dashboard cache unavailable, running without cache")
		dashboardCache = cache.NewNoopDashboardCache()
	}

	thresholds := engine.DefaultThresholds()
	thresholds.TargetCoverDays = cfg.Engine.TargetCoverDays
	thresholds.TopMoversLimit = cfg.Engine.TopMoversLimit
	thresholds.MixSelectionLimit = cfg.Engine.MixSelectionLimit

	advisory := service.NewAdvisoryService(
		engine.New(thresholds),
		repository.NewSnapshotRepository(db),
		dashboardCache,
	)

	router := api.NewRouter(advisory, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
