// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/andresuchdata/salesintel/backend-go/internal/api"
	"github.com/andresuchdata/salesintel/backend-go/internal/batch"
	"github.com/andresuchdata/salesintel/backend-go/internal/cache"
	"github.com/andresuchdata/salesintel/backend-go/internal/config"
	"github.com/andresuchdata/salesintel/backend-go/internal/domain"
	"github.com/andresuchdata/salesintel/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/salesintel/backend-go/internal/service"
	"github.com/andresuchdata/salesintel/backend-go/internal/storage"
	"github.com/andresuchdata/salesintel/backend-go/pkg/logger"
	"github.com/gin-gonic/gin"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	suggestionCache, err := cache.NewSuggestionCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Suggestion cache unavailable, continuing without cache")
		suggestionCache = cache.NewNoopSuggestionCache()
	}

	var archive service.PlanArchiver
	if cfg.Storage.Enabled {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		store, err := storage.NewMinioClient(ctx, cfg.Storage)
		cancel()
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Plan archive unavailable, continuing without archive")
		} else {
			archive = storage.NewPlanArchive(store)
		}
	}

	// Initialize repositories and services
	salesRepo := postgres.NewSalesRepository(db)
	planRepo := postgres.NewPlanRepository(db)

	planService := service.NewPlanService(salesRepo, planRepo, archive, cfg.Planner.WorkerCount, cfg.Planner.Location())
	basketService := service.NewBasketService(salesRepo, suggestionCache)

	scheduleCtx, stopSchedule := context.WithCancel(context.Background())
	defer stopSchedule()
	if cfg.Planner.ScheduleEnabled {
		schedule := batch.WeeklySchedule{
			Weekday:  cfg.Planner.Weekday(),
			Hour:     cfg.Planner.ScheduleHour,
			Location: cfg.Planner.Location(),
		}
		go batch.RunWeekly(scheduleCtx, "weekly-plans", schedule, func(ctx context.Context) {
			if _, err := planService.GenerateWeeklyPlans(ctx, domain.GenerationRequest{}); err != nil {
				logger.Log.Error().Err(err).Msg("Scheduled plan generation failed")
			}
		})
	}

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		PlanService:   planService,
		BasketService: basketService,
	}, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")
	stopSchedule()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
