package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/andresuchdata/salesintel/backend-go/internal/cache"
	"github.com/andresuchdata/salesintel/backend-go/internal/config"
	"github.com/andresuchdata/salesintel/backend-go/internal/domain"
	"github.com/andresuchdata/salesintel/backend-go/internal/planner"
	"github.com/andresuchdata/salesintel/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/salesintel/backend-go/internal/service"
	"github.com/andresuchdata/salesintel/backend-go/internal/storage"
	"github.com/andresuchdata/salesintel/backend-go/pkg/logger"
	"github.com/urfave/cli/v2"
)

type ctxKey string

const dbKey ctxKey = "db"

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func initDB(c *cli.Context) error {
	db, err := postgres.NewDBFromURL(c.Context, c.String("db-url"))
	if err != nil {
		return err
	}

	// Test the connection
	if err := db.PingContext(c.Context); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey, db)
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey).(*postgres.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) (*postgres.DB, error) {
	db, ok := c.Context.Value(dbKey).(*postgres.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("database is not initialised")
	}
	return db, nil
}

func main() {
	cfg := config.Load()
	logger.SetOutput(os.Stderr)

	app := &cli.App{
		Name:  "planner",
		Usage: "Generate weekly visit plans and smart basket suggestions",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "generate",
				Usage: "Generate next week's plans for one or all active users",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:  "user-id",
						Usage: "Only plan for this user",
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Replace plans that already exist for the week",
					},
					&cli.TimestampFlag{
						Name:   "week-start",
						Usage:  "Plan the week containing this date (YYYY-MM-DD)",
						Layout: "2006-01-02",
					},
					&cli.IntFlag{
						Name:    "workers",
						Usage:   "Number of users planned concurrently",
						Value:   cfg.Planner.WorkerCount,
						EnvVars: []string{"PLANNER_WORKER_COUNT"},
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error {
					return runGenerate(c, cfg)
				},
			},
			{
				Name:  "undo",
				Usage: "Revert a generated week within its undo window",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:     "action-id",
						Usage:    "Action to revert",
						Required: true,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error {
					return runUndo(c, cfg)
				},
			},
			{
				Name:  "scores",
				Usage: "Print a user's retailers by visit priority",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:     "user-id",
						Usage:    "User whose retailers are scored",
						Required: true,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error {
					return runScores(c, cfg)
				},
			},
			{
				Name:  "suggest",
				Usage: "Print the smart basket of a retailer",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.StringFlag{
						Name:     "retailer-id",
						Usage:    "Retailer to build suggestions for",
						Required: true,
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: runSuggest,
			},
			{
				Name:  "archive",
				Usage: "Print the archived plan snapshots of a week",
				Flags: []cli.Flag{
					newDBURLFlag(),
					&cli.TimestampFlag{
						Name:   "week-start",
						Usage:  "Week containing this date (YYYY-MM-DD), defaults to the current week",
						Layout: "2006-01-02",
					},
				},
				Before: initDB,
				After:  closeDB,
				Action: func(c *cli.Context) error {
					return runArchive(c, cfg)
				},
			},
			{
				Name:  "flush-cache",
				Usage: "Drop every cached suggestion bundle",
				Action: func(c *cli.Context) error {
					return runFlushCache(c, cfg)
				},
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("planner failed")
	}
}

func newPlanService(c *cli.Context, cfg *config.Config, workers int) (*service.PlanService, error) {
	db, err := dbFrom(c)
	if err != nil {
		return nil, err
	}

	var archive service.PlanArchiver
	if cfg.Storage.Enabled {
		store, err := storage.NewMinioClient(c.Context, cfg.Storage)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Plan archive unavailable, continuing without archive")
		} else {
			archive = storage.NewPlanArchive(store)
		}
	}

	return service.NewPlanService(
		postgres.NewSalesRepository(db),
		postgres.NewPlanRepository(db),
		archive,
		workers,
		cfg.Planner.Location(),
	), nil
}

func runGenerate(c *cli.Context, cfg *config.Config) error {
	svc, err := newPlanService(c, cfg, c.Int("workers"))
	if err != nil {
		return err
	}

	req := domain.GenerationRequest{
		UserID:          c.String("user-id"),
		ForceRegenerate: c.Bool("force"),
	}
	if ts := c.Timestamp("week-start"); ts != nil {
		weekStart := planner.DateIn(*ts, cfg.Planner.Location())
		req.WeekStart = &weekStart
	}

	start := time.Now()
	report, err := svc.GenerateWeeklyPlans(c.Context, req)
	if err != nil {
		return err
	}
	logger.Log.Info().
		Dur("took", time.Since(start)).
		Int("success", report.Summary.Success).
		Int("skipped", report.Summary.Skipped).
		Int("error", report.Summary.Error).
		Msg("generation complete")

	return printJSON(report)
}

func runUndo(c *cli.Context, cfg *config.Config) error {
	svc, err := newPlanService(c, cfg, 1)
	if err != nil {
		return err
	}

	action, err := svc.UndoAction(c.Context, c.String("action-id"))
	if err != nil {
		return err
	}
	return printJSON(action)
}

func runScores(c *cli.Context, cfg *config.Config) error {
	svc, err := newPlanService(c, cfg, 1)
	if err != nil {
		return err
	}

	scores, err := svc.ScoreUserRetailers(c.Context, c.String("user-id"))
	if err != nil {
		return err
	}
	return printJSON(scores)
}

func runSuggest(c *cli.Context) error {
	db, err := dbFrom(c)
	if err != nil {
		return err
	}

	svc := service.NewBasketService(postgres.NewSalesRepository(db), cache.NewNoopSuggestionCache())
	bundle, err := svc.GetSuggestions(c.Context, c.String("retailer-id"))
	if err != nil {
		return err
	}
	return printJSON(bundle)
}

func runArchive(c *cli.Context, cfg *config.Config) error {
	svc, err := newPlanService(c, cfg, 1)
	if err != nil {
		return err
	}

	var weekStart *time.Time
	if ts := c.Timestamp("week-start"); ts != nil {
		day := planner.DateIn(*ts, cfg.Planner.Location())
		weekStart = &day
	}

	weeks, err := svc.ListArchivedWeek(c.Context, weekStart)
	if err != nil {
		return err
	}
	return printJSON(weeks)
}

func runFlushCache(c *cli.Context, cfg *config.Config) error {
	if !cfg.Cache.Enabled {
		logger.Log.Info().Msg("suggestion cache disabled, nothing to flush")
		return nil
	}

	suggestionCache, err := cache.NewSuggestionCache(cfg.Cache)
	if err != nil {
		return err
	}

	// the flush touches only redis, no sales data is read
	svc := service.NewBasketService(nil, suggestionCache)
	return svc.InvalidateAllSuggestions(c.Context)
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
