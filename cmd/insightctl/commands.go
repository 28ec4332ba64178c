package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/andresuchdata/cesto-ai/backend-go/internal/cache"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/config"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/forecast"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/ingest"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/insights"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/inventory"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/pricing"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/repository"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/repository/postgres"
	"github.com/andresuchdata/cesto-ai/backend-go/internal/service"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/urfave/cli/v2"
)

type dbKey struct{}

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:    "db-url",
		Usage:   "Database connection string",
		EnvVars: []string{"DATABASE_URL"},
	}
}

func newCSVFlag(usage string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "csv",
		Usage: usage,
	}
}

// initDB opens a pgx pool unless the command reads from a CSV file.
func initDB(c *cli.Context) error {
	if c.String("csv") != "" {
		return nil
	}

	url := c.String("db-url")
	if url == "" {
		url = postgres.DSN(&config.Load().Database)
	}

	db, err := sqlx.Open("pgx", url)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(c.Context); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	c.Context = context.WithValue(c.Context, dbKey{}, postgres.Wrap(db))
	return nil
}

func closeDB(c *cli.Context) error {
	if db, ok := c.Context.Value(dbKey{}).(*postgres.DB); ok && db != nil {
		return db.Close()
	}
	return nil
}

func dbFrom(c *cli.Context) (*postgres.DB, error) {
	db, ok := c.Context.Value(dbKey{}).(*postgres.DB)
	if !ok || db == nil {
		return nil, fmt.Errorf("no database connection")
	}
	return db, nil
}

func printJSON(c *cli.Context, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(c.App.Writer, string(out))
	return err
}

func forecastCommand() *cli.Command {
	return &cli.Command{
		Name:  "forecast",
		Usage: "Forecast daily demand for a product",
		Flags: []cli.Flag{
			newDBURLFlag(),
			newCSVFlag("Read sale records from a CSV file instead of the database"),
			&cli.StringFlag{Name: "product", Usage: "Product id", Required: true},
			&cli.StringFlag{Name: "from", Usage: "History start date (YYYY-MM-DD)"},
			&cli.StringFlag{Name: "to", Usage: "History end date (YYYY-MM-DD)"},
			&cli.IntFlag{Name: "days", Usage: "Forecast horizon in days", Value: service.DefaultForecastDays},
			&cli.BoolFlag{Name: "insights", Usage: "Ask the configured AI provider for commentary"},
		},
		Before: initDB,
		After:  closeDB,
		Action: runForecast,
	}
}

func runForecast(c *cli.Context) error {
	cfg := config.Load()

	var insightsSvc *insights.Service
	if c.Bool("insights") {
		gen, err := insights.NewGenerator(c.Context, cfg.AI)
		if err != nil {
			return err
		}
		if gen != nil {
			defer gen.Close()
		}
		insightsSvc = insights.NewService(gen, nil)
	}

	var salesRepo repository.SalesRepository
	if c.String("csv") == "" {
		db, err := dbFrom(c)
		if err != nil {
			return err
		}
		salesRepo = postgres.NewSalesRepository(db)
	}

	svc := service.NewForecastService(
		salesRepo,
		forecast.NewEngine(cfg.ForecastEngineConfig()),
		insightsSvc,
		nil,
		nil,
		service.ForecastOptions{MaxForecastDays: cfg.Forecast.MaxPredictionDays},
	)

	if path := c.String("csv"); path != "" {
		records, err := ingest.ReadSalesFile(path, c.String("product"))
		if err != nil {
			return err
		}
		days := c.Int("days")
		if days < 1 || days > cfg.Forecast.MaxPredictionDays {
			return fmt.Errorf("days must be between 1 and %d", cfg.Forecast.MaxPredictionDays)
		}
		return printJSON(c, svc.ForecastRecords(c.Context, c.String("product"), records, days))
	}

	q, err := svc.ParseQuery(c.String("product"), c.String("from"), c.String("to"), c.Int("days"))
	if err != nil {
		return err
	}
	resp, err := svc.Forecast(c.Context, q)
	if err != nil {
		return err
	}
	return printJSON(c, resp)
}

func optimizeCommand() *cli.Command {
	return &cli.Command{
		Name:  "optimize",
		Usage: "Build an inventory plan for a buyer",
		Flags: []cli.Flag{
			newDBURLFlag(),
			newCSVFlag("Read inventory lines from a CSV file instead of the database"),
			&cli.StringFlag{Name: "buyer", Usage: "Buyer id"},
		},
		Before: initDB,
		After:  closeDB,
		Action: func(c *cli.Context) error {
			optimizer := inventory.NewOptimizer(config.Load().OptimizerConfig())

			if path := c.String("csv"); path != "" {
				items, err := ingest.ReadInventoryFile(path)
				if err != nil {
					return err
				}
				return printJSON(c, optimizer.Optimize(items))
			}

			db, err := dbFrom(c)
			if err != nil {
				return err
			}
			svc := service.NewInventoryService(postgres.NewInventoryRepository(db), optimizer, nil)
			resp, err := svc.Optimize(c.Context, c.String("buyer"))
			if err != nil {
				return err
			}
			return printJSON(c, resp)
		},
	}
}

func priceCommand() *cli.Command {
	return &cli.Command{
		Name:  "price",
		Usage: "Recommend a price for a product from its category peers",
		Flags: []cli.Flag{
			newDBURLFlag(),
			&cli.StringFlag{Name: "product", Usage: "Product id", Required: true},
		},
		Before: initDB,
		After:  closeDB,
		Action: func(c *cli.Context) error {
			cfg := config.Load()
			db, err := dbFrom(c)
			if err != nil {
				return err
			}
			svc := service.NewPricingService(
				postgres.NewMarketRepository(db),
				pricing.NewRecommender(cfg.RecommenderConfig()),
				nil,
				cfg.Pricing.PeerLimit,
			)
			resp, err := svc.Recommend(c.Context, c.String("product"))
			if err != nil {
				return err
			}
			return printJSON(c, resp)
		},
	}
}

func cacheClearCommand() *cli.Command {
	return &cli.Command{
		Name:  "cache-clear",
		Usage: "Drop every cached insight from redis",
		Action: func(c *cli.Context) error {
			cacheCfg := config.Load().Cache
			cacheCfg.Enabled = true

			resultCache, err := cache.NewResultCache(cacheCfg)
			if err != nil {
				return err
			}
			if err := resultCache.InvalidateAll(c.Context); err != nil {
				return err
			}
			_, err = fmt.Fprintln(c.App.Writer, "Cache cleared successfully")
			return err
		},
	}
}
