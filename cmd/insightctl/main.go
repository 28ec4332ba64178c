package main

import (
	"os"

	"github.com/andresuchdata/cesto-ai/backend-go/pkg/logger"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logger.Log.Debug().Err(err).Msg("could not load .env file")
	}

	if err := newApp().Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("insightctl failed")
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "insightctl",
		Usage: "Run demand forecasts, inventory plans and price checks from the command line",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.SetLevel(c.String("log-level"))
			return nil
		},
		Commands: []*cli.Command{
			forecastCommand(),
			optimizeCommand(),
			priceCommand(),
			cacheClearCommand(),
		},
	}
}
