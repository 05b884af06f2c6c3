package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/hawkins/internal/services"
	"github.com/desertthunder/hawkins/internal/shared"
	"github.com/urfave/cli/v3"
)

const version = "0.3.0"

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config.toml, using defaults", "error", err)
		}
	}
	shared.SetLogLevel(logger, shared.ParseLogLevel(config.Logging.Level))

	services.UserAgent = "hawkins/" + version
	apiService := services.NewAPIService(config.Remote.BaseURL, nil)

	runner := NewRunner(RunnerOpts{
		Config: config,
		API:    apiService,
		Logger: logger,
	})
	defer runner.Close()

	app := &cli.Command{
		Name:     "hawkins",
		Usage:    "Operator console for the Stranger APIs escape exercise",
		Version:  version,
		Commands: runner.register(),
		Action:   runner.Dashboard,
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			runner.Close()
			os.Exit(0)
		}
		runner.Close()
		logger.Fatalf("application error: %v", err)
	}
}
