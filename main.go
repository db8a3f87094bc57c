package main

import (
	"context"
	"os"
	"woodzire_server/cmd"
	"woodzire_server/config"

	"github.com/MonkyMars/gecho"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

func main() {
	envErr := godotenv.Load()

	cfg := config.GetConfig()
	logger := config.InitializeLogger()

	if envErr != nil {
		logger.Warn("No .env file found or error loading .env file, proceeding with system environment variables")
	}

	// Money is serialised as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true

	if err := cmd.Run(context.Background(), cfg, logger); err != nil {
		logger.Error("Command failed", gecho.Field("error", err))
		os.Exit(1)
	}
}
