package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/dentacare/internal/buildinfo"
	"github.com/dmitrijs2005/dentacare/internal/client/cli"
	"github.com/dmitrijs2005/dentacare/internal/client/config"
	"github.com/dmitrijs2005/dentacare/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := logging.NewTextLogger(os.Stderr, cfg.LogLevel)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}

	app.Run(ctx)

}
