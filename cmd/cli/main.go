package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/bookflix/internal/client/cli"
	"github.com/dmitrijs2005/bookflix/internal/client/config"
	"github.com/dmitrijs2005/bookflix/internal/logging"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := logging.New(os.Stderr, cfg.LogLevel)

	app, err := cli.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	app.Run(ctx)

}
