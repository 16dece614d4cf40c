package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/bookflix/internal/devapi"
	"github.com/dmitrijs2005/bookflix/internal/devapi/config"
	"github.com/dmitrijs2005/bookflix/internal/logging"
)

func main() {

	cfg := config.LoadConfig()
	logger := logging.New(os.Stderr, "info")

	app := devapi.NewApp(cfg, logger)
	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}

}
