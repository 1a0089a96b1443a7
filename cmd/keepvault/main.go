package main

import (
	"context"
	"log"
	"os"

	"github.com/keepvault/keepvault/internal/cli"
	"github.com/keepvault/keepvault/internal/logging"
)

func main() {
	ctx := context.Background()

	cfg, err := cli.LoadConfig()
	if err != nil {
		log.Fatalf("%v", err)
	}

	app := cli.NewApp(cfg, logging.NewDefault(cfg.LogLevel))

	if err := app.Execute(ctx); err != nil {
		os.Exit(1)
	}
}
