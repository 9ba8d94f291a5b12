package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/dmitrijs2005/ragkeeper/internal/buildinfo"
	"github.com/dmitrijs2005/ragkeeper/internal/logging"
	"github.com/dmitrijs2005/ragkeeper/internal/server"
	"github.com/dmitrijs2005/ragkeeper/internal/server/config"
	"github.com/joho/godotenv"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	// .env is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("reading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx := context.Background()
	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel)
	if cfg.SecretGenerated {
		logger.Warn(ctx, "no signing secret configured, using a random one for this process; tokens will not survive a restart")
	}

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, "startup failed", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	app.Run(ctx)
}
