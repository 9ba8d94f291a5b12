package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/ragkeeper/internal/ingest"
	"github.com/dmitrijs2005/ragkeeper/internal/logging"
	"github.com/dmitrijs2005/ragkeeper/internal/server/config"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("reading .env: %v", err)
	}

	cfg, err := config.LoadShared(os.Args[1:], os.LookupEnv)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	opts, err := ingest.ParseOptions(os.Args[1:], cfg)
	if err != nil {
		log.Fatalf("flags: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := logging.New(os.Stdout, cfg.LogFormat, cfg.LogLevel).With("module", "ingest")
	res, err := ingest.Execute(ctx, cfg, opts, logger)
	if err != nil {
		logger.Error(ctx, "ingestion failed", "error", err)
		os.Exit(1)
	}
	logger.Info(ctx, "ingestion finished", "documents", res.Documents, "passages", res.Passages, "upserted", res.Upserted)
}
