// Command rentalctl is the back-office CLI: it reads the catalog and works
// on the shared order ledger in whatever store STORE_BACKEND points at.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-party-rentals.git/internal/config"
	"github.com/ariefcatur/go-party-rentals.git/internal/kv"
	"github.com/ariefcatur/go-party-rentals.git/internal/logx"
	"github.com/ariefcatur/go-party-rentals.git/internal/storage"
)

var Version = "dev"

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	logger, err := logx.New(cfg.ServiceName+"-ctl", cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	a := &app{
		open: func(ctx context.Context) (kv.Store, func(), error) {
			return storage.Open(ctx, cfg)
		},
		brokers: cfg.KafkaBrokers,
		service: cfg.ServiceName + "-ctl",
		log:     logger,
	}
	root := newRootCmd(a)
	root.Version = Version
	if err := root.Execute(); err != nil {
		logger.Debug("command failed", zap.Error(err))
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
