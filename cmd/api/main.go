package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/ariefcatur/go-party-rentals.git/internal/catalog"
	"github.com/ariefcatur/go-party-rentals.git/internal/config"
	"github.com/ariefcatur/go-party-rentals.git/internal/httpx"
	kafkax "github.com/ariefcatur/go-party-rentals.git/internal/kafka"
	"github.com/ariefcatur/go-party-rentals.git/internal/kv"
	"github.com/ariefcatur/go-party-rentals.git/internal/logx"
	"github.com/ariefcatur/go-party-rentals.git/internal/orders"
	"github.com/ariefcatur/go-party-rentals.git/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger, err := logx.New(cfg.ServiceName, cfg.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Store
	store, closeStore, err := storage.Open(ctx, cfg)
	if err != nil {
		logger.Fatal("open store", zap.String("backend", cfg.StoreBackend), zap.Error(err))
	}
	defer closeStore()

	ledger, err := orders.Open(ctx, kv.Scoped(store, kv.ShopScope), logger)
	if err != nil {
		logger.Fatal("load orders", zap.Error(err))
	}

	h := &httpx.Handler{
		Catalog:  catalog.Default(),
		Store:    store,
		Orders:   ledger,
		Password: cfg.SessionPassword,
		Service:  cfg.ServiceName,
		Log:      logger,
	}

	// Kafka producers, hanya kalau broker di-set
	var producers []*kafkax.Producer
	if len(cfg.KafkaBrokers) > 0 {
		created := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024, logger)
		status := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatus, 1024, logger)
		created.Start(ctx)
		status.Start(ctx)
		h.Created, h.StatusChanged = created, status
		producers = append(producers, created, status)
	} else {
		logger.Info("KAFKA_BROKERS empty, order events disabled")
	}

	router := httpx.NewRouter(logger)
	h.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router, ReadHeaderTimeout: 5 * time.Second}

	// graceful shutdown
	go func() {
		logger.Info("HTTP listening", zap.String("addr", cfg.HTTPAddr), zap.String("store", cfg.StoreBackend))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	logger.Info("shutting down")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	for _, p := range producers {
		p.Close() // flush sisa pesan
	}
	for _, p := range producers {
		p.WaitClosed()
	}
	cancel()
}
