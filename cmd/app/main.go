package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/abelyansky/travelbook/config"
	"github.com/abelyansky/travelbook/internal/bootstrap"
	"github.com/abelyansky/travelbook/internal/service/bookings"
	"github.com/abelyansky/travelbook/internal/transport"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := transport.NewClient(cfg.API)
	svc := bookings.NewService(client, bookings.WithSubscriberBuffer(cfg.Cache.SubscriberBuffer))

	// Warm the cache before serving; a cold backend is not fatal, the
	// dashboard can refresh on demand.
	if _, err := svc.List(ctx, transport.ListCriteria{}); err != nil {
		log.Printf("initial booking list failed: %v", err)
	}
	if _, err := svc.RefreshStatistics(ctx); err != nil {
		log.Printf("initial statistics fetch failed: %v", err)
	}

	if err := bootstrap.Run(ctx, cfg, svc); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
