package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/abelyansky/travelbook/config"
	"github.com/abelyansky/travelbook/internal/service/bookings"
	"github.com/abelyansky/travelbook/internal/transport"
)

// The worker keeps a service's cache warm by re-listing bookings and
// refreshing statistics on a fixed interval. Subscribers attached to the
// same service see every refresh without issuing their own fetches.
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	client := transport.NewClient(cfg.API)
	svc := bookings.NewService(client, bookings.WithSubscriberBuffer(cfg.Cache.SubscriberBuffer))

	interval := time.Duration(cfg.Worker.RefreshSeconds) * time.Second
	if interval <= 0 {
		interval = time.Minute
	}

	refreshTicker := time.NewTicker(interval)
	defer refreshTicker.Stop()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-refreshTicker.C:
			list, err := svc.List(ctx, transport.ListCriteria{})
			if err != nil {
				log.Printf("refresh bookings error: %v", err)
				continue
			}
			if _, err := svc.RefreshStatistics(ctx); err != nil {
				log.Printf("refresh statistics error: %v", err)
				continue
			}
			log.Printf("refreshed %d bookings", len(list))
		case s := <-sig:
			log.Printf("received signal %v, shutting down", s)
			return
		}
	}
}
