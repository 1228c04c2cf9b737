package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/anordqvist/shopdesk/internal/config"
	"github.com/anordqvist/shopdesk/internal/events"
	"github.com/anordqvist/shopdesk/internal/redisx"
	"github.com/anordqvist/shopdesk/internal/reports"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	if len(cfg.KafkaBrokers) == 0 {
		log.Fatal("KAFKA_BROKERS must be set for the sales feed")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	feed := &reports.Feed{
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-salesfeed",
	}

	group := getenv("SALESFEED_GROUP", "salesfeed")
	workers := mustAtoi(os.Getenv("SALESFEED_WORKERS"), 4)
	cons := events.NewConsumer(cfg.KafkaBrokers, group, events.TopicOrderCommitted, workers)

	go func() {
		log.Printf("salesfeed consumer started: group=%s topic=%s workers=%d", group, events.TopicOrderCommitted, workers)
		if err := cons.Start(ctx, feed.HandleOrderCommitted); err != nil {
			log.Printf("consumer exit: %v", err)
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Println("shutting down consumer...")
	cancel()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
