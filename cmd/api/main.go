package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/anordqvist/shopdesk/internal/catalog"
	"github.com/anordqvist/shopdesk/internal/clock"
	"github.com/anordqvist/shopdesk/internal/config"
	"github.com/anordqvist/shopdesk/internal/customers"
	"github.com/anordqvist/shopdesk/internal/events"
	"github.com/anordqvist/shopdesk/internal/httpx"
	"github.com/anordqvist/shopdesk/internal/inventory"
	"github.com/anordqvist/shopdesk/internal/orders"
	"github.com/anordqvist/shopdesk/internal/postgres"
	"github.com/anordqvist/shopdesk/internal/redisx"
	"github.com/anordqvist/shopdesk/internal/reports"
	"github.com/anordqvist/shopdesk/migrations"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	if err := migrations.Apply(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	var prod *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		prod = events.NewProducer(cfg.KafkaBrokers, events.TopicOrderCommitted, 1024)
		prod.Start(ctx)
	}

	clk := clock.NewSystem()

	var codec customers.Codec = customers.PlainCodec{}
	if cfg.ObfuscateEmail {
		codec = customers.XORCodec{Key: 0x5A}
	}

	customerSvc := customers.NewService(&customers.Repo{DB: db}, codec, clk)
	catalogSvc := catalog.NewService(&catalog.Repo{DB: db})
	ledger := inventory.NewLedger(&inventory.Repo{DB: db}, clk)
	orderRepo := &orders.Repo{DB: db}

	router := httpx.NewRouter()
	oh := &httpx.OrdersHandler{
		Builder:     orders.NewBuilder(customerSvc, catalogSvc, ledger, clk),
		Coordinator: orders.NewCoordinator(orderRepo, ledger),
		Orders:      orderRepo,
		Catalog:     catalogSvc,
		Redis:       rdb,
		Producer:    prod,
		Service:     cfg.ServiceName,
	}
	oh.Register(router)
	rh := &httpx.ReportsHandler{
		Reports: reports.NewService(&reports.Repo{DB: db}),
		Redis:   rdb,
	}
	rh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	// Reservations left behind by crashed clients are swept periodically.
	g.Go(func() error {
		tick := time.NewTicker(cfg.ReservationTTL / 2)
		defer tick.Stop()
		for {
			select {
			case <-gctx.Done():
				return nil
			case <-tick.C:
				if n, err := ledger.ReleaseStale(gctx, cfg.ReservationTTL); err != nil {
					log.Printf("release stale reservations: %v", err)
				} else if n > 0 {
					log.Printf("released %d stale reservations", n)
				}
			}
		}
	})

	g.Go(func() error {
		<-gctx.Done()
		shutCtx, shutCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutCancel()
		return srv.Shutdown(shutCtx)
	})

	if err := g.Wait(); err != nil {
		log.Printf("shutdown: %v", err)
	}

	if prod != nil {
		prod.Close()
		prod.WaitClosed()
	}
}
