package main

import (
	"context"
	"log"
	"os"

	"github.com/anordqvist/shopdesk/internal/admin"
	"github.com/anordqvist/shopdesk/internal/catalog"
	"github.com/anordqvist/shopdesk/internal/cli"
	"github.com/anordqvist/shopdesk/internal/clock"
	"github.com/anordqvist/shopdesk/internal/config"
	"github.com/anordqvist/shopdesk/internal/customers"
	"github.com/anordqvist/shopdesk/internal/events"
	"github.com/anordqvist/shopdesk/internal/inventory"
	"github.com/anordqvist/shopdesk/internal/orders"
	"github.com/anordqvist/shopdesk/internal/postgres"
	"github.com/anordqvist/shopdesk/internal/reports"
	"github.com/anordqvist/shopdesk/migrations"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	if err := migrations.Apply(ctx, db); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	clk := clock.NewSystem()

	var codec customers.Codec = customers.PlainCodec{}
	if cfg.ObfuscateEmail {
		codec = customers.XORCodec{Key: 0x5A}
	}

	customerSvc := customers.NewService(&customers.Repo{DB: db}, codec, clk)
	catalogSvc := catalog.NewService(&catalog.Repo{DB: db})
	adminSvc := admin.NewService(&admin.Repo{DB: db})

	ledger := inventory.NewLedger(&inventory.Repo{DB: db}, clk)
	orderRepo := &orders.Repo{DB: db}
	builder := orders.NewBuilder(customerSvc, catalogSvc, ledger, clk)
	coordinator := orders.NewCoordinator(orderRepo, ledger)

	// Debits leaked by crashed sessions are swept on startup.
	if n, err := ledger.ReleaseStale(ctx, cfg.ReservationTTL); err != nil {
		log.Printf("release stale reservations: %v", err)
	} else if n > 0 {
		log.Printf("released %d stale reservations", n)
	}

	var orderEvents, customerEvents *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		orderEvents = events.NewProducer(cfg.KafkaBrokers, events.TopicOrderCommitted, 1024)
		orderEvents.Start(ctx)
		customerEvents = events.NewProducer(cfg.KafkaBrokers, events.TopicCustomerDeleted, 1024)
		customerEvents.Start(ctx)
	}

	app := &cli.App{
		Prompt:      cli.NewPrompter(os.Stdin, os.Stdout),
		Admins:      adminSvc,
		Customers:   customerSvc,
		Catalog:     catalogSvc,
		Builder:     builder,
		Coordinator: coordinator,
		Orders:      orderRepo,
		Reports:     reports.NewService(&reports.Repo{DB: db}),

		OrderEvents:    orderEvents,
		CustomerEvents: customerEvents,
		ServiceName:    cfg.ServiceName,
	}

	runErr := app.Run(ctx)

	if orderEvents != nil {
		orderEvents.Close()
		orderEvents.WaitClosed()
	}
	if customerEvents != nil {
		customerEvents.Close()
		customerEvents.WaitClosed()
	}

	if runErr != nil {
		log.Fatalf("session: %v", runErr)
	}
}
