package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-live-inventory/config"
	"github.com/oksasatya/go-live-inventory/internal/application"
	"github.com/oksasatya/go-live-inventory/internal/domain/entity"
	"github.com/oksasatya/go-live-inventory/internal/domain/repository"
	pginfra "github.com/oksasatya/go-live-inventory/internal/infrastructure/postgres"
	"github.com/oksasatya/go-live-inventory/pkg/helpers"
)

var demoItems = []entity.ItemInput{
	{Name: "Laptop Stand", Quantity: "12", Price: "34.90", Description: "Aluminium, adjustable height", Category: "Office"},
	{Name: "USB-C Cable", Quantity: "80", Price: "7.5", Description: "1m, braided", Category: "Cables"},
	{Name: "Mechanical Keyboard", Quantity: "5", Price: "119", Description: "Brown switches", Category: "Peripherals"},
	{Name: "Desk Lamp", Quantity: "0", Price: "29.99", Description: "Warm white LED", Category: "Office"},
}

func main() {
	_ = godotenv.Load()
	uid := flag.String("uid", "", "user id whose inventory is seeded")
	flag.Parse()
	if *uid == "" {
		log.Fatal("-uid is required")
	}

	cfg := config.Load()
	if cfg.StoreDriver != config.DriverPostgres {
		log.Fatalf("seeding needs STORE_DRIVER=%s, got %q", config.DriverPostgres, cfg.StoreDriver)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}

	store := pginfra.NewDocumentStore(pool, logger)
	collection := repository.InventoryCollection(cfg.AppID, *uid)
	for _, in := range demoItems {
		id, err := store.Add(ctx, collection, application.NewRecord(in, time.Now()))
		if err != nil {
			log.Fatalf("failed to seed %q: %v", in.Name, err)
		}
		fmt.Printf("seeded item: id=%s name=%s\n", id, in.Name)
	}
	fmt.Printf("seeded %d items into %s\n", len(demoItems), collection)
}
