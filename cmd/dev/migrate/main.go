package main

import (
	"context"
	"log"

	"hotelservice/pkg/config"
	"hotelservice/pkg/db"
)

// Applies pending migrations, then opens a runtime pool once to confirm the
// service would come up against the migrated schema.
func main() {
	cfg := config.Load()
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "file://migrations"
	}

	if err := db.Migrate(cfg.MigrationsPath, cfg); err != nil {
		log.Fatalf("migrate failed: %v", err)
	}

	pool, err := db.Open(context.Background(), cfg)
	if err != nil {
		log.Fatalf("runtime db open failed: %v", err)
	}
	pool.Close()

	log.Println("migrations applied")
}
