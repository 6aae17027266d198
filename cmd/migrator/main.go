package main

import (
	"context"
	"flag"
	"log"

	"github.com/UnknownOlympus/mnemosyne/internal/config"
	"github.com/UnknownOlympus/mnemosyne/internal/repository"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding goose migrations")
	flag.Parse()

	cfg := config.MustLoad()

	backend, err := repository.BackendFor(cfg.Database.URI)
	if err != nil {
		log.Fatalf("Failed to resolve database backend: %v", err)
	}
	if backend != repository.BackendPostgres {
		log.Printf("Backend %q keeps documents schemaless, nothing to migrate", backend)
		return
	}

	dbpool, dbErr := repository.NewPostgresPool(context.Background(), cfg.Database)
	if dbErr != nil {
		log.Fatalf("Failed to connect to DB: %v", dbErr)
	}
	defer dbpool.Close()

	if migrationErr := repository.Migrate(dbpool, *dir); migrationErr != nil {
		log.Fatal(migrationErr) //nolint:gocritic // pool is released by process exit
	}

	log.Println("✅ Migrations applied successfully")
}
