package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"bookshare/internal/catalog"
	"bookshare/internal/platform/config"

	"github.com/jackc/pgx/v5/pgxpool"
)

// seed copies a JSON catalog into the Postgres tables read by
// catalog.PostgresSource.
func main() {
	file := flag.String("file", "public/books.json", "JSON catalog to import")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	books, err := catalog.NewFileSource(*file).Fetch(ctx)
	if err != nil {
		log.Fatalf("Failed to read %s: %v", *file, err)
	}

	pool, err := pgxpool.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pool.Close()

	log.Printf("Importing %d books from %s...", len(books), *file)
	if err := catalog.SeedPostgres(ctx, pool, books); err != nil {
		log.Printf("Failed to import books: %v", err)
		pool.Close()
		os.Exit(1)
	}

	var total, reviews int
	if err := pool.QueryRow(ctx, "SELECT (SELECT COUNT(*) FROM books), (SELECT COUNT(*) FROM reviews)").Scan(&total, &reviews); err != nil {
		log.Printf("Failed to verify import: %v", err)
		return
	}
	log.Printf("Successfully imported %d books with %d reviews", total, reviews)
}
