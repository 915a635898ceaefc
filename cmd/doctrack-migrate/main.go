package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq" // PostgreSQL driver

	"github.com/epc-forge/doctrack/internal/migrate"
)

func main() {
	dsn := flag.String("dsn", "", "PostgreSQL connection string")
	help := flag.Bool("help", false, "Show help message")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "doctrack database migration tool\n\n")
		fmt.Fprintf(os.Stderr, "Applies all pending schema migrations. Run this before starting\n")
		fmt.Fprintf(os.Stderr, "the server; the server expects a pre-migrated database.\n\n")
		fmt.Fprintf(os.Stderr, "OPTIONS:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nEXAMPLE:\n\n")
		fmt.Fprintf(os.Stderr, "  %s -dsn=\"host=localhost user=postgres password=postgres dbname=doctrack port=5432 sslmode=disable\"\n\n", os.Args[0])
	}

	flag.Parse()

	if *help {
		flag.Usage()
		os.Exit(0)
	}

	if *dsn == "" {
		log.Fatal("Error: -dsn flag is required\n\nRun with -help for usage information.")
	}

	log.Printf("Connecting to database...")
	sqlDB, err := sql.Open("postgres", *dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	log.Printf("Running migrations...")
	if err := migrate.RunMigrations(sqlDB); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	log.Printf("All migrations completed successfully")
}
