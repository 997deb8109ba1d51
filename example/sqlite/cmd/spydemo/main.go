package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/kaldera-labs/sqlspy-go/example/sqlite/internal/config"
	"github.com/kaldera-labs/sqlspy-go/example/sqlite/internal/database"
	"github.com/kaldera-labs/sqlspy-go/example/sqlite/internal/telemetry"
)

func main() {
	ctx := context.Background()

	// 1. Setup OpenTelemetry tracing
	shutdownTracing, err := telemetry.Setup(ctx)
	if err != nil {
		log.Fatalf("Failed to setup OTel: %v", err)
	}
	defer shutdownTracing(ctx)

	// 2. A debug-level logger opens the facade's gate, so every
	// connection gets the SQL dump treatment.
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(zerolog.DebugLevel).
		With().Timestamp().Logger()

	// 3. Open the database through the facade
	db, err := database.New(logger)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	if err := db.CreateTable(ctx); err != nil {
		log.Fatalf("Failed to create table: %v", err)
	}

	// 4. Run database operations in a loop to generate output
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	ticker := time.NewTicker(time.Duration(config.OperationInterval) * time.Second)
	defer ticker.Stop()

	fmt.Println("sqlspy example app started, press Ctrl+C to stop")

	for {
		select {
		case <-ticker.C:
			if err := db.InsertUsers(ctx); err != nil {
				log.Printf("Failed to insert users: %v", err)
			}
			if err := db.QueryUsers(ctx); err != nil {
				log.Printf("Failed to query users: %v", err)
			}
			if n, err := db.CountUsers(ctx); err != nil {
				log.Printf("Failed to count users: %v", err)
			} else {
				log.Printf("✓ %d users in table", n)
			}
			if err := db.TrimWithTransaction(ctx); err != nil {
				log.Printf("Failed to trim users: %v", err)
			}

		case <-sigChan:
			fmt.Println("\nShutting down...")
			return
		}
	}
}
