package main

import (
	"fmt"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/frontdash/checkout/internal/config"
	"github.com/frontdash/checkout/internal/repository/postgres"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: go run cmd/migrate/main.go <up|down|version> [steps]")
		fmt.Println("Example: go run cmd/migrate/main.go down 1")
		os.Exit(1)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	switch os.Args[1] {
	case "up":
		if err := postgres.RunMigrations(db); err != nil {
			logger.Error("Failed to run migrations", zap.Error(err))
			os.Exit(1)
		}
	case "down":
		steps := 1
		if len(os.Args) > 2 {
			steps, err = strconv.Atoi(os.Args[2])
			if err != nil || steps < 1 {
				fmt.Fprintf(os.Stderr, "Invalid steps: %s\n", os.Args[2])
				os.Exit(1)
			}
		}
		if err := postgres.RollbackMigrations(db, steps); err != nil {
			logger.Error("Failed to roll back migrations", zap.Error(err))
			os.Exit(1)
		}
	case "version":
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		os.Exit(1)
	}

	version, dirty, err := postgres.MigrationVersion(db)
	if err != nil {
		logger.Error("Failed to read migration version", zap.Error(err))
		os.Exit(1)
	}

	fmt.Printf("✅ Schema version: %d (dirty: %t)\n", version, dirty)
}
