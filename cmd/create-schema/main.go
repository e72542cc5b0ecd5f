package main

import (
	"fmt"
	"log"
	"os"

	"mailcraft-backend/config"
	"mailcraft-backend/repository"

	"github.com/spf13/pflag"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		log.Printf("Warning: %v", err)
	}

	down := pflag.Bool("down", false, "roll back all migrations instead of applying them")
	pflag.Parse()

	connString := os.Getenv("DATABASE_URL")
	if connString == "" {
		connString = config.DefaultDatabaseURL
		log.Println("Warning: DATABASE_URL not set, using default connection string")
	}

	migrator, err := repository.NewMigrator(connString)
	if err != nil {
		log.Fatalf("Failed to initialize migrations: %v", err)
	}
	defer migrator.Close()

	if *down {
		if err := migrator.Down(); err != nil {
			log.Fatalf("Failed to roll back migrations: %v", err)
		}
		log.Println("✓ All migrations rolled back")
		return
	}

	if err := migrator.Up(); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	version, dirty, err := migrator.Version()
	if err != nil {
		log.Fatalf("Failed to read schema version: %v", err)
	}
	fmt.Printf("✓ Schema is at version %d (dirty: %t)\n", version, dirty)
}
