// Command migrate applies the database schema. Connect skips AutoMigrate
// in production, so deploys run this explicitly before starting the API.
package main

import (
	"fmt"
	"log"

	"murmur/internal/config"
	"murmur/internal/database"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}

	if err := database.Migrate(db); err != nil {
		return err
	}

	log.Println("schema migration applied")
	return nil
}
