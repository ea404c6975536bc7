package main

import (
	"fmt"

	"ledger/internal/database"
)

// openStore connects to the configured database and applies pending migrations.
func openStore() (*database.Manager, error) {
	dbConfig, err := database.NewConfig()
	if err != nil {
		return nil, fmt.Errorf("load database configuration: %w", err)
	}
	manager, err := database.NewManager(dbConfig)
	if err != nil {
		return nil, err
	}
	if err := manager.RunMigrations(); err != nil {
		_ = manager.Close()
		return nil, err
	}
	return manager, nil
}
