package main

import (
	"github.com/bellapacxx/sandbox-backend/config"
	"github.com/bellapacxx/sandbox-backend/utils/logger"
)

func main() {
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("[FATAL] Invalid configuration: %v", err)
	}
	if cfg.StoreDriver != config.DriverPostgres {
		logger.Fatalf("[FATAL] Migrations need STORE_DRIVER=postgres, got %q", cfg.StoreDriver)
	}
	if _, err := config.SetupDatabase(cfg); err != nil { // connects + migrates
		logger.Fatalf("[FATAL] Migration failed: %v", err)
	}
	logger.Info("✅ Database migration completed successfully")
}
