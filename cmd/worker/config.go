package main

import (
	"fmt"

	"github.com/joho/godotenv"

	"social-backend/internal/config"
	"social-backend/pkg/logger"
)

// loadConfig reads the shared application config. The worker only makes
// sense with a real queue, so the memory driver is rejected.
func loadConfig() (*config.Config, error) {
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger.Init(cfg.App.Environment, cfg.App.LogLevel)
	if envErr != nil {
		logger.Debug("No .env file found, using system environment variables")
	}

	if cfg.UsesMemoryStorage() {
		return nil, fmt.Errorf("worker requires STORAGE_DRIVER=%s", config.StorageDriverPostgres)
	}

	logger.Info("[Config] Worker configuration loaded", map[string]interface{}{
		"redis":       cfg.Redis.Host,
		"concurrency": cfg.Worker.Concurrency,
	})
	return cfg, nil
}
