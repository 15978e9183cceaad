package main

import (
	"context"
	"errors"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"social-backend/internal/config"
	"social-backend/internal/domains/user"
	"social-backend/internal/shared/policy"
	"social-backend/pkg/container"
	"social-backend/pkg/logger"
)

// seed creates the first admin account. Running it again is a no-op.
func main() {
	if err := run(); err != nil {
		logger.Error("[Seed] Failed", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Init(cfg.App.Environment, cfg.App.LogLevel)

	if cfg.UsesMemoryStorage() {
		return errors.New("seeding the memory driver has no effect; set STORAGE_DRIVER=postgres")
	}
	if cfg.Seed.AdminPassword == "" {
		return errors.New("SEED_ADMIN_PASSWORD must be set")
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return err
	}
	defer c.Cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	admin, created, err := c.UserService.EnsureUser(ctx, user.RegisterRequest{
		Username: cfg.Seed.AdminUsername,
		Password: cfg.Seed.AdminPassword,
		FullName: cfg.Seed.AdminFullName,
	}, policy.RoleAdmin)
	if err != nil {
		return err
	}

	if !created {
		log.Info().Str("username", admin.Username).Str("role", string(admin.Role)).Msg("[Seed] Admin already exists")
		return nil
	}
	log.Info().Str("username", admin.Username).Str("id", admin.ID.String()).Msg("[Seed] Admin created")
	return nil
}
