// Package bootstrap wires the configured store and cache at startup.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"sonic/internal/auth"
	"sonic/internal/cache"
	"sonic/internal/config"
	"sonic/internal/database"
	"sonic/internal/middleware"
	"sonic/internal/models"
	"sonic/internal/repository"
	"sonic/internal/validation"

	"github.com/redis/go-redis/v9"
)

// InitRuntime connects the store selected by cfg.StoreDriver and Redis,
// provisions indexes or migrations, and ensures the seeded admin exists.
// A nil Redis client is returned when Redis is unreachable.
func InitRuntime(ctx context.Context, cfg *config.Config) (*repository.Store, *redis.Client, error) {
	store, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	if err := EnsureAdmin(ctx, cfg, store.Users, auth.NewPBKDF2Hasher()); err != nil {
		_ = store.Close(ctx)
		return nil, nil, fmt.Errorf("failed to bootstrap admin account: %w", err)
	}

	return store, cache.InitRedis(ctx, cfg.RedisURL), nil
}

// OpenStore connects the configured backend and returns its repositories.
func OpenStore(ctx context.Context, cfg *config.Config) (*repository.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreMongo:
		client, db, err := database.ConnectMongo(ctx, cfg)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		if err := database.EnsureMongoIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("failed to ensure indexes: %w", err)
		}
		return repository.NewMongoStore(db), nil
	case config.StorePostgres, config.StoreSQLite:
		db, err := database.Connect(cfg, repository.PersistentModels()...)
		if err != nil {
			return nil, fmt.Errorf("database connection failed: %w", err)
		}
		return repository.NewGormStore(db, cfg.StoreDriver), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}

// EnsureAdmin creates the configured admin account when it is missing.
// An existing non-admin user with the same email is never promoted; startup fails instead.
func EnsureAdmin(ctx context.Context, cfg *config.Config, users repository.UserRepository, hasher auth.PasswordHasher) error {
	if cfg == nil || !cfg.AdminSeedEnabled {
		return nil
	}

	email := strings.ToLower(strings.TrimSpace(cfg.AdminSeedEmail))
	if email == "" {
		return errors.New("ADMIN_SEED_EMAIL must be set when the admin seed is enabled")
	}
	if err := validation.ValidatePassword(cfg.AdminSeedPassword); err != nil {
		return fmt.Errorf("ADMIN_SEED_PASSWORD: %w", err)
	}
	displayName := strings.TrimSpace(cfg.AdminSeedDisplayName)
	if displayName == "" {
		displayName = "Sonic Admin"
	}

	existing, err := users.GetByEmail(ctx, email)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return createAdmin(ctx, users, hasher, email, cfg.AdminSeedPassword, displayName)
	case err != nil:
		return fmt.Errorf("look up admin: %w", err)
	}

	if !existing.IsAdmin() {
		return fmt.Errorf("user %s exists but is not an admin; refusing to promote automatically", email)
	}

	if !cfg.AdminSeedResetPassword {
		middleware.Logger.Info("Admin account present", slog.String("email", email))
		return nil
	}

	hash, err := hasher.Hash(cfg.AdminSeedPassword)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	if err := existing.SetPasswordHash(hash); err != nil {
		return err
	}
	if err := users.Update(ctx, existing); err != nil {
		return fmt.Errorf("reset admin password: %w", err)
	}
	middleware.Logger.Warn("Admin password reset from configuration", slog.String("email", email))
	return nil
}

func createAdmin(ctx context.Context, users repository.UserRepository, hasher auth.PasswordHasher, email, password, displayName string) error {
	hash, err := hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	admin, err := models.NewUser(email, hash, displayName, models.RoleAdmin)
	if err != nil {
		return err
	}
	if err := users.Create(ctx, admin); err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	middleware.Logger.Info("Admin account created", slog.String("email", email))
	return nil
}
