package bootstrap

import (
	"context"
	"strings"
	"testing"

	"sonic/internal/auth"
	"sonic/internal/config"
	"sonic/internal/models"
	"sonic/internal/repository"
	"sonic/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sqliteConfig() *config.Config {
	return &config.Config{
		Env:                  "test",
		StoreDriver:          config.StoreSQLite,
		SQLitePath:           ":memory:",
		AdminSeedEnabled:     true,
		AdminSeedEmail:       "admin@sonic.dev",
		AdminSeedPassword:    "initial-password",
		AdminSeedDisplayName: "Root",
	}
}

func openTestStore(t *testing.T, cfg *config.Config) *repository.Store {
	t.Helper()
	store, err := OpenStore(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return store
}

func fastHasher() auth.PasswordHasher {
	return &auth.PBKDF2Hasher{Iterations: 1000}
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, err := OpenStore(context.Background(), &config.Config{StoreDriver: "cassandra"})
	assert.Error(t, err)
}

func TestEnsureAdmin_Disabled(t *testing.T) {
	cfg := sqliteConfig()
	cfg.AdminSeedEnabled = false
	store := openTestStore(t, cfg)

	require.NoError(t, EnsureAdmin(context.Background(), cfg, store.Users, fastHasher()))

	exists, err := store.Users.ExistsByEmail(context.Background(), "admin@sonic.dev")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestEnsureAdmin_CreatesAdmin(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig()
	cfg.AdminSeedEmail = "  Admin@Sonic.DEV "
	store := openTestStore(t, cfg)
	hasher := fastHasher()

	require.NoError(t, EnsureAdmin(ctx, cfg, store.Users, hasher))

	admin, err := store.Users.GetByEmail(ctx, "admin@sonic.dev")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
	assert.Equal(t, "Root", admin.DisplayName)
	assert.True(t, hasher.Verify("initial-password", admin.PasswordHash))

	// A second run is a no-op.
	require.NoError(t, EnsureAdmin(ctx, cfg, store.Users, hasher))
}

func TestEnsureAdmin_ShortPassword(t *testing.T) {
	cfg := sqliteConfig()
	cfg.AdminSeedPassword = "short"
	store := openTestStore(t, cfg)

	err := EnsureAdmin(context.Background(), cfg, store.Users, fastHasher())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 8 characters")

	cfg.AdminSeedPassword = strings.Repeat("x", validation.MaxPasswordLength+1)
	err = EnsureAdmin(context.Background(), cfg, store.Users, fastHasher())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at most")

	_, err = store.Users.GetByEmail(context.Background(), cfg.AdminSeedEmail)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestEnsureAdmin_RefusesToPromote(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig()
	store := openTestStore(t, cfg)
	hasher := fastHasher()

	hash, err := hasher.Hash("member-password")
	require.NoError(t, err)
	member, err := models.NewUser("admin@sonic.dev", hash, "Member", models.RoleUser)
	require.NoError(t, err)
	require.NoError(t, store.Users.Create(ctx, member))

	err = EnsureAdmin(ctx, cfg, store.Users, hasher)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not an admin")

	unchanged, err := store.Users.GetByID(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleUser, unchanged.Role)
}

func TestEnsureAdmin_ResetPassword(t *testing.T) {
	ctx := context.Background()
	cfg := sqliteConfig()
	store := openTestStore(t, cfg)
	hasher := fastHasher()

	require.NoError(t, EnsureAdmin(ctx, cfg, store.Users, hasher))

	cfg.AdminSeedPassword = "rotated-password"
	// Without the reset flag the stored password stays.
	require.NoError(t, EnsureAdmin(ctx, cfg, store.Users, hasher))
	admin, err := store.Users.GetByEmail(ctx, "admin@sonic.dev")
	require.NoError(t, err)
	assert.True(t, hasher.Verify("initial-password", admin.PasswordHash))

	cfg.AdminSeedResetPassword = true
	require.NoError(t, EnsureAdmin(ctx, cfg, store.Users, hasher))
	admin, err = store.Users.GetByEmail(ctx, "admin@sonic.dev")
	require.NoError(t, err)
	assert.True(t, hasher.Verify("rotated-password", admin.PasswordHash))
	assert.False(t, hasher.Verify("initial-password", admin.PasswordHash))
}
