package service

import (
	"context"
	"errors"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	namespacedomain "github.com/smallbiznis/orghub/internal/namespace/domain"
	namespacerepository "github.com/smallbiznis/orghub/internal/namespace/repository"
	namespaceservice "github.com/smallbiznis/orghub/internal/namespace/service"
	"github.com/smallbiznis/orghub/internal/user/domain"
	"github.com/smallbiznis/orghub/internal/user/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	conn     *gorm.DB
	svc      domain.Service
	registry namespacedomain.Service
	node     *snowflake.Node
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.Exec(`CREATE TABLE namespace_entries (
		slug TEXT PRIMARY KEY,
		kind TEXT NOT NULL,
		entity_id BIGINT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`).Error)
	require.NoError(t, conn.Exec(`CREATE TABLE users (
		id BIGINT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE,
		name TEXT,
		email TEXT NOT NULL,
		bio TEXT,
		location TEXT,
		website TEXT,
		avatar_url TEXT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		settings TEXT NOT NULL DEFAULT '{}',
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`).Error)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	namespaceRepo := namespacerepository.NewRepository(conn)
	registry := namespaceservice.NewService(conn, namespaceRepo)

	svc := NewService(conn, repository.NewRepository(conn), namespaceRepo, registry, node)
	return &fixture{conn: conn, svc: svc, registry: registry, node: node}
}

func TestCreateClaimsUsername(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.Create(ctx, domain.CreateUserRequest{
		Username: "jane-doe",
		Name:     "Jane Doe",
		Email:    "jane@example.com",
	})
	require.NoError(t, err)
	assert.True(t, u.IsActive)

	entry, err := f.registry.Resolve(ctx, "jane-doe")
	require.NoError(t, err)
	assert.Equal(t, namespacedomain.KindUser, entry.Kind)
	assert.Equal(t, u.ID, entry.EntityID)

	got, err := f.svc.GetByUsername(ctx, "jane-doe")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

func TestCreateRejectsTakenOrInvalid(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, domain.CreateUserRequest{
		Username: "jane-doe",
		Email:    "jane@example.com",
	})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, domain.CreateUserRequest{
		Username: "jane-doe",
		Email:    "other@example.com",
	})
	assert.ErrorIs(t, err, namespacedomain.ErrSlugTaken)

	_, err = f.svc.Create(ctx, domain.CreateUserRequest{
		Username: "has spaces",
		Email:    "x@example.com",
	})
	assert.ErrorIs(t, err, namespacedomain.ErrInvalidSlug)

	_, err = f.svc.Create(ctx, domain.CreateUserRequest{
		Username: "valid-name",
		Email:    "not-an-email",
	})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestGetByUsernameChecksKind(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	require.NoError(t, f.registry.Register(ctx, "acme-corp", namespacedomain.KindOrganization, f.node.Generate()))

	_, err := f.svc.GetByUsername(ctx, "acme-corp")
	assert.ErrorIs(t, err, domain.ErrNotUserEntity)

	_, err = f.svc.GetByUsername(ctx, "ghost")
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUpdateProfileAppliesOnlyProvidedFields(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.Create(ctx, domain.CreateUserRequest{
		Username: "jane-doe",
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Bio:      "original bio",
	})
	require.NoError(t, err)

	newBio := "updated bio"
	updated, err := f.svc.UpdateProfile(ctx, u.ID, domain.UpdateProfileRequest{Bio: &newBio})
	require.NoError(t, err)
	assert.Equal(t, "updated bio", updated.Bio)
	assert.Equal(t, "Jane Doe", updated.Name)
	assert.Equal(t, "jane@example.com", updated.Email)
}

func TestRenameMovesUsernameThroughRegistry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.Create(ctx, domain.CreateUserRequest{
		Username: "jane-doe",
		Email:    "jane@example.com",
	})
	require.NoError(t, err)

	renamed, err := f.svc.Rename(ctx, u.ID, "jane")
	require.NoError(t, err)
	assert.Equal(t, "jane", renamed.Username)

	_, err = f.registry.Resolve(ctx, "jane-doe")
	assert.ErrorIs(t, err, namespacedomain.ErrSlugNotFound)

	got, err := f.svc.GetByUsername(ctx, "jane")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
}

// failingUpdateRepo breaks Update so the rename's row rewrite fails
// after the registry move has already run inside the same transaction.
type failingUpdateRepo struct {
	domain.Repository
}

func (r *failingUpdateRepo) WithTx(tx *gorm.DB) domain.Repository {
	return &failingUpdateRepo{Repository: r.Repository.WithTx(tx)}
}

func (r *failingUpdateRepo) Update(ctx context.Context, u domain.User) error {
	return errors.New("update rejected")
}

func TestRenameRollsBackRegistryOnRowFailure(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.Create(ctx, domain.CreateUserRequest{
		Username: "jane-doe",
		Email:    "jane@example.com",
	})
	require.NoError(t, err)

	namespaceRepo := namespacerepository.NewRepository(f.conn)
	registry := namespaceservice.NewService(f.conn, namespaceRepo)
	broken := NewService(f.conn, &failingUpdateRepo{Repository: repository.NewRepository(f.conn)}, namespaceRepo, registry, f.node)

	_, err = broken.Rename(ctx, u.ID, "jane-smith")
	require.Error(t, err)

	// The registry still serves the old username and the row agrees.
	entry, err := f.registry.Resolve(ctx, "jane-doe")
	require.NoError(t, err)
	assert.Equal(t, u.ID, entry.EntityID)
	_, err = f.registry.Resolve(ctx, "jane-smith")
	assert.ErrorIs(t, err, namespacedomain.ErrSlugNotFound)

	got, err := f.svc.GetByUsername(ctx, "jane-doe")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	// A retry through the healthy service succeeds.
	renamed, err := f.svc.Rename(ctx, u.ID, "jane-smith")
	require.NoError(t, err)
	assert.Equal(t, "jane-smith", renamed.Username)
}

func TestUpdateSettingsMerges(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.svc.Create(ctx, domain.CreateUserRequest{
		Username: "jane-doe",
		Email:    "jane@example.com",
	})
	require.NoError(t, err)

	updated, err := f.svc.UpdateSettings(ctx, u.ID, map[string]any{"theme": "dark"})
	require.NoError(t, err)
	assert.Equal(t, "dark", updated.Settings["theme"])

	updated, err = f.svc.UpdateSettings(ctx, u.ID, map[string]any{"emails": false})
	require.NoError(t, err)
	assert.Equal(t, "dark", updated.Settings["theme"])
	assert.Equal(t, false, updated.Settings["emails"])
}
