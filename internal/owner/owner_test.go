package owner

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	namespacedomain "github.com/smallbiznis/orghub/internal/namespace/domain"
	namespacerepository "github.com/smallbiznis/orghub/internal/namespace/repository"
	namespaceservice "github.com/smallbiznis/orghub/internal/namespace/service"
	projectdomain "github.com/smallbiznis/orghub/internal/project/domain"
	projectrepository "github.com/smallbiznis/orghub/internal/project/repository"
	projectservice "github.com/smallbiznis/orghub/internal/project/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	resolver Service
	registry namespacedomain.Service
	projects projectdomain.Service
	node     *snowflake.Node
}

func newFixture(t *testing.T) fixture {
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
	require.NoError(t, conn.Exec(`CREATE TABLE projects (
		id BIGINT PRIMARY KEY,
		owner_id BIGINT NOT NULL,
		owner_kind TEXT NOT NULL,
		slug TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT,
		is_public BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		UNIQUE (owner_id, slug)
	)`).Error)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	registry := namespaceservice.NewService(conn, namespacerepository.NewRepository(conn))
	projects := projectservice.NewService(projectrepository.NewRepository(conn), node)

	return fixture{
		resolver: NewService(registry, projects),
		registry: registry,
		projects: projects,
		node:     node,
	}
}

func TestResolveOwnerClassifiesByRegistry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	orgID := f.node.Generate()
	userID := f.node.Generate()

	// A hyphenated user and a hyphen-free organization: only the
	// registry can tell them apart.
	require.NoError(t, f.registry.Register(ctx, "acme-corp", namespacedomain.KindOrganization, orgID))
	require.NoError(t, f.registry.Register(ctx, "jane-doe", namespacedomain.KindUser, userID))
	require.NoError(t, f.registry.Register(ctx, "atlas", namespacedomain.KindOrganization, f.node.Generate()))

	ref, err := f.resolver.ResolveOwner(ctx, "acme-corp")
	require.NoError(t, err)
	assert.Equal(t, namespacedomain.KindOrganization, ref.Kind)
	assert.Equal(t, orgID, ref.EntityID)

	ref, err = f.resolver.ResolveOwner(ctx, "jane-doe")
	require.NoError(t, err)
	assert.Equal(t, namespacedomain.KindUser, ref.Kind)
	assert.Equal(t, userID, ref.EntityID)

	ref, err = f.resolver.ResolveOwner(ctx, "atlas")
	require.NoError(t, err)
	assert.Equal(t, namespacedomain.KindOrganization, ref.Kind)
}

func TestResolveOwnerUnknownSlug(t *testing.T) {
	f := newFixture(t)

	_, err := f.resolver.ResolveOwner(context.Background(), "nobody-here")
	assert.ErrorIs(t, err, ErrOwnerNotFound)
}

func TestResolveNested(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	orgID := f.node.Generate()
	require.NoError(t, f.registry.Register(ctx, "acme-corp", namespacedomain.KindOrganization, orgID))

	created, err := f.projects.Create(ctx, projectdomain.CreateProjectRequest{
		OwnerID:   orgID,
		OwnerKind: namespacedomain.KindOrganization,
		Name:      "Main Site",
	})
	require.NoError(t, err)
	assert.Equal(t, "main-site", created.Slug)

	nested, err := f.resolver.ResolveNested(ctx, "acme-corp", "main-site")
	require.NoError(t, err)
	assert.Equal(t, orgID, nested.Owner.EntityID)
	assert.Equal(t, created.ID, nested.Project.ID)
}

func TestResolveNestedScopedPerOwner(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	orgID := f.node.Generate()
	userID := f.node.Generate()
	require.NoError(t, f.registry.Register(ctx, "acme-corp", namespacedomain.KindOrganization, orgID))
	require.NoError(t, f.registry.Register(ctx, "jane", namespacedomain.KindUser, userID))

	// Same project slug under two owners is fine.
	_, err := f.projects.Create(ctx, projectdomain.CreateProjectRequest{
		OwnerID: orgID, OwnerKind: namespacedomain.KindOrganization, Name: "site",
	})
	require.NoError(t, err)
	_, err = f.projects.Create(ctx, projectdomain.CreateProjectRequest{
		OwnerID: userID, OwnerKind: namespacedomain.KindUser, Name: "site",
	})
	require.NoError(t, err)

	// But not twice under the same owner.
	_, err = f.projects.Create(ctx, projectdomain.CreateProjectRequest{
		OwnerID: orgID, OwnerKind: namespacedomain.KindOrganization, Name: "site",
	})
	assert.ErrorIs(t, err, projectdomain.ErrProjectSlugTaken)

	nested, err := f.resolver.ResolveNested(ctx, "jane", "site")
	require.NoError(t, err)
	assert.Equal(t, userID, nested.Project.OwnerID)

	_, err = f.resolver.ResolveNested(ctx, "acme-corp", "missing")
	assert.ErrorIs(t, err, projectdomain.ErrProjectNotFound)
}
