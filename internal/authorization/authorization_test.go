package authorization

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	membershiprepository "github.com/smallbiznis/orghub/internal/membership/repository"
	organizationrepository "github.com/smallbiznis/orghub/internal/organization/repository"
	"github.com/smallbiznis/orghub/internal/role"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	guard Service
	conn  *gorm.DB
	node  *snowflake.Node
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.Exec(`CREATE TABLE organizations (
		id BIGINT PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		description TEXT,
		website TEXT,
		location TEXT,
		email TEXT,
		is_public BOOLEAN NOT NULL DEFAULT TRUE,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL
	)`).Error)
	require.NoError(t, conn.Exec(`CREATE TABLE organization_members (
		id BIGINT PRIMARY KEY,
		org_id BIGINT NOT NULL,
		user_id BIGINT NOT NULL,
		role TEXT NOT NULL,
		invited_by BIGINT,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		UNIQUE (org_id, user_id)
	)`).Error)

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	guard := NewService(
		organizationrepository.NewRepository(conn),
		membershiprepository.NewRepository(conn),
	)
	return fixture{guard: guard, conn: conn, node: node}
}

func (f fixture) seedOrg(t *testing.T, id snowflake.ID) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, f.conn.Exec(
		`INSERT INTO organizations (id, slug, name, is_public, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, "org-"+id.String(), "Org", true, now, now,
	).Error)
}

func (f fixture) seedMember(t *testing.T, orgID, userID snowflake.ID, r role.Role) {
	t.Helper()
	now := time.Now().UTC()
	require.NoError(t, f.conn.Exec(
		`INSERT INTO organization_members (id, org_id, user_id, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		f.node.Generate(), orgID, userID, r, now, now,
	).Error)
}

func TestEvaluateUnknownOrg(t *testing.T) {
	f := newFixture(t)

	d, err := f.guard.Evaluate(context.Background(), f.node.Generate(), f.node.Generate(), role.Viewer)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonOrgNotFound, d.Reason)
}

func TestEvaluateNonMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	orgID := f.node.Generate()
	f.seedOrg(t, orgID)

	d, err := f.guard.Evaluate(ctx, f.node.Generate(), orgID, role.Viewer)
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, ReasonNotMember, d.Reason)
}

func TestEvaluateRoleThresholds(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	orgID := f.node.Generate()
	f.seedOrg(t, orgID)

	actor := f.node.Generate()
	f.seedMember(t, orgID, actor, role.Member)

	// A member clears member and viewer checks but not admin or owner.
	for _, tc := range []struct {
		required role.Role
		allowed  bool
	}{
		{role.Viewer, true},
		{role.Member, true},
		{role.Admin, false},
		{role.Owner, false},
	} {
		d, err := f.guard.Evaluate(ctx, actor, orgID, tc.required)
		require.NoError(t, err)
		assert.Equal(t, tc.allowed, d.Allowed, "required %s", tc.required)
		if !tc.allowed {
			assert.Equal(t, ReasonInsufficientRole, d.Reason)
		}
	}
}

func TestEvaluateOwnerClearsEverything(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	orgID := f.node.Generate()
	f.seedOrg(t, orgID)

	actor := f.node.Generate()
	f.seedMember(t, orgID, actor, role.Owner)

	for _, required := range role.All() {
		d, err := f.guard.Evaluate(ctx, actor, orgID, required)
		require.NoError(t, err)
		assert.True(t, d.Allowed, "required %s", required)
		assert.Empty(t, d.Reason)
	}
}

func TestEvaluateRejectsUnknownRequiredRole(t *testing.T) {
	f := newFixture(t)

	_, err := f.guard.Evaluate(context.Background(), f.node.Generate(), f.node.Generate(), role.Role("root"))
	assert.ErrorIs(t, err, role.ErrInvalidRole)
}
