package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/orghub/internal/membership/domain"
	"github.com/smallbiznis/orghub/internal/membership/repository"
	"github.com/smallbiznis/orghub/internal/role"
	"github.com/smallbiznis/orghub/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (domain.Service, *snowflake.Node) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

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

	return NewService(conn, repository.NewRepository(conn), node), node
}

func addMember(t *testing.T, svc domain.Service, orgID, userID snowflake.ID, r role.Role) {
	t.Helper()
	_, err := svc.AddMember(context.Background(), domain.AddMemberRequest{
		OrgID:  orgID,
		UserID: userID,
		Role:   r,
	})
	require.NoError(t, err)
}

func TestAddMemberAndGetRole(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()
	orgID, userID := node.Generate(), node.Generate()

	addMember(t, svc, orgID, userID, role.Admin)

	r, err := svc.GetRole(ctx, orgID, userID)
	require.NoError(t, err)
	assert.Equal(t, role.Admin, r)

	_, err = svc.GetRole(ctx, orgID, node.Generate())
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
}

func TestAddMemberIsUniquePerOrgUser(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()
	orgID, userID := node.Generate(), node.Generate()

	addMember(t, svc, orgID, userID, role.Member)

	_, err := svc.AddMember(ctx, domain.AddMemberRequest{OrgID: orgID, UserID: userID, Role: role.Viewer})
	assert.ErrorIs(t, err, domain.ErrDuplicateMember)

	// Same user in a different org is fine.
	_, err = svc.AddMember(ctx, domain.AddMemberRequest{OrgID: node.Generate(), UserID: userID, Role: role.Viewer})
	assert.NoError(t, err)
}

func TestAddMemberValidation(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()

	_, err := svc.AddMember(ctx, domain.AddMemberRequest{OrgID: 0, UserID: node.Generate(), Role: role.Member})
	assert.ErrorIs(t, err, domain.ErrInvalidMember)

	_, err = svc.AddMember(ctx, domain.AddMemberRequest{OrgID: node.Generate(), UserID: node.Generate(), Role: role.Role("boss")})
	assert.ErrorIs(t, err, role.ErrInvalidRole)
}

func TestChangeRole(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()
	orgID, owner, member := node.Generate(), node.Generate(), node.Generate()

	addMember(t, svc, orgID, owner, role.Owner)
	addMember(t, svc, orgID, member, role.Member)

	require.NoError(t, svc.ChangeRole(ctx, orgID, member, role.Admin))

	r, err := svc.GetRole(ctx, orgID, member)
	require.NoError(t, err)
	assert.Equal(t, role.Admin, r)

	assert.ErrorIs(t, svc.ChangeRole(ctx, orgID, node.Generate(), role.Viewer), domain.ErrMemberNotFound)
	assert.ErrorIs(t, svc.ChangeRole(ctx, orgID, member, role.Role("boss")), role.ErrInvalidRole)
}

func TestLastOwnerProtection(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()
	orgID, owner, second := node.Generate(), node.Generate(), node.Generate()

	addMember(t, svc, orgID, owner, role.Owner)

	t.Run("cannot downgrade sole owner", func(t *testing.T) {
		assert.ErrorIs(t, svc.ChangeRole(ctx, orgID, owner, role.Admin), domain.ErrLastOwner)
	})

	t.Run("cannot remove sole owner", func(t *testing.T) {
		assert.ErrorIs(t, svc.RemoveMember(ctx, orgID, owner), domain.ErrLastOwner)
	})

	t.Run("second owner unblocks both", func(t *testing.T) {
		addMember(t, svc, orgID, second, role.Owner)

		require.NoError(t, svc.ChangeRole(ctx, orgID, owner, role.Member))

		// Now second is the sole owner again.
		assert.ErrorIs(t, svc.RemoveMember(ctx, orgID, second), domain.ErrLastOwner)
	})
}

func TestRemoveMember(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()
	orgID, owner, member := node.Generate(), node.Generate(), node.Generate()

	addMember(t, svc, orgID, owner, role.Owner)
	addMember(t, svc, orgID, member, role.Viewer)

	require.NoError(t, svc.RemoveMember(ctx, orgID, member))
	assert.ErrorIs(t, svc.RemoveMember(ctx, orgID, member), domain.ErrMemberNotFound)

	_, err := svc.GetRole(ctx, orgID, member)
	assert.ErrorIs(t, err, domain.ErrMemberNotFound)
}

func TestListMembersIsOrderedAndPaged(t *testing.T) {
	svc, node := newTestService(t)
	ctx := context.Background()
	orgID := node.Generate()

	ids := make([]snowflake.ID, 0, 5)
	for i := 0; i < 5; i++ {
		id := node.Generate()
		ids = append(ids, id)
		r := role.Member
		if i == 0 {
			r = role.Owner
		}
		addMember(t, svc, orgID, id, r)
	}

	page1, err := svc.ListMembers(ctx, orgID, pagination.Params{Page: 1, PageSize: 3})
	require.NoError(t, err)
	assert.EqualValues(t, 5, page1.Total)
	require.Len(t, page1.Items, 3)

	page2, err := svc.ListMembers(ctx, orgID, pagination.Params{Page: 2, PageSize: 3})
	require.NoError(t, err)
	require.Len(t, page2.Items, 2)

	// Pages concatenate to the full set in insertion order.
	got := make([]snowflake.ID, 0, 5)
	for _, m := range append(page1.Items, page2.Items...) {
		got = append(got, m.UserID)
	}
	assert.Equal(t, ids, got)
}
