package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/orghub/internal/clock"
	"github.com/smallbiznis/orghub/internal/config"
	"github.com/smallbiznis/orghub/internal/invitation/domain"
	"github.com/smallbiznis/orghub/internal/invitation/repository"
	membershipdomain "github.com/smallbiznis/orghub/internal/membership/domain"
	membershiprepository "github.com/smallbiznis/orghub/internal/membership/repository"
	membershipservice "github.com/smallbiznis/orghub/internal/membership/service"
	"github.com/smallbiznis/orghub/internal/role"
	"github.com/smallbiznis/orghub/pkg/db/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	conn    *gorm.DB
	svc     domain.Service
	members membershipdomain.Service
	node    *snowflake.Node
	clk     *clock.FakeClock
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, conn.Exec(`CREATE TABLE organization_invitations (
		id BIGINT PRIMARY KEY,
		org_id BIGINT NOT NULL,
		email TEXT NOT NULL,
		role TEXT NOT NULL,
		invited_by BIGINT NOT NULL,
		token TEXT NOT NULL UNIQUE,
		status TEXT NOT NULL,
		expires_at TIMESTAMP NOT NULL,
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

	clk := clock.NewFakeClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	policy := config.NewStaticInviteConfigHolder(config.DefaultInviteConfig())

	membershipRepo := membershiprepository.NewRepository(conn)
	return &fixture{
		conn:    conn,
		svc:     NewService(conn, repository.NewRepository(conn), membershipRepo, node, clk, policy),
		members: membershipservice.NewService(conn, membershipRepo, node),
		node:    node,
		clk:     clk,
	}
}

func (f *fixture) invite(t *testing.T, orgID snowflake.ID, ttl time.Duration) *domain.Invitation {
	t.Helper()
	inv, err := f.svc.Create(context.Background(), domain.CreateRequest{
		OrgID:     orgID,
		Email:     "teammate@example.com",
		Role:      role.Member,
		InvitedBy: f.node.Generate(),
		TTL:       ttl,
	})
	require.NoError(t, err)
	return inv
}

func TestCreateDefaultsAndValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orgID := f.node.Generate()

	t.Run("defaults from policy", func(t *testing.T) {
		inv, err := f.svc.Create(ctx, domain.CreateRequest{
			OrgID:     orgID,
			Email:     "New.Hire@Example.com",
			InvitedBy: f.node.Generate(),
		})
		require.NoError(t, err)
		assert.Equal(t, domain.StatusPending, inv.Status)
		assert.Equal(t, role.Member, inv.Role)
		assert.Equal(t, "new.hire@example.com", inv.Email)
		assert.Equal(t, f.clk.Now().Add(config.DefaultInviteConfig().DefaultTTL), inv.ExpiresAt)
		assert.NotEmpty(t, inv.Token)
	})

	t.Run("bad email", func(t *testing.T) {
		_, err := f.svc.Create(ctx, domain.CreateRequest{OrgID: orgID, Email: "not-an-email", InvitedBy: f.node.Generate()})
		assert.ErrorIs(t, err, domain.ErrInvalidEmail)
	})

	t.Run("bad role", func(t *testing.T) {
		_, err := f.svc.Create(ctx, domain.CreateRequest{OrgID: orgID, Email: "a@b.co", Role: role.Role("boss"), InvitedBy: f.node.Generate()})
		assert.ErrorIs(t, err, role.ErrInvalidRole)
	})

	t.Run("ttl above policy max", func(t *testing.T) {
		_, err := f.svc.Create(ctx, domain.CreateRequest{OrgID: orgID, Email: "a@b.co", InvitedBy: f.node.Generate(), TTL: 365 * 24 * time.Hour})
		assert.ErrorIs(t, err, domain.ErrInvalidTTL)
	})
}

func TestAcceptCreatesMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orgID, userID := f.node.Generate(), f.node.Generate()

	inv := f.invite(t, orgID, time.Hour)

	m, err := f.svc.Accept(ctx, userID, inv.Token)
	require.NoError(t, err)
	assert.Equal(t, orgID, m.OrgID)
	assert.Equal(t, userID, m.UserID)
	assert.Equal(t, role.Member, m.Role)
	require.NotNil(t, m.InvitedBy)
	assert.Equal(t, inv.InvitedBy, *m.InvitedBy)

	r, err := f.members.GetRole(ctx, orgID, userID)
	require.NoError(t, err)
	assert.Equal(t, role.Member, r)
}

func TestAcceptIsTerminal(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orgID := f.node.Generate()

	inv := f.invite(t, orgID, time.Hour)

	_, err := f.svc.Accept(ctx, f.node.Generate(), inv.Token)
	require.NoError(t, err)

	// Second redemption, by anyone, is rejected.
	_, err = f.svc.Accept(ctx, f.node.Generate(), inv.Token)
	assert.ErrorIs(t, err, domain.ErrInviteClosed)
	assert.ErrorIs(t, f.svc.Decline(ctx, inv.Token), domain.ErrInviteClosed)
	assert.ErrorIs(t, f.svc.Cancel(ctx, inv.Token), domain.ErrInviteClosed)
}

func TestAcceptAfterExpiryFlipsToExpired(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orgID, userID := f.node.Generate(), f.node.Generate()

	inv := f.invite(t, orgID, time.Hour)
	f.clk.Advance(time.Hour) // now == expiresAt: already too late

	_, err := f.svc.Accept(ctx, userID, inv.Token)
	assert.ErrorIs(t, err, domain.ErrInviteExpired)

	// The failed accept recorded the expiry; no membership appeared.
	_, err = f.svc.Accept(ctx, userID, inv.Token)
	assert.ErrorIs(t, err, domain.ErrInviteExpired)

	_, err = f.members.GetRole(ctx, orgID, userID)
	assert.ErrorIs(t, err, membershipdomain.ErrMemberNotFound)
}

// driftClock returns a later reading on every call, standing in for a
// deadline that passes while an accept is in flight.
type driftClock struct {
	now  time.Time
	step time.Duration
}

func (c *driftClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func TestAcceptExpiringMidFlight(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orgID, userID := f.node.Generate(), f.node.Generate()

	inv := f.invite(t, orgID, time.Hour)

	// The first clock reading is just inside the deadline, every later
	// one is past it, so the transition itself must refuse the row.
	drift := &driftClock{now: inv.ExpiresAt.Add(-time.Millisecond), step: time.Second}
	raceSvc := NewService(
		f.conn,
		repository.NewRepository(f.conn),
		membershiprepository.NewRepository(f.conn),
		f.node,
		drift,
		config.NewStaticInviteConfigHolder(config.DefaultInviteConfig()),
	)

	_, err := raceSvc.Accept(ctx, userID, inv.Token)
	assert.ErrorIs(t, err, domain.ErrInviteExpired)

	_, err = f.members.GetRole(ctx, orgID, userID)
	assert.ErrorIs(t, err, membershipdomain.ErrMemberNotFound)

	// The expiry was recorded even though the accept rolled back.
	var status string
	require.NoError(t, f.conn.Raw(
		`SELECT status FROM organization_invitations WHERE token = ?`, inv.Token,
	).Scan(&status).Error)
	assert.Equal(t, string(domain.StatusExpired), status)
}

func TestAcceptWhenAlreadyMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orgID, userID := f.node.Generate(), f.node.Generate()

	_, err := f.members.AddMember(ctx, membershipdomain.AddMemberRequest{OrgID: orgID, UserID: userID, Role: role.Viewer})
	require.NoError(t, err)

	inv := f.invite(t, orgID, time.Hour)
	_, err = f.svc.Accept(ctx, userID, inv.Token)
	assert.ErrorIs(t, err, membershipdomain.ErrDuplicateMember)

	// The rollback left the invitation pending, so the admin can still
	// cancel it.
	assert.NoError(t, f.svc.Cancel(ctx, inv.Token))
}

func TestDeclineAndCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orgID := f.node.Generate()

	declined := f.invite(t, orgID, time.Hour)
	require.NoError(t, f.svc.Decline(ctx, declined.Token))
	_, err := f.svc.Accept(ctx, f.node.Generate(), declined.Token)
	assert.ErrorIs(t, err, domain.ErrInviteClosed)

	cancelled := f.invite(t, orgID, time.Hour)
	require.NoError(t, f.svc.Cancel(ctx, cancelled.Token))
	assert.ErrorIs(t, f.svc.Decline(ctx, cancelled.Token), domain.ErrInviteClosed)

	assert.ErrorIs(t, f.svc.Decline(ctx, "missing-token"), domain.ErrInviteNotFound)
}

func TestSweepExpiredIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orgID := f.node.Generate()

	f.invite(t, orgID, time.Hour)
	f.invite(t, orgID, 2*time.Hour)
	keeper := f.invite(t, orgID, 48*time.Hour)

	f.clk.Advance(3 * time.Hour)

	moved, err := f.svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, moved)

	moved, err = f.svc.SweepExpired(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 0, moved)

	// The long-dated invitation is still redeemable.
	_, err = f.svc.Accept(ctx, f.node.Generate(), keeper.Token)
	assert.NoError(t, err)
}

func TestListByOrgNeverShowsOverduePending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	orgID := f.node.Generate()

	f.invite(t, orgID, time.Hour)
	f.clk.Advance(2 * time.Hour)

	page, err := f.svc.ListByOrg(ctx, orgID, pagination.Params{Page: 1, PageSize: 10})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, domain.StatusExpired, page.Items[0].Status)
}
