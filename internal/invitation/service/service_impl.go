package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/oklog/ulid/v2"
	"github.com/smallbiznis/orghub/internal/clock"
	"github.com/smallbiznis/orghub/internal/config"
	"github.com/smallbiznis/orghub/internal/invitation/domain"
	membershipdomain "github.com/smallbiznis/orghub/internal/membership/domain"
	"github.com/smallbiznis/orghub/internal/role"
	"github.com/smallbiznis/orghub/pkg/db"
	"github.com/smallbiznis/orghub/pkg/db/pagination"
	"gorm.io/gorm"
)

type service struct {
	db          *gorm.DB
	repo        domain.Repository
	memberships membershipdomain.Repository
	genID       *snowflake.Node
	clock       clock.Clock
	policy      *config.InviteConfigHolder
}

func NewService(
	conn *gorm.DB,
	repo domain.Repository,
	memberships membershipdomain.Repository,
	genID *snowflake.Node,
	clk clock.Clock,
	policy *config.InviteConfigHolder,
) domain.Service {
	return &service{
		db:          conn,
		repo:        repo,
		memberships: memberships,
		genID:       genID,
		clock:       clk,
		policy:      policy,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Invitation, error) {
	if req.OrgID == 0 || req.InvitedBy == 0 {
		return nil, domain.ErrInviteNotFound
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.ErrInvalidEmail
	}

	r := req.Role
	policy := s.policy.Get()
	if r == "" {
		r = role.Role(policy.DefaultRole)
	}
	if !role.Valid(r) {
		return nil, role.ErrInvalidRole
	}

	ttl := req.TTL
	if ttl == 0 {
		ttl = policy.DefaultTTL
	}
	if ttl < 0 || ttl > policy.MaxTTL {
		return nil, domain.ErrInvalidTTL
	}

	now := s.clock.Now()
	inv := domain.Invitation{
		ID:        s.genID.Generate(),
		OrgID:     req.OrgID,
		Email:     email,
		Role:      r,
		InvitedBy: req.InvitedBy,
		Token:     ulid.Make().String(),
		Status:    domain.StatusPending,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, inv); err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}
	return &inv, nil
}

func (s *service) Accept(ctx context.Context, userID snowflake.ID, token string) (*membershipdomain.Membership, error) {
	if userID == 0 {
		return nil, membershipdomain.ErrInvalidMember
	}

	inv, err := s.load(ctx, token)
	if err != nil {
		return nil, err
	}
	if err := s.expireIfOverdue(ctx, inv); err != nil {
		return nil, err
	}
	if inv.Status.Terminal() {
		return nil, closedErr(inv.Status)
	}

	now := s.clock.Now()
	var membership *membershipdomain.Membership
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// The guarded UPDATE is the linearization point: of concurrent
		// accepts for one token, exactly one moves the row, and a row
		// whose deadline has passed never moves at all.
		moved, err := s.repo.WithTx(tx).AcceptPending(ctx, inv.Token, now)
		if err != nil {
			return fmt.Errorf("accept invitation: %w", err)
		}
		if moved == 0 {
			return s.acceptFailure(ctx, tx, inv.Token)
		}

		m := membershipdomain.Membership{
			ID:        s.genID.Generate(),
			OrgID:     inv.OrgID,
			UserID:    userID,
			Role:      inv.Role,
			InvitedBy: &inv.InvitedBy,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := s.memberships.WithTx(tx).Insert(ctx, m); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return membershipdomain.ErrDuplicateMember
			}
			return fmt.Errorf("accept invitation: %w", err)
		}
		membership = &m
		return nil
	})
	if errors.Is(err, domain.ErrInviteExpired) {
		// Record the expiry outside the rolled-back transaction; the
		// guarded transition is a no-op if a sweep got there first.
		if _, ferr := s.repo.UpdateStatusFrom(ctx, inv.Token, domain.StatusPending, domain.StatusExpired, now); ferr != nil {
			return nil, fmt.Errorf("expire invitation: %w", ferr)
		}
		return nil, domain.ErrInviteExpired
	}
	if err != nil {
		return nil, err
	}
	return membership, nil
}

// acceptFailure classifies a zero-row accept transition: a row still
// pending was blocked by its deadline, anything else already reached a
// terminal state.
func (s *service) acceptFailure(ctx context.Context, tx *gorm.DB, token string) error {
	inv, err := s.repo.WithTx(tx).FindByToken(ctx, token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.ErrInviteNotFound
	}
	if err != nil {
		return fmt.Errorf("accept invitation: %w", err)
	}
	if inv.Status == domain.StatusPending {
		return domain.ErrInviteExpired
	}
	return closedErr(inv.Status)
}

func (s *service) Decline(ctx context.Context, token string) error {
	return s.close(ctx, token, domain.StatusDeclined)
}

func (s *service) Cancel(ctx context.Context, token string) error {
	return s.close(ctx, token, domain.StatusCancelled)
}

func (s *service) SweepExpired(ctx context.Context) (int64, error) {
	moved, err := s.repo.ExpirePending(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("sweep expired invitations: %w", err)
	}
	return moved, nil
}

func (s *service) ListByOrg(ctx context.Context, orgID snowflake.ID, page pagination.Params) (*pagination.Page[domain.Invitation], error) {
	// Lazy sweep so a caller never sees a pending invitation that is
	// already past its deadline.
	if _, err := s.SweepExpired(ctx); err != nil {
		return nil, err
	}

	invs, total, err := s.repo.ListByOrg(ctx, orgID, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list invitations: %w", err)
	}
	return &pagination.Page[domain.Invitation]{Items: invs, Total: total}, nil
}

func (s *service) close(ctx context.Context, token string, to domain.Status) error {
	inv, err := s.load(ctx, token)
	if err != nil {
		return err
	}
	if err := s.expireIfOverdue(ctx, inv); err != nil {
		return err
	}
	if inv.Status.Terminal() {
		return closedErr(inv.Status)
	}

	moved, err := s.repo.UpdateStatusFrom(ctx, inv.Token, domain.StatusPending, to, s.clock.Now())
	if err != nil {
		return fmt.Errorf("close invitation: %w", err)
	}
	if moved == 0 {
		return domain.ErrInviteClosed
	}
	return nil
}

func (s *service) load(ctx context.Context, token string) (*domain.Invitation, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, domain.ErrInviteNotFound
	}

	inv, err := s.repo.FindByToken(ctx, token)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInviteNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load invitation: %w", err)
	}
	return inv, nil
}

// expireIfOverdue flips a pending invitation past its deadline to
// expired before any transition is attempted, so the expiry is recorded
// even though the caller's operation fails.
func (s *service) expireIfOverdue(ctx context.Context, inv *domain.Invitation) error {
	if inv.Status != domain.StatusPending || s.clock.Now().Before(inv.ExpiresAt) {
		return nil
	}
	if _, err := s.repo.UpdateStatusFrom(ctx, inv.Token, domain.StatusPending, domain.StatusExpired, s.clock.Now()); err != nil {
		return fmt.Errorf("expire invitation: %w", err)
	}
	return domain.ErrInviteExpired
}

func closedErr(status domain.Status) error {
	if status == domain.StatusExpired {
		return domain.ErrInviteExpired
	}
	return domain.ErrInviteClosed
}
