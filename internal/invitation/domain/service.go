package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	membershipdomain "github.com/smallbiznis/orghub/internal/membership/domain"
	"github.com/smallbiznis/orghub/internal/role"
	"github.com/smallbiznis/orghub/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Invitation, error)
	// Accept redeems a pending, unexpired invitation and materializes
	// the membership in the same transaction. A redeemed invitation at
	// or past its deadline flips to expired and fails with
	// ErrInviteExpired; it never becomes accepted.
	Accept(ctx context.Context, userID snowflake.ID, token string) (*membershipdomain.Membership, error)
	Decline(ctx context.Context, token string) error
	// Cancel withdraws a pending invitation; it is the inviter-side
	// counterpart of Decline.
	Cancel(ctx context.Context, token string) error
	// SweepExpired expires every overdue pending invitation. Repeated
	// runs are no-ops for already-expired rows.
	SweepExpired(ctx context.Context) (int64, error)
	ListByOrg(ctx context.Context, orgID snowflake.ID, page pagination.Params) (*pagination.Page[Invitation], error)
}

type CreateRequest struct {
	OrgID     snowflake.ID
	Email     string
	Role      role.Role
	InvitedBy snowflake.ID
	// TTL defaults to the configured policy when zero.
	TTL time.Duration
}

var (
	ErrInviteNotFound = errors.New("invite_not_found")
	ErrInviteExpired  = errors.New("invite_expired")
	ErrInviteClosed   = errors.New("invite_closed")
	ErrInvalidEmail   = errors.New("invalid_email")
	ErrInvalidTTL     = errors.New("invalid_ttl")
)
