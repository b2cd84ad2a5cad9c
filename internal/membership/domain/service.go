package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/orghub/internal/role"
	"github.com/smallbiznis/orghub/pkg/db/pagination"
)

type Service interface {
	// GetRole returns the member's role, or ErrMemberNotFound.
	GetRole(ctx context.Context, orgID, userID snowflake.ID) (role.Role, error)
	AddMember(ctx context.Context, req AddMemberRequest) (*Membership, error)
	// ChangeRole fails with ErrLastOwner when it would downgrade the
	// organization's only remaining owner.
	ChangeRole(ctx context.Context, orgID, userID snowflake.ID, newRole role.Role) error
	// RemoveMember fails with ErrLastOwner when it would remove the
	// organization's only remaining owner.
	RemoveMember(ctx context.Context, orgID, userID snowflake.ID) error
	ListMembers(ctx context.Context, orgID snowflake.ID, page pagination.Params) (*pagination.Page[Membership], error)
}

type AddMemberRequest struct {
	OrgID     snowflake.ID
	UserID    snowflake.ID
	Role      role.Role
	InvitedBy *snowflake.ID
}

var (
	ErrDuplicateMember = errors.New("duplicate_member")
	ErrMemberNotFound  = errors.New("member_not_found")
	ErrLastOwner       = errors.New("last_owner")
	ErrInvalidMember   = errors.New("invalid_member")
)
