// Package authorization decides whether an actor may perform an
// action inside an organization. Evaluate is a pure decision: it
// never redirects, logs, or mutates anything. Callers translate the
// Decision into their own effect.
package authorization

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	membershipdomain "github.com/smallbiznis/orghub/internal/membership/domain"
	organizationdomain "github.com/smallbiznis/orghub/internal/organization/domain"
	"github.com/smallbiznis/orghub/internal/role"
	"gorm.io/gorm"
)

// Reason explains a denial. Empty on an allowed decision.
type Reason string

const (
	ReasonOrgNotFound      Reason = "org_not_found"
	ReasonNotMember        Reason = "not_member"
	ReasonInsufficientRole Reason = "insufficient_role"
)

// Decision is the outcome of an access check.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  Reason `json:"reason,omitempty"`
}

type Service interface {
	// Evaluate checks whether actorID holds at least the required role
	// in orgID. A non-nil error means the check itself failed, not
	// that access was denied.
	Evaluate(ctx context.Context, actorID, orgID snowflake.ID, required role.Role) (Decision, error)
}

type service struct {
	orgs    organizationdomain.Repository
	members membershipdomain.Repository
}

func NewService(orgs organizationdomain.Repository, members membershipdomain.Repository) Service {
	return &service{orgs: orgs, members: members}
}

func (s *service) Evaluate(ctx context.Context, actorID, orgID snowflake.ID, required role.Role) (Decision, error) {
	if !role.Valid(required) {
		return Decision{}, role.ErrInvalidRole
	}

	exists, err := s.orgs.Exists(ctx, orgID)
	if err != nil {
		return Decision{}, fmt.Errorf("evaluate access: %w", err)
	}
	if !exists {
		return Decision{Reason: ReasonOrgNotFound}, nil
	}

	m, err := s.members.Find(ctx, orgID, actorID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Decision{Reason: ReasonNotMember}, nil
	}
	if err != nil {
		return Decision{}, fmt.Errorf("evaluate access: %w", err)
	}

	if !role.AtLeast(m.Role, required) {
		return Decision{Reason: ReasonInsufficientRole}, nil
	}
	return Decision{Allowed: true}, nil
}
