package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Create inserts the organization, claims its slug in the shared
	// namespace, and makes the creator its first Owner, all in one
	// transaction.
	Create(ctx context.Context, creatorID snowflake.ID, req CreateOrganizationRequest) (*Organization, error)
	GetByID(ctx context.Context, id snowflake.ID) (*Organization, error)
	GetBySlug(ctx context.Context, slug string) (*Organization, error)
	// Update applies the explicit field set; identity, slug and
	// creation timestamp are not touchable through it.
	Update(ctx context.Context, id snowflake.ID, req UpdateOrganizationRequest) (*Organization, error)
	// Rename moves the organization to a new slug through the
	// namespace registry.
	Rename(ctx context.Context, id snowflake.ID, newSlug string) (*Organization, error)
	ListByUser(ctx context.Context, userID snowflake.ID) ([]OrganizationListItem, error)
}

type CreateOrganizationRequest struct {
	Name string
	// Slug is derived from Name when empty.
	Slug        string
	Description string
	Website     string
	Location    string
	Email       string
	IsPublic    bool
}

// UpdateOrganizationRequest enumerates exactly the mutable fields; nil
// means "leave as is".
type UpdateOrganizationRequest struct {
	Name        *string
	Description *string
	Website     *string
	Location    *string
	Email       *string
	IsPublic    *bool
}

var (
	ErrInvalidName  = errors.New("invalid_name")
	ErrInvalidUser  = errors.New("invalid_user")
	ErrOrgNotFound  = errors.New("organization_not_found")
	ErrNotOrgEntity = errors.New("not_an_organization")
)
