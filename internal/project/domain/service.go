package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	namespacedomain "github.com/smallbiznis/orghub/internal/namespace/domain"
	"github.com/smallbiznis/orghub/pkg/db/pagination"
)

type Service interface {
	Create(ctx context.Context, req CreateProjectRequest) (*Project, error)
	GetByID(ctx context.Context, id snowflake.ID) (*Project, error)
	GetByOwnerAndSlug(ctx context.Context, ownerID snowflake.ID, slug string) (*Project, error)
	ListByOwner(ctx context.Context, ownerID snowflake.ID, page pagination.Params) (*pagination.Page[Project], error)
	Delete(ctx context.Context, id snowflake.ID) error
}

type CreateProjectRequest struct {
	OwnerID   snowflake.ID
	OwnerKind namespacedomain.Kind
	// Slug is derived from Name when empty.
	Slug        string
	Name        string
	Description string
	IsPublic    bool
}

var (
	ErrInvalidProjectName = errors.New("invalid_project_name")
	ErrProjectSlugTaken   = errors.New("project_slug_taken")
	ErrProjectNotFound    = errors.New("project_not_found")
)
