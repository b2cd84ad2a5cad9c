package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/orghub/internal/role"
	"gorm.io/gorm"
)

// OrganizationListItem is one row of a user's organization list.
type OrganizationListItem struct {
	ID        snowflake.ID
	Slug      string
	Name      string
	Role      role.Role
	CreatedAt time.Time
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, org Organization) error
	FindByID(ctx context.Context, id snowflake.ID) (*Organization, error)
	Exists(ctx context.Context, id snowflake.ID) (bool, error)
	Update(ctx context.Context, org Organization) error
	ListByUser(ctx context.Context, userID snowflake.ID) ([]OrganizationListItem, error)
}
