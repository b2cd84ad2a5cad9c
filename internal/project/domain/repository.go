package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, p Project) error
	FindByID(ctx context.Context, id snowflake.ID) (*Project, error)
	FindByOwnerAndSlug(ctx context.Context, ownerID snowflake.ID, slug string) (*Project, error)
	ListByOwner(ctx context.Context, ownerID snowflake.ID, limit, offset int) ([]Project, int64, error)
	Delete(ctx context.Context, id snowflake.ID) (int64, error)
}
