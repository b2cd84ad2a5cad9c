package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, entry Entry) error
	FindBySlug(ctx context.Context, slug string) (*Entry, error)
	// UpdateSlug moves oldSlug to newSlug when oldSlug belongs to
	// entityID, returning the number of rows moved (0 or 1).
	UpdateSlug(ctx context.Context, oldSlug, newSlug string, entityID snowflake.ID) (int64, error)
	DeleteByEntity(ctx context.Context, kind Kind, entityID snowflake.ID) error
}
