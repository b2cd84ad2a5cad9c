package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, e Edge) error
	Delete(ctx context.Context, followerID, followeeID snowflake.ID) (int64, error)
	ListFollowers(ctx context.Context, followeeID snowflake.ID, limit, offset int) ([]Edge, int64, error)
	ListFollowing(ctx context.Context, followerID snowflake.ID, limit, offset int) ([]Edge, int64, error)
	Counts(ctx context.Context, id snowflake.ID) (followers, following int64, err error)
}
