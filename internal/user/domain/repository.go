package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, u User) error
	FindByID(ctx context.Context, id snowflake.ID) (*User, error)
	Update(ctx context.Context, u User) error
}
