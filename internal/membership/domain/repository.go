package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/orghub/internal/role"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, m Membership) error
	Find(ctx context.Context, orgID, userID snowflake.ID) (*Membership, error)
	UpdateRole(ctx context.Context, orgID, userID snowflake.ID, newRole role.Role) (int64, error)
	Delete(ctx context.Context, orgID, userID snowflake.ID) (int64, error)
	CountWithRole(ctx context.Context, orgID snowflake.ID, r role.Role) (int64, error)
	ListByOrg(ctx context.Context, orgID snowflake.ID, limit, offset int) ([]Membership, int64, error)
}
