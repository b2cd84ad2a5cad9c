package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Insert(ctx context.Context, inv Invitation) error
	FindByToken(ctx context.Context, token string) (*Invitation, error)
	// UpdateStatusFrom transitions token from one status to another,
	// returning the number of rows moved. Zero means the invitation was
	// not in the expected state, which is how a concurrent loser learns
	// it lost.
	UpdateStatusFrom(ctx context.Context, token string, from, to Status, at time.Time) (int64, error)
	// AcceptPending moves a pending invitation to accepted only while
	// its deadline is still in the future, so the deadline passing
	// between the caller's read and the transition never produces an
	// accepted row.
	AcceptPending(ctx context.Context, token string, at time.Time) (int64, error)
	// ExpirePending moves every pending invitation whose deadline is at
	// or before cutoff to expired, returning the number moved.
	ExpirePending(ctx context.Context, cutoff time.Time) (int64, error)
	ListByOrg(ctx context.Context, orgID snowflake.ID, limit, offset int) ([]Invitation, int64, error)
}
