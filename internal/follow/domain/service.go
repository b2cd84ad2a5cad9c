package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/orghub/pkg/db/pagination"
)

type Service interface {
	// Follow creates the edge a→b. Following someone already followed
	// is a no-op, not an error.
	Follow(ctx context.Context, followerID, followeeID snowflake.ID) error
	// Unfollow removes the edge a→b. Removing an absent edge is a
	// no-op.
	Unfollow(ctx context.Context, followerID, followeeID snowflake.ID) error
	ListFollowers(ctx context.Context, id snowflake.ID, page pagination.Params) (*pagination.Page[Edge], error)
	ListFollowing(ctx context.Context, id snowflake.ID, page pagination.Params) (*pagination.Page[Edge], error)
	Counts(ctx context.Context, id snowflake.ID) (*GraphCounts, error)
}

// GraphCounts summarizes one node's position in the graph.
type GraphCounts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

var ErrSelfFollow = errors.New("self_follow")
