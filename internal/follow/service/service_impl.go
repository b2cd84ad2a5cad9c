package service

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/orghub/internal/follow/domain"
	"github.com/smallbiznis/orghub/pkg/db"
	"github.com/smallbiznis/orghub/pkg/db/pagination"
)

type service struct {
	repo domain.Repository
}

func NewService(repo domain.Repository) domain.Service {
	return &service{repo: repo}
}

func (s *service) Follow(ctx context.Context, followerID, followeeID snowflake.ID) error {
	if followerID == followeeID {
		return domain.ErrSelfFollow
	}

	err := s.repo.Insert(ctx, domain.Edge{
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  time.Now().UTC(),
	})
	if db.IsDuplicateKeyErr(err) {
		// Edge already present. Following twice is not an error.
		return nil
	}
	if err != nil {
		return fmt.Errorf("follow: %w", err)
	}
	return nil
}

func (s *service) Unfollow(ctx context.Context, followerID, followeeID snowflake.ID) error {
	if _, err := s.repo.Delete(ctx, followerID, followeeID); err != nil {
		return fmt.Errorf("unfollow: %w", err)
	}
	return nil
}

func (s *service) ListFollowers(ctx context.Context, id snowflake.ID, page pagination.Params) (*pagination.Page[domain.Edge], error) {
	edges, total, err := s.repo.ListFollowers(ctx, id, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list followers: %w", err)
	}
	return &pagination.Page[domain.Edge]{Items: edges, Total: total}, nil
}

func (s *service) ListFollowing(ctx context.Context, id snowflake.ID, page pagination.Params) (*pagination.Page[domain.Edge], error) {
	edges, total, err := s.repo.ListFollowing(ctx, id, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list following: %w", err)
	}
	return &pagination.Page[domain.Edge]{Items: edges, Total: total}, nil
}

func (s *service) Counts(ctx context.Context, id snowflake.ID) (*domain.GraphCounts, error) {
	followers, following, err := s.repo.Counts(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("graph counts: %w", err)
	}
	return &domain.GraphCounts{Followers: followers, Following: following}, nil
}
