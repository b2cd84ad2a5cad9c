package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/orghub/internal/follow/domain"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) domain.Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) domain.Repository {
	return &repository{db: tx}
}

func (r *repository) Insert(ctx context.Context, e domain.Edge) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO follow_edges (follower_id, followee_id, created_at) VALUES (?, ?, ?)`,
		e.FollowerID,
		e.FolloweeID,
		e.CreatedAt,
	).Error
}

func (r *repository) Delete(ctx context.Context, followerID, followeeID snowflake.ID) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`DELETE FROM follow_edges WHERE follower_id = ? AND followee_id = ?`,
		followerID, followeeID,
	)
	return res.RowsAffected, res.Error
}

func (r *repository) ListFollowers(ctx context.Context, followeeID snowflake.ID, limit, offset int) ([]domain.Edge, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM follow_edges WHERE followee_id = ?`, followeeID).
		Scan(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var edges []domain.Edge
	err = r.db.WithContext(ctx).
		Raw(`SELECT follower_id, followee_id, created_at
		     FROM follow_edges
		     WHERE followee_id = ?
		     ORDER BY created_at ASC, follower_id ASC
		     LIMIT ? OFFSET ?`, followeeID, limit, offset).
		Scan(&edges).Error
	if err != nil {
		return nil, 0, err
	}
	return edges, total, nil
}

func (r *repository) ListFollowing(ctx context.Context, followerID snowflake.ID, limit, offset int) ([]domain.Edge, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM follow_edges WHERE follower_id = ?`, followerID).
		Scan(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var edges []domain.Edge
	err = r.db.WithContext(ctx).
		Raw(`SELECT follower_id, followee_id, created_at
		     FROM follow_edges
		     WHERE follower_id = ?
		     ORDER BY created_at ASC, followee_id ASC
		     LIMIT ? OFFSET ?`, followerID, limit, offset).
		Scan(&edges).Error
	if err != nil {
		return nil, 0, err
	}
	return edges, total, nil
}

func (r *repository) Counts(ctx context.Context, id snowflake.ID) (int64, int64, error) {
	var followers int64
	err := r.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM follow_edges WHERE followee_id = ?`, id).
		Scan(&followers).Error
	if err != nil {
		return 0, 0, err
	}

	var following int64
	err = r.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM follow_edges WHERE follower_id = ?`, id).
		Scan(&following).Error
	if err != nil {
		return 0, 0, err
	}
	return followers, following, nil
}
