package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/orghub/internal/namespace/domain"
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

func (r *repository) Insert(ctx context.Context, entry domain.Entry) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO namespace_entries (slug, kind, entity_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		entry.Slug,
		entry.Kind,
		entry.EntityID,
		entry.CreatedAt,
		entry.UpdatedAt,
	).Error
}

func (r *repository) FindBySlug(ctx context.Context, slug string) (*domain.Entry, error) {
	var entry domain.Entry
	err := r.db.WithContext(ctx).
		Raw(`SELECT slug, kind, entity_id, created_at, updated_at
		     FROM namespace_entries WHERE slug = ?`, slug).
		Scan(&entry).Error
	if err != nil {
		return nil, err
	}
	if entry.Slug == "" {
		return nil, gorm.ErrRecordNotFound
	}
	return &entry, nil
}

func (r *repository) UpdateSlug(ctx context.Context, oldSlug, newSlug string, entityID snowflake.ID) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE namespace_entries SET slug = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE slug = ? AND entity_id = ?`,
		newSlug, oldSlug, entityID,
	)
	return res.RowsAffected, res.Error
}

func (r *repository) DeleteByEntity(ctx context.Context, kind domain.Kind, entityID snowflake.ID) error {
	err := r.db.WithContext(ctx).Exec(
		`DELETE FROM namespace_entries WHERE kind = ? AND entity_id = ?`,
		kind, entityID,
	).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil
	}
	return err
}
