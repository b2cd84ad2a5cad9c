package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/orghub/internal/project/domain"
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

func (r *repository) Create(ctx context.Context, p domain.Project) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO projects (id, owner_id, owner_kind, slug, name, description, is_public, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID,
		p.OwnerID,
		p.OwnerKind,
		p.Slug,
		p.Name,
		p.Description,
		p.IsPublic,
		p.CreatedAt,
		p.UpdatedAt,
	).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Project, error) {
	var p domain.Project
	err := r.db.WithContext(ctx).
		Raw(`SELECT id, owner_id, owner_kind, slug, name, description, is_public, created_at, updated_at
		     FROM projects WHERE id = ?`, id).
		Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *repository) FindByOwnerAndSlug(ctx context.Context, ownerID snowflake.ID, slug string) (*domain.Project, error) {
	var p domain.Project
	err := r.db.WithContext(ctx).
		Raw(`SELECT id, owner_id, owner_kind, slug, name, description, is_public, created_at, updated_at
		     FROM projects WHERE owner_id = ? AND slug = ?`, ownerID, slug).
		Scan(&p).Error
	if err != nil {
		return nil, err
	}
	if p.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &p, nil
}

func (r *repository) ListByOwner(ctx context.Context, ownerID snowflake.ID, limit, offset int) ([]domain.Project, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM projects WHERE owner_id = ?`, ownerID).
		Scan(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var projects []domain.Project
	err = r.db.WithContext(ctx).
		Raw(`SELECT id, owner_id, owner_kind, slug, name, description, is_public, created_at, updated_at
		     FROM projects
		     WHERE owner_id = ?
		     ORDER BY created_at ASC, id ASC
		     LIMIT ? OFFSET ?`, ownerID, limit, offset).
		Scan(&projects).Error
	if err != nil {
		return nil, 0, err
	}

	return projects, total, nil
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) (int64, error) {
	res := r.db.WithContext(ctx).Exec(`DELETE FROM projects WHERE id = ?`, id)
	return res.RowsAffected, res.Error
}
