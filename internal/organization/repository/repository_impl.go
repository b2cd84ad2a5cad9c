package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/orghub/internal/organization/domain"
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

func (r *repository) Create(ctx context.Context, org domain.Organization) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO organizations (id, slug, name, description, website, location, email, is_public, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		org.ID,
		org.Slug,
		org.Name,
		org.Description,
		org.Website,
		org.Location,
		org.Email,
		org.IsPublic,
		org.CreatedAt,
		org.UpdatedAt,
	).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.Organization, error) {
	var org domain.Organization
	err := r.db.WithContext(ctx).
		Raw(`SELECT id, slug, name, description, website, location, email, is_public, created_at, updated_at
		     FROM organizations WHERE id = ?`, id).
		Scan(&org).Error
	if err != nil {
		return nil, err
	}
	if org.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &org, nil
}

func (r *repository) Exists(ctx context.Context, id snowflake.ID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM organizations WHERE id = ?`, id).
		Scan(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, org domain.Organization) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE organizations
		 SET slug = ?, name = ?, description = ?, website = ?, location = ?, email = ?, is_public = ?, updated_at = ?
		 WHERE id = ?`,
		org.Slug,
		org.Name,
		org.Description,
		org.Website,
		org.Location,
		org.Email,
		org.IsPublic,
		org.UpdatedAt,
		org.ID,
	).Error
}

func (r *repository) ListByUser(ctx context.Context, userID snowflake.ID) ([]domain.OrganizationListItem, error) {
	var items []domain.OrganizationListItem
	err := r.db.WithContext(ctx).
		Raw(`SELECT o.id, o.slug, o.name, m.role, o.created_at
		     FROM organizations o
		     JOIN organization_members m ON m.org_id = o.id
		     WHERE m.user_id = ?
		     ORDER BY o.created_at ASC`, userID).
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
