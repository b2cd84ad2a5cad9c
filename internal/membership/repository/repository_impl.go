package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/orghub/internal/membership/domain"
	"github.com/smallbiznis/orghub/internal/role"
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

func (r *repository) Insert(ctx context.Context, m domain.Membership) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO organization_members (id, org_id, user_id, role, invited_by, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID,
		m.OrgID,
		m.UserID,
		m.Role,
		m.InvitedBy,
		m.CreatedAt,
		m.UpdatedAt,
	).Error
}

func (r *repository) Find(ctx context.Context, orgID, userID snowflake.ID) (*domain.Membership, error) {
	var m domain.Membership
	err := r.db.WithContext(ctx).
		Raw(`SELECT id, org_id, user_id, role, invited_by, created_at, updated_at
		     FROM organization_members WHERE org_id = ? AND user_id = ?`, orgID, userID).
		Scan(&m).Error
	if err != nil {
		return nil, err
	}
	if m.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &m, nil
}

func (r *repository) UpdateRole(ctx context.Context, orgID, userID snowflake.ID, newRole role.Role) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE organization_members SET role = ?, updated_at = CURRENT_TIMESTAMP
		 WHERE org_id = ? AND user_id = ?`,
		newRole, orgID, userID,
	)
	return res.RowsAffected, res.Error
}

func (r *repository) Delete(ctx context.Context, orgID, userID snowflake.ID) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`DELETE FROM organization_members WHERE org_id = ? AND user_id = ?`,
		orgID, userID,
	)
	return res.RowsAffected, res.Error
}

func (r *repository) CountWithRole(ctx context.Context, orgID snowflake.ID, rr role.Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM organization_members WHERE org_id = ? AND role = ?`, orgID, rr).
		Scan(&count).Error
	return count, err
}

func (r *repository) ListByOrg(ctx context.Context, orgID snowflake.ID, limit, offset int) ([]domain.Membership, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM organization_members WHERE org_id = ?`, orgID).
		Scan(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var members []domain.Membership
	err = r.db.WithContext(ctx).
		Raw(`SELECT id, org_id, user_id, role, invited_by, created_at, updated_at
		     FROM organization_members
		     WHERE org_id = ?
		     ORDER BY created_at ASC, id ASC
		     LIMIT ? OFFSET ?`, orgID, limit, offset).
		Scan(&members).Error
	if err != nil {
		return nil, 0, err
	}

	return members, total, nil
}
