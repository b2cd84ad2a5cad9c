package repository

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/orghub/internal/invitation/domain"
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

func (r *repository) Insert(ctx context.Context, inv domain.Invitation) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO organization_invitations (id, org_id, email, role, invited_by, token, status, expires_at, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID,
		inv.OrgID,
		inv.Email,
		inv.Role,
		inv.InvitedBy,
		inv.Token,
		inv.Status,
		inv.ExpiresAt,
		inv.CreatedAt,
		inv.UpdatedAt,
	).Error
}

func (r *repository) FindByToken(ctx context.Context, token string) (*domain.Invitation, error) {
	var inv domain.Invitation
	err := r.db.WithContext(ctx).
		Raw(`SELECT id, org_id, email, role, invited_by, token, status, expires_at, created_at, updated_at
		     FROM organization_invitations WHERE token = ?`, token).
		Scan(&inv).Error
	if err != nil {
		return nil, err
	}
	if inv.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &inv, nil
}

func (r *repository) UpdateStatusFrom(ctx context.Context, token string, from, to domain.Status, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE organization_invitations SET status = ?, updated_at = ?
		 WHERE token = ? AND status = ?`,
		to, at, token, from,
	)
	return res.RowsAffected, res.Error
}

func (r *repository) AcceptPending(ctx context.Context, token string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE organization_invitations SET status = ?, updated_at = ?
		 WHERE token = ? AND status = ? AND expires_at > ?`,
		domain.StatusAccepted, at, token, domain.StatusPending, at,
	)
	return res.RowsAffected, res.Error
}

func (r *repository) ExpirePending(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Exec(
		`UPDATE organization_invitations SET status = ?, updated_at = ?
		 WHERE status = ? AND expires_at <= ?`,
		domain.StatusExpired, cutoff, domain.StatusPending, cutoff,
	)
	return res.RowsAffected, res.Error
}

func (r *repository) ListByOrg(ctx context.Context, orgID snowflake.ID, limit, offset int) ([]domain.Invitation, int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Raw(`SELECT COUNT(*) FROM organization_invitations WHERE org_id = ?`, orgID).
		Scan(&total).Error
	if err != nil {
		return nil, 0, err
	}

	var invs []domain.Invitation
	err = r.db.WithContext(ctx).
		Raw(`SELECT id, org_id, email, role, invited_by, token, status, expires_at, created_at, updated_at
		     FROM organization_invitations
		     WHERE org_id = ?
		     ORDER BY created_at DESC, id DESC
		     LIMIT ? OFFSET ?`, orgID, limit, offset).
		Scan(&invs).Error
	if err != nil {
		return nil, 0, err
	}

	return invs, total, nil
}
