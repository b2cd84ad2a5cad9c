package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/orghub/internal/user/domain"
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

func (r *repository) Create(ctx context.Context, u domain.User) error {
	return r.db.WithContext(ctx).Exec(
		`INSERT INTO users (id, username, name, email, bio, location, website, avatar_url, is_active, settings, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID,
		u.Username,
		u.Name,
		u.Email,
		u.Bio,
		u.Location,
		u.Website,
		u.AvatarURL,
		u.IsActive,
		u.Settings,
		u.CreatedAt,
		u.UpdatedAt,
	).Error
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	var u domain.User
	err := r.db.WithContext(ctx).
		Raw(`SELECT id, username, name, email, bio, location, website, avatar_url, is_active, settings, created_at, updated_at
		     FROM users WHERE id = ?`, id).
		Scan(&u).Error
	if err != nil {
		return nil, err
	}
	if u.ID == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &u, nil
}

func (r *repository) Update(ctx context.Context, u domain.User) error {
	return r.db.WithContext(ctx).Exec(
		`UPDATE users
		 SET username = ?, name = ?, email = ?, bio = ?, location = ?, website = ?, avatar_url = ?, is_active = ?, settings = ?, updated_at = ?
		 WHERE id = ?`,
		u.Username,
		u.Name,
		u.Email,
		u.Bio,
		u.Location,
		u.Website,
		u.AvatarURL,
		u.IsActive,
		u.Settings,
		u.UpdatedAt,
		u.ID,
	).Error
}
