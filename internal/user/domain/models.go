// Package domain contains persistence models for the user service.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// User is an account profile. Username is the user's slug in the shared
// namespace; ID is internal and survives username changes.
type User struct {
	ID        snowflake.ID      `gorm:"primaryKey" json:"id"`
	Username  string            `gorm:"type:text;not null;uniqueIndex:ux_users_username" json:"username"`
	Name      string            `gorm:"type:text" json:"name"`
	Email     string            `gorm:"type:text;not null" json:"email"`
	Bio       string            `gorm:"type:text" json:"bio"`
	Location  string            `gorm:"type:text" json:"location"`
	Website   string            `gorm:"type:text" json:"website"`
	AvatarURL string            `gorm:"column:avatar_url;type:text" json:"avatar_url"`
	IsActive  bool              `gorm:"not null;default:true" json:"is_active"`
	Settings  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"settings"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (User) TableName() string { return "users" }
