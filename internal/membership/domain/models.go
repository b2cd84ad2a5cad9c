// Package domain contains membership models. A membership binds a user
// to an organization with exactly one role, enforced by the composite
// unique key on (org_id, user_id).
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/orghub/internal/role"
)

// Membership is one user's role in one organization.
type Membership struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID  `gorm:"not null;index;uniqueIndex:ux_org_user,priority:1" json:"org_id"`
	UserID    snowflake.ID  `gorm:"not null;index;uniqueIndex:ux_org_user,priority:2" json:"user_id"`
	Role      role.Role     `gorm:"type:text;not null" json:"role"`
	InvitedBy *snowflake.ID `gorm:"column:invited_by" json:"invited_by,omitempty"`
	CreatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"joined_at"`
	UpdatedAt time.Time     `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Membership) TableName() string { return "organization_members" }
