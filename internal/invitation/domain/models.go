// Package domain contains the invitation lifecycle models. An invitation
// starts pending and ends in exactly one of the terminal states; terminal
// states are absorbing.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/orghub/internal/role"
)

// Status is the lifecycle state of an invitation.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusDeclined  Status = "declined"
	StatusExpired   Status = "expired"
	StatusCancelled Status = "cancelled"
)

// Terminal reports whether no further transition is legal from s.
func (s Status) Terminal() bool {
	return s != StatusPending
}

// Invitation is a time-bounded offer of membership, redeemed by token.
type Invitation struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID `gorm:"not null;index" json:"organization_id"`
	Email     string       `gorm:"type:text;not null" json:"email"`
	Role      role.Role    `gorm:"type:text;not null" json:"role"`
	InvitedBy snowflake.ID `gorm:"column:invited_by;not null" json:"invited_by"`
	Token     string       `gorm:"type:text;not null;uniqueIndex:ux_invitations_token" json:"token"`
	Status    Status       `gorm:"type:text;not null" json:"status"`
	ExpiresAt time.Time    `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"invited_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Invitation) TableName() string { return "organization_invitations" }
