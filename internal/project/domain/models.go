// Package domain contains persistence models for the project service.
// Project slugs are scoped to their owner: "acme/site" and "jane/site"
// coexist, so the global namespace is never consulted for them.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	namespacedomain "github.com/smallbiznis/orghub/internal/namespace/domain"
)

// Project belongs to a user or an organization.
type Project struct {
	ID          snowflake.ID         `gorm:"primaryKey" json:"id"`
	OwnerID     snowflake.ID         `gorm:"not null;index;uniqueIndex:ux_projects_owner_slug,priority:1" json:"owner_id"`
	OwnerKind   namespacedomain.Kind `gorm:"type:text;not null" json:"owner_kind"`
	Slug        string               `gorm:"type:text;not null;uniqueIndex:ux_projects_owner_slug,priority:2" json:"slug"`
	Name        string               `gorm:"type:text;not null" json:"name"`
	Description string               `gorm:"type:text" json:"description"`
	IsPublic    bool                 `gorm:"not null;default:true" json:"is_public"`
	CreatedAt   time.Time            `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time            `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Project) TableName() string { return "projects" }
