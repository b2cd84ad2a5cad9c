// Package domain contains the namespace registry models. The registry
// owns the flat slug space shared by users and organizations: a slug
// resolves to exactly one entity of exactly one kind.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Kind tags which entity table a slug points at.
type Kind string

const (
	KindUser         Kind = "user"
	KindOrganization Kind = "organization"
)

// Valid reports whether k is a known entity kind.
func (k Kind) Valid() bool {
	return k == KindUser || k == KindOrganization
}

// Entry maps a slug to an entity. Slug is the primary key, which gives
// the registry its atomic check-and-insert: concurrent registrations of
// the same slug resolve to exactly one winner at the constraint.
type Entry struct {
	Slug      string       `gorm:"primaryKey" json:"slug"`
	Kind      Kind         `gorm:"type:text;not null" json:"kind"`
	EntityID  snowflake.ID `gorm:"not null;index:ix_namespace_entity" json:"entity_id"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// TableName sets the database table name.
func (Entry) TableName() string { return "namespace_entries" }

// Ref is a resolved slug: the entity it denotes.
type Ref struct {
	Kind     Kind         `json:"kind"`
	EntityID snowflake.ID `json:"entity_id"`
}
