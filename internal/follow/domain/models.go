// Package domain contains the social graph model. An edge is directed:
// follower watches followee. The composite primary key makes Follow
// naturally idempotent at the constraint.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Edge is one directed follow relationship.
type Edge struct {
	FollowerID snowflake.ID `gorm:"primaryKey" json:"follower_id"`
	FolloweeID snowflake.ID `gorm:"primaryKey" json:"followee_id"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

// TableName sets the database table name.
func (Edge) TableName() string { return "follow_edges" }
