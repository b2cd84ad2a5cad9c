package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Create inserts the user and claims the username in the shared
	// namespace in one transaction.
	Create(ctx context.Context, req CreateUserRequest) (*User, error)
	GetByID(ctx context.Context, id snowflake.ID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	// UpdateProfile applies the explicit field set; identity, username
	// and creation timestamp are not touchable through it.
	UpdateProfile(ctx context.Context, id snowflake.ID, req UpdateProfileRequest) (*User, error)
	// Rename moves the account to a new username through the namespace
	// registry.
	Rename(ctx context.Context, id snowflake.ID, newUsername string) (*User, error)
	UpdateSettings(ctx context.Context, id snowflake.ID, settings map[string]any) (*User, error)
}

type CreateUserRequest struct {
	Username  string
	Name      string
	Email     string
	Bio       string
	Location  string
	Website   string
	AvatarURL string
}

// UpdateProfileRequest enumerates exactly the mutable profile fields;
// nil means "leave as is".
type UpdateProfileRequest struct {
	Name      *string
	Email     *string
	Bio       *string
	Location  *string
	Website   *string
	AvatarURL *string
	IsActive  *bool
}

var (
	ErrInvalidEmail  = errors.New("invalid_email")
	ErrUserNotFound  = errors.New("user_not_found")
	ErrNotUserEntity = errors.New("not_a_user")
)
