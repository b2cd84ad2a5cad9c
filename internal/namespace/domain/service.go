package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	// Register claims slug for the given entity. The claim is atomic:
	// of any number of concurrent registrations for the same slug,
	// exactly one succeeds and the rest fail with ErrSlugTaken.
	Register(ctx context.Context, slug string, kind Kind, entityID snowflake.ID) error
	// Resolve classifies a slug into the entity it denotes.
	Resolve(ctx context.Context, slug string) (*Entry, error)
	// Rename frees oldSlug and claims newSlug in one atomic step; there
	// is no window in which neither or both resolve.
	Rename(ctx context.Context, oldSlug, newSlug string, entityID snowflake.ID) error
}

var (
	ErrInvalidSlug  = errors.New("invalid_slug")
	ErrInvalidKind  = errors.New("invalid_kind")
	ErrSlugTaken    = errors.New("slug_taken")
	ErrSlugNotFound = errors.New("slug_not_found")
	ErrNotSlugOwner = errors.New("not_slug_owner")
)
