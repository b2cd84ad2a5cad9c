// Package owner resolves URL-style paths to the entities they denote.
// Classification is always a registry lookup; the shape of a slug says
// nothing about what it points at.
package owner

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/snowflake"
	namespacedomain "github.com/smallbiznis/orghub/internal/namespace/domain"
	projectdomain "github.com/smallbiznis/orghub/internal/project/domain"
)

// Ref is a resolved owner: a user or an organization plus the slug it
// was reached through.
type Ref struct {
	Slug     string               `json:"slug"`
	Kind     namespacedomain.Kind `json:"kind"`
	EntityID snowflake.ID         `json:"entity_id"`
}

// Nested pairs an owner with one of its projects.
type Nested struct {
	Owner   Ref                   `json:"owner"`
	Project *projectdomain.Project `json:"project"`
}

var ErrOwnerNotFound = errors.New("owner_not_found")

type Service interface {
	// ResolveOwner classifies slug into the user or organization that
	// holds it.
	ResolveOwner(ctx context.Context, slug string) (*Ref, error)
	// ResolveNested resolves ownerSlug, then projectSlug within that
	// owner's project namespace.
	ResolveNested(ctx context.Context, ownerSlug, projectSlug string) (*Nested, error)
}

type service struct {
	registry namespacedomain.Service
	projects projectdomain.Service
}

func NewService(registry namespacedomain.Service, projects projectdomain.Service) Service {
	return &service{registry: registry, projects: projects}
}

func (s *service) ResolveOwner(ctx context.Context, slug string) (*Ref, error) {
	entry, err := s.registry.Resolve(ctx, slug)
	if errors.Is(err, namespacedomain.ErrSlugNotFound) {
		return nil, ErrOwnerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve owner: %w", err)
	}
	return &Ref{Slug: entry.Slug, Kind: entry.Kind, EntityID: entry.EntityID}, nil
}

func (s *service) ResolveNested(ctx context.Context, ownerSlug, projectSlug string) (*Nested, error) {
	ref, err := s.ResolveOwner(ctx, ownerSlug)
	if err != nil {
		return nil, err
	}
	p, err := s.projects.GetByOwnerAndSlug(ctx, ref.EntityID, projectSlug)
	if err != nil {
		return nil, err
	}
	return &Nested{Owner: *ref, Project: p}, nil
}
