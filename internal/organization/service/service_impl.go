package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	gosimpleslug "github.com/gosimple/slug"
	membershipdomain "github.com/smallbiznis/orghub/internal/membership/domain"
	namespacedomain "github.com/smallbiznis/orghub/internal/namespace/domain"
	namespaceservice "github.com/smallbiznis/orghub/internal/namespace/service"
	"github.com/smallbiznis/orghub/internal/organization/domain"
	"github.com/smallbiznis/orghub/internal/role"
	"github.com/smallbiznis/orghub/pkg/db"
	"gorm.io/gorm"
)

type service struct {
	db         *gorm.DB
	repo       domain.Repository
	namespaces namespacedomain.Repository
	registry   namespacedomain.Service
	members    membershipdomain.Repository
	genID      *snowflake.Node
}

func NewService(
	conn *gorm.DB,
	repo domain.Repository,
	namespaces namespacedomain.Repository,
	registry namespacedomain.Service,
	members membershipdomain.Repository,
	genID *snowflake.Node,
) domain.Service {
	return &service{
		db:         conn,
		repo:       repo,
		namespaces: namespaces,
		registry:   registry,
		members:    members,
		genID:      genID,
	}
}

func (s *service) Create(ctx context.Context, creatorID snowflake.ID, req domain.CreateOrganizationRequest) (*domain.Organization, error) {
	if creatorID == 0 {
		return nil, domain.ErrInvalidUser
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidName
	}

	raw := req.Slug
	if strings.TrimSpace(raw) == "" {
		raw = gosimpleslug.Make(name)
	}
	orgSlug, err := namespaceservice.NormalizeSlug(raw)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	orgID := s.genID.Generate()
	org := domain.Organization{
		ID:          orgID,
		Slug:        orgSlug,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		Website:     strings.TrimSpace(req.Website),
		Location:    strings.TrimSpace(req.Location),
		Email:       strings.TrimSpace(req.Email),
		IsPublic:    req.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Slug claim, org row and the creator's Owner membership commit
		// or roll back together.
		if err := s.namespaces.WithTx(tx).Insert(ctx, namespacedomain.Entry{
			Slug:      orgSlug,
			Kind:      namespacedomain.KindOrganization,
			EntityID:  orgID,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return namespacedomain.ErrSlugTaken
			}
			return fmt.Errorf("claim organization slug: %w", err)
		}

		if err := s.repo.WithTx(tx).Create(ctx, org); err != nil {
			return fmt.Errorf("create organization: %w", err)
		}

		if err := s.members.WithTx(tx).Insert(ctx, membershipdomain.Membership{
			ID:        s.genID.Generate(),
			OrgID:     orgID,
			UserID:    creatorID,
			Role:      role.Owner,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			return fmt.Errorf("add creator membership: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return &org, nil
}

func (s *service) GetByID(ctx context.Context, id snowflake.ID) (*domain.Organization, error) {
	org, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrOrgNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return org, nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	entry, err := s.registry.Resolve(ctx, slug)
	if errors.Is(err, namespacedomain.ErrSlugNotFound) {
		return nil, domain.ErrOrgNotFound
	}
	if err != nil {
		return nil, err
	}
	if entry.Kind != namespacedomain.KindOrganization {
		return nil, domain.ErrNotOrgEntity
	}
	return s.GetByID(ctx, entry.EntityID)
}

func (s *service) Update(ctx context.Context, id snowflake.ID, req domain.UpdateOrganizationRequest) (*domain.Organization, error) {
	org, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		org.Name = name
	}
	if req.Description != nil {
		org.Description = strings.TrimSpace(*req.Description)
	}
	if req.Website != nil {
		org.Website = strings.TrimSpace(*req.Website)
	}
	if req.Location != nil {
		org.Location = strings.TrimSpace(*req.Location)
	}
	if req.Email != nil {
		org.Email = strings.TrimSpace(*req.Email)
	}
	if req.IsPublic != nil {
		org.IsPublic = *req.IsPublic
	}
	org.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, *org); err != nil {
		return nil, fmt.Errorf("update organization: %w", err)
	}
	return org, nil
}

func (s *service) Rename(ctx context.Context, id snowflake.ID, newSlug string) (*domain.Organization, error) {
	org, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	normalized, err := namespaceservice.NormalizeSlug(newSlug)
	if err != nil {
		return nil, err
	}

	if normalized == org.Slug {
		return org, nil
	}

	oldSlug := org.Slug
	org.Slug = normalized
	org.UpdatedAt = time.Now().UTC()

	// The registry move and the row rewrite commit together; a failure
	// in either leaves both on the old slug.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := namespaceservice.MoveSlug(ctx, s.namespaces.WithTx(tx), oldSlug, normalized, org.ID); err != nil {
			return err
		}
		if err := s.repo.WithTx(tx).Update(ctx, *org); err != nil {
			return fmt.Errorf("update organization slug: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return org, nil
}

func (s *service) ListByUser(ctx context.Context, userID snowflake.ID) ([]domain.OrganizationListItem, error) {
	if userID == 0 {
		return nil, domain.ErrInvalidUser
	}
	items, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	return items, nil
}
