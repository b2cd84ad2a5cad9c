package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	gosimpleslug "github.com/gosimple/slug"
	namespaceservice "github.com/smallbiznis/orghub/internal/namespace/service"
	"github.com/smallbiznis/orghub/internal/project/domain"
	"github.com/smallbiznis/orghub/pkg/db"
	"github.com/smallbiznis/orghub/pkg/db/pagination"
	"gorm.io/gorm"
)

type service struct {
	repo  domain.Repository
	genID *snowflake.Node
}

func NewService(repo domain.Repository, genID *snowflake.Node) domain.Service {
	return &service{repo: repo, genID: genID}
}

func (s *service) Create(ctx context.Context, req domain.CreateProjectRequest) (*domain.Project, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, domain.ErrInvalidProjectName
	}

	raw := req.Slug
	if strings.TrimSpace(raw) == "" {
		raw = gosimpleslug.Make(name)
	}
	projectSlug, err := namespaceservice.NormalizeSlug(raw)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	p := domain.Project{
		ID:          s.genID.Generate(),
		OwnerID:     req.OwnerID,
		OwnerKind:   req.OwnerKind,
		Slug:        projectSlug,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		IsPublic:    req.IsPublic,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, p); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrProjectSlugTaken
		}
		return nil, fmt.Errorf("create project: %w", err)
	}
	return &p, nil
}

func (s *service) GetByID(ctx context.Context, id snowflake.ID) (*domain.Project, error) {
	p, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func (s *service) GetByOwnerAndSlug(ctx context.Context, ownerID snowflake.ID, slug string) (*domain.Project, error) {
	normalized := strings.ToLower(strings.TrimSpace(slug))
	p, err := s.repo.FindByOwnerAndSlug(ctx, ownerID, normalized)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrProjectNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

func (s *service) ListByOwner(ctx context.Context, ownerID snowflake.ID, page pagination.Params) (*pagination.Page[domain.Project], error) {
	projects, total, err := s.repo.ListByOwner(ctx, ownerID, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return &pagination.Page[domain.Project]{Items: projects, Total: total}, nil
}

func (s *service) Delete(ctx context.Context, id snowflake.ID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if deleted == 0 {
		return domain.ErrProjectNotFound
	}
	return nil
}
