package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/orghub/internal/namespace/domain"
	"github.com/smallbiznis/orghub/pkg/db"
	"gorm.io/gorm"
)

type service struct {
	db   *gorm.DB
	repo domain.Repository
}

func NewService(conn *gorm.DB, repo domain.Repository) domain.Service {
	return &service{db: conn, repo: repo}
}

func (s *service) Register(ctx context.Context, rawSlug string, kind domain.Kind, entityID snowflake.ID) error {
	normalized, err := NormalizeSlug(rawSlug)
	if err != nil {
		return err
	}
	if !kind.Valid() {
		return domain.ErrInvalidKind
	}

	now := time.Now().UTC()
	err = s.repo.Insert(ctx, domain.Entry{
		Slug:      normalized,
		Kind:      kind,
		EntityID:  entityID,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if db.IsDuplicateKeyErr(err) {
		return domain.ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("register slug %q: %w", normalized, err)
	}
	return nil
}

func (s *service) Resolve(ctx context.Context, rawSlug string) (*domain.Entry, error) {
	normalized := strings.ToLower(strings.TrimSpace(rawSlug))
	if normalized == "" {
		return nil, domain.ErrInvalidSlug
	}

	entry, err := s.repo.FindBySlug(ctx, normalized)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrSlugNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve slug %q: %w", normalized, err)
	}
	return entry, nil
}

func (s *service) Rename(ctx context.Context, oldSlug, newSlug string, entityID snowflake.ID) error {
	oldNormalized := strings.ToLower(strings.TrimSpace(oldSlug))
	if oldNormalized == "" {
		return domain.ErrInvalidSlug
	}
	newNormalized, err := NormalizeSlug(newSlug)
	if err != nil {
		return err
	}
	if oldNormalized == newNormalized {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return MoveSlug(ctx, s.repo.WithTx(tx), oldNormalized, newNormalized, entityID)
	})
}

// MoveSlug frees oldSlug and claims newSlug with a single guarded
// UPDATE: the primary key rejects a taken target and a zero row count
// distinguishes a missing slug from one held by another entity. Both
// slugs must already be normalized. Entity services call it with a
// tx-scoped repository so the registry move and the entity row update
// commit or roll back together.
func MoveSlug(ctx context.Context, repo domain.Repository, oldSlug, newSlug string, entityID snowflake.ID) error {
	moved, err := repo.UpdateSlug(ctx, oldSlug, newSlug, entityID)
	if db.IsDuplicateKeyErr(err) {
		return domain.ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("rename slug %q: %w", oldSlug, err)
	}
	if moved == 0 {
		if _, err := repo.FindBySlug(ctx, oldSlug); errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrSlugNotFound
		}
		return domain.ErrNotSlugOwner
	}
	return nil
}

// NormalizeSlug lowercases and validates a slug for registration.
// Hyphens are legal in both user and organization slugs; nothing about
// a slug's shape ever decides its kind.
func NormalizeSlug(raw string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" || !slug.IsSlug(normalized) {
		return "", domain.ErrInvalidSlug
	}
	return normalized, nil
}
