package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	namespacedomain "github.com/smallbiznis/orghub/internal/namespace/domain"
	namespaceservice "github.com/smallbiznis/orghub/internal/namespace/service"
	"github.com/smallbiznis/orghub/internal/user/domain"
	"github.com/smallbiznis/orghub/pkg/db"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type service struct {
	db         *gorm.DB
	repo       domain.Repository
	namespaces namespacedomain.Repository
	registry   namespacedomain.Service
	genID      *snowflake.Node
}

func NewService(
	conn *gorm.DB,
	repo domain.Repository,
	namespaces namespacedomain.Repository,
	registry namespacedomain.Service,
	genID *snowflake.Node,
) domain.Service {
	return &service{
		db:         conn,
		repo:       repo,
		namespaces: namespaces,
		registry:   registry,
		genID:      genID,
	}
}

func (s *service) Create(ctx context.Context, req domain.CreateUserRequest) (*domain.User, error) {
	username, err := namespaceservice.NormalizeSlug(req.Username)
	if err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, domain.ErrInvalidEmail
	}

	now := time.Now().UTC()
	userID := s.genID.Generate()
	u := domain.User{
		ID:        userID,
		Username:  username,
		Name:      strings.TrimSpace(req.Name),
		Email:     email,
		Bio:       strings.TrimSpace(req.Bio),
		Location:  strings.TrimSpace(req.Location),
		Website:   strings.TrimSpace(req.Website),
		AvatarURL: strings.TrimSpace(req.AvatarURL),
		IsActive:  true,
		Settings:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Username claim and user row commit or roll back together.
		if err := s.namespaces.WithTx(tx).Insert(ctx, namespacedomain.Entry{
			Slug:      username,
			Kind:      namespacedomain.KindUser,
			EntityID:  userID,
			CreatedAt: now,
			UpdatedAt: now,
		}); err != nil {
			if db.IsDuplicateKeyErr(err) {
				return namespacedomain.ErrSlugTaken
			}
			return fmt.Errorf("claim username: %w", err)
		}

		if err := s.repo.WithTx(tx).Create(ctx, u); err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &u, nil
}

func (s *service) GetByID(ctx context.Context, id snowflake.ID) (*domain.User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *service) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	entry, err := s.registry.Resolve(ctx, username)
	if errors.Is(err, namespacedomain.ErrSlugNotFound) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if entry.Kind != namespacedomain.KindUser {
		return nil, domain.ErrNotUserEntity
	}
	return s.GetByID(ctx, entry.EntityID)
}

func (s *service) UpdateProfile(ctx context.Context, id snowflake.ID, req domain.UpdateProfileRequest) (*domain.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		u.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, domain.ErrInvalidEmail
		}
		u.Email = email
	}
	if req.Bio != nil {
		u.Bio = strings.TrimSpace(*req.Bio)
	}
	if req.Location != nil {
		u.Location = strings.TrimSpace(*req.Location)
	}
	if req.Website != nil {
		u.Website = strings.TrimSpace(*req.Website)
	}
	if req.AvatarURL != nil {
		u.AvatarURL = strings.TrimSpace(*req.AvatarURL)
	}
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	u.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, *u); err != nil {
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func (s *service) Rename(ctx context.Context, id snowflake.ID, newUsername string) (*domain.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	normalized, err := namespaceservice.NormalizeSlug(newUsername)
	if err != nil {
		return nil, err
	}

	if normalized == u.Username {
		return u, nil
	}

	oldUsername := u.Username
	u.Username = normalized
	u.UpdatedAt = time.Now().UTC()

	// The registry move and the row rewrite commit together; a failure
	// in either leaves both on the old slug.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := namespaceservice.MoveSlug(ctx, s.namespaces.WithTx(tx), oldUsername, normalized, u.ID); err != nil {
			return err
		}
		if err := s.repo.WithTx(tx).Update(ctx, *u); err != nil {
			return fmt.Errorf("update username: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (s *service) UpdateSettings(ctx context.Context, id snowflake.ID, settings map[string]any) (*domain.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	merged := datatypes.JSONMap{}
	for k, v := range u.Settings {
		merged[k] = v
	}
	for k, v := range settings {
		merged[k] = v
	}
	u.Settings = merged
	u.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, *u); err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	return u, nil
}
