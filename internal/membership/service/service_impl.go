package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/orghub/internal/membership/domain"
	"github.com/smallbiznis/orghub/internal/role"
	"github.com/smallbiznis/orghub/pkg/db"
	"github.com/smallbiznis/orghub/pkg/db/pagination"
	"gorm.io/gorm"
)

type service struct {
	db    *gorm.DB
	repo  domain.Repository
	genID *snowflake.Node
}

func NewService(conn *gorm.DB, repo domain.Repository, genID *snowflake.Node) domain.Service {
	return &service{db: conn, repo: repo, genID: genID}
}

func (s *service) GetRole(ctx context.Context, orgID, userID snowflake.ID) (role.Role, error) {
	m, err := s.repo.Find(ctx, orgID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", domain.ErrMemberNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get role: %w", err)
	}
	return m.Role, nil
}

func (s *service) AddMember(ctx context.Context, req domain.AddMemberRequest) (*domain.Membership, error) {
	if req.OrgID == 0 || req.UserID == 0 {
		return nil, domain.ErrInvalidMember
	}
	if !role.Valid(req.Role) {
		return nil, role.ErrInvalidRole
	}

	now := time.Now().UTC()
	m := domain.Membership{
		ID:        s.genID.Generate(),
		OrgID:     req.OrgID,
		UserID:    req.UserID,
		Role:      req.Role,
		InvitedBy: req.InvitedBy,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := s.repo.Insert(ctx, m)
	if db.IsDuplicateKeyErr(err) {
		return nil, domain.ErrDuplicateMember
	}
	if err != nil {
		return nil, fmt.Errorf("add member: %w", err)
	}
	return &m, nil
}

func (s *service) ChangeRole(ctx context.Context, orgID, userID snowflake.ID, newRole role.Role) error {
	if !role.Valid(newRole) {
		return role.ErrInvalidRole
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.Find(ctx, orgID, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrMemberNotFound
		}
		if err != nil {
			return fmt.Errorf("change role: %w", err)
		}
		if current.Role == newRole {
			return nil
		}

		// Downgrading the only owner would leave the organization
		// without one; the check runs inside the same transaction.
		if current.Role == role.Owner && newRole != role.Owner {
			if err := s.guardLastOwner(ctx, repo, orgID); err != nil {
				return err
			}
		}

		updated, err := repo.UpdateRole(ctx, orgID, userID, newRole)
		if err != nil {
			return fmt.Errorf("change role: %w", err)
		}
		if updated == 0 {
			return domain.ErrMemberNotFound
		}
		return nil
	})
}

func (s *service) RemoveMember(ctx context.Context, orgID, userID snowflake.ID) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		current, err := repo.Find(ctx, orgID, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrMemberNotFound
		}
		if err != nil {
			return fmt.Errorf("remove member: %w", err)
		}

		if current.Role == role.Owner {
			if err := s.guardLastOwner(ctx, repo, orgID); err != nil {
				return err
			}
		}

		deleted, err := repo.Delete(ctx, orgID, userID)
		if err != nil {
			return fmt.Errorf("remove member: %w", err)
		}
		if deleted == 0 {
			return domain.ErrMemberNotFound
		}
		return nil
	})
}

func (s *service) ListMembers(ctx context.Context, orgID snowflake.ID, page pagination.Params) (*pagination.Page[domain.Membership], error) {
	members, total, err := s.repo.ListByOrg(ctx, orgID, page.Limit(), page.Offset())
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	return &pagination.Page[domain.Membership]{Items: members, Total: total}, nil
}

func (s *service) guardLastOwner(ctx context.Context, repo domain.Repository, orgID snowflake.ID) error {
	owners, err := repo.CountWithRole(ctx, orgID, role.Owner)
	if err != nil {
		return fmt.Errorf("count owners: %w", err)
	}
	if owners <= 1 {
		return domain.ErrLastOwner
	}
	return nil
}
