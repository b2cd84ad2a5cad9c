// Package seed bootstraps a fresh deployment with a default
// organization and admin user so the API is usable immediately.
package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	membershipdomain "github.com/smallbiznis/orghub/internal/membership/domain"
	namespacedomain "github.com/smallbiznis/orghub/internal/namespace/domain"
	organizationdomain "github.com/smallbiznis/orghub/internal/organization/domain"
	"github.com/smallbiznis/orghub/internal/role"
	userdomain "github.com/smallbiznis/orghub/internal/user/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	defaultOrgName    = "Main"
	defaultOrgSlug    = "main"
	defaultAdminSlug  = "admin"
	defaultAdminName  = "Administrator"
	defaultAdminEmail = "admin@orghub.local"
)

// EnsureDefaultOrgAndAdmin seeds the default organization and admin
// user. Safe to run on every startup: existing rows are left alone.
// IDs come from the shared generator so seeded rows draw from the same
// sequence as everything else.
func EnsureDefaultOrgAndAdmin(db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if node == nil {
		return errors.New("seed id generator is required")
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		admin, err := ensureUserTx(ctx, tx, node)
		if err != nil {
			return err
		}
		org, err := ensureOrgTx(ctx, tx, node)
		if err != nil {
			return err
		}
		return ensureOwnerTx(ctx, tx, node, org.ID, admin.ID)
	})
}

func ensureUserTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (userdomain.User, error) {
	var user userdomain.User
	err := tx.WithContext(ctx).
		Where("username = ?", defaultAdminSlug).
		First(&user).Error
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return user, err
	}

	now := time.Now().UTC()
	user = userdomain.User{
		ID:        node.Generate(),
		Username:  defaultAdminSlug,
		Name:      defaultAdminName,
		Email:     defaultAdminEmail,
		IsActive:  true,
		Settings:  datatypes.JSONMap{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&user).Error; err != nil {
		return user, err
	}
	return user, claimSlugTx(ctx, tx, defaultAdminSlug, namespacedomain.KindUser, user.ID, now)
}

func ensureOrgTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) (organizationdomain.Organization, error) {
	var org organizationdomain.Organization
	err := tx.WithContext(ctx).
		Where("slug = ?", defaultOrgSlug).
		First(&org).Error
	if err == nil {
		return org, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return org, err
	}

	now := time.Now().UTC()
	org = organizationdomain.Organization{
		ID:        node.Generate(),
		Slug:      defaultOrgSlug,
		Name:      defaultOrgName,
		IsPublic:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tx.WithContext(ctx).Create(&org).Error; err != nil {
		return org, err
	}
	return org, claimSlugTx(ctx, tx, defaultOrgSlug, namespacedomain.KindOrganization, org.ID, now)
}

func ensureOwnerTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, orgID, userID snowflake.ID) error {
	var member membershipdomain.Membership
	err := tx.WithContext(ctx).
		Where("org_id = ? AND user_id = ?", orgID, userID).
		First(&member).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	now := time.Now().UTC()
	member = membershipdomain.Membership{
		ID:        node.Generate(),
		OrgID:     orgID,
		UserID:    userID,
		Role:      role.Owner,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return tx.WithContext(ctx).Create(&member).Error
}

func claimSlugTx(ctx context.Context, tx *gorm.DB, slug string, kind namespacedomain.Kind, entityID snowflake.ID, now time.Time) error {
	entry := namespacedomain.Entry{
		Slug:      slug,
		Kind:      kind,
		EntityID:  entityID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return tx.WithContext(ctx).Create(&entry).Error
}
