package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/orghub/internal/authorization"
	"github.com/smallbiznis/orghub/internal/clock"
	"github.com/smallbiznis/orghub/internal/config"
	"github.com/smallbiznis/orghub/internal/follow"
	"github.com/smallbiznis/orghub/internal/invitation"
	"github.com/smallbiznis/orghub/internal/logger"
	"github.com/smallbiznis/orghub/internal/membership"
	"github.com/smallbiznis/orghub/internal/migration"
	"github.com/smallbiznis/orghub/internal/namespace"
	"github.com/smallbiznis/orghub/internal/organization"
	"github.com/smallbiznis/orghub/internal/owner"
	"github.com/smallbiznis/orghub/internal/project"
	"github.com/smallbiznis/orghub/internal/scheduler"
	"github.com/smallbiznis/orghub/internal/server"
	"github.com/smallbiznis/orghub/internal/user"
	"github.com/smallbiznis/orghub/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		clock.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		// Domains
		namespace.Module,
		user.Module,
		organization.Module,
		membership.Module,
		invitation.Module,
		project.Module,
		owner.Module,
		follow.Module,
		authorization.Module,

		// Surfaces
		server.Module,
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
