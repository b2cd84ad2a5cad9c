package migration

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/orghub/internal/config"
	"github.com/smallbiznis/orghub/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, node *snowflake.Node) error {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}

		if err := RunMigrations(sqlDB, cfg.DBType); err != nil {
			return err
		}

		if cfg.SeedBootstrap {
			return seed.EnsureDefaultOrgAndAdmin(conn, node)
		}
		return nil
	}),
)
