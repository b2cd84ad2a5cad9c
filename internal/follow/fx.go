package follow

import (
	"github.com/smallbiznis/orghub/internal/follow/repository"
	"github.com/smallbiznis/orghub/internal/follow/service"
	"go.uber.org/fx"
)

var Module = fx.Module("follow.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
