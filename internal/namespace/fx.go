package namespace

import (
	"github.com/smallbiznis/orghub/internal/namespace/repository"
	"github.com/smallbiznis/orghub/internal/namespace/service"
	"go.uber.org/fx"
)

var Module = fx.Module("namespace.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
