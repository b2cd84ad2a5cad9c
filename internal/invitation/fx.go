package invitation

import (
	"github.com/smallbiznis/orghub/internal/invitation/repository"
	"github.com/smallbiznis/orghub/internal/invitation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invitation.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
