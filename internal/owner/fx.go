package owner

import "go.uber.org/fx"

var Module = fx.Module("owner.service",
	fx.Provide(NewService),
)
