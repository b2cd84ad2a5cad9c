package config

import "go.uber.org/fx"

// Module provides application and invitation-policy configuration.
var Module = fx.Module("config",
	fx.Provide(
		Load,
		NewInviteConfigHolder,
	),
)
