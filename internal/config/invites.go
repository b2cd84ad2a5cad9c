package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// InviteConfig is the invitation policy: defaults applied when an
// invite request leaves a field blank, bounds enforced on all of them.
type InviteConfig struct {
	DefaultRole   string        `mapstructure:"defaultRole"`
	DefaultTTL    time.Duration `mapstructure:"defaultTTL"`
	MaxTTL        time.Duration `mapstructure:"maxTTL"`
	SweepInterval time.Duration `mapstructure:"sweepInterval"`
}

func DefaultInviteConfig() InviteConfig {
	return InviteConfig{
		DefaultRole:   "member",
		DefaultTTL:    7 * 24 * time.Hour,
		MaxTTL:        30 * 24 * time.Hour,
		SweepInterval: 10 * time.Minute,
	}
}

// InviteConfigHolder serves the current invitation policy and hot
// reloads it when the config file changes on disk.
type InviteConfigHolder struct {
	current atomic.Value // holds InviteConfig
}

func NewInviteConfigHolder() (*InviteConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("invites")
	v.SetConfigType("yml")
	v.AddConfigPath("/var/lib/orghub/config") // Volume-mounted config
	v.AddConfigPath("/etc/orghub")            // System config
	v.AddConfigPath(".")                      // Current directory (dev mode)

	v.SetEnvPrefix("ORGHUB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultInviteConfig()
	v.SetDefault("invites.defaultRole", defaults.DefaultRole)
	v.SetDefault("invites.defaultTTL", defaults.DefaultTTL)
	v.SetDefault("invites.maxTTL", defaults.MaxTTL)
	v.SetDefault("invites.sweepInterval", defaults.SweepInterval)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg InviteConfig
	if err := v.UnmarshalKey("invites", &cfg); err != nil {
		return nil, err
	}
	if err := validateInviteConfig(cfg); err != nil {
		return nil, err
	}

	holder := &InviteConfigHolder{}
	holder.current.Store(cfg)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated InviteConfig
		if err := v.UnmarshalKey("invites", &updated); err != nil {
			log.Printf("[invite-config] reload failed: %v", err)
			return
		}
		if err := validateInviteConfig(updated); err != nil {
			log.Printf("[invite-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[invite-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

// NewStaticInviteConfigHolder wraps a fixed policy, for tests and tools
// that do not watch a config file.
func NewStaticInviteConfigHolder(cfg InviteConfig) *InviteConfigHolder {
	holder := &InviteConfigHolder{}
	holder.current.Store(cfg)
	return holder
}

func (h *InviteConfigHolder) Get() InviteConfig {
	return h.current.Load().(InviteConfig)
}

func validateInviteConfig(cfg InviteConfig) error {
	if cfg.DefaultTTL <= 0 {
		return errors.New("invites.defaultTTL must be positive")
	}
	if cfg.MaxTTL < cfg.DefaultTTL {
		return errors.New("invites.maxTTL cannot be below invites.defaultTTL")
	}
	if cfg.SweepInterval <= 0 {
		return errors.New("invites.sweepInterval must be positive")
	}
	return nil
}
