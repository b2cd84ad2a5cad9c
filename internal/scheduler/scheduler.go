// Package scheduler runs the background maintenance loop. Its only job
// today is expiring overdue invitations; reads already expire lazily,
// so the sweep exists to keep the table honest without traffic.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/orghub/internal/config"
	invitationdomain "github.com/smallbiznis/orghub/internal/invitation/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("scheduler: missing dependency")

type Params struct {
	fx.In

	Log           *zap.Logger
	InvitationSvc invitationdomain.Service
	Policy        *config.InviteConfigHolder
}

type Scheduler struct {
	log           *zap.Logger
	invitationSvc invitationdomain.Service
	policy        *config.InviteConfigHolder
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.InvitationSvc == nil || p.Policy == nil {
		return nil, ErrInvalidConfig
	}
	return &Scheduler{
		log:           p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		invitationSvc: p.InvitationSvc,
		policy:        p.Policy,
	}, nil
}

// RunOnce executes a single sweep pass.
func (s *Scheduler) RunOnce(parent context.Context) error {
	ctx, cancel := context.WithTimeout(parent, 30*time.Second)
	defer cancel()

	start := time.Now()
	expired, err := s.invitationSvc.SweepExpired(ctx)
	if err != nil {
		return err
	}
	if expired > 0 {
		s.log.Info("expired overdue invitations",
			zap.Int64("count", expired),
			zap.Duration("took", time.Since(start)),
		)
	}
	return nil
}

// RunForever sweeps on the configured interval until ctx is done. The
// interval is re-read each tick so a policy reload takes effect on the
// next cycle.
func (s *Scheduler) RunForever(ctx context.Context) {
	for {
		if err := s.RunOnce(ctx); err != nil && !errors.Is(err, context.Canceled) {
			s.log.Warn("sweep failed", zap.Error(err))
		}

		timer := time.NewTimer(s.policy.Get().SweepInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}
