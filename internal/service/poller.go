package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hireline/timeline/internal/domain"
)

// Refresher is the part of TimelineService the background loops drive.
type Refresher = domain.TimelineRefresher

// RefreshPoller rebuilds the timeline on a fixed interval.
type RefreshPoller struct {
	refresher Refresher
	interval  time.Duration
	log       *logrus.Logger
}

// NewRefreshPoller creates a RefreshPoller. An interval <= 0 disables the
// periodic refreshes; Run then performs only the initial one.
func NewRefreshPoller(refresher Refresher, interval time.Duration, log *logrus.Logger) *RefreshPoller {
	return &RefreshPoller{refresher: refresher, interval: interval, log: log}
}

// Run refreshes once immediately, then on every tick until ctx is cancelled.
// Failures are logged by the service and never stop the loop.
func (p *RefreshPoller) Run(ctx context.Context) {
	p.refresh(ctx, TriggerStartup)

	if p.interval <= 0 {
		p.log.Info("periodic refresh disabled")
		return
	}

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.refresh(ctx, TriggerPoll)
		}
	}
}

func (p *RefreshPoller) refresh(ctx context.Context, trigger string) {
	if _, err := p.refresher.Refresh(ctx, trigger); err != nil && ctx.Err() == nil {
		p.log.WithError(err).WithField("trigger", trigger).Debug("scheduled refresh failed")
	}
}
