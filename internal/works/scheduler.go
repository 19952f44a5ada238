package works

import (
	"time"

	"github.com/roylee0704/gron"

	"workd/internal/providers"
	"workd/internal/services"
	"workd/internal/structures"
	"workd/internal/works/interfaces"
)

// Scheduler periodically sweeps the rate limiter table so fingerprint entries
// that can no longer deny anything do not accumulate forever.
type Scheduler struct {
	config  *structures.Config
	logger  providers.Logger
	limiter services.RateLimiterInterface
	cron    *gron.Cron
}

func (s *Scheduler) Init() {
	s.cron = gron.New()
	interval := s.config.RateLimit.SweepInterval
	if interval < time.Minute {
		interval = time.Hour
	}

	s.cron.AddFunc(gron.Every(interval), func() {
		removed := s.limiter.Sweep(time.Now())
		if removed > 0 {
			s.logger.Infof(providers.TypeApp, "Swept %d stale rate limiter entries, %d remain", removed, s.limiter.Size())
		}
	})

	s.cron.Start()
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func NewScheduler(config *structures.Config, logger providers.Logger, limiter services.RateLimiterInterface) interfaces.SchedulerInterface {
	return &Scheduler{
		config:  config,
		logger:  logger,
		limiter: limiter,
	}
}
