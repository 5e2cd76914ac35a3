package rotation

import (
	"context"
	"sync"

	"github.com/roylee0704/gron"

	"wallshift/internal/providers"
	"wallshift/internal/structures"
)

// SchedulerInterface drives the engine on the configured interval while
// the process runs in daemon mode.
type SchedulerInterface interface {
	Init()
	Stop()
}

type Scheduler struct {
	config *structures.Config
	logger providers.Logger
	engine EngineInterface
	cron   *gron.Cron
	opsMu  sync.Mutex
}

func (s *Scheduler) Init() {
	s.cron = gron.New()

	s.cron.AddFunc(gron.Every(s.config.Rotation.Interval), func() {
		s.opsMu.Lock()
		defer s.opsMu.Unlock()

		outcome := s.engine.RunRotationTick(context.Background())
		if outcome.Err != nil {
			s.logger.Errorf(providers.TypeRotate, "Rotation tick ended with error: %s", outcome.Err)
			return
		}
		s.logger.Infof(providers.TypeRotate, "Rotation tick finished: %s", outcome.Status)
	})

	s.cron.Start()
	s.logger.Infof(providers.TypeApp, "Rotation scheduled every %s", s.config.Rotation.Interval)
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func NewScheduler(config *structures.Config, logger providers.Logger, engine EngineInterface) SchedulerInterface {
	return &Scheduler{
		config: config,
		logger: logger,
		engine: engine,
	}
}
