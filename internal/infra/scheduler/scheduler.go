package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Sweeper runs one full announcement pass over all birthday records.
type Sweeper interface {
	Sweep(ctx context.Context) error
}

// AnnouncementScheduler drives the periodic birthday sweep. The tick interval
// only has to comfortably undercut one UTC day; the per-year marker on each
// record is what actually prevents duplicate announcements.
type AnnouncementScheduler struct {
	cronEngine    *cron.Cron
	sweeper       Sweeper
	logger        *logrus.Entry
	cronSpecSweep string
}

func NewAnnouncementScheduler(sweeper Sweeper, logger *logrus.Entry, cronSpecSweep string) *AnnouncementScheduler {
	return &AnnouncementScheduler{
		// Due-ness is decided against UTC today, so ticks follow UTC as well.
		cronEngine:    cron.New(cron.WithLocation(time.UTC)),
		sweeper:       sweeper,
		logger:        logger,
		cronSpecSweep: cronSpecSweep,
	}
}

func (s *AnnouncementScheduler) Start() error {
	_, err := s.cronEngine.AddFunc(s.cronSpecSweep, func() {
		s.logger.Info("Cron job triggered for birthday sweep")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if err := s.sweeper.Sweep(ctx); err != nil {
			s.logger.WithError(err).Error("Birthday sweep failed; state untouched, retrying on next tick")
		}
	})
	if err != nil {
		return fmt.Errorf("add birthday sweep cron job: %w", err)
	}

	s.cronEngine.Start()
	s.logger.WithField("cron_spec", s.cronSpecSweep).Info("Announcement scheduler started")
	return nil
}

func (s *AnnouncementScheduler) Stop() {
	s.logger.Info("Stopping announcement scheduler...")
	ctx := s.cronEngine.Stop() // Stops scheduling new runs, waits for a running sweep.
	<-ctx.Done()
	s.logger.Info("Announcement scheduler gracefully stopped")
}
