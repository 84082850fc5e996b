package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"trainhub/portal/internal/storage"
)

// Scheduler runs the portal's periodic housekeeping. The document cache has
// no TTL, so the daily report is how operators notice growth.
type Scheduler struct {
	cron  *cron.Cron
	store *storage.ObjectStore
	log   zerolog.Logger
}

func NewScheduler(store *storage.ObjectStore, log zerolog.Logger) *Scheduler {
	c := cron.New(cron.WithSeconds())
	return &Scheduler{
		cron:  c,
		store: store,
		log:   log,
	}
}

func (s *Scheduler) Start() error {
	if s.store == nil {
		return nil
	}

	if _, err := s.cron.AddFunc("0 0 6 * * *", s.reportCacheUsage); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

func (s *Scheduler) Stop() context.CancelFunc {
	_, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	go func() {
		s.cron.Stop()
		cancel()
	}()
	return cancel
}

func (s *Scheduler) reportCacheUsage() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, size, err := s.store.Stats(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("document cache usage report failed")
		return
	}

	s.log.Info().
		Int("documents", count).
		Int64("bytes", size).
		Msg("document cache usage")
}
