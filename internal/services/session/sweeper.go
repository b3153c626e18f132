package session

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"scheme-assistant/internal/utils"
)

// Sweeper runs the idle-session sweep on a fixed interval, independently
// of any turn.
type Sweeper struct {
	store    *Store
	interval time.Duration
	cron     *cron.Cron
}

// NewSweeper creates a sweeper for the store.
func NewSweeper(store *Store, interval time.Duration) *Sweeper {
	return &Sweeper{
		store:    store,
		interval: interval,
		cron:     cron.New(),
	}
}

// Start schedules the sweep and runs it until the context is cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	spec := fmt.Sprintf("@every %s", s.interval)
	if _, err := s.cron.AddFunc(spec, func() {
		s.store.Sweep(time.Now().UTC())
	}); err != nil {
		return fmt.Errorf("failed to schedule session sweep: %w", err)
	}

	s.cron.Start()
	utils.GetLogger().Info("session sweeper started",
		zap.Duration("interval", s.interval),
	)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts the scheduler. In-flight sweeps finish.
func (s *Sweeper) Stop() {
	stopCtx := s.cron.Stop()
	<-stopCtx.Done()
}
