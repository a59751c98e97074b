package sched

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Sweeper drops expired entries and reports how many were removed.
type Sweeper interface {
	Sweep() int
}

// SweepWorker periodically evicts expired page state from an in-process store.
type SweepWorker struct {
	interval time.Duration
	store    Sweeper
	log      *zerolog.Logger
}

func NewSweepWorker(interval time.Duration, store Sweeper, logger *zerolog.Logger) *SweepWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	compLog := logger.With().Str("component", "SweepWorker").Logger()
	return &SweepWorker{
		interval: interval,
		store:    store,
		log:      &compLog,
	}
}

func (w *SweepWorker) Run(ctx context.Context) error {
	w.log.Info().Dur("interval", w.interval).Msg("Starting sweep worker")
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Stopping sweep worker")
			return ctx.Err()
		case <-ticker.C:
			if n := w.store.Sweep(); n > 0 {
				w.log.Debug().Int("count", n).Msg("expired page states removed")
			}
		}
	}
}
