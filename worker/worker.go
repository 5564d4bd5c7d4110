package worker

import (
	"context"
	"time"

	"github.com/fox-one/pkg/logger"
)

// Worker background job
type Worker interface {
	Run(ctx context.Context) error
}

// OnWork one round of a tick worker
type OnWork func(ctx context.Context) error

// TickWorker runs OnWork every Delay until the context is done. A failed
// round is logged and retried on the next tick.
type TickWorker struct {
	Delay time.Duration
}

// StartTick blocks until ctx is done
func (w *TickWorker) StartTick(ctx context.Context, onWork OnWork) error {
	log := logger.FromContext(ctx)

	delay := w.Delay
	if delay <= 0 {
		delay = time.Second
	}

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			if err := onWork(ctx); err != nil {
				log.WithError(err).Errorln("worker round failed")
			}

			timer.Reset(delay)
		}
	}
}
