package registration

import (
	"context"
	"errors"
	"time"

	"gamearena/backend/internal/apperr"
	"gamearena/backend/internal/metrics"
	"gamearena/backend/internal/models"
	"gamearena/backend/internal/repository"

	"go.uber.org/zap"
)

// Reaper fails registrations left pending by attempts that never finished,
// for example when the process died mid-payment.
type Reaper struct {
	store   repository.Store
	after   time.Duration
	clock   func() time.Time
	metrics *metrics.Metrics
	log     *zap.Logger
}

func NewReaper(store repository.Store, after time.Duration, m *metrics.Metrics, log *zap.Logger) *Reaper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reaper{store: store, after: after, clock: time.Now, metrics: m, log: log}
}

// Sweep marks every registration pending for longer than the reap window as
// failed and returns how many it changed.
func (r *Reaper) Sweep(ctx context.Context) (int, error) {
	stale, err := r.store.Registrations().ListStalePending(ctx, r.clock().Add(-r.after))
	if err != nil {
		return 0, err
	}
	n := 0
	for _, reg := range stale {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		_, err := r.store.Registrations().UpdateStatus(ctx, reg.ID, models.PaymentFailed)
		switch {
		case err == nil:
			n++
		case errors.Is(err, apperr.ErrInvalidTransition), errors.Is(err, apperr.ErrConflict):
			// finished between the list and the update
		default:
			return n, err
		}
	}
	if n > 0 {
		r.log.Info("reaped stale registrations", zap.Int("count", n))
		r.metrics.Reaped(n)
	}
	return n, nil
}
