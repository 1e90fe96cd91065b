package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/Tiliavir/autoclock/internal/logger"
)

// MaxStopAttempts bounds how often the most recent entry is queried while
// waiting for a running timer to stop.
const MaxStopAttempts = 5

// TimerReconciler makes sure no timer is running before a new entry is
// logged.
type TimerReconciler struct {
	gateway Gateway
	log     logger.Logger
	now     func() time.Time
	delay   time.Duration
}

// NewTimerReconciler creates a TimerReconciler. delay is waited between
// attempts; zero retries immediately.
func NewTimerReconciler(gateway Gateway, log logger.Logger, now func() time.Time, delay time.Duration) *TimerReconciler {
	if now == nil {
		now = time.Now
	}
	return &TimerReconciler{gateway: gateway, log: log, now: now, delay: delay}
}

// EnsureStopped stops a running timer if there is one and returns the end of
// the most recent entry since the given time, or nil if there is no entry.
// It fails with ErrRetryExhausted if the timer still runs after
// MaxStopAttempts queries.
func (r *TimerReconciler) EnsureStopped(ctx context.Context, since time.Time) (*time.Time, error) {
	for attempt := 1; attempt <= MaxStopAttempts; attempt++ {
		entry, err := r.gateway.MostRecentEntry(ctx, since)
		if err != nil {
			return nil, fmt.Errorf("fetching most recent entry: %w", err)
		}
		if entry == nil {
			return nil, nil
		}
		if !entry.Running() {
			return entry.End, nil
		}
		if attempt == MaxStopAttempts {
			break
		}

		r.log.Info("Timer %q is running (attempt %d/%d), stopping it", entry.Description, attempt, MaxStopAttempts)
		if err := r.gateway.StopRunningTimer(ctx, r.now()); err != nil {
			return nil, fmt.Errorf("stopping running timer: %w", err)
		}
		if err := r.wait(ctx); err != nil {
			return nil, err
		}
	}
	r.log.Error("Timer still running after %d attempts", MaxStopAttempts)
	return nil, ErrRetryExhausted
}

func (r *TimerReconciler) wait(ctx context.Context) error {
	if r.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(r.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
