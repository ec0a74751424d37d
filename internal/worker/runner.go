package worker

import (
	"context"
	"sync"
	"time"

	"matatubook/internal/usecase"

	"go.uber.org/zap"
)

const (
	expiryInterval    = 1 * time.Minute
	reconcileInterval = 2 * time.Minute
	completeInterval  = 30 * time.Minute
	noShowInterval    = 30 * time.Minute
	reminderInterval  = 24 * time.Hour
	cleanupInterval   = 24 * time.Hour

	// Read notifications older than this are deleted by the cleanup job.
	notificationRetention = 30 * 24 * time.Hour
)

// Runner drives the periodic jobs: expiring unpaid bookings, reconciling
// payments whose callback never arrived, completing departed trips, marking
// no-shows, sending departure reminders, and pruning old notifications.
type Runner struct {
	service *usecase.Service
	log     *zap.Logger
	wg      sync.WaitGroup
}

func NewRunner(service *usecase.Service, log *zap.Logger) *Runner {
	return &Runner{
		service: service,
		log:     log.With(zap.String("component", "worker")),
	}
}

// Start launches the job loops. They stop when ctx is cancelled; Wait blocks
// until they have all returned.
func (r *Runner) Start(ctx context.Context) {
	r.spawn(ctx, "release_expired_bookings", expiryInterval, r.releaseExpiredBookings)
	r.spawn(ctx, "reconcile_payments", reconcileInterval, r.reconcilePayments)
	r.spawn(ctx, "complete_past_trips", completeInterval, r.completePastTrips)
	r.spawn(ctx, "mark_no_shows", noShowInterval, r.markNoShows)
	r.spawn(ctx, "trip_reminders", reminderInterval, r.sendTripReminders)
	r.spawn(ctx, "cleanup_notifications", cleanupInterval, r.cleanupNotifications)

	r.log.Info("Background workers started")
}

func (r *Runner) Wait() {
	r.wg.Wait()
}

func (r *Runner) spawn(ctx context.Context, name string, interval time.Duration, job func(context.Context)) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				r.log.Info("Worker stopped", zap.String("job", name))
				return
			case <-ticker.C:
				job(ctx)
			}
		}
	}()
}

func (r *Runner) releaseExpiredBookings(ctx context.Context) {
	released, err := r.service.Booking.ReleaseExpired(ctx)
	if err != nil {
		r.log.Error("Failed to release expired bookings", zap.Error(err))
		return
	}
	if released > 0 {
		r.log.Info("Expired bookings released", zap.Int("count", released))
	}
}

func (r *Runner) reconcilePayments(ctx context.Context) {
	finalized, err := r.service.Payment.ReconcilePending(ctx)
	if err != nil {
		r.log.Error("Failed to reconcile payments", zap.Error(err))
		return
	}
	if finalized > 0 {
		r.log.Info("Stale payments reconciled", zap.Int("count", finalized))
	}
}

func (r *Runner) completePastTrips(ctx context.Context) {
	completed, err := r.service.Trip.CompletePastTrips(ctx)
	if err != nil {
		r.log.Error("Failed to complete past trips", zap.Error(err))
		return
	}
	if completed > 0 {
		r.log.Info("Past trips completed", zap.Int64("count", completed))
	}
}

func (r *Runner) markNoShows(ctx context.Context) {
	marked, err := r.service.Booking.MarkNoShows(ctx)
	if err != nil {
		r.log.Error("Failed to mark no-show bookings", zap.Error(err))
		return
	}
	if marked > 0 {
		r.log.Info("No-show bookings marked", zap.Int64("count", marked))
	}
}

func (r *Runner) sendTripReminders(ctx context.Context) {
	reminded, err := r.service.Booking.SendTripReminders(ctx)
	if err != nil {
		r.log.Error("Failed to send trip reminders", zap.Error(err))
		return
	}
	if reminded > 0 {
		r.log.Info("Trip reminders sent", zap.Int("count", reminded))
	}
}

func (r *Runner) cleanupNotifications(ctx context.Context) {
	deleted, err := r.service.Notification.CleanupRead(ctx, notificationRetention)
	if err != nil {
		r.log.Error("Failed to clean up notifications", zap.Error(err))
		return
	}
	if deleted > 0 {
		r.log.Info("Old notifications deleted", zap.Int64("count", deleted))
	}
}
