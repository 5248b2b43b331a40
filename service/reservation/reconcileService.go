package reservation

import (
	"context"
	"log/slog"
	"time"
)

// Reconciler re-derives room occupancy from active reservations.
type Reconciler interface {
	ReconcileRooms(ctx context.Context) (int64, error)
}

type reconciler struct {
	r Repo
}

func NewReconciler(r Repo) Reconciler { return &reconciler{r: r} }

func (c *reconciler) ReconcileRooms(ctx context.Context) (int64, error) {
	return c.r.ReconcileRoomStatuses(ctx)
}

// RunReconciler runs c every interval until ctx is done.
func RunReconciler(ctx context.Context, c Reconciler, every time.Duration, log *slog.Logger) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			n, err := c.ReconcileRooms(ctx)
			if err != nil {
				log.Error("reconcile room statuses", "err", err)
				continue
			}
			if n > 0 {
				log.Info("room statuses reconciled", "updated", n)
			}
		}
	}
}
