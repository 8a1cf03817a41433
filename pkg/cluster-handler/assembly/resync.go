package assembly

import (
	"context"
	"time"

	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/manager"
)

// Resync periodically runs ReconcileAll for each loop. It recovers resources
// whose events were missed or whose passes were abandoned on a lock timeout.
type Resync struct {
	Loops []*Loop
	// Namespace limits the resync; empty means all namespaces.
	Namespace string
	Interval  time.Duration
}

var (
	_ manager.Runnable               = (*Resync)(nil)
	_ manager.LeaderElectionRunnable = (*Resync)(nil)
)

// Start runs until ctx is done.
func (r *Resync) Start(ctx context.Context) error {
	logger := log.FromContext(ctx).WithName("resync")
	logger.Info("Starting periodic reconciliation", "interval", r.Interval, "namespace", r.Namespace)

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			r.runOnce(log.IntoContext(ctx, logger))
		}
	}
}

func (r *Resync) runOnce(ctx context.Context) {
	for _, l := range r.Loops {
		if err := l.ReconcileAll(ctx, r.Namespace); err != nil {
			log.FromContext(ctx).Error(err, "Periodic reconciliation failed", "kind", l.Operator.Kind())
		}
	}
}

// NeedLeaderElection keeps the resync on the elected replica only.
func (r *Resync) NeedLeaderElection() bool {
	return true
}
